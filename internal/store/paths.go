package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetStateDir returns the state directory for persistent data (survives reboots)
func GetStateDir() (string, error) {
	return filepath.Join(xdg.StateHome, "vlist"), nil
}

// GetDatabasePath returns the path to the SQLite database file
func GetDatabasePath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "vlist.db"), nil
}

// GetLogPath returns the path to the log file
func GetLogPath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "vlist.log"), nil
}

// EnsureStateDir creates the state directory if it doesn't exist
func EnsureStateDir() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	return stateDir, nil
}
