package cmd

import (
	"os"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/telemetry"
	"github.com/juanibiapina/vlist/internal/version"
	"github.com/spf13/cobra"
)

// skipTelemetry lists commands that handle their own telemetry or shouldn't be tracked
var skipTelemetry = map[string]bool{
	"mcp":        true, // has own telemetry
	"tui":        true, // has own telemetry
	"completion": true, // shell completion
	"__complete": true, // internal completion
}

var logPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vlist",
	Short: "Virtualized list layout engine driven by scenarios",
	Long: `Run the virtualized list layout engine against a simulated host.

A scenario describes a list (viewport, layout type, items) and a sequence of
steps: layouts, scrolls, inserts, removals and scroll-to requests. vlist
runs the steps, prints the final geometry and the events the list sent, and
can store runs to inspect or replay them later.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(); err != nil {
			return err
		}

		// Track CLI command usage (skip commands with own telemetry or completion)
		name := cmd.Name()
		if skipTelemetry[name] {
			return nil
		}
		if parent := cmd.Parent(); parent != nil && parent.Name() == "completion" {
			return nil
		}
		telemetry.CLICommandStart(name)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.CLICommandEnd()
	},
}

// resolveLogPath picks the log file: --log, then VLIST_LOG, then the
// default state log when VLIST_DEBUG is set. Empty means logging is off.
func resolveLogPath() (string, error) {
	if logPath != "" {
		return logPath, nil
	}
	if p := os.Getenv("VLIST_LOG"); p != "" {
		return p, nil
	}
	if os.Getenv("VLIST_DEBUG") != "" {
		return store.GetLogPath()
	}
	return "", nil
}

// initLogging sends engine and store logs to the resolved log file
func initLogging() error {
	path, err := resolveLogPath()
	if err != nil || path == "" {
		return err
	}
	if err := list.InitLogger(path); err != nil {
		return err
	}
	store.Logger = list.Logger.With("component", "store")
	telemetry.Logger = list.Logger.With("component", "telemetry")
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	telemetry.Init()

	cmd, err := RootCmd.ExecuteC()
	if err != nil {
		telemetry.Error(err, "command_name", cmd.Name())
	}
	telemetry.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Set version for --version flag
	RootCmd.Version = version.Version

	// Don't show usage on errors - only show it when explicitly requested
	RootCmd.SilenceUsage = true

	RootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Write engine debug logs to this file")
}
