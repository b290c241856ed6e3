package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// getDistinctId returns an app-specific hash of the machine id, so the raw
// id never leaves the machine. Machines without one get a random id per
// process.
func getDistinctId() string {
	id, err := machineid.ProtectedID("vlist")
	if err != nil || id == "" {
		return uuid.NewString()
	}
	return id
}
