package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/scenario"
)

// ReplayResult compares a fresh run of a stored scenario with the stored
// snapshot.
type ReplayResult struct {
	RunID  string           `json:"run_id"`
	Match  bool             `json:"match"`
	Diff   string           `json:"diff,omitempty"`
	Result *scenario.Result `json:"-"`
}

// LoadScenario decodes the scenario a run was recorded from
func (s *Store) LoadScenario(idOrPrefix string) (*Run, *scenario.Scenario, error) {
	run, err := s.GetRun(idOrPrefix)
	if err != nil {
		return nil, nil, err
	}
	var sc scenario.Scenario
	if err := json.Unmarshal(run.Scenario, &sc); err != nil {
		return nil, nil, fmt.Errorf("run %s has an unreadable scenario: %w", run.ID, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	return run, &sc, nil
}

// Replay runs the scenario of a stored run again. The engine is
// deterministic, so any difference from the stored snapshot is a
// regression.
func (s *Store) Replay(ctx context.Context, idOrPrefix string) (*ReplayResult, error) {
	run, sc, err := s.LoadScenario(idOrPrefix)
	if err != nil {
		return nil, err
	}
	res, err := scenario.Run(ctx, sc)
	if err != nil {
		return nil, err
	}

	out := &ReplayResult{RunID: run.ID, Result: res}
	if len(run.Snapshot) == 0 {
		return nil, fmt.Errorf("run %s has no snapshot (status %s)", run.ID, run.Status)
	}
	var stored list.Snapshot
	if err := json.Unmarshal(run.Snapshot, &stored); err != nil {
		return nil, fmt.Errorf("run %s has an unreadable snapshot: %w", run.ID, err)
	}
	out.Diff = cmp.Diff(stored, res.Snapshot, cmpopts.EquateEmpty())
	out.Match = out.Diff == ""

	Logger.Debug("replayed run", "id", run.ID, "match", out.Match)
	return out, nil
}
