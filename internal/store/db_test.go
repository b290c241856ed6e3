package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/scenario"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInsertAndGetRun(t *testing.T) {
	st := newTestStore(t)

	run := &Run{Name: "basic", LayoutType: "single", Binding: "sync", ItemCount: 20}
	if err := st.InsertRun(run); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if run.ID == "" {
		t.Fatalf("InsertRun() left the id empty")
	}

	got, err := st.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.Status != StatusRunning || got.FinishedAt != nil {
		t.Errorf("GetRun() = status %q finished %v, want running and unfinished", got.Status, got.FinishedAt)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}

	run.StepCount = 4
	run.ContentOffset = 800
	run.ContentSize = 2000
	run.Snapshot = json.RawMessage(`{"content_offset":800}`)
	if err := st.FinishRun(run); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	got, err = st.GetRun(run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun(prefix) error = %v", err)
	}
	if got.Status != StatusFinished || got.StepCount != 4 || got.ContentOffset != 800 {
		t.Errorf("GetRun() = %+v, want finished run with 4 steps at 800", got)
	}
	if string(got.Snapshot) != `{"content_offset":800}` {
		t.Errorf("Snapshot = %s", got.Snapshot)
	}
}

func TestGetRunErrors(t *testing.T) {
	st := newTestStore(t)
	for _, id := range []string{"aaaa-1", "aaaa-2"} {
		if err := st.InsertRun(&Run{ID: id, Name: id}); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	tests := []struct {
		id      string
		wantErr error
	}{
		{"", ErrRunNotFound},
		{"zzz", ErrRunNotFound},
		{"aaaa", ErrAmbiguousRun},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if _, err := st.GetRun(tt.id); !errors.Is(err, tt.wantErr) {
				t.Errorf("GetRun(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}

	if got, err := st.GetRun("aaaa-2"); err != nil || got.ID != "aaaa-2" {
		t.Errorf("GetRun(exact) = %v, %v", got, err)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	st := newTestStore(t)
	if err := st.FinishRun(&Run{ID: "missing"}); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("FinishRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestEvents(t *testing.T) {
	st := newTestStore(t)
	run := &Run{Name: "events"}
	if err := st.InsertRun(run); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	events := []Event{
		{Seq: 1, Step: 1, Kind: "bind", Name: "component_at_index", Target: 0},
		{Seq: 2, Step: 2, Kind: "event", Name: "scroll", Target: 1, Detail: map[string]any{"scrollTop": 300.0}},
		{Seq: 3, Step: 2, Kind: "event", Name: "scrolltolower", Target: 1, Detail: map[string]any{"eventSource": 2.0}},
	}
	if err := st.InsertEvents(run.ID, events); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	got, err := st.GetEvents(run.ID, EventFilter{})
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	for i := range events {
		events[i].RunID = run.ID
	}
	if diff := cmp.Diff(events, got); diff != "" {
		t.Errorf("GetEvents() (-want +got):\n%s", diff)
	}

	filters := []struct {
		filter  EventFilter
		wantSeq []int
	}{
		{EventFilter{Name: "scroll"}, []int{2}},
		{EventFilter{Kind: "event"}, []int{2, 3}},
		{EventFilter{Kind: "bind", Name: "scroll"}, nil},
	}
	for _, tt := range filters {
		got, err := st.GetEvents(run.ID, tt.filter)
		if err != nil {
			t.Fatalf("GetEvents(%+v) error = %v", tt.filter, err)
		}
		var seqs []int
		for _, e := range got {
			seqs = append(seqs, e.Seq)
		}
		if diff := cmp.Diff(tt.wantSeq, seqs); diff != "" {
			t.Errorf("GetEvents(%+v) seqs (-want +got):\n%s", tt.filter, diff)
		}
	}

	if err := st.DeleteRun(run.ID); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	got, err = st.GetEvents(run.ID, EventFilter{})
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetEvents() after DeleteRun = %d events, want 0", len(got))
	}
}

func TestListAndPruneRuns(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		run := &Run{Name: name, StartedAt: base.Add(time.Duration(i) * time.Second)}
		if err := st.InsertRun(run); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	runs, err := st.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	var names []string
	for _, r := range runs {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"third", "second", "first"}, names); diff != "" {
		t.Errorf("ListRuns() order (-want +got):\n%s", diff)
	}

	runs, err = st.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns(1) error = %v", err)
	}
	if len(runs) != 1 || runs[0].Name != "third" {
		t.Errorf("ListRuns(1) = %v, want third", runs)
	}

	removed, err := st.PruneRuns(1)
	if err != nil {
		t.Fatalf("PruneRuns() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("PruneRuns() = %d, want 2", removed)
	}
}

func TestSaveResult(t *testing.T) {
	st := newTestStore(t)
	sc := &scenario.Scenario{
		Name:  "save",
		List:  scenario.ListSpec{Width: 300, Height: 400},
		Items: scenario.ItemsSpec{Count: 20, Size: 100},
		Steps: []scenario.Step{
			{Layout: &struct{}{}},
			{Scroll: &scenario.ScrollStep{Delta: 300}},
		},
	}
	res, err := scenario.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	id, err := st.SaveResult(sc, res)
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	run, err := st.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Name != "save" || run.StepCount != 2 || run.ContentOffset != 300 || run.ItemCount != 20 {
		t.Errorf("GetRun() = %+v", run)
	}

	var snap list.Snapshot
	if err := json.Unmarshal(run.Snapshot, &snap); err != nil {
		t.Fatalf("snapshot does not decode: %v", err)
	}
	if diff := cmp.Diff(res.Snapshot.VisibleKeys(), snap.VisibleKeys()); diff != "" {
		t.Errorf("stored snapshot visible keys (-want +got):\n%s", diff)
	}

	var stored scenario.Scenario
	if err := json.Unmarshal(run.Scenario, &stored); err != nil {
		t.Fatalf("scenario does not decode: %v", err)
	}
	if len(stored.Steps) != 2 || stored.Steps[1].Scroll == nil {
		t.Errorf("stored scenario steps = %+v", stored.Steps)
	}

	events, err := st.GetEvents(id, EventFilter{Name: list.EventScroll})
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].Step != 2 {
		t.Errorf("scroll events = %v, want one at step 2", events)
	}
	if run.EventCount != len(res.Events()) {
		t.Errorf("EventCount = %d, want %d", run.EventCount, len(res.Events()))
	}
}

func TestReplay(t *testing.T) {
	st := newTestStore(t)
	sc := scenario.Default()
	sc.Name = "replay"
	sc.Steps = append(sc.Steps, scenario.Step{Scroll: &scenario.ScrollStep{Delta: 500}})
	res, err := scenario.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	id, err := st.SaveResult(sc, res)
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	got, err := st.Replay(context.Background(), id[:8])
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !got.Match {
		t.Errorf("Replay() diff:\n%s", got.Diff)
	}
	if got.RunID != id {
		t.Errorf("RunID = %q, want %q", got.RunID, id)
	}

	// a tampered snapshot no longer matches
	if _, err := st.db.Exec(`UPDATE runs SET snapshot_json = ? WHERE id = ?`, `{"content_offset":1}`, id); err != nil {
		t.Fatalf("update snapshot: %v", err)
	}
	got, err = st.Replay(context.Background(), id)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got.Match || got.Diff == "" {
		t.Errorf("Replay() = match %v, want a diff", got.Match)
	}
}

func TestReplayUnknownRun(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.Replay(context.Background(), "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Replay() error = %v, want ErrRunNotFound", err)
	}
}
