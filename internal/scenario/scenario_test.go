package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

func TestLoad(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "insert-above.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name != "insert-above" {
		t.Errorf("Name = %q, want insert-above", s.Name)
	}
	if s.List.Width != 300 || s.List.Height != 400 {
		t.Errorf("List = %+v, want 300x400", s.List)
	}
	if s.Items.Count != 20 || s.Items.Size != 100 {
		t.Errorf("Items = %+v, want 20 items of 100", s.Items)
	}
	var kinds []string
	for _, step := range s.Steps {
		kinds = append(kinds, step.Kind())
	}
	if diff := cmp.Diff([]string{"layout", "scroll", "insert", "remove"}, kinds); diff != "" {
		t.Errorf("step kinds (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Errorf("Load() error = nil for a missing file")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no size", "items: {count: 3}", ErrInvalidScenario},
		{"negative count", "list: {width: 1, height: 1}\nitems: {count: -1}", ErrInvalidScenario},
		{"bad binding", "list: {width: 1, height: 1}\nbinding: lazy", ErrInvalidScenario},
		{"empty step", "list: {width: 1, height: 1}\nsteps:\n  - {}", ErrInvalidScenario},
		{"bad align", "list: {width: 1, height: 1}\nsteps:\n  - scrollTo: {index: 1, align: left}", ErrInvalidScenario},
		{"insert without key", "list: {width: 1, height: 1}\nsteps:\n  - insert: {position: 0}", ErrInvalidScenario},
		{"malformed", "list: [", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTwoActionsInOneStep(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "two-actions.yaml"))
	if !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("Load() error = %v, want ErrInvalidScenario", err)
	}
	if !strings.Contains(err.Error(), "step 1") {
		t.Errorf("error %q does not name the step", err)
	}
}

func TestItemSpecs(t *testing.T) {
	s := &Scenario{Items: ItemsSpec{
		Count:        4,
		Size:         100,
		Estimate:     80,
		FullSpan:     []int{1, 9},
		StickyTop:    []int{0},
		StickyBottom: []int{3},
	}}
	want := []sim.ItemSpec{
		{Key: "k0", EstimatedSize: 80, StickyTop: true},
		{Key: "k1", EstimatedSize: 80, FullSpan: true},
		{Key: "k2", EstimatedSize: 80},
		{Key: "k3", EstimatedSize: 80, StickyBottom: true},
	}
	if diff := cmp.Diff(want, s.ItemSpecs()); diff != "" {
		t.Errorf("ItemSpecs() (-want +got):\n%s", diff)
	}
}

func TestRunInsertAbove(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "insert-above.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	res, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Steps != 4 {
		t.Errorf("Steps = %d, want 4", res.Steps)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v, want none", res.Errors)
	}
	// one inserted above, one removed above: the viewport shows the same keys
	if got := res.Snapshot.ContentOffset; got != 800 {
		t.Errorf("ContentOffset = %v, want 800", got)
	}
	if diff := cmp.Diff([]string{"k8", "k9", "k10", "k11"}, res.Snapshot.VisibleKeys()); diff != "" {
		t.Errorf("visible keys (-want +got):\n%s", diff)
	}
	if res.Binding != "sync" {
		t.Errorf("Binding = %q, want sync", res.Binding)
	}

	var scrolls int
	for _, r := range res.Events() {
		if r.Name == list.EventScroll {
			scrolls++
			if r.Step != 2 {
				t.Errorf("scroll event recorded at step %d, want 2", r.Step)
			}
		}
	}
	if scrolls != 1 {
		t.Errorf("got %d scroll events, want 1", scrolls)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Default()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSessionScrollClamps(t *testing.T) {
	sess, err := NewSession(&Scenario{List: ListSpec{Width: 300, Height: 400}, Items: ItemsSpec{Count: 20, Size: 100}})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	sess.Apply(Step{Layout: &struct{}{}})

	sess.Apply(Step{Scroll: &ScrollStep{Delta: 5000}})
	if got := sess.List.ContentOffset(); got != 1600 {
		t.Errorf("ContentOffset() = %v, want 1600", got)
	}
	to := -50.0
	sess.Apply(Step{Scroll: &ScrollStep{To: &to}})
	if got := sess.List.ContentOffset(); got != 0 {
		t.Errorf("ContentOffset() = %v, want 0", got)
	}
}

func TestSessionApplyErrors(t *testing.T) {
	sess, err := NewSession(&Scenario{List: ListSpec{Width: 300, Height: 400}, Items: ItemsSpec{Count: 5, Size: 100}})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	sess.Apply(Step{Layout: &struct{}{}})

	if err := sess.Apply(Step{}); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("Apply(empty) error = %v, want ErrInvalidScenario", err)
	}
	if got := sess.Step(); got != 1 {
		t.Errorf("Step() = %d after an invalid step, want 1", got)
	}

	err = sess.Apply(Step{ScrollTo: &ScrollToStep{Index: 12}})
	if !errors.Is(err, list.ErrInvalidIndex) {
		t.Errorf("Apply(scrollTo 12) error = %v, want ErrInvalidIndex", err)
	}
	sess.Apply(Step{Remove: &RemoveStep{Positions: []int{7}}})

	errs := sess.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() = %v, want 2", errs)
	}
	if errs[0].Step != 2 || errs[1].Step != 3 {
		t.Errorf("error steps = %d, %d, want 2, 3", errs[0].Step, errs[1].Step)
	}
}

func TestSessionResize(t *testing.T) {
	sess, err := NewSession(&Scenario{List: ListSpec{Width: 300, Height: 400}, Items: ItemsSpec{Count: 10, Size: 100}})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	sess.Apply(Step{Layout: &struct{}{}})
	sess.Apply(Step{Resize: &ResizeStep{Key: "k0", Size: 150}})

	if got := sess.List.ItemAt(1).Top(); got != 150 {
		t.Errorf("k1 top = %v, want 150", got)
	}
	if got := sess.List.ContentSize(); got != 1050 {
		t.Errorf("ContentSize() = %v, want 1050", got)
	}
}

func TestSessionDeferredBinding(t *testing.T) {
	sess, err := NewSession(&Scenario{
		List:    ListSpec{Width: 300, Height: 400},
		Items:   ItemsSpec{Count: 10, Size: 100},
		Binding: "deferred",
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	sess.Apply(Step{Layout: &struct{}{}})
	if sess.Host.Pending() == 0 {
		t.Fatalf("Pending() = 0 after layout in deferred mode")
	}
	sess.Apply(Step{FinishBinds: &FinishBindsStep{Rounds: 16}})
	if got := sess.Host.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
	if diff := cmp.Diff([]string{"k0", "k1", "k2", "k3"}, sess.List.Snapshot().VisibleKeys()); diff != "" {
		t.Errorf("visible keys (-want +got):\n%s", diff)
	}
}

func TestExampleScenariosRun(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.yaml"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no example scenarios found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			res, err := Run(context.Background(), s)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(res.Errors) != 0 {
				t.Errorf("Errors = %v, want none", res.Errors)
			}
			if res.Steps != len(s.Steps) {
				t.Errorf("Steps = %d, want %d", res.Steps, len(s.Steps))
			}
		})
	}
}

func TestResultSummary(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "insert-above.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	res, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	sum := res.Summary()
	if sum.Events[list.EventScroll] != 1 {
		t.Errorf("Events[scroll] = %d, want 1", sum.Events[list.EventScroll])
	}
	if sum.LayoutType != res.Snapshot.LayoutType || sum.ContentOffset != 800 {
		t.Errorf("Summary() = %+v", sum)
	}
	if diff := cmp.Diff([]string{"k8", "k9", "k10", "k11"}, sum.Visible); diff != "" {
		t.Errorf("Visible (-want +got):\n%s", diff)
	}
}

func TestSynthetic(t *testing.T) {
	s := Synthetic("waterfall", 3, 300, 10)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(s.Steps) != 11 {
		t.Errorf("len(Steps) = %d, want 11", len(s.Steps))
	}
	res, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v, want none", res.Errors)
	}
	if res.Snapshot.LayoutType != "waterfall" || res.Snapshot.SpanCount != 3 {
		t.Errorf("snapshot = %s span %d, want waterfall span 3", res.Snapshot.LayoutType, res.Snapshot.SpanCount)
	}
	if len(res.Snapshot.VisibleKeys()) == 0 {
		t.Errorf("no visible items after scrolling")
	}
}

func TestRecordedRoundTrip(t *testing.T) {
	sess, err := NewSession(&Scenario{
		Name:  "recorded",
		List:  ListSpec{Width: 300, Height: 400},
		Items: ItemsSpec{Count: 20, Size: 100},
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	sess.Apply(Step{Layout: &struct{}{}})
	sess.Apply(Step{Scroll: &ScrollStep{Delta: 450}})
	sess.Apply(Step{})
	sess.Apply(Step{Insert: &InsertStep{Position: 2, Key: "n0", Size: 50}})

	data, err := sess.Recorded().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	sc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, data)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(sc.Steps))
	}
	res, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff(sess.List.Snapshot().VisibleKeys(), res.Snapshot.VisibleKeys()); diff != "" {
		t.Errorf("replayed visible keys (-want +got):\n%s", diff)
	}
	if res.Snapshot.ContentOffset != sess.List.ContentOffset() {
		t.Errorf("replayed offset = %v, want %v", res.Snapshot.ContentOffset, sess.List.ContentOffset())
	}
}
