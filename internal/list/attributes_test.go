package list_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/juanibiapina/vlist/internal/diff"
	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

func TestResolveAttributeForwarding(t *testing.T) {
	tests := []struct {
		key   string
		value any
		want  bool
	}{
		{list.AttrListType, "flow", false},
		{list.AttrSpanCount, 2, false},
		{list.AttrColumnCount, 2, false},
		{list.AttrMainAxisGap, 4, false},
		{list.AttrAnchorPriority, "fromEnd", false},
		{list.AttrAnchorAlign, "toBottom", false},
		{list.AttrAnchorVisibility, "show", false},
		{list.AttrPreloadBufferCount, 2, false},
		{list.AttrScrollEventThrottle, 16, false},
		{list.AttrUpperThreshold, 1, false},
		{list.AttrDebugInfoLevel, 2, false},
		{list.AttrBatchRenderStrategy, 1, false},
		{list.AttrInitialScrollIndex, 3, true},
		{list.AttrSticky, true, true},
		{list.AttrStickyOffset, 10, true},
		{list.AttrScrollOrientation, "horizontal", true},
		{list.AttrVerticalOrientation, true, true},
		{list.AttrNeedLayoutCompleteInfo, true, true},
		{list.AttrLayoutID, 1, true},
		{"background-color", "red", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := list.New(sim.NewHost())
			if got := c.ResolveAttribute(tt.key, tt.value); got != tt.want {
				t.Errorf("ResolveAttribute(%q, %v) = %v, want %v", tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestNeedsLayout(t *testing.T) {
	f := singleList(t, 10, 100)
	if f.c.NeedsLayout() {
		t.Fatalf("NeedsLayout() = true after a pass")
	}
	f.c.ResolveAttribute(list.AttrMainAxisGap, 10)
	if !f.c.NeedsLayout() {
		t.Errorf("NeedsLayout() = false after a gap change")
	}
	f.c.OnLayoutChildren()
	if f.c.NeedsLayout() {
		t.Errorf("NeedsLayout() = true after the pass")
	}
	if got := f.item(t, "k1").Frame.Y; got != 110 {
		t.Errorf("k1 Y = %v, want 110", got)
	}
}

func TestNegativePreloadCount(t *testing.T) {
	f := singleList(t, 10, 100)
	f.c.ResolveAttribute(list.AttrPreloadBufferCount, -3)

	errs := f.h.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], list.ErrNegativePreloadCount) {
		t.Errorf("Errors() = %v, want ErrNegativePreloadCount", errs)
	}
	f.c.OnLayoutChildren()
	if got := f.c.Snapshot().InPreload; len(got) != 0 {
		t.Errorf("InPreload = %v, want none", got)
	}
}

func TestInvalidDiffKeepsState(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		payload any
		wantErr error
	}{
		{"not a map", list.AttrListPlatformInfo, "garbage", diff.ErrInvalidDiff},
		{"removal out of range", list.AttrUpdateListInfo, sim.Actions(nil, []int{42}, nil), diff.ErrInvalidDiff},
		{"duplicate key", list.AttrUpdateListInfo, sim.Actions([]map[string]any{sim.InsertAction(0, "k3", 100, false)}, nil, nil), diff.ErrDuplicateKey},
		{"item keys mismatch", list.AttrListPlatformInfo, map[string]any{
			diff.KeyInsertions: []any{0},
			diff.KeyItemKeys:   []any{"a", "b"},
		}, diff.ErrInvalidDiff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := singleList(t, 10, 100)
			before := f.c.Snapshot()

			f.update(attr{tt.key, tt.payload})

			errs := f.h.Errors()
			if len(errs) != 1 || !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("Errors() = %v, want %v", errs, tt.wantErr)
			}
			if diff := cmp.Diff(before, f.c.Snapshot()); diff != "" {
				t.Errorf("state changed after a rejected diff (-before +after):\n%s", diff)
			}
		})
	}
}

func TestConsecutiveDiffsBeforeFinish(t *testing.T) {
	f := singleList(t, 5, 100)

	f.c.ResolveAttribute(list.AttrUpdateListInfo, sim.Actions([]map[string]any{sim.InsertAction(0, "a", 100, false)}, nil, nil))
	f.c.ResolveAttribute(list.AttrUpdateListInfo, sim.Actions([]map[string]any{sim.InsertAction(0, "b", 100, false)}, nil, nil))
	f.c.PropsUpdateFinish()
	f.c.OnLayoutChildren()

	var keys []string
	for i := 0; i < f.c.Count(); i++ {
		keys = append(keys, f.c.ItemAt(i).Key())
	}
	want := []string{"b", "a", "k0", "k1", "k2", "k3", "k4"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	checkInvariants(t, f, 0)
}

func TestListTypeChangeRebinds(t *testing.T) {
	f := singleList(t, 20, 100)
	binds := f.h.Stats().Binds

	f.update(attr{list.AttrListType, "flow"}, attr{list.AttrSpanCount, 2})

	if got := f.c.LayoutType(); got != list.LayoutFlow {
		t.Errorf("LayoutType() = %v, want flow", got)
	}
	if got := f.h.Stats().Binds - binds; got != 8 {
		t.Errorf("rebound %d elements, want 8", got)
	}
	if got := f.item(t, "k1").Frame; got.X != 150 || got.Y != 0 {
		t.Errorf("k1 frame = %+v, want (150, 0)", got)
	}
	checkInvariants(t, f, 0)
}

func TestSpanCountClamped(t *testing.T) {
	f := singleList(t, 4, 100, attr{list.AttrListType, "flow"}, attr{list.AttrSpanCount, 0})
	if got := f.c.Snapshot().SpanCount; got != 1 {
		t.Errorf("SpanCount = %d, want 1", got)
	}
}

func TestPreloadBuffer(t *testing.T) {
	f := singleList(t, 20, 100, attr{list.AttrPreloadBufferCount, 2})
	s := f.c.Snapshot()

	if diff := cmp.Diff([]int{4, 5}, s.InPreload); diff != "" {
		t.Errorf("InPreload (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"k0", "k1", "k2", "k3", "k4", "k5"}, attachedKeys(s)); diff != "" {
		t.Errorf("attached keys (-want +got):\n%s", diff)
	}

	f.scrollTo(1000)
	s = f.c.Snapshot()
	if diff := cmp.Diff([]int{8, 9, 14, 15}, s.InPreload); diff != "" {
		t.Errorf("InPreload after scroll (-want +got):\n%s", diff)
	}
	checkInvariants(t, f, 200)
}

func TestPreloadSection(t *testing.T) {
	f := singleList(t, 20, 100, attr{list.AttrEnablePreloadSection, true})

	if !f.h.Tick() {
		t.Fatalf("no next frame was requested after the first diff")
	}
	checkInvariants(t, f, 0)
	if f.h.Tick() {
		t.Errorf("a second frame ran without a new diff")
	}
	// every item was bound once, then recycled off screen
	if got := f.h.Stats().Binds; got != 20 {
		t.Errorf("Binds = %d, want 20", got)
	}
	if diff := cmp.Diff([]string{"k0", "k1", "k2", "k3"}, attachedKeys(f.c.Snapshot())); diff != "" {
		t.Errorf("attached keys (-want +got):\n%s", diff)
	}
}

func TestAnchorPriorityFromEnd(t *testing.T) {
	f := singleList(t, 20, 100, attr{list.AttrAnchorPriority, "fromEnd"})
	f.scrollTo(800)
	f.h.Resize("k8", 150)
	f.c.OnLayoutChildren()

	// anchoring on the last visible item keeps k11 in place
	if got := f.item(t, "k11").Frame.Y - f.c.ContentOffset(); got != 300 {
		t.Errorf("k11 viewport position = %v, want 300", got)
	}
	checkInvariants(t, f, 0)
}
