package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/juanibiapina/vlist/internal/diff"
	"github.com/juanibiapina/vlist/internal/list"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Sync, false},
		{"sync", Sync, false},
		{"deferred", Deferred, false},
		{"async", Sync, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func newList(h *Host, n int) *list.Container {
	c := list.New(h, list.WithListID(1), list.WithFrame(list.ElementLayout{Width: 300, Height: 400}))
	h.Attach(c)
	c.ResolveAttribute(list.AttrListPlatformInfo, PlatformInfo(UniformItems(n, 100)))
	c.PropsUpdateFinish()
	c.OnLayoutChildren()
	return c
}

func TestSyncHostBindsOnScreen(t *testing.T) {
	h := NewHost()
	c := newList(h, 10)

	if diff := cmp.Diff([]int{1, 2, 3, 4}, h.LiveElements()); diff != "" {
		t.Errorf("LiveElements() (-want +got):\n%s", diff)
	}
	if got := h.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
	if got := h.ContentSize(); got != 1000 {
		t.Errorf("ContentSize() = %v, want 1000", got)
	}
	if got := c.ItemAt(2).Element().(*Element).Key(); got != "k2" {
		t.Errorf("element key = %q, want k2", got)
	}
}

func TestDeferredHostQueuesBinds(t *testing.T) {
	h := NewHost(WithMode(Deferred))
	c := newList(h, 10)

	if h.Pending() == 0 {
		t.Fatalf("Pending() = 0, want queued binds")
	}
	ops := h.PendingOperations()
	for _, op := range ops {
		if op == 0 {
			t.Errorf("queued operation id 0")
		}
	}

	h.Settle(16)
	if got := h.Pending(); got != 0 {
		t.Fatalf("Pending() after Settle = %d, want 0", got)
	}
	if got, want := len(h.LiveElements()), len(c.Snapshot().Attached); got != want {
		t.Errorf("live elements = %d, attached = %d", got, want)
	}
}

func TestPoolReuse(t *testing.T) {
	h := NewHost()
	newList(h, 20)

	h.EnqueueComponent(2)
	h.EnqueueComponent(3)
	if h.IsLive(3) {
		t.Fatalf("IsLive(3) = true after enqueue")
	}
	if got := h.Stats().Pooled; got != 2 {
		t.Errorf("Pooled = %d, want 2", got)
	}

	el := h.obtain(5)
	if el.ID() != 3 {
		t.Errorf("obtain() reused element %d, want 3", el.ID())
	}
	if el.Key() != "k5" || el.Layout().Height != 100 {
		t.Errorf("obtain() = %q with height %v, want k5 with 100", el.Key(), el.Layout().Height)
	}
}

func TestResizeReportsLayout(t *testing.T) {
	h := NewHost()
	c := newList(h, 10)

	h.Resize("k1", 250)
	if !c.NeedsLayout() {
		t.Fatalf("NeedsLayout() = false after a resize")
	}
	c.OnLayoutChildren()
	if got := c.ItemAt(2).Top(); got != 350 {
		t.Errorf("k2 top = %v, want 350", got)
	}
}

func TestTickRunsRequestedFrame(t *testing.T) {
	h := NewHost()
	if h.Tick() {
		t.Errorf("Tick() = true without a request")
	}
	h.RequestNextFrame()
	if h.Tick() {
		t.Errorf("Tick() = true with no list attached")
	}
}

func TestTraceSteps(t *testing.T) {
	h := NewHost()
	h.SetStep(3)
	h.SendEvent(1, "scroll", map[string]any{"deltaY": 10.0})
	h.EnqueueComponent(99)

	want := []Record{
		{Seq: 1, Step: 3, Kind: KindEvent, Name: "scroll", Target: 1, Detail: map[string]any{"deltaY": 10.0}},
		{Seq: 2, Step: 3, Kind: KindEnqueue, Name: "enqueue_component", Target: 99},
	}
	if diff := cmp.Diff(want, h.Trace()); diff != "" {
		t.Errorf("Trace() (-want +got):\n%s", diff)
	}
	if got := len(h.Events("scroll")); got != 1 {
		t.Errorf("Events(scroll) = %d records, want 1", got)
	}
	h.ClearTrace()
	if got := len(h.Trace()); got != 0 {
		t.Errorf("Trace() after ClearTrace = %d records", got)
	}
}

func TestPlatformInfo(t *testing.T) {
	items := []ItemSpec{
		{Key: "a", EstimatedSize: 50, StickyTop: true},
		{Key: "b", EstimatedSize: 60, FullSpan: true},
		{Key: "c", EstimatedSize: 70, StickyBottom: true},
	}
	got := PlatformInfo(items)
	want := map[string]any{
		diff.KeyInsertions:        []any{0, 1, 2},
		diff.KeyItemKeys:          []any{"a", "b", "c"},
		diff.KeyEstimatedHeightPx: []any{50, 60, 70},
		diff.KeyFullSpan:          []any{1},
		diff.KeyStickyTop:         []any{0},
		diff.KeyStickyBottom:      []any{2},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("PlatformInfo() (-want +got):\n%s", d)
	}
}

func TestActions(t *testing.T) {
	got := Actions(
		[]map[string]any{InsertAction(0, "x", 0, true)},
		[]int{4},
		[]map[string]any{UpdateAction(2, 2, "", true)},
	)
	want := map[string]any{
		diff.KeyInsertAction: []any{map[string]any{diff.KeyPosition: 0, diff.KeyItemKey: "x", diff.KeyActionFullSpan: true}},
		diff.KeyRemoveAction: []any{4},
		diff.KeyUpdateAction: []any{map[string]any{diff.KeyFrom: 2, diff.KeyTo: 2, diff.KeyFlush: true}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Actions() (-want +got):\n%s", d)
	}
}
