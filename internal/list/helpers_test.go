package list_test

import (
	"math"
	"sort"
	"testing"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

type attr struct {
	key   string
	value any
}

type fixture struct {
	c *list.Container
	h *sim.Host
}

type fixtureConfig struct {
	width, height float64
	attrs         []attr
	items         []sim.ItemSpec
	hostOpts      []sim.Option
	listOpts      []list.Option
	skipLayout    bool
}

func newFixture(t *testing.T, cfg fixtureConfig) fixture {
	t.Helper()
	h := sim.NewHost(cfg.hostOpts...)
	opts := append([]list.Option{
		list.WithListID(1),
		list.WithFrame(list.ElementLayout{Width: cfg.width, Height: cfg.height}),
	}, cfg.listOpts...)
	c := list.New(h, opts...)
	h.Attach(c)
	for _, a := range cfg.attrs {
		c.ResolveAttribute(a.key, a.value)
	}
	c.ResolveAttribute(list.AttrListPlatformInfo, sim.PlatformInfo(cfg.items))
	c.PropsUpdateFinish()
	if !cfg.skipLayout {
		c.OnLayoutChildren()
	}
	return fixture{c: c, h: h}
}

// singleList is a vertical single-column list of n items estimated and
// measured at size.
func singleList(t *testing.T, n int, size float64, attrs ...attr) fixture {
	t.Helper()
	return newFixture(t, fixtureConfig{
		width:    300,
		height:   400,
		attrs:    attrs,
		items:    sim.UniformItems(n, int(size)),
		hostOpts: []sim.Option{sim.WithSize(sim.FixedSize(size))},
	})
}

func (f fixture) update(attrs ...attr) {
	for _, a := range attrs {
		f.c.ResolveAttribute(a.key, a.value)
	}
	f.c.PropsUpdateFinish()
	f.c.OnLayoutChildren()
}

func (f fixture) scrollTo(offset float64) {
	if f.c.Orientation() == list.OrientationHorizontal {
		f.c.ScrollByPlatformContainer(offset, 0, offset, 0)
		return
	}
	f.c.ScrollByPlatformContainer(0, offset, 0, offset)
}

func (f fixture) item(t *testing.T, key string) list.ItemSnapshot {
	t.Helper()
	for _, it := range f.c.Snapshot().Items {
		if it.Key == key {
			return it
		}
	}
	t.Fatalf("no item with key %q", key)
	return list.ItemSnapshot{}
}

func attachedKeys(s list.Snapshot) []string {
	var keys []string
	for _, it := range s.Items {
		if it.Attached {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// checkInvariants verifies the properties every settled state must hold.
// preloadSpan widens the range attached items may occupy.
func checkInvariants(t *testing.T, f fixture, preloadSpan float64) {
	t.Helper()
	c := f.c
	s := c.Snapshot()

	// attached items own an element and element ids are unique
	seen := make(map[int]string)
	for _, it := range s.Items {
		if !it.Attached {
			continue
		}
		if it.ElementID < 0 {
			t.Errorf("attached item %q has no element", it.Key)
			continue
		}
		if other, ok := seen[it.ElementID]; ok {
			t.Errorf("element %d owned by %q and %q", it.ElementID, other, it.Key)
		}
		seen[it.ElementID] = it.Key
	}

	// operation id is set exactly while binding
	for i := 0; i < c.Count(); i++ {
		it := c.ItemAt(i)
		if (it.OperationID() != 0) != (it.Status() == list.StatusInBinding) {
			t.Errorf("item %q: operation id %d with status %v", it.Key(), it.OperationID(), it.Status())
		}
	}

	// indexes are a permutation of [0, count)
	if len(s.Items) != c.Count() {
		t.Errorf("snapshot has %d items, want %d", len(s.Items), c.Count())
	}
	for i, it := range s.Items {
		if it.Index != i {
			t.Errorf("item %q at position %d has index %d", it.Key, i, it.Index)
		}
	}

	// offset stays in the scrollable range
	maxOffset := math.Max(0, s.ContentSize-s.ViewportSize)
	if s.ContentOffset < -1e-6 || s.ContentOffset > maxOffset+1e-6 {
		t.Errorf("content offset %v outside [0, %v]", s.ContentOffset, maxOffset)
	}

	// pinned items are at their sticky position
	for _, it := range s.Items {
		if !it.Pinned {
			continue
		}
		natural := c.ItemAt(it.Index)
		start, end := natural.Top(), natural.Top()+natural.Height()
		if s.Orientation == "horizontal" {
			start, end = natural.Left(), natural.Left()+natural.Width()
		}
		if !(start < s.ContentOffset+1e-6 || end > s.ContentOffset+s.ViewportSize-1e-6) {
			t.Errorf("pinned item %q at [%v, %v] is not at a sticky position for offset %v", it.Key, start, end, s.ContentOffset)
		}
	}

	// nothing far outside the viewport stays attached
	lo := s.ContentOffset - preloadSpan
	hi := s.ContentOffset + s.ViewportSize + preloadSpan
	for _, it := range s.Items {
		if !it.Attached || it.Pinned {
			continue
		}
		natural := c.ItemAt(it.Index)
		start, end := natural.Top(), natural.Top()+natural.Height()
		if s.Orientation == "horizontal" {
			start, end = natural.Left(), natural.Left()+natural.Width()
		}
		if end < lo-1e-6 || start > hi+1e-6 {
			t.Errorf("item %q at [%v, %v] attached outside [%v, %v]", it.Key, start, end, lo, hi)
		}
	}

	// the host pool agrees with the attached set
	var ids []int
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	live := f.h.LiveElements()
	if f.h.Pending() == 0 && !equalInts(ids, live) {
		t.Errorf("attached elements %v, live host elements %v", ids, live)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
