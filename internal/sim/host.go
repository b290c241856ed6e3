package sim

import (
	"fmt"
	"sort"
	"sync"

	"github.com/juanibiapina/vlist/internal/list"
)

// Mode selects when binds complete
type Mode int

const (
	// Sync completes every bind before ComponentAtIndex returns
	Sync Mode = iota
	// Deferred queues binds until FinishBinds is called
	Deferred
)

// ParseMode parses "sync" or "deferred"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "sync":
		return Sync, nil
	case "deferred":
		return Deferred, nil
	}
	return Sync, fmt.Errorf("unknown binding mode %q", s)
}

func (m Mode) String() string {
	if m == Deferred {
		return "deferred"
	}
	return "sync"
}

// SizeFunc returns the main-axis size an item measures to
type SizeFunc func(index int, key string) float64

// Element implements list.Element
type Element struct {
	id     int
	key    string
	layout list.ElementLayout
	events map[string]bool
}

func (e *Element) ID() int                    { return e.id }
func (e *Element) Key() string                { return e.key }
func (e *Element) Layout() list.ElementLayout { return e.layout }
func (e *Element) HasEvent(name string) bool  { return e.events[name] }

// Record is one call the engine made into the host
type Record struct {
	Seq    int            `json:"seq"`
	Step   int            `json:"step"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name"`
	Target int            `json:"target"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Record kinds
const (
	KindEvent      = "event"
	KindBind       = "bind"
	KindEnqueue    = "enqueue"
	KindScrollInfo = "scroll_info"
	KindError      = "error"
)

type pendingBind struct {
	indexes []int
	ops     []int64
	batch   bool
}

// Host implements list.Host for tests and scenario runs. Elements are
// measured with a SizeFunc; binds complete synchronously or when
// FinishBinds is called.
type Host struct {
	mu sync.Mutex

	list *list.Container
	mode Mode
	size SizeFunc

	overrides     map[string]float64
	elementEvents map[string]bool

	nextID  int
	pool    []*Element
	live    map[int]*Element
	pending []pendingBind
	painted map[int]bool
	frames  map[int]list.Rect

	contentSize   float64
	contentOffset float64
	frameRequest  bool

	step     int
	trace    []Record
	errors   []error
	binds    int
	enqueued int
	flushes  int
}

// Option configures a Host
type Option func(*Host)

// WithMode selects sync or deferred binding
func WithMode(m Mode) Option {
	return func(h *Host) { h.mode = m }
}

// WithSize sets the size every element measures to
func WithSize(fn SizeFunc) Option {
	return func(h *Host) { h.size = fn }
}

// WithElementEvents registers listeners on every element, such as
// nodeappear and nodedisappear.
func WithElementEvents(names ...string) Option {
	return func(h *Host) {
		for _, n := range names {
			h.elementEvents[n] = true
		}
	}
}

// FixedSize measures every item to size
func FixedSize(size float64) SizeFunc {
	return func(int, string) float64 { return size }
}

// NewHost creates a host. Attach must be called before the engine runs.
func NewHost(opts ...Option) *Host {
	h := &Host{
		size:          FixedSize(100),
		overrides:     make(map[string]float64),
		elementEvents: make(map[string]bool),
		nextID:        1,
		live:          make(map[int]*Element),
		painted:       make(map[int]bool),
		frames:        make(map[int]list.Rect),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach connects the host to the engine it completes binds for
func (h *Host) Attach(c *list.Container) {
	h.list = c
}

// SetStep tags the records that follow with step
func (h *Host) SetStep(step int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.step = step
}

func (h *Host) record(kind, name string, target int, detail map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trace = append(h.trace, Record{
		Seq:    len(h.trace) + 1,
		Step:   h.step,
		Kind:   kind,
		Name:   name,
		Target: target,
		Detail: detail,
	})
}

func (h *Host) measure(index int, key string) float64 {
	h.mu.Lock()
	size, ok := h.overrides[key]
	h.mu.Unlock()
	if ok {
		return size
	}
	return h.size(index, key)
}

func (h *Host) layoutFor(index int, key string) list.ElementLayout {
	size := h.measure(index, key)
	if h.list != nil && h.list.Orientation() == list.OrientationHorizontal {
		return list.ElementLayout{Width: size}
	}
	return list.ElementLayout{Height: size}
}

// obtain reuses a pooled element or creates one
func (h *Host) obtain(index int) *Element {
	key := ""
	if h.list != nil {
		if it := h.list.ItemAt(index); it != nil {
			key = it.Key()
		}
	}
	layout := h.layoutFor(index, key)

	h.mu.Lock()
	defer h.mu.Unlock()
	var el *Element
	if n := len(h.pool); n > 0 {
		el = h.pool[n-1]
		h.pool = h.pool[:n-1]
	} else {
		el = &Element{id: h.nextID, events: h.elementEvents}
		h.nextID++
	}
	el.key = key
	el.layout = layout
	h.live[el.id] = el
	h.binds++
	return el
}

// ComponentAtIndex implements list.ComponentProvider
func (h *Host) ComponentAtIndex(index int, operationID int64, requestStateRestore bool) {
	h.record(KindBind, "component_at_index", index, map[string]any{"operation_id": operationID})
	if h.mode == Deferred {
		h.mu.Lock()
		h.pending = append(h.pending, pendingBind{indexes: []int{index}, ops: []int64{operationID}})
		h.mu.Unlock()
		return
	}
	h.complete(pendingBind{indexes: []int{index}, ops: []int64{operationID}})
}

// ComponentAtIndexes implements list.ComponentProvider
func (h *Host) ComponentAtIndexes(indices []int, operationIDs []int64) {
	h.record(KindBind, "component_at_indexes", -1, map[string]any{"indexes": append([]int{}, indices...)})
	p := pendingBind{indexes: append([]int{}, indices...), ops: append([]int64{}, operationIDs...), batch: true}
	if h.mode == Deferred {
		h.mu.Lock()
		h.pending = append(h.pending, p)
		h.mu.Unlock()
		return
	}
	h.complete(p)
}

func (h *Host) complete(p pendingBind) {
	if h.list == nil {
		return
	}
	if p.batch {
		els := make([]list.Element, len(p.indexes))
		for i, index := range p.indexes {
			els[i] = h.obtain(index)
		}
		h.list.FinishBindItemHolders(els, list.PipelineOptions{OperationIDs: p.ops, HasLayout: true})
		return
	}
	el := h.obtain(p.indexes[0])
	h.list.FinishBindItemHolder(el, list.PipelineOptions{OperationID: p.ops[0], HasLayout: true})
}

// Pending returns the number of queued bind calls
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// PendingOperations returns the operation ids waiting for completion
func (h *Host) PendingOperations() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ops []int64
	for _, p := range h.pending {
		ops = append(ops, p.ops...)
	}
	return ops
}

// FinishBinds completes the binds queued so far in issue order. Binds the
// completions trigger stay queued. It returns the number of calls
// completed.
func (h *Host) FinishBinds() int {
	h.mu.Lock()
	queued := h.pending
	h.pending = nil
	h.mu.Unlock()
	for _, p := range queued {
		h.complete(p)
	}
	return len(queued)
}

// FinishBindsReverse completes the queued binds newest first
func (h *Host) FinishBindsReverse() int {
	h.mu.Lock()
	queued := h.pending
	h.pending = nil
	h.mu.Unlock()
	for i := len(queued) - 1; i >= 0; i-- {
		h.complete(queued[i])
	}
	return len(queued)
}

// Settle completes binds until none are queued or limit rounds ran
func (h *Host) Settle(limit int) {
	for i := 0; i < limit && h.Pending() > 0; i++ {
		h.FinishBinds()
	}
}

// SetSize changes the size key measures to from its next bind on
func (h *Host) SetSize(key string, size float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overrides[key] = size
}

// Resize changes the size key measures to and reports the new layout for
// its live element.
func (h *Host) Resize(key string, size float64) {
	h.mu.Lock()
	h.overrides[key] = size
	var target *Element
	for _, el := range h.live {
		if el.key == key {
			target = el
		}
	}
	h.mu.Unlock()
	if target == nil || h.list == nil {
		return
	}
	target.layout = h.layoutFor(0, key)
	h.list.OnListItemLayoutUpdated(target)
}

// EnqueueComponent implements list.ComponentProvider
func (h *Host) EnqueueComponent(elementID int) {
	h.mu.Lock()
	el, ok := h.live[elementID]
	if ok {
		delete(h.live, elementID)
		delete(h.painted, elementID)
		delete(h.frames, elementID)
		h.pool = append(h.pool, el)
		h.enqueued++
	}
	h.mu.Unlock()
	h.record(KindEnqueue, "enqueue_component", elementID, nil)
}

func (h *Host) InsertListItemPaintingNode(listID, itemID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.painted[itemID] = true
}

func (h *Host) RemoveListItemPaintingNode(listID, itemID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.painted, itemID)
}

func (h *Host) UpdateLayoutPatching() {}

func (h *Host) UpdateContentOffsetForListContainer(listID int, contentSize, deltaX, deltaY float64, isInitial bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.contentSize = contentSize
	h.contentOffset += deltaX + deltaY
}

// UpdateScrollInfo records smooth scroll requests
func (h *Host) UpdateScrollInfo(listID int, smooth bool, targetOffset float64, scrolling bool) {
	h.record(KindScrollInfo, "update_scroll_info", listID, map[string]any{
		"smooth":    smooth,
		"target":    targetOffset,
		"scrolling": scrolling,
	})
}

func (h *Host) ListCellWillAppear(elementID int, key string) {}

func (h *Host) ListCellDisappear(elementID int, force bool, key string) {}

func (h *Host) FinishLayoutOperation(opts list.PipelineOptions) {}

func (h *Host) FlushImmediately() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushes++
}

func (h *Host) UpdateItemLayout(elementID int, frame list.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.live[elementID]; ok {
		h.frames[elementID] = frame
	}
}

// SendEvent implements list.EventSink
func (h *Host) SendEvent(targetID int, name string, detail map[string]any) {
	h.record(KindEvent, name, targetID, detail)
}

// RequestNextFrame implements list.FrameScheduler
func (h *Host) RequestNextFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameRequest = true
}

// Tick runs OnNextFrame when a frame was requested. It reports whether it
// did.
func (h *Host) Tick() bool {
	h.mu.Lock()
	requested := h.frameRequest
	h.frameRequest = false
	h.mu.Unlock()
	if !requested || h.list == nil {
		return false
	}
	h.list.OnNextFrame()
	return true
}

// OnErrorOccurred implements list.ErrorReporter
func (h *Host) OnErrorOccurred(err error) {
	h.mu.Lock()
	h.errors = append(h.errors, err)
	h.mu.Unlock()
	h.record(KindError, "error", -1, map[string]any{"message": err.Error()})
}

// Trace returns a copy of every record
func (h *Host) Trace() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Record{}, h.trace...)
}

// Events returns the records of kind event named name, or all events when
// name is empty.
func (h *Host) Events(name string) []Record {
	var out []Record
	for _, r := range h.Trace() {
		if r.Kind == KindEvent && (name == "" || r.Name == name) {
			out = append(out, r)
		}
	}
	return out
}

// ScrollInfoCalls returns the UpdateScrollInfo records
func (h *Host) ScrollInfoCalls() []Record {
	var out []Record
	for _, r := range h.Trace() {
		if r.Kind == KindScrollInfo {
			out = append(out, r)
		}
	}
	return out
}

// ClearTrace drops the recorded calls
func (h *Host) ClearTrace() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trace = nil
}

// Errors returns the errors the engine reported
func (h *Host) Errors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error{}, h.errors...)
}

// Stats counts host side work
type Stats struct {
	Binds    int `json:"binds"`
	Enqueued int `json:"enqueued"`
	Live     int `json:"live"`
	Pooled   int `json:"pooled"`
	Flushes  int `json:"flushes"`
}

func (h *Host) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Binds:    h.binds,
		Enqueued: h.enqueued,
		Live:     len(h.live),
		Pooled:   len(h.pool),
		Flushes:  h.flushes,
	}
}

// LiveElements returns the ids of elements not in the pool, sorted
func (h *Host) LiveElements() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.live))
	for id := range h.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsLive reports whether the element is out of the pool
func (h *Host) IsLive(elementID int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.live[elementID]
	return ok
}

// Frame returns the last frame pushed for an element
func (h *Host) Frame(elementID int) (list.Rect, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.frames[elementID]
	return r, ok
}

// ContentOffset is the offset the platform shows
func (h *Host) ContentOffset() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.contentOffset
}

// ContentSize is the last content size the engine flushed
func (h *Host) ContentSize() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.contentSize
}
