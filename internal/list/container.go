package list

import (
	"fmt"
	"time"
)

// Container is the list engine for one list element. It is not safe for
// concurrent use; the host drives it from a single thread.
type Container struct {
	host       Host
	listID     int
	frame      ElementLayout
	unitsPerPx float64

	adapter  *adapter
	children *childrenIndex
	anchor   *anchorManager
	layout   *layoutManager
	events   *eventManager

	interceptDepth int

	batchStrategy             BatchRenderStrategy
	shouldRequestStateRestore bool
	hasValidDiff              bool
	needRecycleAll            bool
	shouldFlushFinishLayout   bool
	layoutDirty               bool
}

// Option configures a Container
type Option func(*Container)

// WithListID sets the id events are sent to and operation ids derive from
func WithListID(id int) Option {
	return func(c *Container) { c.listID = id }
}

// WithFrame sets the list element's box
func WithFrame(frame ElementLayout) Option {
	return func(c *Container) { c.frame = frame }
}

// WithUnitsPerPx sets the ratio used to convert event payloads and diff
// estimated sizes.
func WithUnitsPerPx(u float64) Option {
	return func(c *Container) {
		if u > 0 {
			c.unitsPerPx = u
		}
	}
}

// WithClock replaces the clock used for scroll throttling
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.events.now = now }
}

// WithRTL lays out a vertical list right to left
func WithRTL(rtl bool) Option {
	return func(c *Container) { c.layout.rtl = rtl }
}

// New creates a list engine talking to host. A nil host turns every pass
// into a logged no-op.
func New(host Host, opts ...Option) *Container {
	c := &Container{host: host, unitsPerPx: 1}
	c.children = newChildrenIndex()
	c.adapter = newAdapter(c)
	c.anchor = newAnchorManager(c)
	c.events = newEventManager(c)
	c.layout = newLayoutManager(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// interceptGuard marks a pass in progress. Bind completions that arrive
// while one is held do not start a nested pass.
type interceptGuard struct {
	c    *Container
	done bool
}

func (c *Container) intercept() *interceptGuard {
	c.interceptDepth++
	return &interceptGuard{c: c}
}

func (g *interceptGuard) release() {
	if g.done {
		return
	}
	g.done = true
	if g.c.interceptDepth > 0 {
		g.c.interceptDepth--
	}
}

func (c *Container) nullCollaborator(op string) error {
	err := fmt.Errorf("%s: %w", op, ErrNullCollaborator)
	Logger.Error("list operation skipped", "list", c.listID, "error", err)
	return err
}

func (c *Container) reportError(err error) {
	Logger.Error("list error", "list", c.listID, "error", err)
	c.events.sendDebugInfo(DebugLevelError, err.Error())
	if c.host != nil {
		c.host.OnErrorOccurred(err)
	}
}

// preparePass reports whether a pass may start now
func (c *Container) preparePass() bool {
	if c.host == nil {
		c.nullCollaborator("layout")
		return false
	}
	c.layout.setLayoutInfoToAllItems()
	if c.needRecycleAll {
		c.needRecycleAll = false
		c.adapter.recycleAll()
	}
	if c.interceptDepth > 0 {
		return false
	}
	c.layoutDirty = false
	return true
}

// layoutPass runs a layout after finishingIndex completed its bind, or
// InvalidIndex when nothing did.
func (c *Container) layoutPass(finishingIndex int) {
	if !c.preparePass() {
		return
	}
	if c.adapter.batch {
		c.layout.onBatchLayoutChildren()
		return
	}
	c.layout.onLayoutChildren(finishingIndex)
}

func (c *Container) flushPatching() {
	if c.host == nil {
		return
	}
	c.host.UpdateLayoutPatching()
	if c.shouldFlushFinishLayout {
		c.shouldFlushFinishLayout = false
		c.host.FinishLayoutOperation(PipelineOptions{HasLayout: true})
	}
	c.host.FlushImmediately()
}

// OnLayoutChildren runs a full layout pass
func (c *Container) OnLayoutChildren() {
	if c.interceptDepth == 0 {
		c.shouldFlushFinishLayout = false
	}
	c.layoutPass(InvalidIndex)
}

// NeedsLayout reports whether an attribute changed since the last pass in
// a way that needs OnLayoutChildren.
func (c *Container) NeedsLayout() bool { return c.layoutDirty }

// OnNextFrame runs work deferred to the next frame
func (c *Container) OnNextFrame() {
	if c.host == nil {
		c.nullCollaborator("next frame")
		return
	}
	c.layout.onNextFrame()
}

// ScrollByPlatformContainer applies a content offset the platform has
// already scrolled to. original is the offset before clamping, used to
// detect the bounce area.
func (c *Container) ScrollByPlatformContainer(x, y, originalX, originalY float64) {
	if c.host == nil {
		c.nullCollaborator("scroll")
		return
	}
	if c.interceptDepth > 0 {
		return
	}
	c.shouldFlushFinishLayout = false
	c.layout.scrollByPlatformContainer(x, y, originalX, originalY)
}

// ScrollBy moves the content by delta along the main axis
func (c *Container) ScrollBy(delta float64) {
	if c.host == nil {
		c.nullCollaborator("scroll")
		return
	}
	if c.interceptDepth > 0 {
		return
	}
	c.layout.scrollBy(delta)
}

// ScrollToPosition brings the item at index into view
func (c *Container) ScrollToPosition(index int, offset float64, align ScrollAlign, smooth bool) error {
	if c.host == nil {
		return c.nullCollaborator("scroll to position")
	}
	if index < 0 || index >= c.adapter.count() {
		err := fmt.Errorf("scroll to position %d of %d: %w", index, c.adapter.count(), ErrInvalidIndex)
		Logger.Error("scroll to position ignored", "list", c.listID, "error", err)
		return err
	}
	return c.layout.scrollToPosition(index, offset, align, smooth)
}

// ScrollStopped ends a smooth scroll
func (c *Container) ScrollStopped() {
	c.anchor.resetScrollInfo()
}

// FinishBindItemHolder completes the bind with opts.OperationID. A current
// completion attaches the element and, outside a pass, lays out again.
func (c *Container) FinishBindItemHolder(el Element, opts PipelineOptions) {
	if el == nil {
		c.reportError(fmt.Errorf("finish bind %d without element: %w", opts.OperationID, ErrNullCollaborator))
		return
	}
	it, ok := c.adapter.finishBind(el, opts.OperationID)
	if !ok {
		return
	}
	if opts.HasLayout {
		c.shouldFlushFinishLayout = true
	}
	if c.adapter.takeSectionBind(it.key) {
		return
	}
	if c.interceptDepth > 0 {
		return
	}
	c.layoutPass(it.index)
}

// FinishBindItemHolders completes a batched bind. Elements pair with
// opts.OperationIDs by position.
func (c *Container) FinishBindItemHolders(els []Element, opts PipelineOptions) {
	if len(els) != len(opts.OperationIDs) {
		Logger.Error("finish binds length mismatch", "list", c.listID, "elements", len(els), "operations", len(opts.OperationIDs))
		return
	}
	finished := false
	for i, el := range els {
		if el == nil {
			continue
		}
		if _, ok := c.adapter.finishBind(el, opts.OperationIDs[i]); ok {
			finished = true
		}
	}
	if !finished {
		return
	}
	if opts.HasLayout {
		c.shouldFlushFinishLayout = true
	}
	if c.interceptDepth > 0 || !c.preparePass() {
		return
	}
	c.layout.onBatchLayoutChildren()
}

// OnListItemLayoutUpdated refreshes the geometry of the item owning el
func (c *Container) OnListItemLayoutUpdated(el Element) {
	if !c.adapter.updateLayoutInfo(el) {
		return
	}
	c.layoutDirty = true
}

// AddEvent subscribes the list element to a list event
func (c *Container) AddEvent(name string) { c.events.addEvent(name) }

// ClearEvents drops every subscription
func (c *Container) ClearEvents() { c.events.clearEvents() }

// UpdateBatchRenderStrategy selects the adapter variant from the next
// PropsUpdateFinish on.
func (c *Container) UpdateBatchRenderStrategy(strategy BatchRenderStrategy) {
	c.batchStrategy = strategy
}

// PropsUpdateFinish applies the attributes of one update: it records diff
// info for layoutcomplete, switches adapter variants and reconciles items
// with the latest data.
func (c *Container) PropsUpdateFinish() {
	if c.adapter.needUpdate() {
		info := c.adapter.pending.Info()
		if c.events.needLayoutCompleteInfo {
			c.events.pendingInfo()["diffResult"] = info
		}
		c.events.sendDebugInfo(DebugLevelInfo, fmt.Sprintf("diffResult %v", info))
	}
	if batch := c.batchStrategy != BatchRenderDefault; batch && !c.adapter.batch {
		c.adapter.batch = true
	}
	c.adapter.reconcile()
}

// SetFrame updates the list element's box
func (c *Container) SetFrame(frame ElementLayout) {
	c.frame = frame
	c.layoutDirty = true
}

// SetRTL switches right-to-left placement
func (c *Container) SetRTL(rtl bool) {
	c.layout.rtl = rtl
	c.layoutDirty = true
}

func (c *Container) ListID() int { return c.listID }
func (c *Container) Count() int { return c.adapter.count() }
func (c *Container) ContentOffset() float64 { return c.layout.contentOffset }
func (c *Container) ContentSize() float64 { return c.layout.contentSize }
func (c *Container) ViewportSize() float64 { return c.layout.helper.measurement() }
func (c *Container) LayoutType() LayoutType { return c.layout.kind }
func (c *Container) Orientation() Orientation { return c.layout.helper.orientation }

// ItemAt returns the item at index, or nil
func (c *Container) ItemAt(index int) *Item { return c.children.at(index) }
