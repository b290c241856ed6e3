package list

import (
	"fmt"
	"math"
)

// policy is the geometry engine behind a layout type. The layout manager
// owns the shared state and passes; a policy places items and decides
// how a pass fills the viewport.
type policy interface {
	// layoutInvalid recomputes positions for items at index >= first
	layoutInvalid(first int)
	targetContentSize() float64
	layoutChildrenInternal(anchor *anchorInfo)
	scrollByInternal(offset, original float64, fromPlatform bool)
	// preloadBuffer binds items past the visible ends and reports whether
	// anything was preloaded.
	preloadBuffer() bool
	preloadSection()
	shouldRecycle(it *Item) bool
}

type layoutManager struct {
	c      *Container
	kind   LayoutType
	policy policy
	helper *orientationHelper

	rtl bool

	contentOffset     float64
	lastContentOffset float64
	// platformOffset is the offset the platform currently shows
	platformOffset float64
	contentSize    float64

	spanCount    int
	mainAxisGap  float64
	crossAxisGap float64

	preloadBufferCount            int
	preloadMin, preloadMax        int
	preloadSectionEnabled         bool
	needPreloadSectionOnNextFrame bool

	sticky       bool
	stickyOffset float64
	// pinned items chosen by the last updateStickyItems
	stickyTopItem    *Item
	stickyBottomItem *Item

	isScrollToPosition bool
}

func newLayoutManager(c *Container) *layoutManager {
	lm := &layoutManager{
		c:          c,
		helper:     newOrientationHelper(OrientationVertical, &c.frame),
		spanCount:  1,
		preloadMin: InvalidIndex,
		preloadMax: InvalidIndex,
	}
	lm.setLayoutType(LayoutSingle)
	return lm
}

func (lm *layoutManager) setLayoutType(kind LayoutType) {
	lm.kind = kind
	switch kind {
	case LayoutFlow:
		lm.policy = &linearLayout{lm: lm, rows: &gridRows{lm: lm}}
	case LayoutWaterfall:
		lm.policy = newStaggeredLayout(lm)
	default:
		lm.policy = &linearLayout{lm: lm, rows: &singleRows{lm: lm}}
	}
}

func (lm *layoutManager) setContentOffset(offset float64) { lm.contentOffset = offset }

// span is the number of cells per row for the current layout type
func (lm *layoutManager) span() int {
	if lm.kind == LayoutSingle || lm.spanCount < 1 {
		return 1
	}
	return lm.spanCount
}

// cellSize is the cross-axis size of one cell
func (lm *layoutManager) cellSize() float64 {
	span := float64(lm.span())
	return (lm.helper.measurementCrossWithoutPadding() - (span-1)*lm.crossAxisGap) / span
}

// setLayoutInfoToAllItems hands the container geometry used for size
// fallbacks to every item.
func (lm *layoutManager) setLayoutInfoToAllItems() {
	main := lm.helper.measurement()
	cell := lm.cellSize()
	full := lm.helper.measurementCrossWithoutPadding()
	for _, it := range lm.c.children.children {
		it.orientation = lm.helper.orientation
		it.rtl = lm.rtl
		it.containerMain = main
		it.containerCross = cell
		if it.fullSpan {
			it.containerCross = full
		}
	}
}

// isSticky reports whether it is pinned at the current offset
func (lm *layoutManager) isSticky(it *Item) bool {
	if !lm.sticky || !it.Sticky() {
		return false
	}
	h := lm.helper
	return it.isAtStickyPosition(lm.contentOffset, h.measurement(), lm.stickyOffset, h.decoratedStart(it), h.decoratedEnd(it))
}

func (lm *layoutManager) onLayoutChildren(finishingIndex int) {
	c := lm.c
	c.events.recordVisibleItems(true)
	guard := c.intercept()
	defer guard.release()

	var anchor anchorInfo
	lm.initLayoutAndAnchor(&anchor, finishingIndex)
	lm.policy.layoutChildrenInternal(&anchor)
	lm.onLayoutAfter(guard)
}

// onBatchLayoutChildren binds every on-screen item with one batched call
// before the regular fill.
func (lm *layoutManager) onBatchLayoutChildren() {
	c := lm.c
	c.events.recordVisibleItems(true)
	guard := c.intercept()
	defer guard.release()

	var anchor anchorInfo
	lm.initLayoutAndAnchor(&anchor, InvalidIndex)
	lm.policy.layoutInvalid(0)
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	c.adapter.bindItemHolders(c.children.onScreen.slice())
	lm.policy.layoutChildrenInternal(&anchor)
	lm.onLayoutAfter(guard)
}

func (lm *layoutManager) initLayoutAndAnchor(anchor *anchorInfo, finishingIndex int) {
	c := lm.c
	c.anchor.retrieveBeforeLayout(anchor, finishingIndex)
	if anchor.valid {
		lm.policy.layoutInvalid(0)
		lm.contentSize = lm.policy.targetContentSize()
		c.anchor.adjustAfterLayout(anchor)
	}
	Logger.Debug("layout anchor", "list", c.listID, "anchor", anchor.String(), "offset", lm.contentOffset)
	c.events.sendDebugInfo(DebugLevelVerbose, fmt.Sprintf("layout with %s", anchor))
}

// flushContentSizeAndOffset clamps the offset into the scrollable range
// and tells the platform how far to move.
func (lm *layoutManager) flushContentSizeAndOffset() {
	maxOffset := math.Max(0, lm.contentSize-lm.helper.measurement())
	lm.contentOffset = math.Max(0, math.Min(lm.contentOffset, maxOffset))
	delta := lm.contentOffset - lm.platformOffset
	lm.platformOffset = lm.contentOffset

	var dx, dy float64
	if lm.helper.vertical() {
		dy = delta
	} else {
		dx = delta
	}
	c := lm.c
	c.host.UpdateContentOffsetForListContainer(c.listID, lm.contentSize, dx, dy, c.anchor.initialStatus == InitialScrollIndexSet)
	lm.flushScrollInfoIfNeeded()
}

// flushScrollInfoIfNeeded re-sends a smooth scroll target whose position
// may have moved during the pass.
func (lm *layoutManager) flushScrollInfoIfNeeded() {
	am := lm.c.anchor
	if !am.scrolling.validSmooth() {
		return
	}
	it := am.scrolling.item
	if it == nil || it.status == StatusRemoved || lm.c.children.at(it.index) != it {
		am.resetScrollInfo()
		return
	}
	lm.c.host.UpdateScrollInfo(lm.c.listID, true, am.targetScrollingOffset(it), true)
}

// scrollAnchor picks the item a scroll step keeps in place: the first
// settled on-screen item that is not pinned.
func (lm *layoutManager) scrollAnchor() anchorInfo {
	onScreen := &lm.c.children.onScreen
	h := lm.helper
	pick := onScreen.first(func(it *Item) bool {
		return !it.status.IsDirty() && it.element != nil && !lm.isSticky(it)
	})
	if pick == nil {
		pick = onScreen.first(func(it *Item) bool {
			return h.start(it) >= lm.contentOffset && !lm.isSticky(it)
		})
	}
	if pick == nil {
		pick = onScreen.first(func(*Item) bool { return true })
	}
	if pick == nil {
		return anchorInfo{}
	}
	start := h.start(pick)
	return anchorInfo{valid: true, index: pick.index, item: pick, startOffset: start, delta: start - lm.contentOffset}
}

// handleLayoutOrScrollResult recycles what is no longer needed, hands
// the rest to the painting context and flushes.
func (lm *layoutManager) handleLayoutOrScrollResult(isLayout bool) {
	c := lm.c
	ci := c.children
	ci.updateInSticky(lm.stickyTopItem, lm.stickyBottomItem)
	keep := func(it *Item) bool {
		if it.status == StatusRemoved {
			return false
		}
		return ci.onScreen.has(it) || ci.inPreload.has(it) || ci.inSticky.has(it) || !lm.policy.shouldRecycle(it)
	}
	ci.handleLayoutOrScrollResult(keep, lm.insertItem, lm.recycleItem, lm.pushItemLayout)
	if isLayout {
		c.adapter.recycleRemoved()
	}
	c.flushPatching()
}

func (lm *layoutManager) insertItem(it *Item) {
	if it.painted || it.element == nil {
		return
	}
	lm.c.host.InsertListItemPaintingNode(lm.c.listID, it.element.ID())
	it.painted = true
}

func (lm *layoutManager) recycleItem(it *Item) {
	c := lm.c
	if it.element != nil && c.shouldRequestStateRestore {
		c.host.ListCellDisappear(it.element.ID(), true, it.key)
	}
	c.adapter.recycle(it)
}

// pushItemLayout sends the platform frame of an attached item when it
// changed since the last push.
func (lm *layoutManager) pushItemLayout(it *Item) {
	if it.element == nil {
		return
	}
	frame := it.platformFrame(lm.c.frame.Width)
	if lm.c.children.inSticky.has(it) {
		lm.pin(it, &frame)
	}
	if it.sentFrame != nil && *it.sentFrame == frame {
		return
	}
	lm.c.host.UpdateItemLayout(it.element.ID(), frame)
	it.sentFrame = &frame
}

func (lm *layoutManager) onLayoutAfter(guard *interceptGuard) {
	c := lm.c
	lm.handleLayoutOrScrollResult(true)
	// events go out after the guard is released so listeners may re-enter
	guard.release()

	delta := lm.contentOffset - lm.lastContentOffset
	lm.lastContentOffset = lm.contentOffset
	c.events.recordVisibleItems(false)
	source := EventSourceLayout
	if c.hasValidDiff {
		source = EventSourceDiff
	}
	if !lm.isScrollToPosition {
		c.events.sendLayoutComplete()
	}
	c.events.onScroll(delta, source)
	c.events.detectThresholds(delta, lm.contentOffset, source)
	c.hasValidDiff = false
}

func (lm *layoutManager) onScrollAfter(guard *interceptGuard, original float64) {
	c := lm.c
	lm.handleLayoutOrScrollResult(false)
	guard.release()

	delta := lm.contentOffset - lm.lastContentOffset
	lm.lastContentOffset = lm.contentOffset
	c.events.onScroll(delta, EventSourceScroll)
	c.events.detectThresholds(delta, original, EventSourceScroll)
}

// scrollByPlatformContainer applies an offset the platform already
// scrolled to.
func (lm *layoutManager) scrollByPlatformContainer(x, y, originalX, originalY float64) {
	offset, original := x, originalX
	if lm.helper.vertical() {
		offset, original = y, originalY
	}
	lm.policy.scrollByInternal(offset, original, true)
}

// scrollBy moves the content by delta on behalf of the engine
func (lm *layoutManager) scrollBy(delta float64) {
	target := lm.contentOffset + delta
	lm.policy.scrollByInternal(target, target, false)
}

// scrollToPosition brings the item at index into view. A smooth scroll
// only informs the platform; an immediate one lays out with the item as
// anchor and then applies the alignment.
func (lm *layoutManager) scrollToPosition(index int, offset float64, align ScrollAlign, smooth bool) error {
	c := lm.c
	it := c.children.at(index)
	if it == nil {
		return fmt.Errorf("scroll to position %d: %w", index, ErrInvalidIndex)
	}
	am := c.anchor
	am.initScrollToPosition(it, index, offset, align, smooth)
	if smooth {
		c.host.UpdateScrollInfo(c.listID, true, am.targetScrollingOffset(it), false)
		return nil
	}
	lm.isScrollToPosition = true
	c.layoutPass(InvalidIndex)
	lm.isScrollToPosition = false
	am.invalidateScrollInfoPosition()
	if offset != 0 || align != ScrollAlignTop {
		target := am.targetScrollingOffset(it)
		lm.policy.scrollByInternal(target, target, false)
	}
	return nil
}
