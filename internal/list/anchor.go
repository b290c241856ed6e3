package list

import "fmt"

// anchorInfo is the item whose viewport position a pass preserves
type anchorInfo struct {
	valid       bool
	index       int
	item        *Item
	startOffset float64
	// delta is the distance from the content offset to the anchor's
	// reference edge: its start, or its decorated end when alignToEnd.
	delta      float64
	alignToEnd bool
}

func (a anchorInfo) String() string {
	if !a.valid {
		return "anchor{invalid}"
	}
	return fmt.Sprintf("anchor{index=%d start=%.1f delta=%.1f}", a.index, a.startOffset, a.delta)
}

// scrollingInfo is a pending scroll-to-index request
type scrollingInfo struct {
	target int
	offset float64
	align  ScrollAlign
	smooth bool
	item   *Item
}

func (s scrollingInfo) validNonSmooth() bool { return s.target != InvalidIndex && !s.smooth }
func (s scrollingInfo) validSmooth() bool    { return s.target != InvalidIndex && s.smooth }

// calcScrollingOffset returns the content offset that shows an item of
// itemSize at itemOffset with the requested alignment.
func (s scrollingInfo) calcScrollingOffset(listSize, contentSize, itemOffset, itemSize float64) float64 {
	var est float64
	switch s.align {
	case ScrollAlignTop:
		est = itemOffset - s.offset
	case ScrollAlignMiddle:
		est = itemOffset - (listSize-itemSize)/2 - s.offset
	case ScrollAlignBottom:
		est = itemOffset - listSize + itemSize - s.offset
	}
	if est <= 0 || listSize >= contentSize {
		return 0
	}
	if est > contentSize-listSize {
		return contentSize - listSize
	}
	return est
}

type anchorManager struct {
	c *Container

	priority   AnchorPriority
	align      AnchorAlign
	visibility AnchorVisibility

	initialScrollIndex int
	initialStatus      InitialScrollIndexStatus

	scrolling scrollingInfo

	lastValidAbove  *Item
	firstValidBelow *Item
}

func newAnchorManager(c *Container) *anchorManager {
	return &anchorManager{
		c:                  c,
		initialScrollIndex: InvalidIndex,
		scrolling:          scrollingInfo{target: InvalidIndex},
	}
}

func (am *anchorManager) helper() *orientationHelper { return am.c.layout.helper }

func (am *anchorManager) validInitialScrollIndex() bool {
	return am.initialScrollIndex >= 0 &&
		am.initialScrollIndex < am.c.adapter.count() &&
		am.initialStatus == InitialScrollIndexSet
}

func (am *anchorManager) markScrolledInitialScrollIndex() {
	if am.validInitialScrollIndex() {
		am.initialStatus = InitialScrollIndexScrolled
	}
}

func (am *anchorManager) setInitialScrollIndex(index int) {
	if am.initialStatus == InitialScrollIndexScrolled {
		return
	}
	am.initialScrollIndex = index
	am.initialStatus = InitialScrollIndexSet
}

// retrieveBeforeLayout selects the anchor for the coming pass
func (am *anchorManager) retrieveBeforeLayout(info *anchorInfo, finishingIndex int) {
	switch {
	case am.validInitialScrollIndex():
		am.targetAnchor(info, am.initialScrollIndex)
	case am.scrolling.validNonSmooth():
		am.targetAnchor(info, am.scrolling.target)
	default:
		am.findAnchor(info, am.priority == AnchorFromEnd, finishingIndex)
		am.clearDiffReference()
	}
}

func (am *anchorManager) targetAnchor(info *anchorInfo, index int) {
	it := am.c.adapter.itemAt(index)
	if it == nil {
		return
	}
	*info = anchorInfo{valid: true, index: index, item: it}
}

// adjustAfterLayout moves the content offset with the anchor after all
// items were repositioned.
func (am *anchorManager) adjustAfterLayout(info *anchorInfo) {
	lm := am.c.layout
	start := am.helper().decoratedStart(info.item)
	if am.validInitialScrollIndex() || am.scrolling.validNonSmooth() {
		lm.setContentOffset(start)
	} else {
		lm.setContentOffset(lm.contentOffset + start - info.startOffset)
	}
	info.startOffset = start
}

// adjustContentOffsetWithAnchor restores the anchor's viewport position
func (am *anchorManager) adjustContentOffsetWithAnchor(info *anchorInfo, offset float64) {
	lm := am.c.layout
	if !info.valid || info.item == nil {
		lm.setContentOffset(offset)
		return
	}
	ref := am.helper().start(info.item)
	if info.alignToEnd {
		ref = am.helper().decoratedEnd(info.item)
	}
	lm.setContentOffset(ref - info.delta)
}

func (am *anchorManager) updateAnchorWithItem(info *anchorInfo, it *Item, visibility AnchorVisibility) {
	info.index = it.index
	info.valid = true
	info.item = it
	am.adjustAlignment(info, visibility)
}

// findAnchor picks an on-screen non-sticky item, preferring settled items
// over binding ones, then the item that just finished binding, then updated
// ones. It falls back to the nearest valid item outside the screen and
// finally to index 0.
func (am *anchorManager) findAnchor(info *anchorInfo, fromEnd bool, finishingIndex int) {
	if am.c.adapter.count() == 0 {
		*info = anchorInfo{}
		return
	}
	var updated, binding, finishing *Item
	am.c.children.onScreen.each(fromEnd, func(it *Item) bool {
		if am.c.layout.isSticky(it) {
			return false
		}
		s := it.status
		switch {
		case (s == StatusFinishedBinding || s == StatusRecycled) && it.index != finishingIndex:
			am.updateAnchorWithItem(info, it, am.visibility)
			return true
		case !s.IsDirty() && s == StatusInBinding && binding == nil:
			binding = it
		case !s.IsDirty() && it.index == finishingIndex:
			finishing = it
		case s == StatusUpdated && updated == nil:
			updated = it
		}
		return false
	})
	if info.valid {
		return
	}
	for _, it := range []*Item{binding, finishing, updated} {
		if it != nil {
			am.updateAnchorWithItem(info, it, am.visibility)
			return
		}
	}
	outside := am.lastValidAbove
	if fromEnd {
		outside = am.firstValidBelow
	}
	if outside != nil && outside.status != StatusRemoved && am.c.adapter.itemAt(outside.index) == outside {
		am.updateAnchorWithItem(info, outside, AnchorVisibilityHide)
		return
	}
	first := am.c.adapter.itemAt(0)
	start := am.helper().startAfterPadding()
	*info = anchorInfo{valid: true, index: 0, item: first, startOffset: start, delta: start}
}

// adjustAlignment fills startOffset and delta. Visibility wins over
// alignment: only NoAdjustment looks at anchor-align.
func (am *anchorManager) adjustAlignment(info *anchorInfo, visibility AnchorVisibility) {
	h := am.helper()
	offset := am.c.layout.contentOffset
	info.alignToEnd = false
	switch visibility {
	case AnchorVisibilityHide:
		info.startOffset = h.decoratedStart(info.item)
		info.delta = -h.decoratedMeasurement(info.item)
	case AnchorVisibilityShow:
		info.startOffset = 0
		info.delta = 0
	default:
		info.startOffset = h.decoratedStart(info.item)
		if am.align == AnchorAlignToBottom {
			info.alignToEnd = true
			info.delta = h.decoratedEnd(info.item) - offset
		} else {
			info.delta = h.start(info.item) - offset
		}
	}
}

// updateDiffAnchorReference records the nearest settled items just outside
// the visible range. It runs when a diff arrives, before reconcile.
func (am *anchorManager) updateDiffAnchorReference() {
	am.clearDiffReference()
	notRemovedOrSticky := func(it *Item) bool {
		return it.status != StatusRemoved && !am.c.layout.isSticky(it)
	}
	first := am.c.children.onScreen.first(notRemovedOrSticky)
	last := am.c.children.onScreen.last(notRemovedOrSticky)
	if first == nil || last == nil {
		return
	}
	am.c.children.forEach(func(it *Item) bool {
		if it.status.IsDirty() || it.status == StatusRemoved {
			return false
		}
		if it.index < first.index && (am.lastValidAbove == nil || it.index > am.lastValidAbove.index) {
			am.lastValidAbove = it
		}
		if it.index > last.index && (am.firstValidBelow == nil || it.index < am.firstValidBelow.index) {
			am.firstValidBelow = it
		}
		return false
	})
}

func (am *anchorManager) clearDiffReference() {
	am.lastValidAbove = nil
	am.firstValidBelow = nil
}

func (am *anchorManager) initScrollToPosition(it *Item, index int, offset float64, align ScrollAlign, smooth bool) {
	am.scrolling = scrollingInfo{target: index, offset: offset, align: align, smooth: smooth, item: it}
}

func (am *anchorManager) invalidateScrollInfoPosition() {
	am.scrolling.target = InvalidIndex
}

func (am *anchorManager) resetScrollInfo() {
	am.scrolling = scrollingInfo{target: InvalidIndex}
}

func (am *anchorManager) targetScrollingOffset(it *Item) float64 {
	h := am.helper()
	return am.scrolling.calcScrollingOffset(h.measurement(), am.c.layout.contentSize, h.start(it), h.decoratedMeasurement(it))
}
