package list

// layoutState drives one fill: where the next chunk goes and how much
// space is left to cover.
type layoutState struct {
	nextIndex int
	offset    float64
	available float64
	extra     float64
	direction LayoutDirection
	// minChunkIndex is the lowest index the fill laid out
	minChunkIndex int
}

// rowGeometry is the part of a row-based layout that differs between a
// single column and a uniform grid.
type rowGeometry interface {
	layoutInvalid(first int)
	targetContentSize() float64
	// layoutChunk binds and places the row starting at st.nextIndex, then
	// advances st.nextIndex. It returns the consumed main-axis size and
	// false when nothing could be laid out.
	layoutChunk(st *layoutState, preloadSection bool) (float64, bool)
	stateToFillEnd(st *layoutState, anchor *anchorInfo)
	stateToFillStart(st *layoutState, anchor *anchorInfo)
	stateToFillPreload(st *layoutState, index int, offset float64, dir LayoutDirection)
	targetIndexForPreload(start int, dir LayoutDirection) int
	shouldRecycle(it *Item) bool
}

// linearLayout fills rows outward from an anchor. It backs both the single
// and the flow layout types.
type linearLayout struct {
	lm   *layoutManager
	rows rowGeometry
}

func (l *linearLayout) layoutInvalid(first int) { l.rows.layoutInvalid(first) }
func (l *linearLayout) targetContentSize() float64 { return l.rows.targetContentSize() }
func (l *linearLayout) shouldRecycle(it *Item) bool { return l.rows.shouldRecycle(it) }
func (l *linearLayout) count() int { return l.lm.c.adapter.count() }
func (l *linearLayout) inRange(index int) bool { return index >= 0 && index < l.count() }

func (l *linearLayout) layoutChildrenInternal(anchor *anchorInfo) {
	lm := l.lm
	c := lm.c
	if l.count() == 0 {
		lm.contentSize = l.targetContentSize()
		lm.setContentOffset(0)
		lm.flushContentSizeAndOffset()
		c.children.updateOnScreen(lm.helper, lm.contentOffset)
		return
	}

	if anchor.valid {
		l.fillWithAnchor(anchor)
	}
	l.layoutInvalid(0)
	lm.contentSize = l.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)

	lm.updateStickyItemsAfterLayout(anchor)
	lm.flushContentSizeAndOffset()
	// the offset was adjusted twice, by the anchor and by sticky items
	c.anchor.markScrolledInitialScrollIndex()

	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	lm.handlePreload(anchor)
}

// fillWithAnchor fills to the end from the anchor, then to the start with
// whatever the end fill left over, then to the end again with whatever the
// start fill left over. It returns the lowest index laid out.
func (l *linearLayout) fillWithAnchor(anchor *anchorInfo) int {
	h := l.lm.helper
	var st layoutState

	l.rows.stateToFillEnd(&st, anchor)
	st.extra = h.endPadding()
	st.minChunkIndex = anchor.index
	l.fill(&st)

	extraForStart := h.startAfterPadding()
	if st.available > 0 {
		extraForStart += st.available
	}
	l.rows.stateToFillStart(&st, anchor)
	st.extra = extraForStart
	l.fill(&st)
	minIndex := st.minChunkIndex

	if st.available > 0 {
		st.extra = st.available
		l.rows.stateToFillEnd(&st, anchor)
		l.fill(&st)
	}
	return minIndex
}

func (l *linearLayout) fill(st *layoutState) {
	remaining := st.available + st.extra
	for remaining > 0 && l.inRange(st.nextIndex) {
		index := st.nextIndex
		consumed, ok := l.rows.layoutChunk(st, false)
		if !ok {
			break
		}
		st.minChunkIndex = min(st.minChunkIndex, index)
		st.offset += consumed * float64(st.direction)
		st.available -= consumed
		remaining -= consumed
	}
}

func (l *linearLayout) scrollByInternal(offset, original float64, fromPlatform bool) {
	lm := l.lm
	c := lm.c
	guard := c.intercept()
	defer guard.release()

	if fromPlatform {
		lm.platformOffset = offset
	}
	lm.setContentOffset(offset)
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	if c.children.onScreen.len() == 0 {
		// past the content: clamp and look again
		lm.flushContentSizeAndOffset()
		c.children.updateOnScreen(lm.helper, lm.contentOffset)
	}
	if c.children.onScreen.len() == 0 {
		Logger.Error("scroll with nothing on screen", "list", c.listID, "offset", offset)
		return
	}
	anchor := lm.scrollAnchor()
	if !anchor.valid {
		return
	}

	minIndex := l.fillWithAnchor(&anchor)
	l.layoutInvalid(max(minIndex, 0))
	lm.contentSize = l.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(&anchor, lm.contentOffset)
	lm.flushContentSizeAndOffset()

	lm.updateStickyItems()

	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	lm.handlePreload(&anchor)

	lm.onScrollAfter(guard, original)
}

// preloadBuffer lays out preloadBufferCount items past each visible end
func (l *linearLayout) preloadBuffer() bool {
	lm := l.lm
	ci := lm.c.children
	lm.preloadMin, lm.preloadMax = InvalidIndex, InvalidIndex
	ci.inPreload.clear()
	first := ci.onScreen.first(func(*Item) bool { return true })
	last := ci.onScreen.last(func(*Item) bool { return true })
	if first == nil || last == nil {
		Logger.Error("preload with nothing on screen", "list", lm.c.listID)
		return false
	}
	h := lm.helper
	var st layoutState

	endIndex := last.index + 1
	if target := l.rows.targetIndexForPreload(endIndex, LayoutToEnd); target != InvalidIndex && endIndex <= target {
		l.rows.stateToFillPreload(&st, endIndex, h.decoratedEnd(last), LayoutToEnd)
		l.preloadTo(&st, target, false)
		lm.preloadMax = min(target, l.count()-1)
	}
	startIndex := first.index - 1
	if target := l.rows.targetIndexForPreload(startIndex, LayoutToStart); target != InvalidIndex && target <= startIndex {
		l.rows.stateToFillPreload(&st, startIndex, h.decoratedStart(first), LayoutToStart)
		l.preloadTo(&st, target, false)
		lm.preloadMin = target
	}
	if lm.preloadMin == InvalidIndex && lm.preloadMax == InvalidIndex {
		return false
	}
	lo, hi := lm.preloadMin, lm.preloadMax
	if lo == InvalidIndex {
		lo = first.index
	}
	if hi == InvalidIndex {
		hi = last.index
	}
	ci.updateInPreload(lo, hi)
	return true
}

// preloadTo lays out chunks until target is passed
func (l *linearLayout) preloadTo(st *layoutState, target int, section bool) {
	for l.inRange(st.nextIndex) {
		if st.direction == LayoutToEnd && st.nextIndex > target {
			return
		}
		if st.direction == LayoutToStart && st.nextIndex < target {
			return
		}
		consumed, ok := l.rows.layoutChunk(st, section)
		if !ok {
			return
		}
		st.offset += consumed * float64(st.direction)
	}
}

// preloadSection binds every remaining item, one viewport-sized section
// at a time, recycling what falls off screen after each section.
func (l *linearLayout) preloadSection() {
	lm := l.lm
	ci := lm.c.children
	first := ci.onScreen.first(func(*Item) bool { return true })
	last := ci.onScreen.last(func(*Item) bool { return true })
	if first == nil || last == nil {
		Logger.Error("preload section with nothing on screen", "list", lm.c.listID)
		return
	}
	section := last.index - first.index + 1
	count := l.count()
	h := lm.helper
	var st layoutState

	for end := last.index + 1; end < count && last != nil; {
		target := min(end+section, count-1)
		l.rows.stateToFillPreload(&st, end, h.decoratedEnd(last), LayoutToEnd)
		l.preloadTo(&st, target, true)
		lm.recycleOffScreen()
		last = lm.c.children.at(target)
		end = target + 1
	}
	for start := first.index - 1; start >= 0 && first != nil; {
		target := max(start-section, 0)
		l.rows.stateToFillPreload(&st, start, h.decoratedStart(first), LayoutToStart)
		l.preloadTo(&st, target, true)
		lm.recycleOffScreen()
		first = lm.c.children.at(target)
		start = target - 1
	}
}

// anchorStart is the decorated start of the anchor row. Fill offsets
// always name the decorated start of the next chunk going to the end, or
// the decorated start of the last placed chunk going to the start.
func anchorStart(lm *layoutManager, anchor *anchorInfo) float64 {
	if anchor.item != nil {
		return lm.helper.decoratedStart(anchor.item)
	}
	return anchor.startOffset
}

func fillStateToEnd(lm *layoutManager, st *layoutState, next int, offset float64) {
	st.nextIndex = next
	st.offset = offset
	st.available = lm.helper.endAfterPadding() + lm.contentOffset - offset
	st.direction = LayoutToEnd
}

func fillStateToStart(lm *layoutManager, st *layoutState, next int, offset float64) {
	st.nextIndex = next
	st.offset = offset
	st.available = offset - lm.contentOffset - lm.helper.startAfterPadding()
	st.direction = LayoutToStart
}

// singleRows places one item per row
type singleRows struct {
	lm *layoutManager
}

func (r *singleRows) layoutInvalid(first int) {
	lm := r.lm
	ci := lm.c.children
	if first < 0 || first >= ci.count() {
		return
	}
	h := lm.helper
	var offset float64
	if prev := ci.at(first - 1); prev != nil {
		offset = h.decoratedEnd(prev)
	}
	for i := first; i < ci.count(); i++ {
		it := ci.at(i)
		it.orientation = h.orientation
		if i > 0 {
			it.topInset = lm.mainAxisGap
		} else {
			it.topInset = 0
			offset += h.startAfterPadding()
		}
		offset += it.topInset
		h.place(it, offset+h.mainMargin(it), h.startAfterPaddingCross()+h.crossMargin(it))
		offset = h.decoratedEnd(it)
	}
}

func (r *singleRows) targetContentSize() float64 {
	h := r.lm.helper
	ci := r.lm.c.children
	if ci.count() == 0 {
		return h.startAfterPadding() + h.endPadding()
	}
	return h.decoratedEnd(ci.at(ci.count()-1)) + h.endPadding()
}

func (r *singleRows) layoutChunk(st *layoutState, preloadSection bool) (float64, bool) {
	lm := r.lm
	h := lm.helper
	index := st.nextIndex
	it := lm.c.children.at(index)
	st.nextIndex += int(st.direction)
	if it == nil {
		return 0, false
	}
	lm.c.adapter.bindItemHolder(it, index, preloadSection)
	consumed := h.decoratedMeasurement(it)
	start := st.offset
	if st.direction == LayoutToStart {
		start -= consumed
	}
	h.place(it, start+it.topInset+h.mainMargin(it), h.startAfterPaddingCross()+h.crossMargin(it))
	return consumed, true
}

func (r *singleRows) stateToFillEnd(st *layoutState, anchor *anchorInfo) {
	fillStateToEnd(r.lm, st, anchor.index, anchorStart(r.lm, anchor))
}

func (r *singleRows) stateToFillStart(st *layoutState, anchor *anchorInfo) {
	fillStateToStart(r.lm, st, anchor.index-1, anchorStart(r.lm, anchor))
}

func (r *singleRows) stateToFillPreload(st *layoutState, index int, offset float64, dir LayoutDirection) {
	st.nextIndex = index
	st.offset = offset
	st.direction = dir
}

func (r *singleRows) targetIndexForPreload(start int, dir LayoutDirection) int {
	count := r.lm.c.adapter.count()
	n := r.lm.preloadBufferCount
	if n <= 0 || start < 0 || start >= count {
		return InvalidIndex
	}
	target := start + n - 1
	if dir == LayoutToStart {
		target = start - n + 1
	}
	return max(0, min(target, count))
}

func (r *singleRows) shouldRecycle(it *Item) bool {
	return !it.visibleInList(r.lm.helper, r.lm.contentOffset)
}
