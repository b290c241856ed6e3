package list

import (
	"fmt"
	"math"
)

// columnLines tracks one line per column: the start or end edge of the
// outermost item of that column, and that item's index.
type columnLines struct {
	lines   []float64
	indexes []int
}

func newColumnLines(span int) columnLines {
	cl := columnLines{lines: make([]float64, span), indexes: make([]int, span)}
	for i := range cl.indexes {
		cl.indexes[i] = InvalidIndex
	}
	return cl
}

func (cl columnLines) clone() columnLines {
	out := columnLines{lines: make([]float64, len(cl.lines)), indexes: make([]int, len(cl.indexes))}
	copy(out.lines, cl.lines)
	copy(out.indexes, cl.indexes)
	return out
}

func (cl columnLines) valid() bool {
	for _, i := range cl.indexes {
		if i != InvalidIndex {
			return true
		}
	}
	return false
}

func (cl columnLines) argmin() int {
	col := 0
	for i, l := range cl.lines {
		if l < cl.lines[col] {
			col = i
		}
	}
	return col
}

func (cl columnLines) argmax() int {
	col := 0
	for i, l := range cl.lines {
		if l > cl.lines[col] {
			col = i
		}
	}
	return col
}

func (cl columnLines) maxIndex() int {
	out := InvalidIndex
	for _, i := range cl.indexes {
		out = max(out, i)
	}
	return out
}

// staggeredLayout places each item in the shortest column. Full-span items
// start below the longest column and take every column.
type staggeredLayout struct {
	lm *layoutManager

	columns   [][]int
	starts    columnLines
	ends      columnLines
	direction LayoutDirection
}

func newStaggeredLayout(lm *layoutManager) *staggeredLayout {
	return &staggeredLayout{lm: lm, direction: LayoutToEnd}
}

func (s *staggeredLayout) count() int { return s.lm.c.children.count() }
func (s *staggeredLayout) at(i int) *Item { return s.lm.c.children.at(i) }
func (s *staggeredLayout) fillLimit() int { return 4*s.count() + 16 }
func (s *staggeredLayout) span() int { return s.lm.span() }
func (s *staggeredLayout) removed(it *Item) bool { return it == nil || it.status == StatusRemoved }

func (s *staggeredLayout) hasFullSpanItems() bool {
	for _, it := range s.lm.c.children.children {
		if it.fullSpan {
			return true
		}
	}
	return false
}

// intersectsVisibleArea is inclusive at both edges
func (s *staggeredLayout) intersectsVisibleArea(it *Item) bool {
	lm := s.lm
	h := lm.helper
	return h.decoratedEnd(it) >= lm.contentOffset && h.decoratedStart(it) <= lm.contentOffset+h.measurement()
}

func (s *staggeredLayout) layoutInvalid(first int) {
	span := s.span()
	count := s.count()
	if count == 0 || len(s.columns) != span {
		s.columns = make([][]int, span)
	}
	if count == 0 || first < 0 || first >= count {
		return
	}
	state := newColumnLines(span)
	h := s.lm.helper
	for col := range s.columns {
		kept := s.columns[col][:0]
		for _, index := range s.columns[col] {
			if index < first {
				kept = append(kept, index)
			}
		}
		s.columns[col] = kept
		if len(kept) > 0 {
			last := kept[len(kept)-1]
			state.indexes[col] = last
			state.lines[col] = h.decoratedEnd(s.at(last))
		}
	}
	for i := first; i < count; i++ {
		s.layoutChunkToEnd(i, &state, false)
	}
}

// layoutChunkToEnd places the item at index below its column, binding it
// first when bind is set.
func (s *staggeredLayout) layoutChunkToEnd(index int, state *columnLines, bind bool) {
	it := s.at(index)
	if s.removed(it) {
		return
	}
	if bind {
		s.lm.c.adapter.bindItemHolder(it, index, false)
	}
	h := s.lm.helper
	main := s.mainAxisPosition(it, state)
	h.place(it, main+h.mainMargin(it), s.crossAxisPosition(it))
}

// mainAxisPosition assigns the item a column, advances that column's end
// line and returns the start of the item after its gap.
func (s *staggeredLayout) mainAxisPosition(it *Item, state *columnLines) float64 {
	lm := s.lm
	h := lm.helper
	if it.fullSpan {
		pos := state.lines[state.argmax()]
		if state.valid() {
			it.topInset = lm.mainAxisGap
		} else {
			it.topInset = 0
			pos = h.startAfterPadding()
		}
		end := pos + h.decoratedMeasurement(it)
		it.colIndex = 0
		for col := range state.lines {
			state.lines[col] = end
			state.indexes[col] = it.index
			s.columns[col] = append(s.columns[col], it.index)
		}
		return pos + it.topInset
	}
	col := s.shortestColumn(state)
	pos := state.lines[col]
	if state.indexes[col] != InvalidIndex {
		it.topInset = lm.mainAxisGap
	} else {
		it.topInset = 0
		pos = h.startAfterPadding()
	}
	state.lines[col] = pos + h.decoratedMeasurement(it)
	state.indexes[col] = it.index
	it.colIndex = col
	s.columns[col] = append(s.columns[col], it.index)
	return pos + it.topInset
}

// shortestColumn prefers an empty column, then the lowest end line
func (s *staggeredLayout) shortestColumn(state *columnLines) int {
	for col, index := range state.indexes {
		if index == InvalidIndex {
			return col
		}
	}
	return state.argmin()
}

func (s *staggeredLayout) crossAxisPosition(it *Item) float64 {
	lm := s.lm
	h := lm.helper
	if it.fullSpan {
		return h.startAfterPaddingCross() + h.crossMargin(it)
	}
	cell := h.decoratedMeasurementCross(it)
	if cell <= 0 {
		cell = lm.cellSize()
	}
	return h.startAfterPaddingCross() + float64(it.colIndex)*(cell+lm.crossAxisGap) + h.crossMargin(it)
}

func (s *staggeredLayout) targetContentSize() float64 {
	h := s.lm.helper
	end := h.startAfterPadding()
	for _, col := range s.columns {
		if len(col) > 0 {
			if it := s.at(col[len(col)-1]); it != nil {
				end = math.Max(end, h.decoratedEnd(it))
			}
		}
	}
	return end + h.endPadding()
}

// updateLinesStatus recomputes the start and end line of every column
// from the visible items that have an element or a bind in flight.
func (s *staggeredLayout) updateLinesStatus() {
	span := s.span()
	h := s.lm.helper
	s.starts = newColumnLines(span)
	s.ends = newColumnLines(span)
	for _, it := range s.lm.c.children.children {
		if s.removed(it) || (it.element == nil && it.status != StatusInBinding) || !s.intersectsVisibleArea(it) {
			continue
		}
		cols := []int{it.colIndex}
		if it.fullSpan {
			cols = cols[:0]
			for col := 0; col < span; col++ {
				cols = append(cols, col)
			}
		}
		for _, col := range cols {
			if col >= span {
				continue
			}
			if s.starts.indexes[col] == InvalidIndex || it.index < s.starts.indexes[col] {
				s.starts.indexes[col] = it.index
				s.starts.lines[col] = h.decoratedStart(it)
			}
			if s.ends.indexes[col] == InvalidIndex || it.index > s.ends.indexes[col] {
				s.ends.indexes[col] = it.index
				s.ends.lines[col] = h.decoratedEnd(it)
			}
		}
	}
}

func (s *staggeredLayout) lineUnfilled(line float64) bool {
	lm := s.lm
	h := lm.helper
	limit := math.Min(lm.contentOffset+h.measurement(), lm.contentSize-h.endPadding())
	return line < limit && math.Abs(line-lm.contentOffset) > 1e-5
}

func (s *staggeredLayout) hasUnfilledEnd(state *columnLines) bool {
	if s.hasFullSpanItems() {
		next := state.maxIndex() + 1
		if it := s.at(next); it != nil && it.fullSpan {
			return s.lineUnfilled(state.lines[state.argmax()])
		}
		return s.lineUnfilled(state.lines[state.argmin()])
	}
	for i := 0; i < len(state.lines) && i < s.count(); i++ {
		if s.lineUnfilled(state.lines[i]) {
			return true
		}
	}
	return false
}

func (s *staggeredLayout) hasUnfilledStart() bool {
	lm := s.lm
	h := lm.helper
	if s.hasFullSpanItems() {
		next := s.nextIndexToBindToStart()
		it := s.at(next)
		if it == nil {
			return false
		}
		if it.fullSpan {
			line := s.starts.lines[s.starts.argmin()]
			return line > lm.contentOffset && line > h.startAfterPadding()
		}
		return s.intersectsVisibleArea(it)
	}
	for i := 0; i < len(s.starts.lines) && i < s.count(); i++ {
		if s.starts.indexes[i] == InvalidIndex {
			continue
		}
		if line := s.starts.lines[i]; line > lm.contentOffset && line > h.startAfterPadding() {
			return true
		}
	}
	return false
}

// nextIndexToBindToStart is the item above the top of the column whose
// start line is lowest.
func (s *staggeredLayout) nextIndexToBindToStart() int {
	if !s.starts.valid() {
		return InvalidIndex
	}
	col := s.starts.argmax()
	if col >= len(s.columns) {
		return InvalidIndex
	}
	target := s.starts.indexes[col]
	for pos, index := range s.columns[col] {
		if index == target {
			if pos == 0 {
				return InvalidIndex
			}
			return s.columns[col][pos-1]
		}
	}
	return InvalidIndex
}

func (s *staggeredLayout) fill() {
	if s.direction == LayoutToEnd {
		s.fillToEnd()
		s.layoutInvalid(0)
		return
	}
	s.fillToStart()
	s.direction = LayoutToEnd
	s.updateLinesStatus()
	s.fillToEnd()
	s.layoutInvalid(0)
}

func (s *staggeredLayout) fillToEnd() {
	if !s.ends.valid() {
		return
	}
	state := s.ends.clone()
	next := state.maxIndex() + 1
	for n := 0; s.hasUnfilledEnd(&state) && next < s.count(); n++ {
		if n >= s.fillLimit() {
			s.reportFillLimit("end")
			return
		}
		s.layoutChunkToEnd(next, &state, true)
		next++
	}
}

// fillToStart binds upward from the top of the visible columns while
// keeping the first visible item in place.
func (s *staggeredLayout) fillToStart() {
	lm := s.lm
	h := lm.helper
	s.layoutInvalid(0)
	s.updateLinesStatus()
	if !s.starts.valid() {
		return
	}
	anchor := s.at(s.starts.indexes[s.starts.argmin()])
	if anchor == nil {
		return
	}
	delta := h.decoratedStart(anchor) - lm.contentOffset

	for n := 0; s.hasUnfilledStart(); n++ {
		if n >= s.fillLimit() {
			s.reportFillLimit("start")
			break
		}
		next := s.nextIndexToBindToStart()
		it := s.at(next)
		if it == nil {
			break
		}
		before := h.decoratedMeasurement(it)
		lm.c.adapter.bindItemHolder(it, next, false)
		if math.Abs(h.decoratedMeasurement(it)-before) > 1e-5 {
			s.layoutInvalid(0)
			s.updateLinesStatus()
			continue
		}
		if it.fullSpan {
			for col := range s.starts.lines {
				s.starts.lines[col] = h.decoratedStart(it)
				s.starts.indexes[col] = next
			}
		} else if it.colIndex < len(s.starts.lines) {
			s.starts.lines[it.colIndex] = h.decoratedStart(it)
			s.starts.indexes[it.colIndex] = next
		}
	}
	lm.contentSize = s.targetContentSize()
	lm.setContentOffset(h.decoratedStart(anchor) - delta)
}

func (s *staggeredLayout) reportFillLimit(direction string) {
	c := s.lm.c
	err := fmt.Errorf("fill to %s after %d items: %w", direction, s.fillLimit(), ErrStaggeredFillLimit)
	Logger.Error("staggered fill stopped", "list", c.listID, "error", err)
	c.events.sendDebugInfo(DebugLevelError, err.Error())
	if c.host != nil {
		c.host.OnErrorOccurred(err)
	}
}

// bindAllVisible binds every item the current geometry shows, relaying
// out after each round until a round binds nothing new.
func (s *staggeredLayout) bindAllVisible(anchor *anchorInfo) {
	lm := s.lm
	for n := 0; n <= s.count(); n++ {
		bound := false
		for i, it := range lm.c.children.children {
			if s.removed(it) || !s.intersectsVisibleArea(it) {
				continue
			}
			if lm.c.adapter.bindItemHolder(it, i, false) {
				bound = true
			}
		}
		if !bound {
			return
		}
		s.layoutInvalid(0)
		lm.contentSize = s.targetContentSize()
		lm.c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)
	}
}

func (s *staggeredLayout) layoutChildrenInternal(anchor *anchorInfo) {
	lm := s.lm
	c := lm.c
	if s.count() == 0 {
		s.layoutInvalid(0)
		lm.contentSize = s.targetContentSize()
		lm.setContentOffset(0)
		lm.flushContentSizeAndOffset()
		c.children.updateOnScreen(lm.helper, lm.contentOffset)
		return
	}

	s.layoutInvalid(0)
	lm.contentSize = s.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)
	s.bindAllVisible(anchor)

	if !c.adapter.batch {
		s.direction = LayoutToStart
		s.updateLinesStatus()
		s.fill()
	}

	s.layoutInvalid(0)
	lm.contentSize = s.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)
	lm.updateStickyItemsAfterLayout(anchor)
	lm.flushContentSizeAndOffset()
	c.anchor.markScrolledInitialScrollIndex()
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	lm.handlePreload(anchor)
}

func (s *staggeredLayout) scrollByInternal(offset, original float64, fromPlatform bool) {
	lm := s.lm
	c := lm.c
	if fromPlatform {
		lm.platformOffset = offset
	}
	delta := offset - lm.lastContentOffset
	if math.Abs(delta) < 1e-5 {
		lm.setContentOffset(offset)
		lm.flushContentSizeAndOffset()
		lm.lastContentOffset = lm.contentOffset
		return
	}
	guard := c.intercept()
	defer guard.release()

	s.direction = LayoutToEnd
	if delta < 0 {
		s.direction = LayoutToStart
	}
	lm.setContentOffset(offset)
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	anchor := lm.scrollAnchor()

	s.bindAllVisible(&anchor)
	s.updateLinesStatus()
	s.fill()
	lm.contentSize = s.targetContentSize()
	lm.flushContentSizeAndOffset()
	lm.updateStickyItems()
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	lm.handlePreload(&anchor)

	lm.onScrollAfter(guard, original)
}

// preloadBuffer binds preloadBufferCount items on each side of the visible
// range. Every item already has a position, so no fill is needed.
func (s *staggeredLayout) preloadBuffer() bool {
	lm := s.lm
	ci := lm.c.children
	lm.preloadMin, lm.preloadMax = InvalidIndex, InvalidIndex
	ci.inPreload.clear()
	first := ci.onScreen.first(func(*Item) bool { return true })
	last := ci.onScreen.last(func(*Item) bool { return true })
	if first == nil || last == nil {
		return false
	}
	n := lm.preloadBufferCount
	lo := max(first.index-n, 0)
	hi := min(last.index+n, s.count()-1)
	for i := last.index + 1; i <= hi; i++ {
		lm.c.adapter.bindItemHolder(s.at(i), i, false)
	}
	for i := first.index - 1; i >= lo; i-- {
		lm.c.adapter.bindItemHolder(s.at(i), i, false)
	}
	if lo == first.index && hi == last.index {
		return false
	}
	if lo < first.index {
		lm.preloadMin = lo
	}
	if hi > last.index {
		lm.preloadMax = hi
	}
	ci.updateInPreload(lo, hi)
	return true
}

func (s *staggeredLayout) preloadSection() {
	lm := s.lm
	ci := lm.c.children
	first := ci.onScreen.first(func(*Item) bool { return true })
	last := ci.onScreen.last(func(*Item) bool { return true })
	if first == nil || last == nil {
		return
	}
	section := last.index - first.index + 1
	for start := last.index + 1; start < s.count(); start += section {
		for i := start; i < start+section && i < s.count(); i++ {
			lm.c.adapter.bindItemHolder(s.at(i), i, true)
		}
		lm.recycleOffScreen()
	}
	for end := first.index - 1; end >= 0; end -= section {
		for i := end; i > end-section && i >= 0; i-- {
			lm.c.adapter.bindItemHolder(s.at(i), i, true)
		}
		lm.recycleOffScreen()
	}
}

// shouldRecycle is always true: on-screen, preload and sticky items are
// kept before this is asked.
func (s *staggeredLayout) shouldRecycle(*Item) bool { return true }
