package list

// gridRows places items in rows of spanCount equal cells. A full-span item
// takes a row of its own.
type gridRows struct {
	lm *layoutManager
}

func (g *gridRows) at(index int) *Item { return g.lm.c.children.at(index) }

func (g *gridRows) startsRow(it *Item) bool { return it.fullSpan || it.colIndex == 0 }

// rowStart is the index of the first item in the row holding index
func (g *gridRows) rowStart(index int) int {
	it := g.at(index)
	if it == nil || it.fullSpan {
		return index
	}
	return max(index-it.colIndex, 0)
}

// largestMainSize is the decorated end of the row holding it
func (g *gridRows) largestMainSize(it *Item) float64 {
	h := g.lm.helper
	if it.fullSpan {
		return h.decoratedEnd(it)
	}
	start := it.index - it.colIndex
	count := g.lm.c.children.count()
	if start < 0 || start >= count {
		return h.decoratedEnd(it)
	}
	end := h.decoratedEnd(g.at(start))
	for j := start + 1; j < count; j++ {
		next := g.at(j)
		if g.startsRow(next) {
			break
		}
		end = max(end, h.decoratedEnd(next))
	}
	return end
}

// assignColumns gives every item its column and span
func (g *gridRows) assignColumns() {
	span := g.lm.span()
	ci := g.lm.c.children
	for i := 0; i < ci.count(); i++ {
		it := ci.at(i)
		if it.fullSpan {
			it.colIndex = 0
			it.spanSize = span
			continue
		}
		prev := ci.at(i - 1)
		if prev == nil || prev.fullSpan || prev.colIndex >= span-1 {
			it.colIndex = 0
		} else {
			it.colIndex = prev.colIndex + 1
		}
		if next := ci.at(i + 1); next == nil || next.fullSpan {
			it.spanSize = span - it.colIndex
		} else {
			it.spanSize = 1
		}
	}
}

func (g *gridRows) cellCross(it *Item) float64 {
	if size := g.lm.helper.decoratedMeasurementCross(it); size > 0 {
		return size
	}
	return g.lm.cellSize()
}

func (g *gridRows) layoutInvalid(first int) {
	lm := g.lm
	ci := lm.c.children
	g.assignColumns()
	if first < 0 || first >= ci.count() {
		return
	}
	h := lm.helper
	span := lm.span()
	first = g.rowStart(first)
	for i := first; i < ci.count(); i++ {
		it := ci.at(i)
		prev := ci.at(i - 1)
		var main, cross float64
		switch {
		case prev == nil:
			it.topInset = 0
			main = h.startAfterPadding() + h.mainMargin(it)
			cross = h.startAfterPaddingCross() + h.crossMargin(it)
		case prev.fullSpan || prev.colIndex >= span-1 || it.fullSpan || it.colIndex == 0:
			it.topInset = lm.mainAxisGap
			main = g.largestMainSize(prev) + it.topInset + h.mainMargin(it)
			cross = h.startAfterPaddingCross() + h.crossMargin(it)
		default:
			it.topInset = prev.topInset
			main = h.decoratedStart(prev) + it.topInset + h.mainMargin(it)
			cross = h.crossStart(prev) - h.crossMargin(prev) + h.decoratedMeasurementCross(prev) + lm.crossAxisGap + h.crossMargin(it)
		}
		h.place(it, main, cross)
	}
}

func (g *gridRows) targetContentSize() float64 {
	h := g.lm.helper
	ci := g.lm.c.children
	if ci.count() == 0 {
		return h.startAfterPadding() + h.endPadding()
	}
	return g.largestMainSize(ci.at(ci.count()-1)) + h.endPadding()
}

// layoutChunk binds and places one row
func (g *gridRows) layoutChunk(st *layoutState, preloadSection bool) (float64, bool) {
	lm := g.lm
	h := lm.helper
	ci := lm.c.children
	start := g.rowStart(st.nextIndex)
	if g.at(start) == nil {
		st.nextIndex += int(st.direction)
		return 0, false
	}

	var row []*Item
	var consumed float64
	for j := start; j < ci.count(); j++ {
		it := ci.at(j)
		if j > start && g.startsRow(it) {
			break
		}
		lm.c.adapter.bindItemHolder(it, j, preloadSection)
		consumed = max(consumed, h.decoratedMeasurement(it))
		row = append(row, it)
	}

	rowStart := st.offset
	if st.direction == LayoutToStart {
		rowStart -= consumed
	}
	for _, it := range row {
		cross := h.startAfterPaddingCross() + float64(it.colIndex)*(g.cellCross(it)+lm.crossAxisGap) + h.crossMargin(it)
		h.place(it, rowStart+it.topInset+h.mainMargin(it), cross)
	}

	if st.direction == LayoutToEnd {
		st.nextIndex = start + len(row)
	} else {
		st.nextIndex = g.rowStart(start - 1)
		if start == 0 {
			st.nextIndex = InvalidIndex
		}
	}
	return consumed, true
}

func (g *gridRows) stateToFillEnd(st *layoutState, anchor *anchorInfo) {
	start := g.rowStart(anchor.index)
	offset := anchor.startOffset
	if it := g.at(start); it != nil {
		offset = g.lm.helper.decoratedStart(it)
	}
	fillStateToEnd(g.lm, st, start, offset)
}

func (g *gridRows) stateToFillStart(st *layoutState, anchor *anchorInfo) {
	start := g.rowStart(anchor.index)
	offset := anchor.startOffset
	if it := g.at(start); it != nil {
		offset = g.lm.helper.decoratedStart(it)
	}
	next := InvalidIndex
	if start > 0 {
		next = g.rowStart(start - 1)
	}
	fillStateToStart(g.lm, st, next, offset)
}

func (g *gridRows) stateToFillPreload(st *layoutState, index int, offset float64, dir LayoutDirection) {
	st.direction = dir
	st.offset = offset
	st.nextIndex = g.rowStart(index)
	if dir == LayoutToEnd && st.nextIndex != index {
		// index sits inside a row that is already placed
		if it := g.at(st.nextIndex); it != nil {
			st.offset = g.lm.helper.decoratedStart(it)
		}
	}
}

// targetIndexForPreload widens the buffer to whole rows
func (g *gridRows) targetIndexForPreload(start int, dir LayoutDirection) int {
	lm := g.lm
	count := lm.c.children.count()
	n := lm.preloadBufferCount
	if n <= 0 || count == 0 {
		return InvalidIndex
	}
	span := lm.span()
	target := InvalidIndex
	if dir == LayoutToEnd {
		for i := max(start, 0); i < start+n && i < count; i++ {
			it := g.at(i)
			last := i - it.colIndex + span - 1
			if it.fullSpan {
				last = i
			}
			target = max(target, last)
		}
	} else {
		for i := min(start, count-1); i > start-n && i >= 0; i-- {
			it := g.at(i)
			first := i - it.colIndex
			if it.fullSpan {
				first = i
			}
			if target == InvalidIndex || first < target {
				target = first
			}
		}
	}
	if target == InvalidIndex {
		return InvalidIndex
	}
	return max(0, min(target, count-1))
}

func (g *gridRows) shouldRecycle(it *Item) bool {
	lm := g.lm
	h := lm.helper
	return g.largestMainSize(it) < lm.contentOffset || h.decoratedStart(it) > lm.contentOffset+h.measurement()
}
