package list

import "math"

// updateStickyItems picks the sticky-top and sticky-bottom items to pin at
// the current offset and binds them. It returns the lowest index whose size
// changed while binding, or InvalidIndex.
func (lm *layoutManager) updateStickyItems() int {
	lm.stickyTopItem, lm.stickyBottomItem = nil, nil
	if !lm.sticky {
		return InvalidIndex
	}
	c := lm.c
	h := lm.helper
	changed := InvalidIndex
	bind := func(it *Item) {
		before := h.decoratedMeasurement(it)
		c.adapter.bindItemHolder(it, it.index, false)
		if math.Abs(h.decoratedMeasurement(it)-before) > 1e-5 && (changed == InvalidIndex || it.index < changed) {
			changed = it.index
		}
	}

	tops := c.adapter.stickyTops()
	for i := len(tops) - 1; i >= 0; i-- {
		it := c.children.at(tops[i])
		if it != nil && lm.isSticky(it) {
			lm.stickyTopItem = it
			bind(it)
			break
		}
	}
	for _, index := range c.adapter.stickyBottoms() {
		it := c.children.at(index)
		if it != nil && it != lm.stickyTopItem && lm.isSticky(it) {
			lm.stickyBottomItem = it
			bind(it)
			break
		}
	}
	return changed
}

// updateStickyItemsAfterLayout pins sticky items at the end of a layout
// pass and relays out from the first item whose size changed.
func (lm *layoutManager) updateStickyItemsAfterLayout(anchor *anchorInfo) {
	changed := lm.updateStickyItems()
	if changed == InvalidIndex {
		return
	}
	lm.policy.layoutInvalid(max(changed-1, 0))
	lm.contentSize = lm.policy.targetContentSize()
	lm.c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)
}

// pin moves the platform frame of a pinned item to the sticky line. The
// next sticky-top item pushes a pinned top item out; the previous
// sticky-bottom item does the same for a pinned bottom item.
func (lm *layoutManager) pin(it *Item, frame *Rect) {
	h := lm.helper
	size := h.size(it)
	var main float64
	switch it {
	case lm.stickyTopItem:
		main = lm.contentOffset + lm.stickyOffset
		if next := lm.neighborSticky(it, true); next != nil {
			main = math.Min(main, h.decoratedStart(next)-size)
		}
		main = math.Max(main, h.start(it))
	case lm.stickyBottomItem:
		main = lm.contentOffset + h.measurement() - lm.stickyOffset - size
		if prev := lm.neighborSticky(it, false); prev != nil {
			main = math.Max(main, h.decoratedEnd(prev))
		}
		main = math.Min(main, h.start(it))
	default:
		return
	}
	if h.vertical() {
		frame.Y = main
	} else {
		frame.X = main
	}
}

// neighborSticky returns the closest sticky item of the same kind after
// it (top) or before it (bottom).
func (lm *layoutManager) neighborSticky(it *Item, top bool) *Item {
	if top {
		for _, index := range lm.c.adapter.stickyTops() {
			if index > it.index {
				return lm.c.children.at(index)
			}
		}
		return nil
	}
	bottoms := lm.c.adapter.stickyBottoms()
	for i := len(bottoms) - 1; i >= 0; i-- {
		if bottoms[i] < it.index {
			return lm.c.children.at(bottoms[i])
		}
	}
	return nil
}
