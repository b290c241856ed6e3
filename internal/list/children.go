package list

import "sort"

// itemSet is a set of items iterated in index order
type itemSet struct {
	items []*Item
}

func (s *itemSet) sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].index < s.items[j].index
	})
}

func (s *itemSet) find(it *Item) int {
	for i, x := range s.items {
		if x == it {
			return i
		}
	}
	return -1
}

func (s *itemSet) add(it *Item) {
	if it == nil || s.find(it) >= 0 {
		return
	}
	s.items = append(s.items, it)
	s.sort()
}

func (s *itemSet) remove(it *Item) {
	if i := s.find(it); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

func (s *itemSet) has(it *Item) bool { return s.find(it) >= 0 }
func (s *itemSet) len() int          { return len(s.items) }
func (s *itemSet) clear()            { s.items = s.items[:0] }

// slice returns a copy safe to iterate while the set is mutated
func (s *itemSet) slice() []*Item {
	s.sort()
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// each visits items in index order, or reverse order when fromEnd is set,
// until fn returns true.
func (s *itemSet) each(fromEnd bool, fn func(*Item) bool) {
	items := s.slice()
	if fromEnd {
		for i := len(items) - 1; i >= 0; i-- {
			if fn(items[i]) {
				return
			}
		}
		return
	}
	for _, it := range items {
		if fn(it) {
			return
		}
	}
}

func (s *itemSet) first(pred func(*Item) bool) *Item {
	var found *Item
	s.each(false, func(it *Item) bool {
		if pred(it) {
			found = it
			return true
		}
		return false
	})
	return found
}

func (s *itemSet) last(pred func(*Item) bool) *Item {
	var found *Item
	s.each(true, func(it *Item) bool {
		if pred(it) {
			found = it
			return true
		}
		return false
	})
	return found
}

func (s *itemSet) indexes() []int {
	items := s.slice()
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.index
	}
	return out
}

// childrenIndex partitions the items into the sets a layout pass works on
type childrenIndex struct {
	children    []*Item
	attached    itemSet
	elements    map[int]*Item
	onScreen    itemSet
	inPreload   itemSet
	inSticky    itemSet
	lastBinding itemSet
}

func newChildrenIndex() *childrenIndex {
	return &childrenIndex{elements: make(map[int]*Item)}
}

func (ci *childrenIndex) setChildren(items []*Item) {
	ci.children = items
	ci.attached.sort()
	ci.onScreen.sort()
	ci.inPreload.sort()
	ci.inSticky.sort()
}

func (ci *childrenIndex) at(index int) *Item {
	if index < 0 || index >= len(ci.children) {
		return nil
	}
	return ci.children[index]
}

func (ci *childrenIndex) count() int { return len(ci.children) }

func (ci *childrenIndex) forEach(fn func(*Item) bool) {
	for _, it := range ci.children {
		if fn(it) {
			return
		}
	}
}

func (ci *childrenIndex) attach(it *Item) {
	ci.attached.add(it)
	if it.element != nil {
		ci.elements[it.element.ID()] = it
	}
}

func (ci *childrenIndex) detach(it *Item) {
	ci.attached.remove(it)
	if it.element != nil {
		if cur, ok := ci.elements[it.element.ID()]; ok && cur == it {
			delete(ci.elements, it.element.ID())
		}
	}
	ci.onScreen.remove(it)
	ci.inPreload.remove(it)
	ci.inSticky.remove(it)
	ci.lastBinding.remove(it)
}

func (ci *childrenIndex) itemForElement(id int) *Item {
	return ci.elements[id]
}

func (ci *childrenIndex) updateOnScreen(h *orientationHelper, offset float64) {
	ci.onScreen.clear()
	for _, it := range ci.children {
		if it.visibleInList(h, offset) {
			ci.onScreen.items = append(ci.onScreen.items, it)
		}
	}
}

func (ci *childrenIndex) updateInPreload(min, max int) {
	ci.inPreload.clear()
	if min < 0 || max < min {
		return
	}
	for i := min; i <= max && i < len(ci.children); i++ {
		it := ci.children[i]
		if !ci.onScreen.has(it) {
			ci.inPreload.items = append(ci.inPreload.items, it)
		}
	}
}

// updateInSticky keeps the pinned items that have an element
func (ci *childrenIndex) updateInSticky(pinned ...*Item) {
	ci.inSticky.clear()
	for _, it := range pinned {
		if it != nil && ci.attached.has(it) {
			ci.inSticky.add(it)
		}
	}
}

// handleLayoutOrScrollResult inserts the attached items keep accepts,
// recycles the others and pushes layout for every item.
func (ci *childrenIndex) handleLayoutOrScrollResult(keep func(*Item) bool, insert, recycle, update func(*Item)) {
	for _, it := range ci.attached.slice() {
		if keep(it) {
			insert(it)
		} else {
			recycle(it)
		}
	}
	for _, it := range ci.children {
		update(it)
	}
}
