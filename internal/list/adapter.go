package list

import (
	"sort"

	"github.com/juanibiapina/vlist/internal/diff"
)

// adapter owns the key to item map and drives binds and recycles against
// the component provider. The immediate and batch variants share this FSM;
// batch only changes how binds are issued and how recycles reach the
// painting context.
type adapter struct {
	c     *Container
	batch bool

	items map[string]*Item
	data  diff.Snapshot

	pending     *diff.Changes
	pendingData diff.Snapshot

	bindings     map[int64]string
	sectionBinds map[string]bool
	opCounter    int64
}

func newAdapter(c *Container) *adapter {
	return &adapter{
		c:            c,
		items:        make(map[string]*Item),
		bindings:     make(map[int64]string),
		sectionBinds: make(map[string]bool),
	}
}

func (a *adapter) count() int { return a.data.Len() }

func (a *adapter) itemAt(index int) *Item { return a.c.children.at(index) }

func (a *adapter) isFullSpanAt(index int) bool {
	return a.data.MetaAt(index).FullSpan
}

func (a *adapter) stickyTops() []int {
	var out []int
	for i, m := range a.data.Meta {
		if m.StickyTop {
			out = append(out, i)
		}
	}
	return out
}

func (a *adapter) stickyBottoms() []int {
	var out []int
	for i, m := range a.data.Meta {
		if m.StickyBottom {
			out = append(out, i)
		}
	}
	return out
}

func (a *adapter) generateOperationID() int64 {
	a.opCounter++
	return (int64(a.c.listID) << 32) + a.opCounter
}

// setData stores a validated diff for the next reconcile. A diff still
// waiting from an earlier attribute is reconciled first so changes are
// always applied against the order they were computed from.
func (a *adapter) setData(next diff.Snapshot, changes diff.Changes) {
	if a.pending != nil {
		a.reconcile()
	}
	a.pendingData = next
	a.pending = &changes
}

func (a *adapter) needUpdate() bool { return a.pending != nil }

// latest is the data the next diff applies to: the pending snapshot when a
// diff is waiting for reconcile, else the reconciled one.
func (a *adapter) latest() diff.Snapshot {
	if a.pending != nil {
		return a.pendingData
	}
	return a.data
}

// reconcile brings items in line with the pending snapshot
func (a *adapter) reconcile() {
	if a.pending == nil {
		return
	}
	changes := *a.pending
	next := a.pendingData
	a.pending = nil

	old := a.c.children.children
	for _, it := range old {
		it.diffStatus = DiffValid
	}
	atOld := func(i int) *Item {
		if i < 0 || i >= len(old) {
			return nil
		}
		return old[i]
	}
	for _, i := range changes.Removals {
		if it := atOld(i); it != nil {
			a.markRemoved(it)
		}
	}
	for _, i := range changes.UpdateFrom {
		if it := atOld(i); it != nil {
			it.diffStatus = DiffUpdatedFrom
		}
	}
	for _, i := range changes.MoveFrom {
		if it := atOld(i); it != nil {
			it.diffStatus = DiffMoveFrom
		}
	}

	children := make([]*Item, len(next.Keys))
	present := make(map[string]bool, len(next.Keys))
	for i, key := range next.Keys {
		present[key] = true
		it, ok := a.items[key]
		if !ok {
			it = newItem(i, key, next.MetaAt(i))
			a.items[key] = it
		} else if it.status == StatusRemoved {
			it.status = StatusNeverBind
			it.diffStatus = DiffValid
		}
		it.index = i
		it.applyMeta(next.MetaAt(i))
		children[i] = it
	}
	for _, it := range a.sortedItems() {
		if !present[it.key] && it.status != StatusRemoved {
			a.markRemoved(it)
		}
	}
	for _, i := range changes.UpdateTo {
		if i >= 0 && i < len(children) {
			it := children[i]
			a.markUpdated(it)
			it.diffStatus = DiffUpdateTo
		}
	}
	for _, i := range changes.MoveTo {
		if i >= 0 && i < len(children) {
			children[i].diffStatus = DiffMoveTo
		}
	}

	a.data = next
	a.c.children.setChildren(children)
	Logger.Debug("reconciled items", "list", a.c.listID, "count", len(children))
}

func (a *adapter) markRemoved(it *Item) {
	it.status = StatusRemoved
	it.diffStatus = DiffRemoved
	it.operationID = 0
}

func (a *adapter) markUpdated(it *Item) {
	if next := it.status.updated(); next != it.status {
		it.status = next
		it.operationID = 0
	}
}

// sortedItems returns every item ordered by index and key so iteration is
// reproducible across runs.
func (a *adapter) sortedItems() []*Item {
	out := make([]*Item, 0, len(a.items))
	for _, it := range a.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].index != out[j].index {
			return out[i].index < out[j].index
		}
		return out[i].key < out[j].key
	})
	return out
}

// bindItemHolder issues a bind for a dirty or recycled item
func (a *adapter) bindItemHolder(it *Item, index int, preloadSection bool) bool {
	if it == nil || it.index != index || !it.status.canBind() {
		return false
	}
	if a.batch && preloadSection {
		return false
	}
	host := a.c.host
	if host == nil {
		a.c.nullCollaborator("bind")
		return false
	}
	id := a.prepareBind(it)
	if preloadSection {
		a.sectionBinds[it.key] = true
	}
	Logger.Debug("bind item", "list", a.c.listID, "index", index, "key", it.key, "operation", id)
	host.ComponentAtIndex(index, id, a.c.shouldRequestStateRestore)
	return true
}

// bindItemHolders issues one batched bind for every bindable item
func (a *adapter) bindItemHolders(items []*Item) {
	host := a.c.host
	if host == nil {
		a.c.nullCollaborator("bind")
		return
	}
	var indexes []int
	var ids []int64
	a.c.children.lastBinding.clear()
	for _, it := range items {
		if it == nil || !it.status.canBind() {
			continue
		}
		indexes = append(indexes, it.index)
		ids = append(ids, a.prepareBind(it))
		a.c.children.lastBinding.add(it)
	}
	if len(indexes) == 0 {
		return
	}
	Logger.Debug("bind items", "list", a.c.listID, "indexes", indexes)
	host.ComponentAtIndexes(indexes, ids)
}

func (a *adapter) prepareBind(it *Item) int64 {
	if it.element != nil {
		a.recycle(it)
	}
	id := a.generateOperationID()
	it.status = StatusInBinding
	it.operationID = id
	a.bindings[id] = it.key
	return id
}

// finishBind applies one completion. It returns the bound item when the
// completion is current; otherwise the element goes back to the pool.
func (a *adapter) finishBind(el Element, id int64) (*Item, bool) {
	if el == nil {
		Logger.Error("finish bind without element", "list", a.c.listID, "operation", id)
		return nil, false
	}
	key, ok := a.bindings[id]
	if !ok {
		a.stale(el, id, "unknown operation")
		return nil, false
	}
	delete(a.bindings, id)
	it, ok := a.items[key]
	if !ok || it.operationID != id || it.status != StatusInBinding {
		a.stale(el, id, "superseded operation")
		return nil, false
	}
	it.operationID = 0
	it.element = el
	it.status = StatusFinishedBinding
	it.updateFromElement(el)
	a.c.children.attach(it)
	if a.c.shouldRequestStateRestore && a.c.host != nil {
		a.c.host.ListCellWillAppear(el.ID(), it.key)
	}
	a.c.events.sendNodeEvent(EventNodeAppear, it)
	return it, true
}

func (a *adapter) stale(el Element, id int64, reason string) {
	Logger.Debug("recycling element", "list", a.c.listID, "operation", id, "reason", reason, "error", ErrStaleBind)
	if a.c.host != nil {
		a.c.host.EnqueueComponent(el.ID())
	}
}

// takeSectionBind reports and clears whether key was bound by a preload section
func (a *adapter) takeSectionBind(key string) bool {
	if a.sectionBinds[key] {
		delete(a.sectionBinds, key)
		return true
	}
	return false
}

// recycle returns the item's element to the pool
func (a *adapter) recycle(it *Item) {
	if it == nil {
		return
	}
	if it.status == StatusInBinding {
		it.operationID = 0
	}
	it.status = it.status.recycled()
	el := it.element
	if el == nil {
		return
	}
	if host := a.c.host; host != nil {
		if a.batch {
			host.RemoveListItemPaintingNode(a.c.listID, el.ID())
		}
		host.EnqueueComponent(el.ID())
	}
	a.c.children.detach(it)
	it.element = nil
	it.painted = false
	it.sentFrame = nil
	a.c.events.sendNodeEventFor(EventNodeDisappear, el, it)
}

// recycleRemoved recycles and erases every removed item
func (a *adapter) recycleRemoved() {
	for _, it := range a.sortedItems() {
		if it.status == StatusRemoved {
			a.recycle(it)
			a.c.children.detach(it)
			delete(a.items, it.key)
			delete(a.sectionBinds, it.key)
		}
	}
}

func (a *adapter) recycleAll() {
	for _, it := range a.sortedItems() {
		a.recycle(it)
	}
}

// onDataSetChanged forces every live item to rebind
func (a *adapter) onDataSetChanged() {
	for _, it := range a.sortedItems() {
		if it.status != StatusRemoved {
			it.status = StatusNeverBind
			it.operationID = 0
		}
	}
}

// updateLayoutInfo refreshes geometry for a finished item whose element
// reported a new layout.
func (a *adapter) updateLayoutInfo(el Element) bool {
	if el == nil {
		return false
	}
	it := a.c.children.itemForElement(el.ID())
	if it == nil || it.status != StatusFinishedBinding || it.element == nil || it.element.ID() != el.ID() {
		return false
	}
	it.updateFromElement(el)
	return true
}
