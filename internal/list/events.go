package list

import (
	"math"
	"time"
)

// eventManager emits list events to the host. Only events registered
// through AddEvent are delivered.
type eventManager struct {
	c *Container

	events map[string]bool
	now    func() time.Time

	throttleMs     float64
	lastScrollTime time.Time

	upperThreshold int
	lowerThreshold int
	scrollState    ScrollState

	needVisibleCells       bool
	needLayoutCompleteInfo bool
	needVisibleItemInfo    bool
	layoutID               int
	layoutCompleteInfo     map[string]any
	debugLevel             DebugLevel
}

func newEventManager(c *Container) *eventManager {
	return &eventManager{
		c:        c,
		events:   make(map[string]bool),
		now:      time.Now,
		layoutID: -1,
	}
}

func (em *eventManager) addEvent(name string) { em.events[name] = true }
func (em *eventManager) clearEvents()         { em.events = make(map[string]bool) }
func (em *eventManager) bound(name string) bool {
	return em.events[name]
}

func (em *eventManager) unitsPerPx() float64 {
	if em.c.unitsPerPx > 0 {
		return em.c.unitsPerPx
	}
	return 1
}

// onScroll sends a throttled scroll event for a non-zero distance
func (em *eventManager) onScroll(distance float64, source EventSource) {
	if math.Abs(distance) < 1e-6 {
		return
	}
	now := em.now()
	throttle := time.Duration(em.throttleMs * float64(time.Millisecond))
	if em.lastScrollTime.IsZero() || now.Sub(em.lastScrollTime) >= throttle {
		em.sendScrollEvent(EventScroll, distance, source)
		em.lastScrollTime = now
	}
}

// detectThresholds sends scrolltoupper/scrolltolower and the edge events.
// Diff and layout sources always report the thresholds they are in; scroll
// only reports transitions.
func (em *eventManager) detectThresholds(distance, originalOffset float64, source EventSource) {
	lm := em.c.layout
	first, last := math.MaxInt, math.MinInt
	for _, it := range em.c.children.onScreen.slice() {
		first = min(first, it.index)
		last = max(last, it.index)
	}
	offset := lm.contentOffset
	contentSize := lm.contentSize
	listSize := lm.helper.measurement()

	var isUpper, isLower, isUpperEdge, isLowerEdge bool
	if first < em.upperThreshold {
		isUpper = true
	}
	if em.upperThreshold == 0 && offset <= 0 {
		isUpper = true
	}
	if listSize > contentSize {
		isUpperEdge, isLowerEdge = true, true
	} else {
		isLowerEdge = offset+listSize >= contentSize
		isUpperEdge = offset <= 0
	}
	if last > em.c.children.count()-em.lowerThreshold-1 {
		isLower = true
	}
	if em.lowerThreshold == 0 && offset+listSize >= contentSize {
		isLower = true
	}
	if listSize >= contentSize {
		isUpper, isLower = true, true
	}

	switch source {
	case EventSourceDiff, EventSourceLayout:
		if isUpper {
			em.sendScrollEvent(EventScrollToUpper, distance, source)
		}
		if isLower {
			em.sendScrollEvent(EventScrollToLower, distance, source)
		}
	case EventSourceScroll:
		prev := em.scrollState
		if isUpper && prev != ScrollStateUpper && prev != ScrollStateBothEdge {
			em.updateScrollState(isLower, isUpper)
			em.sendScrollEvent(EventScrollToUpper, distance, source)
		}
		if isLower && prev != ScrollStateLower && prev != ScrollStateBothEdge {
			em.updateScrollState(isLower, isUpper)
			em.sendScrollEvent(EventScrollToLower, distance, source)
		}
		em.updateScrollState(isLower, isUpper)
	}

	notBouncing := notAtBouncesArea(originalOffset, contentSize, listSize)
	if isLowerEdge && notBouncing {
		em.sendScrollEvent(EventScrollToLowerEdge, 0, source)
	}
	if isUpperEdge && notBouncing {
		em.sendScrollEvent(EventScrollToUpperEdge, 0, source)
	}
	if !isLowerEdge && !isUpperEdge {
		em.sendScrollEvent(EventScrollToNormalState, 0, source)
	}
}

func (em *eventManager) updateScrollState(isLower, isUpper bool) {
	switch {
	case isLower && isUpper:
		em.scrollState = ScrollStateBothEdge
	case isLower:
		em.scrollState = ScrollStateLower
	case isUpper:
		em.scrollState = ScrollStateUpper
	default:
		em.scrollState = ScrollStateMiddle
	}
}

// notAtBouncesArea reports whether offset is inside the scrollable range
func notAtBouncesArea(offset, contentSize, listSize float64) bool {
	if offset < 0 {
		return false
	}
	if listSize >= contentSize && offset > 0 {
		return false
	}
	if contentSize > listSize && offset+listSize > contentSize {
		return false
	}
	return true
}

func (em *eventManager) scrollInfo(dx, dy float64) map[string]any {
	lm := em.c.layout
	u := em.unitsPerPx()
	vertical := lm.helper.vertical()
	offset := lm.contentOffset / u
	size := lm.contentSize / u
	listWidth := em.c.frame.Width / u
	listHeight := em.c.frame.Height / u
	info := map[string]any{
		"scrollLeft":   0.0,
		"scrollTop":    0.0,
		"scrollWidth":  listWidth,
		"scrollHeight": listHeight,
		"listWidth":    listWidth,
		"listHeight":   listHeight,
		"deltaX":       dx / u,
		"deltaY":       dy / u,
	}
	if vertical {
		info["scrollTop"] = offset
		info["scrollHeight"] = size
	} else {
		info["scrollLeft"] = offset
		info["scrollWidth"] = size
	}
	return info
}

func (em *eventManager) sendScrollEvent(name string, distance float64, source EventSource) {
	if !em.bound(name) || em.c.host == nil {
		return
	}
	var dx, dy, scrollLeft, scrollTop float64
	if em.c.layout.helper.vertical() {
		dy = distance
		scrollTop = em.c.layout.contentOffset
	} else {
		dx = distance
		scrollLeft = em.c.layout.contentOffset
	}
	detail := em.scrollInfo(dx, dy)
	detail["eventSource"] = int(source)
	if em.needVisibleCells {
		detail["attachedCells"] = em.visibleCells(scrollLeft, scrollTop)
	}
	em.c.host.SendEvent(em.c.listID, name, detail)
}

func (em *eventManager) visibleCells(scrollLeft, scrollTop float64) []any {
	u := em.unitsPerPx()
	cells := []any{}
	for _, it := range em.c.children.onScreen.slice() {
		if it.element == nil {
			continue
		}
		top := it.top - scrollTop
		left := it.left - scrollLeft
		cells = append(cells, map[string]any{
			"id":       it.element.ID(),
			"itemKey":  it.key,
			"index":    it.index,
			"position": it.index,
			"top":      top / u,
			"bottom":   (top + it.Height()) / u,
			"left":     left / u,
			"right":    (left + it.Width()) / u,
		})
	}
	return cells
}

// recordVisibleItems stores the on-screen items in the pending
// layoutcomplete info, before or after the pass.
func (em *eventManager) recordVisibleItems(before bool) {
	if !em.needLayoutCompleteInfo || !em.needVisibleItemInfo {
		return
	}
	u := em.unitsPerPx()
	items := []any{}
	for _, it := range em.c.children.onScreen.slice() {
		items = append(items, map[string]any{
			"index":   it.index,
			"itemKey": it.key,
			"left":    it.left / u,
			"top":     it.top / u,
			"width":   it.Width() / u,
			"height":  it.Height() / u,
		})
	}
	key := "visibleItemAfterUpdate"
	if before {
		key = "visibleItemBeforeUpdate"
	}
	em.pendingInfo()[key] = items
}

func (em *eventManager) pendingInfo() map[string]any {
	if em.layoutCompleteInfo == nil {
		em.layoutCompleteInfo = make(map[string]any)
	}
	return em.layoutCompleteInfo
}

// sendLayoutComplete sends layoutcomplete and resets the pending info and
// layout id before delivery so a nested pass starts clean.
func (em *eventManager) sendLayoutComplete() {
	if !em.bound(EventLayoutComplete) || em.c.host == nil {
		em.layoutCompleteInfo = nil
		em.layoutID = -1
		return
	}
	info := em.pendingInfo()
	info["layout-id"] = em.layoutID
	if em.needLayoutCompleteInfo {
		info["scrollInfo"] = em.scrollInfo(0, 0)
	}
	em.layoutCompleteInfo = nil
	em.layoutID = -1
	em.c.host.SendEvent(em.c.listID, EventLayoutComplete, info)
}

// sendNodeEvent sends nodeappear or nodedisappear for an item's element
func (em *eventManager) sendNodeEvent(name string, it *Item) {
	em.sendNodeEventFor(name, it.element, it)
}

func (em *eventManager) sendNodeEventFor(name string, el Element, it *Item) {
	if el == nil || em.c.host == nil || !el.HasEvent(name) {
		return
	}
	em.c.host.SendEvent(el.ID(), name, map[string]any{"index": it.index, "key": it.key})
}

var debugPrefixes = map[DebugLevel]string{
	DebugLevelError:   "[Native List Debug] Error",
	DebugLevelInfo:    "[Native List Debug] Info",
	DebugLevelVerbose: "[Native List Debug] Verbose",
}

// sendDebugInfo sends listdebuginfo when the configured level allows it
func (em *eventManager) sendDebugInfo(level DebugLevel, message string) {
	if level == DebugLevelNone || level > em.debugLevel || !em.bound(EventDebugInfo) || em.c.host == nil {
		return
	}
	em.c.host.SendEvent(em.c.listID, EventDebugInfo, map[string]any{
		"level":   debugPrefixes[level],
		"message": message,
	})
}
