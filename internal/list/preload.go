package list

// handlePreload runs after a layout or scroll step. Section preload waits
// for the next frame; buffer preload binds around the visible range now
// and relays out if it bound anything.
func (lm *layoutManager) handlePreload(anchor *anchorInfo) {
	c := lm.c
	if lm.preloadSectionEnabled {
		if lm.needPreloadSectionOnNextFrame && c.host != nil {
			c.host.RequestNextFrame()
		}
		return
	}
	if lm.preloadBufferCount <= 0 {
		lm.preloadMin, lm.preloadMax = InvalidIndex, InvalidIndex
		c.children.inPreload.clear()
		return
	}
	if !lm.policy.preloadBuffer() {
		return
	}
	lm.policy.layoutInvalid(0)
	lm.contentSize = lm.policy.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(anchor, lm.contentOffset)
	lm.flushContentSizeAndOffset()
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
}

// onNextFrame runs a pending section preload
func (lm *layoutManager) onNextFrame() {
	c := lm.c
	if !lm.needPreloadSectionOnNextFrame {
		return
	}
	lm.needPreloadSectionOnNextFrame = false
	if !lm.preloadSectionEnabled || c.adapter.count() == 0 {
		return
	}
	guard := c.intercept()
	defer guard.release()

	anchor := lm.scrollAnchor()
	lm.policy.preloadSection()
	lm.policy.layoutInvalid(0)
	lm.contentSize = lm.policy.targetContentSize()
	c.anchor.adjustContentOffsetWithAnchor(&anchor, lm.contentOffset)
	lm.flushContentSizeAndOffset()
	c.children.updateOnScreen(lm.helper, lm.contentOffset)
	lm.handleLayoutOrScrollResult(false)
}

// recycleOffScreen recycles attached items a preload section left outside
// the visible range.
func (lm *layoutManager) recycleOffScreen() {
	ci := lm.c.children
	for _, it := range ci.attached.slice() {
		if ci.onScreen.has(it) || ci.inSticky.has(it) || !lm.policy.shouldRecycle(it) {
			continue
		}
		lm.recycleItem(it)
	}
}
