package list

import (
	"fmt"
	"strconv"

	"github.com/juanibiapina/vlist/internal/diff"
)

// Attribute keys
const (
	AttrScrollOrientation      = "scroll-orientation"
	AttrVerticalOrientation    = "vertical-orientation"
	AttrListType               = "list-type"
	AttrSpanCount              = "span-count"
	AttrColumnCount            = "column-count"
	AttrMainAxisGap            = "list-main-axis-gap"
	AttrCrossAxisGap           = "list-cross-axis-gap"
	AttrAnchorPriority         = "anchor-priority"
	AttrAnchorAlign            = "anchor-align"
	AttrAnchorVisibility       = "anchor-visibility"
	AttrInitialScrollIndex     = "initial-scroll-index"
	AttrSticky                 = "sticky"
	AttrStickyOffset           = "sticky-offset"
	AttrPreloadBufferCount     = "preload-buffer-count"
	AttrEnablePreloadSection   = "experimental-enable-preload-section"
	AttrScrollEventThrottle    = "scroll-event-throttle"
	AttrUpperThreshold         = "upper-threshold-item-count"
	AttrLowerThreshold         = "lower-threshold-item-count"
	AttrListPlatformInfo       = "list-platform-info"
	AttrUpdateListInfo         = "update-list-info"
	AttrNeedVisibleItemInfo    = "need-visible-item-info"
	AttrNeedsVisibleCells      = "needs-visible-cells"
	AttrNeedLayoutCompleteInfo = "need-layout-complete-info"
	AttrDebugInfoLevel         = "list-debug-info-level"
	AttrBatchRenderStrategy    = "experimental-batch-render-strategy"
	AttrRequestStateRestore    = "should-request-state-restore"
	AttrLayoutID               = "layout-id"
)

// ResolveAttribute applies one list attribute. It returns true when the
// base element should receive the attribute as well.
func (c *Container) ResolveAttribute(key string, value any) bool {
	lm := c.layout
	em := c.events
	switch key {
	case AttrVerticalOrientation:
		o := OrientationHorizontal
		if asBool(value) {
			o = OrientationVertical
		}
		c.setOrientation(o)
	case AttrScrollOrientation:
		o := OrientationVertical
		if asString(value) == "horizontal" {
			o = OrientationHorizontal
		}
		c.setOrientation(o)
	case AttrSpanCount, AttrColumnCount:
		n, ok := asInt(value)
		if !ok {
			return true
		}
		if n <= 0 {
			n = 1
		}
		if lm.spanCount != n {
			c.adapter.onDataSetChanged()
			c.needRecycleAll = true
		}
		lm.spanCount = n
		c.layoutDirty = true
		return false
	case AttrMainAxisGap, AttrCrossAxisGap:
		gap, ok := asFloat(value)
		if !ok {
			return false
		}
		if key == AttrMainAxisGap && gap != lm.mainAxisGap {
			lm.mainAxisGap = gap
			c.layoutDirty = true
		}
		if key == AttrCrossAxisGap && gap != lm.crossAxisGap {
			lm.crossAxisGap = gap
			c.layoutDirty = true
		}
		return false
	case AttrAnchorPriority:
		c.anchor.priority = AnchorFromEnd
		if asString(value) == "fromBegin" {
			c.anchor.priority = AnchorFromBegin
		}
		return false
	case AttrAnchorAlign:
		c.anchor.align = AnchorAlignToTop
		if asString(value) == "toBottom" {
			c.anchor.align = AnchorAlignToBottom
		}
		return false
	case AttrAnchorVisibility:
		switch asString(value) {
		case "hide":
			c.anchor.visibility = AnchorVisibilityHide
		case "show":
			c.anchor.visibility = AnchorVisibilityShow
		default:
			c.anchor.visibility = AnchorVisibilityNoAdjustment
		}
		return false
	case AttrListPlatformInfo, AttrUpdateListInfo:
		c.layoutDirty = c.updateDataSource(key, value)
		return false
	case AttrListType:
		kind, err := ParseLayoutType(asString(value))
		if err == nil && kind != lm.kind {
			lm.setLayoutType(kind)
			c.adapter.onDataSetChanged()
			c.needRecycleAll = true
		}
		c.layoutDirty = true
		return false
	case AttrInitialScrollIndex:
		if n, ok := asInt(value); ok {
			c.anchor.setInitialScrollIndex(n)
		}
	case AttrUpperThreshold:
		if n, ok := asInt(value); ok {
			em.upperThreshold = n
		}
		return false
	case AttrLowerThreshold:
		if n, ok := asInt(value); ok {
			em.lowerThreshold = n
		}
		return false
	case AttrNeedLayoutCompleteInfo:
		em.needLayoutCompleteInfo = asBool(value)
	case AttrLayoutID:
		if n, ok := asInt(value); ok {
			em.layoutID = n
		}
	case AttrScrollEventThrottle:
		if ms, ok := asFloat(value); ok {
			em.throttleMs = ms
		}
		return false
	case AttrNeedsVisibleCells, AttrNeedVisibleItemInfo:
		em.needVisibleCells = asBool(value)
		if key == AttrNeedVisibleItemInfo {
			em.needVisibleItemInfo = em.needVisibleCells
		}
		return false
	case AttrRequestStateRestore:
		c.shouldRequestStateRestore = asBool(value)
		return false
	case AttrStickyOffset:
		if offset, ok := asFloat(value); ok {
			lm.stickyOffset = offset
		}
	case AttrSticky:
		lm.sticky = asBool(value)
	case AttrEnablePreloadSection:
		lm.preloadSectionEnabled = asBool(value)
		return false
	case AttrPreloadBufferCount:
		n, ok := asInt(value)
		if !ok {
			return false
		}
		if n < 0 {
			c.reportError(fmt.Errorf("preload-buffer-count %d: %w", n, ErrNegativePreloadCount))
			n = 0
		}
		if n != lm.preloadBufferCount {
			lm.preloadBufferCount = n
			c.layoutDirty = true
		}
		return false
	case AttrBatchRenderStrategy:
		if n, ok := asInt(value); ok && n >= int(BatchRenderDefault) && n <= int(BatchRenderAsyncResolvePropertyAndElementTree) {
			c.UpdateBatchRenderStrategy(BatchRenderStrategy(n))
		}
		return false
	case AttrDebugInfoLevel:
		if n, ok := asInt(value); ok {
			em.debugLevel = DebugLevel(max(min(n, int(DebugLevelVerbose)), int(DebugLevelNone)))
		}
		return false
	}
	return true
}

func (c *Container) setOrientation(o Orientation) {
	if c.layout.helper.orientation == o {
		return
	}
	c.layout.helper.orientation = o
	c.layoutDirty = true
}

// updateDataSource parses and applies a diff attribute against the latest
// data. A rejected batch leaves the data untouched.
func (c *Container) updateDataSource(key string, value any) bool {
	var (
		next    diff.Snapshot
		changes diff.Changes
		err     error
	)
	if key == AttrListPlatformInfo {
		var r diff.Result
		if r, err = diff.ParseResult(value, c.unitsPerPx); err == nil {
			next, changes, err = diff.ApplyResult(c.adapter.latest(), r)
		}
	} else {
		var a diff.Actions
		if a, err = diff.ParseActions(value, c.unitsPerPx); err == nil {
			next, changes, err = diff.Apply(c.adapter.latest(), a)
		}
	}
	if err != nil {
		c.reportError(fmt.Errorf("%s: %w", key, err))
		return false
	}
	if !changes.HasValidDiff() && next.Len() == c.adapter.latest().Len() {
		c.adapter.setData(next, changes)
		return false
	}
	c.anchor.updateDiffAnchorReference()
	c.adapter.setData(next, changes)
	c.hasValidDiff = true
	c.layout.needPreloadSectionOnNextFrame = true
	return true
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(b)
		return ok
	default:
		f, ok := asFloat(v)
		return ok && f != 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	if n, ok := diff.ToInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

// asInt truncates fractional numbers
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	return int(f), ok
}
