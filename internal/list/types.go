package list

import "fmt"

// InvalidIndex marks the absence of an item index
const InvalidIndex = -1

// Orientation is the scrolling axis of the list
type Orientation int

const (
	OrientationVertical Orientation = iota
	OrientationHorizontal
)

func (o Orientation) String() string {
	if o == OrientationHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// LayoutType selects the geometry policy
type LayoutType int

const (
	LayoutSingle    LayoutType = iota // one item per row
	LayoutFlow                        // uniform grid
	LayoutWaterfall                   // staggered grid
)

func (t LayoutType) String() string {
	switch t {
	case LayoutFlow:
		return "flow"
	case LayoutWaterfall:
		return "waterfall"
	default:
		return "single"
	}
}

// ParseLayoutType parses the list-type attribute value
func ParseLayoutType(s string) (LayoutType, error) {
	switch s {
	case "single":
		return LayoutSingle, nil
	case "flow":
		return LayoutFlow, nil
	case "waterfall":
		return LayoutWaterfall, nil
	}
	return LayoutSingle, fmt.Errorf("unknown list type %q", s)
}

// LayoutDirection is the direction a fill advances in
type LayoutDirection int

const (
	LayoutToStart LayoutDirection = -1
	LayoutToEnd   LayoutDirection = 1
)

// AnchorPriority decides which end of the screen anchors are searched from
type AnchorPriority int

const (
	AnchorFromBegin AnchorPriority = iota
	AnchorFromEnd
)

// AnchorAlign decides which edge of the anchor keeps its position
type AnchorAlign int

const (
	AnchorAlignToTop AnchorAlign = iota
	AnchorAlignToBottom
)

// AnchorVisibility overrides how the anchor is positioned after a layout
type AnchorVisibility int

const (
	AnchorVisibilityNoAdjustment AnchorVisibility = iota
	AnchorVisibilityShow
	AnchorVisibilityHide
)

// ScrollAlign is the alignment of a scroll-to-index target
type ScrollAlign int

const (
	ScrollAlignTop ScrollAlign = iota
	ScrollAlignMiddle
	ScrollAlignBottom
)

// ParseScrollAlign parses "top", "middle" or "bottom"
func ParseScrollAlign(s string) (ScrollAlign, error) {
	switch s {
	case "", "top":
		return ScrollAlignTop, nil
	case "middle":
		return ScrollAlignMiddle, nil
	case "bottom":
		return ScrollAlignBottom, nil
	}
	return ScrollAlignTop, fmt.Errorf("unknown scroll alignment %q", s)
}

// InitialScrollIndexStatus tracks whether initial-scroll-index was consumed
type InitialScrollIndexStatus int

const (
	InitialScrollIndexUnset InitialScrollIndexStatus = iota
	InitialScrollIndexSet
	InitialScrollIndexScrolled
)

// DiffStatus records how the last diff touched an item
type DiffStatus int

const (
	DiffValid DiffStatus = iota
	DiffRemoved
	DiffUpdateTo
	DiffUpdatedFrom
	DiffMoveTo
	DiffMoveFrom
)

func (s DiffStatus) String() string {
	return [...]string{"valid", "removed", "updateTo", "updatedFrom", "moveTo", "moveFrom"}[s]
}

// EventSource tells listeners what caused a scroll event
type EventSource int

const (
	EventSourceDiff EventSource = iota
	EventSourceLayout
	EventSourceScroll
)

func (s EventSource) String() string {
	return [...]string{"diff", "layout", "scroll"}[s]
}

// ScrollState debounces threshold events while scrolling
type ScrollState int

const (
	ScrollStateMiddle ScrollState = iota
	ScrollStateUpper
	ScrollStateLower
	ScrollStateBothEdge
)

// BatchRenderStrategy selects the immediate or the batch adapter
type BatchRenderStrategy int

const (
	BatchRenderDefault BatchRenderStrategy = iota
	BatchRenderBatch
	BatchRenderAsyncResolveProperty
	BatchRenderAsyncResolvePropertyAndElementTree
)

// DebugLevel limits the listdebuginfo event
type DebugLevel int

const (
	DebugLevelNone DebugLevel = iota
	DebugLevelError
	DebugLevelInfo
	DebugLevelVerbose
)

// Event names
const (
	EventScroll              = "scroll"
	EventScrollToUpper       = "scrolltoupper"
	EventScrollToLower       = "scrolltolower"
	EventScrollToUpperEdge   = "scrolltoupperedge"
	EventScrollToLowerEdge   = "scrolltoloweredge"
	EventScrollToNormalState = "scrolltonormalstate"
	EventLayoutComplete      = "layoutcomplete"
	EventNodeAppear          = "nodeappear"
	EventNodeDisappear       = "nodedisappear"
	EventDebugInfo           = "listdebuginfo"
)
