package list

// Edges holds a four-sided box value such as margins or paddings
type Edges struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// ElementLayout is the measured box of an element
type ElementLayout struct {
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Margin  Edges   `json:"margin" yaml:"margin"`
	Padding Edges   `json:"padding" yaml:"padding"`
	Border  Edges   `json:"border" yaml:"border"`
}

// Rect is an item frame in list coordinates
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a realized item view owned by the host
type Element interface {
	ID() int
	Layout() ElementLayout
	HasEvent(name string) bool
}

// PipelineOptions accompany a bind completion
type PipelineOptions struct {
	OperationID  int64
	OperationIDs []int64
	HasLayout    bool
}

// ComponentProvider realizes and pools item elements. Completion of
// ComponentAtIndex and ComponentAtIndexes is reported back through
// Container.FinishBindItemHolder and Container.FinishBindItemHolders, either
// before the call returns or later.
type ComponentProvider interface {
	ComponentAtIndex(index int, operationID int64, requestStateRestore bool)
	ComponentAtIndexes(indices []int, operationIDs []int64)
	EnqueueComponent(elementID int)
}

// PaintingContext receives platform-side updates
type PaintingContext interface {
	InsertListItemPaintingNode(listID, itemID int)
	RemoveListItemPaintingNode(listID, itemID int)
	UpdateLayoutPatching()
	UpdateContentOffsetForListContainer(listID int, contentSize, deltaX, deltaY float64, isInitial bool)
	UpdateScrollInfo(listID int, smooth bool, targetOffset float64, scrolling bool)
	ListCellWillAppear(elementID int, key string)
	ListCellDisappear(elementID int, force bool, key string)
	FinishLayoutOperation(opts PipelineOptions)
	FlushImmediately()
	UpdateItemLayout(elementID int, frame Rect)
}

// EventSink delivers custom events to the element with targetID
type EventSink interface {
	SendEvent(targetID int, name string, detail map[string]any)
}

// FrameScheduler asks for an OnNextFrame callback
type FrameScheduler interface {
	RequestNextFrame()
}

// ErrorReporter receives errors the engine recovered from
type ErrorReporter interface {
	OnErrorOccurred(err error)
}

// Host is everything the engine needs from its environment
type Host interface {
	ComponentProvider
	PaintingContext
	EventSink
	FrameScheduler
	ErrorReporter
}
