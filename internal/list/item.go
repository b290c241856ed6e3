package list

import "github.com/juanibiapina/vlist/internal/diff"

// Item describes one logical entry of the data source. It carries geometry
// for every entry, realized or not, and the bind state of its element.
type Item struct {
	index int
	key   string

	width, height float64
	left, top     float64
	margins       Edges
	paddings      Edges
	borders       Edges
	topInset      float64

	estimatedSize float64
	fullSpan      bool
	spanSize      int
	colIndex      int
	stickyTop     bool
	stickyBottom  bool
	recyclable    bool

	orientation    Orientation
	rtl            bool
	containerMain  float64
	containerCross float64

	element     Element
	painted     bool
	sentFrame   *Rect
	operationID int64
	status      ItemStatus
	diffStatus  DiffStatus
}

func newItem(index int, key string, meta diff.Meta) *Item {
	it := &Item{index: index, key: key, spanSize: 1}
	it.applyMeta(meta)
	return it
}

func (it *Item) applyMeta(meta diff.Meta) {
	it.estimatedSize = meta.EstimatedSize
	it.fullSpan = meta.FullSpan
	it.stickyTop = meta.StickyTop
	it.stickyBottom = meta.StickyBottom
	it.recyclable = meta.Recyclable
}

func (it *Item) Index() int             { return it.index }
func (it *Item) Key() string            { return it.key }
func (it *Item) Status() ItemStatus     { return it.status }
func (it *Item) DiffStatus() DiffStatus { return it.diffStatus }
func (it *Item) Element() Element       { return it.element }
func (it *Item) OperationID() int64     { return it.operationID }
func (it *Item) FullSpan() bool         { return it.fullSpan }
func (it *Item) ColIndex() int          { return it.colIndex }
func (it *Item) TopInset() float64      { return it.topInset }
func (it *Item) Left() float64          { return it.left }
func (it *Item) Top() float64           { return it.top }

// Sticky reports whether the item is sticky at either edge
func (it *Item) Sticky() bool { return it.stickyTop || it.stickyBottom }

// Width is the measured width, falling back to the estimate and then to the
// container size on the matching axis.
func (it *Item) Width() float64 {
	if it.orientation == OrientationHorizontal {
		return it.mainFallback(it.width)
	}
	return it.crossFallback(it.width)
}

// Height is the measured height with the same fallbacks as Width
func (it *Item) Height() float64 {
	if it.orientation == OrientationVertical {
		return it.mainFallback(it.height)
	}
	return it.crossFallback(it.height)
}

func (it *Item) mainFallback(measured float64) float64 {
	if measured > 0 {
		return measured
	}
	if it.estimatedSize > 0 {
		return it.estimatedSize
	}
	return it.containerMain
}

func (it *Item) crossFallback(measured float64) float64 {
	if measured > 0 {
		return measured
	}
	return it.containerCross
}

// Frame is the item rectangle in list content coordinates
func (it *Item) Frame() Rect {
	return Rect{X: it.left, Y: it.top, Width: it.Width(), Height: it.Height()}
}

func (it *Item) setPosition(left, top float64) {
	it.left = left
	it.top = top
}

func (it *Item) updateFromElement(el Element) {
	if el == nil {
		return
	}
	l := el.Layout()
	it.width = l.Width
	it.height = l.Height
	it.margins = l.Margin
	it.paddings = l.Padding
	it.borders = l.Border
}

// isAtStickyPosition reports whether a sticky item has crossed its sticky
// line. A sticky-top item is there once its natural start is above
// offset+stickyOffset; a sticky-bottom item once its natural end is below
// offset+viewport-stickyOffset.
func (it *Item) isAtStickyPosition(offset, viewport, stickyOffset, decoratedStart, decoratedEnd float64) bool {
	if it.stickyTop && decoratedStart < offset+stickyOffset {
		return true
	}
	if it.stickyBottom && decoratedEnd > offset+viewport-stickyOffset {
		return true
	}
	return false
}

// visibleInList reports whether the decorated range intersects the viewport
func (it *Item) visibleInList(h *orientationHelper, offset float64) bool {
	return h.decoratedEnd(it) > offset && h.decoratedStart(it) < offset+h.measurement()
}

// platformFrame mirrors left for RTL vertical lists
func (it *Item) platformFrame(listWidth float64) Rect {
	r := it.Frame()
	if it.rtl && it.orientation == OrientationVertical {
		r.X = listWidth - it.left - r.Width
	}
	return r
}
