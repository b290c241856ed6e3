package list

// orientationHelper maps main and cross axis queries onto the list frame
// and item geometry. Layout code only talks in main/cross terms and
// converts back to (left, top) through point.
type orientationHelper struct {
	orientation Orientation
	frame       *ElementLayout
}

func newOrientationHelper(o Orientation, frame *ElementLayout) *orientationHelper {
	return &orientationHelper{orientation: o, frame: frame}
}

func (h *orientationHelper) vertical() bool {
	return h.orientation == OrientationVertical
}

// measurement is the main-axis size of the list inside its borders
func (h *orientationHelper) measurement() float64 {
	f := h.frame
	if h.vertical() {
		return f.Height - f.Border.Top - f.Border.Bottom
	}
	return f.Width - f.Border.Left - f.Border.Right
}

func (h *orientationHelper) measurementCross() float64 {
	f := h.frame
	if h.vertical() {
		return f.Width - f.Border.Left - f.Border.Right
	}
	return f.Height - f.Border.Top - f.Border.Bottom
}

func (h *orientationHelper) measurementCrossWithoutPadding() float64 {
	p := h.frame.Padding
	if h.vertical() {
		return h.measurementCross() - p.Left - p.Right
	}
	return h.measurementCross() - p.Top - p.Bottom
}

func (h *orientationHelper) startAfterPadding() float64 {
	if h.vertical() {
		return h.frame.Padding.Top
	}
	return h.frame.Padding.Left
}

func (h *orientationHelper) endPadding() float64 {
	if h.vertical() {
		return h.frame.Padding.Bottom
	}
	return h.frame.Padding.Right
}

func (h *orientationHelper) endAfterPadding() float64 {
	return h.measurement() - h.endPadding()
}

func (h *orientationHelper) startAfterPaddingCross() float64 {
	if h.vertical() {
		return h.frame.Padding.Left
	}
	return h.frame.Padding.Top
}

func (h *orientationHelper) start(it *Item) float64 {
	if h.vertical() {
		return it.top
	}
	return it.left
}

func (h *orientationHelper) crossStart(it *Item) float64 {
	if h.vertical() {
		return it.left
	}
	return it.top
}

func (h *orientationHelper) size(it *Item) float64 {
	if h.vertical() {
		return it.Height()
	}
	return it.Width()
}

func (h *orientationHelper) mainMargin(it *Item) float64 {
	if h.vertical() {
		return it.margins.Top
	}
	return it.margins.Left
}

func (h *orientationHelper) mainEndMargin(it *Item) float64 {
	if h.vertical() {
		return it.margins.Bottom
	}
	return it.margins.Right
}

func (h *orientationHelper) crossMargin(it *Item) float64 {
	if h.vertical() {
		return it.margins.Left
	}
	return it.margins.Top
}

// decoratedStart includes the leading margin and the applied gap
func (h *orientationHelper) decoratedStart(it *Item) float64 {
	return h.start(it) - h.mainMargin(it) - it.topInset
}

func (h *orientationHelper) decoratedEnd(it *Item) float64 {
	return h.start(it) + h.size(it) + h.mainEndMargin(it)
}

func (h *orientationHelper) decoratedMeasurement(it *Item) float64 {
	return h.size(it) + h.mainMargin(it) + h.mainEndMargin(it) + it.topInset
}

func (h *orientationHelper) decoratedMeasurementCross(it *Item) float64 {
	if h.vertical() {
		return it.Width() + it.margins.Left + it.margins.Right
	}
	return it.Height() + it.margins.Top + it.margins.Bottom
}

// point converts a (main, cross) pair into (left, top)
func (h *orientationHelper) point(main, cross float64) (left, top float64) {
	if h.vertical() {
		return cross, main
	}
	return main, cross
}

// place positions an item whose start edge sits at main
func (h *orientationHelper) place(it *Item, main, cross float64) {
	it.orientation = h.orientation
	it.setPosition(h.point(main, cross))
}
