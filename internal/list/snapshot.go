package list

// ItemSnapshot is a read-only view of one item
type ItemSnapshot struct {
	Index      int    `json:"index"`
	Key        string `json:"key"`
	Frame      Rect   `json:"frame"`
	Status     string `json:"status"`
	DiffStatus string `json:"diff_status"`
	ElementID  int    `json:"element_id"`
	ColIndex   int    `json:"col_index"`
	FullSpan   bool   `json:"full_span,omitempty"`
	Sticky     bool   `json:"sticky,omitempty"`
	Attached   bool   `json:"attached"`
	OnScreen   bool   `json:"on_screen"`
	InPreload  bool   `json:"in_preload,omitempty"`
	Pinned     bool   `json:"pinned,omitempty"`
}

// Snapshot is the geometry and bind state after the last pass
type Snapshot struct {
	LayoutType    string         `json:"layout_type"`
	Orientation   string         `json:"orientation"`
	SpanCount     int            `json:"span_count"`
	ViewportSize  float64        `json:"viewport_size"`
	ContentOffset float64        `json:"content_offset"`
	ContentSize   float64        `json:"content_size"`
	Items         []ItemSnapshot `json:"items"`
	OnScreen      []int          `json:"on_screen"`
	Attached      []int          `json:"attached"`
	InPreload     []int          `json:"in_preload"`
	InSticky      []int          `json:"in_sticky"`
}

// Snapshot copies the current state. Pinned items carry the frame the
// platform shows, not their natural position.
func (c *Container) Snapshot() Snapshot {
	lm := c.layout
	ci := c.children
	s := Snapshot{
		LayoutType:    lm.kind.String(),
		Orientation:   lm.helper.orientation.String(),
		SpanCount:     lm.span(),
		ViewportSize:  lm.helper.measurement(),
		ContentOffset: lm.contentOffset,
		ContentSize:   lm.contentSize,
		Items:         make([]ItemSnapshot, 0, ci.count()),
		OnScreen:      ci.onScreen.indexes(),
		Attached:      ci.attached.indexes(),
		InPreload:     ci.inPreload.indexes(),
		InSticky:      ci.inSticky.indexes(),
	}
	for _, it := range ci.children {
		is := ItemSnapshot{
			Index:      it.index,
			Key:        it.key,
			Frame:      it.platformFrame(c.frame.Width),
			Status:     it.status.String(),
			DiffStatus: it.diffStatus.String(),
			ElementID:  -1,
			ColIndex:   it.colIndex,
			FullSpan:   it.fullSpan,
			Sticky:     it.Sticky(),
			Attached:   ci.attached.has(it),
			OnScreen:   ci.onScreen.has(it),
			InPreload:  ci.inPreload.has(it),
			Pinned:     ci.inSticky.has(it),
		}
		if it.element != nil {
			is.ElementID = it.element.ID()
		}
		if is.Pinned {
			lm.pin(it, &is.Frame)
		}
		s.Items = append(s.Items, is)
	}
	return s
}

// VisibleKeys returns the keys of the on-screen items in index order
func (s Snapshot) VisibleKeys() []string {
	var keys []string
	for _, it := range s.Items {
		if it.OnScreen {
			keys = append(keys, it.Key)
		}
	}
	return keys
}
