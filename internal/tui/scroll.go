package tui

// ItemCursor selects a row of the item panel and keeps the rows around it in
// view. It remembers the key of the selected item, so edits that shift
// indexes leave the selection on the same item.
type ItemCursor struct {
	Index  int // Selected row
	Offset int // First visible row
	Rows   int // Visible rows (set on window resize)

	keys []string
	key  string
}

// SetKeys takes the item keys after a refresh. The selection follows its
// key; when that item is gone the index stays put, clamped to the new count.
func (c *ItemCursor) SetKeys(keys []string) {
	c.keys = keys
	if c.key != "" {
		for i, k := range keys {
			if k == c.key {
				c.Index = i
				break
			}
		}
	}
	c.Select(c.Index)
}

// Key returns the selected item key, or "" for an empty list
func (c *ItemCursor) Key() string { return c.key }

// Up selects the previous row. Returns true if the selection moved.
func (c *ItemCursor) Up() bool {
	if c.Index <= 0 {
		return false
	}
	c.Select(c.Index - 1)
	return true
}

// Down selects the next row. Returns true if the selection moved.
func (c *ItemCursor) Down() bool {
	if c.Index >= len(c.keys)-1 {
		return false
	}
	c.Select(c.Index + 1)
	return true
}

// First selects the first row
func (c *ItemCursor) First() { c.Select(0) }

// Last selects the last row
func (c *ItemCursor) Last() { c.Select(len(c.keys) - 1) }

// SetRows changes the panel height and scrolls the selection back into view
func (c *ItemCursor) SetRows(rows int) {
	c.Rows = max(rows, 1)
	c.Select(c.Index)
}

// Select moves to index, clamped to the list, scrolling the panel just
// enough to show it.
func (c *ItemCursor) Select(index int) {
	n := len(c.keys)
	c.Index = min(max(index, 0), max(n-1, 0))
	c.key = ""
	if n > 0 {
		c.key = c.keys[c.Index]
	}

	if c.Index < c.Offset {
		c.Offset = c.Index
	}
	if c.Rows > 0 && c.Index >= c.Offset+c.Rows {
		c.Offset = c.Index - c.Rows + 1
	}
	// no blank rows below the last item while earlier rows are hidden
	if c.Rows > 0 && c.Offset > max(n-c.Rows, 0) {
		c.Offset = max(n-c.Rows, 0)
	}
}

// Window returns the rows to render, start inclusive and end exclusive
func (c *ItemCursor) Window() (start, end int) {
	end = len(c.keys)
	if c.Rows > 0 {
		end = min(c.Offset+c.Rows, end)
	}
	return min(c.Offset, end), end
}
