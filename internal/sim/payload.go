package sim

import (
	"fmt"

	"github.com/juanibiapina/vlist/internal/diff"
)

// Keys returns n item keys k0..k(n-1)
func Keys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	return keys
}

// ItemSpec describes one item of an initial data source
type ItemSpec struct {
	Key           string
	EstimatedSize int
	FullSpan      bool
	StickyTop     bool
	StickyBottom  bool
}

// PlatformInfo builds a list-platform-info payload that inserts every item
// into an empty list.
func PlatformInfo(items []ItemSpec) map[string]any {
	keys := make([]any, len(items))
	insertions := make([]any, len(items))
	sizes := make([]any, len(items))
	fullSpan := []any{}
	stickyTop := []any{}
	stickyBottom := []any{}
	for i, it := range items {
		keys[i] = it.Key
		insertions[i] = i
		sizes[i] = it.EstimatedSize
		if it.FullSpan {
			fullSpan = append(fullSpan, i)
		}
		if it.StickyTop {
			stickyTop = append(stickyTop, i)
		}
		if it.StickyBottom {
			stickyBottom = append(stickyBottom, i)
		}
	}
	return map[string]any{
		diff.KeyInsertions:        insertions,
		diff.KeyItemKeys:          keys,
		diff.KeyEstimatedHeightPx: sizes,
		diff.KeyFullSpan:          fullSpan,
		diff.KeyStickyTop:         stickyTop,
		diff.KeyStickyBottom:      stickyBottom,
	}
}

// UniformItems returns n items k0..k(n-1) estimated at size
func UniformItems(n, size int) []ItemSpec {
	items := make([]ItemSpec, n)
	for i, k := range Keys(n) {
		items[i] = ItemSpec{Key: k, EstimatedSize: size}
	}
	return items
}

// InsertAction builds one insertAction entry
func InsertAction(position int, key string, estimatedSize int, fullSpan bool) map[string]any {
	m := map[string]any{
		diff.KeyPosition: position,
		diff.KeyItemKey:  key,
	}
	if estimatedSize > 0 {
		m[diff.KeyActionEstimatedHeight] = estimatedSize
	}
	if fullSpan {
		m[diff.KeyActionFullSpan] = true
	}
	return m
}

// UpdateAction builds one updateAction entry
func UpdateAction(from, to int, key string, flush bool) map[string]any {
	m := map[string]any{
		diff.KeyFrom:  from,
		diff.KeyTo:    to,
		diff.KeyFlush: flush,
	}
	if key != "" {
		m[diff.KeyItemKey] = key
	}
	return m
}

// Actions builds an update-list-info payload
func Actions(inserts []map[string]any, removals []int, updates []map[string]any) map[string]any {
	m := map[string]any{}
	if len(inserts) > 0 {
		arr := make([]any, len(inserts))
		for i, v := range inserts {
			arr[i] = v
		}
		m[diff.KeyInsertAction] = arr
	}
	if len(removals) > 0 {
		arr := make([]any, len(removals))
		for i, v := range removals {
			arr[i] = v
		}
		m[diff.KeyRemoveAction] = arr
	}
	if len(updates) > 0 {
		arr := make([]any, len(updates))
		for i, v := range updates {
			arr[i] = v
		}
		m[diff.KeyUpdateAction] = arr
	}
	return m
}
