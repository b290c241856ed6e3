package diff

import (
	"fmt"
	"math"
)

// Payload keys of the diff-result form
const (
	KeyInsertions              = "insertions"
	KeyRemovals                = "removals"
	KeyUpdateFrom              = "updateFrom"
	KeyUpdateTo                = "updateTo"
	KeyMoveFrom                = "moveFrom"
	KeyMoveTo                  = "moveTo"
	KeyItemKeys                = "itemkeys"
	KeyEstimatedHeightPx       = "estimatedHeightPx"
	KeyEstimatedMainAxisSizePx = "estimatedMainAxisSizePx"
	KeyFullSpan                = "fullspan"
	KeyStickyTop               = "stickyTop"
	KeyStickyBottom            = "stickyBottom"
)

// Payload keys of the action form
const (
	KeyInsertAction = "insertAction"
	KeyRemoveAction = "removeAction"
	KeyUpdateAction = "updateAction"

	KeyPosition                = "position"
	KeyItemKey                 = "item-key"
	KeyFrom                    = "from"
	KeyTo                      = "to"
	KeyFlush                   = "flush"
	KeyActionFullSpan          = "full-span"
	KeyActionStickyTop         = "sticky-top"
	KeyActionStickyBottom      = "sticky-bottom"
	KeyActionEstimatedHeight   = "estimated-height-px"
	KeyActionEstimatedMainAxis = "estimated-main-axis-size-px"
	KeyActionRecyclable        = "recyclable"
)

// ParseResult reads a diff-result payload. Index arrays keep only
// non-negative integers; item keys must all be strings. Estimated sizes are
// given in px and scaled by unitsPerPx.
func ParseResult(v any, unitsPerPx float64) (Result, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Result{}, fmt.Errorf("%w: diff result must be a map, got %T", ErrInvalidDiff, v)
	}

	var r Result
	r.Insertions = indexArray(m[KeyInsertions])
	r.Removals = indexArray(m[KeyRemovals])
	r.UpdateFrom = indexArray(m[KeyUpdateFrom])
	r.UpdateTo = indexArray(m[KeyUpdateTo])
	r.MoveFrom = indexArray(m[KeyMoveFrom])
	r.MoveTo = indexArray(m[KeyMoveTo])

	if raw, ok := m[KeyItemKeys]; ok {
		arr, ok := raw.([]any)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s must be an array, got %T", ErrInvalidDiff, KeyItemKeys, raw)
		}
		r.Keys = make([]string, 0, len(arr))
		for i, k := range arr {
			s, ok := k.(string)
			if !ok {
				return Result{}, fmt.Errorf("%w: illegal item key %v at %d", ErrInvalidDiff, k, i)
			}
			r.Keys = append(r.Keys, s)
		}
	}

	sizes := sizeArray(m[KeyEstimatedHeightPx])
	if mainAxis := sizeArray(m[KeyEstimatedMainAxisSizePx]); mainAxis != nil {
		sizes = mainAxis
	}
	if sizes != nil {
		r.EstimatedSizes = make([]float64, len(sizes))
		for i, s := range sizes {
			r.EstimatedSizes[i] = scale(s, unitsPerPx)
		}
	}

	if raw, ok := m[KeyFullSpan]; ok {
		r.FullSpan = nonNil(indexArray(raw))
	}
	if raw, ok := m[KeyStickyTop]; ok {
		r.StickyTop = nonNil(indexArray(raw))
	}
	if raw, ok := m[KeyStickyBottom]; ok {
		r.StickyBottom = nonNil(indexArray(raw))
	}
	return r, nil
}

// ParseActions reads an action payload with insertAction, removeAction and
// updateAction arrays.
func ParseActions(v any, unitsPerPx float64) (Actions, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Actions{}, fmt.Errorf("%w: action payload must be a map, got %T", ErrInvalidDiff, v)
	}

	var a Actions
	a.Removals = indexArray(m[KeyRemoveAction])

	if raw, ok := m[KeyInsertAction]; ok {
		arr, ok := raw.([]any)
		if !ok {
			return Actions{}, fmt.Errorf("%w: %s must be an array", ErrInvalidDiff, KeyInsertAction)
		}
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return Actions{}, fmt.Errorf("%w: insert action %d is %T", ErrInvalidDiff, i, item)
			}
			pos, ok := ToInt(obj[KeyPosition])
			if !ok {
				return Actions{}, fmt.Errorf("%w: insert action %d has no position", ErrInvalidDiff, i)
			}
			key, ok := obj[KeyItemKey].(string)
			if !ok || key == "" {
				return Actions{}, fmt.Errorf("%w: insert action %d has illegal item key", ErrInvalidDiff, i)
			}
			a.Inserts = append(a.Inserts, Insert{Position: pos, Key: key, Meta: actionMeta(obj, unitsPerPx)})
		}
	}

	if raw, ok := m[KeyUpdateAction]; ok {
		arr, ok := raw.([]any)
		if !ok {
			return Actions{}, fmt.Errorf("%w: %s must be an array", ErrInvalidDiff, KeyUpdateAction)
		}
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return Actions{}, fmt.Errorf("%w: update action %d is %T", ErrInvalidDiff, i, item)
			}
			from, okFrom := ToInt(obj[KeyFrom])
			to, okTo := ToInt(obj[KeyTo])
			if !okFrom || !okTo {
				return Actions{}, fmt.Errorf("%w: update action %d needs from and to", ErrInvalidDiff, i)
			}
			u := Update{From: from, To: to, Meta: actionMeta(obj, unitsPerPx)}
			if raw, ok := obj[KeyItemKey]; ok {
				key, ok := raw.(string)
				if !ok {
					return Actions{}, fmt.Errorf("%w: update action %d has illegal item key", ErrInvalidDiff, i)
				}
				u.Key = key
			}
			u.Flush, _ = obj[KeyFlush].(bool)
			a.Updates = append(a.Updates, u)
		}
	}
	return a, nil
}

func actionMeta(obj map[string]any, unitsPerPx float64) Meta {
	meta := DefaultMeta()
	meta.FullSpan, _ = obj[KeyActionFullSpan].(bool)
	meta.StickyTop, _ = obj[KeyActionStickyTop].(bool)
	meta.StickyBottom, _ = obj[KeyActionStickyBottom].(bool)
	if recyclable, ok := obj[KeyActionRecyclable].(bool); ok {
		meta.Recyclable = recyclable
	}
	size := -1
	if v, ok := ToInt(obj[KeyActionEstimatedHeight]); ok {
		size = v
	}
	if v, ok := ToInt(obj[KeyActionEstimatedMainAxis]); ok {
		size = v
	}
	meta.EstimatedSize = scale(size, unitsPerPx)
	return meta
}

func scale(px int, unitsPerPx float64) float64 {
	if px <= 0 {
		return -1
	}
	if unitsPerPx <= 0 {
		unitsPerPx = 1
	}
	return float64(px) * unitsPerPx
}

// indexArray keeps the non-negative integers of an array value
func indexArray(v any) []int {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []int
	for _, e := range arr {
		if i, ok := ToInt(e); ok && i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

// sizeArray reads an int array where -1 marks an unset entry
func sizeArray(v any) []int {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, len(arr))
	for i, e := range arr {
		out[i] = -1
		if n, ok := ToInt(e); ok {
			out[i] = n
		}
	}
	return out
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// ToInt converts the numeric types produced by JSON and YAML decoders
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
