package diff

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseResult(t *testing.T) {
	payload := map[string]any{
		"insertions":              []any{float64(0), float64(-1), "x"},
		"removals":                []any{},
		"itemkeys":                []any{"a", "b"},
		"estimatedHeightPx":       []any{10, 20},
		"estimatedMainAxisSizePx": []any{-1, 30},
		"fullspan":                []any{1},
		"stickyTop":               []any{},
	}

	r, err := ParseResult(payload, 2)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if diff := cmp.Diff([]int{0}, r.Insertions); diff != "" {
		t.Errorf("Insertions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	// the main-axis array wins over the height array
	if diff := cmp.Diff([]float64{-1, 60}, r.EstimatedSizes); diff != "" {
		t.Errorf("EstimatedSizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, r.FullSpan); diff != "" {
		t.Errorf("FullSpan mismatch (-want +got):\n%s", diff)
	}
	if r.StickyTop == nil {
		t.Error("StickyTop = nil, want empty slice for a provided array")
	}
	if r.StickyBottom != nil {
		t.Errorf("StickyBottom = %v, want nil when absent", r.StickyBottom)
	}
}

func TestParseResult_IllegalKey(t *testing.T) {
	_, err := ParseResult(map[string]any{"itemkeys": []any{"a", 3}}, 1)
	if !errors.Is(err, ErrInvalidDiff) {
		t.Errorf("ParseResult() error = %v, want %v", err, ErrInvalidDiff)
	}
}

func TestParseActions(t *testing.T) {
	payload := map[string]any{
		"removeAction": []any{2},
		"insertAction": []any{
			map[string]any{
				"position":                    1,
				"item-key":                    "x",
				"full-span":                   true,
				"estimated-height-px":         50,
				"estimated-main-axis-size-px": 70,
				"recyclable":                  false,
			},
		},
		"updateAction": []any{
			map[string]any{"from": 0, "to": 0, "item-key": "A", "flush": true, "sticky-top": true},
		},
	}

	a, err := ParseActions(payload, 1)
	if err != nil {
		t.Fatalf("ParseActions() error = %v", err)
	}
	want := Actions{
		Removals: []int{2},
		Inserts: []Insert{{
			Position: 1,
			Key:      "x",
			Meta:     Meta{EstimatedSize: 70, FullSpan: true},
		}},
		Updates: []Update{{
			From:  0,
			To:    0,
			Key:   "A",
			Flush: true,
			Meta:  Meta{EstimatedSize: -1, StickyTop: true, Recyclable: true},
		}},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("ParseActions() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseActions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"not a map", []any{}},
		{"insert without position", map[string]any{"insertAction": []any{map[string]any{"item-key": "x"}}}},
		{"insert with numeric key", map[string]any{"insertAction": []any{map[string]any{"position": 0, "item-key": 1}}}},
		{"update without to", map[string]any{"updateAction": []any{map[string]any{"from": 0}}}},
		{"insert action not an array", map[string]any{"insertAction": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActions(tt.payload, 1)
			if !errors.Is(err, ErrInvalidDiff) {
				t.Errorf("ParseActions() error = %v, want %v", err, ErrInvalidDiff)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"int", 3, 3, true},
		{"int64", int64(4), 4, true},
		{"integral float", float64(5), 5, true},
		{"fractional float", 5.5, 0, false},
		{"string", "5", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ToInt(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
