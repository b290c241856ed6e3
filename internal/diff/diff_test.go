package diff

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func keysOf(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	return keys
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		actions Actions
		want    []string
		changes Changes
	}{
		{
			name:    "insert at front",
			keys:    keysOf(3),
			actions: Actions{Inserts: []Insert{{Position: 0, Key: "x", Meta: DefaultMeta()}}},
			want:    []string{"x", "a", "b", "c"},
			changes: Changes{Insertions: []int{0}},
		},
		{
			name:    "insert at end",
			keys:    keysOf(2),
			actions: Actions{Inserts: []Insert{{Position: 2, Key: "x", Meta: DefaultMeta()}}},
			want:    []string{"a", "b", "x"},
			changes: Changes{Insertions: []int{2}},
		},
		{
			name:    "remove middle",
			keys:    keysOf(4),
			actions: Actions{Removals: []int{2, 1}},
			want:    []string{"a", "d"},
			changes: Changes{Removals: []int{1, 2}},
		},
		{
			name: "update with flush",
			keys: keysOf(3),
			actions: Actions{Updates: []Update{
				{From: 1, To: 1, Key: "B", Flush: true, Meta: DefaultMeta()},
			}},
			want:    []string{"a", "B", "c"},
			changes: Changes{UpdateFrom: []int{1}, UpdateTo: []int{1}},
		},
		{
			name: "update without flush renames silently",
			keys: keysOf(3),
			actions: Actions{Updates: []Update{
				{From: 0, To: 0, Key: "A", Meta: DefaultMeta()},
			}},
			want: []string{"A", "b", "c"},
		},
		{
			name: "remove then insert",
			keys: keysOf(5),
			actions: Actions{
				Removals: []int{0},
				Inserts: []Insert{
					{Position: 3, Key: "y", Meta: DefaultMeta()},
					{Position: 1, Key: "x", Meta: DefaultMeta()},
				},
			},
			want:    []string{"b", "x", "c", "y", "d", "e"},
			changes: Changes{Removals: []int{0}, Insertions: []int{1, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changes, err := Apply(NewSnapshot(tt.keys...), tt.actions)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, next.Keys); diff != "" {
				t.Errorf("Apply() keys mismatch (-want +got):\n%s", diff)
			}
			if len(next.Meta) != len(next.Keys) {
				t.Errorf("Apply() meta length = %d, want %d", len(next.Meta), len(next.Keys))
			}
			if diff := cmp.Diff(tt.changes, changes); diff != "" {
				t.Errorf("Apply() changes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	prev := NewSnapshot(keysOf(3)...)
	_, _, err := Apply(prev, Actions{
		Removals: []int{0},
		Updates:  []Update{{From: 1, To: 0, Key: "B", Flush: true, Meta: DefaultMeta()}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, prev.Keys); diff != "" {
		t.Errorf("input keys modified (-want +got):\n%s", diff)
	}
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		actions Actions
		want    error
	}{
		{"removal out of range", Actions{Removals: []int{3}}, ErrInvalidDiff},
		{"negative removal", Actions{Removals: []int{-1}}, ErrInvalidDiff},
		{"double removal", Actions{Removals: []int{1, 1}}, ErrInvalidDiff},
		{"update out of range", Actions{Updates: []Update{{From: 5, To: 0}}}, ErrInvalidDiff},
		{"update of removed", Actions{Removals: []int{1}, Updates: []Update{{From: 1, To: 1}}}, ErrInvalidDiff},
		{"update target out of range", Actions{Updates: []Update{{From: 0, To: 9, Flush: true}}}, ErrInvalidDiff},
		{"insert past end", Actions{Inserts: []Insert{{Position: 4, Key: "x"}}}, ErrInvalidDiff},
		{"insert without key", Actions{Inserts: []Insert{{Position: 0}}}, ErrInvalidDiff},
		{"insert existing key", Actions{Inserts: []Insert{{Position: 0, Key: "b"}}}, ErrDuplicateKey},
		{"update to existing key", Actions{Updates: []Update{{From: 0, To: 0, Key: "c"}}}, ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Apply(NewSnapshot(keysOf(3)...), tt.actions)
			if !errors.Is(err, tt.want) {
				t.Errorf("Apply() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvert_RoundTrip(t *testing.T) {
	batches := []struct {
		name    string
		actions Actions
	}{
		{"insert", Actions{Inserts: []Insert{{Position: 2, Key: "x", Meta: DefaultMeta()}}}},
		{"remove", Actions{Removals: []int{0, 4}}},
		{"update", Actions{Updates: []Update{{From: 3, To: 3, Key: "D", Flush: true, Meta: DefaultMeta()}}}},
		{"mixed", Actions{
			Removals: []int{1, 5},
			Updates:  []Update{{From: 2, To: 1, Key: "C", Flush: true, Meta: Meta{FullSpan: true}}},
			Inserts: []Insert{
				{Position: 0, Key: "x", Meta: DefaultMeta()},
				{Position: 5, Key: "y", Meta: Meta{StickyTop: true}},
			},
		}},
	}

	for _, tt := range batches {
		t.Run(tt.name, func(t *testing.T) {
			prev := NewSnapshot(keysOf(6)...)
			next, _, err := Apply(prev, tt.actions)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			inv, err := Invert(prev, tt.actions)
			if err != nil {
				t.Fatalf("Invert() error = %v", err)
			}
			back, _, err := Apply(next, inv)
			if err != nil {
				t.Fatalf("Apply(inverse) error = %v", err)
			}
			if diff := cmp.Diff(prev, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyResult(t *testing.T) {
	prev := NewSnapshot("a", "b", "c")
	prev.Meta[1].EstimatedSize = 40

	next, changes, err := ApplyResult(prev, Result{
		Insertions:     []int{0},
		Removals:       []int{2},
		Keys:           []string{"x", "a", "b"},
		EstimatedSizes: nil,
		FullSpan:       []int{0},
	})
	if err != nil {
		t.Fatalf("ApplyResult() error = %v", err)
	}
	if diff := cmp.Diff([]string{"x", "a", "b"}, next.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if next.Meta[2].EstimatedSize != 40 {
		t.Errorf("carried estimated size = %v, want 40", next.Meta[2].EstimatedSize)
	}
	if !next.Meta[0].FullSpan || next.Meta[1].FullSpan {
		t.Errorf("full span = %v, %v, want true, false", next.Meta[0].FullSpan, next.Meta[1].FullSpan)
	}
	if !changes.HasValidDiff() {
		t.Error("HasValidDiff() = false, want true")
	}
}

func TestApplyResult_Errors(t *testing.T) {
	prev := NewSnapshot("a", "b")
	tests := []struct {
		name   string
		result Result
		want   error
	}{
		{"duplicate keys", Result{Keys: []string{"a", "a"}}, ErrDuplicateKey},
		{"removal out of range", Result{Removals: []int{2}, Keys: []string{"a"}}, ErrInvalidDiff},
		{"insertion out of range", Result{Insertions: []int{3}, Keys: []string{"a", "b", "c"}}, ErrInvalidDiff},
		{"count mismatch", Result{Insertions: []int{0}, Keys: []string{"x", "a", "b", "c"}}, ErrInvalidDiff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ApplyResult(prev, tt.result)
			if !errors.Is(err, tt.want) {
				t.Errorf("ApplyResult() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChangesInfo(t *testing.T) {
	info := Changes{Insertions: []int{1}, UpdateTo: []int{0, 2}}.Info()
	want := map[string]any{
		"insertions": []any{1},
		"removals":   []any{},
		"updateFrom": []any{},
		"updateTo":   []any{0, 2},
		"moveFrom":   []any{},
		"moveTo":     []any{},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("Info() mismatch (-want +got):\n%s", diff)
	}
}
