// Package diff applies data-source mutations to an ordered sequence of item keys.
//
// A list's data source is a [Snapshot]: the item keys in display order plus
// per-item [Meta]. Mutations arrive in one of two shapes:
//
//   - a diff result ([Result]), which carries the full new key sequence and the
//     indices that were inserted, removed, updated or moved;
//   - an action batch ([Actions]), which carries positional remove, update and
//     insert operations against the current sequence.
//
// Application is pure: [Apply] and [ApplyResult] never modify their input and
// either return a complete new snapshot together with the [Changes] that
// describe it, or reject the whole batch with [ErrInvalidDiff] or
// [ErrDuplicateKey].
package diff

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrInvalidDiff reports a malformed payload or an out-of-range position.
	ErrInvalidDiff = errors.New("invalid diff")
	// ErrDuplicateKey reports a batch that would leave two items with the same key.
	ErrDuplicateKey = errors.New("duplicate item key")
)

// Meta is the per-item metadata supplied by the data source
type Meta struct {
	// EstimatedSize is the main-axis size to assume before the item is bound; <= 0 means unset
	EstimatedSize float64
	FullSpan      bool
	StickyTop     bool
	StickyBottom  bool
	Recyclable    bool
}

// DefaultMeta returns the metadata of an item that specified nothing
func DefaultMeta() Meta {
	return Meta{EstimatedSize: -1, Recyclable: true}
}

// Snapshot is an ordered data source: Keys[i] is the item at index i and
// Meta[i] its metadata.
type Snapshot struct {
	Keys []string
	Meta []Meta
}

// NewSnapshot builds a snapshot of keys with default metadata
func NewSnapshot(keys ...string) Snapshot {
	s := Snapshot{Keys: slices.Clone(keys), Meta: make([]Meta, len(keys))}
	for i := range s.Meta {
		s.Meta[i] = DefaultMeta()
	}
	return s
}

// Len returns the number of items
func (s Snapshot) Len() int {
	return len(s.Keys)
}

// MetaAt returns the metadata at index i, or the default when none was recorded
func (s Snapshot) MetaAt(i int) Meta {
	if i < 0 || i >= len(s.Meta) {
		return DefaultMeta()
	}
	return s.Meta[i]
}

// Index returns the position of key, or -1
func (s Snapshot) Index(key string) int {
	return slices.Index(s.Keys, key)
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Keys: slices.Clone(s.Keys), Meta: make([]Meta, len(s.Keys))}
	for i := range out.Meta {
		out.Meta[i] = s.MetaAt(i)
	}
	return out
}

// Changes describes which positions a batch touched. Removals, UpdateFrom and
// MoveFrom are indices into the previous sequence; Insertions, UpdateTo and
// MoveTo are indices into the new one.
type Changes struct {
	Insertions []int
	Removals   []int
	UpdateFrom []int
	UpdateTo   []int
	MoveFrom   []int
	MoveTo     []int
}

// HasValidDiff reports whether the batch changed anything
func (c Changes) HasValidDiff() bool {
	return len(c.Insertions) > 0 || len(c.Removals) > 0 ||
		len(c.UpdateFrom) > 0 || len(c.UpdateTo) > 0 ||
		len(c.MoveFrom) > 0 || len(c.MoveTo) > 0
}

// Info returns the changes in the shape reported by the layoutcomplete event
func (c Changes) Info() map[string]any {
	ints := func(v []int) []any {
		out := make([]any, 0, len(v))
		for _, i := range v {
			out = append(out, i)
		}
		return out
	}
	return map[string]any{
		"insertions": ints(c.Insertions),
		"removals":   ints(c.Removals),
		"updateFrom": ints(c.UpdateFrom),
		"updateTo":   ints(c.UpdateTo),
		"moveFrom":   ints(c.MoveFrom),
		"moveTo":     ints(c.MoveTo),
	}
}

// Insert adds Key at Position of the sequence being built
type Insert struct {
	Position int
	Key      string
	Meta     Meta
}

// Update replaces the item at From (previous sequence) with Key and Meta.
// When Flush is set the item is reported as updated and must be re-bound.
type Update struct {
	From  int
	To    int
	Key   string
	Flush bool
	Meta  Meta
}

// Actions is a positional batch: removals and updates refer to the previous
// sequence, insertions are applied afterwards in ascending position order.
type Actions struct {
	Removals []int
	Updates  []Update
	Inserts  []Insert
}

// Empty reports whether the batch carries no action
func (a Actions) Empty() bool {
	return len(a.Removals) == 0 && len(a.Updates) == 0 && len(a.Inserts) == 0
}

// Apply applies an action batch to prev
func Apply(prev Snapshot, a Actions) (Snapshot, Changes, error) {
	var changes Changes
	n := prev.Len()

	removed := make(map[int]bool, len(a.Removals))
	for _, p := range a.Removals {
		if p < 0 || p >= n {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: removal position %d out of range [0, %d)", ErrInvalidDiff, p, n)
		}
		if removed[p] {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: position %d removed twice", ErrInvalidDiff, p)
		}
		removed[p] = true
		changes.Removals = append(changes.Removals, p)
	}
	sort.Ints(changes.Removals)

	work := prev.clone()
	for _, u := range a.Updates {
		if u.From < 0 || u.From >= n {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: update position %d out of range [0, %d)", ErrInvalidDiff, u.From, n)
		}
		if removed[u.From] {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: update of removed position %d", ErrInvalidDiff, u.From)
		}
		if u.Key != "" {
			work.Keys[u.From] = u.Key
		}
		work.Meta[u.From] = u.Meta
		if u.Flush {
			changes.UpdateFrom = append(changes.UpdateFrom, u.From)
		}
	}

	next := Snapshot{
		Keys: make([]string, 0, n-len(removed)+len(a.Inserts)),
		Meta: make([]Meta, 0, n-len(removed)+len(a.Inserts)),
	}
	for i := range work.Keys {
		if removed[i] {
			continue
		}
		next.Keys = append(next.Keys, work.Keys[i])
		next.Meta = append(next.Meta, work.Meta[i])
	}

	inserts := slices.Clone(a.Inserts)
	slices.SortStableFunc(inserts, func(x, y Insert) int { return x.Position - y.Position })
	for _, in := range inserts {
		if in.Key == "" {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: insertion at %d without item key", ErrInvalidDiff, in.Position)
		}
		if in.Position < 0 || in.Position > next.Len() {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: insertion position %d out of range [0, %d]", ErrInvalidDiff, in.Position, next.Len())
		}
		next.Keys = slices.Insert(next.Keys, in.Position, in.Key)
		next.Meta = slices.Insert(next.Meta, in.Position, in.Meta)
	}

	index, err := indexKeys(next.Keys)
	if err != nil {
		return Snapshot{}, Changes{}, err
	}

	for _, in := range inserts {
		changes.Insertions = append(changes.Insertions, index[in.Key])
	}
	sort.Ints(changes.Insertions)

	for _, u := range a.Updates {
		if !u.Flush {
			continue
		}
		if u.To < 0 || u.To >= next.Len() {
			return Snapshot{}, Changes{}, fmt.Errorf("%w: update target %d out of range [0, %d)", ErrInvalidDiff, u.To, next.Len())
		}
		changes.UpdateTo = append(changes.UpdateTo, u.To)
	}

	return next, changes, nil
}

// Invert returns the batch that undoes a, given the snapshot a was applied to
func Invert(prev Snapshot, a Actions) (Actions, error) {
	next, _, err := Apply(prev, a)
	if err != nil {
		return Actions{}, err
	}
	index, _ := indexKeys(next.Keys)

	var inv Actions
	for _, in := range a.Inserts {
		inv.Removals = append(inv.Removals, index[in.Key])
	}
	sort.Ints(inv.Removals)

	for _, u := range a.Updates {
		key := prev.Keys[u.From]
		newKey := u.Key
		if newKey == "" {
			newKey = key
		}
		at := index[newKey]
		inv.Updates = append(inv.Updates, Update{
			From:  at,
			To:    u.From,
			Key:   key,
			Flush: u.Flush,
			Meta:  prev.MetaAt(u.From),
		})
	}

	for _, p := range a.Removals {
		inv.Inserts = append(inv.Inserts, Insert{
			Position: p,
			Key:      prev.Keys[p],
			Meta:     prev.MetaAt(p),
		})
	}
	slices.SortFunc(inv.Inserts, func(x, y Insert) int { return x.Position - y.Position })

	// Updates of the inverse refer to positions in next before the inverse
	// removals; they must not hit an inserted key.
	for _, u := range inv.Updates {
		if slices.Contains(inv.Removals, u.From) {
			return Actions{}, fmt.Errorf("%w: update overlaps insertion at %d", ErrInvalidDiff, u.From)
		}
	}
	return inv, nil
}

// Result is the diff-result form: the full new key sequence plus the indices
// that changed. Nil metadata slices mean "not provided"; metadata of items
// that keep their key is then carried over from the previous snapshot.
type Result struct {
	Insertions []int
	Removals   []int
	UpdateFrom []int
	UpdateTo   []int
	MoveFrom   []int
	MoveTo     []int

	// Keys is the new sequence; nil keeps the previous keys
	Keys []string

	// EstimatedSizes is parallel to Keys; values <= 0 are unset
	EstimatedSizes []float64
	FullSpan       []int
	StickyTop      []int
	StickyBottom   []int
}

// ApplyResult applies a diff result to prev
func ApplyResult(prev Snapshot, r Result) (Snapshot, Changes, error) {
	n := prev.Len()
	keys := r.Keys
	if keys == nil {
		keys = prev.Keys
	}
	m := len(keys)

	inRange := func(name string, indices []int, limit int) error {
		for _, i := range indices {
			if i < 0 || i >= limit {
				return fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrInvalidDiff, name, i, limit)
			}
		}
		return nil
	}
	checks := []struct {
		name    string
		indices []int
		limit   int
	}{
		{"removals", r.Removals, n},
		{"updateFrom", r.UpdateFrom, n},
		{"moveFrom", r.MoveFrom, n},
		{"insertions", r.Insertions, m},
		{"updateTo", r.UpdateTo, m},
		{"moveTo", r.MoveTo, m},
	}
	for _, c := range checks {
		if err := inRange(c.name, c.indices, c.limit); err != nil {
			return Snapshot{}, Changes{}, err
		}
	}
	if (len(r.Removals) > 0 || len(r.Insertions) > 0) && n-len(r.Removals)+len(r.Insertions) != m {
		return Snapshot{}, Changes{}, fmt.Errorf("%w: %d items - %d removals + %d insertions != %d keys",
			ErrInvalidDiff, n, len(r.Removals), len(r.Insertions), m)
	}
	if _, err := indexKeys(keys); err != nil {
		return Snapshot{}, Changes{}, err
	}

	prevMeta := make(map[string]Meta, n)
	for i, k := range prev.Keys {
		prevMeta[k] = prev.MetaAt(i)
	}
	next := Snapshot{Keys: slices.Clone(keys), Meta: make([]Meta, m)}
	for i, k := range next.Keys {
		if meta, ok := prevMeta[k]; ok {
			next.Meta[i] = meta
		} else {
			next.Meta[i] = DefaultMeta()
		}
	}
	if r.EstimatedSizes != nil {
		for i := range next.Meta {
			next.Meta[i].EstimatedSize = -1
			if i < len(r.EstimatedSizes) && r.EstimatedSizes[i] > 0 {
				next.Meta[i].EstimatedSize = r.EstimatedSizes[i]
			}
		}
	}
	applyFlags := func(indices []int, set func(*Meta, bool)) {
		if indices == nil {
			return
		}
		for i := range next.Meta {
			set(&next.Meta[i], false)
		}
		for _, i := range indices {
			if i >= 0 && i < m {
				set(&next.Meta[i], true)
			}
		}
	}
	applyFlags(r.FullSpan, func(meta *Meta, v bool) { meta.FullSpan = v })
	applyFlags(r.StickyTop, func(meta *Meta, v bool) { meta.StickyTop = v })
	applyFlags(r.StickyBottom, func(meta *Meta, v bool) { meta.StickyBottom = v })

	changes := Changes{
		Insertions: sortedCopy(r.Insertions),
		Removals:   sortedCopy(r.Removals),
		UpdateFrom: slices.Clone(r.UpdateFrom),
		UpdateTo:   slices.Clone(r.UpdateTo),
		MoveFrom:   slices.Clone(r.MoveFrom),
		MoveTo:     slices.Clone(r.MoveTo),
	}
	return next, changes, nil
}

func indexKeys(keys []string) (map[string]int, error) {
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		if j, ok := index[k]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateKey, k, j, i)
		}
		index[k] = i
	}
	return index, nil
}

func sortedCopy(v []int) []int {
	out := slices.Clone(v)
	sort.Ints(out)
	return out
}
