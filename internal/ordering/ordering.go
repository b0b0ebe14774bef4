// Package ordering maintains integer sort keys for siblings under one parent.
//
// Keys are dense (0..n-1) only right after a same-parent Reorder. Appends and
// cross-parent moves leave gaps, so readers always sort ascending and never
// assume contiguity.
package ordering

import (
	"errors"
	"fmt"
	"sort"
)

// Sortable is a sibling that carries its own sort key.
type Sortable[T any] interface {
	GetSortOrder() int
	WithSortOrder(n int) T
}

// Item is one {id, sortOrder} pair of a batch reorder.
type Item struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

func (i Item) GetSortOrder() int { return i.SortOrder }
func (i Item) WithSortOrder(n int) Item { i.SortOrder = n; return i }

// Kind scopes a batch reorder to one entity type.
type Kind string

const (
	Projects Kind = "projects"
	Sections Kind = "sections"
	Tasks    Kind = "tasks"
)

// Valid reports whether k names a known entity type.
func (k Kind) Valid() bool {
	switch k {
	case Projects, Sections, Tasks:
		return true
	}
	return false
}

var ErrInvalidBatch = errors.New("invalid reorder request")

// NextSortOrder is the key for appending to siblings: max+1, or 0 when empty.
func NextSortOrder[T Sortable[T]](siblings []T) int {
	if len(siblings) == 0 {
		return 0
	}
	top := siblings[0].GetSortOrder()
	for _, s := range siblings[1:] {
		if s.GetSortOrder() > top {
			top = s.GetSortOrder()
		}
	}
	return top + 1
}

// Reorder moves the item at from to to (clamped) and renumbers the whole list
// densely in the new order. A no-op move returns siblings as given.
func Reorder[T Sortable[T]](siblings []T, from, to int) []T {
	n := len(siblings)
	if n < 2 || from < 0 || from >= n {
		return siblings
	}
	to = clamp(to, 0, n-1)
	if from == to {
		return siblings
	}

	out := make([]T, 0, n)
	moved := siblings[from]
	for i, s := range siblings {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, s)
	}
	if len(out) < n {
		out = append(out, moved)
	}
	for i := range out {
		if out[i].GetSortOrder() != i {
			out[i] = out[i].WithSortOrder(i)
		}
	}
	return out
}

// Move splices the item at from out of src and into dst at position at.
// at < 0 or past the end appends. Neither list is renumbered; the moved item
// keeps its key until a later same-parent Reorder.
func Move[T any](src, dst []T, from, at int) ([]T, []T, error) {
	if from < 0 || from >= len(src) {
		return src, dst, fmt.Errorf("move: index %d out of range [0,%d)", from, len(src))
	}
	moved := src[from]

	newSrc := make([]T, 0, len(src)-1)
	newSrc = append(newSrc, src[:from]...)
	newSrc = append(newSrc, src[from+1:]...)

	if at < 0 || at > len(dst) {
		at = len(dst)
	}
	newDst := make([]T, 0, len(dst)+1)
	newDst = append(newDst, dst[:at]...)
	newDst = append(newDst, moved)
	newDst = append(newDst, dst[at:]...)
	return newSrc, newDst, nil
}

// Items extracts the batch payload for siblings.
func Items[T Sortable[T]](siblings []T, id func(T) string) []Item {
	out := make([]Item, len(siblings))
	for i, s := range siblings {
		out[i] = Item{ID: id(s), SortOrder: s.GetSortOrder()}
	}
	return out
}

// Changed returns the pairs of after whose key differs from before.
func Changed(before, after []Item) []Item {
	prev := make(map[string]int, len(before))
	for _, it := range before {
		prev[it.ID] = it.SortOrder
	}
	var out []Item
	for _, it := range after {
		if old, ok := prev[it.ID]; !ok || old != it.SortOrder {
			out = append(out, it)
		}
	}
	return out
}

// SortSiblings orders siblings by key ascending, keeping ties stable.
func SortSiblings[T Sortable[T]](siblings []T) {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].GetSortOrder() < siblings[j].GetSortOrder()
	})
}

// ValidateBatch checks a reorder payload before anything is persisted.
func ValidateBatch(kind Kind, items []Item) error {
	if kind == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidBatch)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBatch, kind)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: items must not be empty", ErrInvalidBatch)
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: items[%d].id is required", ErrInvalidBatch, i)
		}
		if it.SortOrder < 0 {
			return fmt.Errorf("%w: items[%d].sortOrder must not be negative", ErrInvalidBatch, i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBatch, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
