package model

import (
	"cmp"
	"slices"
)

// ConstraintSet is a collection of constraints deduplicated by structural
// equality. Iteration follows insertion order.
type ConstraintSet struct {
	items []GenericConstraint
	keys  map[string]struct{}
}

// NewConstraintSet returns a set holding the given constraints.
func NewConstraintSet(constraints ...GenericConstraint) *ConstraintSet {
	cs := &ConstraintSet{keys: make(map[string]struct{})}
	for _, c := range constraints {
		cs.Insert(c)
	}

	return cs
}

// Insert adds c and reports whether it was not already present.
func (cs *ConstraintSet) Insert(c GenericConstraint) bool {
	if cs.keys == nil {
		cs.keys = make(map[string]struct{})
	}

	key := ConstraintKey(c)
	if _, ok := cs.keys[key]; ok {
		return false
	}

	cs.keys[key] = struct{}{}
	cs.items = append(cs.items, c)

	return true
}

// InsertAll adds the constraints that are not present yet and returns how
// many were added.
func (cs *ConstraintSet) InsertAll(constraints []GenericConstraint) int {
	added := 0

	for _, c := range constraints {
		if cs.Insert(c) {
			added++
		}
	}

	return added
}

// Contains reports whether a structurally equal constraint is present.
func (cs *ConstraintSet) Contains(c GenericConstraint) bool {
	_, ok := cs.keys[ConstraintKey(c)]
	return ok
}

// Len returns the number of constraints.
func (cs *ConstraintSet) Len() int {
	return len(cs.items)
}

// Constraints returns the constraints in insertion order.
func (cs *ConstraintSet) Constraints() []GenericConstraint {
	return slices.Clone(cs.items)
}

// Sorted returns the constraints ordered by their printed form under ctx,
// ties broken by canonical key. The order does not depend on insertion.
func (cs *ConstraintSet) Sorted(ctx *Context) []GenericConstraint {
	type entry struct {
		text, key string
		c         GenericConstraint
	}

	entries := make([]entry, 0, len(cs.items))
	for _, c := range cs.items {
		entries = append(entries, entry{text: ctx.ConstraintString(c), key: ConstraintKey(c), c: c})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.text, b.text), cmp.Compare(a.key, b.key))
	})

	out := make([]GenericConstraint, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.c)
	}

	return out
}
