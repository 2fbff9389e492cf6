package unify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"bound-generator/internal/model"
)

// SetRef identifies an equality set inside one Store.
type SetRef int

// EqualitySet is a set of types considered equal. Members keep insertion
// order so resolution is deterministic.
type EqualitySet struct {
	members []model.Type
	keys    map[string]struct{}
	retired bool
}

func newEqualitySet() *EqualitySet {
	return &EqualitySet{keys: make(map[string]struct{})}
}

// Contains reports whether t is a member.
func (s *EqualitySet) Contains(t model.Type) bool {
	_, ok := s.keys[model.Key(t)]
	return ok
}

// Len returns the number of members.
func (s *EqualitySet) Len() int {
	return len(s.members)
}

func (s *EqualitySet) insert(t model.Type) bool {
	key := model.Key(t)
	if _, ok := s.keys[key]; ok {
		return false
	}

	s.keys[key] = struct{}{}
	s.members = append(s.members, t)

	return true
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// LegacyMerge reproduces the historical behaviour when both operands are
	// already in different sets: only the second operand is added to the
	// first operand's set and the two sets are not unioned.
	LegacyMerge bool
	// Logger receives debug events. Nil discards them.
	Logger *log.Logger
	// Names is used to print types in log events. May be nil.
	Names *model.Context
}

// Store is an arena of equality sets plus a lookup from type to set.
// A Store belongs to exactly one analysis pass and is not safe for
// concurrent use.
type Store struct {
	setMap map[string]SetRef
	sets   []*EqualitySet
	opts   StoreOptions
	logger *log.Logger
}

// NewStore creates an empty Store.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Store{
		setMap: make(map[string]SetRef),
		opts:   opts,
		logger: logger,
	}
}

// SetRef returns the set t belongs to.
func (s *Store) SetRef(t model.Type) (SetRef, bool) {
	ref, ok := s.setMap[model.Key(t)]
	return ref, ok
}

// EnsureSet returns the set of t, creating a singleton set when t is unknown.
func (s *Store) EnsureSet(t model.Type) SetRef {
	if ref, ok := s.SetRef(t); ok {
		return ref
	}

	return s.newSet(t)
}

// Members returns the members of a set in insertion order.
func (s *Store) Members(ref SetRef) []model.Type {
	if int(ref) < 0 || int(ref) >= len(s.sets) {
		return nil
	}

	return append([]model.Type(nil), s.sets[ref].members...)
}

// Sets returns the refs of all live sets in creation order. Sets emptied by
// a union are not included.
func (s *Store) Sets() []SetRef {
	refs := make([]SetRef, 0, len(s.sets))

	for i, set := range s.sets {
		if !set.retired {
			refs = append(refs, SetRef(i))
		}
	}

	return refs
}

func (s *Store) newSet(types ...model.Type) SetRef {
	set := newEqualitySet()
	ref := SetRef(len(s.sets))
	s.sets = append(s.sets, set)

	for _, t := range types {
		set.insert(t)
		s.setMap[model.Key(t)] = ref
	}

	return ref
}

func (s *Store) addTo(ref SetRef, t model.Type) {
	s.sets[ref].insert(t)
	s.setMap[model.Key(t)] = ref
}

// union moves every member of the smaller set into the larger one and
// repoints their map entries. The emptied set is retired.
func (s *Store) union(a, b SetRef) SetRef {
	into, from := a, b
	if s.sets[into].Len() < s.sets[from].Len() {
		into, from = from, into
	}

	for _, t := range s.sets[from].members {
		s.addTo(into, t)
	}

	s.sets[from] = &EqualitySet{keys: map[string]struct{}{}, retired: true}

	s.logger.Debug("union", "into", into, "from", from, "size", s.sets[into].Len())

	return into
}

// InsertAsEqualTo records that a and b are equal because a value of one
// flowed into a position expecting the other. Trait objects do not join sets:
// they turn the other side into a constraint added to constraints.
func (s *Store) InsertAsEqualTo(a, b model.Type, constraints *model.ConstraintSet) error {
	toA, aIsTrait := a.(model.TraitObject)
	toB, bIsTrait := b.(model.TraitObject)

	switch {
	case aIsTrait && bIsTrait:
		if len(toA.Bounds) != len(toB.Bounds) {
			return fmt.Errorf("unify %s with %s: trait objects have %d and %d bounds: %w",
				s.typeString(a), s.typeString(b), len(toA.Bounds), len(toB.Bounds), ErrArityMismatch)
		}

		return s.insertInner(a, b, constraints)

	case aIsTrait:
		s.addConstraint(b, toA.Bounds, constraints)
		return nil

	case bIsTrait:
		s.addConstraint(a, toB.Bounds, constraints)
		return nil
	}

	// A mutable reference conforms to a shared one, so only the pointees
	// have to be equal.
	switch ra := a.(type) {
	case model.Reference:
		if rb, ok := b.(model.ReferenceMut); ok {
			return s.InsertAsEqualTo(ra.Inner, rb.Inner, constraints)
		}
	case model.ReferenceMut:
		if rb, ok := b.(model.Reference); ok {
			return s.InsertAsEqualTo(ra.Inner, rb.Inner, constraints)
		}
	}

	if err := s.insertInner(a, b, constraints); err != nil {
		return err
	}

	refA, okA := s.SetRef(a)
	refB, okB := s.SetRef(b)

	switch {
	case !okA && !okB:
		ref := s.newSet(a, b)
		s.logger.Debug("new set", "set", ref, "a", s.typeString(a), "b", s.typeString(b))
	case okA && !okB:
		s.addTo(refA, b)
	case !okA && okB:
		s.addTo(refB, a)
	case refA == refB:
	case s.opts.LegacyMerge:
		s.addTo(refA, b)
		s.logger.Debug("legacy merge", "set", refA, "moved", s.typeString(b), "left", refB)
	default:
		s.union(refA, refB)
	}

	return nil
}

func (s *Store) addConstraint(bounded model.Type, bounds []model.Bound, constraints *model.ConstraintSet) {
	c := model.PredicateType{
		BoundedType: bounded,
		Bounds:      append([]model.Bound(nil), bounds...),
	}

	if constraints.Insert(c) {
		s.logger.Debug("trait object constraint", "constraint", s.opts.Names.ConstraintString(c))
	}
}

// insertInner propagates equality into the components of two types of the
// same shape. Differently shaped operands are left alone.
func (s *Store) insertInner(a, b model.Type, constraints *model.ConstraintSet) error {
	switch va := a.(type) {
	case model.Tuple:
		vb, ok := b.(model.Tuple)
		if !ok {
			return nil
		}

		if len(va.Elems) != len(vb.Elems) {
			return fmt.Errorf("unify %s with %s: tuples have %d and %d elements: %w",
				s.typeString(a), s.typeString(b), len(va.Elems), len(vb.Elems), ErrArityMismatch)
		}

		for i := range va.Elems {
			if err := s.InsertAsEqualTo(va.Elems[i], vb.Elems[i], constraints); err != nil {
				return err
			}
		}

	case model.Reference:
		if vb, ok := b.(model.Reference); ok {
			return s.InsertAsEqualTo(va.Inner, vb.Inner, constraints)
		}

	case model.ReferenceMut:
		if vb, ok := b.(model.ReferenceMut); ok {
			return s.InsertAsEqualTo(va.Inner, vb.Inner, constraints)
		}

	case model.PathType:
		if vb, ok := b.(model.PathType); ok {
			return s.insertPathArguments(va.Path, vb.Path, constraints)
		}

	case model.TraitObject:
		vb, ok := b.(model.TraitObject)
		if !ok {
			return nil
		}

		for i := 0; i < len(va.Bounds) && i < len(vb.Bounds); i++ {
			tb1, ok1 := va.Bounds[i].(model.TraitBound)
			tb2, ok2 := vb.Bounds[i].(model.TraitBound)

			// TODO: relate lifetime bounds once lifetimes take part in sets.
			if !ok1 || !ok2 {
				continue
			}

			if err := s.insertPathArguments(tb1.Path, tb2.Path, constraints); err != nil {
				return err
			}
		}
	}

	return nil
}

// insertPathArguments unifies the final-segment arguments of two paths.
// Paths with different argument counts may be aliases of each other and are
// not related.
func (s *Store) insertPathArguments(p1, p2 model.Path, constraints *model.ConstraintSet) error {
	if len(p1.Segments) == 0 || len(p2.Segments) == 0 {
		return fmt.Errorf("unify paths: %w: %w", model.ErrEmptyPath, ErrInternal)
	}

	args1, args2 := p1.Last().Args, p2.Last().Args

	if _, ok := args1.(model.Parenthesized); ok {
		return fmt.Errorf("unify %s: parenthesized arguments: %w", s.pathString(p1), ErrUnsupported)
	}

	if _, ok := args2.(model.Parenthesized); ok {
		return fmt.Errorf("unify %s: parenthesized arguments: %w", s.pathString(p2), ErrUnsupported)
	}

	ab1, ok1 := args1.(model.AngleBracketed)
	ab2, ok2 := args2.(model.AngleBracketed)

	if !ok1 || !ok2 || len(ab1.Args) != len(ab2.Args) {
		return nil
	}

	for i := range ab1.Args {
		switch g1 := ab1.Args[i].(type) {
		case model.TypeArg:
			g2, ok := ab2.Args[i].(model.TypeArg)
			if !ok {
				return fmt.Errorf("unify %s with %s: argument %d is a type on one side only: %w",
					s.pathString(p1), s.pathString(p2), i, ErrUnsupported)
			}

			if err := s.InsertAsEqualTo(g1.Type, g2.Type, constraints); err != nil {
				return err
			}

		case model.LifetimeArg:
			if _, ok := ab2.Args[i].(model.LifetimeArg); !ok {
				return fmt.Errorf("unify %s with %s: argument %d is a lifetime on one side only: %w",
					s.pathString(p1), s.pathString(p2), i, ErrUnsupported)
			}
		}
	}

	return nil
}

func (s *Store) typeString(t model.Type) string {
	return s.opts.Names.TypeString(t)
}

func (s *Store) pathString(p model.Path) string {
	return s.opts.Names.PathString(p)
}

// SetSnapshot is a printable view of one equality set.
type SetSnapshot struct {
	Ref     SetRef
	Members []string
}

// Snapshot renders every live set, in creation order.
func (s *Store) Snapshot() []SetSnapshot {
	refs := s.Sets()
	out := make([]SetSnapshot, 0, len(refs))

	for _, ref := range refs {
		snap := SetSnapshot{Ref: ref}
		for _, t := range s.sets[ref].members {
			snap.Members = append(snap.Members, s.typeString(t))
		}

		out = append(out, snap)
	}

	return out
}
