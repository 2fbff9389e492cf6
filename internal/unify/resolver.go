package unify

import (
	"fmt"

	"bound-generator/internal/model"
)

// Resolver computes the most concrete representative of equality sets.
// Results are memoized per set for the lifetime of the Resolver, which must
// not outlive the pass that filled the Store.
type Resolver struct {
	store      *Store
	memo       map[SetRef]model.Type
	inProgress map[SetRef]bool
}

// NewResolver creates a Resolver over store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{
		store:      store,
		memo:       make(map[SetRef]model.Type),
		inProgress: make(map[SetRef]bool),
	}
}

// Resolve returns the representative of a set. The memo is seeded with Infer
// before folding, so a set that is re-entered while it is being resolved
// yields the placeholder instead of looping.
func (r *Resolver) Resolve(ref SetRef) (model.Type, error) {
	if t, ok := r.memo[ref]; ok {
		return t, nil
	}

	members := r.store.Members(ref)
	if len(members) == 0 {
		return nil, fmt.Errorf("resolve set %d: set is empty: %w", ref, ErrInternal)
	}

	r.memo[ref] = model.Infer{}
	r.inProgress[ref] = true

	defer delete(r.inProgress, ref)

	current := members[0]

	for _, member := range members[1:] {
		next, err := r.MostConcreteOfPair(current, member)
		if err != nil {
			return nil, fmt.Errorf("resolve set %d: %w", ref, err)
		}

		current = next
	}

	current, err := r.resolveParts(current)
	if err != nil {
		return nil, fmt.Errorf("resolve set %d: %w", ref, err)
	}

	r.memo[ref] = current

	return current, nil
}

// MostConcrete fully resolves t: a member of a set becomes the set's
// representative, any other type has its components resolved. A member of a
// set that is currently being resolved only has its components resolved.
func (r *Resolver) MostConcrete(t model.Type) (model.Type, error) {
	if ref, ok := r.store.SetRef(t); ok && !r.inProgress[ref] {
		return r.Resolve(ref)
	}

	return r.resolveParts(t)
}

// MostConcreteOfPair picks the more concrete of two types known to be equal.
func (r *Resolver) MostConcreteOfPair(a, b model.Type) (model.Type, error) {
	switch {
	case a.Kind() == model.KindInfer:
		return r.MostConcrete(b)
	case b.Kind() == model.KindInfer:
		return r.MostConcrete(a)
	case a.Kind() == model.KindPrimitiveStr || b.Kind() == model.KindPrimitiveStr:
		return model.PrimitiveStr{}, nil
	}

	switch va := a.(type) {
	case model.PathType:
		if vb, ok := b.(model.PathType); ok {
			return r.mostConcretePath(va.Path, vb.Path)
		}

		return r.MostConcrete(a)

	case model.Tuple:
		if vb, ok := b.(model.Tuple); ok {
			return r.mostConcreteTuple(va, vb)
		}

	case model.Reference:
		if vb, ok := b.(model.Reference); ok {
			inner, err := r.MostConcreteOfPair(va.Inner, vb.Inner)
			if err != nil {
				return nil, err
			}

			// Lifetimes are not tracked through sets and are dropped here.
			return model.Reference{Inner: inner}, nil
		}

	case model.ReferenceMut:
		if vb, ok := b.(model.ReferenceMut); ok {
			inner, err := r.MostConcreteOfPair(va.Inner, vb.Inner)
			if err != nil {
				return nil, err
			}

			return model.ReferenceMut{Inner: inner}, nil
		}

	case model.TypeParam:
		if vb, ok := b.(model.TypeParam); ok {
			if va.Ref < vb.Ref {
				return va, nil
			}

			return vb, nil
		}
	}

	switch {
	case b.Kind() == model.KindPath:
		return r.MostConcrete(b)
	case a.Kind() == model.KindTraitObject:
		return r.MostConcrete(b)
	case b.Kind() == model.KindTraitObject:
		return r.MostConcrete(a)
	case model.Equal(a, b):
		return r.MostConcrete(a)
	}

	return nil, fmt.Errorf("most concrete of %s and %s: incompatible %s and %s: %w",
		r.store.typeString(a), r.store.typeString(b), a.Kind(), b.Kind(), ErrInternal)
}

func (r *Resolver) mostConcreteTuple(a, b model.Tuple) (model.Type, error) {
	if len(a.Elems) != len(b.Elems) {
		return nil, fmt.Errorf("most concrete of %s and %s: tuples have %d and %d elements: %w",
			r.store.typeString(a), r.store.typeString(b), len(a.Elems), len(b.Elems), ErrArityMismatch)
	}

	elems := make([]model.Type, len(a.Elems))

	for i := range a.Elems {
		t, err := r.MostConcreteOfPair(a.Elems[i], b.Elems[i])
		if err != nil {
			return nil, err
		}

		elems[i] = t
	}

	return model.Tuple{Elems: elems}, nil
}

// mostConcretePath merges two paths known to name the same type. A path
// without arguments is assumed to be an alias of the more specific form and
// wins outright; otherwise the path with fewer arguments wins, and paths with
// the same number of arguments are merged argument by argument onto the global
// one, or else onto the one with fewer segments.
func (r *Resolver) mostConcretePath(p1, p2 model.Path) (model.Type, error) {
	if len(p1.Segments) == 0 || len(p2.Segments) == 0 {
		return nil, fmt.Errorf("most concrete path: %w: %w", model.ErrEmptyPath, ErrInternal)
	}

	args1, args2 := p1.Last().Args, p2.Last().Args

	switch {
	case args1 == nil:
		return model.PathType{Path: p1}, nil
	case args2 == nil:
		return model.PathType{Path: p2}, nil
	}

	ab1, ok1 := args1.(model.AngleBracketed)
	ab2, ok2 := args2.(model.AngleBracketed)

	if !ok1 || !ok2 {
		return nil, fmt.Errorf("most concrete of %s and %s: parenthesized arguments: %w",
			r.store.pathString(p1), r.store.pathString(p2), ErrUnsupported)
	}

	switch {
	case len(ab1.Args) < len(ab2.Args):
		return r.MostConcrete(model.PathType{Path: p1})
	case len(ab1.Args) > len(ab2.Args):
		return r.MostConcrete(model.PathType{Path: p2})
	}

	merged := make([]model.GenericArgument, len(ab1.Args))

	for i := range ab1.Args {
		switch g1 := ab1.Args[i].(type) {
		case model.TypeArg:
			g2, ok := ab2.Args[i].(model.TypeArg)
			if !ok {
				return nil, fmt.Errorf("most concrete of %s and %s: argument %d: %w",
					r.store.pathString(p1), r.store.pathString(p2), i, ErrUnsupported)
			}

			t, err := r.MostConcreteOfPair(g1.Type, g2.Type)
			if err != nil {
				return nil, err
			}

			merged[i] = model.TypeArg{Type: t}

		case model.LifetimeArg:
			if _, ok := ab2.Args[i].(model.LifetimeArg); !ok {
				return nil, fmt.Errorf("most concrete of %s and %s: argument %d: %w",
					r.store.pathString(p1), r.store.pathString(p2), i, ErrUnsupported)
			}

			// The first operand's lifetime is kept unchecked.
			merged[i] = g1
		}
	}

	if p1.Global || (!p2.Global && len(p1.Segments) < len(p2.Segments)) {
		return model.PathType{Path: p1.WithLastArgs(model.AngleBracketed{Args: merged})}, nil
	}

	return model.PathType{Path: p2.WithLastArgs(model.AngleBracketed{Args: merged})}, nil
}

// resolveParts resolves the components of t without looking t itself up.
func (r *Resolver) resolveParts(t model.Type) (model.Type, error) {
	switch v := t.(type) {
	case model.Tuple:
		elems, err := r.mostConcreteAll(v.Elems)
		if err != nil {
			return nil, err
		}

		return model.Tuple{Elems: elems}, nil

	case model.Reference:
		inner, err := r.MostConcrete(v.Inner)
		if err != nil {
			return nil, err
		}

		return model.Reference{Lifetime: v.Lifetime, Inner: inner}, nil

	case model.ReferenceMut:
		inner, err := r.MostConcrete(v.Inner)
		if err != nil {
			return nil, err
		}

		return model.ReferenceMut{Lifetime: v.Lifetime, Inner: inner}, nil

	case model.Dereference:
		inner, err := r.MostConcrete(v.Inner)
		if err != nil {
			return nil, err
		}

		return model.Dereference{Inner: inner}, nil

	case model.PathType:
		p, err := r.resolvePath(v.Path)
		if err != nil {
			return nil, err
		}

		return model.PathType{Path: p}, nil

	case model.TraitObject:
		bounds, err := r.resolveBounds(v.Bounds)
		if err != nil {
			return nil, err
		}

		return model.TraitObject{Bounds: bounds}, nil

	default:
		return t, nil
	}
}

// resolvePath resolves the type arguments of every angle-bracketed segment.
// Parenthesized arguments are kept as written.
func (r *Resolver) resolvePath(p model.Path) (model.Path, error) {
	segments := make([]model.PathSegment, len(p.Segments))

	for i, seg := range p.Segments {
		segments[i] = seg

		ab, ok := seg.Args.(model.AngleBracketed)
		if !ok {
			continue
		}

		args := make([]model.GenericArgument, len(ab.Args))

		for j, a := range ab.Args {
			ta, isType := a.(model.TypeArg)
			if !isType {
				args[j] = a
				continue
			}

			t, err := r.MostConcrete(ta.Type)
			if err != nil {
				return model.Path{}, err
			}

			args[j] = model.TypeArg{Type: t}
		}

		segments[i].Args = model.AngleBracketed{Args: args}
	}

	return model.Path{Global: p.Global, Segments: segments}, nil
}

func (r *Resolver) resolveBounds(bounds []model.Bound) ([]model.Bound, error) {
	out := make([]model.Bound, len(bounds))

	for i, b := range bounds {
		tb, ok := b.(model.TraitBound)
		if !ok {
			out[i] = b
			continue
		}

		p, err := r.resolvePath(tb.Path)
		if err != nil {
			return nil, err
		}

		out[i] = model.TraitBound{Lifetimes: tb.Lifetimes, Path: p}
	}

	return out, nil
}

func (r *Resolver) mostConcreteAll(types []model.Type) ([]model.Type, error) {
	out := make([]model.Type, len(types))

	for i, t := range types {
		resolved, err := r.MostConcrete(t)
		if err != nil {
			return nil, err
		}

		out[i] = resolved
	}

	return out, nil
}
