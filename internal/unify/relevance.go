package unify

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"bound-generator/internal/model"
)

// RelevantSetRefs returns the equality sets of the given type parameters and
// of every type parameter nested (through tuples, references and path
// arguments) in their sets' representatives. Parameters that never took part
// in unification get a singleton set.
func RelevantSetRefs(store *Store, resolver *Resolver, params []model.TypeParamRef) (map[SetRef]struct{}, error) {
	relevant := make(map[SetRef]struct{})
	checked := make(map[SetRef]struct{})

	for _, param := range params {
		ref := store.EnsureSet(model.TypeParam{Ref: param})
		if _, ok := checked[ref]; ok {
			continue
		}

		checked[ref] = struct{}{}

		node, err := resolver.Resolve(ref)
		if err != nil {
			return nil, err
		}

		if err := collectParamSets(store, node, relevant); err != nil {
			return nil, err
		}
	}

	return relevant, nil
}

func collectParamSets(store *Store, t model.Type, out map[SetRef]struct{}) error {
	switch v := t.(type) {
	case model.Tuple:
		for _, e := range v.Elems {
			if err := collectParamSets(store, e, out); err != nil {
				return err
			}
		}

	case model.Reference:
		return collectParamSets(store, v.Inner, out)

	case model.ReferenceMut:
		return collectParamSets(store, v.Inner, out)

	case model.PathType:
		for _, seg := range v.Path.Segments {
			switch args := seg.Args.(type) {
			case model.AngleBracketed:
				for _, a := range args.Args {
					if ta, ok := a.(model.TypeArg); ok {
						if err := collectParamSets(store, ta.Type, out); err != nil {
							return err
						}
					}
				}
			case model.Parenthesized:
				return fmt.Errorf("relevant parameters of %s: parenthesized arguments: %w",
					store.pathString(v.Path), ErrUnsupported)
			}
		}

	case model.TypeParam:
		out[store.EnsureSet(v)] = struct{}{}
	}

	return nil
}

// Filter keeps the constraints that concern a given collection of relevant
// equality sets and rewrites them into their most concrete form.
type Filter struct {
	store    *Store
	resolver *Resolver
	relevant map[SetRef]struct{}
	logger   *log.Logger
}

// NewFilter creates a Filter. A nil logger discards debug events.
func NewFilter(store *Store, resolver *Resolver, relevant map[SetRef]struct{}, logger *log.Logger) *Filter {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Filter{store: store, resolver: resolver, relevant: relevant, logger: logger}
}

// IsRelevantType reports whether t is a type parameter whose set is relevant,
// or a reference (of either kind) to such a type.
func (f *Filter) IsRelevantType(t model.Type) bool {
	switch v := t.(type) {
	case model.TypeParam:
		ref, ok := f.store.SetRef(v)
		if !ok {
			return false
		}

		_, relevant := f.relevant[ref]

		return relevant
	case model.Reference:
		return f.IsRelevantType(v.Inner)
	case model.ReferenceMut:
		return f.IsRelevantType(v.Inner)
	default:
		return false
	}
}

// IsRelevantPath reports whether every type argument of the final segment of
// p is relevant. Lifetime arguments are always relevant.
func (f *Filter) IsRelevantPath(p model.Path) (bool, error) {
	if len(p.Segments) == 0 {
		return false, fmt.Errorf("relevance: %w: %w", model.ErrEmptyPath, ErrInternal)
	}

	switch args := p.Last().Args.(type) {
	case model.AngleBracketed:
		for _, a := range args.Args {
			if ta, ok := a.(model.TypeArg); ok && !f.IsRelevantType(ta.Type) {
				return false, nil
			}
		}
	case model.Parenthesized:
		return false, fmt.Errorf("relevance of %s: parenthesized arguments: %w",
			f.store.pathString(p), ErrUnsupported)
	}

	return true, nil
}

// IsRelevantBound reports whether a bound is relevant. Lifetime bounds always
// are; trait bounds are when their path is.
func (f *Filter) IsRelevantBound(b model.Bound) (bool, error) {
	if tb, ok := b.(model.TraitBound); ok {
		return f.IsRelevantPath(tb.Path)
	}

	return true, nil
}

// isRelevant reports whether a constraint concerns the relevant sets as it
// stands, without resolving it first. Lifetime constraints always do.
func (f *Filter) isRelevant(c model.GenericConstraint) (bool, error) {
	pt, ok := c.(model.PredicateType)
	if !ok {
		return true, nil
	}

	if !f.IsRelevantType(pt.BoundedType) {
		return false, nil
	}

	for _, b := range pt.Bounds {
		relevant, err := f.IsRelevantBound(b)
		if err != nil || !relevant {
			return false, err
		}
	}

	return true, nil
}

// Apply resolves c and reports whether the resolved constraint is relevant.
// Irrelevant constraints are dropped, not reported as errors.
func (f *Filter) Apply(c model.GenericConstraint) (model.GenericConstraint, bool, error) {
	pt, ok := c.(model.PredicateType)
	if !ok {
		return c, true, nil
	}

	bounded, err := f.resolver.MostConcrete(pt.BoundedType)
	if err != nil {
		return nil, false, err
	}

	if !f.IsRelevantType(bounded) {
		f.logger.Debug("drop constraint", "constraint", f.store.opts.Names.ConstraintString(c),
			"bounded", f.store.typeString(bounded))

		return nil, false, nil
	}

	bounds := make([]model.Bound, 0, len(pt.Bounds))

	for _, b := range pt.Bounds {
		if tb, isTrait := b.(model.TraitBound); isTrait {
			p, err := f.resolver.resolvePath(tb.Path)
			if err != nil {
				return nil, false, err
			}

			b = model.TraitBound{Lifetimes: tb.Lifetimes, Path: p}
		}

		bounds = append(bounds, b)
	}

	rewritten := model.PredicateType{
		Lifetimes:   slices.Clone(pt.Lifetimes),
		BoundedType: bounded,
		Bounds:      bounds,
	}

	relevant, err := f.isRelevant(rewritten)
	if err != nil {
		return nil, false, err
	}

	if !relevant {
		f.logger.Debug("drop constraint", "constraint", f.store.opts.Names.ConstraintString(c),
			"rewritten", f.store.opts.Names.ConstraintString(rewritten))

		return nil, false, nil
	}

	return rewritten, true, nil
}

// ApplySet filters every constraint of cs, keeping insertion order. Rewritten
// constraints that collapse onto each other are deduplicated.
func (f *Filter) ApplySet(cs *model.ConstraintSet) (*model.ConstraintSet, error) {
	out := model.NewConstraintSet()

	for _, c := range cs.Constraints() {
		kept, ok, err := f.Apply(c)
		if err != nil {
			return nil, err
		}

		if ok {
			out.Insert(kept)
		}
	}

	return out, nil
}
