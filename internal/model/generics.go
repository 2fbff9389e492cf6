package model

// TypeParamRef is the stable id of a generic type parameter. Ids are handed
// out in increasing order by a Context, so comparing two refs is deterministic.
type TypeParamRef int

// LifetimeRef is the stable id of a lifetime parameter.
type LifetimeRef int

// ParamKind distinguishes type parameters from lifetime parameters.
type ParamKind int

const (
	ParamType ParamKind = iota
	ParamLifetime
)

// GenericParam is a declared generic parameter of a type, trait or function.
type GenericParam struct {
	Kind ParamKind
	Ref  int
}

// TypeParamOf wraps a type parameter ref as a GenericParam.
func TypeParamOf(ref TypeParamRef) GenericParam {
	return GenericParam{Kind: ParamType, Ref: int(ref)}
}

// LifetimeParamOf wraps a lifetime ref as a GenericParam.
func LifetimeParamOf(ref LifetimeRef) GenericParam {
	return GenericParam{Kind: ParamLifetime, Ref: int(ref)}
}

// TypeParamRef returns the type parameter ref and true if p is a type parameter.
func (p GenericParam) TypeParamRef() (TypeParamRef, bool) {
	if p.Kind != ParamType {
		return 0, false
	}

	return TypeParamRef(p.Ref), true
}

// LifetimeRef returns the lifetime ref and true if p is a lifetime parameter.
func (p GenericParam) LifetimeRef() (LifetimeRef, bool) {
	if p.Kind != ParamLifetime {
		return 0, false
	}

	return LifetimeRef(p.Ref), true
}

// Generics holds declared parameters and where-clause constraints.
type Generics struct {
	Params      []GenericParam
	Constraints []GenericConstraint
}

// TypeParams returns the type parameters among g.Params in declaration order.
func (g *Generics) TypeParams() []TypeParamRef {
	if g == nil {
		return nil
	}

	var refs []TypeParamRef

	for _, p := range g.Params {
		if ref, ok := p.TypeParamRef(); ok {
			refs = append(refs, ref)
		}
	}

	return refs
}

// GenericConstraint is a where-clause predicate: PredicateType or
// PredicateLifetime.
type GenericConstraint interface {
	isConstraint()
}

// PredicateType is a `BoundedType: Bounds` constraint. Lifetimes holds the
// higher-ranked `for<'a>` lifetimes, if any.
type PredicateType struct {
	Lifetimes   []LifetimeRef
	BoundedType Type
	Bounds      []Bound
}

// PredicateLifetime is a `'a: 'b + 'c` constraint.
type PredicateLifetime struct {
	Lifetime LifetimeRef
	Bounds   []LifetimeRef
}

func (PredicateType) isConstraint()     {}
func (PredicateLifetime) isConstraint() {}

// Bound is a bound on a type: TraitBound or LifetimeBound.
type Bound interface {
	isBound()
}

// TraitBound requires a type to implement the trait named by Path.
type TraitBound struct {
	Lifetimes []LifetimeRef
	Path      Path
}

// LifetimeBound requires a type to outlive a lifetime.
type LifetimeBound struct {
	Ref LifetimeRef
}

func (TraitBound) isBound()    {}
func (LifetimeBound) isBound() {}

// NewPredicate builds a PredicateType without higher-ranked lifetimes.
func NewPredicate(bounded Type, bounds ...Bound) PredicateType {
	return PredicateType{BoundedType: bounded, Bounds: bounds}
}

// NewTraitBound builds a TraitBound for path.
func NewTraitBound(path Path) TraitBound {
	return TraitBound{Path: path}
}
