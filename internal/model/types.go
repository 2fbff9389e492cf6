package model

import (
	"errors"
	"fmt"
)

// ErrNotDataStructure is returned by FieldsOf for types without fields.
var ErrNotDataStructure = errors.New("type has no fields")

// Type is a member of the closed type grammar. The variants are Infer, Tuple,
// PrimitiveStr, Reference, ReferenceMut, Dereference, TraitObject,
// DataStructure, PathType and TypeParam.
//
// Types are values; use Equal or Key to compare them structurally.
type Type interface {
	Kind() Kind
	isType()
}

// Infer is a placeholder for a type that is not known yet (`_`).
type Infer struct{}

// Tuple is an ordered list of element types. The empty tuple is unit.
type Tuple struct {
	Elems []Type
}

// PrimitiveStr is the string slice primitive `str`.
type PrimitiveStr struct{}

// Reference is a shared reference `&'a T`. Lifetime is nil when elided.
type Reference struct {
	Lifetime *LifetimeRef
	Inner    Type
}

// ReferenceMut is a mutable reference `&'a mut T`.
type ReferenceMut struct {
	Lifetime *LifetimeRef
	Inner    Type
}

// Dereference is the type of `*expr` when expr is not a reference.
type Dereference struct {
	Inner Type
}

// TraitObject is `dyn Bound + Bound`.
type TraitObject struct {
	Bounds []Bound
}

// Field is a named field of a DataStructure. Tuple-like structures use the
// positional index as name.
type Field struct {
	Name string
	Type Type
}

// DataStructure is a declared struct together with its generics.
type DataStructure struct {
	Name     string
	Generics Generics
	Fields   []Field
}

// Path returns the path naming d applied to its own parameters, e.g.
// `Holder<'a, P>`. Named(d.Path()) is the type of `self` in an implementation
// for d.
func (d DataStructure) Path() Path {
	seg := Segment(d.Name)

	if len(d.Generics.Params) > 0 {
		args := make([]GenericArgument, 0, len(d.Generics.Params))

		for _, p := range d.Generics.Params {
			if ref, ok := p.TypeParamRef(); ok {
				args = append(args, TypeArg{Type: Param(ref)})
			} else if ref, ok := p.LifetimeRef(); ok {
				args = append(args, LifetimeArg{Ref: ref})
			}
		}

		seg.Args = AngleBracketed{Args: args}
	}

	return NewPath(seg)
}

// PathType is a named type such as `::std::vec::Vec<T>`.
type PathType struct {
	Path Path
}

// TypeParam refers to a declared generic type parameter.
type TypeParam struct {
	Ref TypeParamRef
}

func (Infer) Kind() Kind         { return KindInfer }
func (Tuple) Kind() Kind         { return KindTuple }
func (PrimitiveStr) Kind() Kind  { return KindPrimitiveStr }
func (Reference) Kind() Kind     { return KindReference }
func (ReferenceMut) Kind() Kind  { return KindReferenceMut }
func (Dereference) Kind() Kind   { return KindDereference }
func (TraitObject) Kind() Kind   { return KindTraitObject }
func (DataStructure) Kind() Kind { return KindDataStructure }
func (PathType) Kind() Kind      { return KindPath }
func (TypeParam) Kind() Kind     { return KindTypeParam }

func (Infer) isType()         {}
func (Tuple) isType()         {}
func (PrimitiveStr) isType()  {}
func (Reference) isType()     {}
func (ReferenceMut) isType()  {}
func (Dereference) isType()   {}
func (TraitObject) isType()   {}
func (DataStructure) isType() {}
func (PathType) isType()      {}
func (TypeParam) isType()     {}

// Unit returns the empty tuple `()`.
func Unit() Type {
	return Tuple{}
}

// NewTuple returns a tuple of the given element types.
func NewTuple(elems ...Type) Type {
	return Tuple{Elems: append([]Type(nil), elems...)}
}

// Ref returns `&t` with an elided lifetime.
func Ref(t Type) Type {
	return Reference{Inner: t}
}

// RefMut returns `&mut t` with an elided lifetime.
func RefMut(t Type) Type {
	return ReferenceMut{Inner: t}
}

// Param returns the type referring to a type parameter.
func Param(ref TypeParamRef) Type {
	return TypeParam{Ref: ref}
}

// Named returns the path type for p.
func Named(p Path) Type {
	return PathType{Path: p}
}

// TraitObjectOf returns `dyn p1 + p2 ...` for plain trait paths.
func TraitObjectOf(paths ...Path) Type {
	bounds := make([]Bound, 0, len(paths))
	for _, p := range paths {
		bounds = append(bounds, TraitBound{Path: p})
	}

	return TraitObject{Bounds: bounds}
}

// Deref returns the type produced by dereferencing a value of type t. One
// reference layer is removed; any other type is wrapped in Dereference.
func Deref(t Type) Type {
	switch v := t.(type) {
	case Reference:
		return v.Inner
	case ReferenceMut:
		return v.Inner
	default:
		return Dereference{Inner: t}
	}
}

// TupleElem returns the i-th element of a tuple type.
func TupleElem(t Type, i int) (Type, error) {
	tuple, ok := t.(Tuple)
	if !ok {
		return nil, fmt.Errorf("tuple element %d of %s: not a tuple", i, t.Kind())
	}

	if i < 0 || i >= len(tuple.Elems) {
		return nil, fmt.Errorf("tuple element %d out of range (%d elements)", i, len(tuple.Elems))
	}

	return tuple.Elems[i], nil
}

// FieldsOf returns the fields of a data structure. When t is a reference to a
// data structure, every field type is wrapped in the same kind of reference
// with the same lifetime, which is the type of accessing the field through it.
func FieldsOf(t Type) ([]Field, error) {
	switch v := t.(type) {
	case DataStructure:
		return append([]Field(nil), v.Fields...), nil

	case Reference:
		inner, err := FieldsOf(v.Inner)
		if err != nil {
			return nil, err
		}

		for i := range inner {
			inner[i].Type = Reference{Lifetime: v.Lifetime, Inner: inner[i].Type}
		}

		return inner, nil

	case ReferenceMut:
		inner, err := FieldsOf(v.Inner)
		if err != nil {
			return nil, err
		}

		for i := range inner {
			inner[i].Type = ReferenceMut{Lifetime: v.Lifetime, Inner: inner[i].Type}
		}

		return inner, nil

	default:
		return nil, fmt.Errorf("fields of %s: %w", t.Kind(), ErrNotDataStructure)
	}
}

// FieldType returns the type of the named field of t, see FieldsOf.
func FieldType(t Type, name string) (Type, error) {
	fields, err := FieldsOf(t)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		if f.Name == name {
			return f.Type, nil
		}
	}

	return nil, fmt.Errorf("no field %q", name)
}
