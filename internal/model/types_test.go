package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapper() DataStructure {
	return DataStructure{
		Name:     "Wrapper",
		Generics: Generics{Params: []GenericParam{TypeParamOf(0)}},
		Fields: []Field{
			{Name: "inner", Type: Param(0)},
			{Name: "label", Type: Ref(PrimitiveStr{})},
		},
	}
}

func TestFieldsOf(t *testing.T) {
	fields, err := FieldsOf(wrapper())
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, Param(0), fields[0].Type)

	lt := LifetimeRef(3)

	fields, err = FieldsOf(Reference{Lifetime: &lt, Inner: wrapper()})
	require.NoError(t, err)
	assert.Equal(t, Reference{Lifetime: &lt, Inner: Param(0)}, fields[0].Type)
	assert.Equal(t, Reference{Lifetime: &lt, Inner: Ref(PrimitiveStr{})}, fields[1].Type)

	fields, err = FieldsOf(RefMut(wrapper()))
	require.NoError(t, err)
	assert.Equal(t, RefMut(Param(0)), fields[0].Type)

	// The declaration itself is left untouched.
	assert.Equal(t, Param(0), wrapper().Fields[0].Type)
}

func TestFieldsOfErrors(t *testing.T) {
	_, err := FieldsOf(Param(0))
	assert.ErrorIs(t, err, ErrNotDataStructure)

	_, err = FieldsOf(Ref(Named(MustSimplePath("String"))))
	assert.ErrorIs(t, err, ErrNotDataStructure)

	_, err = FieldType(wrapper(), "missing")
	assert.Error(t, err)

	ft, err := FieldType(RefMut(wrapper()), "inner")
	require.NoError(t, err)
	assert.Equal(t, RefMut(Param(0)), ft)
}

func TestDerefAndTupleElem(t *testing.T) {
	assert.Equal(t, Param(0), Deref(Ref(Param(0))))
	assert.Equal(t, Param(0), Deref(RefMut(Param(0))))
	assert.Equal(t, Dereference{Inner: Param(0)}, Deref(Param(0)))

	elem, err := TupleElem(NewTuple(Param(0), PrimitiveStr{}), 1)
	require.NoError(t, err)
	assert.Equal(t, PrimitiveStr{}, elem)

	_, err = TupleElem(Unit(), 0)
	assert.Error(t, err)

	_, err = TupleElem(Param(0), 0)
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Infer", KindInfer.String())
	assert.Equal(t, "ReferenceMut", KindReferenceMut.String())
	assert.Equal(t, "TypeParam", KindTypeParam.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestDataStructurePath(t *testing.T) {
	holder := DataStructure{
		Name:     "Holder",
		Generics: Generics{Params: []GenericParam{LifetimeParamOf(0), TypeParamOf(1)}},
	}

	expected := NewPath(PathSegment{Ident: "Holder", Args: AngleBracketed{Args: []GenericArgument{
		LifetimeArg{Ref: 0},
		TypeArg{Type: Param(1)},
	}}})
	assert.Equal(t, expected, holder.Path())
	assert.Equal(t, NewPath(Segment("Plain")), DataStructure{Name: "Plain"}.Path())
}
