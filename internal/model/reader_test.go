package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScope(t *testing.T, idents ...string) (*Context, ParamMap) {
	t.Helper()

	ctx := NewContext()
	params := ParamMap{}
	params.Declare(ctx, idents...)

	return ctx, params
}

func TestParseTypeRoundTrip(t *testing.T) {
	ctx, params := newScope(t, "T", "U", "'a")

	tests := []struct {
		name     string
		src      string
		expected string
		kind     Kind
	}{
		{"infer", "_", "_", KindInfer},
		{"str", "str", "str", KindPrimitiveStr},
		{"unit", "()", "()", KindTuple},
		{"parenthesized type", "(T)", "T", KindTypeParam},
		{"one-tuple", "(T,)", "(T,)", KindTuple},
		{"pair", "(T, U)", "(T, U)", KindTuple},
		{"shared reference", "&'a T", "&'a T", KindReference},
		{"elided reference", "&T", "&T", KindReference},
		{"mutable reference", "&'a mut T", "&'a mut T", KindReferenceMut},
		{"dereference", "*T", "*T", KindDereference},
		{"trait object", "dyn Display + 'a", "dyn Display + 'a", KindTraitObject},
		{"global path", "::std::vec::Vec<T>", "::std::vec::Vec<T>", KindPath},
		{"turbofish", "Vec::<T>", "Vec<T>", KindPath},
		{"nested generics", "HashMap<T, Vec<U>>", "HashMap<T, Vec<U>>", KindPath},
		{"lifetime argument", "Cow<'a, str>", "Cow<'a, str>", KindPath},
		{"fn sugar", "Box<dyn Fn(T, U) -> T>", "Box<dyn Fn(T, U) -> T>", KindPath},
		{"unknown ident", "X", "X", KindPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ParseType(ctx, params, tt.src)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, typ.Kind())
			assert.Equal(t, tt.expected, ctx.TypeString(typ))
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	ctx, params := newScope(t, "T")

	tests := []struct {
		name        string
		src         string
		unsupported bool
	}{
		{"qualified self", "<T as Iterator>::Item", true},
		{"undeclared lifetime", "&'b T", false},
		{"unclosed generics", "Vec<T", false},
		{"trailing input", "T U", false},
		{"empty", "", false},
		{"bad character", "T?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseType(ctx, params, tt.src)
			require.Error(t, err)

			if tt.unsupported {
				assert.ErrorIs(t, err, ErrUnsupported)
			}
		})
	}
}

func TestParseTypeParams(t *testing.T) {
	ctx, params := newScope(t, "T", "U")

	typ, err := ParseType(ctx, params, "(T, U)")
	require.NoError(t, err)

	tuple, ok := typ.(Tuple)
	require.True(t, ok)
	assert.Equal(t, TypeParam{Ref: 0}, tuple.Elems[0])
	assert.Equal(t, TypeParam{Ref: 1}, tuple.Elems[1])

	// A qualified path never names a parameter.
	typ, err = ParseType(ctx, params, "self::T")
	require.NoError(t, err)
	assert.Equal(t, KindPath, typ.Kind())
}

func TestParseConstraint(t *testing.T) {
	ctx, params := newScope(t, "T", "'a")

	tests := []struct {
		src      string
		expected string
	}{
		{"T: Display", "T: Display"},
		{"T: Display + Clone + 'a", "T: Display + Clone + 'a"},
		{"Vec<T>: Debug", "Vec<T>: Debug"},
		{"for<'b> &'b T: PartialEq<T>", "for<'b> &'b T: PartialEq<T>"},
		{"T: for<'c> Fn(&'c T)", "T: for<'c> Fn(&'c T)"},
		{"'a: 'static", "'a: 'static"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, err := ParseConstraint(ctx, params, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ctx.ConstraintString(c))
		})
	}
}

func TestParseConstraintBinderScope(t *testing.T) {
	ctx, params := newScope(t, "T")

	_, err := ParseConstraint(ctx, params, "for<'b> &'b T: Display")
	require.NoError(t, err)

	// 'b was only visible inside the binder.
	_, err = ParseType(ctx, params, "&'b T")
	require.Error(t, err)
}

func TestParseBuiltinLifetimes(t *testing.T) {
	ctx, outer := newScope(t, "T")
	inner := ParamMap{}
	inner.Declare(ctx, "U")

	first, err := ParseType(ctx, outer, "&'static T")
	require.NoError(t, err)

	second, err := ParseType(ctx, inner, "&'static str")
	require.NoError(t, err)

	// The caller's scope is left alone and every scope sees the same lifetime.
	assert.NotContains(t, outer, "'static")
	assert.NotContains(t, inner, "'static")
	require.NotNil(t, first.(Reference).Lifetime)
	assert.Equal(t, *first.(Reference).Lifetime, *second.(Reference).Lifetime)
	assert.Equal(t, ctx.BuiltinLifetime("static"), *first.(Reference).Lifetime)

	anon, err := ParseType(ctx, outer, "&'_ T")
	require.NoError(t, err)
	assert.NotEqual(t, *first.(Reference).Lifetime, *anon.(Reference).Lifetime)
	assert.Equal(t, "&'_ T", ctx.TypeString(anon))
}

func TestParseBoundsAndPath(t *testing.T) {
	ctx, params := newScope(t, "T")

	bounds, err := ParseBounds(ctx, params, "Iterator<Item = T>")
	require.Error(t, err, "associated type bindings are not part of the model")
	assert.Nil(t, bounds)

	bounds, err = ParseBounds(ctx, params, "AsRef<T> + Send")
	require.NoError(t, err)
	require.Len(t, bounds, 2)

	p, err := ParsePath(ctx, params, "std::convert::From<T>")
	require.NoError(t, err)
	assert.Len(t, p.Segments, 3)

	args, ok := p.LastTypeArgs()
	require.True(t, ok)
	assert.Equal(t, []Type{TypeParam{Ref: 0}}, args)
}
