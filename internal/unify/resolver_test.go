package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bound-generator/internal/model"
)

// resolveOf unifies the pairs and returns the printed representative of the
// set holding of.
func resolveOf(t *testing.T, s *scope, of string, pairs ...[2]string) string {
	t.Helper()

	store := s.store()
	s.unify(store, model.NewConstraintSet(), pairs...)

	ref, ok := store.SetRef(s.typ(of))
	require.True(t, ok, of)

	rep, err := NewResolver(store).Resolve(ref)
	require.NoError(t, err)

	return s.ctx.TypeString(rep)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		of       string
		pairs    [][2]string
		expected string
	}{
		{"smaller param id wins", "T", [][2]string{{"T", "P"}}, "P"},
		{"order does not matter for params", "P", [][2]string{{"P", "T"}}, "P"},
		{"placeholder loses", "T", [][2]string{{"T", "_"}}, "T"},
		{"str wins", "T", [][2]string{{"T", "str"}, {"T", "Vec<P>"}}, "str"},
		{"path beats param", "T", [][2]string{{"T", "Vec<P>"}}, "Vec<P>"},
		{"param after path", "T", [][2]string{{"Vec<P>", "T"}}, "Vec<P>"},
		{"trait object is never a member", "T", [][2]string{{"T", "P"}, {"T", "dyn Display"}}, "P"},
		{"alias without arguments wins", "T", [][2]string{{"T", "Foo<P>"}, {"T", "Foo"}}, "Foo"},
		{"fewer arguments win", "T", [][2]string{{"T", "Foo<P, Q>"}, {"T", "Foo<P>"}}, "Foo<P>"},
		{"global path beats shorter relative path", "Vec<_>", [][2]string{{"Vec<_>", "::std::vec::Vec<P>"}}, "::std::vec::Vec<P>"},
		{"global path keeps merged arguments", "T", [][2]string{{"T", "::std::vec::Vec<_>"}, {"T", "Vec<P>"}}, "::std::vec::Vec<P>"},
		{"shorter relative path", "T", [][2]string{{"T", "std::vec::Vec<_>"}, {"T", "Vec<P>"}}, "Vec<P>"},
		{"path arguments resolve through sets", "T", [][2]string{{"T", "Vec<U>"}, {"U", "P"}}, "Vec<P>"},
		{"tuple elements merge", "T", [][2]string{{"T", "Foo<(U, _)>"}, {"T", "Foo<(_, P)>"}, {"U", "Q"}}, "Foo<(Q, P)>"},
		{"references merge inner types", "&U", [][2]string{{"&U", "&P"}}, "&P"},
		{"mutable references merge inner types", "&mut Q", [][2]string{{"&mut Q", "&mut P"}}, "&mut P"},
		{"lifetime argument of first path kept", "T", [][2]string{{"T", "Cow<'a, U>"}, {"T", "Cow<'b, P>"}}, "Cow<'a, P>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScope(t, "P", "Q", "T", "U", "'a", "'b")
			assert.Equal(t, tt.expected, resolveOf(t, s, tt.of, tt.pairs...))
		})
	}
}

func TestResolveShortPathWhenNotGlobal(t *testing.T) {
	s := newScope(t, "P")

	// Equal argument counts with neither path global: the path with fewer
	// segments receives the merged arguments, whichever operand it was.
	assert.Equal(t, "Vec<P>", resolveOf(t, s, "alloc::vec::Vec<_>", [2]string{"alloc::vec::Vec<_>", "Vec<P>"}))
}

func TestResolveGlobalPathIndependentOfOrder(t *testing.T) {
	s := newScope(t, "P", "T")

	orders := map[string][][2]string{
		"global first":   {{"T", "::std::vec::Vec<_>"}, {"T", "Vec<P>"}},
		"relative first": {{"T", "Vec<P>"}, {"T", "::std::vec::Vec<_>"}},
	}

	for name, pairs := range orders {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "::std::vec::Vec<P>", resolveOf(t, s, "T", pairs...))
		})
	}

	r := NewResolver(s.store())

	merged, err := r.MostConcreteOfPair(s.typ("Vec<_>"), s.typ("::std::vec::Vec<P>"))
	require.NoError(t, err)
	assert.Equal(t, "::std::vec::Vec<P>", s.ctx.TypeString(merged))
}

func TestResolveCycles(t *testing.T) {
	s := newScope(t, "P", "Q")

	t.Run("self reference", func(t *testing.T) {
		assert.Equal(t, "Vec<P>", resolveOf(t, s, "P", [2]string{"P", "Vec<P>"}))
	})

	t.Run("mutual reference", func(t *testing.T) {
		store := s.store()
		s.unify(store, model.NewConstraintSet(),
			[2]string{"P", "Vec<Q>"},
			[2]string{"Q", "Vec<P>"},
		)

		r := NewResolver(store)

		refP, _ := store.SetRef(s.typ("P"))
		refQ, _ := store.SetRef(s.typ("Q"))

		repP, err := r.Resolve(refP)
		require.NoError(t, err)
		assert.Equal(t, "Vec<Vec<P>>", s.ctx.TypeString(repP))

		repQ, err := r.Resolve(refQ)
		require.NoError(t, err)
		assert.Equal(t, "Vec<P>", s.ctx.TypeString(repQ))
	})
}

func TestResolveMemoized(t *testing.T) {
	s := newScope(t, "P", "T")
	store := s.store()
	s.unify(store, model.NewConstraintSet(), [2]string{"T", "Vec<P>"})

	r := NewResolver(store)
	ref, _ := store.SetRef(s.typ("T"))

	first, err := r.Resolve(ref)
	require.NoError(t, err)

	// Later store changes are not seen by a resolver that already ran.
	s.unify(store, model.NewConstraintSet(), [2]string{"T", "str"})

	second, err := r.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh, err := NewResolver(store).Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, model.PrimitiveStr{}, fresh)
}

func TestResolveErrors(t *testing.T) {
	s := newScope(t, "P", "T", "U", "V")

	t.Run("incompatible members", func(t *testing.T) {
		store := s.store()
		s.unify(store, model.NewConstraintSet(), [2]string{"T", "(P, U)"}, [2]string{"T", "&P"})

		ref, _ := store.SetRef(s.typ("T"))
		_, err := NewResolver(store).Resolve(ref)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("tuple arity", func(t *testing.T) {
		r := NewResolver(s.store())

		_, err := r.MostConcreteOfPair(s.typ("(P, U)"), s.typ("(P, U, V)"))
		assert.ErrorIs(t, err, ErrArityMismatch)
	})

	t.Run("parenthesized arguments", func(t *testing.T) {
		r := NewResolver(s.store())

		_, err := r.MostConcreteOfPair(s.typ("Box<P>"), s.typ("Fn(P)"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("empty set", func(t *testing.T) {
		_, err := NewResolver(s.store()).Resolve(SetRef(3))
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestMostConcreteOfPairIdempotent(t *testing.T) {
	s := newScope(t, "P", "Q")

	types := []string{
		"_",
		"str",
		"()",
		"(P, Q)",
		"(P,)",
		"&P",
		"&mut (P, str)",
		"*P",
		"dyn Display + Send",
		"Vec<P>",
		"::std::collections::HashMap<P, Vec<Q>>",
		"Foo",
		"P",
	}

	for _, src := range types {
		t.Run(src, func(t *testing.T) {
			r := NewResolver(s.store())
			typ := s.typ(src)

			resolved, err := r.MostConcrete(typ)
			require.NoError(t, err)

			pair, err := r.MostConcreteOfPair(typ, typ)
			require.NoError(t, err)
			assert.Equal(t, resolved, pair)
		})
	}

	ds := model.DataStructure{Name: "Wrapper", Generics: model.Generics{Params: []model.GenericParam{model.TypeParamOf(0)}}}
	pair, err := NewResolver(s.store()).MostConcreteOfPair(ds, ds)
	require.NoError(t, err)
	assert.Equal(t, ds, pair)
}
