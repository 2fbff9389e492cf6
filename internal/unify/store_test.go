package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bound-generator/internal/model"
)

func TestInsertAsEqualToCreatesSet(t *testing.T) {
	s := newScope(t, "P", "T")
	store := s.store()

	s.unify(store, model.NewConstraintSet(), [2]string{"T", "P"})

	assert.True(t, s.sameSet(store, "T", "P"))
	require.Len(t, store.Sets(), 1)
	assert.Equal(t, []model.Type{s.typ("T"), s.typ("P")}, store.Members(store.Sets()[0]))

	// Unifying again is a no-op.
	s.unify(store, model.NewConstraintSet(), [2]string{"P", "T"})
	assert.Len(t, store.Members(store.Sets()[0]), 2)
}

func TestInsertAsEqualToAddsToExistingSet(t *testing.T) {
	s := newScope(t, "P", "Q", "T")
	store := s.store()

	s.unify(store, model.NewConstraintSet(),
		[2]string{"T", "P"},
		[2]string{"Q", "T"},
	)

	assert.True(t, s.sameSet(store, "P", "Q"))
	assert.Len(t, store.Sets(), 1)
}

func TestInsertAsEqualToTrueUnion(t *testing.T) {
	s := newScope(t, "A", "B", "C", "D", "E")
	store := s.store()

	s.unify(store, model.NewConstraintSet(),
		[2]string{"A", "B"},
		[2]string{"C", "D"},
		[2]string{"D", "E"},
		[2]string{"A", "C"},
	)

	for _, ident := range []string{"B", "C", "D", "E"} {
		assert.True(t, s.sameSet(store, "A", ident), ident)
	}

	// The smaller set was merged into the larger one and retired.
	require.Len(t, store.Sets(), 1)
	assert.Equal(t, SetRef(1), store.Sets()[0])
	assert.Len(t, store.Members(1), 5)
}

func TestInsertAsEqualToLegacyMerge(t *testing.T) {
	s := newScope(t, "A", "B", "C", "D")
	store := NewStore(StoreOptions{LegacyMerge: true, Names: s.ctx})

	s.unify(store, model.NewConstraintSet(),
		[2]string{"A", "B"},
		[2]string{"C", "D"},
		[2]string{"A", "C"},
	)

	assert.True(t, s.sameSet(store, "A", "C"))
	assert.False(t, s.sameSet(store, "A", "D"), "legacy merge must not pull in the rest of C's set")
	assert.Len(t, store.Sets(), 2)
}

func TestInsertAsEqualToReferences(t *testing.T) {
	t.Run("shared with mutable", func(t *testing.T) {
		s := newScope(t, "P", "Q")
		store := s.store()

		s.unify(store, model.NewConstraintSet(), [2]string{"&P", "&mut Q"})

		assert.True(t, s.sameSet(store, "P", "Q"))
		_, ok := store.SetRef(s.typ("&P"))
		assert.False(t, ok, "mixed references are not set members themselves")
	})

	t.Run("mutable with shared", func(t *testing.T) {
		s := newScope(t, "P", "Q")
		store := s.store()

		s.unify(store, model.NewConstraintSet(), [2]string{"&mut P", "&Q"})

		assert.True(t, s.sameSet(store, "P", "Q"))
	})

	t.Run("same kind", func(t *testing.T) {
		s := newScope(t, "P", "Q")
		store := s.store()

		s.unify(store, model.NewConstraintSet(), [2]string{"&mut P", "&mut Q"})

		assert.True(t, s.sameSet(store, "P", "Q"))
		assert.True(t, s.sameSet(store, "&mut P", "&mut Q"))
	})

	t.Run("same inner", func(t *testing.T) {
		s := newScope(t, "P")
		store := s.store()

		s.unify(store, model.NewConstraintSet(), [2]string{"&P", "&P"})

		ref, ok := store.SetRef(s.typ("P"))
		require.True(t, ok)
		assert.Equal(t, 1, len(store.Members(ref)))
	})
}

func TestInsertAsEqualToPaths(t *testing.T) {
	s := newScope(t, "P", "Q", "T")
	store := s.store()

	s.unify(store, model.NewConstraintSet(),
		[2]string{"Foo<T>", "Foo<P>"},
		[2]string{"Foo<T>", "Foo<Q>"},
	)

	assert.True(t, s.sameSet(store, "Foo<P>", "Foo<Q>"))
	assert.True(t, s.sameSet(store, "P", "Q"), "arguments of matching paths are unified")

	// A parameter standing for a path does not relate the path's arguments.
	other := s.store()
	s.unify(other, model.NewConstraintSet(),
		[2]string{"T", "Foo<P>"},
		[2]string{"T", "Foo<Q>"},
	)

	assert.True(t, s.sameSet(other, "Foo<P>", "Foo<Q>"))
	assert.False(t, s.sameSet(other, "P", "Q"))
}

func TestInsertAsEqualToPathArityMismatchIsNoop(t *testing.T) {
	s := newScope(t, "P", "Q")
	store := s.store()

	s.unify(store, model.NewConstraintSet(), [2]string{"Foo<P>", "Foo<P, Q>"})

	assert.True(t, s.sameSet(store, "Foo<P>", "Foo<P, Q>"))
	_, ok := store.SetRef(s.typ("P"))
	assert.False(t, ok)
}

func TestInsertAsEqualToLifetimeArguments(t *testing.T) {
	s := newScope(t, "P", "'a", "'b")
	store := s.store()

	s.unify(store, model.NewConstraintSet(), [2]string{"Cow<'a, P>", "Cow<'b, str>"})
	assert.True(t, s.sameSet(store, "P", "str"))

	err := store.InsertAsEqualTo(s.typ("Cow<'a, P>"), s.typ("Cow<P, 'a>"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestInsertAsEqualToTuples(t *testing.T) {
	s := newScope(t, "P", "Q", "T", "U", "V")

	store := s.store()
	s.unify(store, model.NewConstraintSet(), [2]string{"(T, U)", "(P, Q)"})

	assert.True(t, s.sameSet(store, "T", "P"))
	assert.True(t, s.sameSet(store, "U", "Q"))
	assert.False(t, s.sameSet(store, "P", "Q"))

	err := s.store().InsertAsEqualTo(s.typ("(T, U)"), s.typ("(P, Q, V)"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrArityMismatch)

	err = s.store().InsertAsEqualTo(s.typ("Vec<(T, U)>"), s.typ("Vec<(P,)>"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrArityMismatch, "nested tuples are checked too")
}

func TestInsertAsEqualToTraitObject(t *testing.T) {
	s := newScope(t, "P")

	for _, pair := range [][2]string{{"dyn Iterator", "P"}, {"P", "dyn Iterator"}} {
		store := s.store()
		cs := model.NewConstraintSet()

		s.unify(store, cs, pair)

		assert.True(t, cs.Contains(s.constraint("P: Iterator")))
		assert.Empty(t, store.Sets(), "trait objects never join sets")
	}
}

func TestInsertAsEqualToTraitObjects(t *testing.T) {
	s := newScope(t, "P", "T")
	store := s.store()
	cs := model.NewConstraintSet()

	s.unify(store, cs, [2]string{"dyn AsRef<T> + 'static", "dyn AsRef<P> + Send"})

	assert.True(t, s.sameSet(store, "T", "P"))
	assert.Zero(t, cs.Len())
	_, ok := store.SetRef(s.typ("dyn AsRef<T> + 'static"))
	assert.False(t, ok)

	err := store.InsertAsEqualTo(s.typ("dyn A + B"), s.typ("dyn A"), cs)
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestInsertAsEqualToUnsupported(t *testing.T) {
	s := newScope(t, "P", "T")
	store := s.store()

	err := store.InsertAsEqualTo(s.typ("Box<Fn(T)>"), s.typ("Box<Fn(P)>"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrUnsupported)

	err = store.InsertAsEqualTo(s.typ("Fn(T)"), s.typ("Fn(P)"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestInsertAsEqualToEmptyPath(t *testing.T) {
	s := newScope(t, "P")
	store := s.store()

	err := store.InsertAsEqualTo(model.PathType{}, s.typ("Foo"), model.NewConstraintSet())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEnsureSet(t *testing.T) {
	s := newScope(t, "P", "Q")
	store := s.store()

	ref := store.EnsureSet(s.typ("P"))
	assert.Equal(t, ref, store.EnsureSet(s.typ("P")))
	assert.NotEqual(t, ref, store.EnsureSet(s.typ("Q")))
	assert.Len(t, store.Sets(), 2)
	assert.Nil(t, store.Members(SetRef(42)))
}

func TestSnapshot(t *testing.T) {
	s := newScope(t, "P", "T")
	store := s.store()

	s.unify(store, model.NewConstraintSet(), [2]string{"&T", "&Vec<P>"})

	assert.Equal(t, []SetSnapshot{
		{Ref: 0, Members: []string{"T", "Vec<P>"}},
		{Ref: 1, Members: []string{"&T", "&Vec<P>"}},
	}, store.Snapshot())
}
