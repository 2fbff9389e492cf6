package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bound-generator/internal/model"
)

// scope parses types against a fixed set of declared parameters.
type scope struct {
	t      *testing.T
	ctx    *model.Context
	params model.ParamMap
}

func newScope(t *testing.T, idents ...string) *scope {
	t.Helper()

	s := &scope{t: t, ctx: model.NewContext(), params: model.ParamMap{}}
	s.params.Declare(s.ctx, idents...)

	return s
}

func (s *scope) typ(src string) model.Type {
	s.t.Helper()

	typ, err := model.ParseType(s.ctx, s.params, src)
	require.NoError(s.t, err, src)

	return typ
}

func (s *scope) constraint(src string) model.GenericConstraint {
	s.t.Helper()

	c, err := model.ParseConstraint(s.ctx, s.params, src)
	require.NoError(s.t, err, src)

	return c
}

func (s *scope) param(ident string) model.TypeParamRef {
	s.t.Helper()

	ref, ok := s.params[ident].TypeParamRef()
	require.True(s.t, ok, ident)

	return ref
}

func (s *scope) store() *Store {
	return NewStore(StoreOptions{Names: s.ctx})
}

// unify inserts each pair in order and fails the test on error.
func (s *scope) unify(store *Store, cs *model.ConstraintSet, pairs ...[2]string) {
	s.t.Helper()

	for _, p := range pairs {
		require.NoError(s.t, store.InsertAsEqualTo(s.typ(p[0]), s.typ(p[1]), cs), "%s = %s", p[0], p[1])
	}
}

func (s *scope) sameSet(store *Store, a, b string) bool {
	s.t.Helper()

	refA, okA := store.SetRef(s.typ(a))
	refB, okB := store.SetRef(s.typ(b))

	return okA && okB && refA == refB
}
