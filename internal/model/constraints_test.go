package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintSet(t *testing.T) {
	ctx, params := newScope(t, "P", "Q")

	parse := func(src string) GenericConstraint {
		c, err := ParseConstraint(ctx, params, src)
		require.NoError(t, err)

		return c
	}

	cs := NewConstraintSet(parse("Q: Debug"), parse("P: Display"))
	assert.Equal(t, 2, cs.Len())

	assert.False(t, cs.Insert(parse("P: Display")), "structural duplicate")
	assert.True(t, cs.Insert(parse("P: Clone")))
	assert.Equal(t, 1, cs.InsertAll([]GenericConstraint{parse("Q: Debug"), parse("P: Send")}))
	assert.True(t, cs.Contains(parse("P: Send")))
	assert.False(t, cs.Contains(parse("P: Sync")))

	assert.Equal(t, "where Q: Debug, P: Display, P: Clone, P: Send", ctx.WhereClause(cs.Constraints()))
	assert.Equal(t, "where P: Clone, P: Display, P: Send, Q: Debug", ctx.WhereClause(cs.Sorted(ctx)))
}

func TestConstraintSetZeroValue(t *testing.T) {
	var cs ConstraintSet

	assert.True(t, cs.Insert(NewPredicate(Param(0), NewTraitBound(MustSimplePath("Clone")))))
	assert.Equal(t, 1, cs.Len())

	assert.Equal(t, "", (*Context)(nil).WhereClause(nil))
}

func TestConstraintsReturnsCopy(t *testing.T) {
	cs := NewConstraintSet(NewPredicate(Param(0), NewTraitBound(MustSimplePath("Clone"))))

	items := cs.Constraints()
	items[0] = nil

	assert.NotNil(t, cs.Constraints()[0])
}
