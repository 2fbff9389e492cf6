package unify

import (
	"errors"

	"bound-generator/internal/model"
)

var (
	// ErrArityMismatch is returned when tuples or trait objects with different
	// element or bound counts are unified or merged.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrUnsupported is returned for constructs the engine has no rule for:
	// parenthesized path arguments and mixed type/lifetime argument pairs.
	ErrUnsupported = model.ErrUnsupported
	// ErrInternal is returned when resolution meets a pairing that set
	// construction should have ruled out.
	ErrInternal = errors.New("internal inconsistency")
)
