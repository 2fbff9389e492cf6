// Package unify implements the equality-set engine behind bound inference.
//
// Key capabilities:
//   - Store: groups types known to be equal because a value of one flowed into
//     a position expecting the other, recursing through tuples, references,
//     path arguments and trait-object bounds
//   - Resolver: collapses each equality set into its most concrete
//     representative, memoized per set and safe on cyclic sets
//   - RelevantSetRefs / Filter: decide which inferred constraints concern the
//     implementation's own generic parameters and rewrite the survivors into
//     their resolved form
//
// All failures are fatal for the analysis pass and wrap one of
// ErrArityMismatch, ErrUnsupported or ErrInternal.
package unify
