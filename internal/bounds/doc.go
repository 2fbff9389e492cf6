// Package bounds infers the where clause of a synthesized generic
// implementation.
//
// Bound collection for one implementation:
//  1. Seed the relevant type parameters and the declared constraints from the
//     implementing data structure and the implemented trait
//  2. For every recorded invocation in every member function, unify each
//     argument's static type with the callee's declared parameter type and
//     copy forward the callee's (and its parent's) declared constraints
//  3. Resolve every equality set to its most concrete type and compute the
//     sets reachable from the relevant parameters
//  4. Keep only the constraints that concern those sets, rewritten into their
//     resolved form
//
// The result is all-or-nothing: a complete ConstraintSet, or an error pinned
// to the invocation that caused it.
package bounds
