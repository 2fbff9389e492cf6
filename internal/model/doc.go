// Package model provides the value model the bound inference engine works on.
//
// Types and paths are immutable values. Every Type is one of a closed set of
// variants (Infer, Tuple, PrimitiveStr, Reference, ReferenceMut, Dereference,
// TraitObject, DataStructure, PathType, TypeParam), matched with type switches.
//
// Key types:
//   - Type: the closed type grammar, compared structurally through Key
//   - Path: a possibly global qualified name whose last segment carries the
//     generic arguments that take part in unification
//   - GenericConstraint / Bound: where-clause predicates and their bounds
//   - ConstraintSet: ordered, deduplicated collection of constraints
//   - Context: per-run registry of type parameter and lifetime identifiers
//
// The package also contains a printer producing Rust-like source text and a
// small reader for the same notation, used by fixtures and tests.
package model
