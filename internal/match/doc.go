// Package match ranks declared names by similarity to an unknown one, to
// suggest what a fixture author probably meant.
//
// Key functions:
//   - NormalizeIdent: folds snake_case, kebab-case and CamelCase to one form
//   - Levenshtein: computes edit distance between strings
//   - RankNames: orders known names by similarity to a target
//   - Suggest: returns the names worth offering as "did you mean"
package match
