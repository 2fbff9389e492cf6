// Package diagnostic provides structured errors and warnings for bound
// inference runs.
//
// Key capabilities:
//   - Fixture validation findings (unknown callees, unparsable types)
//   - Engine failures pinned to the implementation and call site
//   - Stable codes for the engine's error classes
package diagnostic
