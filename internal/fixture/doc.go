// Package fixture loads YAML descriptions of implementations, callee
// signatures and recorded call sites, and turns them into bounds.Impl values.
//
// Types in a fixture are written as text (`&mut Vec<P>`, `dyn Iterator`) and
// read with model.ParseType in the scope of the declaring implementation or
// callee. Call arguments may also name a field of the implementing structure
// (`self.inner`, `&self.inner`, `&mut self.inner`).
package fixture
