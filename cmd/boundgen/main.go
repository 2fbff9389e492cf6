// Package main provides the CLI entrypoint for boundgen.
//
// boundgen infers the where clause a generic implementation needs:
//   - Reads YAML fixtures describing implementations, callee signatures and call sites
//   - Unifies argument types with callee inputs into equality sets
//   - Keeps the constraints that concern the implementation's own parameters
//   - Prints them as a where clause per implementation
package main

func main() {
	Execute()
}
