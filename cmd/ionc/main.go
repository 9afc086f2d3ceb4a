// Ionc is the Ion compiler: it turns Ion source files into source code for
// multiple target ecosystems.
//
// Ion is a small language with effect-tracked functions, a built-in
// Result type with `?` propagation, guard statements, match expressions,
// modules and string interpolation. Ionc compiles one Ion file to any
// subset of the supported targets (C#, Kotlin, JavaScript, Rust, WASM),
// generating each target's source plus its build manifest and runtime
// support files.
//
// Usage:
//
//	# Compile to every target
//	ionc compile main.ion
//
//	# Compile to selected targets
//	ionc compile main.ion --target kotlin --target rustlang
//
//	# Validate without generating
//	ionc check main.ion
//
//	# Inspect the syntax tree
//	ionc ast main.ion
//
//	# List targets and their capabilities
//	ionc targets
//
//	# Query past compilations
//	ionc history list --limit 20
package main

func main() {
	Execute()
}
