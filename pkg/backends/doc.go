// Package backends defines the code generation contract shared by every
// compilation target, plus the rendering helpers the target packages build
// on.
//
// Each target lives in its own subpackage (csharp, kotlin, javascript,
// rustlang, wasm) and implements the Generator interface. Generators are
// stateless and safe for concurrent use: Generate is a pure function of the
// program and config, which is what allows the orchestrator to fan out over
// all requested targets at once.
//
// Constructs a target cannot express are rendered as visible placeholder
// comments (see Placeholder) rather than generation failures, so a program
// using DOM effects still compiles for a systems target with the DOM calls
// marked in the output.
//
// Use the backendfactory package to construct a generator by target name.
package backends
