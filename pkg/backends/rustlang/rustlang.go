// Package rustlang generates Rust source from Ion programs for the
// systems-level compiled target. Ion's Result and ? operator map onto
// Rust's own, so this backend leans on native constructs where the others
// lower them.
package rustlang

import (
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Generator emits Rust source plus a Cargo manifest and the ion_runtime.rs
// support file. It is stateless and safe for concurrent use.
type Generator struct{}

// New creates a Rust generator.
func New() *Generator {
	return &Generator{}
}

// TargetName returns "rustlang".
func (g *Generator) TargetName() string {
	return "rustlang"
}

// SupportedFeatures lists the natively rendered language features.
func (g *Generator) SupportedFeatures() []string {
	return []string{
		"modules",
		"result-types",
		"native-error-propagation",
		"guard-clauses",
		"native-match",
		"string-interpolation",
		"ternary",
		"effect-comments",
	}
}

// Capabilities describes a compiled systems runtime: no garbage collector,
// no reflection, no exception unwinding in the Ion sense, and none of the
// browser effects.
func (g *Generator) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Async:         false,
		Parallel:      true,
		ManagedMemory: false,
		Reflection:    false,
		Exceptions:    false,
		Effects: []effect.Effect{
			effect.Database,
			effect.Network,
			effect.Logging,
			effect.FileSystem,
			effect.Memory,
			effect.IO,
			effect.Payment,
		},
	}
}

// Generate renders prog as a library crate: lib.rs with one mod per Ion
// module, the runtime alongside.
func (g *Generator) Generate(prog *ast.Program, cfg backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	moduleName := backends.ModuleNameOr(cfg)
	r := newRenderer(g, prog, cfg)
	source := r.program()

	return &backends.GeneratedOutput{
		Source:         source,
		SourceFileName: "lib.rs",
		Files: []backends.AuxFile{
			{Name: "Cargo.toml", Content: renderCargo(moduleName), Kind: backends.AuxManifest},
			{Name: "ion_runtime.rs", Content: renderRuntime(), Kind: backends.AuxRuntime},
		},
		Build: backends.BuildInstructions{Command: "cargo build"},
	}, nil
}
