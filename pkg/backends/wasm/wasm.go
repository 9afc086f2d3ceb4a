// Package wasm generates WebAssembly text format (WAT) from Ion programs
// for the portable bytecode target. Only the numeric subset of Ion is
// representable: ints lower to i32, floats to f64, and Result values to a
// multivalue (tag, payload) pair. Strings and interpolation fall back to
// placeholder constants, and effect tracking routes through a host import
// wired up by the generated loader.
package wasm

import (
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Generator emits a .wat module plus loader.js host glue and a build.sh
// invoking wat2wasm. It is stateless and safe for concurrent use.
type Generator struct{}

// New creates a WASM generator.
func New() *Generator {
	return &Generator{}
}

// TargetName returns "wasm".
func (g *Generator) TargetName() string {
	return "wasm"
}

// SupportedFeatures lists the natively rendered language features. Strings
// and interpolation are deliberately absent: they render as placeholders.
func (g *Generator) SupportedFeatures() []string {
	return []string{
		"modules",
		"result-types",
		"error-propagation",
		"guard-clauses",
		"match-expressions",
		"ternary",
		"effect-comments",
	}
}

// Capabilities describes a bare bytecode sandbox: nothing managed, no
// exceptions, and only the effects a host shim can meaningfully observe.
func (g *Generator) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Async:         false,
		Parallel:      false,
		ManagedMemory: false,
		Reflection:    false,
		Exceptions:    false,
		Effects: []effect.Effect{
			effect.Logging,
			effect.Memory,
			effect.IO,
		},
	}
}

// Generate renders prog as a single WAT module with host glue alongside.
func (g *Generator) Generate(prog *ast.Program, cfg backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	moduleName := backends.ModuleNameOr(cfg)
	r := newRenderer(g, prog, cfg)
	source := r.program()

	return &backends.GeneratedOutput{
		Source:         source,
		SourceFileName: moduleName + ".wat",
		Files: []backends.AuxFile{
			{Name: "build.sh", Content: renderBuildScript(moduleName), Kind: backends.AuxManifest},
			{Name: "loader.js", Content: renderLoader(moduleName, r.effectFuncs), Kind: backends.AuxLoader},
		},
		Dependencies: []string{"wabt"},
		Build:        backends.BuildInstructions{Command: "sh build.sh"},
	}, nil
}
