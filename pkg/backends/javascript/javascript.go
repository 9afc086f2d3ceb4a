// Package javascript generates JavaScript source from Ion programs for the
// browser. Modules render as classes with static methods, the Result type
// as an IonResult class in ion_runtime.js, and an index.html loader wires
// the scripts together.
package javascript

import (
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Generator emits browser JavaScript plus a package.json manifest, the
// ion_runtime.js support file and an index.html loader. It is stateless and
// safe for concurrent use.
type Generator struct{}

// New creates a JavaScript generator.
func New() *Generator {
	return &Generator{}
}

// TargetName returns "javascript".
func (g *Generator) TargetName() string {
	return "javascript"
}

// SupportedFeatures lists the natively rendered language features.
func (g *Generator) SupportedFeatures() []string {
	return []string{
		"modules",
		"result-types",
		"error-propagation",
		"guard-clauses",
		"match-expressions",
		"string-interpolation",
		"ternary",
		"effect-comments",
	}
}

// Capabilities describes the browser runtime: single-threaded but async,
// with the browser-specific effects that no other target carries.
func (g *Generator) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Async:         true,
		Parallel:      false,
		ManagedMemory: true,
		Reflection:    true,
		Exceptions:    true,
		Effects: []effect.Effect{
			effect.Network,
			effect.Logging,
			effect.Memory,
			effect.IO,
			effect.DOM,
			effect.LocalStorage,
			effect.Analytics,
			effect.Payment,
		},
	}
}

// Generate renders prog as one script file loaded by index.html after the
// runtime.
func (g *Generator) Generate(prog *ast.Program, cfg backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	moduleName := backends.ModuleNameOr(cfg)
	r := newRenderer(g, prog, cfg)
	source := r.program()

	return &backends.GeneratedOutput{
		Source:         source,
		SourceFileName: moduleName + ".js",
		Files: []backends.AuxFile{
			{Name: "package.json", Content: renderPackageJSON(moduleName), Kind: backends.AuxManifest},
			{Name: "ion_runtime.js", Content: renderRuntime(), Kind: backends.AuxRuntime},
			{Name: "index.html", Content: renderLoader(moduleName), Kind: backends.AuxLoader},
		},
		Build: backends.BuildInstructions{Command: "node --check " + moduleName + ".js"},
	}, nil
}
