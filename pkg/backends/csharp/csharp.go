// Package csharp generates C# source from Ion programs. It is the reference
// backend: every language construct has a native rendering here, and the
// other backends follow its structure.
package csharp

import (
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Generator emits C# source plus a csproj manifest and the IonRuntime.cs
// support file. It is stateless and safe for concurrent use.
type Generator struct{}

// New creates a C# generator.
func New() *Generator {
	return &Generator{}
}

// TargetName returns "csharp".
func (g *Generator) TargetName() string {
	return "csharp"
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

// Capabilities describes the .NET runtime. DOM and LocalStorage are browser
// effects with no meaning here.
func (g *Generator) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Async:         true,
		Parallel:      true,
		ManagedMemory: true,
		Reflection:    true,
		Exceptions:    true,
		Effects: []effect.Effect{
			effect.Database,
			effect.Network,
			effect.Logging,
			effect.FileSystem,
			effect.Memory,
			effect.IO,
			effect.Analytics,
			effect.Payment,
		},
	}
}

// Generate renders prog as one C# source file in a namespace derived from
// the configured module name, with modules as static classes and top-level
// functions collected into a Program class.
func (g *Generator) Generate(prog *ast.Program, cfg backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	moduleName := backends.ModuleNameOr(cfg)
	r := newRenderer(g, prog, cfg)
	source := r.program()

	return &backends.GeneratedOutput{
		Source:         source,
		SourceFileName: moduleName + ".cs",
		Files: []backends.AuxFile{
			{Name: moduleName + ".csproj", Content: renderProject(), Kind: backends.AuxManifest},
			{Name: "IonRuntime.cs", Content: renderRuntime(r.ns), Kind: backends.AuxRuntime},
		},
		Build: backends.BuildInstructions{Command: "dotnet build"},
	}, nil
}
