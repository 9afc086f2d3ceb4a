// Package kotlin generates Kotlin source from Ion programs for JVM-hosted
// runtimes. Modules render as objects, the Result type as an IonResult
// class in IonRuntime.kt, and match expressions as when blocks.
package kotlin

import (
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Generator emits Kotlin source plus a Gradle build script and the
// IonRuntime.kt support file. It is stateless and safe for concurrent use.
type Generator struct{}

// New creates a Kotlin generator.
func New() *Generator {
	return &Generator{}
}

// TargetName returns "kotlin".
func (g *Generator) TargetName() string {
	return "kotlin"
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

// Capabilities describes the JVM runtime. Browser effects have no meaning
// here.
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

// Generate renders prog as one Kotlin source file: objects for Ion modules
// and top-level functions for the rest.
func (g *Generator) Generate(prog *ast.Program, cfg backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	moduleName := backends.ModuleNameOr(cfg)
	r := newRenderer(g, prog, cfg)
	source := r.program()

	return &backends.GeneratedOutput{
		Source:         source,
		SourceFileName: moduleName + ".kt",
		Files: []backends.AuxFile{
			{Name: "build.gradle.kts", Content: renderGradle(), Kind: backends.AuxManifest},
			{Name: "IonRuntime.kt", Content: renderRuntime(), Kind: backends.AuxRuntime},
		},
		Dependencies: []string{"org.jetbrains.kotlin:kotlin-stdlib"},
		Build:        backends.BuildInstructions{Command: "gradle build"},
	}, nil
}
