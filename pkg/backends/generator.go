package backends

import (
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/symbols"
)

// Generator is the core interface that all code generation backends must
// implement. It provides a unified abstraction for turning one parsed
// program into source code for a single target ecosystem.
//
// Generate must be a pure function of its inputs: the same program and
// config always produce byte-identical output, and the program is never
// mutated. That property is what lets the orchestrator run every backend
// concurrently over one shared AST.
//
// A backend must not fail on constructs outside its capability envelope.
// It renders a visible placeholder comment at the point of the unsupported
// construct and keeps going; Generate returns an error only when it cannot
// produce output at all.
//
// Example usage:
//
//	gen, err := backendfactory.New("csharp")
//	if err != nil {
//	    return err
//	}
//
//	out, err := gen.Generate(prog, backends.GenerateConfig{
//	    ModuleName:         "app",
//	    EmitEffectComments: true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Source)
type Generator interface {
	// Generate renders the program as target source. The returned output
	// bundles the primary source text with auxiliary files (build manifest,
	// runtime support, loader glue), the target-level dependency list and a
	// one-line build instruction.
	Generate(prog *ast.Program, cfg GenerateConfig) (*GeneratedOutput, error)

	// TargetName returns the stable identifier of the target ("csharp",
	// "kotlin", ...). It is the key used by the factory, the orchestrator's
	// result map and the per-target output subdirectory.
	TargetName() string

	// SupportedFeatures lists the language features this backend renders
	// natively, for the targets listing and diagnostics.
	SupportedFeatures() []string

	// Capabilities describes the target runtime: concurrency and memory
	// model booleans plus the subset of the effect vocabulary that is
	// meaningful on this target.
	Capabilities() Capabilities
}

// GenerateConfig carries the per-invocation knobs of a Generate call.
// The zero value is usable; backends fill in defaults.
type GenerateConfig struct {
	// ModuleName names the compilation unit, used for manifest files and
	// top-level namespaces. Defaults to "ion_app" when empty.
	ModuleName string

	// EmitEffectComments controls whether declared effects and purity are
	// rendered as documentation comments on generated functions.
	EmitEffectComments bool

	// Symbols is the resolved symbol table for the program. When nil the
	// backend builds its own; the orchestrator always passes one so the
	// table is built once per compilation, not once per target.
	Symbols *symbols.Table

	// HeaderComment overrides the default generated-file header. It must
	// not contain anything run-dependent (timestamps, host names), or
	// generation stops being reproducible.
	HeaderComment string
}

// SymbolsFor returns the symbol table to use for a generation run: the one
// provided on the config, or a freshly built one. Resolution problems are
// ignored here; the validator reported them before generation started.
func SymbolsFor(prog *ast.Program, cfg GenerateConfig) *symbols.Table {
	if cfg.Symbols != nil {
		return cfg.Symbols
	}
	table, _ := symbols.Build(prog)
	return table
}

// Capabilities describes what a target runtime offers. The orchestrator and
// the targets listing use it for reporting; backends use Effects to decide
// which declared effects are renderable and which get placeholders.
type Capabilities struct {
	// Async reports whether the target has native asynchronous execution.
	Async bool

	// Parallel reports whether the target can run code in parallel.
	Parallel bool

	// ManagedMemory reports whether the target garbage-collects.
	ManagedMemory bool

	// Reflection reports whether the target supports runtime reflection.
	Reflection bool

	// Exceptions reports whether the target has exception-based unwinding.
	Exceptions bool

	// Effects is the subset of the effect vocabulary that is meaningful on
	// this target. Declared effects outside this set are rendered as
	// placeholder comments.
	Effects []effect.Effect
}

// SupportsEffect reports whether e is in the target's effect subset.
func (c Capabilities) SupportsEffect(e effect.Effect) bool {
	return effect.Contains(c.Effects, e)
}

// UnsupportedEffects returns the declared effects that fall outside the
// target's effect subset, preserving declaration order.
func (c Capabilities) UnsupportedEffects(declared []effect.Effect) []effect.Effect {
	var out []effect.Effect
	for _, e := range declared {
		if !c.SupportsEffect(e) {
			out = append(out, e)
		}
	}
	return out
}
