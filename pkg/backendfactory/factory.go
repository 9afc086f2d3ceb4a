// Package backendfactory creates code generators by target name. Adding a
// target means adding one generator package and one switch arm here; the
// orchestrator never changes.
package backendfactory

import (
	"fmt"
	"log/slog"
	"strings"

	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/backends/csharp"
	"ion-lang/ionc/pkg/backends/javascript"
	"ion-lang/ionc/pkg/backends/kotlin"
	"ion-lang/ionc/pkg/backends/rustlang"
	"ion-lang/ionc/pkg/backends/wasm"
)

// New creates the generator for the named target.
//
// Supported targets:
//   - "csharp": .NET / C# (the reference target)
//   - "kotlin": JVM / Kotlin
//   - "javascript": browser JavaScript
//   - "rustlang": systems-level Rust
//   - "wasm": WebAssembly text format
//
// An unknown target yields a *backends.ConfigError naming the valid set.
func New(target string) (backends.Generator, error) {
	slog.Debug("creating backend generator", "target", target)

	switch target {
	case "csharp":
		return csharp.New(), nil

	case "kotlin":
		return kotlin.New(), nil

	case "javascript":
		return javascript.New(), nil

	case "rustlang":
		return rustlang.New(), nil

	case "wasm":
		return wasm.New(), nil

	default:
		return nil, &backends.ConfigError{
			Target: target,
			Field:  "target",
			Message: fmt.Sprintf("unsupported target: %q (supported: %s)",
				target, strings.Join(Available(), ", ")),
		}
	}
}

// Available returns the supported target names in stable order.
func Available() []string {
	return []string{"csharp", "kotlin", "javascript", "rustlang", "wasm"}
}

// IsAvailable reports whether target names a supported backend.
func IsAvailable(target string) bool {
	for _, t := range Available() {
		if t == target {
			return true
		}
	}
	return false
}
