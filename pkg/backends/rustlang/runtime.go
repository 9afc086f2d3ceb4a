package rustlang

import "fmt"

func renderCargo(moduleName string) string {
	return fmt.Sprintf(`[package]
name = "%s"
version = "0.1.0"
edition = "2021"

[lib]
path = "lib.rs"
`, snake(moduleName))
}

func renderRuntime() string {
	return `// Ion runtime support for the Rust target. Result maps straight onto
// the standard library type, so this stays thin.

pub type IonResult<T, E> = Result<T, E>;

/// Records a function entry with its declared effects. The default build
/// compiles this away; swap in a real tracker for auditing.
#[inline]
pub fn effect_enter(_function: &str, _effects: &[&str]) {}
`
}
