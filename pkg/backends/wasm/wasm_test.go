package wasm

import (
	"strings"
	"testing"

	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion"
	"ion-lang/ionc/pkg/ion/effect"
)

func generate(t *testing.T, src string, cfg backends.GenerateConfig) *backends.GeneratedOutput {
	t.Helper()
	prog, err := ion.Parse(src, "test.ion")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	out, err := New().Generate(prog, cfg)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return out
}

func TestTargetIdentity(t *testing.T) {
	g := New()
	if got := g.TargetName(); got != "wasm" {
		t.Errorf("TargetName() = %q, want %q", got, "wasm")
	}
	caps := g.Capabilities()
	if caps.Exceptions {
		t.Error("Exceptions = true, want false in a bytecode sandbox")
	}
	if caps.SupportsEffect(effect.Database) {
		t.Error("SupportsEffect(Database) = true, want false")
	}
	if !caps.SupportsEffect(effect.Memory) {
		t.Error("SupportsEffect(Memory) = false, want true")
	}
	for _, f := range g.SupportedFeatures() {
		if f == "string-interpolation" {
			t.Error("SupportedFeatures lists string-interpolation, want placeholder-only")
		}
	}
}

func TestSimpleFunction(t *testing.T) {
	out := generate(t, `
function addNumbers(a: int, b: int) -> int {
    return a + b
}`, backends.GenerateConfig{ModuleName: "app"})

	for _, want := range []string{
		"(module",
		`(func $addNumbers (export "addNumbers") (param $a i32) (param $b i32) (result i32)`,
		"(return (i32.add (local.get $a) (local.get $b)))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
	if out.SourceFileName != "app.wat" {
		t.Errorf("SourceFileName = %q, want app.wat", out.SourceFileName)
	}
}

func TestModuleFunctionNameMangling(t *testing.T) {
	out := generate(t, `
module Math {
    export function double(x: int) -> int {
        return x * 2
    }
    function half(x: int) -> int {
        return x / 2
    }
}

function main() -> int {
    return Math.double(21)
}`, backends.GenerateConfig{})

	for _, want := range []string{
		`(func $Math_double (export "Math.double") (param $x i32) (result i32)`,
		"(return (call $Math_double (i32.const 21)))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
	if strings.Contains(out.Source, `$Math_half (export`) {
		t.Errorf("unexported module function should not be exported:\n%s", out.Source)
	}
}

func TestResultLowersToMultivalue(t *testing.T) {
	out := generate(t, `
function half(x: int) -> Result<int, string> {
    guard x % 2 == 0 else {
        return Error("odd")
    }
    return Ok(x / 2)
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"(result i32 i32)",
		"(return (i32.const 0) (i32.div_s (local.get $x) (i32.const 2)))",
		"(return (i32.const 1) (i32.const 0) (; ion placeholder: string literal ;))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestErrorPropagationBranchesOnTag(t *testing.T) {
	out := generate(t, `
function fetch(id: int) -> Result<int, string> {
    return Ok(id)
}

function run(id: int) -> Result<int, string> {
    let value = fetch(id)?
    return Ok(value * 2)
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"(call $fetch (local.get $id))",
		"local.set $__t0_val",
		"local.set $__t0_tag",
		"(if (local.get $__t0_tag)",
		"(return (local.get $__t0_tag) (local.get $__t0_val))",
		"(local.set $value (local.get $__t0_val))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
	// the multiply must come after the early-return branch
	branch := strings.Index(out.Source, "(if (local.get $__t0_tag)")
	mul := strings.Index(out.Source, "i32.mul")
	if branch == -1 || mul == -1 || mul < branch {
		t.Errorf("multiply not sequenced after the error branch:\n%s", out.Source)
	}
}

func TestReturnMatchOverResultParameter(t *testing.T) {
	out := generate(t, `
function unwrapOr(r: Result<int, string>, fallback: int) -> int {
    return match r {
        Ok(v) -> v
        Error(e) -> fallback
    }
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"(param $r_tag i32) (param $r_val i32)",
		"(i32.eqz (local.get $__m0_tag))",
		"(return (local.get $__m0_val))",
		"(return (local.get $fallback))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestLiteralMatchWithWildcard(t *testing.T) {
	out := generate(t, `
function code(x: int) -> int {
    let y = match x {
        0 -> 10
        _ -> 20
    }
    return y
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source,
		"(if (result i32) (i32.eq (local.get $__m0) (i32.const 0)) (then (i32.const 10)) (else (i32.const 20)))") {
		t.Errorf("Source missing folded literal match:\n%s", out.Source)
	}
}

func TestStringPlaceholders(t *testing.T) {
	out := generate(t, `
function greet(name: string) -> string {
    return $"Hello {name}!"
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "(; ion placeholder: string interpolation ;)") {
		t.Errorf("Source missing interpolation placeholder:\n%s", out.Source)
	}
}

func TestEffectImportAndTable(t *testing.T) {
	out := generate(t, `
function save(id: int) uses [Logging, Memory] -> int {
    return id
}`, backends.GenerateConfig{EmitEffectComments: true})

	for _, want := range []string{
		`(import "ion" "effect_enter" (func $ion_effect_enter (param i32)))`,
		";; Effects: Logging, Memory",
		"(call $ion_effect_enter (i32.const 0))",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}

	loader, ok := out.File("loader.js")
	if !ok {
		t.Fatal("missing loader.js aux file")
	}
	for _, want := range []string{
		`{ name: "save", effects: ["Logging", "Memory"] },`,
		"effect_enter(id)",
	} {
		if !strings.Contains(loader.Content, want) {
			t.Errorf("loader.js missing %q:\n%s", want, loader.Content)
		}
	}
}

func TestNoEffectImportWhenDisabled(t *testing.T) {
	out := generate(t, `
function save(id: int) uses [Logging] -> int {
    return id
}`, backends.GenerateConfig{EmitEffectComments: false})

	if strings.Contains(out.Source, "effect_enter") {
		t.Errorf("effect import emitted with comments disabled:\n%s", out.Source)
	}
}

func TestUnsupportedEffectPlaceholder(t *testing.T) {
	out := generate(t, `
function render(x: int) uses [DOM] -> int {
    return x
}`, backends.GenerateConfig{EmitEffectComments: true})

	if !strings.Contains(out.Source, ";; ion placeholder: effect DOM") {
		t.Errorf("Source missing DOM placeholder:\n%s", out.Source)
	}
}

func TestAuxiliaryFiles(t *testing.T) {
	out := generate(t, `function main() -> int { return 0 }`,
		backends.GenerateConfig{ModuleName: "demo"})

	build, ok := out.File("build.sh")
	if !ok || build.Kind != backends.AuxManifest {
		t.Fatal("missing build.sh manifest aux file")
	}
	if !strings.Contains(build.Content, "wat2wasm demo.wat -o demo.wasm") {
		t.Errorf("build.sh missing wat2wasm invocation:\n%s", build.Content)
	}
	loader, ok := out.File("loader.js")
	if !ok || loader.Kind != backends.AuxLoader {
		t.Fatal("missing loader.js aux file")
	}
	if !strings.Contains(loader.Content, "WebAssembly.instantiate") {
		t.Errorf("loader.js missing instantiation:\n%s", loader.Content)
	}
	if len(out.Dependencies) != 1 || out.Dependencies[0] != "wabt" {
		t.Errorf("Dependencies = %v, want [wabt]", out.Dependencies)
	}
	if out.Build.Command != "sh build.sh" {
		t.Errorf("Build.Command = %q, want %q", out.Build.Command, "sh build.sh")
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	src := `
module Calc {
    export function apply(a: int, b: int) -> int {
        return a + b
    }
}

function main() -> int {
    return Calc.apply(1, 2)
}`
	cfg := backends.GenerateConfig{ModuleName: "calc", EmitEffectComments: true}

	first := generate(t, src, cfg)
	for i := 0; i < 5; i++ {
		again := generate(t, src, cfg)
		if again.Source != first.Source {
			t.Fatalf("Generate() output varies between runs")
		}
	}
}
