package rustlang

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
	if got := g.TargetName(); got != "rustlang" {
		t.Errorf("TargetName() = %q, want %q", got, "rustlang")
	}
	caps := g.Capabilities()
	if caps.ManagedMemory {
		t.Error("ManagedMemory = true, want false for a compiled systems target")
	}
	if caps.SupportsEffect(effect.DOM) {
		t.Error("SupportsEffect(DOM) = true, want false")
	}
	if !caps.SupportsEffect(effect.FileSystem) {
		t.Error("SupportsEffect(FileSystem) = false, want true")
	}
}

func TestModulesBecomeRustModules(t *testing.T) {
	out := generate(t, `
module MathUtils {
    export function addNumbers(a: int, b: int) -> int {
        return a + b
    }
    function helper(x: int) -> int {
        return x
    }
}

function main() -> int {
    return MathUtils.addNumbers(1, 2)
}`, backends.GenerateConfig{ModuleName: "app"})

	for _, want := range []string{
		"pub mod math_utils {",
		"pub fn add_numbers(a: i64, b: i64) -> i64 {",
		"pub(crate) fn helper(x: i64) -> i64 {",
		"return math_utils::add_numbers(1, 2);",
		"mod ion_runtime;",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
	if out.SourceFileName != "lib.rs" {
		t.Errorf("SourceFileName = %q, want lib.rs", out.SourceFileName)
	}
}

func TestErrorPropagationIsNative(t *testing.T) {
	out := generate(t, `
function fetch(id: int) -> Result<int, string> {
    return Ok(id)
}

function run(id: int) -> Result<int, string> {
    let value = fetch(id)?
    return Ok(value * 2)
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "let value = fetch(id)?;") {
		t.Errorf("Source missing native ? propagation:\n%s", out.Source)
	}
	if strings.Contains(out.Source, "__t0") {
		t.Errorf("Source contains hoisted temporary, want native ?:\n%s", out.Source)
	}
}

func TestResultMatchIsNative(t *testing.T) {
	out := generate(t, `
function parse(s: string) -> Result<int, string> {
    return Error("bad input")
}

function describe(s: string) -> string {
    return match parse(s) {
        Ok(n) -> "number"
        Error(e) -> e
    }
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"match parse(s) {",
		"Ok(n) =>",
		"Err(e) => e,",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
	if strings.Contains(out.Source, "panic!") {
		t.Errorf("Ok+Err coverage should not add a panic arm:\n%s", out.Source)
	}
}

func TestPartialResultMatchGetsPanicArm(t *testing.T) {
	out := generate(t, `
function check(r: Result<int, string>) -> int {
    return match r {
        Ok(n) -> n
    }
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, `_ => panic!("unmatched value")`) {
		t.Errorf("Source missing fallthrough panic arm:\n%s", out.Source)
	}
}

func TestLiteralMatchRendersIfChain(t *testing.T) {
	out := generate(t, `
function grade(score: int) -> string {
    return match score {
        100 -> "perfect"
        _ -> "other"
    }
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, `if score == 100 { "perfect".to_string() } else { "other".to_string() }`) {
		t.Errorf("Source missing literal if chain:\n%s", out.Source)
	}
}

func TestStringInterpolationUsesFormat(t *testing.T) {
	out := generate(t, `
function greet(name: string, age: int) -> string {
    return $"Hello {name}, you are {age}!"
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, `format!("Hello {}, you are {}!", name, age)`) {
		t.Errorf("Source missing format! call:\n%s", out.Source)
	}
}

func TestGuardRendersNegatedIf(t *testing.T) {
	out := generate(t, `
function clamp(x: int) -> int {
    guard x > 0 else {
        return 0
    }
    return x
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "if !(x > 0) {") {
		t.Errorf("Source missing negated guard:\n%s", out.Source)
	}
}

func TestEffectComments(t *testing.T) {
	src := `
function save(id: int) uses [Database, Logging] -> int {
    return id
}`

	on := generate(t, src, backends.GenerateConfig{EmitEffectComments: true})
	for _, want := range []string{
		"/// Effects: Database, Logging",
		`effect_enter("save", &["Database", "Logging"]);`,
	} {
		if !strings.Contains(on.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, on.Source)
		}
	}

	off := generate(t, src, backends.GenerateConfig{EmitEffectComments: false})
	if strings.Contains(off.Source, "effect_enter") {
		t.Errorf("effect_enter emitted with comments disabled:\n%s", off.Source)
	}
}

func TestUnsupportedEffectPlaceholder(t *testing.T) {
	out := generate(t, `
function render(id: int) uses [DOM] -> int {
    return id
}`, backends.GenerateConfig{EmitEffectComments: true})

	if !strings.Contains(out.Source, "// ion placeholder: effect DOM") {
		t.Errorf("Source missing DOM placeholder:\n%s", out.Source)
	}
}

func TestKeywordIdentifierEscaping(t *testing.T) {
	out := generate(t, `
function shadow(loop: int) -> int {
    return loop
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "r#loop: i64") {
		t.Errorf("Source missing raw identifier escape:\n%s", out.Source)
	}
}

func TestAuxiliaryFiles(t *testing.T) {
	out := generate(t, `function main() -> int { return 0 }`,
		backends.GenerateConfig{ModuleName: "MyApp"})

	var manifest, runtime *backends.AuxFile
	for i := range out.Files {
		switch out.Files[i].Name {
		case "Cargo.toml":
			manifest = &out.Files[i]
		case "ion_runtime.rs":
			runtime = &out.Files[i]
		}
	}
	if manifest == nil || manifest.Kind != backends.AuxManifest {
		t.Fatal("missing Cargo.toml manifest aux file")
	}
	if !strings.Contains(manifest.Content, `name = "my_app"`) {
		t.Errorf("Cargo.toml missing snake_case crate name:\n%s", manifest.Content)
	}
	if runtime == nil || runtime.Kind != backends.AuxRuntime {
		t.Fatal("missing ion_runtime.rs aux file")
	}
	if !strings.Contains(runtime.Content, "pub type IonResult<T, E> = Result<T, E>;") {
		t.Errorf("runtime missing IonResult alias:\n%s", runtime.Content)
	}
	if out.Build.Command != "cargo build" {
		t.Errorf("Build.Command = %q, want %q", out.Build.Command, "cargo build")
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	src := `
module Billing {
    export function total(amount: int, tax: int) -> int {
        return amount + tax
    }
}

function main() -> int {
    return Billing.total(100, 7)
}`
	cfg := backends.GenerateConfig{ModuleName: "shop", EmitEffectComments: true}

	first := generate(t, src, cfg)
	for i := 0; i < 5; i++ {
		again := generate(t, src, cfg)
		if again.Source != first.Source {
			t.Fatalf("Generate() output varies between runs")
		}
	}
}

func TestTypeMapping(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`function f(x: int) -> int { return x }`, "pub fn f(x: i64) -> i64 {"},
		{`function f(x: float) -> float { return x }`, "pub fn f(x: f64) -> f64 {"},
		{`function f(x: string) -> string { return x }`, "pub fn f(x: String) -> String {"},
		{`function f(x: bool) -> bool { return x }`, "pub fn f(x: bool) -> bool {"},
		{`function f(x: int) -> Result<int, string> { return Ok(x) }`,
			"pub fn f(x: i64) -> IonResult<i64, String> {"},
	}
	for _, tt := range tests {
		out := generate(t, tt.src, backends.GenerateConfig{})
		if !strings.Contains(out.Source, tt.want) {
			t.Errorf("Source missing %q:\n%s", tt.want, out.Source)
		}
	}
}
