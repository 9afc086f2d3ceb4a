package javascript

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
	if got := g.TargetName(); got != "javascript" {
		t.Errorf("TargetName() = %q, want %q", got, "javascript")
	}
	caps := g.Capabilities()
	if !caps.SupportsEffect(effect.DOM) || !caps.SupportsEffect(effect.LocalStorage) {
		t.Error("browser effects should be supported")
	}
	if caps.SupportsEffect(effect.Database) {
		t.Error("SupportsEffect(Database) = true, want false in the browser")
	}
	if caps.Parallel {
		t.Error("Capabilities().Parallel = true, want false")
	}
}

func TestModulesBecomeClasses(t *testing.T) {
	out := generate(t, `
module Math {
    export function square(x: int) -> int {
        return x * x
    }
}

function main() -> int {
    return Math.square(5)
}`, backends.GenerateConfig{ModuleName: "app"})

	for _, want := range []string{
		"class Math {",
		"static square(x) {",
		"function main() {",
		"return Math.square(5);",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestErrorPropagationReturnsResultUnchanged(t *testing.T) {
	out := generate(t, `
function g() -> Result<int, string> {
    return Error("boom")
}

function f() -> Result<int, string> {
    let x = g()?
    return Ok(x * 2)
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"const __t0 = g();",
		"if (__t0.isError()) {",
		"return __t0;",
		"const x = __t0.value();",
		"return IonResult.ok(x * 2);",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestStrictEquality(t *testing.T) {
	out := generate(t, `
function same(a: int, b: int) -> bool {
    return a == b
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "return a === b;") {
		t.Errorf("== not rendered as ===:\n%s", out.Source)
	}
}

func TestInterpolationRendersTemplateLiteral(t *testing.T) {
	out := generate(t, `
function greet(name: string, score: int) -> string {
    return $"user {name} scored {score + 1}"
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "`user ${name} scored ${score + 1}`") {
		t.Errorf("interpolation not rendered as template literal:\n%s", out.Source)
	}
}

func TestMatchExpressionChain(t *testing.T) {
	out := generate(t, `
function value(r: Result<int, string>) -> int {
    return match r {
        Ok(v) -> v
        Error(e) -> 0
    }
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"const __m0 = r;",
		"if (__m0.isOk()) {",
		"return __m0.value();",
		"if (__m0.isError()) {",
		"return 0;",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestMatchArmPropagationInLetPosition(t *testing.T) {
	out := generate(t, `
function g(v: int) -> Result<int, string> {
    return Ok(v * 2)
}

function f(r: Result<int, string>) -> Result<int, string> {
    let x = match r {
        Ok(v) -> g(v)?
        Error(e) -> 0
    }
    return Ok(x)
}`, backends.GenerateConfig{})

	// the match lowers to an if chain assigning the binding, so the taken
	// arm checks the propagated Result and early-returns the error
	for _, want := range []string{
		"let x;",
		"const __m0 = r;",
		"if (__m0.isOk()) {",
		"const __t1 = g(__m0.value());",
		"if (__t1.isError()) {",
		"return __t1;",
		"x = __t1.value();",
		"} else if (__m0.isError()) {",
		"x = 0;",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}

	if strings.Contains(out.Source, "g(__m0.value()).value()") {
		t.Errorf("propagating arm rendered as throwing unwrap:\n%s", out.Source)
	}
}

func TestMatchArmPropagationInReturnPosition(t *testing.T) {
	out := generate(t, `
function g(v: int) -> Result<int, string> {
    return Ok(v)
}

function f(r: Result<int, string>) -> Result<int, string> {
    return match r {
        Ok(v) -> Ok(g(v)?)
        Error(e) -> Error(e)
    }
}`, backends.GenerateConfig{})

	for _, want := range []string{
		"if (__m0.isOk()) {",
		"const __t1 = g(__m0.value());",
		"if (__t1.isError()) {",
		"return __t1;",
		"return IonResult.ok(__t1.value());",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, out.Source)
		}
	}
}

func TestGuard(t *testing.T) {
	out := generate(t, `
function f(x: int) -> Result<int, string> {
    guard x >= 0 else {
        return Error("neg")
    }
    return Ok(x)
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "if (!(x >= 0)) {") {
		t.Errorf("guard not rendered as negated if:\n%s", out.Source)
	}
}

func TestUnsupportedEffectPlaceholder(t *testing.T) {
	out := generate(t, `
function save(x: int) uses [Database, DOM] -> int {
    return x
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "ion placeholder: effect Database") {
		t.Errorf("Database placeholder missing in browser target:\n%s", out.Source)
	}
	if strings.Contains(out.Source, "placeholder: effect DOM") {
		t.Errorf("DOM is supported in the browser, no placeholder expected:\n%s", out.Source)
	}
}

func TestAuxiliaryFilesIncludeLoader(t *testing.T) {
	out := generate(t, `pure function id(x: int) -> int { return x }`,
		backends.GenerateConfig{ModuleName: "demo"})

	if _, ok := out.File("package.json"); !ok {
		t.Fatalf("package.json missing, files = %v", out.Files)
	}
	rt, ok := out.File("ion_runtime.js")
	if !ok || rt.Kind != backends.AuxRuntime {
		t.Fatalf("ion_runtime.js missing, files = %v", out.Files)
	}
	loader, ok := out.File("index.html")
	if !ok || loader.Kind != backends.AuxLoader {
		t.Fatalf("index.html loader missing, files = %v", out.Files)
	}
	// runtime must load before the generated script
	rtIdx := strings.Index(loader.Content, "ion_runtime.js")
	appIdx := strings.Index(loader.Content, "demo.js")
	if rtIdx < 0 || appIdx < 0 || appIdx < rtIdx {
		t.Errorf("loader script order wrong:\n%s", loader.Content)
	}
}

func TestReservedWordSuffix(t *testing.T) {
	out := generate(t, `
function count(new: int) -> int {
    return new
}`, backends.GenerateConfig{})

	if !strings.Contains(out.Source, "function count(new_) {") || !strings.Contains(out.Source, "return new_;") {
		t.Errorf("reserved word parameter not renamed:\n%s", out.Source)
	}
}
