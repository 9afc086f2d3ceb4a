package validator

import (
	"strings"
	"testing"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/lexer"
	"ion-lang/ionc/pkg/ion/parser"
	"ion-lang/ionc/pkg/ion/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	prog, err := parser.Parse(tokens, "test.ion")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return prog
}

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantErrors   int
		wantWarnings int
		wantContains string
	}{
		{
			name: "valid program",
			src: `
module Math {
    export function square(x: int) -> int {
        return x * x
    }
}
function main() -> int {
    return Math.square(3)
}`,
			wantErrors: 0,
		},
		{
			name: "duplicate top-level function",
			src: `
function f() -> int { return 1 }
function f() -> int { return 2 }`,
			wantErrors:   1,
			wantContains: `function "f" is already declared`,
		},
		{
			name: "duplicate module",
			src: `
module M { function f() -> int { return 1 } }
module M { function g() -> int { return 2 } }`,
			wantErrors:   1,
			wantContains: `module "M" is already declared`,
		},
		{
			name: "duplicate function inside module",
			src: `
module M {
    function f() -> int { return 1 }
    function f() -> int { return 2 }
}`,
			wantErrors:   1,
			wantContains: `already declared in module "M"`,
		},
		{
			name: "export of unknown function",
			src: `
function greet() -> string { return "hi" }
export { greeet }`,
			wantErrors:   1,
			wantContains: `export names unknown function "greeet"`,
		},
		{
			name: "module export of unknown function",
			src: `
module M {
    function f() -> int { return 1 }
    export { g }
}`,
			wantErrors:   1,
			wantContains: `module "M" exports unknown function "g"`,
		},
		{
			name: "selective import of missing name",
			src: `
import Math.{cube}
module Math {
    export function square(x: int) -> int { return x * x }
}`,
			wantErrors:   1,
			wantContains: `no such function`,
		},
		{
			name: "selective import of unexported name",
			src: `
import Math.{helper}
module Math {
    function helper() -> int { return 1 }
    export function square(x: int) -> int { return helper() * x }
}`,
			wantErrors:   0,
			wantWarnings: 1,
			wantContains: "not exported",
		},
		{
			name: "external module import is allowed",
			src: `
import Stdlib.{print}
function main() -> int { return 0 }`,
			wantErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			diags := NewStructuralValidator().Validate(prog)

			if got := len(diags.Errors()); got != tt.wantErrors {
				t.Errorf("errors = %d, want %d; diagnostics:\n%v", got, tt.wantErrors, diags)
			}
			if got := len(diags.Warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d; diagnostics:\n%v", got, tt.wantWarnings, diags)
			}
			if tt.wantContains != "" && !strings.Contains(diags.Error(), tt.wantContains) {
				t.Errorf("diagnostics missing %q:\n%v", tt.wantContains, diags)
			}
		})
	}
}

func TestStructuralValidator_SuggestsClosestName(t *testing.T) {
	prog := mustParse(t, `
function greet() -> string { return "hi" }
export { greeet }`)

	diags := NewStructuralValidator().Validate(prog)
	errs := diags.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if want := "Did you mean 'greet'?"; errs[0].Suggestion != want {
		t.Errorf("Suggestion = %q, want %q", errs[0].Suggestion, want)
	}
}

func TestSemanticValidator_ErrorPropagation(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantErrors int
	}{
		{
			name: "question mark in Result function",
			src: `
function parse(s: string) -> Result<int, string> {
    return Error("bad")
}
function run() -> Result<int, string> {
    let n = parse("42")?
    return Ok(n)
}`,
			wantErrors: 0,
		},
		{
			name: "question mark in non-Result function",
			src: `
function parse(s: string) -> Result<int, string> {
    return Error("bad")
}
function run() -> int {
    let n = parse("42")?
    return n
}`,
			wantErrors: 1,
		},
		{
			name: "question mark in function with no return type",
			src: `
function parse(s: string) -> Result<int, string> {
    return Error("bad")
}
function run() {
    let n = parse("42")?
}`,
			wantErrors: 1,
		},
		{
			name: "nested question mark inside match scrutinee",
			src: `
function parse(s: string) -> Result<int, string> {
    return Error("bad")
}
function run() -> int {
    return match parse("1")? {
        1 -> 1
        _ -> 0
    }
}`,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			diags := NewSemanticValidator().Validate(prog)

			if got := len(diags.Errors()); got != tt.wantErrors {
				t.Errorf("errors = %d, want %d; diagnostics:\n%v", got, tt.wantErrors, diags)
			}
		})
	}
}

func TestSemanticValidator_GuardBodyEscape(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantWarnings int
	}{
		{
			name: "guard body returns",
			src: `
function check(x: int) -> Result<int, string> {
    guard x >= 0 else {
        return Error("neg")
    }
    return Ok(x)
}`,
			wantWarnings: 0,
		},
		{
			name: "guard body falls through",
			src: `
function check(x: int) -> int {
    guard x >= 0 else {
        let y = 0 - x
    }
    return x
}`,
			wantWarnings: 1,
		},
		{
			name: "guard body escapes through both if branches",
			src: `
function check(x: int) -> Result<int, string> {
    guard x >= 0 else {
        if x == 0 - 1 {
            return Error("minus one")
        } else {
            return Error("neg")
        }
    }
    return Ok(x)
}`,
			wantWarnings: 0,
		},
		{
			name: "guard body escapes on one if branch only",
			src: `
function check(x: int) -> Result<int, string> {
    guard x >= 0 else {
        if x == 0 - 1 {
            return Error("minus one")
        }
    }
    return Ok(x)
}`,
			wantWarnings: 1,
		},
		{
			name: "empty guard body",
			src: `
function check(x: int) -> int {
    guard x >= 0 else {
    }
    return x
}`,
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			diags := NewSemanticValidator().Validate(prog)

			if got := len(diags.Warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d; diagnostics:\n%v", got, tt.wantWarnings, diags)
			}
			if tt.wantWarnings > 0 && len(diags.Warnings()) > 0 && !strings.Contains(diags.Warnings()[0].Message, "fall through") {
				t.Errorf("warning = %q, want fall-through report", diags.Warnings()[0].Message)
			}
		})
	}
}

func TestSemanticValidator_PurityInvariant(t *testing.T) {
	// The parser rejects `pure` plus a uses clause before a declaration is
	// ever constructed, so the invariant can only be violated by building
	// the tree directly.
	prog := &ast.Program{
		SourceName: "built.ion",
		Statements: []ast.Stmt{
			&ast.FunctionDeclaration{
				Name:    "bad",
				IsPure:  true,
				Effects: []effect.Effect{effect.Database},
				Loc:     token.Position{Line: 1, Column: 1},
			},
		},
	}

	diags := NewSemanticValidator().Validate(prog)
	errs := diags.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1; diagnostics:\n%v", len(errs), diags)
	}
	if !strings.Contains(errs[0].Message, "pure function \"bad\" cannot declare effects") {
		t.Errorf("unexpected message: %q", errs[0].Message)
	}
}

func TestSemanticValidator_EffectsAreNotTransitive(t *testing.T) {
	// A caller's declared effect set is not required to include its callees'
	// sets. Both directions pass: an effect-free function calling an
	// effectful one, and a narrow set calling a wider one.
	src := `
function save(x: int) uses [Database, Logging] -> Result<int, string> {
    return Ok(x)
}
pure function convert(x: int) -> int {
    return x * 2
}
function run(x: int) uses [Logging] -> Result<int, string> {
    let doubled = convert(x)
    return save(doubled)
}
function quiet(x: int) -> int {
    return convert(x)
}`
	prog := mustParse(t, src)
	diags := NewValidator().Validate(prog)

	if diags.Count() != 0 {
		t.Errorf("Validate() produced %d diagnostics, want 0:\n%v", diags.Count(), diags)
	}
}

func TestCoverageValidator(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantWarnings int
		wantContains string
	}{
		{
			name: "result match covering both variants",
			src: `
function get() -> Result<int, string> { return Ok(1) }
function run() -> int {
    return match get() {
        Ok(v) -> v
        Error(e) -> 0
    }
}`,
			wantWarnings: 0,
		},
		{
			name: "result match with wildcard",
			src: `
function get() -> Result<int, string> { return Ok(1) }
function run() -> int {
    return match get() {
        Ok(v) -> v
        _ -> 0
    }
}`,
			wantWarnings: 0,
		},
		{
			name: "result match missing Error arm",
			src: `
function get() -> Result<int, string> { return Ok(1) }
function run() -> int {
    return match get() {
        Ok(v) -> v
    }
}`,
			wantWarnings: 1,
			wantContains: "covers only Ok",
		},
		{
			name: "result match missing Ok arm",
			src: `
function get() -> Result<int, string> { return Ok(1) }
function run() -> int {
    return match get() {
        Error(e) -> 0
    }
}`,
			wantWarnings: 1,
			wantContains: "covers only Error",
		},
		{
			name: "literal match without wildcard",
			src: `
function classify(n: int) -> string {
    return match n {
        1 -> "one"
        2 -> "two"
    }
}`,
			wantWarnings: 1,
			wantContains: "no '_' arm",
		},
		{
			name: "literal match with wildcard",
			src: `
function classify(n: int) -> string {
    return match n {
        1 -> "one"
        _ -> "many"
    }
}`,
			wantWarnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			diags := NewCoverageValidator().Validate(prog)

			if got := len(diags.Warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d; diagnostics:\n%v", got, tt.wantWarnings, diags)
			}
			if len(diags.Errors()) != 0 {
				t.Errorf("coverage pass produced errors, want warnings only:\n%v", diags)
			}
			if tt.wantContains != "" && !strings.Contains(diags.Error(), tt.wantContains) {
				t.Errorf("diagnostics missing %q:\n%v", tt.wantContains, diags)
			}
		})
	}
}

func TestValidator_StructuralErrorsSuppressLaterPasses(t *testing.T) {
	// The duplicate declaration is the real problem; reporting the match
	// warning inside one of the duplicates would just add noise.
	src := `
function f() -> int {
    return match 1 {
        1 -> 1
    }
}
function f() -> int { return 2 }`
	prog := mustParse(t, src)
	diags := NewValidator().Validate(prog)

	if !diags.HasErrors() {
		t.Fatal("expected a structural error")
	}
	if got := len(diags.Warnings()); got != 0 {
		t.Errorf("warnings = %d, want 0 (later passes should not run):\n%v", got, diags)
	}
}

func TestValidator_WarningsDoNotAbort(t *testing.T) {
	src := `
function classify(n: int) -> string {
    return match n {
        1 -> "one"
    }
}`
	prog := mustParse(t, src)
	diags := NewValidator().Validate(prog)

	if got := len(diags.Warnings()); got != 1 {
		t.Fatalf("warnings = %d, want 1:\n%v", got, diags)
	}
	if err := diags.ToError(); err != nil {
		t.Errorf("ToError() = %v, want nil for warning-only diagnostics", err)
	}
}
