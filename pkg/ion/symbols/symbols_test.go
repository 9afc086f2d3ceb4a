package symbols

import (
	"strings"
	"testing"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/lexer"
	"ion-lang/ionc/pkg/ion/parser"
)

func build(t *testing.T, src string) (*Table, []*ast.CallExpression) {
	t.Helper()
	tokens, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	prog, err := parser.Parse(tokens, "test.ion")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	table, problems := Build(prog)
	if problems.HasErrors() {
		t.Fatalf("Build() errors:\n%v", problems)
	}

	var calls []*ast.CallExpression
	ast.Inspect(prog, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpression); ok {
			calls = append(calls, c)
		}
		return true
	})
	return table, calls
}

func TestBuildDeclarations(t *testing.T) {
	table, _ := build(t, `
module Math {
    export function square(x: int) -> int { return x * x }
    function helper(x: int) -> int { return x }
}
function main() -> int { return 0 }`)

	square, ok := table.Function("Math", "square")
	if !ok {
		t.Fatal("Math.square not declared")
	}
	if !square.Exported {
		t.Error("Math.square should be exported")
	}
	if square.Module != "Math" {
		t.Errorf("Module = %q, want %q", square.Module, "Math")
	}

	helper, ok := table.Function("Math", "helper")
	if !ok {
		t.Fatal("Math.helper not declared")
	}
	if helper.Exported {
		t.Error("Math.helper should not be exported")
	}

	if _, ok := table.Function("", "main"); !ok {
		t.Error("top-level main not declared")
	}
	if _, ok := table.Module("Math"); !ok {
		t.Error("module Math not recorded")
	}
}

func TestResolveQualifiedCall(t *testing.T) {
	table, calls := build(t, `
module Math {
    export function square(x: int) -> int { return x * x }
}
function main() -> int { return Math.square(3) }`)

	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	res, ok := table.Resolve(calls[0])
	if !ok {
		t.Fatal("call not resolved")
	}

	want := Resolution{Module: "Math", Function: "square"}
	if res != want {
		t.Errorf("Resolve() = %+v, want %+v", res, want)
	}
	if got := res.QualifiedName(); got != "Math.square" {
		t.Errorf("QualifiedName() = %q, want %q", got, "Math.square")
	}
}

func TestResolvePlainNameScoping(t *testing.T) {
	// Inside a module, a plain name resolves module-local before top level.
	table, calls := build(t, `
function helper(x: int) -> int { return x }
module M {
    function helper(x: int) -> int { return x + 1 }
    export function run(x: int) -> int { return helper(x) }
}
function main(x: int) -> int { return helper(x) }`)

	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}

	inModule, _ := table.Resolve(calls[0])
	if inModule.Module != "M" || inModule.External {
		t.Errorf("module-local call resolved to %+v, want M.helper", inModule)
	}

	topLevel, _ := table.Resolve(calls[1])
	if topLevel.Module != "" || topLevel.External {
		t.Errorf("top-level call resolved to %+v, want helper", topLevel)
	}
}

func TestResolveSelectiveImport(t *testing.T) {
	table, calls := build(t, `
import Math.{square}
module Math {
    export function square(x: int) -> int { return x * x }
}
function main() -> int { return square(3) }`)

	res, _ := table.Resolve(calls[0])
	want := Resolution{Module: "Math", Function: "square"}
	if res != want {
		t.Errorf("Resolve() = %+v, want %+v", res, want)
	}
}

func TestResolveExternalModule(t *testing.T) {
	table, calls := build(t, `
import Stdlib
function main() -> int { return Stdlib.print("x") }`)

	res, _ := table.Resolve(calls[0])
	if !res.External {
		t.Errorf("Resolve() = %+v, want an external resolution", res)
	}
	if res.Module != "Stdlib" || res.Function != "print" {
		t.Errorf("Resolve() = %+v, want Stdlib.print", res)
	}
}

func TestResolveSelectiveImportFromExternalModule(t *testing.T) {
	table, calls := build(t, `
import Stdlib.{print}
function main() -> int { return print("x") }`)

	res, _ := table.Resolve(calls[0])
	if !res.External {
		t.Errorf("Resolve() = %+v, want an external resolution", res)
	}
	if got := res.QualifiedName(); got != "Stdlib.print" {
		t.Errorf("QualifiedName() = %q, want %q", got, "Stdlib.print")
	}
}

func TestResolveUnknownPlainName(t *testing.T) {
	table, calls := build(t, `
function main() -> int { return mystery(3) }`)

	res, _ := table.Resolve(calls[0])
	if !res.External || res.Module != "" || res.Function != "mystery" {
		t.Errorf("Resolve() = %+v, want external plain mystery", res)
	}
}

func TestUndeclaredModuleWarning(t *testing.T) {
	tokens, err := lexer.Scan(`
function main() -> int { return Phantom.call(1) }`)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(tokens, "test.ion")
	if err != nil {
		t.Fatal(err)
	}

	_, problems := Build(prog)
	if problems.HasErrors() {
		t.Fatalf("unexpected errors:\n%v", problems)
	}
	warnings := problems.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1:\n%v", len(warnings), problems)
	}
	if !strings.Contains(warnings[0].Message, "neither declared nor imported") {
		t.Errorf("unexpected warning: %q", warnings[0].Message)
	}
}

func TestDuplicateDeclarationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate top-level function",
			src: `
function f() -> int { return 1 }
function f() -> int { return 2 }`,
			want: `function "f" is declared more than once at top level`,
		},
		{
			name: "duplicate function in module",
			src: `
module M {
    function f() -> int { return 1 }
    function f() -> int { return 2 }
}`,
			want: `function "f" is declared more than once in module "M"`,
		},
		{
			name: "duplicate module",
			src: `
module M { function f() -> int { return 1 } }
module M { function g() -> int { return 2 } }`,
			want: `module "M" is declared more than once`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Scan(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			prog, err := parser.Parse(tokens, "test.ion")
			if err != nil {
				t.Fatal(err)
			}

			table, problems := Build(prog)
			if table == nil {
				t.Fatal("Build() returned nil table; tooling needs the partial table")
			}
			if !problems.HasErrors() {
				t.Fatal("expected a duplicate declaration error")
			}
			if !strings.Contains(problems.Error(), tt.want) {
				t.Errorf("diagnostics missing %q:\n%v", tt.want, problems)
			}
		})
	}
}

func TestUnexportedCrossModuleCallWarning(t *testing.T) {
	tokens, err := lexer.Scan(`
module A {
    export function run(x: int) -> int { return B.helper(x) }
}
module B {
    export function entry(x: int) -> int { return helper(x) }
    function helper(x: int) -> int { return x }
}`)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(tokens, "test.ion")
	if err != nil {
		t.Fatal(err)
	}

	_, problems := Build(prog)
	if problems.HasErrors() {
		t.Fatalf("unexpected errors:\n%v", problems)
	}

	// Only the cross-module call warns; B calling its own helper is fine.
	warnings := problems.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1:\n%v", len(warnings), problems)
	}
	if !strings.Contains(warnings[0].Message, `function "helper" is not exported by module "B"`) {
		t.Errorf("unexpected warning: %q", warnings[0].Message)
	}
}

func TestQualifiedCallToMissingFunction(t *testing.T) {
	tokens, err := lexer.Scan(`
module Math {
    export function square(x: int) -> int { return x * x }
}
function main() -> int { return Math.cube(3) }`)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(tokens, "test.ion")
	if err != nil {
		t.Fatal(err)
	}

	_, problems := Build(prog)
	if !problems.HasErrors() {
		t.Fatal("expected an error for a missing function in a declared module")
	}
	if !strings.Contains(problems.Error(), `module "Math" has no function "cube"`) {
		t.Errorf("unexpected diagnostics:\n%v", problems)
	}
}
