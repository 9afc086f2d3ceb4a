package ast

import (
	"strings"
	"testing"

	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/token"
)

func pos(line, col int) token.Position {
	return token.Position{Line: line, Column: col}
}

func TestTypeRefString(t *testing.T) {
	tests := []struct {
		name string
		ref  *TypeRef
		want string
	}{
		{name: "plain", ref: &TypeRef{Name: "int"}, want: "int"},
		{
			name: "result",
			ref: &TypeRef{Name: "Result", Args: []*TypeRef{
				{Name: "int"},
				{Name: "string"},
			}},
			want: "Result<int, string>",
		},
		{
			name: "nested",
			ref: &TypeRef{Name: "Result", Args: []*TypeRef{
				{Name: "Result", Args: []*TypeRef{{Name: "int"}, {Name: "string"}}},
				{Name: "string"},
			}},
			want: "Result<Result<int, string>, string>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpressionString(t *testing.T) {
	expr := &BinaryExpression{
		Left: &BinaryExpression{
			Left:  &Identifier{Name: "a"},
			Op:    "+",
			Right: &NumberLiteral{Raw: "2", Int: 2},
		},
		Op:    ">",
		Right: &Identifier{Name: "b"},
	}
	if got, want := expr.String(), "((a + 2) > b)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMatchCoversResult(t *testing.T) {
	tests := []struct {
		name  string
		cases []*MatchCase
		want  bool
	}{
		{
			name: "both variants",
			cases: []*MatchCase{
				{Pattern: Pattern{Kind: PatternOk, Binding: "v"}, Body: &Identifier{Name: "v"}},
				{Pattern: Pattern{Kind: PatternError, Binding: "e"}, Body: &NumberLiteral{Raw: "0"}},
			},
			want: true,
		},
		{
			name: "ok only",
			cases: []*MatchCase{
				{Pattern: Pattern{Kind: PatternOk, Binding: "v"}, Body: &Identifier{Name: "v"}},
			},
			want: false,
		},
		{
			name: "ok plus wildcard",
			cases: []*MatchCase{
				{Pattern: Pattern{Kind: PatternOk, Binding: "v"}, Body: &Identifier{Name: "v"}},
				{Pattern: Pattern{Kind: PatternWildcard}, Body: &NumberLiteral{Raw: "0"}},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MatchExpression{Scrutinee: &Identifier{Name: "r"}, Cases: tt.cases}
			if got := m.CoversResult(); got != tt.want {
				t.Errorf("CoversResult() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallExpressionQualifier(t *testing.T) {
	tests := []struct {
		name      string
		callName  string
		qualifier string
		base      string
	}{
		{name: "plain", callName: "square", qualifier: "", base: "square"},
		{name: "qualified", callName: "Math.square", qualifier: "Math", base: "square"},
		{name: "deep", callName: "A.B.f", qualifier: "A.B", base: "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CallExpression{Name: tt.callName}
			if got := c.Qualifier(); got != tt.qualifier {
				t.Errorf("Qualifier() = %q, want %q", got, tt.qualifier)
			}
			if got := c.BaseName(); got != tt.base {
				t.Errorf("BaseName() = %q, want %q", got, tt.base)
			}
		})
	}
}

func TestInspectVisitsAllNodes(t *testing.T) {
	// function f(x: int) -> int { guard x >= 0 else { return 0 } return x }
	fn := &FunctionDeclaration{
		Name:       "f",
		Params:     []*Parameter{{Name: "x", Type: &TypeRef{Name: "int"}, Loc: pos(1, 12)}},
		ReturnType: &TypeRef{Name: "int"},
		Body: []Stmt{
			&GuardStatement{
				Cond: &BinaryExpression{
					Left:  &Identifier{Name: "x", Loc: pos(1, 35)},
					Op:    ">=",
					Right: &NumberLiteral{Raw: "0"},
				},
				ElseBody: []Stmt{&ReturnStatement{Value: &NumberLiteral{Raw: "0"}}},
				Loc:      pos(1, 29),
			},
			&ReturnStatement{Value: &Identifier{Name: "x"}},
		},
		Loc: pos(1, 1),
	}
	prog := &Program{Statements: []Stmt{fn}}

	var idents, guards int
	Inspect(prog, func(n Node) bool {
		switch n.(type) {
		case *Identifier:
			idents++
		case *GuardStatement:
			guards++
		}
		return true
	})

	if idents != 2 {
		t.Errorf("identifier count = %d, want 2", idents)
	}
	if guards != 1 {
		t.Errorf("guard count = %d, want 1", guards)
	}
}

func TestInspectPrunes(t *testing.T) {
	fn := &FunctionDeclaration{
		Name: "f",
		Body: []Stmt{
			&ReturnStatement{Value: &Identifier{Name: "x"}},
		},
	}

	var idents int
	Inspect(&Program{Statements: []Stmt{fn}}, func(n Node) bool {
		if _, ok := n.(*FunctionDeclaration); ok {
			return false
		}
		if _, ok := n.(*Identifier); ok {
			idents++
		}
		return true
	})

	if idents != 0 {
		t.Errorf("identifier count = %d after pruning at function, want 0", idents)
	}
}

func TestVisualizeContainsLabels(t *testing.T) {
	fn := &FunctionDeclaration{
		Name:    "save",
		Effects: []effect.Effect{effect.Database, effect.Logging},
		Body: []Stmt{
			&ReturnStatement{Value: &ResultExpression{
				Variant: VariantOk,
				Value:   &NumberLiteral{Raw: "1", Int: 1},
			}},
		},
	}

	out := Visualize(&Program{Statements: []Stmt{fn}})
	for _, want := range []string{"Program", "function save", "Database", "return", "Ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("Visualize() missing %q in output:\n%s", want, out)
		}
	}
}

func TestStringInterpolationString(t *testing.T) {
	e := &StringInterpolation{Parts: []StringPart{
		TextPart{Text: "user "},
		ExprPart{Expr: &Identifier{Name: "name"}},
		TextPart{Text: " scored "},
		ExprPart{Expr: &BinaryExpression{
			Left:  &Identifier{Name: "score"},
			Op:    "+",
			Right: &Identifier{Name: "bonus"},
		}},
	}}

	want := `$"user {name} scored {(score + bonus)}"`
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
