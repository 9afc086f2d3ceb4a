package ast

import (
	"strings"

	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/token"
)

// FunctionDeclaration is a named function with an optional purity marker and
// an optional declared effect set.
//
//	pure function square(x: int) -> int { return x * x }
//	export function save(u: string) uses [Database, Logging] -> Result<int, string> { ... }
//
// IsPure and a non-empty Effects list are mutually exclusive; the parser
// rejects the combination before a declaration is ever constructed.
type FunctionDeclaration struct {
	Name       string
	Params     []*Parameter
	ReturnType *TypeRef // nil means no declared return type (void)
	Body       []Stmt
	IsPure     bool
	Effects    []effect.Effect // nil when no uses clause was written
	IsExported bool
	Loc        token.Position
}

func (d *FunctionDeclaration) Pos() token.Position { return d.Loc }
func (d *FunctionDeclaration) stmtNode()           {}

// HasEffects reports whether the declaration carries at least one effect.
func (d *FunctionDeclaration) HasEffects() bool {
	return len(d.Effects) > 0
}

// ReturnsResult reports whether the declared return type is Result<T, E>.
func (d *FunctionDeclaration) ReturnsResult() bool {
	return d.ReturnType != nil && d.ReturnType.IsResult()
}

// Parameter is one formal parameter of a function declaration.
type Parameter struct {
	Name string
	Type *TypeRef
	Loc  token.Position
}

func (p *Parameter) Pos() token.Position { return p.Loc }

// TypeRef is a declared type annotation: a base name plus optional generic
// arguments. The only parameterized type in the language is Result<T, E>;
// the parser enforces its arity.
type TypeRef struct {
	Name string
	Args []*TypeRef
	Loc  token.Position
}

func (t *TypeRef) Pos() token.Position { return t.Loc }

// IsResult reports whether the reference names the Result type.
func (t *TypeRef) IsResult() bool {
	return t.Name == "Result"
}

// String renders the reference in source form, e.g. "Result<int, string>".
func (t *TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// ModuleDeclaration groups function declarations under a namespace.
// Exports collects every name marked visible, whether via an export-prefixed
// declaration or a standalone export statement in the body.
type ModuleDeclaration struct {
	Name    string
	Body    []Stmt
	Exports []string
	Loc     token.Position
}

func (d *ModuleDeclaration) Pos() token.Position { return d.Loc }
func (d *ModuleDeclaration) stmtNode()           {}

// Functions returns the function declarations in the module body.
func (d *ModuleDeclaration) Functions() []*FunctionDeclaration {
	var out []*FunctionDeclaration
	for _, s := range d.Body {
		if fn, ok := s.(*FunctionDeclaration); ok {
			out = append(out, fn)
		}
	}
	return out
}

// IsExported reports whether name is in the module's export list.
func (d *ModuleDeclaration) IsExported(name string) bool {
	for _, n := range d.Exports {
		if n == name {
			return true
		}
	}
	return false
}

// ImportStatement brings another module's names into scope.
//
//	import Math
//	import Math.{square, cube}
//	import Math.*
//	from Math import {square}
//
// Names is nil for a bare or wildcard import; Wildcard marks the `.*` form.
type ImportStatement struct {
	ModuleName string
	Names      []string
	Wildcard   bool
	Loc        token.Position
}

func (s *ImportStatement) Pos() token.Position { return s.Loc }
func (s *ImportStatement) stmtNode()           {}

// ExportStatement marks already-declared names as externally visible.
type ExportStatement struct {
	Names []string
	Loc   token.Position
}

func (s *ExportStatement) Pos() token.Position { return s.Loc }
func (s *ExportStatement) stmtNode()           {}
