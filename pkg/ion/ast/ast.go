package ast

import "ion-lang/ionc/pkg/ion/token"

// Node is implemented by every AST node. Nodes are produced once by the
// parser and are read-only afterwards; the Program owns the full tree.
type Node interface {
	Pos() token.Position
}

// Stmt is implemented by statement and declaration nodes. The interface is
// closed: the unexported marker method keeps the variant set fixed so
// consumers can type-switch exhaustively.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes. Closed like Stmt.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node: the ordered top-level declarations of one
// source file.
type Program struct {
	SourceName string // file path or synthetic name, for diagnostics
	Statements []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{}
}

// Functions returns the top-level function declarations, not descending
// into modules.
func (p *Program) Functions() []*FunctionDeclaration {
	var out []*FunctionDeclaration
	for _, s := range p.Statements {
		if fn, ok := s.(*FunctionDeclaration); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Modules returns the module declarations of the program.
func (p *Program) Modules() []*ModuleDeclaration {
	var out []*ModuleDeclaration
	for _, s := range p.Statements {
		if m, ok := s.(*ModuleDeclaration); ok {
			out = append(out, m)
		}
	}
	return out
}

// Imports returns the import statements of the program.
func (p *Program) Imports() []*ImportStatement {
	var out []*ImportStatement
	for _, s := range p.Statements {
		if im, ok := s.(*ImportStatement); ok {
			out = append(out, im)
		}
	}
	return out
}
