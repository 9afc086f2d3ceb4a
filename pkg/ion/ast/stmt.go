package ast

import "ion-lang/ionc/pkg/ion/token"

// LetStatement binds the value of an expression to a name.
//
//	let x = g()?
//	let total: int = price + tax
type LetStatement struct {
	Name  string
	Type  *TypeRef // nil when no annotation was written
	Value Expr
	Loc   token.Position
}

func (s *LetStatement) Pos() token.Position { return s.Loc }
func (s *LetStatement) stmtNode()           {}

// IfStatement is a conditional with an optional else body.
type IfStatement struct {
	Cond     Expr
	ThenBody []Stmt
	ElseBody []Stmt // nil when no else branch
	Loc      token.Position
}

func (s *IfStatement) Pos() token.Position { return s.Loc }
func (s *IfStatement) stmtNode()           {}

// GuardStatement is an early-exit conditional: when Cond is false, ElseBody
// runs and must escape the enclosing function. It is kept distinct from
// IfStatement so backends can choose a negated-if or early-return rendering.
//
//	guard x >= 0 else { return Error("neg") }
type GuardStatement struct {
	Cond     Expr
	ElseBody []Stmt
	Loc      token.Position
}

func (s *GuardStatement) Pos() token.Position { return s.Loc }
func (s *GuardStatement) stmtNode()           {}

// ReturnStatement returns from the enclosing function, with or without a
// value.
type ReturnStatement struct {
	Value Expr // nil for a bare return
	Loc   token.Position
}

func (s *ReturnStatement) Pos() token.Position { return s.Loc }
func (s *ReturnStatement) stmtNode()           {}

// ExpressionStatement is an expression evaluated for its effect, such as a
// call whose result is discarded.
type ExpressionStatement struct {
	Value Expr
	Loc   token.Position
}

func (s *ExpressionStatement) Pos() token.Position { return s.Loc }
func (s *ExpressionStatement) stmtNode()           {}
