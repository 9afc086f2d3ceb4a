package ast

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/token"
)

// BinaryExpression applies an infix operator to two operands. Op is the
// operator's source spelling ("+", "==", "&&", ...).
type BinaryExpression struct {
	Left  Expr
	Op    string
	Right Expr
	Loc   token.Position
}

func (e *BinaryExpression) Pos() token.Position { return e.Loc }
func (e *BinaryExpression) exprNode()           {}

func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// UnaryExpression applies a prefix operator ("!" or "-") to an operand.
type UnaryExpression struct {
	Op      string
	Operand Expr
	Loc     token.Position
}

func (e *UnaryExpression) Pos() token.Position { return e.Loc }
func (e *UnaryExpression) exprNode()           {}

func (e *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", e.Op, e.Operand)
}

// CallExpression invokes a function by name. Name may be a dotted qualified
// path such as "Math.square"; the symbols pass resolves it to a module and
// function, the parser does not.
type CallExpression struct {
	Name string
	Args []Expr
	Loc  token.Position
}

func (e *CallExpression) Pos() token.Position { return e.Loc }
func (e *CallExpression) exprNode()           {}

// Qualifier returns the module part of a dotted name, or "" for a plain
// call.
func (e *CallExpression) Qualifier() string {
	if i := strings.LastIndex(e.Name, "."); i >= 0 {
		return e.Name[:i]
	}
	return ""
}

// BaseName returns the function part of the call name.
func (e *CallExpression) BaseName() string {
	if i := strings.LastIndex(e.Name, "."); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

func (e *CallExpression) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Loc  token.Position
}

func (e *Identifier) Pos() token.Position { return e.Loc }
func (e *Identifier) exprNode()           {}
func (e *Identifier) String() string      { return e.Name }

// NumberLiteral is an integer or floating-point literal. Raw preserves the
// source spelling so backends can emit it unchanged.
type NumberLiteral struct {
	Raw     string
	IsFloat bool
	Int     int64   // valid when !IsFloat
	Float   float64 // valid when IsFloat
	Loc     token.Position
}

func (e *NumberLiteral) Pos() token.Position { return e.Loc }
func (e *NumberLiteral) exprNode()           {}
func (e *NumberLiteral) String() string      { return e.Raw }

// StringLiteral is a plain string literal; Value holds the decoded text.
type StringLiteral struct {
	Value string
	Loc   token.Position
}

func (e *StringLiteral) Pos() token.Position { return e.Loc }
func (e *StringLiteral) exprNode()           {}
func (e *StringLiteral) String() string      { return fmt.Sprintf("%q", e.Value) }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
	Loc   token.Position
}

func (e *BooleanLiteral) Pos() token.Position { return e.Loc }
func (e *BooleanLiteral) exprNode()           {}
func (e *BooleanLiteral) String() string      { return fmt.Sprintf("%t", e.Value) }

// StringPart is one segment of an interpolated string: either literal text
// or an embedded expression. The interface is closed.
type StringPart interface {
	isStringPart()
}

// TextPart is a literal text segment of an interpolated string.
type TextPart struct {
	Text string
}

func (TextPart) isStringPart() {}

// ExprPart is an embedded expression segment of an interpolated string.
type ExprPart struct {
	Expr Expr
}

func (ExprPart) isStringPart() {}

// StringInterpolation is an interpolated string literal. Parts alternate
// between text and expression segments in source order; backends must
// preserve both segment and argument order exactly.
//
//	$"user {name} scored {score + bonus}"
type StringInterpolation struct {
	Parts []StringPart
	Loc   token.Position
}

func (e *StringInterpolation) Pos() token.Position { return e.Loc }
func (e *StringInterpolation) exprNode()           {}

func (e *StringInterpolation) String() string {
	var sb strings.Builder
	sb.WriteString(`$"`)
	for _, p := range e.Parts {
		switch part := p.(type) {
		case TextPart:
			sb.WriteString(part.Text)
		case ExprPart:
			fmt.Fprintf(&sb, "{%s}", part.Expr)
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// ResultVariant discriminates the two Result constructors.
type ResultVariant int

const (
	VariantOk ResultVariant = iota
	VariantError
)

func (v ResultVariant) String() string {
	if v == VariantOk {
		return "Ok"
	}
	return "Error"
}

// ResultExpression constructs a Result value: Ok(expr) or Error(expr).
type ResultExpression struct {
	Variant ResultVariant
	Value   Expr
	Loc     token.Position
}

func (e *ResultExpression) Pos() token.Position { return e.Loc }
func (e *ResultExpression) exprNode()           {}

func (e *ResultExpression) String() string {
	return fmt.Sprintf("%s(%s)", e.Variant, e.Value)
}

// ErrorPropagation is the postfix ? operator: evaluate the wrapped
// expression to a Result; on the Error variant, return it unchanged from the
// enclosing function; otherwise yield the unwrapped Ok value.
type ErrorPropagation struct {
	Value Expr
	Loc   token.Position
}

func (e *ErrorPropagation) Pos() token.Position { return e.Loc }
func (e *ErrorPropagation) exprNode()           {}
func (e *ErrorPropagation) String() string      { return fmt.Sprintf("%s?", e.Value) }

// PatternKind discriminates the pattern forms a match case accepts.
type PatternKind int

const (
	PatternOk       PatternKind = iota // Ok(binding)
	PatternError                       // Error(binding)
	PatternLiteral                     // a literal value
	PatternWildcard                    // _
)

func (k PatternKind) String() string {
	switch k {
	case PatternOk:
		return "Ok"
	case PatternError:
		return "Error"
	case PatternLiteral:
		return "literal"
	default:
		return "_"
	}
}

// MatchCase is one arm of a match expression. Binding is the name bound by
// an Ok/Error pattern ("" when the pattern binds nothing); Literal is set
// only for PatternLiteral arms.
type MatchCase struct {
	Pattern Pattern
	Body    Expr
	Loc     token.Position
}

// Pattern describes what a match arm matches against.
type Pattern struct {
	Kind    PatternKind
	Binding string // for PatternOk / PatternError
	Literal Expr   // for PatternLiteral
}

func (c *MatchCase) Pos() token.Position { return c.Loc }

func (c *MatchCase) String() string {
	var pat string
	switch c.Pattern.Kind {
	case PatternOk, PatternError:
		if c.Pattern.Binding != "" {
			pat = fmt.Sprintf("%s(%s)", c.Pattern.Kind, c.Pattern.Binding)
		} else {
			pat = c.Pattern.Kind.String()
		}
	case PatternLiteral:
		pat = fmt.Sprint(c.Pattern.Literal)
	default:
		pat = "_"
	}
	return fmt.Sprintf("%s -> %s", pat, c.Body)
}

// MatchExpression dispatches on a scrutinee value across pattern arms.
//
//	match r { Ok(v) -> v  Error(e) -> 0 }
type MatchExpression struct {
	Scrutinee Expr
	Cases     []*MatchCase
	Loc       token.Position
}

func (e *MatchExpression) Pos() token.Position { return e.Loc }
func (e *MatchExpression) exprNode()           {}

func (e *MatchExpression) String() string {
	arms := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		arms[i] = c.String()
	}
	return fmt.Sprintf("match %s { %s }", e.Scrutinee, strings.Join(arms, "  "))
}

// HasWildcard reports whether any arm is the wildcard pattern.
func (e *MatchExpression) HasWildcard() bool {
	for _, c := range e.Cases {
		if c.Pattern.Kind == PatternWildcard {
			return true
		}
	}
	return false
}

// CoversResult reports whether the arms cover both Result variants, either
// directly or through a wildcard.
func (e *MatchExpression) CoversResult() bool {
	var ok, errVariant bool
	for _, c := range e.Cases {
		switch c.Pattern.Kind {
		case PatternOk:
			ok = true
		case PatternError:
			errVariant = true
		case PatternWildcard:
			return true
		}
	}
	return ok && errVariant
}

// TernaryExpression is cond ? thenExpr : elseExpr. It binds looser than ||.
type TernaryExpression struct {
	Cond     Expr
	ThenExpr Expr
	ElseExpr Expr
	Loc      token.Position
}

func (e *TernaryExpression) Pos() token.Position { return e.Loc }
func (e *TernaryExpression) exprNode()           {}

func (e *TernaryExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Cond, e.ThenExpr, e.ElseExpr)
}
