package ast

// Visitor is implemented by AST consumers that want driven traversal. Visit
// is called for each node; a nil result prunes the node's children, mirroring
// the standard library's go/ast contract.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first source order,
// calling v.Visit for node itself and, when Visit returns a non-nil visitor,
// for each of node's children.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Walk(v, s)
		}

	case *FunctionDeclaration:
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.ReturnType != nil {
			Walk(v, n.ReturnType)
		}
		for _, s := range n.Body {
			Walk(v, s)
		}

	case *Parameter:
		if n.Type != nil {
			Walk(v, n.Type)
		}

	case *TypeRef:
		for _, a := range n.Args {
			Walk(v, a)
		}

	case *ModuleDeclaration:
		for _, s := range n.Body {
			Walk(v, s)
		}

	case *ImportStatement, *ExportStatement:
		// leaves

	case *LetStatement:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		Walk(v, n.Value)

	case *IfStatement:
		Walk(v, n.Cond)
		for _, s := range n.ThenBody {
			Walk(v, s)
		}
		for _, s := range n.ElseBody {
			Walk(v, s)
		}

	case *GuardStatement:
		Walk(v, n.Cond)
		for _, s := range n.ElseBody {
			Walk(v, s)
		}

	case *ReturnStatement:
		if n.Value != nil {
			Walk(v, n.Value)
		}

	case *ExpressionStatement:
		Walk(v, n.Value)

	case *BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *UnaryExpression:
		Walk(v, n.Operand)

	case *CallExpression:
		for _, a := range n.Args {
			Walk(v, a)
		}

	case *StringInterpolation:
		for _, p := range n.Parts {
			if ep, ok := p.(ExprPart); ok {
				Walk(v, ep.Expr)
			}
		}

	case *ResultExpression:
		Walk(v, n.Value)

	case *ErrorPropagation:
		Walk(v, n.Value)

	case *MatchExpression:
		Walk(v, n.Scrutinee)
		for _, c := range n.Cases {
			if c.Pattern.Literal != nil {
				Walk(v, c.Pattern.Literal)
			}
			Walk(v, c.Body)
		}

	case *TernaryExpression:
		Walk(v, n.Cond)
		Walk(v, n.ThenExpr)
		Walk(v, n.ElseExpr)

	case *Identifier, *NumberLiteral, *StringLiteral, *BooleanLiteral:
		// leaves
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f for each node.
// If f returns false the children of the current node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
