package ast

import (
	"fmt"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
)

// Visualize renders the tree rooted at node as box-drawn ASCII art, for the
// compiler's AST inspection command.
func Visualize(node Node) string {
	t := tree.NewTree(tree.NodeString(nodeLabel(node)))
	addChildren(t, node)
	return fmt.Sprint(t)
}

func addChildren(t *tree.Tree, node Node) {
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			addNode(t, s)
		}

	case *FunctionDeclaration:
		for _, p := range n.Params {
			addNode(t, p)
		}
		for _, s := range n.Body {
			addNode(t, s)
		}

	case *ModuleDeclaration:
		for _, s := range n.Body {
			addNode(t, s)
		}

	case *LetStatement:
		addNode(t, n.Value)

	case *IfStatement:
		addNode(t, n.Cond)
		for _, s := range n.ThenBody {
			addNode(t, s)
		}
		for _, s := range n.ElseBody {
			addNode(t, s)
		}

	case *GuardStatement:
		addNode(t, n.Cond)
		for _, s := range n.ElseBody {
			addNode(t, s)
		}

	case *ReturnStatement:
		if n.Value != nil {
			addNode(t, n.Value)
		}

	case *ExpressionStatement:
		addNode(t, n.Value)

	case *BinaryExpression:
		addNode(t, n.Left)
		addNode(t, n.Right)

	case *UnaryExpression:
		addNode(t, n.Operand)

	case *CallExpression:
		for _, a := range n.Args {
			addNode(t, a)
		}

	case *StringInterpolation:
		for _, p := range n.Parts {
			switch part := p.(type) {
			case TextPart:
				t.AddChild(tree.NodeString(fmt.Sprintf("text %q", part.Text)))
			case ExprPart:
				addNode(t, part.Expr)
			}
		}

	case *ResultExpression:
		addNode(t, n.Value)

	case *ErrorPropagation:
		addNode(t, n.Value)

	case *MatchExpression:
		addNode(t, n.Scrutinee)
		for _, c := range n.Cases {
			arm := t.AddChild(tree.NodeString(caseLabel(c)))
			addNode(arm, c.Body)
		}

	case *TernaryExpression:
		addNode(t, n.Cond)
		addNode(t, n.ThenExpr)
		addNode(t, n.ElseExpr)
	}
}

func addNode(parent *tree.Tree, node Node) {
	child := parent.AddChild(tree.NodeString(nodeLabel(node)))
	addChildren(child, node)
}

func nodeLabel(node Node) string {
	switch n := node.(type) {
	case *Program:
		return "Program"
	case *FunctionDeclaration:
		label := "function " + n.Name
		if n.IsPure {
			label = "pure " + label
		}
		if len(n.Effects) > 0 {
			names := make([]string, len(n.Effects))
			for i, e := range n.Effects {
				names[i] = string(e)
			}
			label += " uses [" + strings.Join(names, ", ") + "]"
		}
		return label
	case *Parameter:
		if n.Type != nil {
			return fmt.Sprintf("param %s: %s", n.Name, n.Type)
		}
		return "param " + n.Name
	case *TypeRef:
		return "type " + n.String()
	case *ModuleDeclaration:
		return "module " + n.Name
	case *ImportStatement:
		switch {
		case n.Wildcard:
			return fmt.Sprintf("import %s.*", n.ModuleName)
		case len(n.Names) > 0:
			return fmt.Sprintf("import %s.{%s}", n.ModuleName, strings.Join(n.Names, ", "))
		default:
			return "import " + n.ModuleName
		}
	case *ExportStatement:
		return "export {" + strings.Join(n.Names, ", ") + "}"
	case *LetStatement:
		if n.Type != nil {
			return fmt.Sprintf("let %s: %s", n.Name, n.Type)
		}
		return "let " + n.Name
	case *IfStatement:
		return "if"
	case *GuardStatement:
		return "guard"
	case *ReturnStatement:
		return "return"
	case *ExpressionStatement:
		return "expr"
	case *BinaryExpression:
		return n.Op
	case *UnaryExpression:
		return "unary " + n.Op
	case *CallExpression:
		return "call " + n.Name
	case *Identifier:
		return n.Name
	case *NumberLiteral:
		return n.Raw
	case *StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *BooleanLiteral:
		return fmt.Sprintf("%t", n.Value)
	case *StringInterpolation:
		return "interpolate"
	case *ResultExpression:
		return n.Variant.String()
	case *ErrorPropagation:
		return "propagate ?"
	case *MatchExpression:
		return "match"
	case *TernaryExpression:
		return "?:"
	default:
		return fmt.Sprintf("%T", node)
	}
}

func caseLabel(c *MatchCase) string {
	switch c.Pattern.Kind {
	case PatternOk, PatternError:
		if c.Pattern.Binding != "" {
			return fmt.Sprintf("case %s(%s)", c.Pattern.Kind, c.Pattern.Binding)
		}
		return "case " + c.Pattern.Kind.String()
	case PatternLiteral:
		return fmt.Sprintf("case %s", c.Pattern.Literal)
	default:
		return "case _"
	}
}
