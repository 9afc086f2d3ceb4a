// Package ast defines the abstract syntax tree of the Ion language.
//
// The node set is closed: Stmt and Expr are sealed by unexported marker
// methods, so every consumer can type-switch over the full variant list and
// rely on it not growing behind its back. All nodes carry a 1-based source
// position for diagnostics.
//
// # Node Categories
//
// Declarations: FunctionDeclaration, ModuleDeclaration, ImportStatement,
// ExportStatement.
//
// Statements: LetStatement, IfStatement, GuardStatement, ReturnStatement,
// ExpressionStatement.
//
// Expressions: BinaryExpression, UnaryExpression, TernaryExpression,
// CallExpression, Identifier, NumberLiteral, StringLiteral, BooleanLiteral,
// StringInterpolation, ResultExpression, ErrorPropagation, MatchExpression.
//
// # Immutability
//
// The parser builds the tree once; from then on it is read-only. Backends
// running concurrently all read the same Program with no coordination, so
// nothing may mutate a node after construction. Derived information (symbol
// resolution, validation results) lives in side tables, never on the nodes.
//
// # Traversal
//
// Walk and Inspect follow the go/ast contract:
//
//	ast.Inspect(prog, func(n ast.Node) bool {
//	    if call, ok := n.(*ast.CallExpression); ok {
//	        fmt.Println("call to", call.Name)
//	    }
//	    return true
//	})
//
// Visualize renders a tree as ASCII art for debugging and the ast
// inspection command.
package ast
