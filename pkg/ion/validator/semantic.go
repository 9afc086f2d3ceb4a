package validator

import (
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/token"
)

// SemanticValidator validates effect and Result usage inside function bodies.
//
// The parser already rejects `pure` combined with a uses clause; this pass
// re-checks the purity invariant so programmatically constructed trees get
// the same guarantee. Effect sets are taken exactly as declared: a function's
// callees do not propagate their effects into the caller's set, and no
// diagnostic is issued when a pure function calls an effectful one. Guard
// bodies that can fall through into the guarded code draw a warning.
type SemanticValidator struct {
	source string
	diags  *diag.List
}

// NewSemanticValidator creates a new semantic validator.
func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{diags: diag.NewList()}
}

// Validate performs semantic validation and returns the diagnostics found.
func (v *SemanticValidator) Validate(prog *ast.Program) *diag.List {
	v.source = prog.SourceName
	v.diags = diag.NewList()

	for _, fn := range allFunctions(prog) {
		v.validateFunction(fn)
	}

	return v.diags
}

// validateFunction checks one function declaration and its body.
func (v *SemanticValidator) validateFunction(fn *ast.FunctionDeclaration) {
	if fn.IsPure && fn.HasEffects() {
		v.errorf(fn.Loc, "pure function %q cannot declare effects", fn.Name)
	}

	returnsResult := fn.ReturnsResult()

	for _, stmt := range fn.Body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.ErrorPropagation:
				if !returnsResult {
					v.errorfWithSuggestion(node.Loc,
						"operator '?' used in function \""+fn.Name+"\" which does not return Result",
						"declare the return type as Result<T, E> or unwrap with match")
				}
			case *ast.ResultExpression:
				if node.Value == nil {
					v.errorf(node.Loc, "%s requires exactly one argument", node.Variant)
				}
			case *ast.GuardStatement:
				if !bodyEscapes(node.ElseBody) {
					v.warnf(node.Loc,
						"guard body in function %q can fall through; end it with a return", fn.Name)
				}
			}
			return true
		})
	}
}

// bodyEscapes reports whether a statement list always leaves the enclosing
// function: its last statement is a return, or a conditional whose branches
// all escape.
func bodyEscapes(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.IfStatement:
		return last.ElseBody != nil && bodyEscapes(last.ThenBody) && bodyEscapes(last.ElseBody)
	}
	return false
}

func (v *SemanticValidator) warnf(pos token.Position, format string, args ...any) {
	warn := diag.Warningf(diag.KindSemantic, pos, format, args...)
	warn.Source = v.source
	v.diags.Add(warn)
}

func (v *SemanticValidator) errorf(pos token.Position, format string, args ...any) {
	err := diag.Errorf(diag.KindSemantic, pos, format, args...)
	err.Source = v.source
	v.diags.Add(err)
}

func (v *SemanticValidator) errorfWithSuggestion(pos token.Position, message, suggestion string) {
	err := &diag.Error{
		Kind:       diag.KindSemantic,
		Severity:   diag.SeverityError,
		Message:    message,
		Source:     v.source,
		Pos:        pos,
		Suggestion: suggestion,
	}
	v.diags.Add(err)
}
