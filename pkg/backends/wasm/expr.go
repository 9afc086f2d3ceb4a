package wasm

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/symbols"
)

func (r *renderer) expr(e ast.Expr, sc scope, rw map[ast.Expr]string) string {
	if repl, ok := rw[e]; ok {
		return repl
	}

	switch x := e.(type) {
	case *ast.Identifier:
		if repl, ok := sc[x.Name]; ok {
			return repl
		}
		if r.resultVars[x.Name] {
			return fmt.Sprintf("(local.get $%s_tag) (local.get $%s_val)", x.Name, x.Name)
		}
		return "(local.get $" + x.Name + ")"

	case *ast.NumberLiteral:
		if strings.Contains(x.Raw, ".") {
			return "(f64.const " + x.Raw + ")"
		}
		return "(i32.const " + x.Raw + ")"

	case *ast.StringLiteral:
		return "(i32.const 0) (; ion placeholder: string literal ;)"

	case *ast.BooleanLiteral:
		if x.Value {
			return "(i32.const 1)"
		}
		return "(i32.const 0)"

	case *ast.BinaryExpression:
		return r.binary(x, sc, rw)

	case *ast.UnaryExpression:
		if x.Op == "!" {
			return "(i32.eqz " + r.expr(x.Operand, sc, rw) + ")"
		}
		if r.inferType(x.Operand, sc) == "f64" {
			return "(f64.neg " + r.expr(x.Operand, sc, rw) + ")"
		}
		return "(i32.sub (i32.const 0) " + r.expr(x.Operand, sc, rw) + ")"

	case *ast.TernaryExpression:
		t := r.inferType(x.ThenExpr, sc)
		return fmt.Sprintf("(if (result %s) %s (then %s) (else %s))",
			t, r.expr(x.Cond, sc, rw), r.expr(x.ThenExpr, sc, rw), r.expr(x.ElseExpr, sc, rw))

	case *ast.CallExpression:
		return r.call(x, sc, rw)

	case *ast.StringInterpolation:
		return "(i32.const 0) (; ion placeholder: string interpolation ;)"

	case *ast.ResultExpression:
		tag := 0
		if x.Variant == ast.VariantError {
			tag = 1
		}
		return fmt.Sprintf("(i32.const %d) %s", tag, r.expr(x.Value, sc, rw))

	case *ast.ErrorPropagation:
		return r.expr(x.Value, sc, rw)

	case *ast.MatchExpression:
		return r.matchExpr(x, sc, rw)

	default:
		return "(i32.const 0) (; ion placeholder: expression ;)"
	}
}

func (r *renderer) binary(x *ast.BinaryExpression, sc scope, rw map[ast.Expr]string) string {
	t := r.inferType(x.Left, sc)
	op, ok := watOp(t, x.Op)
	if !ok {
		return "(i32.const 0) (; ion placeholder: operator " + x.Op + " ;)"
	}
	return fmt.Sprintf("(%s %s %s)", op, r.expr(x.Left, sc, rw), r.expr(x.Right, sc, rw))
}

func (r *renderer) call(c *ast.CallExpression, sc scope, rw map[ast.Expr]string) string {
	res, ok := r.symbols.Resolve(c)
	if !ok {
		res = symbols.Resolution{Module: c.Qualifier(), Function: c.BaseName(), External: true}
	}
	if res.External {
		return "(i32.const 0) (; ion placeholder: external call " + c.Name + " ;)"
	}

	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, "call "+r.mangled(res.Module, res.Function))
	for _, a := range c.Args {
		parts = append(parts, r.expr(a, sc, rw))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// matchExpr renders an expression-position match as a typed if chain over
// the scrutinee hoisted by hoistInto. Unmatched values trap.
func (r *renderer) matchExpr(m *ast.MatchExpression, sc scope, rw map[ast.Expr]string) string {
	tag := r.scrutTags[m]
	val := r.expr(m.Scrutinee, sc, rw)

	resultType := "i32"
	for _, c := range m.Cases {
		resultType = r.inferType(c.Body, sc)
		break
	}

	out := "(unreachable)"
	for i := len(m.Cases) - 1; i >= 0; i-- {
		c := m.Cases[i]
		armSc, cond := r.matchCond(c, tag, val, sc, rw)
		body := r.expr(c.Body, armSc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			out = body
			continue
		}
		out = fmt.Sprintf("(if (result %s) %s (then %s) (else %s))", resultType, cond, body, out)
	}
	return out
}

// matchCond mirrors armBinding for the folded expression form, where the
// scrutinee value arrives as an already rendered operand.
func (r *renderer) matchCond(c *ast.MatchCase, tag, val string, sc scope, rw map[ast.Expr]string) (scope, string) {
	switch c.Pattern.Kind {
	case ast.PatternOk:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, val)
		}
		return armSc, "(i32.eqz (local.get " + tag + "))"

	case ast.PatternError:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, val)
		}
		return armSc, "(local.get " + tag + ")"

	case ast.PatternLiteral:
		t := r.inferType(c.Pattern.Literal, sc)
		return sc, fmt.Sprintf("(%s.eq %s %s)", t, val, r.expr(c.Pattern.Literal, sc, rw))

	default:
		return sc, "(i32.const 1)"
	}
}

// inferType guesses the value type of an expression in the numeric subset.
// Everything unrepresentable collapses to i32.
func (r *renderer) inferType(e ast.Expr, sc scope) string {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		if strings.Contains(x.Raw, ".") {
			return "f64"
		}
		return "i32"
	case *ast.Identifier:
		if t, ok := r.localTypes[x.Name]; ok {
			return t
		}
		return "i32"
	case *ast.BinaryExpression:
		if isComparison(x.Op) {
			return "i32"
		}
		return r.inferType(x.Left, sc)
	case *ast.UnaryExpression:
		if x.Op == "!" {
			return "i32"
		}
		return r.inferType(x.Operand, sc)
	case *ast.TernaryExpression:
		return r.inferType(x.ThenExpr, sc)
	case *ast.CallExpression:
		if res, ok := r.symbols.Resolve(x); ok && !res.External {
			if info, found := r.symbols.Function(res.Module, res.Function); found {
				if info.Decl.ReturnType != nil && info.Decl.ReturnType.IsResult() {
					return r.resultPayloadType(info.Decl.ReturnType)
				}
				return watType(info.Decl.ReturnType)
			}
		}
		return "i32"
	case *ast.ErrorPropagation:
		return r.inferType(x.Value, sc)
	case *ast.MatchExpression:
		for _, c := range x.Cases {
			return r.inferType(c.Body, sc)
		}
		return "i32"
	}
	return "i32"
}

// isResultValued reports whether e produces a lowered (tag, payload) pair.
func (r *renderer) isResultValued(e ast.Expr, annotated *ast.TypeRef) bool {
	if annotated != nil {
		return annotated.IsResult()
	}
	switch x := e.(type) {
	case *ast.ResultExpression:
		return true
	case *ast.Identifier:
		return r.resultVars[x.Name]
	case *ast.CallExpression:
		if res, ok := r.symbols.Resolve(x); ok && !res.External {
			if info, found := r.symbols.Function(res.Module, res.Function); found {
				return info.Decl.ReturnsResult()
			}
		}
	}
	return false
}

// payloadType is the value type of the Ok payload for a Result-producing
// expression, defaulting to i32 when undeterminable.
func (r *renderer) payloadType(e ast.Expr, annotated *ast.TypeRef) string {
	if annotated != nil && annotated.IsResult() {
		return r.resultPayloadType(annotated)
	}
	if c, ok := e.(*ast.CallExpression); ok {
		if res, found := r.symbols.Resolve(c); found && !res.External {
			if info, ok := r.symbols.Function(res.Module, res.Function); ok && info.Decl.ReturnsResult() {
				return r.resultPayloadType(info.Decl.ReturnType)
			}
		}
	}
	return "i32"
}

func (r *renderer) scrutineePayloadType(m *ast.MatchExpression, sc scope) string {
	if id, ok := m.Scrutinee.(*ast.Identifier); ok {
		if t, found := r.localTypes[id.Name+"_val"]; found {
			return t
		}
	}
	return r.payloadType(m.Scrutinee, nil)
}

func (r *renderer) resultPayloadType(t *ast.TypeRef) string {
	if t != nil && t.IsResult() && len(t.Args) == 2 {
		return watType(t.Args[0])
	}
	return "i32"
}

// valueArity is how many stack values e leaves behind when evaluated in
// statement position.
func (r *renderer) valueArity(e ast.Expr) int {
	if r.isResultValued(e, nil) {
		return 2
	}
	if c, ok := e.(*ast.CallExpression); ok {
		if res, found := r.symbols.Resolve(c); found && !res.External {
			if info, ok := r.symbols.Function(res.Module, res.Function); ok && info.Decl.ReturnType == nil {
				return 0
			}
		}
	}
	return 1
}
