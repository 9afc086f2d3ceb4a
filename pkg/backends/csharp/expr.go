package csharp

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/symbols"
)

// scope substitutes Ion names with C# expressions inside one match arm,
// mapping a pattern binding such as v to __m0.Value. A nil scope means no
// substitutions are active.
type scope map[string]string

func (sc scope) with(name, repl string) scope {
	out := make(scope, len(sc)+1)
	for k, v := range sc {
		out[k] = v
	}
	out[name] = repl
	return out
}

func (r *renderer) nextTemp() string {
	t := fmt.Sprintf("__t%d", r.temp)
	r.temp++
	return t
}

func (r *renderer) nextMatchTemp() string {
	t := fmt.Sprintf("__m%d", r.temp)
	r.temp++
	return t
}

// hoist pre-renders the parts of e that need statement position: every
// error propagation becomes a checked temporary, every match scrutinee is
// evaluated once into a temporary. The returned rewrite map substitutes the
// hoisted nodes when e itself is rendered.
func (r *renderer) hoist(e ast.Expr, sc scope) map[ast.Expr]string {
	rw := make(map[ast.Expr]string)
	r.hoistInto(e, sc, rw)
	return rw
}

func (r *renderer) hoistInto(e ast.Expr, sc scope, rw map[ast.Expr]string) {
	ast.Inspect(e, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ErrorPropagation:
			// inner propagations first, so f(g()?)? checks g before f
			r.hoistInto(x.Value, sc, rw)
			tmp := r.nextTemp()
			r.w.Linef("var %s = %s;", tmp, r.expr(x.Value, sc, rw))
			r.w.Linef("if (%s.IsError)", tmp)
			r.w.Line("{")
			r.w.Indent()
			r.w.Linef("return %s;", r.errReturn(tmp))
			r.w.Outdent()
			r.w.Line("}")
			rw[x] = tmp + ".Value"
			return false

		case *ast.MatchExpression:
			if armsPropagate(x) {
				// an arm carries ?, so the taken arm needs statement
				// position to early-return its failed Result; lower the
				// whole match to an if chain assigning a temporary
				tmp := r.nextTemp()
				r.w.Linef("%s %s;", r.matchType(nil, x), tmp)
				r.assignMatch(tmp, x, sc)
				rw[x] = tmp
				return false
			}
			// evaluate the scrutinee exactly once; the arms render as a
			// conditional chain over the temporary. Arm bodies are not
			// descended into: hoisting them would evaluate untaken arms.
			r.hoistInto(x.Scrutinee, sc, rw)
			tmp := r.nextMatchTemp()
			r.w.Linef("var %s = %s;", tmp, r.expr(x.Scrutinee, sc, rw))
			rw[x.Scrutinee] = tmp
			return false
		}
		return true
	})
}

// errReturn renders the early-return value for a failed propagation: the
// error re-wrapped in the enclosing function's Result type, or the
// temporary unchanged when the function does not declare one.
func (r *renderer) errReturn(tmp string) string {
	if r.fn != nil && r.fn.ReturnsResult() {
		return fmt.Sprintf("%s.Err(%s.Error)", csType(r.fn.ReturnType), tmp)
	}
	return tmp
}

func (r *renderer) expr(e ast.Expr, sc scope, rw map[ast.Expr]string) string {
	if repl, ok := rw[e]; ok {
		return repl
	}

	switch x := e.(type) {
	case *ast.Identifier:
		if repl, ok := sc[x.Name]; ok {
			return repl
		}
		return csIdent(x.Name)

	case *ast.NumberLiteral:
		return x.Raw

	case *ast.StringLiteral:
		return csQuote(x.Value)

	case *ast.BooleanLiteral:
		if x.Value {
			return "true"
		}
		return "false"

	case *ast.BinaryExpression:
		return fmt.Sprintf("%s %s %s", r.operand(x.Left, sc, rw), x.Op, r.operand(x.Right, sc, rw))

	case *ast.UnaryExpression:
		return x.Op + r.operand(x.Operand, sc, rw)

	case *ast.TernaryExpression:
		return fmt.Sprintf("(%s ? %s : %s)",
			r.expr(x.Cond, sc, rw), r.expr(x.ThenExpr, sc, rw), r.expr(x.ElseExpr, sc, rw))

	case *ast.CallExpression:
		return r.call(x, sc, rw)

	case *ast.StringInterpolation:
		return r.interpolation(x, sc, rw)

	case *ast.ResultExpression:
		ctor := "Ok"
		if x.Variant == ast.VariantError {
			ctor = "Err"
		}
		return fmt.Sprintf("%s.%s(%s)", r.resultType(), ctor, r.expr(x.Value, sc, rw))

	case *ast.ErrorPropagation:
		// hoisting rewrites every reachable propagation into a checked
		// temporary before rendering; unwrap directly as a fallback, the
		// accessor throws on an error
		return r.expr(x.Value, sc, rw) + ".Value"

	case *ast.MatchExpression:
		return r.matchExpr(x, sc, rw)

	default:
		return "default! /* ion placeholder: expression */"
	}
}

// operand renders a sub-expression of a binary or unary operator,
// parenthesizing nested operator expressions so the generated code keeps
// the source precedence regardless of the target's table.
func (r *renderer) operand(e ast.Expr, sc scope, rw map[ast.Expr]string) string {
	switch e.(type) {
	case *ast.BinaryExpression, *ast.TernaryExpression:
		return "(" + r.expr(e, sc, rw) + ")"
	}
	return r.expr(e, sc, rw)
}

// resultType renders the IonResult instantiation of the enclosing
// function's declared Result return type.
func (r *renderer) resultType() string {
	if r.fn != nil && r.fn.ReturnsResult() {
		return csType(r.fn.ReturnType)
	}
	return "IonResult<object, object>"
}

func (r *renderer) call(c *ast.CallExpression, sc scope, rw map[ast.Expr]string) string {
	res, ok := r.symbols.Resolve(c)
	if !ok {
		res = symbols.Resolution{Module: c.Qualifier(), Function: c.BaseName(), External: true}
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.expr(a, sc, rw)
	}

	var target string
	switch {
	case res.External:
		// undeclared module or bare name: leave it for the target to bind
		target = c.Name
	case res.Module == "":
		if r.module == "" {
			target = pascal(res.Function)
		} else {
			target = "Program." + pascal(res.Function)
		}
	case res.Module == r.module:
		target = pascal(res.Function)
	default:
		target = pascal(res.Module) + "." + pascal(res.Function)
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(args, ", "))
}

func (r *renderer) interpolation(in *ast.StringInterpolation, sc scope, rw map[ast.Expr]string) string {
	var sb strings.Builder
	sb.WriteString(`$"`)
	for _, p := range in.Parts {
		switch part := p.(type) {
		case ast.TextPart:
			sb.WriteString(escapeInterpText(part.Text))
		case ast.ExprPart:
			sb.WriteString("{")
			sb.WriteString(r.expr(part.Expr, sc, rw))
			sb.WriteString("}")
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// matchExpr renders a match in expression position as a conditional chain
// over the hoisted scrutinee temporary. Arms after a wildcard are
// unreachable and dropped.
func (r *renderer) matchExpr(m *ast.MatchExpression, sc scope, rw map[ast.Expr]string) string {
	scrut := r.expr(m.Scrutinee, sc, rw)

	out := `throw new InvalidOperationException("unmatched value")`
	for i := len(m.Cases) - 1; i >= 0; i-- {
		c := m.Cases[i]
		armSc, cond := r.armBinding(c, scrut, sc, rw)
		body := r.expr(c.Body, armSc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			out = body
			continue
		}
		out = fmt.Sprintf("%s ? %s : %s", cond, body, out)
	}
	return "(" + out + ")"
}

// armBinding returns the condition selecting one match arm over the
// scrutinee temporary, plus the arm's scope with the pattern binding (if
// any) mapped onto the temporary's accessor.
func (r *renderer) armBinding(c *ast.MatchCase, tmp string, sc scope, rw map[ast.Expr]string) (scope, string) {
	switch c.Pattern.Kind {
	case ast.PatternOk:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".Value")
		}
		return armSc, tmp + ".IsOk"

	case ast.PatternError:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".Error")
		}
		return armSc, tmp + ".IsError"

	case ast.PatternLiteral:
		return sc, fmt.Sprintf("%s == %s", tmp, r.expr(c.Pattern.Literal, sc, rw))

	default:
		return sc, "true"
	}
}

// propagates reports whether e contains the ? operator at any depth.
func propagates(e ast.Expr) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.ErrorPropagation); ok {
			found = true
		}
		return !found
	})
	return found
}

// armsPropagate reports whether any arm body of m carries the ? operator.
// Such a match cannot render as a conditional expression: the taken arm
// must early-return its failed Result, which needs statement position.
func armsPropagate(m *ast.MatchExpression) bool {
	for _, c := range m.Cases {
		if propagates(c.Body) {
			return true
		}
	}
	return false
}

// matchType spells the C# type of a statement-lowered match binding: the
// written annotation when there is one, otherwise the type inferred from
// the arm bodies. dynamic keeps later uses of the binding compiling when
// nothing states a type.
func (r *renderer) matchType(declared *ast.TypeRef, m *ast.MatchExpression) string {
	t := declared
	if t == nil {
		t = r.inferType(m)
	}
	if t == nil {
		return "dynamic"
	}
	return csType(t)
}

// inferType recovers the Ion type of an expression from literals, declared
// parameter types and resolved call signatures. nil means no type could be
// recovered.
func (r *renderer) inferType(e ast.Expr) *ast.TypeRef {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		if strings.Contains(x.Raw, ".") {
			return &ast.TypeRef{Name: "float"}
		}
		return &ast.TypeRef{Name: "int"}

	case *ast.StringLiteral, *ast.StringInterpolation:
		return &ast.TypeRef{Name: "string"}

	case *ast.BooleanLiteral:
		return &ast.TypeRef{Name: "bool"}

	case *ast.UnaryExpression:
		if x.Op == "!" {
			return &ast.TypeRef{Name: "bool"}
		}
		return r.inferType(x.Operand)

	case *ast.BinaryExpression:
		switch x.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return &ast.TypeRef{Name: "bool"}
		}
		if t := r.inferType(x.Left); t != nil {
			return t
		}
		return r.inferType(x.Right)

	case *ast.TernaryExpression:
		if t := r.inferType(x.ThenExpr); t != nil {
			return t
		}
		return r.inferType(x.ElseExpr)

	case *ast.CallExpression:
		if res, ok := r.symbols.Resolve(x); ok && !res.External {
			if info, ok := r.symbols.Function(res.Module, res.Function); ok {
				return info.Decl.ReturnType
			}
		}
		return nil

	case *ast.ErrorPropagation:
		t := r.inferType(x.Value)
		if t != nil && t.IsResult() && len(t.Args) == 2 {
			return t.Args[0]
		}
		return nil

	case *ast.MatchExpression:
		for _, c := range x.Cases {
			if t := r.inferType(c.Body); t != nil {
				return t
			}
		}
		return nil

	case *ast.Identifier:
		if r.fn != nil {
			for _, p := range r.fn.Params {
				if p.Name == x.Name {
					return p.Type
				}
			}
		}
		return nil
	}
	return nil
}
