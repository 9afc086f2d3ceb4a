package javascript

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/symbols"
)

type scope map[string]string

func (sc scope) with(name, repl string) scope {
	out := make(scope, len(sc)+1)
	for k, v := range sc {
		out[k] = v
	}
	out[name] = repl
	return out
}

type renderer struct {
	gen     *Generator
	prog    *ast.Program
	cfg     backends.GenerateConfig
	symbols *symbols.Table
	w       *backends.Writer

	module string
	fn     *ast.FunctionDeclaration
	temp   int
}

func newRenderer(g *Generator, prog *ast.Program, cfg backends.GenerateConfig) *renderer {
	return &renderer{
		gen:     g,
		prog:    prog,
		cfg:     cfg,
		symbols: backends.SymbolsFor(prog, cfg),
		w:       backends.NewWriter("  "),
	}
}

func (r *renderer) program() string {
	r.w.Linef("// %s", backends.Header(r.cfg, r.prog.SourceName))
	r.w.Line(`"use strict";`)
	r.w.Blank()

	first := true
	for _, stmt := range r.prog.Statements {
		mod, ok := stmt.(*ast.ModuleDeclaration)
		if !ok {
			continue
		}
		if !first {
			r.w.Blank()
		}
		r.w.Linef("class %s {", mod.Name)
		r.w.Indent()
		r.module = mod.Name
		for i, fn := range mod.Functions() {
			if i > 0 {
				r.w.Blank()
			}
			r.function(fn, true)
		}
		r.module = ""
		r.w.Outdent()
		r.w.Line("}")
		first = false
	}

	for _, fn := range r.prog.Functions() {
		if !first {
			r.w.Blank()
		}
		r.function(fn, false)
		first = false
	}

	return r.w.String()
}

// function renders one declaration, as a static class method when inModule
// is set. Type annotations survive only as a signature comment.
func (r *renderer) function(fn *ast.FunctionDeclaration, inModule bool) {
	r.fn = fn
	r.temp = 0

	if r.cfg.EmitEffectComments {
		if doc := backends.EffectDoc(fn); doc != "" {
			r.w.Linef("/** %s */", doc)
		}
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = jsIdent(p.Name)
	}
	if inModule {
		r.w.Linef("static %s(%s) {", jsIdent(fn.Name), strings.Join(params, ", "))
	} else {
		r.w.Linef("function %s(%s) {", jsIdent(fn.Name), strings.Join(params, ", "))
	}
	r.w.Indent()

	for _, e := range r.gen.Capabilities().UnsupportedEffects(fn.Effects) {
		r.w.Line(backends.Placeholder("//", "effect "+string(e), "not meaningful on this target"))
	}
	if r.cfg.EmitEffectComments && fn.HasEffects() {
		args := make([]string, 0, len(fn.Effects)+1)
		args = append(args, jsQuote(fn.Name))
		for _, e := range fn.Effects {
			args = append(args, jsQuote(string(e)))
		}
		r.w.Linef("EffectTracker.enter(%s);", strings.Join(args, ", "))
	}

	for _, stmt := range fn.Body {
		r.statement(stmt)
	}

	r.w.Outdent()
	r.w.Line("}")
	r.fn = nil
}

func (r *renderer) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if m, ok := s.Value.(*ast.MatchExpression); ok && armsPropagate(m) {
			name := jsIdent(s.Name)
			r.w.Linef("let %s;", name)
			r.assignMatch(name, m, nil)
			return
		}
		rw := r.hoist(s.Value, nil)
		r.w.Linef("const %s = %s;", jsIdent(s.Name), r.expr(s.Value, nil, rw))

	case *ast.ReturnStatement:
		r.returnStmt(s)

	case *ast.IfStatement:
		rw := r.hoist(s.Cond, nil)
		r.w.Linef("if (%s) {", r.expr(s.Cond, nil, rw))
		r.w.Indent()
		for _, t := range s.ThenBody {
			r.statement(t)
		}
		r.w.Outdent()
		if s.ElseBody != nil {
			r.w.Line("} else {")
			r.w.Indent()
			for _, t := range s.ElseBody {
				r.statement(t)
			}
			r.w.Outdent()
		}
		r.w.Line("}")

	case *ast.GuardStatement:
		rw := r.hoist(s.Cond, nil)
		r.w.Linef("if (!(%s)) {", r.expr(s.Cond, nil, rw))
		r.w.Indent()
		for _, t := range s.ElseBody {
			r.statement(t)
		}
		r.w.Outdent()
		r.w.Line("}")

	case *ast.ExpressionStatement:
		rw := r.hoist(s.Value, nil)
		r.w.Linef("%s;", r.expr(s.Value, nil, rw))

	default:
		r.w.Line(backends.Placeholder("//", "statement", "no rendering for this construct"))
	}
}

func (r *renderer) returnStmt(s *ast.ReturnStatement) {
	if s.Value == nil {
		r.w.Line("return;")
		return
	}
	if m, ok := s.Value.(*ast.MatchExpression); ok {
		r.returnMatch(m, nil)
		return
	}
	rw := r.hoist(s.Value, nil)
	r.w.Linef("return %s;", r.expr(s.Value, nil, rw))
}

func (r *renderer) returnMatch(m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("const %s = %s;", tmp, r.expr(m.Scrutinee, sc, rw))

	for _, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			r.returnArm(c.Body, armSc)
			return
		}
		r.w.Linef("if (%s) {", cond)
		r.w.Indent()
		r.returnArm(c.Body, armSc)
		r.w.Outdent()
		r.w.Line("}")
	}
	r.w.Linef("throw new Error(`unmatched value: ${%s}`);", tmp)
}

// returnArm renders one arm body in return position: hoisted statements
// first, so propagations inside the taken arm early-return their failed
// Result; nested matches lower recursively.
func (r *renderer) returnArm(body ast.Expr, sc scope) {
	if m, ok := body.(*ast.MatchExpression); ok {
		r.returnMatch(m, sc)
		return
	}
	rw := r.hoist(body, sc)
	r.w.Linef("return %s;", r.expr(body, sc, rw))
}

// assignMatch lowers a match bound to a name into an if chain assigning
// target per arm, so arm bodies render in statement position and may
// propagate errors.
func (r *renderer) assignMatch(target string, m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("const %s = %s;", tmp, r.expr(m.Scrutinee, sc, rw))

	for i, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			if i == 0 {
				r.assignArm(target, c.Body, armSc)
				return
			}
			r.w.Line("} else {")
			r.w.Indent()
			r.assignArm(target, c.Body, armSc)
			r.w.Outdent()
			r.w.Line("}")
			return
		}
		if i == 0 {
			r.w.Linef("if (%s) {", cond)
		} else {
			r.w.Linef("} else if (%s) {", cond)
		}
		r.w.Indent()
		r.assignArm(target, c.Body, armSc)
		r.w.Outdent()
	}
	r.w.Line("} else {")
	r.w.Indent()
	r.w.Linef("throw new Error(`unmatched value: ${%s}`);", tmp)
	r.w.Outdent()
	r.w.Line("}")
}

func (r *renderer) assignArm(target string, body ast.Expr, sc scope) {
	if m, ok := body.(*ast.MatchExpression); ok {
		r.assignMatch(target, m, sc)
		return
	}
	rw := r.hoist(body, sc)
	r.w.Linef("%s = %s;", target, r.expr(body, sc, rw))
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

func (r *renderer) hoist(e ast.Expr, sc scope) map[ast.Expr]string {
	rw := make(map[ast.Expr]string)
	r.hoistInto(e, sc, rw)
	return rw
}

func (r *renderer) hoistInto(e ast.Expr, sc scope, rw map[ast.Expr]string) {
	ast.Inspect(e, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ErrorPropagation:
			r.hoistInto(x.Value, sc, rw)
			tmp := r.nextTemp()
			r.w.Linef("const %s = %s;", tmp, r.expr(x.Value, sc, rw))
			r.w.Linef("if (%s.isError()) {", tmp)
			r.w.Indent()
			// dynamically typed: the failed Result returns unchanged
			r.w.Linef("return %s;", tmp)
			r.w.Outdent()
			r.w.Line("}")
			rw[x] = tmp + ".value()"
			return false

		case *ast.MatchExpression:
			if armsPropagate(x) {
				tmp := r.nextTemp()
				r.w.Linef("let %s;", tmp)
				r.assignMatch(tmp, x, sc)
				rw[x] = tmp
				return false
			}
			r.hoistInto(x.Scrutinee, sc, rw)
			tmp := r.nextMatchTemp()
			r.w.Linef("const %s = %s;", tmp, r.expr(x.Scrutinee, sc, rw))
			rw[x.Scrutinee] = tmp
			return false
		}
		return true
	})
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
		return jsIdent(x.Name)

	case *ast.NumberLiteral:
		return x.Raw

	case *ast.StringLiteral:
		return jsQuote(x.Value)

	case *ast.BooleanLiteral:
		if x.Value {
			return "true"
		}
		return "false"

	case *ast.BinaryExpression:
		op := x.Op
		// strict equality keeps Ion's by-value comparison semantics
		switch op {
		case "==":
			op = "==="
		case "!=":
			op = "!=="
		}
		return fmt.Sprintf("%s %s %s", r.operand(x.Left, sc, rw), op, r.operand(x.Right, sc, rw))

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
		ctor := "ok"
		if x.Variant == ast.VariantError {
			ctor = "err"
		}
		return fmt.Sprintf("IonResult.%s(%s)", ctor, r.expr(x.Value, sc, rw))

	case *ast.ErrorPropagation:
		// hoisting rewrites every reachable propagation into a checked
		// temporary before rendering; unwrap directly as a fallback, the
		// accessor throws on an error
		return r.expr(x.Value, sc, rw) + ".value()"

	case *ast.MatchExpression:
		return r.matchExpr(x, sc, rw)

	default:
		return "undefined /* ion placeholder: expression */"
	}
}

func (r *renderer) operand(e ast.Expr, sc scope, rw map[ast.Expr]string) string {
	switch e.(type) {
	case *ast.BinaryExpression, *ast.TernaryExpression:
		return "(" + r.expr(e, sc, rw) + ")"
	}
	return r.expr(e, sc, rw)
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
		target = c.Name
	case res.Module == "":
		target = jsIdent(res.Function)
	default:
		// module methods are static, qualification is mandatory even
		// from inside the class
		target = res.Module + "." + jsIdent(res.Function)
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(args, ", "))
}

func (r *renderer) interpolation(in *ast.StringInterpolation, sc scope, rw map[ast.Expr]string) string {
	var sb strings.Builder
	sb.WriteByte('`')
	for _, p := range in.Parts {
		switch part := p.(type) {
		case ast.TextPart:
			sb.WriteString(jsEscapeTemplate(part.Text))
		case ast.ExprPart:
			sb.WriteString("${")
			sb.WriteString(r.expr(part.Expr, sc, rw))
			sb.WriteString("}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// matchExpr renders a match in expression position as a nested conditional
// over the hoisted temporary. With no wildcard the fallback arm throws
// through an immediately invoked function, since JavaScript has no throw
// expression.
func (r *renderer) matchExpr(m *ast.MatchExpression, sc scope, rw map[ast.Expr]string) string {
	scrut := r.expr(m.Scrutinee, sc, rw)

	out := `(() => { throw new Error("unmatched value"); })()`
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

func (r *renderer) armBinding(c *ast.MatchCase, tmp string, sc scope, rw map[ast.Expr]string) (scope, string) {
	switch c.Pattern.Kind {
	case ast.PatternOk:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".value()")
		}
		return armSc, tmp + ".isOk()"

	case ast.PatternError:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".error()")
		}
		return armSc, tmp + ".isError()"

	case ast.PatternLiteral:
		return sc, fmt.Sprintf("%s === %s", tmp, r.expr(c.Pattern.Literal, sc, rw))

	default:
		return sc, "true"
	}
}
