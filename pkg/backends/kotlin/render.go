package kotlin

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
		w:       backends.NewWriter("    "),
	}
}

func (r *renderer) program() string {
	r.w.Linef("// %s", backends.Header(r.cfg, r.prog.SourceName))
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
		r.w.Linef("object %s {", ktIdent(mod.Name))
		r.w.Indent()
		r.module = mod.Name
		for i, fn := range mod.Functions() {
			if i > 0 {
				r.w.Blank()
			}
			r.function(fn)
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
		r.function(fn)
		first = false
	}

	return r.w.String()
}

func (r *renderer) function(fn *ast.FunctionDeclaration) {
	r.fn = fn
	r.temp = 0

	if r.cfg.EmitEffectComments {
		if doc := backends.EffectDoc(fn); doc != "" {
			r.w.Linef("/** %s */", doc)
		}
	}

	visibility := ""
	if r.module != "" {
		if info, ok := r.symbols.Function(r.module, fn.Name); ok && !info.Exported {
			visibility = "internal "
		}
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ktIdent(p.Name) + ": " + ktType(p.Type)
	}
	ret := ""
	if fn.ReturnType != nil {
		ret = ": " + ktType(fn.ReturnType)
	}
	r.w.Linef("%sfun %s(%s)%s {", visibility, ktIdent(fn.Name), strings.Join(params, ", "), ret)
	r.w.Indent()

	for _, e := range r.gen.Capabilities().UnsupportedEffects(fn.Effects) {
		r.w.Line(backends.Placeholder("//", "effect "+string(e), "not meaningful on this target"))
	}
	if r.cfg.EmitEffectComments && fn.HasEffects() {
		args := make([]string, 0, len(fn.Effects)+1)
		args = append(args, ktQuote(fn.Name))
		for _, e := range fn.Effects {
			args = append(args, ktQuote(string(e)))
		}
		r.w.Linef("EffectTracker.enter(%s)", strings.Join(args, ", "))
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
			decl := "val " + ktIdent(s.Name)
			if s.Type != nil {
				decl += ": " + ktType(s.Type)
			}
			r.matchWhen(decl+" = ", m, nil)
			return
		}
		rw := r.hoist(s.Value, nil)
		if s.Type != nil {
			r.w.Linef("val %s: %s = %s", ktIdent(s.Name), ktType(s.Type), r.expr(s.Value, nil, rw))
		} else {
			r.w.Linef("val %s = %s", ktIdent(s.Name), r.expr(s.Value, nil, rw))
		}

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
		r.w.Line(r.expr(s.Value, nil, rw))

	default:
		r.w.Line(backends.Placeholder("//", "statement", "no rendering for this construct"))
	}
}

func (r *renderer) returnStmt(s *ast.ReturnStatement) {
	if s.Value == nil {
		r.w.Line("return")
		return
	}
	if m, ok := s.Value.(*ast.MatchExpression); ok {
		r.returnMatch(m, nil)
		return
	}
	rw := r.hoist(s.Value, nil)
	r.w.Linef("return %s", r.expr(s.Value, nil, rw))
}

// returnMatch renders `return match ...` as a when block whose branches
// return, so each arm body may itself propagate errors.
func (r *renderer) returnMatch(m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("val %s = %s", tmp, r.expr(m.Scrutinee, sc, rw))

	r.w.Line("when {")
	r.w.Indent()
	sawWildcard := false
	for _, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		label := cond
		if c.Pattern.Kind == ast.PatternWildcard {
			label = "else"
			sawWildcard = true
		}
		if propagates(c.Body) {
			// the arm carries ?, so its body hoists inside the branch
			// and may early-return the failed Result
			r.w.Linef("%s -> {", label)
			r.w.Indent()
			r.returnArm(c.Body, armSc)
			r.w.Outdent()
			r.w.Line("}")
		} else {
			r.w.Linef("%s -> return %s", label, r.expr(c.Body, armSc, rw))
		}
		if sawWildcard {
			break
		}
	}
	r.w.Outdent()
	r.w.Line("}")
	if !sawWildcard {
		r.w.Line(`throw IllegalStateException("unmatched value: $` + tmp + `")`)
	}
}

func (r *renderer) returnArm(body ast.Expr, sc scope) {
	if m, ok := body.(*ast.MatchExpression); ok && armsPropagate(m) {
		r.matchWhen("return ", m, sc)
		return
	}
	rw := r.hoist(body, sc)
	r.w.Linef("return %s", r.expr(body, sc, rw))
}

// matchWhen lowers a match whose arms propagate errors into a when
// expression with block branches: each taken arm hoists its own
// propagations before yielding the branch value. prefix receives the when,
// e.g. "val x = " or "return ".
func (r *renderer) matchWhen(prefix string, m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("val %s = %s", tmp, r.expr(m.Scrutinee, sc, rw))

	r.w.Linef("%swhen {", prefix)
	r.w.Indent()
	sawWildcard := false
	for _, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		label := cond
		if c.Pattern.Kind == ast.PatternWildcard {
			label = "else"
			sawWildcard = true
		}
		r.w.Linef("%s -> {", label)
		r.w.Indent()
		r.armValue(c.Body, armSc)
		r.w.Outdent()
		r.w.Line("}")
		if sawWildcard {
			break
		}
	}
	if !sawWildcard {
		r.w.Linef(`else -> throw IllegalStateException("unmatched value: $%s")`, tmp)
	}
	r.w.Outdent()
	r.w.Line("}")
}

// armValue writes one branch body of a lowered when: hoisted statements
// first, the branch's value as the block's last expression.
func (r *renderer) armValue(body ast.Expr, sc scope) {
	if m, ok := body.(*ast.MatchExpression); ok && armsPropagate(m) {
		r.matchWhen("", m, sc)
		return
	}
	rw := r.hoist(body, sc)
	r.w.Line(r.expr(body, sc, rw))
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

// hoist mirrors the C# backend: error propagations become checked
// temporaries, match scrutinees are evaluated once. Arm bodies are not
// descended into; a match whose arms propagate is lowered whole instead.
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
			r.w.Linef("val %s = %s", tmp, r.expr(x.Value, sc, rw))
			r.w.Linef("if (%s.isError) {", tmp)
			r.w.Indent()
			r.w.Linef("return %s", r.errReturn(tmp))
			r.w.Outdent()
			r.w.Line("}")
			rw[x] = tmp + ".value"
			return false

		case *ast.MatchExpression:
			if armsPropagate(x) {
				tmp := r.nextTemp()
				r.matchWhen("val "+tmp+" = ", x, sc)
				rw[x] = tmp
				return false
			}
			r.hoistInto(x.Scrutinee, sc, rw)
			tmp := r.nextMatchTemp()
			r.w.Linef("val %s = %s", tmp, r.expr(x.Scrutinee, sc, rw))
			rw[x.Scrutinee] = tmp
			return false
		}
		return true
	})
}

func (r *renderer) errReturn(tmp string) string {
	if r.fn != nil && r.fn.ReturnsResult() {
		return fmt.Sprintf("IonResult.err%s(%s.error)", ktResultArgs(r.fn.ReturnType), tmp)
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
		return ktIdent(x.Name)

	case *ast.NumberLiteral:
		return x.Raw

	case *ast.StringLiteral:
		return ktQuote(x.Value)

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
		return fmt.Sprintf("(if (%s) %s else %s)",
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
		args := ""
		if r.fn != nil && r.fn.ReturnsResult() {
			args = ktResultArgs(r.fn.ReturnType)
		}
		return fmt.Sprintf("IonResult.%s%s(%s)", ctor, args, r.expr(x.Value, sc, rw))

	case *ast.ErrorPropagation:
		// hoisting rewrites every reachable propagation into a checked
		// temporary before rendering; unwrap directly as a fallback, the
		// accessor throws on an error
		return r.expr(x.Value, sc, rw) + ".value"

	case *ast.MatchExpression:
		return r.matchExpr(x, sc, rw)

	default:
		return "TODO() /* ion placeholder: expression */"
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
	case res.Module == "" || res.Module == r.module:
		target = ktIdent(res.Function)
	default:
		target = ktIdent(res.Module) + "." + ktIdent(res.Function)
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(args, ", "))
}

func (r *renderer) interpolation(in *ast.StringInterpolation, sc scope, rw map[ast.Expr]string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, p := range in.Parts {
		switch part := p.(type) {
		case ast.TextPart:
			sb.WriteString(ktEscapeText(part.Text))
		case ast.ExprPart:
			sb.WriteString("${")
			sb.WriteString(r.expr(part.Expr, sc, rw))
			sb.WriteString("}")
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// matchExpr renders a match in expression position as a chained if
// expression over the hoisted scrutinee temporary.
func (r *renderer) matchExpr(m *ast.MatchExpression, sc scope, rw map[ast.Expr]string) string {
	scrut := r.expr(m.Scrutinee, sc, rw)

	out := `throw IllegalStateException("unmatched value")`
	for i := len(m.Cases) - 1; i >= 0; i-- {
		c := m.Cases[i]
		armSc, cond := r.armBinding(c, scrut, sc, rw)
		body := r.expr(c.Body, armSc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			out = body
			continue
		}
		out = fmt.Sprintf("if (%s) %s else %s", cond, body, out)
	}
	return "(" + out + ")"
}

func (r *renderer) armBinding(c *ast.MatchCase, tmp string, sc scope, rw map[ast.Expr]string) (scope, string) {
	switch c.Pattern.Kind {
	case ast.PatternOk:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".value")
		}
		return armSc, tmp + ".isOk"

	case ast.PatternError:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, tmp+".error")
		}
		return armSc, tmp + ".isError"

	case ast.PatternLiteral:
		return sc, fmt.Sprintf("%s == %s", tmp, r.expr(c.Pattern.Literal, sc, rw))

	default:
		return sc, "true"
	}
}
