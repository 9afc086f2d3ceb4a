package rustlang

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/symbols"
)

type renderer struct {
	gen     *Generator
	prog    *ast.Program
	cfg     backends.GenerateConfig
	symbols *symbols.Table
	w       *backends.Writer

	module string
	fn     *ast.FunctionDeclaration
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
	r.w.Line("#![allow(dead_code)]")
	r.w.Line("#![allow(unused_variables)]")
	r.w.Blank()
	r.w.Line("mod ion_runtime;")
	r.w.Line("#[allow(unused_imports)]")
	r.w.Line("use ion_runtime::*;")

	for _, stmt := range r.prog.Statements {
		mod, ok := stmt.(*ast.ModuleDeclaration)
		if !ok {
			continue
		}
		r.w.Blank()
		r.w.Linef("pub mod %s {", snake(mod.Name))
		r.w.Indent()
		r.w.Line("#[allow(unused_imports)]")
		r.w.Line("use super::ion_runtime::*;")
		r.module = mod.Name
		for _, fn := range mod.Functions() {
			r.w.Blank()
			r.function(fn)
		}
		r.module = ""
		r.w.Outdent()
		r.w.Line("}")
	}

	for _, fn := range r.prog.Functions() {
		r.w.Blank()
		r.function(fn)
	}

	return r.w.String()
}

func (r *renderer) function(fn *ast.FunctionDeclaration) {
	r.fn = fn

	if r.cfg.EmitEffectComments {
		if doc := backends.EffectDoc(fn); doc != "" {
			r.w.Linef("/// %s", doc)
		}
	}

	vis := "pub fn"
	if r.module != "" {
		if info, ok := r.symbols.Function(r.module, fn.Name); ok && !info.Exported {
			vis = "pub(crate) fn"
		}
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = rsIdent(p.Name) + ": " + rsType(p.Type)
	}
	sig := fmt.Sprintf("%s %s(%s)", vis, rsIdent(snake(fn.Name)), strings.Join(params, ", "))
	if fn.ReturnType != nil {
		sig += " -> " + rsType(fn.ReturnType)
	}
	r.w.Line(sig + " {")
	r.w.Indent()

	for _, e := range r.gen.Capabilities().UnsupportedEffects(fn.Effects) {
		r.w.Line(backends.Placeholder("//", "effect "+string(e), "not meaningful on this target"))
	}
	if r.cfg.EmitEffectComments && fn.HasEffects() {
		names := make([]string, len(fn.Effects))
		for i, e := range fn.Effects {
			names[i] = `"` + string(e) + `"`
		}
		r.w.Linef("effect_enter(\"%s\", &[%s]);", snake(fn.Name), strings.Join(names, ", "))
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
		if s.Type != nil {
			r.w.Linef("let %s: %s = %s;", rsIdent(s.Name), rsType(s.Type), r.expr(s.Value))
		} else {
			r.w.Linef("let %s = %s;", rsIdent(s.Name), r.expr(s.Value))
		}

	case *ast.ReturnStatement:
		if s.Value == nil {
			r.w.Line("return;")
		} else {
			r.w.Linef("return %s;", r.expr(s.Value))
		}

	case *ast.IfStatement:
		r.w.Linef("if %s {", r.expr(s.Cond))
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
		r.w.Linef("if !(%s) {", r.expr(s.Cond))
		r.w.Indent()
		for _, t := range s.ElseBody {
			r.statement(t)
		}
		r.w.Outdent()
		r.w.Line("}")

	case *ast.ExpressionStatement:
		r.w.Linef("%s;", r.expr(s.Value))

	default:
		r.w.Line(backends.Placeholder("//", "statement", "no rendering for this construct"))
	}
}

func (r *renderer) expr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Identifier:
		return rsIdent(x.Name)

	case *ast.NumberLiteral:
		return x.Raw

	case *ast.StringLiteral:
		return rsQuote(x.Value) + ".to_string()"

	case *ast.BooleanLiteral:
		if x.Value {
			return "true"
		}
		return "false"

	case *ast.BinaryExpression:
		return fmt.Sprintf("%s %s %s", r.operand(x.Left), x.Op, r.operand(x.Right))

	case *ast.UnaryExpression:
		return x.Op + r.operand(x.Operand)

	case *ast.TernaryExpression:
		return fmt.Sprintf("(if %s { %s } else { %s })",
			r.expr(x.Cond), r.expr(x.ThenExpr), r.expr(x.ElseExpr))

	case *ast.CallExpression:
		return r.call(x)

	case *ast.StringInterpolation:
		return r.interpolation(x)

	case *ast.ResultExpression:
		if x.Variant == ast.VariantError {
			return fmt.Sprintf("Err(%s)", r.expr(x.Value))
		}
		return fmt.Sprintf("Ok(%s)", r.expr(x.Value))

	case *ast.ErrorPropagation:
		// native: evaluate once, early-return the Err variant unchanged
		return r.operand(x.Value) + "?"

	case *ast.MatchExpression:
		return r.matchExpr(x)

	default:
		return `unimplemented!() /* ion placeholder: expression */`
	}
}

func (r *renderer) operand(e ast.Expr) string {
	switch e.(type) {
	case *ast.BinaryExpression, *ast.TernaryExpression:
		return "(" + r.expr(e) + ")"
	}
	return r.expr(e)
}

func (r *renderer) call(c *ast.CallExpression) string {
	res, ok := r.symbols.Resolve(c)
	if !ok {
		res = symbols.Resolution{Module: c.Qualifier(), Function: c.BaseName(), External: true}
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.expr(a)
	}

	var target string
	switch {
	case res.External:
		// undeclared module: render the dotted path as a Rust path
		target = strings.ReplaceAll(c.Name, ".", "::")
	case res.Module == "":
		if r.module == "" {
			target = rsIdent(snake(res.Function))
		} else {
			target = "crate::" + rsIdent(snake(res.Function))
		}
	case res.Module == r.module:
		target = rsIdent(snake(res.Function))
	default:
		prefix := ""
		if r.module != "" {
			prefix = "crate::"
		}
		target = prefix + snake(res.Module) + "::" + rsIdent(snake(res.Function))
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(args, ", "))
}

func (r *renderer) interpolation(in *ast.StringInterpolation) string {
	var format strings.Builder
	var args []string
	for _, p := range in.Parts {
		switch part := p.(type) {
		case ast.TextPart:
			format.WriteString(rsEscapeFormat(part.Text))
		case ast.ExprPart:
			format.WriteString("{}")
			args = append(args, r.expr(part.Expr))
		}
	}
	if len(args) == 0 {
		return fmt.Sprintf("format!(\"%s\")", format.String())
	}
	return fmt.Sprintf("format!(\"%s\", %s)", format.String(), strings.Join(args, ", "))
}

// matchExpr renders Result matches as a native match and literal matches
// as an if chain, since Rust literal patterns on owned strings don't line
// up with Ion's by-value comparison.
func (r *renderer) matchExpr(m *ast.MatchExpression) string {
	if r.isResultMatch(m) {
		return r.resultMatch(m)
	}
	return r.literalMatch(m)
}

func (r *renderer) isResultMatch(m *ast.MatchExpression) bool {
	for _, c := range m.Cases {
		if c.Pattern.Kind == ast.PatternOk || c.Pattern.Kind == ast.PatternError {
			return true
		}
	}
	return false
}

func (r *renderer) resultMatch(m *ast.MatchExpression) string {
	var sb strings.Builder
	sb.WriteString("match " + r.expr(m.Scrutinee) + " {")

	covered := map[ast.PatternKind]bool{}
	wildcard := false
	for _, c := range m.Cases {
		var pat string
		switch c.Pattern.Kind {
		case ast.PatternOk:
			pat = "Ok(" + bindingOr(c.Pattern.Binding) + ")"
			covered[ast.PatternOk] = true
		case ast.PatternError:
			pat = "Err(" + bindingOr(c.Pattern.Binding) + ")"
			covered[ast.PatternError] = true
		case ast.PatternWildcard:
			pat = "_"
			wildcard = true
		default:
			pat = rsPattern(c.Pattern.Literal)
		}
		sb.WriteString(fmt.Sprintf(" %s => %s,", pat, r.expr(c.Body)))
		if wildcard {
			break
		}
	}
	if !wildcard && (!covered[ast.PatternOk] || !covered[ast.PatternError]) {
		sb.WriteString(` _ => panic!("unmatched value"),`)
	}
	sb.WriteString(" }")
	return sb.String()
}

func (r *renderer) literalMatch(m *ast.MatchExpression) string {
	scrut := r.expr(m.Scrutinee)

	out := `panic!("unmatched value")`
	for i := len(m.Cases) - 1; i >= 0; i-- {
		c := m.Cases[i]
		body := r.expr(c.Body)
		if c.Pattern.Kind == ast.PatternWildcard {
			out = body
			continue
		}
		cond := fmt.Sprintf("%s == %s", scrut, r.expr(c.Pattern.Literal))
		out = fmt.Sprintf("if %s { %s } else { %s }", cond, body, out)
	}
	return "(" + out + ")"
}

// rsPattern renders a literal as a match pattern, where conversion calls
// like .to_string() are not allowed.
func rsPattern(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		return x.Raw
	case *ast.StringLiteral:
		return rsQuote(x.Value)
	case *ast.BooleanLiteral:
		if x.Value {
			return "true"
		}
		return "false"
	}
	return "_"
}

func bindingOr(name string) string {
	if name == "" {
		return "_"
	}
	return rsIdent(name)
}
