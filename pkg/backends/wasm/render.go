package wasm

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

// effectFunc is one entry in the host-side effect table: the loader maps
// the i32 id passed to ion.effect_enter back to a name and effect list.
type effectFunc struct {
	Name    string
	Effects []string
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

	// per-function local bookkeeping, reset in function()
	locals     []local
	localTypes map[string]string
	resultVars map[string]bool
	scrutTags  map[*ast.MatchExpression]string

	effectFuncs []effectFunc
}

type local struct {
	name string // includes the $ prefix
	typ  string
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
	r.w.Linef(";; %s", backends.Header(r.cfg, r.prog.SourceName))
	r.w.Line("(module")
	r.w.Indent()

	if r.cfg.EmitEffectComments && r.anyEffects() {
		r.w.Line(`(import "ion" "effect_enter" (func $ion_effect_enter (param i32)))`)
	}

	for _, stmt := range r.prog.Statements {
		mod, ok := stmt.(*ast.ModuleDeclaration)
		if !ok {
			continue
		}
		r.module = mod.Name
		for _, fn := range mod.Functions() {
			r.w.Blank()
			r.function(fn)
		}
		r.module = ""
	}

	for _, fn := range r.prog.Functions() {
		r.w.Blank()
		r.function(fn)
	}

	r.w.Outdent()
	r.w.Line(")")
	return r.w.String()
}

func (r *renderer) anyEffects() bool {
	found := false
	ast.Inspect(r.prog, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FunctionDeclaration); ok && fn.HasEffects() {
			found = true
		}
		return !found
	})
	return found
}

func (r *renderer) function(fn *ast.FunctionDeclaration) {
	r.fn = fn
	r.temp = 0
	r.locals = nil
	r.localTypes = make(map[string]string)
	r.resultVars = make(map[string]bool)
	r.scrutTags = make(map[*ast.MatchExpression]string)

	if r.cfg.EmitEffectComments {
		if doc := backends.EffectDoc(fn); doc != "" {
			r.w.Linef(";; %s", doc)
		}
	}

	sig := "(func " + r.mangled(r.module, fn.Name)
	if export := r.exportName(fn); export != "" {
		sig += fmt.Sprintf(" (export %q)", export)
	}
	for _, p := range fn.Params {
		if p.Type != nil && p.Type.IsResult() {
			// a Result parameter arrives as a lowered (tag, payload) pair
			payload := r.resultPayloadType(p.Type)
			r.resultVars[p.Name] = true
			r.localTypes[p.Name+"_tag"] = "i32"
			r.localTypes[p.Name+"_val"] = payload
			sig += fmt.Sprintf(" (param $%s_tag i32) (param $%s_val %s)", p.Name, p.Name, payload)
			continue
		}
		t := watType(p.Type)
		r.localTypes[p.Name] = t
		sig += fmt.Sprintf(" (param $%s %s)", p.Name, t)
	}
	if fn.ReturnType != nil {
		sig += " (result " + watResult(fn.ReturnType) + ")"
	}
	r.w.Line(sig)
	r.w.Indent()

	for _, e := range r.gen.Capabilities().UnsupportedEffects(fn.Effects) {
		r.w.Line(backends.Placeholder(";;", "effect "+string(e), "not meaningful on this target"))
	}

	// Body renders into a side writer first so locals, which WAT requires
	// up front, can be declared before any instruction.
	outer := r.w
	body := backends.NewWriter("  ")
	r.w = body

	if r.cfg.EmitEffectComments && fn.HasEffects() {
		id := len(r.effectFuncs)
		names := make([]string, len(fn.Effects))
		for i, e := range fn.Effects {
			names[i] = string(e)
		}
		r.effectFuncs = append(r.effectFuncs, effectFunc{Name: r.qualified(fn), Effects: names})
		r.w.Linef("(call $ion_effect_enter (i32.const %d))", id)
	}
	for _, stmt := range fn.Body {
		r.statement(stmt, nil)
	}

	r.w = outer
	for _, l := range r.locals {
		r.w.Linef("(local %s %s)", l.name, l.typ)
	}
	for _, line := range strings.Split(strings.TrimRight(body.String(), "\n"), "\n") {
		if line == "" {
			r.w.Blank()
			continue
		}
		r.w.Line(line)
	}

	r.w.Outdent()
	r.w.Line(")")
	r.fn = nil
}

func (r *renderer) qualified(fn *ast.FunctionDeclaration) string {
	if r.module == "" {
		return fn.Name
	}
	return r.module + "." + fn.Name
}

// exportName returns the host-visible name, or "" for internal functions.
// Top-level functions are always reachable; module functions only when
// exported.
func (r *renderer) exportName(fn *ast.FunctionDeclaration) string {
	if r.module == "" {
		return fn.Name
	}
	if fn.IsExported {
		return r.module + "." + fn.Name
	}
	return ""
}

func (r *renderer) mangled(module, name string) string {
	if module == "" {
		return "$" + name
	}
	return "$" + module + "_" + name
}

func (r *renderer) declareLocal(name, typ string) {
	if _, ok := r.localTypes[strings.TrimPrefix(name, "$")]; ok {
		return
	}
	r.locals = append(r.locals, local{name: name, typ: typ})
	r.localTypes[strings.TrimPrefix(name, "$")] = typ
}

func (r *renderer) statement(stmt ast.Stmt, sc scope) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		rw := r.hoist(s.Value, sc)
		if r.isResultValued(s.Value, s.Type) {
			// a Result lowers to a (tag, payload) local pair
			r.declareLocal("$"+s.Name+"_tag", "i32")
			r.declareLocal("$"+s.Name+"_val", r.payloadType(s.Value, s.Type))
			r.resultVars[s.Name] = true
			r.w.Line(r.expr(s.Value, sc, rw))
			r.w.Linef("local.set $%s_val", s.Name)
			r.w.Linef("local.set $%s_tag", s.Name)
			return
		}
		t := r.inferType(s.Value, sc)
		if s.Type != nil {
			t = watType(s.Type)
		}
		r.declareLocal("$"+s.Name, t)
		r.w.Linef("(local.set $%s %s)", s.Name, r.expr(s.Value, sc, rw))

	case *ast.ReturnStatement:
		r.returnStmt(s, sc)

	case *ast.IfStatement:
		rw := r.hoist(s.Cond, sc)
		r.w.Linef("(if %s", r.expr(s.Cond, sc, rw))
		r.w.Indent()
		r.w.Line("(then")
		r.w.Indent()
		for _, t := range s.ThenBody {
			r.statement(t, sc)
		}
		r.w.Outdent()
		r.w.Line(")")
		if s.ElseBody != nil {
			r.w.Line("(else")
			r.w.Indent()
			for _, t := range s.ElseBody {
				r.statement(t, sc)
			}
			r.w.Outdent()
			r.w.Line(")")
		}
		r.w.Outdent()
		r.w.Line(")")

	case *ast.GuardStatement:
		rw := r.hoist(s.Cond, sc)
		r.w.Linef("(if (i32.eqz %s)", r.expr(s.Cond, sc, rw))
		r.w.Indent()
		r.w.Line("(then")
		r.w.Indent()
		for _, t := range s.ElseBody {
			r.statement(t, sc)
		}
		r.w.Outdent()
		r.w.Line(")")
		r.w.Outdent()
		r.w.Line(")")

	case *ast.ExpressionStatement:
		rw := r.hoist(s.Value, sc)
		r.w.Line(r.expr(s.Value, sc, rw))
		for i := 0; i < r.valueArity(s.Value); i++ {
			r.w.Line("drop")
		}

	default:
		r.w.Line(backends.Placeholder(";;", "statement", "no rendering for this construct"))
	}
}

func (r *renderer) returnStmt(s *ast.ReturnStatement, sc scope) {
	if s.Value == nil {
		r.w.Line("(return)")
		return
	}
	if m, ok := s.Value.(*ast.MatchExpression); ok {
		r.returnMatch(m, sc)
		return
	}
	if res, ok := s.Value.(*ast.ResultExpression); ok {
		rw := r.hoist(res.Value, sc)
		tag := 0
		if res.Variant == ast.VariantError {
			tag = 1
		}
		r.w.Linef("(return (i32.const %d) %s)", tag, r.expr(res.Value, sc, rw))
		return
	}
	rw := r.hoist(s.Value, sc)
	r.w.Linef("(return %s)", r.expr(s.Value, sc, rw))
}

// returnMatch renders `return match ...` by branching on the hoisted
// scrutinee pair; unmatched values trap.
func (r *renderer) returnMatch(m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tag, val := r.hoistScrutinee(m, sc, rw)

	sawWildcard := false
	for _, c := range m.Cases {
		armSc, cond := r.armBinding(c, tag, val, sc, rw)
		body := func() {
			if ret, ok := c.Body.(*ast.ResultExpression); ok {
				t := 0
				if ret.Variant == ast.VariantError {
					t = 1
				}
				r.w.Linef("(return (i32.const %d) %s)", t, r.expr(ret.Value, armSc, rw))
				return
			}
			r.w.Linef("(return %s)", r.expr(c.Body, armSc, rw))
		}
		if c.Pattern.Kind == ast.PatternWildcard {
			body()
			sawWildcard = true
			break
		}
		r.w.Linef("(if %s", cond)
		r.w.Indent()
		r.w.Line("(then")
		r.w.Indent()
		body()
		r.w.Outdent()
		r.w.Line(")")
		r.w.Outdent()
		r.w.Line(")")
	}
	if !sawWildcard {
		r.w.Line("unreachable")
	}
}

// hoistScrutinee evaluates a match scrutinee once. Result scrutinees land
// in a (tag, val) pair; plain values in a single temp, with tag unused.
func (r *renderer) hoistScrutinee(m *ast.MatchExpression, sc scope, rw map[ast.Expr]string) (tag, val string) {
	tmp := fmt.Sprintf("__m%d", r.temp)
	r.temp++

	if r.isResultMatch(m) {
		r.declareLocal("$"+tmp+"_tag", "i32")
		r.declareLocal("$"+tmp+"_val", r.scrutineePayloadType(m, sc))
		if id, ok := m.Scrutinee.(*ast.Identifier); ok && r.resultVars[id.Name] {
			r.w.Linef("(local.set $%s_tag (local.get $%s_tag))", tmp, id.Name)
			r.w.Linef("(local.set $%s_val (local.get $%s_val))", tmp, id.Name)
		} else {
			r.w.Line(r.expr(m.Scrutinee, sc, rw))
			r.w.Linef("local.set $%s_val", tmp)
			r.w.Linef("local.set $%s_tag", tmp)
		}
		return "$" + tmp + "_tag", "$" + tmp + "_val"
	}

	r.declareLocal("$"+tmp, r.inferType(m.Scrutinee, sc))
	r.w.Linef("(local.set $%s %s)", tmp, r.expr(m.Scrutinee, sc, rw))
	return "", "$" + tmp
}

func (r *renderer) isResultMatch(m *ast.MatchExpression) bool {
	for _, c := range m.Cases {
		if c.Pattern.Kind == ast.PatternOk || c.Pattern.Kind == ast.PatternError {
			return true
		}
	}
	return false
}

func (r *renderer) armBinding(c *ast.MatchCase, tag, val string, sc scope, rw map[ast.Expr]string) (scope, string) {
	switch c.Pattern.Kind {
	case ast.PatternOk:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, "(local.get "+val+")")
		}
		return armSc, "(i32.eqz (local.get " + tag + "))"

	case ast.PatternError:
		armSc := sc
		if c.Pattern.Binding != "" {
			armSc = sc.with(c.Pattern.Binding, "(local.get "+val+")")
		}
		return armSc, "(local.get " + tag + ")"

	case ast.PatternLiteral:
		t := r.inferTypeOfLocal(val)
		return sc, fmt.Sprintf("(%s.eq (local.get %s) %s)", t, val, r.expr(c.Pattern.Literal, sc, rw))

	default:
		return sc, "(i32.const 1)"
	}
}

func (r *renderer) inferTypeOfLocal(name string) string {
	if t, ok := r.localTypes[strings.TrimPrefix(name, "$")]; ok {
		return t
	}
	return "i32"
}

// hoist pre-renders error propagations into checked temporaries and match
// scrutinees into single evaluations, mirroring the class-based backends.
// Arm bodies are not descended into.
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
			tmp := fmt.Sprintf("__t%d", r.temp)
			r.temp++
			r.declareLocal("$"+tmp+"_tag", "i32")
			r.declareLocal("$"+tmp+"_val", r.payloadType(x.Value, nil))
			r.w.Line(r.expr(x.Value, sc, rw))
			r.w.Linef("local.set $%s_val", tmp)
			r.w.Linef("local.set $%s_tag", tmp)
			r.w.Linef("(if (local.get $%s_tag)", tmp)
			r.w.Indent()
			r.w.Line("(then")
			r.w.Indent()
			if r.fn != nil && r.fn.ReturnsResult() {
				r.w.Linef("(return (local.get $%s_tag) (local.get $%s_val))", tmp, tmp)
			} else {
				r.w.Line(backends.Placeholder(";;", "error propagation", "enclosing function does not return a Result"))
				r.w.Line("unreachable")
			}
			r.w.Outdent()
			r.w.Line(")")
			r.w.Outdent()
			r.w.Line(")")
			rw[x] = "(local.get $" + tmp + "_val)"
			return false

		case *ast.MatchExpression:
			// expression-position match: evaluate the scrutinee once here;
			// matchExpr consumes the pair through the rewrite entries
			if _, done := rw[x.Scrutinee]; done {
				return false
			}
			tag, val := r.hoistScrutinee(x, sc, rw)
			rw[x.Scrutinee] = "(local.get " + val + ")"
			r.scrutTags[x] = tag
			return false
		}
		return true
	})
}
