package csharp

import (
	"strings"

	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/symbols"
)

// renderer holds the state of one generation run. A fresh renderer is built
// per Generate call; the program itself is never mutated.
type renderer struct {
	gen     *Generator
	prog    *ast.Program
	cfg     backends.GenerateConfig
	symbols *symbols.Table
	w       *backends.Writer
	ns      string

	module string                   // enclosing Ion module, "" at top level
	fn     *ast.FunctionDeclaration // enclosing function
	temp   int                      // per-function temporary counter
}

func newRenderer(g *Generator, prog *ast.Program, cfg backends.GenerateConfig) *renderer {
	return &renderer{
		gen:     g,
		prog:    prog,
		cfg:     cfg,
		symbols: backends.SymbolsFor(prog, cfg),
		w:       backends.NewWriter("    "),
		ns:      pascal(backends.ModuleNameOr(cfg)),
	}
}

// program renders the whole compilation unit: one namespace holding a
// static class per Ion module, in source order, then a Program class with
// the top-level functions.
func (r *renderer) program() string {
	r.w.Linef("// %s", backends.Header(r.cfg, r.prog.SourceName))
	r.w.Blank()
	r.w.Line("using System;")
	r.w.Blank()
	r.w.Linef("namespace %s", r.ns)
	r.w.Line("{")
	r.w.Indent()

	first := true
	for _, stmt := range r.prog.Statements {
		mod, ok := stmt.(*ast.ModuleDeclaration)
		if !ok {
			continue
		}
		if !first {
			r.w.Blank()
		}
		r.class(pascal(mod.Name), mod.Name, mod.Functions())
		first = false
	}

	if fns := r.prog.Functions(); len(fns) > 0 {
		if !first {
			r.w.Blank()
		}
		r.class("Program", "", fns)
	}

	r.w.Outdent()
	r.w.Line("}")
	return r.w.String()
}

func (r *renderer) class(className, ionModule string, fns []*ast.FunctionDeclaration) {
	r.w.Linef("public static class %s", className)
	r.w.Line("{")
	r.w.Indent()
	r.module = ionModule
	for i, fn := range fns {
		if i > 0 {
			r.w.Blank()
		}
		r.function(fn)
	}
	r.module = ""
	r.w.Outdent()
	r.w.Line("}")
}

func (r *renderer) function(fn *ast.FunctionDeclaration) {
	r.fn = fn
	r.temp = 0

	if r.cfg.EmitEffectComments {
		if doc := backends.EffectDoc(fn); doc != "" {
			r.w.Linef("/// %s", doc)
		}
	}

	visibility := "public"
	if r.module != "" {
		if info, ok := r.symbols.Function(r.module, fn.Name); ok && !info.Exported {
			visibility = "internal"
		}
	}

	r.w.Linef("%s static %s %s(%s)", visibility, csType(fn.ReturnType), pascal(fn.Name), r.params(fn))
	r.w.Line("{")
	r.w.Indent()

	for _, e := range r.gen.Capabilities().UnsupportedEffects(fn.Effects) {
		r.w.Line(backends.Placeholder("//", "effect "+string(e), "not meaningful on this target"))
	}
	if r.cfg.EmitEffectComments && fn.HasEffects() {
		args := make([]string, 0, len(fn.Effects)+1)
		args = append(args, "nameof("+pascal(fn.Name)+")")
		for _, e := range fn.Effects {
			args = append(args, csQuote(string(e)))
		}
		r.w.Linef("EffectTracker.Enter(%s);", strings.Join(args, ", "))
	}

	for _, stmt := range fn.Body {
		r.statement(stmt)
	}

	r.w.Outdent()
	r.w.Line("}")
	r.fn = nil
}

func (r *renderer) params(fn *ast.FunctionDeclaration) string {
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = csType(p.Type) + " " + csIdent(p.Name)
	}
	return strings.Join(parts, ", ")
}

func (r *renderer) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if m, ok := s.Value.(*ast.MatchExpression); ok && armsPropagate(m) {
			name := csIdent(s.Name)
			r.w.Linef("%s %s;", r.matchType(s.Type, m), name)
			r.assignMatch(name, m, nil)
			return
		}
		rw := r.hoist(s.Value, nil)
		decl := "var"
		if s.Type != nil {
			decl = csType(s.Type)
		}
		r.w.Linef("%s %s = %s;", decl, csIdent(s.Name), r.expr(s.Value, nil, rw))

	case *ast.ReturnStatement:
		r.returnStmt(s)

	case *ast.IfStatement:
		rw := r.hoist(s.Cond, nil)
		r.w.Linef("if (%s)", r.expr(s.Cond, nil, rw))
		r.block(s.ThenBody)
		if s.ElseBody != nil {
			r.w.Line("else")
			r.block(s.ElseBody)
		}

	case *ast.GuardStatement:
		rw := r.hoist(s.Cond, nil)
		r.w.Linef("if (!(%s))", r.expr(s.Cond, nil, rw))
		r.block(s.ElseBody)

	case *ast.ExpressionStatement:
		rw := r.hoist(s.Value, nil)
		text := r.expr(s.Value, nil, rw)
		if _, ok := s.Value.(*ast.CallExpression); ok {
			r.w.Linef("%s;", text)
		} else {
			r.w.Linef("_ = %s;", text)
		}

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

// returnMatch lowers `return match ...` into an if chain, so every arm body
// renders in statement position and may itself propagate errors.
func (r *renderer) returnMatch(m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("var %s = %s;", tmp, r.expr(m.Scrutinee, sc, rw))

	for _, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			// arms after a wildcard are unreachable
			r.returnArm(c.Body, armSc)
			return
		}
		r.w.Linef("if (%s)", cond)
		r.w.Line("{")
		r.w.Indent()
		r.returnArm(c.Body, armSc)
		r.w.Outdent()
		r.w.Line("}")
	}
	r.w.Linef("throw new InvalidOperationException($\"unmatched value: {%s}\");", tmp)
}

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
// propagate errors. The chain ends in else for definite assignment.
func (r *renderer) assignMatch(target string, m *ast.MatchExpression, sc scope) {
	rw := r.hoist(m.Scrutinee, sc)
	tmp := r.nextMatchTemp()
	r.w.Linef("var %s = %s;", tmp, r.expr(m.Scrutinee, sc, rw))

	for i, c := range m.Cases {
		armSc, cond := r.armBinding(c, tmp, sc, rw)
		if c.Pattern.Kind == ast.PatternWildcard {
			if i == 0 {
				r.assignArm(target, c.Body, armSc)
				return
			}
			r.w.Line("else")
			r.assignBlock(target, c.Body, armSc)
			return
		}
		if i == 0 {
			r.w.Linef("if (%s)", cond)
		} else {
			r.w.Linef("else if (%s)", cond)
		}
		r.assignBlock(target, c.Body, armSc)
	}
	r.w.Line("else")
	r.w.Line("{")
	r.w.Indent()
	r.w.Linef("throw new InvalidOperationException($\"unmatched value: {%s}\");", tmp)
	r.w.Outdent()
	r.w.Line("}")
}

func (r *renderer) assignBlock(target string, body ast.Expr, sc scope) {
	r.w.Line("{")
	r.w.Indent()
	r.assignArm(target, body, sc)
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

func (r *renderer) block(stmts []ast.Stmt) {
	r.w.Line("{")
	r.w.Indent()
	for _, s := range stmts {
		r.statement(s)
	}
	r.w.Outdent()
	r.w.Line("}")
}
