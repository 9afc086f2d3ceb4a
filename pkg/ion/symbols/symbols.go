// Package symbols builds the module/function symbol table of a parsed
// program and resolves every qualified call to a (module, function) pair
// before code generation. Backends consult the table instead of re-deriving
// targets from dotted strings.
package symbols

import (
	"fmt"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
)

// FunctionInfo describes one declared function and where it lives.
type FunctionInfo struct {
	Module   string // declaring module name, "" for top-level
	Decl     *ast.FunctionDeclaration
	Exported bool
}

// Resolution is the outcome of resolving one call expression.
// External marks calls into modules (or bare names) not declared in the
// compiled file; backends emit those verbatim and the target resolves them.
type Resolution struct {
	Module   string
	Function string
	External bool
}

// QualifiedName renders the resolution the way a backend should reference
// it before applying target-specific namespacing.
func (r Resolution) QualifiedName() string {
	if r.Module == "" {
		return r.Function
	}
	return r.Module + "." + r.Function
}

// Table is the symbol table of one program. It is built once after parsing
// and read concurrently by the backends; nothing mutates it afterwards.
type Table struct {
	functions map[string]*FunctionInfo // key: "fn" or "Module.fn"
	modules   map[string]*ast.ModuleDeclaration
	imports   map[string]*ast.ImportStatement // by module name
	selective map[string]string               // imported plain name -> module
	calls     map[*ast.CallExpression]Resolution
}

// Build constructs the symbol table and resolves every call in prog. The
// returned list carries semantic errors (duplicate declarations) and
// warnings (calls into undeclared modules); a table is returned even when
// the list has errors so tooling can inspect what was resolvable.
func Build(prog *ast.Program) (*Table, *diag.List) {
	t := &Table{
		functions: make(map[string]*FunctionInfo),
		modules:   make(map[string]*ast.ModuleDeclaration),
		imports:   make(map[string]*ast.ImportStatement),
		selective: make(map[string]string),
		calls:     make(map[*ast.CallExpression]Resolution),
	}
	problems := diag.NewList()

	for _, im := range prog.Imports() {
		t.imports[im.ModuleName] = im
		for _, n := range im.Names {
			t.selective[n] = im.ModuleName
		}
	}

	for _, stmt := range prog.Statements {
		switch decl := stmt.(type) {
		case *ast.FunctionDeclaration:
			t.declare("", decl, problems)
		case *ast.ModuleDeclaration:
			if _, dup := t.modules[decl.Name]; dup {
				problems.AddError(diag.KindSemantic,
					fmt.Sprintf("module %q is declared more than once", decl.Name), decl.Pos())
				continue
			}
			t.modules[decl.Name] = decl
			for _, fn := range decl.Functions() {
				t.declare(decl.Name, fn, problems)
			}
		}
	}

	for _, fn := range prog.Functions() {
		t.resolveBody(fn, "", problems)
	}
	for _, mod := range prog.Modules() {
		for _, fn := range mod.Functions() {
			t.resolveBody(fn, mod.Name, problems)
		}
	}

	return t, problems
}

func (t *Table) declare(module string, decl *ast.FunctionDeclaration, problems *diag.List) {
	key := decl.Name
	if module != "" {
		key = module + "." + decl.Name
	}
	if _, dup := t.functions[key]; dup {
		where := "at top level"
		if module != "" {
			where = fmt.Sprintf("in module %q", module)
		}
		problems.AddError(diag.KindSemantic,
			fmt.Sprintf("function %q is declared more than once %s", decl.Name, where), decl.Pos())
		return
	}
	exported := decl.IsExported
	if module != "" {
		if mod, ok := t.modules[module]; ok && mod.IsExported(decl.Name) {
			exported = true
		}
	}
	t.functions[key] = &FunctionInfo{Module: module, Decl: decl, Exported: exported}
}

// resolveBody resolves every call inside one function, with currentModule
// giving plain names module-local scope.
func (t *Table) resolveBody(fn *ast.FunctionDeclaration, currentModule string, problems *diag.List) {
	for _, stmt := range fn.Body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpression)
			if !ok {
				return true
			}
			t.calls[call] = t.resolveCall(call, currentModule, problems)
			return true
		})
	}
}

func (t *Table) resolveCall(call *ast.CallExpression, currentModule string, problems *diag.List) Resolution {
	qualifier := call.Qualifier()
	base := call.BaseName()

	if qualifier != "" {
		mod, declared := t.modules[qualifier]
		if !declared {
			if _, imported := t.imports[qualifier]; !imported {
				problems.AddWarning(diag.KindSemantic,
					fmt.Sprintf("call to %q: module %q is neither declared nor imported", call.Name, qualifier),
					call.Pos())
			}
			return Resolution{Module: qualifier, Function: base, External: true}
		}

		info, exists := t.functions[qualifier+"."+base]
		if !exists {
			problems.AddError(diag.KindSemantic,
				fmt.Sprintf("module %q has no function %q", qualifier, base), call.Pos())
			return Resolution{Module: qualifier, Function: base, External: false}
		}
		if !info.Exported && currentModule != qualifier && len(mod.Exports) > 0 {
			problems.AddWarning(diag.KindSemantic,
				fmt.Sprintf("function %q is not exported by module %q", base, qualifier), call.Pos())
		}
		return Resolution{Module: qualifier, Function: base, External: false}
	}

	// Plain name: module-local scope first, then top level, then selective
	// imports, and otherwise an external reference left to the target.
	if currentModule != "" {
		if _, ok := t.functions[currentModule+"."+base]; ok {
			return Resolution{Module: currentModule, Function: base, External: false}
		}
	}
	if _, ok := t.functions[base]; ok {
		return Resolution{Module: "", Function: base, External: false}
	}
	if mod, ok := t.selective[base]; ok {
		_, declared := t.modules[mod]
		return Resolution{Module: mod, Function: base, External: !declared}
	}
	return Resolution{Module: "", Function: base, External: true}
}

// Resolve returns the resolution recorded for a call during Build.
func (t *Table) Resolve(call *ast.CallExpression) (Resolution, bool) {
	r, ok := t.calls[call]
	return r, ok
}

// Function looks up a declared function by module ("" for top level) and
// name.
func (t *Table) Function(module, name string) (*FunctionInfo, bool) {
	key := name
	if module != "" {
		key = module + "." + name
	}
	info, ok := t.functions[key]
	return info, ok
}

// Module looks up a declared module by name.
func (t *Table) Module(name string) (*ast.ModuleDeclaration, bool) {
	m, ok := t.modules[name]
	return m, ok
}

// Modules returns the names of all declared modules.
func (t *Table) Modules() []string {
	var names []string
	for n := range t.modules {
		names = append(names, n)
	}
	return names
}
