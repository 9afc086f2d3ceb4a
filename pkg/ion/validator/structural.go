package validator

import (
	"fmt"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/token"
)

// StructuralValidator validates the declaration structure of a program:
// duplicate names, export statements naming unknown functions, and selective
// imports that reference names a locally declared module does not have.
// Imports of modules not declared in the file are treated as external and
// pass unchecked.
type StructuralValidator struct {
	source string
	diags  *diag.List
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{diags: diag.NewList()}
}

// Validate performs structural validation and returns the diagnostics found.
func (v *StructuralValidator) Validate(prog *ast.Program) *diag.List {
	v.source = prog.SourceName
	v.diags = diag.NewList()

	v.validateTopLevel(prog)

	for _, mod := range prog.Modules() {
		v.validateModule(mod)
	}

	v.validateImports(prog)

	return v.diags
}

// validateTopLevel checks top-level function uniqueness and top-level export
// statements.
func (v *StructuralValidator) validateTopLevel(prog *ast.Program) {
	declared := make(map[string]token.Position)
	var names []string

	for _, fn := range prog.Functions() {
		if prev, ok := declared[fn.Name]; ok {
			v.errorf(fn.Loc, "function %q is already declared at %s", fn.Name, prev)
			continue
		}
		declared[fn.Name] = fn.Loc
		names = append(names, fn.Name)
	}

	moduleNames := make(map[string]token.Position)
	for _, mod := range prog.Modules() {
		if prev, ok := moduleNames[mod.Name]; ok {
			v.errorf(mod.Loc, "module %q is already declared at %s", mod.Name, prev)
			continue
		}
		moduleNames[mod.Name] = mod.Loc
	}

	for _, s := range prog.Statements {
		exp, ok := s.(*ast.ExportStatement)
		if !ok {
			continue
		}
		for _, name := range exp.Names {
			if _, ok := declared[name]; !ok {
				v.errorfWithSuggestion(exp.Loc,
					fmt.Sprintf("export names unknown function %q", name),
					diag.SuggestName(name, names))
			}
		}
	}
}

// validateModule checks function uniqueness and export statements inside one
// module body.
func (v *StructuralValidator) validateModule(mod *ast.ModuleDeclaration) {
	declared := make(map[string]token.Position)
	var names []string

	for _, fn := range mod.Functions() {
		if prev, ok := declared[fn.Name]; ok {
			v.errorf(fn.Loc, "function %q is already declared in module %q at %s", fn.Name, mod.Name, prev)
			continue
		}
		declared[fn.Name] = fn.Loc
		names = append(names, fn.Name)
	}

	for _, s := range mod.Body {
		exp, ok := s.(*ast.ExportStatement)
		if !ok {
			continue
		}
		for _, name := range exp.Names {
			if _, ok := declared[name]; !ok {
				v.errorfWithSuggestion(exp.Loc,
					fmt.Sprintf("module %q exports unknown function %q", mod.Name, name),
					diag.SuggestName(name, names))
			}
		}
	}
}

// validateImports checks selective imports against modules declared in the
// same file. A selective import of a name the module does not declare is an
// error; importing a declared but unexported name is a warning, since the
// generated code still compiles but crosses a visibility boundary.
func (v *StructuralValidator) validateImports(prog *ast.Program) {
	modules := make(map[string]*ast.ModuleDeclaration)
	for _, mod := range prog.Modules() {
		modules[mod.Name] = mod
	}

	for _, imp := range prog.Imports() {
		mod, declared := modules[imp.ModuleName]
		if !declared {
			continue // external module, resolved by the target toolchain
		}
		if len(imp.Names) == 0 {
			continue // bare or wildcard import
		}

		var names []string
		fns := make(map[string]bool)
		for _, fn := range mod.Functions() {
			fns[fn.Name] = true
			names = append(names, fn.Name)
		}

		for _, name := range imp.Names {
			if !fns[name] {
				v.errorfWithSuggestion(imp.Loc,
					fmt.Sprintf("import of %q from module %q: no such function", name, imp.ModuleName),
					diag.SuggestName(name, names))
				continue
			}
			if !mod.IsExported(name) {
				v.warnf(imp.Loc, "import of %q from module %q: function is not exported", name, imp.ModuleName)
			}
		}
	}
}

func (v *StructuralValidator) errorf(pos token.Position, format string, args ...any) {
	err := diag.Errorf(diag.KindSemantic, pos, format, args...)
	err.Source = v.source
	v.diags.Add(err)
}

func (v *StructuralValidator) errorfWithSuggestion(pos token.Position, message, suggestion string) {
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

func (v *StructuralValidator) warnf(pos token.Position, format string, args ...any) {
	warn := diag.Warningf(diag.KindSemantic, pos, format, args...)
	warn.Source = v.source
	v.diags.Add(warn)
}
