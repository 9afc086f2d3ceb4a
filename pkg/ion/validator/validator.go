package validator

import (
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
)

// Validator is the main validator that orchestrates all validation passes.
// It runs structural, semantic, and coverage validation in sequence.
type Validator struct {
	structural *StructuralValidator
	semantic   *SemanticValidator
	coverage   *CoverageValidator
}

// NewValidator creates a new validator with all validation passes.
func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		semantic:   NewSemanticValidator(),
		coverage:   NewCoverageValidator(),
	}
}

// Validate runs all validation passes on a program and returns the
// accumulated diagnostics. Semantic and coverage passes run only when the
// structural pass found no errors, which prevents cascading reports against
// declarations that are already known to be malformed. Warnings never abort
// a compilation; callers decide via List.ToError.
func (v *Validator) Validate(prog *ast.Program) *diag.List {
	diags := diag.NewList()

	diags.Merge(v.structural.Validate(prog))

	if !diags.HasErrors() {
		diags.Merge(v.semantic.Validate(prog))
		diags.Merge(v.coverage.Validate(prog))
	}

	return diags
}

// ValidateStructural runs only the structural pass.
func (v *Validator) ValidateStructural(prog *ast.Program) *diag.List {
	return v.structural.Validate(prog)
}

// ValidateSemantic runs only the semantic pass.
func (v *Validator) ValidateSemantic(prog *ast.Program) *diag.List {
	return v.semantic.Validate(prog)
}

// ValidateCoverage runs only the match coverage pass.
func (v *Validator) ValidateCoverage(prog *ast.Program) *diag.List {
	return v.coverage.Validate(prog)
}

// allFunctions returns every function declaration in the program, both
// top-level and inside modules, in source order.
func allFunctions(prog *ast.Program) []*ast.FunctionDeclaration {
	var out []*ast.FunctionDeclaration
	for _, s := range prog.Statements {
		switch n := s.(type) {
		case *ast.FunctionDeclaration:
			out = append(out, n)
		case *ast.ModuleDeclaration:
			out = append(out, n.Functions()...)
		}
	}
	return out
}
