package validator

import (
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/token"
)

// CoverageValidator checks match expressions for exhaustiveness. Every
// finding is a warning: the generators emit a fallthrough arm regardless, so
// an unmatched value fails at the target's runtime rather than silently.
type CoverageValidator struct {
	source string
	diags  *diag.List
}

// NewCoverageValidator creates a new coverage validator.
func NewCoverageValidator() *CoverageValidator {
	return &CoverageValidator{diags: diag.NewList()}
}

// Validate performs coverage validation and returns the diagnostics found.
func (v *CoverageValidator) Validate(prog *ast.Program) *diag.List {
	v.source = prog.SourceName
	v.diags = diag.NewList()

	for _, fn := range allFunctions(prog) {
		for _, stmt := range fn.Body {
			ast.Inspect(stmt, func(n ast.Node) bool {
				if m, ok := n.(*ast.MatchExpression); ok {
					v.validateMatch(m)
				}
				return true
			})
		}
	}

	return v.diags
}

// validateMatch checks one match expression.
//
// A match using Ok/Error patterns is a Result match and must cover both
// variants or carry a wildcard. A match over literal patterns is open-domain
// and must carry a wildcard, since no literal set is exhaustive.
func (v *CoverageValidator) validateMatch(m *ast.MatchExpression) {
	if len(m.Cases) == 0 {
		v.warnf(m.Loc, "match has no cases")
		return
	}

	var hasOk, hasError, hasResultArm bool
	for _, c := range m.Cases {
		switch c.Pattern.Kind {
		case ast.PatternOk:
			hasOk = true
			hasResultArm = true
		case ast.PatternError:
			hasError = true
			hasResultArm = true
		}
	}

	if hasResultArm {
		if m.HasWildcard() {
			return
		}
		switch {
		case hasOk && !hasError:
			v.warnf(m.Loc, "match on Result covers only Ok; add an Error(..) arm or '_'")
		case hasError && !hasOk:
			v.warnf(m.Loc, "match on Result covers only Error; add an Ok(..) arm or '_'")
		}
		return
	}

	if !m.HasWildcard() {
		v.warnf(m.Loc, "match over literal patterns has no '_' arm; unmatched values fall through")
	}
}

func (v *CoverageValidator) warnf(pos token.Position, format string, args ...any) {
	warn := diag.Warningf(diag.KindSemantic, pos, format, args...)
	warn.Source = v.source
	v.diags.Add(warn)
}
