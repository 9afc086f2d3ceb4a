// Package diag provides structured diagnostics for the Ion compiler.
//
// Every front-end failure is reported as an *Error carrying the compilation
// stage, a severity, a 1-based source position and an optional suggested fix.
// The List type accumulates diagnostics across validator passes; the lexer
// and parser are fail-fast and return a single *Error instead.
package diag

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/token"
)

// Kind categorizes which compiler stage produced a diagnostic.
type Kind string

const (
	KindLex      Kind = "lex"      // illegal character, unterminated literal
	KindParse    Kind = "parse"    // unexpected token, malformed construct
	KindSemantic Kind = "semantic" // purity/effect/export violations
	KindGenerate Kind = "generate" // backend-level failure
	KindIO       Kind = "io"       // source or artifact I/O failure
)

// Severity ranks how serious a diagnostic is. Errors abort compilation;
// warnings are reported alongside a successful result.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single diagnostic with location and optional suggestion.
type Error struct {
	Kind       Kind           // Stage that produced the diagnostic
	Severity   Severity       // error or warning
	Message    string         // Human-readable description
	Source     string         // Source name (file path or synthetic name), may be empty
	Pos        token.Position // 1-based position, zero value when no position applies
	Suggestion string         // Suggested fix (optional)
}

// Error implements the error interface. The format follows
//
//	[parse] unexpected token RBRACE
//	  --> demo.ion:4:1
//	  = suggestion: close the function body with '}'
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Message))

	if e.Pos.IsValid() {
		if e.Source != "" {
			sb.WriteString(fmt.Sprintf("  --> %s:%s\n", e.Source, e.Pos))
		} else {
			sb.WriteString(fmt.Sprintf("  --> %s\n", e.Pos))
		}
	} else if e.Source != "" {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Source))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// IsWarning reports whether the diagnostic is warning-severity.
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// Errorf builds an error-severity diagnostic with a formatted message.
func Errorf(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Warningf builds a warning-severity diagnostic with a formatted message.
func Warningf(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// List accumulates diagnostics across validation passes.
type List struct {
	Diags []*Error
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{Diags: make([]*Error, 0)}
}

// Add appends a diagnostic to the list.
func (l *List) Add(err *Error) {
	l.Diags = append(l.Diags, err)
}

// AddError creates and appends an error-severity diagnostic.
func (l *List) AddError(kind Kind, message string, pos token.Position) {
	l.Add(&Error{Kind: kind, Severity: SeverityError, Message: message, Pos: pos})
}

// AddErrorWithSuggestion creates and appends an error-severity diagnostic
// carrying a suggested fix.
func (l *List) AddErrorWithSuggestion(kind Kind, message string, pos token.Position, suggestion string) {
	l.Add(&Error{Kind: kind, Severity: SeverityError, Message: message, Pos: pos, Suggestion: suggestion})
}

// AddWarning creates and appends a warning-severity diagnostic.
func (l *List) AddWarning(kind Kind, message string, pos token.Position) {
	l.Add(&Error{Kind: kind, Severity: SeverityWarning, Message: message, Pos: pos})
}

// Merge appends every diagnostic from other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.Diags = append(l.Diags, other.Diags...)
}

// HasErrors reports whether the list contains at least one error-severity
// diagnostic. Warnings alone do not fail a compilation.
func (l *List) HasErrors() bool {
	for _, d := range l.Diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasKind reports whether the list contains a diagnostic of the given kind.
func (l *List) HasKind(kind Kind) bool {
	for _, d := range l.Diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (l *List) Errors() []*Error {
	var out []*Error
	for _, d := range l.Diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the warning-severity diagnostics.
func (l *List) Warnings() []*Error {
	var out []*Error
	for _, d := range l.Diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the total number of diagnostics, warnings included.
func (l *List) Count() int {
	return len(l.Diags)
}

// Error implements the error interface, formatting every diagnostic.
func (l *List) Error() string {
	if len(l.Diags) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d problem(s):\n\n", len(l.Diags)))
	for i, d := range l.Diags {
		sb.WriteString(fmt.Sprintf("%d. ", i+1))
		sb.WriteString(d.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToError returns nil when the list has no error-severity diagnostics,
// otherwise the list itself. Warning-only lists convert to nil so callers
// treat them as success.
func (l *List) ToError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
