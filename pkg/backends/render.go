package backends

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/effect"
)

// Writer builds indented source text. All backends render through it so
// nesting depth is tracked in one place instead of five.
type Writer struct {
	sb     strings.Builder
	indent int
	unit   string
}

// NewWriter creates a writer using unit as one level of indentation.
func NewWriter(unit string) *Writer {
	return &Writer{unit: unit}
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.indent++
}

// Outdent decreases the indentation level.
func (w *Writer) Outdent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Line writes one indented line. An empty string writes a blank line with
// no trailing spaces.
func (w *Writer) Line(s string) {
	if s != "" {
		for i := 0; i < w.indent; i++ {
			w.sb.WriteString(w.unit)
		}
		w.sb.WriteString(s)
	}
	w.sb.WriteByte('\n')
}

// Linef writes one indented formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.sb.WriteByte('\n')
}

// Raw appends text verbatim, with no indentation or newline handling.
func (w *Writer) Raw(s string) {
	w.sb.WriteString(s)
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.sb.String()
}

// Placeholder renders the visible marker a backend leaves in generated
// source at the point of a construct it cannot express. lineComment is the
// target's line comment opener ("//", ";;", "#").
//
// Backends emit placeholders instead of failing: the generated file stays
// inspectable and every other construct still comes out.
func Placeholder(lineComment, construct, detail string) string {
	if detail != "" {
		return fmt.Sprintf("%s ion placeholder: %s (%s)", lineComment, construct, detail)
	}
	return fmt.Sprintf("%s ion placeholder: %s", lineComment, construct)
}

// FormatEffects renders an effect list for documentation comments:
// "Database, Logging".
func FormatEffects(effects []effect.Effect) string {
	parts := make([]string, len(effects))
	for i, e := range effects {
		parts[i] = string(e)
	}
	return strings.Join(parts, ", ")
}

// EffectDoc returns the effect/purity documentation text for a function,
// without comment markers: "Pure function.", "Effects: Database, Logging",
// or "" when the declaration carries neither.
func EffectDoc(fn *ast.FunctionDeclaration) string {
	if fn.IsPure {
		return "Pure function."
	}
	if fn.HasEffects() {
		return "Effects: " + FormatEffects(fn.Effects)
	}
	return ""
}

// Header returns the header comment text for a generated file, without
// comment markers. The text depends only on the program's source name, so
// regenerating the same program yields identical bytes.
func Header(cfg GenerateConfig, sourceName string) string {
	if cfg.HeaderComment != "" {
		return cfg.HeaderComment
	}
	if sourceName == "" {
		return "Generated by ionc. Do not edit."
	}
	return fmt.Sprintf("Generated by ionc from %s. Do not edit.", sourceName)
}

// ModuleNameOr returns the configured module name or the fallback default.
func ModuleNameOr(cfg GenerateConfig) string {
	if cfg.ModuleName != "" {
		return cfg.ModuleName
	}
	return "ion_app"
}
