package ion

import (
	"fmt"
	"os"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/lexer"
	"ion-lang/ionc/pkg/ion/parser"
	"ion-lang/ionc/pkg/ion/validator"
)

// Parse scans and parses Ion source text without validation. sourceName is
// recorded on the program and used in diagnostics; it is usually a file path
// but any label works. Use this if you want to inspect the AST before
// validation.
func Parse(src, sourceName string) (*ast.Program, error) {
	tokens, err := lexer.Scan(src)
	if err != nil {
		if lexErr, ok := err.(*diag.Error); ok && lexErr.Source == "" {
			lexErr.Source = sourceName
		}
		return nil, err
	}
	return parser.Parse(tokens, sourceName)
}

// ParseFile reads and parses an Ion source file without validation.
func ParseFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &diag.Error{
			Kind:     diag.KindIO,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("cannot read source file: %v", err),
			Source:   path,
		}
	}
	return Parse(string(data), path)
}

// Check validates a parsed program and returns the accumulated diagnostics,
// warnings included. Use List.ToError to decide whether compilation may
// proceed.
func Check(prog *ast.Program) *diag.List {
	v := validator.NewValidator()
	return v.Validate(prog)
}

// ParseAndCheck is a convenience function that parses and validates Ion
// source text. On success it returns the program together with any
// warning-severity diagnostics. On failure the error is either the parse
// error or the validation diagnostic list.
func ParseAndCheck(src, sourceName string) (*ast.Program, *diag.List, error) {
	prog, err := Parse(src, sourceName)
	if err != nil {
		return nil, nil, err
	}

	diags := Check(prog)
	if err := diags.ToError(); err != nil {
		return nil, diags, err
	}

	return prog, diags, nil
}

// ParseAndCheckFile is a convenience function that reads, parses and
// validates an Ion source file.
func ParseAndCheckFile(path string) (*ast.Program, *diag.List, error) {
	prog, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}

	diags := Check(prog)
	if err := diags.ToError(); err != nil {
		return nil, diags, err
	}

	return prog, diags, nil
}
