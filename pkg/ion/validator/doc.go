// Package validator provides validation passes over parsed Ion programs.
//
// The validator performs three types of validation:
//
// 1. Structural Validation: duplicate declarations, exports naming unknown
// functions, selective imports referencing names a locally declared module
// does not have
//
// 2. Semantic Validation: purity invariants, error propagation outside
// Result-returning functions, Result constructor arity
//
// 3. Coverage Validation: match exhaustiveness (warnings only)
//
// # Basic Usage
//
// Validate a parsed program:
//
//	prog, err := parser.Parse(src, "demo.ion")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v := validator.NewValidator()
//	diags := v.Validate(prog)
//	for _, w := range diags.Warnings() {
//	    fmt.Println(w)
//	}
//	if err := diags.ToError(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run specific validation passes:
//
//	v := validator.NewValidator()
//	diags := v.ValidateStructural(prog)
//	diags = v.ValidateSemantic(prog)
//	diags = v.ValidateCoverage(prog)
//
// # Validation Order
//
// Validations run in sequence:
// 1. Structural validation (fail fast on declaration errors)
// 2. Semantic validation (only if structural passed)
// 3. Coverage validation (only if structural passed)
//
// This prevents cascading errors against declarations that are already known
// to be malformed.
//
// # What Is Not Validated
//
// Effect sets are validated as declared, not as used: a function's callees do
// not propagate their effect sets into the caller, so a function declaring
// `uses [Logging]` may call one declaring `uses [Database]` without a
// diagnostic. Type checking beyond Result shape is likewise out of scope; the
// target language's compiler is the type checker.
package validator
