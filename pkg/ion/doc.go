// Package ion provides parsing and validation for the Ion language.
//
// Ion is a small imperative language with declared side effects and
// Result-typed error handling. Programs are compiled to other languages
// rather than executed; this package is the front end shared by every
// compilation target.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - token: token types and source positions
// - lexer: tokenization, including string interpolation segments
// - ast: Abstract Syntax Tree definitions for parsed programs
// - parser: recursive descent parsing and AST construction
// - symbols: module and function resolution
// - validator: program validation (structural, semantic, coverage)
// - effect: the closed effect vocabulary
// - diag: rich diagnostics with location and suggestions
//
// # Basic Usage
//
// Parse and validate a program:
//
//	prog, diags, err := ion.ParseAndCheck(src, "app.ion")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range diags.Warnings() {
//	    fmt.Println(w)
//	}
//
//	fmt.Println("functions:", len(prog.Functions()))
//	fmt.Println("modules:", len(prog.Modules()))
//
// Parse without validation when the AST itself is the goal:
//
//	prog, err := ion.Parse(src, "app.ion")
//
// # Language Structure
//
// An Ion program consists of imports, top-level functions and modules:
//
//	import Math.{square}
//
//	module Storage {
//	    export function save(user: string) uses [Database, Logging] -> Result<int, string> {
//	        guard user != "" else {
//	            return Error("empty user")
//	        }
//	        return Ok(1)
//	    }
//	}
//
//	pure function double(x: int) -> int {
//	    return square(x) - x * (x - 2)
//	}
//
//	function main() uses [Database, Logging, IO] -> Result<int, string> {
//	    let id = Storage.save("ada")?
//	    let msg = $"saved user {id}"
//	    return Ok(double(id))
//	}
//
// Functions declare their side effects with a `uses` clause drawn from a
// closed vocabulary (Database, Network, Logging, ...); `pure` asserts the
// absence of effects and cannot be combined with `uses`. Fallible functions
// return Result<T, E>, built with Ok(..) and Error(..), consumed with match,
// and propagated with the postfix `?` operator.
//
// # Error Handling
//
// Lexing and parsing are fail-fast and return a single *diag.Error;
// validation accumulates a *diag.List. Every diagnostic carries a position
// and an optional suggestion:
//
//	[parse] unknown effect "Databse" in uses clause
//	  --> app.ion:3:25
//	  = suggestion: Did you mean 'Database'?
//
// Warning-severity diagnostics (such as non-exhaustive matches) are surfaced
// alongside a successful result and never abort compilation.
package ion
