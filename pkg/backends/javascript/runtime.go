package javascript

import "fmt"

// jsReservedWords need a suffix when an Ion name collides with one;
// JavaScript has no escape syntax for identifiers.
var jsReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true,
	"static": true, "await": true,
}

func jsIdent(name string) string {
	if jsReservedWords[name] {
		return name + "_"
	}
	return name
}

func jsQuote(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '\\':
			out += `\\`
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		case '\t':
			out += `\t`
		case '\r':
			out += `\r`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

// jsEscapeTemplate escapes a literal segment for a template literal, where
// backticks and ${ are the active characters.
func jsEscapeTemplate(s string) string {
	var out string
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '`':
			out += "\\`"
		case r == '\\':
			out += `\\`
		case r == '$' && i+1 < len(runes) && runes[i+1] == '{':
			out += `\$`
		default:
			out += string(r)
		}
	}
	return out
}

// renderRuntime returns ion_runtime.js. It is loaded before the generated
// script and defines the globals the generated code references.
func renderRuntime() string {
	return `// Runtime support for Ion programs. Do not edit.
"use strict";

/**
 * Two-variant result carrying either a success value or an error.
 */
class IonResult {
  constructor(ok, value, error) {
    this._ok = ok;
    this._value = value;
    this._error = error;
  }

  static ok(value) {
    return new IonResult(true, value, undefined);
  }

  static err(error) {
    return new IonResult(false, undefined, error);
  }

  isOk() {
    return this._ok;
  }

  isError() {
    return !this._ok;
  }

  /** The success value. Throws on the error variant. */
  value() {
    if (!this._ok) {
      throw new Error("value() accessed on an error result");
    }
    return this._value;
  }

  /** The error. Throws on the success variant. */
  error() {
    if (this._ok) {
      throw new Error("error() accessed on an ok result");
    }
    return this._error;
  }

  toString() {
    return this._ok ? ` + "`Ok(${this._value})` : `Error(${this._error})`" + `;
  }
}

/**
 * No-op instrumentation hooks for declared effects. Replace with a real
 * implementation to observe effectful calls at runtime.
 */
const EffectTracker = {
  enter(fn, ...effects) {},
  exit(fn) {},
};
`
}

// renderPackageJSON returns the package.json manifest.
func renderPackageJSON(moduleName string) string {
	return fmt.Sprintf(`{
  "name": "%s",
  "version": "0.1.0",
  "private": true,
  "description": "Generated by ionc",
  "main": "%s.js"
}
`, moduleName, moduleName)
}

// renderLoader returns the index.html host page loading the runtime before
// the generated script.
func renderLoader(moduleName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
</head>
<body>
  <script src="ion_runtime.js"></script>
  <script src="%s.js"></script>
</body>
</html>
`, moduleName, moduleName)
}
