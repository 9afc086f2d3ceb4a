package rustlang

import (
	"strings"
	"unicode"

	"ion-lang/ionc/pkg/ion/ast"
)

// rustKeywords covers the strict and reserved keywords that raw
// identifiers escape. `crate`, `self`, `super` cannot be raw identifiers,
// so those get a trailing underscore instead.
var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true,
	"dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true,
	"static": true, "struct": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "async": true, "await": true, "box": true,
}

var rustUnescapable = map[string]bool{
	"crate": true, "self": true, "super": true, "Self": true,
}

func rsIdent(name string) string {
	if rustUnescapable[name] {
		return name + "_"
	}
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

// snake converts camelCase Ion names to Rust's snake_case convention.
func snake(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// rsType maps an Ion type annotation to its Rust spelling.
func rsType(t *ast.TypeRef) string {
	if t == nil {
		return "()"
	}
	if t.IsResult() && len(t.Args) == 2 {
		return "IonResult<" + rsType(t.Args[0]) + ", " + rsType(t.Args[1]) + ">"
	}
	switch t.Name {
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "string":
		return "String"
	case "bool":
		return "bool"
	case "void":
		return "()"
	default:
		return t.Name
	}
}

func rsQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(rsEscape(s))
	sb.WriteByte('"')
	return sb.String()
}

func rsEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// rsEscapeFormat escapes text destined for a format! string, where braces
// are argument markers.
func rsEscapeFormat(s string) string {
	s = rsEscape(s)
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}
