package csharp

import (
	"strings"

	"ion-lang/ionc/pkg/ion/ast"
)

// csharpKeywords are the reserved words that need the @ verbatim prefix
// when an Ion name collides with one.
var csharpKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true,
	"default": true, "delegate": true, "do": true, "double": true,
	"else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true,
	"float": true, "for": true, "foreach": true, "goto": true, "if": true,
	"implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true,
	"operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true,
	"ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

// csIdent renders an Ion name as a C# identifier, escaping keyword
// collisions with the verbatim prefix.
func csIdent(name string) string {
	if csharpKeywords[name] {
		return "@" + name
	}
	return name
}

// pascal converts an Ion camelCase or snake_case name to PascalCase, the
// C# convention for methods and types.
func pascal(name string) string {
	if name == "" {
		return name
	}
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

// csType maps an Ion type annotation to its C# spelling. A nil reference
// means no declared return type, rendered as void.
func csType(t *ast.TypeRef) string {
	if t == nil {
		return "void"
	}
	if t.IsResult() && len(t.Args) == 2 {
		return "IonResult<" + csType(t.Args[0]) + ", " + csType(t.Args[1]) + ">"
	}
	switch t.Name {
	case "int":
		return "int"
	case "float":
		return "double"
	case "string":
		return "string"
	case "bool":
		return "bool"
	case "void":
		return "void"
	default:
		return pascal(t.Name)
	}
}

// csQuote renders a decoded string value as a C# string literal.
func csQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	escapeStringBody(&sb, s)
	sb.WriteByte('"')
	return sb.String()
}

func escapeStringBody(sb *strings.Builder, s string) {
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
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}
}

// escapeInterpText escapes a literal segment of an interpolated string for
// C#'s $"..." syntax, where braces double up.
func escapeInterpText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '{':
			sb.WriteString("{{")
		case '}':
			sb.WriteString("}}")
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
