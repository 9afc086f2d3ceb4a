package kotlin

import (
	"strings"

	"ion-lang/ionc/pkg/ion/ast"
)

// kotlinKeywords are the hard keywords needing backtick escaping when an
// Ion name collides with one.
var kotlinKeywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true,
	"else": true, "false": true, "for": true, "fun": true, "if": true,
	"in": true, "interface": true, "is": true, "null": true,
	"object": true, "package": true, "return": true, "super": true,
	"this": true, "throw": true, "true": true, "try": true,
	"typealias": true, "typeof": true, "val": true, "var": true,
	"when": true, "while": true,
}

func ktIdent(name string) string {
	if kotlinKeywords[name] {
		return "`" + name + "`"
	}
	return name
}

// ktType maps an Ion type annotation to its Kotlin spelling. nil means no
// declared return type, rendered as Unit by omission.
func ktType(t *ast.TypeRef) string {
	if t == nil {
		return "Unit"
	}
	if t.IsResult() && len(t.Args) == 2 {
		return "IonResult<" + ktType(t.Args[0]) + ", " + ktType(t.Args[1]) + ">"
	}
	switch t.Name {
	case "int":
		return "Int"
	case "float":
		return "Double"
	case "string":
		return "String"
	case "bool":
		return "Boolean"
	case "void":
		return "Unit"
	default:
		return t.Name
	}
}

// ktResultArgs renders the explicit type arguments for an IonResult
// factory call, so inference never has to guess the error type.
func ktResultArgs(t *ast.TypeRef) string {
	if t == nil || !t.IsResult() || len(t.Args) != 2 {
		return ""
	}
	return "<" + ktType(t.Args[0]) + ", " + ktType(t.Args[1]) + ">"
}

func ktQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(ktEscapeText(s))
	sb.WriteByte('"')
	return sb.String()
}

func ktEscapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '$':
			sb.WriteString(`\$`)
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
