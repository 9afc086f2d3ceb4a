package token

import "fmt"

// Type identifies the category of a lexed token.
type Type int

const (
	EOF Type = iota // sentinel: end of input

	// Literals
	IDENT  // identifier: function, parameter, type or module name
	NUMBER // numeric literal, integer or float
	STRING // string literal "..."
	INTERP // interpolated string $"..." (Literal holds []InterpPart)

	// Keywords
	FUNCTION // "function"
	PURE     // "pure"
	USES     // "uses"
	GUARD    // "guard"
	LET      // "let"
	IF       // "if"
	ELSE     // "else"
	RETURN   // "return"
	MATCH    // "match"
	MODULE   // "module"
	IMPORT   // "import"
	EXPORT   // "export"
	FROM     // "from"
	RESULT   // "Result"
	OK       // "Ok"
	ERROR    // "Error"
	TRUE     // "true"
	FALSE    // "false"
	EFFECT   // reserved effect name (Database, Network, ...); Lexeme carries which

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	DOT       // .
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	ARROW     // ->

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	BANG     // !
	QUESTION // ?
	ASSIGN   // =
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LEQ      // <=
	GEQ      // >=
	LAND     // &&
	LOR      // ||
)

var typeNames = [...]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	INTERP:    "INTERP",
	FUNCTION:  "FUNCTION",
	PURE:      "PURE",
	USES:      "USES",
	GUARD:     "GUARD",
	LET:       "LET",
	IF:        "IF",
	ELSE:      "ELSE",
	RETURN:    "RETURN",
	MATCH:     "MATCH",
	MODULE:    "MODULE",
	IMPORT:    "IMPORT",
	EXPORT:    "EXPORT",
	FROM:      "FROM",
	RESULT:    "RESULT",
	OK:        "OK",
	ERROR:     "ERROR",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	EFFECT:    "EFFECT",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	DOT:       "DOT",
	COMMA:     "COMMA",
	COLON:     "COLON",
	SEMICOLON: "SEMICOLON",
	ARROW:     "ARROW",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	STAR:      "STAR",
	SLASH:     "SLASH",
	BANG:      "BANG",
	QUESTION:  "QUESTION",
	ASSIGN:    "ASSIGN",
	EQ:        "EQ",
	NEQ:       "NEQ",
	LT:        "LT",
	GT:        "GT",
	LEQ:       "LEQ",
	GEQ:       "GEQ",
	LAND:      "LAND",
	LOR:       "LOR",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// keywords maps reserved words to their token types. Effect names are not
// listed here; the lexer resolves them through the effect package so the
// vocabulary is defined in exactly one place.
var keywords = map[string]Type{
	"function": FUNCTION,
	"pure":     PURE,
	"uses":     USES,
	"guard":    GUARD,
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"return":   RETURN,
	"match":    MATCH,
	"module":   MODULE,
	"import":   IMPORT,
	"export":   EXPORT,
	"from":     FROM,
	"Result":   RESULT,
	"Ok":       OK,
	"Error":    ERROR,
	"true":     TRUE,
	"false":    FALSE,
}

// Lookup returns the keyword type for ident, or IDENT if ident is not a
// reserved word.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Position is a source position. Line and Column are 1-based; the zero value
// is invalid and means "no position".
type Position struct {
	Line   int
	Column int
}

// String renders the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position carries real source coordinates.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Before reports whether p is strictly earlier in the source than q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// Token is a single lexical unit produced by the lexer. Tokens are immutable:
// produced once, consumed once by the parser.
type Token struct {
	Type    Type
	Lexeme  string   // the exact source text that was matched
	Literal any      // decoded payload: int64/float64, string, or []InterpPart
	Pos     Position // position of the first character of Lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("%-9s %-14q  %s", t.Type, t.Lexeme, t.Pos)
}

// End returns the position one past the last character of the token on its
// starting line. Tokens never span lines, so this is exact; the parser uses
// it to detect operator adjacency.
func (t Token) End() Position {
	return Position{Line: t.Pos.Line, Column: t.Pos.Column + len([]rune(t.Lexeme))}
}

// InterpPart is one segment of an interpolated string literal. The lexer
// demarcates segments; embedded expressions are re-parsed by the parser.
type InterpPart struct {
	Text   string   // literal text, or raw expression source when IsExpr
	IsExpr bool     // true for a {expr} segment
	Pos    Position // position of the segment's first character
}
