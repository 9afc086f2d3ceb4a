// Package lexer turns Ion source text into a flat token stream. Scanning is
// fail-fast: the first illegal character or unterminated literal aborts with
// a positioned diagnostic and no token stream is returned.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/token"
)

// Lexer holds all mutable state for one scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1, col: 1}
}

// Scan tokenizes src and returns all tokens terminated by exactly one EOF
// token. The error, when non-nil, is a *diag.Error with kind diag.KindLex.
func Scan(src string) ([]token.Token, error) {
	l := newLexer(src)
	var tokens []token.Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// position returns the coordinates of the next rune to consume.
func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to
// end-of-line. The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.KindLex, pos, format, args...)
}

// scanIdent collects an identifier, keyword, or reserved effect name. The
// first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() token.Token {
	pos := l.position()
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])

	tt := token.Lookup(lexeme)
	if tt == token.IDENT && effect.IsKnown(lexeme) {
		tt = token.EFFECT
	}
	return token.Token{Type: tt, Lexeme: lexeme, Pos: pos}
}

// scanNumber collects a decimal integer or float literal. The first digit
// must still be at l.peek().
func (l *Lexer) scanNumber() (token.Token, error) {
	pos := l.position()
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && unicode.IsDigit(l.peek2()) {
		isFloat = true
		l.advance() // consume '.'
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := string(l.src[start:l.pos])
	tok := token.Token{Type: token.NUMBER, Lexeme: lexeme, Pos: pos}
	if isFloat {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return token.Token{}, l.errorf(pos, "malformed number literal %q", lexeme)
		}
		tok.Literal = f
	} else {
		n, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return token.Token{}, l.errorf(pos, "number literal %q overflows", lexeme)
		}
		tok.Literal = n
	}
	return tok, nil
}

// decodeEscape maps an escape character to its decoded rune. The second
// result is false for escapes outside the recognized set; the caller then
// drops the backslash and keeps the character as-is. That lenient handling
// is deliberate and covered by a regression test.
func decodeEscape(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '0':
		return 0, true
	default:
		return r, false
	}
}

// scanString collects a string literal "...". Lexeme keeps the raw source
// spelling including quotes; Literal carries the decoded text.
func (l *Lexer) scanString() (token.Token, error) {
	pos := l.position()
	start := l.pos
	l.advance() // consume opening "
	var val []rune

	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			l.advance() // consume closing "
			return token.Token{
				Type:    token.STRING,
				Lexeme:  string(l.src[start:l.pos]),
				Literal: string(val),
				Pos:     pos,
			}, nil
		}
		if r == '\n' {
			return token.Token{}, l.errorf(pos, "unterminated string literal")
		}
		if r == '\\' {
			l.advance() // consume backslash
			decoded, _ := decodeEscape(l.peek())
			val = append(val, decoded)
			l.advance()
			continue
		}
		val = append(val, r)
		l.advance()
	}

	return token.Token{}, l.errorf(pos, "unterminated string literal")
}

// scanInterp collects an interpolated string $"...{expr}...". It produces a
// single INTERP token whose Literal is the ordered []token.InterpPart: the
// parser re-parses each expression segment. Brace depth and nested plain
// strings are tracked so `{f("}")}` demarcates correctly.
func (l *Lexer) scanInterp() (token.Token, error) {
	pos := l.position()
	start := l.pos
	l.advance() // consume $
	l.advance() // consume opening "

	var parts []token.InterpPart
	var text []rune
	textPos := l.position()

	flushText := func() {
		if len(text) > 0 {
			parts = append(parts, token.InterpPart{Text: string(text), Pos: textPos})
			text = nil
		}
	}

	for l.pos < len(l.src) {
		r := l.peek()
		switch {
		case r == '"':
			l.advance() // consume closing "
			flushText()
			return token.Token{
				Type:    token.INTERP,
				Lexeme:  string(l.src[start:l.pos]),
				Literal: parts,
				Pos:     pos,
			}, nil

		case r == '\n':
			return token.Token{}, l.errorf(pos, "unterminated string interpolation")

		case r == '\\':
			if len(text) == 0 {
				textPos = l.position()
			}
			l.advance() // consume backslash
			decoded, _ := decodeEscape(l.peek())
			text = append(text, decoded)
			l.advance()

		case r == '{':
			flushText()
			l.advance() // consume {
			part, err := l.scanInterpExpr(pos)
			if err != nil {
				return token.Token{}, err
			}
			parts = append(parts, part)

		case r == '}':
			return token.Token{}, l.errorf(l.position(), "unmatched '}' in string interpolation")

		default:
			if len(text) == 0 {
				textPos = l.position()
			}
			text = append(text, r)
			l.advance()
		}
	}

	return token.Token{}, l.errorf(pos, "unterminated string interpolation")
}

// scanInterpExpr captures the raw source of one {expr} segment. The opening
// brace must already have been consumed; the closing brace is consumed here.
func (l *Lexer) scanInterpExpr(openPos token.Position) (token.InterpPart, error) {
	exprPos := l.position()
	start := l.pos
	depth := 1
	inString := false

	for l.pos < len(l.src) {
		r := l.peek()
		if inString {
			if r == '\\' {
				l.advance()
				l.advance()
				continue
			}
			if r == '"' {
				inString = false
			}
			if r == '\n' {
				return token.InterpPart{}, l.errorf(openPos, "unterminated string interpolation")
			}
			l.advance()
			continue
		}

		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := strings.TrimSpace(string(l.src[start:l.pos]))
				l.advance() // consume }
				if raw == "" {
					return token.InterpPart{}, l.errorf(exprPos, "empty interpolation expression")
				}
				return token.InterpPart{Text: raw, IsExpr: true, Pos: exprPos}, nil
			}
		case '\n':
			return token.InterpPart{}, l.errorf(openPos, "unterminated string interpolation")
		}
		l.advance()
	}

	return token.InterpPart{}, l.errorf(openPos, "unterminated string interpolation")
}

// nextToken skips whitespace and comments and returns the next token.
func (l *Lexer) nextToken() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return token.Token{Type: token.EOF, Lexeme: "", Pos: l.position()}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		break
	}

	ch := l.peek()
	pos := l.position()

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}
	if ch == '"' {
		return l.scanString()
	}
	if ch == '$' && l.peek2() == '"' {
		return l.scanInterp()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return token.Token{Type: token.LPAREN, Lexeme: "(", Pos: pos}, nil
	case ')':
		return token.Token{Type: token.RPAREN, Lexeme: ")", Pos: pos}, nil
	case '{':
		return token.Token{Type: token.LBRACE, Lexeme: "{", Pos: pos}, nil
	case '}':
		return token.Token{Type: token.RBRACE, Lexeme: "}", Pos: pos}, nil
	case '[':
		return token.Token{Type: token.LBRACKET, Lexeme: "[", Pos: pos}, nil
	case ']':
		return token.Token{Type: token.RBRACKET, Lexeme: "]", Pos: pos}, nil
	case '.':
		return token.Token{Type: token.DOT, Lexeme: ".", Pos: pos}, nil
	case ',':
		return token.Token{Type: token.COMMA, Lexeme: ",", Pos: pos}, nil
	case ':':
		return token.Token{Type: token.COLON, Lexeme: ":", Pos: pos}, nil
	case ';':
		return token.Token{Type: token.SEMICOLON, Lexeme: ";", Pos: pos}, nil
	case '?':
		return token.Token{Type: token.QUESTION, Lexeme: "?", Pos: pos}, nil
	case '+':
		return token.Token{Type: token.PLUS, Lexeme: "+", Pos: pos}, nil
	case '*':
		return token.Token{Type: token.STAR, Lexeme: "*", Pos: pos}, nil
	case '/':
		return token.Token{Type: token.SLASH, Lexeme: "/", Pos: pos}, nil

	case '-':
		if l.peek() == '>' { // greedy: -> before -
			l.advance()
			return token.Token{Type: token.ARROW, Lexeme: "->", Pos: pos}, nil
		}
		return token.Token{Type: token.MINUS, Lexeme: "-", Pos: pos}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Type: token.NEQ, Lexeme: "!=", Pos: pos}, nil
		}
		return token.Token{Type: token.BANG, Lexeme: "!", Pos: pos}, nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Type: token.LEQ, Lexeme: "<=", Pos: pos}, nil
		}
		return token.Token{Type: token.LT, Lexeme: "<", Pos: pos}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Type: token.GEQ, Lexeme: ">=", Pos: pos}, nil
		}
		return token.Token{Type: token.GT, Lexeme: ">", Pos: pos}, nil
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return token.Token{Type: token.EQ, Lexeme: "==", Pos: pos}, nil
		}
		return token.Token{Type: token.ASSIGN, Lexeme: "=", Pos: pos}, nil
	case '&':
		if l.peek() == '&' {
			l.advance()
			return token.Token{Type: token.LAND, Lexeme: "&&", Pos: pos}, nil
		}
		return token.Token{}, l.errorf(pos, "unexpected character '&' (did you mean '&&'?)")
	case '|':
		if l.peek() == '|' {
			l.advance()
			return token.Token{Type: token.LOR, Lexeme: "||", Pos: pos}, nil
		}
		return token.Token{}, l.errorf(pos, "unexpected character '|' (did you mean '||'?)")
	default:
		return token.Token{}, l.errorf(pos, "unexpected character %q", ch)
	}
}
