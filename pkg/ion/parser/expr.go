package parser

import (
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/lexer"
	"ion-lang/ionc/pkg/ion/token"
)

// parseExpression is the entry point of the precedence cascade.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseTernary()
}

// parseTernary handles `cond ? a : b`, which binds looser than ||. Any '?'
// seen here is detached from the preceding token: adjacent ones were already
// consumed as error propagation by parsePostfix.
func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.check(token.QUESTION) {
		return cond, nil
	}

	p.advance() // ?
	thenExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "between the ternary branches"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpression{Cond: cond, ThenExpr: thenExpr, ElseExpr: elseExpr, Loc: cond.Pos()}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.LOR) {
		op := p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(token.LAND) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.LT) || p.check(token.LEQ) || p.check(token.GT) || p.check(token.GEQ) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: op.Lexeme, Right: right, Loc: left.Pos()}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.BANG) || p.check(token.MINUS) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Op: op.Lexeme, Operand: operand, Loc: op.Pos}, nil
	}
	return p.parsePostfix()
}

// parsePostfix applies the error-propagation operator. A '?' binds as
// propagation only when it starts immediately after the preceding token;
// detached question marks are left for parseTernary.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(token.QUESTION) && p.questionIsAdjacent() {
		q := p.advance()
		expr = &ast.ErrorPropagation{Value: expr, Loc: q.Pos}
	}
	return expr, nil
}

// questionIsAdjacent reports whether the current '?' token starts in the
// column straight after the previously consumed token.
func (p *Parser) questionIsAdjacent() bool {
	return p.prev().End() == p.cur().Pos
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE:
		p.advance()
		return literalFromToken(tok), nil

	case token.INTERP:
		p.advance()
		return p.parseInterpolation(tok)

	case token.OK:
		return p.parseResultExpression(ast.VariantOk)

	case token.ERROR:
		return p.parseResultExpression(ast.VariantError)

	case token.MATCH:
		return p.parseMatch()

	case token.IDENT:
		return p.parseCallOrIdentifier()

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "to close the grouped expression"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.EFFECT:
		return nil, p.errorf(tok, "effect name %q is reserved and cannot be used as a value", tok.Lexeme)

	default:
		return nil, p.errorf(tok, "unexpected %s in expression", describe(tok))
	}
}

// literalFromToken builds the literal node for a NUMBER, STRING, TRUE or
// FALSE token.
func literalFromToken(tok token.Token) ast.Expr {
	switch tok.Type {
	case token.NUMBER:
		lit := &ast.NumberLiteral{Raw: tok.Lexeme, Loc: tok.Pos}
		switch v := tok.Literal.(type) {
		case int64:
			lit.Int = v
		case float64:
			lit.IsFloat = true
			lit.Float = v
		}
		return lit
	case token.STRING:
		value, _ := tok.Literal.(string)
		return &ast.StringLiteral{Value: value, Loc: tok.Pos}
	case token.TRUE:
		return &ast.BooleanLiteral{Value: true, Loc: tok.Pos}
	default: // token.FALSE
		return &ast.BooleanLiteral{Value: false, Loc: tok.Pos}
	}
}

// parseResultExpression parses Ok(expr) / Error(expr). Both constructors
// take exactly one argument.
func (p *Parser) parseResultExpression(variant ast.ResultVariant) (ast.Expr, error) {
	kw := p.advance() // Ok or Error
	if _, err := p.expect(token.LPAREN, "after "+variant.String()); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(token.COMMA) {
		return nil, p.errorf(p.cur(), "%s takes exactly one argument", variant)
	}
	if _, err := p.expect(token.RPAREN, "to close "+variant.String()); err != nil {
		return nil, err
	}
	return &ast.ResultExpression{Variant: variant, Value: value, Loc: kw.Pos}, nil
}

// parseCallOrIdentifier parses an identifier, a call, or a qualified call
// such as Math.square(3). A dotted path must be called; the language has no
// member-access expression.
func (p *Parser) parseCallOrIdentifier() (ast.Expr, error) {
	first := p.advance() // IDENT
	name := first.Lexeme
	qualified := false

	for p.check(token.DOT) && p.peekAt(1).Type == token.IDENT {
		p.advance() // .
		part := p.advance()
		name += "." + part.Lexeme
		qualified = true
	}

	if p.check(token.LPAREN) {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Name: name, Args: args, Loc: first.Pos}, nil
	}

	if qualified {
		return nil, p.errorf(p.cur(), "qualified name %q must be called; expected '('", name)
	}
	return &ast.Identifier{Name: name, Loc: first.Pos}, nil
}

func (p *Parser) parseArguments() ([]ast.Expr, error) {
	p.advance() // (
	if p.match(token.RPAREN) {
		return nil, nil
	}
	var args []ast.Expr
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN, "to close the argument list"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseMatch parses a match expression with one or more arms. Arms may be
// separated by optional commas.
func (p *Parser) parseMatch() (ast.Expr, error) {
	kw := p.advance() // match
	scrutinee, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "to open the match arms"); err != nil {
		return nil, err
	}

	var cases []*ast.MatchCase
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		c, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
		p.match(token.COMMA)
	}
	if len(cases) == 0 {
		return nil, p.errorf(p.cur(), "match requires at least one arm")
	}
	if _, err := p.expect(token.RBRACE, "to close the match arms"); err != nil {
		return nil, err
	}
	return &ast.MatchExpression{Scrutinee: scrutinee, Cases: cases, Loc: kw.Pos}, nil
}

func (p *Parser) parseMatchArm() (*ast.MatchCase, error) {
	tok := p.cur()
	var pattern ast.Pattern

	switch tok.Type {
	case token.OK:
		p.advance()
		binding, err := p.parsePatternBinding("Ok")
		if err != nil {
			return nil, err
		}
		pattern = ast.Pattern{Kind: ast.PatternOk, Binding: binding}

	case token.ERROR:
		p.advance()
		binding, err := p.parsePatternBinding("Error")
		if err != nil {
			return nil, err
		}
		pattern = ast.Pattern{Kind: ast.PatternError, Binding: binding}

	case token.NUMBER, token.STRING, token.TRUE, token.FALSE:
		p.advance()
		pattern = ast.Pattern{Kind: ast.PatternLiteral, Literal: literalFromToken(tok)}

	case token.IDENT:
		if tok.Lexeme != "_" {
			return nil, p.errorf(tok,
				"unknown pattern %q; patterns are Ok(..), Error(..), a literal, or '_'", tok.Lexeme)
		}
		p.advance()
		pattern = ast.Pattern{Kind: ast.PatternWildcard}

	default:
		return nil, p.errorf(tok, "expected a match pattern, got %s", describe(tok))
	}

	if _, err := p.expect(token.ARROW, "after the match pattern"); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.MatchCase{Pattern: pattern, Body: body, Loc: tok.Pos}, nil
}

// parsePatternBinding parses the optional (name) binding of an Ok/Error
// pattern.
func (p *Parser) parsePatternBinding(variant string) (string, error) {
	if !p.match(token.LPAREN) {
		return "", nil
	}
	name, err := p.expect(token.IDENT, "for the "+variant+" binding")
	if err != nil {
		return "", err
	}
	if _, err := p.expect(token.RPAREN, "to close the "+variant+" binding"); err != nil {
		return "", err
	}
	return name.Lexeme, nil
}

// parseInterpolation re-parses each expression segment of an INTERP token.
// Segment positions are rebased so diagnostics point into the real source.
func (p *Parser) parseInterpolation(tok token.Token) (ast.Expr, error) {
	segments, ok := tok.Literal.([]token.InterpPart)
	if !ok {
		return nil, p.errorf(tok, "malformed interpolation token")
	}

	node := &ast.StringInterpolation{Loc: tok.Pos}
	for _, seg := range segments {
		if !seg.IsExpr {
			node.Parts = append(node.Parts, ast.TextPart{Text: seg.Text})
			continue
		}

		subTokens, err := lexer.Scan(seg.Text)
		if err != nil {
			if lexErr, isDiag := err.(*diag.Error); isDiag {
				lexErr.Pos = rebase(lexErr.Pos, seg.Pos)
				lexErr.Source = p.source
				return nil, lexErr
			}
			return nil, err
		}
		for i := range subTokens {
			subTokens[i].Pos = rebase(subTokens[i].Pos, seg.Pos)
		}

		sub := &Parser{tokens: subTokens, source: p.source}
		expr, err := sub.parseExpression()
		if err != nil {
			return nil, err
		}
		if !sub.check(token.EOF) {
			return nil, sub.errorf(sub.cur(),
				"unexpected %s after the interpolated expression", describe(sub.cur()))
		}
		node.Parts = append(node.Parts, ast.ExprPart{Expr: expr})
	}
	return node, nil
}

// rebase maps a position inside an interpolation segment onto the segment's
// position in the enclosing source. Segments never span lines.
func rebase(pos, base token.Position) token.Position {
	if !pos.IsValid() {
		return base
	}
	return token.Position{Line: base.Line, Column: base.Column + pos.Column - 1}
}
