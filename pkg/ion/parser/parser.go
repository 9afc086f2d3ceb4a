package parser

import (
	"fmt"

	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/effect"
	"ion-lang/ionc/pkg/ion/token"
)

// Parser consumes one token stream and produces one Program. It is not
// reusable across inputs; build a new one per parse.
type Parser struct {
	tokens []token.Token
	pos    int
	source string // source name for diagnostics
}

// Parse builds the AST for a token stream produced by the lexer. sourceName
// is used in diagnostics and recorded on the Program. The error, when
// non-nil, is a *diag.Error with kind diag.KindParse.
func Parse(tokens []token.Token, sourceName string) (*ast.Program, error) {
	p := &Parser{tokens: tokens, source: sourceName}
	return p.parseProgram()
}

// cur returns the token at the current position. Past the end it returns
// the final EOF token, so lookahead never goes out of range.
func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.Token{Type: token.EOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// peekAt returns the token n positions ahead of the current one.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.Token{Type: token.EOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// prev returns the most recently consumed token.
func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return token.Token{}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) check(tt token.Type) bool {
	return p.cur().Type == tt
}

// match consumes the current token when it has the given type.
func (p *Parser) match(tt token.Type) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type or fails with a diagnostic
// naming what construct needed it.
func (p *Parser) expect(tt token.Type, context string) (token.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf(p.cur(), "expected %s %s, got %s", tt, context, describe(p.cur()))
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) *diag.Error {
	err := diag.Errorf(diag.KindParse, tok.Pos, format, args...)
	err.Source = p.source
	return err
}

// describe renders a token for error messages: the type name plus the
// lexeme when it adds information.
func describe(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.EFFECT:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	default:
		return fmt.Sprintf("%q", t.Lexeme)
	}
}

// skipTerminator consumes one optional statement-ending semicolon.
func (p *Parser) skipTerminator() {
	p.match(token.SEMICOLON)
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{SourceName: p.source}
	for !p.check(token.EOF) {
		stmt, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseTopLevel() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.MODULE:
		return p.parseModule()
	case token.IMPORT, token.FROM:
		return p.parseImport()
	case token.EXPORT:
		// `export {` is a standalone export list; `export function` and
		// `export pure function` prefix a declaration.
		if p.peekAt(1).Type == token.LBRACE {
			return p.parseExportStatement()
		}
		return p.parseFunction()
	case token.PURE, token.FUNCTION:
		return p.parseFunction()
	default:
		return nil, p.errorf(p.cur(),
			"expected a module, import, export or function declaration, got %s", describe(p.cur()))
	}
}

// parseModule parses `module Name { ... }`. The body accepts function
// declarations and export statements; Exports collects every visible name.
func (p *Parser) parseModule() (ast.Stmt, error) {
	kw := p.advance() // module
	name, err := p.expect(token.IDENT, "for the module name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "to open the module body"); err != nil {
		return nil, err
	}

	mod := &ast.ModuleDeclaration{Name: name.Lexeme, Loc: kw.Pos}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		switch p.cur().Type {
		case token.EXPORT:
			if p.peekAt(1).Type == token.LBRACE {
				stmt, err := p.parseExportStatement()
				if err != nil {
					return nil, err
				}
				exp := stmt.(*ast.ExportStatement)
				mod.Body = append(mod.Body, exp)
				mod.Exports = appendUnique(mod.Exports, exp.Names...)
				continue
			}
			fallthrough
		case token.PURE, token.FUNCTION:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			decl := fn.(*ast.FunctionDeclaration)
			mod.Body = append(mod.Body, decl)
			if decl.IsExported {
				mod.Exports = appendUnique(mod.Exports, decl.Name)
			}
		default:
			return nil, p.errorf(p.cur(),
				"expected a function declaration or export inside module %q, got %s",
				mod.Name, describe(p.cur()))
		}
	}
	if _, err := p.expect(token.RBRACE, fmt.Sprintf("to close module %q", mod.Name)); err != nil {
		return nil, err
	}
	return mod, nil
}

// parseImport parses the three import spellings:
//
//	import Name
//	import Name.{a, b} / import Name.*
//	from Name import {a, b}
func (p *Parser) parseImport() (ast.Stmt, error) {
	if p.cur().Type == token.FROM {
		kw := p.advance() // from
		name, err := p.expect(token.IDENT, "for the module name after 'from'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.IMPORT, "after the module name"); err != nil {
			return nil, err
		}
		names, err := p.parseNameList("import")
		if err != nil {
			return nil, err
		}
		p.skipTerminator()
		return &ast.ImportStatement{ModuleName: name.Lexeme, Names: names, Loc: kw.Pos}, nil
	}

	kw := p.advance() // import
	name, err := p.expect(token.IDENT, "for the module name after 'import'")
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStatement{ModuleName: name.Lexeme, Loc: kw.Pos}

	if p.match(token.DOT) {
		switch p.cur().Type {
		case token.STAR:
			p.advance()
			stmt.Wildcard = true
		case token.LBRACE:
			names, err := p.parseNameList("import")
			if err != nil {
				return nil, err
			}
			stmt.Names = names
		default:
			return nil, p.errorf(p.cur(),
				"expected '*' or '{names}' after %q., got %s", stmt.ModuleName, describe(p.cur()))
		}
	}
	p.skipTerminator()
	return stmt, nil
}

func (p *Parser) parseExportStatement() (ast.Stmt, error) {
	kw := p.advance() // export
	names, err := p.parseNameList("export")
	if err != nil {
		return nil, err
	}
	p.skipTerminator()
	return &ast.ExportStatement{Names: names, Loc: kw.Pos}, nil
}

// parseNameList parses `{ a, b, c }` for import and export statements.
func (p *Parser) parseNameList(what string) ([]string, error) {
	if _, err := p.expect(token.LBRACE, "to open the "+what+" list"); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, err := p.expect(token.IDENT, "in the "+what+" list")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Lexeme)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RBRACE, "to close the "+what+" list"); err != nil {
		return nil, err
	}
	return names, nil
}

// parseFunction parses a function declaration, including the optional
// export/pure prefixes, uses clause and return type.
func (p *Parser) parseFunction() (ast.Stmt, error) {
	start := p.cur()
	exported := p.match(token.EXPORT)
	pure := p.match(token.PURE)

	if _, err := p.expect(token.FUNCTION, "to begin a function declaration"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, "for the function name")
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams(name.Lexeme)
	if err != nil {
		return nil, err
	}

	var effects []effect.Effect
	if p.check(token.USES) {
		usesTok := p.cur()
		if pure {
			return nil, p.errorf(usesTok,
				"pure function %q cannot declare effects; drop 'pure' or the uses clause", name.Lexeme)
		}
		effects, err = p.parseUsesClause()
		if err != nil {
			return nil, err
		}
	}

	var returnType *ast.TypeRef
	if p.match(token.ARROW) {
		returnType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if !p.check(token.LBRACE) {
		return nil, p.errorf(p.cur(), "function %q is missing a body", name.Lexeme)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		IsPure:     pure,
		Effects:    effects,
		IsExported: exported,
		Loc:        start.Pos,
	}, nil
}

func (p *Parser) parseParams(fnName string) ([]*ast.Parameter, error) {
	if _, err := p.expect(token.LPAREN, "after the function name"); err != nil {
		return nil, err
	}
	if p.match(token.RPAREN) {
		return nil, nil
	}

	var params []*ast.Parameter
	for {
		name, err := p.expect(token.IDENT, "for a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, fmt.Sprintf("after parameter %q", name.Lexeme)); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{Name: name.Lexeme, Type: typ, Loc: name.Pos})
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN, fmt.Sprintf("to close the parameters of %q", fnName)); err != nil {
		return nil, err
	}
	return params, nil
}

// parseUsesClause parses `uses [Effect, ...]`. Every listed name must be a
// member of the closed effect vocabulary; anything else fails here with a
// suggestion, never later.
func (p *Parser) parseUsesClause() ([]effect.Effect, error) {
	p.advance() // uses
	if _, err := p.expect(token.LBRACKET, "after 'uses'"); err != nil {
		return nil, err
	}
	if p.check(token.RBRACKET) {
		return nil, p.errorf(p.cur(), "uses clause requires at least one effect")
	}

	var effects []effect.Effect
	for {
		tok := p.cur()
		switch tok.Type {
		case token.EFFECT:
			p.advance()
			e, _ := effect.Parse(tok.Lexeme)
			if effect.Contains(effects, e) {
				return nil, p.errorf(tok, "duplicate effect %q in uses clause", tok.Lexeme)
			}
			effects = append(effects, e)
		case token.IDENT:
			err := p.errorf(tok, "unknown effect %q", tok.Lexeme)
			err.Suggestion = diag.SuggestEffect(tok.Lexeme)
			return nil, err
		default:
			return nil, p.errorf(tok, "expected an effect name, got %s", describe(tok))
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RBRACKET, "to close the uses clause"); err != nil {
		return nil, err
	}
	return effects, nil
}

// parseType parses a type annotation. Result must take exactly two type
// arguments; other names may take any number, their arity is the target's
// concern.
func (p *Parser) parseType() (*ast.TypeRef, error) {
	var name token.Token
	switch p.cur().Type {
	case token.IDENT:
		name = p.advance()
	case token.RESULT:
		name = p.advance()
	default:
		return nil, p.errorf(p.cur(), "expected a type name, got %s", describe(p.cur()))
	}

	ref := &ast.TypeRef{Name: name.Lexeme, Loc: name.Pos}
	if p.match(token.LT) {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ref.Args = append(ref.Args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.GT, fmt.Sprintf("to close the type arguments of %q", ref.Name)); err != nil {
			return nil, err
		}
	}

	if ref.IsResult() && len(ref.Args) != 2 {
		return nil, p.errorf(name,
			"Result requires exactly two type arguments, got %d", len(ref.Args))
	}
	return ref, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBRACE, "to open a block"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE, "to close the block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.GUARD:
		return p.parseGuard()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLet() (ast.Stmt, error) {
	kw := p.advance() // let
	name, err := p.expect(token.IDENT, "for the let binding name")
	if err != nil {
		return nil, err
	}

	var typ *ast.TypeRef
	if p.match(token.COLON) {
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.ASSIGN, fmt.Sprintf("in the let binding of %q", name.Lexeme)); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipTerminator()
	return &ast.LetStatement{Name: name.Lexeme, Type: typ, Value: value, Loc: kw.Pos}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance() // if
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Cond: cond, ThenBody: thenBody, Loc: kw.Pos}
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.ElseBody = []ast.Stmt{elseIf}
		} else {
			elseBody, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.ElseBody = elseBody
		}
	}
	return stmt, nil
}

// parseGuard parses `guard cond else { ... }`. The else body is expected to
// escape the enclosing function; the validator reports bodies that cannot.
func (p *Parser) parseGuard() (ast.Stmt, error) {
	kw := p.advance() // guard
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "after the guard condition"); err != nil {
		return nil, err
	}
	elseBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.GuardStatement{Cond: cond, ElseBody: elseBody, Loc: kw.Pos}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance() // return
	stmt := &ast.ReturnStatement{Loc: kw.Pos}
	if !p.check(token.RBRACE) && !p.check(token.SEMICOLON) && !p.check(token.EOF) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	p.skipTerminator()
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	start := p.cur()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipTerminator()
	return &ast.ExpressionStatement{Value: value, Loc: start.Pos}, nil
}

func appendUnique(list []string, names ...string) []string {
	for _, n := range names {
		found := false
		for _, existing := range list {
			if existing == n {
				found = true
				break
			}
		}
		if !found {
			list = append(list, n)
		}
	}
	return list
}
