// Package parser implements AuroraLang's recursive-descent, precedence
// climbing parser: tokens in, an *ast.Program out.
package parser

import (
	"fmt"

	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/token"
)

// ParseError reports a malformed construct with the offending token's
// position, per spec.md §4.2.
type ParseError struct {
	Message string
	File    string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d", e.Message, e.File, e.Line, e.Column)
}

// Precedence levels, lowest to highest, per spec.md §4.2.
const (
	_ int = iota
	precAssignment
	precLogicalOr
	precLogicalAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPostfix
)

// Parser consumes a token stream with two-token lookahead.
type Parser struct {
	file      string
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errs      []error
	lexErr    error
}

// New constructs a Parser over source tagged with file for diagnostics.
func New(source, file string) *Parser {
	p := &Parser{file: file, l: lexer.New(source, file)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	tok, err := p.l.Next()
	if err != nil && p.lexErr == nil {
		p.lexErr = err
	}
	if err != nil {
		tok = token.Token{Kind: token.EOF, File: p.file}
	}
	p.peekToken = tok
}

func (p *Parser) at(k token.Kind) bool     { return p.curToken.Kind == k }
func (p *Parser) peekAt(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{
		Message: fmt.Sprintf(format, args...),
		File:    p.file, Line: p.curToken.Line, Column: p.curToken.Column,
	})
}

func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.curToken
	if !p.at(k) {
		p.errorf("expected %s, got %s (%q)", k, p.curToken.Kind, p.curToken.Lexeme)
		return tok
	}
	p.next()
	return tok
}

// expectContextualKeyword consumes the current token if it is an Ident
// whose lexeme is word — used for contextual keywords like 'from', which
// lex as plain identifiers so they stay usable as ordinary names elsewhere.
func (p *Parser) expectContextualKeyword(word string) token.Token {
	tok := p.curToken
	if !p.at(token.Ident) || p.curToken.Lexeme != word {
		p.errorf("expected %q, got %s (%q)", word, p.curToken.Kind, p.curToken.Lexeme)
		return tok
	}
	p.next()
	return tok
}

// consumeSemicolon eats an optional trailing ';' — AuroraLang statements
// terminate their production whether or not one is present (spec.md §4.2
// grammar marks every trailing ';' as optional).
func (p *Parser) consumeSemicolon() {
	if p.at(token.Semicolon) {
		p.next()
	}
}

// ParseProgram parses the full token stream. It returns as much of the tree
// as could be recovered together with every error hit; ParseProgram never
// panics.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	prog := ast.NewProgram(p.curToken)
	for !p.at(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		} else {
			// Avoid infinite loops on unrecoverable input.
			p.next()
		}
	}
	errs := p.errs
	if p.lexErr != nil {
		errs = append([]error{p.lexErr}, errs...)
	}
	return prog, errs
}

func (p *Parser) parseDeclaration() ast.Statement {
	switch p.curToken.Kind {
	case token.Fun:
		if p.peekAt(token.Ident) {
			return p.parseFunctionDecl()
		}
	case token.Let, token.Const:
		return p.parseVarDecl(true)
	case token.Class:
		return p.parseClassDecl()
	case token.Import:
		return p.parseImportStmt()
	}
	return p.parseStatement()
}

func (p *Parser) parseVarDecl(eatSemi bool) *ast.VarDecl {
	decl := ast.NewVarDecl(p.curToken)
	decl.Kind = p.curToken.Lexeme
	p.next() // let/const
	nameTok := p.expect(token.Ident)
	decl.Name = nameTok.Lexeme
	if p.at(token.Assign) {
		p.next()
		decl.Init = p.parseExpression()
	}
	if eatSemi {
		p.consumeSemicolon()
	}
	return decl
}

func (p *Parser) parseParams() []string {
	p.expect(token.LeftParen)
	var params []string
	for !p.at(token.RightParen) && !p.at(token.EOF) {
		tok := p.expect(token.Ident)
		params = append(params, tok.Lexeme)
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RightParen)
	return params
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	decl := ast.NewFunctionDecl(p.curToken)
	p.next() // fun
	decl.Name = p.expect(token.Ident).Lexeme
	decl.Params = p.parseParams()
	decl.Body = p.parseBlock()
	return decl
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	decl := ast.NewClassDecl(p.curToken)
	p.next() // class
	decl.Name = p.expect(token.Ident).Lexeme
	p.expect(token.LeftBrace)
	for !p.at(token.RightBrace) && !p.at(token.EOF) {
		nameTok := p.expect(token.Ident)
		params := p.parseParams()
		body := p.parseBlock()
		decl.Methods = append(decl.Methods, &ast.MethodDef{Name: nameTok.Lexeme, Params: params, Body: body})
	}
	p.expect(token.RightBrace)
	return decl
}

func (p *Parser) parseImportStmt() ast.Statement {
	startTok := p.curToken
	p.next() // import
	if p.at(token.String) {
		imp := ast.NewImport(startTok)
		imp.Path = p.curToken.Literal.(string)
		p.next()
		p.consumeSemicolon()
		return imp
	}
	nameTok := p.expect(token.Ident)
	p.expectContextualKeyword("from")
	pathTok := p.expect(token.String)
	imp := ast.NewImportNamed(startTok)
	imp.Local = nameTok.Lexeme
	if s, ok := pathTok.Literal.(string); ok {
		imp.Path = s
	}
	p.consumeSemicolon()
	return imp
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.LeftBrace:
		return p.parseBlock()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Return:
		return p.parseReturn()
	case token.Try:
		return p.parseTry()
	case token.Throw:
		return p.parseThrow()
	case token.Break:
		b := ast.NewBreak(p.curToken)
		p.next()
		p.consumeSemicolon()
		return b
	case token.Continue:
		c := ast.NewContinue(p.curToken)
		p.next()
		p.consumeSemicolon()
		return c
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	block := ast.NewBlock(p.curToken)
	p.expect(token.LeftBrace)
	for !p.at(token.RightBrace) && !p.at(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		} else {
			p.next()
		}
	}
	p.expect(token.RightBrace)
	return block
}

func (p *Parser) parseIf() *ast.If {
	n := ast.NewIf(p.curToken)
	p.next() // if
	p.expect(token.LeftParen)
	n.Test = p.parseExpression()
	p.expect(token.RightParen)
	n.Consequent = p.parseStatement()
	if p.at(token.Else) {
		p.next()
		n.Alternate = p.parseStatement()
	}
	return n
}

func (p *Parser) parseWhile() *ast.While {
	n := ast.NewWhile(p.curToken)
	p.next() // while
	p.expect(token.LeftParen)
	n.Test = p.parseExpression()
	p.expect(token.RightParen)
	n.Body = p.parseStatement()
	return n
}

func (p *Parser) parseFor() *ast.For {
	n := ast.NewFor(p.curToken)
	p.next() // for
	p.expect(token.LeftParen)
	if p.at(token.Let) || p.at(token.Const) {
		n.Init = p.parseVarDecl(false)
	} else if !p.at(token.Semicolon) {
		n.Init = p.parseExpression()
	}
	p.expect(token.Semicolon)
	if !p.at(token.Semicolon) {
		n.Test = p.parseExpression()
	}
	p.expect(token.Semicolon)
	if !p.at(token.RightParen) {
		n.Update = p.parseExpression()
	}
	p.expect(token.RightParen)
	n.Body = p.parseStatement()
	return n
}

func (p *Parser) parseReturn() *ast.Return {
	n := ast.NewReturn(p.curToken)
	p.next() // return
	if !p.at(token.Semicolon) && !p.at(token.RightBrace) && !p.at(token.EOF) {
		n.Argument = p.parseExpression()
	}
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseTry() *ast.TryCatch {
	n := ast.NewTryCatch(p.curToken)
	p.next() // try
	n.Try = p.parseBlock()
	if p.at(token.Catch) {
		p.next()
		n.HasCatch = true
		if p.at(token.LeftParen) {
			p.next()
			if p.at(token.Ident) {
				n.CatchParam = p.curToken.Lexeme
				p.next()
			}
			p.expect(token.RightParen)
		}
		n.Catch = p.parseBlock()
	}
	return n
}

func (p *Parser) parseThrow() *ast.Throw {
	n := ast.NewThrow(p.curToken)
	p.next() // throw
	n.Argument = p.parseExpression()
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	n := ast.NewExprStmt(p.curToken)
	n.Expression = p.parseExpression()
	p.consumeSemicolon()
	return n
}

// ---------- Expressions ----------

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func isAssignTarget(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.Property, *ast.Index:
		return true
	}
	return false
}

func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseLogicalOr()
	if p.at(token.Assign) {
		tok := p.curToken
		if !isAssignTarget(left) {
			p.errorf("invalid assignment target")
		}
		p.next()
		value := p.parseAssignment() // right-associative
		n := ast.NewAssign(tok)
		n.Target = left
		n.Value = value
		return n
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.at(token.Or) {
		tok := p.curToken
		p.next()
		right := p.parseLogicalAnd()
		n := ast.NewLogical(tok)
		n.Op, n.Left, n.Right = "||", left, right
		left = n
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseEquality()
	for p.at(token.And) {
		tok := p.curToken
		p.next()
		right := p.parseEquality()
		n := ast.NewLogical(tok)
		n.Op, n.Left, n.Right = "&&", left, right
		left = n
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.at(token.Equal) || p.at(token.NotEqual) {
		tok := p.curToken
		op := tok.Lexeme
		p.next()
		right := p.parseComparison()
		n := ast.NewBinary(tok)
		n.Op, n.Left, n.Right = op, left, right
		left = n
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.at(token.Less) || p.at(token.LessEqual) || p.at(token.Greater) || p.at(token.GreaterEqual) {
		tok := p.curToken
		op := tok.Lexeme
		p.next()
		right := p.parseAdditive()
		n := ast.NewBinary(tok)
		n.Op, n.Left, n.Right = op, left, right
		left = n
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		tok := p.curToken
		op := tok.Lexeme
		p.next()
		right := p.parseMultiplicative()
		n := ast.NewBinary(tok)
		n.Op, n.Left, n.Right = op, left, right
		left = n
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parsePower()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		tok := p.curToken
		op := tok.Lexeme
		p.next()
		right := p.parsePower()
		n := ast.NewBinary(tok)
		n.Op, n.Left, n.Right = op, left, right
		left = n
	}
	return left
}

// parsePower is right-associative and binds looser than unary, per the
// precedence table in spec.md §4.2.
func (p *Parser) parsePower() ast.Expression {
	left := p.parseUnary()
	if p.at(token.Power) {
		tok := p.curToken
		p.next()
		right := p.parsePower()
		n := ast.NewBinary(tok)
		n.Op, n.Left, n.Right = "**", left, right
		return n
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Kind {
	case token.Bang, token.Minus:
		tok := p.curToken
		op := tok.Lexeme
		p.next()
		operand := p.parseUnary()
		n := ast.NewUnary(tok)
		n.Op, n.Operand = op, operand
		return n
	case token.New:
		return p.parseNewExpression()
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.next() // new
	callee := p.parseNewCallee()
	n := ast.NewNew(tok)
	if p.at(token.LeftParen) {
		n.Args = p.parseArgs()
	}
	n.Callee = callee
	return p.parsePostfix(n)
}

// parseNewCallee parses the constructor expression: a primary followed only
// by property/index accesses, stopping before the argument-list call that
// belongs to `new` itself.
func (p *Parser) parseNewCallee() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.curToken.Kind {
		case token.Dot:
			tok := p.curToken
			p.next()
			nameTok := p.expect(token.Ident)
			n := ast.NewProperty(tok)
			n.Object, n.Name = expr, nameTok.Lexeme
			expr = n
		case token.LeftBracket:
			tok := p.curToken
			p.next()
			idx := p.parseExpression()
			p.expect(token.RightBracket)
			n := ast.NewIndex(tok)
			n.Object, n.Index = expr, idx
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.curToken.Kind {
		case token.Dot:
			tok := p.curToken
			p.next()
			nameTok := p.expect(token.Ident)
			n := ast.NewProperty(tok)
			n.Object, n.Name = expr, nameTok.Lexeme
			expr = n
		case token.LeftBracket:
			tok := p.curToken
			p.next()
			idx := p.parseExpression()
			p.expect(token.RightBracket)
			n := ast.NewIndex(tok)
			n.Object, n.Index = expr, idx
			expr = n
		case token.LeftParen:
			tok := p.curToken
			args := p.parseArgs()
			n := ast.NewCall(tok)
			n.Callee, n.Args = expr, args
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expression {
	p.expect(token.LeftParen)
	var args []ast.Expression
	for !p.at(token.RightParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpression())
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.curToken
	switch tok.Kind {
	case token.Number:
		p.next()
		n := ast.NewLiteral(tok)
		n.Kind, n.Num = ast.LiteralNumber, tok.Literal.(float64)
		return n
	case token.String:
		p.next()
		n := ast.NewLiteral(tok)
		n.Kind, n.Str = ast.LiteralString, tok.Literal.(string)
		return n
	case token.True, token.False:
		p.next()
		n := ast.NewLiteral(tok)
		n.Kind, n.Bool = ast.LiteralBool, tok.Kind == token.True
		return n
	case token.Null:
		p.next()
		n := ast.NewLiteral(tok)
		n.Kind = ast.LiteralNull
		return n
	case token.This:
		p.next()
		return ast.NewThis(tok)
	case token.Ident:
		p.next()
		n := ast.NewIdentifier(tok)
		n.Name = tok.Lexeme
		return n
	case token.LeftParen:
		p.next()
		expr := p.parseExpression()
		p.expect(token.RightParen)
		return expr
	case token.LeftBracket:
		return p.parseArrayLiteral()
	case token.LeftBrace:
		return p.parseObjectLiteral()
	case token.Fun:
		return p.parseFunctionExpr()
	default:
		p.errorf("unexpected token %s (%q)", tok.Kind, tok.Lexeme)
		p.next()
		// Return a null literal so the caller has something to attach to;
		// the error already recorded is what matters.
		n := ast.NewLiteral(tok)
		n.Kind = ast.LiteralNull
		return n
	}
}

func (p *Parser) parseArrayLiteral() *ast.Array {
	n := ast.NewArray(p.curToken)
	p.expect(token.LeftBracket)
	for !p.at(token.RightBracket) && !p.at(token.EOF) {
		n.Elements = append(n.Elements, p.parseExpression())
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RightBracket)
	return n
}

func (p *Parser) parseObjectLiteral() *ast.Object {
	n := ast.NewObject(p.curToken)
	p.expect(token.LeftBrace)
	for !p.at(token.RightBrace) && !p.at(token.EOF) {
		var key string
		switch p.curToken.Kind {
		case token.Ident:
			key = p.curToken.Lexeme
			p.next()
		case token.String:
			key, _ = p.curToken.Literal.(string)
			p.next()
		default:
			p.errorf("expected property key, got %s (%q)", p.curToken.Kind, p.curToken.Lexeme)
			p.next()
		}
		p.expect(token.Colon)
		value := p.parseExpression()
		n.Props = append(n.Props, ast.ObjectProp{Key: key, Value: value})
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RightBrace)
	return n
}

func (p *Parser) parseFunctionExpr() *ast.FunctionExpr {
	n := ast.NewFunctionExpr(p.curToken)
	p.next() // fun
	if p.at(token.Ident) {
		n.Name = p.curToken.Lexeme
		p.next()
	}
	n.Params = p.parseParams()
	n.Body = p.parseBlock()
	return n
}
