package parser

import (
	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
)

// parseExpr parses a full expression, from lowest precedence ("or") down
// to a primary term: or -> and -> relational -> term -> factor -> unary ->
// primary.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseLogicOr()
}

func (p *Parser) parseLogicOr() ast.Expr {
	left := p.parseLogicAnd()
	for p.match(token.OR) {
		op := p.consume()
		right := p.parseLogicAnd()
		left = &ast.Logic{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseLogicAnd() ast.Expr {
	left := p.parseRelational()
	for p.match(token.AND) {
		op := p.consume()
		right := p.parseRelational()
		left = &ast.Logic{Left: left, Op: op, Right: right}
	}
	return left
}

// parseRelational does not chain: "a < b < c" is not a valid expression in
// this grammar, matching the single-level relational rule in the original
// grammar this language was distilled from.
func (p *Parser) parseRelational() ast.Expr {
	left := p.parseTerm()
	if p.matchMany(token.EQ_EQ, token.NOT_EQ, token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ) {
		op := p.consume()
		right := p.parseTerm()
		return &ast.Relational{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.matchMany(token.PLUS, token.MINUS) {
		op := p.consume()
		right := p.parseFactor()
		left = &ast.Arithmetic{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.matchMany(token.STAR, token.SLASH, token.PERCENT) {
		op := p.consume()
		right := p.parseUnary()
		left = &ast.Arithmetic{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.matchMany(token.PLUS, token.MINUS, token.NOT) {
		op := p.consume()
		e := p.parseUnary()
		return &ast.Unary{Op: op, E: e}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur().Type {
	case token.LPAREN:
		lparen := p.consume()
		e := p.parseExpr()
		rparen := p.expect(token.RPAREN)
		return &ast.Paren{LParen: lparen, E: e, RParen: rparen}

	case token.IDENT:
		if p.peek().Type == token.LPAREN {
			return p.parseCallExpr()
		}
		if p.peek().Type == token.LBRACK {
			name := p.consume()
			lbrack := p.consume()
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			return &ast.Array{Name: name, LBrack: lbrack, Index: idx, RBrack: rbrack}
		}
		return &ast.Ident{Name: p.consume()}

	case token.INTEGER:
		t := p.consume()
		return &ast.Literal{Kind: ast.IntLit, T: t, Value: t.Lexeme}

	case token.FLOAT:
		t := p.consume()
		return &ast.Literal{Kind: ast.FloatLit, T: t, Value: t.Lexeme}

	case token.CHAR:
		t := p.consume()
		return &ast.Literal{Kind: ast.CharLit, T: t, Value: t.Lexeme}

	case token.TRUE, token.FALSE:
		t := p.consume()
		return &ast.Literal{Kind: ast.BoolLit, T: t, Value: t.Lexeme}

	default:
		p.err("invalid expression, unexpected %s", p.cur().Type)
		t := p.consume()
		return &ast.Literal{Kind: ast.IntLit, T: t, Value: t.Lexeme}
	}
}

// parseCallExpr parses "name(args)" with the current token on name and the
// next token guaranteed to be LPAREN.
func (p *Parser) parseCallExpr() *ast.Call {
	name := p.consume()
	lparen := p.expect(token.LPAREN)

	var args []ast.Expr
	if !p.match(token.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
			p.consume()
		}
	}

	rparen := p.expect(token.RPAREN)
	return &ast.Call{Name: name, LParen: lparen, Args: args, RParen: rparen}
}
