package parser

import (
	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
)

// atBlockEnd reports whether the current token closes whichever block a
// Block is nested in (or is EOF); parseBlock stops consuming statements as
// soon as it sees one.
func (p *Parser) atBlockEnd() bool {
	return p.atEnd() || p.matchMany(token.ENDFUNC, token.ENDIF, token.ELSE, token.ENDWHILE)
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{}
	for !p.atBlockEnd() {
		stmt := p.parseStmt()
		if stmt == nil {
			p.syncToSemi()
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.READ:
		return p.parseReadStmt()
	case token.WRITE:
		return p.parseWriteStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IDENT:
		return p.parseAssignOrCallStmt()
	default:
		p.err("expected a statement, got %s", p.cur().Type)
		return nil
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	ifTok := p.consume()
	cond := p.parseExpr()
	p.expect(token.THEN)
	then := p.parseBlock()

	var elseBlock *ast.Block
	if p.match(token.ELSE) {
		p.consume()
		elseBlock = p.parseBlock()
	}

	end := p.expect(token.ENDIF)
	return &ast.IfStmt{If: ifTok, Cond: cond, Then: then, Else: elseBlock, EndToken: end}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	whileTok := p.consume()
	cond := p.parseExpr()
	body := p.parseBlock()
	end := p.expect(token.ENDWHILE)
	return &ast.WhileStmt{While: whileTok, Cond: cond, Body: body, EndToken: end}
}

func (p *Parser) parseReadStmt() *ast.ReadStmt {
	readTok := p.consume()
	left := p.parseLeftExpr()
	p.expect(token.SEMI)
	return &ast.ReadStmt{Read: readTok, Left: left}
}

func (p *Parser) parseWriteStmt() ast.Stmt {
	writeTok := p.consume()
	if p.match(token.STRING) {
		lit := p.consume()
		p.expect(token.SEMI)
		return &ast.WriteStringStmt{Write: writeTok, Literal: lit}
	}
	e := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.WriteStmt{Write: writeTok, E: e}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	retTok := p.consume()
	if p.match(token.SEMI) {
		p.consume()
		return &ast.ReturnStmt{Ret: retTok}
	}
	e := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.ReturnStmt{Ret: retTok, E: e}
}

// parseLeftExpr parses an assignable storage location: a bare identifier or
// an array element access. Distinct from parsePrimary's identifier handling
// because the grammar treats a left expression and a general expression as
// separate rules (see ast.LeftExpr).
func (p *Parser) parseLeftExpr() ast.LeftExpr {
	name := p.expect(token.IDENT)
	if p.match(token.LBRACK) {
		lbrack := p.consume()
		idx := p.parseExpr()
		rbrack := p.expect(token.RBRACK)
		return &ast.ArrayIdent{Name: name, LBrack: lbrack, Index: idx, RBrack: rbrack}
	}
	return &ast.SimpleIdent{Name: name}
}

// parseAssignOrCallStmt disambiguates "ident(...)"  (a procedure or
// function call used as a statement) from "ident = expr" and
// "ident[expr] = expr" (an assignment) by looking one token past the
// identifier.
func (p *Parser) parseAssignOrCallStmt() ast.Stmt {
	if p.peek().Type == token.LPAREN {
		call := p.parseCallExpr()
		p.expect(token.SEMI)
		return &ast.CallStmt{Call: call}
	}

	left := p.parseLeftExpr()
	eq := p.expect(token.EQ)
	e := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.AssignStmt{Left: left, Eq: eq, E: e}
}
