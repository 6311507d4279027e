package parser

import (
	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
)

// parseFunc parses one top-level declaration:
//
//	func name(params) : type
//	  var decls
//	  stmts
//	endfunc
//
// The ": type" clause is omitted for a procedure (void return).
func (p *Parser) parseFunc() *ast.Func {
	p.expect(token.FUNC)
	name := p.expect(token.IDENT)

	params := p.parseParams()

	var retType ast.Type
	if p.match(token.COLON) {
		p.consume()
		retType = p.parseBasicType()
	}

	var decls []*ast.VarDecl
	for p.match(token.VAR) {
		decls = append(decls, p.parseVarDecl())
	}

	block := p.parseBlock()
	p.expect(token.ENDFUNC)

	return &ast.Func{
		Name:    name,
		Params:  params,
		RetType: retType,
		Decls:   decls,
		Block:   block,
	}
}

func (p *Parser) parseParams() []*ast.Field {
	p.expect(token.LPAREN)

	var fields []*ast.Field
	if p.match(token.RPAREN) {
		p.consume()
		return fields
	}

	for {
		name := p.expect(token.IDENT)
		p.expect(token.COLON)
		typ := p.parseType()
		fields = append(fields, &ast.Field{Name: name, Type: typ})

		if !p.match(token.COMMA) {
			break
		}
		p.consume()
	}

	p.expect(token.RPAREN)
	return fields
}

// parseVarDecl parses "var a, b, c : type ;".
func (p *Parser) parseVarDecl() *ast.VarDecl {
	p.expect(token.VAR)

	names := []token.Token{p.expect(token.IDENT)}
	for p.match(token.COMMA) {
		p.consume()
		names = append(names, p.expect(token.IDENT))
	}

	p.expect(token.COLON)
	typ := p.parseType()
	p.expect(token.SEMI)

	return &ast.VarDecl{Names: names, Type: typ}
}

// parseType parses a basic type name or "array N of T".
func (p *Parser) parseType() ast.Type {
	if p.match(token.ARRAY) {
		arrayTok := p.consume()
		size := p.expect(token.INTEGER)
		p.expect(token.OF)
		elem := p.parseBasicType()
		return &ast.ArrayType{ArrayTok: arrayTok, Size: size, Elem: elem}
	}
	return p.parseBasicType()
}

func (p *Parser) parseBasicType() *ast.BasicType {
	var kind ast.TypeKind
	switch p.cur().Type {
	case token.INT_TYPE:
		kind = ast.INT
	case token.FLOAT_TYPE:
		kind = ast.FLOAT
	case token.BOOL_TYPE:
		kind = ast.BOOL
	case token.CHAR_TYPE:
		kind = ast.CHAR
	default:
		p.err("expected a type name, got %s", p.cur().Type)
		return &ast.BasicType{Kind: ast.INT, T: p.cur()}
	}
	t := p.consume()
	return &ast.BasicType{Kind: kind, T: t}
}
