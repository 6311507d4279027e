package parser

import (
	"fmt"

	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
	"github.com/jesperkha/aslc/koi/util"
)

// Parser is a recursive-descent, precedence-climbing parser for SL. It
// never backtracks; on a malformed statement it reports one diagnostic and
// synchronizes to the next statement boundary so later errors in the same
// function are still found in a single pass.
type Parser struct {
	file *token.File
	toks []token.Token
	pos  int

	errs      util.ErrorHandler
	NumErrors int
}

func New(file *token.File, toks []token.Token) *Parser {
	return &Parser{file: file, toks: toks}
}

func (p *Parser) Error() error {
	return p.errs.Error()
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) atEnd() bool {
	return p.cur().Type == token.EOF
}

func (p *Parser) consume() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) match(tt token.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) matchMany(tts ...token.TokenType) bool {
	for _, tt := range tts {
		if p.match(tt) {
			return true
		}
	}
	return false
}

// expect consumes the current token if it has type tt, otherwise reports a
// diagnostic and returns the unconsumed token so the caller can keep going.
func (p *Parser) expect(tt token.TokenType) token.Token {
	if !p.match(tt) {
		p.errAt(p.cur(), "expected %s, got %s", tt, p.cur().Type)
		return p.cur()
	}
	return p.consume()
}

func (p *Parser) errAt(tok token.Token, format string, args ...any) {
	p.NumErrors++
	msg := fmt.Sprintf(format, args...)
	if p.file == nil || tok.Pos.Row >= len(p.file.Lines) {
		p.errs.Add(fmt.Errorf("%s", msg))
		return
	}
	p.errs.Pretty(tok.Pos.Row+1, p.file.Line(tok.Pos.Row), msg, tok.Pos.Col, tok.EndPos.Col)
}

func (p *Parser) err(format string, args ...any) {
	p.errAt(p.cur(), format, args...)
}

// syncToSemi advances past tokens until it passes a SEMI or reaches a
// block-closing keyword or EOF, so one malformed statement does not cascade
// into spurious errors on every token after it.
func (p *Parser) syncToSemi() {
	for !p.atEnd() {
		if p.cur().Type == token.SEMI {
			p.consume()
			return
		}
		if p.matchMany(token.ENDFUNC, token.ENDIF, token.ELSE, token.ENDWHILE) {
			return
		}
		p.consume()
	}
}

func (p *Parser) Parse() *ast.Ast {
	tree := &ast.Ast{}
	for !p.atEnd() {
		fn := p.parseFunc()
		if fn != nil {
			tree.Functions = append(tree.Functions, fn)
		}
	}
	return tree
}
