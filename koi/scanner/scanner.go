package scanner

import (
	"fmt"

	"github.com/jesperkha/aslc/koi/token"
	"github.com/jesperkha/aslc/util"
)

// Scanner turns source text into a stream of tokens for the parser. It is
// single pass and does not look beyond one character of lookahead, except
// for the two-character operators (==, !=, <=, >=).
type Scanner struct {
	file *token.File
	text []byte

	offset int // Byte offset of the character currently under the cursor
	row    int
	col    int

	lineBegin int

	errors    util.ErrorList
	NumErrors int
}

// New makes a new Scanner for file. text is the raw source to scan; file
// carries the name used in diagnostics.
func New(file *token.File, text []byte) *Scanner {
	return &Scanner{
		file: file,
		text: text,
	}
}

func (s *Scanner) Error() error {
	return s.errors.Error()
}

func (s *Scanner) eof() bool {
	return s.offset >= len(s.text)
}

func (s *Scanner) cur() byte {
	if s.eof() {
		return 0
	}
	return s.text[s.offset]
}

func (s *Scanner) peek() byte {
	if s.offset+1 >= len(s.text) {
		return 0
	}
	return s.text[s.offset+1]
}

func (s *Scanner) consume() byte {
	c := s.cur()
	s.offset++
	if c == '\n' {
		s.row++
		s.col = 0
		s.lineBegin = s.offset
	} else {
		s.col++
	}
	return c
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{
		Col:       s.col,
		Row:       s.row,
		Offset:    s.offset,
		File:      s.file,
		LineBegin: s.lineBegin,
	}
}

func (s *Scanner) err(pos token.Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.errors.Add(fmt.Errorf("%s:%d:%d: %s", s.file.Name, pos.Row+1, pos.Col+1, msg))
	s.NumErrors++
}

// ScanAll scans every token in the source, including the trailing EOF
// token, and returns them in order.
func (s *Scanner) ScanAll() []token.Token {
	toks := []token.Token{}
	for {
		t := s.Scan()
		toks = append(toks, t)
		if t.Eof {
			break
		}
	}
	return toks
}

// Scan consumes and returns the next token, skipping leading whitespace and
// comments.
func (s *Scanner) Scan() token.Token {
	s.skipSpaceAndComments()

	start := s.pos()
	startOffset := s.offset

	if s.eof() {
		return s.make(token.EOF, start, startOffset)
	}

	c := s.cur()

	switch {
	case isAlpha(c):
		return s.scanIdent(start, startOffset)
	case isNum(c):
		return s.scanNumber(start, startOffset)
	case c == '"':
		return s.scanString(start, startOffset)
	case c == '\'':
		return s.scanChar(start, startOffset)
	}

	return s.scanSymbol(start, startOffset)
}

func (s *Scanner) make(typ token.TokenType, start token.Pos, startOffset int) token.Token {
	lexeme := string(s.text[startOffset:s.offset])
	return token.Token{
		Type:   typ,
		Pos:    start,
		EndPos: s.pos(),
		Lexeme: lexeme,
		Length: len(lexeme),
		Eof:    typ == token.EOF,
	}
}

func (s *Scanner) invalid(start token.Pos, startOffset int) token.Token {
	t := s.make(token.ILLEGAL, start, startOffset)
	t.Invalid = true
	return t
}

func (s *Scanner) skipSpaceAndComments() {
	for !s.eof() {
		switch {
		case isWhitespace(s.cur()):
			s.consume()
		case s.cur() == '/' && s.peek() == '/':
			for !s.eof() && s.cur() != '\n' {
				s.consume()
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanIdent(start token.Pos, startOffset int) token.Token {
	for isAlpha(s.cur()) || isNum(s.cur()) {
		s.consume()
	}

	t := s.make(token.IDENT, start, startOffset)
	if kw, ok := token.Keywords[t.Lexeme]; ok {
		t.Type = kw
	}
	return t
}

func (s *Scanner) scanNumber(start token.Pos, startOffset int) token.Token {
	for isNum(s.cur()) {
		s.consume()
	}

	typ := token.INTEGER
	if s.cur() == '.' && isNum(s.peek()) {
		typ = token.FLOAT
		s.consume() // '.'
		for isNum(s.cur()) {
			s.consume()
		}
	}

	return s.make(typ, start, startOffset)
}

func (s *Scanner) scanString(start token.Pos, startOffset int) token.Token {
	s.consume() // opening quote
	for !s.eof() && s.cur() != '"' {
		if s.cur() == '\\' && !s.eof() {
			s.consume()
		}
		s.consume()
	}

	if s.eof() {
		s.err(start, "unterminated string literal")
		return s.invalid(start, startOffset)
	}

	s.consume() // closing quote
	return s.make(token.STRING, start, startOffset)
}

func (s *Scanner) scanChar(start token.Pos, startOffset int) token.Token {
	s.consume() // opening quote
	if s.cur() == '\\' {
		s.consume()
	}
	if !s.eof() {
		s.consume()
	}

	if s.cur() != '\'' {
		s.err(start, "unterminated char literal")
		return s.invalid(start, startOffset)
	}

	s.consume() // closing quote
	return s.make(token.CHAR, start, startOffset)
}

func (s *Scanner) scanSymbol(start token.Pos, startOffset int) token.Token {
	two := string(s.cur()) + string(s.peek())
	if typ, ok := token.DoubleSymbols[two]; ok {
		s.consume()
		s.consume()
		return s.make(typ, start, startOffset)
	}

	one := string(s.cur())
	if typ, ok := token.SingleSymbols[one]; ok {
		s.consume()
		return s.make(typ, start, startOffset)
	}

	s.err(start, "unexpected character '%c'", s.cur())
	s.consume()
	return s.invalid(start, startOffset)
}
