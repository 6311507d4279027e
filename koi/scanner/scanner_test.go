package scanner

import (
	"testing"

	"github.com/jesperkha/aslc/koi/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	file := token.NewFile("", src)
	s := New(file, []byte(src))
	toks := s.ScanAll()
	if s.NumErrors != 0 {
		t.Fatalf("unexpected scan errors: %s", s.Error())
	}
	return toks
}

func assertTypes(t *testing.T, toks []token.Token, types ...token.TokenType) {
	if len(toks) != len(types) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(types), len(toks), toks)
	}
	for i, typ := range types {
		if toks[i].Type != typ {
			t.Errorf("token %d: expected type %v, got %v (%q)", i, typ, toks[i].Type, toks[i].Lexeme)
		}
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "func main endfunc foo")
	assertTypes(t, toks, token.FUNC, token.IDENT, token.ENDFUNC, token.IDENT, token.EOF)
}

func TestScanLiterals(t *testing.T) {
	toks := scanAll(t, `1 1.5 'a' "hi"`)
	assertTypes(t, toks, token.INTEGER, token.FLOAT, token.CHAR, token.STRING, token.EOF)
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(t, "<= >= == != < > = + - * / % : , ( ) [ ]")
	assertTypes(t, toks,
		token.LESS_EQ, token.GREATER_EQ, token.EQ_EQ, token.NOT_EQ,
		token.LESS, token.GREATER, token.EQ, token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.PERCENT, token.COLON, token.COMMA,
		token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK, token.EOF)
}

func TestScanIterHelpers(t *testing.T) {
	src := []byte("hello")
	file := token.NewFile("", string(src))
	s := New(file, src)

	for i, ch := range src {
		if s.eof() {
			t.Fatal("unexpected eof")
		}
		if s.cur() != ch {
			t.Errorf("expected cur=%c, got %c", ch, s.cur())
		}

		var want byte
		if i+1 < len(src) {
			want = src[i+1]
		}
		if s.peek() != want {
			t.Errorf("expected peek=%c, got %c", want, s.peek())
		}

		s.consume()
	}

	if !s.eof() {
		t.Error("expected eof")
	}
}

func TestScanComment(t *testing.T) {
	toks := scanAll(t, "x // comment\ny")
	assertTypes(t, toks, token.IDENT, token.IDENT, token.EOF)
}

func TestScanIllegalChar(t *testing.T) {
	file := token.NewFile("", "@")
	s := New(file, []byte("@"))
	toks := s.ScanAll()
	if s.NumErrors == 0 {
		t.Error("expected scan error for illegal character")
	}
	assertTypes(t, toks, token.ILLEGAL, token.EOF)
}
