package token

import "fmt"

type Token struct {
	Type   TokenType
	Pos    Pos    // Position of first character in token
	EndPos Pos    // Position of character immediately after token
	Lexeme string // The token as a string literal
	Length int    // The character length of the token

	// If the token is EOF. Always true if the type is EOF and
	// vice versa. Simply a shorthand for tok.Type == token.EOF.
	Eof bool

	// True if the token is malformed: an unknown symbol or an unterminated
	// string or char literal. The scanner gives every such token the
	// ILLEGAL type as well, so Invalid is true exactly when the type is
	// ILLEGAL.
	Invalid bool
}

func (t Token) String() string {
	return fmt.Sprintf("{%d '%s' c:%d r:%d}", t.Type, t.Lexeme, t.Pos.Col, t.Pos.Row)
}

type Pos struct {
	Col       int   // Column in file
	Row       int   // Row in file, same as line number -1
	Offset    int   // Byte offset in file
	File      *File // File this position refers to
	LineBegin int   // Offset of beginning of line token is on
}
