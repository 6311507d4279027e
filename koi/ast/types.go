package ast

import "github.com/jesperkha/aslc/koi/token"

// TypeKind names one of the four primitive basic types the grammar allows
// in a type expression. Void never appears in a type expression; it is
// implied by a function with no declared return type.
type TypeKind int

const (
	INT TypeKind = iota
	FLOAT
	BOOL
	CHAR
)

type Type interface {
	// String returns a representation identical to the type syntax, eg.
	// "int" or "array 10 of float".
	String() string

	Pos() token.Pos
	End() token.Pos
}

type (
	// BasicType is a bare primitive type name: int, float, bool, or char.
	BasicType struct {
		Kind TypeKind
		T    token.Token
	}

	// ArrayType is "array N of T", where N is an integer literal and T is a
	// basic type.
	ArrayType struct {
		ArrayTok token.Token
		Size     token.Token // integer literal token
		Elem     *BasicType
	}
)

func (p *BasicType) String() string { return p.T.Lexeme }
func (p *BasicType) Pos() token.Pos { return p.T.Pos }
func (p *BasicType) End() token.Pos { return p.T.EndPos }

func (a *ArrayType) String() string { return "array " + a.Size.Lexeme + " of " + a.Elem.String() }
func (a *ArrayType) Pos() token.Pos { return a.ArrayTok.Pos }
func (a *ArrayType) End() token.Pos { return a.Elem.End() }
