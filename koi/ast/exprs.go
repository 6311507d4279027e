package ast

import "github.com/jesperkha/aslc/koi/token"

// LitKind classifies a literal's surface syntax; the type checker maps this
// to a primitive Type.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	BoolLit
)

type (
	// SimpleIdent is a bare identifier used as an assignment target or read
	// target.
	SimpleIdent struct {
		Name token.Token
	}

	// ArrayIdent is "ident[expr]" used as an assignment target or read
	// target.
	ArrayIdent struct {
		Name   token.Token
		LBrack token.Token
		Index  Expr
		RBrack token.Token
	}
)

func (s *SimpleIdent) Ident() token.Token { return s.Name }
func (s *SimpleIdent) Pos() token.Pos     { return s.Name.Pos }
func (s *SimpleIdent) End() token.Pos     { return s.Name.EndPos }

func (a *ArrayIdent) Ident() token.Token { return a.Name }
func (a *ArrayIdent) Pos() token.Pos     { return a.Name.Pos }
func (a *ArrayIdent) End() token.Pos     { return a.RBrack.EndPos }

type (
	// Paren is a parenthesized expression; transparent to type checking and
	// code generation, kept only for position tracking and to carry
	// precedence through the parser.
	Paren struct {
		LParen token.Token
		E      Expr
		RParen token.Token
	}

	// Array is an array element access used as an expression (as opposed to
	// ArrayIdent, the same syntax used as an assignment or read target).
	Array struct {
		Name   token.Token
		LBrack token.Token
		Index  Expr
		RBrack token.Token
	}

	// Call is a function or procedure call, either as a statement
	// (CallStmt) or nested inside an expression.
	Call struct {
		Name   token.Token
		LParen token.Token
		Args   []Expr
		RParen token.Token
	}

	// Ident is a bare identifier used as an expression (reading a variable,
	// or an implicit call to a zero-arg function would not use this node).
	Ident struct {
		Name token.Token
	}

	// Arithmetic is a binary + - * / % expression.
	Arithmetic struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Relational is a binary == != < <= > >= expression.
	Relational struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Logic is a binary "and"/"or" expression.
	Logic struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Unary is a prefix + - or "not" expression.
	Unary struct {
		Op token.Token
		E  Expr
	}

	// Literal is an integer, float, char, or boolean constant.
	Literal struct {
		Kind  LitKind
		T     token.Token
		Value string // copied from the token's lexeme for convenience
	}
)

func (p *Paren) Pos() token.Pos { return p.LParen.Pos }
func (p *Paren) End() token.Pos { return p.RParen.EndPos }

func (a *Array) Pos() token.Pos { return a.Name.Pos }
func (a *Array) End() token.Pos { return a.RBrack.EndPos }

func (c *Call) Pos() token.Pos { return c.Name.Pos }
func (c *Call) End() token.Pos { return c.RParen.EndPos }

func (i *Ident) Pos() token.Pos { return i.Name.Pos }
func (i *Ident) End() token.Pos { return i.Name.EndPos }

func (a *Arithmetic) Pos() token.Pos { return a.Left.Pos() }
func (a *Arithmetic) End() token.Pos { return a.Right.End() }

func (r *Relational) Pos() token.Pos { return r.Left.Pos() }
func (r *Relational) End() token.Pos { return r.Right.End() }

func (l *Logic) Pos() token.Pos { return l.Left.Pos() }
func (l *Logic) End() token.Pos { return l.Right.End() }

func (u *Unary) Pos() token.Pos { return u.Op.Pos }
func (u *Unary) End() token.Pos { return u.E.End() }

func (l *Literal) Pos() token.Pos { return l.T.Pos }
func (l *Literal) End() token.Pos { return l.T.EndPos }
