package ast

import "github.com/jesperkha/aslc/koi/token"

type (
	// Ast is the root of a parsed program: an ordered list of function
	// declarations. This is the tree the semantic middle end consumes; it is
	// produced by the parser, a collaborator whose output shape this package
	// defines but whose construction lives in koi/parser.
	Ast struct {
		Functions []*Func
	}

	Node interface {
		Pos() token.Pos // Position of first token in node segment
		End() token.Pos // Position of last token in node segment

		// Accept a visitor to inspect this node. Must call the appropriate
		// visit method on the visitor for this node.
		Accept(v Visitor)
	}

	Decl interface {
		Node
	}

	Stmt interface {
		Node
	}

	// LeftExpr is an assignable storage location: a bare identifier or an
	// array element access. Distinct from Expr because the grammar treats
	// the left side of an assignment, a read target, and a general
	// expression as separate rules.
	LeftExpr interface {
		Node
		Ident() token.Token
	}

	Expr interface {
		Node
	}
)

func (t *Ast) Walk(v Visitor) {
	for _, fn := range t.Functions {
		fn.Accept(v)
	}
}

// Field is a name-type pair, used for function parameters.
type Field struct {
	Name token.Token
	Type Type
}

func (f *Field) Pos() token.Pos { return f.Name.Pos }
func (f *Field) End() token.Pos { return f.Type.End() }

// Func is a top level function (or procedure, when RetType is nil)
// declaration.
type (
	Func struct {
		Name    token.Token
		Params  []*Field
		RetType Type // nil for a procedure (void return)
		Decls   []*VarDecl
		Block   *Block
	}

	// VarDecl declares one or more local variables sharing a single type.
	VarDecl struct {
		Names []token.Token
		Type  Type
	}
)

func (f *Func) Pos() token.Pos { return f.Name.Pos }
func (f *Func) End() token.Pos { return f.Block.End() }

func (v *VarDecl) Pos() token.Pos { return v.Names[0].Pos }
func (v *VarDecl) End() token.Pos { return v.Type.End() }

// Block is an ordered list of statements, used as a function body and as
// the then/else bodies of if and the body of while.
type Block struct {
	Stmts []Stmt
}

func (b *Block) Pos() token.Pos {
	if len(b.Stmts) == 0 {
		return token.Pos{}
	}
	return b.Stmts[0].Pos()
}

func (b *Block) End() token.Pos {
	if len(b.Stmts) == 0 {
		return token.Pos{}
	}
	return b.Stmts[len(b.Stmts)-1].End()
}

type (
	AssignStmt struct {
		Left LeftExpr
		Eq   token.Token
		E    Expr
	}

	IfStmt struct {
		If       token.Token
		Cond     Expr
		Then     *Block
		Else     *Block // nil when there is no else clause
		EndToken token.Token
	}

	WhileStmt struct {
		While    token.Token
		Cond     Expr
		Body     *Block
		EndToken token.Token
	}

	CallStmt struct {
		Call *Call
	}

	ReadStmt struct {
		Read token.Token
		Left LeftExpr
	}

	WriteStmt struct {
		Write token.Token
		E     Expr
	}

	WriteStringStmt struct {
		Write   token.Token
		Literal token.Token // includes surrounding quotes
	}

	ReturnStmt struct {
		Ret token.Token
		E   Expr // nil for a bare "return"
	}
)

func (a *AssignStmt) Pos() token.Pos { return a.Left.Pos() }
func (a *AssignStmt) End() token.Pos { return a.E.End() }

func (i *IfStmt) Pos() token.Pos { return i.If.Pos }
func (i *IfStmt) End() token.Pos { return i.EndToken.EndPos }

func (w *WhileStmt) Pos() token.Pos { return w.While.Pos }
func (w *WhileStmt) End() token.Pos { return w.EndToken.EndPos }

func (c *CallStmt) Pos() token.Pos { return c.Call.Pos() }
func (c *CallStmt) End() token.Pos { return c.Call.End() }

func (r *ReadStmt) Pos() token.Pos { return r.Read.Pos }
func (r *ReadStmt) End() token.Pos { return r.Left.End() }

func (w *WriteStmt) Pos() token.Pos { return w.Write.Pos }
func (w *WriteStmt) End() token.Pos { return w.E.End() }

func (w *WriteStringStmt) Pos() token.Pos { return w.Write.Pos }
func (w *WriteStringStmt) End() token.Pos { return w.Literal.EndPos }

func (r *ReturnStmt) Pos() token.Pos { return r.Ret.Pos }
func (r *ReturnStmt) End() token.Pos {
	if r.E != nil {
		return r.E.End()
	}
	return r.Ret.EndPos
}
