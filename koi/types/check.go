package types

import (
	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
)

// Checker implements ast.Visitor to run the type-checking pass. It re-enters
// every scope the Collector built, in the same order, via PushThisScope, so
// name resolution during checking sees exactly the bindings collection left
// behind. Every expression and left-expression node is decorated with its
// type and l-value flag; every statement is checked against the rules in
// the component design and reported through Diagnostics on violation.
type Checker struct {
	reg   *Registry
	tbl   *SymbolTable
	dec   *Decorations
	diags *Diagnostics
	tree  *ast.Ast

	currentFuncReturnType Id
}

func NewChecker(reg *Registry, tbl *SymbolTable, dec *Decorations, diags *Diagnostics, tree *ast.Ast) *Checker {
	return &Checker{reg: reg, tbl: tbl, dec: dec, diags: diags, tree: tree}
}

func (c *Checker) Check() {
	for _, fn := range c.tree.Functions {
		fn.Accept(c)
	}
}

func (c *Checker) VisitFunc(node *ast.Func) {
	c.tbl.PushThisScope(c.dec.Scope(node))

	prevRet := c.currentFuncReturnType
	c.currentFuncReturnType = c.dec.Type(node)

	node.Block.Accept(c)

	c.currentFuncReturnType = prevRet
	c.tbl.PopScope()
}

// Declarations carry no expressions; nothing left to check once collection
// has bound their names.
func (c *Checker) VisitVarDecl(node *ast.VarDecl) {}

func (c *Checker) VisitBlock(node *ast.Block) {
	for _, stmt := range node.Stmts {
		stmt.Accept(c)
	}
}

func (c *Checker) VisitAssignStmt(node *ast.AssignStmt) {
	node.Left.Accept(c)
	node.E.Accept(c)

	lt := c.dec.Type(node.Left)
	rt := c.dec.Type(node.E)

	if !c.reg.IsError(lt) && !c.reg.IsError(rt) && !c.reg.IsVoid(rt) && !c.reg.CopyableTypes(lt, rt) {
		c.diags.IncompatibleAssignment(node.Eq.Pos)
	}
	if !c.reg.IsError(lt) && !c.dec.IsLValue(node.Left) {
		c.diags.NonReferenceableLeftExpr(node.Left.Pos())
	}
}

func (c *Checker) VisitIfStmt(node *ast.IfStmt) {
	node.Cond.Accept(c)
	c.requireBoolean(node.Cond)

	node.Then.Accept(c)
	if node.Else != nil {
		node.Else.Accept(c)
	}
}

func (c *Checker) VisitWhileStmt(node *ast.WhileStmt) {
	node.Cond.Accept(c)
	c.requireBoolean(node.Cond)
	node.Body.Accept(c)
}

func (c *Checker) requireBoolean(e ast.Expr) {
	t := c.dec.Type(e)
	if c.reg.IsError(t) {
		return
	}
	if !c.reg.IsBool(t) {
		c.diags.BooleanRequired(e.Pos())
	}
}

func (c *Checker) VisitCallStmt(node *ast.CallStmt) {
	c.checkCall(node.Call)
}

func (c *Checker) VisitReadStmt(node *ast.ReadStmt) {
	node.Left.Accept(c)
	t := c.dec.Type(node.Left)
	if !c.reg.IsError(t) && !c.reg.IsPrimitive(t) && !c.reg.IsFunction(t) {
		c.diags.ReadWriteRequireBasic(node.Left.Pos())
	}
	if !c.reg.IsError(t) && !c.dec.IsLValue(node.Left) {
		c.diags.NonReferenceableExpression(node.Left.Pos())
	}
}

func (c *Checker) VisitWriteStmt(node *ast.WriteStmt) {
	node.E.Accept(c)
	t := c.dec.Type(node.E)
	if c.reg.IsError(t) {
		return
	}
	if !c.reg.IsPrimitive(t) {
		c.diags.ReadWriteRequireBasic(node.E.Pos())
	}
}

// A literal string is always a valid write operand; nothing to check.
func (c *Checker) VisitWriteStringStmt(node *ast.WriteStringStmt) {}

func (c *Checker) VisitReturnStmt(node *ast.ReturnStmt) {
	if node.E == nil {
		if !c.reg.IsVoid(c.currentFuncReturnType) {
			c.diags.IncompatibleReturn(node.Ret.Pos)
		}
		return
	}

	node.E.Accept(c)
	et := c.dec.Type(node.E)
	if c.reg.IsError(et) {
		return
	}
	if c.reg.IsVoid(c.currentFuncReturnType) || !c.reg.CopyableTypes(c.currentFuncReturnType, et) {
		c.diags.IncompatibleReturn(node.E.Pos())
	}
}

func (c *Checker) VisitSimpleIdent(node *ast.SimpleIdent) {
	sym, ok := c.tbl.FindInStack(node.Name.Lexeme)
	if !ok {
		c.diags.UndeclaredIdent(node.Name)
		c.dec.SetType(node, c.reg.Error())
		c.dec.SetLValue(node, false)
		return
	}
	c.dec.SetType(node, sym.Type)
	c.dec.SetLValue(node, sym.Kind != Function)
}

func (c *Checker) VisitArrayIdent(node *ast.ArrayIdent) {
	sym, ok := c.tbl.FindInStack(node.Name.Lexeme)
	if !ok {
		c.diags.UndeclaredIdent(node.Name)
		c.dec.SetType(node, c.reg.Error())
		c.dec.SetLValue(node, false)
		node.Index.Accept(c)
		return
	}
	if !c.reg.IsArray(sym.Type) {
		c.diags.NonArrayInArrayAccess(node.Name)
		c.dec.SetType(node, c.reg.Error())
		c.dec.SetLValue(node, false)
		node.Index.Accept(c)
		return
	}

	node.Index.Accept(c)
	idxType := c.dec.Type(node.Index)
	if !c.reg.IsError(idxType) && !c.reg.IsInteger(idxType) {
		c.diags.NonIntegerIndexInArrayAccess(node.Index.Pos())
	}

	c.dec.SetType(node, c.reg.ArrayElemType(sym.Type))
	c.dec.SetLValue(node, true)
}

func (c *Checker) VisitParen(node *ast.Paren) {
	node.E.Accept(c)
	c.dec.SetType(node, c.dec.Type(node.E))
	c.dec.SetLValue(node, c.dec.IsLValue(node.E))
}

func (c *Checker) VisitArray(node *ast.Array) {
	sym, ok := c.tbl.FindInStack(node.Name.Lexeme)
	if !ok {
		c.diags.UndeclaredIdent(node.Name)
		c.dec.SetType(node, c.reg.Error())
		node.Index.Accept(c)
		return
	}
	if !c.reg.IsArray(sym.Type) {
		c.diags.NonArrayInArrayAccess(node.Name)
		c.dec.SetType(node, c.reg.Error())
		node.Index.Accept(c)
		return
	}

	node.Index.Accept(c)
	idxType := c.dec.Type(node.Index)
	if !c.reg.IsError(idxType) && !c.reg.IsInteger(idxType) {
		c.diags.NonIntegerIndexInArrayAccess(node.Index.Pos())
	}

	c.dec.SetType(node, c.reg.ArrayElemType(sym.Type))
	c.dec.SetLValue(node, true)
}

// checkCall resolves the callee, validates arity and parameter types, types
// every argument expression, and decorates call with its return type. It is
// shared by the statement and expression call sites; only the expression
// site additionally rejects a void result (VisitCall).
func (c *Checker) checkCall(call *ast.Call) Id {
	sym, ok := c.tbl.FindInStack(call.Name.Lexeme)
	if !ok {
		c.diags.UndeclaredIdent(call.Name)
		for _, arg := range call.Args {
			arg.Accept(c)
		}
		c.dec.SetType(call, c.reg.Error())
		return c.reg.Error()
	}
	if sym.Kind != Function {
		c.diags.IsNotCallable(call.Name)
		for _, arg := range call.Args {
			arg.Accept(c)
		}
		c.dec.SetType(call, c.reg.Error())
		return c.reg.Error()
	}

	fnType := sym.Type
	params := c.reg.FuncParamTypes(fnType)
	if len(call.Args) != len(params) {
		c.diags.NumberOfParameters(call.Pos(), call.Name.Lexeme)
	}

	n := len(call.Args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		call.Args[i].Accept(c)
		argType := c.dec.Type(call.Args[i])
		if !c.reg.IsError(argType) && !c.reg.CopyableTypes(params[i], argType) {
			c.diags.IncompatibleParameter(call.Args[i].Pos(), i, call.Name.Lexeme)
		}
	}
	for i := n; i < len(call.Args); i++ {
		call.Args[i].Accept(c)
	}

	ret := c.reg.FuncReturnType(fnType)
	c.dec.SetType(call, ret)
	c.dec.SetLValue(call, false)
	return ret
}

func (c *Checker) VisitCall(node *ast.Call) {
	ret := c.checkCall(node)
	if !c.reg.IsError(ret) && c.reg.IsVoid(ret) {
		c.diags.IsNotFunction(node.Name)
	}
}

func (c *Checker) VisitIdent(node *ast.Ident) {
	sym, ok := c.tbl.FindInStack(node.Name.Lexeme)
	if !ok {
		c.diags.UndeclaredIdent(node.Name)
		c.dec.SetType(node, c.reg.Error())
		c.dec.SetLValue(node, false)
		return
	}
	c.dec.SetType(node, sym.Type)
	c.dec.SetLValue(node, sym.Kind != Function)
}

func (c *Checker) VisitArithmetic(node *ast.Arithmetic) {
	node.Left.Accept(c)
	node.Right.Accept(c)

	lt := c.dec.Type(node.Left)
	rt := c.dec.Type(node.Right)
	if c.reg.IsError(lt) || c.reg.IsError(rt) {
		c.dec.SetType(node, c.reg.Error())
		return
	}

	if node.Op.Type == token.PERCENT {
		if !c.reg.IsInteger(lt) || !c.reg.IsInteger(rt) {
			c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
			c.dec.SetType(node, c.reg.Error())
			return
		}
		c.dec.SetType(node, c.reg.Integer())
		c.dec.SetLValue(node, false)
		return
	}

	if !c.reg.IsNumeric(lt) || !c.reg.IsNumeric(rt) {
		c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
		c.dec.SetType(node, c.reg.Error())
		return
	}

	result := c.reg.Float()
	if c.reg.IsInteger(lt) && c.reg.IsInteger(rt) {
		result = c.reg.Integer()
	}
	c.dec.SetType(node, result)
	c.dec.SetLValue(node, false)
}

func (c *Checker) relOpFor(t token.TokenType) RelOp {
	switch t {
	case token.EQ_EQ:
		return OpEq
	case token.NOT_EQ:
		return OpNeq
	case token.LESS:
		return OpLt
	case token.LESS_EQ:
		return OpLe
	case token.GREATER:
		return OpGt
	default:
		return OpGe
	}
}

func (c *Checker) VisitRelational(node *ast.Relational) {
	node.Left.Accept(c)
	node.Right.Accept(c)

	lt := c.dec.Type(node.Left)
	rt := c.dec.Type(node.Right)
	if c.reg.IsError(lt) || c.reg.IsError(rt) {
		c.dec.SetType(node, c.reg.Error())
		return
	}

	if !c.reg.ComparableTypes(lt, rt, c.relOpFor(node.Op.Type)) {
		c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
		c.dec.SetType(node, c.reg.Error())
		return
	}
	c.dec.SetType(node, c.reg.Boolean())
	c.dec.SetLValue(node, false)
}

func (c *Checker) VisitLogic(node *ast.Logic) {
	node.Left.Accept(c)
	node.Right.Accept(c)

	lt := c.dec.Type(node.Left)
	rt := c.dec.Type(node.Right)
	if c.reg.IsError(lt) || c.reg.IsError(rt) {
		c.dec.SetType(node, c.reg.Error())
		return
	}

	if !c.reg.IsBool(lt) || !c.reg.IsBool(rt) {
		c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
		c.dec.SetType(node, c.reg.Error())
		return
	}
	c.dec.SetType(node, c.reg.Boolean())
	c.dec.SetLValue(node, false)
}

func (c *Checker) VisitUnary(node *ast.Unary) {
	node.E.Accept(c)
	et := c.dec.Type(node.E)
	if c.reg.IsError(et) {
		c.dec.SetType(node, c.reg.Error())
		return
	}

	switch node.Op.Type {
	case token.PLUS, token.MINUS:
		if !c.reg.IsNumeric(et) {
			c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
			c.dec.SetType(node, c.reg.Error())
			return
		}
		c.dec.SetType(node, et)

	case token.NOT:
		if !c.reg.IsBool(et) {
			c.diags.IncompatibleOperator(node.Op.Pos, node.Op.Lexeme)
			c.dec.SetType(node, c.reg.Error())
			return
		}
		c.dec.SetType(node, c.reg.Boolean())

	default:
		c.dec.SetType(node, c.reg.Error())
	}
	c.dec.SetLValue(node, false)
}

func (c *Checker) VisitLiteral(node *ast.Literal) {
	switch node.Kind {
	case ast.IntLit:
		c.dec.SetType(node, c.reg.Integer())
	case ast.FloatLit:
		c.dec.SetType(node, c.reg.Float())
	case ast.CharLit:
		c.dec.SetType(node, c.reg.Character())
	case ast.BoolLit:
		c.dec.SetType(node, c.reg.Boolean())
	default:
		c.dec.SetType(node, c.reg.Error())
	}
	c.dec.SetLValue(node, false)
}
