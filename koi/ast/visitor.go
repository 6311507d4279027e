package ast

// Visitor is implemented by each tree-walking pass of the middle end
// (symbol collection, type checking, t-code generation). Each concrete node
// type's Accept method calls back into the matching Visit method, giving
// double dispatch over the node kind without runtime type switches at the
// call site.
type Visitor interface {
	VisitFunc(node *Func)
	VisitVarDecl(node *VarDecl)
	VisitBlock(node *Block)
	VisitAssignStmt(node *AssignStmt)
	VisitIfStmt(node *IfStmt)
	VisitWhileStmt(node *WhileStmt)
	VisitCallStmt(node *CallStmt)
	VisitReadStmt(node *ReadStmt)
	VisitWriteStmt(node *WriteStmt)
	VisitWriteStringStmt(node *WriteStringStmt)
	VisitReturnStmt(node *ReturnStmt)

	VisitSimpleIdent(node *SimpleIdent)
	VisitArrayIdent(node *ArrayIdent)

	VisitParen(node *Paren)
	VisitArray(node *Array)
	VisitCall(node *Call)
	VisitIdent(node *Ident)
	VisitArithmetic(node *Arithmetic)
	VisitRelational(node *Relational)
	VisitLogic(node *Logic)
	VisitUnary(node *Unary)
	VisitLiteral(node *Literal)
}

func (n *Func) Accept(v Visitor)            { v.VisitFunc(n) }
func (n *VarDecl) Accept(v Visitor)         { v.VisitVarDecl(n) }
func (n *Block) Accept(v Visitor)           { v.VisitBlock(n) }
func (n *AssignStmt) Accept(v Visitor)      { v.VisitAssignStmt(n) }
func (n *IfStmt) Accept(v Visitor)          { v.VisitIfStmt(n) }
func (n *WhileStmt) Accept(v Visitor)       { v.VisitWhileStmt(n) }
func (n *CallStmt) Accept(v Visitor)        { v.VisitCallStmt(n) }
func (n *ReadStmt) Accept(v Visitor)        { v.VisitReadStmt(n) }
func (n *WriteStmt) Accept(v Visitor)       { v.VisitWriteStmt(n) }
func (n *WriteStringStmt) Accept(v Visitor) { v.VisitWriteStringStmt(n) }
func (n *ReturnStmt) Accept(v Visitor)      { v.VisitReturnStmt(n) }

func (n *SimpleIdent) Accept(v Visitor) { v.VisitSimpleIdent(n) }
func (n *ArrayIdent) Accept(v Visitor)  { v.VisitArrayIdent(n) }

func (n *Paren) Accept(v Visitor)      { v.VisitParen(n) }
func (n *Array) Accept(v Visitor)      { v.VisitArray(n) }
func (n *Call) Accept(v Visitor)       { v.VisitCall(n) }
func (n *Ident) Accept(v Visitor)      { v.VisitIdent(n) }
func (n *Arithmetic) Accept(v Visitor) { v.VisitArithmetic(n) }
func (n *Relational) Accept(v Visitor) { v.VisitRelational(n) }
func (n *Logic) Accept(v Visitor)      { v.VisitLogic(n) }
func (n *Unary) Accept(v Visitor)      { v.VisitUnary(n) }
func (n *Literal) Accept(v Visitor)    { v.VisitLiteral(n) }
