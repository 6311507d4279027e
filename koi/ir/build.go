package ir

import (
	"fmt"

	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/token"
	"github.com/jesperkha/aslc/koi/types"
)

// Builder implements ast.Visitor to lower a checked tree into t-code. It
// assumes the tree carries zero diagnostics from the Checker: every node is
// fully decorated with a concrete type, so Builder never has to guard
// against Error types the way the earlier passes do.
type Builder struct {
	reg  *types.Registry
	tbl  *types.SymbolTable
	dec  *types.Decorations
	tree *ast.Ast

	funcs []Function
	cur   *Function

	tempCtr   int
	labelCtr  int
	arrCpyCtr int

	curRetType types.Id

	// exprResult carries the Value produced by the most recently accepted
	// expression node: every VisitX for an Expr sets this before returning.
	exprResult Value
}

func NewBuilder(reg *types.Registry, tbl *types.SymbolTable, dec *types.Decorations, tree *ast.Ast) *Builder {
	return &Builder{reg: reg, tbl: tbl, dec: dec, tree: tree}
}

func (b *Builder) newTemp() Value {
	id := b.tempCtr
	b.tempCtr++
	return TempValue(id)
}

func (b *Builder) newLabel(prefix string) string {
	id := b.labelCtr
	b.labelCtr++
	return fmt.Sprintf("%s%d", prefix, id)
}

func (b *Builder) emit(instr Instruction) {
	b.cur.Code = append(b.cur.Code, instr)
}

// Build lowers every function in the tree and returns the resulting
// program. It never fails: a program that reaches the Builder has already
// passed the Checker with zero diagnostics.
func (b *Builder) Build() Program {
	for _, fn := range b.tree.Functions {
		fn.Accept(b)
	}
	return Program{Functions: b.funcs}
}

func (b *Builder) lowerExpr(e ast.Expr) Value {
	e.Accept(b)
	return b.exprResult
}

func (b *Builder) coerceToFloat(v Value) Value {
	dst := b.newTemp()
	b.emit(Instruction{Op: FLOAT, Dst: dst, Src1: v})
	return dst
}

func opFor(isFloat bool, f, i OpCode) OpCode {
	if isFloat {
		return f
	}
	return i
}

// arrayBase returns the Value an ALOAD/ASTORE should use to address name's
// storage. A local array is addressed by name directly; an array parameter
// is passed by reference, so it must first be dereferenced into a fresh
// temporary, exactly as original_source/asl/CodeGenVisitor.cpp's
// visitArray/visitArrayIdent do when Symbols.isParameterClass holds.
func (b *Builder) arrayBase(name string) Value {
	if !b.tbl.IsParameterClass(name) {
		return NameValue(name)
	}
	ptr := b.newTemp()
	b.emit(Instruction{Op: LOAD, Dst: ptr, Src1: NameValue(name)})
	return ptr
}

// identName unwraps transparent Paren nodes to find the identifier name a
// whole-array-copy operand names, mirroring the Checker's own Paren
// transparency (VisitParen in koi/types/check.go) instead of rejecting any
// parenthesized array operand outright.
func identName(e ast.Expr) (string, bool) {
	for {
		if p, ok := e.(*ast.Paren); ok {
			e = p.E
			continue
		}
		break
	}
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name.Lexeme, true
	case *ast.SimpleIdent:
		return n.Name.Lexeme, true
	default:
		return "", false
	}
}

func (b *Builder) VisitFunc(node *ast.Func) {
	name := node.Name.Lexeme
	retId := b.dec.Type(node)
	retStr := ""
	if !b.reg.IsVoid(retId) {
		retStr = b.reg.ToString(retId)
	}

	params := make([]Param, len(node.Params))
	for i, p := range node.Params {
		pt := b.dec.Type(p.Type)
		pm := Param{Name: p.Name.Lexeme, Type: b.reg.ToString(pt)}
		if b.reg.IsArray(pt) {
			pm.IsArray = true
			pm.ElemType = b.reg.ToString(b.reg.ArrayElemType(pt))
			pm.ArraySize = b.reg.ArraySize(pt)
		}
		params[i] = pm
	}

	fn := &Function{Name: name, Params: params, RetType: retStr}

	prevCur, prevTemp, prevLabel, prevRet, prevArrCpy := b.cur, b.tempCtr, b.labelCtr, b.curRetType, b.arrCpyCtr
	b.cur, b.tempCtr, b.labelCtr, b.curRetType, b.arrCpyCtr = fn, 0, 0, retId, 0

	// Re-enter the function's scope so arrayBase can tell parameters apart.
	b.tbl.PushThisScope(b.dec.Scope(node))
	for _, decl := range node.Decls {
		decl.Accept(b)
	}
	node.Block.Accept(b)
	b.tbl.PopScope()

	b.funcs = append(b.funcs, *fn)
	b.cur, b.tempCtr, b.labelCtr, b.curRetType, b.arrCpyCtr = prevCur, prevTemp, prevLabel, prevRet, prevArrCpy
}

func (b *Builder) VisitVarDecl(node *ast.VarDecl) {
	typeId := b.dec.Type(node.Type)
	arrSize := 0
	elemId := typeId
	if b.reg.IsArray(typeId) {
		arrSize = b.reg.ArraySize(typeId)
		elemId = b.reg.ArrayElemType(typeId)
	}
	elemType := b.reg.ToString(elemId)
	for _, nameTok := range node.Names {
		b.cur.Locals = append(b.cur.Locals, Local{Name: nameTok.Lexeme, ElemType: elemType, ArraySize: arrSize})
	}
}

func (b *Builder) VisitBlock(node *ast.Block) {
	for _, stmt := range node.Stmts {
		stmt.Accept(b)
	}
}

func (b *Builder) VisitAssignStmt(node *ast.AssignStmt) {
	lhsT := b.dec.Type(node.Left)
	rhsT := b.dec.Type(node.E)

	if b.reg.IsArray(lhsT) && b.reg.IsArray(rhsT) {
		b.lowerArrayCopy(node)
		return
	}

	rhs := b.lowerExpr(node.E)
	if b.reg.IsFloat(lhsT) && b.reg.IsInteger(rhsT) {
		rhs = b.coerceToFloat(rhs)
	}

	switch left := node.Left.(type) {
	case *ast.SimpleIdent:
		b.emit(Instruction{Op: STORE, Dst: NameValue(left.Name.Lexeme), Src1: rhs})
	case *ast.ArrayIdent:
		idx := b.lowerExpr(left.Index)
		base := b.arrayBase(left.Name.Lexeme)
		b.emit(Instruction{Op: ASTORE, Dst: base, Src1: idx, Src2: rhs})
	}
}

// lowerArrayCopy emits the ArrayCpyN/EndArrayCpyN loop for a whole-array
// assignment (both sides arrays of equal size, checked by the caller). The
// loop counter is a synthetic local no source program can ever declare
// (user identifiers never start with '.'), counting down from size-1 to 0
// inclusive with LE(0,i) as the exit test, copying one element per
// iteration via ALOAD/ASTORE rather than the dropped LOADX/XLOAD pair.
// identName unwraps transparent Paren nodes first (the Checker treats
// parens as fully transparent for both type and l-value, so `a = (b)` is a
// valid whole-array assignment too), and either operand may be an array
// parameter, dereferenced by arrayBase exactly like indexed access is.
func (b *Builder) lowerArrayCopy(node *ast.AssignStmt) {
	dstName, ok := identName(node.Left)
	if !ok {
		return
	}
	srcName, ok := identName(node.E)
	if !ok {
		return
	}

	size := b.reg.ArraySize(b.dec.Type(node.Left))

	n := b.arrCpyCtr
	b.arrCpyCtr++
	counter := fmt.Sprintf(".cpy%d", n)
	startLabel := fmt.Sprintf("ArrayCpy%d", n)
	endLabel := fmt.Sprintf("EndArrayCpy%d", n)

	b.cur.Locals = append(b.cur.Locals, Local{Name: counter, ElemType: "int"})
	b.emit(Instruction{Op: STORE, Dst: NameValue(counter), Src1: ConstValue(fmt.Sprintf("%d", size-1))})

	srcBase := b.arrayBase(srcName)
	dstBase := b.arrayBase(dstName)

	b.emit(Instruction{Op: LABEL, Label: startLabel})
	i := b.newTemp()
	b.emit(Instruction{Op: LOAD, Dst: i, Src1: NameValue(counter)})
	cond := b.newTemp()
	b.emit(Instruction{Op: LE, Dst: cond, Src1: ConstValue("0"), Src2: i})
	b.emit(Instruction{Op: FJUMP, Src1: cond, Label: endLabel})

	elem := b.newTemp()
	b.emit(Instruction{Op: ALOAD, Dst: elem, Src1: srcBase, Src2: i})
	b.emit(Instruction{Op: ASTORE, Dst: dstBase, Src1: i, Src2: elem})

	dec := b.newTemp()
	b.emit(Instruction{Op: SUB, Dst: dec, Src1: i, Src2: ConstValue("1")})
	b.emit(Instruction{Op: STORE, Dst: NameValue(counter), Src1: dec})
	b.emit(Instruction{Op: UJUMP, Label: startLabel})

	b.emit(Instruction{Op: LABEL, Label: endLabel})
}

func (b *Builder) VisitIfStmt(node *ast.IfStmt) {
	cond := b.lowerExpr(node.Cond)
	endLabel := b.newLabel("Lend")

	if node.Else != nil {
		elseLabel := b.newLabel("Lelse")
		b.emit(Instruction{Op: FJUMP, Src1: cond, Label: elseLabel})
		node.Then.Accept(b)
		b.emit(Instruction{Op: UJUMP, Label: endLabel})
		b.emit(Instruction{Op: LABEL, Label: elseLabel})
		node.Else.Accept(b)
	} else {
		b.emit(Instruction{Op: FJUMP, Src1: cond, Label: endLabel})
		node.Then.Accept(b)
	}

	b.emit(Instruction{Op: LABEL, Label: endLabel})
}

func (b *Builder) VisitWhileStmt(node *ast.WhileStmt) {
	startLabel := b.newLabel("Lwhile")
	endLabel := b.newLabel("Lend")

	b.emit(Instruction{Op: LABEL, Label: startLabel})
	cond := b.lowerExpr(node.Cond)
	b.emit(Instruction{Op: FJUMP, Src1: cond, Label: endLabel})
	node.Body.Accept(b)
	b.emit(Instruction{Op: UJUMP, Label: startLabel})
	b.emit(Instruction{Op: LABEL, Label: endLabel})
}

func (b *Builder) VisitCallStmt(node *ast.CallStmt) {
	b.lowerCall(node.Call)
}

func ioOpFor(reg *types.Registry, t types.Id, read bool) OpCode {
	switch {
	case reg.IsFloat(t):
		if read {
			return READF
		}
		return WRITEF
	case reg.IsChar(t):
		if read {
			return READC
		}
		return WRITEC
	default: // integer or boolean (tIntBool): read/write as an integer
		if read {
			return READI
		}
		return WRITEI
	}
}

func (b *Builder) VisitReadStmt(node *ast.ReadStmt) {
	t := b.dec.Type(node.Left)
	dst := b.newTemp()
	b.emit(Instruction{Op: ioOpFor(b.reg, t, true), Dst: dst})

	switch left := node.Left.(type) {
	case *ast.SimpleIdent:
		b.emit(Instruction{Op: STORE, Dst: NameValue(left.Name.Lexeme), Src1: dst})
	case *ast.ArrayIdent:
		idx := b.lowerExpr(left.Index)
		base := b.arrayBase(left.Name.Lexeme)
		b.emit(Instruction{Op: ASTORE, Dst: base, Src1: idx, Src2: dst})
	}
}

func (b *Builder) VisitWriteStmt(node *ast.WriteStmt) {
	v := b.lowerExpr(node.E)
	t := b.dec.Type(node.E)
	b.emit(Instruction{Op: ioOpFor(b.reg, t, false), Src1: v})
}

func (b *Builder) VisitWriteStringStmt(node *ast.WriteStringStmt) {
	b.emit(Instruction{Op: WRITES, Text: node.Literal.Lexeme})
}

func (b *Builder) VisitReturnStmt(node *ast.ReturnStmt) {
	if node.E == nil {
		b.emit(Instruction{Op: RETURN})
		return
	}

	v := b.lowerExpr(node.E)
	if b.reg.IsFloat(b.curRetType) && b.reg.IsInteger(b.dec.Type(node.E)) {
		v = b.coerceToFloat(v)
	}
	b.emit(Instruction{Op: RETURN, Src1: v})
}

// SimpleIdent/ArrayIdent only ever appear in left-expression position,
// where VisitAssignStmt and VisitReadStmt switch on the concrete type
// directly rather than dispatching through Accept; these two methods exist
// only to satisfy ast.Visitor.
func (b *Builder) VisitSimpleIdent(node *ast.SimpleIdent) {}
func (b *Builder) VisitArrayIdent(node *ast.ArrayIdent)   {}

func (b *Builder) VisitParen(node *ast.Paren) {
	node.E.Accept(b)
}

func (b *Builder) VisitArray(node *ast.Array) {
	idx := b.lowerExpr(node.Index)
	base := b.arrayBase(node.Name.Lexeme)
	dst := b.newTemp()
	b.emit(Instruction{Op: ALOAD, Dst: dst, Src1: base, Src2: idx})
	b.exprResult = dst
}

// lowerCall follows the push/pop call convention: a leading placeholder
// PUSH reserves the result slot when the callee returns non-void, then one
// PUSH per argument (coerced to the callee's declared parameter type),
// then CALL, then one bare POP per argument to drop it, and finally — for
// a non-void callee — one POP with a destination temp to take the result.
func (b *Builder) lowerCall(call *ast.Call) Value {
	retId := b.dec.Type(call)
	isVoid := b.reg.IsVoid(retId)

	if !isVoid {
		b.emit(Instruction{Op: PUSH})
	}

	paramTypes := b.reg.FuncParamTypes(b.tbl.GetType(call.Name.Lexeme))
	for i, arg := range call.Args {
		v := b.lowerExpr(arg)
		if i < len(paramTypes) && b.reg.IsFloat(paramTypes[i]) && b.reg.IsInteger(b.dec.Type(arg)) {
			v = b.coerceToFloat(v)
		}
		b.emit(Instruction{Op: PUSH, Src1: v})
	}

	b.emit(Instruction{Op: CALL, Text: call.Name.Lexeme, N: len(call.Args)})

	for range call.Args {
		b.emit(Instruction{Op: POP})
	}

	if isVoid {
		return Value{}
	}

	dst := b.newTemp()
	b.emit(Instruction{Op: POP, Dst: dst})
	return dst
}

func (b *Builder) VisitCall(node *ast.Call) {
	b.exprResult = b.lowerCall(node)
}

func (b *Builder) VisitIdent(node *ast.Ident) {
	dst := b.newTemp()
	b.emit(Instruction{Op: LOAD, Dst: dst, Src1: NameValue(node.Name.Lexeme)})
	b.exprResult = dst
}

func (b *Builder) VisitArithmetic(node *ast.Arithmetic) {
	lt := b.dec.Type(node.Left)
	rt := b.dec.Type(node.Right)
	resT := b.dec.Type(node)
	isFloat := b.reg.IsFloat(resT)

	l := b.lowerExpr(node.Left)
	if isFloat && b.reg.IsInteger(lt) {
		l = b.coerceToFloat(l)
	}
	r := b.lowerExpr(node.Right)
	if isFloat && b.reg.IsInteger(rt) {
		r = b.coerceToFloat(r)
	}

	if node.Op.Type == token.PERCENT {
		// % has no opcode of its own: a % b lowers as DIV, MUL, SUB.
		q := b.newTemp()
		b.emit(Instruction{Op: DIV, Dst: q, Src1: l, Src2: r})
		prod := b.newTemp()
		b.emit(Instruction{Op: MUL, Dst: prod, Src1: q, Src2: r})
		dst := b.newTemp()
		b.emit(Instruction{Op: SUB, Dst: dst, Src1: l, Src2: prod})
		b.exprResult = dst
		return
	}

	var op OpCode
	switch node.Op.Type {
	case token.PLUS:
		op = opFor(isFloat, FADD, ADD)
	case token.MINUS:
		op = opFor(isFloat, FSUB, SUB)
	case token.STAR:
		op = opFor(isFloat, FMUL, MUL)
	case token.SLASH:
		op = opFor(isFloat, FDIV, DIV)
	}

	dst := b.newTemp()
	b.emit(Instruction{Op: op, Dst: dst, Src1: l, Src2: r})
	b.exprResult = dst
}

func (b *Builder) VisitRelational(node *ast.Relational) {
	lt := b.dec.Type(node.Left)
	rt := b.dec.Type(node.Right)
	isFloat := b.reg.IsFloat(lt) || b.reg.IsFloat(rt)

	l := b.lowerExpr(node.Left)
	if isFloat && b.reg.IsInteger(lt) {
		l = b.coerceToFloat(l)
	}
	r := b.lowerExpr(node.Right)
	if isFloat && b.reg.IsInteger(rt) {
		r = b.coerceToFloat(r)
	}

	// != negates equality; >= negates less-than; > negates less-or-equal.
	// None of the three has an opcode of its own.
	var op OpCode
	negate := false
	switch node.Op.Type {
	case token.EQ_EQ:
		op = opFor(isFloat, FEQ, EQ)
	case token.NOT_EQ:
		op = opFor(isFloat, FEQ, EQ)
		negate = true
	case token.LESS:
		op = opFor(isFloat, FLT, LT)
	case token.LESS_EQ:
		op = opFor(isFloat, FLE, LE)
	case token.GREATER:
		op = opFor(isFloat, FLE, LE)
		negate = true
	case token.GREATER_EQ:
		op = opFor(isFloat, FLT, LT)
		negate = true
	}

	cmp := b.newTemp()
	b.emit(Instruction{Op: op, Dst: cmp, Src1: l, Src2: r})
	if !negate {
		b.exprResult = cmp
		return
	}

	dst := b.newTemp()
	b.emit(Instruction{Op: NOT, Dst: dst, Src1: cmp})
	b.exprResult = dst
}

func (b *Builder) VisitLogic(node *ast.Logic) {
	l := b.lowerExpr(node.Left)
	r := b.lowerExpr(node.Right)

	op := AND
	if node.Op.Type == token.OR {
		op = OR
	}

	dst := b.newTemp()
	b.emit(Instruction{Op: op, Dst: dst, Src1: l, Src2: r})
	b.exprResult = dst
}

func (b *Builder) VisitUnary(node *ast.Unary) {
	v := b.lowerExpr(node.E)
	et := b.dec.Type(node.E)

	switch node.Op.Type {
	case token.MINUS:
		dst := b.newTemp()
		b.emit(Instruction{Op: opFor(b.reg.IsFloat(et), FNEG, NEG), Dst: dst, Src1: v})
		b.exprResult = dst
	case token.NOT:
		dst := b.newTemp()
		b.emit(Instruction{Op: NOT, Dst: dst, Src1: v})
		b.exprResult = dst
	default: // unary plus is the identity
		b.exprResult = v
	}
}

func (b *Builder) VisitLiteral(node *ast.Literal) {
	b.exprResult = ConstValue(node.Value)
}
