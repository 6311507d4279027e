// Package targets lowers a t-code program into textual output ready for an
// external toolchain. llvm.go is the only lowering target this repo ships:
// it turns ir.Program into LLVM IR text by first re-typing every temporary
// through a small dataflow pass (t-code carries no type annotations of its
// own) and then walking each function's instructions once, emitting one
// LLVM statement per t-code instruction.
package targets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jesperkha/aslc/koi/ir"
)

// llvmType is the small closed set of LLVM type strings this lowerer ever
// binds a value to, plus the two failure sentinels the inference pass uses
// to report an unresolvable or never-reached value.
type llvmType string

const (
	tI32     llvmType = "i32"
	tFloat   llvmType = "float"  // SL float's persistent storage type
	tDouble  llvmType = "double" // transient widen target for C varargs (printf/scanf)
	tI8      llvmType = "i8"
	tI1      llvmType = "i1"
	tVoid    llvmType = "void"
	tErr     llvmType = "<err>"  // conflicting bindings for the same value
	tMiss    llvmType = "<miss>" // swept but never bound
	tIntBool llvmType = "i32"    // booleans are stored as i32, compared as i1
)

// LowerError reports an SSA or type-inference failure for one function; the
// caller treats it as fatal, matching the rest of the pipeline's diagnostic
// regime (the lowerer never emits partial output for a broken function).
type LowerError struct {
	Func  string
	Value string
	Msg   string
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("llvm lowering: function %s, value %s: %s", e.Func, e.Value, e.Msg)
}

func storageType(basic string) llvmType {
	switch basic {
	case "int":
		return tI32
	case "float":
		return tFloat
	case "bool":
		return tIntBool
	case "char":
		return tI8
	default:
		return tI32
	}
}

// paramLLVMType is a parameter's declared LLVM type. SL passes arrays by
// reference (spec's seed table: "parameter arrays become T′*"), so an array
// parameter's type is a pointer to its element type rather than the inline
// [n x T] a same-shaped local would get.
func paramLLVMType(p ir.Param) llvmType {
	if p.IsArray {
		return llvmType(string(storageType(p.ElemType)) + "*")
	}
	return storageType(p.Type)
}

// funcSig is what a caller needs to know about a callee to type its
// arguments and its own result: collected once, up front, over every
// function in the program so forward calls resolve too.
type funcSig struct {
	params  []llvmType
	ret     llvmType
	isVoid  bool
}

// lowerer accumulates a whole module's textual output across two buffers,
// the same writeln/writehdr/indent idiom the x86_64 builder used: a header
// section (globals and declares) plus one body buffer shared by every
// function definition.
type lowerer struct {
	prog    ir.Program
	sigs    map[string]funcSig
	header  string
	body    string
	indentN int

	usesPrintf bool
	usesScanf  bool
	usesPutc   bool
	usesExit   bool
	strs       map[string]string // literal text -> global name
	strCtr     int

	// per-function state, reset at the top of each lowerFunc call.
	tempType  map[int]llvmType
	tempAlias map[int]string       // temp -> the SSA name a deferred CALL result already bound
	localType map[string]llvmType // declared storage type, by name
	localArr  map[string]int      // array element count, by name (0 = scalar)
	arrParam  map[string]bool     // true when name is an array parameter (pointer, not [n x T], storage)
	scratch   int
	pending   []Value // buffered PUSH operands awaiting the next CALL

	// pendingCallResult is the SSA name of the most recent non-void CALL's
	// result, consumed by the POP that follows its argument-dropping POPs.
	pendingCallResult string
}

// Value pairs a rendered LLVM operand (an SSA name or a literal) with the
// type it was produced at, so later consumers can tell whether a coercion
// is needed before they use it.
type Value struct {
	Text string
	Type llvmType
}

// Lower runs the SSA guard, the per-function type inference pass, and IR
// emission over prog, returning the complete textual module.
func Lower(prog ir.Program) (string, error) {
	l := &lowerer{
		prog: prog,
		sigs: map[string]funcSig{},
		strs: map[string]string{},
	}

	for _, fn := range prog.Functions {
		sig := funcSig{ret: tVoid, isVoid: fn.RetType == ""}
		if !sig.isVoid {
			sig.ret = storageType(fn.RetType)
		}
		for _, p := range fn.Params {
			sig.params = append(sig.params, paramLLVMType(p))
		}
		l.sigs[fn.Name] = sig
	}

	for _, fn := range prog.Functions {
		if err := ssaGuard(fn); err != nil {
			return "", err
		}
		if err := l.lowerFunc(fn); err != nil {
			return "", err
		}
	}

	l.emitPreamble()
	l.emitDeclares()
	return l.header + "\n" + l.body, nil
}

// ssaGuard rejects a function where some temporary is the destination of
// more than one instruction; the rest of the lowerer assumes a temporary's
// single definition dominates every one of its uses. An ASTORE's Dst is the
// array base it stores through, not a definition, so it is not counted.
func ssaGuard(fn ir.Function) error {
	defs := map[int]int{}
	for _, instr := range fn.Code {
		if instr.Dst.Kind == ir.VTemp && instr.Op != ir.ASTORE {
			defs[instr.Dst.Temp]++
		}
	}
	for temp, n := range defs {
		if n > 1 {
			return &LowerError{Func: fn.Name, Value: fmt.Sprintf("t%d", temp), Msg: "defined more than once"}
		}
	}
	return nil
}

func (l *lowerer) writeln(s string, args ...any) {
	l.body += strings.Repeat("  ", l.indentN) + fmt.Sprintf(s, args...) + "\n"
}

func (l *lowerer) writehdr(s string, args ...any) {
	l.header += fmt.Sprintf(s, args...) + "\n"
}

func (l *lowerer) indent()   { l.indentN++ }
func (l *lowerer) unindent() { l.indentN-- }

func (l *lowerer) newScratch(purpose string) string {
	l.scratch++
	return fmt.Sprintf("%%.%s.%d", purpose, l.scratch)
}

// lowerFunc runs type inference then emission for one function, resetting
// all per-function state first.
func (l *lowerer) lowerFunc(fn ir.Function) error {
	l.tempType = map[int]llvmType{}
	l.tempAlias = map[int]string{}
	l.localType = map[string]llvmType{}
	l.localArr = map[string]int{}
	l.arrParam = map[string]bool{}
	l.scratch = 0
	l.pending = nil
	l.pendingCallResult = ""

	for _, p := range fn.Params {
		if p.IsArray {
			l.localType[p.Name] = storageType(p.ElemType)
			l.localArr[p.Name] = p.ArraySize
			l.arrParam[p.Name] = true
			continue
		}
		l.localType[p.Name] = storageType(p.Type)
	}
	for _, lo := range fn.Locals {
		l.localType[lo.Name] = storageType(lo.ElemType)
		l.localArr[lo.Name] = lo.ArraySize
	}

	if err := l.inferTypes(fn); err != nil {
		return err
	}
	l.emitFunc(fn)
	return nil
}

// inferTypes performs the single forward sweep the spec calls a
// fixed-point propagation: because the t-code Builder only ever defines a
// temporary immediately before its uses (never across a later
// redefinition — ssaGuard already enforced that), one pass in program
// order is a fixed point.
func (l *lowerer) inferTypes(fn ir.Function) error {
	bind := func(v ir.Value, t llvmType) error {
		if v.Kind != ir.VTemp {
			return nil
		}
		if existing, ok := l.tempType[v.Temp]; ok && existing != t {
			return &LowerError{Func: fn.Name, Value: fmt.Sprintf("t%d", v.Temp), Msg: "inconsistent binding"}
		}
		l.tempType[v.Temp] = t
		return nil
	}

	typeOfOperand := func(v ir.Value) llvmType {
		switch v.Kind {
		case ir.VTemp:
			if t, ok := l.tempType[v.Temp]; ok {
				return t
			}
			return tMiss
		case ir.VName:
			return l.localType[v.Name]
		case ir.VConst:
			return constType(v.Const)
		default:
			return tMiss
		}
	}

	var pendingArgs []llvmType
	var pendingRet llvmType
	for _, instr := range fn.Code {
		switch instr.Op {
		case ir.LOAD:
			if err := bind(instr.Dst, l.localType[instr.Src1.Name]); err != nil {
				return err
			}
		case ir.ALOAD:
			if err := bind(instr.Dst, l.localType[instr.Src1.Name]); err != nil {
				return err
			}
		case ir.FLOAT:
			if err := bind(instr.Dst, tFloat); err != nil {
				return err
			}
		case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.NEG:
			if err := bind(instr.Dst, tI32); err != nil {
				return err
			}
		case ir.FADD, ir.FSUB, ir.FMUL, ir.FDIV, ir.FNEG:
			if err := bind(instr.Dst, tFloat); err != nil {
				return err
			}
		case ir.EQ, ir.LT, ir.LE,
			ir.FEQ, ir.FLT, ir.FLE,
			ir.AND, ir.OR, ir.NOT:
			if err := bind(instr.Dst, tI1); err != nil {
				return err
			}
		case ir.READI:
			if err := bind(instr.Dst, tI32); err != nil {
				return err
			}
		case ir.READF:
			if err := bind(instr.Dst, tFloat); err != nil {
				return err
			}
		case ir.READC:
			if err := bind(instr.Dst, tI8); err != nil {
				return err
			}
		case ir.PUSH:
			if instr.Src1.Kind != ir.VNone {
				pendingArgs = append(pendingArgs, typeOfOperand(instr.Src1))
			}
		case ir.CALL:
			sig, ok := l.sigs[instr.Text]
			if !ok {
				return &LowerError{Func: fn.Name, Value: instr.Text, Msg: "call to unknown function"}
			}
			pendingArgs = nil
			pendingRet = tVoid
			if !sig.isVoid {
				pendingRet = sig.ret
			}
		case ir.POP:
			if instr.Dst.Kind != ir.VNone {
				if err := bind(instr.Dst, pendingRet); err != nil {
					return err
				}
			}
		}
	}
	_ = pendingArgs
	return nil
}

func constType(lexeme string) llvmType {
	if lexeme == "true" || lexeme == "false" {
		return tI1
	}
	if strings.HasPrefix(lexeme, "'") {
		return tI8
	}
	if strings.ContainsAny(lexeme, ".eE") {
		if _, err := strconv.ParseFloat(lexeme, 64); err == nil {
			return tFloat
		}
	}
	return tI32
}

// render turns a t-code Value into an LLVM operand (an SSA name or literal)
// together with the type it carries, consulting the temp/local type tables
// built by inferTypes.
func (l *lowerer) render(v ir.Value) Value {
	switch v.Kind {
	case ir.VTemp:
		if alias, ok := l.tempAlias[v.Temp]; ok {
			return Value{Text: alias, Type: l.tempType[v.Temp]}
		}
		return Value{Text: fmt.Sprintf("%%.temp.%d", v.Temp), Type: l.tempType[v.Temp]}
	case ir.VName:
		return Value{Text: v.Name, Type: l.localType[v.Name]}
	case ir.VConst:
		return Value{Text: renderConst(v.Const, constType(v.Const)), Type: constType(v.Const)}
	default:
		return Value{Text: "0", Type: tI32}
	}
}

func renderConst(lexeme string, t llvmType) string {
	switch t {
	case tI1:
		return lexeme
	case tI8:
		return fmt.Sprintf("%d", charByte(lexeme))
	case tFloat, tDouble:
		if !strings.ContainsAny(lexeme, ".eE") {
			return lexeme + ".0"
		}
		return lexeme
	default:
		return lexeme
	}
}

func charByte(lexeme string) byte {
	inner := strings.Trim(lexeme, "'")
	if len(inner) == 0 {
		return 0
	}
	if inner[0] == '\\' && len(inner) > 1 {
		switch inner[1] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case '0':
			return 0
		case '\\':
			return '\\'
		case '\'':
			return '\''
		default:
			return inner[1]
		}
	}
	return inner[0]
}

// materialize emits whatever cast is needed to turn operand into target's
// type, returning the (possibly unchanged) SSA name to use at the call
// site. This is where the i1/i32 boolean split and the int/float coercion
// the checker already resolved at the source level get re-resolved at the
// LLVM type level.
func (l *lowerer) materialize(v Value, target llvmType) string {
	if v.Type == target || target == "" {
		return v.Text
	}
	dst := l.newScratch("conv")
	switch {
	case v.Type == tI1 && (target == tI32 || target == tIntBool):
		l.writeln("%s = zext i1 %s to i32", dst, v.Text)
	case (v.Type == tI32 || v.Type == tIntBool) && target == tI1:
		l.writeln("%s = icmp ne i32 %s, 0", dst, v.Text)
	case v.Type == tI32 && target == tFloat:
		l.writeln("%s = sitofp i32 %s to float", dst, v.Text)
	case v.Type == tFloat && target == tI32:
		l.writeln("%s = fptosi float %s to i32", dst, v.Text)
	case v.Type == tFloat && target == tDouble:
		l.writeln("%s = fpext float %s to double", dst, v.Text)
	case v.Type == tDouble && target == tFloat:
		l.writeln("%s = fptrunc double %s to float", dst, v.Text)
	case v.Type == tI8 && (target == tI32 || target == tIntBool):
		l.writeln("%s = zext i8 %s to i32", dst, v.Text)
	case v.Type == tI32 && target == tI8:
		l.writeln("%s = trunc i32 %s to i8", dst, v.Text)
	default:
		return v.Text
	}
	return dst
}

func (l *lowerer) addr(name string) string {
	return fmt.Sprintf("%%%s.addr", name)
}

// arrayElemGEP computes the element-pointer GEP for an array access. base
// is either a VName naming a local array (two-level GEP over its [n x T]
// alloca) or a VTemp already holding a dereferenced array-parameter pointer
// (one-level GEP directly over that pointer) — the two shapes arrayBase
// produces in the Builder.
func (l *lowerer) arrayElemGEP(base ir.Value, index ir.Value) (llvmType, string) {
	idxSSA := l.materialize(l.render(index), tI32)
	gep := l.newScratch("gep")
	if base.Kind == ir.VTemp {
		elem := l.tempType[base.Temp]
		ptr := l.render(base).Text
		l.writeln("%s = getelementptr inbounds %s, %s* %s, i32 %s", gep, elem, elem, ptr, idxSSA)
		return elem, gep
	}
	elem := l.localType[base.Name]
	n := l.localArr[base.Name]
	l.writeln("%s = getelementptr inbounds [%d x %s], [%d x %s]* %s, i32 0, i32 %s", gep, n, elem, n, elem, l.addr(base.Name), idxSSA)
	return elem, gep
}

// emitFunc renders one function definition: the signature, the entry block
// (parameter stores, local allocas), then every instruction.
func (l *lowerer) emitFunc(fn ir.Function) {
	sig := l.sigs[fn.Name]
	ret := sig.ret
	if fn.Name == "main" {
		ret = tI32
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%arg.%s", paramLLVMType(p), p.Name)
	}
	l.writeln("define dso_local %s @%s(%s) {", ret, fn.Name, strings.Join(params, ", "))
	l.indent()
	l.writeln(".entry:")

	for _, p := range fn.Params {
		t := paramLLVMType(p)
		l.writeln("%s = alloca %s", l.addr(p.Name), t)
		l.writeln("store %s %%arg.%s, %s* %s", t, p.Name, t, l.addr(p.Name))
	}
	for _, lo := range fn.Locals {
		t := storageType(lo.ElemType)
		if lo.ArraySize > 0 {
			l.writeln("%s = alloca [%d x %s]", l.addr(lo.Name), lo.ArraySize, t)
		} else {
			l.writeln("%s = alloca %s", l.addr(lo.Name), t)
		}
	}

	open := true
	for i, instr := range fn.Code {
		if instr.Op == ir.LABEL {
			if open {
				l.writeln("br label %%%s", instr.Label)
			}
			l.unindent()
			l.writeln("%s:", instr.Label)
			l.indent()
			open = true
			continue
		}
		open = l.emitInstr(fn, instr, i)
	}

	if open {
		if ret == tVoid {
			l.writeln("ret void")
		} else {
			l.writeln("ret %s %s", ret, zeroValue(ret))
		}
	}

	l.unindent()
	l.writeln("}")
	l.writeln("")
}

func zeroValue(t llvmType) string {
	switch t {
	case tFloat, tDouble:
		return "0.0"
	case tI1:
		return "false"
	default:
		return "0"
	}
}

// emitInstr lowers one t-code instruction into the equivalent LLVM
// statement(s) and reports whether the current block is still open (has no
// terminator yet) afterward. idx/fn.Code let FJUMP decide whether it needs
// to open a synthetic continuation label (it does unless the next
// instruction is already one, in which case both branch arms already name
// a real label and the block is closed).
func (l *lowerer) emitInstr(fn ir.Function, instr ir.Instruction, idx int) bool {
	switch instr.Op {
	case ir.NOOP:
		return true

	case ir.HALT:
		l.usesExit = true
		l.writeln("call void @exit(i32 1)")
		return true

	case ir.UJUMP:
		l.writeln("br label %%%s", instr.Label)
		return false

	case ir.FJUMP:
		cond := l.render(instr.Src1)
		condSSA := l.materialize(cond, tI1)
		next := idx + 1
		if next < len(fn.Code) && fn.Code[next].Op == ir.LABEL {
			l.writeln("br i1 %s, label %%%s, label %%%s", condSSA, fn.Code[next].Label, instr.Label)
			return false
		}
		cont := fmt.Sprintf(".br.cont.%d", idx)
		l.writeln("br i1 %s, label %%%s, label %%%s", condSSA, cont, instr.Label)
		l.unindent()
		l.writeln("%s:", cont)
		l.indent()
		return true

	case ir.LOAD:
		name := instr.Src1.Name
		t := l.localType[name]
		dst := l.render(instr.Dst)
		if l.arrParam[name] {
			// name holds a pointer value (the array was passed by
			// reference), so its .addr slot is a pointer-to-pointer.
			l.writeln("%s = load %s*, %s** %s", dst.Text, t, t, l.addr(name))
		} else {
			l.writeln("%s = load %s, %s* %s", dst.Text, t, t, l.addr(name))
		}

	case ir.STORE:
		t := l.localType[instr.Dst.Name]
		src := l.materialize(l.render(instr.Src1), t)
		l.writeln("store %s %s, %s* %s", t, src, t, l.addr(instr.Dst.Name))

	case ir.ALOAD:
		elem, gep := l.arrayElemGEP(instr.Src1, instr.Src2)
		dst := l.render(instr.Dst)
		l.writeln("%s = load %s, %s* %s", dst.Text, elem, elem, gep)

	case ir.ASTORE:
		elem, gep := l.arrayElemGEP(instr.Dst, instr.Src1)
		src := l.materialize(l.render(instr.Src2), elem)
		l.writeln("store %s %s, %s* %s", elem, src, elem, gep)

	case ir.PUSH:
		if instr.Src1.Kind != ir.VNone {
			l.pending = append(l.pending, l.render(instr.Src1))
		}
		// a PUSH with no operand is the leading result-slot placeholder;
		// nothing to emit for it.

	case ir.CALL:
		sig := l.sigs[instr.Text]
		args := l.pending
		l.pending = nil
		parts := make([]string, len(args))
		for i, a := range args {
			want := tI32
			if i < len(sig.params) {
				want = sig.params[i]
			}
			coerced := l.materialize(a, want)
			parts[i] = fmt.Sprintf("%s %s", want, coerced)
		}
		call := fmt.Sprintf("call %s @%s(%s)", orVoid(sig), instr.Text, strings.Join(parts, ", "))
		if sig.isVoid {
			l.writeln(call)
			l.pendingCallResult = ""
		} else {
			scratch := l.newScratch("call")
			l.writeln("%s = %s", scratch, call)
			l.pendingCallResult = scratch
		}

	case ir.POP:
		// a bare POP drops an argument slot the stack-based convention
		// pushed; the one POP with a destination receives the call's
		// result, already bound by the CALL case above.
		if instr.Dst.Kind != ir.VNone {
			l.tempAlias[instr.Dst.Temp] = l.pendingCallResult
		}

	case ir.RETURN:
		ret := l.sigs[fn.Name].ret
		if fn.Name == "main" {
			l.writeln("ret i32 0")
			return false
		}
		if instr.Src1.IsZero() {
			l.writeln("ret void")
			return false
		}
		v := l.materialize(l.render(instr.Src1), ret)
		l.writeln("ret %s %s", ret, v)
		return false

	case ir.ADD, ir.SUB, ir.MUL, ir.DIV:
		l.emitIntBinOp(instr)
	case ir.FADD, ir.FSUB, ir.FMUL, ir.FDIV:
		l.emitFloatBinOp(instr)
	case ir.NEG:
		dst := l.render(instr.Dst)
		src := l.materialize(l.render(instr.Src1), tI32)
		l.writeln("%s = sub i32 0, %s", dst.Text, src)
	case ir.FNEG:
		dst := l.render(instr.Dst)
		src := l.materialize(l.render(instr.Src1), tFloat)
		l.writeln("%s = fneg float %s", dst.Text, src)

	case ir.FLOAT:
		dst := l.render(instr.Dst)
		src := l.materialize(l.render(instr.Src1), tI32)
		l.writeln("%s = sitofp i32 %s to float", dst.Text, src)

	case ir.EQ, ir.LT, ir.LE:
		l.emitIntCmp(instr)
	case ir.FEQ, ir.FLT, ir.FLE:
		l.emitFloatCmp(instr)

	case ir.AND, ir.OR:
		dst := l.render(instr.Dst)
		a := l.materialize(l.render(instr.Src1), tI1)
		b := l.materialize(l.render(instr.Src2), tI1)
		op := "and"
		if instr.Op == ir.OR {
			op = "or"
		}
		l.writeln("%s = %s i1 %s, %s", dst.Text, op, a, b)

	case ir.NOT:
		dst := l.render(instr.Dst)
		a := l.materialize(l.render(instr.Src1), tI1)
		l.writeln("%s = xor i1 %s, true", dst.Text, a)

	case ir.READI:
		l.emitRead(instr, tI32, "%.fmt.read.i", "readi")
	case ir.READF:
		l.emitRead(instr, tFloat, "%.fmt.read.f", "readf")
	case ir.READC:
		l.emitRead(instr, tI8, "%.fmt.read.c", "readc")

	case ir.WRITEI:
		l.emitWriteNum(instr, tI32, "i")
	case ir.WRITEF:
		l.emitWriteNum(instr, tFloat, "g")
	case ir.WRITEC:
		l.emitWriteChar(instr)
	case ir.WRITES:
		l.emitWriteString(instr)
	}
	return true
}

func orVoid(sig funcSig) string {
	if sig.isVoid {
		return "void"
	}
	return string(sig.ret)
}

func (l *lowerer) emitIntBinOp(instr ir.Instruction) {
	dst := l.render(instr.Dst)
	a := l.materialize(l.render(instr.Src1), tI32)
	b := l.materialize(l.render(instr.Src2), tI32)
	op := map[ir.OpCode]string{ir.ADD: "add", ir.SUB: "sub", ir.MUL: "mul", ir.DIV: "sdiv"}[instr.Op]
	l.writeln("%s = %s i32 %s, %s", dst.Text, op, a, b)
}

func (l *lowerer) emitFloatBinOp(instr ir.Instruction) {
	dst := l.render(instr.Dst)
	a := l.materialize(l.render(instr.Src1), tFloat)
	b := l.materialize(l.render(instr.Src2), tFloat)
	op := map[ir.OpCode]string{ir.FADD: "fadd", ir.FSUB: "fsub", ir.FMUL: "fmul", ir.FDIV: "fdiv"}[instr.Op]
	l.writeln("%s = %s float %s, %s", dst.Text, op, a, b)
}

func (l *lowerer) emitIntCmp(instr ir.Instruction) {
	dst := l.render(instr.Dst)
	a := l.materialize(l.render(instr.Src1), tI32)
	b := l.materialize(l.render(instr.Src2), tI32)
	cc := map[ir.OpCode]string{ir.EQ: "eq", ir.LT: "slt", ir.LE: "sle"}[instr.Op]
	l.writeln("%s = icmp %s i32 %s, %s", dst.Text, cc, a, b)
}

func (l *lowerer) emitFloatCmp(instr ir.Instruction) {
	dst := l.render(instr.Dst)
	a := l.materialize(l.render(instr.Src1), tFloat)
	b := l.materialize(l.render(instr.Src2), tFloat)
	cc := map[ir.OpCode]string{ir.FEQ: "oeq", ir.FLT: "olt", ir.FLE: "ole"}[instr.Op]
	l.writeln("%s = fcmp %s float %s, %s", dst.Text, cc, a, b)
}

// emitRead scans into a scratch slot then loads from it. A float target
// scans as a double — scanf's %lf writes eight bytes regardless of the
// destination's eventual storage type — then narrows with fptrunc to the
// float the rest of the function expects.
func (l *lowerer) emitRead(instr ir.Instruction, t llvmType, fmtName, purpose string) {
	l.usesScanf = true
	scanType := t
	if t == tFloat {
		scanType = tDouble
	}
	scratch := l.newScratch(purpose)
	l.writeln("%s = alloca %s", scratch, scanType)
	l.writeln("call i32 (i8*, ...) @__isoc99_scanf(i8* %s, %s* %s)", l.fmtGlobal(fmtName), scanType, scratch)
	dst := l.render(instr.Dst)
	if t == tFloat {
		loaded := l.newScratch(purpose + ".wide")
		l.writeln("%s = load double, double* %s", loaded, scratch)
		l.writeln("%s = fptrunc double %s to float", dst.Text, loaded)
		return
	}
	l.writeln("%s = load %s, %s* %s", dst.Text, t, t, scratch)
}

// emitWriteNum prints an int or float value with printf. A float operand
// is fp-extended to double first: C's variadic calling convention always
// promotes a float argument to double.
func (l *lowerer) emitWriteNum(instr ir.Instruction, t llvmType, kind string) {
	l.usesPrintf = true
	rendered := l.render(instr.Src1)

	if t == tFloat {
		asFloat := l.materialize(rendered, tFloat)
		widened := l.materialize(Value{Text: asFloat, Type: tFloat}, tDouble)
		l.writeln("call i32 (i8*, ...) @printf(i8* %s, double %s)", l.fmtGlobal("%.fmt.write.f"), widened)
		return
	}

	asI32 := l.materialize(rendered, t)
	l.writeln("call i32 (i8*, ...) @printf(i8* %s, i32 %s)", l.fmtGlobal("%.fmt.write.i"), asI32)
}

func (l *lowerer) emitWriteChar(instr ir.Instruction) {
	l.usesPutc = true
	v := l.materialize(l.render(instr.Src1), tI8)
	ext := l.newScratch("ext")
	l.writeln("%s = zext i8 %s to i32", ext, v)
	l.writeln("call i32 @putchar(i32 %s)", ext)
}

func (l *lowerer) emitWriteString(instr ir.Instruction) {
	l.usesPrintf = true
	name, bytes := l.internString(instr.Text)
	gep := l.newScratch("str")
	l.writeln("%s = getelementptr inbounds [%d x i8], [%d x i8]* %s, i32 0, i32 0", gep, bytes, bytes, name)
	l.writeln("call i32 (i8*, ...) @printf(i8* %s)", gep)
}

// internString decodes a write-string literal's escapes and records a
// deduplicated global constant for it, returning the global's name and its
// byte length (including the trailing null byte the constant carries).
func (l *lowerer) internString(lexeme string) (string, int) {
	if name, ok := l.strs[lexeme]; ok {
		return name, len(decodeString(lexeme)) + 1
	}
	l.strCtr++
	name := fmt.Sprintf("@.str.s.%d", l.strCtr)
	l.strs[lexeme] = name
	decoded := decodeString(lexeme)
	l.writehdr("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"", name, len(decoded)+1, llvmEscape(decoded))
	return name, len(decoded) + 1
}

func decodeString(lexeme string) string {
	inner := strings.Trim(lexeme, `"`)
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

func llvmEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\0A`)
		case '\t':
			b.WriteString(`\09`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\22`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// fmtGlobal lazily declares a fixed printf/scanf format string global the
// first time it is needed and returns a getelementptr expression pointing
// at its first byte. The three read/write format kinds are few enough to
// declare inline rather than route through internString's dedup map.
func (l *lowerer) fmtGlobal(name string) string {
	text, n := fmtText(name)
	if _, declared := l.strs["$"+name]; !declared {
		l.strs["$"+name] = name
		l.writehdr("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"", name, n+1, text)
	}
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i32 0, i32 0)", n+1, n+1, name)
}

func fmtText(name string) (string, int) {
	switch name {
	case "%.fmt.write.i":
		return `%d\0A`, 3
	case "%.fmt.write.f":
		return `%g\0A`, 3
	case "%.fmt.read.i":
		return `%d`, 2
	case "%.fmt.read.f":
		return `%lf`, 3
	case "%.fmt.read.c":
		return ` %c`, 3
	default:
		return "", 0
	}
}

// emitPreamble emits nothing itself: the module-level globals (format
// strings and string constants) are written by fmtGlobal/internString the
// first time each is needed, so a program with no float I/O carries no
// float format constant.
func (l *lowerer) emitPreamble() {
	// fmtGlobal/internString already appended every global to l.header as
	// it was first needed, interleaved with per-function bodies being
	// built; nothing further to do here except keep this as the named
	// seam original_source callers expect (a single preamble step).
}

// emitDeclares appends declare lines for exactly the C runtime functions
// used anywhere in the module.
func (l *lowerer) emitDeclares() {
	if l.usesPrintf {
		l.writehdr("declare i32 @printf(i8*, ...)")
	}
	if l.usesScanf {
		l.writehdr("declare i32 @__isoc99_scanf(i8*, ...)")
	}
	if l.usesPutc {
		l.writehdr("declare i32 @putchar(i32)")
	}
	if l.usesExit {
		l.writehdr("declare void @exit(i32)")
	}
}
