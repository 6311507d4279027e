package ir

import (
	"fmt"
	"io"
	"strings"
)

var opNames = map[OpCode]string{
	NOOP:  "noop",
	LABEL: "label",
	UJUMP: "ujump",
	FJUMP: "fjump",
	HALT:  "halt",

	LOAD:   "load",
	STORE:  "store",
	ALOAD:  "aload",
	ASTORE: "astore",

	PUSH:   "push",
	POP:    "pop",
	CALL:   "call",
	RETURN: "return",

	ADD: "add",
	SUB: "sub",
	MUL: "mul",
	DIV: "div",
	NEG: "neg",

	FADD: "fadd",
	FSUB: "fsub",
	FMUL: "fmul",
	FDIV: "fdiv",
	FNEG: "fneg",

	FLOAT: "float",

	EQ: "eq",
	LT: "lt",
	LE: "le",

	FEQ: "feq",
	FLT: "flt",
	FLE: "fle",

	AND: "and",
	OR:  "or",
	NOT: "not",

	READI: "readi",
	READF: "readf",
	READC: "readc",

	WRITEI: "writei",
	WRITEF: "writef",
	WRITEC: "writec",
	WRITES: "writes",
}

func (v Value) String() string {
	switch v.Kind {
	case VTemp:
		return fmt.Sprintf("t%d", v.Temp)
	case VName:
		return v.Name
	case VConst:
		return v.Const
	default:
		return ""
	}
}

// PrintProgram renders a t-code Program as indented, assembly-like text:
// one "func NAME(params) -> rettype" header per function, its locals, and
// one instruction per line inside.
func PrintProgram(w io.Writer, p Program) {
	for _, fn := range p.Functions {
		printFunc(w, fn)
	}
}

func printFunc(w io.Writer, fn Function) {
	ret := fn.RetType
	if ret == "" {
		ret = "void"
	}
	params := make([]string, len(fn.Params))
	for i, pm := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", pm.Name, pm.Type)
	}
	fmt.Fprintf(w, "func %s(%s) -> %s\n", fn.Name, strings.Join(params, ", "), ret)

	for _, l := range fn.Locals {
		if l.ArraySize > 0 {
			fmt.Fprintf(w, "  var %s: array %d of %s\n", l.Name, l.ArraySize, l.ElemType)
		} else {
			fmt.Fprintf(w, "  var %s: %s\n", l.Name, l.ElemType)
		}
	}

	for _, instr := range fn.Code {
		printInstr(w, instr)
	}
}

func printInstr(w io.Writer, instr Instruction) {
	switch instr.Op {
	case LABEL:
		fmt.Fprintf(w, "%s:\n", instr.Label)
		return
	case UJUMP:
		fmt.Fprintf(w, "  ujump %s\n", instr.Label)
		return
	case FJUMP:
		fmt.Fprintf(w, "  fjump %s, %s\n", instr.Src1, instr.Label)
		return
	case HALT, NOOP:
		fmt.Fprintf(w, "  %s\n", opNames[instr.Op])
		return
	case CALL:
		if instr.Dst.IsZero() {
			fmt.Fprintf(w, "  call %s, %d\n", instr.Text, instr.N)
		} else {
			fmt.Fprintf(w, "  %s = call %s, %d\n", instr.Dst, instr.Text, instr.N)
		}
		return
	case RETURN:
		if instr.Src1.IsZero() {
			fmt.Fprintf(w, "  return\n")
		} else {
			fmt.Fprintf(w, "  return %s\n", instr.Src1)
		}
		return
	case PUSH:
		if instr.Src1.IsZero() {
			fmt.Fprintf(w, "  push\n")
		} else {
			fmt.Fprintf(w, "  push %s\n", instr.Src1)
		}
		return
	case POP:
		if instr.Dst.IsZero() {
			fmt.Fprintf(w, "  pop\n")
		} else {
			fmt.Fprintf(w, "  %s = pop\n", instr.Dst)
		}
		return
	case WRITES:
		fmt.Fprintf(w, "  writes %s\n", instr.Text)
		return
	case WRITEI, WRITEF, WRITEC:
		fmt.Fprintf(w, "  %s %s\n", opNames[instr.Op], instr.Src1)
		return
	case READI, READF, READC:
		fmt.Fprintf(w, "  %s = %s\n", instr.Dst, opNames[instr.Op])
		return
	case STORE:
		fmt.Fprintf(w, "  %s = %s\n", instr.Dst, instr.Src1)
		return
	case ASTORE:
		fmt.Fprintf(w, "  %s[%s] = %s\n", instr.Dst, instr.Src1, instr.Src2)
		return
	case ALOAD:
		fmt.Fprintf(w, "  %s = %s[%s]\n", instr.Dst, instr.Src1, instr.Src2)
		return
	case LOAD:
		fmt.Fprintf(w, "  %s = %s\n", instr.Dst, instr.Src1)
		return
	case FLOAT, NEG, FNEG, NOT:
		fmt.Fprintf(w, "  %s = %s %s\n", instr.Dst, opNames[instr.Op], instr.Src1)
		return
	default:
		fmt.Fprintf(w, "  %s = %s %s, %s\n", instr.Dst, opNames[instr.Op], instr.Src1, instr.Src2)
	}
}
