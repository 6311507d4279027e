package ir

// OpCode is a t-code instruction mnemonic. The set mirrors a classic
// three-address stack-machine IR: separate integer and floating-point
// arithmetic/comparison opcodes so a later lowering stage can infer operand
// width without re-deriving it from the symbol table.
//
// LOADC/CLOAD (load-constant-into-temporary) are deliberately absent:
// constants flow as immediate Value operands directly into whichever
// instruction consumes them, so the Builder never materializes one into a
// temporary on its own.
//
// The comparison/arithmetic opcode set only covers what has a direct
// hardware-style instruction: EQ/LT/LE and their float counterparts. `!=`,
// `>`, and `>=` are not opcodes of their own — the Builder derives them by
// negating EQ/LT/LE with NOT. `%` is not an opcode either; the Builder
// lowers it as DIV, MUL, SUB.
//
// CALL never carries its own destination. A call's argument list is built
// with PUSH, including one leading placeholder PUSH (no operand) when the
// callee returns non-void; after CALL, one bare POP per pushed argument
// drops it, and — for a non-void callee — one final POP with a destination
// temp receives the result.
type OpCode int

const (
	NOOP OpCode = iota
	LABEL
	UJUMP
	FJUMP
	HALT

	LOAD
	STORE
	ALOAD
	ASTORE

	PUSH
	POP
	CALL
	RETURN

	ADD
	SUB
	MUL
	DIV
	NEG

	FADD
	FSUB
	FMUL
	FDIV
	FNEG

	FLOAT

	EQ
	LT
	LE

	FEQ
	FLT
	FLE

	AND
	OR
	NOT

	READI
	READF
	READC

	WRITEI
	WRITEF
	WRITEC
	WRITES
)

// ValueKind tags which field of Value is meaningful.
type ValueKind int

const (
	VNone ValueKind = iota
	VTemp
	VName
	VConst
)

// Value is an operand: a temporary register, a named variable (local or
// parameter), or an immediate constant carried as its rendered source text.
type Value struct {
	Kind  ValueKind
	Temp  int
	Name  string
	Const string
}

func (v Value) IsZero() bool { return v.Kind == VNone }

func TempValue(n int) Value    { return Value{Kind: VTemp, Temp: n} }
func NameValue(n string) Value { return Value{Kind: VName, Name: n} }
func ConstValue(s string) Value { return Value{Kind: VConst, Const: s} }

// Instruction is one t-code operation. Not every field is meaningful for
// every Op; Print renders exactly the fields each opcode uses.
type Instruction struct {
	Op OpCode

	Dst  Value
	Src1 Value
	Src2 Value

	Label string // jump/label target, or this instruction's own label name
	Text  string // callee name for CALL, literal source text for WRITES
	N     int    // argument count for CALL
}

// Local describes one function-local storage slot collected while
// lowering its declarations. ArraySize is 0 for a scalar. ElemType is the
// basic type name ("int", "float", "bool", "char") of a scalar, or of one
// array element.
type Local struct {
	Name      string
	ElemType  string
	ArraySize int
}

// Param is one function parameter. Type is the declared type's full
// descriptive text ("int", "array 3 of int"), the same text a Local's
// ElemType/ArraySize pair would otherwise render. An array parameter is
// flagged IsArray and carries ElemType/ArraySize separately, so the LLVM
// stage can treat it as a pointer to its element type (SL passes arrays by
// reference) instead of as an inline [n x T] allocation.
type Param struct {
	Name string
	Type string

	IsArray   bool
	ElemType  string
	ArraySize int
}

// Function is one compiled subroutine: its t-code body plus the metadata
// (parameters, return type, locals) a later lowering stage needs to
// allocate storage and declare a matching signature without re-deriving it
// from the source tree.
type Function struct {
	Name    string
	Params  []Param
	RetType string // "" for a void-returning function (a procedure)
	Locals  []Local
	Code    []Instruction
}

// Program is the t-code Builder's output: the whole compiled unit.
type Program struct {
	Functions []Function
}
