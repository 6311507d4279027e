package ir_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jesperkha/aslc/koi"
	"github.com/jesperkha/aslc/koi/ir"
)

func programFrom(t *testing.T, src string) ir.Program {
	prog, err := koi.GenerateIR("test.sl", src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return prog
}

func printed(prog ir.Program) string {
	var b bytes.Buffer
	ir.PrintProgram(&b, prog)
	return strings.TrimSpace(b.String())
}

func TestBuildReturnConstant(t *testing.T) {
	prog := programFrom(t, `
		func answer() : int
			return 42;
		endfunc

		func main()
		endfunc
	`)

	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.RetType != "int" {
		t.Errorf("expected return type int, got %q", fn.RetType)
	}
	if len(fn.Code) != 1 || fn.Code[0].Op != ir.RETURN {
		t.Fatalf("expected a single return instruction, got %v", fn.Code)
	}
	if fn.Code[0].Src1.Const != "42" {
		t.Errorf("expected return operand 42, got %q", fn.Code[0].Src1.Const)
	}
}

func TestBuildArithmeticAssignment(t *testing.T) {
	prog := programFrom(t, `
		func main()
			var x : int;
			x = 1 + 2 * 3;
		endfunc
	`)

	fn := prog.Functions[0]
	var ops []ir.OpCode
	for _, instr := range fn.Code {
		ops = append(ops, instr.Op)
	}
	// mul runs before add (precedence), then the result is stored.
	want := []ir.OpCode{ir.MUL, ir.ADD, ir.STORE}
	if len(ops) != len(want) {
		t.Fatalf("expected %d instructions, got %d (%v)", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("instruction %d: expected %d, got %d", i, want[i], ops[i])
		}
	}
}

func TestBuildIntToFloatCoercion(t *testing.T) {
	prog := programFrom(t, `
		func main()
			var x : float;
			x = 3;
		endfunc
	`)

	fn := prog.Functions[0]
	if len(fn.Code) != 2 {
		t.Fatalf("expected a FLOAT cast then a STORE, got %v", fn.Code)
	}
	if fn.Code[0].Op != ir.FLOAT {
		t.Errorf("expected first instruction to be a FLOAT cast, got %d", fn.Code[0].Op)
	}
	if fn.Code[1].Op != ir.STORE {
		t.Errorf("expected second instruction to be a STORE, got %d", fn.Code[1].Op)
	}
}

func TestBuildIfWhileControlFlow(t *testing.T) {
	prog := programFrom(t, `
		func main()
			var i : int;
			i = 0;
			while i < 10
				if i == 5 then
					write i;
				endif
				i = i + 1;
			endwhile
		endfunc
	`)

	fn := prog.Functions[0]
	labelCount, fjumpCount, ujumpCount := 0, 0, 0
	for _, instr := range fn.Code {
		switch instr.Op {
		case ir.LABEL:
			labelCount++
		case ir.FJUMP:
			fjumpCount++
		case ir.UJUMP:
			ujumpCount++
		}
	}
	if labelCount != 3 {
		t.Errorf("expected 3 labels (while-start, while-end, if-end), got %d", labelCount)
	}
	if fjumpCount != 2 {
		t.Errorf("expected 2 conditional jumps (while guard, if guard), got %d", fjumpCount)
	}
	if ujumpCount != 1 {
		t.Errorf("expected 1 unconditional jump (while back-edge), got %d", ujumpCount)
	}
}

func TestBuildCallAndArrayAccess(t *testing.T) {
	prog := programFrom(t, `
		func helper(a: int) : int
			return a;
		endfunc

		func main()
			var xs : array 5 of int;
			var y : int;
			xs[0] = helper(3);
			y = xs[0];
		endfunc
	`)

	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}
	mainFn := prog.Functions[1]

	var sawCall, sawAStore, sawALoad bool
	for _, instr := range mainFn.Code {
		switch instr.Op {
		case ir.CALL:
			sawCall = true
			if instr.Text != "helper" || instr.N != 1 {
				t.Errorf("expected call helper/1, got %s/%d", instr.Text, instr.N)
			}
		case ir.ASTORE:
			sawAStore = true
		case ir.ALOAD:
			sawALoad = true
		}
	}
	if !sawCall || !sawAStore || !sawALoad {
		t.Errorf("expected to see CALL, ASTORE, and ALOAD, got code: %v", mainFn.Code)
	}
}

func TestBuildCallUsesPushPopConvention(t *testing.T) {
	prog := programFrom(t, `
		func helper(a: int, b: int) : int
			return a;
		endfunc

		func main()
			var y : int;
			y = helper(2, 3);
		endfunc
	`)

	mainFn := prog.Functions[1]
	var ops []ir.OpCode
	for _, instr := range mainFn.Code {
		ops = append(ops, instr.Op)
	}
	// leading placeholder push (non-void callee), one push per arg, call,
	// one bare pop per arg, then a pop-with-destination for the result,
	// then the store into y.
	want := []ir.OpCode{ir.PUSH, ir.PUSH, ir.PUSH, ir.CALL, ir.POP, ir.POP, ir.POP, ir.STORE}
	if len(ops) != len(want) {
		t.Fatalf("expected %d instructions, got %d (%v)", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("instruction %d: expected %d, got %d", i, want[i], ops[i])
		}
	}

	// the leading push carries no operand (it's the reserved result slot).
	if !mainFn.Code[0].Src1.IsZero() {
		t.Errorf("expected leading push to carry no operand, got %v", mainFn.Code[0].Src1)
	}
	// the first two bare pops carry no destination; the third carries one.
	if !mainFn.Code[4].Dst.IsZero() || !mainFn.Code[5].Dst.IsZero() {
		t.Errorf("expected the argument-dropping pops to carry no destination")
	}
	if mainFn.Code[6].Dst.IsZero() {
		t.Errorf("expected the final pop to carry a destination temp")
	}
}

func TestBuildVoidCallOmitsResultPushAndPop(t *testing.T) {
	prog := programFrom(t, `
		func helper(a: int)
			write a;
		endfunc

		func main()
			helper(1);
		endfunc
	`)

	mainFn := prog.Functions[1]
	var ops []ir.OpCode
	for _, instr := range mainFn.Code {
		ops = append(ops, instr.Op)
	}
	want := []ir.OpCode{ir.PUSH, ir.CALL, ir.POP}
	if len(ops) != len(want) {
		t.Fatalf("expected %d instructions for a void call, got %d (%v)", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("instruction %d: expected %d, got %d", i, want[i], ops[i])
		}
	}
}

func TestBuildWholeArrayAssignmentLowersToCopyLoop(t *testing.T) {
	prog := programFrom(t, `
		func main()
			var xs : array 4 of int;
			var ys : array 4 of int;
			xs = ys;
		endfunc
	`)

	fn := prog.Functions[0]
	var labels []string
	var sawALoad, sawAStore, sawFJump, sawUJump bool
	for _, instr := range fn.Code {
		switch instr.Op {
		case ir.LABEL:
			labels = append(labels, instr.Label)
		case ir.ALOAD:
			sawALoad = true
		case ir.ASTORE:
			sawAStore = true
		case ir.FJUMP:
			sawFJump = true
		case ir.UJUMP:
			sawUJump = true
		}
	}
	if len(labels) != 2 || !strings.HasPrefix(labels[0], "ArrayCpy") || !strings.HasPrefix(labels[1], "EndArrayCpy") {
		t.Fatalf("expected an ArrayCpyN/EndArrayCpyN label pair, got %v", labels)
	}
	if !sawALoad || !sawAStore || !sawFJump || !sawUJump {
		t.Errorf("expected a copy loop with ALOAD, ASTORE, FJUMP, and UJUMP, got code: %v", fn.Code)
	}

	var counterLocal bool
	for _, l := range fn.Locals {
		if strings.HasPrefix(l.Name, ".cpy") {
			counterLocal = true
		}
	}
	if !counterLocal {
		t.Errorf("expected a synthesized .cpyN counter local, got %v", fn.Locals)
	}
}

func TestBuildArrayParameterIndexDereferencesFirst(t *testing.T) {
	prog := programFrom(t, `
		func sum(xs: array 3 of int) : int
			var total : int;
			total = xs[0] + xs[1];
			return total;
		endfunc

		func main()
		endfunc
	`)

	fn := prog.Functions[0]
	if len(fn.Params) != 1 || !fn.Params[0].IsArray {
		t.Fatalf("expected one array parameter, got %v", fn.Params)
	}
	if fn.Params[0].ElemType != "int" || fn.Params[0].ArraySize != 3 {
		t.Errorf("expected element type int and size 3, got %q/%d", fn.Params[0].ElemType, fn.Params[0].ArraySize)
	}

	var sawDeref, sawALoad bool
	for _, instr := range fn.Code {
		switch instr.Op {
		case ir.LOAD:
			if instr.Src1.Kind == ir.VName && instr.Src1.Name == "xs" {
				sawDeref = true
			}
		case ir.ALOAD:
			if instr.Src1.Kind == ir.VTemp {
				sawALoad = true
			}
		}
	}
	if !sawDeref {
		t.Errorf("expected xs to be dereferenced via LOAD before indexing, got %v", fn.Code)
	}
	if !sawALoad {
		t.Errorf("expected ALOAD to address the dereferenced temp, got %v", fn.Code)
	}
}

func TestBuildArrayParameterAssignmentDereferencesFirst(t *testing.T) {
	prog := programFrom(t, `
		func fill(xs: array 3 of int)
			xs[0] = 9;
		endfunc

		func main()
		endfunc
	`)

	fn := prog.Functions[0]
	var sawDeref, sawAStore bool
	for _, instr := range fn.Code {
		switch instr.Op {
		case ir.LOAD:
			if instr.Src1.Kind == ir.VName && instr.Src1.Name == "xs" {
				sawDeref = true
			}
		case ir.ASTORE:
			if instr.Dst.Kind == ir.VTemp {
				sawAStore = true
			}
		}
	}
	if !sawDeref || !sawAStore {
		t.Errorf("expected xs to be dereferenced once and ASTORE to target the temp, got %v", fn.Code)
	}
}

func TestBuildWholeArrayCopyFromParameterDereferencesOnceBeforeLoop(t *testing.T) {
	prog := programFrom(t, `
		func copy(src: array 4 of int)
			var dst : array 4 of int;
			dst = src;
		endfunc

		func main()
		endfunc
	`)

	fn := prog.Functions[0]
	var loopStart int
	for i, instr := range fn.Code {
		if instr.Op == ir.LABEL && strings.HasPrefix(instr.Label, "ArrayCpy") {
			loopStart = i
			break
		}
	}
	if loopStart == 0 {
		t.Fatalf("expected an ArrayCpyN label, got %v", fn.Code)
	}

	derefCount := 0
	for _, instr := range fn.Code[:loopStart] {
		if instr.Op == ir.LOAD && instr.Src1.Kind == ir.VName && instr.Src1.Name == "src" {
			derefCount++
		}
	}
	if derefCount != 1 {
		t.Errorf("expected exactly one dereference of src before the copy loop, got %d in %v", derefCount, fn.Code)
	}
	for _, instr := range fn.Code[loopStart:] {
		if instr.Op == ir.LOAD && instr.Src1.Kind == ir.VName && instr.Src1.Name == "src" {
			t.Errorf("expected no re-dereference of src inside the copy loop, got %v", fn.Code)
		}
	}
}

func TestBuildModuloDecomposesToDivMulSub(t *testing.T) {
	prog := programFrom(t, `
		func main()
			var x : int;
			x = 7 % 2;
		endfunc
	`)

	fn := prog.Functions[0]
	var ops []ir.OpCode
	for _, instr := range fn.Code {
		ops = append(ops, instr.Op)
	}
	want := []ir.OpCode{ir.DIV, ir.MUL, ir.SUB, ir.STORE}
	if len(ops) != len(want) {
		t.Fatalf("expected %d instructions, got %d (%v)", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("instruction %d: expected %d, got %d", i, want[i], ops[i])
		}
	}
}

func TestBuildDerivedComparisonsNegateEqualityAndLessOrEqual(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want []ir.OpCode
	}{
		{"not-equal negates EQ", "1 != 2", []ir.OpCode{ir.EQ, ir.NOT, ir.STORE}},
		{"greater negates LE", "1 > 2", []ir.OpCode{ir.LE, ir.NOT, ir.STORE}},
		{"greater-equal negates LT", "1 >= 2", []ir.OpCode{ir.LT, ir.NOT, ir.STORE}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog := programFrom(t, `
				func main()
					var b : bool;
					b = `+tc.expr+`;
				endfunc
			`)
			fn := prog.Functions[0]
			var ops []ir.OpCode
			for _, instr := range fn.Code {
				ops = append(ops, instr.Op)
			}
			if len(ops) != len(tc.want) {
				t.Fatalf("expected %d instructions, got %d (%v)", len(tc.want), len(ops), ops)
			}
			for i := range tc.want {
				if ops[i] != tc.want[i] {
					t.Errorf("instruction %d: expected %d, got %d", i, tc.want[i], ops[i])
				}
			}
		})
	}
}

func TestPrintProgramRendersHeaderAndBody(t *testing.T) {
	prog := programFrom(t, `
		func one() : int
			return 1;
		endfunc

		func main()
		endfunc
	`)

	out := printed(prog)
	if !strings.Contains(out, "func one() -> int") {
		t.Errorf("expected a function header in output, got:\n%s", out)
	}
	if !strings.Contains(out, "return 1") {
		t.Errorf("expected a return in output, got:\n%s", out)
	}
}
