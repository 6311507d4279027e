package types_test

import (
	"strings"
	"testing"

	"github.com/jesperkha/aslc/koi"
)

func expectError(t *testing.T, src string) {
	t.Helper()
	_, err := koi.CheckFile("test.sl", src)
	if err == nil {
		t.Fatalf("expected a diagnostic, got none for:\n%s", src)
	}
}

func expectOK(t *testing.T, src string) {
	t.Helper()
	_, err := koi.CheckFile("test.sl", src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestCheckAssignmentTypeMismatch(t *testing.T) {
	expectError(t, `
		func main()
			var x : bool;
			x = 1;
		endfunc
	`)
}

func TestCheckIntToFloatAssignmentIsAllowed(t *testing.T) {
	expectOK(t, `
		func main()
			var x : float;
			x = 1;
		endfunc
	`)
}

func TestCheckUndeclaredIdentInExpression(t *testing.T) {
	expectError(t, `
		func main()
			var x : int;
			x = y + 1;
		endfunc
	`)
}

func TestCheckIfConditionMustBeBoolean(t *testing.T) {
	expectError(t, `
		func main()
			var x : int;
			if x then
				x = 1;
			endif
		endfunc
	`)
}

func TestCheckWhileConditionMustBeBoolean(t *testing.T) {
	expectError(t, `
		func main()
			var x : int;
			while x
				x = 1;
			endwhile
		endfunc
	`)
}

func TestCheckArrayIndexMustBeInteger(t *testing.T) {
	expectError(t, `
		func main()
			var xs : array 4 of int;
			var f : float;
			xs[f] = 1;
		endfunc
	`)
}

func TestCheckIndexingNonArrayIsRejected(t *testing.T) {
	expectError(t, `
		func main()
			var x : int;
			x[0] = 1;
		endfunc
	`)
}

func TestCheckCallArityMismatch(t *testing.T) {
	expectError(t, `
		func helper(a: int) : int
			return a;
		endfunc

		func main()
			var x : int;
			x = helper();
		endfunc
	`)
}

func TestCheckCallArgumentTypeMismatch(t *testing.T) {
	expectError(t, `
		func helper(a: int) : int
			return a;
		endfunc

		func main()
			var x : bool;
			x = helper(true);
		endfunc
	`)
}

func TestCheckVoidCallUsedAsExpressionIsRejected(t *testing.T) {
	expectError(t, `
		func proc()
			write 1;
		endfunc

		func main()
			var x : int;
			x = proc();
		endfunc
	`)
}

func TestCheckVoidCallAsStatementIsAllowed(t *testing.T) {
	expectOK(t, `
		func proc()
			write 1;
		endfunc

		func main()
			proc();
		endfunc
	`)
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	expectError(t, `
		func helper() : int
			return true;
		endfunc

		func main()
		endfunc
	`)
}

func TestCheckBareReturnInNonVoidFunctionIsRejected(t *testing.T) {
	expectError(t, `
		func helper() : int
			return;
		endfunc

		func main()
		endfunc
	`)
}

func TestCheckReadWriteRequireBasicType(t *testing.T) {
	expectError(t, `
		func main()
			var xs : array 4 of int;
			write xs;
		endfunc
	`)
}

func TestCheckPercentRequiresBothOperandsInteger(t *testing.T) {
	expectError(t, `
		func main()
			var x : float;
			var y : int;
			y = y % x;
		endfunc
	`)
}

func TestCheckLogicalOperatorsRequireBoolean(t *testing.T) {
	expectError(t, `
		func main()
			var x : int;
			var y : bool;
			y = x and y;
		endfunc
	`)
}

// Assigning to a function name must raise both diagnostics independently:
// the assignment is type-incompatible AND the left side isn't a reference,
// matching the original checker rather than short-circuiting on one error.
func TestCheckAssignToFunctionNameRaisesBothDiagnostics(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func f()
		endfunc

		func main()
			f = 3;
		endfunc
	`)
	if err == nil {
		t.Fatalf("expected diagnostics, got none")
	}
	msg := err.Error()
	if !strings.Contains(msg, "incompatible types in assignment") {
		t.Errorf("expected an incompatible-assignment diagnostic, got:\n%s", msg)
	}
	if !strings.Contains(msg, "not referenceable") {
		t.Errorf("expected a non-referenceable-left-expr diagnostic, got:\n%s", msg)
	}
}

func TestCheckReadFunctionNameOnlyRaisesNonReferenceable(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func f()
		endfunc

		func main()
			read f;
		endfunc
	`)
	if err == nil {
		t.Fatalf("expected a diagnostic, got none")
	}
	msg := err.Error()
	if strings.Contains(msg, "read/write require a basic") {
		t.Errorf("reading a function name should not also raise the basic-type diagnostic, got:\n%s", msg)
	}
	if !strings.Contains(msg, "not referenceable") {
		t.Errorf("expected a non-referenceable-expression diagnostic, got:\n%s", msg)
	}
}
