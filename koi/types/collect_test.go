package types_test

import (
	"strings"
	"testing"

	"github.com/jesperkha/aslc/koi"
)

func TestCollectMissingMainIsDiagnosed(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func helper() : int
			return 1;
		endfunc
	`)
	if err == nil {
		t.Fatal("expected a diagnostic for a program with no proper main")
	}
	if !strings.Contains(err.Error(), "main") {
		t.Errorf("expected the diagnostic to mention main, got: %s", err)
	}
}

func TestCollectProperMainIsAccepted(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func main()
			var x : int;
			x = 1;
		endfunc
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestCollectDuplicateLocalIsDiagnosed(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func main()
			var x : int;
			var x : float;
		endfunc
	`)
	if err == nil {
		t.Fatal("expected a diagnostic for a redeclared local")
	}
}

func TestCollectDuplicateFunctionIsDiagnosed(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func helper() : int
			return 1;
		endfunc

		func helper() : int
			return 2;
		endfunc

		func main()
		endfunc
	`)
	if err == nil {
		t.Fatal("expected a diagnostic for a redeclared function")
	}
}

func TestCollectParametersAreVisibleInsideBody(t *testing.T) {
	_, err := koi.CheckFile("test.sl", `
		func helper(a: int, b: float) : float
			return b;
		endfunc

		func main()
		endfunc
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
