package parser

import (
	"testing"

	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/scanner"
	"github.com/jesperkha/aslc/koi/token"
)

func parserFrom(t *testing.T, src string) *Parser {
	file := token.NewFile("test.sl", src)
	s := scanner.New(file, file.Src)
	toks := s.ScanAll()
	if s.NumErrors > 0 {
		t.Fatalf("scan error: %s", s.Error())
	}
	return New(file, toks)
}

func TestEmptyFunction(t *testing.T) {
	p := parserFrom(t, `
		func main()
		endfunc
	`)
	tree := p.Parse()
	if p.Error() != nil {
		t.Fatalf("expected no error for empty function, got %s", p.Error())
	}
	if len(tree.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(tree.Functions))
	}
	if tree.Functions[0].Block == nil || len(tree.Functions[0].Block.Stmts) != 0 {
		t.Errorf("expected an empty body")
	}
}

func TestFunctionWithReturnAndDecls(t *testing.T) {
	p := parserFrom(t, `
		func add(a: int, b: int) : int
			var result : int;
			result = a + b;
			return result;
		endfunc
	`)
	tree := p.Parse()
	if p.Error() != nil {
		t.Fatalf("unexpected error: %s", p.Error())
	}

	fn := tree.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.RetType == nil {
		t.Fatalf("expected a return type")
	}
	if len(fn.Decls) != 1 {
		t.Fatalf("expected 1 var decl, got %d", len(fn.Decls))
	}
	if len(fn.Block.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Block.Stmts))
	}
	if _, ok := fn.Block.Stmts[0].(*ast.AssignStmt); !ok {
		t.Errorf("expected first statement to be an assignment, got %T", fn.Block.Stmts[0])
	}
	if _, ok := fn.Block.Stmts[1].(*ast.ReturnStmt); !ok {
		t.Errorf("expected second statement to be a return, got %T", fn.Block.Stmts[1])
	}
}

func TestIfWhileArrayCall(t *testing.T) {
	p := parserFrom(t, `
		func main()
			var xs : array 10 of int;
			var i : int;

			i = 0;
			while i < 10
				if xs[i] == 0 then
					write "zero";
				else
					write xs[i];
				endif
				i = i + 1;
			endwhile

			write_result(i);
		endfunc
	`)
	tree := p.Parse()
	if p.Error() != nil {
		t.Fatalf("unexpected error: %s", p.Error())
	}

	fn := tree.Functions[0]
	if len(fn.Decls) != 2 {
		t.Fatalf("expected 2 var decls, got %d", len(fn.Decls))
	}
	if _, ok := fn.Decls[0].Type.(*ast.ArrayType); !ok {
		t.Errorf("expected first decl to be an array type, got %T", fn.Decls[0].Type)
	}

	stmts := fn.Block.Stmts
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	whileStmt, ok := stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be a while loop, got %T", stmts[1])
	}
	if len(whileStmt.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements in while body, got %d", len(whileStmt.Body.Stmts))
	}
	ifStmt, ok := whileStmt.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected first while-body statement to be an if, got %T", whileStmt.Body.Stmts[0])
	}
	if ifStmt.Else == nil {
		t.Errorf("expected an else clause")
	}
	if _, ok := stmts[2].(*ast.CallStmt); !ok {
		t.Errorf("expected third statement to be a call, got %T", stmts[2])
	}
}

func TestSyncRecoversAfterMalformedStatement(t *testing.T) {
	p := parserFrom(t, `
		func main()
			1 + 2;
			write 1;
		endfunc
	`)
	p.Parse()
	if p.Error() == nil {
		t.Fatalf("expected an error for the malformed statement")
	}
	if p.NumErrors != 1 {
		t.Errorf("expected exactly 1 reported error, got %d", p.NumErrors)
	}
}
