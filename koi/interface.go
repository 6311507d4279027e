package koi

import (
	"fmt"
	"os"

	"github.com/jesperkha/aslc/koi/ast"
	"github.com/jesperkha/aslc/koi/ir"
	"github.com/jesperkha/aslc/koi/parser"
	"github.com/jesperkha/aslc/koi/scanner"
	"github.com/jesperkha/aslc/koi/token"
	"github.com/jesperkha/aslc/koi/types"
)

// ParseFile scans and parses filename (or src, when non-nil) into a tree,
// without running any semantic pass.
func ParseFile(filename string, src any) (*ast.Ast, error) {
	srcBytes, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	file := token.NewFile(filename, srcBytes)

	s := scanner.New(file, srcBytes)
	toks := s.ScanAll()
	if s.NumErrors > 0 {
		return nil, s.Error()
	}

	p := parser.New(file, toks)
	tree := p.Parse()
	return tree, p.Error()
}

// CheckResult carries every artifact produced by running the tree through
// symbol collection and type checking: a program with a diagnostic means
// Registry/SymbolTable/Decorations are still populated (as far as each pass
// got) even though Tree should not be lowered to t-code.
type CheckResult struct {
	Tree *ast.Ast
	Reg  *types.Registry
	Tbl  *types.SymbolTable
	Dec  *types.Decorations
}

// CheckFile runs symbol collection and type checking over filename (or
// src). The returned error, if non-nil, joins every diagnostic raised by
// either pass; the caller should not lower the result to t-code when it is
// non-nil.
func CheckFile(filename string, src any) (*CheckResult, error) {
	srcBytes, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	file := token.NewFile(filename, srcBytes)

	s := scanner.New(file, srcBytes)
	toks := s.ScanAll()
	if s.NumErrors > 0 {
		return nil, s.Error()
	}

	p := parser.New(file, toks)
	tree := p.Parse()
	if p.Error() != nil {
		return nil, p.Error()
	}

	reg := types.NewRegistry()
	tbl := types.NewSymbolTable()
	dec := types.NewDecorations(reg)
	diags := types.NewDiagnostics(file)

	types.NewCollector(reg, tbl, dec, diags, tree).Collect()
	types.NewChecker(reg, tbl, dec, diags, tree).Check()

	result := &CheckResult{Tree: tree, Reg: reg, Tbl: tbl, Dec: dec}
	return result, diags.Error()
}

// GenerateIR runs the full pipeline (scan, parse, check, build) and returns
// the t-code program. The tree is only lowered once it carries zero
// diagnostics.
func GenerateIR(filename string, src any) (ir.Program, error) {
	result, err := CheckFile(filename, src)
	if err != nil {
		return ir.Program{}, err
	}

	b := ir.NewBuilder(result.Reg, result.Tbl, result.Dec, result.Tree)
	return b.Build(), nil
}

func readSource(filename string, src any) ([]byte, error) {
	if src != nil {
		switch src := src.(type) {
		case string:
			return []byte(src), nil

		case []byte:
			return src, nil

		default:
			return nil, fmt.Errorf("invalid src type")
		}
	}

	return os.ReadFile(filename)
}
