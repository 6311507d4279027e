package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jesperkha/aslc/koi/token"
)

// DiagKind is the closed set of semantic diagnostic classifications the
// type checker and symbol collector can raise.
type DiagKind int

const (
	DeclaredIdent DiagKind = iota
	UndeclaredIdent
	IncompatibleOperator
	IncompatibleAssignment
	IncompatibleParameter
	IncompatibleReturn
	NumberOfParameters
	IsNotCallable
	IsNotFunction
	NonArrayInArrayAccess
	NonIntegerIndexInArrayAccess
	NonReferenceableLeftExpr
	NonReferenceableExpression
	BooleanRequired
	ReadWriteRequireBasic
	NoMainProperlyDeclared
)

// Diagnostic is one semantic error: its classification, source position,
// and rendered message.
type Diagnostic struct {
	Kind DiagKind
	Pos  token.Pos
	Msg  string
}

// Diagnostics accumulates semantic errors without halting the pass that
// raised them; the offending node is left typed Error so descendants do
// not cascade further diagnostics. Diagnostics are values, never panics or
// exceptions, per the error handling design.
type Diagnostics struct {
	file  *token.File
	diags []Diagnostic
}

func NewDiagnostics(file *token.File) *Diagnostics {
	return &Diagnostics{file: file}
}

func (d *Diagnostics) add(kind DiagKind, pos token.Pos, format string, args ...any) {
	d.diags = append(d.diags, Diagnostic{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Diagnostics() []Diagnostic { return d.diags }

func (d *Diagnostics) NumErrors() int { return len(d.diags) }

// Error joins every accumulated diagnostic into one error, pretty-printed
// with the offending source line and a single caret under the diagnostic's
// column (unlike ErrorHandler.Pretty, which underlines a whole span).
func (d *Diagnostics) Error() error {
	if len(d.diags) == 0 {
		return nil
	}
	errs := make([]error, len(d.diags))
	for i, diag := range d.diags {
		errs[i] = errors.New(d.pretty(diag))
	}
	return errors.Join(errs...)
}

func (d *Diagnostics) pretty(diag Diagnostic) string {
	if d.file == nil || diag.Pos.Row >= len(d.file.Lines) {
		return fmt.Sprintf("error: %s", diag.Msg)
	}
	line := d.file.Line(diag.Pos.Row)
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", diag.Msg)
	fmt.Fprintf(&b, "%3d | %s\n", diag.Pos.Row+1, line)
	fmt.Fprintf(&b, "    | %s^\n", strings.Repeat(" ", diag.Pos.Col))
	return b.String()
}

func (d *Diagnostics) DeclaredIdent(tok token.Token) {
	d.add(DeclaredIdent, tok.Pos, "'%s' is already declared in this scope", tok.Lexeme)
}

func (d *Diagnostics) UndeclaredIdent(tok token.Token) {
	d.add(UndeclaredIdent, tok.Pos, "'%s' is not declared", tok.Lexeme)
}

func (d *Diagnostics) IncompatibleOperator(pos token.Pos, op string) {
	d.add(IncompatibleOperator, pos, "incompatible operand type for operator '%s'", op)
}

func (d *Diagnostics) IncompatibleAssignment(pos token.Pos) {
	d.add(IncompatibleAssignment, pos, "incompatible types in assignment")
}

func (d *Diagnostics) IncompatibleParameter(pos token.Pos, index int, fn string) {
	d.add(IncompatibleParameter, pos, "incompatible type for parameter %d of '%s'", index+1, fn)
}

func (d *Diagnostics) IncompatibleReturn(pos token.Pos) {
	d.add(IncompatibleReturn, pos, "incompatible type in return statement")
}

func (d *Diagnostics) NumberOfParameters(pos token.Pos, fn string) {
	d.add(NumberOfParameters, pos, "wrong number of parameters in call to '%s'", fn)
}

func (d *Diagnostics) IsNotCallable(tok token.Token) {
	d.add(IsNotCallable, tok.Pos, "'%s' is not a function", tok.Lexeme)
}

func (d *Diagnostics) IsNotFunction(tok token.Token) {
	d.add(IsNotFunction, tok.Pos, "'%s' does not return a value", tok.Lexeme)
}

func (d *Diagnostics) NonArrayInArrayAccess(tok token.Token) {
	d.add(NonArrayInArrayAccess, tok.Pos, "'%s' is not an array", tok.Lexeme)
}

func (d *Diagnostics) NonIntegerIndexInArrayAccess(pos token.Pos) {
	d.add(NonIntegerIndexInArrayAccess, pos, "array index must be an integer")
}

func (d *Diagnostics) NonReferenceableLeftExpr(pos token.Pos) {
	d.add(NonReferenceableLeftExpr, pos, "left side of assignment is not referenceable")
}

func (d *Diagnostics) NonReferenceableExpression(pos token.Pos) {
	d.add(NonReferenceableExpression, pos, "expression is not referenceable")
}

func (d *Diagnostics) BooleanRequired(pos token.Pos) {
	d.add(BooleanRequired, pos, "boolean expression required")
}

func (d *Diagnostics) ReadWriteRequireBasic(pos token.Pos) {
	d.add(ReadWriteRequireBasic, pos, "read/write require a basic (primitive) type")
}

func (d *Diagnostics) NoMainProperlyDeclared() {
	d.add(NoMainProperlyDeclared, token.Pos{}, "program has no properly declared 'main' function (zero parameters, void return)")
}
