package types

import "github.com/jesperkha/aslc/koi/ast"

// Collector implements ast.Visitor to run the symbol-collection pass: a
// single top-down traversal that populates the SymbolTable and the
// declaration-side Decorations. It never inspects statement or expression
// bodies — that is the Checker's job in the next pass — so most of the
// Visitor interface is satisfied with empty methods.
type Collector struct {
	reg   *Registry
	tbl   *SymbolTable
	dec   *Decorations
	diags *Diagnostics
	tree  *ast.Ast
}

func NewCollector(reg *Registry, tbl *SymbolTable, dec *Decorations, diags *Diagnostics, tree *ast.Ast) *Collector {
	return &Collector{reg: reg, tbl: tbl, dec: dec, diags: diags, tree: tree}
}

// Collect runs the pass over every top-level function and decorates the
// program with the global scope handle.
func (c *Collector) Collect() {
	c.dec.SetScope(c.tree, c.tbl.GlobalScope())
	for _, fn := range c.tree.Functions {
		fn.Accept(c)
	}
	if !c.tbl.HasProperMain(c.reg) {
		c.diags.NoMainProperlyDeclared()
	}
}

// resolveType turns a type expression into a registry Id, decorating the
// type node itself along the way (mirrors the original's
// visit(ctx->type()) writing a type decoration the caller reads back).
func (c *Collector) resolveType(t ast.Type) Id {
	switch tt := t.(type) {
	case *ast.BasicType:
		var id Id
		switch tt.Kind {
		case ast.INT:
			id = c.reg.Integer()
		case ast.FLOAT:
			id = c.reg.Float()
		case ast.BOOL:
			id = c.reg.Boolean()
		case ast.CHAR:
			id = c.reg.Character()
		default:
			id = c.reg.Error()
		}
		c.dec.SetType(tt, id)
		return id

	case *ast.ArrayType:
		elem := c.resolveType(tt.Elem)
		size := parseIntLiteral(tt.Size.Lexeme)
		id := c.reg.Array(size, elem)
		c.dec.SetType(tt, id)
		return id

	default:
		return c.reg.Error()
	}
}

func parseIntLiteral(lexeme string) int {
	n := 0
	for _, r := range lexeme {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (c *Collector) VisitFunc(node *ast.Func) {
	funcName := node.Name.Lexeme

	scope := c.tbl.PushNewScope(funcName)
	c.dec.SetScope(node, scope)

	paramTypes := make([]Id, 0, len(node.Params))
	for _, p := range node.Params {
		typ := c.resolveType(p.Type)
		if !c.tbl.AddParameter(p.Name.Lexeme, typ) {
			c.diags.DeclaredIdent(p.Name)
		}
		paramTypes = append(paramTypes, typ)
	}

	retType := c.reg.Void()
	if node.RetType != nil {
		retType = c.resolveType(node.RetType)
	}
	c.dec.SetType(node, retType)

	for _, decl := range node.Decls {
		decl.Accept(c)
	}

	c.tbl.PopScope()

	funcType := c.reg.Function(paramTypes, retType)
	c.tbl.PushThisScope(c.tbl.GlobalScope())
	ok := c.tbl.AddFunction(funcName, funcType)
	c.tbl.PopScope()
	if !ok {
		c.diags.DeclaredIdent(node.Name)
	}
}

func (c *Collector) VisitVarDecl(node *ast.VarDecl) {
	typ := c.resolveType(node.Type)
	for _, nameTok := range node.Names {
		if !c.tbl.AddLocalVar(nameTok.Lexeme, typ) {
			c.diags.DeclaredIdent(nameTok)
		}
	}
}

// The collection pass never descends into statements or expressions.
func (c *Collector) VisitBlock(node *ast.Block)                       {}
func (c *Collector) VisitAssignStmt(node *ast.AssignStmt)             {}
func (c *Collector) VisitIfStmt(node *ast.IfStmt)                     {}
func (c *Collector) VisitWhileStmt(node *ast.WhileStmt)               {}
func (c *Collector) VisitCallStmt(node *ast.CallStmt)                 {}
func (c *Collector) VisitReadStmt(node *ast.ReadStmt)                 {}
func (c *Collector) VisitWriteStmt(node *ast.WriteStmt)                {}
func (c *Collector) VisitWriteStringStmt(node *ast.WriteStringStmt)   {}
func (c *Collector) VisitReturnStmt(node *ast.ReturnStmt)             {}
func (c *Collector) VisitSimpleIdent(node *ast.SimpleIdent)           {}
func (c *Collector) VisitArrayIdent(node *ast.ArrayIdent)             {}
func (c *Collector) VisitParen(node *ast.Paren)                       {}
func (c *Collector) VisitArray(node *ast.Array)                       {}
func (c *Collector) VisitCall(node *ast.Call)                         {}
func (c *Collector) VisitIdent(node *ast.Ident)                       {}
func (c *Collector) VisitArithmetic(node *ast.Arithmetic)             {}
func (c *Collector) VisitRelational(node *ast.Relational)             {}
func (c *Collector) VisitLogic(node *ast.Logic)                       {}
func (c *Collector) VisitUnary(node *ast.Unary)                       {}
func (c *Collector) VisitLiteral(node *ast.Literal)                   {}
