package types

import "github.com/jesperkha/aslc/koi/util"

// ScopeId identifies a lexical scope created by SymbolTable.PushNewScope.
// It is stable for the lifetime of the table, so a later pass can re-enter
// exactly the scope an earlier pass built (see PushThisScope).
type ScopeId int

// NoScope is returned by decoration queries when no scope was recorded.
const NoScope ScopeId = -1

type SymbolKind int

const (
	LocalVar SymbolKind = iota
	Parameter
	Function
)

// Symbol is a named binding: a local variable, a parameter, or a function
// signature (function symbols live only in the global scope).
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Type  Id
	Scope ScopeId
}

type scopeRec struct {
	name    string
	order   []string // declaration order, for iteration and duplicate-safe printing
	entries map[string]*Symbol
}

func newScopeRec(name string) *scopeRec {
	return &scopeRec{name: name, entries: map[string]*Symbol{}}
}

// SymbolTable is a stack of lexical scopes. The global scope (index 0)
// holds only Function symbols; every function body gets its own scope
// holding its parameters followed by its locals.
type SymbolTable struct {
	scopes      []*scopeRec // every scope ever created, indexed by ScopeId
	stack       []ScopeId   // the active scope stack, top is stack[len-1]
	globalScope ScopeId
}

func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{}
	t.globalScope = t.PushNewScope("global")
	return t
}

func (t *SymbolTable) GlobalScope() ScopeId { return t.globalScope }

// PushNewScope creates a fresh scope named name, pushes it onto the active
// stack, and returns its handle for later re-entry.
func (t *SymbolTable) PushNewScope(name string) ScopeId {
	t.scopes = append(t.scopes, newScopeRec(name))
	id := ScopeId(len(t.scopes) - 1)
	t.stack = append(t.stack, id)
	return id
}

// PushThisScope re-enters a scope created by an earlier pass, so a later
// pass observes exactly the bindings the earlier one left behind.
func (t *SymbolTable) PushThisScope(id ScopeId) {
	t.stack = append(t.stack, id)
}

// PopScope removes the top scope from the active stack. It does not delete
// the scope; PushThisScope can still re-enter it.
func (t *SymbolTable) PopScope() {
	util.Assert(len(t.stack) > 0, "PopScope called with an empty scope stack")
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *SymbolTable) current() *scopeRec {
	return t.scopes[t.stack[len(t.stack)-1]]
}

func (t *SymbolTable) CurrentScopeId() ScopeId {
	return t.stack[len(t.stack)-1]
}

func (t *SymbolTable) add(name string, kind SymbolKind, typ Id) bool {
	cur := t.current()
	if _, exists := cur.entries[name]; exists {
		return false
	}
	cur.entries[name] = &Symbol{Name: name, Kind: kind, Type: typ, Scope: t.CurrentScopeId()}
	cur.order = append(cur.order, name)
	return true
}

// AddLocalVar, AddParameter, and AddFunction bind name in the current
// scope. They report false (and do not rebind) when name is already bound
// in that scope; the caller is responsible for raising the diagnostic.
func (t *SymbolTable) AddLocalVar(name string, typ Id) bool  { return t.add(name, LocalVar, typ) }
func (t *SymbolTable) AddParameter(name string, typ Id) bool { return t.add(name, Parameter, typ) }
func (t *SymbolTable) AddFunction(name string, typ Id) bool  { return t.add(name, Function, typ) }

// FindInCurrentScope looks up name without searching parent scopes.
func (t *SymbolTable) FindInCurrentScope(name string) (*Symbol, bool) {
	sym, ok := t.current().entries[name]
	return sym, ok
}

// FindInStack searches the active scope stack from innermost to outermost
// and returns the first match.
func (t *SymbolTable) FindInStack(name string) (*Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[t.stack[i]].entries[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (t *SymbolTable) GetType(name string) Id {
	if sym, ok := t.FindInStack(name); ok {
		return sym.Type
	}
	return -1 // caller must treat a missing symbol as Error before calling this
}

func (t *SymbolTable) IsFunctionClass(name string) bool {
	sym, ok := t.FindInStack(name)
	return ok && sym.Kind == Function
}

func (t *SymbolTable) IsParameterClass(name string) bool {
	sym, ok := t.FindInStack(name)
	return ok && sym.Kind == Parameter
}

func (t *SymbolTable) IsLocalVarClass(name string) bool {
	sym, ok := t.FindInStack(name)
	return ok && sym.Kind == LocalVar
}

// IsVoidFunction reports whether id (a Function type) returns Void.
func (t *SymbolTable) IsVoidFunction(reg *Registry, id Id) bool {
	return reg.IsVoidFunction(id)
}

// HasProperMain reports whether the global scope declares a zero-parameter,
// void-returning function named "main" (the noMainProperlyDeclared
// invariant).
func (t *SymbolTable) HasProperMain(reg *Registry) bool {
	sym, ok := t.scopes[t.globalScope].entries["main"]
	if !ok || sym.Kind != Function {
		return false
	}
	return reg.NumParams(sym.Type) == 0 && reg.IsVoidFunction(sym.Type)
}

// FunctionNames returns every function declared in the global scope, in
// declaration order.
func (t *SymbolTable) FunctionNames() []string {
	g := t.scopes[t.globalScope]
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}
