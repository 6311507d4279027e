package types

type decoration struct {
	scope    ScopeId
	hasScope bool
	typ      Id
	hasType  bool
	isLValue bool
}

// key is anything with stable pointer identity for the lifetime of a
// compile: an ast.Node or an ast.Type (type expressions are not ast.Node —
// they carry no Accept method — but still get decorated per §4.4's
// "type-expression visiting").
type key = any

// Decorations is a side table from tree node identity to derived
// attributes (scope handle, type id, l-value flag). It is keyed by the
// node's own pointer rather than by an arena index, since the parser that
// builds the tree gives every node a stable heap address for the lifetime
// of a compile.
type Decorations struct {
	reg   *Registry
	byKey map[key]*decoration
}

func NewDecorations(reg *Registry) *Decorations {
	return &Decorations{reg: reg, byKey: map[key]*decoration{}}
}

func (d *Decorations) entry(n key) *decoration {
	e, ok := d.byKey[n]
	if !ok {
		e = &decoration{}
		d.byKey[n] = e
	}
	return e
}

// SetScope records the scope a node was declared or opened in. Each pass
// sets this at most once per node.
func (d *Decorations) SetScope(n key, scope ScopeId) {
	e := d.entry(n)
	e.scope = scope
	e.hasScope = true
}

// Scope returns the recorded scope, or NoScope if none was set.
func (d *Decorations) Scope(n key) ScopeId {
	e, ok := d.byKey[n]
	if !ok || !e.hasScope {
		return NoScope
	}
	return e.scope
}

// SetType records the type of a node. Each pass sets this at most once per
// node.
func (d *Decorations) SetType(n key, typ Id) {
	e := d.entry(n)
	e.typ = typ
	e.hasType = true
}

// Type returns the recorded type, or Error if none was set, so that
// unresolved lookups suppress cascading diagnostics automatically.
func (d *Decorations) Type(n key) Id {
	e, ok := d.byKey[n]
	if !ok || !e.hasType {
		return d.reg.Error()
	}
	return e.typ
}

// SetLValue records whether a node denotes an assignable storage location.
func (d *Decorations) SetLValue(n key, isLValue bool) {
	d.entry(n).isLValue = isLValue
}

// IsLValue returns the recorded l-value flag, or false if none was set.
func (d *Decorations) IsLValue(n key) bool {
	e, ok := d.byKey[n]
	return ok && e.isLValue
}
