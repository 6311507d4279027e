package types

import (
	"fmt"
	"strings"
)

// Id is an opaque handle into a Registry. All components outside this
// package reference types only by Id; the descriptor itself never escapes.
type Id int

// Kind is the sum-type tag of a type descriptor.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindBoolean
	KindCharacter
	KindArray
	KindFunction
	KindVoid
	KindError
)

// descriptor is the payload behind an Id. Only Array and Function use the
// Elem/Size/Params/Ret fields; they are zero for primitives.
type descriptor struct {
	kind Kind

	// Array
	elem Id
	size int

	// Function
	params []Id
	ret    Id
}

// Registry is an append-only interner of type descriptors. Create
// operations return an Id; queries are total and pure. Two descriptors with
// equal structure may or may not share an Id (only the four primitives,
// Void, and Error are deduplicated) — callers compare types with
// EqualTypes, never with Id equality.
type Registry struct {
	descs []descriptor

	integer   Id
	float     Id
	boolean   Id
	character Id
	void      Id
	errType   Id
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.integer = r.intern(descriptor{kind: KindInteger})
	r.float = r.intern(descriptor{kind: KindFloat})
	r.boolean = r.intern(descriptor{kind: KindBoolean})
	r.character = r.intern(descriptor{kind: KindCharacter})
	r.void = r.intern(descriptor{kind: KindVoid})
	r.errType = r.intern(descriptor{kind: KindError})
	return r
}

func (r *Registry) intern(d descriptor) Id {
	r.descs = append(r.descs, d)
	return Id(len(r.descs) - 1)
}

func (r *Registry) get(id Id) descriptor {
	if int(id) < 0 || int(id) >= len(r.descs) {
		return descriptor{kind: KindError}
	}
	return r.descs[id]
}

// Primitive singletons.
func (r *Registry) Integer() Id   { return r.integer }
func (r *Registry) Float() Id     { return r.float }
func (r *Registry) Boolean() Id   { return r.boolean }
func (r *Registry) Character() Id { return r.character }
func (r *Registry) Void() Id      { return r.void }
func (r *Registry) Error() Id     { return r.errType }

// Array creates a new Array(size, elem) descriptor and returns its Id.
func (r *Registry) Array(size int, elem Id) Id {
	return r.intern(descriptor{kind: KindArray, size: size, elem: elem})
}

// Function creates a new Function(params, ret) descriptor and returns its
// Id.
func (r *Registry) Function(params []Id, ret Id) Id {
	ps := make([]Id, len(params))
	copy(ps, params)
	return r.intern(descriptor{kind: KindFunction, params: ps, ret: ret})
}

func (r *Registry) IsInteger(id Id) bool   { return r.get(id).kind == KindInteger }
func (r *Registry) IsFloat(id Id) bool     { return r.get(id).kind == KindFloat }
func (r *Registry) IsBool(id Id) bool      { return r.get(id).kind == KindBoolean }
func (r *Registry) IsChar(id Id) bool      { return r.get(id).kind == KindCharacter }
func (r *Registry) IsVoid(id Id) bool      { return r.get(id).kind == KindVoid }
func (r *Registry) IsError(id Id) bool     { return r.get(id).kind == KindError }
func (r *Registry) IsArray(id Id) bool     { return r.get(id).kind == KindArray }
func (r *Registry) IsFunction(id Id) bool  { return r.get(id).kind == KindFunction }
func (r *Registry) IsPrimitive(id Id) bool {
	switch r.get(id).kind {
	case KindInteger, KindFloat, KindBoolean, KindCharacter:
		return true
	default:
		return false
	}
}
func (r *Registry) IsNumeric(id Id) bool { return r.IsInteger(id) || r.IsFloat(id) }

// EqualTypes is structural equality: two descriptors compare equal when
// their kind and payload match, regardless of Id identity.
func (r *Registry) EqualTypes(a, b Id) bool {
	da, db := r.get(a), r.get(b)
	if da.kind != db.kind {
		return false
	}
	switch da.kind {
	case KindArray:
		return da.size == db.size && r.EqualTypes(da.elem, db.elem)
	case KindFunction:
		if len(da.params) != len(db.params) || !r.EqualTypes(da.ret, db.ret) {
			return false
		}
		for i := range da.params {
			if !r.EqualTypes(da.params[i], db.params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// CopyableTypes reports whether a value of type src may be assigned/copied
// into a location of type dst: true when the types are equal, or when dst
// is Float and src is Integer (implicit coercion).
func (r *Registry) CopyableTypes(dst, src Id) bool {
	if r.EqualTypes(dst, src) {
		return true
	}
	return r.IsFloat(dst) && r.IsInteger(src)
}

// RelOp names a relational/equality operator, used by ComparableTypes to
// decide which operand kinds it accepts.
type RelOp int

const (
	OpEq RelOp = iota
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op RelOp) isEquality() bool { return op == OpEq || op == OpNeq }

// ComparableTypes reports whether a and b may be compared with op. Numerics
// are cross-comparable (int vs float allowed) with any relational or
// equality operator. Booleans and characters only support == and !=.
// Arrays and functions are never comparable.
func (r *Registry) ComparableTypes(a, b Id, op RelOp) bool {
	if r.IsNumeric(a) && r.IsNumeric(b) {
		return true
	}
	if (r.IsBool(a) && r.IsBool(b)) || (r.IsChar(a) && r.IsChar(b)) {
		return op.isEquality()
	}
	return false
}

func (r *Registry) ArrayElemType(id Id) Id {
	d := r.get(id)
	if d.kind != KindArray {
		return r.errType
	}
	return d.elem
}

func (r *Registry) ArraySize(id Id) int {
	d := r.get(id)
	if d.kind != KindArray {
		return 0
	}
	return d.size
}

func (r *Registry) FuncReturnType(id Id) Id {
	d := r.get(id)
	if d.kind != KindFunction {
		return r.errType
	}
	return d.ret
}

func (r *Registry) FuncParamTypes(id Id) []Id {
	d := r.get(id)
	if d.kind != KindFunction {
		return nil
	}
	return d.params
}

func (r *Registry) NumParams(id Id) int { return len(r.FuncParamTypes(id)) }

func (r *Registry) IsVoidFunction(id Id) bool {
	d := r.get(id)
	return d.kind == KindFunction && r.IsVoid(d.ret)
}

// SizeOfType returns an array's element count, or 1 for any other type.
func (r *Registry) SizeOfType(id Id) int {
	d := r.get(id)
	if d.kind == KindArray {
		return d.size
	}
	return 1
}

func (r *Registry) ToString(id Id) string {
	d := r.get(id)
	switch d.kind {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "bool"
	case KindCharacter:
		return "char"
	case KindVoid:
		return "void"
	case KindError:
		return "error-type"
	case KindArray:
		return fmt.Sprintf("array %d of %s", d.size, r.ToString(d.elem))
	case KindFunction:
		parts := make([]string, len(d.params))
		for i, p := range d.params {
			parts[i] = r.ToString(p)
		}
		return fmt.Sprintf("function(%s):%s", strings.Join(parts, ","), r.ToString(d.ret))
	default:
		return "?"
	}
}
