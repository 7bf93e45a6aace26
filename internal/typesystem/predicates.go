package typesystem

// IsAny reports whether t is the Any type.
func IsAny(t Type) bool {
	_, ok := t.(AnyType)
	return ok
}

// IsNever reports whether t is the Never (bottom) type.
func IsNever(t Type) bool {
	_, ok := t.(NeverType)
	return ok
}

// IsNone reports whether t is exactly NoneType (not a union containing it).
func IsNone(t Type) bool {
	_, ok := t.(NoneType)
	return ok
}

// IsUnknown reports whether t is Unknown.
func IsUnknown(t Type) bool {
	_, ok := t.(Unknown)
	return ok
}

// ContainsNone reports whether t is or contains NoneType as an alternative.
func ContainsNone(t Type) bool {
	for _, alt := range Alternatives(t) {
		if IsNone(alt) {
			return true
		}
	}
	return false
}

// ClassOf returns the ClassType backing t: t itself if t is a *ClassType,
// or t's Class if t is an *ObjectType. Returns nil for anything else.
func ClassOf(t Type) *ClassType {
	switch v := t.(type) {
	case *ClassType:
		return v
	case *ObjectType:
		return v.Class
	default:
		return nil
	}
}

// IsTruthyCapable reports whether a value of type t could ever be truthy
// under `if t:` — i.e. it isn't exactly None/Never/an always-empty literal.
// Used by the truthiness narrowing rule in the constraints package.
func IsTruthyCapable(t Type) bool {
	switch t.(type) {
	case NoneType, NeverType:
		return false
	default:
		return true
	}
}

// IsFalsyCapable reports whether a value of type t could ever be falsy.
// None is always falsy; most object types are potentially falsy too (could
// define __bool__/__len__ returning False/0) except where the evaluator
// cannot prove otherwise, so this conservatively returns true for anything
// that isn't Never.
func IsFalsyCapable(t Type) bool {
	return !IsNever(t)
}

// Equal reports whether a and b denote the same type. TypeVars compare by
// pointer identity (spec.md §3 invariant); classes compare by name plus
// specialized type arguments; everything else compares structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Unknown:
		_, ok := b.(Unknown)
		return ok
	case Unbound:
		_, ok := b.(Unbound)
		return ok
	case AnyType:
		_, ok := b.(AnyType)
		return ok
	case NoneType:
		_, ok := b.(NoneType)
		return ok
	case NeverType:
		_, ok := b.(NeverType)
		return ok
	case EllipsisTypeVal:
		_, ok := b.(EllipsisTypeVal)
		return ok
	case *TypeVarType:
		bv, ok := b.(*TypeVarType)
		return ok && av == bv
	case *ClassType:
		bv, ok := b.(*ClassType)
		if !ok || av.Name != bv.Name {
			return false
		}
		return sameTypeArgs(av.TypeArgs, bv.TypeArgs)
	case *ObjectType:
		bv, ok := b.(*ObjectType)
		return ok && Equal(av.Class, bv.Class)
	case *TupleType:
		bv, ok := b.(*TupleType)
		if !ok || len(av.EntryTypes) != len(bv.EntryTypes) {
			return false
		}
		for i := range av.EntryTypes {
			if !Equal(av.EntryTypes[i], bv.EntryTypes[i]) {
				return false
			}
		}
		return true
	case *UnionType:
		bv, ok := b.(*UnionType)
		if !ok || len(av.Types) != len(bv.Types) {
			return false
		}
		for _, at := range av.Types {
			if !containsType(bv.Types, at) {
				return false
			}
		}
		return true
	case *FunctionType:
		bv, ok := b.(*FunctionType)
		return ok && av == bv
	case *ModuleType:
		bv, ok := b.(*ModuleType)
		return ok && av.Name == bv.Name
	default:
		return a == b
	}
}

func sameTypeArgs(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
