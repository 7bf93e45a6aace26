package typesystem

// IsAssignable reports whether a value of type src can be used where dest
// is expected. This is a deliberately conservative approximation of
// pyright's full assignability algorithm (structural protocols, variance of
// generics, literal widening are all out of scope for this core); it
// covers Any/Unknown universal compatibility, union membership,
// subclassing, and declared-vs-inferred function return compatibility. No
// other package calls it.
func IsAssignable(src, dest Type) bool {
	if src == nil || dest == nil {
		return true
	}
	if IsAny(dest) || IsAny(src) || IsUnknown(dest) || IsUnknown(src) {
		return true
	}
	if IsNever(src) {
		return true // Never is assignable to everything
	}

	// dest is a union: src assignable if assignable to any alternative.
	if destUnion, ok := dest.(*UnionType); ok {
		for _, alt := range destUnion.Types {
			if IsAssignable(src, alt) {
				return true
			}
		}
		return false
	}

	// src is a union: every alternative must be assignable to dest.
	if srcUnion, ok := src.(*UnionType); ok {
		for _, alt := range srcUnion.Types {
			if !IsAssignable(alt, dest) {
				return false
			}
		}
		return true
	}

	switch d := dest.(type) {
	case NoneType:
		_, ok := src.(NoneType)
		return ok
	case *ObjectType:
		sc := ClassOf(src)
		return sc != nil && d.Class != nil && sc.IsSubclassOf(d.Class)
	case *ClassType:
		sc, ok := src.(*ClassType)
		return ok && sc.IsSubclassOf(d)
	case *TupleType:
		st, ok := src.(*TupleType)
		if !ok || len(st.EntryTypes) != len(d.EntryTypes) {
			return false
		}
		for i := range st.EntryTypes {
			if !IsAssignable(st.EntryTypes[i], d.EntryTypes[i]) {
				return false
			}
		}
		return true
	case *TypeVarType:
		if d.Bound != nil {
			return IsAssignable(src, d.Bound)
		}
		return true
	default:
		return Equal(src, dest)
	}
}
