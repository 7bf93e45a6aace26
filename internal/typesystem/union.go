package typesystem

// MakeUnion builds a Union from ts, enforcing the invariants of spec.md §3:
// flat (no nested Union), deduplicated, Never contributes nothing, Any
// absorbs everything, and a one-element result collapses to that element.
// This is the single sanctioned way to construct a UnionType; hand-built
// UnionType values risk violating the invariant and must not be compared
// against one built here.
func MakeUnion(ts ...Type) Type {
	flat := make([]Type, 0, len(ts))
	var flatten func(Type)
	flatten = func(t Type) {
		if t == nil {
			return
		}
		switch v := t.(type) {
		case *UnionType:
			for _, sub := range v.Types {
				flatten(sub)
			}
		case NeverType:
			// Never is the union identity element; contributes nothing.
		default:
			flat = append(flat, t)
		}
	}
	for _, t := range ts {
		flatten(t)
	}

	for _, t := range flat {
		if _, ok := t.(AnyType); ok {
			return AnyType{}
		}
	}

	deduped := make([]Type, 0, len(flat))
	for _, t := range flat {
		if !containsType(deduped, t) {
			deduped = append(deduped, t)
		}
	}

	switch len(deduped) {
	case 0:
		return NeverType{}
	case 1:
		return deduped[0]
	default:
		return &UnionType{Types: deduped}
	}
}

func containsType(list []Type, t Type) bool {
	for _, existing := range list {
		if Equal(existing, t) {
			return true
		}
	}
	return false
}

// Alternatives returns the flat list of alternatives of t: a single-element
// slice for any non-union type, or the Types slice for a *UnionType.
func Alternatives(t Type) []Type {
	if u, ok := t.(*UnionType); ok {
		return u.Types
	}
	if t == nil {
		return nil
	}
	return []Type{t}
}

// RemoveFromUnion returns t with every alternative matching pred removed,
// re-applying the MakeUnion invariants (e.g. collapsing to Never if nothing
// remains). Used by the `is None`/`is not None` and isinstance narrowing
// rules in the constraints package.
func RemoveFromUnion(t Type, pred func(Type) bool) Type {
	alts := Alternatives(t)
	kept := make([]Type, 0, len(alts))
	for _, alt := range alts {
		if !pred(alt) {
			kept = append(kept, alt)
		}
	}
	return MakeUnion(kept...)
}

// FilterUnion is the positive counterpart of RemoveFromUnion: keeps only
// alternatives matching pred.
func FilterUnion(t Type, pred func(Type) bool) Type {
	return RemoveFromUnion(t, func(alt Type) bool { return !pred(alt) })
}

// Join combines two types into the type of either, used when a symbol
// accumulates per-source contributions (spec.md §3 "inferred type of a
// symbol") and when combining sibling conditional scopes at a join point
// (spec.md §4.F "Combine").
func Join(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return MakeUnion(a, b)
}
