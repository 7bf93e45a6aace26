package constraints

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// ClassResolverFunc turns a class-reference expression (the second
// argument of isinstance, or the right side of `type(x) is C`) into the
// *typesystem.ClassType it names, using whatever evaluator state the
// caller has on hand. Returns nil if the expression doesn't evaluate to a
// known class.
type ClassResolverFunc func(ref ast.Expression) *typesystem.ClassType

// Apply turns a syntactic Narrowing into a concrete symbols.ScopeConstraint,
// using currentType to look up the constrained expression's type before
// narrowing and resolveClass to turn each Narrowing.ClassRefs entry into
// the *typesystem.ClassType it names. Returns ok=false when the subject
// isn't a supported expression (Key fails) or, for the isinstance forms,
// when no ClassRefs entry resolves.
func Apply(n Narrowing, currentType func(key string) typesystem.Type, resolveClass ClassResolverFunc) (symbols.ScopeConstraint, bool) {
	key, ok := Key(n.Subject)
	if !ok {
		return symbols.ScopeConstraint{}, false
	}
	cur := currentType(key)

	switch n.Kind {
	case NarrowIsNone:
		return symbols.ScopeConstraint{Key: key, Type: typesystem.NoneType{}}, true

	case NarrowIsNotNone:
		return symbols.ScopeConstraint{Key: key, Type: typesystem.RemoveFromUnion(cur, typesystem.IsNone)}, true

	case NarrowIsInstance:
		classes := resolveClasses(n.ClassRefs, resolveClass)
		if len(classes) == 0 {
			return symbols.ScopeConstraint{}, false
		}
		alts := make([]typesystem.Type, len(classes))
		for i, c := range classes {
			alts[i] = &typesystem.ObjectType{Class: c}
		}
		return symbols.ScopeConstraint{Key: key, Type: typesystem.MakeUnion(alts...)}, true

	case NarrowIsNotInstance:
		classes := resolveClasses(n.ClassRefs, resolveClass)
		if len(classes) == 0 {
			return symbols.ScopeConstraint{}, false
		}
		narrowed := typesystem.RemoveFromUnion(cur, func(alt typesystem.Type) bool {
			sc := typesystem.ClassOf(alt)
			if sc == nil {
				return false
			}
			for _, c := range classes {
				if sc.IsSubclassOf(c) {
					return true
				}
			}
			return false
		})
		return symbols.ScopeConstraint{Key: key, Type: narrowed}, true

	case NarrowTruthy:
		return symbols.ScopeConstraint{Key: key, Type: typesystem.FilterUnion(cur, typesystem.IsTruthyCapable)}, true

	case NarrowFalsy:
		return symbols.ScopeConstraint{Key: key, Type: typesystem.FilterUnion(cur, typesystem.IsFalsyCapable)}, true

	default:
		return symbols.ScopeConstraint{}, false
	}
}

func resolveClasses(refs []ast.Expression, resolveClass ClassResolverFunc) []*typesystem.ClassType {
	var out []*typesystem.ClassType
	for _, r := range refs {
		if c := resolveClass(r); c != nil {
			out = append(out, c)
		}
	}
	return out
}
