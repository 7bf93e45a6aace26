package constraints

import "github.com/astra-lang/astracheck/internal/ast"

// NarrowKind identifies the shape of a syntactic narrowing.
type NarrowKind int

const (
	// NarrowIsNone: the expression is exactly None on this branch.
	NarrowIsNone NarrowKind = iota
	// NarrowIsNotNone: None is removed from the expression's type on this branch.
	NarrowIsNotNone
	// NarrowIsInstance: the expression is narrowed to (a union of) ClassRefs.
	NarrowIsInstance
	// NarrowIsNotInstance: the expression has every ClassRefs alternative removed.
	NarrowIsNotInstance
	// NarrowTruthy: the expression is truthy on this branch.
	NarrowTruthy
	// NarrowFalsy: the expression is falsy on this branch.
	NarrowFalsy
)

// Narrowing is a syntactic narrowing extracted from a test expression by
// Build, not yet resolved to a concrete typesystem.Type. Subject is the
// narrowed "supported expression"; ClassRefs holds the class-reference
// expressions of an isinstance/type(x) is C form, left unevaluated for
// Apply's caller-supplied resolver to turn into *typesystem.ClassType.
type Narrowing struct {
	Kind      NarrowKind
	Subject   ast.Expression
	ClassRefs []ast.Expression
}

// Build extracts the syntactic narrowings implied by test when control
// reaches the branch named by `branch` (true for the `if`/`while` body,
// false for the paired `else`). Unrecognized test shapes contribute no
// narrowings; the returned list may be empty.
//
// `and`/`or` only narrow on the branch where their short-circuit identity
// lets every operand's narrowing hold at once: `a and b` narrows its
// operands conjunctively on the true branch only (the false branch is a
// disjunction of "a false" or "b false", which this list-of-narrowings
// representation cannot express as a single combined constraint); `a or b`
// is the mirror image, narrowing conjunctively on the false branch.
func Build(test ast.Expression, branch bool) []Narrowing {
	switch n := test.(type) {
	case *ast.UnaryExpr:
		if n.Op == ast.OpNot {
			return Build(n.Operand, !branch)
		}
		return buildTruthy(test, branch)

	case *ast.BoolOpExpr:
		switch n.Op {
		case ast.BoolAnd:
			if !branch {
				return nil
			}
			var out []Narrowing
			for _, v := range n.Values {
				out = append(out, Build(v, true)...)
			}
			return out
		case ast.BoolOr:
			if branch {
				return nil
			}
			var out []Narrowing
			for _, v := range n.Values {
				out = append(out, Build(v, false)...)
			}
			return out
		}
		return nil

	case *ast.CompareExpr:
		return buildCompare(n, branch)

	case *ast.CallExpr:
		if kind := builtinCallName(n.Func); kind == "isinstance" && len(n.Args) == 2 {
			subject := n.Args[0]
			refs := classRefList(n.Args[1])
			if branch {
				return []Narrowing{{Kind: NarrowIsInstance, Subject: subject, ClassRefs: refs}}
			}
			return []Narrowing{{Kind: NarrowIsNotInstance, Subject: subject, ClassRefs: refs}}
		}
		return buildTruthy(test, branch)

	default:
		return buildTruthy(test, branch)
	}
}

// buildTruthy is the fallback rule for any "supported expression" used
// directly as a test (`if x:`): truthy on the true branch, falsy on the
// false branch. Non-supported expressions (no structural Key) still
// narrow nothing, since Apply has nowhere to attach the constraint.
func buildTruthy(test ast.Expression, branch bool) []Narrowing {
	if _, ok := Key(test); !ok {
		return nil
	}
	if branch {
		return []Narrowing{{Kind: NarrowTruthy, Subject: test}}
	}
	return []Narrowing{{Kind: NarrowFalsy, Subject: test}}
}

// buildCompare recognizes the two narrowing-relevant comparison forms:
// `x is None` / `x is not None` (and their `==`/`!=` counterparts, which
// pyright also narrows on when the right side is exactly None), and
// `type(x) is C` / `type(x) is not C`. Only a single (non-chained)
// comparison is recognized; a chained comparison like `a < b <= c` carries
// no narrowing.
func buildCompare(n *ast.CompareExpr, branch bool) []Narrowing {
	if len(n.Ops) != 1 {
		return nil
	}
	op := n.Ops[0]
	right := n.Comparators[0]

	if _, isNone := right.(*ast.NoneLiteral); isNone {
		switch op {
		case ast.CmpIs, ast.CmpEq:
			if branch {
				return []Narrowing{{Kind: NarrowIsNone, Subject: n.Left}}
			}
			return []Narrowing{{Kind: NarrowIsNotNone, Subject: n.Left}}
		case ast.CmpIsNot, ast.CmpNotEq:
			if branch {
				return []Narrowing{{Kind: NarrowIsNotNone, Subject: n.Left}}
			}
			return []Narrowing{{Kind: NarrowIsNone, Subject: n.Left}}
		}
		return nil
	}

	if call, ok := n.Left.(*ast.CallExpr); ok && builtinCallName(call.Func) == "type" && len(call.Args) == 1 {
		switch op {
		case ast.CmpIs:
			if branch {
				return []Narrowing{{Kind: NarrowIsInstance, Subject: call.Args[0], ClassRefs: []ast.Expression{right}}}
			}
			return []Narrowing{{Kind: NarrowIsNotInstance, Subject: call.Args[0], ClassRefs: []ast.Expression{right}}}
		case ast.CmpIsNot:
			if branch {
				return []Narrowing{{Kind: NarrowIsNotInstance, Subject: call.Args[0], ClassRefs: []ast.Expression{right}}}
			}
			return []Narrowing{{Kind: NarrowIsInstance, Subject: call.Args[0], ClassRefs: []ast.Expression{right}}}
		}
	}
	return nil
}

func builtinCallName(fn ast.Expression) string {
	if name, ok := fn.(*ast.Name); ok {
		return name.Value
	}
	return ""
}

// classRefList expands the second argument of isinstance(x, ...), which
// may be a single class reference or a tuple of them.
func classRefList(arg ast.Expression) []ast.Expression {
	if tup, ok := arg.(*ast.TupleExpr); ok {
		return tup.Elements
	}
	return []ast.Expression{arg}
}
