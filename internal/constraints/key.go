// Package constraints implements the flow-sensitive type narrowing of
// spec.md §4.F as three steps: Build turns a test expression into a
// purely syntactic description of what each branch would narrow (a
// Narrowing has no typesystem.Type yet, since computing one requires the
// evaluator's current knowledge of the constrained expression's type);
// Apply turns a Narrowing into a concrete symbols.ScopeConstraint using
// caller-supplied type resolution; Combine merges the constraint lists of
// sibling branches at a join point.
//
// Grounded loosely (by name and three-step shape only, not by adapting its
// logic) on the teacher's internal/analyzer/constraints.go, which solves a
// different problem: HM-style unification constraints for a statically
// typed language. That file has no notion of a branch or a join point.
// The actual narrowing rules here follow spec.md §4.F and the "supported
// expression" doc comment on ast.AttributeExpr.
package constraints

import "github.com/astra-lang/astracheck/internal/ast"

// Key computes the structural identity symbols.ScopeConstraint.Key expects
// for a "supported expression": a bare Name, or a chain of attribute
// accesses rooted at a Name (e.g. `self.value`). Any other expression
// shape is not narrowable and Key returns ("", false).
func Key(e ast.Expression) (string, bool) {
	switch n := e.(type) {
	case *ast.Name:
		return n.Value, true
	case *ast.AttributeExpr:
		base, ok := Key(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	default:
		return "", false
	}
}
