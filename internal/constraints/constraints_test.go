package constraints_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/constraints"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/parser"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

func testExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.ParseFile("test.py", "if "+src+":\n    pass\n", sink)
	if sink.Len() > 0 {
		t.Fatalf("parse error in %q", src)
	}
	ifStmt, ok := mod.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected an IfStmt, got %T", mod.Body[0])
	}
	return ifStmt.Test
}

func TestBuildIsNone(t *testing.T) {
	test := testExpr(t, "x is None")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 1 || trueBranch[0].Kind != constraints.NarrowIsNone {
		t.Fatalf("expected a single NarrowIsNone, got %#v", trueBranch)
	}
	falseBranch := constraints.Build(test, false)
	if len(falseBranch) != 1 || falseBranch[0].Kind != constraints.NarrowIsNotNone {
		t.Fatalf("expected a single NarrowIsNotNone, got %#v", falseBranch)
	}
}

func TestBuildIsNotNone(t *testing.T) {
	test := testExpr(t, "x is not None")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 1 || trueBranch[0].Kind != constraints.NarrowIsNotNone {
		t.Fatalf("expected NarrowIsNotNone, got %#v", trueBranch)
	}
}

func TestBuildNotNegatesBranch(t *testing.T) {
	test := testExpr(t, "not (x is None)")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 1 || trueBranch[0].Kind != constraints.NarrowIsNotNone {
		t.Fatalf("expected `not` to flip the branch to NarrowIsNotNone, got %#v", trueBranch)
	}
}

func TestBuildIsInstance(t *testing.T) {
	test := testExpr(t, "isinstance(x, Foo)")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 1 || trueBranch[0].Kind != constraints.NarrowIsInstance {
		t.Fatalf("expected NarrowIsInstance, got %#v", trueBranch)
	}
	falseBranch := constraints.Build(test, false)
	if len(falseBranch) != 1 || falseBranch[0].Kind != constraints.NarrowIsNotInstance {
		t.Fatalf("expected NarrowIsNotInstance, got %#v", falseBranch)
	}
}

func TestBuildAndConjunctiveOnTrueBranchOnly(t *testing.T) {
	test := testExpr(t, "x is not None and y is not None")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 2 {
		t.Fatalf("expected both operands to narrow on the true branch, got %#v", trueBranch)
	}
	falseBranch := constraints.Build(test, false)
	if len(falseBranch) != 0 {
		t.Fatalf("expected no narrowing on the false branch of `and`, got %#v", falseBranch)
	}
}

func TestBuildOrConjunctiveOnFalseBranchOnly(t *testing.T) {
	test := testExpr(t, "x is None or y is None")
	falseBranch := constraints.Build(test, false)
	if len(falseBranch) != 2 {
		t.Fatalf("expected both operands to narrow on the false branch of `or`, got %#v", falseBranch)
	}
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 0 {
		t.Fatalf("expected no narrowing on the true branch of `or`, got %#v", trueBranch)
	}
}

func TestBuildBareTruthiness(t *testing.T) {
	test := testExpr(t, "x")
	trueBranch := constraints.Build(test, true)
	if len(trueBranch) != 1 || trueBranch[0].Kind != constraints.NarrowTruthy {
		t.Fatalf("expected NarrowTruthy, got %#v", trueBranch)
	}
}

func fooClass() *typesystem.ClassType {
	return &typesystem.ClassType{Name: "Foo"}
}

func TestApplyIsNotNoneRemovesNoneFromUnion(t *testing.T) {
	cur := typesystem.MakeUnion(typesystem.NoneType{}, &typesystem.ObjectType{Class: fooClass()})
	test := testExpr(t, "x is not None")
	n := constraints.Build(test, true)[0]
	sc, ok := constraints.Apply(n, func(string) typesystem.Type { return cur }, nil)
	if !ok {
		t.Fatalf("expected Apply to succeed")
	}
	if sc.Key != "x" {
		t.Fatalf("expected key x, got %q", sc.Key)
	}
	if typesystem.ContainsNone(sc.Type) {
		t.Fatalf("expected None removed, got %s", sc.Type)
	}
}

func TestApplyIsInstanceResolvesClass(t *testing.T) {
	test := testExpr(t, "isinstance(x, Foo)")
	n := constraints.Build(test, true)[0]
	resolver := func(ast.Expression) *typesystem.ClassType { return fooClass() }
	sc, ok := constraints.Apply(n, func(string) typesystem.Type { return typesystem.Unknown{} }, resolver)
	if !ok {
		t.Fatalf("expected Apply to succeed")
	}
	obj, ok := sc.Type.(*typesystem.ObjectType)
	if !ok || obj.Class.Name != "Foo" {
		t.Fatalf("expected ObjectType[Foo], got %s", sc.Type)
	}
}

func TestApplyUnsupportedSubjectFails(t *testing.T) {
	test := testExpr(t, "f() is None")
	n := constraints.Build(test, true)[0]
	_, ok := constraints.Apply(n, func(string) typesystem.Type { return nil }, nil)
	if ok {
		t.Fatalf("expected Apply to fail for a non-supported subject expression")
	}
}

func TestCombineKeepsAgreeingBranches(t *testing.T) {
	a := []symbols.ScopeConstraint{{Key: "x", Type: typesystem.NoneType{}}}
	b := []symbols.ScopeConstraint{{Key: "x", Type: typesystem.NoneType{}}}
	merged := constraints.Combine([][]symbols.ScopeConstraint{a, b}, []bool{false, false})
	if len(merged) != 1 || merged[0].Key != "x" {
		t.Fatalf("expected the agreeing x constraint to survive, got %#v", merged)
	}
}

func TestCombineDropsDisagreeingKeyPresence(t *testing.T) {
	a := []symbols.ScopeConstraint{{Key: "x", Type: typesystem.NoneType{}}}
	b := []symbols.ScopeConstraint{}
	merged := constraints.Combine([][]symbols.ScopeConstraint{a, b}, []bool{false, false})
	if len(merged) != 0 {
		t.Fatalf("expected no constraint to survive when only one branch narrows x, got %#v", merged)
	}
}

func TestCombineExitingBranchContributesNothing(t *testing.T) {
	a := []symbols.ScopeConstraint{{Key: "x", Type: typesystem.NoneType{}}}
	exiting := []symbols.ScopeConstraint{{Key: "x", Type: &typesystem.ObjectType{Class: fooClass()}}}
	merged := constraints.Combine([][]symbols.ScopeConstraint{a, exiting}, []bool{false, true})
	if len(merged) != 1 || !typesystem.IsNone(merged[0].Type) {
		t.Fatalf("expected the surviving branch's constraint alone, got %#v", merged)
	}
}

func TestCombineWidensDisagreeingTypes(t *testing.T) {
	a := []symbols.ScopeConstraint{{Key: "x", Type: &typesystem.ObjectType{Class: fooClass()}}}
	b := []symbols.ScopeConstraint{{Key: "x", Type: typesystem.NoneType{}}}
	merged := constraints.Combine([][]symbols.ScopeConstraint{a, b}, []bool{false, false})
	if len(merged) != 1 {
		t.Fatalf("expected one merged constraint, got %#v", merged)
	}
	if !merged[0].Conditional {
		t.Fatalf("expected a widened constraint to be marked conditional")
	}
	if !typesystem.ContainsNone(merged[0].Type) {
		t.Fatalf("expected the widened type to contain None, got %s", merged[0].Type)
	}
}

func TestKeyAttributeChain(t *testing.T) {
	expr := testExpr(t, "self.value is None")
	cmp := expr.(*ast.CompareExpr)
	key, ok := constraints.Key(cmp.Left)
	if !ok || key != "self.value" {
		t.Fatalf("expected key `self.value`, got %q ok=%v", key, ok)
	}
}
