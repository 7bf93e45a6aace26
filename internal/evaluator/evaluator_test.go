package evaluator_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/binder"
	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/evaluator"
	"github.com/astra-lang/astracheck/internal/parser"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// run parses and binds src, then runs evaluator passes to a fixed point
// (capped well under the production ~32-pass ceiling, since these fixtures
// are small), returning the module scope, the sink and the node->scope map
// for assertions.
func run(t *testing.T, src string) (*symbols.Scope, *diagnostics.Sink, map[ast.Node]*symbols.Scope) {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.ParseFile("test.py", src, sink)
	ids := symbols.NewSourceIDAllocator()
	builtins := evaluator.NewBuiltinScope(ids)
	result := binder.Bind("test.py", mod, builtins, sink, ids)

	cfg := config.NewDefault("/")
	ev := evaluator.New("test.py", cfg, sink, ids, builtins)
	for i := 0; i < 8; i++ {
		if !ev.Pass(mod, result.Module, result.ScopeOf) {
			break
		}
	}
	return result.Module, sink, result.ScopeOf
}

func lookup(t *testing.T, scope *symbols.Scope, name string) typesystem.Type {
	t.Helper()
	sym, ok := scope.Lookup(name)
	if !ok {
		t.Fatalf("expected %q to be declared", name)
	}
	return sym.InferredType()
}

// S1-style: a simple assignment's inferred type round-trips through a
// second pass without growing (spec.md §8 fixed-point property).
func TestInferredTypeOfSimpleAssignment(t *testing.T) {
	moduleScope, sink, _ := run(t, "x = 1\n")
	if sink.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	xt := lookup(t, moduleScope, "x")
	obj, ok := xt.(*typesystem.ObjectType)
	if !ok || obj.Class.Name != "int" {
		t.Fatalf("expected int, got %s", xt)
	}
}

// S2-style: flow narrowing removes None from an Optional-typed parameter
// inside an `is not None` guard.
func TestNarrowingInsideIfRemovesNone(t *testing.T) {
	src := "" +
		"from typing import Optional\n" +
		"def f(x: Optional[int]):\n" +
		"    if x is not None:\n" +
		"        y = x\n" +
		"    return 0\n"
	_, sink, scopeOf := run(t, src)
	if sink.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	var fnScope *symbols.Scope
	for n, s := range scopeOf {
		if fn, ok := n.(*ast.FunctionDef); ok && fn.Name == "f" {
			fnScope = s
		}
	}
	if fnScope == nil {
		t.Fatalf("no scope recorded for f")
	}
	yt := lookup(t, fnScope, "y")
	if obj, ok := yt.(*typesystem.ObjectType); !ok || obj.Class.Name != "int" || typesystem.ContainsNone(yt) {
		t.Fatalf("expected y narrowed to int, got %s", yt)
	}
}

// S3-style: a statically false sys.version_info guard's body is never
// bound into the diagnostic stream — an undefined name in the dead branch
// produces no diagnostic.
func TestStaticVersionGuardEliminatesDeadBranch(t *testing.T) {
	src := "" +
		"import sys\n" +
		"if sys.version_info >= (4, 0):\n" +
		"    this_name_does_not_exist_anywhere\n" +
		"else:\n" +
		"    y = 1\n"
	_, sink, _ := run(t, src)
	for _, d := range sink.All() {
		if d.Code == "reportUndefinedVariable" {
			t.Fatalf("expected the dead if-branch to be skipped, got diagnostic: %v", d)
		}
	}
}

// S4-style: collections.namedtuple synthesizes a class whose unknown
// member access is reported.
func TestNamedTupleSynthesizesClassWithFields(t *testing.T) {
	src := "" +
		"from collections import namedtuple\n" +
		"P = namedtuple(\"P\", [\"x\", \"y\"])\n" +
		"p = P(1, 2)\n" +
		"p.z\n"
	moduleScope, sink, _ := run(t, src)

	pt := lookup(t, moduleScope, "P")
	cls, ok := pt.(*typesystem.ClassType)
	if !ok {
		t.Fatalf("expected P to be a ClassType, got %s", pt)
	}
	if _, ok := cls.Fields["x"]; !ok {
		t.Fatalf("expected synthesized field x, got %#v", cls.Fields)
	}
	if _, ok := cls.Fields["keys"]; !ok {
		t.Fatalf("expected synthesized keys() member")
	}

	foundUnknownMember := false
	for _, d := range sink.All() {
		if d.Code == "reportGeneralTypeIssues" {
			foundUnknownMember = true
		}
	}
	if !foundUnknownMember {
		t.Fatalf("expected p.z to report an unknown-member diagnostic, got %v", sink.All())
	}
}

// S5-style: Optional member access is flagged, but the member itself still
// resolves through the non-None alternative.
func TestOptionalMemberAccessIsFlagged(t *testing.T) {
	src := "" +
		"from typing import Optional\n" +
		"class Box:\n" +
		"    def get(self):\n" +
		"        return 1\n" +
		"def f(b):\n" +
		"    b: Optional[Box] = b\n" +
		"    b.get()\n"
	_, sink, _ := run(t, src)

	found := false
	for _, d := range sink.All() {
		if d.Code == "reportOptionalMemberAccess" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reportOptionalMemberAccess, got %v", sink.All())
	}
}

func TestClassConstructionImplicitObjectBase(t *testing.T) {
	moduleScope, sink, _ := run(t, "class Foo:\n    pass\n")
	if sink.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	ft := lookup(t, moduleScope, "Foo")
	cls, ok := ft.(*typesystem.ClassType)
	if !ok {
		t.Fatalf("expected Foo to be a ClassType, got %s", ft)
	}
	if len(cls.BaseClasses) != 1 || cls.BaseClasses[0].Name != "object" {
		t.Fatalf("expected an implicit object base, got %#v", cls.BaseClasses)
	}
}

func TestTypeVarFactorySynthesizesDistinctTypeVar(t *testing.T) {
	moduleScope, sink, _ := run(t, "from typing import TypeVar\nT = TypeVar(\"T\")\n")
	if sink.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	tt := lookup(t, moduleScope, "T")
	if _, ok := tt.(*typesystem.TypeVarType); !ok {
		t.Fatalf("expected T to be a TypeVarType, got %s", tt)
	}
}
