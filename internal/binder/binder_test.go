package binder_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/binder"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/parser"
	"github.com/astra-lang/astracheck/internal/symbols"
)

func bind(t *testing.T, src string) *binder.Result {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.ParseFile("test.py", src, sink)
	if sink.Len() > 0 {
		for _, d := range sink.All() {
			t.Errorf("parse error: %s", d.Error())
		}
		t.FailNow()
	}
	builtins := symbols.NewScope(symbols.ScopeBuiltIn, nil)
	return binder.Bind("test.py", mod, builtins, sink, symbols.NewSourceIDAllocator())
}

func TestModuleLevelAssignmentDeclares(t *testing.T) {
	res := bind(t, "x = 1\n")
	sym, ok := res.Module.Lookup("x")
	if !ok {
		t.Fatalf("expected x declared in module scope")
	}
	if len(sym.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(sym.Declarations))
	}
}

func TestFunctionParametersDeclaredInFunctionScope(t *testing.T) {
	res := bind(t, "def f(x, y=1):\n    return x + y\n")
	_, ok := res.Module.Lookup("f")
	if !ok {
		t.Fatalf("expected f declared in module scope")
	}
	fnStmt := moduleFunctionDef(t, res, "f")
	fnScope := res.ScopeOf[fnStmt]
	if fnScope == nil {
		t.Fatalf("expected a scope recorded for the function")
	}
	if _, ok := fnScope.Lookup("x"); !ok {
		t.Fatalf("expected x declared in function scope")
	}
	if _, ok := fnScope.Lookup("y"); !ok {
		t.Fatalf("expected y declared in function scope")
	}
}

func TestClassMethodIsMethodDeclaration(t *testing.T) {
	res := bind(t, "class Foo:\n    def bar(self):\n        pass\n")
	clsSym, ok := res.Module.Lookup("Foo")
	if !ok {
		t.Fatalf("expected Foo declared")
	}
	decl := clsSym.Declarations[0]
	if decl.Kind() != symbols.DeclClass {
		t.Fatalf("expected DeclClass, got %v", decl.Kind())
	}
	var clsDef *ast.ClassDef
	for n := range res.ScopeOf {
		if c, ok := n.(*ast.ClassDef); ok && c.Name == "Foo" {
			clsDef = c
		}
	}
	if clsDef == nil {
		t.Fatalf("no scope recorded for class Foo")
	}
	barSym, ok := res.ScopeOf[clsDef].Lookup("bar")
	if !ok {
		t.Fatalf("expected bar declared in Foo's scope")
	}
	if barSym.Declarations[0].Kind() != symbols.DeclMethod {
		t.Fatalf("expected DeclMethod, got %v", barSym.Declarations[0].Kind())
	}
}

func TestForwardReferenceAcrossFunctions(t *testing.T) {
	res := bind(t, "def a():\n    return b()\ndef b():\n    return 1\n")
	if _, ok := res.Module.Lookup("a"); !ok {
		t.Fatalf("expected a declared")
	}
	if _, ok := res.Module.Lookup("b"); !ok {
		t.Fatalf("expected b declared")
	}
}

func TestGlobalRedirectsAssignmentToModuleScope(t *testing.T) {
	res := bind(t, "x = 0\ndef f():\n    global x\n    x = 1\n")
	fnStmt := moduleFunctionDef(t, res, "f")
	fnScope := res.ScopeOf[fnStmt]
	if _, ok := fnScope.Lookup("x"); ok {
		t.Fatalf("expected global x to NOT be declared in the function's own scope")
	}
	sym, ok := res.Module.Lookup("x")
	if !ok || len(sym.Declarations) != 2 {
		t.Fatalf("expected 2 declarations of module-scope x (initial + global-redirected), got %#v", sym)
	}
}

func TestComprehensionIntroducesTemporaryScope(t *testing.T) {
	res := bind(t, "xs = [y for y in range(10)]\n")
	assign := res.Module.Names()
	found := false
	for _, n := range assign {
		if n == "xs" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected xs declared in module scope")
	}
	if _, ok := res.Module.Lookup("y"); ok {
		t.Fatalf("comprehension variable y must not leak into the module scope")
	}
}

func TestTupleDestructuringDeclaresEachName(t *testing.T) {
	res := bind(t, "a, b = 1, 2\n")
	if _, ok := res.Module.Lookup("a"); !ok {
		t.Fatalf("expected a declared")
	}
	if _, ok := res.Module.Lookup("b"); !ok {
		t.Fatalf("expected b declared")
	}
}

func moduleFunctionDef(t *testing.T, res *binder.Result, name string) *ast.FunctionDef {
	t.Helper()
	for n := range res.ScopeOf {
		if fn, ok := n.(*ast.FunctionDef); ok && fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no FunctionDef named %q found", name)
	return nil
}
