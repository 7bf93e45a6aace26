package parser_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/parser"
)

// parse is a test helper: parses input and fails the test on any diagnostic.
func parse(t *testing.T, input string) *ast.Module {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.ParseFile("test.py", input, sink)
	if sink.Len() > 0 {
		for _, d := range sink.All() {
			t.Errorf("parse error: %s", d.Error())
		}
		t.FailNow()
	}
	return mod
}

func stmt(t *testing.T, mod *ast.Module, idx int) ast.Statement {
	t.Helper()
	if idx >= len(mod.Body) {
		t.Fatalf("expected at least %d statements, got %d", idx+1, len(mod.Body))
	}
	return mod.Body[idx]
}

func TestSimpleAssignment(t *testing.T) {
	mod := parse(t, "x = 1\n")
	s, ok := stmt(t, mod, 0).(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", mod.Body[0])
	}
	if len(s.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(s.Targets))
	}
	name, ok := s.Targets[0].(*ast.Name)
	if !ok || name.Value != "x" {
		t.Fatalf("expected target x, got %#v", s.Targets[0])
	}
}

func TestChainedAssignment(t *testing.T) {
	mod := parse(t, "a = b = 1\n")
	s := stmt(t, mod, 0).(*ast.AssignStmt)
	if len(s.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(s.Targets))
	}
}

func TestAnnotatedAssignment(t *testing.T) {
	mod := parse(t, "x: int = 1\n")
	s := stmt(t, mod, 0).(*ast.AnnAssignStmt)
	if s.Annotation == nil || s.Value == nil {
		t.Fatalf("expected annotation and value, got %#v", s)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	mod := parse(t, "x = 1 + 2 * 3\n")
	s := stmt(t, mod, 0).(*ast.AssignStmt)
	bin, ok := s.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level +, got %#v", s.Value)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != ast.OpMul {
		t.Fatalf("expected right side to be *, got %#v", bin.Right)
	}
}

func TestIfElifElse(t *testing.T) {
	mod := parse(t, "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n")
	ifStmt := stmt(t, mod, 0).(*ast.IfStmt)
	if ifStmt.Orelse == nil || len(ifStmt.Orelse.Stmts) != 1 {
		t.Fatalf("expected elif chain in orelse")
	}
	elifStmt, ok := ifStmt.Orelse.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected nested IfStmt for elif, got %T", ifStmt.Orelse.Stmts[0])
	}
	if elifStmt.Orelse == nil {
		t.Fatalf("expected final else body")
	}
}

func TestFunctionDef(t *testing.T) {
	mod := parse(t, "def add(x: int, y: int = 1) -> int:\n    return x + y\n")
	fn := stmt(t, mod, 0).(*ast.FunctionDef)
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %#v", fn)
	}
	if fn.Params[1].Default == nil {
		t.Fatalf("expected default value on second param")
	}
	if fn.Returns == nil {
		t.Fatalf("expected return annotation")
	}
}

func TestClassDef(t *testing.T) {
	mod := parse(t, "class Foo(Bar):\n    def method(self) -> None:\n        pass\n")
	cls := stmt(t, mod, 0).(*ast.ClassDef)
	if cls.Name != "Foo" || len(cls.Bases) != 1 {
		t.Fatalf("unexpected class shape: %#v", cls)
	}
	if len(cls.Body.Stmts) != 1 {
		t.Fatalf("expected one method in class body")
	}
}

func TestForWhileTryWith(t *testing.T) {
	mod := parse(t, "for x in y:\n    pass\nwhile True:\n    break\ntry:\n    pass\nexcept ValueError as e:\n    pass\nfinally:\n    pass\nwith open(\"f\") as f:\n    pass\n")
	if _, ok := stmt(t, mod, 0).(*ast.ForStmt); !ok {
		t.Fatalf("expected ForStmt")
	}
	if _, ok := stmt(t, mod, 1).(*ast.WhileStmt); !ok {
		t.Fatalf("expected WhileStmt")
	}
	tryStmt, ok := stmt(t, mod, 2).(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt")
	}
	if len(tryStmt.Handlers) != 1 || tryStmt.Handlers[0].Name != "e" {
		t.Fatalf("unexpected handler: %#v", tryStmt.Handlers)
	}
	if tryStmt.Final == nil {
		t.Fatalf("expected finally clause")
	}
	if _, ok := stmt(t, mod, 3).(*ast.WithStmt); !ok {
		t.Fatalf("expected WithStmt")
	}
}

func TestImportForms(t *testing.T) {
	mod := parse(t, "import os\nimport os.path as osp\nfrom typing import Optional, List\nfrom . import sibling\n")
	imp := stmt(t, mod, 0).(*ast.ImportStmt)
	if imp.Modules[0].Name != "os" {
		t.Fatalf("unexpected import: %#v", imp)
	}
	imp2 := stmt(t, mod, 1).(*ast.ImportStmt)
	if imp2.Modules[0].Alias != "osp" {
		t.Fatalf("expected alias osp, got %#v", imp2.Modules[0])
	}
	from := stmt(t, mod, 2).(*ast.ImportFromStmt)
	if from.Module != "typing" || len(from.Names) != 2 {
		t.Fatalf("unexpected from-import: %#v", from)
	}
	relFrom := stmt(t, mod, 3).(*ast.ImportFromStmt)
	if relFrom.LeadingDots != 1 {
		t.Fatalf("expected 1 leading dot, got %d", relFrom.LeadingDots)
	}
}

func TestListDictSetComprehension(t *testing.T) {
	mod := parse(t, "x = [a for a in b if a]\ny = {a: b for a, b in c}\nz = {a for a in b}\n")
	listComp := stmt(t, mod, 0).(*ast.AssignStmt).Value.(*ast.Comprehension)
	if listComp.Kind != ast.CompList || len(listComp.Clauses) != 1 || len(listComp.Clauses[0].Ifs) != 1 {
		t.Fatalf("unexpected list comprehension: %#v", listComp)
	}
	dictComp := stmt(t, mod, 1).(*ast.AssignStmt).Value.(*ast.Comprehension)
	if dictComp.Kind != ast.CompDict {
		t.Fatalf("expected dict comprehension, got %#v", dictComp)
	}
	setComp := stmt(t, mod, 2).(*ast.AssignStmt).Value.(*ast.Comprehension)
	if setComp.Kind != ast.CompSet {
		t.Fatalf("expected set comprehension, got %#v", setComp)
	}
}

func TestLambdaAndTernary(t *testing.T) {
	mod := parse(t, "f = lambda x, y=1: x + y\nz = a if cond else b\n")
	lam := stmt(t, mod, 0).(*ast.AssignStmt).Value.(*ast.LambdaExpr)
	if len(lam.Params) != 2 {
		t.Fatalf("unexpected lambda params: %#v", lam.Params)
	}
	ternary := stmt(t, mod, 1).(*ast.AssignStmt).Value.(*ast.IfExpr)
	if ternary.Test == nil || ternary.Body == nil || ternary.Orelse == nil {
		t.Fatalf("incomplete ternary: %#v", ternary)
	}
}

func TestChainedComparisonAndBoolOps(t *testing.T) {
	mod := parse(t, "x = a < b <= c\ny = a and b or c\nz = a is not None\nw = a not in b\n")
	cmp := stmt(t, mod, 0).(*ast.AssignStmt).Value.(*ast.CompareExpr)
	if len(cmp.Ops) != 2 || cmp.Ops[0] != ast.CmpLt || cmp.Ops[1] != ast.CmpLte {
		t.Fatalf("unexpected chained comparison: %#v", cmp.Ops)
	}
	isNot := stmt(t, mod, 2).(*ast.AssignStmt).Value.(*ast.CompareExpr)
	if isNot.Ops[0] != ast.CmpIsNot {
		t.Fatalf("expected CmpIsNot, got %v", isNot.Ops[0])
	}
	notIn := stmt(t, mod, 3).(*ast.AssignStmt).Value.(*ast.CompareExpr)
	if notIn.Ops[0] != ast.CmpNotIn {
		t.Fatalf("expected CmpNotIn, got %v", notIn.Ops[0])
	}
}

func TestAttributeCallSubscript(t *testing.T) {
	mod := parse(t, "x = obj.attr.method(1, y=2)[0]\n")
	sub := stmt(t, mod, 0).(*ast.AssignStmt).Value.(*ast.SubscriptExpr)
	call, ok := sub.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected call under subscript, got %#v", sub.Value)
	}
	if len(call.Args) != 1 || len(call.Keywords) != 1 {
		t.Fatalf("unexpected call args/keywords: %#v", call)
	}
	attr, ok := call.Func.(*ast.AttributeExpr)
	if !ok || attr.Attr != "method" {
		t.Fatalf("expected attribute method, got %#v", call.Func)
	}
}

func TestDecoratedFunction(t *testing.T) {
	mod := parse(t, "@property\n@staticmethod\ndef foo():\n    pass\n")
	fn := stmt(t, mod, 0).(*ast.FunctionDef)
	if len(fn.Decorators) != 2 {
		t.Fatalf("expected 2 decorators, got %d", len(fn.Decorators))
	}
}

func TestAugmentedAssignment(t *testing.T) {
	mod := parse(t, "x += 1\n")
	aug := stmt(t, mod, 0).(*ast.AugAssignStmt)
	if aug.Op != ast.AugAdd {
		t.Fatalf("expected AugAdd, got %v", aug.Op)
	}
}

func TestGlobalNonlocalDel(t *testing.T) {
	mod := parse(t, "global x, y\nnonlocal z\ndel x, y\n")
	g := stmt(t, mod, 0).(*ast.GlobalStmt)
	if len(g.Names) != 2 {
		t.Fatalf("expected 2 global names, got %d", len(g.Names))
	}
	nl := stmt(t, mod, 1).(*ast.NonlocalStmt)
	if len(nl.Names) != 1 {
		t.Fatalf("expected 1 nonlocal name, got %d", len(nl.Names))
	}
	d := stmt(t, mod, 2).(*ast.DelStmt)
	if len(d.Targets) != 2 {
		t.Fatalf("expected 2 del targets, got %d", len(d.Targets))
	}
}

func TestRaiseFromAndAssert(t *testing.T) {
	mod := parse(t, "raise ValueError(\"bad\") from err\nassert x > 0, \"must be positive\"\n")
	r := stmt(t, mod, 0).(*ast.RaiseStmt)
	if r.Exc == nil || r.Cause == nil {
		t.Fatalf("expected exc and cause: %#v", r)
	}
	a := stmt(t, mod, 1).(*ast.AssertStmt)
	if a.Test == nil || a.Msg == nil {
		t.Fatalf("expected test and msg: %#v", a)
	}
}
