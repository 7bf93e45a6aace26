// Grounded on the teacher's internal/analyzer/statements.go (a statement-
// kind type switch walking a function body to collect HM constraints) but
// rewritten around spec.md §4.F's narrowing machinery (internal/constraints)
// and §4.G's static dead-branch elimination, neither of which the teacher's
// statically-typed source language has a use for.
package evaluator

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/constraints"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// analyzeStatements is the evaluator's counterpart to the binder's
// declareStatements: it walks a statement list evaluating every expression
// and type-annotated binding it contains, applying flow narrowing around
// if/while bodies as it goes.
func (e *Evaluator) analyzeStatements(stmts []ast.Statement, scope *symbols.Scope) {
	for _, s := range stmts {
		e.analyzeStmt(s, scope)
	}
}

func (e *Evaluator) analyzeStmt(s ast.Statement, scope *symbols.Scope) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		e.evaluate(n.Value, scope, false)

	case *ast.AssignStmt:
		vt := e.evaluate(n.Value, scope, false)
		for _, t := range n.Targets {
			e.assignTarget(t, n, scope, vt)
		}

	case *ast.AnnAssignStmt:
		annType := e.evaluate(n.Annotation, scope, true)
		if n.Value != nil {
			e.evaluate(n.Value, scope, false)
		}
		e.assignTarget(n.Target, n, scope, annType)

	case *ast.AugAssignStmt:
		vt := e.evaluate(n.Value, scope, false)
		e.assignTarget(n.Target, n, scope, vt)

	case *ast.ReturnStmt:
		var t typesystem.Type = typesystem.NoneType{}
		if n.Value != nil {
			t = e.evaluate(n.Value, scope, false)
		}
		scope.InferredReturn = typesystem.Join(scope.InferredReturn, t)

	case *ast.RaiseStmt:
		if n.Exc != nil {
			e.evaluate(n.Exc, scope, false)
		}
		if n.Cause != nil {
			e.evaluate(n.Cause, scope, false)
		}

	case *ast.AssertStmt:
		e.evaluate(n.Test, scope, false)
		if n.Msg != nil {
			e.evaluate(n.Msg, scope, false)
		}
		for _, c := range constraints.Build(n.Test, true) {
			if sc, ok := constraints.Apply(c, e.currentTypeFunc(scope), e.resolveClass(scope)); ok {
				scope.Constraints = upsertConstraint(scope.Constraints, sc)
			}
		}

	case *ast.DelStmt:
		for _, t := range n.Targets {
			e.evaluate(t, scope, false)
		}

	case *ast.IfStmt:
		e.analyzeIf(n, scope)

	case *ast.WhileStmt:
		e.analyzeWhile(n, scope)

	case *ast.ForStmt:
		e.analyzeFor(n, scope)

	case *ast.WithStmt:
		e.analyzeWith(n, scope)

	case *ast.TryStmt:
		e.analyzeTry(n, scope)

	case *ast.FunctionDef:
		e.evalFunctionDef(n, scope)

	case *ast.ClassDef:
		e.evalClassDef(n, scope)

	case *ast.ImportStmt:
		e.analyzeImport(n, scope)

	case *ast.ImportFromStmt:
		e.analyzeImportFrom(n, scope)

	case *ast.PassStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.GlobalStmt, *ast.NonlocalStmt:
		// No types to evaluate.
	}
}

// currentTypeFunc adapts e.currentType to the closure shape
// constraints.Apply expects.
func (e *Evaluator) currentTypeFunc(scope *symbols.Scope) func(string) typesystem.Type {
	return func(key string) typesystem.Type { return e.currentType(scope, key) }
}

// assignTarget records t as the freshest type of every name (or attribute
// chain) bound by an assignment-like target, recursing through tuple/list
// destructuring. An unconditional assignment becomes the newest fact about
// its key, superseding any narrowing constraint already in effect for it
// (spec.md §8 invariant: "an unconditional assignment invalidates earlier
// constraints for that key").
func (e *Evaluator) assignTarget(target ast.Expression, site ast.Node, scope *symbols.Scope, t typesystem.Type) {
	switch tt := target.(type) {
	case *ast.Name:
		sym, _, _ := scope.LookUpSymbolRecursive(tt.Value)
		if sym != nil {
			sym.SetTypeForSource(e.ids.IDFor(site), t)
		}
		scope.Constraints = upsertConstraint(scope.Constraints, symbols.ScopeConstraint{Key: tt.Value, Type: t})
	case *ast.TupleExpr:
		for _, el := range tt.Elements {
			e.assignTarget(el, site, scope, typesystem.Unknown{})
		}
	case *ast.ListExpr:
		for _, el := range tt.Elements {
			e.assignTarget(el, site, scope, typesystem.Unknown{})
		}
	case *ast.StarredExpr:
		e.assignTarget(tt.Value, site, scope, typesystem.Unknown{})
	case *ast.AttributeExpr:
		e.evaluate(tt.Value, scope, false)
		if key, ok := constraints.Key(tt); ok {
			scope.Constraints = upsertConstraint(scope.Constraints, symbols.ScopeConstraint{Key: key, Type: t})
		}
	case *ast.SubscriptExpr:
		e.evaluate(tt.Value, scope, false)
		for _, idx := range tt.Index {
			e.evaluate(idx, scope, false)
		}
	}
}

// upsertConstraint replaces list's existing entry for sc.Key, if any, else
// appends sc — scope.Constraints never carries two entries for the same
// key, so a lookup need only ever find the most recent one.
func upsertConstraint(list []symbols.ScopeConstraint, sc symbols.ScopeConstraint) []symbols.ScopeConstraint {
	for i, existing := range list {
		if existing.Key == sc.Key {
			list[i] = sc
			return list
		}
	}
	return append(list, sc)
}

// analyzeBranch evaluates one if/while branch under a snapshot-restore
// discipline: scope.Constraints is saved, the branch's narrowings are
// pushed, the body runs (possibly mutating scope.Constraints further via
// nested narrowing or assignment), and the full constraint list as it
// stood at the branch's end is returned to the caller for Combine while
// scope.Constraints is restored to the pre-branch snapshot.
func (e *Evaluator) analyzeBranch(stmts []ast.Statement, scope *symbols.Scope, narrowings []constraints.Narrowing) []symbols.ScopeConstraint {
	snapshot := append([]symbols.ScopeConstraint(nil), scope.Constraints...)
	for _, nw := range narrowings {
		if sc, ok := constraints.Apply(nw, e.currentTypeFunc(scope), e.resolveClass(scope)); ok {
			scope.Constraints = upsertConstraint(scope.Constraints, sc)
		}
	}
	e.analyzeStatements(stmts, scope)
	result := append([]symbols.ScopeConstraint(nil), scope.Constraints...)
	scope.Constraints = snapshot
	return result
}

// alwaysExits reports whether stmts is guaranteed to return or raise on
// every path it can take, by a purely syntactic walk of its final
// statement — used to tell Combine which branches of an if contribute no
// width to the post-if join (spec.md §4.F).
func alwaysExits(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	switch n := stmts[len(stmts)-1].(type) {
	case *ast.ReturnStmt, *ast.RaiseStmt:
		return true
	case *ast.IfStmt:
		return n.Orelse != nil && alwaysExits(n.Body.Stmts) && alwaysExits(n.Orelse.Stmts)
	case *ast.WithStmt:
		return alwaysExits(n.Body.Stmts)
	case *ast.TryStmt:
		if n.Final != nil && alwaysExits(n.Final.Stmts) {
			return true
		}
		if !alwaysExits(n.Body.Stmts) {
			return false
		}
		for _, h := range n.Handlers {
			if !alwaysExits(h.Body.Stmts) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// analyzeIf implements spec.md §4.F's Build/Apply/Combine pipeline plus
// §4.G's static predicate dead-branch elimination: when the test is one of
// the recognized static predicates (sys.version_info, TYPE_CHECKING, ...)
// only the statically-true branch is analyzed at all, so the losing
// branch's names are never bound and its diagnostics never fire.
func (e *Evaluator) analyzeIf(n *ast.IfStmt, scope *symbols.Scope) {
	if val, ok := e.staticCondition(n.Test); ok {
		if val {
			scope.Constraints = mergeInto(scope.Constraints, e.analyzeBranch(n.Body.Stmts, scope, constraints.Build(n.Test, true)))
		} else if n.Orelse != nil {
			scope.Constraints = mergeInto(scope.Constraints, e.analyzeBranch(n.Orelse.Stmts, scope, constraints.Build(n.Test, false)))
		}
		return
	}

	e.evaluate(n.Test, scope, false)

	trueResult := e.analyzeBranch(n.Body.Stmts, scope, constraints.Build(n.Test, true))
	var falseResult []symbols.ScopeConstraint
	falseExits := false
	if n.Orelse != nil {
		falseResult = e.analyzeBranch(n.Orelse.Stmts, scope, constraints.Build(n.Test, false))
		falseExits = alwaysExits(n.Orelse.Stmts)
	} else {
		falseResult = append([]symbols.ScopeConstraint(nil), scope.Constraints...)
	}

	joined := constraints.Combine(
		[][]symbols.ScopeConstraint{trueResult, falseResult},
		[]bool{alwaysExits(n.Body.Stmts), falseExits},
	)
	for _, sc := range joined {
		scope.Constraints = upsertConstraint(scope.Constraints, sc)
	}
}

// mergeInto upserts every constraint of additions into base, used by the
// statically-resolved branch of analyzeIf (there is only one live branch,
// so no Combine join is needed — its end state simply becomes the new
// current state).
func mergeInto(base, additions []symbols.ScopeConstraint) []symbols.ScopeConstraint {
	for _, sc := range additions {
		base = upsertConstraint(base, sc)
	}
	return base
}

func (e *Evaluator) analyzeWhile(n *ast.WhileStmt, scope *symbols.Scope) {
	if val, ok := e.staticCondition(n.Test); ok && !val {
		if n.Orelse != nil {
			e.analyzeStatements(n.Orelse.Stmts, scope)
		}
		return
	}

	e.evaluate(n.Test, scope, false)
	e.analyzeBranch(n.Body.Stmts, scope, constraints.Build(n.Test, true))
	if n.Orelse != nil {
		e.analyzeStatements(n.Orelse.Stmts, scope)
	}
	for _, nw := range constraints.Build(n.Test, false) {
		if sc, ok := constraints.Apply(nw, e.currentTypeFunc(scope), e.resolveClass(scope)); ok {
			scope.Constraints = upsertConstraint(scope.Constraints, sc)
		}
	}
}

func (e *Evaluator) analyzeFor(n *ast.ForStmt, scope *symbols.Scope) {
	e.evaluate(n.Iter, scope, false)
	e.assignTarget(n.Target, n, scope, typesystem.Unknown{})
	e.analyzeStatements(n.Body.Stmts, scope)
	if n.Orelse != nil {
		e.analyzeStatements(n.Orelse.Stmts, scope)
	}
}

func (e *Evaluator) analyzeWith(n *ast.WithStmt, scope *symbols.Scope) {
	for _, item := range n.Items {
		t := e.evaluate(item.ContextExpr, scope, false)
		if item.Target != nil {
			e.assignTarget(item.Target, n, scope, t)
		}
	}
	e.analyzeStatements(n.Body.Stmts, scope)
}

func (e *Evaluator) analyzeTry(n *ast.TryStmt, scope *symbols.Scope) {
	e.analyzeStatements(n.Body.Stmts, scope)
	for _, h := range n.Handlers {
		if h.Type != nil {
			t := e.evaluate(h.Type, scope, true)
			if h.Name != "" {
				if sym, ok := scope.Lookup(h.Name); ok {
					if cls := typesystem.ClassOf(t); cls != nil {
						sym.SetTypeForSource(e.ids.IDFor(h), &typesystem.ObjectType{Class: cls})
					}
				}
			}
		}
		e.analyzeStatements(h.Body.Stmts, scope)
	}
	if n.Orelse != nil {
		e.analyzeStatements(n.Orelse.Stmts, scope)
	}
	if n.Final != nil {
		e.analyzeStatements(n.Final.Stmts, scope)
	}
}

func (e *Evaluator) analyzeImport(n *ast.ImportStmt, scope *symbols.Scope) {
	for _, alias := range n.Modules {
		local := alias.Alias
		if local == "" {
			local = firstSegment(alias.Name)
		}
		if sym, ok := scope.Lookup(local); ok {
			sym.SetTypeForSource(e.ids.IDFor(alias), &typesystem.ModuleType{Name: alias.Name})
		}
	}
}

// analyzeImportFrom binds each `from module import name` target to the
// pre-populated builtin special-form/value class of the same name when one
// exists (so `from typing import Optional` resolves to the same
// SpecialBuiltIn ClassType the subscript dispatcher expects, rather than
// shadowing it with an opaque Unknown), falling back to Unknown for names
// this evaluator has no stub for (ordinary third-party imports).
func (e *Evaluator) analyzeImportFrom(n *ast.ImportFromStmt, scope *symbols.Scope) {
	for _, alias := range n.Names {
		local := alias.Alias
		if local == "" {
			local = alias.Name
		}
		sym, ok := scope.Lookup(local)
		if !ok {
			continue
		}
		if cls := LookupBuiltinClass(e.builtins, alias.Name); cls != nil {
			sym.SetTypeForSource(e.ids.IDFor(alias), cls)
			continue
		}
		sym.SetTypeForSource(e.ids.IDFor(alias), typesystem.Unknown{})
	}
}

func firstSegment(dotted string) string {
	for i, r := range dotted {
		if r == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// staticCondition evaluates the handful of predicates spec.md §4.G singles
// out for compile-time dead-branch elimination: `sys.version_info` compared
// against a tuple literal, `sys.platform`/`os.name` compared against a
// string literal, the bare `TYPE_CHECKING` name, and literal booleans. Any
// other test returns ok=false so the caller falls back to ordinary
// (non-eliminating) narrowing.
func (e *Evaluator) staticCondition(test ast.Expression) (bool, bool) {
	switch n := test.(type) {
	case *ast.BoolLiteral:
		return n.Value, true
	case *ast.Name:
		if n.Value == "TYPE_CHECKING" {
			return false, true
		}
	case *ast.UnaryExpr:
		if n.Op == ast.OpNot {
			if v, ok := e.staticCondition(n.Operand); ok {
				return !v, true
			}
		}
	case *ast.CompareExpr:
		if len(n.Ops) != 1 {
			return false, false
		}
		return e.staticCompare(n)
	}
	return false, false
}

func (e *Evaluator) staticCompare(n *ast.CompareExpr) (bool, bool) {
	major, minor := e.cfg.Env.VersionMajorMinor()

	if dotted, ok := dottedName(n.Left); ok {
		switch dotted {
		case "sys.version_info":
			if tuple, ok := n.Comparators[0].(*ast.TupleExpr); ok {
				return compareVersionTuple(major, minor, tuple, n.Ops[0])
			}
		case "sys.platform":
			if lit, ok := n.Comparators[0].(*ast.StringLiteral); ok {
				return comparePlatform(string(e.cfg.Env.PythonPlatform), lit.Value, n.Ops[0])
			}
		case "os.name":
			if lit, ok := n.Comparators[0].(*ast.StringLiteral); ok {
				return comparePlatform(osNameFor(e.cfg.Env.PythonPlatform), lit.Value, n.Ops[0])
			}
		}
	}
	return false, false
}

func dottedName(e ast.Expression) (string, bool) {
	switch n := e.(type) {
	case *ast.Name:
		return n.Value, true
	case *ast.AttributeExpr:
		base, ok := dottedName(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	default:
		return "", false
	}
}

func compareVersionTuple(major, minor int, tuple *ast.TupleExpr, op ast.CompareOp) (bool, bool) {
	var parts []int
	for _, el := range tuple.Elements {
		lit, ok := el.(*ast.IntLiteral)
		if !ok {
			return false, false
		}
		parts = append(parts, int(lit.Value.Int64()))
	}
	var cmpMajor, cmpMinor int
	if len(parts) > 0 {
		cmpMajor = parts[0]
	}
	if len(parts) > 1 {
		cmpMinor = parts[1]
	}
	cur := major*1000 + minor
	want := cmpMajor*1000 + cmpMinor
	return evalCompareOp(cur, want, op), true
}

func evalCompareOp(cur, want int, op ast.CompareOp) bool {
	switch op {
	case ast.CmpEq:
		return cur == want
	case ast.CmpNotEq:
		return cur != want
	case ast.CmpLt:
		return cur < want
	case ast.CmpGt:
		return cur > want
	case ast.CmpLte:
		return cur <= want
	case ast.CmpGte:
		return cur >= want
	default:
		return false
	}
}

func comparePlatform(actual, literal string, op ast.CompareOp) (bool, bool) {
	switch op {
	case ast.CmpEq:
		return actual == literal, true
	case ast.CmpNotEq:
		return actual != literal, true
	default:
		return false, false
	}
}

func osNameFor(p config.Platform) string {
	if p == config.PlatformWindows {
		return "nt"
	}
	return "posix"
}
