package binder

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/symbols"
)

// buildScopeSkeleton is binder pass 1: it walks a statement list creating
// exactly one symbols.Scope for every FunctionDef, ClassDef, LambdaExpr and
// Comprehension it finds, recording each in b.scopeOf. It does not declare
// any symbols (that's pass 2) — only Python's own scope-introducing forms
// are visited eagerly; a function or lambda body is walked later from the
// deferred worklist against its own now-existing scope.
func (b *binder) buildScopeSkeleton(stmts []ast.Statement, scope *symbols.Scope) {
	for _, s := range stmts {
		b.buildScopeSkeletonStmt(s, scope)
	}
}

func (b *binder) buildScopeSkeletonStmt(s ast.Statement, scope *symbols.Scope) {
	switch n := s.(type) {
	case *ast.FunctionDef:
		fnScope := symbols.NewScope(symbols.ScopeFunction, scope)
		b.scopeOf[n] = fnScope
		for _, param := range n.Params {
			if param.Default != nil {
				b.buildScopeSkeletonExpr(param.Default, scope)
			}
			if param.Annotation != nil {
				b.buildScopeSkeletonExpr(param.Annotation, scope)
			}
		}
		if n.Returns != nil {
			b.buildScopeSkeletonExpr(n.Returns, scope)
		}
		for _, d := range n.Decorators {
			b.buildScopeSkeletonExpr(d.Value, scope)
		}
		b.deferred = append(b.deferred, DeferredBody{Scope: fnScope, Body: n.Body.Stmts})

	case *ast.ClassDef:
		classScope := symbols.NewScope(symbols.ScopeClass, scope)
		b.scopeOf[n] = classScope
		for _, base := range n.Bases {
			b.buildScopeSkeletonExpr(base, scope)
		}
		for _, kw := range n.Keywords {
			b.buildScopeSkeletonExpr(kw.Value, scope)
		}
		for _, d := range n.Decorators {
			b.buildScopeSkeletonExpr(d.Value, scope)
		}
		// A class body executes immediately (it is not independently
		// executable), so pass 1 recurses into it right away rather than
		// deferring, unlike a function body.
		b.buildScopeSkeleton(n.Body.Stmts, classScope)

	case *ast.ExprStmt:
		b.buildScopeSkeletonExpr(n.Value, scope)
	case *ast.AssignStmt:
		for _, t := range n.Targets {
			b.buildScopeSkeletonExpr(t, scope)
		}
		if n.Value != nil {
			b.buildScopeSkeletonExpr(n.Value, scope)
		}
	case *ast.AnnAssignStmt:
		b.buildScopeSkeletonExpr(n.Target, scope)
		b.buildScopeSkeletonExpr(n.Annotation, scope)
		if n.Value != nil {
			b.buildScopeSkeletonExpr(n.Value, scope)
		}
	case *ast.AugAssignStmt:
		b.buildScopeSkeletonExpr(n.Target, scope)
		b.buildScopeSkeletonExpr(n.Value, scope)
	case *ast.ReturnStmt:
		if n.Value != nil {
			b.buildScopeSkeletonExpr(n.Value, scope)
		}
	case *ast.RaiseStmt:
		if n.Exc != nil {
			b.buildScopeSkeletonExpr(n.Exc, scope)
		}
		if n.Cause != nil {
			b.buildScopeSkeletonExpr(n.Cause, scope)
		}
	case *ast.AssertStmt:
		b.buildScopeSkeletonExpr(n.Test, scope)
		if n.Msg != nil {
			b.buildScopeSkeletonExpr(n.Msg, scope)
		}
	case *ast.DelStmt:
		for _, t := range n.Targets {
			b.buildScopeSkeletonExpr(t, scope)
		}
	case *ast.IfStmt:
		b.buildScopeSkeletonExpr(n.Test, scope)
		b.buildScopeSkeleton(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.buildScopeSkeleton(n.Orelse.Stmts, scope)
		}
	case *ast.WhileStmt:
		b.buildScopeSkeletonExpr(n.Test, scope)
		b.buildScopeSkeleton(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.buildScopeSkeleton(n.Orelse.Stmts, scope)
		}
	case *ast.ForStmt:
		b.buildScopeSkeletonExpr(n.Target, scope)
		b.buildScopeSkeletonExpr(n.Iter, scope)
		b.buildScopeSkeleton(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.buildScopeSkeleton(n.Orelse.Stmts, scope)
		}
	case *ast.WithStmt:
		for _, item := range n.Items {
			b.buildScopeSkeletonExpr(item.ContextExpr, scope)
			if item.Target != nil {
				b.buildScopeSkeletonExpr(item.Target, scope)
			}
		}
		b.buildScopeSkeleton(n.Body.Stmts, scope)
	case *ast.TryStmt:
		b.buildScopeSkeleton(n.Body.Stmts, scope)
		for _, h := range n.Handlers {
			if h.Type != nil {
				b.buildScopeSkeletonExpr(h.Type, scope)
			}
			b.buildScopeSkeleton(h.Body.Stmts, scope)
		}
		if n.Orelse != nil {
			b.buildScopeSkeleton(n.Orelse.Stmts, scope)
		}
		if n.Final != nil {
			b.buildScopeSkeleton(n.Final.Stmts, scope)
		}
	}
}

// buildScopeSkeletonExpr recurses into expressions only far enough to find
// LambdaExpr/Comprehension scope-introducing forms and the sub-expressions
// that a later pass needs reachable (call args, subscripts, etc).
func (b *binder) buildScopeSkeletonExpr(e ast.Expression, scope *symbols.Scope) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.LambdaExpr:
		lamScope := symbols.NewScope(symbols.ScopeFunction, scope)
		b.scopeOf[n] = lamScope
		for _, param := range n.Params {
			if param.Default != nil {
				b.buildScopeSkeletonExpr(param.Default, scope)
			}
		}
		b.deferred = append(b.deferred, DeferredBody{Scope: lamScope, Expr: n.Body})
	case *ast.Comprehension:
		tmpScope := symbols.NewScope(symbols.ScopeTemporary, scope)
		tmpScope.IsLooping = true
		b.scopeOf[n] = tmpScope
		for i, clause := range n.Clauses {
			// The outermost iterable evaluates in the enclosing scope (it
			// runs before the comprehension's own scope exists); every
			// subsequent clause's iterable, and every `if`, evaluates
			// inside the comprehension's own scope.
			if i == 0 {
				b.buildScopeSkeletonExpr(clause.Iter, scope)
			} else {
				b.buildScopeSkeletonExpr(clause.Iter, tmpScope)
			}
			b.buildScopeSkeletonExpr(clause.Target, tmpScope)
			for _, cond := range clause.Ifs {
				b.buildScopeSkeletonExpr(cond, tmpScope)
			}
		}
		b.buildScopeSkeletonExpr(n.Element, tmpScope)
		if n.Value != nil {
			b.buildScopeSkeletonExpr(n.Value, tmpScope)
		}
	case *ast.BinaryExpr:
		b.buildScopeSkeletonExpr(n.Left, scope)
		b.buildScopeSkeletonExpr(n.Right, scope)
	case *ast.UnaryExpr:
		b.buildScopeSkeletonExpr(n.Operand, scope)
	case *ast.BoolOpExpr:
		for _, v := range n.Values {
			b.buildScopeSkeletonExpr(v, scope)
		}
	case *ast.CompareExpr:
		b.buildScopeSkeletonExpr(n.Left, scope)
		for _, c := range n.Comparators {
			b.buildScopeSkeletonExpr(c, scope)
		}
	case *ast.CallExpr:
		b.buildScopeSkeletonExpr(n.Func, scope)
		for _, a := range n.Args {
			b.buildScopeSkeletonExpr(a, scope)
		}
		for _, kw := range n.Keywords {
			b.buildScopeSkeletonExpr(kw.Value, scope)
		}
	case *ast.AttributeExpr:
		b.buildScopeSkeletonExpr(n.Value, scope)
	case *ast.SubscriptExpr:
		b.buildScopeSkeletonExpr(n.Value, scope)
		for _, idx := range n.Index {
			b.buildScopeSkeletonExpr(idx, scope)
		}
	case *ast.StarredExpr:
		b.buildScopeSkeletonExpr(n.Value, scope)
	case *ast.TupleExpr:
		for _, el := range n.Elements {
			b.buildScopeSkeletonExpr(el, scope)
		}
	case *ast.ListExpr:
		for _, el := range n.Elements {
			b.buildScopeSkeletonExpr(el, scope)
		}
	case *ast.SetExpr:
		for _, el := range n.Elements {
			b.buildScopeSkeletonExpr(el, scope)
		}
	case *ast.DictExpr:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				b.buildScopeSkeletonExpr(entry.Key, scope)
			}
			b.buildScopeSkeletonExpr(entry.Value, scope)
		}
	case *ast.IfExpr:
		b.buildScopeSkeletonExpr(n.Test, scope)
		b.buildScopeSkeletonExpr(n.Body, scope)
		b.buildScopeSkeletonExpr(n.Orelse, scope)
	case *ast.AwaitExpr:
		b.buildScopeSkeletonExpr(n.Value, scope)
	case *ast.YieldExpr:
		if n.Value != nil {
			b.buildScopeSkeletonExpr(n.Value, scope)
		}
	}
}
