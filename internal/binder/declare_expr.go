package binder

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/symbols"
)

// declareExpr walks an expression for the binding forms it can contain: a
// comprehension's clause targets (bound into its own Temporary scope, built
// in pass 1) and a lambda's parameters (bound into its own Function scope,
// processed from the deferred worklist). Every other expression kind is
// walked purely to reach nested comprehensions/lambdas; Name/Attribute
// references themselves are not declarations and are left for the
// evaluator's scope lookup.
func (b *binder) declareExpr(e ast.Expression, scope *symbols.Scope) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Comprehension:
		tmpScope := b.scopeOf[n]
		for i, clause := range n.Clauses {
			if i == 0 {
				b.declareExpr(clause.Iter, scope)
			} else {
				b.declareExpr(clause.Iter, tmpScope)
			}
			b.declareTarget(clause.Target, n, tmpScope, nil, nil)
			for _, cond := range clause.Ifs {
				b.declareExpr(cond, tmpScope)
			}
		}
		b.declareExpr(n.Element, tmpScope)
		if n.Value != nil {
			b.declareExpr(n.Value, tmpScope)
		}
	case *ast.LambdaExpr:
		lamScope := b.scopeOf[n]
		for _, param := range n.Params {
			if param.Name == "" {
				continue
			}
			sym := lamScope.Declare(param.Name)
			sym.AddDeclaration(symbols.ParameterDeclaration{
				Base:       symbols.NewBaseDecl(b.file, n),
				Name:       param.Name,
				HasDefault: param.Default != nil,
			})
			if param.Default != nil {
				b.declareExpr(param.Default, scope)
			}
		}
		// The body itself is bound from the deferred worklist (binder.go),
		// against lamScope, once every sibling in the enclosing scope has
		// been declared.
	case *ast.BinaryExpr:
		b.declareExpr(n.Left, scope)
		b.declareExpr(n.Right, scope)
	case *ast.UnaryExpr:
		b.declareExpr(n.Operand, scope)
	case *ast.BoolOpExpr:
		for _, v := range n.Values {
			b.declareExpr(v, scope)
		}
	case *ast.CompareExpr:
		b.declareExpr(n.Left, scope)
		for _, c := range n.Comparators {
			b.declareExpr(c, scope)
		}
	case *ast.CallExpr:
		b.declareExpr(n.Func, scope)
		for _, a := range n.Args {
			b.declareExpr(a, scope)
		}
		for _, kw := range n.Keywords {
			b.declareExpr(kw.Value, scope)
		}
	case *ast.AttributeExpr:
		b.declareExpr(n.Value, scope)
	case *ast.SubscriptExpr:
		b.declareExpr(n.Value, scope)
		for _, idx := range n.Index {
			b.declareExpr(idx, scope)
		}
	case *ast.StarredExpr:
		b.declareExpr(n.Value, scope)
	case *ast.TupleExpr:
		for _, el := range n.Elements {
			b.declareExpr(el, scope)
		}
	case *ast.ListExpr:
		for _, el := range n.Elements {
			b.declareExpr(el, scope)
		}
	case *ast.SetExpr:
		for _, el := range n.Elements {
			b.declareExpr(el, scope)
		}
	case *ast.DictExpr:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				b.declareExpr(entry.Key, scope)
			}
			b.declareExpr(entry.Value, scope)
		}
	case *ast.IfExpr:
		b.declareExpr(n.Test, scope)
		b.declareExpr(n.Body, scope)
		b.declareExpr(n.Orelse, scope)
	case *ast.AwaitExpr:
		b.declareExpr(n.Value, scope)
	case *ast.YieldExpr:
		if n.Value != nil {
			b.declareExpr(n.Value, scope)
		}
	}
}
