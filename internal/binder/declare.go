package binder

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/symbols"
)

// declareStatements is binder pass 2 for one statement list: it populates
// scope's symbol table (and, via global/nonlocal redirection, an outer
// scope's) from every binding form it finds. It does not recurse into a
// nested function/lambda body — those are handled later from the deferred
// worklist, against their own already-built scope.
func (b *binder) declareStatements(stmts []ast.Statement, scope *symbols.Scope) {
	globals, nonlocals := scanGlobalNonlocal(stmts)
	for _, s := range stmts {
		b.declareStmt(s, scope, globals, nonlocals)
	}
}

// scanGlobalNonlocal finds every name named by a `global`/`nonlocal`
// statement anywhere in stmts without crossing into a nested scope, since
// Python's global/nonlocal declarations apply to the whole enclosing
// function regardless of where in its body they're written (spec.md §3
// invariant: "a global/nonlocal declaration redirects every binding of that
// name in this scope").
func scanGlobalNonlocal(stmts []ast.Statement) (globals, nonlocals map[string]bool) {
	globals = make(map[string]bool)
	nonlocals = make(map[string]bool)
	var walk func([]ast.Statement)
	walk = func(list []ast.Statement) {
		for _, s := range list {
			switch n := s.(type) {
			case *ast.GlobalStmt:
				for _, name := range n.Names {
					globals[name] = true
				}
			case *ast.NonlocalStmt:
				for _, name := range n.Names {
					nonlocals[name] = true
				}
			case *ast.IfStmt:
				walk(n.Body.Stmts)
				if n.Orelse != nil {
					walk(n.Orelse.Stmts)
				}
			case *ast.WhileStmt:
				walk(n.Body.Stmts)
				if n.Orelse != nil {
					walk(n.Orelse.Stmts)
				}
			case *ast.ForStmt:
				walk(n.Body.Stmts)
				if n.Orelse != nil {
					walk(n.Orelse.Stmts)
				}
			case *ast.WithStmt:
				walk(n.Body.Stmts)
			case *ast.TryStmt:
				walk(n.Body.Stmts)
				for _, h := range n.Handlers {
					walk(h.Body.Stmts)
				}
				if n.Orelse != nil {
					walk(n.Orelse.Stmts)
				}
				if n.Final != nil {
					walk(n.Final.Stmts)
				}
			}
		}
	}
	walk(stmts)
	return
}

// targetScope returns the scope a binding of name should actually land in,
// honoring global/nonlocal redirection.
func (b *binder) targetScope(name string, scope *symbols.Scope, globals, nonlocals map[string]bool) *symbols.Scope {
	if globals[name] {
		root := scope
		for root.Parent != nil && root.Kind != symbols.ScopeBuiltIn {
			if root.Kind == symbols.ScopeModule {
				return root
			}
			root = root.Parent
		}
		return root
	}
	if nonlocals[name] {
		cur := scope.Parent
		for cur != nil {
			if cur.Kind == symbols.ScopeFunction {
				return cur
			}
			if cur.Kind == symbols.ScopeModule {
				// No enclosing function binds this name; the name stays in
				// the current scope and no diagnostic is reported for the
				// unresolved nonlocal.
				return scope
			}
			cur = cur.Parent
		}
		return scope
	}
	return scope
}

func (b *binder) declareStmt(s ast.Statement, scope *symbols.Scope, globals, nonlocals map[string]bool) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		for _, t := range n.Targets {
			b.declareTarget(t, n, scope, globals, nonlocals)
		}
		b.declareExpr(n.Value, scope)

	case *ast.AnnAssignStmt:
		if name, ok := n.Target.(*ast.Name); ok {
			target := b.targetScope(name.Value, scope, globals, nonlocals)
			sym := target.Declare(name.Value)
			sym.AddDeclaration(symbols.VariableDeclaration{
				Base:       symbols.NewBaseDecl(b.file, n),
				Name:       name.Value,
				Annotation: n.Annotation,
			})
		}
		if n.Value != nil {
			b.declareExpr(n.Value, scope)
		}

	case *ast.AugAssignStmt:
		if name, ok := n.Target.(*ast.Name); ok {
			target := b.targetScope(name.Value, scope, globals, nonlocals)
			target.Declare(name.Value)
		}
		b.declareExpr(n.Value, scope)

	case *ast.ExprStmt:
		b.declareExpr(n.Value, scope)

	case *ast.ReturnStmt:
		if n.Value != nil {
			b.declareExpr(n.Value, scope)
		}

	case *ast.RaiseStmt:
		if n.Exc != nil {
			b.declareExpr(n.Exc, scope)
		}
		if n.Cause != nil {
			b.declareExpr(n.Cause, scope)
		}

	case *ast.AssertStmt:
		b.declareExpr(n.Test, scope)
		if n.Msg != nil {
			b.declareExpr(n.Msg, scope)
		}

	case *ast.DelStmt:
		for _, t := range n.Targets {
			b.declareExpr(t, scope)
		}

	case *ast.IfStmt:
		b.declareExpr(n.Test, scope)
		b.declareStatements(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.declareStatements(n.Orelse.Stmts, scope)
		}

	case *ast.WhileStmt:
		scope.IsLooping = true
		b.declareExpr(n.Test, scope)
		b.declareStatements(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.declareStatements(n.Orelse.Stmts, scope)
		}

	case *ast.ForStmt:
		scope.IsLooping = true
		b.declareTarget(n.Target, n, scope, globals, nonlocals)
		b.declareExpr(n.Iter, scope)
		b.declareStatements(n.Body.Stmts, scope)
		if n.Orelse != nil {
			b.declareStatements(n.Orelse.Stmts, scope)
		}

	case *ast.WithStmt:
		for _, item := range n.Items {
			b.declareExpr(item.ContextExpr, scope)
			if item.Target != nil {
				b.declareTarget(item.Target, n, scope, globals, nonlocals)
			}
		}
		b.declareStatements(n.Body.Stmts, scope)

	case *ast.TryStmt:
		b.declareStatements(n.Body.Stmts, scope)
		for _, h := range n.Handlers {
			if h.Type != nil {
				b.declareExpr(h.Type, scope)
			}
			if h.Name != "" {
				sym := scope.Declare(h.Name)
				sym.AddDeclaration(symbols.VariableDeclaration{Base: symbols.NewBaseDecl(b.file, n), Name: h.Name})
			}
			b.declareStatements(h.Body.Stmts, scope)
		}
		if n.Orelse != nil {
			b.declareStatements(n.Orelse.Stmts, scope)
		}
		if n.Final != nil {
			b.declareStatements(n.Final.Stmts, scope)
		}

	case *ast.FunctionDef:
		fnScope := b.scopeOf[n]
		isMethod := scope.Kind == symbols.ScopeClass
		sym := scope.Declare(n.Name)
		sym.AddDeclaration(symbols.FunctionDeclaration{
			Base:     symbols.NewBaseDecl(b.file, n),
			Name:     n.Name,
			IsMethod: isMethod,
		})
		for _, param := range n.Params {
			if param.Name == "" {
				continue
			}
			psym := fnScope.Declare(param.Name)
			psym.AddDeclaration(symbols.ParameterDeclaration{
				Base:       symbols.NewBaseDecl(b.file, n),
				Name:       param.Name,
				Annotation: param.Annotation,
				HasDefault: param.Default != nil,
			})
		}

	case *ast.ClassDef:
		sym := scope.Declare(n.Name)
		sym.AddDeclaration(symbols.ClassDeclaration{Base: symbols.NewBaseDecl(b.file, n), Name: n.Name})
		classScope := b.scopeOf[n]
		b.declareStatements(n.Body.Stmts, classScope)

	case *ast.ImportStmt:
		for _, alias := range n.Modules {
			local := alias.Alias
			if local == "" {
				local = firstSegment(alias.Name)
			}
			sym := scope.Declare(local)
			sym.AddDeclaration(symbols.AliasDeclaration{
				Base:       symbols.NewBaseDecl(b.file, n),
				LocalName:  local,
				ModuleName: alias.Name,
			})
		}

	case *ast.ImportFromStmt:
		for _, alias := range n.Names {
			local := alias.Alias
			if local == "" {
				local = alias.Name
			}
			sym := scope.Declare(local)
			sym.AddDeclaration(symbols.AliasDeclaration{
				Base:       symbols.NewBaseDecl(b.file, n),
				LocalName:  local,
				ModuleName: n.Module,
				SymbolName: alias.Name,
			})
		}

	case *ast.GlobalStmt, *ast.NonlocalStmt, *ast.PassStmt, *ast.BreakStmt, *ast.ContinueStmt:
		// No bindings. break/continue set no flow flags: a scope's
		// MayBreak/AlwaysBreaks are not set anywhere.
	}
}

// declareTarget declares every Name reachable from an assignment/for/with
// target, recursing through tuple/list destructuring and star-unpacking.
// AttributeExpr and SubscriptExpr targets (`obj.attr = x`, `d[k] = x`) bind
// nothing new — they mutate an existing object — so only their sub-
// expressions are walked for reference purposes.
func (b *binder) declareTarget(target ast.Expression, site ast.Node, scope *symbols.Scope, globals, nonlocals map[string]bool) {
	switch t := target.(type) {
	case *ast.Name:
		dest := b.targetScope(t.Value, scope, globals, nonlocals)
		sym := dest.Declare(t.Value)
		sym.AddDeclaration(symbols.VariableDeclaration{Base: symbols.NewBaseDecl(b.file, site), Name: t.Value})
	case *ast.TupleExpr:
		for _, el := range t.Elements {
			b.declareTarget(el, site, scope, globals, nonlocals)
		}
	case *ast.ListExpr:
		for _, el := range t.Elements {
			b.declareTarget(el, site, scope, globals, nonlocals)
		}
	case *ast.StarredExpr:
		b.declareTarget(t.Value, site, scope, globals, nonlocals)
	case *ast.AttributeExpr:
		b.declareExpr(t.Value, scope)
	case *ast.SubscriptExpr:
		b.declareExpr(t.Value, scope)
		for _, idx := range t.Index {
			b.declareExpr(idx, scope)
		}
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
