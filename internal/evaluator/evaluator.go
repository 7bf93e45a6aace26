// Package evaluator implements the type evaluator of spec.md §4.G: given a
// bound scope tree (from internal/binder) it assigns every expression node a
// typesystem.Type, constructs class/function types, applies flow narrowing
// built by internal/constraints, and runs to a fixed point across repeated
// passes driven by internal/driver.
//
// Grounded on the teacher's internal/analyzer/inference.go and
// expressions.go (a recursive evaluate-by-type-switch over its own AST,
// with a per-node type cache and a changed-since-last-pass flag) but the
// dispatch table itself is rewritten for this checker's gradual type system
// — the teacher infers concrete Hindley-Milner types for a statically typed
// language and never revisits a node once solved, where this evaluator
// re-evaluates every reachable node every pass until the set of produced
// types stops changing (spec.md §4.G "Fixed point").
package evaluator

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/constraints"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// Evaluator runs one type-analysis pass over a bound file. A fresh pass
// reuses the same Evaluator (its cache is exactly the "last pass" state the
// fixed-point comparison needs); the driver (internal/driver) decides how
// many passes to run.
type Evaluator struct {
	file     string
	cfg      *config.Configuration
	sink     *diagnostics.Sink
	ids      *symbols.SourceIDAllocator
	builtins *symbols.Scope
	scopeOf  map[ast.Node]*symbols.Scope

	cache   map[ast.Node]typesystem.Type
	changed bool
}

// New creates an Evaluator for one file. builtins is shared across every
// file in a session (spec.md §4.C "Built-in scope is pre-populated" is a
// session-wide fact, not a per-file one).
func New(file string, cfg *config.Configuration, sink *diagnostics.Sink, ids *symbols.SourceIDAllocator, builtins *symbols.Scope) *Evaluator {
	return &Evaluator{
		file:     file,
		cfg:      cfg,
		sink:     sink,
		ids:      ids,
		builtins: builtins,
		cache:    make(map[ast.Node]typesystem.Type),
	}
}

// Pass runs one evaluation pass over mod's top-level statements against
// moduleScope, and reports whether any node's evaluated type differed from
// its value in the previous pass (spec.md §4.G "Fixed point": the driver
// schedules another pass whenever this is true, up to a cap).
func (e *Evaluator) Pass(mod *ast.Module, moduleScope *symbols.Scope, scopeOf map[ast.Node]*symbols.Scope) bool {
	e.scopeOf = scopeOf
	e.changed = false
	e.analyzeStatements(mod.Body, moduleScope)
	return e.changed
}

func (e *Evaluator) errorf(rule config.DiagnosticRule, n ast.Node, format string, args ...any) {
	e.sink.ReportRule(e.cfg, rule, e.file, n.Range(), format, args...)
}

// remember records t as node's type for this pass and flags e.changed if it
// differs from the value recorded last pass (spec.md §4.G: "records, per
// node, whether it produced a different type than last pass").
func (e *Evaluator) remember(node ast.Node, t typesystem.Type) typesystem.Type {
	prev, had := e.cache[node]
	if !had || !typesystem.Equal(prev, t) {
		e.changed = true
	}
	e.cache[node] = t
	return t
}

// evaluate is the evaluate(node) → Type contract of spec.md §4.G. annotation
// selects annotation-evaluation mode, where a bare class reference is left
// unwrapped (not implicitly Object(...)'d) so callers needing the raw class
// (Type[C], isinstance's second argument, a subscript base) can ask for it
// directly instead of unwrapping an ObjectType afterwards.
func (e *Evaluator) evaluate(node ast.Expression, scope *symbols.Scope, annotation bool) typesystem.Type {
	if node == nil {
		return typesystem.Unknown{}
	}
	t := e.evalDispatch(node, scope, annotation)
	return e.remember(node, t)
}

// Evaluate is evaluate's value-mode entry point for external callers (the
// driver, tests): class references wrap into Object(...) as spec.md §4.G
// requires outside annotation position.
func (e *Evaluator) Evaluate(node ast.Expression, scope *symbols.Scope) typesystem.Type {
	return e.evaluate(node, scope, false)
}

func (e *Evaluator) evalDispatch(node ast.Expression, scope *symbols.Scope, annotation bool) typesystem.Type {
	switch n := node.(type) {
	case *ast.Name:
		return e.evalName(n, scope, annotation)
	case *ast.IntLiteral:
		return e.wrapBuiltin("int")
	case *ast.FloatLiteral:
		return e.wrapBuiltin("float")
	case *ast.StringLiteral:
		if n.IsBytes {
			return e.wrapBuiltin("bytes")
		}
		return e.wrapBuiltin("str")
	case *ast.BoolLiteral:
		return e.wrapBuiltin("bool")
	case *ast.NoneLiteral:
		return typesystem.NoneType{}
	case *ast.EllipsisLiteral:
		return typesystem.AnyType{}
	case *ast.TupleExpr:
		entries := make([]typesystem.Type, len(n.Elements))
		for i, el := range n.Elements {
			entries[i] = e.evaluate(el, scope, false)
		}
		return &typesystem.TupleType{EntryTypes: entries}
	case *ast.ListExpr:
		for _, el := range n.Elements {
			e.evaluate(el, scope, false)
		}
		return e.wrapBuiltin("list")
	case *ast.SetExpr:
		for _, el := range n.Elements {
			e.evaluate(el, scope, false)
		}
		return e.wrapBuiltin("set")
	case *ast.DictExpr:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				e.evaluate(entry.Key, scope, false)
			}
			e.evaluate(entry.Value, scope, false)
		}
		return e.wrapBuiltin("dict")
	case *ast.BinaryExpr:
		return e.evalBinary(n, scope)
	case *ast.UnaryExpr:
		return e.evalUnary(n, scope)
	case *ast.BoolOpExpr:
		alts := make([]typesystem.Type, len(n.Values))
		for i, v := range n.Values {
			alts[i] = e.evaluate(v, scope, false)
		}
		return typesystem.MakeUnion(alts...)
	case *ast.CompareExpr:
		e.evaluate(n.Left, scope, false)
		for _, c := range n.Comparators {
			e.evaluate(c, scope, false)
		}
		return e.wrapBuiltin("bool")
	case *ast.CallExpr:
		return e.evalCall(n, scope)
	case *ast.AttributeExpr:
		return e.evalAttribute(n, scope, annotation)
	case *ast.SubscriptExpr:
		return e.evalSubscript(n, scope, annotation)
	case *ast.StarredExpr:
		return e.evaluate(n.Value, scope, annotation)
	case *ast.IfExpr:
		e.evaluate(n.Test, scope, false)
		body := e.evaluate(n.Body, scope, false)
		orelse := e.evaluate(n.Orelse, scope, false)
		return typesystem.MakeUnion(body, orelse)
	case *ast.AwaitExpr:
		return e.evaluate(n.Value, scope, false)
	case *ast.YieldExpr:
		if n.Value != nil {
			e.evaluate(n.Value, scope, false)
		}
		return typesystem.Unknown{}
	case *ast.LambdaExpr:
		return e.evalLambda(n, scope)
	case *ast.Comprehension:
		return e.evalComprehension(n, scope)
	default:
		return typesystem.Unknown{}
	}
}

func (e *Evaluator) wrapBuiltin(name string) typesystem.Type {
	cls := LookupBuiltinClass(e.builtins, name)
	if cls == nil {
		return typesystem.Unknown{}
	}
	return &typesystem.ObjectType{Class: cls}
}

// evalName resolves a Name via the current scope chain (spec.md §4.G
// "Symbol lookup semantics"), substituting a flow-narrowed type when one is
// in effect for this name (internal/constraints) and the lookup didn't
// cross an independently-executable scope boundary.
func (e *Evaluator) evalName(n *ast.Name, scope *symbols.Scope, annotation bool) typesystem.Type {
	sym, owner, crossed := scope.LookUpSymbolRecursive(n.Value)
	if sym == nil {
		e.errorf(config.ReportUndefinedVariable, n, "%q is not defined", n.Value)
		return typesystem.Unknown{}
	}

	var t typesystem.Type
	if !crossed {
		if narrowed, ok := lookupConstraint(scope, n.Value); ok {
			t = narrowed
		}
	}
	if t == nil {
		t = sym.InferredType()
		_ = owner
	}

	if cls, ok := t.(*typesystem.ClassType); ok && !annotation {
		return &typesystem.ObjectType{Class: cls}
	}
	return t
}

// lookupConstraint searches scope's own narrowing stack (pushed/popped by
// analyzeIf around a branch body — see statements.go) for the most
// recently applied constraint on key, per spec.md §8 invariant #5 ("an
// unconditional assignment ... invalidates all earlier constraints").
func lookupConstraint(scope *symbols.Scope, key string) (typesystem.Type, bool) {
	for i := len(scope.Constraints) - 1; i >= 0; i-- {
		if scope.Constraints[i].Key == key {
			return scope.Constraints[i].Type, true
		}
	}
	return nil, false
}

// currentType is the constraints.Apply callback for "the type this
// expression has before the narrowing under consideration is applied":
// the same lookup evalName performs, generalized to any structural key
// (including attribute chains, which have no Symbol of their own).
func (e *Evaluator) currentType(scope *symbols.Scope, key string) typesystem.Type {
	if t, ok := lookupConstraint(scope, key); ok {
		return t
	}
	if sym, _, crossed := scope.LookUpSymbolRecursive(key); sym != nil && !crossed {
		return sym.InferredType()
	}
	return typesystem.Unknown{}
}

// resolveClass is the constraints.Apply callback that turns a class
// reference expression (isinstance's second argument, `type(x) is C`'s
// right side) into the *typesystem.ClassType it names, by evaluating it in
// annotation mode so a bare class name isn't wrapped in Object(...).
func (e *Evaluator) resolveClass(scope *symbols.Scope) constraints.ClassResolverFunc {
	return func(ref ast.Expression) *typesystem.ClassType {
		return typesystem.ClassOf(e.evaluate(ref, scope, true))
	}
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr, scope *symbols.Scope) typesystem.Type {
	left := e.evaluate(n.Left, scope, false)
	right := e.evaluate(n.Right, scope, false)
	if typesystem.Equal(left, right) {
		return left
	}
	if typesystem.IsUnknown(left) {
		return right
	}
	return left
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, scope *symbols.Scope) typesystem.Type {
	operand := e.evaluate(n.Operand, scope, false)
	if n.Op == ast.OpNot {
		return e.wrapBuiltin("bool")
	}
	return operand
}

func (e *Evaluator) evalLambda(n *ast.LambdaExpr, scope *symbols.Scope) typesystem.Type {
	lamScope := e.scopeOf[n]
	ft := &typesystem.FunctionType{Flags: typesystem.FuncInstance}
	for _, p := range n.Params {
		if p.Default != nil {
			e.evaluate(p.Default, scope, false)
		}
		ft.Params = append(ft.Params, typesystem.FunctionParameter{
			Category:   typesystem.ParamCategory(p.Category),
			Name:       p.Name,
			HasDefault: p.Default != nil,
		})
	}
	if lamScope != nil {
		ft.InferredReturn = e.evaluate(n.Body, lamScope, false)
	}
	return ft
}

func (e *Evaluator) evalComprehension(n *ast.Comprehension, scope *symbols.Scope) typesystem.Type {
	tmpScope := e.scopeOf[n]
	for i, clause := range n.Clauses {
		if i == 0 {
			e.evaluate(clause.Iter, scope, false)
		} else {
			e.evaluate(clause.Iter, tmpScope, false)
		}
		for _, cond := range clause.Ifs {
			e.evaluate(cond, tmpScope, false)
		}
	}
	e.evaluate(n.Element, tmpScope, false)
	if n.Value != nil {
		e.evaluate(n.Value, tmpScope, false)
	}
	switch n.Kind {
	case ast.CompSet:
		return e.wrapBuiltin("set")
	case ast.CompDict:
		return e.wrapBuiltin("dict")
	case ast.CompGenerator:
		return typesystem.Unknown{}
	default:
		return e.wrapBuiltin("list")
	}
}
