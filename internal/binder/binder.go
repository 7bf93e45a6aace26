// Package binder implements the two-pass binder of spec.md §4.C/E: a first
// pass that builds the lexical scope skeleton (one symbols.Scope per
// Module/Class/Function/Lambda/Comprehension node) and a second pass that
// populates each scope's symbol table from the declarations found in it.
// Grounded on the teacher's internal/analyzer/declarations*.go family, but
// restructured around Go type switches dispatching on ast node kind (design
// note 9) rather than the teacher's Visitor/double-dispatch walker, and
// generalized from the teacher's single-pass HM-inference declaration walk
// into the specification's two explicit passes plus a deferred function
// body queue.
package binder

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/symbols"
)

// Result is the output of binding one file: the module scope plus the
// node->scope side table every later pass (constraints, evaluator) consults
// to find "the scope this expression/statement lexically lives in".
type Result struct {
	Module     *symbols.Scope
	ScopeOf    map[ast.Node]*symbols.Scope
	Deferred   []DeferredBody // function/lambda bodies, queued for pass 2's second half
}

// DeferredBody is a function or lambda body whose statements are bound only
// after every module/class-level name is declared, so a function can
// forward-reference a sibling defined later in the same module (spec.md
// §4.C: "a function body is bound against the completed enclosing scope").
type DeferredBody struct {
	Scope *symbols.Scope
	Body  []ast.Statement // nil for a LambdaExpr, whose body is an Expression
	Expr  ast.Expression
}

type binder struct {
	file    string
	sink    *diagnostics.Sink
	ids     *symbols.SourceIDAllocator
	scopeOf map[ast.Node]*symbols.Scope
	deferred []DeferredBody
}

// Bind runs both passes over a freshly parsed module and returns the bound
// scope tree.
func Bind(file string, mod *ast.Module, builtins *symbols.Scope, sink *diagnostics.Sink, ids *symbols.SourceIDAllocator) *Result {
	b := &binder{file: file, sink: sink, ids: ids, scopeOf: make(map[ast.Node]*symbols.Scope)}

	moduleScope := symbols.NewScope(symbols.ScopeModule, builtins)
	b.scopeOf[mod] = moduleScope

	b.buildScopeSkeleton(mod.Body, moduleScope)
	b.declareStatements(mod.Body, moduleScope)
	b.drainDeferred()

	return &Result{Module: moduleScope, ScopeOf: b.scopeOf, Deferred: b.deferred}
}

// drainDeferred binds every queued function/lambda body, which may itself
// queue further nested function bodies; this is why it is a worklist rather
// than a single recursive call.
func (b *binder) drainDeferred() {
	for i := 0; i < len(b.deferred); i++ {
		d := b.deferred[i]
		if d.Expr != nil {
			b.buildScopeSkeletonExpr(d.Expr, d.Scope)
			b.declareExpr(d.Expr, d.Scope)
			continue
		}
		b.buildScopeSkeleton(d.Body, d.Scope)
		b.declareStatements(d.Body, d.Scope)
	}
}

func (b *binder) errorf(n ast.Node, format string, args ...any) {
	b.sink.Report(diagnostics.Error, "bind-error", b.file, n.Range(), format, args...)
}
