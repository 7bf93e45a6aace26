// Package symbols implements the scope/symbol/declaration model of spec.md
// §3. Grounded on the teacher's internal/symbols/symbol_table_core.go (a
// Symbol struct with Kind/Declarations-like fields and a small enum of
// scope kinds) but generalized: the teacher's scopes are a flat stack of
// Prelude/Global/Function/Block used to resolve a statically-typed
// language's let-bindings, whereas this model is a parent-linked scope
// *tree* (one node per lexically nested construct, long-lived for the file
// the way the teacher's symbol table lives for the module) with the five
// scope kinds spec.md §3 requires, export filtering for module boundaries,
// and the flow-analysis flags the type evaluator consults for narrowing.
package symbols

import "github.com/astra-lang/astracheck/internal/typesystem"

// ScopeKind is one of the five scope kinds of spec.md §3.
type ScopeKind int

const (
	ScopeBuiltIn ScopeKind = iota
	ScopeModule
	ScopeClass
	ScopeFunction
	ScopeTemporary
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBuiltIn:
		return "BuiltIn"
	case ScopeModule:
		return "Module"
	case ScopeClass:
		return "Class"
	case ScopeFunction:
		return "Function"
	case ScopeTemporary:
		return "Temporary"
	default:
		return "Unknown"
	}
}

// IsIndependentlyExecutable reports whether a scope of this kind runs on
// its own rather than inline inside its enclosing scope (spec.md §3:
// "Independently-executable scopes are Function and Module").
func (k ScopeKind) IsIndependentlyExecutable() bool {
	return k == ScopeFunction || k == ScopeModule
}

// Scope is one node of the lexical scope tree (spec.md §3).
type Scope struct {
	Kind   ScopeKind
	Parent *Scope // back-reference only; nil for the built-in scope

	symbols map[string]*Symbol

	// ExportFilter, when non-nil, restricts which names of a Module scope
	// are visible to an importer (spec.md §3 "optional export filter").
	// A nil filter means every name is exported.
	ExportFilter map[string]bool

	// Flow-analysis flags. Of these only IsLooping is set (by the binder);
	// the others keep their zero value. Per spec.md §3 invariant (a), only a Temporary
	// scope's IsConditional/IsLooping remain mutable once its owning
	// Function/Class/Module scope has finished constructing it.
	AlwaysReturns bool
	AlwaysRaises  bool
	MayBreak      bool
	AlwaysBreaks  bool
	IsConditional bool
	IsLooping     bool

	// InferredReturn/InferredYield accumulate a Function scope's `return`/
	// `yield` expression types across the evaluator's passes.
	InferredReturn typesystem.Type
	InferredYield  typesystem.Type

	// Constraints holds the flow-sensitive narrowings attached to this
	// scope by the constraints package (spec.md §4.F). Declared here,
	// rather than in package constraints, so Scope stays the single
	// mutable-shared structure design note 9 calls for; package
	// constraints only builds/applies/combines the values.
	Constraints []ScopeConstraint
}

// ScopeConstraint is the in-scope form of a type constraint (spec.md §4.F):
// "within this scope's extent, the given expression has this type."
// The expression is not stored (package symbols does not import package
// ast); constraints.Key provides the structural identity, held in Key, used
// for matching instead of relying on node pointer equality.
type ScopeConstraint struct {
	Key         string // structural key of the constrained expression
	Type        typesystem.Type
	Conditional bool
}

// NewScope allocates a scope of the given kind with parent as its enclosing
// scope (not necessarily the structural parent node — see spec.md §4.C/E on
// decorators and defaults evaluating in the outer scope).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:    kind,
		Parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Declare inserts name as a symbol with no declarations yet, if it isn't
// already present, and returns the (possibly pre-existing) Symbol. This is
// the only mutation pass 2 of the binder performs on a scope's table
// (design note 9: "admits only additive changes between phases").
func (s *Scope) Declare(name string) *Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	s.symbols[name] = sym
	return sym
}

// Lookup resolves name in this scope only (no parent walk).
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Names returns every symbol name declared directly in this scope.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		names = append(names, n)
	}
	return names
}

// IsExported reports whether name is visible to an importer of this
// (necessarily Module-kind) scope.
func (s *Scope) IsExported(name string) bool {
	if s.ExportFilter == nil {
		return true
	}
	return s.ExportFilter[name]
}

// LookUpSymbolRecursive walks Parent links starting at s, honoring a
// Module scope's export filter once the walk leaves that module (spec.md
// §4.G "Symbol lookup semantics"). crossedBoundary reports whether the walk
// passed through an independently-executable scope boundary, which the
// caller needs to know because a name captured from an outer function
// cannot be narrowed by the outer function's own flow constraints.
func (s *Scope) LookUpSymbolRecursive(name string) (sym *Symbol, owner *Scope, crossedBoundary bool) {
	cur := s
	leftModule := false
	for cur != nil {
		if found, ok := cur.Lookup(name); ok {
			if leftModule && cur.Kind == ScopeModule && !cur.IsExported(name) {
				return nil, nil, crossedBoundary
			}
			return found, cur, crossedBoundary
		}
		if cur.Kind == ScopeModule {
			leftModule = true
		}
		if cur.Parent != nil && cur.Kind.IsIndependentlyExecutable() {
			crossedBoundary = true
		}
		cur = cur.Parent
	}
	return nil, nil, crossedBoundary
}
