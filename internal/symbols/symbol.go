package symbols

import "github.com/astra-lang/astracheck/internal/typesystem"

// Symbol is a record of everywhere a name was declared, plus the join of
// every contributing declaration's type (spec.md §3).
type Symbol struct {
	Name             string
	Declarations     []Declaration
	BeginsUnbound    bool

	// contributions maps a source id (spec.md GLOSSARY "Source id") to the
	// type last contributed under it. Re-evaluating a source replaces its
	// entry rather than appending, which is what makes a second pass reach
	// a fixed point instead of growing the union monotonically (spec.md §8
	// round-trip property #8).
	contributions map[int]typesystem.Type
	order         []int // insertion order of source ids, for deterministic Join
}

// AddDeclaration appends a new declaration site for this symbol. A symbol
// may accumulate many declarations (spec.md §3: "a symbol holds a *set* of
// declarations").
func (s *Symbol) AddDeclaration(d Declaration) {
	s.Declarations = append(s.Declarations, d)
}

// SetTypeForSource records (or replaces) the type contributed by sourceID,
// the stable per-binding-site id described in the GLOSSARY.
func (s *Symbol) SetTypeForSource(sourceID int, t typesystem.Type) {
	if s.contributions == nil {
		s.contributions = make(map[int]typesystem.Type)
	}
	if _, existed := s.contributions[sourceID]; !existed {
		s.order = append(s.order, sourceID)
	}
	s.contributions[sourceID] = t
}

// InferredType returns the join (union) of every source's current
// contribution, in the order sources were first seen, for deterministic
// union member ordering.
func (s *Symbol) InferredType() typesystem.Type {
	if len(s.order) == 0 {
		return typesystem.Unknown{}
	}
	var acc typesystem.Type
	for _, id := range s.order {
		acc = typesystem.Join(acc, s.contributions[id])
	}
	return acc
}

// DeclarationKind tags the variant of a Declaration.
type DeclarationKind int

const (
	DeclBuiltIn DeclarationKind = iota
	DeclVariable
	DeclParameter
	DeclFunction
	DeclMethod
	DeclClass
	DeclAlias
)

// Declaration is the common shape every declaration variant embeds: a
// parse-tree node and the file it came from (spec.md §3). Base.Node is typed
// as an opaque `any` (rather than ast.Node) purely to avoid
// this leaf package importing token/ast; the binder, which constructs every
// Declaration, knows the concrete type to store and the evaluator, which
// reads it back out, knows the concrete type to expect.
type Declaration interface {
	Kind() DeclarationKind
	SourceFile() string
}

type Base struct {
	File string
	Node any // the declaring ast.Node, for error-range reporting
}

func (b Base) SourceFile() string { return b.File }

// BuiltInDeclaration marks a name pre-populated from the built-in allow
// list (spec.md §4.C "Built-in scope is pre-populated").
type BuiltInDeclaration struct {
	Base
	Name string
}

func (BuiltInDeclaration) Kind() DeclarationKind { return DeclBuiltIn }

// VariableDeclaration is an assignment target, for-loop target, with-target,
// or except-clause name.
type VariableDeclaration struct {
	Base
	Name          string
	Annotation    any // ast.Expression, nil if unannotated
	IsConstant    bool
	InferredType  typesystem.Type
}

func (VariableDeclaration) Kind() DeclarationKind { return DeclVariable }

// ParameterDeclaration is a function/lambda parameter.
type ParameterDeclaration struct {
	Base
	Name       string
	Annotation any
	HasDefault bool
}

func (ParameterDeclaration) Kind() DeclarationKind { return DeclParameter }

// FunctionDeclaration is a `def` at module or class scope, or a lambda.
type FunctionDeclaration struct {
	Base
	Name         string
	ReturnExprs  []any // ast.Expression return-value expressions found in the body
	YieldExprs   []any
	IsMethod     bool
}

func (d FunctionDeclaration) Kind() DeclarationKind {
	if d.IsMethod {
		return DeclMethod
	}
	return DeclFunction
}

// ClassDeclaration is a `class` statement.
type ClassDeclaration struct {
	Base
	Name string
}

func (ClassDeclaration) Kind() DeclarationKind { return DeclClass }

// AliasDeclaration is an import target: either a whole module or a single
// symbol within one, plus any implicit submodules the import must also
// load (spec.md §3).
type AliasDeclaration struct {
	Base
	LocalName        string
	ModuleName        string   // dotted module path as written
	SymbolName        string   // non-empty for `from X import Y`
	ImplicitSubmodules []string
}

func (AliasDeclaration) Kind() DeclarationKind { return DeclAlias }

// NewBaseDecl is the shared constructor helper every Declaration variant's
// caller (the binder) uses to fill in the embedded Base.
func NewBaseDecl(file string, node any) Base {
	return Base{File: file, Node: node}
}
