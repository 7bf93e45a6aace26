// Package typesystem implements the Type universe of spec.md §3: a tagged
// union of type kinds with specialization, unions, and callables. Grounded
// on the teacher's internal/typesystem/types.go (a Type interface dispatched
// by a Go type switch, one concrete struct per variant) but the variant set
// itself is rewritten: the teacher models a Hindley-Milner type system
// (TVar/TCon/TApp + Subst/Unify) for a statically-typed language, where this
// checker models a gradual type system for a dynamically-typed one, so the
// substitution/unification machinery is replaced with specialization
// (clone-with-type-args) and union-based narrowing instead.
package typesystem

// Type is the interface implemented by every member of the type universe.
// The unexported marker method closes the set to this package, exactly as
// ast.Expression/ast.Statement close their node sets.
type Type interface {
	String() string
	typeNode()
}

// Unknown is the type assigned when inference could not determine anything
// useful; distinct from Any in that it signals an evaluator limitation
// rather than a deliberate opt-out.
type Unknown struct{}

func (Unknown) typeNode() {}

// Unbound is the type of a name that has not yet been assigned on some
// control-flow path reaching its use.
type Unbound struct{}

func (Unbound) typeNode() {}

// AnyType is the `Any` type: compatible with, and absorbing, everything.
type AnyType struct{}

func (AnyType) typeNode() {}

// NoneType is the type of the `None` singleton.
type NoneType struct{}

func (NoneType) typeNode() {}

// NeverType is the bottom type: no value has this type. It results from
// narrowing every alternative of a union away, or from annotating a
// function as never returning.
type NeverType struct{}

func (NeverType) typeNode() {}

// EllipsisTypeVal is the type of the `...` literal.
type EllipsisTypeVal struct{}

func (EllipsisTypeVal) typeNode() {}

// ClassFlags are boolean properties of a Class type.
type ClassFlags int

const (
	ClassBuiltIn ClassFlags = 1 << iota
	ClassSpecialBuiltIn
)

func (f ClassFlags) Has(flag ClassFlags) bool { return f&flag != 0 }

// ClassMember is one field or method of a class. Declared as its own small
// struct (rather than reusing symbols.Symbol) to avoid a typesystem<->
// symbols import cycle: symbols.Symbol already embeds a typesystem.Type, so
// typesystem cannot import symbols back.
type ClassMember struct {
	Name string
	Type Type
	// DeclaringClass is the class in the MRO that actually declares this
	// member, for "not a known member of" diagnostics that want to name
	// the defining class rather than the accessed subclass.
	DeclaringClass *ClassType
}

// ClassType is a class, e.g. `class Foo(Bar):`. A Class value appearing in
// a value (non-annotation) position is implicitly wrapped in ObjectType by
// the evaluator; ClassType itself always denotes the class object (what
// `type(x)` or a direct class reference evaluates to).
type ClassType struct {
	Name        string
	Flags       ClassFlags
	Fields      map[string]*ClassMember
	TypeParams  []*TypeVarType
	TypeArgs    []Type // non-nil once specialized
	BaseClasses []*ClassType
}

func (*ClassType) typeNode() {}

// IsSpecialBuiltIn reports whether this class is one of the typing-module
// special forms (Union, Optional, Callable, ...) whose index/call syntax is
// hand-dispatched by the evaluator rather than generically specialized.
func (c *ClassType) IsSpecialBuiltIn() bool { return c.Flags.Has(ClassSpecialBuiltIn) }

// Specialize returns a shallow clone of c with TypeArgs replaced, without
// mutating c — the "cheap clone-for-specialization" of spec.md §3.
func (c *ClassType) Specialize(args []Type) *ClassType {
	clone := *c
	clone.TypeArgs = args
	return &clone
}

// Member looks up name in c's own Fields, then each base class in
// declaration order (a simplified single-inheritance-order MRO walk).
func (c *ClassType) Member(name string) (*ClassMember, bool) {
	if m, ok := c.Fields[name]; ok {
		return m, true
	}
	for _, base := range c.BaseClasses {
		if m, ok := base.Member(name); ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubclassOf reports whether c is base or derives from it, by walking
// BaseClasses. Every class other than `object` itself implicitly derives
// from `object` (spec.md §4.G "Class construction").
func (c *ClassType) IsSubclassOf(base *ClassType) bool {
	if c == base || c.Name == base.Name {
		return true
	}
	for _, b := range c.BaseClasses {
		if b.IsSubclassOf(base) {
			return true
		}
	}
	return false
}

// ObjectType is an instance of a class.
type ObjectType struct {
	Class *ClassType
}

func (*ObjectType) typeNode() {}

// FunctionFlags are boolean properties of a Function type.
type FunctionFlags int

const (
	FuncInstance FunctionFlags = 1 << iota
	FuncClassMethod
	FuncStatic
	FuncConstructor
	FuncAsync
)

func (f FunctionFlags) Has(flag FunctionFlags) bool { return f&flag != 0 }

// ParamCategory mirrors ast.ParamCategory for the evaluated FunctionParameter.
type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarArgList
	ParamVarArgDictionary
)

// FunctionParameter is one evaluated parameter of a FunctionType.
type FunctionParameter struct {
	Category   ParamCategory
	Name       string
	Type       Type
	HasDefault bool
}

// FunctionType is a function or method signature.
type FunctionType struct {
	Flags          FunctionFlags
	Params         []FunctionParameter
	DeclaredReturn Type // nil if there is no return annotation
	InferredReturn Type // nil until the evaluator infers one
	DocString      string
}

func (*FunctionType) typeNode() {}

// EffectiveReturn returns DeclaredReturn if present, else InferredReturn,
// else Unknown.
func (f *FunctionType) EffectiveReturn() Type {
	if f.DeclaredReturn != nil {
		return f.DeclaredReturn
	}
	if f.InferredReturn != nil {
		return f.InferredReturn
	}
	return Unknown{}
}

// OverloadedFunctionType is a stack of @overload-decorated signatures
// accumulated under one name.
type OverloadedFunctionType struct {
	Overloads []*FunctionType
}

func (*OverloadedFunctionType) typeNode() {}

// PropertyType is a @property/@x.setter/@x.deleter triple.
type PropertyType struct {
	Getter  *FunctionType
	Setter  *FunctionType
	Deleter *FunctionType
}

func (*PropertyType) typeNode() {}

// ModuleMember is one exported name of a ModuleType.
type ModuleMember struct {
	Name string
	Type Type
}

// ModuleType is the type of an imported module object.
type ModuleType struct {
	Name      string
	Members   map[string]*ModuleMember
	DocString string
}

func (*ModuleType) typeNode() {}

// TupleType is a fixed-arity product type, e.g. the type of (1, "x").
type TupleType struct {
	EntryTypes []Type
	TupleClass *ClassType // the synthesized/builtin tuple class this specializes
}

func (*TupleType) typeNode() {}

// Variance is the declared variance of a TypeVar.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeVarType is a generic type parameter. Per spec.md §3, TypeVars compare
// by identity, not name — callers must never construct two *TypeVarType
// values with the same Name and expect them equal; NewTypeVar is the only
// sanctioned constructor for that reason.
type TypeVarType struct {
	Name        string
	Bound       Type   // nil if unbounded
	Constraints []Type // mutually exclusive with Bound
	Variance    Variance
}

func (*TypeVarType) typeNode() {}

// NewTypeVar allocates a fresh TypeVarType value. Two calls with the same
// name produce distinct, non-equal instances (identity, not name, is
// the comparison key - see invariant above).
func NewTypeVar(name string) *TypeVarType {
	return &TypeVarType{Name: name}
}

// UnionType is a flat, deduplicated union of alternatives (spec.md §3
// invariant: never nested, a singleton collapses, Never is absorbed away,
// Any absorbs everything). Construct only via MakeUnion.
type UnionType struct {
	Types []Type
}

func (*UnionType) typeNode() {}
