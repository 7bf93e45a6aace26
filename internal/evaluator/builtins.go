package evaluator

import (
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// builtinClassNames lists the plain value classes every program can reference
// without an import, per spec.md §4.G's class-construction rules applied to
// the built-in scope ("classFlags including BuiltIn when inside the
// built-in ... stub").
var builtinClassNames = []string{"object", "int", "float", "bool", "str", "bytes", "list", "dict", "set", "tuple", "frozenset"}

// specialFormNames are the typing-module forms the evaluator hand-dispatches
// on index/call rather than generically specializing (spec.md §4.G dispatch
// table).
var specialFormNames = []string{
	"Callable", "Dict", "List", "Tuple", "Union", "Optional", "ClassVar",
	"Generic", "Protocol", "Type", "ChainMap", "Deque", "FrozenSet", "Set",
	"Counter", "Final", "Literal", "DefaultDict",
}

// NewBuiltinScope constructs the built-in scope pre-populated with the
// plain value classes and the typing special forms, following the binder's
// own convention of a BuiltInDeclaration per pre-populated name (spec.md
// §4.C "Built-in scope is pre-populated").
func NewBuiltinScope(ids *symbols.SourceIDAllocator) *symbols.Scope {
	scope := symbols.NewScope(symbols.ScopeBuiltIn, nil)
	object := &typesystem.ClassType{Name: "object", Flags: typesystem.ClassBuiltIn, Fields: map[string]*typesystem.ClassMember{}}
	declareBuiltinClass(scope, ids, object)

	for _, name := range builtinClassNames {
		if name == "object" {
			continue
		}
		cls := &typesystem.ClassType{
			Name:        name,
			Flags:       typesystem.ClassBuiltIn,
			Fields:      map[string]*typesystem.ClassMember{},
			BaseClasses: []*typesystem.ClassType{object},
		}
		declareBuiltinClass(scope, ids, cls)
	}

	for _, name := range specialFormNames {
		cls := &typesystem.ClassType{
			Name:  name,
			Flags: typesystem.ClassBuiltIn | typesystem.ClassSpecialBuiltIn,
		}
		declareBuiltinClass(scope, ids, cls)
	}

	return scope
}

func declareBuiltinClass(scope *symbols.Scope, ids *symbols.SourceIDAllocator, cls *typesystem.ClassType) {
	sym := scope.Declare(cls.Name)
	sym.AddDeclaration(symbols.BuiltInDeclaration{Name: cls.Name})
	sym.SetTypeForSource(ids.IDFor(cls), cls)
}

// LookupBuiltinClass finds a pre-populated class by name directly in the
// built-in scope (not a recursive walk — callers already hold the chain's
// root).
func LookupBuiltinClass(builtins *symbols.Scope, name string) *typesystem.ClassType {
	sym, ok := builtins.Lookup(name)
	if !ok {
		return nil
	}
	if cls, ok := sym.InferredType().(*typesystem.ClassType); ok {
		return cls
	}
	return nil
}
