package evaluator

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// evalClassDef constructs (or reconstructs, on a later pass) the ClassType
// for a class statement, per spec.md §4.G "Class construction": a class
// with no explicit bases implicitly derives from object, BaseClasses
// records declaration order (standing in for a full C3 MRO), and the body
// is analyzed immediately — a class body is not independently executable,
// so unlike a function body it is walked the moment the class statement is
// reached rather than deferred to a worklist (mirrors the binder's own
// buildScopeSkeleton comment on ClassDef).
func (e *Evaluator) evalClassDef(n *ast.ClassDef, scope *symbols.Scope) *typesystem.ClassType {
	classScope := e.scopeOf[n]
	if classScope == nil {
		classScope = scope
	}

	bases := e.resolveBases(n, scope)
	for _, d := range n.Decorators {
		e.evaluate(d.Value, scope, false)
	}
	for _, kw := range n.Keywords {
		e.evaluate(kw.Value, scope, false)
	}

	cls := &typesystem.ClassType{
		Name:        n.Name,
		Fields:      map[string]*typesystem.ClassMember{},
		BaseClasses: bases,
	}

	e.analyzeStatements(n.Body.Stmts, classScope)

	for _, name := range classScope.Names() {
		sym, _ := classScope.Lookup(name)
		cls.Fields[name] = &typesystem.ClassMember{
			Name:           name,
			Type:           sym.InferredType(),
			DeclaringClass: cls,
		}
	}

	sym, _ := scope.Lookup(n.Name)
	if sym != nil {
		sym.SetTypeForSource(e.ids.IDFor(n), cls)
	}
	return cls
}

// resolveBases evaluates each base-class expression in annotation mode
// (so a bare class name is not wrapped in ObjectType) and falls back to the
// built-in `object` class when no base resolves to a known class, per
// spec.md §4.G "implicit object base".
func (e *Evaluator) resolveBases(n *ast.ClassDef, scope *symbols.Scope) []*typesystem.ClassType {
	var bases []*typesystem.ClassType
	for _, b := range n.Bases {
		t := e.evaluate(b, scope, true)
		if cls := typesystem.ClassOf(t); cls != nil && !isGenericBase(b) {
			bases = append(bases, cls)
		}
	}
	if len(bases) == 0 {
		if object := LookupBuiltinClass(e.builtins, "object"); object != nil {
			bases = append(bases, object)
		}
	}
	return bases
}

// isGenericBase reports whether b is a `Generic[T, ...]` or `Protocol[T,
// ...]` subscript: these declare type parameters rather than contributing
// a real base class to member resolution (spec.md §4.G dispatch table
// treats Generic/Protocol as special forms, not ordinary classes).
func isGenericBase(b ast.Expression) bool {
	sub, ok := b.(*ast.SubscriptExpr)
	if !ok {
		return false
	}
	name, ok := sub.Value.(*ast.Name)
	return ok && (name.Value == "Generic" || name.Value == "Protocol")
}

// functionFlagsFromDecorators derives FunctionFlags from a def's decorator
// list, per spec.md §4.G "Function construction": @staticmethod/
// @classmethod decorators and the implicit classmethod-ness of `__new__`.
// @property-family decorators set no flag here (see applyPropertyDecorator).
func functionFlagsFromDecorators(n *ast.FunctionDef, isMethod bool) typesystem.FunctionFlags {
	var flags typesystem.FunctionFlags
	if isMethod {
		flags |= typesystem.FuncInstance
	}
	if n.IsAsync {
		flags |= typesystem.FuncAsync
	}
	if n.Name == "__new__" {
		flags |= typesystem.FuncClassMethod
		flags &^= typesystem.FuncInstance
	}
	for _, d := range n.Decorators {
		switch name := decoratorName(d.Value); name {
		case "staticmethod":
			flags |= typesystem.FuncStatic
			flags &^= typesystem.FuncInstance
		case "classmethod":
			flags |= typesystem.FuncClassMethod
			flags &^= typesystem.FuncInstance
		}
	}
	if n.Name == "__init__" {
		flags |= typesystem.FuncConstructor
	}
	return flags
}

// decoratorName extracts the bare or attribute-trailing name of a decorator
// expression: `property` from `@property`, `setter` from `@x.setter`.
func decoratorName(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Name:
		return n.Value
	case *ast.AttributeExpr:
		return n.Attr
	case *ast.CallExpr:
		return decoratorName(n.Func)
	default:
		return ""
	}
}

// isPropertyDecorator reports whether d is @property, @x.setter, @x.deleter
// or @overload, the decorator family spec.md §4.G singles out for
// FunctionType/PropertyType construction instead of ordinary overwriting.
func isPropertyDecorator(d ast.Decorator) (kind string, ok bool) {
	name := decoratorName(d.Value)
	switch name {
	case "property", "setter", "deleter", "overload":
		return name, true
	default:
		return "", false
	}
}

func (e *Evaluator) evalFunctionDef(n *ast.FunctionDef, scope *symbols.Scope) typesystem.Type {
	fnScope := e.scopeOf[n]
	isMethod := scope.Kind == symbols.ScopeClass
	ft := &typesystem.FunctionType{Flags: functionFlagsFromDecorators(n, isMethod)}

	selfSkipped := false
	for i, p := range n.Params {
		if p.Annotation != nil {
			annType := e.evaluate(p.Annotation, scope, true)
			if psym, ok := fnScope.Lookup(p.Name); ok {
				psym.SetTypeForSource(e.ids.IDFor(p), annType)
			}
		} else if isMethod && i == 0 && !ft.Flags.Has(typesystem.FuncStatic) && !selfSkipped {
			selfSkipped = true
			// An unannotated self/cls is left Unknown, avoiding a
			// self-referential construction loop mid-pass; the enclosing
			// class is not substituted for it in this or any later pass.
		}
		if p.Default != nil {
			e.evaluate(p.Default, scope, false)
		}
		ft.Params = append(ft.Params, typesystem.FunctionParameter{
			Category:   typesystem.ParamCategory(p.Category),
			Name:       p.Name,
			HasDefault: p.Default != nil,
		})
	}

	for _, d := range n.Decorators {
		e.evaluate(d.Value, scope, false)
	}

	if n.Returns != nil {
		ft.DeclaredReturn = e.evaluate(n.Returns, scope, true)
	}
	if fnScope != nil {
		e.analyzeStatements(n.Body.Stmts, fnScope)
		ft.InferredReturn = fnScope.InferredReturn
	}

	var result typesystem.Type = ft
	for _, d := range n.Decorators {
		if kind, ok := isPropertyDecorator(d); ok {
			result = e.applyPropertyDecorator(scope, n.Name, kind, ft)
		}
	}

	sym, _ := scope.Lookup(n.Name)
	if sym != nil {
		sym.SetTypeForSource(e.ids.IDFor(n), result)
	}
	return result
}

// applyPropertyDecorator folds a @property/@x.setter/@x.deleter-decorated
// def into a PropertyType, merging with whatever the name's prior
// contribution already held (spec.md §4.G: the getter, setter and deleter
// of one property share a single PropertyType keyed by the property name).
func (e *Evaluator) applyPropertyDecorator(scope *symbols.Scope, name, kind string, ft *typesystem.FunctionType) typesystem.Type {
	sym, _ := scope.Lookup(name)
	prop, _ := sym.InferredType().(*typesystem.PropertyType)
	if prop == nil {
		prop = &typesystem.PropertyType{}
	}
	switch kind {
	case "property":
		prop.Getter = ft
	case "setter":
		prop.Setter = ft
	case "deleter":
		prop.Deleter = ft
	case "overload":
		// @overload returns ft as a plain FunctionType; no
		// OverloadedFunctionType is built from the overload stack.
		return ft
	}
	return prop
}
