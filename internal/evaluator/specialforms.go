// Grounded on the teacher's internal/analyzer/expressions.go call/member
// dispatch (a type-switch over the callee's resolved type) but the
// branches themselves come from spec.md §4.G: typing-module special-form
// subscripting, TypeVar/namedtuple factory calls, and member access across
// Class/Object/Module/Union receivers.
package evaluator

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// containerAliasToBuiltin maps a typing-module container special form to
// the plain builtin class it specializes, for the handful that have a real
// runtime counterpart among this evaluator's pre-populated builtin classes
// (spec.md §4.G dispatch table). Deque/Counter have no backing builtin
// class here, so their subscript falls back to Any rather than a bogus
// specialization.
var containerAliasToBuiltin = map[string]string{
	"List": "list", "Set": "set", "FrozenSet": "frozenset",
	"Dict": "dict", "DefaultDict": "dict", "ChainMap": "dict",
}

func (e *Evaluator) evalCall(n *ast.CallExpr, scope *symbols.Scope) typesystem.Type {
	if dotted, ok := dottedName(n.Func); ok {
		switch dotted {
		case "TypeVar", "typing.TypeVar":
			return e.evalTypeVarCall(n, scope)
		case "namedtuple", "collections.namedtuple":
			return e.evalNamedTupleCall(n, scope)
		case "isinstance", "issubclass":
			for _, a := range n.Args {
				e.evaluate(a, scope, false)
			}
			return e.wrapBuiltin("bool")
		}
	}

	calleeType := e.evaluate(n.Func, scope, true)
	for _, a := range n.Args {
		e.evaluate(a, scope, false)
	}
	for _, kw := range n.Keywords {
		e.evaluate(kw.Value, scope, false)
	}

	switch ct := calleeType.(type) {
	case *typesystem.ClassType:
		return &typesystem.ObjectType{Class: ct}
	case *typesystem.FunctionType:
		return ct.EffectiveReturn()
	case *typesystem.OverloadedFunctionType:
		if len(ct.Overloads) == 0 {
			return typesystem.Unknown{}
		}
		return ct.Overloads[len(ct.Overloads)-1].EffectiveReturn()
	case *typesystem.PropertyType:
		if ct.Getter != nil {
			return ct.Getter.EffectiveReturn()
		}
		return typesystem.Unknown{}
	default:
		if !typesystem.IsUnknown(calleeType) && !typesystem.IsAny(calleeType) {
			e.errorf(config.ReportCallIssue, n, "object is not callable")
		}
		return typesystem.Unknown{}
	}
}

// evalTypeVarCall synthesizes a *typesystem.TypeVarType for a
// `TypeVar("T", bound=..., covariant=...)` call, per spec.md §4.G "TypeVar
// factory synthesis". Every call allocates a fresh, distinct TypeVarType
// (spec.md §3's identity-not-name comparison rule), even if re-evaluated on
// a later pass against the same source text — callers key by source id via
// SetTypeForSource, not by the TypeVarType value, so this is safe.
func (e *Evaluator) evalTypeVarCall(n *ast.CallExpr, scope *symbols.Scope) typesystem.Type {
	name := "T"
	if len(n.Args) > 0 {
		if lit, ok := n.Args[0].(*ast.StringLiteral); ok {
			name = lit.Value
		}
	}
	tv := typesystem.NewTypeVar(name)
	for _, a := range n.Args[min(1, len(n.Args)):] {
		t := e.evaluate(a, scope, true)
		tv.Constraints = append(tv.Constraints, t)
	}
	for _, kw := range n.Keywords {
		switch kw.Name {
		case "bound":
			tv.Bound = e.evaluate(kw.Value, scope, true)
		case "covariant":
			if lit, ok := kw.Value.(*ast.BoolLiteral); ok && lit.Value {
				tv.Variance = typesystem.Covariant
			}
		case "contravariant":
			if lit, ok := kw.Value.(*ast.BoolLiteral); ok && lit.Value {
				tv.Variance = typesystem.Contravariant
			}
		default:
			e.evaluate(kw.Value, scope, false)
		}
	}
	return tv
}

// evalNamedTupleCall synthesizes a tuple-derived class for
// `namedtuple("P", ["x", "y"])` / `namedtuple("P", "x y")`, per spec.md
// §4.G "named-tuple factory synthesis": the class gets a generated
// __new__ whose parameter list mirrors each field (no __init__ is
// generated), plus keys/items/__len__ members, so `P(1, 2).z` reports
// `"z" is not a known member`.
func (e *Evaluator) evalNamedTupleCall(n *ast.CallExpr, scope *symbols.Scope) typesystem.Type {
	name := "namedtuple"
	if len(n.Args) > 0 {
		if lit, ok := n.Args[0].(*ast.StringLiteral); ok {
			name = lit.Value
		}
	}
	var fields []string
	if len(n.Args) > 1 {
		fields = namedTupleFields(n.Args[1])
	}
	for _, a := range n.Args {
		e.evaluate(a, scope, false)
	}

	tupleBase := LookupBuiltinClass(e.builtins, "tuple")
	cls := &typesystem.ClassType{Name: name, Fields: map[string]*typesystem.ClassMember{}}
	if tupleBase != nil {
		cls.BaseClasses = []*typesystem.ClassType{tupleBase}
	}

	var ctorParams []typesystem.FunctionParameter
	for _, f := range fields {
		cls.Fields[f] = &typesystem.ClassMember{Name: f, Type: typesystem.Unknown{}, DeclaringClass: cls}
		ctorParams = append(ctorParams, typesystem.FunctionParameter{Category: typesystem.ParamSimple, Name: f})
	}
	ctorReturn := &typesystem.ObjectType{Class: cls}
	cls.Fields["__new__"] = &typesystem.ClassMember{
		Name:           "__new__",
		Type:           &typesystem.FunctionType{Flags: typesystem.FuncClassMethod, Params: ctorParams, DeclaredReturn: ctorReturn},
		DeclaringClass: cls,
	}
	cls.Fields["keys"] = &typesystem.ClassMember{
		Name:           "keys",
		Type:           &typesystem.FunctionType{Flags: typesystem.FuncInstance, DeclaredReturn: e.wrapBuiltin("list")},
		DeclaringClass: cls,
	}
	cls.Fields["items"] = &typesystem.ClassMember{
		Name:           "items",
		Type:           &typesystem.FunctionType{Flags: typesystem.FuncInstance, DeclaredReturn: e.wrapBuiltin("list")},
		DeclaringClass: cls,
	}
	cls.Fields["__len__"] = &typesystem.ClassMember{
		Name:           "__len__",
		Type:           &typesystem.FunctionType{Flags: typesystem.FuncInstance, DeclaredReturn: e.wrapBuiltin("int")},
		DeclaringClass: cls,
	}

	sym, _, _ := scope.LookUpSymbolRecursive(name)
	if sym != nil {
		sym.SetTypeForSource(e.ids.IDFor(n), cls)
	}
	return cls
}

func namedTupleFields(arg ast.Expression) []string {
	switch a := arg.(type) {
	case *ast.ListExpr:
		return stringElements(a.Elements)
	case *ast.TupleExpr:
		return stringElements(a.Elements)
	case *ast.StringLiteral:
		return splitFieldNames(a.Value)
	default:
		return nil
	}
}

func stringElements(elements []ast.Expression) []string {
	var out []string
	for _, el := range elements {
		if lit, ok := el.(*ast.StringLiteral); ok {
			out = append(out, lit.Value)
		}
	}
	return out
}

func splitFieldNames(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		isSep := r == ' ' || r == ','
		switch {
		case !isSep && start == -1:
			start = i
		case isSep && start != -1:
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		out = append(out, s[start:])
	}
	return out
}

// evalAttribute implements spec.md §4.G member-access lookup: for each
// alternative of base's (possibly unioned) type, find the first class
// whose MRO declares the attribute. A receiver that includes None among
// its alternatives gets reportOptionalMemberAccess, not an outright
// failure, since the non-None alternatives may still resolve the member.
func (e *Evaluator) evalAttribute(n *ast.AttributeExpr, scope *symbols.Scope, annotation bool) typesystem.Type {
	base := e.evaluate(n.Value, scope, true)

	if mod, ok := base.(*typesystem.ModuleType); ok {
		if mod.Members != nil {
			if m, ok := mod.Members[n.Attr]; ok {
				return m.Type
			}
		}
		e.errorf(config.ReportGeneralTypeIssues, n, "%q is not a known member of module %q", n.Attr, mod.Name)
		return typesystem.Unknown{}
	}

	if typesystem.ContainsNone(base) && !typesystem.IsNone(base) {
		e.errorf(config.ReportOptionalMemberAccess, n, "%q is possibly accessed on None", n.Attr)
	}

	for _, alt := range typesystem.Alternatives(base) {
		cls := typesystem.ClassOf(alt)
		if cls == nil {
			continue
		}
		if m, ok := cls.Member(n.Attr); ok {
			return e.memberAccessResult(m, annotation)
		}
	}

	if !typesystem.IsUnknown(base) && !typesystem.IsAny(base) && !typesystem.IsNone(base) {
		e.errorf(config.ReportGeneralTypeIssues, n, "%q is not a known member", n.Attr)
	}
	return typesystem.Unknown{}
}

func (e *Evaluator) memberAccessResult(m *typesystem.ClassMember, annotation bool) typesystem.Type {
	switch t := m.Type.(type) {
	case *typesystem.PropertyType:
		if t.Getter != nil {
			return t.Getter.EffectiveReturn()
		}
		return typesystem.Unknown{}
	case *typesystem.ClassType:
		if !annotation {
			return &typesystem.ObjectType{Class: t}
		}
		return t
	default:
		return m.Type
	}
}

// evalSubscript implements spec.md §4.G's "subscript dispatch on
// SpecialBuiltIn-flagged classes vs. ordinary-class specialization": a
// typing special form (Optional[int], Callable[[int], str], ...) is hand-
// evaluated, while subscripting an ordinary generic class clones it with
// TypeArgs filled in (ClassType.Specialize).
func (e *Evaluator) evalSubscript(n *ast.SubscriptExpr, scope *symbols.Scope, annotation bool) typesystem.Type {
	base := e.evaluate(n.Value, scope, true)
	cls := typesystem.ClassOf(base)

	if cls != nil && cls.IsSpecialBuiltIn() {
		return e.evalSpecialFormSubscript(cls, n, scope, annotation)
	}

	if cls != nil {
		args := make([]typesystem.Type, len(n.Index))
		for i, idx := range n.Index {
			args[i] = e.evaluate(idx, scope, true)
		}
		specialized := cls.Specialize(args)
		if !annotation {
			return &typesystem.ObjectType{Class: specialized}
		}
		return specialized
	}

	for _, idx := range n.Index {
		e.evaluate(idx, scope, false)
	}
	return typesystem.Unknown{}
}

func (e *Evaluator) evalSpecialFormSubscript(cls *typesystem.ClassType, n *ast.SubscriptExpr, scope *symbols.Scope, annotation bool) typesystem.Type {
	switch cls.Name {
	case "Optional":
		if len(n.Index) == 1 {
			return typesystem.MakeUnion(e.evaluate(n.Index[0], scope, true), typesystem.NoneType{})
		}
	case "Union":
		args := make([]typesystem.Type, len(n.Index))
		for i, idx := range n.Index {
			args[i] = e.evaluate(idx, scope, true)
		}
		return typesystem.MakeUnion(args...)
	case "Type":
		if len(n.Index) == 1 {
			if c := typesystem.ClassOf(e.evaluate(n.Index[0], scope, true)); c != nil {
				return c
			}
		}
	case "ClassVar", "Final":
		if len(n.Index) == 1 {
			return e.evaluate(n.Index[0], scope, annotation)
		}
	case "Literal":
		for _, idx := range n.Index {
			e.evaluate(idx, scope, false)
		}
		return typesystem.Unknown{}
	case "Callable":
		return e.evalCallableSubscript(n, scope)
	case "Tuple":
		args := make([]typesystem.Type, len(n.Index))
		for i, idx := range n.Index {
			args[i] = e.evaluate(idx, scope, true)
		}
		return &typesystem.TupleType{EntryTypes: args}
	case "Generic", "Protocol":
		for _, idx := range n.Index {
			e.evaluate(idx, scope, true)
		}
		return typesystem.AnyType{}
	}

	if builtinName, ok := containerAliasToBuiltin[cls.Name]; ok {
		builtin := LookupBuiltinClass(e.builtins, builtinName)
		if builtin == nil {
			return typesystem.Unknown{}
		}
		args := make([]typesystem.Type, len(n.Index))
		for i, idx := range n.Index {
			args[i] = e.evaluate(idx, scope, true)
		}
		specialized := builtin.Specialize(args)
		if !annotation {
			return &typesystem.ObjectType{Class: specialized}
		}
		return specialized
	}

	// Deque/Counter and anything else without a backing builtin class: no
	// stub is modeled, so fall back to Any rather than fabricate a class.
	for _, idx := range n.Index {
		e.evaluate(idx, scope, true)
	}
	return typesystem.AnyType{}
}

func (e *Evaluator) evalCallableSubscript(n *ast.SubscriptExpr, scope *symbols.Scope) typesystem.Type {
	ft := &typesystem.FunctionType{Flags: typesystem.FuncInstance}
	if len(n.Index) != 2 {
		return ft
	}
	if lst, ok := n.Index[0].(*ast.ListExpr); ok {
		for _, p := range lst.Elements {
			pt := e.evaluate(p, scope, true)
			ft.Params = append(ft.Params, typesystem.FunctionParameter{Category: typesystem.ParamSimple, Type: pt})
		}
	} else {
		e.evaluate(n.Index[0], scope, true)
	}
	ft.DeclaredReturn = e.evaluate(n.Index[1], scope, true)
	return ft
}
