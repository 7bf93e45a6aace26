package typesystem

import "strings"

func (Unknown) String() string         { return "Unknown" }
func (Unbound) String() string         { return "Unbound" }
func (AnyType) String() string         { return "Any" }
func (NoneType) String() string        { return "None" }
func (NeverType) String() string       { return "Never" }
func (EllipsisTypeVal) String() string { return "..." }

func (c *ClassType) String() string {
	if len(c.TypeArgs) == 0 {
		return "type[" + c.Name + "]"
	}
	parts := make([]string, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		parts[i] = a.String()
	}
	return "type[" + c.Name + "[" + strings.Join(parts, ", ") + "]]"
}

func (o *ObjectType) String() string {
	if o.Class == nil {
		return "Unknown"
	}
	if len(o.Class.TypeArgs) == 0 {
		return o.Class.Name
	}
	parts := make([]string, len(o.Class.TypeArgs))
	for i, a := range o.Class.TypeArgs {
		parts[i] = a.String()
	}
	return o.Class.Name + "[" + strings.Join(parts, ", ") + "]"
}

func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		prefix := ""
		switch p.Category {
		case ParamVarArgList:
			prefix = "*"
		case ParamVarArgDictionary:
			prefix = "**"
		}
		typ := "Unknown"
		if p.Type != nil {
			typ = p.Type.String()
		}
		parts[i] = prefix + p.Name + ": " + typ
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.EffectiveReturn().String()
}

func (o *OverloadedFunctionType) String() string {
	parts := make([]string, len(o.Overloads))
	for i, f := range o.Overloads {
		parts[i] = f.String()
	}
	return "overload(" + strings.Join(parts, " | ") + ")"
}

func (p *PropertyType) String() string {
	if p.Getter != nil {
		return "property[" + p.Getter.EffectiveReturn().String() + "]"
	}
	return "property[Unknown]"
}

func (m *ModuleType) String() string { return "module[" + m.Name + "]" }

func (t *TupleType) String() string {
	parts := make([]string, len(t.EntryTypes))
	for i, e := range t.EntryTypes {
		parts[i] = e.String()
	}
	return "tuple[" + strings.Join(parts, ", ") + "]"
}

func (v *TypeVarType) String() string { return v.Name }

func (u *UnionType) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
