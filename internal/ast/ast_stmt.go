package ast

import "github.com/astra-lang/astracheck/internal/token"

// ParamCategory distinguishes an ordinary positional-or-keyword parameter
// from a *args/**kwargs collector, matching FunctionParameter.category in
// the specification's data model.
type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarArgList
	ParamVarArgDictionary
	ParamKeywordOnlyMarker // bare `*` separator; carries no name
	ParamPositionalOnlyMarker // bare `/` separator
)

// Param is one parameter of a function or lambda.
type Param struct {
	Tok        token.Token
	Name       string
	Category   ParamCategory
	Annotation Expression // nil if unannotated
	Default    Expression // nil if no default
}

// ExprStmt is a bare expression used as a statement (including docstrings).
type ExprStmt struct {
	Tok   token.Token
	Value Expression
}

func (n *ExprStmt) Range() token.Range { return n.Tok.Range }
func (*ExprStmt) statementNode()       {}

// AssignStmt is a (possibly chained/tuple) assignment, e.g. a = b = 1 or
// (a, b) = pair.
type AssignStmt struct {
	Tok     token.Token
	Targets []Expression
	Value   Expression
}

func (n *AssignStmt) Range() token.Range { return n.Tok.Range }
func (*AssignStmt) statementNode()       {}

// AnnAssignStmt is an annotated assignment, e.g. x: int = 1, or a bare
// annotation with no value, e.g. x: int.
type AnnAssignStmt struct {
	Tok        token.Token
	Target     Expression
	Annotation Expression
	Value      Expression // nil if there is no initializer
}

func (n *AnnAssignStmt) Range() token.Range { return n.Tok.Range }
func (*AnnAssignStmt) statementNode()       {}

// AugAssignOp identifies an augmented-assignment operator, e.g. +=.
type AugAssignOp int

const (
	AugAdd AugAssignOp = iota
	AugSub
	AugMul
	AugDiv
)

// AugAssignStmt is an augmented assignment, e.g. x += 1.
type AugAssignStmt struct {
	Tok    token.Token
	Target Expression
	Op     AugAssignOp
	Value  Expression
}

func (n *AugAssignStmt) Range() token.Range { return n.Tok.Range }
func (*AugAssignStmt) statementNode()       {}

// ReturnStmt is `return [value]`.
type ReturnStmt struct {
	Tok   token.Token
	Value Expression // nil for bare `return`
}

func (n *ReturnStmt) Range() token.Range { return n.Tok.Range }
func (*ReturnStmt) statementNode()       {}

// PassStmt is the `pass` no-op statement.
type PassStmt struct{ Tok token.Token }

func (n *PassStmt) Range() token.Range { return n.Tok.Range }
func (*PassStmt) statementNode()       {}

// BreakStmt is `break`.
type BreakStmt struct{ Tok token.Token }

func (n *BreakStmt) Range() token.Range { return n.Tok.Range }
func (*BreakStmt) statementNode()       {}

// ContinueStmt is `continue`.
type ContinueStmt struct{ Tok token.Token }

func (n *ContinueStmt) Range() token.Range { return n.Tok.Range }
func (*ContinueStmt) statementNode()       {}

// RaiseStmt is `raise [exc [from cause]]`.
type RaiseStmt struct {
	Tok   token.Token
	Exc   Expression // nil for a bare re-raise
	Cause Expression
}

func (n *RaiseStmt) Range() token.Range { return n.Tok.Range }
func (*RaiseStmt) statementNode()       {}

// AssertStmt is `assert test[, msg]`.
type AssertStmt struct {
	Tok  token.Token
	Test Expression
	Msg  Expression
}

func (n *AssertStmt) Range() token.Range { return n.Tok.Range }
func (*AssertStmt) statementNode()       {}

// DelStmt is `del target, ...`.
type DelStmt struct {
	Tok     token.Token
	Targets []Expression
}

func (n *DelStmt) Range() token.Range { return n.Tok.Range }
func (*DelStmt) statementNode()       {}

// GlobalStmt is `global name, ...`, binding each name in the module scope.
type GlobalStmt struct {
	Tok   token.Token
	Names []string
}

func (n *GlobalStmt) Range() token.Range { return n.Tok.Range }
func (*GlobalStmt) statementNode()       {}

// NonlocalStmt is `nonlocal name, ...`, binding each name in the nearest
// enclosing function scope. Illegal at module scope (spec.md invariant #12).
type NonlocalStmt struct {
	Tok   token.Token
	Names []string
}

func (n *NonlocalStmt) Range() token.Range { return n.Tok.Range }
func (*NonlocalStmt) statementNode()       {}

// IfStmt is `if test: body [elif ...] [else: orelse]`. A chained elif is
// represented as a single-statement Orelse containing another *IfStmt.
type IfStmt struct {
	Tok    token.Token
	Test   Expression
	Body   *Suite
	Orelse *Suite // nil if there is no else/elif
}

func (n *IfStmt) Range() token.Range { return n.Tok.Range }
func (*IfStmt) statementNode()       {}

// WhileStmt is `while test: body [else: orelse]`.
type WhileStmt struct {
	Tok    token.Token
	Test   Expression
	Body   *Suite
	Orelse *Suite
}

func (n *WhileStmt) Range() token.Range { return n.Tok.Range }
func (*WhileStmt) statementNode()       {}

// ForStmt is `for target in iter: body [else: orelse]`.
type ForStmt struct {
	Tok     token.Token
	Target  Expression
	Iter    Expression
	Body    *Suite
	Orelse  *Suite
	IsAsync bool
}

func (n *ForStmt) Range() token.Range { return n.Tok.Range }
func (*ForStmt) statementNode()       {}

// WithItem is one `expr [as target]` clause of a with statement.
type WithItem struct {
	ContextExpr Expression
	Target      Expression // nil if there is no `as`
}

// WithStmt is `with item, ...: body`.
type WithStmt struct {
	Tok     token.Token
	Items   []WithItem
	Body    *Suite
	IsAsync bool
}

func (n *WithStmt) Range() token.Range { return n.Tok.Range }
func (*WithStmt) statementNode()       {}

// ExceptClause is one `except [type [as name]]: body` clause.
type ExceptClause struct {
	Tok  token.Token
	Type Expression // nil for a bare except
	Name string     // empty if there is no `as name`
	Body *Suite
}

// TryStmt is `try: body except ...* [else: orelse] [finally: final]`.
type TryStmt struct {
	Tok     token.Token
	Body    *Suite
	Handlers []ExceptClause
	Orelse  *Suite
	Final   *Suite
}

func (n *TryStmt) Range() token.Range { return n.Tok.Range }
func (*TryStmt) statementNode()       {}

// Decorator is one `@expr` applied to a function or class.
type Decorator struct {
	Tok   token.Token
	Value Expression
}

// FunctionDef is a `def name(params) [-> returns]: body` statement, or a
// method when nested directly in a ClassDef's body.
type FunctionDef struct {
	Tok        token.Token
	Name       string
	Params     []*Param
	Returns    Expression // nil if unannotated
	Body       *Suite
	Decorators []Decorator
	IsAsync    bool
}

func (n *FunctionDef) Range() token.Range { return n.Tok.Range }
func (*FunctionDef) statementNode()       {}

// ClassDef is a `class Name(bases, metaclass=...): body` statement.
type ClassDef struct {
	Tok        token.Token
	Name       string
	Bases      []Expression
	Keywords   []Keyword // e.g. metaclass=ABCMeta
	Body       *Suite
	Decorators []Decorator
}

func (n *ClassDef) Range() token.Range { return n.Tok.Range }
func (*ClassDef) statementNode()       {}

// ImportAlias is one `module [as alias]` entry of an import statement, or
// one `name [as alias]` entry of a from-import.
type ImportAlias struct {
	Tok   token.Token
	Name  string // dotted module path, or bare symbol name for from-imports
	Alias string // empty if there is no `as`
}

// ImportStmt is `import module [as alias], ...`.
type ImportStmt struct {
	Tok     token.Token
	Modules []ImportAlias
}

func (n *ImportStmt) Range() token.Range { return n.Tok.Range }
func (*ImportStmt) statementNode()       {}

// ImportFromStmt is `from [dots][module] import name [as alias], ...` or,
// with Star set, `from module import *`.
type ImportFromStmt struct {
	Tok          token.Token
	LeadingDots  int // count of leading '.' before Module
	Module       string // dotted module path after the leading dots; may be empty
	Names        []ImportAlias
	Star         bool
}

func (n *ImportFromStmt) Range() token.Range { return n.Tok.Range }
func (*ImportFromStmt) statementNode()       {}
