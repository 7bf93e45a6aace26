package ast

import (
	"math/big"

	"github.com/astra-lang/astracheck/internal/token"
)

// Name is an identifier used in expression position: a bare variable
// reference, a function/class name, or (via MemberAccess) one segment of a
// supported expression used in type narrowing.
type Name struct {
	Tok   token.Token
	Value string
}

func (n *Name) Range() token.Range { return n.Tok.Range }
func (*Name) expressionNode()      {}

// IntLiteral is an integer literal, e.g. 42.
type IntLiteral struct {
	Tok   token.Token
	Value *big.Int
}

func (n *IntLiteral) Range() token.Range { return n.Tok.Range }
func (*IntLiteral) expressionNode()      {}

// FloatLiteral is a floating point literal, e.g. 3.14.
type FloatLiteral struct {
	Tok   token.Token
	Value float64
}

func (n *FloatLiteral) Range() token.Range { return n.Tok.Range }
func (*FloatLiteral) expressionNode()      {}

// StringLiteral is a string literal, e.g. "hello". IsBytes distinguishes a
// b"..." literal (built-in type `bytes`) from a plain str literal.
type StringLiteral struct {
	Tok     token.Token
	Value   string
	IsBytes bool
}

func (n *StringLiteral) Range() token.Range { return n.Tok.Range }
func (*StringLiteral) expressionNode()      {}

// BoolLiteral is True or False.
type BoolLiteral struct {
	Tok   token.Token
	Value bool
}

func (n *BoolLiteral) Range() token.Range { return n.Tok.Range }
func (*BoolLiteral) expressionNode()      {}

// NoneLiteral is the None constant.
type NoneLiteral struct{ Tok token.Token }

func (n *NoneLiteral) Range() token.Range { return n.Tok.Range }
func (*NoneLiteral) expressionNode()      {}

// EllipsisLiteral is the ... constant, used as a placeholder body and in
// Callable[..., R] annotations.
type EllipsisLiteral struct{ Tok token.Token }

func (n *EllipsisLiteral) Range() token.Range { return n.Tok.Range }
func (*EllipsisLiteral) expressionNode()      {}

// TupleExpr is a tuple display, e.g. (1, "x", True).
type TupleExpr struct {
	Tok      token.Token
	Elements []Expression
}

func (n *TupleExpr) Range() token.Range { return n.Tok.Range }
func (*TupleExpr) expressionNode()      {}

// ListExpr is a list display, e.g. [1, 2, 3].
type ListExpr struct {
	Tok      token.Token
	Elements []Expression
}

func (n *ListExpr) Range() token.Range { return n.Tok.Range }
func (*ListExpr) expressionNode()      {}

// SetExpr is a set display, e.g. {1, 2, 3}.
type SetExpr struct {
	Tok      token.Token
	Elements []Expression
}

func (n *SetExpr) Range() token.Range { return n.Tok.Range }
func (*SetExpr) expressionNode()      {}

// DictEntry is one key: value pair of a dict display.
type DictEntry struct {
	Key   Expression // nil for a **spread entry
	Value Expression
}

// DictExpr is a dict display, e.g. {"a": 1, "b": 2}.
type DictExpr struct {
	Tok     token.Token
	Entries []DictEntry
}

func (n *DictExpr) Range() token.Range { return n.Tok.Range }
func (*DictExpr) expressionNode()      {}

// BinOp identifies a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

// BinaryExpr is a binary arithmetic expression, e.g. a + b.
type BinaryExpr struct {
	Tok         token.Token
	Op          BinOp
	Left, Right Expression
}

func (n *BinaryExpr) Range() token.Range { return n.Tok.Range }
func (*BinaryExpr) expressionNode()      {}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpInvert
	OpNot
)

// UnaryExpr is a unary expression, e.g. -x or not x.
type UnaryExpr struct {
	Tok     token.Token
	Op      UnaryOp
	Operand Expression
}

func (n *UnaryExpr) Range() token.Range { return n.Tok.Range }
func (*UnaryExpr) expressionNode()      {}

// BoolOp identifies a short-circuiting boolean operator.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

// BoolOpExpr is a chain of `and`/`or` expressions, e.g. a and b and c.
type BoolOpExpr struct {
	Tok    token.Token
	Op     BoolOp
	Values []Expression
}

func (n *BoolOpExpr) Range() token.Range { return n.Tok.Range }
func (*BoolOpExpr) expressionNode()      {}

// CompareOp identifies one comparison operator in a chained comparison.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNotEq
	CmpLt
	CmpGt
	CmpLte
	CmpGte
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

// CompareExpr is a (possibly chained) comparison, e.g. a < b <= c, or the
// narrowing-relevant forms `x is None` / `x is not None`.
type CompareExpr struct {
	Tok         token.Token
	Left        Expression
	Ops         []CompareOp
	Comparators []Expression
}

func (n *CompareExpr) Range() token.Range { return n.Tok.Range }
func (*CompareExpr) expressionNode()      {}

// Keyword is a call-site keyword argument, e.g. bound=int in a call.
type Keyword struct {
	Name  string // empty for a **kwargs spread
	Value Expression
}

// CallExpr is a function/constructor call, e.g. f(1, x=2).
type CallExpr struct {
	Tok      token.Token
	Func     Expression
	Args     []Expression
	Keywords []Keyword
}

func (n *CallExpr) Range() token.Range { return n.Tok.Range }
func (*CallExpr) expressionNode()      {}

// AttributeExpr is a member access, e.g. obj.attr. Together with Name, this
// is the only expression shape that is a "supported expression" for type
// narrowing (see constraints package).
type AttributeExpr struct {
	Tok   token.Token
	Value Expression
	Attr  string
}

func (n *AttributeExpr) Range() token.Range { return n.Tok.Range }
func (*AttributeExpr) expressionNode()      {}

// SubscriptExpr is an index/subscript expression, e.g. x[0] or Dict[str, int].
type SubscriptExpr struct {
	Tok   token.Token
	Value Expression
	Index []Expression // multiple entries for a tuple-style subscript: x[a, b]
}

func (n *SubscriptExpr) Range() token.Range { return n.Tok.Range }
func (*SubscriptExpr) expressionNode()      {}

// StarredExpr is a *expr splat, used in call args, assignment targets, and
// tuple/list displays.
type StarredExpr struct {
	Tok   token.Token
	Value Expression
}

func (n *StarredExpr) Range() token.Range { return n.Tok.Range }
func (*StarredExpr) expressionNode()      {}

// LambdaExpr is an anonymous function expression. It introduces its own
// Function scope, exactly like a def, but has a single expression body.
type LambdaExpr struct {
	Tok    token.Token
	Params []*Param
	Body   Expression
}

func (n *LambdaExpr) Range() token.Range { return n.Tok.Range }
func (*LambdaExpr) expressionNode()      {}

// IfExpr is a conditional expression, e.g. a if cond else b.
type IfExpr struct {
	Tok               token.Token
	Test, Body, Orelse Expression
}

func (n *IfExpr) Range() token.Range { return n.Tok.Range }
func (*IfExpr) expressionNode()      {}

// ComprehensionClause is one `for target in iter [if cond]*` clause of a
// comprehension.
type ComprehensionClause struct {
	Target Expression
	Iter   Expression
	Ifs    []Expression
	IsAsync bool
}

// ComprehensionKind distinguishes the four comprehension display forms.
type ComprehensionKind int

const (
	CompList ComprehensionKind = iota
	CompSet
	CompDict
	CompGenerator
)

// Comprehension is a list/set/dict/generator comprehension. It introduces a
// Temporary scope for its clauses, per the symbol model.
type Comprehension struct {
	Tok     token.Token
	Kind    ComprehensionKind
	Element Expression // for dict comprehensions this is the key
	Value   Expression // dict comprehensions only: the value expression
	Clauses []ComprehensionClause
}

func (n *Comprehension) Range() token.Range { return n.Tok.Range }
func (*Comprehension) expressionNode()      {}

// AwaitExpr is `await expr`, legal only inside an async function.
type AwaitExpr struct {
	Tok   token.Token
	Value Expression
}

func (n *AwaitExpr) Range() token.Range { return n.Tok.Range }
func (*AwaitExpr) expressionNode()      {}

// YieldExpr is `yield [value]` or, if From is set, `yield from value`.
type YieldExpr struct {
	Tok    token.Token
	Value  Expression // may be nil for a bare `yield`
	From   bool
}

func (n *YieldExpr) Range() token.Range { return n.Tok.Range }
func (*YieldExpr) expressionNode()      {}
