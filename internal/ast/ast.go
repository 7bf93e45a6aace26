// Package ast defines the parse-tree node types that the core consumes.
// Nodes are plain Go structs; per design note 9 of the specification this
// core keys its side-tables (scopes, types, declarations) by node identity
// rather than mutating the tree, so Node values are never copied after
// construction and are always passed around as pointers.
package ast

import "github.com/astra-lang/astracheck/internal/token"

// Node is the base interface implemented by every parse-tree node.
type Node interface {
	Range() token.Range
}

// Statement is a Node that appears in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// Module is the root node of a single parsed source file.
type Module struct {
	Path string
	Body []Statement
	Tok  token.Token // synthetic token at offset 0, for Range()
}

func (m *Module) Range() token.Range { return m.Tok.Range }

// Suite is a block of statements introduced by a colon + indent, e.g. the
// body of a function, class, if, for, while, with, or try clause.
type Suite struct {
	Tok   token.Token
	Stmts []Statement
}

func (s *Suite) Range() token.Range { return s.Tok.Range }
