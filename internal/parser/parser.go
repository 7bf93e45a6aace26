// Package parser builds the internal/ast parse tree from a token stream.
// Grounded on the teacher's internal/parser/processor.go: a Pratt parser
// driven by curToken/peekToken, prefix/infix function tables keyed by token
// kind, a recursion-depth guard against pathological input, and
// accumulate-and-continue error recovery so one malformed statement doesn't
// abort the whole file. The teacher's grammar is brace-delimited and flat;
// this one additionally threads INDENT/DEDENT tokens through every
// compound-statement body (Suite) parse.
package parser

import (
	"math/big"
	"strconv"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/lexer"
	"github.com/astra-lang/astracheck/internal/token"
)

// MaxRecursionDepth bounds recursive-descent nesting so adversarial/corrupt
// input fails fast with a diagnostic rather than overflowing the goroutine
// stack.
const MaxRecursionDepth = 200

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence levels, lowest to highest.
const (
	precLowest int = iota
	precLambda
	precTernary // if/else conditional expression
	precOr
	precAnd
	precNot
	precCompare // ==, !=, <, >, in, is, etc (chainable)
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precUnary
	precPower
	precCall // call, subscript, attribute
)

var precedences = map[token.Kind]int{
	token.OR:         precOr,
	token.AND:        precAnd,
	token.NOT:        precCompare, // only reached as infix in `not in`; unary `not` recurses directly
	token.EQ:         precCompare,
	token.NOTEQ:      precCompare,
	token.LT:         precCompare,
	token.GT:         precCompare,
	token.LTE:        precCompare,
	token.GTE:        precCompare,
	token.IS:         precCompare,
	token.IN:         precCompare,
	token.PLUS:       precAdd,
	token.MINUS:      precAdd,
	token.STAR:       precMul,
	token.SLASH:      precMul,
	token.DOUBLESLASH: precMul,
	token.PERCENT:    precMul,
	token.DOUBLESTAR:  precPower,
	token.LPAREN:     precCall,
	token.LBRACKET:   precCall,
	token.DOT:        precCall,
	token.IF:         precTernary, // ternary `a if cond else b`
}

// Parser holds the state of a single-file parse.
type Parser struct {
	toks []token.Token
	pos  int

	curToken  token.Token
	peekToken token.Token

	sink *diagnostics.Sink
	file string

	depth               int
	inRecursionRecovery bool

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn
}

// New constructs a parser over already-lexed tokens.
func New(toks []token.Token, file string, sink *diagnostics.Sink) *Parser {
	p := &Parser{toks: toks, file: file, sink: sink}
	p.prefixParseFns = make(map[token.Kind]prefixParseFn)
	p.infixParseFns = make(map[token.Kind]infixParseFn)
	p.registerExpressionFns()
	p.nextToken()
	p.nextToken()
	return p
}

// ParseFile lexes and parses a complete source file.
func ParseFile(path, src string, sink *diagnostics.Sink) *ast.Module {
	toks := lexer.Tokenize(src)
	p := New(toks, path, sink)
	return p.ParseModule()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.toks) {
		p.peekToken = p.toks[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Kind: token.EOF}
	}
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(want token.Kind) {
	p.errorf(p.peekToken.Range, "expected %s, got %s", want, p.peekToken.Kind)
}

func (p *Parser) errorf(rng token.Range, format string, args ...any) {
	p.sink.Report(diagnostics.Error, "syntax-error", p.file, rng, format, args...)
}

func (p *Parser) noPrefixParseFnError(k token.Kind) {
	p.errorf(p.curToken.Range, "unexpected token %s", k)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Kind]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Kind]; ok {
		return pr
	}
	return precLowest
}

// skipToLineEnd recovers from a malformed statement by discarding tokens up
// to the next NEWLINE/DEDENT/EOF.
func (p *Parser) skipToLineEnd() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseModule parses an entire file's top-level statement sequence.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{Path: p.file, Tok: p.curToken}
	p.skipNewlines()
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Body = append(mod.Body, stmt)
		}
		p.nextToken()
		p.skipNewlines()
	}
	return mod
}

func parseIntLiteral(lexeme string) *big.Int {
	return lexer.ParseIntLiteral(lexeme)
}

func parseFloatLiteral(lexeme string) float64 {
	f, _ := strconv.ParseFloat(lexeme, 64)
	return f
}
