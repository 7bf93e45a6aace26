package parser

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/token"
)

func (p *Parser) registerExpressionFns() {
	p.prefixParseFns[token.IDENT] = p.parseIdent
	p.prefixParseFns[token.INT] = p.parseIntLit
	p.prefixParseFns[token.FLOAT] = p.parseFloatLit
	p.prefixParseFns[token.STRING] = p.parseStringLit
	p.prefixParseFns[token.TRUE] = p.parseBoolLit
	p.prefixParseFns[token.FALSE] = p.parseBoolLit
	p.prefixParseFns[token.NONE] = p.parseNoneLit
	p.prefixParseFns[token.ELLIPSIS] = p.parseEllipsisLit
	p.prefixParseFns[token.LPAREN] = p.parseParenOrTuple
	p.prefixParseFns[token.LBRACKET] = p.parseListOrComprehension
	p.prefixParseFns[token.LBRACE] = p.parseSetOrDict
	p.prefixParseFns[token.MINUS] = p.parseUnary
	p.prefixParseFns[token.PLUS] = p.parseUnary
	p.prefixParseFns[token.NOT] = p.parseUnaryNot
	p.prefixParseFns[token.STAR] = p.parseStarred
	p.prefixParseFns[token.LAMBDA] = p.parseLambda
	p.prefixParseFns[token.AWAIT] = p.parseAwait
	p.prefixParseFns[token.YIELD] = p.parseYield

	p.infixParseFns[token.PLUS] = p.parseBinary
	p.infixParseFns[token.MINUS] = p.parseBinary
	p.infixParseFns[token.STAR] = p.parseBinary
	p.infixParseFns[token.SLASH] = p.parseBinary
	p.infixParseFns[token.DOUBLESLASH] = p.parseBinary
	p.infixParseFns[token.PERCENT] = p.parseBinary
	p.infixParseFns[token.DOUBLESTAR] = p.parseBinaryRightAssoc
	p.infixParseFns[token.AND] = p.parseBoolOp
	p.infixParseFns[token.OR] = p.parseBoolOp
	p.infixParseFns[token.EQ] = p.parseCompare
	p.infixParseFns[token.NOTEQ] = p.parseCompare
	p.infixParseFns[token.LT] = p.parseCompare
	p.infixParseFns[token.GT] = p.parseCompare
	p.infixParseFns[token.LTE] = p.parseCompare
	p.infixParseFns[token.GTE] = p.parseCompare
	p.infixParseFns[token.IS] = p.parseCompare
	p.infixParseFns[token.IN] = p.parseCompare
	p.infixParseFns[token.NOT] = p.parseNotIn // `not in`, registered over precNot slot
	p.infixParseFns[token.LPAREN] = p.parseCall
	p.infixParseFns[token.LBRACKET] = p.parseSubscript
	p.infixParseFns[token.DOT] = p.parseAttribute
	p.infixParseFns[token.IF] = p.parseIfExpr
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.errorf(p.curToken.Range, "expression too deeply nested")
			p.inRecursionRecovery = true
		}
		p.skipToLineEnd()
		p.inRecursionRecovery = false
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Kind)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		next := infix(left)
		if next == nil {
			return left
		}
		left = next
	}
	return left
}

func (p *Parser) parseExpressionList(end token.Kind) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(precLowest))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(precLowest))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parseIdent() ast.Expression {
	return &ast.Name{Tok: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseIntLit() ast.Expression {
	return &ast.IntLiteral{Tok: p.curToken, Value: parseIntLiteral(p.curToken.Lexeme)}
}

func (p *Parser) parseFloatLit() ast.Expression {
	return &ast.FloatLiteral{Tok: p.curToken, Value: parseFloatLiteral(p.curToken.Lexeme)}
}

func (p *Parser) parseStringLit() ast.Expression {
	return &ast.StringLiteral{Tok: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseBoolLit() ast.Expression {
	return &ast.BoolLiteral{Tok: p.curToken, Value: p.curToken.Kind == token.TRUE}
}

func (p *Parser) parseNoneLit() ast.Expression {
	return &ast.NoneLiteral{Tok: p.curToken}
}

func (p *Parser) parseEllipsisLit() ast.Expression {
	return &ast.EllipsisLiteral{Tok: p.curToken}
}

// parseParenOrTuple handles `(expr)`, `()`, `(a, b, ...)`, and generator
// expressions `(expr for x in it)`.
func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleExpr{Tok: tok}
	}
	p.nextToken()
	first := p.parseExpression(precLowest)

	if p.peekTokenIs(token.FOR) || (p.peekTokenIs(token.IDENT) && p.peekToken.Lexeme == "async" && false) {
		return p.finishComprehension(tok, ast.CompGenerator, first, nil)
	}

	if p.peekTokenIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				break
			}
			p.nextToken()
			elems = append(elems, p.parseExpression(precLowest))
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.TupleExpr{Tok: tok, Elements: elems}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

func (p *Parser) parseListOrComprehension() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListExpr{Tok: tok}
	}
	p.nextToken()
	first := p.parseExpression(precLowest)
	if p.peekTokenIs(token.FOR) {
		return p.finishComprehension(tok, ast.CompList, first, nil)
	}
	elems := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpression(precLowest))
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListExpr{Tok: tok, Elements: elems}
}

func (p *Parser) parseSetOrDict() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.DictExpr{Tok: tok}
	}
	p.nextToken()
	if p.curTokenIs(token.DOUBLESTAR) {
		p.nextToken()
		val := p.parseExpression(precLowest)
		return p.finishDict(tok, ast.DictEntry{Key: nil, Value: val})
	}
	first := p.parseExpression(precLowest)
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(precLowest)
		if p.peekTokenIs(token.FOR) {
			return p.finishComprehension(tok, ast.CompDict, first, val)
		}
		return p.finishDict(tok, ast.DictEntry{Key: first, Value: val})
	}
	if p.peekTokenIs(token.FOR) {
		return p.finishComprehension(tok, ast.CompSet, first, nil)
	}
	elems := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpression(precLowest))
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.SetExpr{Tok: tok, Elements: elems}
}

func (p *Parser) finishDict(tok token.Token, first ast.DictEntry) ast.Expression {
	entries := []ast.DictEntry{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		if p.curTokenIs(token.DOUBLESTAR) {
			p.nextToken()
			val := p.parseExpression(precLowest)
			entries = append(entries, ast.DictEntry{Key: nil, Value: val})
			continue
		}
		key := p.parseExpression(precLowest)
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(precLowest)
		entries = append(entries, ast.DictEntry{Key: key, Value: val})
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.DictExpr{Tok: tok, Entries: entries}
}

func (p *Parser) finishComprehension(tok token.Token, kind ast.ComprehensionKind, element, value ast.Expression) ast.Expression {
	var closeKind token.Kind
	switch kind {
	case ast.CompList:
		closeKind = token.RBRACKET
	case ast.CompSet, ast.CompDict:
		closeKind = token.RBRACE
	default:
		closeKind = token.RPAREN
	}
	var clauses []ast.ComprehensionClause
	for p.peekTokenIs(token.FOR) {
		p.nextToken() // consume FOR
		p.nextToken()
		targetTok := p.curToken
		target := p.parseExpression(precCompare)
		if p.peekTokenIs(token.COMMA) {
			elems := []ast.Expression{target}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parseExpression(precCompare))
			}
			target = &ast.TupleExpr{Tok: targetTok, Elements: elems}
		}
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		iter := p.parseExpression(precTernary)
		clause := ast.ComprehensionClause{Target: target, Iter: iter}
		for p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			clause.Ifs = append(clause.Ifs, p.parseExpression(precTernary))
		}
		clauses = append(clauses, clause)
	}
	if !p.expectPeek(closeKind) {
		return nil
	}
	return &ast.Comprehension{Tok: tok, Kind: kind, Element: element, Value: value, Clauses: clauses}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.curToken
	op := ast.OpPos
	if tok.Kind == token.MINUS {
		op = ast.OpNeg
	}
	p.nextToken()
	operand := p.parseExpression(precUnary)
	return &ast.UnaryExpr{Tok: tok, Op: op, Operand: operand}
}

func (p *Parser) parseUnaryNot() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(precNot)
	return &ast.UnaryExpr{Tok: tok, Op: ast.OpNot, Operand: operand}
}

func (p *Parser) parseStarred() ast.Expression {
	tok := p.curToken
	p.nextToken()
	val := p.parseExpression(precUnary)
	return &ast.StarredExpr{Tok: tok, Value: val}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.curToken
	var params []*ast.Param
	for !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			break
		}
		params = append(params, &ast.Param{Tok: p.curToken, Name: p.curToken.Lexeme})
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			params[len(params)-1].Default = p.parseExpression(precLambda)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(precLambda)
	return &ast.LambdaExpr{Tok: tok, Params: params, Body: body}
}

func (p *Parser) parseAwait() ast.Expression {
	tok := p.curToken
	p.nextToken()
	val := p.parseExpression(precUnary)
	return &ast.AwaitExpr{Tok: tok, Value: val}
}

func (p *Parser) parseYield() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.FROM) {
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(precLowest)
		return &ast.YieldExpr{Tok: tok, Value: val, From: true}
	}
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF) {
		return &ast.YieldExpr{Tok: tok}
	}
	p.nextToken()
	val := p.parseExpression(precLowest)
	return &ast.YieldExpr{Tok: tok, Value: val}
}

func binOpFor(k token.Kind) ast.BinOp {
	switch k {
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.STAR:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	case token.DOUBLESLASH:
		return ast.OpFloorDiv
	case token.PERCENT:
		return ast.OpMod
	case token.DOUBLESTAR:
		return ast.OpPow
	}
	return ast.OpAdd
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := binOpFor(tok.Kind)
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Tok: tok, Op: op, Left: left, Right: right}
}

// parseBinaryRightAssoc handles `**`, which is right-associative in Python
// semantics (`2 ** 3 ** 2 == 2 ** (3 ** 2)`).
func (p *Parser) parseBinaryRightAssoc(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(precPower - 1)
	return &ast.BinaryExpr{Tok: tok, Op: ast.OpPow, Left: left, Right: right}
}

func (p *Parser) parseBoolOp(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := ast.BoolAnd
	if tok.Kind == token.OR {
		op = ast.BoolOr
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if existing, ok := left.(*ast.BoolOpExpr); ok && existing.Op == op {
		existing.Values = append(existing.Values, right)
		return existing
	}
	return &ast.BoolOpExpr{Tok: tok, Op: op, Values: []ast.Expression{left, right}}
}

func compareOpFor(tok token.Token) ast.CompareOp {
	switch tok.Kind {
	case token.EQ:
		return ast.CmpEq
	case token.NOTEQ:
		return ast.CmpNotEq
	case token.LT:
		return ast.CmpLt
	case token.GT:
		return ast.CmpGt
	case token.LTE:
		return ast.CmpLte
	case token.GTE:
		return ast.CmpGte
	case token.IN:
		return ast.CmpIn
	case token.IS:
		return ast.CmpIs
	}
	return ast.CmpEq
}

func (p *Parser) parseCompare(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := compareOpFor(tok)
	if tok.Kind == token.IS && p.peekTokenIs(token.NOT) {
		p.nextToken()
		op = ast.CmpIsNot
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if existing, ok := left.(*ast.CompareExpr); ok {
		existing.Ops = append(existing.Ops, op)
		existing.Comparators = append(existing.Comparators, right)
		return existing
	}
	return &ast.CompareExpr{Tok: tok, Left: left, Ops: []ast.CompareOp{op}, Comparators: []ast.Expression{right}}
}

// parseNotIn handles `not in` as a comparison operator; `not` as a unary
// boolean negation is handled by the prefix function instead.
func (p *Parser) parseNotIn(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IN) {
		return left
	}
	precedence := precCompare
	p.nextToken()
	right := p.parseExpression(precedence)
	if existing, ok := left.(*ast.CompareExpr); ok {
		existing.Ops = append(existing.Ops, ast.CmpNotIn)
		existing.Comparators = append(existing.Comparators, right)
		return existing
	}
	return &ast.CompareExpr{Tok: tok, Left: left, Ops: []ast.CompareOp{ast.CmpNotIn}, Comparators: []ast.Expression{right}}
}

func (p *Parser) parseCall(fn ast.Expression) ast.Expression {
	tok := p.curToken
	call := &ast.CallExpr{Tok: tok, Func: fn}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	for {
		if p.curTokenIs(token.DOUBLESTAR) {
			p.nextToken()
			val := p.parseExpression(precLowest)
			call.Keywords = append(call.Keywords, ast.Keyword{Value: val})
		} else if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			name := p.curToken.Lexeme
			p.nextToken()
			p.nextToken()
			val := p.parseExpression(precLowest)
			call.Keywords = append(call.Keywords, ast.Keyword{Name: name, Value: val})
		} else {
			arg := p.parseExpression(precLowest)
			if p.peekTokenIs(token.FOR) {
				arg = p.finishComprehension(tok, ast.CompGenerator, arg, nil)
				call.Args = append(call.Args, arg)
				break
			}
			call.Args = append(call.Args, arg)
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseSubscript(value ast.Expression) ast.Expression {
	tok := p.curToken
	var idx []ast.Expression
	p.nextToken()
	idx = append(idx, p.parseSliceOrExpr())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		idx = append(idx, p.parseSliceOrExpr())
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.SubscriptExpr{Tok: tok, Value: value, Index: idx}
}

// parseSliceOrExpr parses a single subscript entry, which may be a bare
// expression or a `a:b:c` slice; slices are represented as a CallExpr to
// a synthetic `slice` name to avoid widening the Expression union for a
// form the evaluator treats as opaque (spec.md §4.G does not model
// slicing specially).
func (p *Parser) parseSliceOrExpr() ast.Expression {
	tok := p.curToken
	var lower, upper, step ast.Expression
	isSlice := false
	if !p.curTokenIs(token.COLON) {
		lower = p.parseExpression(precLowest)
	}
	if p.peekTokenIs(token.COLON) {
		isSlice = true
		p.nextToken()
		if !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.RBRACKET) && !p.peekTokenIs(token.COMMA) {
			p.nextToken()
			upper = p.parseExpression(precLowest)
		}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.peekTokenIs(token.RBRACKET) && !p.peekTokenIs(token.COMMA) {
				p.nextToken()
				step = p.parseExpression(precLowest)
			}
		}
	}
	if !isSlice {
		return lower
	}
	call := &ast.CallExpr{Tok: tok, Func: &ast.Name{Tok: tok, Value: "slice"}}
	for _, e := range []ast.Expression{lower, upper, step} {
		if e == nil {
			e = &ast.NoneLiteral{Tok: tok}
		}
		call.Args = append(call.Args, e)
	}
	return call
}

func (p *Parser) parseAttribute(value ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.AttributeExpr{Tok: tok, Value: value, Attr: p.curToken.Lexeme}
}

func (p *Parser) parseIfExpr(body ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	test := p.parseExpression(precTernary)
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	orelse := p.parseExpression(precTernary)
	return &ast.IfExpr{Tok: tok, Test: test, Body: body, Orelse: orelse}
}
