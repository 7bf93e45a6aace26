package parser

import (
	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor(false)
	case token.ASYNC:
		return p.parseAsync()
	case token.DEF:
		return p.parseFunctionDef(nil, false)
	case token.CLASS:
		return p.parseClassDef(nil)
	case token.WITH:
		return p.parseWith(false)
	case token.TRY:
		return p.parseTry()
	case token.RETURN:
		return p.parseReturn()
	case token.PASS:
		s := &ast.PassStmt{Tok: p.curToken}
		p.endSimpleStatement()
		return s
	case token.BREAK:
		s := &ast.BreakStmt{Tok: p.curToken}
		p.endSimpleStatement()
		return s
	case token.CONTINUE:
		s := &ast.ContinueStmt{Tok: p.curToken}
		p.endSimpleStatement()
		return s
	case token.RAISE:
		return p.parseRaise()
	case token.ASSERT:
		return p.parseAssert()
	case token.DEL:
		return p.parseDel()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.NONLOCAL:
		return p.parseNonlocal()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseImportFrom()
	case token.AT:
		return p.parseDecorated()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// endSimpleStatement consumes an optional trailing `;`-separated statement
// list boundary; the caller is left positioned so the outer loop's
// p.nextToken() (via skipNewlines in ParseModule/parseSuite) advances past
// the terminating NEWLINE.
func (p *Parser) endSimpleStatement() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// parseSuite parses a compound statement's body: either an indented block
// (the common case) or a single-line simple-statement body (`if x: pass`).
// Expects curToken to be the COLON that introduces the suite.
func (p *Parser) parseSuite() *ast.Suite {
	tok := p.curToken
	suite := &ast.Suite{Tok: tok}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if !p.curTokenIs(token.INDENT) {
			p.errorf(p.curToken.Range, "expected an indented block")
			return suite
		}
		p.nextToken()
		for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
			if stmt := p.parseStatement(); stmt != nil {
				suite.Stmts = append(suite.Stmts, stmt)
			}
			p.nextToken()
			p.skipNewlines()
		}
		return suite
	}
	// single-line suite: `if x: a; b`
	p.nextToken()
	for {
		if stmt := p.parseStatement(); stmt != nil {
			suite.Stmts = append(suite.Stmts, stmt)
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return suite
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.curToken
	p.nextToken()
	test := p.parseExpression(precLowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	stmt := &ast.IfStmt{Tok: tok, Test: test, Body: body}
	p.skipNewlines()
	if p.peekTokenIs(token.ELIF) {
		p.nextToken()
		elifStmt := p.parseIf()
		stmt.Orelse = &ast.Suite{Tok: p.curToken, Stmts: []ast.Statement{elifStmt}}
		return stmt
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return stmt
		}
		stmt.Orelse = p.parseSuite()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.curToken
	p.nextToken()
	test := p.parseExpression(precLowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	stmt := &ast.WhileStmt{Tok: tok, Test: test, Body: body}
	p.skipNewlines()
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return stmt
		}
		stmt.Orelse = p.parseSuite()
	}
	return stmt
}

func (p *Parser) parseFor(isAsync bool) ast.Statement {
	tok := p.curToken
	p.nextToken()
	target := p.parseExpression(precCompare)
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iter := p.parseExpression(precLowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	stmt := &ast.ForStmt{Tok: tok, Target: target, Iter: iter, Body: body, IsAsync: isAsync}
	p.skipNewlines()
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return stmt
		}
		stmt.Orelse = p.parseSuite()
	}
	return stmt
}

func (p *Parser) parseAsync() ast.Statement {
	p.nextToken()
	switch p.curToken.Kind {
	case token.DEF:
		return p.parseFunctionDef(nil, true)
	case token.FOR:
		return p.parseFor(true)
	case token.WITH:
		return p.parseWith(true)
	default:
		p.errorf(p.curToken.Range, "expected def/for/with after async")
		return nil
	}
}

func (p *Parser) parseWith(isAsync bool) ast.Statement {
	tok := p.curToken
	p.nextToken()
	var items []ast.WithItem
	for {
		ctx := p.parseExpression(precTernary)
		item := ast.WithItem{ContextExpr: ctx}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			p.nextToken()
			item.Target = p.parseExpression(precCompare)
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	return &ast.WithStmt{Tok: tok, Items: items, Body: body, IsAsync: isAsync}
}

func (p *Parser) parseTry() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	stmt := &ast.TryStmt{Tok: tok, Body: body}
	p.skipNewlines()
	for p.peekTokenIs(token.EXCEPT) {
		p.nextToken()
		clauseTok := p.curToken
		clause := ast.ExceptClause{Tok: clauseTok}
		if !p.peekTokenIs(token.COLON) {
			p.nextToken()
			clause.Type = p.parseExpression(precLowest)
			if p.peekTokenIs(token.AS) {
				p.nextToken()
				if p.expectPeek(token.IDENT) {
					clause.Name = p.curToken.Lexeme
				}
			}
		}
		if !p.expectPeek(token.COLON) {
			return stmt
		}
		clause.Body = p.parseSuite()
		stmt.Handlers = append(stmt.Handlers, clause)
		p.skipNewlines()
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.expectPeek(token.COLON) {
			stmt.Orelse = p.parseSuite()
			p.skipNewlines()
		}
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if p.expectPeek(token.COLON) {
			stmt.Final = p.parseSuite()
		}
	}
	return stmt
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		param := p.parseParam()
		if param != nil {
			params = append(params, param)
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	tok := p.curToken
	if p.curTokenIs(token.STAR) {
		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN) {
			return &ast.Param{Tok: tok, Category: ast.ParamKeywordOnlyMarker}
		}
		p.nextToken()
		name := p.curToken.Lexeme
		return &ast.Param{Tok: tok, Name: name, Category: ast.ParamVarArgList}
	}
	if p.curTokenIs(token.DOUBLESTAR) {
		p.nextToken()
		return &ast.Param{Tok: tok, Name: p.curToken.Lexeme, Category: ast.ParamVarArgDictionary}
	}
	if p.curTokenIs(token.SLASH) {
		return &ast.Param{Tok: tok, Category: ast.ParamPositionalOnlyMarker}
	}
	param := &ast.Param{Tok: tok, Name: p.curToken.Lexeme, Category: ast.ParamSimple}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Annotation = p.parseExpression(precTernary)
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(precTernary)
	}
	return param
}

func (p *Parser) parseFunctionDef(decorators []ast.Decorator, isAsync bool) ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	var returns ast.Expression
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		returns = p.parseExpression(precTernary)
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	return &ast.FunctionDef{Tok: tok, Name: name, Params: params, Returns: returns, Body: body, Decorators: decorators, IsAsync: isAsync}
}

func (p *Parser) parseClassDef(decorators []ast.Decorator) ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	var bases []ast.Expression
	var keywords []ast.Keyword
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			for {
				if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
					kwName := p.curToken.Lexeme
					p.nextToken()
					p.nextToken()
					keywords = append(keywords, ast.Keyword{Name: kwName, Value: p.parseExpression(precLowest)})
				} else {
					bases = append(bases, p.parseExpression(precLowest))
				}
				if !p.peekTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
				p.nextToken()
			}
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseSuite()
	return &ast.ClassDef{Tok: tok, Name: name, Bases: bases, Keywords: keywords, Body: body, Decorators: decorators}
}

func (p *Parser) parseDecorated() ast.Statement {
	var decorators []ast.Decorator
	for p.curTokenIs(token.AT) {
		tok := p.curToken
		p.nextToken()
		expr := p.parseExpression(precLowest)
		decorators = append(decorators, ast.Decorator{Tok: tok, Value: expr})
		p.nextToken()
		p.skipNewlines()
	}
	if p.curTokenIs(token.ASYNC) {
		p.nextToken()
		return p.parseFunctionDef(decorators, true)
	}
	if p.curTokenIs(token.CLASS) {
		return p.parseClassDef(decorators)
	}
	return p.parseFunctionDef(decorators, false)
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.curToken
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.EOF) {
		p.endSimpleStatement()
		return &ast.ReturnStmt{Tok: tok}
	}
	p.nextToken()
	val := p.parseExpression(precLowest)
	p.endSimpleStatement()
	return &ast.ReturnStmt{Tok: tok, Value: val}
}

func (p *Parser) parseRaise() ast.Statement {
	tok := p.curToken
	stmt := &ast.RaiseStmt{Tok: tok}
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF) {
		p.endSimpleStatement()
		return stmt
	}
	p.nextToken()
	stmt.Exc = p.parseExpression(precLowest)
	if p.peekTokenIs(token.FROM) {
		p.nextToken()
		p.nextToken()
		stmt.Cause = p.parseExpression(precLowest)
	}
	p.endSimpleStatement()
	return stmt
}

func (p *Parser) parseAssert() ast.Statement {
	tok := p.curToken
	p.nextToken()
	test := p.parseExpression(precTernary)
	stmt := &ast.AssertStmt{Tok: tok, Test: test}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		stmt.Msg = p.parseExpression(precLowest)
	}
	p.endSimpleStatement()
	return stmt
}

func (p *Parser) parseDel() ast.Statement {
	tok := p.curToken
	p.nextToken()
	targets := []ast.Expression{p.parseExpression(precLowest)}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		targets = append(targets, p.parseExpression(precLowest))
	}
	p.endSimpleStatement()
	return &ast.DelStmt{Tok: tok, Targets: targets}
}

func (p *Parser) parseGlobal() ast.Statement {
	tok := p.curToken
	names := p.parseNameList()
	p.endSimpleStatement()
	return &ast.GlobalStmt{Tok: tok, Names: names}
}

func (p *Parser) parseNonlocal() ast.Statement {
	tok := p.curToken
	names := p.parseNameList()
	p.endSimpleStatement()
	return &ast.NonlocalStmt{Tok: tok, Names: names}
}

func (p *Parser) parseNameList() []string {
	var names []string
	if !p.expectPeek(token.IDENT) {
		return names
	}
	names = append(names, p.curToken.Lexeme)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			break
		}
		names = append(names, p.curToken.Lexeme)
	}
	return names
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.curToken
	var modules []ast.ImportAlias
	for {
		if !p.expectPeek(token.IDENT) {
			break
		}
		alias := ast.ImportAlias{Tok: p.curToken, Name: p.curToken.Lexeme}
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				break
			}
			alias.Name += "." + p.curToken.Lexeme
		}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if p.expectPeek(token.IDENT) {
				alias.Alias = p.curToken.Lexeme
			}
		}
		modules = append(modules, alias)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.endSimpleStatement()
	return &ast.ImportStmt{Tok: tok, Modules: modules}
}

func (p *Parser) parseImportFrom() ast.Statement {
	tok := p.curToken
	leadingDots := 0
	for p.peekTokenIs(token.DOT) || p.peekTokenIs(token.ELLIPSIS) {
		if p.peekTokenIs(token.ELLIPSIS) {
			leadingDots += 3
		} else {
			leadingDots++
		}
		p.nextToken()
	}
	var module string
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		module = p.curToken.Lexeme
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				break
			}
			module += "." + p.curToken.Lexeme
		}
	}
	if !p.expectPeek(token.IMPORT) {
		return nil
	}
	stmt := &ast.ImportFromStmt{Tok: tok, LeadingDots: leadingDots, Module: module}
	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		stmt.Star = true
		p.endSimpleStatement()
		return stmt
	}
	wrapped := p.peekTokenIs(token.LPAREN)
	if wrapped {
		p.nextToken()
	}
	for {
		if !p.expectPeek(token.IDENT) {
			break
		}
		alias := ast.ImportAlias{Tok: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if p.expectPeek(token.IDENT) {
				alias.Alias = p.curToken.Lexeme
			}
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if wrapped && p.peekTokenIs(token.RPAREN) {
			break
		}
	}
	if wrapped {
		p.expectPeek(token.RPAREN)
	}
	p.endSimpleStatement()
	return stmt
}

// parseExprOrAssignStatement covers expression statements, simple/chained
// assignment, annotated assignment, and augmented assignment, which all
// begin with an expression and are only disambiguated by what follows.
func (p *Parser) parseExprOrAssignStatement() ast.Statement {
	tok := p.curToken
	// exprList parses `a` or a bare tuple `a, b, ...` starting at curToken.
	exprList := func() ast.Expression {
		t := p.curToken
		e := p.parseExpression(precLowest)
		if !p.peekTokenIs(token.COMMA) {
			return e
		}
		elems := []ast.Expression{e}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(precLowest))
		}
		return &ast.TupleExpr{Tok: t, Elements: elems}
	}
	first := exprList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		annotation := p.parseExpression(precTernary)
		stmt := &ast.AnnAssignStmt{Tok: tok, Target: first, Annotation: annotation}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			stmt.Value = p.parseExpression(precLowest)
		}
		p.endSimpleStatement()
		return stmt
	}

	if augOp, ok := augAssignOp(p.peekToken.Kind); ok {
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(precLowest)
		p.endSimpleStatement()
		return &ast.AugAssignStmt{Tok: tok, Target: first, Op: augOp, Value: val}
	}

	if p.peekTokenIs(token.ASSIGN) {
		targets := []ast.Expression{first}
		var value ast.Expression
		for p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value = exprList()
			if p.peekTokenIs(token.ASSIGN) {
				targets = append(targets, value)
			}
		}
		p.endSimpleStatement()
		return &ast.AssignStmt{Tok: tok, Targets: targets, Value: value}
	}

	p.endSimpleStatement()
	return &ast.ExprStmt{Tok: tok, Value: first}
}

func augAssignOp(k token.Kind) (ast.AugAssignOp, bool) {
	switch k {
	case token.PLUSEQ:
		return ast.AugAdd, true
	case token.MINUSEQ:
		return ast.AugSub, true
	case token.STAREQ:
		return ast.AugMul, true
	case token.SLASHEQ:
		return ast.AugDiv, true
	}
	return 0, false
}
