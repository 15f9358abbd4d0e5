package parser

import (
	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/token"
)

// parseStatement parses one statement starting at the current token. The
// current token is left on the final token of the statement (or its
// trailing semicolon) when parsing succeeds.
func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		stmt = p.parseDecl()
	case token.IF:
		stmt = p.parseIf()
	case token.WHILE:
		stmt = p.parseWhile()
	case token.DO:
		stmt = p.parseDoWhile()
	case token.FOR:
		stmt = p.parseFor()
	case token.FUNCTION:
		stmt = p.parseFuncDecl()
	case token.RETURN:
		stmt = p.parseReturn()
	case token.BREAK:
		stmt = &ast.Break{BreakPos: p.curToken.StartPosition}
	case token.CONTINUE:
		stmt = &ast.Continue{ContinuePos: p.curToken.StartPosition}
	case token.THROW:
		stmt = p.parseThrow()
	case token.SWITCH:
		stmt = p.parseSwitch()
	case token.WITH:
		stmt = p.parseWith()
	case token.LBRACE:
		stmt = p.parseBlock()
	case token.SEMICOLON:
		return nil
	case token.IDENT:
		if p.peekTokenIs(token.COLON) {
			stmt = p.parseLabeled()
		} else {
			stmt = p.parseExprStatement()
		}
	default:
		stmt = p.parseExprStatement()
	}
	// Consume a trailing semicolon if present
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExprStatement() ast.Stmt {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

// parseDecl parses a let/const/var declaration with one or more declarators.
func (p *Parser) parseDecl() ast.Stmt {
	decl := &ast.Decl{
		DeclPos: p.curToken.StartPosition,
		Kind:    p.curToken.Literal,
	}
	for {
		d := p.parseDeclarator()
		if d == nil {
			return nil
		}
		decl.Declarators = append(decl.Declarators, d)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return decl
}

// parseDeclarator parses one binding within a declaration. Destructuring
// patterns are valid syntax here; whether they are accepted is decided by
// a later pass.
func (p *Parser) parseDeclarator() *ast.Declarator {
	var name ast.Expr
	switch p.peekToken.Type {
	case token.IDENT:
		p.nextToken()
		name = p.newIdent(p.curToken)
	case token.LBRACKET:
		p.nextToken()
		name = p.parseArrayLit()
	case token.LBRACE:
		p.nextToken()
		name = p.parseObjectLit()
	default:
		p.peekError("a variable declaration", token.IDENT, p.peekToken)
		return nil
	}
	if name == nil {
		return nil
	}
	d := &ast.Declarator{Name: name}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		d.Value = p.parseExpression(LOWEST)
		if d.Value == nil {
			return nil
		}
	}
	return d
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unterminated block statement")
			return nil
		}
		if p.tooManyErrors() {
			return nil
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		} else if p.hadNewError() {
			p.synchronize()
			if statementTerminators[p.curToken.Type] && !p.curTokenIs(token.RBRACE) {
				p.nextToken()
			}
			continue
		}
		p.nextToken()
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

// parseBodyStatement parses the body of a control statement, which may be
// a block or (in unrestricted JavaScript) a bare statement.
func (p *Parser) parseBodyStatement() ast.Stmt {
	p.nextToken()
	return p.parseStatement()
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	if !p.expectPeek("an if statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek("an if statement", token.RPAREN) {
		return nil
	}
	stmt.Consequence = p.parseBodyStatement()
	if stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Alternative = p.parseBodyStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{WhilePos: p.curToken.StartPosition}
	if !p.expectPeek("a while loop", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek("a while loop", token.RPAREN) {
		return nil
	}
	stmt.Body = p.parseBodyStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDoWhile() ast.Stmt {
	stmt := &ast.DoWhile{DoPos: p.curToken.StartPosition}
	stmt.Body = p.parseBodyStatement()
	if stmt.Body == nil {
		return nil
	}
	if !p.expectPeek("a do-while loop", token.WHILE) {
		return nil
	}
	if !p.expectPeek("a do-while loop", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek("a do-while loop", token.RPAREN) {
		return nil
	}
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	forPos := p.curToken.StartPosition
	if !p.expectPeek("a for loop", token.LPAREN) {
		return nil
	}
	var init ast.Node
	switch p.peekToken.Type {
	case token.SEMICOLON:
		p.nextToken()
	case token.LET, token.CONST, token.VAR:
		p.nextToken()
		decl := p.parseDecl()
		if decl == nil {
			return nil
		}
		init = decl
		if p.peekTokenIs(token.IN) || p.peekTokenIs(token.OF) {
			p.nextToken()
			return p.parseForIn(forPos, init, p.curTokenIs(token.OF))
		}
		if !p.expectPeek("a for loop", token.SEMICOLON) {
			return nil
		}
	default:
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		// "for (x in y)" parses the header as one infix expression
		if infix, ok := expr.(*ast.Infix); ok && infix.Op == "in" && p.peekTokenIs(token.RPAREN) {
			return p.parseForIn2(forPos, infix.X, infix.Y, false)
		}
		if p.peekTokenIs(token.OF) {
			p.nextToken()
			return p.parseForIn(forPos, expr, true)
		}
		init = expr
		if !p.expectPeek("a for loop", token.SEMICOLON) {
			return nil
		}
	}
	stmt := &ast.For{ForPos: forPos, Init: init}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Cond = p.parseExpression(LOWEST)
		if stmt.Cond == nil {
			return nil
		}
	}
	if !p.expectPeek("a for loop", token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		stmt.Post = p.parseExpression(LOWEST)
		if stmt.Post == nil {
			return nil
		}
	}
	if !p.expectPeek("a for loop", token.RPAREN) {
		return nil
	}
	stmt.Body = p.parseBodyStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForIn finishes a for-in or for-of loop. The current token is the
// "in" or "of" keyword.
func (p *Parser) parseForIn(forPos token.Position, left ast.Node, of bool) ast.Stmt {
	p.nextToken()
	right := p.parseExpression(LOWEST)
	if right == nil {
		return nil
	}
	return p.parseForIn2(forPos, left, right, of)
}

func (p *Parser) parseForIn2(forPos token.Position, left ast.Node, right ast.Expr, of bool) ast.Stmt {
	stmt := &ast.ForIn{ForPos: forPos, Left: left, Right: right, Of: of}
	if !p.expectPeek("a for loop", token.RPAREN) {
		return nil
	}
	stmt.Body = p.parseBodyStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	fn := p.parseFuncLit()
	if fn == nil {
		return nil
	}
	lit := fn.(*ast.Func)
	if lit.Name == nil {
		p.setTokenError(p.curToken, "function declarations require a name")
		return nil
	}
	return &ast.FuncDecl{Fun: lit}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if statementTerminators[p.peekToken.Type] {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	stmt := &ast.Throw{ThrowPos: p.curToken.StartPosition}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseSwitch() ast.Stmt {
	stmt := &ast.Switch{SwitchPos: p.curToken.StartPosition}
	if !p.expectPeek("a switch statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek("a switch statement", token.RPAREN) {
		return nil
	}
	if !p.expectPeek("a switch statement", token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unterminated switch statement")
			return nil
		}
		c := p.parseCase()
		if c == nil {
			return nil
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}

// parseCase parses one "case expr:" or "default:" clause, leaving the
// current token on the first token after the clause body.
func (p *Parser) parseCase() *ast.Case {
	c := &ast.Case{CasePos: p.curToken.StartPosition}
	switch p.curToken.Type {
	case token.CASE:
		p.nextToken()
		c.Value = p.parseExpression(LOWEST)
		if c.Value == nil {
			return nil
		}
	case token.DEFAULT:
	default:
		p.setTokenError(p.curToken, "expected 'case' or 'default' in switch statement")
		return nil
	}
	if !p.expectPeek("a switch case", token.COLON) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) &&
		!p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.tooManyErrors() {
			return nil
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			c.Body = append(c.Body, stmt)
		} else if p.hadNewError() {
			return nil
		}
		p.nextToken()
	}
	return c
}

func (p *Parser) parseWith() ast.Stmt {
	stmt := &ast.With{WithPos: p.curToken.StartPosition}
	if !p.expectPeek("a with statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Object = p.parseExpression(LOWEST)
	if stmt.Object == nil {
		return nil
	}
	if !p.expectPeek("a with statement", token.RPAREN) {
		return nil
	}
	stmt.Body = p.parseBodyStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseLabeled() ast.Stmt {
	label := p.newIdent(p.curToken)
	p.nextToken() // the ":"
	p.nextToken()
	stmt := p.parseStatement()
	if stmt == nil {
		p.setTokenError(p.curToken, "expected a statement after label %q", label.Name)
		return nil
	}
	return &ast.Labeled{Label: label, Stmt: stmt}
}
