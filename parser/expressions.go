package parser

import (
	"strconv"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/token"
)

func (p *Parser) parseIdent() ast.Expr {
	return p.newIdent(p.curToken)
}

func (p *Parser) parseNumber() ast.Expr {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		return p.setTokenError(p.curToken, "invalid number literal %q", p.curToken.Literal)
	}
	return &ast.Number{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.curToken.Literal,
		Value:    value,
	}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{
		ValuePos: p.curToken.StartPosition,
		Value:    p.curToken.Literal,
	}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{
		ValuePos: p.curToken.StartPosition,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parseNull() ast.Expr {
	return &ast.Null{ValuePos: p.curToken.StartPosition}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	expr := &ast.Prefix{
		OpPos: p.curToken.StartPosition,
		Op:    p.curToken.Literal,
	}
	p.nextToken()
	expr.X = p.parseExpression(PREFIX)
	if expr.X == nil {
		return nil
	}
	return expr
}

// parseKeywordPrefixExpr handles "typeof x" and "delete x".
func (p *Parser) parseKeywordPrefixExpr() ast.Expr {
	return p.parsePrefixExpr()
}

func (p *Parser) parsePrefixUpdate() ast.Expr {
	expr := &ast.Update{
		OpPos:  p.curToken.StartPosition,
		Op:     p.curToken.Literal,
		Prefix: true,
	}
	p.nextToken()
	expr.X = p.parseExpression(PREFIX)
	if expr.X == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	expr := &ast.Infix{
		X:     left,
		OpPos: p.curToken.StartPosition,
		Op:    p.curToken.Literal,
	}
	precedence := p.currentPrecedence()
	p.nextToken()
	expr.Y = p.parseExpression(precedence)
	if expr.Y == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	expr := &ast.Assign{
		Target: left,
		OpPos:  p.curToken.StartPosition,
		Op:     p.curToken.Literal,
	}
	p.nextToken()
	// Assignment is right-associative
	expr.Value = p.parseExpression(ASSIGN - 1)
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	expr := &ast.Cond{CondExpr: cond}
	p.nextToken()
	expr.Consequence = p.parseExpression(LOWEST)
	if expr.Consequence == nil {
		return nil
	}
	if !p.expectPeek("a conditional expression", token.COLON) {
		return nil
	}
	p.nextToken()
	expr.Alternative = p.parseExpression(TERNARY - 1)
	if expr.Alternative == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseCall(fun ast.Expr) ast.Expr {
	lparen := p.curToken.StartPosition
	args := p.parseExpressionList(token.RPAREN)
	if args == nil {
		return nil
	}
	return &ast.Call{
		Fun:    fun,
		Lparen: lparen,
		Args:   args,
		Rparen: p.curToken.StartPosition,
	}
}

func (p *Parser) parseIndex(x ast.Expr) ast.Expr {
	expr := &ast.Index{X: x, Lbracket: p.curToken.StartPosition}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek("an index expression", token.RBRACKET) {
		return nil
	}
	expr.Rbracket = p.curToken.StartPosition
	return expr
}

func (p *Parser) parseGetAttr(x ast.Expr) ast.Expr {
	if !p.expectPeek("a member access", token.IDENT) {
		return nil
	}
	return &ast.GetAttr{X: x, Attr: p.newIdent(p.curToken)}
}

func (p *Parser) parseNew() ast.Expr {
	expr := &ast.New{NewPos: p.curToken.StartPosition}
	p.nextToken()
	// Parse the constructor at CALL precedence so that the argument list
	// belongs to the new expression, as in "new Array(3, 0)".
	expr.Fun = p.parseExpression(CALL)
	if expr.Fun == nil {
		return nil
	}
	if !p.expectPeek("a new expression", token.LPAREN) {
		return nil
	}
	expr.Args = p.parseExpressionList(token.RPAREN)
	if expr.Args == nil {
		return nil
	}
	expr.Rparen = p.curToken.StartPosition
	return expr
}

func (p *Parser) parseArrayLit() ast.Expr {
	lit := &ast.ArrayLit{Lbracket: p.curToken.StartPosition}
	lit.Items = p.parseExpressionList(token.RBRACKET)
	if lit.Items == nil && p.hadNewError() {
		return nil
	}
	lit.Rbracket = p.curToken.StartPosition
	return lit
}

func (p *Parser) parseObjectLit() ast.Expr {
	lit := &ast.ObjectLit{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		prop := p.parseProperty()
		if prop == nil {
			return nil
		}
		lit.Properties = append(lit.Properties, prop)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("an object literal", token.RBRACE) {
		return nil
	}
	lit.Rbrace = p.curToken.StartPosition
	return lit
}

// parseProperty parses one "key: value" entry in an object literal. The
// shorthand form "{ x }" is accepted and expands to "{ x: x }".
func (p *Parser) parseProperty() *ast.Property {
	if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.STRING) {
		p.peekError("an object literal", token.IDENT, p.peekToken)
		return nil
	}
	p.nextToken()
	key := p.newIdent(p.curToken)
	if !p.peekTokenIs(token.COLON) {
		return &ast.Property{Key: key, Value: &ast.Ident{NamePos: key.NamePos, Name: key.Name}}
	}
	p.nextToken()
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Property{Key: key, Value: value}
}

func (p *Parser) parseFuncLit() ast.Expr {
	fn := &ast.Func{FuncPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.newIdent(p.curToken)
	}
	if !p.expectPeek("a function", token.LPAREN) {
		return nil
	}
	params := p.parseFuncParams()
	if params == nil && p.hadNewError() {
		return nil
	}
	fn.Params = params
	if !p.expectPeek("a function", token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseFuncParams parses a parenthesized parameter list. The current token
// is the opening paren; on return it is the closing paren.
func (p *Parser) parseFuncParams() []*ast.Ident {
	params := []*ast.Ident{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		if !p.expectPeek("a parameter list", token.IDENT) {
			return nil
		}
		params = append(params, p.newIdent(p.curToken))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("a parameter list", token.RPAREN) {
		return nil
	}
	return params
}

// parseGroupedExpr parses a parenthesized expression or the parameter list
// of an arrow function. Which of the two it is becomes clear only once the
// closing paren has been read, so a comma-separated expression list is
// collected first and reinterpreted as parameters if "=>" follows.
func (p *Parser) parseGroupedExpr() ast.Expr {
	lparen := p.curToken.StartPosition
	if p.peekTokenIs(token.RPAREN) {
		// "()" is only valid as an arrow function parameter list
		p.nextToken()
		if !p.expectPeek("an arrow function", token.ARROW) {
			return nil
		}
		return p.parseArrowBody(lparen, []*ast.Ident{})
	}
	var exprs []ast.Expr
	for {
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("a parenthesized expression", token.RPAREN) {
		return nil
	}
	if p.peekTokenIs(token.ARROW) {
		params := make([]*ast.Ident, 0, len(exprs))
		for _, expr := range exprs {
			ident, ok := expr.(*ast.Ident)
			if !ok {
				return p.setTokenError(p.curToken,
					"invalid arrow function parameter %q", expr.String())
			}
			params = append(params, ident)
		}
		p.nextToken()
		return p.parseArrowBody(lparen, params)
	}
	if len(exprs) != 1 {
		return p.setTokenError(p.curToken, "unexpected ',' in parenthesized expression")
	}
	return exprs[0]
}

// parseArrowFromIdent handles the single-parameter arrow form "x => body".
func (p *Parser) parseArrowFromIdent(left ast.Expr) ast.Expr {
	ident, ok := left.(*ast.Ident)
	if !ok {
		return p.setTokenError(p.curToken,
			"invalid arrow function parameter %q", left.String())
	}
	return p.parseArrowBody(ident.NamePos, []*ast.Ident{ident})
}

// parseArrowBody parses an arrow function body. The current token is the
// "=>" token. An expression body is wrapped in a block with a return so
// that both forms produce the same node shape.
func (p *Parser) parseArrowBody(funcPos token.Position, params []*ast.Ident) ast.Expr {
	fn := &ast.Func{FuncPos: funcPos, Params: params}
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.Body = p.parseBlock()
		if fn.Body == nil {
			return nil
		}
		return fn
	}
	p.nextToken()
	expr := p.parseExpression(ASSIGN - 1)
	if expr == nil {
		return nil
	}
	fn.Body = &ast.Block{
		Lbrace: expr.Pos(),
		Stmts:  []ast.Stmt{&ast.Return{ReturnPos: expr.Pos(), Value: expr}},
		Rbrace: expr.End(),
	}
	return fn
}

// parseExpressionList parses a comma-separated expression list terminated
// by the given token. The current token is the opening delimiter; on
// return it is the terminating token.
func (p *Parser) parseExpressionList(end token.Type) []ast.Expr {
	exprs := []ast.Expr{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return exprs
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	exprs = append(exprs, first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
	}
	if !p.expectPeek("an expression list", end) {
		return nil
	}
	return exprs
}
