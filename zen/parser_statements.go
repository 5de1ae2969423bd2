package zen

func (p *parser) parseStatement() (Node, error) {
	switch p.cur().Type {
	case tokenClass:
		return p.parseClassDef()
	case tokenFunction:
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenSemicolon); err != nil {
			return nil, err
		}
		return fn, nil
	case tokenIf:
		return p.parseIf()
	case tokenWhile:
		return p.parseWhile()
	case tokenDo:
		return p.parseDoWhile()
	case tokenFor:
		return p.parseFor()
	case tokenBreak:
		tok := p.advance()
		if _, err := p.expect(tokenSemicolon); err != nil {
			return nil, err
		}
		return &BreakStmt{position: tok.Pos}, nil
	case tokenContinue:
		tok := p.advance()
		if _, err := p.expect(tokenSemicolon); err != nil {
			return nil, err
		}
		return &ContinueStmt{position: tok.Pos}, nil
	case tokenReturn:
		return p.parseReturn()
	case tokenLBrace:
		return p.parseBlock()
	case tokenSemicolon:
		p.advance()
		return nil, nil
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenSemicolon); err != nil {
			return nil, err
		}
		return expr, nil
	}
}

func (p *parser) parseBlock() (*Block, error) {
	open, err := p.expect(tokenLBrace)
	if err != nil {
		return nil, err
	}
	block := &Block{position: open.Pos}
	for !p.curIs(tokenRBrace) {
		if p.curIs(tokenEOF) {
			return nil, p.errorExpected(p.cur(), tokenRBrace)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.advance()
	return block, nil
}

func (p *parser) parseCondition() (Node, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIf() (*IfStmt, error) {
	tok := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Then: then, position: tok.Pos}
	if !p.curIs(tokenElse) {
		return stmt, nil
	}
	p.advance()
	if p.curIs(tokenIf) {
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = &Block{Statements: []Node{nested}, position: nested.position}
		return stmt, nil
	}
	stmt.Else, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseWhile() (*WhileStmt, error) {
	tok := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body, position: tok.Pos}, nil
}

func (p *parser) parseDoWhile() (*DoWhileStmt, error) {
	tok := p.advance()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenWhile); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemicolon); err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Condition: cond, position: tok.Pos}, nil
}

// parseOptional parses an expression unless the current token is the
// clause terminator.
func (p *parser) parseOptional(terminator TokenType) (Node, error) {
	var expr Node
	if !p.curIs(terminator) {
		var err error
		if expr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(terminator); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseFor() (*ForStmt, error) {
	tok := p.advance()
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	init, err := p.parseOptional(tokenSemicolon)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseOptional(tokenSemicolon)
	if err != nil {
		return nil, err
	}
	incr, err := p.parseOptional(tokenRParen)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Condition: cond, Increment: incr, Body: body, position: tok.Pos}, nil
}

func (p *parser) parseReturn() (*ReturnStmt, error) {
	tok := p.advance()
	value, err := p.parseOptional(tokenSemicolon)
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: value, position: tok.Pos}, nil
}

// parseFunction parses `function [name](params) { body }`. The trailing
// separator is left to the caller.
func (p *parser) parseFunction() (*FunctionDef, error) {
	tok := p.advance()
	fn := &FunctionDef{position: tok.Pos}
	if p.curIs(tokenIdent) {
		fn.Name = p.advance().Literal
	}
	params, err := p.parseIdentifierList()
	if err != nil {
		return nil, err
	}
	fn.Params = params
	if fn.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return fn, nil
}
