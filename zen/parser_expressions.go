package zen

func (p *parser) parseExpression() (Node, error) {
	return p.parseAssignment()
}

// parseAssignment decides the assignment form from the already parsed left
// operand: identifiers, index and member accesses are the only targets.
func (p *parser) parseAssignment() (Node, error) {
	left, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	if !p.curIs(tokenAssign) {
		return left, nil
	}
	assignTok := p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	switch target := left.(type) {
	case *Identifier:
		return &Assign{Name: target.Name, Value: value, position: target.position}, nil
	case *IndexExpr:
		return &IndexAssign{Object: target.Object, Index: target.Index, Value: value, position: target.position}, nil
	case *MemberExpr:
		return &MemberAssign{Object: target.Object, Property: target.Property, Value: value, position: target.position}, nil
	default:
		return nil, p.errorf(assignTok.Pos, "invalid assignment target")
	}
}

// parseBinary climbs operator precedence; every binary level is
// left-associative.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.cur()
		prec := binaryPrecedence(op.Type)
		if prec == lowestPrec || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: op.Type, Right: right, position: op.Pos}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if p.curIs(tokenBang) || p.curIs(tokenMinus) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op.Type, Right: right, position: op.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		switch tok.Type {
		case tokenDot:
			p.advance()
			name, err := p.expect(tokenIdent)
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Object: expr, Property: name.Literal, position: name.Pos}
		case tokenLParen:
			p.advance()
			args, err := p.parseArguments(tokenRParen)
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{Callee: expr, Args: args, position: tok.Pos}
		case tokenLBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenRBracket); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Object: expr, Index: index, position: tok.Pos}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case tokenInt, tokenFloat:
		p.advance()
		return p.parseNumber(tok)
	case tokenString:
		p.advance()
		return &StringLiteral{Value: tok.Literal, position: tok.Pos}, nil
	case tokenIdent:
		p.advance()
		return &Identifier{Name: tok.Literal, position: tok.Pos}, nil
	case tokenTrue, tokenFalse:
		p.advance()
		return &BoolLiteral{Value: tok.Type == tokenTrue, position: tok.Pos}, nil
	case tokenNull:
		p.advance()
		return &NullLiteral{position: tok.Pos}, nil
	case tokenThis:
		p.advance()
		return &ThisExpr{position: tok.Pos}, nil
	case tokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case tokenLBrace:
		return p.parseObjectLiteral()
	case tokenLBracket:
		p.advance()
		elems, err := p.parseArguments(tokenRBracket)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems, position: tok.Pos}, nil
	case tokenFunction:
		return p.parseFunction()
	case tokenNew:
		return p.parseNew()
	default:
		return nil, p.errorUnexpected(tok)
	}
}

// parseObjectLiteral accepts `key = value` and `key: value` pairs; keys are
// identifiers or string literals.
func (p *parser) parseObjectLiteral() (Node, error) {
	open := p.advance()
	obj := &ObjectLiteral{position: open.Pos}
	for !p.curIs(tokenRBrace) {
		key := p.cur()
		if key.Type != tokenIdent && key.Type != tokenString {
			return nil, p.errorExpected(key, tokenIdent)
		}
		p.advance()
		if !p.accept(tokenAssign) && !p.accept(tokenColon) {
			return nil, p.errorExpected(p.cur(), tokenAssign)
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, ObjectProperty{Key: key.Literal, Value: value})
		if !p.accept(tokenComma) && !p.curIs(tokenRBrace) {
			return nil, p.errorExpected(p.cur(), tokenRBrace)
		}
	}
	p.advance()
	return obj, nil
}

func (p *parser) parseNew() (Node, error) {
	tok := p.advance()
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	args, err := p.parseArguments(tokenRParen)
	if err != nil {
		return nil, err
	}
	return &NewExpr{Class: name.Literal, Args: args, position: tok.Pos}, nil
}
