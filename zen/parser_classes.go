package zen

func (p *parser) parseClassDef() (*ClassDef, error) {
	tok := p.advance()
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	class := &ClassDef{Name: name.Literal, position: tok.Pos}
	if p.accept(tokenExtends) {
		parent, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		class.Parent = parent.Literal
	}
	if _, err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}

	for !p.curIs(tokenRBrace) {
		memberPos := p.cur().Pos
		access := AccessPublic
		switch p.cur().Type {
		case tokenPublic:
			p.advance()
		case tokenPrivate:
			access = AccessPrivate
			p.advance()
		case tokenProtected:
			access = AccessProtected
			p.advance()
		}
		static := p.accept(tokenStatic)

		if p.curIs(tokenFunction) {
			method, err := p.parseMethodDef(access, static)
			if err != nil {
				return nil, err
			}
			class.Methods = append(class.Methods, method)
			continue
		}

		prop, err := p.parsePropertyDef(access, static, memberPos)
		if err != nil {
			return nil, err
		}
		class.Properties = append(class.Properties, prop)
	}
	p.advance()
	p.accept(tokenSemicolon)
	return class, nil
}

func (p *parser) parseMethodDef(access AccessModifier, static bool) (*MethodDef, error) {
	tok := p.advance()
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	params, err := p.parseIdentifierList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.accept(tokenSemicolon)
	return &MethodDef{Name: name.Literal, Params: params, Body: body, Access: access, Static: static, position: tok.Pos}, nil
}

func (p *parser) parsePropertyDef(access AccessModifier, static bool, pos Position) (*PropertyDef, error) {
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	prop := &PropertyDef{Name: name.Literal, Access: access, Static: static, position: pos}
	if p.accept(tokenAssign) {
		if prop.Default, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokenSemicolon); err != nil {
		return nil, err
	}
	return prop, nil
}
