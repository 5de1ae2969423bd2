package zen

import (
	"strconv"
)

type parser struct {
	tokens []Token
	pos    int
	source string
}

// Parse tokenizes and parses source into a Program. Lexical and syntax
// errors abort at the first problem found.
func Parse(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, source: source}
	return p.parseProgram()
}

func (p *parser) cur() Token {
	return p.peek(0)
}

// peek looks ahead by offset tokens, clamping to the trailing EOF.
func (p *parser) peek(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) curIs(tt TokenType) bool {
	return p.cur().Type == tt
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.cur()
	if tok.Type != tt {
		return tok, p.errorExpected(tok, tt)
	}
	p.advance()
	return tok, nil
}

// accept consumes the current token when it has the given type.
func (p *parser) accept(tt TokenType) bool {
	if p.curIs(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) parseProgram() (*Program, error) {
	program := &Program{source: p.source}

	for p.curIs(tokenInclude) {
		tok := p.advance()
		program.Includes = append(program.Includes, &Include{Package: tok.Literal, position: tok.Pos})
		p.accept(tokenSemicolon)
	}

	for !p.curIs(tokenEOF) {
		if p.curIs(tokenInclude) {
			return nil, p.errorf(p.cur().Pos, "include directive %q must appear before any statement", p.cur().Literal)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program, nil
}

func (p *parser) parseIdentifierList() ([]string, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	params := []string{}
	for !p.curIs(tokenRParen) {
		tok, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Literal)
		if !p.accept(tokenComma) && !p.curIs(tokenRParen) {
			return nil, p.errorExpected(p.cur(), tokenRParen)
		}
	}
	p.advance()
	return params, nil
}

func (p *parser) parseArguments(closing TokenType) ([]Node, error) {
	args := []Node{}
	for !p.curIs(closing) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(tokenComma) && !p.curIs(closing) {
			return nil, p.errorExpected(p.cur(), closing)
		}
	}
	p.advance()
	return args, nil
}

func (p *parser) parseNumber(tok Token) (Node, error) {
	if tok.Type == tokenFloat {
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid number literal %q", tok.Literal)
		}
		return &FloatLiteral{Value: value, position: tok.Pos}, nil
	}
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf(tok.Pos, "invalid number literal %q", tok.Literal)
	}
	return &IntegerLiteral{Value: value, position: tok.Pos}, nil
}
