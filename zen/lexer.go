package zen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LexError reports an unrecognised character or malformed lexeme.
type LexError struct {
	Pos    Position
	Msg    string
	source string
}

func (e *LexError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lexical error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// Tokenize converts source text into a token sequence terminated by an EOF
// token. The first malformed lexeme aborts tokenization.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.width = 0
		l.ch = 0
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) atEOF() bool {
	return l.width == 0 && l.offset >= len(l.input)
}

func (l *lexer) errorf(pos Position, format string, args ...any) error {
	return &LexError{Pos: pos, Msg: fmt.Sprintf(format, args...), source: l.input}
}

// NextToken scans the next token from the input.
func (l *lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := Position{Line: l.line, Column: l.column}
	if l.atEOF() {
		return Token{Type: tokenEOF, Pos: pos}, nil
	}

	single := func(tt TokenType) (Token, error) {
		tok := Token{Type: tt, Literal: string(l.ch), Pos: pos}
		l.readRune()
		return tok, nil
	}
	pair := func(second rune, both, one TokenType) (Token, error) {
		if l.peekRune() == second {
			literal := string(l.ch) + string(second)
			l.readRune()
			l.readRune()
			return Token{Type: both, Literal: literal, Pos: pos}, nil
		}
		return single(one)
	}

	switch l.ch {
	case '+':
		return single(tokenPlus)
	case '-':
		return single(tokenMinus)
	case '*':
		return single(tokenAsterisk)
	case '/':
		return single(tokenSlash)
	case '%':
		return single(tokenPercent)
	case '(':
		return single(tokenLParen)
	case ')':
		return single(tokenRParen)
	case '{':
		return single(tokenLBrace)
	case '}':
		return single(tokenRBrace)
	case '[':
		return single(tokenLBracket)
	case ']':
		return single(tokenRBracket)
	case ',':
		return single(tokenComma)
	case ';':
		return single(tokenSemicolon)
	case ':':
		return single(tokenColon)
	case '.':
		if l.isIncludeDirective() {
			return l.readInclude(pos)
		}
		return single(tokenDot)
	case '=':
		return pair('=', tokenEQ, tokenAssign)
	case '!':
		return pair('=', tokenNotEQ, tokenBang)
	case '<':
		return pair('=', tokenLTE, tokenLT)
	case '>':
		return pair('=', tokenGTE, tokenGT)
	case '&':
		if l.peekRune() == '&' {
			return pair('&', tokenAnd, tokenAnd)
		}
	case '|':
		if l.peekRune() == '|' {
			return pair('|', tokenOr, tokenOr)
		}
	case '"', '\'':
		literal, err := l.readString(pos)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: tokenString, Literal: literal, Pos: pos}, nil
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			return Token{Type: lookupIdent(literal), Literal: literal, Pos: pos}, nil
		case isDigit(l.ch):
			literal, isFloat := l.readNumber()
			if isFloat {
				return Token{Type: tokenFloat, Literal: literal, Pos: pos}, nil
			}
			return Token{Type: tokenInt, Literal: literal, Pos: pos}, nil
		}
	}

	return Token{}, l.errorf(pos, "unexpected character %q", l.ch)
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/', l.ch == '*' && l.peekRune() == '*':
			l.skipLineComment()
		case l.ch == '/' && l.peekRune() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *lexer) skipLineComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) skipBlockComment() {
	l.readRune()
	l.readRune()
	for !l.atEOF() {
		if l.ch == '*' && l.peekRune() == '/' {
			l.readRune()
			l.readRune()
			return
		}
		l.readRune()
	}
}

const includeKeyword = ".include"

func (l *lexer) isIncludeDirective() bool {
	rest := l.input[l.currentOffset():]
	if !strings.HasPrefix(rest, includeKeyword) {
		return false
	}
	if len(rest) == len(includeKeyword) {
		return true
	}
	next := rest[len(includeKeyword)]
	return next == ' ' || next == '\t' || next == '\r' || next == '\n' || next == '<'
}

func (l *lexer) readInclude(pos Position) (Token, error) {
	for range includeKeyword {
		l.readRune()
	}
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readRune()
	}
	if l.ch != '<' {
		return Token{}, l.errorf(Position{Line: l.line, Column: l.column}, "invalid include syntax: expected '<'")
	}
	l.readRune()
	var sb strings.Builder
	for l.ch != '>' {
		if l.atEOF() {
			return Token{}, l.errorf(pos, "unterminated include directive")
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}
	l.readRune()
	name := strings.TrimSpace(sb.String())
	if name == "" {
		return Token{}, l.errorf(pos, "include directive names no package")
	}
	return Token{Type: tokenInclude, Literal: name, Pos: pos}, nil
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.ch) {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readNumber() (string, bool) {
	start := l.currentOffset()
	hasDot := false
	for {
		switch {
		case isDigit(l.ch):
			l.readRune()
		case l.ch == '.' && !hasDot && !isIdentifierStart(l.peekRune()) && l.peekRune() != '.':
			hasDot = true
			l.readRune()
		default:
			return l.input[start:l.currentOffset()], hasDot
		}
	}
}

func (l *lexer) readString(pos Position) (string, error) {
	quote := l.ch
	var sb strings.Builder
	l.readRune()
	for {
		if l.atEOF() {
			return "", l.errorf(pos, "unterminated string")
		}
		switch l.ch {
		case quote:
			l.readRune()
			return sb.String(), nil
		case '\\':
			l.readRune()
			if l.atEOF() {
				return "", l.errorf(pos, "unterminated string")
			}
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteRune(l.ch)
			}
			l.readRune()
		default:
			sb.WriteRune(l.ch)
			l.readRune()
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
