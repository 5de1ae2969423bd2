package zen

import (
	"fmt"
	"strings"
)

// ParseError reports the first structural mismatch found while parsing.
// Expected is empty when the parser had no single token in mind.
type ParseError struct {
	Pos      Position
	Expected string
	Got      string
	Msg      string
	source   string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at %d:%d: ", e.Pos.Line, e.Pos.Column)
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Expected != "":
		fmt.Fprintf(&b, "expected %s, got %s", e.Expected, e.Got)
	default:
		fmt.Fprintf(&b, "unexpected token %s", e.Got)
	}
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (p *parser) errorExpected(tok Token, expected TokenType) error {
	return &ParseError{Pos: tok.Pos, Expected: tokenLabel(expected), Got: tokenLabel(tok.Type), source: p.source}
}

func (p *parser) errorUnexpected(tok Token) error {
	return &ParseError{Pos: tok.Pos, Got: tokenLabel(tok.Type), source: p.source}
}

func (p *parser) errorf(pos Position, format string, args ...any) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...), source: p.source}
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenEOF:
		return "end of input"
	case tokenInclude:
		return "include directive"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenString:
		return "string"
	default:
		if len(tt) <= 2 && strings.ToUpper(string(tt)) == strings.ToLower(string(tt)) {
			return fmt.Sprintf("%q", string(tt))
		}
		return fmt.Sprintf("'%s'", strings.ToLower(string(tt)))
	}
}
