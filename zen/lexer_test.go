package zen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeNumbersAndPositions(t *testing.T) {
	tokens, err := Tokenize("x = 1.5;\ny = 42;")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []Token{
		{Type: tokenIdent, Literal: "x", Pos: Position{Line: 1, Column: 1}},
		{Type: tokenAssign, Literal: "=", Pos: Position{Line: 1, Column: 3}},
		{Type: tokenFloat, Literal: "1.5", Pos: Position{Line: 1, Column: 5}},
		{Type: tokenSemicolon, Literal: ";", Pos: Position{Line: 1, Column: 8}},
		{Type: tokenIdent, Literal: "y", Pos: Position{Line: 2, Column: 1}},
		{Type: tokenAssign, Literal: "=", Pos: Position{Line: 2, Column: 3}},
		{Type: tokenInt, Literal: "42", Pos: Position{Line: 2, Column: 5}},
		{Type: tokenSemicolon, Literal: ";", Pos: Position{Line: 2, Column: 7}},
		{Type: tokenEOF, Pos: Position{Line: 2, Column: 8}},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeDotAfterIntegerIsMemberAccess(t *testing.T) {
	tokens, err := Tokenize("3.foo")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []TokenType{tokenInt, tokenDot, tokenIdent, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOperatorsAndKeywords(t *testing.T) {
	tokens, err := Tokenize("if (a <= b && !c || d != e) { return funct; } else while do for")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []TokenType{
		tokenIf, tokenLParen, tokenIdent, tokenLTE, tokenIdent, tokenAnd, tokenBang, tokenIdent,
		tokenOr, tokenIdent, tokenNotEQ, tokenIdent, tokenRParen, tokenLBrace, tokenReturn,
		tokenFunction, tokenSemicolon, tokenRBrace, tokenElse, tokenWhile, tokenDo, tokenFor, tokenEOF,
	}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	source := `// line comment
a ** star comment
/* block
   comment */ b`
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []TokenType{tokenIdent, tokenIdent, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
	if tokens[1].Literal != "b" || tokens[1].Pos.Line != 4 {
		t.Fatalf("unexpected token after block comment: %+v", tokens[1])
	}
}

func TestTokenizeStrings(t *testing.T) {
	tokens, err := Tokenize(`"a\tb\n" 'it\'s'`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if tokens[0].Literal != "a\tb\n" {
		t.Fatalf("unexpected escape handling: %q", tokens[0].Literal)
	}
	if tokens[1].Literal != "it's" {
		t.Fatalf("unexpected single quoted literal: %q", tokens[1].Literal)
	}
}

func TestTokenizeIncludeDirective(t *testing.T) {
	tokens, err := Tokenize(".include <lib/util>\n.include<fs>")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != tokenInclude || tokens[0].Literal != "lib/util" {
		t.Fatalf("unexpected first include: %+v", tokens[0])
	}
	if tokens[1].Type != tokenInclude || tokens[1].Literal != "fs" {
		t.Fatalf("unexpected second include: %+v", tokens[1])
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "unterminated string", source: `x = "abc`, want: "unterminated string"},
		{name: "include without bracket", source: ".include fs", want: "invalid include syntax"},
		{name: "unterminated include", source: ".include <fs", want: "unterminated include"},
		{name: "single ampersand", source: "a & b", want: "unexpected character '&'"},
		{name: "stray symbol", source: "a # b", want: "unexpected character '#'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.source)
			if err == nil {
				t.Fatalf("expected error")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected LexError, got %T", err)
			}
			if !strings.Contains(lexErr.Msg, tc.want) {
				t.Fatalf("expected %q in %q", tc.want, lexErr.Msg)
			}
		})
	}
}

func TestLexErrorIncludesCodeFrame(t *testing.T) {
	_, err := Tokenize("a = 1;\nb = @;")
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "lexical error at 2:5") {
		t.Fatalf("missing position: %s", msg)
	}
	if !strings.Contains(msg, "b = @;") || !strings.Contains(msg, "^") {
		t.Fatalf("missing code frame: %s", msg)
	}
}
