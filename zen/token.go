package zen

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF     TokenType = "EOF"
	tokenInclude TokenType = "INCLUDE"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenPercent  TokenType = "%"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="
	tokenAnd      TokenType = "&&"
	tokenOr       TokenType = "||"

	tokenComma     TokenType = ","
	tokenColon     TokenType = ":"
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenFunction  TokenType = "FUNCTION"
	tokenIf        TokenType = "IF"
	tokenElse      TokenType = "ELSE"
	tokenWhile     TokenType = "WHILE"
	tokenDo        TokenType = "DO"
	tokenFor       TokenType = "FOR"
	tokenBreak     TokenType = "BREAK"
	tokenContinue  TokenType = "CONTINUE"
	tokenReturn    TokenType = "RETURN"
	tokenTrue      TokenType = "TRUE"
	tokenFalse     TokenType = "FALSE"
	tokenNull      TokenType = "NULL"
	tokenClass     TokenType = "CLASS"
	tokenNew       TokenType = "NEW"
	tokenThis      TokenType = "THIS"
	tokenExtends   TokenType = "EXTENDS"
	tokenStatic    TokenType = "STATIC"
	tokenPublic    TokenType = "PUBLIC"
	tokenPrivate   TokenType = "PRIVATE"
	tokenProtected TokenType = "PROTECTED"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a 1-indexed line and column in the source file.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"function":  tokenFunction,
	"funct":     tokenFunction,
	"if":        tokenIf,
	"else":      tokenElse,
	"while":     tokenWhile,
	"do":        tokenDo,
	"for":       tokenFor,
	"break":     tokenBreak,
	"continue":  tokenContinue,
	"return":    tokenReturn,
	"true":      tokenTrue,
	"false":     tokenFalse,
	"null":      tokenNull,
	"class":     tokenClass,
	"new":       tokenNew,
	"this":      tokenThis,
	"extends":   tokenExtends,
	"static":    tokenStatic,
	"public":    tokenPublic,
	"private":   tokenPrivate,
	"protected": tokenProtected,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Keywords returns the reserved words of the language in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}
