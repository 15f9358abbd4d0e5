// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char   int    // byte offset of the position in the input
	Line   int    // 0-indexed line number
	Column int    // 0-indexed column number
	File   string // file name, if known
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns the position n characters further along the same line.
func (p Position) Advance(n int) Position {
	p.Char += n
	p.Column += n
	return p
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AND            = "&&"
	AMPERSAND      = "&"
	ARROW          = "=>"
	ASSIGN         = "="
	ASTERISK       = "*"
	ASTERISK_EQ    = "*="
	BANG           = "!"
	BREAK          = "BREAK"
	CARET          = "^"
	CASE           = "case"
	CATCH          = "CATCH"
	COLON          = ":"
	COMMA          = ","
	CONST          = "CONST"
	CONTINUE       = "CONTINUE"
	DEFAULT        = "DEFAULT"
	DELETE         = "DELETE"
	DO             = "DO"
	EOF            = "EOF"
	EQ             = "=="
	EQ_STRICT      = "==="
	ELSE           = "ELSE"
	FALSE          = "FALSE"
	FOR            = "FOR"
	FUNCTION       = "FUNCTION"
	GT             = ">"
	GT_EQUALS      = ">="
	GT_GT          = ">>"
	GT_GT_GT       = ">>>"
	IDENT          = "IDENT"
	IF             = "IF"
	ILLEGAL        = "ILLEGAL"
	IN             = "IN"
	INSTANCEOF     = "INSTANCEOF"
	LBRACE         = "{"
	LBRACKET       = "["
	LET            = "LET"
	LPAREN         = "("
	LT             = "<"
	LT_EQUALS      = "<="
	LT_LT          = "<<"
	MINUS          = "-"
	MINUS_EQ       = "-="
	MINUS_MINUS    = "--"
	MOD            = "%"
	MOD_EQ         = "%="
	NEW            = "NEW"
	NOT_EQ         = "!="
	NOT_EQ_STRICT  = "!=="
	NULL           = "null"
	NUMBER         = "NUMBER"
	OF             = "OF"
	OR             = "||"
	PERIOD         = "."
	PIPE           = "|"
	PLUS           = "+"
	PLUS_EQ        = "+="
	PLUS_PLUS      = "++"
	QUESTION       = "?"
	RBRACE         = "}"
	RBRACKET       = "]"
	RETURN         = "RETURN"
	RPAREN         = ")"
	SEMICOLON      = ";"
	SLASH          = "/"
	SLASH_EQ       = "/="
	STRING         = "STRING"
	SWITCH         = "switch"
	THROW          = "THROW"
	TILDE          = "~"
	TRUE           = "TRUE"
	TYPEOF         = "TYPEOF"
	VAR            = "VAR"
	WHILE          = "WHILE"
	WITH           = "WITH"
)

// Reserved keywords
var keywords = map[string]Type{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"const":      CONST,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"false":      FALSE,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"of":         OF,
	"return":     RETURN,
	"switch":     SWITCH,
	"throw":      THROW,
	"true":       TRUE,
	"typeof":     TYPEOF,
	"var":        VAR,
	"while":      WHILE,
	"with":       WITH,
}

// LookupIdentifier is used to determine whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
