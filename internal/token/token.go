package token

// Type identifies the lexical class of a token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT  Type = "IDENT"
	INT    Type = "INT"
	STRING Type = "STRING"

	// Operators and punctuation
	ASSIGN   Type = "="
	PLUS     Type = "+"
	MINUS    Type = "-"
	ASTERISK Type = "*"
	DOT      Type = "."
	SAFEDOT  Type = "?."
	QUESTION Type = "?"
	ARROW    Type = "->"
	COLON    Type = ":"
	COMMA    Type = ","
	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACE   Type = "{"
	RBRACE   Type = "}"
	LT       Type = "<"
	GT       Type = ">"

	// Keywords
	FUN      Type = "FUN"
	VAL      Type = "VAL"
	CLASS    Type = "CLASS"
	ABSTRACT Type = "ABSTRACT"
	OPEN     Type = "OPEN"
	PRIVATE  Type = "PRIVATE"
	VARARG   Type = "VARARG"
	THIS     Type = "THIS"
	NULL     Type = "NULL"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
	IN       Type = "IN"
	OUT      Type = "OUT"
	OVERRIDE Type = "OVERRIDE"
)

// Token is a single lexical unit with its source position.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

var keywords = map[string]Type{
	"fun":      FUN,
	"val":      VAL,
	"class":    CLASS,
	"abstract": ABSTRACT,
	"open":     OPEN,
	"private":  PRIVATE,
	"vararg":   VARARG,
	"this":     THIS,
	"null":     NULL,
	"true":     TRUE,
	"false":    FALSE,
	"in":       IN,
	"out":      OUT,
	"override": OVERRIDE,
}

// LookupIdent returns the keyword type for an identifier lexeme, or IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
