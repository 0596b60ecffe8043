package lexer

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The actual text of the token (lexeme)
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

// --- Token Types ---
const (
	// Special
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"
	COMMENT TokenType = "COMMENT"

	// Identifiers + Literals
	IDENT   TokenType = "IDENT"   // functionName, variableName
	NUMBER  TokenType = "NUMBER"  // 123, 45.67
	STRING  TokenType = "STRING"  // "hello world"
	BOOLEAN TokenType = "BOOLEAN" // true, false

	// Keywords (base language)
	PACKAGE   TokenType = "PACKAGE"
	IMPORT    TokenType = "IMPORT"
	FUNC      TokenType = "FUNC"
	VAR       TokenType = "VAR"
	CONST     TokenType = "CONST"
	TYPE      TokenType = "TYPE"
	STRUCT    TokenType = "STRUCT"
	INTERFACE TokenType = "INTERFACE"
	IF        TokenType = "IF"
	ELSE      TokenType = "ELSE"
	FOR       TokenType = "FOR"
	RANGE     TokenType = "RANGE"
	SWITCH    TokenType = "SWITCH"
	CASE      TokenType = "CASE"
	DEFAULT   TokenType = "DEFAULT"
	BREAK     TokenType = "BREAK"
	CONTINUE  TokenType = "CONTINUE"
	RETURN    TokenType = "RETURN"
	GO        TokenType = "GO"
	DEFER     TokenType = "DEFER"
	SELECT    TokenType = "SELECT"
	CHAN      TokenType = "CHAN"
	MAP       TokenType = "MAP"

	// Keywords (class extension)
	CLASS   TokenType = "CLASS"
	NEW     TokenType = "NEW"
	THIS    TokenType = "THIS"
	SUPER   TokenType = "SUPER"
	EXTENDS TokenType = "EXTENDS"

	// Keywords (exception extension)
	TRY       TokenType = "TRY"
	CATCH     TokenType = "CATCH"
	FINALLY   TokenType = "FINALLY"
	THROW     TokenType = "THROW"
	EXCEPTION TokenType = "EXCEPTION"

	// Assignment operators
	ASSIGN       TokenType = "="
	SHORT_ASSIGN TokenType = ":="
	PLUS_ASSIGN  TokenType = "+="
	MINUS_ASSIGN TokenType = "-="
	MULT_ASSIGN  TokenType = "*="
	DIV_ASSIGN   TokenType = "/="
	MOD_ASSIGN   TokenType = "%="

	// Arithmetic operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	MULTIPLY TokenType = "*"
	DIVIDE   TokenType = "/"
	MODULO   TokenType = "%"

	// Comparison operators
	EQ TokenType = "=="
	NE TokenType = "!="
	LT TokenType = "<"
	LE TokenType = "<="
	GT TokenType = ">"
	GE TokenType = ">="

	// Logical operators
	AND TokenType = "&&"
	OR  TokenType = "||"
	NOT TokenType = "!"

	// Bitwise operators
	BITWISE_AND TokenType = "&"
	BITWISE_OR  TokenType = "|"
	BITWISE_XOR TokenType = "^"
	BITWISE_NOT TokenType = "~"
	LEFT_SHIFT  TokenType = "<<"
	RIGHT_SHIFT TokenType = ">>"

	// Increment/Decrement
	INCREMENT TokenType = "++"
	DECREMENT TokenType = "--"

	// Delimiters
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	SEMICOLON    TokenType = ";"
	COMMA        TokenType = ","
	DOT          TokenType = "."
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	ARROW        TokenType = "->"
)

var keywords = map[string]TokenType{
	// Base language
	"package":   PACKAGE,
	"import":    IMPORT,
	"func":      FUNC,
	"var":       VAR,
	"const":     CONST,
	"type":      TYPE,
	"struct":    STRUCT,
	"interface": INTERFACE,
	"if":        IF,
	"else":      ELSE,
	"for":       FOR,
	"range":     RANGE,
	"switch":    SWITCH,
	"case":      CASE,
	"default":   DEFAULT,
	"break":     BREAK,
	"continue":  CONTINUE,
	"return":    RETURN,
	"go":        GO,
	"defer":     DEFER,
	"select":    SELECT,
	"chan":      CHAN,
	"map":       MAP,
	"true":      BOOLEAN,
	"false":     BOOLEAN,

	// Class extension
	"class":   CLASS,
	"new":     NEW,
	"this":    THIS,
	"super":   SUPER,
	"extends": EXTENDS,

	// Exception extension
	"try":       TRY,
	"catch":     CATCH,
	"finally":   FINALLY,
	"throw":     THROW,
	"exception": EXCEPTION,
}

// twoCharOperators is matched before oneCharOperators so that the longest
// spelling wins.
var twoCharOperators = map[string]TokenType{
	"==": EQ,
	"!=": NE,
	"<=": LE,
	">=": GE,
	"&&": AND,
	"||": OR,
	"<<": LEFT_SHIFT,
	">>": RIGHT_SHIFT,
	"++": INCREMENT,
	"--": DECREMENT,
	":=": SHORT_ASSIGN,
	"+=": PLUS_ASSIGN,
	"-=": MINUS_ASSIGN,
	"*=": MULT_ASSIGN,
	"/=": DIV_ASSIGN,
	"%=": MOD_ASSIGN,
	"::": DOUBLE_COLON,
	"->": ARROW,
}

var oneCharOperators = map[byte]TokenType{
	'=': ASSIGN,
	'+': PLUS,
	'-': MINUS,
	'*': MULTIPLY,
	'/': DIVIDE,
	'%': MODULO,
	'<': LT,
	'>': GT,
	'!': NOT,
	'&': BITWISE_AND,
	'|': BITWISE_OR,
	'^': BITWISE_XOR,
	'~': BITWISE_NOT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	';': SEMICOLON,
	',': COMMA,
	'.': DOT,
	':': COLON,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}
