package lexer

import (
	"fmt"
	"strings"

	"goex/pkg/errors"
	"goex/pkg/source"
)

// Lexer holds the state of the scanner.
type Lexer struct {
	src          *source.SourceFile
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column number
}

// NewLexer creates a new Lexer for a raw input string.
func NewLexer(input string) *Lexer {
	return NewLexerWithSource(source.NewEvalSource(input))
}

// NewLexerWithSource creates a new Lexer attached to a SourceFile, so that
// errors carry a reference back to the unit they came from.
func NewLexerWithSource(src *source.SourceFile) *Lexer {
	l := &Lexer{src: src, input: src.Content, line: 1, column: 0}
	l.readChar() // Initialize l.ch, l.position, l.readPosition
	return l
}

// Tokenize scans the whole input and returns the ordered token sequence,
// terminated by an EOF token. Whitespace other than newline is discarded;
// newlines and comments become explicit tokens. The first lexical error
// aborts the scan.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// readChar gives us the next character and advances our position in the
// input string. It also updates the line and column count.
func (l *Lexer) readChar() {
	// Before advancing, check if the current character was a newline
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL signifies EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace consumes spaces, tabs and carriage returns. Newlines are
// significant and handled by nextToken.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()

	// Capture token start position *after* skipping whitespace
	startLine := l.line
	startCol := l.column
	startPos := l.position

	makeToken := func(tokType TokenType, literal string) Token {
		return Token{Type: tokType, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	switch {
	case l.ch == 0:
		return makeToken(EOF, ""), nil

	case l.ch == '\n':
		l.readChar()
		return makeToken(NEWLINE, "\\n"), nil

	case l.ch == '/' && (l.peekChar() == '/' || l.peekChar() == '*'):
		comment, err := l.readComment()
		if err != nil {
			return Token{}, err
		}
		return makeToken(COMMENT, comment), nil

	case l.ch == '"' || l.ch == '\'':
		str, err := l.readString(l.ch)
		if err != nil {
			return Token{}, err
		}
		return makeToken(STRING, str), nil

	case isDigit(l.ch):
		return makeToken(NUMBER, l.readNumber()), nil

	case isLetter(l.ch):
		literal := l.readIdentifier()
		return makeToken(LookupIdent(literal), literal), nil
	}

	// Two-character operators are matched before one-character ones.
	if l.peekChar() != 0 {
		twoChar := string(l.ch) + string(l.peekChar())
		if tokType, ok := twoCharOperators[twoChar]; ok {
			l.readChar()
			l.readChar()
			return makeToken(tokType, twoChar), nil
		}
	}

	if tokType, ok := oneCharOperators[l.ch]; ok {
		literal := string(l.ch)
		l.readChar()
		return makeToken(tokType, literal), nil
	}

	return Token{}, l.errorf(startLine, startCol, startPos, "unrecognized character %q", l.ch)
}

// readIdentifier reads an identifier (letters, digits, _) and advances the
// lexer's position. It returns the literal string found.
func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads a maximal run of digits with at most one decimal point.
// A second '.' terminates the number.
func (l *Lexer) readNumber() string {
	startPos := l.position
	hasDot := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDot {
				break // second dot, stop reading
			}
			hasDot = true
		}
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readString reads a string literal enclosed in the given quote character.
// It handles the escape set \n \t \r \\ \" \'; any other escaped character
// is taken literally. An unterminated string is a lexical error.
func (l *Lexer) readString(quote byte) (string, error) {
	startLine := l.line
	startCol := l.column
	startPos := l.position

	var builder strings.Builder
	l.readChar() // Consume the opening quote

	for l.ch != quote {
		if l.ch == 0 {
			return "", l.errorf(startLine, startCol, startPos, "unclosed string")
		}
		if l.ch == '\\' {
			l.readChar() // Consume the backslash
			if l.ch == 0 {
				return "", l.errorf(startLine, startCol, startPos, "unclosed string")
			}
			switch l.ch {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			default:
				// \\, \", \' and anything else: take the character as-is
				builder.WriteByte(l.ch)
			}
		} else {
			builder.WriteByte(l.ch)
		}
		l.readChar()
	}

	l.readChar() // Consume the closing quote
	return builder.String(), nil
}

// readComment reads a line comment or a block comment, returning the raw
// comment text. An unterminated block comment is a lexical error.
func (l *Lexer) readComment() (string, error) {
	startLine := l.line
	startCol := l.column
	startPos := l.position

	if l.peekChar() == '/' {
		// Line comment: up to (not including) the newline
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return l.input[startPos:l.position], nil
	}

	// Block comment
	l.readChar() // Consume '/'
	l.readChar() // Consume '*'
	for {
		if l.ch == 0 {
			return "", l.errorf(startLine, startCol, startPos, "unclosed block comment")
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // Consume '*'
			l.readChar() // Consume '/'
			return l.input[startPos:l.position], nil
		}
		l.readChar()
	}
}

func (l *Lexer) errorf(line, column, startPos int, format string, args ...interface{}) *errors.LexicalError {
	return &errors.LexicalError{
		Position: errors.Position{
			Line:     line,
			Column:   column,
			StartPos: startPos,
			EndPos:   l.position,
			Source:   l.src,
		},
		Msg: fmt.Sprintf(format, args...),
	}
}

// isLetter checks if the character is a letter or underscore.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
