package errors

import (
	"fmt"
	"os"
	"strings"
)

// GoexError is the interface implemented by all goex errors.
type GoexError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Lexical", "Syntax", "Generation", "Cycle"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// LexicalError represents an error during tokenization: an unrecognized
// character, an unterminated string, or an unterminated block comment.
// Always fatal to the unit.
type LexicalError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("Lexical Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LexicalError) Pos() Position   { return e.Position }
func (e *LexicalError) Kind() string    { return "Lexical" }
func (e *LexicalError) Message() string { return e.Msg }
func (e *LexicalError) Unwrap() error   { return e.Cause }
func (e *LexicalError) CausedBy(cause error) *LexicalError {
	e.Cause = cause
	return e
}

// SyntaxError represents an unexpected token during parsing. It carries
// the expected-vs-actual token description in Msg. Fatal to the unit,
// except at the parser's single ranged-for backtrack point.
type SyntaxError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// GenerationError represents an AST node kind the code generator does not
// recognize. This is a contract violation between parser and generator,
// always fatal, never retried.
type GenerationError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Generation Error: %s", e.Msg)
}
func (e *GenerationError) Pos() Position   { return e.Position }
func (e *GenerationError) Kind() string    { return "Generation" }
func (e *GenerationError) Message() string { return e.Msg }
func (e *GenerationError) Unwrap() error   { return e.Cause }
func (e *GenerationError) CausedBy(cause error) *GenerationError {
	e.Cause = cause
	return e
}

// CycleError represents a circular dependency between translation units.
// It aborts the whole project build.
type CycleError struct {
	Position
	Unit  string // The unit at which the cycle was detected
	Msg   string
	Cause error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Cycle Error: %s", e.Msg)
}
func (e *CycleError) Pos() Position   { return e.Position }
func (e *CycleError) Kind() string    { return "Cycle" }
func (e *CycleError) Message() string { return e.Msg }
func (e *CycleError) Unwrap() error   { return e.Cause }

// --- Error Reporting ---

// DisplayErrors prints a list of goex errors to stderr in a user-friendly
// format, including the source line and position marker when available.
func DisplayErrors(errs []GoexError) {
	if len(errs) == 0 {
		return
	}

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		if pos.Source == nil || pos.Line <= 0 {
			fmt.Fprintf(os.Stderr, "%s Error: %s\n", kind, msg)
			continue
		}

		lines := pos.Source.Lines()
		lineIdx := pos.Line - 1
		if lineIdx >= len(lines) {
			fmt.Fprintf(os.Stderr, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		// Format: <Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(os.Stderr, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(os.Stderr, "  %s\n", sourceLine)

		marker := strings.Repeat(" ", pos.Column) + "^"
		fmt.Fprintf(os.Stderr, "  %s\n", marker)
		fmt.Fprintln(os.Stderr)
	}
}

// DisplayError reports a single error through DisplayErrors when it is a
// GoexError, falling back to a plain stderr line otherwise.
func DisplayError(err error) {
	if err == nil {
		return
	}
	if ge, ok := err.(GoexError); ok {
		DisplayErrors([]GoexError{ge})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
