package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/smarter-csv/internal/tokenizer"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	// StartLine is the line where the failing row started (1-indexed).
	StartLine int
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Column is the column where the error occurred (1-indexed).
	Column int
	// Char is the offending character, or 0 when the input ended early.
	Char rune
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	pos := fmt.Sprintf("line %d", e.Line)
	if e.StartLine > 0 && e.StartLine != e.Line {
		pos = fmt.Sprintf("line %d (started line %d)", e.Line, e.StartLine)
	}
	if e.Char == 0 {
		return fmt.Sprintf("parse error on %s, column %d: %v", pos, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on %s, column %d: %v: separator or newline expected, got %q",
		pos, e.Column, e.Err, e.Char)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Common errors
var (
	// ErrMalformedInput indicates a closed quoted field followed by something
	// other than a separator or a newline.
	ErrMalformedInput = tokenizer.ErrMalformedInput

	// ErrUnterminatedQuote indicates that the input ended inside a quoted field.
	// It matches ErrMalformedInput with errors.Is.
	ErrUnterminatedQuote = tokenizer.ErrUnterminatedQuote

	// ErrUnencodable indicates a field value the configured dialect cannot
	// represent inside quotes.
	ErrUnencodable = errors.New("value cannot be encoded")

	// ErrIncompleteCharacter indicates that the bytes written to a table ended
	// in the middle of a UTF-8 encoded character.
	ErrIncompleteCharacter = errors.New("incomplete UTF-8 character at end of input")
)

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// parseError converts a tokenizer failure into a *ParseError for a row that
// started on startLine.
func parseError(err error, startLine int) error {
	var me *tokenizer.MalformedError
	if !errors.As(err, &me) {
		return err
	}
	return &ParseError{
		StartLine: startLine,
		Line:      me.Line,
		Column:    me.Column,
		Char:      me.Char,
		Err:       me.Err,
	}
}
