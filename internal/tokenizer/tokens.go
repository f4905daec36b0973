// Package tokenizer implements the character-driven state machine that splits
// delimited text into fields and rows.
package tokenizer

import "fmt"

// State is the state of the tokenizer between two characters.
//
// Note: exactly one state is active at any time. The tokenizer starts in
// BeforeField and returns to it after every completed field.
type State int

const (
	// BeforeField is the state at the start of a field.
	BeforeField State = iota
	// InField is the state inside an unquoted field.
	InField
	// InQuotedField is the state inside a quoted field.
	InQuotedField
	// MaybeEscapedQuote is the state right after an escape inside a quoted field.
	MaybeEscapedQuote
	// BeforeSeparator is the state right after the closing quote of a field.
	BeforeSeparator
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case BeforeField:
		return "BeforeField"
	case InField:
		return "InField"
	case InQuotedField:
		return "InQuotedField"
	case MaybeEscapedQuote:
		return "MaybeEscapedQuote"
	case BeforeSeparator:
		return "BeforeSeparator"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// class is the classification of one input character against the
// configured delimiters.
type class int

const (
	classOther class = iota
	classSeparator
	classQuote
	classNewline
	classEscape
)
