package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

var (
	// ErrMalformedInput indicates a closed quoted field that is not followed
	// by a separator or a newline.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnterminatedQuote indicates that the input ended inside a quoted field.
	ErrUnterminatedQuote = fmt.Errorf("%w: unterminated quoted field", ErrMalformedInput)
)

// MalformedError reports the offending character and its position.
type MalformedError struct {
	// Char is the offending character. It is 0 when the input ended early.
	Char rune
	// Line is the line of the offending character (1-indexed).
	Line int
	// Column is the column of the offending character (1-indexed).
	Column int
	// Err is ErrMalformedInput or ErrUnterminatedQuote.
	Err error
}

func (e *MalformedError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("%v at (%d:%d)", e.Err, e.Line, e.Column)
	}
	return fmt.Sprintf("separator or newline expected, got %q at (%d:%d)", e.Char, e.Line, e.Column)
}

// Unwrap returns the underlying error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Options configures the delimiters and the event callbacks of a Tokenizer.
//
// The four delimiters must be distinct from each other. The tokenizer does not
// check it; callers validate their configuration before building one.
type Options struct {
	// Separator ends a field. Default: ';'
	Separator rune
	// Quote opens and closes a quoted field. Default: '"'
	Quote rune
	// Newline ends a row. Default: '\n'
	Newline rune
	// Escape, inside a quoted field, turns the following quote into a literal
	// quote. Default: '\\'
	Escape rune

	// OnField is invoked with the raw text of every completed field.
	OnField func(field string)
	// OnRow is invoked with the fields of every completed row. The slice is
	// owned by the callee.
	OnRow func(row []string)
}

// DefaultOptions returns the default delimiters with no callbacks.
func DefaultOptions() Options {
	return Options{
		Separator: ';',
		Quote:     '"',
		Newline:   '\n',
		Escape:    '\\',
	}
}

// Tokenizer consumes characters one at a time and fires field and row events
// synchronously from Feed.
type Tokenizer struct {
	opts  Options
	state State

	field strings.Builder
	row   []string

	line   int
	column int
	offset int

	err error
}

// New creates a Tokenizer in the BeforeField state at line 1, column 1.
func New(opts Options) *Tokenizer {
	return &Tokenizer{
		opts:   opts,
		state:  BeforeField,
		line:   1,
		column: 1,
	}
}

// State returns the current state.
func (t *Tokenizer) State() State {
	return t.state
}

// Position returns the line and column of the next character to be fed.
func (t *Tokenizer) Position() (line, column int) {
	return t.line, t.column
}

// Offset returns the number of characters consumed so far.
func (t *Tokenizer) Offset() int {
	return t.offset
}

// Err returns the error that stopped the tokenizer, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Feed consumes one character.
//
// Once Feed has returned an error the tokenizer is unusable: every later call
// returns the same error.
func (t *Tokenizer) Feed(r rune) error {
	if t.err != nil {
		return t.err
	}
	c := t.classify(r)

	switch t.state {
	case BeforeField:
		switch c {
		case classSeparator:
			t.gotField()
		case classQuote:
			t.state = InQuotedField
		case classNewline:
			t.gotField()
			t.gotRow()
		default:
			t.push(r)
			t.state = InField
		}
	case InField:
		switch c {
		case classSeparator:
			t.gotField()
			t.state = BeforeField
		case classNewline:
			t.gotField()
			t.gotRow()
			t.state = BeforeField
		default:
			t.push(r)
		}
	case InQuotedField:
		switch c {
		case classQuote:
			t.state = BeforeSeparator
		case classEscape:
			t.state = MaybeEscapedQuote
		default:
			t.push(r)
		}
	case MaybeEscapedQuote:
		// The escape only escapes a quote; before anything else it is literal.
		if c != classQuote {
			t.push(t.opts.Escape)
		}
		t.push(r)
		t.state = InQuotedField
	case BeforeSeparator:
		switch c {
		case classSeparator:
			t.gotField()
			t.state = BeforeField
		case classNewline:
			t.gotField()
			t.gotRow()
			t.state = BeforeField
		default:
			t.err = &MalformedError{
				Char:   r,
				Line:   t.line,
				Column: t.column,
				Err:    ErrMalformedInput,
			}
			return t.err
		}
	}

	t.advance(c)
	return nil
}

// FeedString feeds every character of s in order and stops at the first error.
func (t *Tokenizer) FeedString(s string) error {
	for _, r := range s {
		if err := t.Feed(r); err != nil {
			return err
		}
	}
	return nil
}

// FeedStream drains stream through Feed and stops at the first error.
func (t *Tokenizer) FeedStream(stream shapetokenizer.Stream) error {
	for {
		r, ok := stream.PeekChar()
		if !ok {
			return nil
		}
		stream.NextChar()
		if err := t.Feed(r); err != nil {
			return err
		}
	}
}

// Flush terminates a pending row at the end of the input, as if a newline had
// been fed. It does nothing when the last row was already terminated.
// The input must not end inside a quoted field.
func (t *Tokenizer) Flush() error {
	if t.err != nil {
		return t.err
	}
	switch t.state {
	case InQuotedField, MaybeEscapedQuote:
		t.err = &MalformedError{
			Line:   t.line,
			Column: t.column,
			Err:    ErrUnterminatedQuote,
		}
		return t.err
	case BeforeField:
		if len(t.row) == 0 {
			return nil
		}
	}
	t.gotField()
	t.gotRow()
	t.state = BeforeField
	return nil
}

func (t *Tokenizer) classify(r rune) class {
	switch r {
	case t.opts.Separator:
		return classSeparator
	case t.opts.Quote:
		return classQuote
	case t.opts.Newline:
		return classNewline
	case t.opts.Escape:
		return classEscape
	default:
		return classOther
	}
}

func (t *Tokenizer) advance(c class) {
	t.offset++
	if c == classNewline {
		t.line++
		t.column = 1
		return
	}
	t.column++
}

func (t *Tokenizer) push(r rune) {
	t.field.WriteRune(r)
}

func (t *Tokenizer) gotField() {
	field := t.field.String()
	t.field.Reset()
	t.row = append(t.row, field)
	if t.opts.OnField != nil {
		t.opts.OnField(field)
	}
}

func (t *Tokenizer) gotRow() {
	row := t.row
	t.row = make([]string, 0, len(row))
	if t.opts.OnRow != nil {
		t.opts.OnRow(row)
	}
}
