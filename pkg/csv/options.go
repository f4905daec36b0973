package csv

import (
	"unicode/utf8"

	"github.com/shapestone/smarter-csv/internal/tokenizer"
)

// Options configures the dialect and the header handling of a table.
type Options struct {
	// Separator is the field delimiter.
	// Default: ';'
	Separator rune

	// Quote opens and closes a quoted field.
	// Default: '"'
	Quote rune

	// Newline terminates a row.
	// Default: '\n'
	Newline rune

	// Escape, inside a quoted field, makes the following quote literal.
	// Before any other character it is kept as is.
	// Default: '\\'
	Escape rune

	// HasHeaders controls whether the first row names the columns. It is
	// ignored when Headers is not empty.
	// Default: true
	HasHeaders bool

	// Headers pre-seeds the column names. Duplicates are disambiguated the
	// same way as any other name.
	// Default: empty
	Headers []string

	// OnField is invoked with the raw text of every completed field.
	OnField func(field string)

	// OnRow is invoked with a copy of the raw fields of every completed row,
	// before the row is bound to the headers.
	OnRow func(fields []string)
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Separator:  ';',
		Quote:      '"',
		Newline:    '\n',
		Escape:     '\\',
		HasHeaders: true,
	}
}

// Validate checks that every delimiter is a valid character and that no two
// delimiters are the same.
func (o Options) Validate() error {
	delims := []struct {
		field string
		r     rune
	}{
		{"Separator", o.Separator},
		{"Quote", o.Quote},
		{"Newline", o.Newline},
		{"Escape", o.Escape},
	}
	for i, d := range delims {
		if !validDelim(d.r) {
			return &OptionsError{Field: d.field, Message: "invalid delimiter"}
		}
		for _, prev := range delims[:i] {
			if prev.r == d.r {
				return &OptionsError{Field: d.field, Message: "same character as " + prev.field}
			}
		}
	}
	return nil
}

// Delimiter converts a configured delimiter string into a rune.
// The string must hold exactly one character.
//
// Example:
//
//	sep, err := csv.Delimiter("\t")
func Delimiter(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return 0, &OptionsError{Field: "delimiter", Message: "empty string"}
	}
	if size != len(s) {
		return 0, &OptionsError{Field: "delimiter", Message: "must be exactly one character: " + s}
	}
	if !validDelim(r) {
		return 0, &OptionsError{Field: "delimiter", Message: "invalid character"}
	}
	return r, nil
}

// validDelim reports whether r can be used as a delimiter.
func validDelim(r rune) bool {
	return r != 0 && utf8.ValidRune(r) && r != utf8.RuneError
}

// tokenizerOptions returns the tokenizer configuration for o with onRow as
// row callback.
func (o Options) tokenizerOptions(onRow func([]string)) tokenizer.Options {
	return tokenizer.Options{
		Separator: o.Separator,
		Quote:     o.Quote,
		Newline:   o.Newline,
		Escape:    o.Escape,
		OnField:   o.OnField,
		OnRow:     onRow,
	}
}
