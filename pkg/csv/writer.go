package csv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Writer writes rows using the dialect of an Options value.
//
// A field is quoted when it contains the separator or the newline, or when it
// starts with the quote. Inside quotes every quote is preceded by the escape.
// An escape in the value is written as is and takes the following character
// with it, exactly as the parser reads it back.
type Writer struct {
	w    *bufio.Writer
	opts Options
	buf  []byte
	err  error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{
		w:    bufio.NewWriter(w),
		opts: opts,
	}
}

// Write writes one row of fields followed by the newline.
func (w *Writer) Write(fields []string) error {
	if w.err != nil {
		return w.err
	}
	w.buf = w.buf[:0]
	for i, f := range fields {
		if i > 0 {
			w.buf = utf8.AppendRune(w.buf, w.opts.Separator)
		}
		var err error
		if w.buf, err = appendField(w.buf, f, w.opts); err != nil {
			return err
		}
	}
	w.buf = utf8.AppendRune(w.buf, w.opts.Newline)
	_, w.err = w.w.Write(w.buf)
	return w.err
}

// WriteRow writes the values of row.
func (w *Writer) WriteRow(row *Row) error {
	return w.Write(row.values)
}

// WriteTable writes the header line, when the table captures headers, then
// every data row.
func (w *Writer) WriteTable(t *Table) error {
	if t.HasHeaders() && t.headers.Len() > 0 {
		if err := w.Write(t.Headers()); err != nil {
			return err
		}
	}
	for _, row := range t.rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Error reports any error that occurred while writing or flushing.
func (w *Writer) Error() error {
	return w.err
}

// Render converts a Table back to delimited text.
//
// Example:
//
//	t, _ := csv.ReadString("name;note\nAlice;\"a;b\"\n")
//	out, _ := csv.Render(t, csv.DefaultOptions())
//	// out: name;note\nAlice;"a;b"\n
func Render(t *Table, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, opts)
	if err := w.WriteTable(t); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// appendField appends value to buf, quoting it when needed.
func appendField(buf []byte, value string, opts Options) ([]byte, error) {
	if !needsQuoting(value, opts) {
		return append(buf, value...), nil
	}

	buf = utf8.AppendRune(buf, opts.Quote)
	runes := []rune(value)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case opts.Quote:
			buf = utf8.AppendRune(buf, opts.Escape)
			buf = utf8.AppendRune(buf, r)
		case opts.Escape:
			// The parser keeps an escape together with the next character,
			// unless that character is a quote.
			if i+1 == len(runes) || runes[i+1] == opts.Quote {
				return buf, fmt.Errorf("%w: escape before quote or at end of %q", ErrUnencodable, value)
			}
			buf = utf8.AppendRune(buf, r)
			buf = utf8.AppendRune(buf, runes[i+1])
			i++
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return utf8.AppendRune(buf, opts.Quote), nil
}

func needsQuoting(value string, opts Options) bool {
	if value == "" {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(value); r == opts.Quote {
		return true
	}
	return strings.ContainsRune(value, opts.Separator) || strings.ContainsRune(value, opts.Newline)
}
