package csv

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/smarter-csv/internal/header"
	"github.com/shapestone/smarter-csv/internal/tokenizer"
)

// baseTable holds the header configuration shared by StreamTable and Table.
type baseTable struct {
	hasHeaders bool
	headers    *header.Registry
}

func newBaseTable(opts Options) baseTable {
	headers := header.New()
	for _, h := range opts.Headers {
		headers.Append(h)
	}
	return baseTable{
		hasHeaders: opts.HasHeaders,
		headers:    headers,
	}
}

// HasHeaders reports whether the first row names the columns.
func (b *baseTable) HasHeaders() bool {
	return b.hasHeaders
}

// Headers returns a copy of the current header names.
func (b *baseTable) Headers() []string {
	return b.headers.Names()
}

// capturing reports whether the next row is the header row.
func (b *baseTable) capturing() bool {
	return b.hasHeaders && b.headers.Len() == 0
}

// buildRow binds fields to the headers, capturing them as headers when
// no header is known yet.
func (b *baseTable) buildRow(fields []string, line, offset int) *Row {
	if b.capturing() {
		return newHeaderRow(b.headers, fields, line, offset)
	}
	return newRow(b.headers, fields, line, offset)
}

// StreamTable parses text fed to it and hands every row to a callback
// without retaining it. Memory use is bounded by the current row and the
// headers, whatever the size of the input.
//
// Example:
//
//	st, err := csv.NewStreamTable(csv.DefaultOptions(), func(row *csv.Row) {
//	    name, _ := row.Get("name")
//	    fmt.Println(name)
//	})
//	if err != nil {
//	    // handle error
//	}
//	if _, err := io.Copy(st, file); err != nil {
//	    // handle error
//	}
//	if err := st.Flush(); err != nil {
//	    // handle error
//	}
type StreamTable struct {
	baseTable
	tok   *tokenizer.Tokenizer
	fn    func(*Row)
	onRow func([]string)
	start int
	begin int
	// partial holds the start of a character split across two Writes.
	partial []byte
	err     error
}

// NewStreamTable creates a StreamTable that calls fn with every data row.
// The captured header row is never passed to fn. fn may be nil.
func NewStreamTable(opts Options, fn func(*Row)) (*StreamTable, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &StreamTable{
		baseTable: newBaseTable(opts),
		fn:        fn,
		onRow:     opts.OnRow,
		start:     1,
	}
	s.tok = tokenizer.New(opts.tokenizerOptions(s.gotRow))
	return s, nil
}

func (s *StreamTable) gotRow(fields []string) {
	line, offset := s.start, s.begin
	// The terminating newline has not been counted yet.
	cur, _ := s.tok.Position()
	s.start, s.begin = cur+1, s.tok.Offset()+1
	if s.onRow != nil {
		s.onRow(append([]string(nil), fields...))
	}
	row := s.buildRow(fields, line, offset)
	if row.IsHeader() || s.fn == nil {
		return
	}
	s.fn(row)
}

// Feed consumes one character.
// After the first error every call returns that error.
func (s *StreamTable) Feed(r rune) error {
	if s.err != nil {
		return s.err
	}
	if err := s.tok.Feed(r); err != nil {
		s.err = parseError(err, s.start)
	}
	return s.err
}

// WriteString feeds s and implements io.StringWriter. It returns the number
// of bytes consumed before the first error.
func (s *StreamTable) WriteString(str string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(s.partial) > 0 {
		return s.Write([]byte(str))
	}
	for i, r := range str {
		if err := s.Feed(r); err != nil {
			return i, err
		}
	}
	return len(str), nil
}

// Write feeds p as UTF-8 text and implements io.Writer. A character split
// across two calls is reassembled.
func (s *StreamTable) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	data := p
	if len(s.partial) > 0 {
		data = append(s.partial, p...)
		s.partial = nil
	}
	for len(data) > 0 {
		if !utf8.FullRune(data) {
			s.partial = append([]byte(nil), data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		if err := s.Feed(r); err != nil {
			return max(len(p)-len(data), 0), err
		}
		data = data[size:]
	}
	return len(p), nil
}

// FeedStream drains a shape-core character stream. The input is not flushed.
func (s *StreamTable) FeedStream(stream shapetokenizer.Stream) error {
	if s.err != nil {
		return s.err
	}
	if err := s.tok.FeedStream(stream); err != nil {
		s.err = parseError(err, s.start)
	}
	return s.err
}

// ReadFrom feeds everything read from r and implements io.ReaderFrom. It
// returns the number of bytes of r consumed. Read errors other than io.EOF
// are returned as is. The input is not flushed.
func (s *StreamTable) ReadFrom(r io.Reader) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var pending int64
	if len(s.partial) > 0 {
		pending = int64(len(s.partial))
		r = io.MultiReader(bytes.NewReader(s.partial), r)
		s.partial = nil
	}
	n, err := s.feedRunes(bufio.NewReader(r))
	return max(n-pending, 0), err
}

// feedRunes feeds every character of rr until io.EOF and returns the number
// of bytes consumed.
func (s *StreamTable) feedRunes(rr io.RuneReader) (int64, error) {
	var n int64
	for {
		r, size, err := rr.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		if err := s.Feed(r); err != nil {
			return n, err
		}
		n += int64(size)
	}
}

// Flush emits the last row when the input does not end with a newline.
func (s *StreamTable) Flush() error {
	if s.err != nil {
		return s.err
	}
	if len(s.partial) > 0 {
		line, column := s.tok.Position()
		s.err = &ParseError{
			StartLine: s.start,
			Line:      line,
			Column:    column,
			Err:       ErrIncompleteCharacter,
		}
		return s.err
	}
	if err := s.tok.Flush(); err != nil {
		s.err = parseError(err, s.start)
	}
	return s.err
}

// Position returns the line and column of the next character to be fed.
func (s *StreamTable) Position() (line, column int) {
	return s.tok.Position()
}

// Err returns the error that stopped the table, if any.
func (s *StreamTable) Err() error {
	return s.err
}

// Scanner provides a pull interface over a StreamTable. It reads only as much
// of the input as needed to produce the next row.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	scanner, err := csv.NewScanner(file, csv.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	for scanner.Scan() {
//	    row := scanner.Row()
//	    name, _ := row.Get("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader  *bufio.Reader
	table   *StreamTable
	pending []*Row
	current *Row
	err     error
	done    bool
}

// NewScanner creates a Scanner reading from reader with the given options.
func NewScanner(reader io.Reader, opts Options) (*Scanner, error) {
	s := &Scanner{
		reader: bufio.NewReader(reader),
	}
	table, err := NewStreamTable(opts, func(row *Row) {
		s.pending = append(s.pending, row)
	})
	if err != nil {
		return nil, err
	}
	s.table = table
	return s, nil
}

// Scan advances the scanner to the next row.
// It returns false at the end of the input or on error.
// After Scan returns false, the Err method will return any error that occurred.
func (s *Scanner) Scan() bool {
	for len(s.pending) == 0 {
		if s.done || s.err != nil {
			s.current = nil
			return false
		}
		s.fill()
	}
	s.current = s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return true
}

// fill feeds characters until a row is ready, the input ends or an error occurs.
func (s *Scanner) fill() {
	for len(s.pending) == 0 {
		r, _, err := s.reader.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
				return
			}
			s.done = true
			s.err = s.table.Flush()
			return
		}
		if err := s.table.Feed(r); err != nil {
			s.err = err
			return
		}
	}
}

// Row returns the current row.
// This should only be called after Scan() returns true.
func (s *Scanner) Row() *Row {
	return s.current
}

// Headers returns the header names known so far. With header capture
// enabled they are available after the first call to Scan().
func (s *Scanner) Headers() []string {
	return s.table.Headers()
}

// Err returns the error, if any, that was encountered during scanning.
// It returns nil at the end of the input.
func (s *Scanner) Err() error {
	return s.err
}
