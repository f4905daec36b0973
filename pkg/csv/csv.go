// Package csv parses delimited text into rows keyed by column name.
//
// Input is consumed one character at a time by a small state machine, so a
// table can be fed from any source in chunks of any size. The dialect is
// configurable: separator (default ';'), quote (default '"'), newline
// (default '\n') and escape (default '\\'). Inside a quoted field the escape
// character turns the following quote into a literal quote; before any other
// character it is kept as is.
//
// # Headers
//
// By default the first row names the columns and is not returned as data.
// Columns without a name, in rows wider than the header row or when
// Options.HasHeaders is false, are named after their zero-based index. A name
// already in use is prefixed with "_" until it is unique:
//
//	t, _ := csv.ReadString("z;2\na;b;c\n")
//	t.Headers() // [z 2 _2]
//
// Header names are never renamed and the list never shrinks.
//
// # Parsing APIs
//
//   - ReadString, ReadStringWithOptions - parse a string into a Table
//   - ReadReader, ReadFile - parse a whole io.Reader or file into a Table
//   - EachRowInFile - stream a file line by line, without keeping rows
//   - NewStreamTable, NewTable - feed text incrementally
//   - NewScanner - pull rows one at a time from an io.Reader
//
// # Thread Safety
//
// Tables, stream tables and scanners are not safe for concurrent use. Each
// call to a top-level function creates its own state, so distinct parses may
// run concurrently.
package csv

import (
	"bufio"
	"errors"
	"io"
	"os"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// ReadString parses input with the default options.
//
// A last line without a terminating newline still yields a row.
//
// Example:
//
//	t, err := csv.ReadString("name;age\nAlice;30\nBob;25\n")
//	if err != nil {
//	    // handle error
//	}
//	for _, row := range t.Rows() {
//	    name, _ := row.Get("name")
//	    fmt.Println(name)
//	}
func ReadString(input string) (*Table, error) {
	return ReadStringWithOptions(input, DefaultOptions())
}

// ReadStringWithOptions parses input with custom options.
//
// Example:
//
//	opts := csv.DefaultOptions()
//	opts.Separator = ','
//	opts.HasHeaders = false
//	t, err := csv.ReadStringWithOptions("a,b\nc,d\n", opts)
func ReadStringWithOptions(input string, opts Options) (*Table, error) {
	return readStream(shapetokenizer.NewStream(input), opts)
}

// ReadReader parses everything read from reader into a Table.
//
// Example:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	t, err := csv.ReadReader(file, csv.DefaultOptions())
func ReadReader(reader io.Reader, opts Options) (*Table, error) {
	t, err := NewTable(opts, nil)
	if err != nil {
		return nil, err
	}
	if _, err := t.ReadFrom(reader); err != nil {
		return nil, err
	}
	if err := t.Flush(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadFile parses the file at path into a Table.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadReader(f, opts)
}

// EachRowInFile streams the file at path line by line and calls fn with every
// data row. Rows are not retained. The returned StreamTable gives access to
// the final headers.
//
// Example:
//
//	st, err := csv.EachRowInFile("data.csv", csv.DefaultOptions(), func(row *csv.Row) {
//	    fmt.Println(row)
//	})
func EachRowInFile(path string, opts Options, fn func(*Row)) (*StreamTable, error) {
	st, err := NewStreamTable(opts, fn)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := bufio.NewReader(f)
	for {
		line, err := lines.ReadString(byte(eol(opts.Newline)))
		if _, werr := st.WriteString(line); werr != nil {
			return nil, werr
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	if err := st.Flush(); err != nil {
		return nil, err
	}
	return st, nil
}

func readStream(stream shapetokenizer.Stream, opts Options) (*Table, error) {
	t, err := NewTable(opts, nil)
	if err != nil {
		return nil, err
	}
	if err := t.FeedStream(stream); err != nil {
		return nil, err
	}
	if err := t.Flush(); err != nil {
		return nil, err
	}
	return t, nil
}

// eol returns the byte lines are split on. Chunks only need to end on a
// character boundary, so a multi-byte newline falls back to '\n'.
func eol(newline rune) rune {
	if newline < 0x80 {
		return newline
	}
	return '\n'
}
