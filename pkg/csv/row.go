package csv

import (
	"strings"

	"github.com/shapestone/smarter-csv/internal/header"
)

// Row is one parsed record bound to the headers of its table.
//
// The headers are shared with every other row of the same table and keep
// growing while the table is fed, so a row read later may report more headers
// than it had values for when it was parsed. Such trailing headers are absent
// from the row.
type Row struct {
	headers *header.Registry
	values  []string
	line    int
	offset  int
	header  bool
}

// newRow binds fields to the registry, naming any new column.
func newRow(headers *header.Registry, fields []string, line, offset int) *Row {
	headers.EnsureWidth(len(fields))
	return &Row{
		headers: headers,
		values:  fields,
		line:    line,
		offset:  offset,
	}
}

// newHeaderRow names the columns after fields. Each value of the returned row
// is its own header name.
func newHeaderRow(headers *header.Registry, fields []string, line, offset int) *Row {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = headers.Append(f)
	}
	return &Row{
		headers: headers,
		values:  names,
		line:    line,
		offset:  offset,
		header:  true,
	}
}

// Get returns the value of the column named name.
// Returns ("", false) if there is no such header or the row is narrower.
func (r *Row) Get(name string) (string, bool) {
	i, ok := r.headers.Index(name)
	if !ok {
		return "", false
	}
	return r.At(i)
}

// At returns the value at the zero-based column index i.
func (r *Row) At(i int) (string, bool) {
	if i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Len returns the number of values in the row.
func (r *Row) Len() int {
	return len(r.values)
}

// Fields returns a copy of the values in column order.
func (r *Row) Fields() []string {
	fields := make([]string, len(r.values))
	copy(fields, r.values)
	return fields
}

// Headers returns the current header names of the table the row belongs to.
func (r *Row) Headers() []string {
	return r.headers.Names()
}

// Line returns the input line the row started on (1-indexed), or 0 for a
// row that was not parsed from text.
func (r *Row) Line() int {
	return r.line
}

// IsHeader reports whether the row was captured as the header row.
func (r *Row) IsHeader() bool {
	return r.header
}

// Map returns the row as a map from header name to value. Absent columns
// are not in the map.
func (r *Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, v := range r.values {
		if name, ok := r.headers.Name(i); ok {
			m[name] = v
		}
	}
	return m
}

// EachColumn calls fn for every header of the table, in order. ok is false
// for headers the row has no value for.
func (r *Row) EachColumn(fn func(name, value string, ok bool)) {
	for i, name := range r.headers.Names() {
		value, ok := r.At(i)
		fn(name, value, ok)
	}
}

// String returns the values in header order joined by ", ". Absent values
// are rendered empty.
func (r *Row) String() string {
	var sb strings.Builder
	for i := 0; i < r.headers.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v, ok := r.At(i); ok {
			sb.WriteString(v)
		}
	}
	return sb.String()
}
