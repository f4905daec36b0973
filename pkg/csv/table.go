package csv

import "strings"

// Table parses text fed to it and keeps every data row in input order.
//
// Example:
//
//	t, err := csv.NewTable(csv.DefaultOptions(), nil)
//	if err != nil {
//	    // handle error
//	}
//	if _, err := t.WriteString("name;age\nAlice;30\n"); err != nil {
//	    // handle error
//	}
//	row, _ := t.Row(0)
//	age, _ := row.Get("age") // "30"
type Table struct {
	*StreamTable
	rows []*Row
}

// NewTable creates a Table. fn, if not nil, is also called with every data
// row as soon as it is parsed.
func NewTable(opts Options, fn func(*Row)) (*Table, error) {
	t := &Table{}
	st, err := NewStreamTable(opts, func(row *Row) {
		t.rows = append(t.rows, row)
		if fn != nil {
			fn(row)
		}
	})
	if err != nil {
		return nil, err
	}
	t.StreamTable = st
	return t, nil
}

// AddRow binds fields to the headers as if they had been parsed, and keeps
// the row unless it was captured as the header row. The row's line is 0.
func (t *Table) AddRow(fields []string) *Row {
	values := make([]string, len(fields))
	copy(values, fields)
	row := t.buildRow(values, 0, 0)
	if !row.IsHeader() {
		t.rows = append(t.rows, row)
	}
	return row
}

// Rows returns the data rows in input order.
func (t *Table) Rows() []*Row {
	rows := make([]*Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the data row at index i (0 = first data row, not the header).
func (t *Table) Row(i int) (*Row, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// Each calls fn with every data row in order.
func (t *Table) Each(fn func(*Row)) {
	for _, row := range t.rows {
		fn(row)
	}
}

// String returns the headers in parentheses on the first line, then one
// line per row as formatted by Row.String.
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strings.Join(t.Headers(), ", "))
	sb.WriteString(")")
	for _, row := range t.rows {
		sb.WriteString("\n")
		sb.WriteString(row.String())
	}
	return sb.String()
}
