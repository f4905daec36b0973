package csv_test

import (
	"strings"
	"testing"

	"github.com/shapestone/smarter-csv/pkg/csv"
)

type person struct {
	Name    string   `csv:"name"`
	Age     int      `csv:"age"`
	Score   *float64 `csv:"score"`
	Active  bool
	Ignored string  `csv:"-"`
	Nick    *string `csv:"nick"`
	Visits  uint16  `csv:"visits,omitempty"`
	private string
}

func firstRow(t *testing.T, input string) *csv.Row {
	t.Helper()
	tbl, err := csv.ReadString(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, ok := tbl.Row(0)
	if !ok {
		t.Fatal("no data row")
	}
	return row
}

func TestRow_Decode(t *testing.T) {
	row := firstRow(t, "name;age;score;ACTIVE;Ignored;nick;visits;private\nAlice;30;9.5;true;x;;7;p\n")

	var p person
	if err := row.Decode(&p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Name != "Alice" || p.Age != 30 || !p.Active || p.Visits != 7 {
		t.Errorf("decoded %+v", p)
	}
	if p.Score == nil || *p.Score != 9.5 {
		t.Errorf("Score = %v, want 9.5", p.Score)
	}
	if p.Ignored != "" {
		t.Errorf("Ignored = %q, want it untouched", p.Ignored)
	}
	if p.Nick != nil {
		t.Errorf("Nick = %q, want nil for an empty value", *p.Nick)
	}
	if p.private != "" {
		t.Errorf("unexported field was set to %q", p.private)
	}
}

func TestRow_Decode_NarrowRow(t *testing.T) {
	row := firstRow(t, "name;age\nBob\n")

	p := person{Age: 42}
	if err := row.Decode(&p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Name != "Bob" || p.Age != 42 {
		t.Errorf("decoded %+v", p)
	}
}

type base struct {
	ID int `csv:"id"`
}

func TestRow_Decode_Embedded(t *testing.T) {
	row := firstRow(t, "id;name\n7;Carol\n")

	var v struct {
		base
		Name string `csv:"name"`
	}
	if err := row.Decode(&v); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.ID != 7 || v.Name != "Carol" {
		t.Errorf("decoded %+v", v)
	}

	var p struct {
		*base
		Name string `csv:"name"`
	}
	if err := row.Decode(&p); err != nil {
		t.Fatalf("Decode with nil embedded pointer: %v", err)
	}
	if p.base != nil || p.Name != "Carol" {
		t.Errorf("decoded %+v", p)
	}
}

func TestRow_Decode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  any
		wantMsg string
	}{
		{"bad int", "age\nabc\n", &person{}, `csv: line 2, column "age": cannot parse "abc" as int`},
		{"bad bool", "active\nyes\n", &person{}, "cannot parse \"yes\" as bool"},
		{"uint overflow", "visits\n70000\n", &person{}, "as uint16"},
		{"unsupported type", "tags\na\n", &struct{ Tags []string }{}, "unsupported field type"},
		{"nil", "a\n1\n", nil, "Decode(nil)"},
		{"non-pointer", "a\n1\n", person{}, "non-pointer"},
		{"nil pointer", "a\n1\n", (*person)(nil), "Decode(nil"},
		{"pointer to non-struct", "a\n1\n", new(int), "pointer to struct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := firstRow(t, tt.input).Decode(tt.target)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}
