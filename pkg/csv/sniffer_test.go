package csv_test

import (
	"testing"

	"github.com/shapestone/smarter-csv/pkg/csv"
)

func TestSniffer(t *testing.T) {
	tests := []struct {
		name       string
		sample     string
		wantSep    rune
		wantHeader bool
	}{
		{"comma with header", "name,age\nAlice,30\nBob,25\n", ',', true},
		{"semicolon with header", "a;b;c\n1;2;3\n", ';', true},
		{"tab without header", "1\t2\n3\t4\n", '\t', false},
		{"pipe single line", "x|y\n", '|', false},
		{"empty", "", ';', false},
		{"quoted separators ignored", "\"a,b\";c\n\"d,e\";f\n", ';', true},
		{"tie prefers semicolon", "a;b,c\n", ';', false},
		{"consistent beats frequent", "a,b,c;d\n1;2\n3,4,5;6\n", ';', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := csv.NewSniffer(tt.sample, '"', '\n')
			if got := s.DetectSeparator(); got != tt.wantSep {
				t.Errorf("DetectSeparator() = %q, want %q", got, tt.wantSep)
			}
			if got := s.HasHeader(); got != tt.wantHeader {
				t.Errorf("HasHeader() = %v, want %v", got, tt.wantHeader)
			}
		})
	}
}

func TestSniffOptions(t *testing.T) {
	opts := csv.SniffOptions("id,email\n1,a@example.com\n2,b@example.com\n")
	if opts.Separator != ',' {
		t.Errorf("Separator = %q, want ','", opts.Separator)
	}
	if !opts.HasHeaders {
		t.Error("HasHeaders = false, want true")
	}
	if opts.Quote != '"' || opts.Escape != '\\' || opts.Newline != '\n' {
		t.Errorf("unexpected dialect: %+v", opts)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	opts = csv.SniffOptions("1,2\n3,4\n")
	if opts.HasHeaders {
		t.Error("numeric first row detected as header")
	}
}
