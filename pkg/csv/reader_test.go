package csv_test

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/shapestone/smarter-csv/pkg/csv"
)

// multibyteInput repeats a row holding a two-byte character so that some
// occurrence straddles every usual buffer boundary.
func multibyteInput(rows int) string {
	return "name;city\n" + strings.Repeat("ab;Zürich\n", rows)
}

func checkCities(t *testing.T, tbl *csv.Table, rows int) {
	t.Helper()
	if tbl.Len() != rows {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), rows)
	}
	for i, row := range tbl.Rows() {
		if city, _ := row.Get("city"); city != "Zürich" {
			t.Fatalf("row %d (line %d): city = %q", i, row.Line(), city)
		}
	}
}

func TestReadFile_CharacterAcrossBufferBoundary(t *testing.T) {
	head := "name;city\n"
	// "ü" occupies bytes 8191 and 8192.
	pad := strings.Repeat("x", 8191-len(head)-2)
	content := head + pad + ";Zürich\n" + strings.Repeat("ab;Zürich\n", 2000)
	if i := strings.Index(content, "ü"); i != 8191 {
		t.Fatalf("test input is misaligned: ü at %d", i)
	}

	tbl, err := csv.ReadFile(writeFile(t, content), csv.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkCities(t, tbl, 2001)
}

func TestReadReader_Chunking(t *testing.T) {
	input := multibyteInput(3000)
	tests := []struct {
		name   string
		reader io.Reader
	}{
		{"whole", strings.NewReader(input)},
		{"one byte", iotest.OneByteReader(strings.NewReader(input))},
		{"half", iotest.HalfReader(strings.NewReader(input))},
		{"data with error", iotest.DataErrReader(strings.NewReader(input))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := csv.ReadReader(tt.reader, csv.DefaultOptions())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkCities(t, tbl, 3000)
		})
	}
}

func TestReadReader_CJK(t *testing.T) {
	input := "名前;年齢\n" + strings.Repeat("値;一\n", 500)
	tbl, err := csv.ReadReader(iotest.OneByteReader(strings.NewReader(input)), csv.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 500 {
		t.Fatalf("Len() = %d, want 500", tbl.Len())
	}
	row, _ := tbl.Row(499)
	if v, _ := row.Get("年齢"); v != "一" {
		t.Errorf("Get(年齢) = %q", v)
	}
}

func TestReadReader_ReadError(t *testing.T) {
	boom := errors.New("disk failure")
	reader := io.MultiReader(strings.NewReader("h\n1\n2"), iotest.ErrReader(boom))

	_, err := csv.ReadReader(reader, csv.DefaultOptions())
	if !errors.Is(err, boom) {
		t.Errorf("ReadReader error = %v, want %v", err, boom)
	}
}

func TestStreamTable_ReadFromError(t *testing.T) {
	boom := errors.New("disk failure")
	var rows int
	st, err := csv.NewStreamTable(csv.DefaultOptions(), func(*csv.Row) { rows++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := st.ReadFrom(io.MultiReader(strings.NewReader("h\n1\n"), iotest.ErrReader(boom)))
	if !errors.Is(err, boom) {
		t.Fatalf("ReadFrom error = %v, want %v", err, boom)
	}
	if n != 4 || rows != 1 {
		t.Errorf("ReadFrom consumed %d bytes and %d rows, want 4 and 1", n, rows)
	}
}

func TestStreamTable_WriteSplitsCharacters(t *testing.T) {
	input := multibyteInput(1000)

	var cities []string
	st, err := csv.NewStreamTable(csv.DefaultOptions(), func(row *csv.Row) {
		city, _ := row.Get("city")
		cities = append(cities, city)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := bufio.NewWriterSize(st, 4096)
	for _, line := range strings.SplitAfter(input, "\n") {
		if _, err := w.WriteString(line); err != nil {
			t.Fatalf("WriteString: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("bufio Flush: %v", err)
	}
	if err := st.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(cities) != 1000 {
		t.Fatalf("got %d rows, want 1000", len(cities))
	}
	for i, city := range cities {
		if city != "Zürich" {
			t.Fatalf("row %d: city = %q", i, city)
		}
	}
}

func TestStreamTable_WriteByteByByte(t *testing.T) {
	input := "名前;年齢\n値;一\n"
	var got []string
	st, err := csv.NewStreamTable(csv.DefaultOptions(), func(row *csv.Row) {
		got = append(got, row.Fields()...)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(input); i++ {
		n, err := st.Write([]byte{input[i]})
		if err != nil || n != 1 {
			t.Fatalf("Write byte %d = (%d, %v)", i, n, err)
		}
	}
	// A string write after a partial byte write completes the character.
	if _, err := st.Write([]byte("値;\xe4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := st.WriteString("\xb8\x80\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := []string{"値", "一", "値", "一"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %q, want %q", got, want)
	}
	for _, f := range got {
		if !utf8.ValidString(f) || strings.ContainsRune(f, utf8.RuneError) {
			t.Errorf("field %q holds a replacement character", f)
		}
	}
}

func TestStreamTable_FlushIncompleteCharacter(t *testing.T) {
	st, err := csv.NewStreamTable(csv.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, err := st.Write([]byte("a;Z\xc3")); err != nil || n != 4 {
		t.Fatalf("Write = (%d, %v), want (4, nil)", n, err)
	}

	err = st.Flush()
	if !errors.Is(err, csv.ErrIncompleteCharacter) {
		t.Fatalf("Flush = %v, want ErrIncompleteCharacter", err)
	}
	var pe *csv.ParseError
	if !errors.As(err, &pe) || pe.Line != 1 || pe.Column != 4 {
		t.Errorf("error = %+v, want position (1:4)", err)
	}
}

func TestStreamTable_WriteReportsConsumedBytes(t *testing.T) {
	st, err := csv.NewStreamTable(csv.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := st.Write([]byte("é\n\"x\"y"))
	if !errors.Is(err, csv.ErrMalformedInput) {
		t.Fatalf("Write error = %v, want ErrMalformedInput", err)
	}
	if n != 6 {
		t.Errorf("Write consumed %d bytes, want 6", n)
	}
}
