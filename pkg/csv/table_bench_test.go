package csv_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/shapestone/smarter-csv/pkg/csv"
)

func benchInput(rows int) string {
	var sb strings.Builder
	sb.WriteString("id;name;email;note\n")
	for i := 0; i < rows; i++ {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(";User ")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(";user")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("@example.com;\"quoted; \\\"note\\\"\"\n")
	}
	return sb.String()
}

func BenchmarkReadString(b *testing.B) {
	for _, rows := range []int{10, 1000} {
		input := benchInput(rows)
		b.Run(strconv.Itoa(rows), func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := csv.ReadString(input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStreamTable(b *testing.B) {
	input := benchInput(1000)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		st, err := csv.NewStreamTable(csv.DefaultOptions(), func(*csv.Row) {})
		if err != nil {
			b.Fatal(err)
		}
		if _, err := st.WriteString(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	tbl, err := csv.ReadString(benchInput(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := csv.Render(tbl, csv.DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
