package tabular

import (
	"reflect"
	"testing"
)

func TestParseQuotedFields(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"embedded comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `a,"b""c",d`, []string{"a", `b"c`, "d"}},
		{"whitespace trim", ` a , b ,c `, []string{"a", "b", "c"}},
		// Outer trim runs before quote stripping, so whitespace inside the
		// quoted span survives.
		{"quoted whitespace kept inside", `"  a, b  ",c`, []string{"  a, b  ", "c"}},
		{"empty cells", "a,,c", []string{"a", "", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := Parse(tc.in)
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			if !reflect.DeepEqual(rows[0], tc.want) {
				t.Fatalf("got %#v, want %#v", rows[0], tc.want)
			}
		})
	}
}

func TestParseMultipleLines(t *testing.T) {
	rows := Parse("h1,h2\r\na,b\nc")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// CRLF line endings must not leak into cells.
	if !reflect.DeepEqual(rows[0], []string{"h1", "h2"}) {
		t.Fatalf("header row mangled: %#v", rows[0])
	}
	// Rows keep their own lengths, no arity normalization.
	if len(rows[1]) != 2 || len(rows[2]) != 1 {
		t.Fatalf("unexpected row widths: %d, %d", len(rows[1]), len(rows[2]))
	}
}

func TestParseEmptyLineYieldsOneEmptyCell(t *testing.T) {
	rows := Parse("a,b\n\nc,d")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[1], []string{""}) {
		t.Fatalf("empty line should parse to one empty cell, got %#v", rows[1])
	}
}

func TestCellDefensiveIndexing(t *testing.T) {
	row := []string{"a", "b"}
	if got := Cell(row, 1); got != "b" {
		t.Errorf("Cell(row, 1) = %q, want %q", got, "b")
	}
	if got := Cell(row, 5); got != "" {
		t.Errorf("missing cell should read as empty, got %q", got)
	}
	if got := Cell(row, -1); got != "" {
		t.Errorf("negative index should read as empty, got %q", got)
	}
}
