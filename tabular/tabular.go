// --- qamaster-server/tabular/tabular.go ---
package tabular

import (
	"strings"
)

// Parse splits raw delimited text into rows of string cells.
//
// Lines are newline-delimited. Within a line, commas split cells except
// inside a quoted span; a quoted span is bounded by '"' and may contain
// commas literally, and a doubled quote inside a span stands for one
// literal quote. Each cell is trimmed, has one layer of surrounding quotes
// stripped, then has remaining doubled quotes collapsed.
//
// No column-count normalization happens here: rows may have different
// lengths and an empty line still yields a row of one empty cell.
// Consumers must index defensively.
func Parse(text string) [][]string {
	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitLine(line))
	}
	return rows
}

func splitLine(line string) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cell.WriteRune(r)
		case r == ',' && !inQuotes:
			cells = append(cells, cleanCell(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	cells = append(cells, cleanCell(cell.String()))
	return cells
}

// cleanCell trims whitespace, strips one surrounding quote layer and
// collapses escaped quotes, in that order.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.ReplaceAll(s, `""`, `"`)
}

// Cell returns row[i], or the empty string when the row is too short.
// Rows carry no fixed arity, so every consumer reads through this.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
