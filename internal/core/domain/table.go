// internal/core/domain/table.go
package domain

import "strings"

// Table is a named grid of string cells with a header row, the shape
// exchanged with spreadsheets.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Records returns each row keyed by header. Short rows are padded with
// blanks and rows with every cell blank are dropped.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		blank := true
		for i, col := range t.Header {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				blank = false
			}
			rec[strings.TrimSpace(col)] = v
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

// Append adds a row, building it from rec in header order.
func (t *Table) Append(rec map[string]string) {
	row := make([]string, len(t.Header))
	for i, col := range t.Header {
		row[i] = rec[col]
	}
	t.Rows = append(t.Rows, row)
}
