package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an in-memory tabular dataset: an ordered list of column names
// plus rows of string cells. It is built once and treated as read-only;
// accessors hand out fresh slices so callers cannot reach the backing data.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New builds a Table. Every row must have exactly one cell per column.
func New(cols []string, rows [][]string) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("dataset: no columns")
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("dataset: empty column name at position %d", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("dataset: row %d has %d cells, want %d", i, len(r), len(cols))
		}
	}
	return &Table{cols: append([]string(nil), cols...), index: index, rows: rows}, nil
}

// Columns returns the column names in table order. The slice is a copy.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

func (t *Table) NumRows() int { return len(t.rows) }

// Strings returns every cell of the named column, in row order.
func (t *Table) Strings(col string) ([]string, error) {
	i, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q", col)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Floats returns the named column parsed as float64 values.
func (t *Table) Floats(col string) ([]float64, error) {
	raw, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for r, s := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: column %q row %d: %q is not numeric", col, r, s)
		}
		out[r] = f
	}
	return out, nil
}
