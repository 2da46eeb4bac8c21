package models

import "strings"

// Cell is a single spreadsheet value. Valid is false for a null cell,
// which is how empty spreadsheet and CSV fields are represented.
type Cell struct {
	Value string
	Valid bool
}

// Text returns a non-null cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null returns a null cell.
func Null() Cell {
	return Cell{}
}

// CellFromField maps an empty field to null and anything else to a value.
func CellFromField(s string) Cell {
	if s == "" {
		return Null()
	}
	return Text(s)
}

// Field renders the cell the way it is written to CSV.
func (c Cell) Field() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Table is an in-memory sheet: an ordered header plus rows of cells.
// Every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// NewTable creates an empty table with a copy of the header.
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Header: h}
}

// Append adds a row, padding with nulls or truncating to the header width.
func (t *Table) Append(row []Cell) {
	out := make([]Cell, len(t.Header))
	copy(out, row)
	t.Rows = append(t.Rows, out)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column is present.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Column returns every cell of the column at idx.
func (t *Table) Column(idx int) []Cell {
	col := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		col[i] = r[idx]
	}
	return col
}

// DropColumns removes the named columns and returns the ones it found.
// Names that are not in the header are ignored.
func (t *Table) DropColumns(names ...string) []string {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	keep := make([]int, 0, len(t.Header))
	var dropped []string
	for i, h := range t.Header {
		if _, ok := drop[h]; ok {
			dropped = append(dropped, h)
			continue
		}
		keep = append(keep, i)
	}
	if len(dropped) == 0 {
		return nil
	}

	header := make([]string, len(keep))
	for j, i := range keep {
		header[j] = t.Header[i]
	}
	for r, row := range t.Rows {
		out := make([]Cell, len(keep))
		for j, i := range keep {
			out[j] = row[i]
		}
		t.Rows[r] = out
	}
	t.Header = header
	return dropped
}

// AddColumn appends a column; values must have one cell per row.
func (t *Table) AddColumn(name string, values []Cell) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Header: t.Header, Rows: t.Rows[:n]}
}

// String renders the table as right-aligned monospaced text without a row index.
// Null cells are shown as NaN.
func (t *Table) String() string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len([]rune(h))
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if n := len([]rune(display(c))); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeLine := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(f))))
			b.WriteString(f)
		}
	}

	writeLine(t.Header)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		fields := make([]string, len(row))
		for i, c := range row {
			fields[i] = display(c)
		}
		writeLine(fields)
	}
	return b.String()
}

func display(c Cell) string {
	if !c.Valid {
		return "NaN"
	}
	return c.Value
}
