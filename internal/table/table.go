package table

import "fmt"

// Dataset is an ordered collection of named columns and rows.
//
// Column order is significant (it is preserved on output); row order is an
// artifact of the sort keys applied by the pipeline. The zero value is not
// usable; construct with New.
type Dataset struct {
	cols  []string
	index map[string]int
	rows  [][]Cell
}

// New creates an empty dataset with the given column names.
// Returns an error if a column name is empty or duplicated.
func New(cols []string) (*Dataset, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("table: column %d has empty name", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		index[c] = i
	}
	return &Dataset{
		cols:  append([]string(nil), cols...),
		index: index,
	}, nil
}

// Columns returns the column names in order. The returned slice is a copy.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.cols...)
}

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int { return len(d.cols) }

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// AppendRow adds a row. The cell count must match the column count; nil cells
// are stored as Null.
func (d *Dataset) AppendRow(cells []Cell) error {
	if len(cells) != len(d.cols) {
		return fmt.Errorf("table: row has %d cells, want %d", len(cells), len(d.cols))
	}
	row := make([]Cell, len(cells))
	for i, c := range cells {
		if c == nil {
			c = Null{}
		}
		row[i] = c
	}
	d.rows = append(d.rows, row)
	return nil
}

// Cell returns the cell at (row, column name). Returns Null for an unknown
// column; callers that care must check HasColumn first.
func (d *Dataset) Cell(row int, col string) Cell {
	i, ok := d.index[col]
	if !ok {
		return Null{}
	}
	return d.rows[row][i]
}

// Row returns a copy of the cells of row i in column order.
func (d *Dataset) Row(i int) []Cell {
	return append([]Cell(nil), d.rows[i]...)
}

// Reorder returns a new dataset whose rows are d's rows permuted by perm.
// perm must be a permutation of 0..NumRows-1. The receiver is not modified;
// the pipeline never sorts in place.
func (d *Dataset) Reorder(perm []int) (*Dataset, error) {
	if len(perm) != len(d.rows) {
		return nil, fmt.Errorf("table: permutation length %d, want %d", len(perm), len(d.rows))
	}
	seen := make([]bool, len(perm))
	out := &Dataset{
		cols:  append([]string(nil), d.cols...),
		index: d.index,
		rows:  make([][]Cell, len(perm)),
	}
	for i, p := range perm {
		if p < 0 || p >= len(d.rows) || seen[p] {
			return nil, fmt.Errorf("table: invalid permutation index %d", p)
		}
		seen[p] = true
		out.rows[i] = d.rows[p]
	}
	return out, nil
}

// WithColumn returns a new dataset with an extra column appended. values must
// have one cell per row. Returns an error if the column already exists.
func (d *Dataset) WithColumn(name string, values []Cell) (*Dataset, error) {
	if _, dup := d.index[name]; dup {
		return nil, fmt.Errorf("table: column %q already exists", name)
	}
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("table: column %q has %d values, want %d", name, len(values), len(d.rows))
	}
	cols := append(append([]string(nil), d.cols...), name)
	out, err := New(cols)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]Cell, len(d.rows))
	for i, row := range d.rows {
		v := values[i]
		if v == nil {
			v = Null{}
		}
		out.rows[i] = append(append([]Cell(nil), row...), v)
	}
	return out, nil
}
