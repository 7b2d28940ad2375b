package dataset

import "fmt"

// Column is one named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Value
}

// Dataset is an ordered sequence of named columns of equal length.
//
// Datasets are ephemeral: they carry no identity beyond their contents and
// live only for the duration of one anchor or verify operation. Construct via
// New (or ParseCSV); both reject duplicate column names and ragged columns, so
// a *Dataset in hand is always well-shaped.
type Dataset struct {
	cols []Column
}

// New builds a Dataset from columns, validating shape.
//
// Fails with a Malformed error on duplicate column names or columns of unequal
// length. A dataset with zero rows is well-formed.
func New(cols []Column) (*Dataset, error) {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, newError(KindMalformed, "TAB-SHAPE-001",
				fmt.Sprintf("duplicate column name %q", c.Name))
		}
		seen[c.Name] = true
	}
	if len(cols) > 0 {
		n := len(cols[0].Cells)
		for _, c := range cols[1:] {
			if len(c.Cells) != n {
				return nil, newError(KindMalformed, "TAB-SHAPE-002",
					fmt.Sprintf("ragged columns: %q has %d cells, %q has %d",
						cols[0].Name, n, c.Name, len(c.Cells)))
			}
		}
	}
	// Copy the column slice so callers cannot break the validated shape.
	ds := &Dataset{cols: make([]Column, len(cols))}
	for i, c := range cols {
		ds.cols[i] = Column{Name: c.Name, Cells: append([]Value(nil), c.Cells...)}
	}
	return ds, nil
}

// NumColumns returns the number of columns.
func (ds *Dataset) NumColumns() int { return len(ds.cols) }

// NumRows returns the number of rows.
func (ds *Dataset) NumRows() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return len(ds.cols[0].Cells)
}

// ColumnNames returns column names in their original order.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		names[i] = c.Name
	}
	return names
}

// Cell returns the value at (column index, row index).
func (ds *Dataset) Cell(col, row int) Value {
	return ds.cols[col].Cells[row]
}

// WithCell returns a copy of ds with one cell replaced.
//
// Indices address the original column order. Used by tamper demonstrations;
// the receiver is never mutated.
func (ds *Dataset) WithCell(col, row int, v Value) *Dataset {
	out := &Dataset{cols: make([]Column, len(ds.cols))}
	for i, c := range ds.cols {
		out.cols[i] = Column{Name: c.Name, Cells: append([]Value(nil), c.Cells...)}
	}
	out.cols[col].Cells[row] = v
	return out
}
