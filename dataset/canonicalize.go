package dataset

import (
	"bytes"
	"encoding/csv"
	"sort"
)

// Canonicalize is the mandatory canonicalization choke point.
//
// It reorders columns by ascending name (byte order), reorders rows by
// ascending full-tuple order under the new column order (see Compare for the
// total order over mixed scalars), and serializes the result as a delimited
// textual table: one header line of column names, one line per row, fields
// joined by a comma, lines terminated by "\n", no row index, no trailing
// whitespace. Fields containing the delimiter, a quote, or a line break are
// quoted RFC 4180 style.
//
// Two datasets with the same multiset of rows and the same column names and
// values canonicalize to identical bytes regardless of input ordering. The
// returned slice is freshly allocated on every call.
func Canonicalize(ds *Dataset) ([]byte, error) {
	if ds == nil {
		return nil, newError(KindMalformed, "TAB-SHAPE-003", "nil dataset")
	}

	// Column order: ascending byte order of names.
	order := make([]int, len(ds.cols))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return ds.cols[order[i]].Name < ds.cols[order[j]].Name
	})

	// Materialize rows as tuples under the new column order, then sort.
	nRows := ds.NumRows()
	rows := make([][]Value, nRows)
	for r := 0; r < nRows; r++ {
		row := make([]Value, len(order))
		for i, c := range order {
			row[i] = ds.cols[c].Cells[r]
		}
		rows[r] = row
	}
	sort.Slice(rows, func(i, j int) bool { return compareRows(rows[i], rows[j]) < 0 })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(order))
	for i, c := range order {
		header[i] = ds.cols[c].Name
	}
	if err := w.Write(header); err != nil {
		return nil, wrapError(KindMalformed, "TAB-SHAPE-004", "header not serializable", err)
	}
	record := make([]string, len(order))
	for _, row := range rows {
		for i, v := range row {
			record[i] = v.render()
		}
		if err := w.Write(record); err != nil {
			return nil, wrapError(KindMalformed, "TAB-SHAPE-004", "row not serializable", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, wrapError(KindMalformed, "TAB-SHAPE-004", "serialization failure", err)
	}
	return buf.Bytes(), nil
}

func compareRows(a, b []Value) int {
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
