package dataset

import (
	"encoding/csv"
	"io"
)

// ParseCSV reads delimited text with a header row into a Dataset.
//
// Cell typing: an empty field is null, a field that parses as a float is a
// number, anything else is a string. This is the only input format consumed
// from the presentation layer.
//
// Fails with a Parse error on unreadable input and a Malformed error on
// duplicate column names or ragged records.
func ParseCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	// Ragged records are a shape error we report ourselves.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, newError(KindParse, "TAB-PARSE-001", "empty input: missing header row")
	}
	if err != nil {
		return nil, wrapError(KindParse, "TAB-PARSE-002", "unreadable header row", err)
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name}
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapError(KindParse, "TAB-PARSE-003", "unreadable record", err)
		}
		if len(rec) != len(header) {
			return nil, newError(KindMalformed, "TAB-SHAPE-002", "ragged record: field count differs from header")
		}
		for i, field := range rec {
			cols[i].Cells = append(cols[i].Cells, parseCell(field))
		}
	}
	return New(cols)
}
