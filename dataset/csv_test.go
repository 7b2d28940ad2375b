package dataset

import (
	"strings"
	"testing"
)

func TestParseCSV_CellTyping(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("id,name,score\n1,alice,97.5\n2,bob,\n"))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if ds.NumColumns() != 3 || ds.NumRows() != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", ds.NumColumns(), ds.NumRows())
	}
	if f, ok := ds.Cell(0, 0).Number(); !ok || f != 1 {
		t.Fatalf("expected numeric cell 1, got %#v", ds.Cell(0, 0))
	}
	if s, ok := ds.Cell(1, 0).Str(); !ok || s != "alice" {
		t.Fatalf("expected string cell alice, got %#v", ds.Cell(1, 0))
	}
	if f, ok := ds.Cell(2, 0).Number(); !ok || f != 97.5 {
		t.Fatalf("expected numeric cell 97.5, got %#v", ds.Cell(2, 0))
	}
	if !ds.Cell(2, 1).IsNull() {
		t.Fatalf("expected empty field to parse as null, got %#v", ds.Cell(2, 1))
	}
}

func TestParseCSV_RejectsRaggedRecord(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a,b\n1,2\n3\n"))
	if !IsMalformed(err) {
		t.Fatalf("expected Malformed error, got %v", err)
	}
}

func TestParseCSV_RejectsDuplicateHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a,a\n1,2\n"))
	if !IsMalformed(err) {
		t.Fatalf("expected Malformed error, got %v", err)
	}
}

func TestParseCSV_RejectsEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	if !IsKind(err, KindParse) {
		t.Fatalf("expected Parse error, got %v", err)
	}
}

func TestParseCSV_HeaderOnlyIsEmptyDataset(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if ds.NumRows() != 0 {
		t.Fatalf("expected zero rows, got %d", ds.NumRows())
	}
}
