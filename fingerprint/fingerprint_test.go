package fingerprint

import (
	"strings"
	"testing"

	"github.com/provenlab/tabanchor/dataset"
)

func mustParse(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	return ds
}

func TestSum_KnownVector(t *testing.T) {
	// Canonical bytes of a one-row dataset with columns b=2, a="x".
	got := Sum([]byte("a,b\nx,2\n"))
	want := "71dda84425914daf582846cd3620f7be5c796400ef0130e6f1029939528dbb9c"
	if got != want {
		t.Fatalf("Sum drifted:\ngot  %s\nwant %s", got, want)
	}
}

func TestSum_LowercaseHexFixedLength(t *testing.T) {
	got := Sum([]byte("hello"))
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}
	if got != strings.ToLower(got) {
		t.Fatalf("digest not lowercase: %s", got)
	}
}

func TestDataset_Deterministic(t *testing.T) {
	ds := mustParse(t, "region,units\nnorth,12\nsouth,7\n")
	first, err := Dataset(ds)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Dataset(ds)
		if err != nil {
			t.Fatalf("Dataset failed: %v", err)
		}
		if again != first {
			t.Fatalf("fingerprint not deterministic: %s vs %s", again, first)
		}
	}
}

func TestDataset_PermutationInvariant(t *testing.T) {
	base := mustParse(t, "region,units\nnorth,12\nsouth,7\n")
	shuffledRows := mustParse(t, "region,units\nsouth,7\nnorth,12\n")
	shuffledCols := mustParse(t, "units,region\n12,north\n7,south\n")

	want, err := Dataset(base)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	for _, ds := range []*dataset.Dataset{shuffledRows, shuffledCols} {
		got, err := Dataset(ds)
		if err != nil {
			t.Fatalf("Dataset failed: %v", err)
		}
		if got != want {
			t.Fatalf("permuted dataset fingerprint differs: %s vs %s", got, want)
		}
	}
}

func TestDataset_AvalancheOnSingleCellMutations(t *testing.T) {
	base := mustParse(t, "region,units,price\nnorth,12,3.5\nsouth,7,2.25\n")
	want, err := Dataset(base)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}

	mutations := []*dataset.Dataset{
		base.WithCell(1, 0, dataset.Number(13)),       // 12 -> 13
		base.WithCell(1, 0, dataset.Number(12.0001)),  // tiny numeric nudge
		base.WithCell(0, 1, dataset.String("soutH")),  // case flip
		base.WithCell(2, 1, dataset.Null()),           // value removed
		base.WithCell(0, 0, dataset.String("north ")), // trailing space
	}
	for i, mut := range mutations {
		got, err := Dataset(mut)
		if err != nil {
			t.Fatalf("Dataset(mutation %d) failed: %v", i, err)
		}
		if got == want {
			t.Fatalf("mutation %d did not change the fingerprint", i)
		}
	}
}

func TestCIDv1RawSHA256_Deterministic(t *testing.T) {
	a := CIDv1RawSHA256([]byte("a,b\nx,2\n"))
	b := CIDv1RawSHA256([]byte("a,b\nx,2\n"))
	if a == "" || a != b {
		t.Fatalf("CID not deterministic: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "bafkrei") {
		t.Fatalf("expected CIDv1 raw sha2-256 prefix, got %q", a)
	}
	if c := CIDv1RawSHA256([]byte("a,b\nx,3\n")); c == a {
		t.Fatalf("different bytes produced the same CID")
	}
}
