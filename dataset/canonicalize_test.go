package dataset

import (
	"bytes"
	"math/rand"
	"testing"
)

func mustNew(t *testing.T, cols []Column) *Dataset {
	t.Helper()
	ds, err := New(cols)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ds
}

func mustCanonicalize(t *testing.T, ds *Dataset) []byte {
	t.Helper()
	b, err := Canonicalize(ds)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	return b
}

func TestCanonicalize_ColumnOrderInvariant(t *testing.T) {
	// The two datasets with columns [b,a] / [a,b] and matching cells must
	// serialize to the same canonical bytes.
	ba := mustNew(t, []Column{
		{Name: "b", Cells: []Value{Number(2)}},
		{Name: "a", Cells: []Value{String("x")}},
	})
	ab := mustNew(t, []Column{
		{Name: "a", Cells: []Value{String("x")}},
		{Name: "b", Cells: []Value{Number(2)}},
	})
	got := mustCanonicalize(t, ba)
	want := mustCanonicalize(t, ab)
	if !bytes.Equal(got, want) {
		t.Fatalf("canonical bytes differ:\n%q\n%q", got, want)
	}
	if string(got) != "a,b\nx,2\n" {
		t.Fatalf("unexpected canonical form: %q", got)
	}
}

func TestCanonicalize_RowOrderInvariant(t *testing.T) {
	rows := [][2]Value{
		{Number(3), String("c")},
		{Number(1), String("a")},
		{Number(2), String("b")},
		{Null(), String("n")},
	}
	build := func(order []int) *Dataset {
		var id, label []Value
		for _, i := range order {
			id = append(id, rows[i][0])
			label = append(label, rows[i][1])
		}
		return mustNew(t, []Column{
			{Name: "id", Cells: id},
			{Name: "label", Cells: label},
		})
	}

	want := mustCanonicalize(t, build([]int{0, 1, 2, 3}))
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		order := rng.Perm(len(rows))
		got := mustCanonicalize(t, build(order))
		if !bytes.Equal(got, want) {
			t.Fatalf("permutation %v changed canonical bytes:\n%q\n%q", order, got, want)
		}
	}
}

func TestCanonicalize_RowsSortedByFullTuple(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "k", Cells: []Value{Number(1), Number(1), Number(1)}},
		{Name: "v", Cells: []Value{String("b"), String("a"), String("c")}},
	})
	got := mustCanonicalize(t, ds)
	want := "k,v\n1,a\n1,b\n1,c\n"
	if string(got) != want {
		t.Fatalf("rows not tie-broken by second column:\ngot  %q\nwant %q", got, want)
	}
}

func TestCanonicalize_NullsSortBeforeNumbersBeforeStrings(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "x", Cells: []Value{String("0"), Number(10), Null(), Number(2)}},
	})
	got := mustCanonicalize(t, ds)
	// Null renders empty; 2 < 10 numerically; the string "0" sorts after
	// every number regardless of its spelling.
	want := "x\n\n2\n10\n0\n"
	if string(got) != want {
		t.Fatalf("mixed-type ordering wrong:\ngot  %q\nwant %q", got, want)
	}
}

func TestCanonicalize_NumberFormatting(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "n", Cells: []Value{Number(2), Number(2.5), Number(-0.25), Number(1e21)}},
	})
	got := mustCanonicalize(t, ds)
	want := "n\n-0.25\n2\n2.5\n1e+21\n"
	if string(got) != want {
		t.Fatalf("number rendering drifted:\ngot  %q\nwant %q", got, want)
	}
}

func TestCanonicalize_QuotesFieldsContainingDelimiter(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "note", Cells: []Value{String(`a,b`), String(`say "hi"`)}},
	})
	got := mustCanonicalize(t, ds)
	want := "note\n\"a,b\"\n\"say \"\"hi\"\"\"\n"
	if string(got) != want {
		t.Fatalf("quoting drifted:\ngot  %q\nwant %q", got, want)
	}
}

func TestCanonicalize_EmptyDatasetIsHeaderOnly(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "b"},
		{Name: "a"},
	})
	got := mustCanonicalize(t, ds)
	if string(got) != "a,b\n" {
		t.Fatalf("zero-row canonical form: got %q want %q", got, "a,b\n")
	}
}

func TestCanonicalize_ReturnsFreshSlice(t *testing.T) {
	ds := mustNew(t, []Column{
		{Name: "a", Cells: []Value{Number(1)}},
	})
	first := mustCanonicalize(t, ds)
	first[0] = '!'
	second := mustCanonicalize(t, ds)
	if second[0] == '!' {
		t.Fatalf("Canonicalize shares internal state across calls")
	}
}

func TestCanonicalize_NilDataset(t *testing.T) {
	_, err := Canonicalize(nil)
	if !IsMalformed(err) {
		t.Fatalf("expected Malformed error, got %v", err)
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	ordered := []Value{Null(), Number(-1), Number(0), Number(3.5), String(""), String("a"), String("b")}
	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j && got >= 0:
				t.Fatalf("Compare(%d,%d): got %d want <0", i, j, got)
			case i > j && got <= 0:
				t.Fatalf("Compare(%d,%d): got %d want >0", i, j, got)
			case i == j && got != 0:
				t.Fatalf("Compare(%d,%d): got %d want 0", i, j, got)
			}
		}
	}
}
