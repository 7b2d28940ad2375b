package anchor

import (
	"context"

	"github.com/provenlab/tabanchor/dataset"
)

// TamperResult is the outcome of a tamper demonstration.
type TamperResult struct {
	// Mutated reports whether a numeric cell existed to mutate.
	Mutated bool
	// TamperedDigest is the fingerprint of the mutated dataset.
	TamperedDigest string
	// Verification is the (expected-false) verification of the mutated
	// dataset against the anchored fingerprint.
	Verification Verification
}

// TamperCheck demonstrates tamper detection: it bumps the first numeric cell
// of ds by one, re-fingerprints, and verifies the mutated dataset against the
// digest anchored under name. The original dataset is never modified.
//
// If ds holds no numeric cell, no mutation is possible and the unmodified
// dataset is verified instead (Mutated reports false).
func (s *Service) TamperCheck(ctx context.Context, name string, ds *dataset.Dataset) (TamperResult, error) {
	tampered, mutated := bumpFirstNumericCell(ds)
	v, err := s.Verify(ctx, name, tampered)
	if err != nil {
		return TamperResult{}, err
	}
	return TamperResult{
		Mutated:        mutated,
		TamperedDigest: v.Local,
		Verification:   v,
	}, nil
}

// bumpFirstNumericCell returns a copy of ds with the first numeric cell (in
// original column order, scanning each column top to bottom) incremented by 1.
func bumpFirstNumericCell(ds *dataset.Dataset) (*dataset.Dataset, bool) {
	for col := 0; col < ds.NumColumns(); col++ {
		for row := 0; row < ds.NumRows(); row++ {
			if f, ok := ds.Cell(col, row).Number(); ok {
				return ds.WithCell(col, row, dataset.Number(f+1)), true
			}
		}
	}
	return ds, false
}
