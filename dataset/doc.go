// Package dataset models tabular data and its canonical byte form.
//
// A Dataset is an ordered sequence of named columns of equal length, holding
// scalar cells (null, number, or string). Canonicalize is the single mandatory
// choke point that turns a Dataset into deterministic bytes: all fingerprinting
// and anchoring MUST pass through it.
//
// Canonical identity is insensitive to the original column and row order; it is
// sensitive to content only.
package dataset
