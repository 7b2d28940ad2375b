// Package fingerprint derives fixed-length digests of canonical dataset bytes.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/provenlab/tabanchor/dataset"
)

// Sum returns the lowercase hex SHA-256 digest of b.
//
// This is the exact string anchored on the ledger. Deterministic function of
// its input only; no failure modes for any byte input.
func Sum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Dataset canonicalizes ds and returns its fingerprint.
func Dataset(ds *dataset.Dataset) (string, error) {
	canon, err := dataset.Canonicalize(ds)
	if err != nil {
		return "", err
	}
	return Sum(canon), nil
}

// CIDv1RawSHA256 returns an IPFS-compatible CIDv1 string (raw multicodec,
// sha2-256 multihash) for canonical bytes, for callers that address datasets
// in content-addressed storage alongside the ledger anchor.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length, this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}
