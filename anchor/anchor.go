// Package anchor orchestrates canonicalization, fingerprinting, and the ledger
// for the two user-facing operations: anchoring a dataset's fingerprint under
// a name and verifying a dataset against the anchored fingerprint.
//
// Each operation is one synchronous call chain with no local state; the only
// state lives on the external ledger.
package anchor

import (
	"context"

	"github.com/provenlab/tabanchor/dataset"
	"github.com/provenlab/tabanchor/fingerprint"
	"github.com/provenlab/tabanchor/ledger"
)

// Service binds the protocol to one ledger backend.
type Service struct {
	KV ledger.KV
}

func NewService(kv ledger.KV) *Service { return &Service{KV: kv} }

// Verification is the transient result of one Verify call.
type Verification struct {
	// Match reports whether the local fingerprint equals the anchored one.
	Match bool
	// Local is the fingerprint computed from the presented dataset.
	Local string
	// OnChain is the anchored fingerprint, or "" if the name was never anchored.
	OnChain string
}

// Anchor fingerprints ds and writes the digest under name.
//
// A malformed dataset fails before any ledger interaction; ledger failures
// propagate as Transaction-kind errors. Returns the write receipt and the
// anchored digest.
func (s *Service) Anchor(ctx context.Context, name string, ds *dataset.Dataset) (ledger.Receipt, string, error) {
	digest, err := fingerprint.Dataset(ds)
	if err != nil {
		return ledger.Receipt{}, "", err
	}
	rcpt, err := s.KV.StoreHash(ctx, name, digest)
	if err != nil {
		return ledger.Receipt{}, "", err
	}
	return rcpt, digest, nil
}

// Verify fingerprints ds and compares it against the value anchored under name.
//
// A name that was never anchored verifies false with an empty OnChain digest.
func (s *Service) Verify(ctx context.Context, name string, ds *dataset.Dataset) (Verification, error) {
	digest, err := fingerprint.Dataset(ds)
	if err != nil {
		return Verification{}, err
	}
	onChain, err := s.KV.GetHash(ctx, name)
	if err != nil {
		return Verification{}, err
	}
	return Verification{
		Match:   digest == onChain,
		Local:   digest,
		OnChain: onChain,
	}, nil
}
