// Package ledger defines the minimal read/write contract against the external
// distributed ledger, plus the error taxonomy shared by its implementations.
//
// The ledger is an opaque external collaborator: a named-key string store
// reached through signed transactions (writes) and free queries (reads). This
// package deliberately knows nothing about canonicalization or fingerprints.
package ledger

import "context"

// Receipt describes a confirmed write transaction.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
}

// KV is the ledger contract surface.
//
// Contract:
//   - StoreHash submits a state-changing transaction storing value under name
//     and blocks until it is confirmed or fails. Writes overwrite; there is no
//     delete. A failed write MUST NOT be retried automatically (resubmission
//     can double-spend gas) except for a single fresh-nonce resubmit when the
//     ledger rejects the nonce before spending gas.
//   - GetHash is a non-mutating query. A name that was never written reads as
//     "". Reads are side-effect-free and safe to retry.
//
// Implementations sharing one signing identity MUST serialize StoreHash calls:
// the ledger requires strictly increasing nonces per identity.
type KV interface {
	StoreHash(ctx context.Context, name, value string) (Receipt, error)
	GetHash(ctx context.Context, name string) (string, error)
}
