// Package memledger provides an in-memory ledger.KV for tests and dry runs.
//
// It honors the contract semantics that matter to callers: overwrite wins,
// there is no delete, and never-written names read as "". Receipts carry a
// deterministic pseudo transaction hash and a monotonically increasing block
// number so callers exercising receipt plumbing get stable values.
package memledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/provenlab/tabanchor/ledger"
)

type Ledger struct {
	mu     sync.Mutex
	kv     map[string]string
	height uint64

	// Writes counts confirmed StoreHash calls; tests assert on it to prove
	// an operation performed no ledger call.
	writes int
}

var _ ledger.KV = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{kv: make(map[string]string)}
}

func (l *Ledger) StoreHash(ctx context.Context, name, value string) (ledger.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "write canceled", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kv[name] = value
	l.height++
	l.writes++
	sum := sha256.Sum256([]byte(name + "\x00" + value))
	return ledger.Receipt{
		TxHash:      "0x" + hex.EncodeToString(sum[:]),
		BlockNumber: l.height,
		GasUsed:     21000,
	}, nil
}

func (l *Ledger) GetHash(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ledger.NewError(ledger.KindNetwork, "read canceled", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv[name], nil
}

// Writes returns the number of confirmed writes so far.
func (l *Ledger) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}
