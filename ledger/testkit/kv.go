// Package testkit provides a conformance suite for ledger.KV implementations.
package testkit

import (
	"context"
	"testing"

	"github.com/provenlab/tabanchor/ledger"
)

// NewKV constructs a fresh, empty KV instance for a test.
// The returned KV MUST be isolated from other tests.
type NewKV func(t *testing.T) ledger.KV

func RunKVConformance(t *testing.T, newKV NewKV) {
	t.Helper()
	ctx := context.Background()

	t.Run("StoreGetRoundTrip", func(t *testing.T) {
		kv := newKV(t)
		rcpt, err := kv.StoreHash(ctx, "sales_data", "deadbeef")
		if err != nil {
			t.Fatalf("StoreHash failed: %v", err)
		}
		if rcpt.TxHash == "" {
			t.Fatalf("expected non-empty receipt tx hash")
		}
		got, err := kv.GetHash(ctx, "sales_data")
		if err != nil {
			t.Fatalf("GetHash failed: %v", err)
		}
		if got != "deadbeef" {
			t.Fatalf("GetHash: got %q want %q", got, "deadbeef")
		}
	})

	t.Run("NeverWrittenReadsEmpty", func(t *testing.T) {
		kv := newKV(t)
		got, err := kv.GetHash(ctx, "no-such-dataset")
		if err != nil {
			t.Fatalf("GetHash failed: %v", err)
		}
		if got != "" {
			t.Fatalf("GetHash of unwritten name: got %q want empty", got)
		}
	})

	t.Run("OverwriteWins", func(t *testing.T) {
		kv := newKV(t)
		if _, err := kv.StoreHash(ctx, "d", "old"); err != nil {
			t.Fatalf("StoreHash(old) failed: %v", err)
		}
		if _, err := kv.StoreHash(ctx, "d", "new"); err != nil {
			t.Fatalf("StoreHash(new) failed: %v", err)
		}
		got, err := kv.GetHash(ctx, "d")
		if err != nil {
			t.Fatalf("GetHash failed: %v", err)
		}
		if got != "new" {
			t.Fatalf("expected overwrite to win: got %q", got)
		}
	})

	t.Run("ReadsAreRepeatable", func(t *testing.T) {
		kv := newKV(t)
		if _, err := kv.StoreHash(ctx, "d", "v"); err != nil {
			t.Fatalf("StoreHash failed: %v", err)
		}
		for i := 0; i < 3; i++ {
			got, err := kv.GetHash(ctx, "d")
			if err != nil {
				t.Fatalf("GetHash #%d failed: %v", i, err)
			}
			if got != "v" {
				t.Fatalf("GetHash #%d: got %q want %q", i, got, "v")
			}
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		kv := newKV(t)
		if _, err := kv.StoreHash(ctx, "a", "1"); err != nil {
			t.Fatalf("StoreHash(a) failed: %v", err)
		}
		if _, err := kv.StoreHash(ctx, "b", "2"); err != nil {
			t.Fatalf("StoreHash(b) failed: %v", err)
		}
		if got, _ := kv.GetHash(ctx, "a"); got != "1" {
			t.Fatalf("GetHash(a): got %q want %q", got, "1")
		}
		if got, _ := kv.GetHash(ctx, "b"); got != "2" {
			t.Fatalf("GetHash(b): got %q want %q", got, "2")
		}
	})
}
