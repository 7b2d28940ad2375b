package grpcledger

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/provenlab/tabanchor/ledger"
	"github.com/provenlab/tabanchor/ledger/memledger"
	"github.com/provenlab/tabanchor/ledger/testkit"
)

func newBufClient(t *testing.T, kv ledger.KV) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLedgerServer(srv, &Server{KV: kv})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewLedgerClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCLedger_Conformance(t *testing.T) {
	testkit.RunKVConformance(t, func(t *testing.T) ledger.KV {
		return newBufClient(t, memledger.New())
	})
}

func TestGRPCLedger_ReceiptSurvivesTransport(t *testing.T) {
	client := newBufClient(t, memledger.New())

	rcpt, err := client.StoreHash(context.Background(), "sales_data", "deadbeef")
	if err != nil {
		t.Fatalf("StoreHash failed: %v", err)
	}
	if rcpt.TxHash == "" || rcpt.BlockNumber == 0 || rcpt.GasUsed == 0 {
		t.Fatalf("receipt lost fields in transit: %+v", rcpt)
	}
}

// failingKV returns a fixed error from every operation.
type failingKV struct{ err error }

func (f failingKV) StoreHash(ctx context.Context, name, value string) (ledger.Receipt, error) {
	return ledger.Receipt{}, f.err
}

func (f failingKV) GetHash(ctx context.Context, name string) (string, error) {
	return "", f.err
}

func TestGRPCLedger_TransactionErrorKindSurvivesTransport(t *testing.T) {
	backendErr := ledger.NewError(ledger.KindTransaction, "insufficient funds", nil)
	client := newBufClient(t, failingKV{err: backendErr})

	_, err := client.StoreHash(context.Background(), "d", "v")
	if !ledger.IsTransaction(err) {
		t.Fatalf("expected Transaction error across transport, got %v", err)
	}
}

func TestGRPCLedger_NetworkErrorKindSurvivesTransport(t *testing.T) {
	backendErr := ledger.NewError(ledger.KindNetwork, "rpc endpoint unreachable", nil)
	client := newBufClient(t, failingKV{err: backendErr})

	_, err := client.GetHash(context.Background(), "d")
	if !ledger.IsNetwork(err) {
		t.Fatalf("expected Network error across transport, got %v", err)
	}
}

func TestGRPCLedger_RejectsEmptyName(t *testing.T) {
	client := newBufClient(t, memledger.New())
	if _, err := client.GetHash(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
