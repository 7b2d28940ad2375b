package grpcledger

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/provenlab/tabanchor/ledger"
)

// Client implements ledger.KV over the Ledger gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client LedgerClient

	// Timeout applies per RPC when non-zero. Writes block until the daemon
	// confirms the transaction, so write timeouts should cover mining latency.
	Timeout time.Duration
}

var _ ledger.KV = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewLedgerClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) StoreHash(ctx context.Context, name, value string) (ledger.Receipt, error) {
	if c == nil || c.client == nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindConfig, "client not dialed", nil)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	in, err := structpb.NewStruct(map[string]interface{}{
		fieldName:  name,
		fieldValue: value,
	})
	if err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "encode store request", err)
	}
	out, err := c.client.Store(ctx, in)
	if err != nil {
		return ledger.Receipt{}, fromStatus(err, true)
	}
	fields := out.GetFields()
	return ledger.Receipt{
		TxHash:      fields[fieldTxHash].GetStringValue(),
		BlockNumber: uint64(fields[fieldBlockNumber].GetNumberValue()),
		GasUsed:     uint64(fields[fieldGasUsed].GetNumberValue()),
	}, nil
}

func (c *Client) GetHash(ctx context.Context, name string) (string, error) {
	if c == nil || c.client == nil {
		return "", ledger.NewError(ledger.KindConfig, "client not dialed", nil)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.client.Get(ctx, wrapperspb.String(name))
	if err != nil {
		return "", fromStatus(err, false)
	}
	return out.GetValue(), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return ctx, func() {}
}
