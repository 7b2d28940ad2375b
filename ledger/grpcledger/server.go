// Package grpcledger exposes a ledger.KV over gRPC.
//
// A daemon holding the one signing identity serves this; clients share it
// without ever seeing the private key, and the daemon's KV serializes writes
// so concurrent callers cannot race on the identity's nonce.
package grpcledger

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/provenlab/tabanchor/ledger"
)

// Field names used in the Store request and receipt Structs.
const (
	fieldName        = "name"
	fieldValue       = "value"
	fieldTxHash      = "tx_hash"
	fieldBlockNumber = "block_number"
	fieldGasUsed     = "gas_used"
)

// Server exposes a ledger.KV over the Ledger gRPC service.
type Server struct {
	UnimplementedLedgerServer
	KV ledger.KV
}

func (s *Server) Store(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s == nil || s.KV == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger backend")
	}
	name, ok := stringField(in, fieldName)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "missing name")
	}
	value, ok := stringField(in, fieldValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "missing value")
	}
	rcpt, err := s.KV.StoreHash(ctx, name, value)
	if err != nil {
		return nil, toStatus(err)
	}
	out, serr := structpb.NewStruct(map[string]interface{}{
		fieldTxHash:      rcpt.TxHash,
		fieldBlockNumber: float64(rcpt.BlockNumber),
		fieldGasUsed:     float64(rcpt.GasUsed),
	})
	if serr != nil {
		return nil, status.Error(codes.Internal, "encode receipt")
	}
	return out, nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.KV == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger backend")
	}
	name := in.GetValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "missing name")
	}
	value, err := s.KV.GetHash(ctx, name)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(value), nil
}

func stringField(s *structpb.Struct, key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return "", false
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || sv.StringValue == "" {
		return "", false
	}
	return sv.StringValue, true
}
