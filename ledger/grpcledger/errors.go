package grpcledger

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/provenlab/tabanchor/ledger"
)

// toStatus maps ledger error kinds onto grpc codes so clients can rebuild the
// taxonomy on their side.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case ledger.IsTransaction(err):
		return status.Error(codes.Aborted, err.Error())
	case ledger.IsNetwork(err):
		return status.Error(codes.Unavailable, err.Error())
	case ledger.IsConfig(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// fromStatus rebuilds the ledger error taxonomy from a grpc status. The
// write/read distinction matters: transport failures reaching the daemon on a
// write must surface as transaction errors, not retriable network errors.
func fromStatus(err error, write bool) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if write {
			return ledger.NewError(ledger.KindTransaction, "ledger write failed", err)
		}
		return ledger.NewError(ledger.KindNetwork, "ledger read failed", err)
	}
	switch st.Code() {
	case codes.Aborted:
		return ledger.NewError(ledger.KindTransaction, st.Message(), nil)
	case codes.Unavailable:
		if write {
			return ledger.NewError(ledger.KindTransaction, st.Message(), nil)
		}
		return ledger.NewError(ledger.KindNetwork, st.Message(), nil)
	case codes.FailedPrecondition:
		return ledger.NewError(ledger.KindConfig, st.Message(), nil)
	default:
		if write {
			return ledger.NewError(ledger.KindTransaction, st.Message(), nil)
		}
		return ledger.NewError(ledger.KindNetwork, st.Message(), nil)
	}
}
