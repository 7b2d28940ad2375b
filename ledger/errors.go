package ledger

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers branch on Kind, never on Error() strings. The split matters
// operationally: transaction failures must not be retried blindly, network
// failures on the read path may be.
type Kind string

const (
	// KindConfig marks startup configuration failures. Fatal: the process
	// must not proceed to ledger operations.
	KindConfig Kind = "Config"
	// KindTransaction marks write failures: insufficient funds, timeout
	// awaiting confirmation, nonce conflict, gas price too low, rejection.
	// Callers resubmit explicitly with a fresh nonce if they choose to.
	KindTransaction Kind = "Transaction"
	// KindNetwork marks read-path connectivity failures. Reads are
	// side-effect-free, so transparent retry is safe.
	KindNetwork Kind = "Network"
)

// Error is the structured error type shared by ledger implementations.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError builds a structured ledger error.
func NewError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func IsConfig(err error) bool      { return IsKind(err, KindConfig) }
func IsTransaction(err error) bool { return IsKind(err, KindTransaction) }
func IsNetwork(err error) bool     { return IsKind(err, KindNetwork) }
