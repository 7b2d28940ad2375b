package memledger

import (
	"flag"

	"github.com/provenlab/tabanchor/ledger"
	"github.com/provenlab/tabanchor/ledger/registry"
)

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "mem",
		Description: "In-memory ledger (process-local; anchors do not survive exit)",
		Usage:       registry.UsageCLI | registry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			// No flags: the backend is fully determined.
		},
		Open: func() (ledger.KV, func() error, error) {
			return New(), nil, nil
		},
	})
}
