package ethledger

import (
	"context"
	"flag"
	"time"

	"github.com/provenlab/tabanchor/ledger"
	"github.com/provenlab/tabanchor/ledger/registry"
)

var flagDialTimeout time.Duration

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "eth",
		Description: "Ethereum ledger client (RPC_URL, PRIVATE_KEY, WALLET_ADDRESS, CONTRACT_ADDRESS from the environment)",
		Usage:       registry.UsageCLI | registry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.DurationVar(&flagDialTimeout, "eth-dial-timeout", 10*time.Second, "Endpoint dial timeout (for --backend=eth)")
		},
		Open: func() (ledger.KV, func() error, error) {
			cfg, err := FromEnv()
			if err != nil {
				return nil, nil, err
			}
			ctx, cancel := context.WithTimeout(context.Background(), flagDialTimeout)
			defer cancel()
			client, err := New(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return client, client.Close, nil
		},
	})
}
