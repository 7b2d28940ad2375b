package ethledger

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"

	"github.com/provenlab/tabanchor/ledger"
)

// Recognized environment variables.
const (
	EnvRPCURL          = "RPC_URL"
	EnvPrivateKey      = "PRIVATE_KEY"
	EnvWalletAddress   = "WALLET_ADDRESS"
	EnvContractAddress = "CONTRACT_ADDRESS"
	EnvGasLimit        = "GAS_LIMIT"
	EnvGasPriceGwei    = "GAS_PRICE_GWEI"
	EnvChainID         = "CHAIN_ID"
)

const (
	defaultGasLimit     = 200000
	defaultGasPriceGwei = 10
)

// Config is the explicit configuration object for an Ethereum ledger client.
//
// It is passed into New rather than read from ambient process state, so one
// process can hold clients against multiple endpoints or identities.
type Config struct {
	// RPCURL is the ledger JSON-RPC endpoint.
	RPCURL string
	// PrivateKey is the hex-encoded secp256k1 signing key (0x prefix optional).
	PrivateKey string
	// WalletAddress is the hex address of the signing identity.
	WalletAddress string
	// ContractAddress is the hex address of the anchor contract.
	ContractAddress string

	// GasLimit is the gas budget per write. Zero selects the default (200000).
	GasLimit uint64
	// GasPriceGwei is the legacy gas price in gwei. Zero selects the default (10).
	GasPriceGwei int64
	// ChainID selects the EIP-155 signing domain. Zero means fetch it from
	// the node at construction time.
	ChainID int64
}

// FromEnv builds a Config from the environment.
//
// RPC_URL, PRIVATE_KEY, WALLET_ADDRESS, and CONTRACT_ADDRESS are required;
// GAS_LIMIT, GAS_PRICE_GWEI, and CHAIN_ID are optional overrides. Missing or
// malformed values fail with a Config-kind error: startup must not proceed.
func FromEnv() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvGasLimit, defaultGasLimit)
	v.SetDefault(EnvGasPriceGwei, defaultGasPriceGwei)
	v.SetDefault(EnvChainID, 0)

	cfg := Config{
		RPCURL:          strings.TrimSpace(v.GetString(EnvRPCURL)),
		PrivateKey:      strings.TrimSpace(v.GetString(EnvPrivateKey)),
		WalletAddress:   strings.TrimSpace(v.GetString(EnvWalletAddress)),
		ContractAddress: strings.TrimSpace(v.GetString(EnvContractAddress)),
		GasLimit:        v.GetUint64(EnvGasLimit),
		GasPriceGwei:    v.GetInt64(EnvGasPriceGwei),
		ChainID:         v.GetInt64(EnvChainID),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration without touching the network.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return configErr(EnvRPCURL, "missing ledger endpoint")
	}
	if c.PrivateKey == "" {
		return configErr(EnvPrivateKey, "missing signing key")
	}
	if _, err := crypto.HexToECDSA(strings.TrimPrefix(c.PrivateKey, "0x")); err != nil {
		return ledger.NewError(ledger.KindConfig, fmt.Sprintf("%s: malformed signing key", EnvPrivateKey), err)
	}
	if !common.IsHexAddress(c.WalletAddress) {
		return configErr(EnvWalletAddress, "missing or malformed address")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return configErr(EnvContractAddress, "missing or malformed address")
	}
	if c.GasPriceGwei < 0 {
		return configErr(EnvGasPriceGwei, "gas price must not be negative")
	}
	if c.ChainID < 0 {
		return configErr(EnvChainID, "chain id must not be negative")
	}
	return nil
}

func configErr(name, msg string) error {
	return ledger.NewError(ledger.KindConfig, name+": "+msg, nil)
}

func (c Config) gasLimit() uint64 {
	if c.GasLimit == 0 {
		return defaultGasLimit
	}
	return c.GasLimit
}

func (c Config) gasPriceGwei() int64 {
	if c.GasPriceGwei == 0 {
		return defaultGasPriceGwei
	}
	return c.GasPriceGwei
}
