package ethledger

import (
	"testing"

	"github.com/provenlab/tabanchor/ledger"
)

// A valid secp256k1 key and its derived address, used only as test fixtures.
const (
	testKeyHex  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "0x96216849c49358B10257cb55b28eA603c874b05E"
)

func validConfig() Config {
	return Config{
		RPCURL:          "https://sepolia.example/rpc",
		PrivateKey:      testKeyHex,
		WalletAddress:   testAddress,
		ContractAddress: "0x1111111111111111111111111111111111111111",
	}
}

func TestConfig_ValidAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.gasLimit() != 200000 {
		t.Fatalf("default gas limit: got %d", cfg.gasLimit())
	}
	if cfg.gasPriceGwei() != 10 {
		t.Fatalf("default gas price: got %d", cfg.gasPriceGwei())
	}
}

func TestConfig_MissingFieldsAreConfigErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"MissingRPCURL", func(c *Config) { c.RPCURL = "" }},
		{"MissingPrivateKey", func(c *Config) { c.PrivateKey = "" }},
		{"MalformedPrivateKey", func(c *Config) { c.PrivateKey = "zz" }},
		{"MissingWalletAddress", func(c *Config) { c.WalletAddress = "" }},
		{"MalformedWalletAddress", func(c *Config) { c.WalletAddress = "not-an-address" }},
		{"MissingContractAddress", func(c *Config) { c.ContractAddress = "" }},
		{"NegativeGasPrice", func(c *Config) { c.GasPriceGwei = -1 }},
		{"NegativeChainID", func(c *Config) { c.ChainID = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !ledger.IsConfig(err) {
				t.Fatalf("expected Config error, got %v", err)
			}
		})
	}
}

func TestConfig_PrivateKeyAccepts0xPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.PrivateKey = "0x" + testKeyHex
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected 0x-prefixed key: %v", err)
	}
}

func TestFromEnv_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvRPCURL, "https://sepolia.example/rpc")
	t.Setenv(EnvPrivateKey, testKeyHex)
	t.Setenv(EnvWalletAddress, testAddress)
	t.Setenv(EnvContractAddress, "0x1111111111111111111111111111111111111111")
	t.Setenv(EnvGasLimit, "300000")
	t.Setenv(EnvGasPriceGwei, "25")
	t.Setenv(EnvChainID, "11155111")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.RPCURL != "https://sepolia.example/rpc" {
		t.Fatalf("RPCURL: got %q", cfg.RPCURL)
	}
	if cfg.GasLimit != 300000 || cfg.GasPriceGwei != 25 || cfg.ChainID != 11155111 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_MissingVariableFailsAtStartup(t *testing.T) {
	t.Setenv(EnvRPCURL, "")
	t.Setenv(EnvPrivateKey, testKeyHex)
	t.Setenv(EnvWalletAddress, testAddress)
	t.Setenv(EnvContractAddress, "0x1111111111111111111111111111111111111111")

	_, err := FromEnv()
	if !ledger.IsConfig(err) {
		t.Fatalf("expected Config error, got %v", err)
	}
}

func TestIsNonceConflict(t *testing.T) {
	if !isNonceConflict(errTest("nonce too low: next nonce 7, tx nonce 5")) {
		t.Fatalf("expected nonce-too-low to be a nonce conflict")
	}
	if isNonceConflict(errTest("insufficient funds for gas * price + value")) {
		t.Fatalf("insufficient funds misclassified as nonce conflict")
	}
	if isNonceConflict(nil) {
		t.Fatalf("nil misclassified as nonce conflict")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
