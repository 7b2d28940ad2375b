// Package ethledger implements ledger.KV against an Ethereum-style chain.
//
// Writes call the anchor contract's storeHash(string,string) in a signed
// legacy transaction and block until it is mined; reads call getHash(string)
// as a free eth_call. One Client serializes its writes: the chain orders
// transactions per identity by strictly increasing nonce, and concurrent
// submissions from the same key would otherwise race on it.
package ethledger

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"

	"github.com/provenlab/tabanchor/ledger"
)

// anchorABI is the two-method contract surface this client speaks.
const anchorABI = `[
  {
    "inputs": [
      { "internalType": "string", "name": "datasetName", "type": "string" },
      { "internalType": "string", "name": "hashValue", "type": "string" }
    ],
    "name": "storeHash",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "string", "name": "datasetName", "type": "string" }
    ],
    "name": "getHash",
    "outputs": [
      { "internalType": "string", "name": "", "type": "string" }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// Client implements ledger.KV over JSON-RPC.
type Client struct {
	cfg      Config
	eth      *ethclient.Client
	abi      abi.ABI
	key      *ecdsa.PrivateKey
	wallet   common.Address
	contract common.Address
	signer   types.Signer

	// writeMu serializes the nonce-fetch/sign/send/confirm sequence.
	writeMu sync.Mutex
}

var _ ledger.KV = (*Client)(nil)

// New dials the configured endpoint and prepares a signing client.
//
// Configuration problems surface as Config-kind errors; an unreachable
// endpoint (needed when ChainID is 0) surfaces as a Network-kind error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(anchorABI))
	if err != nil {
		return nil, ledger.NewError(ledger.KindConfig, "anchor ABI does not parse", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, ledger.NewError(ledger.KindConfig, EnvPrivateKey+": malformed signing key", err)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, ledger.NewError(ledger.KindNetwork, "dial "+cfg.RPCURL, err)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = eth.ChainID(ctx)
		if err != nil {
			eth.Close()
			return nil, ledger.NewError(ledger.KindNetwork, "fetch chain id", err)
		}
	}

	return &Client{
		cfg:      cfg,
		eth:      eth,
		abi:      parsed,
		key:      key,
		wallet:   common.HexToAddress(cfg.WalletAddress),
		contract: common.HexToAddress(cfg.ContractAddress),
		signer:   types.LatestSignerForChainID(chainID),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() error {
	c.eth.Close()
	return nil
}

// StoreHash stores value under name and blocks until the transaction is mined.
//
// There is no automatic resubmission: a confirmed-then-failed transaction has
// already spent gas and retrying could double-spend. The one exception is a
// nonce-too-low rejection, which the node raises before accepting the
// transaction; that is resubmitted once with a refreshed nonce.
func (c *Client) StoreHash(ctx context.Context, name, value string) (ledger.Receipt, error) {
	data, err := c.abi.Pack("storeHash", name, value)
	if err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "pack storeHash", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	rcpt, err := c.submit(ctx, data)
	if err != nil && isNonceConflict(err) {
		rcpt, err = c.submit(ctx, data)
	}
	return rcpt, err
}

func (c *Client) submit(ctx context.Context, data []byte) (ledger.Receipt, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.wallet)
	if err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "fetch nonce", err)
	}
	gasPrice := new(big.Int).Mul(big.NewInt(c.cfg.gasPriceGwei()), big.NewInt(params.GWei))
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Value:    big.NewInt(0),
		Gas:      c.cfg.gasLimit(),
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "sign transaction", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "submit transaction", err)
	}

	// The transaction is now irrevocable; waiting can time out via ctx but
	// the write itself cannot be recalled.
	rcpt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "await confirmation of "+signed.Hash().Hex(), err)
	}
	if rcpt.Status != types.ReceiptStatusSuccessful {
		return ledger.Receipt{}, ledger.NewError(ledger.KindTransaction, "transaction "+signed.Hash().Hex()+" reverted", nil)
	}
	return ledger.Receipt{
		TxHash:      signed.Hash().Hex(),
		BlockNumber: rcpt.BlockNumber.Uint64(),
		GasUsed:     rcpt.GasUsed,
	}, nil
}

// GetHash reads the stored value for name; never-written names read as "".
//
// Reads are side-effect-free, so a transport failure is retried once before
// surfacing a Network-kind error.
func (c *Client) GetHash(ctx context.Context, name string) (string, error) {
	data, err := c.abi.Pack("getHash", name)
	if err != nil {
		return "", ledger.NewError(ledger.KindNetwork, "pack getHash", err)
	}
	msg := ethereum.CallMsg{From: c.wallet, To: &c.contract, Data: data}

	raw, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		raw, err = c.eth.CallContract(ctx, msg, nil)
	}
	if err != nil {
		return "", ledger.NewError(ledger.KindNetwork, "call getHash", err)
	}
	if len(raw) == 0 {
		// A contract with no code (or a bare node default) returns no data.
		return "", nil
	}
	out, err := c.abi.Unpack("getHash", raw)
	if err != nil {
		return "", ledger.NewError(ledger.KindNetwork, "decode getHash result", err)
	}
	s, ok := out[0].(string)
	if !ok {
		return "", ledger.NewError(ledger.KindNetwork, "getHash returned a non-string value", nil)
	}
	return s, nil
}

// isNonceConflict matches the node-side rejection raised when a stale nonce is
// submitted. The error arrives over RPC as text, so this is a string match on
// the message go-ethereum nodes emit.
func isNonceConflict(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "nonce too low")
}
