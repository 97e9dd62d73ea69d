package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const defaultPollInterval = 2 * time.Second

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url          string
	client       *http.Client
	pollInterval time.Duration
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *EVMClient) { c.client = hc }
}

// WithPollInterval sets how often WaitForReceipt polls for a receipt.
func WithPollInterval(d time.Duration) Option {
	return func(c *EVMClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string, opts ...Option) *EVMClient {
	c := &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the RPC endpoint.
func (c *EVMClient) URL() string { return c.url }

// CallMsg describes a call or transaction for eth_call and eth_estimateGas.
type CallMsg struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Data  []byte
}

func (m CallMsg) toArg() map[string]interface{} {
	arg := map[string]interface{}{}
	if m.From != (common.Address{}) {
		arg["from"] = m.From
	}
	if m.To != nil {
		arg["to"] = m.To
	}
	if len(m.Data) > 0 {
		arg["data"] = hexutil.Bytes(m.Data)
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		arg["value"] = (*hexutil.Big)(m.Value)
	}
	return arg
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// BalanceAt returns the native balance of address in wei.
func (c *EVMClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var bal hexutil.Big
	if err := c.call(ctx, &bal, "eth_getBalance", address, "latest"); err != nil {
		return nil, err
	}
	return bal.ToInt(), nil
}

// CallContract executes msg with eth_call against the latest block and
// returns the raw return data. A revert comes back as an *RPCError.
func (c *EVMClient) CallContract(ctx context.Context, msg CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, &out, "eth_call", msg.toArg(), "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas estimates gas for msg.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var gas hexutil.Uint64
	if err := c.call(ctx, &gas, "eth_estimateGas", msg.toArg()); err != nil {
		return 0, err
	}
	return uint64(gas), nil
}

// SuggestGasPrice returns the current gas price.
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var gp hexutil.Big
	if err := c.call(ctx, &gp, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return gp.ToInt(), nil
}

// PendingNonceAt returns the transaction count including queued
// transactions, using the "pending" block tag.
func (c *EVMClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_getTransactionCount", address, "pending"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// SendRawTransaction broadcasts a signed, RLP/typed-encoded transaction.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// Log is one event log attached to a receipt.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// Receipt holds the on-chain receipt of a mined transaction.
type Receipt struct {
	TxHash          common.Hash
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress common.Address
	Logs            []Log
}

type rpcReceipt struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	Status          hexutil.Uint64  `json:"status"`
	BlockNumber     hexutil.Uint64  `json:"blockNumber"`
	GasUsed         hexutil.Uint64  `json:"gasUsed"`
	ContractAddress *common.Address `json:"contractAddress"`
	Logs            []Log           `json:"logs"`
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var r *rpcReceipt
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	receipt := &Receipt{
		TxHash:      hash,
		Status:      uint64(r.Status),
		BlockNumber: uint64(r.BlockNumber),
		GasUsed:     uint64(r.GasUsed),
		Logs:        r.Logs,
	}
	if r.ContractAddress != nil {
		receipt.ContractAddress = *r.ContractAddress
	}
	return receipt, nil
}

// WaitForReceipt polls until the transaction is mined or ctx is done.
// A mined transaction with status 0 is returned together with a *ReceiptError.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, &ReceiptError{Hash: hash}
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (c *EVMClient) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("parsing result of %s: %w", method, err)
	}
	return nil
}
