package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Transport is the subset of the chain client the launchpad needs.
// *chain.EVMClient satisfies it.
type Transport interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	CallContract(ctx context.Context, msg chain.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash) (*chain.Receipt, error)
}

var _ Transport = (*chain.EVMClient)(nil)

// RevertError is returned when a simulated or read call is rejected by the contract.
type RevertError struct {
	Reason string
	Data   []byte
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error { return e.Err }

// asRevert converts node-level revert errors into *RevertError and passes
// everything else through untouched.
func asRevert(err error) error {
	var rpcErr *chain.RPCError
	if !errors.As(err, &rpcErr) || !rpcErr.IsRevert() {
		return err
	}
	rev := &RevertError{Err: err}
	if data, ok := rpcErr.RevertData(); ok {
		rev.Data = data
		if reason, uerr := abi.UnpackRevert(data); uerr == nil {
			rev.Reason = reason
		}
	}
	if rev.Reason == "" {
		if _, after, found := strings.Cut(rpcErr.Message, "execution reverted:"); found {
			rev.Reason = strings.TrimSpace(after)
		}
	}
	return rev
}

// Contract binds an ABI to a deployed address.
type Contract struct {
	address common.Address
	abi     abi.ABI
	tr      Transport
}

// NewContract creates a binding for the contract at address.
func NewContract(address common.Address, parsed abi.ABI, tr Transport) *Contract {
	return &Contract{address: address, abi: parsed, tr: tr}
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address { return c.address }

// Read calls a view function and returns the decoded outputs.
func (c *Contract) Read(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	to := c.address
	out, err := c.tr.CallContract(ctx, chain.CallMsg{To: &to, Data: data})
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, asRevert(err))
	}
	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return values, nil
}

// Request is a write call that passed simulation and is ready to be signed.
type Request struct {
	Method string
	From   common.Address
	To     common.Address
	Value  *big.Int
	Data   []byte
}

func (r *Request) msg() chain.CallMsg {
	to := r.To
	return chain.CallMsg{From: r.From, To: &to, Value: r.Value, Data: r.Data}
}

// Simulate dry-runs a write call from the given account with eth_call.
// A rejected call surfaces as *RevertError and nothing is returned to send.
func (c *Contract) Simulate(ctx context.Context, from common.Address, value *big.Int, method string, args ...interface{}) (*Request, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	if value == nil {
		value = new(big.Int)
	}
	req := &Request{Method: method, From: from, To: c.address, Value: value, Data: data}
	if _, err := c.tr.CallContract(ctx, req.msg()); err != nil {
		return nil, fmt.Errorf("simulating %s: %w", method, asRevert(err))
	}
	return req, nil
}

func (c *Contract) readBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.Read(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := first(out).(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output %v", method, out)
	}
	return v, nil
}

func (c *Contract) readBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	out, err := c.Read(ctx, method, args...)
	if err != nil {
		return false, err
	}
	v, ok := first(out).(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected output %v", method, out)
	}
	return v, nil
}

func (c *Contract) readAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	out, err := c.Read(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := first(out).(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected output %v", method, out)
	}
	return v, nil
}

func first(out []interface{}) interface{} {
	if len(out) == 0 {
		return nil
	}
	return out[0]
}
