// Package contracttest provides an in-memory chain that speaks the
// launchpad ABIs, for exercising bindings and action flows without a node.
package contracttest

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultChainID is the chain ID reported unless overridden.
const DefaultChainID = 1337

// Call is one eth_call seen by the fake chain, already decoded.
type Call struct {
	From   common.Address
	To     common.Address
	Value  *big.Int
	Method string
	Args   []interface{}
}

// Sent is one broadcast transaction, already decoded.
type Sent struct {
	Hash   common.Hash
	From   common.Address
	To     common.Address
	Value  *big.Int
	Nonce  uint64
	Method string
	Args   []interface{}
}

// Handler answers a call with the method's output values.
type Handler func(Call) ([]interface{}, error)

// Chain is a fake contract.Transport.
type Chain struct {
	mu        sync.Mutex
	chainID   *big.Int
	gasPrice  *big.Int
	handlers  map[common.Address]map[string]Handler
	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	calls     map[string]int
	sent      []Sent
	receipts  map[common.Hash]*chain.Receipt
	sendErrs  map[string]error
	reverting map[string]bool
	logs      map[string][]chain.Log
}

var _ contract.Transport = (*Chain)(nil)

var knownABIs = []abi.ABI{contract.PresaleABI, contract.FactoryABI, contract.ERC20ABI}

// New creates an empty fake chain.
func New() *Chain {
	return &Chain{
		chainID:   big.NewInt(DefaultChainID),
		gasPrice:  big.NewInt(1_000_000_000),
		handlers:  make(map[common.Address]map[string]Handler),
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		calls:     make(map[string]int),
		receipts:  make(map[common.Hash]*chain.Receipt),
		sendErrs:  make(map[string]error),
		reverting: make(map[string]bool),
		logs:      make(map[string][]chain.Log),
	}
}

// Handle registers fn for method on the contract at addr.
func (c *Chain) Handle(addr common.Address, method string, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers[addr] == nil {
		c.handlers[addr] = make(map[string]Handler)
	}
	c.handlers[addr][method] = fn
}

// Return makes method on addr always answer with outs.
func (c *Chain) Return(addr common.Address, method string, outs ...interface{}) {
	c.Handle(addr, method, func(Call) ([]interface{}, error) { return outs, nil })
}

// Revert makes method on addr revert with reason.
func (c *Chain) Revert(addr common.Address, method, reason string) {
	c.Handle(addr, method, func(Call) ([]interface{}, error) { return nil, RevertError(reason) })
}

// SetBalance sets the native balance of addr.
func (c *Chain) SetBalance(addr common.Address, wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[addr] = wei
}

// FailSend makes broadcasting a transaction for method return err.
func (c *Chain) FailSend(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErrs[method] = err
}

// RevertOnChain makes mined transactions for method report a failed status.
func (c *Chain) RevertOnChain(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reverting[method] = true
}

// EmitLogs attaches logs to receipts of transactions calling method.
func (c *Chain) EmitLogs(method string, logs ...chain.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs[method] = logs
}

// Calls returns how many eth_calls hit method, simulations included.
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Sent returns every broadcast transaction in order.
func (c *Chain) Sent() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}

// SentMethods returns the method names of every broadcast transaction in order.
func (c *Chain) SentMethods() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, s := range c.sent {
		out[i] = s.Method
	}
	return out
}

func (c *Chain) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

func (c *Chain) BalanceAt(_ context.Context, addr common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (c *Chain) CallContract(ctx context.Context, msg chain.CallMsg) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil {
		return nil, errors.New("contracttest: call without target")
	}
	method, args, err := decode(msg.Data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.calls[method.Name]++
	fn := c.handlers[*msg.To][method.Name]
	c.mu.Unlock()

	if fn == nil {
		if !method.IsConstant() {
			return nil, nil
		}
		return nil, fmt.Errorf("contracttest: no handler for %s on %s", method.Name, msg.To.Hex())
	}
	outs, err := fn(Call{From: msg.From, To: *msg.To, Value: msg.Value, Method: method.Name, Args: args})
	if err != nil {
		return nil, err
	}
	if !method.IsConstant() && outs == nil {
		return nil, nil
	}
	return method.Outputs.Pack(outs...)
}

func (c *Chain) EstimateGas(context.Context, chain.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (c *Chain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.gasPrice), nil
}

func (c *Chain) PendingNonceAt(_ context.Context, addr common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonces[addr], nil
}

func (c *Chain) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, fmt.Errorf("contracttest: decoding tx: %w", err)
	}
	from, err := types.Sender(types.NewLondonSigner(tx.ChainId()), tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("contracttest: recovering sender: %w", err)
	}
	method, args, err := decode(tx.Data())
	if err != nil {
		return common.Hash{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sendErrs[method.Name]; err != nil {
		return common.Hash{}, err
	}

	hash := tx.Hash()
	c.sent = append(c.sent, Sent{
		Hash: hash, From: from, To: *tx.To(), Value: tx.Value(),
		Nonce: tx.Nonce(), Method: method.Name, Args: args,
	})
	c.nonces[from] = tx.Nonce() + 1

	status := uint64(1)
	if c.reverting[method.Name] {
		status = 0
	}
	c.receipts[hash] = &chain.Receipt{
		TxHash:      hash,
		Status:      status,
		BlockNumber: uint64(len(c.sent)),
		GasUsed:     tx.Gas(),
		Logs:        c.logs[method.Name],
	}
	return hash, nil
}

func (c *Chain) WaitForReceipt(ctx context.Context, hash common.Hash) (*chain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.receipts[hash]
	if !ok {
		return nil, fmt.Errorf("contracttest: unknown transaction %s", hash.Hex())
	}
	if r.Status == 0 {
		return r, &chain.ReceiptError{Hash: hash}
	}
	return r, nil
}

func decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, errors.New("contracttest: calldata too short")
	}
	for i := range knownABIs {
		m, err := knownABIs[i].MethodById(data[:4])
		if err != nil {
			continue
		}
		args, err := m.Inputs.Unpack(data[4:])
		if err != nil {
			return nil, nil, fmt.Errorf("contracttest: decoding %s: %w", m.Name, err)
		}
		return m, args, nil
	}
	return nil, nil, fmt.Errorf("contracttest: unknown selector %x", data[:4])
}

// RevertError builds the node error for a require() failure carrying reason.
func RevertError(reason string) *chain.RPCError {
	stringTy, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: stringTy}}.Pack(reason)
	data := append(common.FromHex("0x08c379a0"), packed...)
	quoted, _ := json.Marshal(hexutil.Encode(data))
	return &chain.RPCError{Code: 3, Message: "execution reverted: " + reason, Data: quoted}
}

// PresaleCreatedLog builds the factory log announcing presale.
func PresaleCreatedLog(factory, presale common.Address) chain.Log {
	event := contract.FactoryABI.Events["PreSaleCreated"]
	data, _ := event.Inputs.Pack(presale)
	return chain.Log{Address: factory, Topics: []common.Hash{event.ID}, Data: data}
}

// KeySigner signs with a throwaway key.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

// NewKeySigner generates a fresh key.
func NewKeySigner() *KeySigner {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &KeySigner{key: key}
}

func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
}
