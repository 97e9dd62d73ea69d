package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeToken is the zero address, used in place of an ERC-20 when a
// presale accepts the chain's native currency.
var NativeToken = common.Address{}

// IsNative reports whether token refers to the native currency.
func IsNative(token common.Address) bool {
	return token == NativeToken
}

// ERC20 is a typed binding for an ERC-20 token.
type ERC20 struct {
	*Contract
}

// NewERC20 binds the token at address.
func NewERC20(address common.Address, tr Transport) *ERC20 {
	return &ERC20{Contract: NewContract(address, ERC20ABI, tr)}
}

// Allowance returns how much spender may pull from owner.
func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return t.readBig(ctx, "allowance", owner, spender)
}

// BalanceOf returns the token balance of holder in base units.
func (t *ERC20) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	return t.readBig(ctx, "balanceOf", holder)
}

// Decimals returns the token's decimals.
func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.Read(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := first(out).(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected output %v", out)
	}
	return d, nil
}

// Symbol returns the token's ticker.
func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	return t.readString(ctx, "symbol")
}

// Name returns the token's name.
func (t *ERC20) Name(ctx context.Context) (string, error) {
	return t.readString(ctx, "name")
}

// SimulateApprove dry-runs approve(spender, amount) from owner.
func (t *ERC20) SimulateApprove(ctx context.Context, owner, spender common.Address, amount *big.Int) (*Request, error) {
	return t.Simulate(ctx, owner, nil, "approve", spender, amount)
}

func (t *ERC20) readString(ctx context.Context, method string) (string, error) {
	out, err := t.Read(ctx, method)
	if err != nil {
		return "", err
	}
	s, ok := first(out).(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected output %v", method, out)
	}
	return s, nil
}
