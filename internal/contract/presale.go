package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Presale write methods.
const (
	MethodBuyToken                = "buyToken"
	MethodClaim                   = "claim"
	MethodEmergencyWithdraw       = "contributorEmergencyWithdrawal"
	MethodWithdrawContribution    = "withdrawContribution"
	MethodFinalize                = "finalize"
	MethodCancel                  = "cancel"
	MethodWithdrawCancelledTokens = "withdrawCancelledTokens"
	MethodSetSalePeriod           = "setSalePeriodParams"
)

// Contribution is a contributor's on-chain position in a presale.
type Contribution struct {
	Amount     *big.Int
	IsClaimed  bool
	IsRefunded bool
}

// Presale is a typed binding for a presale contract.
type Presale struct {
	*Contract
}

// NewPresale binds the presale at address.
func NewPresale(address common.Address, tr Transport) *Presale {
	return &Presale{Contract: NewContract(address, PresaleABI, tr)}
}

// TotalTokensSold returns the sale-token amount sold so far, in base units.
func (p *Presale) TotalTokensSold(ctx context.Context) (*big.Int, error) {
	return p.readBig(ctx, "totalTokensSold")
}

// TotalContributors returns the number of distinct contributors.
func (p *Presale) TotalContributors(ctx context.Context) (*big.Int, error) {
	return p.readBig(ctx, "getTotalContributors")
}

// ContributorDetails returns the position of account.
func (p *Presale) ContributorDetails(ctx context.Context, account common.Address) (Contribution, error) {
	out, err := p.Read(ctx, "contributorDetails", account)
	if err != nil {
		return Contribution{}, err
	}
	if len(out) != 3 {
		return Contribution{}, fmt.Errorf("contributorDetails: unexpected output %v", out)
	}
	amount, ok1 := out[0].(*big.Int)
	claimed, ok2 := out[1].(bool)
	refunded, ok3 := out[2].(bool)
	if !ok1 || !ok2 || !ok3 {
		return Contribution{}, fmt.Errorf("contributorDetails: unexpected output %v", out)
	}
	return Contribution{Amount: amount, IsClaimed: claimed, IsRefunded: refunded}, nil
}

// IsCancelled reports the contract's cancelled flag.
func (p *Presale) IsCancelled(ctx context.Context) (bool, error) {
	return p.readBool(ctx, "isCancelled")
}

// IsFinalized reports the contract's finalized flag.
func (p *Presale) IsFinalized(ctx context.Context) (bool, error) {
	return p.readBool(ctx, "isFinalized")
}

// Owner returns the presale owner.
func (p *Presale) Owner(ctx context.Context) (common.Address, error) {
	return p.readAddress(ctx, "owner")
}

// SimulateBuy dry-runs buyToken. Native-currency purchases carry amount as value.
func (p *Presale) SimulateBuy(ctx context.Context, from, token common.Address, amount *big.Int) (*Request, error) {
	var value *big.Int
	if IsNative(token) {
		value = amount
	}
	return p.Simulate(ctx, from, value, MethodBuyToken, token, amount)
}

// SimulateSetSalePeriod dry-runs setSalePeriodParams with unix-second bounds.
func (p *Presale) SimulateSetSalePeriod(ctx context.Context, from common.Address, start, end int64) (*Request, error) {
	return p.Simulate(ctx, from, nil, MethodSetSalePeriod, big.NewInt(start), big.NewInt(end))
}
