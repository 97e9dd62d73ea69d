package launchpad

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Backend is the part of the backend API the orchestrator writes to.
type Backend interface {
	CreateTransaction(ctx context.Context, rec backend.TransactionRecord) error
	UpdateSchedule(ctx context.Context, address string, s backend.Schedule) error
}

var _ Backend = (*backend.Client)(nil)

// Orchestrator runs buyer and owner actions for one presale and keeps its
// store in sync with the chain.
type Orchestrator struct {
	*runner
	store   *presale.Store
	backend Backend
	sale    *contract.Presale
}

// New creates an orchestrator for the presale held by store.
func New(store *presale.Store, tr contract.Transport, api Backend, opts ...Option) *Orchestrator {
	p := store.Presale()
	return &Orchestrator{
		runner:  newRunner(tr, "orchestrator", opts),
		store:   store,
		backend: api,
		sale:    contract.NewPresale(p.SaleContractAddress, tr),
	}
}

// Store returns the state the orchestrator writes through.
func (o *Orchestrator) Store() *presale.Store { return o.store }

// Buy spends amount of token, in display units, on sale tokens. Non-native
// tokens are approved to the sale contract first when the allowance is short.
func (o *Orchestrator) Buy(ctx context.Context, token presale.WhitelistToken, amount string) (common.Hash, error) {
	amount = strings.TrimSpace(amount)
	if !o.Connected() || amount == "" {
		return common.Hash{}, nil
	}
	value, err := chain.ParseUnits(amount, token.Decimals)
	if err != nil {
		return common.Hash{}, o.fail(OpBuy, fmt.Errorf("invalid amount %q: %w", amount, err))
	}
	if value.Sign() == 0 {
		return common.Hash{}, nil
	}

	p := o.store.Presale()
	bought := boughtAmount(amount, token.Price)

	a := action{
		op: OpBuy,
		prepare: func(ctx context.Context, from common.Address) (*contract.Request, error) {
			return o.sale.SimulateBuy(ctx, from, token.ContractAddress, value)
		},
		success: func() string {
			return fmt.Sprintf("You have successfully bought %s %s tokens", bought.String(), p.Token.Symbol)
		},
		effects: []effect{
			{name: "audit", fn: func(ctx context.Context, hash common.Hash) error {
				f, _ := bought.Float64()
				return o.backend.CreateTransaction(ctx, backend.TransactionRecord{
					TransactionHash: hash.Hex(),
					BlockchainID:    p.Blockchain.ID,
					BoughtAmount:    f,
					LaunchpadID:     p.ID,
					WalletAddress:   o.Account().Hex(),
				})
			}},
			refresh("sold", o.FetchSoldAmount),
			refresh("contributor", o.FetchContributorDetails),
			refresh("sale-status", o.FetchSaleStatus),
		},
	}
	if !token.IsNative() {
		a.approve = &allowance{token: token.ContractAddress, spender: o.sale.Address(), amount: value}
	}
	return o.execute(ctx, a)
}

// boughtAmount is the sale-token amount a payment buys at price.
func boughtAmount(amount string, price float64) decimal.Decimal {
	d, err := decimal.NewFromString(amount)
	if err != nil || price <= 0 {
		return decimal.Zero
	}
	return d.Div(decimal.NewFromFloat(price))
}

// Claim unlocks purchased tokens after the sale ends.
func (o *Orchestrator) Claim(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpClaim, contract.MethodClaim,
		"You have successfully unlocked your tokens",
		refresh("contributor", o.FetchContributorDetails))
}

// EmergencyWithdraw exits a live sale early; the contract applies its penalty.
func (o *Orchestrator) EmergencyWithdraw(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpEmergencyWithdraw, contract.MethodEmergencyWithdraw,
		"You have successfully withdrawn your funds",
		refresh("sold", o.FetchSoldAmount),
		refresh("contributor", o.FetchContributorDetails))
}

// WithdrawContribution refunds a contribution after the sale was cancelled.
func (o *Orchestrator) WithdrawContribution(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpWithdrawContribution, contract.MethodWithdrawContribution,
		"You have successfully withdrawn your funds",
		refresh("contributor", o.FetchContributorDetails))
}

// Finalize closes the sale successfully. Owner only.
func (o *Orchestrator) Finalize(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpFinalize, contract.MethodFinalize,
		"You have successfully finalized the sale",
		refresh("sale-status", o.FetchSaleStatus))
}

// Cancel marks the sale cancelled. Owner only.
func (o *Orchestrator) Cancel(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpCancel, contract.MethodCancel,
		"You have successfully cancelled the sale",
		refresh("sale-status", o.FetchSaleStatus))
}

// WithdrawCancelledTokens returns unsold sale tokens to the owner after a cancel.
func (o *Orchestrator) WithdrawCancelledTokens(ctx context.Context) (common.Hash, error) {
	return o.simple(ctx, OpWithdrawCancelledTokens, contract.MethodWithdrawCancelledTokens,
		"You have successfully withdrawn canceled tokens",
		refresh("contributor", o.FetchContributorDetails))
}

func (o *Orchestrator) simple(ctx context.Context, op Op, method, success string, effects ...effect) (common.Hash, error) {
	return o.execute(ctx, action{
		op: op,
		prepare: func(ctx context.Context, from common.Address) (*contract.Request, error) {
			return o.sale.Simulate(ctx, from, nil, method)
		},
		success: func() string { return success },
		effects: effects,
	})
}

// ChangeSchedule moves the sale window on-chain, then mirrors it to the
// store and the backend record. A backend failure fails the action even
// though the chain already has the new window.
func (o *Orchestrator) ChangeSchedule(ctx context.Context, start, end time.Time) (common.Hash, error) {
	if start.IsZero() || end.IsZero() {
		return common.Hash{}, nil
	}
	address := o.sale.Address().Hex()
	return o.execute(ctx, action{
		op: OpChangeSchedule,
		prepare: func(ctx context.Context, from common.Address) (*contract.Request, error) {
			return o.sale.SimulateSetSalePeriod(ctx, from, start.Unix(), end.Unix())
		},
		after: func(ctx context.Context, _ *chain.Receipt) error {
			o.store.SetSchedule(start, end)
			return o.backend.UpdateSchedule(ctx, address, backend.Schedule{StartTime: start, EndTime: end})
		},
		success: func() string { return "You have successfully updated the sale schedule" },
	})
}
