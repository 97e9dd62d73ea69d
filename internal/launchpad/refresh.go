package launchpad

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// FetchSoldAmount reads totalTokensSold into the store.
func (o *Orchestrator) FetchSoldAmount(ctx context.Context) error {
	sold, err := o.sale.TotalTokensSold(ctx)
	if err != nil {
		return fmt.Errorf("fetching sold amount: %w", err)
	}
	p := o.store.Presale()
	o.store.SetTotalTokensSold(chain.FormatUnits(sold, p.Token.Decimals))
	return nil
}

// FetchTotalContributors reads the contributor count into the store.
func (o *Orchestrator) FetchTotalContributors(ctx context.Context) error {
	n, err := o.sale.TotalContributors(ctx)
	if err != nil {
		return fmt.Errorf("fetching contributors: %w", err)
	}
	o.store.SetTotalContributors(n.Int64())
	return nil
}

// FetchContributorDetails reads the connected wallet's position. It does
// nothing when no wallet is connected.
func (o *Orchestrator) FetchContributorDetails(ctx context.Context) error {
	if !o.Connected() {
		return nil
	}
	c, err := o.sale.ContributorDetails(ctx, o.Account())
	if err != nil {
		return fmt.Errorf("fetching contributor details: %w", err)
	}
	p := o.store.Presale()
	o.store.SetContributor(presale.ContributorDetails{
		Amount:     chain.FormatUnits(c.Amount, p.Token.Decimals),
		IsClaimed:  c.IsClaimed,
		IsRefunded: c.IsRefunded,
	})
	return nil
}

// FetchSaleStatus reads both terminal flags in parallel.
func (o *Orchestrator) FetchSaleStatus(ctx context.Context) error {
	var flags presale.SaleFlags
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := o.sale.IsCancelled(gctx)
		flags.IsCancelled = v
		return err
	})
	g.Go(func() error {
		v, err := o.sale.IsFinalized(gctx)
		flags.IsFinalized = v
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching sale status: %w", err)
	}
	o.store.SetFlags(flags)
	return nil
}

// FetchTokenBalance returns holder's balance of token in display units.
// The zero address reads the native balance.
func (o *Orchestrator) FetchTokenBalance(ctx context.Context, token presale.Token, holder common.Address) (float64, error) {
	var (
		raw *big.Int
		err error
	)
	if contract.IsNative(token.ContractAddress) {
		raw, err = o.tr.BalanceAt(ctx, holder)
	} else {
		raw, err = contract.NewERC20(token.ContractAddress, o.tr).BalanceOf(ctx, holder)
	}
	if err != nil {
		return 0, fmt.Errorf("fetching %s balance: %w", token.Symbol, err)
	}
	return chain.FormatUnits(raw, token.Decimals), nil
}

// FetchTokenBalances reads the connected wallet's balance of every
// whitelisted token, keyed by symbol.
func (o *Orchestrator) FetchTokenBalances(ctx context.Context) error {
	if !o.Connected() {
		return nil
	}
	p := o.store.Presale()
	account := o.Account()
	values := make([]float64, len(p.WhitelistedTokens))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range p.WhitelistedTokens {
		g.Go(func() error {
			v, err := o.FetchTokenBalance(gctx, t.Token, account)
			values[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	balances := make(map[string]float64, len(values))
	for i, t := range p.WhitelistedTokens {
		balances[t.Symbol] = values[i]
	}
	o.store.SetBalances(balances)
	return nil
}

// SaleTokenBalance is the sale token still held by the sale contract.
func (o *Orchestrator) SaleTokenBalance(ctx context.Context) (float64, error) {
	p := o.store.Presale()
	return o.FetchTokenBalance(ctx, p.Token, p.SaleContractAddress)
}

// Viewer describes the connected wallet for availability checks. The sale
// contract's token balance is only read for the owner of a cancelled sale.
func (o *Orchestrator) Viewer(ctx context.Context, status presale.Status) (presale.Viewer, error) {
	v := presale.Viewer{Account: o.Account()}
	p := o.store.Presale()
	if status != presale.StatusCanceled || !p.IsOwner(v.Account) {
		return v, nil
	}
	bal, err := o.SaleTokenBalance(ctx)
	if err != nil {
		return v, err
	}
	v.SaleTokenBalance = bal
	return v, nil
}

// Refresh reads the sold amount, contributor count and sale flags in
// parallel and returns the first failure.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.FetchSoldAmount(gctx) })
	g.Go(func() error { return o.FetchTotalContributors(gctx) })
	g.Go(func() error { return o.FetchSaleStatus(gctx) })
	return g.Wait()
}

// FetchInitialData is Refresh for first loads: it marks the orchestrator
// busy and logs failures instead of returning them.
func (o *Orchestrator) FetchInitialData(ctx context.Context) {
	defer o.busy()()
	if err := o.Refresh(ctx); err != nil {
		o.log.Warnw("initial load failed", "error", err)
	}
}

// FetchAccountData loads the connected wallet's balances and position.
func (o *Orchestrator) FetchAccountData(ctx context.Context) {
	if !o.Connected() {
		return
	}
	defer o.busy()()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.FetchTokenBalances(gctx) })
	g.Go(func() error { return o.FetchContributorDetails(gctx) })
	if err := g.Wait(); err != nil {
		o.log.Warnw("account load failed", "error", err)
	}
}
