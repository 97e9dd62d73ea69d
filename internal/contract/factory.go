package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNoPresaleCreated is returned when a creation receipt carries no
// PreSaleCreated event from the factory.
var ErrNoPresaleCreated = errors.New("no PreSaleCreated event in receipt")

// CreateParams are the createPreSale arguments, all in base units except
// the unix-second schedule.
type CreateParams struct {
	Rate        *big.Int
	SaleToken   common.Address
	TotalTokens *big.Int
	MinBuy      *big.Int
	MaxBuy      *big.Int
	Start       int64
	End         int64
	Tokens      []common.Address
	TokenPrices []*big.Int
}

// Factory is a typed binding for the presale factory.
type Factory struct {
	*Contract
}

// NewFactory binds the factory at address.
func NewFactory(address common.Address, tr Transport) *Factory {
	return &Factory{Contract: NewContract(address, FactoryABI, tr)}
}

// ServiceFee returns the factory's service fee.
func (f *Factory) ServiceFee(ctx context.Context) (*big.Int, error) {
	return f.readBig(ctx, "serviceFee")
}

// ServiceReceiver returns the address collecting fees.
func (f *Factory) ServiceReceiver(ctx context.Context) (common.Address, error) {
	return f.readAddress(ctx, "serviceReceiver")
}

// PresaleAt returns the i-th presale created by the factory.
func (f *Factory) PresaleAt(ctx context.Context, i int64) (common.Address, error) {
	return f.readAddress(ctx, "preSales", big.NewInt(i))
}

// UserPresaleAt returns the i-th presale created by owner.
func (f *Factory) UserPresaleAt(ctx context.Context, owner common.Address, i int64) (common.Address, error) {
	return f.readAddress(ctx, "userPreSales", owner, big.NewInt(i))
}

// SimulateCreate dry-runs createPreSale, paying fee as value.
func (f *Factory) SimulateCreate(ctx context.Context, from common.Address, fee *big.Int, p CreateParams) (*Request, error) {
	if len(p.Tokens) != len(p.TokenPrices) {
		return nil, fmt.Errorf("createPreSale: %d tokens but %d prices", len(p.Tokens), len(p.TokenPrices))
	}
	return f.Simulate(ctx, from, fee, "createPreSale",
		p.Rate, p.SaleToken, p.TotalTokens, p.MinBuy, p.MaxBuy,
		big.NewInt(p.Start), big.NewInt(p.End), p.Tokens, p.TokenPrices)
}

// PresaleCreated extracts the new presale address from a creation receipt's logs.
func (f *Factory) PresaleCreated(logs []chain.Log) (common.Address, error) {
	event := f.abi.Events["PreSaleCreated"]
	for _, l := range logs {
		if l.Address != f.address || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		out, err := f.abi.Unpack("PreSaleCreated", l.Data)
		if err != nil {
			return common.Address{}, fmt.Errorf("decoding PreSaleCreated: %w", err)
		}
		if addr, ok := first(out).(common.Address); ok {
			return addr, nil
		}
	}
	return common.Address{}, ErrNoPresaleCreated
}
