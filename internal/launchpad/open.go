package launchpad

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
)

// PresaleSource loads presale records by sale contract address.
type PresaleSource interface {
	GetPresale(ctx context.Context, address string) (*presale.Presale, error)
}

var _ PresaleSource = (*backend.Client)(nil)

// TransportFunc returns the chain transport for a chain id.
type TransportFunc func(chainID int64) (contract.Transport, error)

// Open loads the presale deployed at sale and returns an orchestrator over a
// fresh store for it, talking to the chain the presale lives on. No chain
// reads happen here; call Refresh or FetchInitialData next.
func Open(ctx context.Context, src PresaleSource, sale common.Address, transports TransportFunc, api Backend, opts ...Option) (*Orchestrator, error) {
	p, err := src.GetPresale(ctx, sale.Hex())
	if err != nil {
		return nil, err
	}
	if p.SaleContractAddress != sale {
		return nil, fmt.Errorf("%w: backend returned sale %s for %s", presale.ErrInvalidPresale, p.SaleContractAddress.Hex(), sale.Hex())
	}
	tr, err := transports(p.ChainID)
	if err != nil {
		return nil, fmt.Errorf("presale %s: %w", sale.Hex(), err)
	}
	return New(presale.NewStore(*p), tr, api, opts...), nil
}
