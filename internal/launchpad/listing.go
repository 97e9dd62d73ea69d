package launchpad

import (
	"context"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const listingReads = 8

// LoadSoldAmounts sets TotalTokensSold on every listed presale from its
// sale contract. A presale whose chain or contract cannot be read keeps the
// backend's value; failures are only logged.
func LoadSoldAmounts(ctx context.Context, list []presale.Presale, transports TransportFunc, log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var g errgroup.Group
	g.SetLimit(listingReads)
	for i := range list {
		p := &list[i]
		g.Go(func() error {
			tr, err := transports(p.ChainID)
			if err != nil {
				log.Debugw("skipping sold amount", "sale", p.SaleContractAddress.Hex(), "error", err)
				return nil
			}
			sold, err := contract.NewPresale(p.SaleContractAddress, tr).TotalTokensSold(ctx)
			if err != nil {
				log.Warnw("reading sold amount", "sale", p.SaleContractAddress.Hex(), "error", err)
				return nil
			}
			v := chain.FormatUnits(sold, p.Token.Decimals)
			p.TotalTokensSold = &v
			return nil
		})
	}
	_ = g.Wait()
}
