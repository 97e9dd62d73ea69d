package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
)

// session is one opened presale with its evaluated state.
type session struct {
	orch   *launchpad.Orchestrator
	status presale.Status
	avail  presale.Availability
}

func (s *session) presale() presale.Presale { return s.orch.Store().Presale() }

// openSession loads the presale at arg and reads its on-chain figures,
// plus the viewer's position when a wallet is attached.
func openSession(ctx context.Context, arg string, opts ...launchpad.Option) (*session, error) {
	sale, err := parseSale(arg)
	if err != nil {
		return nil, err
	}
	api := newBackend()
	opts = append([]launchpad.Option{
		launchpad.WithLogger(log),
		launchpad.WithConfirmTimeout(cfg.ConfirmTimeout.Std()),
		launchpad.WithBackgroundTimeout(config.BackgroundTimeout),
	}, opts...)

	orch, err := launchpad.Open(ctx, api, sale, transports(), api, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading presale: %w", err)
	}
	if err := orch.Refresh(ctx); err != nil {
		return nil, err
	}
	orch.FetchAccountData(ctx)

	s := &session{orch: orch}
	return s, s.evaluate(ctx, time.Now())
}

// evaluate derives the status and the viewer's actions as of now.
func (s *session) evaluate(ctx context.Context, now time.Time) error {
	store := s.orch.Store()
	s.status = store.Status(now)
	v, err := s.orch.Viewer(ctx, s.status)
	if err != nil {
		return err
	}
	p := store.Presale()
	s.avail = presale.Available(&p, s.status, store.Figures(), v)
	return nil
}

var errNotAvailable = errors.New("action not available")

// checkAvailable gates write commands on the viewer's actions. Withdrawing a
// contribution is never offered, so its command skips the gate and leaves
// the decision to the contract.
func checkAvailable(act presale.Action, status presale.Status, avail presale.Availability) error {
	if act == presale.ActionWithdrawContribution || avail.Allows(act) {
		return nil
	}
	return fmt.Errorf("%w: %s while the presale is %s", errNotAvailable, act, status)
}
