// Package launchpad runs presale actions against the chain: allowance,
// simulation, submission and confirmation, followed by best-effort refreshes
// and audit writes.
package launchpad

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/notify"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Op names an orchestrated action.
type Op string

const (
	OpBuy                     Op = "buy"
	OpClaim                   Op = "claim"
	OpEmergencyWithdraw       Op = "emergency-withdraw"
	OpWithdrawContribution    Op = "withdraw-contribution"
	OpFinalize                Op = "finalize"
	OpCancel                  Op = "cancel"
	OpWithdrawCancelledTokens Op = "withdraw-cancelled"
	OpChangeSchedule          Op = "set-schedule"
	OpCreate                  Op = "create"
)

// Phase is the progress of a single action.
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhasePreconditionChecked Phase = "precondition-checked"
	PhaseApproving           Phase = "approving"
	PhaseApproved            Phase = "approved"
	PhaseSimulating          Phase = "simulating"
	PhaseSubmitting          Phase = "submitting"
	PhaseConfirming          Phase = "confirming"
	PhaseSucceeded           Phase = "succeeded"
	PhaseFailed              Phase = "failed"
)

// PhaseHook observes phase transitions.
type PhaseHook func(op Op, phase Phase)

const defaultBackgroundTimeout = 30 * time.Second

// runner holds what every action needs; Orchestrator and Creator embed it.
type runner struct {
	tr       contract.Transport
	sender   *contract.Sender
	notifier notify.Notifier
	log      *zap.SugaredLogger
	onPhase  PhaseHook

	confirmTimeout    time.Duration
	backgroundTimeout time.Duration

	inflight atomic.Int32
	bg       sync.WaitGroup
}

// Option configures an Orchestrator or a Creator.
type Option func(*runner)

// WithSigner connects a wallet. Without one every action is a no-op.
func WithSigner(s contract.Signer) Option {
	return func(r *runner) {
		if s != nil {
			r.sender = contract.NewSender(r.tr, s)
		}
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *runner) { r.log = log }
}

func WithNotifier(n notify.Notifier) Option {
	return func(r *runner) { r.notifier = n }
}

func WithPhaseHook(h PhaseHook) Option {
	return func(r *runner) { r.onPhase = h }
}

// WithConfirmTimeout bounds each receipt wait. Zero waits until ctx ends.
func WithConfirmTimeout(d time.Duration) Option {
	return func(r *runner) { r.confirmTimeout = d }
}

// WithBackgroundTimeout bounds each post-success refresh or audit write.
func WithBackgroundTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.backgroundTimeout = d
		}
	}
}

func newRunner(tr contract.Transport, name string, opts []Option) *runner {
	r := &runner{
		tr:                tr,
		notifier:          notify.Discard{},
		log:               zap.NewNop().Sugar(),
		backgroundTimeout: defaultBackgroundTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named(name)
	return r
}

// IsLoading reports whether an action or initial load is in flight.
func (r *runner) IsLoading() bool { return r.inflight.Load() > 0 }

// Wait blocks until every background refresh and audit write has finished.
func (r *runner) Wait() { r.bg.Wait() }

// Account returns the connected wallet, or the zero address.
func (r *runner) Account() common.Address {
	if r.sender == nil {
		return common.Address{}
	}
	return r.sender.Account()
}

// Connected reports whether a wallet is attached.
func (r *runner) Connected() bool { return r.sender != nil }

func (r *runner) phase(op Op, p Phase) {
	r.log.Debugw("phase", "op", op, "phase", p)
	if r.onPhase != nil {
		r.onPhase(op, p)
	}
}

func (r *runner) busy() func() {
	r.inflight.Inc()
	return func() { r.inflight.Dec() }
}

// allowance asks for token approval before the main call.
type allowance struct {
	token   common.Address
	spender common.Address
	amount  *big.Int
	// notified after an approval was actually sent
	approved string
}

// effect is a best-effort side effect run after success.
type effect struct {
	name string
	fn   func(ctx context.Context, hash common.Hash) error
}

// refresh adapts a store refresh to an effect.
func refresh(name string, fn func(context.Context) error) effect {
	return effect{name: name, fn: func(ctx context.Context, _ common.Hash) error { return fn(ctx) }}
}

type action struct {
	op      Op
	approve *allowance
	prepare func(ctx context.Context, from common.Address) (*contract.Request, error)
	after   func(ctx context.Context, rcpt *chain.Receipt) error
	success func() string
	effects []effect
}

// execute runs a through the common protocol. Failures are normalized,
// notified and returned; the hash is returned whenever the main
// transaction was broadcast.
func (r *runner) execute(ctx context.Context, a action) (common.Hash, error) {
	if r.sender == nil {
		r.log.Debugw("no wallet connected, skipping", "op", a.op)
		return common.Hash{}, nil
	}
	defer r.busy()()

	r.phase(a.op, PhasePreconditionChecked)
	hash, err := r.run(ctx, a)
	if err != nil {
		return hash, r.fail(a.op, err)
	}

	r.phase(a.op, PhaseSucceeded)
	r.log.Infow("action succeeded", "op", a.op, "hash", hash.Hex())
	if a.success != nil {
		r.notifier.Success(a.success())
	}
	for _, e := range a.effects {
		r.background(a.op, e, hash)
	}
	return hash, nil
}

func (r *runner) run(ctx context.Context, a action) (common.Hash, error) {
	from := r.sender.Account()
	if a.approve != nil {
		if err := r.ensureAllowance(ctx, a.op, from, *a.approve); err != nil {
			return common.Hash{}, err
		}
	}

	r.phase(a.op, PhaseSimulating)
	req, err := a.prepare(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}

	hash, rcpt, err := r.submit(ctx, a.op, req)
	if err != nil {
		return hash, err
	}
	if a.after != nil {
		if err := a.after(ctx, rcpt); err != nil {
			return hash, err
		}
	}
	return hash, nil
}

func (r *runner) fail(op Op, err error) *ActionError {
	ae := Normalize(op, err)
	r.phase(op, PhaseFailed)
	r.log.Warnw("action failed", "op", op, "kind", ae.Kind, "error", err)
	r.notifier.Error(ae.Message)
	return ae
}

// ensureAllowance approves spender for amount unless the current allowance
// already covers it, and waits for the approval to be mined.
func (r *runner) ensureAllowance(ctx context.Context, op Op, owner common.Address, a allowance) error {
	token := contract.NewERC20(a.token, r.tr)
	current, err := token.Allowance(ctx, owner, a.spender)
	if err != nil {
		return fmt.Errorf("reading allowance: %w", err)
	}
	if current.Cmp(a.amount) >= 0 {
		r.log.Debugw("allowance sufficient", "op", op, "token", a.token.Hex(), "allowance", current)
		return nil
	}

	r.phase(op, PhaseApproving)
	req, err := token.SimulateApprove(ctx, owner, a.spender, a.amount)
	if err != nil {
		return err
	}
	if _, _, err := r.submit(ctx, op, req); err != nil {
		return fmt.Errorf("approving %s: %w", a.token.Hex(), err)
	}
	r.phase(op, PhaseApproved)
	if a.approved != "" {
		r.notifier.Success(a.approved)
	}
	return nil
}

// submit broadcasts req and waits for its receipt.
func (r *runner) submit(ctx context.Context, op Op, req *contract.Request) (common.Hash, *chain.Receipt, error) {
	r.phase(op, PhaseSubmitting)
	hash, err := r.sender.Send(ctx, req)
	if err != nil {
		return common.Hash{}, nil, err
	}
	r.log.Infow("transaction submitted", "op", op, "method", req.Method, "hash", hash.Hex())

	r.phase(op, PhaseConfirming)
	wctx := ctx
	if r.confirmTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, r.confirmTimeout)
		defer cancel()
	}
	rcpt, err := r.tr.WaitForReceipt(wctx, hash)
	if err != nil {
		return hash, rcpt, fmt.Errorf("waiting for %s: %w", req.Method, err)
	}
	r.log.Debugw("transaction confirmed", "op", op, "hash", hash.Hex(), "block", rcpt.BlockNumber)
	return hash, rcpt, nil
}

// background runs e detached from the caller's context. Its failure is
// logged and never changes the outcome of the action that scheduled it.
func (r *runner) background(op Op, e effect, hash common.Hash) {
	r.bg.Add(1)
	go func() {
		defer r.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.backgroundTimeout)
		defer cancel()
		if err := e.fn(ctx, hash); err != nil {
			r.log.Warnw("background step failed", "op", op, "step", e.name, "error", err)
		}
	}()
}
