package presale

import "github.com/ethereum/go-ethereum/common"

// Action names a user-facing presale action.
type Action string

const (
	ActionBuy                     Action = "buy"
	ActionClaim                   Action = "claim"
	ActionEmergencyWithdraw       Action = "emergency-withdraw"
	ActionWithdrawContribution    Action = "withdraw-contribution"
	ActionFinalize                Action = "finalize"
	ActionCancel                  Action = "cancel"
	ActionWithdrawCancelledTokens Action = "withdraw-cancelled"
	ActionChangeSchedule          Action = "set-schedule"
	ActionViewContributors        Action = "contributors"
)

// Viewer is who is looking at the presale.
type Viewer struct {
	Account common.Address
	// SaleTokenBalance is the sale token held by the sale contract, only
	// needed to decide whether cancelled tokens can be withdrawn.
	SaleTokenBalance float64
}

// Connected reports whether a wallet is connected.
func (v Viewer) Connected() bool {
	return v.Account != (common.Address{})
}

// Availability is the set of actions offered for a presale state.
type Availability map[Action]bool

// Allows reports whether a is offered.
func (a Availability) Allows(act Action) bool {
	return a[act]
}

// Actions lists the offered actions in a stable order.
func (a Availability) Actions() []Action {
	var out []Action
	for _, act := range allActions {
		if a[act] {
			out = append(out, act)
		}
	}
	return out
}

var allActions = []Action{
	ActionBuy, ActionEmergencyWithdraw, ActionClaim, ActionWithdrawContribution,
	ActionFinalize, ActionCancel, ActionWithdrawCancelledTokens,
	ActionChangeSchedule, ActionViewContributors,
}

// Available decides which actions a viewer is offered. A claimed
// contribution cannot be claimed again and terminal sales cannot be
// cancelled; the orchestrator does not repeat these checks.
//
// ActionWithdrawContribution is never offered: the refund path after a
// cancellation is reachable only through an explicit command.
func Available(p *Presale, status Status, f Figures, v Viewer) Availability {
	a := Availability{}
	if !v.Connected() {
		return a
	}
	contributed := f.Contributor.Amount > 0

	switch status {
	case StatusLive:
		a[ActionBuy] = true
		a[ActionEmergencyWithdraw] = contributed
	case StatusEnded:
		a[ActionClaim] = contributed && !f.Contributor.IsClaimed
	}

	if p.IsOwner(v.Account) {
		a[ActionFinalize] = status == StatusEnded && !f.Flags.IsFinalized && !f.Flags.IsCancelled
		a[ActionCancel] = status != StatusEnded && status != StatusCanceled
		a[ActionWithdrawCancelledTokens] = status == StatusCanceled && v.SaleTokenBalance > 0
		a[ActionChangeSchedule] = status == StatusUpcoming
		a[ActionViewContributors] = status != StatusUpcoming
	}
	return a
}
