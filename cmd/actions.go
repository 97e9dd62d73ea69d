package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/notify"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	buyToken   string
	buyAmount  string
	schedStart string
	schedEnd   string
)

// actionFunc runs one orchestrator operation against an opened sale.
type actionFunc func(ctx context.Context, sess *session) (common.Hash, error)

// phaseLabel is the spinner text for an action phase, or "" when the
// spinner should stop.
func phaseLabel(op launchpad.Op, phase launchpad.Phase) string {
	switch phase {
	case launchpad.PhaseApproving:
		return "Approving token spend…"
	case launchpad.PhaseApproved:
		return "Spend approved"
	case launchpad.PhaseSimulating:
		return fmt.Sprintf("Simulating %s…", op)
	case launchpad.PhaseSubmitting:
		return "Signing and broadcasting…"
	case launchpad.PhaseConfirming:
		return "Waiting for confirmation…"
	case launchpad.PhaseSucceeded, launchpad.PhaseFailed:
		return ""
	default:
		return fmt.Sprintf("Preparing %s…", op)
	}
}

// runAction opens the sale with the signing wallet, checks the action is
// offered and passes checks, confirms, runs it and waits for its follow-up
// refreshes.
func runAction(cmd *cobra.Command, saleArg string, act presale.Action, prompt func(*session) string, run actionFunc, checks ...func(*session) error) error {
	s, err := signer()
	if err != nil {
		return err
	}

	spin := ui.NewSpinner("Loading presale…")
	hook := func(op launchpad.Op, phase launchpad.Phase) {
		if label := phaseLabel(op, phase); label != "" {
			spin.SetMessage(label)
			return
		}
		spin.Stop()
	}

	ctx := cmd.Context()
	spin.Start()
	sess, err := openSession(ctx, saleArg,
		launchpad.WithSigner(s),
		launchpad.WithNotifier(notify.NewTerminal()),
		launchpad.WithPhaseHook(hook),
	)
	spin.Stop()
	if err != nil {
		return err
	}
	if err := checkAvailable(act, sess.status, sess.avail); err != nil {
		return err
	}
	for _, check := range checks {
		if err := check(sess); err != nil {
			return err
		}
	}

	if !assumeYes {
		fmt.Println(ui.Info(fmt.Sprintf("Wallet %s", ui.Addr(s.Address().Hex()))))
		if !ui.Confirm(prompt(sess)) {
			fmt.Println(ui.Warn("Cancelled."))
			return nil
		}
	}

	spin = ui.NewSpinner(phaseLabel(launchpad.Op(act), launchpad.PhaseIdle))
	spin.Start()
	hash, err := run(ctx, sess)
	spin.Stop()
	sess.orch.Wait()

	p := sess.presale()
	if hash != (common.Hash{}) {
		line := "tx " + hash.Hex()
		if u := explorerTx(p.ChainID, hash); u != "" {
			line = u
		}
		fmt.Println(ui.Hint(line))
	}

	var ae *launchpad.ActionError
	if errors.As(err, &ae) {
		// The notifier has shown it already.
		log.Debugw("action failed", "op", ae.Op, "kind", ae.Kind, "error", ae.Err)
		return fmt.Errorf("%w: %s", errReported, ae.Message)
	}
	if err == nil && hash == (common.Hash{}) {
		fmt.Println(ui.Warn("Nothing was sent."))
	}
	return err
}

func saleName(sess *session) string {
	p := sess.presale()
	return fmt.Sprintf("%s (%s)", p.Token.Name, p.Token.Symbol)
}

var buyCmd = &cobra.Command{
	Use:   "buy <sale>",
	Short: "Buy sale tokens with an accepted payment token",
	Example: `  launchpad buy 0xSale --token USDT --amount 250
  launchpad buy 0xSale --token ETH --amount 0.5 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(buyAmount, 64)
		if err != nil || amount <= 0 {
			return fmt.Errorf("--amount must be a positive number, got %q", buyAmount)
		}
		var token presale.WhitelistToken
		prompt := func(sess *session) string {
			q := presale.NewQuote(token, amount)
			return fmt.Sprintf("Spend %s %s for ~%s %s?",
				buyAmount, token.Symbol, ui.Amount(q.SaleTotal), sess.presale().Token.Symbol)
		}
		return runAction(cmd, args[0], presale.ActionBuy, prompt, func(ctx context.Context, sess *session) (common.Hash, error) {
			return sess.orch.Buy(ctx, token, buyAmount)
		}, func(sess *session) error {
			p := sess.presale()
			t, err := tokenBySymbol(&p, buyToken)
			if err != nil {
				return err
			}
			token = t
			return checkContribution(&p, token, amount, sess.orch.Store().Figures().Balances)
		})
	},
}

// checkContribution enforces the per-wallet limits, and the balance when it
// could be read, before anything is sent.
func checkContribution(p *presale.Presale, t presale.WhitelistToken, amount float64, balances map[string]float64) error {
	if lo := p.MinContribution(t); amount < lo {
		return fmt.Errorf("minimum contribution is %s %s", ui.Amount(lo), t.Symbol)
	}
	if hi := p.MaxContribution(t); hi > 0 && amount > hi {
		return fmt.Errorf("maximum contribution is %s %s", ui.Amount(hi), t.Symbol)
	}
	if balance, ok := balances[t.Symbol]; ok && amount > balance {
		return fmt.Errorf("insufficient %s balance: have %s", t.Symbol, ui.Amount(balance))
	}
	return nil
}

// simpleAction builds a command for an action that takes no input.
func simpleAction(use, short string, act presale.Action, verb string, run func(*launchpad.Orchestrator, context.Context) (common.Hash, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <sale>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := func(sess *session) string { return fmt.Sprintf("%s %s?", verb, saleName(sess)) }
			return runAction(cmd, args[0], act, prompt, func(ctx context.Context, sess *session) (common.Hash, error) {
				return run(sess.orch, ctx)
			})
		},
	}
}

var (
	claimCmd = simpleAction("claim", "Claim purchased tokens after finalization",
		presale.ActionClaim, "Claim your tokens from", (*launchpad.Orchestrator).Claim)
	emergencyWithdrawCmd = simpleAction("emergency-withdraw", "Withdraw your contribution from a live sale, with penalty",
		presale.ActionEmergencyWithdraw, "Emergency-withdraw your contribution from", (*launchpad.Orchestrator).EmergencyWithdraw)
	withdrawContributionCmd = simpleAction("withdraw-contribution", "Take back your contribution from a cancelled sale",
		presale.ActionWithdrawContribution, "Withdraw your contribution from", (*launchpad.Orchestrator).WithdrawContribution)
	finalizeCmd = simpleAction("finalize", "Finalize a sale that reached its softcap (owner)",
		presale.ActionFinalize, "Finalize", (*launchpad.Orchestrator).Finalize)
	cancelCmd = simpleAction("cancel", "Cancel a sale (owner)",
		presale.ActionCancel, "Cancel", (*launchpad.Orchestrator).Cancel)
	withdrawCancelledCmd = simpleAction("withdraw-cancelled", "Recover sale tokens from a cancelled sale (owner)",
		presale.ActionWithdrawCancelledTokens, "Withdraw the unsold tokens of", (*launchpad.Orchestrator).WithdrawCancelledTokens)
)

var setScheduleCmd = &cobra.Command{
	Use:     "set-schedule <sale>",
	Short:   "Move the sale window (owner, before the sale starts)",
	Example: `  launchpad set-schedule 0xSale --start "2026-11-01 12:00" --end "2026-11-08 12:00"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseTime(schedStart)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := parseTime(schedEnd)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		if !end.After(start) {
			return fmt.Errorf("--end must be after --start")
		}
		prompt := func(sess *session) string {
			return fmt.Sprintf("Move %s to %s → %s?", saleName(sess),
				start.Local().Format("2006-01-02 15:04"), end.Local().Format("2006-01-02 15:04"))
		}
		return runAction(cmd, args[0], presale.ActionChangeSchedule, prompt, func(ctx context.Context, sess *session) (common.Hash, error) {
			return sess.orch.ChangeSchedule(ctx, start, end)
		})
	},
}

func init() {
	buyCmd.Flags().StringVarP(&buyToken, "token", "t", "", "payment token symbol")
	buyCmd.Flags().StringVarP(&buyAmount, "amount", "a", "", "amount of the payment token to spend")
	_ = buyCmd.MarkFlagRequired("token")
	_ = buyCmd.MarkFlagRequired("amount")

	setScheduleCmd.Flags().StringVar(&schedStart, "start", "", "new start time")
	setScheduleCmd.Flags().StringVar(&schedEnd, "end", "", "new end time")
	_ = setScheduleCmd.MarkFlagRequired("start")
	_ = setScheduleCmd.MarkFlagRequired("end")
}
