package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <sale>",
	Short: "Live view of a presale: countdown, sold amount and status",
	Long: `Open a live view of a presale that refreshes its on-chain figures.

Keys: r refresh now · o open in explorer · c copy sale address · q quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchInterval < time.Second {
			return fmt.Errorf("--interval must be at least 1s")
		}
		var opts []launchpad.Option
		if s := viewerSigner(); s != nil {
			opts = append(opts, launchpad.WithSigner(s))
		}
		ctx := cmd.Context()
		sess, err := openSession(ctx, args[0], opts...)
		if err != nil {
			return err
		}
		p := sess.presale()

		fetch := func() tea.Msg { return refreshSession(ctx, sess) }
		m := ui.NewWatchModel(chainLabel(p.ChainID), explorerAddress(p.ChainID, p.SaleContractAddress), watchInterval, fetch)
		prog := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithContext(ctx))
		_, err = prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	},
}

// refreshSession re-reads the presale for the live view.
func refreshSession(ctx context.Context, sess *session) tea.Msg {
	ctx, cancel := context.WithTimeout(ctx, config.RPCTimeout)
	defer cancel()
	if err := sess.orch.Refresh(ctx); err != nil {
		return ui.PresaleUpdateMsg{Err: err}
	}
	sess.orch.FetchAccountData(ctx)
	if err := sess.evaluate(ctx, time.Now()); err != nil {
		return ui.PresaleUpdateMsg{Err: err}
	}
	return ui.PresaleUpdateMsg{
		Snapshot: sess.orch.Store().Snapshot(),
		Actions:  sess.avail.Actions(),
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "time between refreshes")
}
