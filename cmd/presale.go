package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listPage    int
	listChainID int64
	listSearch  string
)

var showCmd = &cobra.Command{
	Use:   "show <sale>",
	Short: "Show a presale with its on-chain figures and status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []launchpad.Option
		if s := viewerSigner(); s != nil {
			opts = append(opts, launchpad.WithSigner(s))
		}
		spin := ui.NewSpinner("Loading presale…")
		spin.Start()
		sess, err := openSession(cmd.Context(), args[0], opts...)
		spin.Stop()
		if err != nil {
			return err
		}
		fmt.Println(renderPresale(sess, time.Now()))
		return nil
	},
}

func renderPresale(sess *session, now time.Time) string {
	snap := sess.orch.Store().Snapshot()
	p, f := snap.Presale, snap.Figures
	prog := presale.Progress(&p, f.TotalTokensSold)

	pairs := [][2]string{
		{"Status", ui.StatusBadge(string(sess.status))},
		{"Chain", ui.ChainName(chainLabel(p.ChainID))},
		{"Sale contract", ui.Addr(p.SaleContractAddress.Hex())},
		{"Owner", ui.Addr(p.ContractOwnerAddress.Hex())},
		{"Token", fmt.Sprintf("%s (%s)  %s", p.Token.Name, p.Token.Symbol, ui.Addr(p.Token.ContractAddress.Hex()))},
		{"Price", fmt.Sprintf("%s USD", p.TokenPrice)},
		{"Caps", fmt.Sprintf("soft %s / hard %s %s", ui.Amount(p.Softcap), ui.Amount(p.Hardcap), p.Token.Symbol)},
		{"Per wallet", fmt.Sprintf("%s – %s %s", ui.Amount(p.MinBuyAmount), ui.Amount(p.MaxBuyAmount), p.Token.Symbol)},
		{"Window", p.StartTime.Local().Format("2006-01-02 15:04") + " → " + p.EndTime.Local().Format("2006-01-02 15:04")},
		{"Sold", ui.ProgressBar(prog.HardPercent, 24) + fmt.Sprintf("  %s / %s", ui.Amount(f.TotalTokensSold), ui.Amount(p.Hardcap))},
		{"Softcap", fmt.Sprintf("%.1f%%", prog.SoftPercent)},
		{"Raised", fmt.Sprintf("%s / %s %s", ui.Amount(prog.Raised), ui.Amount(prog.Target), prog.Symbol)},
		{"Contributors", strconv.FormatInt(f.TotalContributors, 10)},
	}
	if label, target, ok := presale.Countdown(&p, sess.status); ok {
		pairs = append(pairs, [2]string{label, ui.FormatCountdown(target.Sub(now))})
	}

	accepted := make([]string, len(p.WhitelistedTokens))
	for i, t := range p.WhitelistedTokens {
		accepted[i] = fmt.Sprintf("%s @ %s", t.Symbol, strconv.FormatFloat(t.Price, 'f', -1, 64))
	}
	pairs = append(pairs, [2]string{"Pay with", strings.Join(accepted, ", ")})

	if sess.orch.Connected() {
		mine := ui.Amount(f.Contributor.Amount) + " " + p.Token.Symbol
		switch {
		case f.Contributor.IsClaimed:
			mine += " (claimed)"
		case f.Contributor.IsRefunded:
			mine += " (refunded)"
		}
		pairs = append(pairs, [2]string{"Your tokens", mine})
		if acts := sess.avail.Actions(); len(acts) > 0 {
			names := make([]string, len(acts))
			for i, a := range acts {
				names[i] = string(a)
			}
			pairs = append(pairs, [2]string{"Actions", ui.StyleInfo.Render(strings.Join(names, ", "))})
		}
	}
	if u := explorerAddress(p.ChainID, p.SaleContractAddress); u != "" {
		pairs = append(pairs, [2]string{"Explorer", ui.Meta(u)})
	}
	return ui.KeyValueBlock(fmt.Sprintf("🚀 %s", p.Token.Name), pairs)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List presales",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if listPage > 1 {
			query.Set("page", strconv.Itoa(listPage))
		}
		if listChainID > 0 {
			query.Set("blockchain_id", strconv.FormatInt(listChainID, 10))
		}
		if listSearch != "" {
			query.Set("search", listSearch)
		}

		spin := ui.NewSpinner("Loading presales…")
		spin.Start()
		page, err := newBackend().ListPresales(cmd.Context(), query)
		if err == nil {
			launchpad.LoadSoldAmounts(cmd.Context(), page.Data, transports(), log)
		}
		spin.Stop()
		if err != nil {
			return err
		}

		if len(page.Data) == 0 {
			fmt.Println(ui.Info("No presales found."))
			return nil
		}

		now := time.Now()
		t := ui.NewTable([]ui.Column{
			{Title: "Token", Width: 18},
			{Title: "Chain", Width: 12},
			{Title: "Status", Width: 10},
			{Title: "Sold", Width: 24},
			{Title: "Sale", Width: 14},
		})
		for i := range page.Data {
			p := &page.Data[i]
			sold := "–"
			if p.TotalTokensSold != nil {
				sold = fmt.Sprintf("%s / %s", ui.Amount(*p.TotalTokensSold), ui.Amount(p.Hardcap))
			}
			t.AddRow(ui.Row{
				ui.Val(p.Token.Name + " (" + p.Token.Symbol + ")"),
				ui.ChainName(chainLabel(p.ChainID)),
				ui.StatusBadge(string(presale.ListStatus(p, now))),
				sold,
				ui.Addr(ui.TruncateAddr(p.SaleContractAddress.Hex())),
			})
		}
		fmt.Println(t.Render())
		m := page.Meta
		fmt.Println(ui.Meta(fmt.Sprintf("page %d of %d · %d presales", m.CurrentPage, m.LastPage, m.Total)))
		return nil
	},
}

var contributorsCmd = &cobra.Command{
	Use:   "contributors <sale>",
	Short: "List who contributed to a presale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sale, err := parseSale(args[0])
		if err != nil {
			return err
		}
		list, err := newBackend().Contributors(cmd.Context(), sale.Hex())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println(ui.Info("No contributions yet."))
			return nil
		}
		t := ui.NewTable([]ui.Column{
			{Title: "#", Width: 4},
			{Title: "Wallet", Width: 44},
			{Title: "Amount", Width: 16},
		})
		for i, c := range list {
			t.AddRow(ui.Row{
				strconv.Itoa(i + 1),
				ui.Addr(c.WalletAddress),
				ui.Val(ui.Amount(float64(c.Amount))),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().Int64Var(&listChainID, "chain-id", 0, "only presales on this chain")
	listCmd.Flags().StringVar(&listSearch, "search", "", "filter by token name or symbol")
}
