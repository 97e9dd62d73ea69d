package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/notify"
	"github.com/Mohsinsiddi/launchpad/internal/price"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	createFile    string
	createChainID int64
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a presale from a JSON parameter file",
	Long: `Create a presale on the configured chain.

The parameter file holds the token, pricing, caps, window and links:

  {
    "name": "Launch", "symbol": "LNC", "decimals": 18,
    "token_address": "0x…",
    "token_price": 0.1, "softcap": 800, "hardcap": 1000,
    "min_buy_amount": 10, "max_buy_amount": 100,
    "start_time": "2026-11-01T12:00:00Z", "end_time": "2026-11-08T12:00:00Z",
    "payable_tokens": ["ETH", "USDT"], "displayed_token": "USDT",
    "logo": "https://…", "website": "https://…"
  }

The sale token is approved to the factory for the hardcap, the presale is
deployed and then registered with the backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readCreateRequest(createFile)
		if err != nil {
			return err
		}

		chainID := createChainID
		if chainID == 0 {
			chainID = cfg.DefaultChainID
		}
		c, err := registry.GetByChainID(chainID)
		if err != nil {
			return fmt.Errorf("chain %d: %w", chainID, err)
		}
		tr, err := transports()(chainID)
		if err != nil {
			return err
		}
		s, err := signer()
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("New presale on "+c.DisplayName, [][2]string{
			{"Token", fmt.Sprintf("%s (%s)  %s", req.Name, req.Symbol, ui.Addr(req.TokenAddress.Hex()))},
			{"Price", fmt.Sprintf("%g USD", req.TokenPrice)},
			{"Caps", fmt.Sprintf("soft %s / hard %s", ui.Amount(req.Softcap), ui.Amount(req.Hardcap))},
			{"Per wallet", fmt.Sprintf("%s – %s", ui.Amount(req.MinBuyAmount), ui.Amount(req.MaxBuyAmount))},
			{"Window", req.StartTime.Local().Format("2006-01-02 15:04") + " → " + req.EndTime.Local().Format("2006-01-02 15:04")},
			{"Pay with", strings.Join(req.PayableTokens, ", ")},
			{"Creation fee", c.CreationFee + " " + c.NativeCurrency},
			{"Owner", ui.Addr(s.Address().Hex())},
		}))
		if !assumeYes && !ui.Confirm("Create this presale?") {
			fmt.Println(ui.Warn("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner(phaseLabel(launchpad.OpCreate, launchpad.PhaseIdle))
		creator := launchpad.NewCreator(c, tr, newBackend(), price.NewFetcher(cfg.PriceCurrency),
			launchpad.WithSigner(s),
			launchpad.WithLogger(log),
			launchpad.WithNotifier(notify.NewTerminal()),
			launchpad.WithConfirmTimeout(cfg.ConfirmTimeout.Std()),
			launchpad.WithBackgroundTimeout(config.BackgroundTimeout),
			launchpad.WithPhaseHook(func(op launchpad.Op, phase launchpad.Phase) {
				if label := phaseLabel(op, phase); label != "" {
					spin.SetMessage(label)
				}
			}),
		)
		spin.Start()
		created, err := creator.Create(cmd.Context(), *req)
		spin.Stop()
		creator.Wait()

		if created != nil {
			if created.TxHash != (common.Hash{}) {
				fmt.Println(ui.Hint(orDefault(c.TxURL(created.TxHash.Hex()), "tx "+created.TxHash.Hex())))
			}
			if created.Presale != (common.Address{}) {
				fmt.Println(ui.Success("Presale deployed at " + ui.Addr(created.Presale.Hex())))
				fmt.Println(ui.Hint("Follow it with: launchpad watch " + created.Presale.Hex()))
			}
		}
		var ae *launchpad.ActionError
		if errors.As(err, &ae) {
			log.Debugw("create failed", "kind", ae.Kind, "error", ae.Err)
			return fmt.Errorf("%w: %s", errReported, ae.Message)
		}
		return err
	},
}

func readCreateRequest(path string) (*launchpad.CreateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters: %w", err)
	}
	var req launchpad.CreateRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &req, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "presale parameters (JSON)")
	createCmd.Flags().Int64Var(&createChainID, "chain-id", 0, "chain to deploy on (default: configured chain)")
	_ = createCmd.MarkFlagRequired("file")
}
