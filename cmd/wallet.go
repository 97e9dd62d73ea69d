package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/Mohsinsiddi/launchpad/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	walletKeyFlag      string
	walletMnemonicFlag string
	walletIndexFlag    uint32
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a watch-only wallet by address, or a signing wallet with --key.

Private keys are stored in the OS keychain (or an encrypted file under the
config directory), never in wallets.json. Setting LAUNCHPAD_PRIVATE_KEY
overrides every stored key for the current process.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if walletKeyFlag != "" {
			if err := mgr.AddWithKey(name, walletKeyFlag); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: launchpad wallet default %s", name)))
			return nil
		}
		if len(args) < 2 {
			return fmt.Errorf("address required for watch-only wallet\n  Usage: launchpad wallet add <name> <address>\n  Or for signing: launchpad wallet add <name> --key <private-key>")
		}
		if err := mgr.Add(name, &wallet.Wallet{Address: args[1], Type: wallet.TypeWatchOnly}); err != nil {
			return err
		}
		w, _ := mgr.Get(name)
		fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(w.Address))))
		fmt.Println(ui.Hint("Watch-only wallets show positions and actions but cannot sign."))
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a signing wallet from a mnemonic phrase",
	Long: fmt.Sprintf(`Derive an account from a BIP-39 mnemonic along %s
and store its private key. The phrase itself is not kept.

The phrase is read from --mnemonic, else from standard input.`, wallet.DerivationPath),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		phrase := walletMnemonicFlag
		if phrase == "" {
			fmt.Fprint(os.Stderr, ui.Meta("Mnemonic: "))
			line, err := readLine(os.Stdin)
			if err != nil {
				return err
			}
			phrase = line
		}
		mgr := newWalletManager()
		if err := mgr.ImportMnemonic(name, phrase, walletIndexFlag); err != nil {
			return err
		}
		w, _ := mgr.Get(name)
		fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q imported: %s", name, ui.Addr(w.Address))))
		fmt.Println(ui.Meta(fmt.Sprintf("Derivation path: "+wallet.DerivationPath, walletIndexFlag)))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		wallets := mgr.List()

		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: launchpad wallet add myWallet --key <private-key>"))
			return nil
		}

		def := cfg.DefaultWallet
		if def == "" {
			if w := mgr.Default(); w != nil {
				def = w.Name
			}
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			mark := ""
			if w.Name == def {
				mark = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.Val(w.Name),
				ui.Addr(w.Address),
				ui.Meta(w.Type),
				mark,
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !assumeYes && !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr := newWalletManager()
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:     "default <name>",
	Aliases: []string{"use"},
	Short:   "Set the default wallet",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()
		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("Used by every command when --wallet is not given."))
		return nil
	},
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading mnemonic: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key (hex) for a signing wallet")
	walletImportCmd.Flags().StringVar(&walletMnemonicFlag, "mnemonic", "", "BIP-39 phrase (prompted when omitted)")
	walletImportCmd.Flags().Uint32Var(&walletIndexFlag, "index", 0, "account index in the derivation path")

	walletCmd.AddCommand(walletAddCmd, walletImportCmd, walletListCmd, walletRemoveCmd, walletDefaultCmd)
}
