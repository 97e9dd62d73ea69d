package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/lib"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/launchpad/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir     string
	cfg        *config.Config
	log        *zap.SugaredLogger
	verbose    bool
	apiFlag    string
	rpcFlag    string
	walletFlag string
	assumeYes  bool
)

// errReported marks failures the user has already been shown, so Execute
// does not print them twice.
var errReported = errors.New("reported")

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "Token presale launchpad client",
	Long: `launchpad — browse, buy into and manage token presales from the terminal.

  Read commands (show, list, contributors, watch) need no wallet.
  Buyer and owner actions sign with the wallet picked by --wallet or the
  configured default, and ask for confirmation unless --yes is given.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if apiFlag != "" {
			cfg.APIBaseURL = apiFlag
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = lib.NewLogger(level, true, cfg.LogJSON)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command. Interrupts cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		}
		os.Exit(1)
	}
}

func init() {
	// LAUNCHPAD_CONFIG_DIR env var overrides the default --config value.
	if envDir := os.Getenv("LAUNCHPAD_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.launchpad)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&apiFlag, "api", "", "backend API base URL")
	pf.StringVar(&rpcFlag, "rpc", "", "RPC endpoint for the presale's chain")
	pf.StringVarP(&walletFlag, "wallet", "w", "", "wallet to sign with (default: configured default)")
	pf.BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	rootCmd.AddCommand(
		showCmd,
		listCmd,
		contributorsCmd,
		watchCmd,
		buyCmd,
		claimCmd,
		emergencyWithdrawCmd,
		withdrawContributionCmd,
		finalizeCmd,
		cancelCmd,
		withdrawCancelledCmd,
		setScheduleCmd,
		createCmd,
		walletCmd,
		configCmd,
		serveCmd,
	)
}
