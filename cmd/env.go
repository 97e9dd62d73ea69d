package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/Mohsinsiddi/launchpad/internal/rpc"
	"github.com/Mohsinsiddi/launchpad/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

var registry = chain.NewRegistry()

func newBackend() *backend.Client {
	return backend.New(cfg.APIBaseURL, backend.WithTimeout(config.RPCTimeout))
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeystore(wallet.DefaultKeystore(cfg.KeysDir())),
	)
}

var rpcSelector *rpc.Selector

// rpcCandidates lists the endpoints for a chain: --rpc, else the configured
// override, else every public RPC the registry knows.
func rpcCandidates(flag string, c *config.Config, chainID int64) ([]string, error) {
	if flag != "" {
		return []string{flag}, nil
	}
	if u := c.RPCURL(chainID); u != "" {
		return []string{u}, nil
	}
	ch, err := registry.GetByChainID(chainID)
	if err != nil {
		return nil, fmt.Errorf("chain %d: %w (set one with: launchpad config set rpc_urls.%d <url>)", chainID, err, chainID)
	}
	if len(ch.RPCs) == 0 {
		return nil, fmt.Errorf("no RPC known for %s", ch.DisplayName)
	}
	return ch.RPCs, nil
}

// transports builds a JSON-RPC client for whichever chain a presale is on,
// probing the public RPCs for the fastest one when there is a choice.
func transports() launchpad.TransportFunc {
	if rpcSelector == nil {
		rpcSelector = rpc.NewSelector(rpc.EVMProber, rpc.DefaultTTL, log)
	}
	return func(chainID int64) (contract.Transport, error) {
		urls, err := rpcCandidates(rpcFlag, cfg, chainID)
		if err != nil {
			return nil, err
		}
		u, err := rpcSelector.Best(context.Background(), chainID, urls)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", chainID, err)
		}
		log.Debugw("using rpc", "chain_id", chainID, "url", u)
		return chain.NewEVMClient(u, chain.WithPollInterval(cfg.ReceiptPollInterval.Std())), nil
	}
}

var errNoWallet = errors.New("no wallet selected")

// walletName is --wallet, else the configured default, else the manager's
// default.
func walletName(mgr *wallet.Manager) (string, error) {
	if walletFlag != "" {
		return walletFlag, nil
	}
	if cfg.DefaultWallet != "" {
		return cfg.DefaultWallet, nil
	}
	if w := mgr.Default(); w != nil {
		return w.Name, nil
	}
	return "", fmt.Errorf("%w: add one with `launchpad wallet add` or pass --wallet", errNoWallet)
}

// signer resolves the signing wallet for write commands.
func signer() (*wallet.Signer, error) {
	mgr := newWalletManager()
	name, err := walletName(mgr)
	if err != nil {
		return nil, err
	}
	return mgr.Signer(name)
}

// viewerSigner lets read commands show the configured wallet's position
// and actions. It is always watch-only and never loads a key.
func viewerSigner() contract.Signer {
	mgr := newWalletManager()
	name, err := walletName(mgr)
	if err != nil {
		return nil
	}
	w, err := mgr.Get(name)
	if err != nil {
		log.Debugw("viewer wallet unavailable", "wallet", name, "error", err)
		return nil
	}
	return wallet.NewSigner(&wallet.Wallet{Name: w.Name, Address: w.Address, Type: wallet.TypeWatchOnly}, nil)
}

func parseSale(arg string) (common.Address, error) {
	if !common.IsHexAddress(arg) {
		return common.Address{}, fmt.Errorf("invalid presale address %q", arg)
	}
	return common.HexToAddress(arg), nil
}

// tokenBySymbol finds a payment token, ignoring case.
func tokenBySymbol(p *presale.Presale, symbol string) (presale.WhitelistToken, error) {
	if t, ok := p.TokenBySymbol(symbol); ok {
		return t, nil
	}
	var accepted []string
	for _, t := range p.WhitelistedTokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, nil
		}
		accepted = append(accepted, t.Symbol)
	}
	return presale.WhitelistToken{}, fmt.Errorf("%s is not accepted by this presale (accepted: %s)", symbol, strings.Join(accepted, ", "))
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseTime accepts RFC 3339, a local "2006-01-02 15:04" or a Unix
// timestamp in seconds.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use RFC 3339, \"2006-01-02 15:04\" or a Unix timestamp)", s)
}

func chainLabel(chainID int64) string {
	if c, err := registry.GetByChainID(chainID); err == nil {
		return c.DisplayName
	}
	return fmt.Sprintf("chain %d", chainID)
}

func explorerTx(chainID int64, hash common.Hash) string {
	if c, err := registry.GetByChainID(chainID); err == nil {
		return c.TxURL(hash.Hex())
	}
	return ""
}

func explorerAddress(chainID int64, addr common.Address) string {
	if c, err := registry.GetByChainID(chainID); err == nil {
		return c.AddressURL(addr.Hex())
	}
	return ""
}
