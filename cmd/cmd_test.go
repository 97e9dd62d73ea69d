package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCCandidates(t *testing.T) {
	c := &config.Config{RPCURLs: map[string]string{"137": "https://my-polygon.example"}}

	urls, err := rpcCandidates("http://127.0.0.1:8545", c, 137)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://127.0.0.1:8545"}, urls, "flag wins")

	urls, err = rpcCandidates("", c, 137)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://my-polygon.example"}, urls)

	urls, err = rpcCandidates("", &config.Config{}, 137)
	require.NoError(t, err)
	polygon, _ := registry.GetByChainID(137)
	assert.Equal(t, polygon.RPCs, urls)

	_, err = rpcCandidates("", &config.Config{}, 999999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
	assert.ErrorContains(t, err, "rpc_urls.999999")
}

func TestParseSale(t *testing.T) {
	addr, err := parseSale("0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), addr)

	_, err = parseSale("sale")
	assert.ErrorContains(t, err, "invalid presale address")
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1767268800", time.Unix(1767268800, 0)},
		{"2026-01-01T12:00:00Z", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"2026-01-01 12:00", time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)},
		{" 2026-01-01 ", time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := parseTime("next tuesday")
	assert.ErrorContains(t, err, "cannot parse time")
}

func salePresale() presale.Presale {
	return presale.Presale{
		MinBuyAmount: 10,
		MaxBuyAmount: 100,
		WhitelistedTokens: []presale.WhitelistToken{
			{Token: presale.Token{Symbol: "ETH", Decimals: 18}, Price: 0.001},
			{Token: presale.Token{Symbol: "USDT", ContractAddress: common.HexToAddress("0x22"), Decimals: 6}, Price: 2},
		},
	}
}

func TestTokenBySymbol(t *testing.T) {
	p := salePresale()

	tok, err := tokenBySymbol(&p, "usdt")
	require.NoError(t, err)
	assert.Equal(t, "USDT", tok.Symbol)

	_, err = tokenBySymbol(&p, "DAI")
	assert.EqualError(t, err, "DAI is not accepted by this presale (accepted: ETH, USDT)")
}

func TestCheckContribution(t *testing.T) {
	p := salePresale()
	usdt := p.WhitelistedTokens[1]

	assert.NoError(t, checkContribution(&p, usdt, 20, map[string]float64{"USDT": 50}))
	assert.NoError(t, checkContribution(&p, usdt, 200, nil), "unknown balance is not checked")
	assert.ErrorContains(t, checkContribution(&p, usdt, 19.99, nil), "minimum contribution is 20 USDT")
	assert.ErrorContains(t, checkContribution(&p, usdt, 201, nil), "maximum contribution is 200 USDT")
	assert.ErrorContains(t, checkContribution(&p, usdt, 60, map[string]float64{"USDT": 50}), "insufficient USDT balance")
}

func TestCheckAvailable(t *testing.T) {
	avail := presale.Availability{presale.ActionBuy: true}

	assert.NoError(t, checkAvailable(presale.ActionBuy, presale.StatusLive, avail))
	err := checkAvailable(presale.ActionClaim, presale.StatusLive, avail)
	assert.True(t, errors.Is(err, errNotAvailable))
	assert.EqualError(t, err, "action not available: claim while the presale is live")

	assert.NoError(t, checkAvailable(presale.ActionWithdrawContribution, presale.StatusCanceled, presale.Availability{}))
}

func TestPhaseLabel(t *testing.T) {
	assert.Equal(t, "Simulating claim…", phaseLabel(launchpad.OpClaim, launchpad.PhaseSimulating))
	assert.Equal(t, "Preparing buy…", phaseLabel(launchpad.OpBuy, launchpad.PhaseIdle))
	assert.Empty(t, phaseLabel(launchpad.OpBuy, launchpad.PhaseSucceeded))
	assert.Empty(t, phaseLabel(launchpad.OpBuy, launchpad.PhaseFailed))
}

func TestReadCreateRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "Launch", "symbol": "LNC", "decimals": 18,
		"token_address": "0x3333333333333333333333333333333333333333",
		"token_price": 0.1, "softcap": 800, "hardcap": 1000,
		"start_time": "2026-11-01T12:00:00Z", "end_time": "2026-11-08T12:00:00Z",
		"payable_tokens": ["ETH"], "displayed_token": "ETH"
	}`), 0o600))

	req, err := readCreateRequest(path)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x3333333333333333333333333333333333333333"), req.TokenAddress)
	assert.Equal(t, uint8(18), req.Decimals)
	assert.True(t, req.EndTime.Sub(req.StartTime) == 7*24*time.Hour)

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "x", "hard_cap": 1}`), 0o600))
	_, err = readCreateRequest(path)
	assert.ErrorContains(t, err, "unknown field")

	_, err = readCreateRequest(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "reading parameters")
}

func TestReadLine(t *testing.T) {
	line, err := readLine(strings.NewReader("  test test junk  \nmore"))
	require.NoError(t, err)
	assert.Equal(t, "test test junk", line)

	line, err = readLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	assert.Equal(t, "no newline", line)

	_, err = readLine(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"show", "list", "contributors", "watch", "buy", "claim", "emergency-withdraw",
		"withdraw-contribution", "finalize", "cancel", "withdraw-cancelled", "set-schedule",
		"create", "wallet", "config", "serve"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}
