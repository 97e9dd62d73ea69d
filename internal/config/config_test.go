package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, int64(137), cfg.DefaultChainID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "USD", cfg.PriceCurrency)
	assert.Equal(t, 2*time.Second, cfg.ReceiptPollInterval.Std())
	assert.Equal(t, config.TxConfirmTimeout, cfg.ConfirmTimeout.Std())
	assert.Equal(t, "127.0.0.1:8090", cfg.HTTPAddr)
	assert.Empty(t, cfg.RPCURLs)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("default_wallet", "main"))
	require.NoError(t, cfg.Set("default_chain_id", "31337"))
	require.NoError(t, cfg.Set("rpc_urls.31337", "http://127.0.0.1:8545"))
	require.NoError(t, cfg.Set("confirm_timeout", "0s"))
	require.NoError(t, cfg.Set("api_base_url", "https://api.example.org/"))
	require.NoError(t, cfg.Save())

	raw, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"receipt_poll_interval": "2s"`)

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "main", reloaded.DefaultWallet)
	assert.Equal(t, int64(31337), reloaded.DefaultChainID)
	assert.Equal(t, "http://127.0.0.1:8545", reloaded.RPCURL(31337))
	assert.Zero(t, reloaded.ConfirmTimeout)
	assert.Equal(t, "https://api.example.org", reloaded.APIBaseURL)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Set("nope", "x"), config.ErrUnknownKey)
	assert.Error(t, cfg.Set("default_chain_id", "polygon"))
	assert.Error(t, cfg.Set("log_json", "maybe"))
	assert.Error(t, cfg.Set("confirm_timeout", "soon"))
	assert.Error(t, cfg.Set("rpc_urls.polygon", "https://rpc"))

	require.NoError(t, cfg.Set("log_level", "loud"))
	assert.ErrorIs(t, cfg.Save(), config.ErrConfigValidation)
}

func TestGetAllKeys(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Set("rpc_urls.1", "https://eth.example"))

	for _, key := range config.Keys {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
	assert.Equal(t, []string{"rpc_urls.1"}, cfg.RPCKeys())
	v, err := cfg.Get("rpc_urls.1")
	require.NoError(t, err)
	assert.Equal(t, "https://eth.example", v)

	_, err = cfg.Get("unknown")
	assert.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestRemoveRPCWithEmptyValue(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Set("rpc_urls.1", "https://eth.example"))
	require.NoError(t, cfg.Set("rpc_urls.1", ""))
	assert.Empty(t, cfg.RPCURL(1))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LAUNCHPAD_API_URL", "https://staging.example.org")
	t.Setenv("LAUNCHPAD_CHAIN_ID", "31337")
	t.Setenv("LAUNCHPAD_RPC_URL", "http://127.0.0.1:8545")
	t.Setenv("LAUNCHPAD_LOG_JSON", "true")
	t.Setenv("LAUNCHPAD_RECEIPT_POLL_INTERVAL", "250ms")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.org", cfg.APIBaseURL)
	assert.Equal(t, int64(31337), cfg.DefaultChainID)
	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL(31337))
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 250*time.Millisecond, cfg.ReceiptPollInterval.Std())
}

func TestEnvironmentOverrideInvalid(t *testing.T) {
	t.Setenv("LAUNCHPAD_CHAIN_ID", "polygon")
	_, err := config.Load(t.TempDir())
	assert.Error(t, err)
}

func TestDotEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("LAUNCHPAD_HTTP_ADDR=0.0.0.0:9000\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LAUNCHPAD_HTTP_ADDR") }) //nolint:errcheck

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"log_level":`), 0o600))
	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "parsing config")
}

func TestPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "keys"), cfg.KeysDir())
}
