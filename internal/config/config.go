package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/omeid/uconfig/flat"
)

const (
	defaultAPIBaseURL   = "https://api.launchpad.example"
	defaultChainID      = 137
	defaultLogLevel     = "info"
	defaultPollInterval = 2 * time.Second
	defaultCurrency     = "USD"
	defaultHTTPAddr     = "127.0.0.1:8090"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	keysDir     = "keys"
	dotEnvFile  = ".env"
	tagEnv      = "env"
)

var (
	ErrUnknownKey       = errors.New("unknown config key")
	ErrConfigValidation = errors.New("config validation error")
)

// Keys lists the settable keys in display order.
var Keys = []string{
	"api_base_url",
	"default_wallet",
	"default_chain_id",
	"log_level",
	"log_json",
	"receipt_poll_interval",
	"confirm_timeout",
	"price_currency",
	"http_addr",
}

// Load reads config from dir (or creates defaults), then applies a .env file
// from the working directory and LAUNCHPAD_* environment variables. dir
// defaults to ~/.launchpad.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".launchpad")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	cfg.configDir = dir
	if cfg.RPCURLs == nil {
		cfg.RPCURLs = make(map[string]string)
	}

	if err := godotenv.Load(dotEnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return nil
}

// Set assigns a value by key. rpc_urls.<chainID> sets an RPC endpoint.
func (c *Config) Set(key, value string) error {
	if id, ok := strings.CutPrefix(key, "rpc_urls."); ok {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return fmt.Errorf("chain id %q: %w", id, err)
		}
		if value == "" {
			delete(c.RPCURLs, id)
			return nil
		}
		c.RPCURLs[id] = value
		return nil
	}

	switch key {
	case "api_base_url":
		c.APIBaseURL = strings.TrimRight(value, "/")
	case "default_wallet":
		c.DefaultWallet = value
	case "default_chain_id":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.DefaultChainID = v
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "log_json":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.LogJSON = v
	case "receipt_poll_interval", "confirm_timeout":
		v, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "confirm_timeout" {
			c.ConfirmTimeout = Duration(v)
		} else {
			c.ReceiptPollInterval = Duration(v)
		}
	case "price_currency":
		c.PriceCurrency = strings.ToUpper(value)
	case "http_addr":
		c.HTTPAddr = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Get returns the value for key in its display form.
func (c *Config) Get(key string) (string, error) {
	if id, ok := strings.CutPrefix(key, "rpc_urls."); ok {
		return c.RPCURLs[id], nil
	}
	switch key {
	case "api_base_url":
		return c.APIBaseURL, nil
	case "default_wallet":
		return c.DefaultWallet, nil
	case "default_chain_id":
		return strconv.FormatInt(c.DefaultChainID, 10), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_json":
		return strconv.FormatBool(c.LogJSON), nil
	case "receipt_poll_interval":
		return c.ReceiptPollInterval.String(), nil
	case "confirm_timeout":
		return c.ConfirmTimeout.String(), nil
	case "price_currency":
		return c.PriceCurrency, nil
	case "http_addr":
		return c.HTTPAddr, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// RPCKeys returns the rpc_urls.<id> keys that are set, sorted.
func (c *Config) RPCKeys() []string {
	out := make([]string, 0, len(c.RPCURLs))
	for id := range c.RPCURLs {
		out = append(out, "rpc_urls."+id)
	}
	sort.Strings(out)
	return out
}

// RPCURL returns the configured endpoint for chainID, or "".
func (c *Config) RPCURL(chainID int64) string {
	return c.RPCURLs[strconv.FormatInt(chainID, 10)]
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where wallet metadata is stored.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// KeysDir is the file keyring directory used when no OS keychain exists.
func (c *Config) KeysDir() string {
	return filepath.Join(c.configDir, keysDir)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		APIBaseURL:          defaultAPIBaseURL,
		DefaultChainID:      defaultChainID,
		RPCURLs:             make(map[string]string),
		LogLevel:            defaultLogLevel,
		ReceiptPollInterval: Duration(defaultPollInterval),
		ConfirmTimeout:      Duration(TxConfirmTimeout),
		PriceCurrency:       defaultCurrency,
		HTTPAddr:            defaultHTTPAddr,
		configDir:           dir,
	}
}

// applyEnv copies every LAUNCHPAD_* variable that is set over c.
func (c *Config) applyEnv() error {
	var e env
	fields, err := flat.View(&e)
	if err != nil {
		return fmt.Errorf("reading env tags: %w", err)
	}
	for _, field := range fields {
		name, ok := field.Tag(tagEnv)
		if !ok {
			continue
		}
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := field.Set(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	set := func(key, value string) error {
		if value == "" {
			return nil
		}
		return c.Set(key, value)
	}
	if e.DefaultChainID != 0 {
		c.DefaultChainID = e.DefaultChainID
	}
	for _, kv := range [][2]string{
		{"api_base_url", e.APIBaseURL},
		{"default_wallet", e.DefaultWallet},
		{"log_level", e.LogLevel},
		{"log_json", e.LogJSON},
		{"receipt_poll_interval", e.ReceiptPollInterval},
		{"confirm_timeout", e.ConfirmTimeout},
		{"price_currency", e.PriceCurrency},
		{"http_addr", e.HTTPAddr},
	} {
		if err := set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("environment: %w", err)
		}
	}
	if e.RPCURL != "" {
		c.RPCURLs[strconv.FormatInt(c.DefaultChainID, 10)] = e.RPCURL
	}
	return nil
}
