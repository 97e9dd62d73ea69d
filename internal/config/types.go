package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config holds all launchpad configuration.
type Config struct {
	APIBaseURL          string            `json:"api_base_url"          validate:"required,url"`
	DefaultWallet       string            `json:"default_wallet"`
	DefaultChainID      int64             `json:"default_chain_id"      validate:"gt=0"`
	RPCURLs             map[string]string `json:"rpc_urls"              validate:"dive,url"` // chain id -> URL
	LogLevel            string            `json:"log_level"             validate:"oneof=debug info warn error"`
	LogJSON             bool              `json:"log_json"`
	ReceiptPollInterval Duration          `json:"receipt_poll_interval" validate:"gt=0"`
	ConfirmTimeout      Duration          `json:"confirm_timeout"       validate:"gte=0"` // 0 waits until interrupted
	PriceCurrency       string            `json:"price_currency"        validate:"required"`
	HTTPAddr            string            `json:"http_addr"             validate:"required,hostname_port"`

	// internal: config dir path used for Save()
	configDir string
}

// env lists the environment overrides. Only plain strings and integers so
// every field goes through flat's setters unchanged; parsing happens in
// applyEnv.
type env struct {
	APIBaseURL          string `env:"LAUNCHPAD_API_URL"`
	DefaultWallet       string `env:"LAUNCHPAD_WALLET"`
	DefaultChainID      int64  `env:"LAUNCHPAD_CHAIN_ID"`
	RPCURL              string `env:"LAUNCHPAD_RPC_URL"`
	LogLevel            string `env:"LAUNCHPAD_LOG_LEVEL"`
	LogJSON             string `env:"LAUNCHPAD_LOG_JSON"`
	ReceiptPollInterval string `env:"LAUNCHPAD_RECEIPT_POLL_INTERVAL"`
	ConfirmTimeout      string `env:"LAUNCHPAD_CONFIRM_TIMEOUT"`
	PriceCurrency       string `env:"LAUNCHPAD_PRICE_CURRENCY"`
	HTTPAddr            string `env:"LAUNCHPAD_HTTP_ADDR"`
}

// Duration is a time.Duration written as "2s" in JSON.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("duration must be a string like \"2s\": %w", err)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
