// Package config parses the JSON document that configures the wallet tracking
// engine.
//
// The document schema belongs to the engine. This package only checks that
// the input is a structured document, keeps the standardized bytes for the
// engine (Config.Raw) and decodes the keys the bridge itself and the bundled
// bitcoind engine read. Unknown keys are preserved and reachable through Get.
// Comments and trailing commas (JSONC/HuJSON) are accepted.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

const (
	// DefaultNetwork is used when the document does not name a network
	DefaultNetwork = "bitcoin"

	// DefaultPollInterval is the engine polling interval when poll_interval is unset
	DefaultPollInterval = 5 * time.Second
)

// ErrInvalidConfig marks a document that could not be parsed.
// The message is surfaced verbatim to the host.
//
//nolint:staticcheck,revive // capitalized on purpose, it prefixes host-visible messages
var ErrInvalidConfig = errors.New("Invalid config")

// Config is the parsed engine configuration. It is immutable after Parse.
type Config struct {
	Network        string   `json:"network,omitempty"`
	BitcoindURL    string   `json:"bitcoind_url,omitempty"`
	BitcoindAuth   string   `json:"bitcoind_auth,omitempty"`
	BitcoindDir    string   `json:"bitcoind_dir,omitempty"`
	BitcoindCookie string   `json:"bitcoind_cookie,omitempty"`
	BitcoindWallet string   `json:"bitcoind_wallet,omitempty"`
	Descriptors    []string `json:"descriptors,omitempty"`
	Xpubs          []string `json:"xpubs,omitempty"`

	// RescanSince is a unix timestamp; nil means the engine default
	RescanSince       *int64 `json:"rescan_since,omitempty"`
	GapLimit          *int   `json:"gap_limit,omitempty"`
	InitialImportSize *int   `json:"initial_import_size,omitempty"`

	// PollInterval accepts seconds as a number, a Go duration string
	// or the [seconds, nanoseconds] pair emitted by the host library
	PollInterval Duration `json:"poll_interval,omitempty"`

	// Verbose sets the log verbosity for the whole process, see logging.Init
	Verbose int `json:"verbose,omitempty"`

	TxBroadcastCmd     string   `json:"tx_broadcast_cmd,omitempty"`
	ElectrumAddr       string   `json:"electrum_addr,omitempty"`
	ElectrumSkipMerkle bool     `json:"electrum_skip_merkle,omitempty"`
	HTTPAddr           string   `json:"http_addr,omitempty"`
	HTTPCors           bool     `json:"http_cors,omitempty"`
	WebhookURLs        []string `json:"webhooks_urls,omitempty"`
	UnixListenerPath   string   `json:"unix_listener_path,omitempty"`
	RequireAddresses   bool     `json:"require_addresses,omitempty"`
	ForceRescan        bool     `json:"force_rescan,omitempty"`

	// SetupLogger controls whether the bridge installs its own logger.
	// Defaults to true when absent.
	SetupLogger *bool `json:"setup_logger,omitempty"`

	// Raw is the standardized JSON document, handed to the engine untouched
	Raw json.RawMessage `json:"-"`
}

// Parse parses a configuration document. Every failure wraps ErrInvalidConfig.
func Parse(doc string) (*Config, error) {
	std, err := hujson.Standardize([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !gjson.ValidBytes(std) {
		return nil, fmt.Errorf("%w: malformed JSON document", ErrInvalidConfig)
	}
	if root := gjson.ParseBytes(std); !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrInvalidConfig, root.Type)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Raw = std

	return &cfg, nil
}

// Get looks up an arbitrary key of the raw document using gjson path syntax.
// Engines use it for keys this package does not decode.
func (c *Config) Get(path string) gjson.Result {
	return gjson.GetBytes(c.Raw, path)
}

// GetNetwork returns the configured network, using DefaultNetwork if unset
func (c *Config) GetNetwork() string {
	if c.Network == "" {
		return DefaultNetwork
	}
	return c.Network
}

// GetPollInterval returns the poll interval, using DefaultPollInterval if unset
func (c *Config) GetPollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollInterval)
}

// ShouldSetupLogger reports whether the bridge should install its logger
func (c *Config) ShouldSetupLogger() bool {
	return c.SetupLogger == nil || *c.SetupLogger
}

// Duration is a time.Duration with lenient JSON decoding
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	value := gjson.ParseBytes(data)
	switch {
	case value.Type == gjson.Null:
		*d = 0
	case value.Type == gjson.Number:
		*d = Duration(value.Float() * float64(time.Second))
	case value.Type == gjson.String:
		parsed, err := time.ParseDuration(value.String())
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.String(), err)
		}
		*d = Duration(parsed)
	case value.IsArray():
		parts := value.Array()
		if len(parts) == 0 || len(parts) > 2 {
			return fmt.Errorf("invalid duration %s: expected [seconds, nanoseconds]", value.Raw)
		}
		total := time.Duration(parts[0].Int()) * time.Second
		if len(parts) == 2 {
			total += time.Duration(parts[1].Int())
		}
		*d = Duration(total)
	default:
		return fmt.Errorf("invalid duration %s", value.Raw)
	}
	return nil
}

// MarshalJSON implements json.Marshaler, emitting seconds as a number
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).Seconds())
}
