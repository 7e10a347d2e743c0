package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "full document",
			doc: `{
				"network": "testnet",
				"bitcoind_url": "http://127.0.0.1:18332/",
				"bitcoind_auth": "user:pass",
				"descriptors": ["wpkh(tpub.../0/*)"],
				"rescan_since": 1600000000,
				"gap_limit": 40,
				"verbose": 2,
				"http_addr": "127.0.0.1:3060",
				"electrum_addr": "127.0.0.1:50001",
				"setup_logger": false
			}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "testnet", cfg.GetNetwork())
				assert.Equal(t, "http://127.0.0.1:18332/", cfg.BitcoindURL)
				assert.Equal(t, "user:pass", cfg.BitcoindAuth)
				assert.Equal(t, []string{"wpkh(tpub.../0/*)"}, cfg.Descriptors)
				require.NotNil(t, cfg.RescanSince)
				assert.Equal(t, int64(1600000000), *cfg.RescanSince)
				require.NotNil(t, cfg.GapLimit)
				assert.Equal(t, 40, *cfg.GapLimit)
				assert.Equal(t, 2, cfg.Verbose)
				assert.Equal(t, "127.0.0.1:3060", cfg.HTTPAddr)
				assert.Equal(t, "127.0.0.1:50001", cfg.ElectrumAddr)
				assert.False(t, cfg.ShouldSetupLogger())
			},
		},
		{
			name: "empty object uses defaults",
			doc:  `{}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DefaultNetwork, cfg.GetNetwork())
				assert.Equal(t, DefaultPollInterval, cfg.GetPollInterval())
				assert.True(t, cfg.ShouldSetupLogger())
				assert.Nil(t, cfg.RescanSince)
			},
		},
		{
			name: "comments and trailing commas are accepted",
			doc: `{
				// regtest node started by the test harness
				"network": "regtest",
				"verbose": 1, /* debug */
			}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "regtest", cfg.GetNetwork())
				assert.Equal(t, 1, cfg.Verbose)
				assert.NotContains(t, string(cfg.Raw), "regtest node")
			},
		},
		{
			name: "unknown keys are preserved in the raw document",
			doc:  `{"network": "signet", "custom": {"nested": [1, 2, 3]}}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, int64(2), cfg.Get("custom.nested.1").Int())
				assert.False(t, cfg.Get("missing").Exists())
			},
		},
		{
			name: "poll interval in seconds",
			doc:  `{"poll_interval": 1.5}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 1500*time.Millisecond, cfg.GetPollInterval())
			},
		},
		{
			name: "poll interval as duration string",
			doc:  `{"poll_interval": "250ms"}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 250*time.Millisecond, cfg.GetPollInterval())
			},
		},
		{
			name: "poll interval as seconds and nanoseconds pair",
			doc:  `{"poll_interval": [3, 500000000]}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 3500*time.Millisecond, cfg.GetPollInterval())
			},
		},
		{
			name: "null poll interval falls back to default",
			doc:  `{"poll_interval": null}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DefaultPollInterval, cfg.GetPollInterval())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Parse(tt.doc)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "not json", doc: "{not json"},
		{name: "array root", doc: `["network"]`},
		{name: "string root", doc: `"bitcoin"`},
		{name: "wrong field type", doc: `{"verbose": "loud"}`},
		{name: "bad poll interval", doc: `{"poll_interval": "soon"}`},
		{name: "poll interval with too many parts", doc: `{"poll_interval": [1, 2, 3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Parse(tt.doc)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), "Invalid config")
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := Duration(2500 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(data))
}

func TestDocumentLoader_LoadDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		content  string
		wantErr  bool
		check    func(t *testing.T, doc string)
	}{
		{
			name:     "json file is returned verbatim",
			fileName: "config.json",
			content:  `{"network": "regtest"}`,
			check: func(t *testing.T, doc string) {
				t.Helper()
				assert.Equal(t, `{"network": "regtest"}`, doc)
			},
		},
		{
			name:     "yaml file is converted to json",
			fileName: "config.yaml",
			content:  "network: testnet\nverbose: 1\ndescriptors:\n  - wpkh(tpub)\n",
			check: func(t *testing.T, doc string) {
				t.Helper()
				cfg, err := Parse(doc)
				require.NoError(t, err)
				assert.Equal(t, "testnet", cfg.Network)
				assert.Equal(t, 1, cfg.Verbose)
				assert.Equal(t, []string{"wpkh(tpub)"}, cfg.Descriptors)
			},
		},
		{
			name:     "invalid yaml",
			fileName: "config.yml",
			content:  "network: [unterminated",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.fileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			doc, err := NewDocumentLoader().LoadDocument(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewDocumentLoader().LoadDocument(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}
