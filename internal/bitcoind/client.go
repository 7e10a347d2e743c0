// Package bitcoind is the bundled engine. It tracks a bitcoind node over
// JSON-RPC, reports its initial block download and wallet rescan progress
// and serves a small status API once booted.
package bitcoind

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bwt-dev/libbwt-go/internal/telemetry"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/versions"
)

const (
	// DefaultTimeout is the default timeout for RPC requests
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed RPC response size (32MB)
	MaxResponseSize = 32 * 1024 * 1024
)

// RPC error codes returned by bitcoind
const (
	CodeInWarmup       = -28
	CodeWalletNotFound = -18
	CodeMethodNotFound = -32601
)

// networkDefaults maps network names to the default RPC port, data
// subdirectory and the chain name reported by getblockchaininfo
var networkDefaults = map[string]struct {
	port   int
	subdir string
	chain  string
}{
	"bitcoin": {port: 8332, chain: "main"},
	"testnet": {port: 18332, subdir: "testnet3", chain: "test"},
	"signet":  {port: 38332, subdir: "signet", chain: "signet"},
	"regtest": {port: 18443, subdir: "regtest", chain: "regtest"},
}

// RPCError is an error reported by bitcoind in the response body
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error returns the error message
func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// HTTPError is a non-RPC HTTP failure, such as rejected credentials
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url, message string) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// IsRPCError reports whether err is an RPCError with the given code
func IsRPCError(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     string          `json:"id"`
}

// Client is a JSON-RPC 1.0 client for bitcoind
type Client struct {
	url        string
	user       string
	password   string
	cookiePath string
	client     *http.Client
	metrics    *telemetry.NodeMetrics
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithNodeMetrics records RPC durations
func WithNodeMetrics(metrics *telemetry.NodeMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a client for the node configured in cfg
func NewClient(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	network := cfg.GetNetwork()
	defaults, ok := networkDefaults[network]
	if !ok {
		return nil, fmt.Errorf("unknown network %q", network)
	}

	c := &Client{
		url:    strings.TrimSuffix(cfg.BitcoindURL, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	if c.url == "" {
		c.url = fmt.Sprintf("http://127.0.0.1:%d", defaults.port)
	}
	if cfg.BitcoindWallet != "" {
		c.url += "/wallet/" + cfg.BitcoindWallet
	}

	switch {
	case cfg.BitcoindAuth != "":
		user, password, found := strings.Cut(cfg.BitcoindAuth, ":")
		if !found {
			return nil, errors.New("bitcoind_auth must be in the user:password format")
		}
		c.user, c.password = user, password
	case cfg.BitcoindCookie != "":
		c.cookiePath = cfg.BitcoindCookie
	default:
		dir := cfg.BitcoindDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate the bitcoind data directory: %w", err)
			}
			dir = filepath.Join(home, ".bitcoin")
		}
		c.cookiePath = filepath.Join(dir, defaults.subdir, ".cookie")
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the RPC endpoint
func (c *Client) URL() string {
	return c.url
}

// Call invokes method and decodes its result into result, which may be nil
func (c *Client) Call(ctx context.Context, method string, result any, params ...any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordRPC(ctx, method, time.Since(start), err == nil)
	}()

	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "1.0", ID: uuid.NewString(), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", versions.UserAgent())
	req.Header.Set("Content-Type", "application/json")

	user, password, err := c.credentials()
	if err != nil {
		return err
	}
	req.SetBasicAuth(user, password)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > MaxResponseSize {
		return fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	// bitcoind answers RPC errors with a non-200 status and a JSON body
	var decoded rpcResponse
	if decodeErr := json.Unmarshal(data, &decoded); decodeErr != nil {
		if resp.StatusCode != http.StatusOK {
			return NewHTTPError(resp.StatusCode, c.url, resp.Status)
		}
		return fmt.Errorf("failed to decode %s response: %w", method, decodeErr)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, c.url, resp.Status)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// credentials reads the cookie file on every call, bitcoind rewrites it on restart
func (c *Client) credentials() (string, string, error) {
	if c.cookiePath == "" {
		return c.user, c.password, nil
	}
	data, err := os.ReadFile(c.cookiePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read cookie file: %w", err)
	}
	user, password, found := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !found {
		return "", "", fmt.Errorf("malformed cookie file %s", c.cookiePath)
	}
	return user, password, nil
}

// BlockchainInfo is the subset of getblockchaininfo the engine uses
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	MedianTime           uint64  `json:"mediantime"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
}

// NetworkInfo is the subset of getnetworkinfo the engine uses
type NetworkInfo struct {
	Version    int64  `json:"version"`
	Subversion string `json:"subversion"`
}

// WalletInfo is the subset of getwalletinfo the engine uses. Scanning is
// either false or an object describing the rescan in progress.
type WalletInfo struct {
	WalletName string          `json:"walletname"`
	Scanning   json.RawMessage `json:"scanning"`
}

// ScanStatus describes a wallet rescan in progress
type ScanStatus struct {
	Duration uint64  `json:"duration"`
	Progress float64 `json:"progress"`
}

// Scan returns the rescan in progress, if any
func (w *WalletInfo) Scan() (ScanStatus, bool) {
	var status ScanStatus
	if len(w.Scanning) == 0 || w.Scanning[0] != '{' {
		return status, false
	}
	if err := json.Unmarshal(w.Scanning, &status); err != nil {
		return status, false
	}
	return status, true
}

// GetBlockchainInfo calls getblockchaininfo
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.Call(ctx, "getblockchaininfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNetworkInfo calls getnetworkinfo
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	var info NetworkInfo
	if err := c.Call(ctx, "getnetworkinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetWalletInfo calls getwalletinfo
func (c *Client) GetWalletInfo(ctx context.Context) (*WalletInfo, error) {
	var info WalletInfo
	if err := c.Call(ctx, "getwalletinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
