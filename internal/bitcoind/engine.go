package bitcoind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bwt-dev/libbwt-go/internal/telemetry"
	"github.com/bwt-dev/libbwt-go/internal/versions"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// MinNodeVersion is the oldest supported bitcoind release
const MinNodeVersion = "0.19.0"

// Engine implements engine.Engine against bitcoind
type Engine struct {
	httpClient     *http.Client
	newBackOff     func() backoff.BackOff
	waitTimeout    time.Duration
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	gatherer       prometheus.Gatherer
}

// Option configures an Engine
type Option func(*Engine)

// WithRPCHTTPClient sets the HTTP client used for RPC calls
func WithRPCHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		e.httpClient = client
	}
}

// WithBackOff sets the policy used while waiting for the RPC interface
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(e *Engine) {
		e.newBackOff = newBackOff
	}
}

// WithWaitTimeout bounds the time spent waiting for the RPC interface.
// Zero waits until the boot is canceled.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.waitTimeout = timeout
	}
}

// WithMeterProvider enables RPC and status server metrics
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(e *Engine) {
		e.meterProvider = provider
	}
}

// WithTracerProvider enables status server tracing
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracerProvider = provider
	}
}

// WithGatherer sets the registry exposed on the status server /metrics route
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(e *Engine) {
		e.gatherer = gatherer
	}
}

// New creates a bitcoind engine
func New(opts ...Option) *Engine {
	e := &Engine{
		newBackOff: defaultBackOff,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	return b
}

// TestRPC checks that the node answers getblockchaininfo
func (e *Engine) TestRPC(ctx context.Context, cfg *config.Config) error {
	client, err := e.newClient(cfg, nil)
	if err != nil {
		return fmt.Errorf("bitcoind RPC check failed: %w", err)
	}
	info, err := client.GetBlockchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("bitcoind RPC check failed: %w", err)
	}
	slog.Info("bitcoind RPC is reachable", "url", client.URL(), "chain", info.Chain, "blocks", info.Blocks)
	return nil
}

// Boot waits for the node, reports its sync and rescan progress and starts
// the status server
func (e *Engine) Boot(ctx context.Context, cfg *config.Config, progress engine.ProgressSender) (engine.App, error) {
	nodeMetrics, err := telemetry.NewNodeMetrics(e.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create node metrics: %w", err)
	}
	client, err := e.newClient(cfg, nodeMetrics)
	if err != nil {
		return nil, err
	}

	slog.Info("Connecting to bitcoind", "url", client.URL(), "network", cfg.GetNetwork())
	info, err := e.waitReady(ctx, client)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	if err := checkNode(ctx, cfg, client, info); err != nil {
		return nil, interrupted(ctx, err)
	}

	interval := cfg.GetPollInterval()
	if err := waitSync(ctx, client, progress, interval); err != nil {
		return nil, interrupted(ctx, err)
	}
	if err := waitScan(ctx, client, progress, interval); err != nil {
		return nil, interrupted(ctx, err)
	}

	if cfg.ElectrumAddr != "" {
		slog.Warn("Electrum server is not supported by the bitcoind engine", "electrum_addr", cfg.ElectrumAddr)
	}

	app := &App{
		client:   client,
		interval: interval,
		metrics:  nodeMetrics,
		network:  cfg.GetNetwork(),
	}
	if cfg.HTTPAddr != "" {
		server, err := e.newStatusServer(cfg.HTTPAddr, app)
		if err != nil {
			return nil, err
		}
		app.server = server
		slog.Info("Status server listening", "address", server.addr())
	}
	return app, nil
}

func (e *Engine) newClient(cfg *config.Config, metrics *telemetry.NodeMetrics) (*Client, error) {
	opts := []ClientOption{WithNodeMetrics(metrics)}
	if e.httpClient != nil {
		opts = append(opts, WithHTTPClient(e.httpClient))
	}
	return NewClient(cfg, opts...)
}

// waitReady polls the node until its RPC interface accepts requests. Transport
// failures, a missing cookie file and the warm-up error are retried.
func (e *Engine) waitReady(ctx context.Context, client *Client) (*BlockchainInfo, error) {
	operation := func() (*BlockchainInfo, error) {
		info, err := client.GetBlockchainInfo(ctx)
		if err == nil {
			return info, nil
		}
		if retryable(err) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	notify := func(err error, next time.Duration) {
		slog.Debug("Waiting for bitcoind", "error", err, "retry_in", next)
	}

	info, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(e.newBackOff()),
		backoff.WithMaxElapsedTime(e.waitTimeout),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return nil, fmt.Errorf("bitcoind is not reachable: %w", err)
	}
	return info, nil
}

func retryable(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return IsRPCError(err, CodeInWarmup) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &netErr)
}

func checkNode(ctx context.Context, cfg *config.Config, client *Client, info *BlockchainInfo) error {
	if want := networkDefaults[cfg.GetNetwork()].chain; info.Chain != want {
		return fmt.Errorf("network mismatch: bitcoind runs %q, expected %q", info.Chain, want)
	}

	netInfo, err := client.GetNetworkInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get network info: %w", err)
	}
	version := versions.NodeVersion(netInfo.Version)
	if !versions.AtLeast(version, MinNodeVersion) {
		return fmt.Errorf("bitcoind %s is not supported, %s or newer is required", version, MinNodeVersion)
	}
	slog.Debug("Connected to bitcoind", "version", version, "subversion", netInfo.Subversion)
	return nil
}

// waitSync reports the initial block download until it completes
func waitSync(ctx context.Context, client *Client, progress engine.ProgressSender, interval time.Duration) error {
	for {
		info, err := client.GetBlockchainInfo(ctx)
		if err != nil {
			return fmt.Errorf("failed to get blockchain info: %w", err)
		}
		if !info.InitialBlockDownload {
			slog.Info("Chain synced", "blocks", info.Blocks, "best_block", info.BestBlockHash)
			return nil
		}

		slog.Debug("Waiting for the initial block download",
			"progress", info.VerificationProgress, "blocks", info.Blocks, "headers", info.Headers)
		if err := progress.Send(engine.SyncProgress(float32(info.VerificationProgress), info.MedianTime)); err != nil {
			return err
		}
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// waitScan reports a wallet rescan until it completes. Nodes without a
// loaded wallet have nothing to scan.
func waitScan(ctx context.Context, client *Client, progress engine.ProgressSender, interval time.Duration) error {
	for {
		info, err := client.GetWalletInfo(ctx)
		if IsRPCError(err, CodeWalletNotFound) || IsRPCError(err, CodeMethodNotFound) {
			slog.Debug("No wallet loaded, skipping rescan check")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get wallet info: %w", err)
		}

		scan, scanning := info.Scan()
		if !scanning {
			return nil
		}

		eta := scanETA(scan)
		slog.Debug("Waiting for the wallet rescan", "wallet", info.WalletName, "progress", scan.Progress, "eta", eta)
		if err := progress.Send(engine.ScanProgress(float32(scan.Progress), eta)); err != nil {
			return err
		}
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// scanETA extrapolates the remaining rescan time in seconds
func scanETA(scan ScanStatus) uint64 {
	if scan.Progress <= 0 || scan.Progress >= 1 {
		return 0
	}
	return uint64(float64(scan.Duration) / scan.Progress * (1 - scan.Progress))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// interrupted turns failures caused by cancellation or a disconnected
// progress channel into engine.ErrCanceled
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, engine.ErrDisconnected) {
		return engine.ErrCanceled
	}
	return err
}
