package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	bwtotel "github.com/bwt-dev/libbwt-go/internal/otel"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

const (
	// BridgeMetricsMeterName is the name used for the bridge metrics meter
	BridgeMetricsMeterName = "github.com/bwt-dev/libbwt-go/bridge"

	// NodeMetricsMeterName is the name used for the bitcoind engine metrics meter
	NodeMetricsMeterName = "github.com/bwt-dev/libbwt-go/bitcoind"
)

// Run outcomes recorded by BridgeMetrics.RecordRun
const (
	OutcomeSuccess  = "success"
	OutcomeCanceled = "canceled"
	OutcomeFailure  = "failure"
)

// BridgeMetrics holds the OpenTelemetry instruments for the run lifecycle
// and the progress stream
type BridgeMetrics struct {
	runsTotal      metric.Int64Counter
	runDuration    metric.Float64Histogram
	bootDuration   metric.Float64Histogram
	progressEvents metric.Int64Counter
	syncProgress   metric.Float64Gauge
	scanProgress   metric.Float64Gauge
	chainTip       metric.Int64Gauge
	scanETA        metric.Int64Gauge
}

// NewBridgeMetrics creates a new BridgeMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewBridgeMetrics(provider metric.MeterProvider) (*BridgeMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(BridgeMetricsMeterName)
	m := &BridgeMetrics{}
	var err error

	if m.runsTotal, err = meter.Int64Counter(
		"bwt_bridge_runs_total",
		metric.WithDescription("Number of completed runs by outcome"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}

	if m.runDuration, err = meter.Float64Histogram(
		"bwt_bridge_run_duration_seconds",
		metric.WithDescription("Duration of runs from start to return in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 10, 60, 300, 1800, 3600, 21600, 86400),
	); err != nil {
		return nil, err
	}

	if m.bootDuration, err = meter.Float64Histogram(
		"bwt_bridge_boot_duration_seconds",
		metric.WithDescription("Duration of engine boot in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600),
	); err != nil {
		return nil, err
	}

	if m.progressEvents, err = meter.Int64Counter(
		"bwt_bridge_progress_events_total",
		metric.WithDescription("Number of progress events forwarded to the host"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}

	if m.syncProgress, err = meter.Float64Gauge(
		"bwt_bridge_sync_progress_ratio",
		metric.WithDescription("Last reported chain sync progress"),
	); err != nil {
		return nil, err
	}

	if m.scanProgress, err = meter.Float64Gauge(
		"bwt_bridge_scan_progress_ratio",
		metric.WithDescription("Last reported wallet scan progress"),
	); err != nil {
		return nil, err
	}

	if m.chainTip, err = meter.Int64Gauge(
		"bwt_bridge_chain_tip_timestamp_seconds",
		metric.WithDescription("Timestamp of the last reported chain tip"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.scanETA, err = meter.Int64Gauge(
		"bwt_bridge_scan_eta_seconds",
		metric.WithDescription("Last reported wallet scan ETA"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordProgress records a forwarded progress event
func (m *BridgeMetrics) RecordProgress(ctx context.Context, event engine.Progress) {
	if m == nil {
		return
	}

	m.progressEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", event.Kind.String())))

	switch event.Kind {
	case engine.ProgressSync:
		m.syncProgress.Record(ctx, float64(event.Fraction))
		m.chainTip.Record(ctx, clampInt64(event.Value))
	case engine.ProgressScan:
		m.scanProgress.Record(ctx, float64(event.Fraction))
		m.scanETA.Record(ctx, clampInt64(event.Value))
	}
}

// RecordBoot records how long the engine took to boot
func (m *BridgeMetrics) RecordBoot(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	m.bootDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordRun records a finished run and its outcome
func (m *BridgeMetrics) RecordRun(ctx context.Context, duration time.Duration, outcome string) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.runsTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}

// NodeMetrics holds the OpenTelemetry instruments for the bitcoind engine
type NodeMetrics struct {
	rpcDuration metric.Float64Histogram
	blocks      metric.Int64Gauge
}

// NewNodeMetrics creates a new NodeMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewNodeMetrics(provider metric.MeterProvider) (*NodeMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(NodeMetricsMeterName)

	rpcDuration, err := meter.Float64Histogram(
		"bwt_bitcoind_rpc_duration_seconds",
		metric.WithDescription("Duration of bitcoind RPC calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	blocks, err := meter.Int64Gauge(
		"bwt_bitcoind_blocks",
		metric.WithDescription("Block height reported by bitcoind"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return &NodeMetrics{
		rpcDuration: rpcDuration,
		blocks:      blocks,
	}, nil
}

// RecordRPC records the duration of a bitcoind RPC call
func (m *NodeMetrics) RecordRPC(ctx context.Context, method string, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	m.rpcDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		bwtotel.AttrRPCMethod.String(method),
		attribute.Bool("success", success),
	))
}

// RecordBlocks records the current block height
func (m *NodeMetrics) RecordBlocks(ctx context.Context, height int64) {
	if m == nil {
		return
	}

	m.blocks.Record(ctx, height)
}

func clampInt64(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}
	return int64(v)
}
