package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	bwtotel "github.com/bwt-dev/libbwt-go/internal/otel"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

func newTestMeterProvider(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestNewBridgeMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	metrics, err := NewBridgeMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, metrics)

	// A nil recorder is safe to use
	assert.NotPanics(t, func() {
		metrics.RecordProgress(context.Background(), engine.SyncProgress(0.5, 1))
		metrics.RecordBoot(context.Background(), time.Second, true)
		metrics.RecordRun(context.Background(), time.Second, OutcomeSuccess)
	})
}

func TestBridgeMetrics_RecordProgress(t *testing.T) {
	t.Parallel()

	reader, mp := newTestMeterProvider(t)
	metrics, err := NewBridgeMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordProgress(ctx, engine.SyncProgress(0.5, 1700000000))
	metrics.RecordProgress(ctx, engine.SyncProgress(0.75, 1700000600))
	metrics.RecordProgress(ctx, engine.ScanProgress(0.25, 90))

	data := collect(t, reader)

	events, ok := data["bwt_bridge_progress_events_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	byKind := map[string]int64{}
	for _, dp := range events.DataPoints {
		kind, _ := dp.Attributes.Value("kind")
		byKind[kind.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"sync": 2, "scan": 1}, byKind)

	syncRatio, ok := data["bwt_bridge_sync_progress_ratio"].(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, syncRatio.DataPoints, 1)
	assert.Equal(t, 0.75, syncRatio.DataPoints[0].Value)

	tip, ok := data["bwt_bridge_chain_tip_timestamp_seconds"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, tip.DataPoints, 1)
	assert.Equal(t, int64(1700000600), tip.DataPoints[0].Value)

	eta, ok := data["bwt_bridge_scan_eta_seconds"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, eta.DataPoints, 1)
	assert.Equal(t, int64(90), eta.DataPoints[0].Value)
}

func TestBridgeMetrics_RecordRunAndBoot(t *testing.T) {
	t.Parallel()

	reader, mp := newTestMeterProvider(t)
	metrics, err := NewBridgeMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordBoot(ctx, 2*time.Second, true)
	metrics.RecordRun(ctx, time.Minute, OutcomeCanceled)
	metrics.RecordRun(ctx, time.Minute, OutcomeCanceled)
	metrics.RecordRun(ctx, time.Second, OutcomeFailure)

	data := collect(t, reader)

	runs, ok := data["bwt_bridge_runs_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	byOutcome := map[string]int64{}
	for _, dp := range runs.DataPoints {
		outcome, _ := dp.Attributes.Value("outcome")
		byOutcome[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{OutcomeCanceled: 2, OutcomeFailure: 1}, byOutcome)

	boot, ok := data["bwt_bridge_boot_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, boot.DataPoints, 1)
	assert.Equal(t, uint64(1), boot.DataPoints[0].Count)
	assert.Equal(t, 2.0, boot.DataPoints[0].Sum)
}

func TestNodeMetrics(t *testing.T) {
	t.Parallel()

	nilMetrics, err := NewNodeMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, nilMetrics)
	assert.NotPanics(t, func() {
		nilMetrics.RecordRPC(context.Background(), "getblockchaininfo", time.Millisecond, true)
		nilMetrics.RecordBlocks(context.Background(), 1)
	})

	reader, mp := newTestMeterProvider(t)
	metrics, err := NewNodeMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRPC(ctx, "getblockchaininfo", 20*time.Millisecond, true)
	metrics.RecordRPC(ctx, "getwalletinfo", 5*time.Millisecond, false)
	metrics.RecordBlocks(ctx, 840000)

	data := collect(t, reader)

	rpc, ok := data["bwt_bitcoind_rpc_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, rpc.DataPoints, 2)
	methods := map[string]bool{}
	for _, dp := range rpc.DataPoints {
		method, ok := dp.Attributes.Value(bwtotel.AttrRPCMethod)
		require.True(t, ok)
		success, _ := dp.Attributes.Value("success")
		methods[method.AsString()] = success.AsBool()
	}
	assert.Equal(t, map[string]bool{"getblockchaininfo": true, "getwalletinfo": false}, methods)

	blocks, ok := data["bwt_bitcoind_blocks"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, blocks.DataPoints, 1)
	assert.Equal(t, int64(840000), blocks.DataPoints[0].Value)
}

func TestClampInt64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), clampInt64(0))
	assert.Equal(t, int64(42), clampInt64(42))
	assert.Equal(t, int64(1<<63-1), clampInt64(1<<64-1))
}
