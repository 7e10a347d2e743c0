// Package daemon is the host-facing surface of the bridge.
//
// Start, Shutdown and TestRPC are the entry points bound into the host
// runtime. Start blocks the calling thread for the lifetime of the engine
// and reports through a CallbackNotifier; the shutdown token delivered to
// OnBooting can be passed to Shutdown from any thread. Errors returned to the
// host are *fault.Error values; a cooperative shutdown is not an error.
//
// Process-wide wiring (RegisterEngine, SetHostAdapter, SetTelemetry) must
// happen before the first Start.
package daemon

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bwt-dev/libbwt-go/internal/bitcoind"
	"github.com/bwt-dev/libbwt-go/internal/bridge"
	"github.com/bwt-dev/libbwt-go/internal/fault"
	"github.com/bwt-dev/libbwt-go/internal/handle"
	"github.com/bwt-dev/libbwt-go/internal/shutdown"
	"github.com/bwt-dev/libbwt-go/internal/telemetry"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

//go:generate mockgen -destination=mocks/mock_callback.go -package=mocks -source=daemon.go CallbackNotifier

// CallbackNotifier receives the notifications of a Start call. Progress
// methods are called from a dedicated thread attached to the host runtime;
// the others are called from the thread that invoked Start.
type CallbackNotifier interface {
	// OnBooting delivers the shutdown token before the engine boots
	OnBooting(handle int64)
	OnElectrumReady(addr string)
	OnHttpReady(addr string) //nolint:revive // bound name
	OnReady()
	OnSyncProgress(progress float32, tip int32)
	OnScanProgress(progress float32, eta int32)
}

// HostAdapter registers OS threads with the host runtime. Progress callbacks
// are only delivered from threads it has attached.
type HostAdapter interface {
	AttachCurrentThread() (detach func(), err error)
}

var (
	mu             sync.RWMutex
	eng            engine.Engine = bitcoind.New()
	adapter        HostAdapter
	tracerProvider trace.TracerProvider
	metrics        *telemetry.BridgeMetrics

	handles handle.Table[*shutdown.Handle]
)

// RegisterEngine replaces the engine driven by Start and TestRPC. The
// bundled bitcoind engine is used by default.
func RegisterEngine(e engine.Engine) {
	mu.Lock()
	defer mu.Unlock()
	eng = e
}

// SetHostAdapter sets the adapter attaching the progress thread to the host
func SetHostAdapter(a HostAdapter) {
	mu.Lock()
	defer mu.Unlock()
	adapter = a
}

// SetTelemetry sets the providers used for run metrics and spans. Nil
// providers disable the corresponding signal.
func SetTelemetry(mp metric.MeterProvider, tp trace.TracerProvider) error {
	m, err := telemetry.NewBridgeMetrics(mp)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	metrics = m
	tracerProvider = tp
	return nil
}

func newRunner() *bridge.Runner {
	mu.RLock()
	defer mu.RUnlock()

	opts := []bridge.Option{
		bridge.WithMetrics(metrics),
		bridge.WithTracerProvider(tracerProvider),
	}
	if adapter != nil {
		opts = append(opts, bridge.WithAttacher(adapter))
	}
	return bridge.NewRunner(eng, &handles, opts...)
}

func currentEngine() engine.Engine {
	mu.RLock()
	defer mu.RUnlock()
	return eng
}

// Start boots the engine with the JSON configuration document and blocks
// until it stops. It returns nil when the engine stopped because of a
// Shutdown request.
func Start(jsonConfig string, callback CallbackNotifier) error {
	return fault.Contain(func() error {
		if callback == nil {
			return fault.New(fault.KindBridgeFault, "callback notifier is required", nil)
		}
		return newRunner().Run(jsonConfig, callback)
	})
}

// Shutdown consumes the token delivered to OnBooting and stops the run. Each
// token can be used once; unknown or already used tokens are ignored.
func Shutdown(handle int64) {
	err := fault.Contain(func() error {
		h, err := handles.Take(handle)
		if err != nil {
			slog.Warn("Ignoring shutdown request", "handle", handle, "error", err)
			return nil
		}
		slog.Debug("Shutdown requested", "handle", handle)
		return h.Close()
	})
	if err != nil {
		slog.Error("Shutdown failed", "handle", handle, "error", err)
	}
}

// TestRPC checks that the engine can reach its backing node
func TestRPC(jsonConfig string) error {
	return fault.Contain(func() error {
		cfg, err := config.Parse(jsonConfig)
		if err != nil {
			return err
		}
		return currentEngine().TestRPC(context.Background(), cfg)
	})
}
