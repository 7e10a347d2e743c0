// Package bridge sequences a single engine run on behalf of the host.
//
// A run parses the configuration, initializes logging, starts the progress
// relay, hands the host a shutdown token, boots the engine and then blocks in
// the engine's sync loop. Readiness callbacks are never delivered once the
// host has asked for shutdown.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/bwt-dev/libbwt-go/internal/fault"
	"github.com/bwt-dev/libbwt-go/internal/handle"
	"github.com/bwt-dev/libbwt-go/internal/logging"
	"github.com/bwt-dev/libbwt-go/internal/otel"
	"github.com/bwt-dev/libbwt-go/internal/progress"
	"github.com/bwt-dev/libbwt-go/internal/shutdown"
	"github.com/bwt-dev/libbwt-go/internal/telemetry"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

//go:generate mockgen -destination=mocks/mock_callbacks.go -package=mocks -source=bridge.go Callbacks

// TracerName is the name of the bridge tracer
const TracerName = "github.com/bwt-dev/libbwt-go/bridge"

// Callbacks receives lifecycle and progress notifications for a run
type Callbacks interface {
	// OnBooting hands over the shutdown token. It is called before the
	// engine boots.
	OnBooting(handle int64)
	OnElectrumReady(addr string)
	OnHttpReady(addr string) //nolint:revive // name is part of the host interface
	OnReady()
	OnSyncProgress(progress float32, tip int32)
	OnScanProgress(progress float32, eta int32)
}

// Runner runs the engine. A Runner can serve any number of concurrent runs.
type Runner struct {
	engine      engine.Engine
	handles     *handle.Table[*shutdown.Handle]
	attacher    progress.Attacher
	tracer      trace.Tracer
	metrics     *telemetry.BridgeMetrics
	initLogging func(*config.Config) bool
}

// Option configures a Runner
type Option func(*Runner)

// WithAttacher sets the host adapter used to attach the progress relay thread
func WithAttacher(attacher progress.Attacher) Option {
	return func(r *Runner) {
		r.attacher = attacher
	}
}

// WithTracerProvider sets the tracer provider for run spans
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Runner) {
		if provider != nil {
			r.tracer = provider.Tracer(TracerName)
		}
	}
}

// WithMetrics sets the run and progress metrics
func WithMetrics(metrics *telemetry.BridgeMetrics) Option {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// WithLoggingInit replaces the process-wide logging initializer
func WithLoggingInit(initLogging func(*config.Config) bool) Option {
	return func(r *Runner) {
		r.initLogging = initLogging
	}
}

// NewRunner creates a Runner booting eng. Shutdown handles are published in handles.
func NewRunner(eng engine.Engine, handles *handle.Table[*shutdown.Handle], opts ...Option) *Runner {
	r := &Runner{
		engine:      eng,
		handles:     handles,
		initLogging: logging.Init,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one run with the configuration document doc and blocks until
// the engine's sync loop returns. The returned error is not yet classified
// for the host, see fault.Contain.
func (r *Runner) Run(doc string, callbacks Callbacks) error {
	cfg, err := config.Parse(doc)
	if err != nil {
		return err
	}
	r.initLogging(cfg)

	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)

	ctx, span := otel.StartSpan(context.Background(), r.tracer, otel.SpanRun,
		trace.WithAttributes(
			otel.AttrRunID.String(runID),
			otel.AttrNetwork.String(cfg.GetNetwork()),
		),
	)
	started := time.Now()
	logger.Info("Starting run", "network", cfg.GetNetwork())

	// finished stays false if run panics; the panic itself is left to the caller
	finished := false
	defer func() {
		if !finished {
			err = errors.New("run aborted by panic")
		}
		outcome := outcomeOf(err)
		r.metrics.RecordRun(ctx, time.Since(started), outcome)
		span.SetAttributes(otel.AttrOutcome.String(outcome))
		if outcome == telemetry.OutcomeFailure {
			kind := fault.KindBridgeFault
			if finished {
				kind = fault.KindOf(err)
			}
			span.SetAttributes(otel.AttrFaultKind.String(kind.String()))
			otel.RecordError(span, err)
		}
		span.End()
		logger.Info("Run finished", "outcome", outcome, "duration", time.Since(started).String())
	}()

	err = r.run(ctx, cfg, callbacks, logger)
	finished = true
	return err
}

func (r *Runner) run(ctx context.Context, cfg *config.Config, callbacks Callbacks, logger *slog.Logger) error {
	queue := progress.NewQueue()

	relayOpts := []progress.Option{progress.WithLogger(logger)}
	if r.metrics != nil {
		relayOpts = append(relayOpts, progress.WithRecorder(r.metrics))
	}
	relay, err := progress.StartRelay(queue, callbacks, r.attacher, relayOpts...)
	if err != nil {
		return fmt.Errorf("failed to start progress relay: %w", err)
	}
	defer func() {
		queue.Close()
		if err := relay.Wait(); err != nil {
			logger.Warn("Progress relay failed", "error", err)
		}
	}()

	h, signal := shutdown.New(ctx, queue)
	defer signal.Release()

	token := r.handles.Insert(h)
	logger.Debug("Handing over shutdown handle", "handle", token)
	callbacks.OnBooting(token)

	app, err := r.boot(signal.Context(), cfg, queue)
	if err != nil {
		return err
	}
	defer closeApp(app, logger)

	// The host may have asked for shutdown while the engine was booting
	if signal.Requested() {
		logger.Info("Shutdown requested during boot, skipping sync")
		return engine.ErrCanceled
	}

	if addr, ok := app.ElectrumAddr(); ok {
		logger.Info("Electrum server ready", "addr", addr)
		callbacks.OnElectrumReady(addr)
	}
	if addr, ok := app.HTTPAddr(); ok {
		logger.Info("HTTP server ready", "addr", addr)
		callbacks.OnHttpReady(addr)
	}
	callbacks.OnReady()

	_, span := otel.StartSpan(ctx, r.tracer, otel.SpanSync)
	defer span.End()

	if err := app.Sync(signal.C); err != nil {
		otel.RecordError(span, err)
		return err
	}
	return nil
}

func (r *Runner) boot(ctx context.Context, cfg *config.Config, queue *progress.Queue) (engine.App, error) {
	ctx, span := otel.StartSpan(ctx, r.tracer, otel.SpanBoot)
	defer span.End()

	started := time.Now()
	app, err := r.engine.Boot(ctx, cfg, queue)
	r.metrics.RecordBoot(ctx, time.Since(started), err == nil)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	if addr, ok := app.ElectrumAddr(); ok {
		span.SetAttributes(otel.AttrElectrumAddr.String(addr))
	}
	if addr, ok := app.HTTPAddr(); ok {
		span.SetAttributes(otel.AttrHTTPAddr.String(addr))
	}
	return app, nil
}

// closeApp releases apps that hold resources beyond Sync
func closeApp(app engine.App, logger *slog.Logger) {
	closer, ok := app.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("Failed to close engine app", "error", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, engine.ErrCanceled):
		return telemetry.OutcomeCanceled
	default:
		return telemetry.OutcomeFailure
	}
}
