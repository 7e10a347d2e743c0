package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	bwtotel "github.com/bwt-dev/libbwt-go/internal/otel"
)

// DefaultBatchTimeout bounds how long a finished span waits for export. A
// run ends with a handful of spans, so they are flushed quickly.
const DefaultBatchTimeout = 2 * time.Second

// TracerProviderOption is a function that configures the tracer provider setup
type TracerProviderOption func(*tracerProviderConfig)

type tracerProviderConfig struct {
	serviceName    string
	serviceVersion string
	tracingConfig  *TracingConfig
	endpoint       string
	insecure       bool
	exporter       sdktrace.SpanExporter
	batchTimeout   time.Duration
}

// WithTracerServiceName sets the service name for the tracer provider
func WithTracerServiceName(name string) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.serviceName = name
	}
}

// WithTracerServiceVersion sets the service version for the tracer provider
func WithTracerServiceVersion(version string) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.serviceVersion = version
	}
}

// WithTracingConfig sets the tracing configuration
func WithTracingConfig(tc *TracingConfig) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.tracingConfig = tc
	}
}

// WithTracerEndpoint sets the OTLP endpoint for the tracer provider
func WithTracerEndpoint(endpoint string) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.endpoint = endpoint
	}
}

// WithTracerInsecure sends spans over plain HTTP
func WithTracerInsecure(insecure bool) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.insecure = insecure
	}
}

// WithSpanExporter replaces the OTLP exporter
func WithSpanExporter(exporter sdktrace.SpanExporter) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.exporter = exporter
	}
}

// WithBatchTimeout overrides DefaultBatchTimeout
func WithBatchTimeout(timeout time.Duration) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.batchTimeout = timeout
	}
}

// NewTracerProvider creates the tracer provider handed to the bridge with
// daemon.SetTelemetry. Lifecycle spans of every run are kept; status server
// and RPC spans follow the configured sampling ratio. A disabled or missing
// tracing configuration yields a no-op provider.
//
// The provider is not installed as the otel global: the bridge and the engine
// receive it explicitly. Only the W3C propagators are installed globally so
// the status server can join traces started by its callers.
func NewTracerProvider(ctx context.Context, opts ...TracerProviderOption) (trace.TracerProvider, error) {
	cfg := &tracerProviderConfig{
		serviceName:    DefaultServiceName,
		serviceVersion: "unknown",
		endpoint:       DefaultEndpoint,
		batchTimeout:   DefaultBatchTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.tracingConfig == nil || !cfg.tracingConfig.Enabled {
		slog.Debug("Tracing disabled, using no-op tracer provider")
		return noop.NewTracerProvider(), nil
	}

	res, err := newResource(ctx, cfg.serviceName, cfg.serviceVersion)
	if err != nil {
		return nil, err
	}

	exporter := cfg.exporter
	if exporter == nil {
		exporter, err = createOTLPTracingExporter(ctx, cfg.endpoint, cfg.insecure)
		if err != nil {
			return nil, err
		}
	}

	ratio := cfg.tracingConfig.GetSampling()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(cfg.batchTimeout)),
		sdktrace.WithSampler(NewLifecycleSampler(ratio)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.insecure {
		slog.Warn("Tracing configured with insecure connection, spans are sent over plain HTTP")
	}
	slog.Info("Tracing initialized", "endpoint", cfg.endpoint, "sampling_ratio", ratio)

	return tp, nil
}

// lifecycleSampler always samples bridge lifecycle spans and delegates the
// rest to a parent-based ratio sampler
type lifecycleSampler struct {
	ratio    float64
	fallback sdktrace.Sampler
}

// NewLifecycleSampler returns a sampler that keeps every span named with
// the bridge lifecycle prefix and samples other spans at ratio, honoring the
// decision of a remote or local parent.
func NewLifecycleSampler(ratio float64) sdktrace.Sampler {
	return &lifecycleSampler{
		ratio:    ratio,
		fallback: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)),
	}
}

func (s *lifecycleSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if !bwtotel.IsLifecycleSpan(p.Name) {
		return s.fallback.ShouldSample(p)
	}
	return sdktrace.SamplingResult{
		Decision:   sdktrace.RecordAndSample,
		Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
	}
}

func (s *lifecycleSampler) Description() string {
	return fmt.Sprintf("LifecycleSampler{ratio:%g}", s.ratio)
}

func createOTLPTracingExporter(ctx context.Context, endpoint string, insecure bool) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}
