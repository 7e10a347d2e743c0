// Package otel provides OpenTelemetry span helpers shared by the bridge and
// the bundled engine.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on bridge and engine spans
const (
	AttrRunID        = attribute.Key("bwt.run_id")
	AttrNetwork      = attribute.Key("bwt.network")
	AttrOutcome      = attribute.Key("bwt.outcome")
	AttrElectrumAddr = attribute.Key("bwt.electrum_addr")
	AttrHTTPAddr     = attribute.Key("bwt.http_addr")
	AttrFaultKind    = attribute.Key("bwt.fault_kind")
	AttrRPCMethod    = attribute.Key("rpc.method")
)

// Lifecycle span names. Every span of a Start run carries SpanPrefix.
const (
	SpanPrefix = "bridge."
	SpanRun    = SpanPrefix + "run"
	SpanBoot   = SpanPrefix + "boot"
	SpanSync   = SpanPrefix + "sync"
)

// IsLifecycleSpan reports whether name is one of the bridge lifecycle spans
func IsLifecycleSpan(name string) bool {
	return strings.HasPrefix(name, SpanPrefix)
}

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span failed. Nil spans and
// nil errors are ignored. The status description stays generic since error
// messages may carry node URLs; the full error is kept in the span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
