package observability

import (
	"context"

	"staffing-workers/internal/common/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func (obs *Observability) initTracing(serviceName string, cfg config.TracingConfig, o *options) {
	if !cfg.Enabled && len(o.spanProcessors) == 0 {
		return
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}
	for _, sp := range o.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	obs.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(obs.tracerProvider)
	obs.tracer = obs.tracerProvider.Tracer(serviceName)
}

// Tracer returns the tracer handed to the staffing core.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

// StartSpan starts a span named name carrying attrs. A nil Observability
// returns ctx unchanged with a non-recording span.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
