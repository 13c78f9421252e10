package observability

import (
	"context"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability records resolution telemetry through OpenTelemetry, exported to Prometheus.
type Observability struct {
	meterProvider   *metric.MeterProvider
	tracerProvider  *sdktrace.TracerProvider
	meter           otelmetric.Meter
	resolveCounter  otelmetric.Int64Counter
	resolveDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	resolveCounter, _ := meter.Int64Counter(
		"questions.resolved",
		otelmetric.WithDescription("Number of questions resolved"),
	)

	resolveDuration, _ := meter.Float64Histogram(
		"questions.duration",
		otelmetric.WithDescription("Question resolution duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		resolveCounter:  resolveCounter,
		resolveDuration: resolveDuration,
	}
}

// RecordResolution records one answered question. Safe on a zero Observability.
func (o *Observability) RecordResolution(ctx context.Context, rule string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("rule", rule))
	if o.resolveCounter != nil {
		o.resolveCounter.Add(ctx, 1, attrs)
	}
	if o.resolveDuration != nil {
		o.resolveDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// EnableStdoutTracing installs a global tracer provider that writes finished
// spans to w as JSON. Without it spans go to the no-op provider.
func (o *Observability) EnableStdoutTracing(w io.Writer) error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	o.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(o.tracerProvider)
	return nil
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
