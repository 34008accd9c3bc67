package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/vetta/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit; shutdown
// flushes the final export of a short-lived CLI run.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		logger.FieldEndpoint, config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricRuns          = "vetta.runs"
	MetricSegments      = "vetta.segments"
	MetricStageErrors   = "vetta.stage_errors"
	MetricRunDuration   = "vetta.run.duration"
	MetricStageDuration = "vetta.stage.duration"
)

// Metrics holds the pipeline instruments.
type Metrics struct {
	runs          metric.Int64Counter
	segments      metric.Int64Counter
	stageErrors   metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("Pipeline runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRuns, err)
	}

	segments, err := meter.Int64Counter(MetricSegments,
		metric.WithDescription("Transcript segments received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSegments, err)
	}

	stageErrors, err := meter.Int64Counter(MetricStageErrors,
		metric.WithDescription("Failed runs by stage and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStageErrors, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	stageDuration, err := meter.Float64Histogram(MetricStageDuration,
		metric.WithDescription("Duration of pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricStageDuration, err)
	}

	return &Metrics{
		runs:          runs,
		segments:      segments,
		stageErrors:   stageErrors,
		runDuration:   runDuration,
		stageDuration: stageDuration,
	}, nil
}

// RecordSegment counts one received transcript segment.
func (m *Metrics) RecordSegment(ctx context.Context, ticker string) {
	m.segments.Add(ctx, 1, metric.WithAttributes(attribute.String("ticker", ticker)))
}

// RecordStage records the duration of a finished stage.
func (m *Metrics) RecordStage(ctx context.Context, stage, status string, duration time.Duration) {
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordStageError counts a run that failed in stage with code.
func (m *Metrics) RecordStageError(ctx context.Context, stage, code string) {
	m.stageErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}
