package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/vetta/errors"
	"github.com/kbukum/vetta/logger"
)

// Run status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunTracker traces one pipeline run and its stages and records the run
// metrics. A nil Metrics skips metric recording.
type RunTracker struct {
	RunID     string
	StartTime time.Time
	Metrics   *Metrics

	tracer trace.Tracer
	attrs  []attribute.KeyValue
	span   trace.Span
}

// NewRunTracker creates a tracker using the global tracer provider.
func NewRunTracker(runID string, metrics *Metrics, attrs ...attribute.KeyValue) *RunTracker {
	return NewRunTrackerWithTracer(Tracer(defaultTracerName), runID, metrics, attrs...)
}

// NewRunTrackerWithTracer creates a tracker on a specific tracer.
func NewRunTrackerWithTracer(tracer trace.Tracer, runID string, metrics *Metrics, attrs ...attribute.KeyValue) *RunTracker {
	return &RunTracker{
		RunID:     runID,
		StartTime: time.Now(),
		Metrics:   metrics,
		tracer:    tracer,
		attrs:     append([]attribute.KeyValue{attribute.String(AttrRunID, runID)}, attrs...),
	}
}

// Start opens the run span. The returned context carries the run id and
// the trace ids for logger.WithContext.
func (r *RunTracker) Start(ctx context.Context) context.Context {
	ctx = logger.ContextWithRunID(ctx, r.RunID)
	ctx, r.span = r.tracer.Start(ctx, SpanRun, trace.WithAttributes(r.attrs...))
	return withTraceIDs(ctx, r.span)
}

// End closes the run span and records the run outcome.
func (r *RunTracker) End(ctx context.Context, segments int, err error) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	duration := time.Since(r.StartTime)

	if r.span != nil {
		r.span.SetAttributes(
			attribute.Int(AttrSegments, segments),
			attribute.String(AttrStatus, status),
			attribute.Int64(AttrDurationMs, duration.Milliseconds()),
		)
		endSpan(r.span, err)
	}
	if r.Metrics != nil {
		r.Metrics.RecordRun(ctx, status, duration)
	}
}

// Stage is one traced pipeline stage.
type Stage struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartStage opens a child span for stage.
func (r *RunTracker) StartStage(ctx context.Context, name, spanName string) (context.Context, *Stage) {
	ctx, span := r.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String(AttrStage, name)))
	return withTraceIDs(ctx, span), &Stage{name: name, start: time.Now(), span: span, metrics: r.Metrics}
}

// SetAttributes annotates the stage span.
func (s *Stage) SetAttributes(kv ...attribute.KeyValue) {
	s.span.SetAttributes(kv...)
}

// End closes the stage span. A non-nil err is recorded with its AppError
// code and counted as a stage error.
func (s *Stage) End(ctx context.Context, err error) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
		code := string(apperrors.Wrap(err).Code)
		s.span.SetAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.String(AttrErrorClass, string(apperrors.ClassOf(apperrors.ErrorCode(code)))),
		)
		if s.metrics != nil {
			s.metrics.RecordStageError(ctx, s.name, code)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordStage(ctx, s.name, status, time.Since(s.start))
	}
	endSpan(s.span, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func withTraceIDs(ctx context.Context, span trace.Span) context.Context {
	sc := span.SpanContext()
	if !sc.IsValid() {
		return ctx
	}
	return logger.ContextWithTrace(ctx, sc.TraceID().String(), sc.SpanID().String())
}
