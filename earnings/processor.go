package earnings

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/vetta/errors"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/media"
	"github.com/kbukum/vetta/observability"
	"github.com/kbukum/vetta/pipeline"
	"github.com/kbukum/vetta/transcription"
)

// StageStatus is the state a stage reports to a StageFunc.
type StageStatus string

const (
	StageStarted   StageStatus = "started"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// StageEvent is one stage transition.
type StageEvent struct {
	RunID   string
	Stage   Stage
	Status  StageStatus
	// Elapsed is measured from the start of the run.
	Elapsed time.Duration
	Err     error
	// Media is set once validation completes.
	Media *media.Descriptor
}

// ProgressFunc receives a Progress after every chunk. It runs on the
// consuming goroutine; the next chunk is pulled only after it returns.
type ProgressFunc func(Progress)

// StageFunc receives stage transitions.
type StageFunc func(StageEvent)

// Processor runs ingestion jobs against one speech service endpoint.
// A Processor may run many jobs; each run gets its own session.
type Processor struct {
	provider   transcription.Provider
	endpoint   string
	validator  *media.Validator
	metrics    *observability.Metrics
	log        *logger.Logger
	onProgress ProgressFunc
	onStage    StageFunc
	newRunID   func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithValidator replaces the default media validator.
func WithValidator(v *media.Validator) Option {
	return func(p *Processor) { p.validator = v }
}

// WithMetrics records run, stage and segment metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) { p.log = l }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) { p.onProgress = fn }
}

// WithStageHook registers a stage transition callback.
func WithStageHook(fn StageFunc) Option {
	return func(p *Processor) { p.onStage = fn }
}

// WithRunIDs overrides run id generation.
func WithRunIDs(fn func() string) Option {
	return func(p *Processor) { p.newRunID = fn }
}

// NewProcessor creates a processor that transcribes through provider at endpoint.
func NewProcessor(provider transcription.Provider, endpoint string, opts ...Option) *Processor {
	p := &Processor{
		provider: provider,
		endpoint: endpoint,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get("earnings")
	}
	if p.validator == nil {
		p.validator = media.NewValidator()
	}
	return p
}

// Process runs job to completion: validate, connect, transcribe, consume.
// The returned summary is never nil; on failure it holds what was consumed
// before the error, and the error is a *StageError.
func (p *Processor) Process(ctx context.Context, job Job) (*Summary, error) {
	r := &run{
		Processor: p,
		job:       job,
		summary:   &Summary{Period: job.Period},
	}
	r.summary.RunID = p.newRunID()
	r.log = p.log.WithRun(r.summary.RunID)
	r.tracker = observability.NewRunTracker(r.summary.RunID, p.metrics,
		attribute.String(observability.AttrTicker, job.Period.Ticker),
		attribute.String(observability.AttrPeriod, job.Period.String()),
	)

	ctx = r.tracker.Start(ctx)
	r.log.Info("run started", logger.Fields("period", job.Period.String(), logger.FieldPath, job.File))

	err := r.execute(ctx)
	r.summary.Elapsed = time.Since(r.tracker.StartTime)
	r.tracker.End(ctx, r.summary.Segments, err)

	fields := logger.MergeWithDuration(logger.Fields("segments", r.summary.Segments), r.summary.Elapsed)
	if err != nil {
		r.log.Error("run failed", logger.MergeWithError(fields, err))
		return r.summary, err
	}
	r.log.Info("run completed", fields)
	return r.summary, nil
}

type run struct {
	*Processor
	job     Job
	summary *Summary
	tracker *observability.RunTracker
	log     *logger.Logger
}

func (r *run) execute(ctx context.Context) error {
	desc, err := r.validate(ctx)
	if err != nil {
		return err
	}
	r.summary.Media = desc

	session, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.log.Debug("session close failed", logger.Fields(logger.FieldError, cerr.Error()))
		}
	}()

	return r.stream(ctx, session, desc)
}

func (r *run) validate(ctx context.Context) (*media.Descriptor, error) {
	ctx, st := r.begin(ctx, StageValidation, observability.SpanValidate)

	var desc *media.Descriptor
	err := r.job.Validate()
	if err == nil {
		desc, err = r.validator.Validate(r.job.File)
	}
	if err == nil {
		st.SetAttributes(
			attribute.String(observability.AttrMIMEType, desc.MIMEType),
			attribute.Int64(observability.AttrSizeMB, int64(desc.SizeMB())),
		)
	}
	return desc, r.finish(ctx, st, StageValidation, err, desc)
}

func (r *run) connect(ctx context.Context) (transcription.Session, error) {
	ctx, st := r.begin(ctx, StageConnect, observability.SpanConnect)
	st.SetAttributes(attribute.String(observability.AttrEndpoint, r.endpoint))

	session, err := r.provider.Open(ctx, r.endpoint)
	return session, r.finish(ctx, st, StageConnect, err, nil)
}

func (r *run) stream(ctx context.Context, session transcription.Session, desc *media.Descriptor) error {
	ctx, st := r.begin(ctx, StageStream, observability.SpanStream)

	chunks, err := session.Transcribe(ctx, desc.Path, r.job.Options)
	if err != nil {
		return r.finish(ctx, st, StageStream, err, nil)
	}

	progress := pipeline.Scan(
		pipeline.From[transcription.Chunk](chunks),
		Progress{RunID: r.summary.RunID},
		advance,
	)
	progress = pipeline.Tap(progress, r.report)
	err = pipeline.Drain(progress, func(_ context.Context, pr Progress) error {
		r.summary.apply(pr)
		return nil
	}).Run(ctx)
	if err != nil && stderrors.Is(err, ctx.Err()) && !apperrors.IsAppError(err) {
		err = apperrors.Cancelled(err)
	}

	st.SetAttributes(attribute.Int(observability.AttrSegments, r.summary.Segments))
	return r.finish(ctx, st, StageStream, err, nil)
}

func (r *run) report(ctx context.Context, pr Progress) error {
	if pr.Reordered {
		r.log.Warn("chunk out of order", logger.Fields(
			"start_time", pr.Chunk.StartTime,
			"out_of_order", pr.OutOfOrder,
		))
	}
	r.log.Debug("chunk received", logger.Fields(
		"segment", pr.Segments,
		"start_time", pr.Chunk.StartTime,
		"end_time", pr.Chunk.EndTime,
	))
	if r.metrics != nil {
		r.metrics.RecordSegment(ctx, r.job.Period.Ticker)
	}
	if r.onProgress != nil {
		r.onProgress(pr)
	}
	return nil
}

func (r *run) begin(ctx context.Context, stage Stage, spanName string) (context.Context, *observability.Stage) {
	ctx, st := r.tracker.StartStage(ctx, string(stage), spanName)
	r.log.WithStage(string(stage)).Debug("stage started")
	r.emit(StageEvent{Stage: stage, Status: StageStarted})
	return ctx, st
}

// finish closes the stage and tags err with it.
func (r *run) finish(ctx context.Context, st *observability.Stage, stage Stage, err error, desc *media.Descriptor) error {
	st.End(ctx, err)
	elapsed := time.Since(r.tracker.StartTime)
	log := r.log.WithStage(string(stage))

	if err != nil {
		log.Warn("stage failed", logger.ErrorFields(string(stage), err))
		r.emit(StageEvent{Stage: stage, Status: StageFailed, Elapsed: elapsed, Err: err})
		return &StageError{Stage: stage, Err: err}
	}
	log.Debug("stage completed")
	r.emit(StageEvent{Stage: stage, Status: StageCompleted, Elapsed: elapsed, Media: desc})
	return nil
}

func (r *run) emit(ev StageEvent) {
	if r.onStage == nil {
		return
	}
	ev.RunID = r.summary.RunID
	r.onStage(ev)
}
