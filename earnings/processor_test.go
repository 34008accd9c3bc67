package earnings

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	apperrors "github.com/kbukum/vetta/errors"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/media"
	"github.com/kbukum/vetta/observability"
	"github.com/kbukum/vetta/provider"
	"github.com/kbukum/vetta/transcription"
)

var id3Header = []byte("ID3\x03\x00\x00\x00\x00\x00\x0a\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")

type fakeSession struct {
	chunks        []transcription.Chunk
	streamErr     error
	transcribeErr error

	gotPath string
	gotOpts transcription.Options
	calls   int
	closed  bool
}

func (s *fakeSession) Transcribe(_ context.Context, audioPath string, opts transcription.Options) (provider.Iterator[transcription.Chunk], error) {
	s.calls++
	s.gotPath, s.gotOpts = audioPath, opts
	if s.transcribeErr != nil {
		return nil, s.transcribeErr
	}
	return provider.FromSliceWithError(s.chunks, s.streamErr), nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeProvider struct {
	session  *fakeSession
	openErr  error
	opened   int
	endpoint string
}

func (p *fakeProvider) Name() string                       { return "fake" }
func (p *fakeProvider) IsAvailable(_ context.Context) bool { return true }

func (p *fakeProvider) Open(_ context.Context, endpoint string) (transcription.Session, error) {
	p.opened++
	p.endpoint = endpoint
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.session, nil
}

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "vetta", io.Discard)
}

func audioFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "call.mp3")
	if err := os.WriteFile(p, id3Header, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func validJob(t *testing.T) Job {
	return Job{
		File:    audioFile(t),
		Period:  Period{Ticker: "AAPL", Year: 2025, Quarter: Q3},
		Options: transcription.Options{Language: "en", Diarization: true, NumSpeakers: 2},
	}
}

type recorder struct {
	progress []Progress
	events   []StageEvent
}

func newProcessor(p *fakeProvider, rec *recorder, opts ...Option) *Processor {
	base := []Option{
		WithLogger(quietLogger()),
		WithValidator(media.NewValidator(media.WithLogger(quietLogger()))),
		WithRunIDs(func() string { return "run-1" }),
		WithProgress(func(pr Progress) { rec.progress = append(rec.progress, pr) }),
		WithStageHook(func(ev StageEvent) { rec.events = append(rec.events, ev) }),
	}
	return NewProcessor(p, "/tmp/whisper.sock", append(base, opts...)...)
}

func stageOf(t *testing.T, err error) Stage {
	t.Helper()
	stage, ok := StageOf(err)
	if !ok {
		t.Fatalf("expected a StageError, got %v", err)
	}
	return stage
}

func TestProcess_Completes(t *testing.T) {
	session := &fakeSession{chunks: []transcription.Chunk{
		chunk(0, 4.5, "SPEAKER_00", 3),
		chunk(4.5, 9, "SPEAKER_01", 4),
		chunk(9, 12.25, "SPEAKER_00", 2),
	}}
	fp := &fakeProvider{session: session}
	rec := &recorder{}
	job := validJob(t)

	sum, err := newProcessor(fp, rec).Process(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.RunID != "run-1" || sum.Period != job.Period {
		t.Errorf("unexpected identity %q / %v", sum.RunID, sum.Period)
	}
	if sum.Media == nil || sum.Media.MIMEType != "audio/mpeg" {
		t.Fatalf("expected the media descriptor, got %+v", sum.Media)
	}
	if sum.Segments != 3 || sum.Words != 9 {
		t.Errorf("expected 3 segments and 9 words, got %d / %d", sum.Segments, sum.Words)
	}
	if sum.SpanStart != 0 || sum.SpanEnd != 12.25 {
		t.Errorf("expected span [0, 12.25], got [%v, %v]", sum.SpanStart, sum.SpanEnd)
	}
	if len(sum.Speakers) != 2 || sum.OutOfOrder != 0 {
		t.Errorf("unexpected speakers %v / out of order %d", sum.Speakers, sum.OutOfOrder)
	}

	if fp.opened != 1 || fp.endpoint != "/tmp/whisper.sock" {
		t.Errorf("expected one open on the endpoint, got %d on %q", fp.opened, fp.endpoint)
	}
	if session.gotPath != job.File || session.gotOpts != job.Options {
		t.Errorf("transcribe got %q %+v", session.gotPath, session.gotOpts)
	}
	if !session.closed {
		t.Error("session must be closed after the run")
	}

	if len(rec.progress) != 3 {
		t.Fatalf("expected 3 progress updates, got %d", len(rec.progress))
	}
	for i, pr := range rec.progress {
		if pr.Segments != i+1 || pr.RunID != "run-1" {
			t.Errorf("progress %d: segments=%d run=%q", i, pr.Segments, pr.RunID)
		}
		if pr.Chunk.StartTime != session.chunks[i].StartTime {
			t.Errorf("progress %d carries the wrong chunk", i)
		}
	}

	want := []struct {
		stage  Stage
		status StageStatus
	}{
		{StageValidation, StageStarted}, {StageValidation, StageCompleted},
		{StageConnect, StageStarted}, {StageConnect, StageCompleted},
		{StageStream, StageStarted}, {StageStream, StageCompleted},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("expected %d stage events, got %d", len(want), len(rec.events))
	}
	for i, w := range want {
		if rec.events[i].Stage != w.stage || rec.events[i].Status != w.status {
			t.Errorf("event %d = %s/%s, want %s/%s", i, rec.events[i].Stage, rec.events[i].Status, w.stage, w.status)
		}
	}
	if rec.events[1].Media == nil {
		t.Error("validation completion should carry the descriptor")
	}
}

func TestProcess_InvalidJobFailsValidation(t *testing.T) {
	fp := &fakeProvider{session: &fakeSession{}}
	job := validJob(t)
	job.Period.Year = 1850

	sum, err := newProcessor(fp, &recorder{}).Process(context.Background(), job)
	if stageOf(t, err) != StageValidation {
		t.Errorf("expected validation stage, got %v", err)
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if fp.opened != 0 {
		t.Error("no connection may be opened for an invalid job")
	}
	if sum == nil || sum.Media != nil || sum.Segments != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestProcess_MissingFile(t *testing.T) {
	fp := &fakeProvider{session: &fakeSession{}}
	job := validJob(t)
	job.File = filepath.Join(t.TempDir(), "absent.mp3")

	_, err := newProcessor(fp, &recorder{}).Process(context.Background(), job)
	if stageOf(t, err) != StageValidation || !apperrors.IsCode(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("expected validation/FILE_NOT_FOUND, got %v", err)
	}
	if fp.opened != 0 {
		t.Error("no connection may be opened for a missing file")
	}
}

func TestProcess_ConnectFailure(t *testing.T) {
	fp := &fakeProvider{openErr: apperrors.EndpointNotFound("/tmp/whisper.sock")}
	rec := &recorder{}

	_, err := newProcessor(fp, rec).Process(context.Background(), validJob(t))
	if stageOf(t, err) != StageConnect || !apperrors.IsCode(err, apperrors.ErrCodeEndpointNotFound) {
		t.Errorf("expected connect/ENDPOINT_NOT_FOUND, got %v", err)
	}
	last := rec.events[len(rec.events)-1]
	if last.Stage != StageConnect || last.Status != StageFailed || last.Err == nil {
		t.Errorf("expected a connect failure event, got %+v", last)
	}
}

func TestProcess_TranscribeErrorBelongsToStream(t *testing.T) {
	session := &fakeSession{transcribeErr: apperrors.Service("InvalidArgument", "num_speakers out of range")}
	fp := &fakeProvider{session: session}

	_, err := newProcessor(fp, &recorder{}).Process(context.Background(), validJob(t))
	if stageOf(t, err) != StageStream || !apperrors.IsCode(err, apperrors.ErrCodeService) {
		t.Errorf("expected stream/SERVICE_ERROR, got %v", err)
	}
	if !session.closed {
		t.Error("session must be closed when the call fails")
	}
}

func TestProcess_MidStreamFaultKeepsPartialProgress(t *testing.T) {
	session := &fakeSession{
		chunks: []transcription.Chunk{
			chunk(0, 2, "", 1),
			chunk(2, 4, "", 1),
		},
		streamErr: apperrors.Service("ResourceExhausted", "GPU OOM"),
	}
	rec := &recorder{}

	sum, err := newProcessor(&fakeProvider{session: session}, rec).Process(context.Background(), validJob(t))
	if stageOf(t, err) != StageStream {
		t.Fatalf("expected stream stage, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr == nil || appErr.Message != "GPU OOM" {
		t.Errorf("service message must be kept verbatim, got %v", err)
	}
	if len(rec.progress) != 2 || sum.Segments != 2 || sum.SpanEnd != 4 {
		t.Errorf("expected the two delivered chunks to be kept, got %d updates and %+v", len(rec.progress), sum)
	}
}

func TestProcess_OutOfOrderIsTolerated(t *testing.T) {
	session := &fakeSession{chunks: []transcription.Chunk{
		chunk(0, 5, "", 0),
		chunk(10, 15, "", 0),
		chunk(5, 10, "", 0),
	}}

	sum, err := newProcessor(&fakeProvider{session: session}, &recorder{}).Process(context.Background(), validJob(t))
	if err != nil {
		t.Fatalf("out-of-order chunks must not fail the run: %v", err)
	}
	if sum.Segments != 3 || sum.OutOfOrder != 1 {
		t.Errorf("expected 3 segments with 1 out of order, got %d / %d", sum.Segments, sum.OutOfOrder)
	}
	if sum.SpanStart != 0 || sum.SpanEnd != 15 {
		t.Errorf("expected span [0, 15], got [%v, %v]", sum.SpanStart, sum.SpanEnd)
	}
}

func TestProcess_CancelledMidStream(t *testing.T) {
	session := &fakeSession{chunks: []transcription.Chunk{
		chunk(0, 1, "", 0),
		chunk(1, 2, "", 0),
		chunk(2, 3, "", 0),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	p := newProcessor(&fakeProvider{session: session}, rec, WithProgress(func(pr Progress) {
		rec.progress = append(rec.progress, pr)
		cancel()
	}))

	sum, err := p.Process(ctx, validJob(t))
	if stageOf(t, err) != StageStream || !apperrors.IsCode(err, apperrors.ErrCodeInternal) {
		t.Fatalf("expected stream/INTERNAL_ERROR, got %v", err)
	}
	if len(rec.progress) != 1 || sum.Segments != 1 {
		t.Errorf("expected delivery to stop after the first chunk, got %d", len(rec.progress))
	}
	if !session.closed {
		t.Error("session must be closed after cancellation")
	}
}

func TestProcess_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	session := &fakeSession{chunks: []transcription.Chunk{chunk(0, 1, "", 0), chunk(1, 2, "", 0)}}
	p := newProcessor(&fakeProvider{session: session}, &recorder{}, WithMetrics(metrics))
	if _, err := p.Process(context.Background(), validJob(t)); err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	if totals["vetta.segments"] != 2 {
		t.Errorf("expected 2 segments recorded, got %d", totals["vetta.segments"])
	}
	if totals["vetta.runs"] != 1 {
		t.Errorf("expected 1 run recorded, got %d", totals["vetta.runs"])
	}
	if totals["vetta.stage_errors"] != 0 {
		t.Errorf("expected no stage errors, got %d", totals["vetta.stage_errors"])
	}
}

func TestNewProcessor_Defaults(t *testing.T) {
	p := NewProcessor(&fakeProvider{}, "/tmp/whisper.sock")
	if p.validator == nil || p.log == nil || p.newRunID == nil {
		t.Fatal("expected defaults to be filled in")
	}
	if p.validator.MaxSizeMB() != media.DefaultMaxSizeMB {
		t.Errorf("expected default ceiling, got %d", p.validator.MaxSizeMB())
	}
	if id := p.newRunID(); len(id) != 36 {
		t.Errorf("expected a uuid run id, got %q", id)
	}
}
