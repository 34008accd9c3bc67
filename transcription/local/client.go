package local

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	apperrors "github.com/kbukum/vetta/errors"
	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/provider"
	"github.com/kbukum/vetta/transcription"
)

// serviceLabel names the remote side in CONNECTION_FAILED messages.
const serviceLabel = "speech service"

// State is the lifecycle state of a Client.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateStreaming
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Client is one connection to the speech service. It serves a single
// Transcribe call and never reconnects on its own.
type Client struct {
	transport Transport
	endpoint  string
	log       *logger.Logger

	mu     sync.Mutex
	state  State
	closed bool
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Endpoint returns the socket path the client was connected to.
func (c *Client) Endpoint() string { return c.endpoint }

// Transcribe starts streaming the transcript of audioPath.
//
// The audio path is re-checked before the transport is touched and fails
// with AUDIO_FILE_NOT_FOUND. Such pre-flight failures leave the client
// usable; once a call has been issued any further call fails with CONFLICT.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts transcription.Options) (provider.Iterator[transcription.Chunk], error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, apperrors.AudioFileNotFound(audioPath).WithCause(err)
	}
	req, err := newRequest(audioPath, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed || c.state != StateConnected {
		state, closed := c.state, c.closed
		c.mu.Unlock()
		if closed {
			return nil, apperrors.Conflict("client is closed")
		}
		return nil, apperrors.Conflict("client already used (state " + state.String() + ")")
	}
	c.state = StateStreaming
	c.mu.Unlock()

	c.log.Debug("transcription started", map[string]interface{}{
		logger.FieldEndpoint: c.endpoint,
		logger.FieldPath:     audioPath,
		"language":           opts.Language,
		"diarization":        opts.Diarization,
		"num_speakers":       opts.NumSpeakers,
	})

	callCtx, cancel := context.WithCancel(ctx)
	stream, err := c.transport.Transcribe(callCtx, req)
	if err != nil {
		cancel()
		appErr := grpccfg.FromStatus(err, serviceLabel)
		c.finish(StateFailed)
		c.log.Warn("transcription call failed", logger.ErrorFields("transcribe", appErr))
		return nil, appErr
	}
	return &chunkIterator{client: c, stream: stream, cancel: cancel, start: time.Now()}, nil
}

// Close releases the transport. Closing a client that is still streaming
// abandons the call.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.state == StateConnected {
		c.state = StateDisconnected
	}
	c.mu.Unlock()
	return c.transport.Close()
}

func (c *Client) finish(s State) {
	c.mu.Lock()
	if c.state == StateStreaming {
		c.state = s
	}
	c.mu.Unlock()
}

// chunkIterator pulls one wire chunk per Next. The first error is sticky;
// chunks returned before it stay valid.
type chunkIterator struct {
	client *Client
	stream ChunkStream
	cancel context.CancelFunc
	start  time.Time

	received int
	done     bool
	err      error
}

func (it *chunkIterator) Next(ctx context.Context) (transcription.Chunk, bool, error) {
	var zero transcription.Chunk
	if it.err != nil {
		return zero, false, it.err
	}
	if it.done {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, it.fail(err)
	}

	// Recv has no context of its own; cancelling ctx tears the call down.
	stop := context.AfterFunc(ctx, it.cancel)
	msg, err := it.stream.Recv()
	stop()

	if stderrors.Is(err, io.EOF) {
		it.done = true
		it.cancel()
		it.client.finish(StateCompleted)
		it.client.log.Debug("transcription stream exhausted", map[string]interface{}{
			logger.FieldEndpoint: it.client.endpoint,
			logger.FieldSegments: it.received,
			logger.FieldDuration: time.Since(it.start).Milliseconds(),
		})
		return zero, false, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return zero, false, it.fail(err)
	}
	it.received++
	return toChunk(msg), true, nil
}

func (it *chunkIterator) fail(err error) error {
	it.err = grpccfg.FromStatus(err, serviceLabel)
	it.cancel()
	it.client.finish(StateFailed)
	it.client.log.Warn("transcription stream failed", logger.MergeWithDuration(
		logger.Fields(logger.FieldEndpoint, it.client.endpoint, logger.FieldSegments, it.received, logger.FieldError, it.err.Error()),
		time.Since(it.start),
	))
	return it.err
}

// Close abandons any in-flight delivery. Later Next calls report exhaustion
// unless the stream had already failed.
func (it *chunkIterator) Close() error {
	if !it.done && it.err == nil {
		it.done = true
		it.client.finish(StateFailed)
	}
	it.cancel()
	return nil
}

// Connector opens Clients against a local socket and is the "local"
// transcription provider.
type Connector struct {
	dialer   Dialer
	endpoint string
	log      *logger.Logger
}

// Option configures a Connector.
type Option func(*Connector)

// WithDialer replaces the gRPC dialer.
func WithDialer(d Dialer) Option {
	return func(c *Connector) { c.dialer = d }
}

// WithEndpoint sets the socket path probed by IsAvailable and Health.
func WithEndpoint(path string) Option {
	return func(c *Connector) { c.endpoint = path }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Connector) { c.log = l }
}

// WithGRPCConfig configures the default gRPC dialer.
func WithGRPCConfig(cfg grpccfg.Config) Option {
	return func(c *Connector) {
		if d, ok := c.dialer.(*GRPCDialer); ok {
			d.Config = cfg
		}
	}
}

// NewConnector creates a Connector that dials over gRPC unless WithDialer
// says otherwise.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		dialer: &GRPCDialer{},
		log:    logger.Get("transcription"),
	}
	for _, o := range opts {
		o(c)
	}
	if d, ok := c.dialer.(*GRPCDialer); ok && d.Log == nil {
		d.Log = c.log
	}
	return c
}

// Name implements provider.Provider.
func (c *Connector) Name() string { return ProviderName }

// IsAvailable reports whether the configured socket path exists.
func (c *Connector) IsAvailable(_ context.Context) bool {
	return c.endpoint != "" && endpointExists(c.endpoint) == nil
}

// Health implements provider.HealthChecker.
func (c *Connector) Health(_ context.Context) provider.HealthStatus {
	details := map[string]any{"endpoint": c.endpoint}
	if c.endpoint == "" {
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: "no endpoint configured", Details: details}
	}
	if err := endpointExists(c.endpoint); err != nil {
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: err.Error(), Details: details}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy, Message: "socket present", Details: details}
}

// Connect returns a Client for the socket at endpoint. A missing socket
// fails with ENDPOINT_NOT_FOUND before any dial.
func (c *Connector) Connect(ctx context.Context, endpoint string) (*Client, error) {
	if err := endpointExists(endpoint); err != nil {
		return nil, err
	}
	t, err := c.dialer.Dial(ctx, endpoint)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, apperrors.ConnectionFailed(serviceLabel).WithCause(err).WithDetail("endpoint", endpoint)
	}
	c.log.Debug("connected", map[string]interface{}{logger.FieldEndpoint: endpoint})
	return &Client{
		transport: t,
		endpoint:  endpoint,
		log:       c.log,
		state:     StateConnected,
	}, nil
}

// Open implements transcription.Provider.
func (c *Connector) Open(ctx context.Context, endpoint string) (transcription.Session, error) {
	cl, err := c.Connect(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func endpointExists(endpoint string) error {
	if endpoint == "" {
		return apperrors.EndpointNotFound(endpoint)
	}
	if _, err := os.Stat(endpoint); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return apperrors.EndpointNotFound(endpoint).WithCause(err)
		}
		return apperrors.ConnectionFailed(serviceLabel).WithCause(err).WithDetail("endpoint", endpoint)
	}
	return nil
}
