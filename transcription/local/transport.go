package local

import (
	"context"

	"github.com/kbukum/vetta/transcription/speechpb"
)

// Dialer opens a Transport to a local endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}

// Transport issues streaming transcription calls on one connection.
type Transport interface {
	// Transcribe starts one server-streaming call. Cancelling ctx abandons it.
	Transcribe(ctx context.Context, req *speechpb.TranscribeRequest) (ChunkStream, error)
	Close() error
}

// ChunkStream yields the wire chunks of one call. Recv returns io.EOF when
// the service ends the stream normally.
type ChunkStream interface {
	Recv() (*speechpb.TranscriptChunk, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, endpoint string) (Transport, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, endpoint string) (Transport, error) {
	return f(ctx, endpoint)
}
