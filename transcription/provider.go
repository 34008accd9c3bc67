package transcription

import (
	"context"

	"github.com/kbukum/vetta/provider"
)

// Session is one connection to a speech service. A session serves exactly
// one Transcribe call; a second call fails with CONFLICT.
type Session interface {
	// Transcribe starts a streaming transcription of audioPath and returns
	// the chunks lazily, in the order the service emits them.
	Transcribe(ctx context.Context, audioPath string, opts Options) (provider.Iterator[Chunk], error)
	// Close releases the underlying transport.
	Close() error
}

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Open connects to the service at endpoint. Backends report a missing
	// endpoint as ENDPOINT_NOT_FOUND before attempting any connection.
	Open(ctx context.Context, endpoint string) (Session, error)
}
