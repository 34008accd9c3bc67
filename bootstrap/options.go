package bootstrap

import (
	"time"

	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/provider"
	"github.com/kbukum/vetta/transcription"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	transcribers    map[string]provider.Factory[transcription.Provider]
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{transcribers: make(map[string]provider.Factory[transcription.Provider])}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for the stop hooks.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithTranscriber registers an additional transcription backend. A factory
// registered under the built-in "local" name replaces it.
func WithTranscriber(name string, factory provider.Factory[transcription.Provider]) Option {
	return func(o *appOptions) {
		o.transcribers[name] = factory
	}
}
