package transcription

import "github.com/kbukum/vetta/provider"

// NewManager creates a provider manager for transcription backends. Without
// a default it picks the first available backend by name.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(provider.NewRegistry[Provider](), &provider.HealthCheckSelector[Provider]{})
}
