package local

import (
	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/provider"
	"github.com/kbukum/vetta/transcription"
)

// ProviderName is the registered name for the local socket provider.
const ProviderName = "local"

// Factory returns a provider.Factory that creates Connectors from a generic
// config map. Recognised keys: "socket" (string) and "grpc" (grpc.Config).
func Factory(log *logger.Logger) provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		opts := []Option{WithLogger(log)}
		if v, ok := cfg["socket"].(string); ok {
			opts = append(opts, WithEndpoint(v))
		}
		if v, ok := cfg["grpc"].(grpccfg.Config); ok {
			opts = append(opts, WithGRPCConfig(v))
		}
		return NewConnector(opts...), nil
	}
}
