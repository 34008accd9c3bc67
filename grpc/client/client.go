package client

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/grpc/interceptor"
	"github.com/kbukum/vetta/logger"
)

// NewClient creates a lazily connecting gRPC client for a unix socket path.
// No dial happens until the first call; extra options are appended last.
func NewClient(socketPath string, cfg grpccfg.Config, log *logger.Logger, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grpc client config: %w", err)
	}

	target, err := grpccfg.UnixTarget(socketPath)
	if err != nil {
		return nil, err
	}

	opts := append(buildDialOptions(cfg, log), extra...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		log.Error("Failed to create gRPC client", map[string]interface{}{
			logger.FieldEndpoint: target,
			logger.FieldError:    err.Error(),
		})
		return nil, fmt.Errorf("grpc: failed to create client for %s: %w", target, err)
	}

	log.Debug("gRPC client created", map[string]interface{}{
		logger.FieldEndpoint: target,
	})
	return conn, nil
}

// buildDialOptions assembles all gRPC dial options from config.
func buildDialOptions(cfg grpccfg.Config, log *logger.Logger) []grpc.DialOption {
	opts := []grpc.DialOption{
		// Same-host socket; the filesystem guards access.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
		grpc.WithChainStreamInterceptor(interceptor.StreamClientLoggingInterceptor(log)),
	}
	if cfg.Keepalive.Time > 0 {
		opts = append(opts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.Keepalive.Time,
			Timeout:             cfg.Keepalive.Timeout,
			PermitWithoutStream: cfg.Keepalive.PermitWithoutStream,
		}))
	}
	return opts
}
