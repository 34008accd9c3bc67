package grpc

import (
	"fmt"
	"path/filepath"
	"time"
)

// KeepaliveConfig holds keepalive settings for gRPC connections.
// A zero Time leaves keepalive pings disabled.
type KeepaliveConfig struct {
	// Time is the interval between keepalive pings.
	Time time.Duration `yaml:"time" mapstructure:"time"`
	// Timeout is the time to wait for a keepalive ping ack before closing.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// PermitWithoutStream allows keepalive pings when there are no active RPCs.
	PermitWithoutStream bool `yaml:"permit_without_stream" mapstructure:"permit_without_stream"`
}

// Config holds configuration for a gRPC client connection to a local
// unix-socket endpoint. The endpoint itself is supplied at dial time.
type Config struct {
	// MaxRecvMsgSize is the maximum message size the client can receive (bytes).
	MaxRecvMsgSize int `yaml:"max_recv_msg_size" mapstructure:"max_recv_msg_size"`
	// MaxSendMsgSize is the maximum message size the client can send (bytes).
	MaxSendMsgSize int `yaml:"max_send_msg_size" mapstructure:"max_send_msg_size"`
	// Keepalive holds keepalive configuration.
	Keepalive KeepaliveConfig `yaml:"keepalive" mapstructure:"keepalive"`
}

const (
	defaultMaxRecvMsgSize   = 4 * 1024 * 1024 // 4 MB
	defaultMaxSendMsgSize   = 4 * 1024 * 1024 // 4 MB
	defaultKeepaliveTimeout = 10 * time.Second

	// minKeepaliveTime mirrors the grpc-go client floor.
	minKeepaliveTime = 10 * time.Second
)

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxRecvMsgSize == 0 {
		c.MaxRecvMsgSize = defaultMaxRecvMsgSize
	}
	if c.MaxSendMsgSize == 0 {
		c.MaxSendMsgSize = defaultMaxSendMsgSize
	}
	if c.Keepalive.Time > 0 && c.Keepalive.Timeout == 0 {
		c.Keepalive.Timeout = defaultKeepaliveTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRecvMsgSize <= 0 {
		return fmt.Errorf("grpc: max_recv_msg_size must be positive, got %d", c.MaxRecvMsgSize)
	}
	if c.MaxSendMsgSize <= 0 {
		return fmt.Errorf("grpc: max_send_msg_size must be positive, got %d", c.MaxSendMsgSize)
	}
	if c.Keepalive.Time != 0 && c.Keepalive.Time < minKeepaliveTime {
		return fmt.Errorf("grpc: keepalive.time must be 0 or at least %s, got %s", minKeepaliveTime, c.Keepalive.Time)
	}
	return nil
}

// UnixTarget returns the dial target for a unix socket path.
func UnixTarget(socketPath string) (string, error) {
	if socketPath == "" {
		return "", fmt.Errorf("grpc: socket path must not be empty")
	}
	abs, err := filepath.Abs(socketPath)
	if err != nil {
		return "", fmt.Errorf("grpc: resolve socket path %s: %w", socketPath, err)
	}
	return "unix://" + abs, nil
}
