package config

import (
	"fmt"

	"github.com/spf13/pflag"

	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/util"
)

// ServiceName names the binary for file lookup and the env prefix.
const ServiceName = "vetta"

// DefaultSocket is where the local speech service listens by default.
const DefaultSocket = "/tmp/whisper.sock"

// DefaultInitialPrompt primes the speech model for earnings-call vocabulary.
const DefaultInitialPrompt = "Earnings call transcript. Financial terminology, company names, analyst questions and management responses."

// Config is the full vetta configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	STT       STTConfig       `yaml:"stt" mapstructure:"stt"`
	Media     MediaConfig     `yaml:"media" mapstructure:"media"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// STTConfig configures the speech-to-text connection and request options.
type STTConfig struct {
	Socket        string         `yaml:"socket" mapstructure:"socket"`
	Strategy      string         `yaml:"strategy" mapstructure:"strategy"`
	Language      string         `yaml:"language" mapstructure:"language"`
	InitialPrompt string         `yaml:"initial_prompt" mapstructure:"initial_prompt"`
	Diarization   bool           `yaml:"diarization" mapstructure:"diarization"`
	NumSpeakers   uint32         `yaml:"num_speakers" mapstructure:"num_speakers"`
	GRPC          grpccfg.Config `yaml:"grpc" mapstructure:"grpc"`
}

// MediaConfig configures pre-flight validation.
type MediaConfig struct {
	MaxSizeMB uint64 `yaml:"max_size_mb" mapstructure:"max_size_mb"`
}

// TelemetryConfig configures optional OTLP/HTTP export.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// Defaults returns every known key with its default value.
func Defaults() map[string]any {
	return map[string]any{
		"name":                       ServiceName,
		"environment":                "development",
		"debug":                      false,
		"logging.level":              "info",
		"logging.format":             "console",
		"logging.output":             "stderr",
		"logging.no_color":           false,
		"stt.socket":                 DefaultSocket,
		"stt.strategy":               "local",
		"stt.language":               "en",
		"stt.initial_prompt":         DefaultInitialPrompt,
		"stt.diarization":            false,
		"stt.num_speakers":           2,
		"stt.grpc.max_recv_msg_size": 4 * 1024 * 1024,
		"stt.grpc.max_send_msg_size": 4 * 1024 * 1024,
		"stt.grpc.keepalive.time":    "0s",
		"media.max_size_mb":          500,
		"telemetry.enabled":          false,
		"telemetry.endpoint":         "localhost:4318",
		"telemetry.insecure":         true,
		"telemetry.sample_rate":      1.0,
	}
}

// FlagKeys maps persistent CLI flag names to config keys.
var FlagKeys = map[string]string{
	"socket":    "stt.socket",
	"log-level": "logging.level",
}

// Load reads the vetta configuration. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	opts := []LoaderOption{
		WithDefaults(Defaults()),
		WithEnvPrefix("VETTA"),
		WithEnvAlias("stt.socket", "WHISPER_SOCK"),
	}
	if configFile != "" {
		opts = append(opts, WithConfigFile(configFile))
	}
	if flags != nil {
		for name, key := range FlagKeys {
			opts = append(opts, WithFlag(flags, name, key))
		}
	}

	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values for configs built without Load.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.STT.Socket = util.Coalesce(c.STT.Socket, DefaultSocket)
	c.STT.Strategy = util.Coalesce(c.STT.Strategy, "local")
	c.STT.GRPC.ApplyDefaults()
	if c.Media.MaxSizeMB == 0 {
		c.Media.MaxSizeMB = 500
	}
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.STT.Socket == "" {
		return fmt.Errorf("config.stt.socket is required")
	}
	if err := c.STT.GRPC.Validate(); err != nil {
		return fmt.Errorf("config.stt: %w", err)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("config.telemetry.endpoint is required when telemetry is enabled")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("config.telemetry.sample_rate must be within [0, 1] (got: %g)", c.Telemetry.SampleRate)
	}
	return nil
}
