package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/vetta/config"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/observability"
	"github.com/kbukum/vetta/provider"
	"github.com/kbukum/vetta/transcription"
	"github.com/kbukum/vetta/transcription/local"
	"github.com/kbukum/vetta/version"
)

// App holds the process-wide services of one vetta invocation.
type App struct {
	Name         string
	Version      string
	Cfg          *config.Config
	Logger       *logger.Logger
	Metrics      *observability.Metrics
	Transcribers *provider.Manager[transcription.Provider]

	gracefulTimeout time.Duration
	onStop          []Hook
}

// NewApp validates cfg, initializes logging and telemetry and creates the
// transcription provider selected by cfg.STT.Strategy.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	app := &App{
		Name:            cfg.Name,
		Version:         version.Short(),
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.RegisterDefaults("media", "transcription", "earnings", "grpc")

	if err := app.initTelemetry(ctx); err != nil {
		return nil, err
	}
	if err := app.initTranscribers(o.transcribers); err != nil {
		_ = app.Shutdown()
		return nil, err
	}

	fields := version.Get().LogFields()
	fields["name"] = app.Name
	fields["strategy"] = cfg.STT.Strategy
	app.Logger.Debug("application initialized", fields)
	return app, nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	t := a.Cfg.Telemetry
	shutdown, err := observability.Setup(ctx, observability.Config{
		Enabled:        t.Enabled,
		ServiceName:    a.Name,
		ServiceVersion: a.Version,
		Environment:    a.Cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		SampleRate:     t.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	metrics, err := observability.NewMetrics(observability.Meter(a.Name))
	if err != nil {
		return fmt.Errorf("telemetry metrics: %w", err)
	}
	a.Metrics = metrics
	return nil
}

func (a *App) initTranscribers(extra map[string]provider.Factory[transcription.Provider]) error {
	a.Transcribers = transcription.NewManager()
	a.Transcribers.Register(local.ProviderName, local.Factory(logger.Get("transcription")))
	for name, factory := range extra {
		a.Transcribers.Register(name, factory)
	}

	stt := a.Cfg.STT
	err := a.Transcribers.InitializeDefault(stt.Strategy, map[string]any{
		"socket": stt.Socket,
		"grpc":   stt.GRPC,
	})
	if err != nil {
		return fmt.Errorf("transcription provider %q: %w", stt.Strategy, err)
	}
	return nil
}

// Transcriber returns the configured transcription provider.
func (a *App) Transcriber(ctx context.Context) (transcription.Provider, error) {
	return a.Transcribers.Get(ctx)
}

// Health reports the availability of every initialized transcription provider.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(a.Name, a.Version)
	for _, name := range a.Transcribers.Available() {
		if p, err := a.Transcribers.GetByName(name); err == nil {
			sh.AddProvider(ctx, p)
		}
	}
	return sh
}

// RunTask runs a finite task. The task context is canceled on SIGINT or
// SIGTERM; the stop hooks run once the task returns.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.Shutdown(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown runs the stop hooks within the graceful timeout. Hooks run once.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hooks := a.onStop
	a.onStop = nil
	if err := runHooks(ctx, hooks); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	return nil
}
