// Package app wires vibecheck's components into an fx application.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/assistant"
	"github.com/vibecheck/vibecheck/internal/config"
	"github.com/vibecheck/vibecheck/internal/embedding"
	"github.com/vibecheck/vibecheck/internal/logging"
	"github.com/vibecheck/vibecheck/internal/metrics"
	"github.com/vibecheck/vibecheck/internal/server"
)

const stopTimeout = 15 * time.Second

// Module provides the HTTP service graph for cfg.
func Module(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			NewLogger,
			NewMetrics,
			NewBackend,
			NewAssistant,
			NewServer,
		),
		fx.Invoke(
			registerLoggerLifecycle,
			registerPromptWatcher,
			registerServerLifecycle,
		),
	)
}

// Run starts the HTTP service and blocks until it receives a signal or the
// listener fails.
func Run(cfg config.Config) error {
	app := fx.New(
		Module(cfg),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("app: build: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("app: start: %w", err)
	}

	sig := <-app.Wait()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("app: stop: %w", err)
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("app: exited with code %d", sig.ExitCode)
	}
	return nil
}

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LoggingConfig())
}

func NewMetrics(cfg config.Config) *metrics.Metrics {
	return metrics.New(metrics.Config{ServiceName: cfg.Log.Service, EnableDefaultCollectors: true})
}

// NewBackend builds the instrumented chat backend.
func NewBackend(cfg config.Config, m *metrics.Metrics) (adapter.Backend, error) {
	b, err := adapter.New(cfg.ChatOptions())
	if err != nil {
		return nil, err
	}
	return metrics.Instrument(b, m), nil
}

// NewBatcher builds the instrumented embedding batcher. m may be nil; extra
// options are applied after the configured ones.
func NewBatcher(cfg config.Config, m *metrics.Metrics, extra ...embedding.Option) (*embedding.Batcher, error) {
	b, err := adapter.New(cfg.EmbeddingOptions())
	if err != nil {
		return nil, err
	}
	if !b.Info().SupportsEmbeddings {
		return nil, fmt.Errorf("app: provider %q: %w", b.Info().Provider, adapter.ErrUnsupported)
	}

	opts := cfg.EmbeddingConfig().Options()
	if m != nil {
		opts = append(opts, embedding.WithChunkHook(m.ChunkHook()))
	}
	opts = append(opts, extra...)
	return embedding.NewBatcher(metrics.Instrument(b, m), cfg.EmbeddingModel(), opts...)
}

func NewAssistant(b adapter.Backend) *assistant.Assistant {
	return assistant.New(b)
}

func NewServer(a *assistant.Assistant, logger *zap.Logger, m *metrics.Metrics) *server.Server {
	return server.New(a, logger, m)
}

func registerLoggerLifecycle(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// Sync fails on stderr for some terminals; the error carries no signal.
			_ = logger.Sync()
			return nil
		},
	})
}

func registerPromptWatcher(lc fx.Lifecycle, cfg config.Config, a *assistant.Assistant, logger *zap.Logger) {
	path := cfg.Server.SystemPromptFile
	if path == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := a.LoadSystemPrompt(path); err != nil {
				cancel()
				close(done)
				return err
			}
			go func() {
				defer close(done)
				err := a.WatchSystemPrompt(ctx, path, func(err error) {
					logger.Warn("system prompt reload failed", zap.String("path", path), zap.Error(err))
				})
				if err != nil {
					logger.Error("system prompt watcher stopped", zap.String("path", path), zap.Error(err))
				}
			}()
			logger.Info("watching system prompt", zap.String("path", path))
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}

func registerServerLifecycle(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, srv *server.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.Error("http server failed", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	})
}
