// Package app composes the session controller with fx. Both the TUI and
// parleyctl start the same graph and talk to it through Controller.
package app

import (
	"context"
	"fmt"

	"github.com/matheus3301/parley/internal/api"
	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/config"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/gate"
	"github.com/matheus3301/parley/internal/kv"
	"github.com/matheus3301/parley/internal/lock"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/metrics"
	"github.com/matheus3301/parley/internal/outbox"
	"github.com/matheus3301/parley/internal/pipeline"
	"github.com/matheus3301/parley/internal/prefs"
	"github.com/matheus3301/parley/internal/profile"
	"github.com/matheus3301/parley/internal/status"
	"github.com/matheus3301/parley/internal/store"
	"github.com/matheus3301/parley/internal/view"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile string
	Program string         // recorded in the profile lock
	Console bool           // tee logs to stderr
	Config  *config.Config // optional override; nil loads config.toml
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("parley",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideClient,
			provideRegistry,
			provideMetrics,
			provideWriter,
			providePipeline,
			provideRepository,
			provideCoordinator,
			providePrefs,
			provideGate,
			NewController,
		),
		fx.Invoke(registerLifecycle),
	)
}

// WithZapLogger routes fx's own events through the profile logger.
func WithZapLogger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	})
}

func provideConfig(p Params) (*config.Config, error) {
	cfg := p.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadOrDefault(profile.ConfigPath())
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile, cfg.Log.Level, p.Console)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

// provideLock registers the release hook before any dependent store is
// opened, so fx releases the lock after closing the store.
func provideLock(lc fx.Lifecycle, p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	logger.Debug("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile), p.Program)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		if err := l.Release(); err != nil {
			logger.Warn("error releasing lock", zap.Error(err))
		}
		_ = logger.Sync()
	}))
	logger.Debug("profile lock acquired")
	return l, nil
}

// provideStore opens the configured backend. It takes the lock so the
// store is never opened by a second process.
func provideStore(lc fx.Lifecycle, p Params, cfg *config.Config, _ *lock.Lock, logger *zap.Logger) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPebble:
		db, err := kv.OpenPebble(profile.PebbleDir(p.Profile))
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(db.Close))
		logger.Debug("store initialized", zap.String("backend", "pebble"))
		return db, nil
	default:
		dbPath := profile.StateDBPath(p.Profile)
		db, err := store.OpenMigrated(dbPath, logger.Named("store"))
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(db.Close))
		logger.Debug("store initialized", zap.String("backend", "sqlite"), zap.String("path", dbPath))
		return db, nil
	}
}

func provideClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.New(cfg.Server.BaseURL, cfg.Server.Timeout.Duration, logger.Named("api"))
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideWriter(client *api.Client, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *outbox.Writer {
	return outbox.NewWriter(client, cfg.Server.SaveTimeout.Duration, m, logger.Named("outbox"))
}

func providePipeline(client *api.Client, w *outbox.Writer, cfg *config.Config, b *bus.Bus, m *metrics.Metrics, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(client, w, cfg.Server.AskTimeout.Duration, b, m, logger.Named("pipeline"))
}

func provideRepository(client *api.Client, b *bus.Bus, m *metrics.Metrics, logger *zap.Logger) *conversation.Repository {
	return conversation.New(client, b, m, logger.Named("conversations"))
}

func provideCoordinator(repo *conversation.Repository, cfg *config.Config, b *bus.Bus) *view.Coordinator {
	return view.New(repo, cfg.Features.Conversations, b)
}

func providePrefs(s kv.Store, b *bus.Bus, logger *zap.Logger) *prefs.Store {
	return prefs.New(s, b, logger.Named("prefs"))
}

func provideGate(s kv.Store, client *api.Client, machine *status.Machine, m *metrics.Metrics, cfg *config.Config, pipe *pipeline.Pipeline, repo *conversation.Repository, logger *zap.Logger) *gate.Gate {
	loaders := []gate.Loader{pipe}
	if cfg.Features.Conversations {
		loaders = append(loaders, repo)
	}
	return gate.New(s, client, machine, m, logger.Named("gate"), loaders...)
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, _ kv.Store, w *outbox.Writer, reg *prometheus.Registry, logger *zap.Logger) {
	var srv *metrics.Server
	if cfg.Metrics.Addr != "" {
		srv = metrics.NewServer(cfg.Metrics.Addr, reg, logger.Named("metrics"))
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			w.Start(context.Background())
			if srv != nil {
				if err := srv.Start(); err != nil {
					w.Stop()
					return err
				}
			}
			logger.Info("session controller started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			if srv != nil {
				if err := srv.Stop(ctx); err != nil {
					logger.Warn("metrics shutdown failed", zap.Error(err))
				}
			}
			logger.Info("session controller stopped")
			return nil
		},
	})
}
