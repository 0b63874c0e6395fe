package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	apphttp "github.com/yungbote/clientcontacts-backend/internal/http"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm"
	"github.com/yungbote/clientcontacts-backend/internal/observability"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

const serviceVersion = "0.1.0"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Usecases crm.Usecases
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	closers []func(context.Context) error
}

// New wires storage, locking, use cases and the HTTP server for cfg.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Log: log, Cfg: cfg}

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Log.Mode,
		Version:     serviceVersion,
		Exporter:    cfg.Otel.Exporter,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})
	a.closers = append(a.closers, shutdownOtel)

	if cfg.Metrics.Enabled {
		a.Metrics = observability.NewMetrics()
	}

	storage, err := wireStorage(cfg, log, a.Metrics)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.DB = storage.DB
	a.closers = append(a.closers, storage.Close)
	if storage.DB != nil && cfg.Storage.AutoMigrate {
		log.Info("Running migrations...", "migrator", cfg.Storage.Migrator)
		if err := db.Migrate(ctx, storage.DB, cfg.Storage.Migrator); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	locker, closeLocker, err := wireLocker(ctx, cfg, log)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, closeLocker)

	a.Usecases = crm.New(crm.UsecasesDeps{Log: log, Store: storage.Store, Locker: locker})
	a.Server = wireServer(cfg, log, a.Usecases, storage.Health, a.Metrics)
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Server.Addr())
	return a.Server.Run(ctx, a.Cfg.HTTP.ShutdownTimeout)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && a.Log != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.Log != nil {
		a.Log.Sync()
	}
}
