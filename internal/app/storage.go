package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	"github.com/yungbote/clientcontacts-backend/internal/data/memstore"
	crmrepo "github.com/yungbote/clientcontacts-backend/internal/data/repos/crm"
	httpH "github.com/yungbote/clientcontacts-backend/internal/http/handlers"
	"github.com/yungbote/clientcontacts-backend/internal/modules/crm"
	"github.com/yungbote/clientcontacts-backend/internal/observability"
	"github.com/yungbote/clientcontacts-backend/internal/platform/locks"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

type Storage struct {
	DB     *gorm.DB
	Store  crm.Store
	Health map[string]httpH.HealthCheckFunc
}

func (s Storage) Close(context.Context) error {
	return db.Close(s.DB)
}

// OpenDB opens the SQL database selected by cfg. It returns nil for the memory driver.
func OpenDB(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return db.OpenPostgres(db.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Name:     cfg.Postgres.Name,
			SSLMode:  cfg.Postgres.SSLMode,
		}, log)
	case "sqlite":
		return db.OpenSqlite(cfg.Sqlite.Path, log)
	case "memory":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func wireStorage(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Storage, error) {
	log.Info("Wiring storage...", "driver", cfg.Storage.Driver)
	gdb, err := OpenDB(cfg, log)
	if err != nil {
		return Storage{}, fmt.Errorf("init %s: %w", cfg.Storage.Driver, err)
	}
	if gdb == nil {
		return Storage{Store: memstore.New()}, nil
	}
	return Storage{
		DB:    gdb,
		Store: crmrepo.NewStore(gdb, log).WithHooks(crmrepo.NewObservabilityHooks(metrics)),
		Health: map[string]httpH.HealthCheckFunc{
			"database": func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	}, nil
}

// wireLocker picks the Redis lock when redis.addr is set and the in-process lock otherwise.
func wireLocker(ctx context.Context, cfg Config, log *logger.Logger) (crm.Locker, func(context.Context) error, error) {
	if cfg.Redis.Addr == "" {
		return locks.NewLocal(), func(context.Context) error { return nil }, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := locks.NewRedisClient(pingCtx, cfg.Redis.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}
	log.Info("Using redis for client code locks", "addr", cfg.Redis.Addr)
	return locks.NewRedis(rdb, cfg.Redis.LockTTL, log), func(context.Context) error { return closeRedis(rdb) }, nil
}

func closeRedis(rdb *redis.Client) error {
	return rdb.Close()
}
