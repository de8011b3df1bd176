package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/hostelflow-api/internal/repository"
	"github.com/noah-isme/hostelflow-api/pkg/cache"
	"github.com/noah-isme/hostelflow-api/pkg/config"
	"github.com/noah-isme/hostelflow-api/pkg/database"
)

// openStore builds the key-value backend named by STORE_DRIVER. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, observer repository.QueryObserver, logr *zap.Logger) (repository.KeyValueStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		kv := repository.NewRedisKV(client, "", logr)
		return kv, func() { _ = kv.Close() }, nil
	case config.StorePostgres, config.StorePgx, config.StoreSQLite, config.StoreMySQL:
		db, err := database.Open(cfg.Store.Driver, cfg)
		if err != nil {
			return nil, nil, err
		}
		kv := repository.NewSQLKV(db, observer)
		if err := kv.Migrate(ctx); err != nil {
			_ = kv.Close()
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		if cfg.Store.Driver != config.StoreMemory {
			logr.Warn("unknown store driver, using memory", zap.String("driver", cfg.Store.Driver))
		}
		return repository.NewMemoryKV(), func() {}, nil
	}
}
