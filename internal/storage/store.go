package storage

import (
	"context"
	"fmt"

	"github.com/claude/mapty/internal/config"
)

// Store is a durable key-value store holding serialized documents.
// Get reports ok=false for a key that was never set or was deleted.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects the driver named in cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Storage.Dir)
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := RunMigrations(dsn, cfg.Database.Migrations); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, dsn)
	case "redis":
		return NewRedis(ctx, cfg.Redis)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
