package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/prdash/internal/service"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config selects and configures the approval store.
type Config struct {
	Driver       string
	DatabasePath string
	Redis        RedisConfig
}

// Open returns the approval store named by cfg.Driver. An empty driver
// means SQLite.
func Open(ctx context.Context, cfg Config) (service.ApprovalStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		return OpenSQLite(ctx, cfg.DatabasePath)
	case DriverRedis:
		return NewRedisStorage(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
