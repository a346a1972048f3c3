// Package bootstrap wires the runtime dependencies (database, cache) that the
// server and CLI commands share.
package bootstrap

import (
	"fmt"

	"devhub/internal/cache"
	"devhub/internal/config"
	"devhub/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis. Redis is optional: a nil
// client is returned when the cache is unreachable and callers degrade
// gracefully.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return db, cache.GetClient(), nil
}
