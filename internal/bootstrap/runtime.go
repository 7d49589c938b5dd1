// Package bootstrap wires the database and Redis for command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"scholarsync/internal/cache"
	"scholarsync/internal/config"
	"scholarsync/internal/database"
	"scholarsync/internal/middleware"
	"scholarsync/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Seed fills an empty database with demo content.
	Seed        bool
	SeedOptions seed.Options
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if opts.Seed {
		if err := seedIfEmpty(ctx, db, opts.SeedOptions); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}

func seedIfEmpty(ctx context.Context, db *gorm.DB, opts seed.Options) error {
	var n int64
	if err := db.WithContext(ctx).Table("activities").Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		middleware.Logger.Info("skipping seed, feed already has content", slog.Int64("activities", n))
		return nil
	}
	if opts.NumUsers == 0 {
		opts = seed.DefaultOptions()
	}
	_, err := seed.Seed(ctx, db, opts)
	return err
}
