package database

import (
	"context"
	"fmt"
	"time"

	"caseable-catalog/internal/config"
	"caseable-catalog/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PoolConfig maps the application's database settings onto pool settings.
func PoolConfig(cfg config.DatabaseConfig) *repository.DBConfig {
	poolConfig := repository.DefaultDBConfig()
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.ConnMaxLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	return poolConfig
}

// NewPool creates the journal's PostgreSQL connection pool and makes sure
// the journal schema exists.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := repository.NewPool(ctx, cfg.ConnectionString(), PoolConfig(cfg))
	if err != nil {
		return nil, err
	}

	if err := repository.NewOrderStatusRepository(pool, logger).EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to prepare database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}
