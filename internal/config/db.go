package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ConnectDB establishes a connection pool to the PostgreSQL database at dsn,
// retrying up to maxRetries times.
func ConnectDB(ctx context.Context, name, dsn string, maxRetries int, retryInterval time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid %s database url: %w", name, err)
	}

	var pool *pgxpool.Pool
	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			// Try to ping the database
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Str("db", name).Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).Str("db", name).
			Msgf("failed to connect to database (attempt %d/%d), retrying in %v", i+1, maxRetries, retryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to %s database after %d attempts: %w", name, maxRetries, err)
}
