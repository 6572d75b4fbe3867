package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// QueryCacheRepository stores raw GraphQL payloads keyed by request hash.
type QueryCacheRepository struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func NewQueryCacheRepository(sqlDB *sql.DB, ttl time.Duration, logger zerolog.Logger) *QueryCacheRepository {
	return &QueryCacheRepository{
		db:     sqlDB,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Get returns the cached payload for key. Entries older than the TTL are treated as missing.
func (r *QueryCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		payload   []byte
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM query_cache WHERE key = ?`, key,
	).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read query cache: %w", err)
	}

	if r.ttl > 0 && r.now().Sub(time.Unix(createdAt, 0)) > r.ttl {
		r.logger.Debug().Str("key", key).Msg("query cache entry expired")
		return nil, false, nil
	}
	return payload, true, nil
}

func (r *QueryCacheRepository) Put(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO query_cache (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, payload, r.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write query cache: %w", err)
	}
	return nil
}

// Purge deletes entries created before now-olderThan and returns how many were removed.
func (r *QueryCacheRepository) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().Add(-olderThan).Unix()
	res, err := r.db.ExecContext(ctx, `DELETE FROM query_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge query cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	r.logger.Info().Int64("removed", n).Dur("older_than", olderThan).Msg("query cache purged")
	return n, nil
}
