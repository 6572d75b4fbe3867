package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "scouting:report:"

// RedisReportCache fronts the SQLite report store with short-lived copies keyed by request hash.
type RedisReportCache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisReportCache(addr, password string, db int, logger zerolog.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", addr).Int("db", db).Msg("redis report cache connected")
	return &RedisReportCache{client: client, logger: logger}, nil
}

// NewRedisReportCacheFromClient wraps an existing client.
func NewRedisReportCacheFromClient(client *redis.Client, logger zerolog.Logger) *RedisReportCache {
	return &RedisReportCache{client: client, logger: logger}
}

func (c *RedisReportCache) Get(ctx context.Context, hash string) (*StoredReport, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+hash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read report from redis: %w", err)
	}

	var rep StoredReport
	if err := json.Unmarshal(data, &rep); err != nil {
		c.logger.Warn().Err(err).Str("hash", hash).Msg("discarding undecodable cached report")
		return nil, false, nil
	}
	return &rep, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, hash string, rep *StoredReport, ttl time.Duration) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+hash, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report to redis: %w", err)
	}
	return nil
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
