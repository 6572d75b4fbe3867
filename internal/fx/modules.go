package fx

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/database"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/grid"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/logger"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/normalize"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/server"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/service"
)

func ProvideQueryCache(sqlDB *sql.DB, cfg *config.Config, logger zerolog.Logger) *repository.QueryCacheRepository {
	return repository.NewQueryCacheRepository(sqlDB, cfg.GridCacheTTL, logger)
}

func ProvideGridClient(cfg *config.Config, cache *repository.QueryCacheRepository, logger zerolog.Logger) *grid.Client {
	opts := grid.DefaultClientOptions(cfg.GridAPIKey)
	opts.RateLimit = rate.Limit(cfg.GridRateLimit)
	if cfg.GridCache {
		opts.Cache = cache
	}
	return grid.NewClient(opts, logger)
}

func ProvideIngester(client *grid.Client, cfg *config.Config, logger zerolog.Logger) service.Fetcher {
	return grid.NewIngester(client, cfg.GridPageSize, logger)
}

func ProvideNormalizer(roles normalize.RoleMap, logger zerolog.Logger) *normalize.Normalizer {
	return normalize.NewNormalizer(roles, logger)
}

func ProvideReportStore(repo *repository.ReportRepository) service.ReportStore {
	return repo
}

// ProvideReportCache connects to Redis when REDIS_ADDR is set. A failed
// connection is logged and the service runs on SQLite alone.
func ProvideReportCache(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) service.ReportCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	cache, err := repository.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, continuing without report cache")
		return nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
	return cache
}

func ProvideScouting(svc *service.ScoutingService) server.Scouting {
	return svc
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(config.ProvideRoleMap),
	fx.Provide(database.New),
	// repos
	fx.Provide(ProvideQueryCache),
	fx.Provide(repository.NewReportRepository),
	fx.Provide(ProvideReportStore),
	fx.Provide(ProvideReportCache),
	// grid client
	fx.Provide(ProvideGridClient),
	fx.Provide(ProvideIngester),
	// svc
	fx.Provide(ProvideNormalizer),
	fx.Provide(service.NewScoutingService),
	fx.Provide(ProvideScouting),
	// server
	fx.Provide(server.NewScoutingServer),
)
