package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	fxmodules "github.com/Saa1amand3r/cloud9-hackathon-backend/internal/fx"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/server"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	scoutingServer *server.ScoutingServer,
	queryCache *repository.QueryCacheRepository,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	if cfg.GridAPIKey == "" {
		logger.Warn().Msg("GRID_API_KEY is not set, report generation will fail until it is configured")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: scoutingServer.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.GridCache {
				if _, err := queryCache.Purge(ctx, cfg.GridCacheTTL); err != nil {
					logger.Warn().Err(err).Msg("failed to purge expired query cache entries")
				}
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
