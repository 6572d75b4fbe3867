package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
)

var ErrMissingAPIKey = errors.New("GRID_API_KEY is required")

type Config struct {
	GridAPIKey        string
	DBPath            string
	ServerPort        string
	LogLevel          string
	GridCache         bool
	GridCacheTTL      time.Duration
	GridRateLimit     float64
	GridPageSize      int
	RoleMapPath       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	ReportTTL         time.Duration
	DefaultTitle      string
	DefaultWindowDays int
	CORSOrigins       []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		GridAPIKey:        getEnv("GRID_API_KEY", ""),
		DBPath:            getEnv("DB_PATH", "scouting.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		GridCache:         getEnvBool("GRID_CACHE", false),
		GridCacheTTL:      getEnvDuration("GRID_CACHE_TTL", constants.GridCacheTTL),
		GridRateLimit:     getEnvFloat("GRID_RATE_LIMIT", constants.GridRateLimit),
		GridPageSize:      getEnvInt("GRID_PAGE_SIZE", constants.GridPageSize),
		RoleMapPath:       getEnv("SCOUTING_ROLE_MAP", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		ReportTTL:         getEnvDuration("REPORT_TTL", constants.ReportTTL),
		DefaultTitle:      getEnv("DEFAULT_TITLE", "lol"),
		DefaultWindowDays: getEnvInt("DEFAULT_WINDOW_DAYS", 2000),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"*"}),
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("grid_cache", cfg.GridCache).
		Dur("grid_cache_ttl", cfg.GridCacheTTL).
		Bool("redis", cfg.RedisAddr != "").
		Str("role_map", cfg.RoleMapPath).
		Msg("configuration loaded")

	return cfg, nil
}

// Validate checks what live fetching needs. Offline replays need no API key.
func (c *Config) Validate(live bool) error {
	if live && c.GridAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var Module = fx.Provide(Load)
