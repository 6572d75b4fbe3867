package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/grid"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/insights"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/metrics"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/normalize"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
)

var (
	ErrNoGames        = errors.New("no games found for matchup")
	ErrInvalidRequest = errors.New("invalid request")
)

type GenerateReportRequest struct {
	TeamName         string `json:"teamName" validate:"required"`
	OpponentName     string `json:"opponentName" validate:"required"`
	Title            string `json:"title,omitempty"`
	WindowDays       int    `json:"windowDays,omitempty" validate:"omitempty,min=1,max=3650"`
	TournamentFilter string `json:"tournamentFilter,omitempty"`
	TeamID           string `json:"teamId,omitempty"`
	OpponentID       string `json:"opponentId,omitempty"`
	Refresh          bool   `json:"refresh,omitempty"`
}

// Fetcher pulls the raw series for a matchup.
type Fetcher interface {
	FetchMatchup(ctx context.Context, req grid.FetchRequest) ([]domain.RawSeriesRecord, domain.FetchMeta, error)
}

type ReportStore interface {
	Save(ctx context.Context, rep *repository.StoredReport) error
	GetByID(ctx context.Context, id string) (*repository.StoredReport, error)
	GetFreshByHash(ctx context.Context, hash string, ttl time.Duration) (*repository.StoredReport, error)
	List(ctx context.Context, limit int) ([]repository.ReportSummary, error)
}

type ReportCache interface {
	Get(ctx context.Context, hash string) (*repository.StoredReport, bool, error)
	Set(ctx context.Context, hash string, rep *repository.StoredReport, ttl time.Duration) error
}

type ScoutingService struct {
	cfg        *config.Config
	fetcher    Fetcher
	normalizer *normalize.Normalizer
	store      ReportStore
	cache      ReportCache
	validate   *validator.Validate
	now        func() time.Time
	logger     zerolog.Logger
}

// NewScoutingService wires the pipeline. store and cache may be nil; a nil
// store disables persistence and cached lookups.
func NewScoutingService(
	cfg *config.Config,
	fetcher Fetcher,
	normalizer *normalize.Normalizer,
	store ReportStore,
	cache ReportCache,
	logger zerolog.Logger,
) *ScoutingService {
	return &ScoutingService{
		cfg:        cfg,
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      store,
		cache:      cache,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock fixes the reference time used by the analytics.
func (s *ScoutingService) WithClock(now func() time.Time) *ScoutingService {
	s.now = now
	return s
}

func (s *ScoutingService) withDefaults(req GenerateReportRequest) GenerateReportRequest {
	req.TeamName = strings.TrimSpace(req.TeamName)
	req.OpponentName = strings.TrimSpace(req.OpponentName)
	if req.Title == "" {
		req.Title = s.cfg.DefaultTitle
	}
	if req.WindowDays == 0 {
		req.WindowDays = s.cfg.DefaultWindowDays
	}
	return req
}

// RequestHash identifies requests that yield the same report.
func RequestHash(req GenerateReportRequest) string {
	key := struct {
		Team       string `json:"team"`
		Opponent   string `json:"opponent"`
		Title      string `json:"title"`
		Window     int    `json:"window"`
		Filter     string `json:"filter"`
		TeamID     string `json:"team_id"`
		OpponentID string `json:"opponent_id"`
	}{
		Team:       strings.ToLower(req.TeamName),
		Opponent:   strings.ToLower(req.OpponentName),
		Title:      strings.ToLower(req.Title),
		Window:     req.WindowDays,
		Filter:     strings.ToLower(req.TournamentFilter),
		TeamID:     req.TeamID,
		OpponentID: req.OpponentID,
	}
	data, _ := json.Marshal(key)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (s *ScoutingService) GenerateReport(ctx context.Context, req GenerateReportRequest) (*repository.StoredReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	req = s.withDefaults(req)
	hash := RequestHash(req)

	log := s.logger.With().
		Str("team", req.TeamName).
		Str("opponent", req.OpponentName).
		Str("hash", hash).
		Logger()
	log.Info().Int("window_days", req.WindowDays).Bool("refresh", req.Refresh).Msg("generating report")

	if !req.Refresh {
		if cached := s.lookup(ctx, hash, log); cached != nil {
			return cached, nil
		}
	}

	if err := s.cfg.Validate(true); err != nil {
		return nil, err
	}

	start := s.now()
	records, meta, err := s.fetcher.FetchMatchup(ctx, grid.FetchRequest{
		Title:            req.Title,
		TeamName:         req.TeamName,
		OpponentName:     req.OpponentName,
		WindowDays:       req.WindowDays,
		TournamentFilter: req.TournamentFilter,
		TeamID:           req.TeamID,
		OpponentID:       req.OpponentID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch matchup")
		return nil, fmt.Errorf("failed to fetch matchup: %w", err)
	}

	games := s.Normalize(records, meta)
	if len(games) == 0 {
		log.Warn().Int("series", len(records)).Msg("no games after normalization")
		return nil, ErrNoGames
	}

	stored := s.build(games, meta, metrics.SourceLive)
	stored.RequestHash = hash
	metrics.ReportDuration.Observe(s.now().Sub(start).Seconds())

	s.persist(ctx, stored, log)
	log.Info().Str("report_id", stored.ID).Int("games", stored.Games).Msg("report built")
	return stored, nil
}

// BuildFromRaw analyzes previously fetched records without touching the network
// or the store. Zero games yield an empty report rather than an error.
func (s *ScoutingService) BuildFromRaw(records []domain.RawSeriesRecord, meta domain.FetchMeta) *repository.StoredReport {
	return s.BuildFromGames(s.Normalize(records, meta), meta)
}

// BuildFromGames analyzes already normalized games.
func (s *ScoutingService) BuildFromGames(games []domain.GameRecord, meta domain.FetchMeta) *repository.StoredReport {
	return s.build(games, meta, metrics.SourceOffline)
}

// Normalize exposes the normalization step for callers that save normalized games.
func (s *ScoutingService) Normalize(records []domain.RawSeriesRecord, meta domain.FetchMeta) []domain.GameRecord {
	return s.normalizer.Normalize(records, meta.TeamID, meta.OpponentID)
}

func (s *ScoutingService) build(games []domain.GameRecord, meta domain.FetchMeta, source string) *repository.StoredReport {
	now := s.now()
	analysis := report.NewBuilder(clustering.NewSilhouetteScorer()).
		WithClock(func() time.Time { return now }).
		Analyze(games, meta, nil)
	enhanced := insights.Generate(analysis, now)

	metrics.ReportsBuilt.WithLabelValues(source).Inc()
	metrics.ReportGames.Observe(float64(len(games)))

	return &repository.StoredReport{
		TeamName:     meta.TeamName,
		OpponentName: meta.OpponentName,
		Title:        meta.Title,
		Games:        len(games),
		Report:       analysis.Report,
		Insights:     enhanced,
		CreatedAt:    now.UTC(),
	}
}

func (s *ScoutingService) lookup(ctx context.Context, hash string, log zerolog.Logger) *repository.StoredReport {
	if s.cache != nil {
		rep, ok, err := s.cache.Get(ctx, hash)
		if err != nil {
			log.Warn().Err(err).Msg("redis report lookup failed")
		}
		if ok {
			metrics.CacheLookups.WithLabelValues(metrics.CacheReportRedis, metrics.CacheHit).Inc()
			log.Info().Str("report_id", rep.ID).Msg("returning report from redis")
			return rep
		}
		metrics.CacheLookups.WithLabelValues(metrics.CacheReportRedis, metrics.CacheMiss).Inc()
	}

	if s.store == nil {
		return nil
	}
	rep, err := s.store.GetFreshByHash(ctx, hash, s.cfg.ReportTTL)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Msg("stored report lookup failed")
		}
		metrics.CacheLookups.WithLabelValues(metrics.CacheReportSQLite, metrics.CacheMiss).Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues(metrics.CacheReportSQLite, metrics.CacheHit).Inc()
	log.Info().Str("report_id", rep.ID).Msg("returning stored report")

	if s.cache != nil {
		if err := s.cache.Set(ctx, hash, rep, s.cfg.ReportTTL); err != nil {
			log.Warn().Err(err).Msg("failed to warm redis report cache")
		}
	}
	return rep
}

func (s *ScoutingService) persist(ctx context.Context, rep *repository.StoredReport, log zerolog.Logger) {
	if s.store != nil {
		if err := s.store.Save(ctx, rep); err != nil {
			log.Warn().Err(err).Msg("failed to persist report")
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, rep.RequestHash, rep, s.cfg.ReportTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache report in redis")
		}
	}
}

func (s *ScoutingService) GetReport(ctx context.Context, id string) (*repository.StoredReport, error) {
	if s.store == nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.GetByID(ctx, id)
}

func (s *ScoutingService) ListReports(ctx context.Context, limit int) ([]repository.ReportSummary, error) {
	if s.store == nil {
		return []repository.ReportSummary{}, nil
	}
	if limit <= 0 {
		limit = constants.ReportListLimit
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.List(ctx, limit)
}
