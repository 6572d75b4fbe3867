package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/insights"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

var ErrNotFound = errors.New("report not found")

type StoredReport struct {
	ID           string             `json:"id"`
	RequestHash  string             `json:"request_hash"`
	TeamName     string             `json:"team_name"`
	OpponentName string             `json:"opponent_name"`
	Title        string             `json:"title"`
	Games        int                `json:"games"`
	Report       *report.Report     `json:"report"`
	Insights     *insights.Enhanced `json:"insights,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ReportSummary is a listing row without the report body.
type ReportSummary struct {
	ID           string    `json:"id"`
	TeamName     string    `json:"team_name"`
	OpponentName string    `json:"opponent_name"`
	Title        string    `json:"title"`
	Games        int       `json:"games"`
	CreatedAt    time.Time `json:"created_at"`
}

type storedBody struct {
	Report   *report.Report     `json:"report"`
	Insights *insights.Enhanced `json:"insights,omitempty"`
}

type ReportRepository struct {
	db     *sql.DB
	now    func() time.Time
	logger zerolog.Logger
}

func NewReportRepository(sqlDB *sql.DB, logger zerolog.Logger) *ReportRepository {
	return &ReportRepository{
		db:     sqlDB,
		now:    time.Now,
		logger: logger,
	}
}

// Save persists rep, assigning an ID and creation time when they are unset.
func (r *ReportRepository) Save(ctx context.Context, rep *StoredReport) error {
	if rep.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		rep.ID = id
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = r.now().UTC()
	}

	body, err := json.Marshal(storedBody{Report: rep.Report, Insights: rep.Insights})
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reports (id, request_hash, team_name, opponent_name, title, games, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.RequestHash, rep.TeamName, rep.OpponentName, rep.Title, rep.Games, body, rep.CreatedAt.Unix(),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("report_id", rep.ID).Msg("failed to save report")
		return fmt.Errorf("failed to save report: %w", err)
	}

	r.logger.Debug().Str("report_id", rep.ID).Str("hash", rep.RequestHash).Msg("report saved")
	return nil
}

const reportColumns = `id, request_hash, team_name, opponent_name, title, games, body, created_at`

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*StoredReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

// GetFreshByHash returns the newest report for hash created within ttl.
func (r *ReportRepository) GetFreshByHash(ctx context.Context, hash string, ttl time.Duration) (*StoredReport, error) {
	cutoff := r.now().Add(-ttl).Unix()
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports
		 WHERE request_hash = ? AND created_at >= ?
		 ORDER BY created_at DESC LIMIT 1`,
		hash, cutoff,
	)
	return scanReport(row)
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]ReportSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_name, opponent_name, title, games, created_at FROM reports
		 ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	result := []ReportSummary{}
	for rows.Next() {
		var (
			s         ReportSummary
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &s.TeamName, &s.OpponentName, &s.Title, &s.Games, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanReport(row *sql.Row) (*StoredReport, error) {
	var (
		rep       StoredReport
		body      []byte
		createdAt int64
	)
	err := row.Scan(&rep.ID, &rep.RequestHash, &rep.TeamName, &rep.OpponentName, &rep.Title, &rep.Games, &body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var decoded storedBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", rep.ID, err)
	}
	rep.Report = decoded.Report
	rep.Insights = decoded.Insights
	rep.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rep, nil
}
