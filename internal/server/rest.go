package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/grid"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/service"
)

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeTeamNotFound   = "TEAM_NOT_FOUND"
	CodeNoData         = "NO_DATA"
	CodeNotFound       = "NOT_FOUND"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"

	defaultOurTeam    = "Cloud9"
	defaultWindowDays = 2000
	minWindowDays     = 30
	maxWindowDays     = 3650
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}

func (s *ScoutingServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"version":            Version,
		"api_key_configured": s.cfg.GridAPIKey != "",
	})
}

// writeGenerateError maps service errors onto the REST error envelope.
func writeGenerateError(w http.ResponseWriter, r *http.Request, err error, notFoundCode string, details map[string]any) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, service.ErrNoGames), errors.Is(err, grid.ErrTeamNotResolved):
		writeError(w, http.StatusNotFound, notFoundCode, err.Error(), details)
	case errors.Is(err, config.ErrMissingAPIKey):
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("report generation failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "Error generating report: "+err.Error(), nil)
	}
}

func (s *ScoutingServer) GenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body: "+err.Error(), nil)
		return
	}

	rep, err := s.svc.GenerateReport(r.Context(), req)
	if err != nil {
		writeGenerateError(w, r, err, CodeNoData, map[string]any{
			"team":     req.TeamName,
			"opponent": req.OpponentName,
		})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// WindowForLastGames approximates a window from a game count at roughly three games per week,
// kept within [minWindowDays, maxWindowDays].
func WindowForLastGames(n int) int {
	if n <= 0 {
		return defaultWindowDays
	}
	return min(maxWindowDays, max(minWindowDays, n*7/3))
}

func (s *ScoutingServer) TeamAnalysis(w http.ResponseWriter, r *http.Request) {
	opponent := chi.URLParam(r, "opponent")
	q := r.URL.Query()

	ourTeam := q.Get("ourTeam")
	if ourTeam == "" {
		ourTeam = defaultOurTeam
	}

	lastN := 0
	if raw := q.Get("lastNGames"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "lastNGames must be a non-negative integer", nil)
			return
		}
		lastN = n
	}

	rep, err := s.svc.GenerateReport(r.Context(), service.GenerateReportRequest{
		TeamName:     ourTeam,
		OpponentName: opponent,
		WindowDays:   WindowForLastGames(lastN),
		Refresh:      q.Get("refresh") == "true",
	})
	if err != nil {
		writeGenerateError(w, r, err, CodeTeamNotFound, map[string]any{"teamId": opponent})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *ScoutingServer) GetReportREST(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.svc.GetReport(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error(), map[string]any{"id": id})
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("report_id", id).Msg("failed to load report")
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *ScoutingServer) ListReportsREST(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := s.svc.ListReports(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list reports")
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, ListReportsResponse{Reports: reports})
}
