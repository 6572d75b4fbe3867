package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/service"
)

const (
	ScoutingServicePath     = "/scouting.v1.ScoutingService/"
	GenerateReportProcedure = ScoutingServicePath + "GenerateReport"
	GetReportProcedure      = ScoutingServicePath + "GetReport"
	ListReportsProcedure    = ScoutingServicePath + "ListReports"
)

// jsonCodec lets connect carry plain structs instead of generated protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type GetReportRequest struct {
	ID string `json:"id"`
}

type ListReportsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListReportsResponse struct {
	Reports []repository.ReportSummary `json:"reports"`
}

// Scouting is the service surface exposed over RPC and REST.
type Scouting interface {
	GenerateReport(ctx context.Context, req service.GenerateReportRequest) (*repository.StoredReport, error)
	GetReport(ctx context.Context, id string) (*repository.StoredReport, error)
	ListReports(ctx context.Context, limit int) ([]repository.ReportSummary, error)
}

func (s *ScoutingServer) GenerateReport(ctx context.Context, req *connect.Request[service.GenerateReportRequest]) (*connect.Response[repository.StoredReport], error) {
	rep, err := s.svc.GenerateReport(ctx, *req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(rep), nil
}

func (s *ScoutingServer) GetReport(ctx context.Context, req *connect.Request[GetReportRequest]) (*connect.Response[repository.StoredReport], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("id is required"))
	}
	rep, err := s.svc.GetReport(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(rep), nil
}

func (s *ScoutingServer) ListReports(ctx context.Context, req *connect.Request[ListReportsRequest]) (*connect.Response[ListReportsResponse], error) {
	reports, err := s.svc.ListReports(ctx, req.Msg.Limit)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListReportsResponse{Reports: reports}), nil
}

func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, service.ErrNoGames), errors.Is(err, repository.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, config.ErrMissingAPIKey):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// connectHandlers returns the RPC procedures keyed by path.
func (s *ScoutingServer) connectHandlers() map[string]http.Handler {
	codec := connect.WithCodec(jsonCodec{})
	return map[string]http.Handler{
		GenerateReportProcedure: connect.NewUnaryHandler(GenerateReportProcedure, s.GenerateReport, codec),
		GetReportProcedure:      connect.NewUnaryHandler(GetReportProcedure, s.GetReport, codec),
		ListReportsProcedure:    connect.NewUnaryHandler(ListReportsProcedure, s.ListReports, codec),
	}
}
