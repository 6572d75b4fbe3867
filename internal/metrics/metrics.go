// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_reports_built_total",
		Help: "Total number of scouting reports built, by source",
	}, []string{"source"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scouting_report_duration_seconds",
		Help:    "Duration of report generation including data fetch",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	ReportGames = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scouting_report_games",
		Help:    "Number of games analyzed per report",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
	})

	GridRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_grid_requests_total",
		Help: "GRID GraphQL requests by outcome",
	}, []string{"outcome"})

	GridRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scouting_grid_retries_total",
		Help: "GRID GraphQL request retries",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_cache_lookups_total",
		Help: "Cache lookups by cache and result",
	}, []string{"cache", "result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scouting_http_request_duration_seconds",
		Help:    "HTTP request duration by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

const (
	OutcomeOK        = "ok"
	OutcomeGraphQL   = "graphql_error"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeCached    = "cached"
)

const (
	CacheHit          = "hit"
	CacheMiss         = "miss"
	CacheQuery        = "query"
	CacheReportRedis  = "report_redis"
	CacheReportSQLite = "report_sqlite"
)

const (
	SourceLive    = "live"
	SourceOffline = "offline"
)

func Handler() http.Handler {
	return promhttp.Handler()
}
