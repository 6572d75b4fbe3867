package constants

import "time"

const (
	RecencyHalfLifeDays = 30.0
	ComfortShare        = 0.5
	StableMinGames      = 3
	DraftDNATopN        = 50
	SimilarityThreshold = 0.75
	NearestNeighborsMax = 10
	SignatureMaxK       = 4
	SignatureTopChamps  = 6
	SimilarityMinPool   = 3
	SimilarityTopPairs  = 30
	PriorityPicksMax    = 10
)

const (
	ScenarioHashDim     = 32
	KMeansIterations    = 10
	ScenarioMaxK        = 4
	ClusterSeed         = 42
	ScenarioTopPickVizN = 5
)

const (
	PriorAlpha            = 2.0
	PriorBeta             = 2.0
	ConfidenceSaturation  = 20.0
	CounterTopK           = 3
	CounterMatrixMaxRows  = 6
	CounterMatrixMaxCols  = 6
	DecisionTreeRowsLimit = 3
)

const (
	WeightDraftEntropy    = 0.35
	WeightPlayerEntropy   = 0.25
	WeightScenarioEntropy = 0.25
	WeightDrift           = 0.15
	DriftSplit            = 0.75
	PredictableBelow      = 35.0
	ChaoticFrom           = 65.0
)

const (
	BanCoreSize = 3
	BanListMax  = 5
	DraftPlanN  = 5
)

const (
	GridRetries       = 3
	GridBackoff       = 600 * time.Millisecond
	GridPageSize      = 50
	GridRateLimit     = 5
	GridSeriesWorkers = 4
	GridCacheTTL      = 24 * time.Hour
	ReportTTL         = 6 * time.Hour
)

const (
	ExternalAPITimeout = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 5 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	ReportListLimit = 20
)
