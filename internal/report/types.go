package report

import (
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/matchups"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/randomness"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

// Report is the full scouting report. Every field is always populated, with empty
// slices and maps rather than nil, so it serializes without nulls at the top level.
type Report struct {
	Meta             domain.FetchMeta                   `json:"meta"`
	DataCoverage     features.DataCoverage              `json:"data_coverage"`
	OpponentOverview features.MatchOutcomes             `json:"opponent_overview"`
	PerPlayer        map[string]features.PlayerTendency `json:"per_player"`
	DraftTendencies  features.DraftTendencies           `json:"draft_tendencies"`
	Scenarios        []scenarios.Card                   `json:"scenarios"`
	Counters         matchups.Counters                  `json:"counters"`
	Randomness       randomness.Result                  `json:"randomness"`
	Plan             Plan                               `json:"plan"`
	Insights         Insights                           `json:"insights"`
	Visualization    Visualization                      `json:"visualization"`
	MissingData      MissingData                        `json:"missing_data"`
}

type Plan struct {
	BanPlan   []string `json:"ban_plan"`
	DraftPlan string   `json:"draft_plan"`
}

type SidePair[T any] struct {
	Opponent T `json:"opponent"`
	Team     T `json:"team"`
}

type StableOverlap struct {
	SharedChampions []string `json:"shared_champions"`
	Count           int      `json:"count"`
}

type DraftDNAInsight struct {
	Opponent features.DraftDNA `json:"opponent"`
}

type Insights struct {
	StableChampions    SidePair[[]features.ChampionWinrate] `json:"stable_champions"`
	RosterStability    SidePair[features.RosterStability]   `json:"roster_stability"`
	StyleTriangle      features.StyleTriangle               `json:"style_triangle"`
	DraftDNA           DraftDNAInsight                      `json:"draft_dna"`
	CounterfactualBans []features.CounterfactualBan         `json:"counterfactual_bans"`
	SignatureClusters  SidePair[features.SignatureClusters] `json:"signature_clusters"`
	PlayerSimilarity   SidePair[features.PlayerSimilarity]  `json:"player_similarity"`
	StableOverlap      StableOverlap                        `json:"stable_overlap"`
}

type Fingerprint struct {
	EarlyAggression float64  `json:"early_aggression"`
	DraftVolatility float64  `json:"draft_volatility"`
	Teamfightiness  float64  `json:"teamfightiness"`
	Macro           *float64 `json:"macro"`
}

type StrategyCluster struct {
	ScenarioID         int                `json:"scenario_id"`
	Games              int                `json:"games"`
	Winrate            float64            `json:"winrate"`
	PickBuckets        map[string]float64 `json:"pick_buckets"`
	TopPicks           []string           `json:"top_picks"`
	EarlyAggressionRaw float64            `json:"early_aggression_raw"`
	TeamfightinessRaw  float64            `json:"teamfightiness_raw"`
	DraftVolatilityRaw float64            `json:"draft_volatility_raw"`
	MacroRaw           *float64           `json:"macro_raw"`
	Fingerprint        Fingerprint        `json:"fingerprint"`
}

type ObjectiveTimeline struct {
	FirstDragon   []float64 `json:"first_dragon"`
	FirstHerald   []float64 `json:"first_herald"`
	FirstTower    []float64 `json:"first_tower"`
	KillsByMinute []float64 `json:"kills_by_minute"`
	Missing       bool      `json:"missing"`
}

type MatrixCell struct {
	Winrate    *float64 `json:"winrate"`
	Samples    int      `json:"samples"`
	Confidence float64  `json:"confidence"`
}

type CounterMatrix struct {
	Rows  []string       `json:"rows"`
	Cols  []string       `json:"cols"`
	Cells [][]MatrixCell `json:"cells"`
}

type DecisionAnswer struct {
	OurPick    string  `json:"our_pick"`
	Winrate    float64 `json:"winrate"`
	Samples    int     `json:"samples"`
	Confidence float64 `json:"confidence"`
}

type DecisionNode struct {
	Role         string          `json:"role"`
	OpponentPick string          `json:"opponent_pick"`
	Answer       *DecisionAnswer `json:"answer"`
	FollowUpBan  *string         `json:"follow_up_ban"`
}

type Visualization struct {
	StrategyClusters        []StrategyCluster        `json:"strategy_clusters"`
	ScenarioFingerprintAxes []string                 `json:"scenario_fingerprint_axes"`
	ObjectiveTimeline       ObjectiveTimeline        `json:"objective_timeline"`
	CounterMatrix           map[string]CounterMatrix `json:"counter_matrix"`
	// CounterMatrixRoles lists CounterMatrix keys in display order.
	CounterMatrixRoles []string       `json:"counter_matrix_roles"`
	DecisionTree       []DecisionNode `json:"decision_tree"`
}

type MissingData struct {
	Bans       bool `json:"bans"`
	Objectives bool `json:"objectives"`
}
