// Package report assembles the scouting report from normalized games.
package report

import (
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/matchups"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/randomness"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

// Analysis is a built report together with the intermediate results other layers reuse.
type Analysis struct {
	Report    *Report
	Games     []domain.GameRecord
	Scenarios scenarios.Result
	Matchups  matchups.Table
	Players   features.PlayerTendencies
}

type Builder struct {
	clusterer *scenarios.Clusterer
	signature clustering.Selector
	now       func() time.Time
}

func NewBuilder(scorer clustering.QualityScorer) *Builder {
	return &Builder{
		clusterer: scenarios.NewClusterer(scorer),
		signature: clustering.NewSelector(scorer, constants.SignatureMaxK),
		now:       time.Now,
	}
}

// WithClock fixes the reference time used for recency weighting.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) Build(games []domain.GameRecord, meta domain.FetchMeta) *Report {
	return b.Analyze(games, meta, nil).Report
}

// Analyze builds the report. When pools is nil our pick pools are derived from games.
func (b *Builder) Analyze(games []domain.GameRecord, meta domain.FetchMeta, pools matchups.Pools) *Analysis {
	now := b.now()

	outcomes := features.ComputeMatchOutcomes(games)
	players := features.ComputePlayerTendencies(games, now)
	draft := features.ComputeDraftTendencies(games, now)
	coverage := features.ComputeDataCoverage(games)
	scen := b.clusterer.Cluster(games)
	rnd := randomness.Compute(games, scen.Cards)

	table := matchups.BuildTable(games)
	if pools == nil {
		pools = matchups.OurPickPools(games, now)
	}
	ordered := players.Ordered()
	counters := matchups.SuggestCounters(table, ordered, pools, constants.CounterTopK)

	matrix, roles := buildCounterMatrix(table, ordered, pools)

	rep := &Report{
		Meta:             meta,
		DataCoverage:     coverage,
		OpponentOverview: outcomes,
		PerPlayer:        players.PerPlayer,
		DraftTendencies:  draft,
		Scenarios:        scen.Cards,
		Counters:         counters,
		Randomness:       rnd,
		Plan:             buildPlan(ordered, draft, rnd),
		Insights:         b.buildInsights(games),
		Visualization: Visualization{
			StrategyClusters:        buildScenarioViz(scen),
			ScenarioFingerprintAxes: []string{"early_aggression", "draft_volatility", "teamfightiness", "macro"},
			ObjectiveTimeline: ObjectiveTimeline{
				FirstDragon:   []float64{},
				FirstHerald:   []float64{},
				FirstTower:    []float64{},
				KillsByMinute: []float64{},
				Missing:       true,
			},
			CounterMatrix:      matrix,
			CounterMatrixRoles: roles,
			DecisionTree:       buildDecisionTree(matrix, roles, draft),
		},
		MissingData: MissingData{
			Bans:       draft.MissingBans,
			Objectives: !coverage.HasObjectives,
		},
	}
	if rep.PerPlayer == nil {
		rep.PerPlayer = map[string]features.PlayerTendency{}
	}

	return &Analysis{
		Report:    rep,
		Games:     games,
		Scenarios: scen,
		Matchups:  table,
		Players:   players,
	}
}

func (b *Builder) buildInsights(games []domain.GameRecord) Insights {
	stableOpp := features.StableOnly(features.ChampionWinrates(games, domain.SideOpponent, constants.StableMinGames))
	stableTeam := features.StableOnly(features.ChampionWinrates(games, domain.SideTeam, constants.StableMinGames))

	return Insights{
		StableChampions: SidePair[[]features.ChampionWinrate]{Opponent: stableOpp, Team: stableTeam},
		RosterStability: SidePair[features.RosterStability]{
			Opponent: features.ComputeRosterStability(games, domain.SideOpponent),
			Team:     features.ComputeRosterStability(games, domain.SideTeam),
		},
		StyleTriangle: features.ComputeStyleTriangle(games),
		DraftDNA: DraftDNAInsight{
			Opponent: features.ComputeDraftDNA(games, domain.SideOpponent, constants.DraftDNATopN, constants.SimilarityThreshold),
		},
		CounterfactualBans: features.CounterfactualBans(games, domain.SideOpponent, constants.StableMinGames),
		SignatureClusters: SidePair[features.SignatureClusters]{
			Opponent: features.ComputeSignatureClusters(games, domain.SideOpponent, constants.DraftDNATopN, b.signature),
			Team:     features.ComputeSignatureClusters(games, domain.SideTeam, constants.DraftDNATopN, b.signature),
		},
		PlayerSimilarity: SidePair[features.PlayerSimilarity]{
			Opponent: features.ComputePlayerSimilarity(games, domain.SideOpponent, constants.SimilarityMinPool, constants.SimilarityTopPairs),
			Team:     features.ComputePlayerSimilarity(games, domain.SideTeam, constants.SimilarityMinPool, constants.SimilarityTopPairs),
		},
		StableOverlap: stableOverlap(stableOpp, stableTeam),
	}
}
