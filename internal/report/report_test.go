package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/randomness"
)

var refNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newBuilder() *Builder {
	return NewBuilder(clustering.NewSilhouetteScorer()).WithClock(func() time.Time { return refNow })
}

func meta() domain.FetchMeta {
	return domain.FetchMeta{TeamName: "Cloud9", OpponentName: "Team Liquid", TeamID: "A", OpponentID: "B", Title: "lol"}
}

func matchGame(day int, ours, theirs string, weWon bool) domain.GameRecord {
	return domain.GameRecord{
		SeriesID:   fmt.Sprintf("s%d", day),
		GameNumber: 1,
		StartTime:  time.Date(2025, 5, day, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Team: domain.TeamGameState{
			TeamID:  "A",
			Won:     domain.BoolPtr(weWon),
			Kills:   10,
			Deaths:  5,
			Players: []domain.PlayerPerf{{PlayerID: "a1", Role: "top", Character: ours}},
		},
		Opponent: domain.TeamGameState{
			TeamID:  "B",
			Won:     domain.BoolPtr(!weWon),
			Kills:   5,
			Deaths:  10,
			Players: []domain.PlayerPerf{{PlayerID: "b1", Name: "Impact", Role: "top", Character: theirs}},
		},
		Result: domain.ResultFromStates(
			domain.TeamGameState{Won: domain.BoolPtr(weWon)},
			domain.TeamGameState{Won: domain.BoolPtr(!weWon)},
		),
	}
}

func TestBuildEmptyReport(t *testing.T) {
	rep := newBuilder().Build(nil, meta())

	assert.Equal(t, 0, rep.OpponentOverview.Games)
	assert.Equal(t, 0.0, rep.Randomness.Score)
	assert.NotNil(t, rep.Scenarios)
	assert.Empty(t, rep.Scenarios)
	assert.NotNil(t, rep.Counters.ByRole)
	assert.Empty(t, rep.Counters.ByRole)
	assert.NotNil(t, rep.PerPlayer)
	assert.NotNil(t, rep.Plan.BanPlan)
	assert.True(t, rep.MissingData.Objectives)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	for _, key := range []string{
		"meta", "data_coverage", "opponent_overview", "per_player", "draft_tendencies", "scenarios",
		"counters", "randomness", "plan", "insights", "visualization", "missing_data",
	} {
		raw, ok := top[key]
		require.True(t, ok, "missing key %s", key)
		assert.NotEqual(t, "null", string(raw), "key %s is null", key)
	}
}

func TestBuildGnarIntoOrnn(t *testing.T) {
	games := []domain.GameRecord{
		matchGame(20, "Gnar", "Ornn", true),
		matchGame(21, "Gnar", "Ornn", true),
	}
	a := newBuilder().Analyze(games, meta(), nil)
	rep := a.Report

	stats, ok := a.Matchups.Lookup("top", "Gnar", "Ornn")
	require.True(t, ok)
	assert.Equal(t, 2, stats.Games)
	assert.Equal(t, 2, stats.Wins)
	assert.InDelta(t, 0.667, stats.PosteriorWinrate(), 0.001)

	assert.Equal(t, 2, rep.OpponentOverview.Games)
	assert.Equal(t, 2, rep.OpponentOverview.Losses)
	assert.Equal(t, "high", rep.Counters.PersonalizationLevel)
	require.Len(t, rep.Counters.ByRole["top"], 1)
	assert.Equal(t, "Gnar", rep.Counters.ByRole["top"][0].OurChamp)

	assert.Equal(t, []string{"top"}, rep.Visualization.CounterMatrixRoles)
	m := rep.Visualization.CounterMatrix["top"]
	assert.Equal(t, []string{"Ornn"}, m.Rows)
	assert.Equal(t, []string{"Gnar"}, m.Cols)
	require.NotNil(t, m.Cells[0][0].Winrate)
	assert.InDelta(t, 0.667, *m.Cells[0][0].Winrate, 0.001)

	require.Len(t, rep.Visualization.DecisionTree, 1)
	node := rep.Visualization.DecisionTree[0]
	assert.Equal(t, "Ornn", node.OpponentPick)
	require.NotNil(t, node.Answer)
	assert.Equal(t, "Gnar", node.Answer.OurPick)
	assert.Nil(t, node.FollowUpBan, "the only priority pick is the row itself")

	assert.Contains(t, rep.Plan.BanPlan, "Ornn")
	assert.True(t, strings.HasPrefix(rep.Plan.DraftPlan, draftPlanPrefix+"Ornn"))
}

func TestBuildDeterministic(t *testing.T) {
	games := []domain.GameRecord{
		matchGame(10, "Gnar", "Ornn", true),
		matchGame(11, "Jax", "Ksante", false),
		matchGame(12, "Gnar", "Ornn", false),
		matchGame(13, "Jax", "Renekton", true),
		matchGame(14, "Gnar", "Ksante", true),
	}
	first, err := json.Marshal(newBuilder().Build(games, meta()))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := json.Marshal(newBuilder().Build(games, meta()))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestBuildPlan(t *testing.T) {
	draft := features.DraftTendencies{PriorityPicks: []features.PickWeight{
		{Character: "Azir"}, {Character: "Vi"}, {Character: "Rell"}, {Character: "Kaisa"},
	}}
	players := []features.PlayerTendency{
		{PlayerID: "p1", ComfortPicks: []features.PickWeight{{Character: "Azir", Share: 0.8}}},
		{PlayerID: "p2", ComfortPicks: []features.PickWeight{{Character: "Nautilus", Share: 0.5}}},
		{PlayerID: "p3", ComfortPicks: []features.PickWeight{{Character: "Jinx", Share: 0.6}}},
		{PlayerID: "p4", ComfortPicks: []features.PickWeight{{Character: "Gnar", Share: 0.7}}},
		{PlayerID: "p5", ComfortPicks: []features.PickWeight{{Character: "Sylas", Share: 0.3}}},
	}

	plan := buildPlan(players, draft, randomness.Result{Interpretation: randomness.InterpretationChaotic})
	assert.Equal(t, []string{"Azir", "Vi", "Rell", "Nautilus", "Jinx"}, plan.BanPlan)
	assert.Equal(t, draftPlanPrefix+"Azir, Vi, Rell, Kaisa"+draftPlanSuffix+draftPlanChaotic, plan.DraftPlan)

	calm := buildPlan(nil, draft, randomness.Result{Interpretation: randomness.InterpretationPredictable})
	assert.Equal(t, []string{"Azir", "Vi", "Rell"}, calm.BanPlan)
	assert.False(t, strings.HasSuffix(calm.DraftPlan, draftPlanChaotic))
}

func TestStableOverlap(t *testing.T) {
	opp := []features.ChampionWinrate{{Character: "Vi"}, {Character: "Azir"}, {Character: "Vi"}}
	team := []features.ChampionWinrate{{Character: "Azir"}, {Character: "Vi"}, {Character: "Rell"}}

	got := stableOverlap(opp, team)
	assert.Equal(t, []string{"Azir", "Vi"}, got.SharedChampions)
	assert.Equal(t, 2, got.Count)

	none := stableOverlap(nil, team)
	assert.NotNil(t, none.SharedChampions)
	assert.Equal(t, 0, none.Count)
}
