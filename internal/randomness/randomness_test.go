package randomness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

func game(day int, picks ...string) domain.GameRecord {
	g := domain.GameRecord{StartTime: fmt.Sprintf("2025-05-%02dT00:00:00Z", day)}
	for i, c := range picks {
		g.Opponent.Players = append(g.Opponent.Players, domain.PlayerPerf{
			PlayerID:  fmt.Sprintf("p%d", i),
			Role:      fmt.Sprintf("r%d", i),
			Character: c,
		})
	}
	return g
}

func score(games []domain.GameRecord) Result {
	res := scenarios.NewClusterer(clustering.NewSilhouetteScorer()).Cluster(games)
	return Compute(games, res.Cards)
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil, nil)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, InterpretationNone, res.Interpretation)
}

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name  string
		games []domain.GameRecord
	}{
		{name: "single game", games: []domain.GameRecord{game(1, "Gnar")}},
		{name: "same picks", games: []domain.GameRecord{game(1, "Gnar", "Azir"), game(2, "Gnar", "Azir"), game(3, "Gnar", "Azir")}},
		{name: "all different", games: []domain.GameRecord{
			game(1, "Gnar", "Azir"), game(2, "Ornn", "Syndra"), game(3, "Jax", "Orianna"), game(4, "Ksante", "Ahri"),
		}},
		{name: "no characters", games: []domain.GameRecord{{}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := score(tt.games)
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, 100.0)
			assert.NotEmpty(t, res.Interpretation)
		})
	}
}

func TestComputeOneTrickIsPredictable(t *testing.T) {
	games := []domain.GameRecord{game(1, "Gnar"), game(2, "Gnar"), game(3, "Gnar"), game(4, "Gnar")}
	res := score(games)
	assert.Equal(t, 0.0, res.DraftEntropy)
	assert.Equal(t, 0.0, res.PlayerEntropy)
	assert.Equal(t, 0.0, res.Drift)
	assert.Equal(t, InterpretationPredictable, res.Interpretation)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, InterpretationPredictable},
		{34.9, InterpretationPredictable},
		{35, InterpretationFlexible},
		{64.9, InterpretationFlexible},
		{65, InterpretationChaotic},
		{100, InterpretationChaotic},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			got, advice := Interpret(tt.score)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, advice)
		})
	}
}

func TestJSDivergence(t *testing.T) {
	p := features.NewTally()
	p.Add("a", 1)
	q := features.NewTally()
	q.Add("b", 1)

	assert.InDelta(t, 1.0, JSDivergence(p, q), 1e-9)
	assert.InDelta(t, 0.0, JSDivergence(p, p), 1e-9)
	assert.Equal(t, 0.5, JSDivergence(p, features.NewTally()))
	assert.Equal(t, 0.5, JSDivergence(features.NewTally(), q))
	assert.Equal(t, 0.0, JSDivergence(features.NewTally(), features.NewTally()))
}

func TestComputeDriftWithEmptyRecentSlice(t *testing.T) {
	tests := []struct {
		name  string
		games []domain.GameRecord
		drift float64
	}{
		{name: "single game", games: []domain.GameRecord{game(1, "Gnar")}, drift: 0.5},
		{name: "newest game has no picks", games: []domain.GameRecord{
			game(1, "Gnar"), game(2, "Gnar"), game(3, "Gnar"), game(4),
		}, drift: 0.5},
		{name: "no picks anywhere", games: []domain.GameRecord{game(1), game(2)}, drift: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.games, nil)
			assert.Equal(t, tt.drift, res.Drift)
		})
	}
}

func TestComputeSingleGameScoresDriftOnly(t *testing.T) {
	res := Compute([]domain.GameRecord{game(1, "Gnar")}, nil)

	assert.InDelta(t, 100*constants.WeightDrift*0.5, res.Score, 1e-9)
}
