package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

func pick(playerID, role, character string) domain.PlayerPerf {
	return domain.PlayerPerf{PlayerID: playerID, Role: role, Character: character}
}

func oppGame(seriesID string, players ...domain.PlayerPerf) domain.GameRecord {
	return domain.GameRecord{
		SeriesID:   seriesID,
		GameNumber: 1,
		StartTime:  "2025-05-20T12:00:00Z",
		Opponent:   domain.TeamGameState{TeamID: "B", Players: players},
	}
}

func TestComputePlayerSimilarity(t *testing.T) {
	games := []domain.GameRecord{
		oppGame("s1", pick("p1", "", "A"), pick("p2", "", "A"), pick("p3", "", "X"), pick("p4", "", "A")),
		oppGame("s2", pick("p1", "", "B"), pick("p2", "", "B"), pick("p3", "", "Y")),
		oppGame("s3", pick("p1", "", "C"), pick("p2", "", "C"), pick("p3", "", "Z")),
		oppGame("s4", pick("p1", "", "D")),
	}
	games[0].Opponent.Players[0].Name = "Impact"

	got := ComputePlayerSimilarity(games, domain.SideOpponent, constants.SimilarityMinPool, constants.SimilarityTopPairs)

	require.Len(t, got.Players, 3, "p4 has a pool below the minimum")
	assert.Equal(t, SimilarityPlayer{ID: "p1", Name: "Impact", PoolSize: 4}, got.Players[0])
	assert.Equal(t, constants.SimilarityMinPool, got.MinUniqueChamps)

	require.Len(t, got.Edges, 1, "pairs without shared characters are dropped")
	edge := got.Edges[0]
	assert.Equal(t, PlayerRef{ID: "p1", Name: "Impact"}, edge.PlayerA)
	assert.Equal(t, PlayerRef{ID: "p2"}, edge.PlayerB)
	assert.InDelta(t, 0.75, edge.Similarity, 1e-9)
	assert.Equal(t, []string{"A", "B", "C"}, edge.SharedChamps)
	assert.Equal(t, PoolSizes{A: 4, B: 3}, edge.PoolSizes)
}

func TestComputePlayerSimilarityCapsPairs(t *testing.T) {
	tests := []struct {
		name     string
		players  int
		topPairs int
		want     int
	}{
		{name: "under cap", players: 4, topPairs: 30, want: 6},
		{name: "capped", players: 10, topPairs: 30, want: 30},
		{name: "small cap", players: 3, topPairs: 1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var games []domain.GameRecord
			for _, c := range []string{"A", "B", "C"} {
				g := oppGame("s" + c)
				for p := 0; p < tt.players; p++ {
					g.Opponent.Players = append(g.Opponent.Players, pick(fmt.Sprintf("p%d", p), "", c))
				}
				games = append(games, g)
			}

			got := ComputePlayerSimilarity(games, domain.SideOpponent, 3, tt.topPairs)

			assert.Len(t, got.Edges, tt.want)
			for _, e := range got.Edges {
				assert.Equal(t, 1.0, e.Similarity)
			}
		})
	}
}

func TestNormPair(t *testing.T) {
	tests := []struct {
		name  string
		a, b  float64
		wantA float64
		wantB float64
	}{
		{name: "ordered", a: 1, b: 3, wantA: 0, wantB: 1},
		{name: "reversed", a: 3, b: 1, wantA: 1, wantB: 0},
		{name: "equal", a: 2, b: 2, wantA: 0.5, wantB: 0.5},
		{name: "both zero", a: 0, b: 0, wantA: 0.5, wantB: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := normPair(tt.a, tt.b)
			assert.Equal(t, tt.wantA, a)
			assert.Equal(t, tt.wantB, b)
		})
	}
}

func TestNormalizeAxis(t *testing.T) {
	assert.Empty(t, NormalizeAxis(nil))
	assert.Equal(t, []float64{0, 0.5, 1}, NormalizeAxis([]float64{2, 4, 6}))
	assert.Equal(t, []float64{0.5, 0.5}, NormalizeAxis([]float64{7, 7}))
}

func TestComputeStyleTriangle(t *testing.T) {
	games := []domain.GameRecord{{
		Team: domain.TeamGameState{
			Won: domain.BoolPtr(true), Kills: 10, Deaths: 0,
			Players: []domain.PlayerPerf{pick("a1", "top", "Ornn")},
		},
		Opponent: domain.TeamGameState{
			Won: domain.BoolPtr(false), Kills: 0, Deaths: 10,
			Players: []domain.PlayerPerf{pick("b1", "top", "Gnar")},
		},
	}}

	got := ComputeStyleTriangle(games)

	assert.Equal(t, 1.0, got.Team.AggressionRaw)
	assert.Equal(t, 0.0, got.Opponent.AggressionRaw)
	assert.Equal(t, 1.0, got.Team.Aggression)
	assert.Equal(t, 0.0, got.Opponent.Aggression)
	assert.InDelta(t, 2.0, got.Team.ControlRaw, 1e-9)
	assert.InDelta(t, 1.0/11+1, got.Opponent.ControlRaw, 1e-9)
	assert.Equal(t, 1.0, got.Team.Control)
	assert.Equal(t, 0.0, got.Opponent.Control)
	assert.Equal(t, 0.5, got.Team.Flexibility, "single-pick pools tie")
	assert.Equal(t, 0.5, got.Opponent.Flexibility)
}

func TestComputeStyleTriangleEmpty(t *testing.T) {
	got := ComputeStyleTriangle(nil)

	assert.Equal(t, 0.5, got.Team.Aggression)
	assert.Equal(t, 0.5, got.Opponent.Control)
	assert.Equal(t, 0.5, got.Opponent.Flexibility)
}

func TestDraftTendenciesFlexPicks(t *testing.T) {
	tests := []struct {
		name  string
		games []domain.GameRecord
		want  []string
	}{
		{
			name: "two roles",
			games: []domain.GameRecord{
				oppGame("s1", pick("b1", "top", "Gnar"), pick("b2", "mid", "Azir")),
				oppGame("s2", pick("b2", "mid", "Gnar"), pick("b3", "mid", "Azir")),
			},
			want: []string{"Gnar"},
		},
		{
			name: "missing roles do not count",
			games: []domain.GameRecord{
				oppGame("s1", pick("b1", "", "Gnar")),
				oppGame("s2", pick("b2", "mid", "Gnar")),
			},
			want: []string{},
		},
		{name: "no games", games: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDraftTendencies(tt.games, refNow)
			assert.Equal(t, tt.want, got.FlexPicks)
		})
	}
}

func TestComputeDraftDNA(t *testing.T) {
	games := []domain.GameRecord{
		oppGame("s1", pick("b1", "", "A"), pick("b2", "", "B")),
		oppGame("s2", pick("b1", "", "A"), pick("b2", "", "B")),
		oppGame("s3", pick("b1", "", "C")),
	}

	got := ComputeDraftDNA(games, domain.SideOpponent, 10, constants.SimilarityThreshold)

	assert.Equal(t, 3, got.Games)
	assert.Equal(t, constants.SimilarityThreshold, got.SimilarityThreshold)
	assert.InDelta(t, 2.0/3, got.AvgNNSimilarity, 1e-9)
	assert.InDelta(t, 2.0/3, got.SimilarityCoverage, 1e-9)
	require.Len(t, got.NearestNeighbors, 3)
	assert.Equal(t, GameRef{SeriesID: "s1", GameNumber: 1}, got.NearestNeighbors[0].Game)
	assert.Equal(t, GameRef{SeriesID: "s2", GameNumber: 1}, got.NearestNeighbors[0].Nearest)
	assert.InDelta(t, 1.0, got.NearestNeighbors[0].Similarity, 1e-9)
	assert.Equal(t, GameRef{SeriesID: "s3", GameNumber: 1}, got.NearestNeighbors[2].Game)
	assert.Equal(t, GameRef{SeriesID: "s1", GameNumber: 1}, got.NearestNeighbors[2].Nearest)
	assert.Equal(t, 0.0, got.NearestNeighbors[2].Similarity)
}

func TestComputeDraftDNASmall(t *testing.T) {
	tests := []struct {
		name  string
		games []domain.GameRecord
		want  int
	}{
		{name: "empty", games: nil, want: 0},
		{name: "single game has no neighbor", games: []domain.GameRecord{oppGame("s1", pick("b1", "", "A"))}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDraftDNA(tt.games, domain.SideOpponent, 10, constants.SimilarityThreshold)
			assert.Equal(t, tt.want, got.Games)
			assert.NotNil(t, got.NearestNeighbors)
			assert.Empty(t, got.NearestNeighbors)
			assert.Equal(t, 0.0, got.AvgNNSimilarity)
		})
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine(clustering.Vector{1, 1}, clustering.Vector{2, 2}), 1e-9)
	assert.Equal(t, 0.0, cosine(clustering.Vector{1, 0}, clustering.Vector{0, 1}))
	assert.Equal(t, 0.0, cosine(clustering.Vector{0, 0}, clustering.Vector{1, 1}))
}

func TestComputeSignatureClusters(t *testing.T) {
	tempoGame := func(id string, tempo int, won bool, players ...domain.PlayerPerf) domain.GameRecord {
		g := oppGame(id, players...)
		g.Opponent.Kills = tempo
		g.Opponent.Won = domain.BoolPtr(won)
		return g
	}
	games := []domain.GameRecord{
		tempoGame("s1", 2, true, pick("b1", "top", "Gnar"), pick("b2", "mid", "Azir")),
		tempoGame("s2", 2, true, pick("b1", "top", "Gnar")),
		tempoGame("s3", 2, false, pick("b1", "top", "Gnar")),
		tempoGame("s4", 20, false, pick("b1", "top", "Jax")),
	}
	sel := clustering.NewSelector(clustering.HeuristicScorer{}, 4)

	got := ComputeSignatureClusters(games, domain.SideOpponent, 10, sel)

	assert.Equal(t, 4, got.Games)
	assert.Equal(t, 2, got.K)
	require.Len(t, got.Clusters, 2)
	assert.InDelta(t, 0.75, got.Clusters[0].Share, 1e-9)
	assert.InDelta(t, 2.0/3, got.Clusters[0].Winrate, 1e-9)
	assert.Equal(t, []string{"Gnar", "Azir"}, got.Clusters[0].TopChamps)
	assert.InDelta(t, 0.25, got.Clusters[1].Share, 1e-9)
	assert.Equal(t, 0.0, got.Clusters[1].Winrate)
	assert.Equal(t, []string{"Jax"}, got.Clusters[1].TopChamps)
	require.NotNil(t, got.PrimaryCluster)
	assert.Equal(t, got.Clusters[0], *got.PrimaryCluster)
}

func TestComputeSignatureClustersEmpty(t *testing.T) {
	got := ComputeSignatureClusters(nil, domain.SideOpponent, 10, clustering.NewSelector(nil, 4))

	assert.Equal(t, 0, got.Games)
	assert.NotNil(t, got.Clusters)
	assert.Nil(t, got.PrimaryCluster)
}

func TestComputeDataCoverage(t *testing.T) {
	games := []domain.GameRecord{
		oppGame("s1", pick("b1", "top", "Gnar")),
		oppGame("s2", pick("b1", "", "Gnar")),
		oppGame("s3"),
		oppGame("s4", pick("b1", "top", "")),
	}

	got := ComputeDataCoverage(games)

	assert.Equal(t, DataCoverage{GamesTotal: 4, GamesWithPlayerChars: 2, GamesWithRoles: 2}, got)
}
