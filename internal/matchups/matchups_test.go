package matchups

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

var refNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func topGame(ours, theirs string, weWon bool) domain.GameRecord {
	return domain.GameRecord{
		StartTime: "2025-05-30T00:00:00Z",
		Team: domain.TeamGameState{
			TeamID:  "A",
			Won:     domain.BoolPtr(weWon),
			Players: []domain.PlayerPerf{{PlayerID: "a1", Role: "top", Character: ours}},
		},
		Opponent: domain.TeamGameState{
			TeamID:  "B",
			Won:     domain.BoolPtr(!weWon),
			Players: []domain.PlayerPerf{{PlayerID: "b1", Role: "top", Character: theirs}},
		},
	}
}

func TestGnarIntoOrnn(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Gnar", "Ornn", true),
	}

	table := BuildTable(games)
	stats, ok := table.Lookup("top", "Gnar", "Ornn")
	require.True(t, ok)
	assert.Equal(t, 2, stats.Games)
	assert.Equal(t, 2, stats.Wins)
	assert.InDelta(t, 0.667, stats.PosteriorWinrate(), 0.001)
	assert.InDelta(t, 0.1, stats.Confidence(), 1e-9)

	_, ok = table.Lookup("top", "Ornn", "Gnar")
	assert.False(t, ok)
}

func TestPosteriorWinrate(t *testing.T) {
	assert.Equal(t, 0.5, Stats{}.PosteriorWinrate())
	assert.Equal(t, 0.0, Stats{}.Confidence())

	for _, n := range []int{1, 10, 100, 10000} {
		all := Stats{Games: n, Wins: n}.PosteriorWinrate()
		none := Stats{Games: n}.PosteriorWinrate()
		assert.Greater(t, all, 0.0)
		assert.Less(t, all, 1.0)
		assert.Greater(t, none, 0.0)
		assert.Less(t, none, 1.0)
	}

	big := Stats{Games: 100000, Wins: 70000}
	assert.InDelta(t, 0.7, big.PosteriorWinrate(), 0.001)
	assert.Equal(t, 1.0, big.Confidence())
}

func TestBuildTableFirstRoleWins(t *testing.T) {
	g := topGame("Gnar", "Ornn", false)
	g.Team.Players = append(g.Team.Players, domain.PlayerPerf{PlayerID: "a9", Role: "top", Character: "Jax"})

	table := BuildTable([]domain.GameRecord{g})
	require.Len(t, table, 1)
	stats, ok := table.Lookup("top", "Gnar", "Ornn")
	require.True(t, ok)
	assert.Equal(t, 0, stats.Wins)
}

func TestOurPickPools(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Jax", "Ornn", false),
	}
	pools := OurPickPools(games, refNow)
	require.Len(t, pools, 1)
	assert.Equal(t, "a1", pools[0].PlayerID)
	assert.Equal(t, []string{"Gnar", "Jax"}, pools[0].Picks.Keys())

	flat := pools.Flatten()
	assert.Equal(t, 2, flat.Len())
}

func TestSuggestCounters(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Gnar", "Ornn", true),
		topGame("Jax", "Ornn", false),
	}
	table := BuildTable(games)
	opponents := []features.PlayerTendency{{
		PlayerID:     "b1",
		Role:         "top",
		ComfortPicks: []features.PickWeight{{Character: "Ornn", Weight: 3, Share: 1}},
	}}

	t.Run("personalized", func(t *testing.T) {
		c := SuggestCounters(table, opponents, OurPickPools(games, refNow), 3)
		assert.Equal(t, "high", c.PersonalizationLevel)
		require.Len(t, c.ByRole["top"], 2)
		assert.Equal(t, "Gnar", c.ByRole["top"][0].OurChamp)
		assert.Equal(t, "Ornn", c.ByRole["top"][0].TheirChamp)
		assert.Equal(t, 2, c.ByRole["top"][0].Samples)
	})

	t.Run("table fallback", func(t *testing.T) {
		c := SuggestCounters(table, opponents, nil, 1)
		assert.Equal(t, "low", c.PersonalizationLevel)
		require.Len(t, c.ByRole["top"], 1)
		assert.Equal(t, "Gnar", c.ByRole["top"][0].OurChamp)
	})

	t.Run("no history", func(t *testing.T) {
		c := SuggestCounters(Table{}, opponents, nil, 3)
		assert.NotNil(t, c.ByRole)
		assert.Empty(t, c.ByRole)
	})
}

func TestCandidatePool(t *testing.T) {
	table := BuildTable([]domain.GameRecord{
		topGame("Jax", "Ornn", true),
		topGame("Gnar", "Ornn", true),
	})
	pool, level := CandidatePool(table, nil)
	assert.Equal(t, "low", level)
	assert.Equal(t, []string{"Gnar", "Jax"}, pool.Keys())
}
