package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

var refNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func topGame(teamPick, oppPick string, oppWon bool) domain.GameRecord {
	return domain.GameRecord{
		SeriesID:  "s1",
		StartTime: "2025-05-20T12:00:00Z",
		Team: domain.TeamGameState{
			TeamID:  "A",
			Won:     domain.BoolPtr(!oppWon),
			Players: []domain.PlayerPerf{{PlayerID: "a1", Role: "top", Character: teamPick}},
		},
		Opponent: domain.TeamGameState{
			TeamID:  "B",
			Won:     domain.BoolPtr(oppWon),
			Players: []domain.PlayerPerf{{PlayerID: "b1", Role: "top", Character: oppPick}},
		},
	}
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    float64
	}{
		{name: "empty", weights: nil, want: 0},
		{name: "single category", weights: []float64{5}, want: 0},
		{name: "uniform over two", weights: []float64{1, 1}, want: 1},
		{name: "uniform over five", weights: []float64{2, 2, 2, 2, 2}, want: 1},
		{name: "zeros ignored", weights: []float64{3, 0, 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Entropy(tt.weights), 1e-9)
		})
	}

	skewed := Entropy([]float64{9, 1})
	assert.Greater(t, skewed, 0.0)
	assert.Less(t, skewed, 1.0)
}

func TestRecencyWeight(t *testing.T) {
	assert.Equal(t, 1.0, RecencyWeight("", refNow))
	assert.Equal(t, 1.0, RecencyWeight("not a date", refNow))
	assert.Equal(t, 1.0, RecencyWeight("2025-07-01T00:00:00Z", refNow), "future timestamps are not discounted")
	assert.InDelta(t, 0.5, RecencyWeight("2025-05-02T00:00:00Z", refNow), 1e-9)
	assert.InDelta(t, 0.25, RecencyWeight("2025-04-02", refNow), 1e-9)
}

func TestDaysAgo(t *testing.T) {
	assert.Equal(t, 999.0, DaysAgo("", refNow))
	assert.InDelta(t, 10, DaysAgo("2025-05-22T00:00:00Z", refNow), 1e-9)
}

func TestChampionWinratesOpponentPicks(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Gnar", true),
		topGame("Gnar", "Ornn", false),
		topGame("Gnar", "Gnar", false),
	}

	rows := ChampionWinrates(games, domain.SideOpponent, 3)
	require.Len(t, rows, 2)

	assert.Equal(t, "Gnar", rows[0].Character)
	assert.Equal(t, 2, rows[0].Games)
	assert.Equal(t, 1, rows[0].Wins)
	assert.False(t, rows[0].Stable)

	assert.Equal(t, "Ornn", rows[1].Character)
	assert.Equal(t, 1, rows[1].Games)
	assert.False(t, rows[1].Stable)

	assert.Empty(t, StableOnly(rows))
}

func TestChampionWinratesBounds(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Jax", "Ornn", true),
		topGame("Jax", "Ksante", false),
		topGame("Gnar", "Ornn", false),
	}
	unknown := topGame("Gnar", "Renekton", false)
	unknown.Opponent.Won = nil
	games = append(games, unknown)

	for _, side := range []domain.Side{domain.SideTeam, domain.SideOpponent} {
		for _, r := range ChampionWinrates(games, side, 1) {
			assert.GreaterOrEqual(t, r.Winrate, 0.0)
			assert.LessOrEqual(t, r.Winrate, 1.0)
			assert.LessOrEqual(t, r.Wins, r.Games)
			if r.Games == r.Wins {
				assert.Equal(t, 1.0, r.Winrate)
			}
			assert.NotEqual(t, "Renekton", r.Character, "games with unknown outcome are skipped")
		}
	}
}

func TestCounterfactualBans(t *testing.T) {
	var games []domain.GameRecord
	for i := 0; i < 3; i++ {
		games = append(games, topGame("x", "Gnar", true))
	}
	for i := 0; i < 3; i++ {
		games = append(games, topGame("x", "Ornn", i == 0))
	}

	bans := CounterfactualBans(games, domain.SideOpponent, 3)
	require.Len(t, bans, 1)
	assert.Equal(t, "Gnar", bans[0].BanChamp)
	assert.Equal(t, "Ornn", bans[0].Replacement)
	assert.InDelta(t, 1-1.0/3, bans[0].EstimatedWinrateDrop, 1e-9)

	assert.Empty(t, CounterfactualBans(games[:4], domain.SideOpponent, 3))
}

func TestRosterStability(t *testing.T) {
	roster := func(ids ...string) domain.GameRecord {
		g := domain.GameRecord{}
		for _, id := range ids {
			g.Opponent.Players = append(g.Opponent.Players, domain.PlayerPerf{PlayerID: id})
		}
		return g
	}

	t.Run("full roster every game", func(t *testing.T) {
		games := []domain.GameRecord{
			roster("p1", "p2", "p3", "p4", "p5"),
			roster("p1", "p2", "p3", "p4", "p5"),
		}
		rs := ComputeRosterStability(games, domain.SideOpponent)
		assert.Equal(t, 5, rs.UniquePlayers)
		assert.Equal(t, 1.0, rs.Top5Share)
	})

	t.Run("empty", func(t *testing.T) {
		rs := ComputeRosterStability(nil, domain.SideOpponent)
		assert.Equal(t, 0, rs.UniquePlayers)
		assert.Equal(t, 0.0, rs.Top5Share)
	})

	t.Run("substitutes", func(t *testing.T) {
		games := []domain.GameRecord{
			roster("p1", "p2", "p3", "p4", "p5"),
			roster("p1", "p2", "p3", "p4", "p6"),
			roster("p1", "p2", "p3", "p7", "p6"),
		}
		rs := ComputeRosterStability(games, domain.SideOpponent)
		assert.Equal(t, 7, rs.UniquePlayers)
		assert.InDelta(t, 13.0/15.0, rs.Top5Share, 1e-9)
	})
}

func TestComfortPicks(t *testing.T) {
	tally := NewTally()
	tally.Add("Azir", 4)
	tally.Add("Orianna", 3)
	tally.Add("Syndra", 3)

	picks := ComfortPicks(tally)
	require.Len(t, picks, 2)
	assert.Equal(t, "Azir", picks[0].Character)
	assert.InDelta(t, 0.4, picks[0].Share, 1e-9)
	assert.Equal(t, "Orianna", picks[1].Character, "ties keep first-seen order")

	assert.Empty(t, ComfortPicks(NewTally()))
}

func TestPlayerTendencies(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Gnar", "Ornn", true),
	}
	games[1].Opponent.Players = append(games[1].Opponent.Players, domain.PlayerPerf{PlayerID: "b2", Role: "mid", Character: "Azir"})

	pt := ComputePlayerTendencies(games, refNow)
	assert.Equal(t, []string{"b1", "b2"}, pt.Order)
	assert.Equal(t, 2, pt.GamesWithPlayerChars)
	assert.Equal(t, "top", pt.PerPlayer["b1"].Role)
	assert.Equal(t, 0.0, pt.PerPlayer["b1"].Volatility)

	empty := ComputePlayerTendencies(nil, refNow)
	assert.Empty(t, empty.PerPlayer)
	assert.Empty(t, empty.Ordered())
}

func TestMatchOutcomes(t *testing.T) {
	games := []domain.GameRecord{
		topGame("Gnar", "Ornn", true),
		topGame("Gnar", "Ornn", false),
	}
	games[0].Opponent.Kills, games[0].Opponent.Deaths = 10, 4
	games[1].Opponent.Kills, games[1].Opponent.Deaths = 6, 8

	out := ComputeMatchOutcomes(games)
	assert.Equal(t, 2, out.Games)
	assert.Equal(t, 1, out.Wins)
	assert.Equal(t, 1, out.Losses)
	assert.Equal(t, 8.0, out.AvgKills)
	assert.Equal(t, 6.0, out.AvgDeaths)

	assert.Equal(t, 0, ComputeMatchOutcomes(nil).Games)
}

func TestTallyOrdering(t *testing.T) {
	tally := NewTally()
	tally.Add("b", 1)
	tally.Add("a", 2)
	tally.Add("c", 1)

	assert.Equal(t, "a", tally.Top())
	assert.Equal(t, []string{"a", "b", "c"}, tally.TopKeys(5))
	assert.Equal(t, []string{"b", "a", "c"}, tally.Keys())
	assert.False(t, math.IsNaN(tally.Total()))
	assert.Equal(t, "", NewTally().Top())
}
