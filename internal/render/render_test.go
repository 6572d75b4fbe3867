package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/insights"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

var refNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func analysis(t *testing.T) *report.Analysis {
	t.Helper()
	var games []domain.GameRecord
	for i, weWon := range []bool{false, false, true} {
		games = append(games, domain.GameRecord{
			SeriesID:   fmt.Sprintf("s%d", i+1),
			GameNumber: 1,
			StartTime:  refNow.AddDate(0, 0, -(i + 1)).Format(time.RFC3339),
			Team: domain.TeamGameState{
				TeamID:  "A",
				Won:     domain.BoolPtr(weWon),
				Players: []domain.PlayerPerf{{PlayerID: "a1", Role: "top", Character: "Ornn"}},
			},
			Opponent: domain.TeamGameState{
				TeamID:  "B",
				Won:     domain.BoolPtr(!weWon),
				Kills:   10,
				Deaths:  6,
				Players: []domain.PlayerPerf{{PlayerID: "b1", Name: "Impact", Role: "top", Character: "Gnar"}},
			},
		})
	}
	meta := domain.FetchMeta{TeamName: "Cloud9", OpponentName: "Team Liquid", WindowGTE: "2025-01-01T00:00:00Z"}
	return report.NewBuilder(clustering.NewSilhouetteScorer()).
		WithClock(func() time.Time { return refNow }).
		Analyze(games, meta, nil)
}

func TestText(t *testing.T) {
	out := Text(analysis(t).Report)

	assert.True(t, strings.HasPrefix(out, "SCOUTING REPORT\n"))
	assert.Contains(t, out, "Opponent: Team Liquid | Team: Cloud9")
	assert.Contains(t, out, "Games: 3 | Wins: 2 | Losses: 1")
	assert.Contains(t, out, "\nScenarios\n")
	assert.Contains(t, out, "\nCounter Ideas")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestTextEmptyReport(t *testing.T) {
	rep := report.NewBuilder(clustering.NewSilhouetteScorer()).Build(nil, domain.FetchMeta{OpponentName: "G2"})

	out := Text(rep)

	assert.Contains(t, out, "Games: 0")
	assert.NotContains(t, out, "- Scenario")
}

func TestInsights(t *testing.T) {
	a := analysis(t)

	out := Insights(insights.Generate(a, refNow))

	assert.True(t, strings.HasPrefix(out, "EXECUTIVE SUMMARY\n"))
	assert.Contains(t, out, "Draft Guide (")
	assert.Contains(t, out, "Trend: ")
	assert.Contains(t, out, "Sides: ")
}

func TestWriteCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := WriteCharts(analysis(t).Report, dir, DefaultChartConfig())

	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
		assert.Equal(t, dir, filepath.Dir(p))
	}
	assert.Contains(t, paths, filepath.Join(dir, "style_triangle.html"))
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "top_lane-1", fileSafe("top lane-1"))
	assert.Equal(t, "a_b_c", fileSafe("a/b.c"))
}
