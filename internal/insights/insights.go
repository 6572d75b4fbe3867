// Package insights decorates a built report with coach-facing narrative: summary,
// player cards, scenario playbooks, draft guide, trends, side and series analysis.
package insights

import (
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

type Enhanced struct {
	ExecutiveSummary ExecutiveSummary      `json:"executive_summary"`
	Players          map[string]PlayerCard `json:"enhanced_players"`
	Scenarios        []ScenarioInsight     `json:"enhanced_scenarios"`
	DraftGuide       DraftGuide            `json:"draft_guide"`
	Trends           Trends                `json:"trends"`
	SideAnalysis     SideAnalysis          `json:"side_analysis"`
	SeriesMomentum   SeriesMomentum        `json:"series_momentum"`
	CheesePicks      []CheesePick          `json:"cheese_picks"`
}

// Generate derives the narrative from an analysis. now anchors recency windows.
func Generate(a *report.Analysis, now time.Time) *Enhanced {
	rep := a.Report
	players := a.Players.Ordered()
	score := rep.Randomness.Score

	return &Enhanced{
		ExecutiveSummary: Summarize(a.Games, players, rep.Scenarios, score, rep.Meta.OpponentName, now),
		Players:          PlayerCards(a.Games, players, now),
		Scenarios:        ScenarioInsights(rep.Scenarios, a.Scenarios.Clusters),
		DraftGuide:       BuildDraftGuide(players, rep.DraftTendencies, rep.Counters, score),
		Trends:           AnalyzeTrends(a.Games, now),
		SideAnalysis:     AnalyzeSides(a.Games),
		SeriesMomentum:   AnalyzeMomentum(a.Games),
		CheesePicks:      CheesePicks(a.Games),
	}
}
