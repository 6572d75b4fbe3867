// Package render formats built reports for humans: plain text and HTML charts.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/insights"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

const (
	textScenarioLimit = 4
	textCounterLimit  = 3
)

// Text renders the compact terminal summary of a report.
func Text(rep *report.Report) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	meta, ov, rnd := rep.Meta, rep.OpponentOverview, rep.Randomness
	line("SCOUTING REPORT")
	line("Opponent: %s | Team: %s", meta.OpponentName, meta.TeamName)
	line("Window: %s -> %s", meta.WindowGTE, meta.WindowLTE)
	line("")

	line("Overview")
	line("Games: %d | Wins: %d | Losses: %d | Avg K/D: %.2f/%.2f", ov.Games, ov.Wins, ov.Losses, ov.AvgKills, ov.AvgDeaths)
	line("Randomness: %.1f (%s)", rnd.Score, rnd.Interpretation)
	line("")

	line("Scenarios")
	for i, s := range rep.Scenarios {
		if i == textScenarioLimit {
			break
		}
		line("- Scenario %d: share %.2f | winrate %.2f | volatility %.2f", s.ScenarioID, s.Share, s.Winrate, s.Volatility)
		if len(s.SignaturePicks) > 0 {
			sig := make([]string, 0, len(s.SignaturePicks))
			for _, role := range signatureRoles(s.Roles, s.SignaturePicks) {
				sig = append(sig, role+":"+s.SignaturePicks[role])
			}
			line("  signature: %s", strings.Join(sig, ", "))
		}
		line("  punish: %s", s.PunishPlan)
	}

	line("")
	line("Counter Ideas")
	for _, role := range counterRoles(rep) {
		items := rep.Counters.ByRole[role]
		if len(items) == 0 {
			continue
		}
		line("- %s", role)
		for i, it := range items {
			if i == textCounterLimit {
				break
			}
			line("  %s vs %s | wr %.2f | samples %d", it.OurChamp, it.TheirChamp, it.ExpectedWinrate, it.Samples)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func signatureRoles(order []string, picks map[string]string) []string {
	if len(order) == len(picks) {
		return order
	}
	roles := make([]string, 0, len(picks))
	for r := range picks {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// counterRoles lists counter roles in matrix order, then any others alphabetically.
func counterRoles(rep *report.Report) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, r := range rep.Visualization.CounterMatrixRoles {
		if _, ok := rep.Counters.ByRole[r]; ok && !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	var rest []string
	for r := range rep.Counters.ByRole {
		if !seen[r] {
			rest = append(rest, r)
		}
	}
	sort.Strings(rest)
	return append(roles, rest...)
}

// Insights renders the narrative layer below the report text.
func Insights(e *insights.Enhanced) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	sum := e.ExecutiveSummary
	line("EXECUTIVE SUMMARY")
	line("%s", sum.Headline)
	line("%s", sum.Profile)
	line("Risk: %s | Confidence: %s", sum.RiskLevel, sum.Confidence)
	for _, s := range sum.KeyStrengths {
		line("+ %s", s)
	}
	for _, w := range sum.KeyWeaknesses {
		line("- %s", w)
	}
	line("Game plan: %s", sum.GamePlan)
	line("")

	line("Draft Guide (%s)", e.DraftGuide.PhaseStrategy)
	for _, ban := range e.DraftGuide.MustBan {
		line("  ban %s: %s", ban.Champion, ban.Reason)
	}
	line("  %s", e.DraftGuide.Summary)
	line("")

	line("Trend: %s - %s", e.Trends.Trajectory, e.Trends.TrajectoryNote)
	line("Sides: %s - %s", e.SideAnalysis.Preference, e.SideAnalysis.PreferenceNote)
	line("Series: %s / %s", e.SeriesMomentum.MentalProfile, e.SeriesMomentum.Adaptation)
	for _, c := range e.CheesePicks {
		line("! %s", c.Warning)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
