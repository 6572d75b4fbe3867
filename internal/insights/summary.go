package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

type ExecutiveSummary struct {
	Headline       string   `json:"headline"`
	Profile        string   `json:"profile"`
	KeyStrengths   []string `json:"key_strengths"`
	KeyWeaknesses  []string `json:"key_weaknesses"`
	GamePlan       string   `json:"game_plan"`
	RiskLevel      string   `json:"risk_level"`
	Confidence     string   `json:"confidence"`
	GamesAnalyzed  int      `json:"games_analyzed"`
	OverallWinrate float64  `json:"overall_winrate"`
	RecentWinrate  float64  `json:"recent_winrate"`
}

type namedPlayer struct {
	name, role string
}

func (p namedPlayer) String() string {
	return fmt.Sprintf("%s (%s)", p.name, p.role)
}

func joinPlayers(players []namedPlayer, n int) string {
	parts := make([]string, 0, n)
	for i, p := range players {
		if i == n {
			break
		}
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

func predictability(score float64) (string, string) {
	switch {
	case score < 35:
		return "very predictable", "You can hard-read their drafts"
	case score < 50:
		return "fairly predictable", "Target their comfort picks in bans"
	case score < 65:
		return "moderately flexible", "Prepare for 2-3 different styles"
	default:
		return "unpredictable", "Stay flexible, don't over-commit to one read"
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Summarize writes the coach-facing overview of the opponent.
func Summarize(games []domain.GameRecord, players []features.PlayerTendency, cards []scenarios.Card, randScore float64, opponent string, now time.Time) ExecutiveSummary {
	if len(games) == 0 {
		return ExecutiveSummary{
			Headline:      "Insufficient data on " + opponent,
			Profile:       "Not enough games to analyze.",
			KeyStrengths:  []string{},
			KeyWeaknesses: []string{},
			GamePlan:      "Gather more data before preparing.",
			RiskLevel:     "unknown",
			Confidence:    "low",
		}
	}

	total := len(games)
	wins, recentGames, recentWins := 0, 0, 0
	for i := range games {
		won := games[i].Opponent.HasWon()
		if won {
			wins++
		}
		if features.DaysAgo(games[i].StartTime, now) <= recentWindowDays {
			recentGames++
			if won {
				recentWins++
			}
		}
	}
	losses := total - wins
	winrate := float64(wins) / float64(total)
	recentWR := winrate
	if recentGames > 0 {
		recentWR = float64(recentWins) / float64(recentGames)
	}

	predict, draftAdvice := predictability(randScore)

	var stars, weak []namedPlayer
	for _, p := range players {
		rec := collectPlayer(games, p.PlayerID, now)
		_, share := topComfort(p)
		np := namedPlayer{name: displayName(p), role: displayRole(p)}
		switch threat := ThreatLevel(rec.winrate(), rec.games, share); {
		case threat == "critical" || threat == "high":
			stars = append(stars, np)
		case threat == "low" && rec.games >= 5:
			weak = append(weak, np)
		}
	}

	strengths := []string{}
	if winrate >= 0.55 {
		strengths = append(strengths, fmt.Sprintf("Strong overall record (%dW-%dL, %s winrate)", wins, losses, pct(winrate)))
	}
	if recentWR > winrate+0.1 {
		strengths = append(strengths, "Currently in good form - trending upward")
	}
	if len(stars) > 0 {
		strengths = append(strengths, "Star player(s): "+joinPlayers(stars, 2))
	}
	if randScore >= 60 {
		strengths = append(strengths, "Diverse champion pools - hard to ban out")
	}
	if len(cards) > 0 {
		best := cards[0]
		for _, c := range cards[1:] {
			if c.Winrate > best.Winrate {
				best = c
			}
		}
		if best.Winrate >= 0.6 && len(best.SignaturePicks) > 0 {
			picks := capList(best.SignatureOrdered(), 3)
			strengths = append(strengths, fmt.Sprintf("Deadly on their primary comp (%s WR): %s", pct(best.Winrate), strings.Join(picks, ", ")))
		}
	}

	weaknesses := []string{}
	if winrate < 0.45 {
		weaknesses = append(weaknesses, fmt.Sprintf("Struggling overall (%dW-%dL)", wins, losses))
	}
	if recentWR < winrate-0.1 {
		weaknesses = append(weaknesses, "Currently slumping - form is down")
	}
	if len(weak) > 0 {
		weaknesses = append(weaknesses, "Exploitable player(s): "+joinPlayers(weak, 2))
	}
	if randScore < 40 {
		weaknesses = append(weaknesses, "Predictable drafts - easy to prepare specific counters")
	}
	if len(cards) > 0 {
		worst := cards[0]
		for _, c := range cards[1:] {
			if c.Winrate < worst.Winrate {
				worst = c
			}
		}
		if worst.Winrate < 0.4 {
			weaknesses = append(weaknesses, fmt.Sprintf("Vulnerable when forced off comfort (%s WR in uncomfortable games)", pct(worst.Winrate)))
		}
	}

	var risk, riskNote string
	switch {
	case randScore >= 65 || (recentWR >= 0.6 && winrate < 0.5):
		risk, riskNote = "high", "Expect surprises - they can pop off"
	case randScore >= 50 || winrate >= 0.5:
		risk, riskNote = "medium", "Solid opponent - respect their strengths"
	default:
		risk, riskNote = "low", "Beatable if you execute your game plan"
	}

	var headline string
	switch {
	case winrate >= 0.6:
		headline = opponent + ": Top-tier opponent - prepare thoroughly"
	case winrate >= 0.5:
		headline = opponent + ": Competitive matchup - execution matters"
	case winrate >= 0.4:
		headline = opponent + ": Winnable matchup - don't underestimate"
	default:
		headline = opponent + ": Favorable matchup - stay focused"
	}

	profile := fmt.Sprintf(
		"%s has played %d games in the analyzed window with a %s winrate (%dW-%dL). They are %s in draft. %s. %s.",
		opponent, total, pct(winrate), wins, losses, predict, draftAdvice, riskNote,
	)

	var plan []string
	if len(weaknesses) > 0 {
		plan = append(plan, "Exploit: "+strings.ToLower(weaknesses[0]))
	}
	if len(strengths) > 0 {
		plan = append(plan, "Respect: "+strings.ToLower(strengths[0]))
	}
	plan = append(plan, draftAdvice)

	confidence := "low"
	switch {
	case total >= 15:
		confidence = "high"
	case total >= 8:
		confidence = "medium"
	}

	return ExecutiveSummary{
		Headline:       headline,
		Profile:        profile,
		KeyStrengths:   capList(strengths, 4),
		KeyWeaknesses:  capList(weaknesses, 4),
		GamePlan:       strings.Join(plan, ". ") + ".",
		RiskLevel:      risk,
		Confidence:     confidence,
		GamesAnalyzed:  total,
		OverallWinrate: winrate,
		RecentWinrate:  recentWR,
	}
}
