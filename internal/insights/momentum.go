package insights

import (
	"fmt"
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type MomentumSplit struct {
	Games   int      `json:"games"`
	Winrate *float64 `json:"winrate"`
	Note    string   `json:"note"`
}

type SeriesMomentum struct {
	Game1           MomentumSplit `json:"game_1"`
	LaterGames      MomentumSplit `json:"later_games"`
	AfterLoss       MomentumSplit `json:"after_loss"`
	AfterWin        MomentumSplit `json:"after_win"`
	MentalProfile   string        `json:"mental_profile"`
	MentalNote      string        `json:"mental_note"`
	Adaptation      string        `json:"adaptation"`
	AdaptationNote  string        `json:"adaptation_note"`
	ClutchFactor    string        `json:"clutch_factor"`
	SeriesComebacks int           `json:"series_comebacks"`
	SeriesChokes    int           `json:"series_chokes"`
	TotalSeries     int           `json:"total_series"`
}

func split(games, wins int, format string) MomentumSplit {
	out := MomentumSplit{Games: games, Note: "No data"}
	if games > 0 {
		wr := float64(wins) / float64(games)
		out.Winrate = &wr
		out.Note = fmt.Sprintf(format, pct(wr))
	}
	return out
}

// AnalyzeMomentum looks at how results carry across games within a series.
func AnalyzeMomentum(games []domain.GameRecord) SeriesMomentum {
	var order []string
	bySeries := make(map[string][]domain.GameRecord)
	for _, g := range games {
		if _, ok := bySeries[g.SeriesID]; !ok {
			order = append(order, g.SeriesID)
		}
		bySeries[g.SeriesID] = append(bySeries[g.SeriesID], g)
	}

	var g1Games, g1Wins, laterGames, laterWins int
	var afterLossGames, afterLossWins, afterWinGames, afterWinWins int
	var comebacks, chokes, multi int

	for _, sid := range order {
		series := bySeries[sid]
		sort.SliceStable(series, func(i, j int) bool { return series[i].GameNumber < series[j].GameNumber })

		g1Games++
		if series[0].Opponent.HasWon() {
			g1Wins++
		}
		for _, g := range series[1:] {
			laterGames++
			if g.Opponent.HasWon() {
				laterWins++
			}
		}

		var prev *bool
		for _, g := range series {
			if prev != nil {
				if *prev {
					afterWinGames++
					if g.Opponent.HasWon() {
						afterWinWins++
					}
				} else {
					afterLossGames++
					if g.Opponent.HasWon() {
						afterLossWins++
					}
				}
			}
			prev = g.Opponent.Won
		}

		if len(series) < 2 {
			continue
		}
		var wins, losses int
		for _, g := range series {
			if g.Opponent.HasWon() {
				wins++
			}
			if g.Opponent.HasLost() {
				losses++
			}
		}
		if wins == 0 && losses == 0 {
			continue
		}
		multi++
		seriesWon := wins > losses
		first := series[0].Opponent
		switch {
		case first.HasLost() && seriesWon:
			comebacks++
		case first.HasWon() && !seriesWon:
			chokes++
		}
	}

	out := SeriesMomentum{
		Game1:           split(g1Games, g1Wins, "Game 1 winrate: %s"),
		LaterGames:      split(laterGames, laterWins, "Games 2+ winrate: %s"),
		AfterLoss:       split(afterLossGames, afterLossWins, "After a loss: %s WR"),
		AfterWin:        split(afterWinGames, afterWinWins, "After a win: %s WR"),
		MentalProfile:   "stable",
		MentalNote:      "They maintain consistent performance regardless of game state.",
		Adaptation:      "unknown",
		AdaptationNote:  "Not enough multi-game series to assess.",
		ClutchFactor:    "neutral",
		SeriesComebacks: comebacks,
		SeriesChokes:    chokes,
		TotalSeries:     multi,
	}

	if wr := out.AfterLoss.Winrate; wr != nil && afterLossGames >= 3 {
		switch {
		case *wr >= 0.6:
			out.MentalProfile = "resilient"
			out.MentalNote = "They bounce back strong after losses - don't expect them to tilt."
		case *wr <= 0.3:
			out.MentalProfile = "tilter"
			out.MentalNote = "They struggle after losing - get ahead early and they might crumble."
		}
	}

	if g1, later := out.Game1.Winrate, out.LaterGames.Winrate; g1 != nil && later != nil {
		switch diff := *later - *g1; {
		case diff >= 0.15:
			out.Adaptation = "strong_adapters"
			out.AdaptationNote = fmt.Sprintf("They get better as series progress (+%s WR in later games). Expect adjustments.", pct(diff))
		case diff <= -0.15:
			out.Adaptation = "slow_starters"
			out.AdaptationNote = fmt.Sprintf("They're actually weaker in later games (%s WR drop). Their game 1 prep is their peak.", pct(diff))
		default:
			out.Adaptation = "consistent"
			out.AdaptationNote = "Consistent across series - they don't notably adapt or decline."
		}
	}

	if multi >= 3 {
		switch {
		case float64(comebacks)/float64(multi) >= 0.3:
			out.ClutchFactor = "clutch"
		case float64(chokes)/float64(multi) >= 0.3:
			out.ClutchFactor = "chokers"
		}
	}
	return out
}
