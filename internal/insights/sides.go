package insights

import (
	"fmt"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

// SideMethod names how sides are assigned. The source has no side field, so odd
// game numbers count as blue side.
const SideMethod = "game_number_parity"

type ChampionCount struct {
	Champion string `json:"champion"`
	Games    int    `json:"games"`
}

type SideStats struct {
	Side          string          `json:"side"`
	Games         int             `json:"games"`
	Wins          int             `json:"wins"`
	Winrate       *float64        `json:"winrate"`
	AvgKills      float64         `json:"avg_kills"`
	AvgDeaths     float64         `json:"avg_deaths"`
	PriorityPicks []ChampionCount `json:"priority_picks"`
}

type SideAnalysis struct {
	Method         string    `json:"method"`
	Approximate    bool      `json:"approximate"`
	BlueSide       SideStats `json:"blue_side"`
	RedSide        SideStats `json:"red_side"`
	Preference     string    `json:"preference"`
	PreferenceNote string    `json:"preference_note"`
	Recommendation string    `json:"recommendation"`
	BlueSidePicks  []string  `json:"blue_side_picks"`
	RedSidePicks   []string  `json:"red_side_picks"`
}

func sideStats(games []domain.GameRecord, side string) SideStats {
	out := SideStats{Side: side, PriorityPicks: []ChampionCount{}}
	if len(games) == 0 {
		return out
	}
	var kills, deaths int
	champs := features.NewTally()
	for i := range games {
		opp := games[i].Opponent
		if opp.HasWon() {
			out.Wins++
		}
		kills += opp.Kills
		deaths += opp.Deaths
		for _, p := range opp.Players {
			if p.Character != "" {
				champs.Add(p.Character, 1)
			}
		}
	}
	n := float64(len(games))
	out.Games = len(games)
	wr := float64(out.Wins) / n
	out.Winrate = &wr
	out.AvgKills = float64(kills) / n
	out.AvgDeaths = float64(deaths) / n
	for i, w := range champs.Sorted() {
		if i == 5 {
			break
		}
		out.PriorityPicks = append(out.PriorityPicks, ChampionCount{Champion: w.Key, Games: int(w.Weight)})
	}
	return out
}

// sideOnly lists picks from a that b plays less than half as often.
func sideOnly(a, b []ChampionCount) []string {
	other := make(map[string]int, len(b))
	for _, c := range b {
		other[c.Champion] = c.Games
	}
	out := []string{}
	for _, c := range a {
		n, ok := other[c.Champion]
		if !ok || float64(n) < float64(c.Games)*0.5 {
			out = append(out, c.Champion)
		}
	}
	return capList(out, 3)
}

// AnalyzeSides compares blue and red side results.
func AnalyzeSides(games []domain.GameRecord) SideAnalysis {
	var blue, red []domain.GameRecord
	for _, g := range games {
		if g.GameNumber%2 == 1 {
			blue = append(blue, g)
		} else {
			red = append(red, g)
		}
	}

	out := SideAnalysis{
		Method:      SideMethod,
		Approximate: true,
		BlueSide:    sideStats(blue, "blue"),
		RedSide:     sideStats(red, "red"),
	}

	if out.BlueSide.Winrate != nil && out.RedSide.Winrate != nil {
		switch diff := *out.BlueSide.Winrate - *out.RedSide.Winrate; {
		case diff >= 0.15:
			out.Preference = "blue"
			out.PreferenceNote = fmt.Sprintf("Significantly stronger on blue side (+%s WR)", pct(diff))
			out.Recommendation = "If you have side selection, put them on red side"
		case diff <= -0.15:
			out.Preference = "red"
			out.PreferenceNote = fmt.Sprintf("Significantly stronger on red side (+%s WR)", pct(-diff))
			out.Recommendation = "If you have side selection, put them on blue side - they prefer counterpicking"
		case diff >= 0.05:
			out.Preference = "slight_blue"
			out.PreferenceNote = "Slightly favor blue side"
			out.Recommendation = "Minor blue side preference - factor into draft planning"
		case diff <= -0.05:
			out.Preference = "slight_red"
			out.PreferenceNote = "Slightly favor red side"
			out.Recommendation = "Minor red side preference - they like to counterpick"
		default:
			out.Preference = "neutral"
			out.PreferenceNote = "Perform equally on both sides"
			out.Recommendation = "Side selection won't give you an edge"
		}
	} else {
		out.Preference = "unknown"
		out.PreferenceNote = "Not enough data to determine"
		out.Recommendation = "Need more games to analyze"
	}

	out.BlueSidePicks = sideOnly(out.BlueSide.PriorityPicks, out.RedSide.PriorityPicks)
	out.RedSidePicks = sideOnly(out.RedSide.PriorityPicks, out.BlueSide.PriorityPicks)
	return out
}
