package features

import (
	"math"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type StyleAxes struct {
	AggressionRaw  float64 `json:"aggression_raw"`
	ControlRaw     float64 `json:"control_raw"`
	FlexibilityRaw float64 `json:"flexibility_raw"`
	Aggression     float64 `json:"aggression"`
	Control        float64 `json:"control"`
	Flexibility    float64 `json:"flexibility"`
}

type StyleTriangle struct {
	Team     StyleAxes `json:"team"`
	Opponent StyleAxes `json:"opponent"`
}

func ComputeStyleTriangle(games []domain.GameRecord) StyleTriangle {
	team := rawStyle(games, domain.SideTeam)
	opp := rawStyle(games, domain.SideOpponent)

	team.Aggression, opp.Aggression = normPair(team.AggressionRaw, opp.AggressionRaw)
	team.Control, opp.Control = normPair(team.ControlRaw, opp.ControlRaw)
	team.Flexibility, opp.Flexibility = normPair(team.FlexibilityRaw, opp.FlexibilityRaw)

	return StyleTriangle{Team: team, Opponent: opp}
}

func rawStyle(games []domain.GameRecord, side domain.Side) StyleAxes {
	var kills, deaths, wins int
	var outcomes []float64
	champs := NewTally()
	for i := range games {
		state := games[i].State(side)
		kills += state.Kills
		deaths += state.Deaths
		switch {
		case state.HasWon():
			wins++
			outcomes = append(outcomes, 1)
		case state.HasLost():
			outcomes = append(outcomes, 0)
		}
		for _, p := range state.Players {
			if p.Character != "" {
				champs.Add(p.Character, 1)
			}
		}
	}

	var axes StyleAxes
	total := float64(len(games))
	if kills+deaths > 0 {
		axes.AggressionRaw = float64(kills) / float64(kills+deaths)
	}
	if total > 0 {
		winrate := float64(wins) / total
		var std float64
		if len(outcomes) > 0 {
			var sq float64
			for _, w := range outcomes {
				sq += (w - winrate) * (w - winrate)
			}
			std = math.Sqrt(sq / float64(len(outcomes)))
		}
		axes.ControlRaw = 1/(1+float64(deaths)/total) + 1/(1+std)
	}
	roster := ComputeRosterStability(games, side)
	axes.FlexibilityRaw = Entropy(champs.Values()) * (1 + roster.Top5Share)
	return axes
}

func normPair(a, b float64) (float64, float64) {
	lo, hi := math.Min(a, b), math.Max(a, b)
	if hi == lo {
		return 0.5, 0.5
	}
	return (a - lo) / (hi - lo), (b - lo) / (hi - lo)
}

// NormalizeAxis min-max scales values into [0,1]; identical values all map to 0.5.
func NormalizeAxis(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i, v := range values {
		if hi == lo {
			out[i] = 0.5
			continue
		}
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}
