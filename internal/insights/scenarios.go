package insights

import (
	"strings"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

type ScenarioStats struct {
	Games     int     `json:"games"`
	AvgKills  float64 `json:"avg_kills"`
	AvgDeaths float64 `json:"avg_deaths"`
}

type ScenarioInsight struct {
	ScenarioID      int               `json:"scenario_id"`
	Name            string            `json:"name"`
	Share           float64           `json:"share"`
	ShareLabel      string            `json:"share_label"`
	Winrate         float64           `json:"winrate"`
	WinrateLabel    string            `json:"winrate_label"`
	SignaturePicks  map[string]string `json:"signature_picks"`
	Tempo           string            `json:"tempo"`
	Flexibility     string            `json:"flexibility"`
	FlexibilityNote string            `json:"flexibility_note"`
	Stats           ScenarioStats     `json:"stats"`
	WinConditions   []string          `json:"win_conditions"`
	LossPatterns    []string          `json:"loss_patterns"`
	HowToBeat       []string          `json:"how_to_beat"`
}

type tempoPlaybook struct {
	win, loss, beat []string
}

var playbooks = map[string]tempoPlaybook{
	"early-game": {
		win:  []string{"Snowball early leads through aggressive plays", "Convert kills into objectives quickly"},
		loss: []string{"Get outscaled if they don't get ahead", "Throw leads by forcing bad fights"},
		beat: []string{
			"Draft for scaling and survive the early game",
			"Ward aggressively to spot their roams/invades",
			"Don't fight unless you have to - let them come to you",
		},
	},
	"late-game": {
		win:  []string{"Scale to teamfight phase with carries online", "Play for soul and baron"},
		loss: []string{"Get crushed early before they can scale", "Lose too many objectives pre-20"},
		beat: []string{
			"Draft strong early/mid game champions",
			"Force fights before their carries are online",
			"Invade and contest every neutral objective",
		},
	},
	"high-tempo": {
		win:  []string{"Force fights constantly and outskirmish", "Win through chaos and mechanical outplays"},
		loss: []string{"Controlled teams that don't engage in fiestas beat them", "Punish their aggression with counterengage"},
		beat: []string{
			"Pick disengage and counterengage tools",
			"Don't match their chaos - play controlled",
			"Punish overaggression with cc chains",
		},
	},
	"mid-game": {
		win:  []string{"Play standard macro and win through better decisions", "Secure neutral objectives and teamfight"},
		loss: []string{"Better macro teams outrotate them", "Lose to teams with clearer win conditions"},
		beat: []string{"Have a clear game plan and execute", "Match their draft power or counter their flex picks"},
	},
}

func styleFor(kpg, dpg float64) (name, tempo string) {
	switch {
	case kpg >= 15 && dpg >= 12:
		return "Fiesta/Brawl", "high-tempo"
	case kpg >= 12:
		return "Aggressive Early", "early-game"
	case kpg <= 8 && dpg <= 8:
		return "Slow/Scaling", "late-game"
	default:
		return "Standard", "mid-game"
	}
}

func flexibilityFor(volatility float64) (string, string) {
	switch {
	case volatility < 0.3:
		return "rigid", "They run the same comp every time - easy to prepare for"
	case volatility < 0.5:
		return "focused", "Limited variations - you can predict their picks"
	case volatility < 0.7:
		return "moderate", "Some variety but clear preferences"
	default:
		return "flexible", "Hard to predict exact picks"
	}
}

// ScenarioInsights names each playstyle cluster and explains how to play against it.
func ScenarioInsights(cards []scenarios.Card, clusters map[int][]domain.GameRecord) []ScenarioInsight {
	out := make([]ScenarioInsight, 0, len(cards))
	for _, card := range cards {
		games := clusters[card.ScenarioID]
		var kills, deaths int
		for i := range games {
			kills += games[i].Opponent.Kills
			deaths += games[i].Opponent.Deaths
		}
		n := len(games)
		if n == 0 {
			n = 1
		}
		kpg, dpg := float64(kills)/float64(n), float64(deaths)/float64(n)

		name, tempo := styleFor(kpg, dpg)
		book := playbooks[tempo]
		beat := append([]string{}, book.beat...)
		if len(card.SignaturePicks) > 0 && card.Winrate >= 0.55 {
			key := capList(card.SignatureOrdered(), 3)
			beat = append([]string{"Consider banning: " + strings.Join(key, ", ")}, beat...)
		}
		flex, flexNote := flexibilityFor(card.Volatility)

		out = append(out, ScenarioInsight{
			ScenarioID:      card.ScenarioID,
			Name:            name,
			Share:           card.Share,
			ShareLabel:      pct(card.Share) + " of their games",
			Winrate:         card.Winrate,
			WinrateLabel:    WinrateLabel(card.Winrate),
			SignaturePicks:  card.SignaturePicks,
			Tempo:           tempo,
			Flexibility:     flex,
			FlexibilityNote: flexNote,
			Stats:           ScenarioStats{Games: n, AvgKills: kpg, AvgDeaths: dpg},
			WinConditions:   append([]string{}, book.win...),
			LossPatterns:    append([]string{}, book.loss...),
			HowToBeat:       beat,
		})
	}
	return out
}
