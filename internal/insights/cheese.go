package insights

import (
	"fmt"
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

const (
	cheeseMinPlayerGames = 5
	cheeseMaxPickRate    = 0.15
	cheeseMinWinrate     = 0.65
	cheeseMinGames       = 2
)

type CheesePick struct {
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Role        string  `json:"role"`
	Champion    string  `json:"champion"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
	PickRate    float64 `json:"pick_rate"`
	CheeseScore float64 `json:"cheese_score"`
	Warning     string  `json:"warning"`
}

type playerPicks struct {
	total int
	name  string
	role  string
	games *features.Tally
	wins  map[string]int
}

// CheesePicks finds rarely played characters with unusually high winrates.
func CheesePicks(games []domain.GameRecord) []CheesePick {
	var order []string
	players := make(map[string]*playerPicks)
	for i := range games {
		won := games[i].Opponent.HasWon()
		for _, p := range games[i].Opponent.Players {
			if p.PlayerID == "" || p.Character == "" {
				continue
			}
			pp, ok := players[p.PlayerID]
			if !ok {
				pp = &playerPicks{games: features.NewTally(), wins: make(map[string]int)}
				players[p.PlayerID] = pp
				order = append(order, p.PlayerID)
			}
			pp.total++
			pp.games.Add(p.Character, 1)
			if won {
				pp.wins[p.Character]++
			}
			if p.Name != "" {
				pp.name = p.Name
			}
			if p.Role != "" {
				pp.role = p.Role
			}
		}
	}

	out := []CheesePick{}
	for _, pid := range order {
		pp := players[pid]
		if pp.total < cheeseMinPlayerGames {
			continue
		}
		name := pp.name
		if name == "" {
			name = "Unknown"
		}
		for _, champ := range pp.games.Keys() {
			n := int(pp.games.Get(champ))
			wins := pp.wins[champ]
			pickRate := float64(n) / float64(pp.total)
			winrate := float64(wins) / float64(n)
			if pickRate > cheeseMaxPickRate || winrate < cheeseMinWinrate || n < cheeseMinGames {
				continue
			}
			out = append(out, CheesePick{
				PlayerID:    pid,
				PlayerName:  name,
				Role:        pp.role,
				Champion:    champ,
				Games:       n,
				Wins:        wins,
				Winrate:     winrate,
				PickRate:    pickRate,
				CheeseScore: winrate * (1 - pickRate),
				Warning: fmt.Sprintf("%s's %s: Rare pick (%s of games) but %s winrate. Have an answer ready!",
					name, champ, pct(pickRate), pct(winrate)),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheeseScore > out[j].CheeseScore })
	return out
}
