package features

import (
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type ChampionWinrate struct {
	Character string  `json:"character"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Winrate   float64 `json:"winrate"`
	Stable    bool    `json:"stable"`
}

// ChampionWinrates counts games and wins per character on one side. Games with an
// unknown outcome are skipped. Rows are ordered stable first, then by games, then winrate.
func ChampionWinrates(games []domain.GameRecord, side domain.Side, minGames int) []ChampionWinrate {
	counts := NewTally()
	wins := make(map[string]int)
	for i := range games {
		state := games[i].State(side)
		if state.Won == nil {
			continue
		}
		for _, p := range state.Players {
			if p.Character == "" {
				continue
			}
			counts.Add(p.Character, 1)
			if *state.Won {
				wins[p.Character]++
			}
		}
	}

	rows := make([]ChampionWinrate, 0, counts.Len())
	for _, champ := range counts.Keys() {
		n := int(counts.Get(champ))
		var wr float64
		if n > 0 {
			wr = float64(wins[champ]) / float64(n)
		}
		rows = append(rows, ChampionWinrate{
			Character: champ,
			Games:     n,
			Wins:      wins[champ],
			Winrate:   wr,
			Stable:    n >= minGames,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Stable != b.Stable {
			return a.Stable
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Winrate > b.Winrate
	})
	return rows
}

// StableOnly filters rows down to the ones flagged stable.
func StableOnly(rows []ChampionWinrate) []ChampionWinrate {
	out := make([]ChampionWinrate, 0, len(rows))
	for _, r := range rows {
		if r.Stable {
			out = append(out, r)
		}
	}
	return out
}

type CounterfactualBan struct {
	BanChamp             string  `json:"ban_champ"`
	BanGames             int     `json:"ban_games"`
	BanWinrate           float64 `json:"ban_winrate"`
	Replacement          string  `json:"replacement"`
	ReplacementWinrate   float64 `json:"replacement_winrate"`
	EstimatedWinrateDrop float64 `json:"estimated_winrate_drop"`
}

// CounterfactualBans estimates the winrate change if the top champion were banned
// and play shifted to the second one. Both need at least minGames.
func CounterfactualBans(games []domain.GameRecord, side domain.Side, minGames int) []CounterfactualBan {
	out := []CounterfactualBan{}
	rows := ChampionWinrates(games, side, minGames)
	if len(rows) < 2 {
		return out
	}
	top, repl := rows[0], rows[1]
	if top.Games < minGames || repl.Games < minGames {
		return out
	}
	return append(out, CounterfactualBan{
		BanChamp:             top.Character,
		BanGames:             top.Games,
		BanWinrate:           top.Winrate,
		Replacement:          repl.Character,
		ReplacementWinrate:   repl.Winrate,
		EstimatedWinrateDrop: top.Winrate - repl.Winrate,
	})
}
