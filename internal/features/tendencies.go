package features

import (
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type PickWeight struct {
	Character string  `json:"character"`
	Weight    float64 `json:"weight"`
	Share     float64 `json:"share"`
}

// ComfortPicks takes picks by descending weight until they cover half of the total weight.
func ComfortPicks(t *Tally) []PickWeight {
	out := []PickWeight{}
	total := t.Total()
	if total <= 0 {
		return out
	}
	var acc float64
	for _, w := range t.Sorted() {
		acc += w.Weight
		out = append(out, PickWeight{Character: w.Key, Weight: w.Weight, Share: w.Weight / total})
		if acc/total >= constants.ComfortShare {
			break
		}
	}
	return out
}

func pickDistribution(t *Tally) []PickWeight {
	total := t.Total()
	out := make([]PickWeight, 0, t.Len())
	for _, w := range t.Sorted() {
		var share float64
		if total > 0 {
			share = w.Weight / total
		}
		out = append(out, PickWeight{Character: w.Key, Weight: w.Weight, Share: share})
	}
	return out
}

type PlayerTendency struct {
	PlayerID         string       `json:"player_id"`
	Name             string       `json:"name,omitempty"`
	Role             string       `json:"role,omitempty"`
	ComfortPicks     []PickWeight `json:"comfort_picks"`
	PickDistribution []PickWeight `json:"pick_distribution"`
	Volatility       float64      `json:"volatility"`
}

type PlayerTendencies struct {
	PerPlayer            map[string]PlayerTendency `json:"per_player"`
	Order                []string                  `json:"-"`
	GamesWithPlayerChars int                       `json:"games_with_player_chars"`
	GamesTotal           int                       `json:"games_total"`
}

// Ordered returns players in the order they first appeared with a known pick.
func (pt PlayerTendencies) Ordered() []PlayerTendency {
	out := make([]PlayerTendency, 0, len(pt.Order))
	for _, pid := range pt.Order {
		out = append(out, pt.PerPlayer[pid])
	}
	return out
}

// ComputePlayerTendencies builds recency-weighted pick histograms per opponent player.
func ComputePlayerTendencies(games []domain.GameRecord, now time.Time) PlayerTendencies {
	var order []string
	counts := make(map[string]*Tally)
	roles := make(map[string]*Tally)
	names := make(map[string]string)

	withChars := 0
	for i := range games {
		w := RecencyWeight(games[i].StartTime, now)
		hasChar := false
		for _, p := range games[i].Opponent.Players {
			if p.PlayerID == "" {
				continue
			}
			if p.Character != "" {
				t, ok := counts[p.PlayerID]
				if !ok {
					t = NewTally()
					counts[p.PlayerID] = t
					order = append(order, p.PlayerID)
				}
				t.Add(p.Character, w)
				hasChar = true
			}
			if p.Role != "" {
				if roles[p.PlayerID] == nil {
					roles[p.PlayerID] = NewTally()
				}
				roles[p.PlayerID].Add(p.Role, 1)
			}
			names[p.PlayerID] = p.Name
		}
		if hasChar {
			withChars++
		}
	}

	out := PlayerTendencies{
		PerPlayer:            make(map[string]PlayerTendency, len(order)),
		Order:                order,
		GamesWithPlayerChars: withChars,
		GamesTotal:           len(games),
	}
	for _, pid := range order {
		t := counts[pid]
		var role string
		if r, ok := roles[pid]; ok {
			role = r.Top()
		}
		out.PerPlayer[pid] = PlayerTendency{
			PlayerID:         pid,
			Name:             names[pid],
			Role:             role,
			ComfortPicks:     ComfortPicks(t),
			PickDistribution: pickDistribution(t),
			Volatility:       Entropy(t.Values()),
		}
	}
	return out
}

type DraftTendencies struct {
	PriorityPicks []PickWeight `json:"priority_picks"`
	Bans          []string     `json:"bans"`
	FlexPicks     []string     `json:"flex_picks"`
	MissingBans   bool         `json:"missing_bans"`
}

// ComputeDraftTendencies pools the opponent's weighted picks across the roster.
// Ban data is not available from the source, so Bans is always empty.
func ComputeDraftTendencies(games []domain.GameRecord, now time.Time) DraftTendencies {
	picks := NewTally()
	var champOrder []string
	rolesByChamp := make(map[string]map[string]struct{})
	for i := range games {
		w := RecencyWeight(games[i].StartTime, now)
		for _, p := range games[i].Opponent.Players {
			if p.Character == "" {
				continue
			}
			picks.Add(p.Character, w)
			if p.Role == "" {
				continue
			}
			set, ok := rolesByChamp[p.Character]
			if !ok {
				set = make(map[string]struct{})
				rolesByChamp[p.Character] = set
				champOrder = append(champOrder, p.Character)
			}
			set[p.Role] = struct{}{}
		}
	}

	priority := pickDistribution(picks)
	if len(priority) > constants.PriorityPicksMax {
		priority = priority[:constants.PriorityPicksMax]
	}
	flex := []string{}
	for _, champ := range champOrder {
		if len(rolesByChamp[champ]) >= 2 {
			flex = append(flex, champ)
		}
	}
	return DraftTendencies{
		PriorityPicks: priority,
		Bans:          []string{},
		FlexPicks:     flex,
		MissingBans:   true,
	}
}

// PriorityCharacters lists priority pick names in order.
func (d DraftTendencies) PriorityCharacters() []string {
	out := make([]string, 0, len(d.PriorityPicks))
	for _, p := range d.PriorityPicks {
		if p.Character != "" {
			out = append(out, p.Character)
		}
	}
	return out
}

type MatchOutcomes struct {
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	AvgKills  float64 `json:"avg_kills"`
	AvgDeaths float64 `json:"avg_deaths"`
}

func ComputeMatchOutcomes(games []domain.GameRecord) MatchOutcomes {
	var out MatchOutcomes
	var kills, deaths int
	for i := range games {
		opp := games[i].Opponent
		if opp.HasWon() {
			out.Wins++
		}
		if opp.HasLost() {
			out.Losses++
		}
		kills += opp.Kills
		deaths += opp.Deaths
	}
	out.Games = len(games)
	if out.Games > 0 {
		out.AvgKills = float64(kills) / float64(out.Games)
		out.AvgDeaths = float64(deaths) / float64(out.Games)
	}
	return out
}

type DataCoverage struct {
	GamesTotal           int  `json:"games_total"`
	GamesWithPlayerChars int  `json:"games_with_player_chars"`
	GamesWithRoles       int  `json:"games_with_roles"`
	HasObjectives        bool `json:"has_objectives"`
}

func ComputeDataCoverage(games []domain.GameRecord) DataCoverage {
	out := DataCoverage{GamesTotal: len(games)}
	for i := range games {
		var hasChar, hasRole bool
		for _, p := range games[i].Opponent.Players {
			hasChar = hasChar || p.Character != ""
			hasRole = hasRole || p.Role != ""
		}
		if hasChar {
			out.GamesWithPlayerChars++
		}
		if hasRole {
			out.GamesWithRoles++
		}
	}
	return out
}
