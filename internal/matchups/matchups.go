package matchups

import (
	"sort"
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

type Stats struct {
	Games int
	Wins  int
}

// PosteriorWinrate smooths the raw ratio with a Beta(2,2) prior.
func (s Stats) PosteriorWinrate() float64 {
	return s.PosteriorWinrateWith(constants.PriorAlpha, constants.PriorBeta)
}

func (s Stats) PosteriorWinrateWith(alpha, beta float64) float64 {
	return (float64(s.Wins) + alpha) / (float64(s.Games) + alpha + beta)
}

func (s Stats) Confidence() float64 {
	if s.Games == 0 {
		return 0
	}
	return min(1.0, float64(s.Games)/constants.ConfidenceSaturation)
}

type Key struct {
	Role   string
	Ours   string
	Theirs string
}

type Table map[Key]*Stats

func (t Table) Lookup(role, ours, theirs string) (Stats, bool) {
	s, ok := t[Key{Role: role, Ours: ours, Theirs: theirs}]
	if !ok {
		return Stats{}, false
	}
	return *s, true
}

// indexByRole keeps the first player seen for each role.
func indexByRole(players []domain.PlayerPerf) ([]string, map[string]domain.PlayerPerf) {
	var order []string
	out := make(map[string]domain.PlayerPerf)
	for _, p := range players {
		if p.Role == "" || p.Character == "" {
			continue
		}
		if _, ok := out[p.Role]; !ok {
			out[p.Role] = p
			order = append(order, p.Role)
		}
	}
	return order, out
}

// BuildTable counts per-role head-to-head games and wins for the requesting team.
func BuildTable(games []domain.GameRecord) Table {
	table := make(Table)
	for i := range games {
		roles, ours := indexByRole(games[i].Team.Players)
		_, theirs := indexByRole(games[i].Opponent.Players)
		for _, role := range roles {
			their, ok := theirs[role]
			if !ok {
				continue
			}
			key := Key{Role: role, Ours: ours[role].Character, Theirs: their.Character}
			if key.Ours == "" || key.Theirs == "" {
				continue
			}
			s, ok := table[key]
			if !ok {
				s = &Stats{}
				table[key] = s
			}
			s.Games++
			if games[i].Team.HasWon() {
				s.Wins++
			}
		}
	}
	return table
}

type PlayerPool struct {
	PlayerID string
	Picks    *features.Tally
}

// Pools holds recency-weighted pick pools for our players, in first-seen order.
type Pools []PlayerPool

func OurPickPools(games []domain.GameRecord, now time.Time) Pools {
	var pools Pools
	index := make(map[string]int)
	for i := range games {
		w := features.RecencyWeight(games[i].StartTime, now)
		for _, p := range games[i].Team.Players {
			if p.PlayerID == "" || p.Character == "" {
				continue
			}
			idx, ok := index[p.PlayerID]
			if !ok {
				idx = len(pools)
				index[p.PlayerID] = idx
				pools = append(pools, PlayerPool{PlayerID: p.PlayerID, Picks: features.NewTally()})
			}
			pools[idx].Picks.Add(p.Character, w)
		}
	}
	return pools
}

// Flatten merges every player's pool into one team-wide pool.
func (p Pools) Flatten() *features.Tally {
	flat := features.NewTally()
	for _, pool := range p {
		for _, champ := range pool.Picks.Keys() {
			flat.Add(champ, pool.Picks.Get(champ))
		}
	}
	return flat
}

type Suggestion struct {
	OurChamp        string  `json:"our_champ"`
	TheirChamp      string  `json:"their_champ"`
	ExpectedWinrate float64 `json:"expected_winrate"`
	Samples         int     `json:"samples"`
	Confidence      float64 `json:"confidence"`
	Score           float64 `json:"score"`
}

type Counters struct {
	PersonalizationLevel string                  `json:"personalization_level"`
	ByRole               map[string][]Suggestion `json:"by_role"`
}

// SuggestCounters ranks our picks against each opponent comfort pick by
// posterior winrate × confidence × our pick weight. Triples with no history are
// left out rather than scored zero.
func SuggestCounters(table Table, opponents []features.PlayerTendency, pools Pools, topK int) Counters {
	global, level := CandidatePool(table, pools)
	out := Counters{PersonalizationLevel: level, ByRole: map[string][]Suggestion{}}

	for _, opp := range opponents {
		if opp.Role == "" || len(opp.ComfortPicks) == 0 {
			continue
		}
		for _, pick := range opp.ComfortPicks {
			if pick.Character == "" {
				continue
			}
			var candidates []Suggestion
			for _, ours := range global.Keys() {
				stats, ok := table.Lookup(opp.Role, ours, pick.Character)
				if !ok {
					continue
				}
				wr := stats.PosteriorWinrate()
				conf := stats.Confidence()
				candidates = append(candidates, Suggestion{
					OurChamp:        ours,
					TheirChamp:      pick.Character,
					ExpectedWinrate: wr,
					Samples:         stats.Games,
					Confidence:      conf,
					Score:           wr * conf * global.Get(ours),
				})
			}
			sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
			if len(candidates) > topK {
				candidates = candidates[:topK]
			}
			if len(candidates) > 0 {
				out.ByRole[opp.Role] = append(out.ByRole[opp.Role], candidates...)
			}
		}
	}
	return out
}

// CandidatePool returns the characters we can answer with and the personalization
// level. Without pools of our own it falls back to every character in the table.
func CandidatePool(table Table, pools Pools) (*features.Tally, string) {
	if len(pools) == 0 {
		return tablePool(table), "low"
	}
	return pools.Flatten(), "high"
}

// tablePool gives every character we have matchup history with a unit weight.
func tablePool(table Table) *features.Tally {
	keys := make([]Key, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Ours != keys[j].Ours {
			return keys[i].Ours < keys[j].Ours
		}
		if keys[i].Role != keys[j].Role {
			return keys[i].Role < keys[j].Role
		}
		return keys[i].Theirs < keys[j].Theirs
	})
	pool := features.NewTally()
	for _, k := range keys {
		if !pool.Has(k.Ours) {
			pool.Add(k.Ours, 1)
		}
	}
	return pool
}
