package features

import (
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type RosterStability struct {
	UniquePlayers int     `json:"unique_players"`
	GamesTotal    int     `json:"games_total"`
	Top5Share     float64 `json:"top5_share"`
}

// ComputeRosterStability reports the share of player appearances taken by the
// five most used players. A five-player roster that never changes scores 1.
func ComputeRosterStability(games []domain.GameRecord, side domain.Side) RosterStability {
	playerGames := make(map[string]int)
	for i := range games {
		seen := make(map[string]struct{})
		for _, p := range games[i].State(side).Players {
			if p.PlayerID != "" {
				seen[p.PlayerID] = struct{}{}
			}
		}
		for pid := range seen {
			playerGames[pid]++
		}
	}

	counts := make([]int, 0, len(playerGames))
	appearances := 0
	for _, n := range playerGames {
		counts = append(counts, n)
		appearances += n
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	top5 := 0
	for i := 0; i < len(counts) && i < 5; i++ {
		top5 += counts[i]
	}

	rs := RosterStability{UniquePlayers: len(playerGames), GamesTotal: len(games)}
	if appearances > 0 {
		rs.Top5Share = float64(top5) / float64(appearances)
	}
	return rs
}

type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type SimilarityPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	PoolSize int    `json:"pool_size"`
}

type PoolSizes struct {
	A int `json:"a"`
	B int `json:"b"`
}

type SimilarityEdge struct {
	PlayerA      PlayerRef `json:"player_a"`
	PlayerB      PlayerRef `json:"player_b"`
	Similarity   float64   `json:"similarity"`
	SharedChamps []string  `json:"shared_champs"`
	PoolSizes    PoolSizes `json:"pool_sizes"`
}

type PlayerSimilarity struct {
	Players         []SimilarityPlayer `json:"players"`
	Edges           []SimilarityEdge   `json:"edges"`
	MinUniqueChamps int                `json:"min_unique_champs"`
}

// ComputePlayerSimilarity compares distinct-character pools with Jaccard similarity.
// Only players with at least minUniqueChamps characters take part.
func ComputePlayerSimilarity(games []domain.GameRecord, side domain.Side, minUniqueChamps, topPairs int) PlayerSimilarity {
	var order []string
	pools := make(map[string]map[string]struct{})
	names := make(map[string]string)
	for i := range games {
		for _, p := range games[i].State(side).Players {
			if p.PlayerID == "" || p.Character == "" {
				continue
			}
			pool, ok := pools[p.PlayerID]
			if !ok {
				pool = make(map[string]struct{})
				pools[p.PlayerID] = pool
				order = append(order, p.PlayerID)
			}
			pool[p.Character] = struct{}{}
			if p.Name != "" {
				names[p.PlayerID] = p.Name
			}
		}
	}

	var players []string
	for _, pid := range order {
		if len(pools[pid]) >= minUniqueChamps {
			players = append(players, pid)
		}
	}

	edges := []SimilarityEdge{}
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			shared := make([]string, 0)
			for c := range pools[a] {
				if _, ok := pools[b][c]; ok {
					shared = append(shared, c)
				}
			}
			union := len(pools[a]) + len(pools[b]) - len(shared)
			if union == 0 || len(shared) == 0 {
				continue
			}
			sort.Strings(shared)
			edges = append(edges, SimilarityEdge{
				PlayerA:      PlayerRef{ID: a, Name: names[a]},
				PlayerB:      PlayerRef{ID: b, Name: names[b]},
				Similarity:   float64(len(shared)) / float64(union),
				SharedChamps: shared,
				PoolSizes:    PoolSizes{A: len(pools[a]), B: len(pools[b])},
			})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Similarity > edges[j].Similarity })
	if len(edges) > topPairs {
		edges = edges[:topPairs]
	}

	out := PlayerSimilarity{Players: make([]SimilarityPlayer, 0, len(players)), Edges: edges, MinUniqueChamps: minUniqueChamps}
	for _, pid := range players {
		out.Players = append(out.Players, SimilarityPlayer{ID: pid, Name: names[pid], PoolSize: len(pools[pid])})
	}
	return out
}
