package features

import (
	"math"
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

type GameRef struct {
	SeriesID   string `json:"series_id"`
	GameNumber int    `json:"game_number"`
}

type draftRow struct {
	ref    GameRef
	won    float64
	tempo  float64
	champs []string
	roles  *Tally
}

func draftRows(games []domain.GameRecord, side domain.Side) []draftRow {
	rows := make([]draftRow, 0, len(games))
	for i := range games {
		state := games[i].State(side)
		row := draftRow{
			ref:   GameRef{SeriesID: games[i].SeriesID, GameNumber: games[i].GameNumber},
			tempo: float64(state.Kills + state.Deaths),
			roles: NewTally(),
		}
		if state.HasWon() {
			row.won = 1
		}
		seen := make(map[string]struct{})
		for _, p := range state.Players {
			if p.Character != "" {
				if _, ok := seen[p.Character]; !ok {
					seen[p.Character] = struct{}{}
					row.champs = append(row.champs, p.Character)
				}
			}
			if p.Role != "" {
				row.roles.Add(p.Role, 1)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// draftVectors lays out one-hot vocabulary columns, per-role counts, the win flag and tempo.
func draftVectors(rows []draftRow, vocab []string) []clustering.Vector {
	champIndex := make(map[string]int, len(vocab))
	for i, c := range vocab {
		champIndex[c] = i
	}
	roleSet := make(map[string]struct{})
	for _, r := range rows {
		for _, role := range r.roles.Keys() {
			roleSet[role] = struct{}{}
		}
	}
	roleKeys := make([]string, 0, len(roleSet))
	for role := range roleSet {
		roleKeys = append(roleKeys, role)
	}
	sort.Strings(roleKeys)

	dim := len(vocab) + len(roleKeys) + 2
	out := make([]clustering.Vector, 0, len(rows))
	for _, r := range rows {
		vec := make(clustering.Vector, dim)
		for _, c := range r.champs {
			if idx, ok := champIndex[c]; ok {
				vec[idx] = 1
			}
		}
		for ri, role := range roleKeys {
			vec[len(vocab)+ri] = r.roles.Get(role)
		}
		vec[dim-2] = r.won
		vec[dim-1] = r.tempo
		out = append(out, vec)
	}
	return out
}

type NeighborPair struct {
	Game       GameRef `json:"game"`
	Nearest    GameRef `json:"nearest"`
	Similarity float64 `json:"similarity"`
}

type DraftDNA struct {
	Games               int            `json:"games"`
	AvgNNSimilarity     float64        `json:"avg_nn_similarity"`
	SimilarityCoverage  float64        `json:"similarity_coverage"`
	NearestNeighbors    []NeighborPair `json:"nearest_neighbors"`
	SimilarityThreshold float64        `json:"similarity_threshold"`
}

// ComputeDraftDNA measures how closely each game's draft resembles its nearest other game.
func ComputeDraftDNA(games []domain.GameRecord, side domain.Side, topN int, threshold float64) DraftDNA {
	out := DraftDNA{NearestNeighbors: []NeighborPair{}, SimilarityThreshold: threshold}
	rows := draftRows(games, side)
	if len(rows) == 0 {
		return out
	}

	picks := NewTally()
	for i := range games {
		for _, p := range games[i].State(side).Players {
			if p.Character != "" {
				picks.Add(p.Character, 1)
			}
		}
	}
	x := draftVectors(rows, picks.TopKeys(topN))

	var sims []float64
	for i := range x {
		best, bestIdx := -1.0, -1
		for j := range x {
			if i == j {
				continue
			}
			if s := cosine(x[i], x[j]); s > best {
				best, bestIdx = s, j
			}
		}
		if bestIdx < 0 {
			continue
		}
		sims = append(sims, best)
		out.NearestNeighbors = append(out.NearestNeighbors, NeighborPair{
			Game:       rows[i].ref,
			Nearest:    rows[bestIdx].ref,
			Similarity: best,
		})
	}

	out.Games = len(rows)
	if len(sims) > 0 {
		var sum float64
		covered := 0
		for _, s := range sims {
			sum += s
			if s >= threshold {
				covered++
			}
		}
		out.AvgNNSimilarity = sum / float64(len(sims))
		out.SimilarityCoverage = float64(covered) / float64(len(sims))
	}
	sort.SliceStable(out.NearestNeighbors, func(i, j int) bool {
		return out.NearestNeighbors[i].Similarity > out.NearestNeighbors[j].Similarity
	})
	if len(out.NearestNeighbors) > constants.NearestNeighborsMax {
		out.NearestNeighbors = out.NearestNeighbors[:constants.NearestNeighborsMax]
	}
	return out
}

func cosine(a, b clustering.Vector) float64 {
	var num, da, db float64
	for i := range a {
		num += a[i] * b[i]
		da += a[i] * a[i]
		db += b[i] * b[i]
	}
	if da == 0 || db == 0 {
		return 0
	}
	return num / (math.Sqrt(da) * math.Sqrt(db))
}

type SignatureCluster struct {
	ClusterID int      `json:"cluster_id"`
	Share     float64  `json:"share"`
	Winrate   float64  `json:"winrate"`
	TopChamps []string `json:"top_champs"`
}

type SignatureClusters struct {
	Games          int                `json:"games"`
	K              int                `json:"k"`
	PrimaryCluster *SignatureCluster  `json:"primary_cluster"`
	Clusters       []SignatureCluster `json:"clusters"`
}

// ComputeSignatureClusters groups games by draft vector and summarizes each group.
func ComputeSignatureClusters(games []domain.GameRecord, side domain.Side, topN int, sel clustering.Selector) SignatureClusters {
	out := SignatureClusters{Clusters: []SignatureCluster{}}
	rows := draftRows(games, side)
	if len(rows) == 0 {
		return out
	}

	perGame := NewTally()
	for _, r := range rows {
		for _, c := range r.champs {
			perGame.Add(c, 1)
		}
	}
	x := draftVectors(rows, perGame.TopKeys(topN))
	tempos := make([]float64, len(rows))
	for i, r := range rows {
		tempos[i] = r.tempo
	}

	part := sel.Partition(x, tempos)
	order, groups := clustering.Groups(part.Labels)
	n := len(rows)
	for _, cid := range order {
		idxs := groups[cid]
		champs := NewTally()
		var won float64
		for _, i := range idxs {
			won += rows[i].won
			for _, c := range rows[i].champs {
				champs.Add(c, 1)
			}
		}
		out.Clusters = append(out.Clusters, SignatureCluster{
			ClusterID: cid,
			Share:     float64(len(idxs)) / float64(n),
			Winrate:   won / float64(len(idxs)),
			TopChamps: champs.TopKeys(constants.SignatureTopChamps),
		})
	}
	sort.SliceStable(out.Clusters, func(i, j int) bool { return out.Clusters[i].Share > out.Clusters[j].Share })

	out.Games = n
	out.K = part.K
	if len(out.Clusters) > 0 {
		primary := out.Clusters[0]
		out.PrimaryCluster = &primary
	}
	return out
}
