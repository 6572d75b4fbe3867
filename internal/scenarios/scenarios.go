package scenarios

import (
	"hash/fnv"
	"sort"
	"strings"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/clustering"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

type Card struct {
	ScenarioID     int               `json:"scenario_id"`
	Share          float64           `json:"share"`
	Winrate        float64           `json:"winrate"`
	SignaturePicks map[string]string `json:"signature_picks"`
	Volatility     float64           `json:"volatility"`
	PunishPlan     string            `json:"punish_plan"`
	// Roles lists SignaturePicks keys in first-seen order.
	Roles []string `json:"-"`
}

// SignatureOrdered returns signature picks following Roles.
func (c Card) SignatureOrdered() []string {
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, c.SignaturePicks[r])
	}
	return out
}

type Result struct {
	Cards  []Card
	Labels []int
	// Clusters holds each cluster's games, keyed by scenario id.
	Clusters map[int][]domain.GameRecord
	// Order lists scenario ids in order of first appearance.
	Order []int
}

func hashBucket(key string, dim int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(dim))
}

// GameVector hashes the opponent's role:character pairs into dim buckets and appends
// kills, deaths and the win flag.
func GameVector(g domain.GameRecord, dim int) clustering.Vector {
	vec := make(clustering.Vector, dim, dim+3)
	for _, p := range g.Opponent.Players {
		if p.Role != "" && p.Character != "" {
			vec[hashBucket(p.Role+":"+p.Character, dim)]++
		}
	}
	won := 0.0
	if g.Opponent.HasWon() {
		won = 1
	}
	return append(vec, float64(g.Opponent.Kills), float64(g.Opponent.Deaths), won)
}

type Clusterer struct {
	selector clustering.Selector
	dim      int
}

func NewClusterer(scorer clustering.QualityScorer) *Clusterer {
	return &Clusterer{
		selector: clustering.NewSelector(scorer, constants.ScenarioMaxK),
		dim:      constants.ScenarioHashDim,
	}
}

// Cluster groups the opponent's games into playstyles. Cards are sorted by share.
func (c *Clusterer) Cluster(games []domain.GameRecord) Result {
	res := Result{Cards: []Card{}, Labels: []int{}, Clusters: map[int][]domain.GameRecord{}}
	if len(games) == 0 {
		return res
	}

	points := make([]clustering.Vector, len(games))
	tempos := make([]float64, len(games))
	for i, g := range games {
		points[i] = GameVector(g, c.dim)
		tempos[i] = float64(g.Opponent.Kills + g.Opponent.Deaths)
	}

	part := c.selector.Partition(points, tempos)
	order, groups := clustering.Groups(part.Labels)
	res.Labels = part.Labels
	res.Order = order

	for _, cid := range order {
		idxs := groups[cid]
		if len(idxs) == 0 {
			continue
		}
		cluster := make([]domain.GameRecord, 0, len(idxs))
		for _, i := range idxs {
			cluster = append(cluster, games[i])
		}
		res.Clusters[cid] = cluster
		res.Cards = append(res.Cards, buildCard(cid, cluster, len(games)))
	}
	sort.SliceStable(res.Cards, func(i, j int) bool { return res.Cards[i].Share > res.Cards[j].Share })
	return res
}

func buildCard(id int, cluster []domain.GameRecord, total int) Card {
	wins := 0
	var roleOrder []string
	byRole := make(map[string]*features.Tally)
	champs := features.NewTally()
	for _, g := range cluster {
		if g.Opponent.HasWon() {
			wins++
		}
		for _, p := range g.Opponent.Players {
			if p.Role != "" && p.Character != "" {
				t, ok := byRole[p.Role]
				if !ok {
					t = features.NewTally()
					byRole[p.Role] = t
					roleOrder = append(roleOrder, p.Role)
				}
				t.Add(p.Character, 1)
			}
			if p.Character != "" {
				champs.Add(p.Character, 1)
			}
		}
	}

	signature := make(map[string]string, len(roleOrder))
	for _, role := range roleOrder {
		signature[role] = byRole[role].Top()
	}

	return Card{
		ScenarioID:     id,
		Share:          float64(len(cluster)) / float64(total),
		Winrate:        float64(wins) / float64(len(cluster)),
		SignaturePicks: signature,
		Volatility:     features.Entropy(champs.Values()),
		PunishPlan:     punishPlan(champs),
		Roles:          roleOrder,
	}
}

func punishPlan(champs *features.Tally) string {
	if champs.Len() == 0 {
		return "deny comfort picks"
	}
	return "ban " + strings.Join(champs.TopKeys(2), ", ")
}
