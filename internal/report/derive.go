package report

import (
	"sort"
	"strings"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/matchups"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/randomness"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

const (
	draftPlanPrefix  = "Draft for flexibility; keep answers ready for "
	draftPlanSuffix  = ". Focus on denying engage supports and stable jungle picks if available."
	draftPlanChaotic = " Expect multiple styles; prioritize adaptable comps over single hard reads."
)

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func buildPlan(players []features.PlayerTendency, draft features.DraftTendencies, rnd randomness.Result) Plan {
	priority := draft.PriorityCharacters()

	candidates := append([]string{}, firstN(priority, constants.BanCoreSize)...)
	for _, p := range players {
		if len(p.ComfortPicks) > 0 && p.ComfortPicks[0].Share >= constants.ComfortShare {
			candidates = append(candidates, p.ComfortPicks[0].Character)
		}
	}

	bans := []string{}
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		bans = append(bans, c)
	}
	bans = firstN(bans, constants.BanListMax)

	plan := draftPlanPrefix + strings.Join(firstN(priority, constants.DraftPlanN), ", ") + draftPlanSuffix
	if rnd.Interpretation == randomness.InterpretationChaotic {
		plan += draftPlanChaotic
	}
	return Plan{BanPlan: bans, DraftPlan: plan}
}

func buildScenarioViz(res scenarios.Result) []StrategyCluster {
	items := []StrategyCluster{}
	for _, cid := range res.Order {
		games := res.Clusters[cid]
		if len(games) == 0 {
			continue
		}
		total := float64(len(games))
		var wins, kills, deaths int
		champs := features.NewTally()
		roles := features.NewTally()
		for _, g := range games {
			if g.Opponent.HasWon() {
				wins++
			}
			kills += g.Opponent.Kills
			deaths += g.Opponent.Deaths
			for _, p := range g.Opponent.Players {
				if p.Character != "" {
					champs.Add(p.Character, 1)
				}
				if p.Role != "" {
					roles.Add(p.Role, 1)
				}
			}
		}

		totalPicks := roles.Total()
		if totalPicks == 0 {
			totalPicks = 1
		}
		buckets := make(map[string]float64, roles.Len())
		for _, role := range roles.Keys() {
			buckets[role] = roles.Get(role) / totalPicks
		}

		items = append(items, StrategyCluster{
			ScenarioID:         cid,
			Games:              len(games),
			Winrate:            float64(wins) / total,
			PickBuckets:        buckets,
			TopPicks:           champs.TopKeys(constants.ScenarioTopPickVizN),
			EarlyAggressionRaw: float64(kills) / total,
			TeamfightinessRaw:  float64(kills+deaths) / total,
			DraftVolatilityRaw: features.Entropy(champs.Values()),
		})
	}

	early := make([]float64, len(items))
	fight := make([]float64, len(items))
	vol := make([]float64, len(items))
	for i, it := range items {
		early[i] = it.EarlyAggressionRaw
		fight[i] = it.TeamfightinessRaw
		vol[i] = it.DraftVolatilityRaw
	}
	early, fight, vol = features.NormalizeAxis(early), features.NormalizeAxis(fight), features.NormalizeAxis(vol)
	for i := range items {
		items[i].Fingerprint = Fingerprint{
			EarlyAggression: early[i],
			DraftVolatility: vol[i],
			Teamfightiness:  fight[i],
		}
	}
	return items
}

// buildCounterMatrix lays out per role the opponent's likely picks against our top
// candidates. The returned roles keep the order players were first seen in.
func buildCounterMatrix(table matchups.Table, players []features.PlayerTendency, pools matchups.Pools) (map[string]CounterMatrix, []string) {
	var roles []string
	rowsByRole := make(map[string][]string)
	for _, p := range players {
		if p.Role == "" || len(p.ComfortPicks) == 0 {
			continue
		}
		if _, ok := rowsByRole[p.Role]; !ok {
			roles = append(roles, p.Role)
			rowsByRole[p.Role] = nil
		}
		for _, pick := range p.ComfortPicks {
			if pick.Character != "" {
				rowsByRole[p.Role] = append(rowsByRole[p.Role], pick.Character)
			}
		}
	}

	pool, _ := matchups.CandidatePool(table, pools)
	cols := pool.TopKeys(constants.CounterMatrixMaxCols)

	matrix := make(map[string]CounterMatrix, len(roles))
	for _, role := range roles {
		rows := firstN(dedupe(rowsByRole[role]), constants.CounterMatrixMaxRows)
		cells := make([][]MatrixCell, 0, len(rows))
		for _, theirs := range rows {
			line := make([]MatrixCell, 0, len(cols))
			for _, ours := range cols {
				stats, ok := table.Lookup(role, ours, theirs)
				if !ok {
					line = append(line, MatrixCell{})
					continue
				}
				wr := stats.PosteriorWinrate()
				line = append(line, MatrixCell{Winrate: &wr, Samples: stats.Games, Confidence: stats.Confidence()})
			}
			cells = append(cells, line)
		}
		matrix[role] = CounterMatrix{Rows: rows, Cols: cols, Cells: cells}
	}
	if roles == nil {
		roles = []string{}
	}
	return matrix, roles
}

func buildDecisionTree(matrix map[string]CounterMatrix, roles []string, draft features.DraftTendencies) []DecisionNode {
	priority := draft.PriorityCharacters()
	nodes := []DecisionNode{}
	for _, role := range roles {
		m := matrix[role]
		for r, theirs := range firstN(m.Rows, constants.DecisionTreeRowsLimit) {
			var best *DecisionAnswer
			bestScore := -1.0
			for c, ours := range m.Cols {
				cell := m.Cells[r][c]
				if cell.Winrate == nil {
					continue
				}
				if score := *cell.Winrate * cell.Confidence; score > bestScore {
					bestScore = score
					best = &DecisionAnswer{OurPick: ours, Winrate: *cell.Winrate, Samples: cell.Samples, Confidence: cell.Confidence}
				}
			}
			node := DecisionNode{Role: role, OpponentPick: theirs, Answer: best}
			for _, p := range priority {
				if p != theirs {
					ban := p
					node.FollowUpBan = &ban
					break
				}
			}
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func stableOverlap(opponent, team []features.ChampionWinrate) StableOverlap {
	ours := make(map[string]struct{}, len(team))
	for _, c := range team {
		ours[c.Character] = struct{}{}
	}
	shared := []string{}
	seen := make(map[string]struct{})
	for _, c := range opponent {
		if _, ok := ours[c.Character]; !ok {
			continue
		}
		if _, dup := seen[c.Character]; dup {
			continue
		}
		seen[c.Character] = struct{}{}
		shared = append(shared, c.Character)
	}
	sort.Strings(shared)
	return StableOverlap{SharedChampions: shared, Count: len(shared)}
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
