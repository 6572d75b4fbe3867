package randomness

import (
	"math"
	"sort"
	"strconv"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/scenarios"
)

const (
	InterpretationNone        = "no data"
	InterpretationPredictable = "highly predictable"
	InterpretationFlexible    = "moderately flexible"
	InterpretationChaotic     = "chaotic"
)

type Result struct {
	DraftEntropy    float64 `json:"draft_entropy"`
	PlayerEntropy   float64 `json:"player_entropy"`
	ScenarioEntropy float64 `json:"scenario_entropy"`
	Drift           float64 `json:"drift"`
	Score           float64 `json:"score"`
	Interpretation  string  `json:"interpretation"`
	Advice          string  `json:"advice"`
}

func Empty() Result {
	return Result{Interpretation: InterpretationNone, Advice: "collect more games"}
}

// Compute scores how hard the opponent is to predict, from 0 to 100.
// cards are the scenario clusters for the same games.
func Compute(games []domain.GameRecord, cards []scenarios.Card) Result {
	if len(games) == 0 {
		return Empty()
	}

	res := Result{
		DraftEntropy: features.Entropy(pickDistribution(games).Values()),
	}

	var order []string
	perPlayer := make(map[string]*features.Tally)
	for i := range games {
		for _, p := range games[i].Opponent.Players {
			if p.PlayerID == "" || p.Character == "" {
				continue
			}
			t, ok := perPlayer[p.PlayerID]
			if !ok {
				t = features.NewTally()
				perPlayer[p.PlayerID] = t
				order = append(order, p.PlayerID)
			}
			t.Add(p.Character, 1)
		}
	}
	if len(order) > 0 {
		var sum float64
		for _, pid := range order {
			sum += features.Entropy(perPlayer[pid].Values())
		}
		res.PlayerEntropy = sum / float64(len(order))
	}

	shares := features.NewTally()
	for _, c := range cards {
		shares.Add(strconv.Itoa(c.ScenarioID), c.Share)
	}
	res.ScenarioEntropy = features.Entropy(shares.Values())

	ordered := make([]domain.GameRecord, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StartTime < ordered[j].StartTime })
	split := max(1, int(float64(len(ordered))*constants.DriftSplit))
	res.Drift = JSDivergence(pickDistribution(ordered[:split]), pickDistribution(ordered[split:]))

	res.Score = 100 * (constants.WeightDraftEntropy*res.DraftEntropy +
		constants.WeightPlayerEntropy*res.PlayerEntropy +
		constants.WeightScenarioEntropy*res.ScenarioEntropy +
		constants.WeightDrift*res.Drift)
	res.Interpretation, res.Advice = Interpret(res.Score)
	return res
}

func Interpret(score float64) (string, string) {
	switch {
	case score < constants.PredictableBelow:
		return InterpretationPredictable, "target-ban top comfort picks and prep 1-2 compositions"
	case score < constants.ChaoticFrom:
		return InterpretationFlexible, "ban 1-2 priority picks and prepare adaptive drafts"
	default:
		return InterpretationChaotic, "prep principles and flexible answers; prioritize comfort denial"
	}
}

func pickDistribution(games []domain.GameRecord) *features.Tally {
	t := features.NewTally()
	for i := range games {
		for _, p := range games[i].Opponent.Players {
			if p.Character != "" {
				t.Add(p.Character, 1)
			}
		}
	}
	return t
}

// JSDivergence is the base-2 Jensen-Shannon divergence between two count
// distributions. An empty side counts as the zero vector, so one empty side
// gives 0.5 and two empty sides give 0.
func JSDivergence(p, q *features.Tally) float64 {
	pt, qt := p.Total(), q.Total()
	switch {
	case pt <= 0 && qt <= 0:
		return 0
	case pt <= 0 || qt <= 0:
		return 0.5
	}
	keys := p.Keys()
	for _, k := range q.Keys() {
		if !p.Has(k) {
			keys = append(keys, k)
		}
	}

	var klP, klQ float64
	for _, k := range keys {
		pk := p.Get(k) / pt
		qk := q.Get(k) / qt
		m := 0.5 * (pk + qk)
		if pk > 0 && m > 0 {
			klP += pk * math.Log2(pk/m)
		}
		if qk > 0 && m > 0 {
			klQ += qk * math.Log2(qk/m)
		}
	}
	return 0.5 * (klP + klQ)
}
