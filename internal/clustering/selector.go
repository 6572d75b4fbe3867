package clustering

import (
	"sort"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
)

type Partition struct {
	K      int
	Labels []int
}

// Selector chooses K and a partition for a set of points.
type Selector struct {
	Scorer     QualityScorer
	MaxK       int
	Iterations int
	Seed       uint64
}

func NewSelector(scorer QualityScorer, maxK int) Selector {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	return Selector{
		Scorer:     scorer,
		MaxK:       maxK,
		Iterations: constants.KMeansIterations,
		Seed:       constants.ClusterSeed,
	}
}

// Partition picks K in [2, min(MaxK, n)] by best score. One or two points get K = n.
// Without a usable scorer the points are split around the median tempo.
func (s Selector) Partition(points []Vector, tempos []float64) Partition {
	n := len(points)
	switch {
	case n == 0:
		return Partition{K: 0, Labels: []int{}}
	case n == 1:
		return Partition{K: 1, Labels: []int{0}}
	case n == 2:
		return Partition{K: 2, Labels: s.run(points, 2)}
	}

	if s.Scorer == nil || !s.Scorer.Available() {
		return MedianSplit(tempos)
	}

	bestK, bestScore := 2, -1.0
	var bestLabels []int
	for k := 2; k <= min(s.MaxK, n); k++ {
		labels := s.run(points, k)
		score := s.Scorer.Score(points, labels)
		if bestLabels == nil || score > bestScore {
			bestK, bestScore, bestLabels = k, score, labels
		}
	}
	return Partition{K: bestK, Labels: bestLabels}
}

func (s Selector) run(points []Vector, k int) []int {
	iterations := s.Iterations
	if iterations <= 0 {
		iterations = constants.KMeansIterations
	}
	return KMeans(points, k, iterations, NewRand(s.Seed))
}

// MedianSplit labels values at or below the median 0 and the rest 1.
func MedianSplit(tempos []float64) Partition {
	if len(tempos) == 0 {
		return Partition{K: 0, Labels: []int{}}
	}
	sorted := make([]float64, len(tempos))
	copy(sorted, tempos)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	labels := make([]int, len(tempos))
	for i, t := range tempos {
		if t > median {
			labels[i] = 1
		}
	}
	return Partition{K: 2, Labels: labels}
}

// Groups returns point indices per label in order of first appearance.
func Groups(labels []int) ([]int, map[int][]int) {
	var order []int
	groups := make(map[int][]int)
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], i)
	}
	return order, groups
}
