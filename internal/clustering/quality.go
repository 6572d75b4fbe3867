package clustering

// QualityScorer rates how well labels separate points. Scorers that cannot rate a
// partition report Available() == false and the caller falls back to a fixed split.
type QualityScorer interface {
	Available() bool
	Score(points []Vector, labels []int) float64
}

// SilhouetteScorer computes the mean silhouette coefficient over all points.
type SilhouetteScorer struct{}

func NewSilhouetteScorer() SilhouetteScorer {
	return SilhouetteScorer{}
}

func (SilhouetteScorer) Available() bool { return true }

// Score returns a value in [-1,1]. Partitions with fewer than two clusters or with
// one cluster per point cannot be rated and score -1.
func (SilhouetteScorer) Score(points []Vector, labels []int) float64 {
	n := len(points)
	clusters := make(map[int][]int)
	for i, l := range labels {
		clusters[l] = append(clusters[l], i)
	}
	if len(clusters) < 2 || len(clusters) >= n {
		return -1
	}

	var total float64
	for i := 0; i < n; i++ {
		own := clusters[labels[i]]
		if len(own) <= 1 {
			continue
		}
		var a float64
		for _, j := range own {
			if j != i {
				a += Euclidean(points[i], points[j])
			}
		}
		a /= float64(len(own) - 1)

		b := -1.0
		for label, members := range clusters {
			if label == labels[i] {
				continue
			}
			var d float64
			for _, j := range members {
				d += Euclidean(points[i], points[j])
			}
			d /= float64(len(members))
			if b < 0 || d < b {
				b = d
			}
		}

		denom := a
		if b > denom {
			denom = b
		}
		if denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}

// HeuristicScorer never rates partitions.
type HeuristicScorer struct{}

func (HeuristicScorer) Available() bool { return false }

func (HeuristicScorer) Score([]Vector, []int) float64 { return -1 }
