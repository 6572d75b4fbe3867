// Package clustering partitions numeric game vectors into playstyle groups.
package clustering

import (
	"math"
	"math/rand/v2"
)

type Vector []float64

func Euclidean(a, b Vector) float64 {
	var sum float64
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// NewRand returns a deterministic source for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// KMeans assigns each point to one of k centroids. Centroids are seeded with distinct
// points drawn from rng; with fewer points than k every centroid starts at the first point.
func KMeans(points []Vector, k, iterations int, rng *rand.Rand) []int {
	if len(points) == 0 || k <= 0 {
		return []int{}
	}
	centers := make([]Vector, k)
	if len(points) >= k {
		perm := rng.Perm(len(points))
		for c := 0; c < k; c++ {
			centers[c] = clone(points[perm[c]])
		}
	} else {
		for c := range centers {
			centers[c] = clone(points[0])
		}
	}

	labels := make([]int, len(points))
	for it := 0; it < iterations; it++ {
		for i, p := range points {
			labels[i] = nearest(p, centers)
		}
		for c := range centers {
			var members []Vector
			for i, p := range points {
				if labels[i] == c {
					members = append(members, p)
				}
			}
			if len(members) == 0 {
				continue
			}
			centers[c] = mean(members)
		}
	}
	return labels
}

func nearest(p Vector, centers []Vector) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := Euclidean(p, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func mean(members []Vector) Vector {
	out := make(Vector, len(members[0]))
	for _, m := range members {
		for i := range out {
			if i < len(m) {
				out[i] += m[i]
			}
		}
	}
	for i := range out {
		out[i] /= float64(len(members))
	}
	return out
}

func clone(v Vector) Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
