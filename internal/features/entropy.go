package features

import (
	"math"
	"strings"
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
)

// Entropy is the Shannon entropy (base 2) of the given weights, normalized by
// log2 of the number of positive entries. A single category or an empty input yields 0.
func Entropy(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	var ent float64
	n := 0
	for _, w := range weights {
		if w <= 0 {
			continue
		}
		p := w / total
		ent -= p * math.Log2(p)
		n++
	}
	if n <= 1 {
		return 0
	}
	return ent / math.Log2(float64(n))
}

// ParseTime parses ISO-8601 timestamps as emitted by the match-data source.
func ParseTime(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}
	ts = strings.Replace(ts, "Z", "+00:00", 1)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RecencyWeight decays with a 30-day half-life; unknown or future timestamps weigh 1.
func RecencyWeight(ts string, now time.Time) float64 {
	return RecencyWeightHalfLife(ts, now, constants.RecencyHalfLifeDays)
}

func RecencyWeightHalfLife(ts string, now time.Time, halfLifeDays float64) float64 {
	t, ok := ParseTime(ts)
	if !ok {
		return 1.0
	}
	ageDays := now.Sub(t).Hours() / 24
	if ageDays <= 0 {
		return 1.0
	}
	return math.Exp(-math.Ln2 * ageDays / halfLifeDays)
}

// DaysAgo reports the age of ts in days, or 999 when it cannot be parsed.
func DaysAgo(ts string, now time.Time) float64 {
	t, ok := ParseTime(ts)
	if !ok {
		return 999
	}
	return now.Sub(t).Hours() / 24
}
