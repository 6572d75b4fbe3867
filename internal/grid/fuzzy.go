package grid

import "strings"

// ScoreName rates how well candidate matches query in [0,1]. Containment scores 1.
func ScoreName(query, candidate string) float64 {
	q, c := strings.ToLower(query), strings.ToLower(candidate)
	if q == "" && c == "" {
		return 1
	}
	if q != "" && strings.Contains(c, q) {
		return 1
	}
	qr, cr := []rune(q), []rune(c)
	longest := max(len(qr), len(cr))
	return 1 - float64(levenshtein(qr, cr))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
