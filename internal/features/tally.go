package features

import "sort"

// Weighted is a single key with its accumulated weight.
type Weighted struct {
	Key    string
	Weight float64
}

// Tally accumulates weights per key and remembers first-seen order so that
// ties always resolve the same way.
type Tally struct {
	keys []string
	vals map[string]float64
}

func NewTally() *Tally {
	return &Tally{vals: make(map[string]float64)}
}

func (t *Tally) Add(key string, w float64) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] += w
}

func (t *Tally) Get(key string) float64 {
	return t.vals[key]
}

func (t *Tally) Has(key string) bool {
	_, ok := t.vals[key]
	return ok
}

func (t *Tally) Len() int {
	return len(t.keys)
}

func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Tally) Values() []float64 {
	out := make([]float64, len(t.keys))
	for i, k := range t.keys {
		out[i] = t.vals[k]
	}
	return out
}

func (t *Tally) Total() float64 {
	var total float64
	for _, k := range t.keys {
		total += t.vals[k]
	}
	return total
}

// Sorted returns entries by descending weight; equal weights keep first-seen order.
func (t *Tally) Sorted() []Weighted {
	out := make([]Weighted, len(t.keys))
	for i, k := range t.keys {
		out[i] = Weighted{Key: k, Weight: t.vals[k]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Top returns the most common key, or "" if the tally is empty.
func (t *Tally) Top() string {
	sorted := t.Sorted()
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0].Key
}

// TopKeys returns up to n keys by descending weight.
func (t *Tally) TopKeys(n int) []string {
	sorted := t.Sorted()
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for _, w := range sorted[:n] {
		out = append(out, w.Key)
	}
	return out
}
