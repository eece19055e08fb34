package dataset

import (
	"math"
	"sort"
)

// sumTolerance mirrors the default absolute tolerance of an isclose-style
// comparison; empirical distributions should sum to 1 well within it.
const sumTolerance = 1e-8

// Distribution is an empirical categorical distribution: sorted labels
// with their relative frequencies.
type Distribution struct {
	Labels []string
	Probs  []float64
}

// NewDistribution computes the relative frequency of each distinct value,
// with labels sorted lexicographically.
func NewDistribution(values []string) Distribution {
	counts := make(map[string]int, 8)
	for _, v := range values {
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	probs := make([]float64, len(labels))
	total := float64(len(values))
	for i, l := range labels {
		probs[i] = float64(counts[l]) / total
	}
	return Distribution{Labels: labels, Probs: probs}
}

func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d.Probs {
		s += p
	}
	return s
}

// SumsToOne reports whether the probabilities sum to 1 within tolerance.
func (d Distribution) SumsToOne() bool {
	return math.Abs(d.Sum()-1.0) <= sumTolerance
}

// SameLabels reports whether both distributions cover exactly the same
// category labels (both are sorted, so positional compare suffices).
func (d Distribution) SameLabels(o Distribution) bool {
	if len(d.Labels) != len(o.Labels) {
		return false
	}
	for i := range d.Labels {
		if d.Labels[i] != o.Labels[i] {
			return false
		}
	}
	return true
}

// KLDivergence computes D(d‖o) in base 2 over categories where d has
// positive mass. The second value is false when the divergence is not
// finite, i.e. some category with positive mass in d has zero mass in o.
func (d Distribution) KLDivergence(o Distribution) (float64, bool) {
	var div float64
	for i, p := range d.Probs {
		if p == 0 {
			continue
		}
		q := o.Probs[i]
		if q == 0 {
			return math.Inf(1), false
		}
		div += p * math.Log2(p/q)
	}
	return div, true
}
