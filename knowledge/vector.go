package knowledge

import (
	"math"
	"strings"
)

// Vector is a sparse term-weight mapping. Vectors produced by Embed are
// L2-normalized, so Dot between two of them is their cosine similarity.
type Vector map[string]float64

// Embed builds the term-frequency vector of text over whitespace tokens,
// lowercased and L2-normalized. A zero vector stays zero: the norm guard
// divides by 1.0 instead of 0 so empty input never produces NaN.
func Embed(text string) Vector {
	vec := Vector{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		vec[tok]++
	}

	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1.0
	}
	for t, w := range vec {
		vec[t] = w / norm
	}
	return vec
}

// Dot returns the sparse dot product of v and other. Iterates the smaller
// vector for efficiency; empty vectors score 0.
func (v Vector) Dot(other Vector) float64 {
	if len(other) < len(v) {
		v, other = other, v
	}
	var score float64
	for t, w := range v {
		score += w * other[t]
	}
	return score
}
