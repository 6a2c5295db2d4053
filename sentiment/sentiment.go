// Package sentiment implements a rule-based lexical polarity estimator.
// The scorer is a coarse heuristic: it counts lexicon hits and deliberately
// clamps the result so it can never claim near-certain sentiment.
package sentiment

import "strings"

// Default lexicons. Word containment is substring based and case
// insensitive, so "charged" also hits on "overcharged".
var (
	defaultNegative = []string{
		"angry", "upset", "bad", "terrible", "worst", "hate", "frustrated",
		"crash", "charged", "refund", "broken", "issue", "problem",
	}
	defaultPositive = []string{
		"love", "great", "thanks", "awesome", "good", "works", "happy",
		"excellent", "appreciate",
	}
)

// Clamp is the maximum magnitude the scorer will report. Raw ratios beyond
// it are truncated to avoid overconfident extremes from a handful of words.
const Clamp = 0.6

// Scorer estimates text polarity in [-1, 1] from fixed negative and
// positive lexicons. The zero-lexicon constructors use the package defaults.
// A Scorer is stateless and safe for concurrent use.
type Scorer struct {
	negative []string
	positive []string
}

// NewScorer creates a Scorer with the default lexicons.
func NewScorer() *Scorer {
	return &Scorer{negative: defaultNegative, positive: defaultPositive}
}

// NewScorerWithLexicons creates a Scorer with caller-supplied lexicons.
// Nil slices fall back to the defaults.
func NewScorerWithLexicons(negative, positive []string) *Scorer {
	s := NewScorer()
	if negative != nil {
		s.negative = negative
	}
	if positive != nil {
		s.positive = positive
	}
	return s
}

// Score returns the polarity of text. With zero lexicon matches it returns
// exactly 0.0 (neutral default, not an error). Otherwise it computes
// (pos-neg)/(pos+neg) clamped to [-Clamp, Clamp].
func (s *Scorer) Score(text string) float64 {
	lowered := strings.ToLower(text)

	var neg, pos int
	for _, w := range s.negative {
		if strings.Contains(lowered, w) {
			neg++
		}
	}
	for _, w := range s.positive {
		if strings.Contains(lowered, w) {
			pos++
		}
	}

	total := neg + pos
	if total == 0 {
		return 0.0
	}

	raw := float64(pos-neg) / float64(total)
	if raw > Clamp {
		return Clamp
	}
	if raw < -Clamp {
		return -Clamp
	}
	return raw
}
