// Package classify implements the heuristic intent classifier. It tags the
// latest user message with an intent from the closed core.Intent set by
// ordered keyword matching and combines it with the sentiment scorer to
// produce a full core.Classification record.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/sentiment"
)

// Confidence constants. A matched intent starts at BaseConfidence; an
// unmatched message falls back to UnknownConfidence. Strong sentiment adds
// SentimentBonus on top.
const (
	BaseConfidence    = 0.6
	UnknownConfidence = 0.35
	SentimentBonus    = 0.05

	// strongSentiment is the |sentiment| threshold for the bonus.
	strongSentiment = 0.6
	// urgentSentiment is the threshold below which urgency defaults to high.
	urgentSentiment = -0.4
)

// intentKeywords pairs an intent with its keyword set. The table below is
// evaluated top to bottom and the first intent with any matching substring
// wins, so the ordering is a load-bearing tie-break: a message mentioning
// both a charge and a login resolves to billing because billing is listed
// first.
type intentKeywords struct {
	intent   core.Intent
	keywords []string
}

var intentTable = []intentKeywords{
	{core.IntentBilling, []string{"charge", "billing", "refund", "payment", "credit", "card", "invoice"}},
	{core.IntentAccount, []string{"account", "profile", "login", "sign in", "2fa", "password", "access"}},
	{core.IntentReservation, []string{"reserve", "booking", "event", "slot", "schedule", "reschedule", "cancel reservation"}},
	{core.IntentTechnical, []string{"crash", "bug", "error", "slow", "performance", "app"}},
	{core.IntentContent, []string{"article", "information", "what is included", "benefit", "subscription"}},
}

// Classifier produces classification records from message text. It never
// fails: malformed or empty input yields a well-formed record with
// IntentUnknown and low confidence.
type Classifier struct {
	scorer *sentiment.Scorer
}

// New creates a Classifier backed by the given sentiment scorer. A nil
// scorer uses the default lexicons.
func New(scorer *sentiment.Scorer) *Classifier {
	if scorer == nil {
		scorer = sentiment.NewScorer()
	}
	return &Classifier{scorer: scorer}
}

// IntentFor returns the first intent whose keyword set has a matching
// substring in text, or core.IntentUnknown when none match.
func IntentFor(text string) core.Intent {
	lowered := strings.ToLower(text)
	for _, entry := range intentTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.intent
			}
		}
	}
	return core.IntentUnknown
}

// Classify produces the turn's classification from the latest user message
// and an optional caller-supplied urgency hint (empty means no hint).
func (c *Classifier) Classify(text string, urgencyHint core.Urgency) core.Classification {
	score := c.scorer.Score(text)
	intent := IntentFor(text)

	urgency := urgencyHint
	if urgency == "" {
		if score < urgentSentiment {
			urgency = core.UrgencyHigh
		} else {
			urgency = core.UrgencyNormal
		}
	}

	confidence := BaseConfidence
	if intent == core.IntentUnknown {
		confidence = UnknownConfidence
	}
	if math.Abs(score) > strongSentiment {
		confidence += SentimentBonus
	}

	rationale := fmt.Sprintf("intent=%s, sentiment=%.2f, urgency=%s", intent, score, urgency)

	return core.Classification{
		Intent:     intent,
		Confidence: round2(confidence),
		Sentiment:  round2(score),
		Urgency:    urgency,
		Route:      intent,
		Rationale:  rationale,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
