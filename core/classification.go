package core

// Intent is a closed-set categorical tag describing the purpose of a user
// message. The set is fixed; classifiers must fall back to IntentUnknown
// rather than invent new values.
type Intent string

const (
	IntentBilling     Intent = "billing"
	IntentRefund      Intent = "refund"
	IntentAccount     Intent = "account"
	IntentReservation Intent = "reservation"
	IntentTechnical   Intent = "technical"
	IntentContent     Intent = "content"
	IntentUnknown     Intent = "unknown"
)

// Urgency grades how quickly a ticket needs attention.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Classification is the per-turn record produced by the classifier stage.
// Confidence may only ever be raised after creation (see RaiseConfidence);
// all other fields are written once by the classifier.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Sentiment  float64 `json:"sentiment"`
	Urgency    Urgency `json:"urgency"`
	Route      Intent  `json:"route"`
	Rationale  string  `json:"rationale"`
}

// RaiseConfidence upgrades Confidence to v if v is higher. Downgrades are
// ignored so confidence is monotonically non-decreasing within a turn.
func (c *Classification) RaiseConfidence(v float64) {
	if v > c.Confidence {
		c.Confidence = v
	}
}
