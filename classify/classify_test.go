package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskmesh/deskmesh/core"
)

func TestIntentForFirstMatchWins(t *testing.T) {
	// Mentions both a charge and a login; billing is listed first in the
	// table and must win regardless of keyword position in the message.
	assert.Equal(t, core.IntentBilling, IntentFor("I cannot login and I was charged twice"))
	assert.Equal(t, core.IntentBilling, IntentFor("charged twice and now my login fails"))
}

func TestIntentForTable(t *testing.T) {
	cases := []struct {
		text string
		want core.Intent
	}{
		{"I was charged twice this month", core.IntentBilling},
		{"I want a refund for my last payment", core.IntentBilling},
		{"my 2fa code never arrives", core.IntentAccount},
		{"I need to reschedule my booking", core.IntentReservation},
		{"the app keeps crashing on startup", core.IntentTechnical},
		{"what is included in my plan benefit", core.IntentContent},
		{"hello there", core.IntentUnknown},
		{"", core.IntentUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IntentFor(tc.text), "text=%q", tc.text)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := New(nil)

	matched := c.Classify("I was charged twice", "")
	assert.Equal(t, core.IntentBilling, matched.Intent)
	assert.Equal(t, BaseConfidence, matched.Confidence)

	unknown := c.Classify("hello there", "")
	assert.Equal(t, core.IntentUnknown, unknown.Intent)
	assert.Equal(t, UnknownConfidence, unknown.Confidence)
}

func TestClassifyUrgencyFromSentiment(t *testing.T) {
	c := New(nil)

	// Strongly negative message with no hint escalates urgency.
	angry := c.Classify("this is terrible, everything is broken and I hate it", "")
	assert.Equal(t, core.UrgencyHigh, angry.Urgency)
	assert.Less(t, angry.Sentiment, -0.4)

	// A caller hint always wins over the sentiment heuristic.
	hinted := c.Classify("this is terrible, everything is broken and I hate it", core.UrgencyNormal)
	assert.Equal(t, core.UrgencyNormal, hinted.Urgency)

	calm := c.Classify("please update my mailing address", "")
	assert.Equal(t, core.UrgencyNormal, calm.Urgency)
	assert.Equal(t, 0.0, calm.Sentiment)
}

func TestClassifyRationale(t *testing.T) {
	c := New(nil)
	got := c.Classify("I was charged twice", "")
	assert.Equal(t, "intent=billing, sentiment=-0.60, urgency=high", got.Rationale)
}

func TestClassifyRouteMirrorsIntent(t *testing.T) {
	c := New(nil)
	got := c.Classify("my 2fa code never arrives", "")
	assert.Equal(t, got.Intent, got.Route)
}
