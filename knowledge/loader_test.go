package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL(t *testing.T) {
	corpus := strings.Join([]string{
		`{"title":"Password reset","content":"Use the reset link.","tags":["account","auth"]}`,
		``,
		`{"title":"Billing cycle","content":"Charges post monthly.","tags":"billing, payments"}`,
		`{"title":"No tags","content":"Plain article."}`,
	}, "\n")

	entries, err := ReadJSONL(strings.NewReader(corpus), "acme", "articles.jsonl")
	require.NoError(t, err)
	require.Len(t, entries, 3, "blank lines are skipped")

	assert.Equal(t, "acme-1", entries[0].ID)
	assert.Equal(t, "acme-2", entries[1].ID)
	assert.Equal(t, "acme-3", entries[2].ID)

	assert.Equal(t, []string{"account", "auth"}, entries[0].Tags)
	assert.Equal(t, []string{"billing", "payments"}, entries[1].Tags, "comma string tags are split")
	assert.Nil(t, entries[2].Tags)

	for _, e := range entries {
		assert.Equal(t, "articles.jsonl", e.Source)
	}
}

func TestReadJSONLMalformedLine(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{not json}"), "acme", "bad.jsonl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadJSONLMissingFile(t *testing.T) {
	_, err := LoadJSONL("/does/not/exist.jsonl", "acme")
	assert.Error(t, err)
}
