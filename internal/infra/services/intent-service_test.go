package services

import (
	"testing"

	"astro-connector/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGeneralOverviewShortCircuits(t *testing.T) {
	classifier := NewIntentClassifier()

	texts := []string{
		"Give me a general overview of my life",
		"I want a complete reading please",
		"full overview of my marriage and career prospects",
	}

	for _, text := range texts {
		c := classifier.Classify(text)
		assert.Equal(t, IntentGeneralOverview, c.Intent, "text: %q", text)
		assert.Equal(t, 1.0, c.Confidence, "text: %q", text)
		assert.True(t, c.IsGeneralOverview, "text: %q", text)
		assert.NotEmpty(t, c.RequiredData)
	}
}

func TestClassifyKeywordScoring(t *testing.T) {
	classifier := NewIntentClassifier()

	tests := []struct {
		text   string
		intent string
	}{
		{"When will I get a marriage proposal?", "marriage"},
		{"Will my career improve this year?", "career"},
		{"Tell me about my money and wealth", "money"},
		{"I am worried about my health", "health"},
		{"Is my relationship with my partner going anywhere?", "love"},
		{"What do the planets say about my children?", "family"},
	}

	for _, tt := range tests {
		c := classifier.Classify(tt.text)
		assert.Equal(t, tt.intent, c.Intent, "text: %q", tt.text)
		assert.Greater(t, c.Confidence, 0.0)
		assert.False(t, c.IsGeneralOverview)
	}
}

func TestClassifyDefaultsToGeneral(t *testing.T) {
	classifier := NewIntentClassifier()

	c := classifier.Classify("hmm what should I ask")
	require.Equal(t, IntentGeneral, c.Intent)
	assert.Equal(t, 0.0, c.Confidence)
	assert.Contains(t, c.RequiredData, entities.DataBirthDetails)
}

func TestClassifyWholeWordOutweighsSubstring(t *testing.T) {
	classifier := NewIntentClassifier()

	// "job" matches as a whole word; "jobless" only as a substring.
	whole := classifier.Classify("will I find a job")
	sub := classifier.Classify("being jobless worries me")

	require.Equal(t, "career", whole.Intent)
	require.Equal(t, "career", sub.Intent)
	assert.Greater(t, whole.Confidence, sub.Confidence)
}

func TestClassifyIsComplex(t *testing.T) {
	classifier := NewIntentClassifier()

	short := classifier.Classify("career advice")
	long := classifier.Classify("can you please tell me in detail what the next five years of my career will look like")

	assert.False(t, short.IsComplex)
	assert.True(t, long.IsComplex)
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := NewIntentClassifier()

	text := "Will my marriage bring me luck and fortune in life?"
	first := classifier.Classify(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classifier.Classify(text))
	}
}
