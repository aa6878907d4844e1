package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{
			name:      "clearly positive",
			text:      "Today was wonderful. I felt happy and grateful, and we had so much fun at the park.",
			wantLabel: LabelPositive,
		},
		{
			name:      "clearly negative",
			text:      "I am exhausted and stressed. Everything felt difficult and I was so worried all day.",
			wantLabel: LabelNegative,
		},
		{
			name:      "no lexicon words",
			text:      "Went to the store and bought groceries for the week.",
			wantLabel: LabelNeutral,
		},
		{
			name:      "mixed words stay neutral",
			text:      "The morning was great and happy but the evening was sad and awful, truly terrible.",
			wantLabel: LabelNeutral,
		},
		{
			name:      "empty text",
			text:      "",
			wantLabel: LabelNeutral,
		},
		{
			name:      "markdown only",
			text:      "### ***",
			wantLabel: LabelNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeSentiment(tt.text)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.GreaterOrEqual(t, result.Score, 0.5)
			assert.LessOrEqual(t, result.NormalizedScore, 1.0)
			assert.GreaterOrEqual(t, result.NormalizedScore, -1.0)
		})
	}
}

func TestAnalyzeSentiment_ScoreDirection(t *testing.T) {
	positive := AnalyzeSentiment("happy happy joy love great wonderful")
	assert.Greater(t, positive.NormalizedScore, 0.6)

	negative := AnalyzeSentiment("sad awful terrible horrible miserable crying")
	assert.Less(t, negative.NormalizedScore, -0.6)
}

func TestAnalyzeSentiment_StripsMarkdown(t *testing.T) {
	// Link targets must not contribute sentiment words.
	result := AnalyzeSentiment("Check [happy great wonderful](https://example.com/happy) out")
	assert.Equal(t, LabelNeutral, result.Label)
}
