package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	t.Run("ranks repeated significant words", func(t *testing.T) {
		text := "The guitar practice went well. Guitar chords are getting easier and the guitar sounds better every session."
		keywords := ExtractKeywords(text, 5)
		assert.NotEmpty(t, keywords)
		assert.Contains(t, keywords, "guitar")
	})

	t.Run("filters stop words and short words", func(t *testing.T) {
		keywords := ExtractKeywords("it is so he at we the and for not but was what", 5)
		for _, k := range keywords {
			assert.NotContains(t, []string{"it", "is", "so", "he", "at", "we", "the"}, k)
			assert.Greater(t, len(k), 2)
		}
	})

	t.Run("filters numbers and urls", func(t *testing.T) {
		keywords := ExtractKeywords("meeting 12345 67890 https://example.com/some-long-path meeting notes", 5)
		assert.NotContains(t, keywords, "12345")
		assert.NotContains(t, keywords, "https")
	})

	t.Run("short text yields nothing", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("hi", 5))
		assert.Empty(t, ExtractKeywords("", 5))
	})

	t.Run("respects max", func(t *testing.T) {
		text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
		keywords := ExtractKeywords(text, 3)
		assert.LessOrEqual(t, len(keywords), 3)
	})
}

func TestExtractEntities(t *testing.T) {
	t.Run("capitalized names", func(t *testing.T) {
		entities := ExtractEntities("Had lunch with Sarah Miller near Golden Gate today, it was nice.")
		assert.Contains(t, entities, "Sarah Miller")
		assert.Contains(t, entities, "Golden Gate")
	})

	t.Run("excludes day and month starts", func(t *testing.T) {
		entities := ExtractEntities("Monday was long. December felt cold here in general terms.")
		assert.NotContains(t, entities, "Monday")
		assert.NotContains(t, entities, "December")
	})

	t.Run("quoted phrases", func(t *testing.T) {
		entities := ExtractEntities(`Finished reading "the midnight library" before bed tonight.`)
		assert.Contains(t, entities, "the midnight library")
	})

	t.Run("short text yields nothing", func(t *testing.T) {
		assert.Empty(t, ExtractEntities("Hi Bob"))
	})
}
