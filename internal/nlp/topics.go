package nlp

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Topic is a cluster of co-occurring keywords discovered across entries.
type Topic struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Keywords         []string `json:"keywords"`
	EntryCount       int      `json:"entryCount"`
	AverageSentiment int      `json:"averageSentiment"`
}

// TopicInput is one entry's contribution to topic discovery.
type TopicInput struct {
	Keywords  []string
	Sentiment int
}

type sentimentAgg struct {
	sum   int
	count int
}

// DiscoverTopics clusters keywords by co-occurrence across entries. Seeds are
// taken in frequency order; a cluster needs at least two related words that
// co-occur with the seed twice or more. At most eight topics are returned.
func DiscoverTopics(entries []TopicInput) []Topic {
	if len(entries) < 3 {
		return nil
	}

	coOccurrence := make(map[string]map[string]int)
	keywordSentiments := make(map[string]*sentimentAgg)

	for _, entry := range entries {
		for i, word1 := range entry.Keywords {
			if coOccurrence[word1] == nil {
				coOccurrence[word1] = make(map[string]int)
			}
			agg := keywordSentiments[word1]
			if agg == nil {
				agg = &sentimentAgg{}
				keywordSentiments[word1] = agg
			}
			agg.sum += entry.Sentiment
			agg.count++

			for _, word2 := range entry.Keywords[i+1:] {
				coOccurrence[word1][word2]++
			}
		}
	}

	sortedKeywords := make([]string, 0, len(keywordSentiments))
	for word := range keywordSentiments {
		sortedKeywords = append(sortedKeywords, word)
	}
	sort.Slice(sortedKeywords, func(i, j int) bool {
		ci := keywordSentiments[sortedKeywords[i]].count
		cj := keywordSentiments[sortedKeywords[j]].count
		if ci != cj {
			return ci > cj
		}
		return sortedKeywords[i] < sortedKeywords[j]
	})

	used := make(map[string]struct{})
	var topics []Topic
	topicID := 1

	for _, seed := range sortedKeywords {
		if _, taken := used[seed]; taken {
			continue
		}
		coWords := coOccurrence[seed]
		if coWords == nil {
			continue
		}

		type related struct {
			word  string
			count int
		}
		var candidates []related
		for word, count := range coWords {
			if _, taken := used[word]; taken || count < 2 {
				continue
			}
			candidates = append(candidates, related{word: word, count: count})
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].count != candidates[j].count {
				return candidates[i].count > candidates[j].count
			}
			return candidates[i].word < candidates[j].word
		})
		if len(candidates) > 4 {
			candidates = candidates[:4]
		}
		if len(candidates) < 2 {
			continue
		}

		topicWords := []string{seed}
		for _, c := range candidates {
			topicWords = append(topicWords, c.word)
		}
		for _, w := range topicWords {
			used[w] = struct{}{}
		}

		var sentimentSum float64
		entryCount := 0
		for _, w := range topicWords {
			agg := keywordSentiments[w]
			sentimentSum += float64(agg.sum) / float64(agg.count)
			if agg.count > entryCount {
				entryCount = agg.count
			}
		}
		avgSentiment := int(math.Round(sentimentSum / float64(len(topicWords))))

		topics = append(topics, Topic{
			ID:               fmt.Sprintf("topic-%d", topicID),
			Name:             topicName(topicWords),
			Keywords:         topicWords,
			EntryCount:       entryCount,
			AverageSentiment: avgSentiment,
		})
		topicID++

		if len(topics) >= 8 {
			break
		}
	}

	return topics
}

var topicThemes = []struct {
	name  string
	words []string
}{
	{"Work & Career", []string{"work", "meeting", "project", "team", "office", "job"}},
	{"Family & Relationships", []string{"family", "mom", "dad", "sister", "brother", "kids"}},
	{"Health & Wellness", []string{"health", "exercise", "gym", "fitness", "running"}},
	{"Creative Pursuits", []string{"music", "art", "writing", "creative", "book"}},
}

func topicName(keywords []string) string {
	main := strings.ToUpper(keywords[0][:1]) + keywords[0][1:]
	if len(keywords) == 1 {
		return main
	}
	if len(keywords) == 2 {
		return main + " & " + keywords[1]
	}

	for _, theme := range topicThemes {
		for _, k := range keywords {
			lower := strings.ToLower(k)
			for _, w := range theme.words {
				if lower == w {
					return theme.name
				}
			}
		}
	}
	return main + " & More"
}

// Similarity is the Jaccard similarity of two keyword sets.
func Similarity(keywords1, keywords2 []string) float64 {
	if len(keywords1) == 0 || len(keywords2) == 0 {
		return 0
	}

	set1 := make(map[string]struct{}, len(keywords1))
	for _, k := range keywords1 {
		set1[k] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(keywords2))
	for _, k := range keywords2 {
		set2[k] = struct{}{}
	}

	intersection := 0
	for k := range set1 {
		if _, ok := set2[k]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
