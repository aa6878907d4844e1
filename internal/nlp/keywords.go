package nlp

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
		"or", "because", "as", "until", "while", "of", "at", "by", "for",
		"with", "about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down", "in",
		"out", "on", "off", "over", "under", "again", "further", "then",
		"once", "here", "there", "when", "where", "why", "how", "all", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
		"can", "will", "just", "don", "should", "now", "today", "yesterday",
		"tomorrow", "also", "im", "ive", "id", "ill", "youre", "youve",
		"youll", "youd", "hes", "shes", "were", "theyre", "theyve", "theyll",
		"theyd", "whos", "whats", "wheres", "whens", "whys", "hows", "isnt",
		"arent", "wasnt", "werent", "hasnt", "havent", "hadnt", "doesnt",
		"dont", "didnt", "wont", "wouldnt", "shant", "shouldnt", "cant",
		"cannot", "couldnt", "mustnt", "lets", "thats", "heres", "theres",
	} {
		stopWords[w] = struct{}{}
	}
}

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
	capitalized    = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})\b`)
	quoted         = regexp.MustCompile(`"([^"]+)"`)
	entityExcluded = regexp.MustCompile(`^(The|This|That|Today|Tomorrow|Yesterday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|January|February|March|April|May|June|July|August|September|October|November|December)`)
)

// ExtractKeywords returns up to maxKeywords significant words ranked by a
// frequency score that boosts words appearing one to three times over very
// common ones.
func ExtractKeywords(text string, maxKeywords int) []string {
	if len(strings.TrimSpace(text)) < 10 {
		return nil
	}

	clean := imageLinks.ReplaceAllString(text, "")
	clean = plainLinks.ReplaceAllString(clean, "")
	clean = regexp.MustCompile("[#*_`~]").ReplaceAllString(clean, "")
	clean = urlPattern.ReplaceAllString(clean, "")
	clean = strings.ToLower(clean)

	var words []string
	for _, word := range nonWord.Split(clean, -1) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if digitsOnly.MatchString(word) {
			continue
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, w := range words {
		freq[w]++
	}

	type scored struct {
		word  string
		score float64
	}
	scores := make([]scored, 0, len(freq))
	total := float64(len(words))
	for word, count := range freq {
		tf := float64(count) / total
		idf := 1.0 / math.Log(float64(count)+1)
		if count <= 3 {
			idf = 1.5
		}
		scores = append(scores, scored{word: word, score: tf * idf * float64(count)})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].word < scores[j].word
	})

	if len(scores) > maxKeywords {
		scores = scores[:maxKeywords]
	}
	keywords := make([]string, len(scores))
	for i, s := range scores {
		keywords[i] = s.word
	}
	return keywords
}

// ExtractEntities pulls likely names and places out of text using capitalized
// runs and quoted phrases. Basic pattern matching only; no NER model.
func ExtractEntities(text string) []string {
	if len(strings.TrimSpace(text)) < 10 {
		return nil
	}

	seen := make(map[string]struct{})
	var entities []string
	add := func(e string) {
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		entities = append(entities, e)
	}

	for _, match := range capitalized.FindAllStringSubmatch(text, -1) {
		entity := match[1]
		if len(entity) > 2 && !entityExcluded.MatchString(entity) {
			add(entity)
		}
	}
	for _, match := range quoted.FindAllStringSubmatch(text, -1) {
		if len(match[1]) > 2 && len(match[1]) < 50 {
			add(match[1])
		}
	}

	if len(entities) > 10 {
		entities = entities[:10]
	}
	return entities
}
