package nlp

import (
	"math"
	"regexp"
	"strings"
)

// SentimentResult holds the outcome of sentiment analysis. Score is a 0-1
// confidence; NormalizedScore runs -1 (very negative) to +1 (very positive).
type SentimentResult struct {
	Label           string
	Score           float64
	NormalizedScore float64
}

// Sentiment labels.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

var positiveWords = map[string]struct{}{}
var negativeWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"happy", "joy", "love", "excellent", "good", "great", "wonderful",
		"amazing", "fantastic", "awesome", "beautiful", "best", "better",
		"grateful", "thankful", "excited", "thrilled", "delighted", "pleased",
		"enjoy", "enjoyed", "fun", "nice", "lovely", "perfect", "success",
		"successful", "accomplish", "achieved", "proud", "confidence",
		"hopeful", "optimistic", "positive", "blessed", "calm", "peaceful",
		"relaxed", "comfortable", "satisfied", "smile", "laugh", "laughing",
	} {
		positiveWords[w] = struct{}{}
	}
	for _, w := range []string{
		"sad", "angry", "hate", "terrible", "bad", "awful", "horrible",
		"worst", "disappointed", "depressed", "anxious", "worried", "stress",
		"stressed", "frustrated", "annoyed", "upset", "hurt", "pain",
		"painful", "difficult", "hard", "struggle", "struggling", "fail",
		"failed", "failure", "lost", "miss", "lonely", "alone", "cry",
		"crying", "tears", "unhappy", "miserable", "scared", "fear", "afraid",
		"nervous", "overwhelmed", "exhausted", "tired", "sick",
	} {
		negativeWords[w] = struct{}{}
	}
}

var (
	markdownSymbols = regexp.MustCompile("[#*_`~\\[\\]()]")
	imageLinks      = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	plainLinks      = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	nonWord         = regexp.MustCompile(`\W+`)
)

func neutralResult() SentimentResult {
	return SentimentResult{Label: LabelNeutral, Score: 0.5, NormalizedScore: 0}
}

// stripMarkdown removes markdown syntax so symbols do not skew word matching.
func stripMarkdown(text string) string {
	text = imageLinks.ReplaceAllString(text, "")
	text = plainLinks.ReplaceAllString(text, "")
	text = markdownSymbols.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// AnalyzeSentiment scores text with the word lexicon. A word-ratio above 0.6
// in either direction decides the label; anything else is neutral with the
// ratio difference as the normalized score.
func AnalyzeSentiment(text string) SentimentResult {
	if len(strings.TrimSpace(text)) < 3 {
		return neutralResult()
	}
	clean := stripMarkdown(text)
	if len(clean) < 3 {
		return neutralResult()
	}
	return analyzeLexicon(clean)
}

func analyzeLexicon(text string) SentimentResult {
	lower := strings.ToLower(text)

	var positiveCount, negativeCount int
	for _, word := range nonWord.Split(lower, -1) {
		if _, ok := positiveWords[word]; ok {
			positiveCount++
		}
		if _, ok := negativeWords[word]; ok {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return neutralResult()
	}

	positiveRatio := float64(positiveCount) / float64(total)
	negativeRatio := float64(negativeCount) / float64(total)

	var label string
	var normalized float64
	switch {
	case positiveRatio > 0.6:
		label = LabelPositive
		normalized = math.Min(positiveRatio, 0.95)
	case negativeRatio > 0.6:
		label = LabelNegative
		normalized = -math.Min(negativeRatio, 0.95)
	default:
		label = LabelNeutral
		normalized = positiveRatio - negativeRatio
	}

	return SentimentResult{
		Label:           label,
		Score:           math.Max(0.5, math.Abs(normalized)),
		NormalizedScore: normalized,
	}
}
