package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Analyzer scores sentiment with a local Ollama model when one is reachable
// and falls back to the lexicon otherwise. A nil Analyzer (or one without a
// base URL) is lexicon-only.
type Analyzer struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewAnalyzer builds an Analyzer. baseURL may be empty to disable Ollama.
func NewAnalyzer(baseURL, model string) *Analyzer {
	if model == "" {
		model = "gemma3:1b"
	}
	return &Analyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Analyze runs sentiment analysis on text.
func (a *Analyzer) Analyze(ctx context.Context, text string) SentimentResult {
	if len(strings.TrimSpace(text)) < 3 {
		return neutralResult()
	}
	clean := stripMarkdown(text)
	if len(clean) < 3 {
		return neutralResult()
	}

	if a != nil && a.baseURL != "" && a.available(ctx) {
		result, err := a.analyzeOllama(ctx, clean)
		if err == nil {
			return result
		}
		log.WithError(err).Warn("ollama sentiment analysis failed, falling back to lexicon")
	}
	return analyzeLexicon(clean)
}

func (a *Analyzer) available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (a *Analyzer) analyzeOllama(ctx context.Context, text string) (SentimentResult, error) {
	const maxLength = 500
	if len(text) > maxLength {
		text = text[:maxLength]
	}

	prompt := fmt.Sprintf(`Analyze the sentiment of this text and respond with ONLY one word: POSITIVE, NEGATIVE, or NEUTRAL.

Text: %q

Sentiment:`, text)

	body, err := json.Marshal(map[string]interface{}{
		"model":  a.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.1,
			"num_predict": 10,
		},
	})
	if err != nil {
		return SentimentResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return SentimentResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return SentimentResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SentimentResult{}, fmt.Errorf("ollama request failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SentimentResult{}, err
	}

	answer := strings.ToUpper(strings.TrimSpace(payload.Response))
	label := LabelNeutral
	if strings.Contains(answer, LabelPositive) {
		label = LabelPositive
	} else if strings.Contains(answer, LabelNegative) {
		label = LabelNegative
	}

	// Confidence is estimated from lexicon agreement.
	lexicon := analyzeLexicon(text)
	score := 0.6
	if math.Abs(lexicon.NormalizedScore) > 0.3 {
		score = 0.8
	}

	normalized := 0.0
	switch label {
	case LabelPositive:
		normalized = score
	case LabelNegative:
		normalized = -score
	}

	return SentimentResult{Label: label, Score: score, NormalizedScore: normalized}, nil
}
