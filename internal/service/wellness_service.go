package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/repository"
)

const (
	wellnessWindow    = 50
	wellnessPromptLen = 5
	lowMoodThreshold  = -30
	highMoodThreshold = 30
)

// Recommendation is one personalized wellness suggestion derived from the
// user's recent entries.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// BreathingExercise is a guided breathing pattern offered on the wellness
// page. The pattern lists seconds per phase.
type BreathingExercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
	Minutes     int    `json:"minutes"`
}

type WellnessReport struct {
	Recommendations    []Recommendation    `json:"recommendations"`
	Prompts            []string            `json:"prompts"`
	BreathingExercises []BreathingExercise `json:"breathingExercises"`
	RecentEntryCount   int                 `json:"recentEntryCount"`
}

var breathingExercises = []BreathingExercise{
	{
		Name:        "Box Breathing",
		Description: "Inhale, hold, exhale, and hold again for equal counts. Steadies a racing mind.",
		Pattern:     "4-4-4-4",
		Minutes:     3,
	},
	{
		Name:        "4-7-8 Breathing",
		Description: "Inhale for four, hold for seven, exhale slowly for eight. Useful before sleep.",
		Pattern:     "4-7-8",
		Minutes:     2,
	},
	{
		Name:        "Extended Exhale",
		Description: "Breathe in for four and out for six. A longer exhale settles the nervous system.",
		Pattern:     "4-6",
		Minutes:     5,
	},
}

var journalingPrompts = []string{
	"What is one small thing that went well today?",
	"Describe a moment this week when you felt at ease.",
	"What is weighing on you right now, and what part of it can you control?",
	"Write about someone who made your day a little better.",
	"What would you tell a friend who felt the way you feel today?",
	"What are three things, however small, you are grateful for?",
	"What drained your energy today, and what restored it?",
	"If tomorrow went exactly how you wanted, what would it look like?",
	"What is a habit you want to build, and what is the smallest first step?",
	"Describe your current mood as weather. What is the forecast?",
}

// WellnessService builds the wellness page: recommendations from recent
// sentiment, journaling prompts, and breathing exercises.
type WellnessService struct {
	entryRepo repository.EntryRepository
	rng       *rand.Rand
}

func NewWellnessService(repos *repository.Repositories) *WellnessService {
	return &WellnessService{
		entryRepo: repos.Entry,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Report analyzes the user's most recent entries and returns recommendations
// alongside a fresh set of prompts and the exercise catalog.
func (s *WellnessService) Report(ctx context.Context, userID uuid.UUID) (*WellnessReport, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID, wellnessWindow, 0)
	if err != nil {
		return nil, err
	}

	scores := make([]int, len(entries))
	for i, entry := range entries {
		scores[i] = entry.SentimentScore
	}

	return &WellnessReport{
		Recommendations:    buildRecommendations(scores),
		Prompts:            s.pickPrompts(wellnessPromptLen),
		BreathingExercises: breathingExercises,
		RecentEntryCount:   len(entries),
	}, nil
}

// buildRecommendations maps recent sentiment scores (newest first) to
// suggestions.
func buildRecommendations(scores []int) []Recommendation {
	if len(scores) == 0 {
		return []Recommendation{{
			Title:       "Start your journal",
			Description: "A few sentences a day is enough to start seeing your mood patterns. Try one of the prompts below.",
			Category:    "journaling",
		}}
	}

	var recs []Recommendation
	avg := averageScore(scores)

	if avg <= lowMoodThreshold {
		recs = append(recs,
			Recommendation{
				Title:       "Take a breathing break",
				Description: "Your recent entries lean heavy. A few minutes of slow breathing can take the edge off.",
				Category:    "breathing",
			},
			Recommendation{
				Title:       "Reach out to someone",
				Description: "Rough stretches feel smaller when shared. Consider messaging a friend or family member today.",
				Category:    "connection",
			})
	} else if avg >= highMoodThreshold {
		recs = append(recs, Recommendation{
			Title:       "Capture what is working",
			Description: "You have been in a good place lately. Note what is contributing so you can return to it later.",
			Category:    "reflection",
		})
	} else {
		recs = append(recs, Recommendation{
			Title:       "Try a short mindfulness pause",
			Description: "A mixed week is a good time for a five-minute check-in with yourself, no screen required.",
			Category:    "mindfulness",
		})
	}

	// Scores arrive newest first; a recent half well below the older half
	// points at a downward drift worth naming.
	if len(scores) >= 4 {
		mid := len(scores) / 2
		if averageScore(scores[:mid]) <= averageScore(scores[mid:])-20 {
			recs = append(recs, Recommendation{
				Title:       "Your mood has been dipping",
				Description: "Recent entries read lower than before. Extra sleep, movement, or daylight often helps more than it seems.",
				Category:    "self-care",
			})
		}
	}

	if len(scores) < 3 {
		recs = append(recs, Recommendation{
			Title:       "Build the journaling habit",
			Description: "A short entry most days gives the insights page enough to find your patterns.",
			Category:    "journaling",
		})
	}
	return recs
}

func averageScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	return sum / len(scores)
}

// pickPrompts samples n distinct prompts from the pool.
func (s *WellnessService) pickPrompts(n int) []string {
	pool := make([]string, len(journalingPrompts))
	copy(pool, journalingPrompts)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
