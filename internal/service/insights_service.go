package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/nlp"
	"github.com/mira/mood-journal-website/internal/repository"
)

// Sentiment score bands for counting entries as positive/negative.
const sentimentBand = 30

const dateLayout = "2006-01-02"

type InsightsStats struct {
	AverageSentiment int `json:"averageSentiment"`
	TotalEntries     int `json:"totalEntries"`
	PositiveCount    int `json:"positiveCount"`
	NegativeCount    int `json:"negativeCount"`
	NeutralCount     int `json:"neutralCount"`
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
}

type DailyMood struct {
	Date             string   `json:"date"`
	AverageSentiment int      `json:"averageSentiment"`
	EntryCount       int      `json:"entryCount"`
	Moods            []string `json:"moods"`
}

type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

type KeywordCorrelation struct {
	Keyword          string `json:"keyword"`
	AverageSentiment int    `json:"averageSentiment"`
	Count            int    `json:"count"`
}

type InsightsReport struct {
	Stats              InsightsStats        `json:"stats"`
	DailyData          []DailyMood          `json:"dailyData"`
	MoodDistribution   []MoodCount          `json:"moodDistribution"`
	KeywordCorrelation []KeywordCorrelation `json:"keywordCorrelation"`
	Topics             []nlp.Topic          `json:"topics"`
	RangeDays          int                  `json:"range"`
	TotalEntries       int                  `json:"totalEntries"`
}

// InsightsService computes aggregate statistics over a user's entries:
// streaks, daily sentiment, mood distribution, keyword correlation, and
// discovered topics.
type InsightsService struct {
	entryRepo repository.EntryRepository
	now       func() time.Time
}

func NewInsightsService(repos *repository.Repositories) *InsightsService {
	return &InsightsService{
		entryRepo: repos.Entry,
		now:       time.Now,
	}
}

func (s *InsightsService) Report(ctx context.Context, userID uuid.UUID, rangeDays int) (*InsightsReport, error) {
	if rangeDays <= 0 {
		rangeDays = 30
	}
	now := s.now()
	since := now.AddDate(0, 0, -rangeDays)

	entries, err := s.entryRepo.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	topicInputs := make([]nlp.TopicInput, len(entries))
	for i, entry := range entries {
		topicInputs[i] = nlp.TopicInput{
			Keywords:  decodeKeywords(entry.Keywords),
			Sentiment: entry.SentimentScore,
		}
	}

	return &InsightsReport{
		Stats:              calculateStats(entries, now),
		DailyData:          aggregateByDay(entries),
		MoodDistribution:   moodDistribution(entries),
		KeywordCorrelation: keywordCorrelation(entries),
		Topics:             nlp.DiscoverTopics(topicInputs),
		RangeDays:          rangeDays,
		TotalEntries:       len(entries),
	}, nil
}

func calculateStats(entries []*domain.Entry, now time.Time) InsightsStats {
	if len(entries) == 0 {
		return InsightsStats{}
	}

	var sum, positive, negative int
	for _, entry := range entries {
		sum += entry.SentimentScore
		switch {
		case entry.SentimentScore > sentimentBand:
			positive++
		case entry.SentimentScore < -sentimentBand:
			negative++
		}
	}

	current, longest := streaks(entries, now)

	return InsightsStats{
		AverageSentiment: int(math.Round(float64(sum) / float64(len(entries)))),
		TotalEntries:     len(entries),
		PositiveCount:    positive,
		NegativeCount:    negative,
		NeutralCount:     len(entries) - positive - negative,
		CurrentStreak:    current,
		LongestStreak:    longest,
	}
}

// streaks returns the current and longest runs of consecutive days with at
// least one entry. The current streak only counts if today has an entry.
func streaks(entries []*domain.Entry, now time.Time) (current, longest int) {
	seen := make(map[string]struct{})
	var days []time.Time
	for _, entry := range entries {
		day := entry.CreatedAt.Truncate(24 * time.Hour)
		key := day.Format(dateLayout)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	today := now.Truncate(24 * time.Hour)
	if _, ok := seen[today.Format(dateLayout)]; ok {
		current = 1
		for i := len(days) - 1; i > 0; i-- {
			if days[i].Sub(days[i-1]) == 24*time.Hour {
				current++
			} else {
				break
			}
		}
	}

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

func aggregateByDay(entries []*domain.Entry) []DailyMood {
	type dayAgg struct {
		sum   int
		count int
		moods []string
	}
	byDay := make(map[string]*dayAgg)

	for _, entry := range entries {
		date := entry.CreatedAt.Format(dateLayout)
		agg := byDay[date]
		if agg == nil {
			agg = &dayAgg{}
			byDay[date] = agg
		}
		agg.sum += entry.SentimentScore
		agg.count++
		agg.moods = append(agg.moods, entry.Mood)
	}

	daily := make([]DailyMood, 0, len(byDay))
	for date, agg := range byDay {
		daily = append(daily, DailyMood{
			Date:             date,
			AverageSentiment: int(math.Round(float64(agg.sum) / float64(agg.count))),
			EntryCount:       agg.count,
			Moods:            agg.moods,
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}

func moodDistribution(entries []*domain.Entry) []MoodCount {
	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.Mood]++
	}

	distribution := make([]MoodCount, 0, len(counts))
	for mood, count := range counts {
		distribution = append(distribution, MoodCount{Mood: mood, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Mood < distribution[j].Mood
	})
	return distribution
}

// keywordCorrelation averages sentiment per keyword, keeping keywords that
// appear at least twice, capped at the top 15 by occurrence.
func keywordCorrelation(entries []*domain.Entry) []KeywordCorrelation {
	type agg struct {
		sum   int
		count int
	}
	byKeyword := make(map[string]*agg)

	for _, entry := range entries {
		for _, keyword := range decodeKeywords(entry.Keywords) {
			a := byKeyword[keyword]
			if a == nil {
				a = &agg{}
				byKeyword[keyword] = a
			}
			a.sum += entry.SentimentScore
			a.count++
		}
	}

	var correlations []KeywordCorrelation
	for keyword, a := range byKeyword {
		if a.count < 2 {
			continue
		}
		correlations = append(correlations, KeywordCorrelation{
			Keyword:          keyword,
			AverageSentiment: int(math.Round(float64(a.sum) / float64(a.count))),
			Count:            a.count,
		})
	}
	sort.Slice(correlations, func(i, j int) bool {
		if correlations[i].Count != correlations[j].Count {
			return correlations[i].Count > correlations[j].Count
		}
		return correlations[i].Keyword < correlations[j].Keyword
	})
	if len(correlations) > 15 {
		correlations = correlations[:15]
	}
	return correlations
}
