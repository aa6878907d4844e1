package service

import (
	"github.com/mira/mood-journal-website/internal/ai"
	"github.com/mira/mood-journal-website/internal/config"
	"github.com/mira/mood-journal-website/internal/nlp"
	"github.com/mira/mood-journal-website/internal/ratelimit"
	"github.com/mira/mood-journal-website/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Journal   *JournalService
	Insights  *InsightsService
	Companion *CompanionService
	Wellness  *WellnessService
}

func NewServices(repos *repository.Repositories, limiter ratelimit.Limiter, cfg *config.Config) *Services {
	analyzer := nlp.NewAnalyzer(cfg.OllamaBaseURL, cfg.OllamaSentimentModel)
	chat := ai.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)

	return &Services{
		Auth:      NewAuthService(repos, limiter, cfg),
		Journal:   NewJournalService(repos, analyzer, cfg),
		Insights:  NewInsightsService(repos),
		Companion: NewCompanionService(repos, chat),
		Wellness:  NewWellnessService(repos),
	}
}
