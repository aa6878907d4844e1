package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/ai"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAISettingsRepo struct {
	settings map[uuid.UUID]*domain.AISettings
}

func (r *fakeAISettingsRepo) Create(_ context.Context, settings *domain.AISettings) error {
	r.settings[settings.UserID] = settings
	return nil
}

func (r *fakeAISettingsRepo) GetByUser(_ context.Context, userID uuid.UUID) (*domain.AISettings, error) {
	settings, ok := r.settings[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return settings, nil
}

func (r *fakeAISettingsRepo) Update(_ context.Context, settings *domain.AISettings) error {
	r.settings[settings.UserID] = settings
	return nil
}

type stubChat struct {
	name string
}

func (c stubChat) ChatCompletion(context.Context, []ai.Message, int, float64) (string, error) {
	return c.name, nil
}

func TestClientFor(t *testing.T) {
	userID := uuid.New()
	settingsRepo := &fakeAISettingsRepo{settings: make(map[uuid.UUID]*domain.AISettings)}
	repos := &repository.Repositories{AISettings: settingsRepo}

	fallback := stubChat{name: "server"}
	svc := NewCompanionService(repos, fallback)

	var gotKey, gotBaseURL, gotModel string
	userClient := stubChat{name: "user"}
	svc.newClient = func(apiKey, baseURL, model string) ai.ChatClient {
		gotKey, gotBaseURL, gotModel = apiKey, baseURL, model
		return userClient
	}
	ctx := context.Background()

	t.Run("no settings uses server default", func(t *testing.T) {
		client, err := svc.clientFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, ai.ChatClient(fallback), client)
	})

	t.Run("disabled companion yields no client", func(t *testing.T) {
		settingsRepo.settings[userID] = &domain.AISettings{UserID: userID, Enabled: false, GroqAPIKey: "gsk_x"}
		client, err := svc.clientFor(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("enabled without key falls back", func(t *testing.T) {
		settingsRepo.settings[userID] = &domain.AISettings{UserID: userID, Enabled: true, Provider: ProviderGroq}
		client, err := svc.clientFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, ai.ChatClient(fallback), client)
	})

	t.Run("groq key builds a user client", func(t *testing.T) {
		settingsRepo.settings[userID] = &domain.AISettings{
			UserID: userID, Enabled: true, Provider: ProviderGroq,
			GroqAPIKey: "gsk_mine", Model: "llama-3.3-70b-versatile",
		}
		client, err := svc.clientFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, ai.ChatClient(userClient), client)
		assert.Equal(t, "gsk_mine", gotKey)
		assert.Empty(t, gotBaseURL)
		assert.Equal(t, "llama-3.3-70b-versatile", gotModel)
	})

	t.Run("openai provider uses the openai key and endpoint", func(t *testing.T) {
		settingsRepo.settings[userID] = &domain.AISettings{
			UserID: userID, Enabled: true, Provider: ProviderOpenAI,
			GroqAPIKey: "gsk_mine", OpenAIAPIKey: "sk_mine",
		}
		_, err := svc.clientFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "sk_mine", gotKey)
		assert.Equal(t, "https://api.openai.com/v1", gotBaseURL)
	})
}
