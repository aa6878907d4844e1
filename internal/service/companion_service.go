package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/ai"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/repository"
	"gorm.io/gorm"
)

const (
	companionHistoryLimit = 10
	companionContextSize  = 5
	companionMaxTokens    = 400
	companionTemperature  = 0.7
)

const companionSystemPrompt = `You are a warm, supportive journaling companion. You help the user reflect on their journal entries and mood patterns. Be empathetic and concise. Ask gentle follow-up questions. Never give medical advice.`

// Chat providers a user can bring their own key for. All three expose an
// OpenAI-compatible chat-completions endpoint.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// CompanionService runs the AI conversation about the user's journal. Every
// turn is persisted and recent entries are summarized into the model context.
// Users may bring their own provider key through AISettings; without one the
// server-configured client answers.
type CompanionService struct {
	conversationRepo repository.ConversationRepository
	entryRepo        repository.EntryRepository
	settingsRepo     repository.AISettingsRepository
	chat             ai.ChatClient
	now              func() time.Time

	// test seam
	newClient func(apiKey, baseURL, model string) ai.ChatClient
}

func NewCompanionService(repos *repository.Repositories, chat ai.ChatClient) *CompanionService {
	return &CompanionService{
		conversationRepo: repos.Conversation,
		entryRepo:        repos.Entry,
		settingsRepo:     repos.AISettings,
		chat:             chat,
		now:              time.Now,
		newClient: func(apiKey, baseURL, model string) ai.ChatClient {
			return ai.NewClient(apiKey, baseURL, model)
		},
	}
}

// Chat records the user message, asks the model for a reply with journal and
// conversation context, records the reply, and returns it.
func (s *CompanionService) Chat(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	if err := s.saveMessage(ctx, userID, entryID, domain.RoleUser, message); err != nil {
		return "", err
	}

	chat, err := s.clientFor(ctx, userID)
	if err != nil {
		return "", err
	}

	var reply string
	if chat == nil {
		// The user switched the companion off; acknowledge without a model
		// call.
		reply = ai.FallbackResponse
	} else {
		messages, err := s.buildContext(ctx, userID, entryID, message)
		if err != nil {
			return "", err
		}
		reply, err = chat.ChatCompletion(ctx, messages, companionMaxTokens, companionTemperature)
		if errors.Is(err, ai.ErrNotConfigured) {
			// No model available; still acknowledge so the conversation keeps
			// its shape.
			reply = ai.FallbackResponse
		} else if err != nil {
			return "", err
		}
	}

	if err := s.saveMessage(ctx, userID, entryID, domain.RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the stored conversation, oldest first.
func (s *CompanionService) History(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.conversationRepo.ListRecent(ctx, userID, entryID, limit)
}

func (s *CompanionService) saveMessage(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, role, content string) error {
	return s.conversationRepo.Create(ctx, &domain.ConversationMessage{
		ID:        uuid.New(),
		UserID:    userID,
		EntryID:   entryID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	})
}

func (s *CompanionService) buildContext(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, latest string) ([]ai.Message, error) {
	journalContext, err := s.journalContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages := []ai.Message{
		{Role: "system", Content: companionSystemPrompt + "\n\n" + journalContext},
	}

	history, err := s.conversationRepo.ListRecent(ctx, userID, entryID, companionHistoryLimit)
	if err != nil {
		return nil, err
	}
	for _, msg := range history {
		messages = append(messages, ai.Message{Role: msg.Role, Content: msg.Content})
	}

	// The latest user turn is already persisted; only append it if the
	// history window missed it.
	if len(history) == 0 || history[len(history)-1].Content != latest {
		messages = append(messages, ai.Message{Role: domain.RoleUser, Content: latest})
	}
	return messages, nil
}

type AISettingsInput struct {
	Enabled        bool
	PrivacyConsent bool
	Provider       string
	Model          string
	GroqAPIKey     string
	OpenAIAPIKey   string
	GeminiAPIKey   string
}

// Settings returns the user's companion preferences, or nil if they never
// saved any.
func (s *CompanionService) Settings(ctx context.Context, userID uuid.UUID) (*domain.AISettings, error) {
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings upserts the user's companion preferences. Enabling the
// companion requires privacy consent. A blank key field leaves the stored key
// untouched, so clients can resubmit the form without re-entering secrets.
func (s *CompanionService) SaveSettings(ctx context.Context, userID uuid.UUID, input AISettingsInput) (*domain.AISettings, error) {
	if input.Enabled && !input.PrivacyConsent {
		return nil, domain.ErrConsentRequired
	}
	switch input.Provider {
	case "", ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, input.Provider)
	}

	now := s.now()
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = &domain.AISettings{ID: uuid.New(), UserID: userID, CreatedAt: now}
		created = true
	} else if err != nil {
		return nil, err
	}

	settings.Enabled = input.Enabled
	settings.PrivacyConsent = input.PrivacyConsent
	if input.Provider != "" {
		settings.Provider = input.Provider
	}
	if input.Model != "" {
		settings.Model = input.Model
	}
	if key := strings.TrimSpace(input.GroqAPIKey); key != "" {
		settings.GroqAPIKey = key
	}
	if key := strings.TrimSpace(input.OpenAIAPIKey); key != "" {
		settings.OpenAIAPIKey = key
	}
	if key := strings.TrimSpace(input.GeminiAPIKey); key != "" {
		settings.GeminiAPIKey = key
	}
	settings.UpdatedAt = now

	if created {
		err = s.settingsRepo.Create(ctx, settings)
	} else {
		err = s.settingsRepo.Update(ctx, settings)
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// clientFor picks the chat client for one user: their own provider key when
// the companion is enabled and a key is stored, the server default otherwise.
// A nil client means the user disabled the companion.
func (s *CompanionService) clientFor(ctx context.Context, userID uuid.UUID) (ai.ChatClient, error) {
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.chat, nil
	}
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		return nil, nil
	}

	var key, baseURL string
	switch settings.Provider {
	case ProviderOpenAI:
		key, baseURL = settings.OpenAIAPIKey, "https://api.openai.com/v1"
	case ProviderGemini:
		key, baseURL = settings.GeminiAPIKey, "https://generativelanguage.googleapis.com/v1beta/openai"
	default:
		key = settings.GroqAPIKey
	}
	if key == "" {
		return s.chat, nil
	}
	return s.newClient(key, baseURL, settings.Model), nil
}

func (s *CompanionService) journalContext(ctx context.Context, userID uuid.UUID) (string, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID, companionContextSize, 0)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "The user has not written any journal entries yet.", nil
	}

	var b strings.Builder
	b.WriteString("Recent journal entries (newest first):\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "- [%s, mood: %s, sentiment: %s] %s\n",
			entry.CreatedAt.Format("Jan 2"), entry.Mood, entry.SentimentLabel,
			preview(entry.Content, 200))
	}
	return b.String(), nil
}
