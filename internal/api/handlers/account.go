package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
)

type AccountHandler struct {
	companionService *service.CompanionService
}

func NewAccountHandler(companionService *service.CompanionService) *AccountHandler {
	return &AccountHandler{companionService: companionService}
}

type AISettingsRequest struct {
	Enabled        bool   `json:"aiEnabled"`
	PrivacyConsent bool   `json:"privacyConsent"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	GroqAPIKey     string `json:"groqApiKey"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
	GeminiAPIKey   string `json:"geminiApiKey"`
}

// AISettingsResponse masks the stored keys; clients only learn whether one is
// set.
type AISettingsResponse struct {
	Enabled        bool   `json:"aiEnabled"`
	PrivacyConsent bool   `json:"privacyConsent"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	HasGroqKey     bool   `json:"hasGroqKey"`
	HasOpenAIKey   bool   `json:"hasOpenaiKey"`
	HasGeminiKey   bool   `json:"hasGeminiKey"`
}

func toAISettingsResponse(settings *domain.AISettings) *AISettingsResponse {
	if settings == nil {
		return nil
	}
	return &AISettingsResponse{
		Enabled:        settings.Enabled,
		PrivacyConsent: settings.PrivacyConsent,
		Provider:       settings.Provider,
		Model:          settings.Model,
		HasGroqKey:     settings.GroqAPIKey != "",
		HasOpenAIKey:   settings.OpenAIAPIKey != "",
		HasGeminiKey:   settings.GeminiAPIKey != "",
	}
}

func (h *AccountHandler) GetAISettings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	settings, err := h.companionService.Settings(r.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("loading ai settings failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": toAISettingsResponse(settings)})
}

func (h *AccountHandler) SaveAISettings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var req AISettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.companionService.SaveSettings(r.Context(), user.ID, service.AISettingsInput{
		Enabled:        req.Enabled,
		PrivacyConsent: req.PrivacyConsent,
		Provider:       req.Provider,
		Model:          req.Model,
		GroqAPIKey:     req.GroqAPIKey,
		OpenAIAPIKey:   req.OpenAIAPIKey,
		GeminiAPIKey:   req.GeminiAPIKey,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConsentRequired) {
			writeError(w, http.StatusBadRequest, "You must accept the privacy policy to enable the AI companion")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("saving ai settings failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": toAISettingsResponse(settings)})
}
