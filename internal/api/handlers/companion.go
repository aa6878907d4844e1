package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
)

type CompanionHandler struct {
	companionService *service.CompanionService
}

func NewCompanionHandler(companionService *service.CompanionService) *CompanionHandler {
	return &CompanionHandler{companionService: companionService}
}

type ChatRequest struct {
	Message string `json:"message"`
	EntryID string `json:"entryId,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

func parseOptionalEntryID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *CompanionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entryID, err := parseOptionalEntryID(req.EntryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	reply, err := h.companionService.Chat(r.Context(), user.ID, entryID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("companion chat failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (h *CompanionHandler) History(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := parseOptionalEntryID(r.URL.Query().Get("entryId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.companionService.History(r.Context(), user.ID, entryID, limit)
	if err != nil {
		log.WithError(err).Error("companion history failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": toMessageResponses(messages)})
}

func toMessageResponses(messages []*domain.ConversationMessage) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
