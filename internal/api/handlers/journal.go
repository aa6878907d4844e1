package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

type EntryRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type EntryResponse struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	Mood           string   `json:"mood"`
	SentimentLabel string   `json:"sentimentLabel"`
	SentimentScore int      `json:"sentimentScore"`
	Keywords       []string `json:"keywords"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func toEntryResponse(entry *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:             entry.ID.String(),
		Content:        entry.Content,
		Mood:           entry.Mood,
		SentimentLabel: entry.SentimentLabel,
		SentimentScore: entry.SentimentScore,
		Keywords:       keywordList(entry.Keywords),
		CreatedAt:      entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      entry.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func keywordList(raw datatypes.JSON) []string {
	var words []string
	if len(raw) > 0 {
		json.Unmarshal(raw, &words)
	}
	if words == nil {
		words = []string{}
	}
	return words
}

func toEntryResponses(entries []*domain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryResponse(entry))
	}
	return out
}

func entryIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "entryID"))
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journalService.Create(r.Context(), user.ID, service.EntryInput{
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("entry creation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.journalService.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		log.WithError(err).Error("entry listing failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": toEntryResponses(entries)})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	entry, err := h.journalService.Get(r.Context(), user.ID, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		log.WithError(err).Error("entry fetch failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journalService.Update(r.Context(), user.ID, entryID, service.EntryInput{
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "Entry not found")
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("entry update failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	if err := h.journalService.Delete(r.Context(), user.ID, entryID); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		log.WithError(err).Error("entry deletion failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *JournalHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entries, err := h.journalService.Search(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("entry search failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": toEntryResponses(entries)})
}

func (h *JournalHandler) Similar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	similar, err := h.journalService.Similar(r.Context(), user.ID, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		log.WithError(err).Error("similar-entry lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"similar": similar})
}

func (h *JournalHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	attachment, err := h.journalService.SaveAttachment(r.Context(), user.ID, entryID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "Entry not found")
		case errors.Is(err, domain.ErrAttachmentTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "Attachment is too large")
		default:
			log.WithError(err).Error("attachment upload failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, attachment)
}

func (h *JournalHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	entryID, err := entryIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	attachments, err := h.journalService.Attachments(r.Context(), user.ID, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		log.WithError(err).Error("attachment listing failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"attachments": attachments})
}
