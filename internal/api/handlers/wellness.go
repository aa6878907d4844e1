package handlers

import (
	"net/http"

	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
)

type WellnessHandler struct {
	wellnessService *service.WellnessService
}

func NewWellnessHandler(wellnessService *service.WellnessService) *WellnessHandler {
	return &WellnessHandler{wellnessService: wellnessService}
}

func (h *WellnessHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	report, err := h.wellnessService.Report(r.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("wellness report failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
