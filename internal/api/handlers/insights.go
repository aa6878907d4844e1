package handlers

import (
	"net/http"
	"strconv"

	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
)

type InsightsHandler struct {
	insightsService *service.InsightsService
}

func NewInsightsHandler(insightsService *service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

func (h *InsightsHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rangeDays, _ := strconv.Atoi(r.URL.Query().Get("range"))

	report, err := h.insightsService.Report(r.Context(), user.ID, rangeDays)
	if err != nil {
		log.WithError(err).Error("insights report failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
