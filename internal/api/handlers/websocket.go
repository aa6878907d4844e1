package handlers

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/service"
	"github.com/mira/mood-journal-website/internal/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	companionService *service.CompanionService
}

func NewWebSocketHandler(companionService *service.CompanionService) *WebSocketHandler {
	return &WebSocketHandler{companionService: companionService}
}

// Handle upgrades an already-authenticated request into a companion chat
// session. The auth middleware runs before this, so the session cookie has
// been validated by the time we get here.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	websocket.NewChatSession(conn, h.companionService, user.ID).Run()
}
