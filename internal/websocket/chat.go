package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mira/mood-journal-website/internal/service"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	replyTimeout   = 60 * time.Second
)

// ChatMessage is the inbound frame from the companion UI.
type ChatMessage struct {
	Message string `json:"message"`
	EntryID string `json:"entryId,omitempty"`
}

// ChatReply is the outbound frame; exactly one of Reply or Error is set.
type ChatReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChatSession drives one companion conversation over a websocket. Replies are
// generated synchronously per inbound frame, so a single goroutine pair per
// connection is enough; there is no cross-client fanout.
type ChatSession struct {
	conn      *websocket.Conn
	companion *service.CompanionService
	userID    uuid.UUID
	send      chan ChatReply
}

func NewChatSession(conn *websocket.Conn, companion *service.CompanionService, userID uuid.UUID) *ChatSession {
	return &ChatSession{
		conn:      conn,
		companion: companion,
		userID:    userID,
		send:      make(chan ChatReply, 8),
	}
}

// Run blocks until the connection closes.
func (s *ChatSession) Run() {
	go s.writePump()
	s.readPump()
}

func (s *ChatSession) readPump() {
	defer func() {
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Debug("companion websocket closed")
			}
			return
		}

		var msg ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send <- ChatReply{Error: "Invalid message"}
			continue
		}

		s.send <- s.handle(msg)
	}
}

func (s *ChatSession) handle(msg ChatMessage) ChatReply {
	var entryID *uuid.UUID
	if msg.EntryID != "" {
		id, err := uuid.Parse(msg.EntryID)
		if err != nil {
			return ChatReply{Error: "Invalid entry ID"}
		}
		entryID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := s.companion.Chat(ctx, s.userID, entryID, msg.Message)
	if err != nil {
		log.WithError(err).Warn("companion chat over websocket failed")
		return ChatReply{Error: "Something went wrong. Please try again."}
	}
	return ChatReply{Reply: reply}
}

func (s *ChatSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case reply, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(reply); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
