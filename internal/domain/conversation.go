package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles for companion conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn of the AI companion conversation. EntryID is
// set when the conversation is anchored to a specific journal entry.
type ConversationMessage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	EntryID   *uuid.UUID `json:"entryId,omitempty" gorm:"type:uuid;index"`
	Role      string     `json:"role" gorm:"not null"`
	Content   string     `json:"content" gorm:"not null"`
	CreatedAt time.Time  `json:"createdAt"`
}
