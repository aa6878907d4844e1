package domain

import (
	"time"

	"github.com/google/uuid"
)

// AISettings holds a user's companion preferences and their own model API
// keys. Keys are write-only from the client's point of view: responses only
// ever report whether a key is present.
type AISettings struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Enabled        bool      `json:"aiEnabled" gorm:"not null;default:false"`
	PrivacyConsent bool      `json:"privacyConsent" gorm:"not null;default:false"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	GroqAPIKey     string    `json:"-"`
	OpenAIAPIKey   string    `json:"-"`
	GeminiAPIKey   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (AISettings) TableName() string {
	return "ai_settings"
}
