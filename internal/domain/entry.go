package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment labels assigned to journal entries.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Entry is a single journal entry. SentimentScore is on a -100..100 scale;
// Keywords holds the extracted keyword list as a JSON array.
type Entry struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Content        string         `json:"content" gorm:"not null"`
	Mood           string         `json:"mood" gorm:"not null"`
	SentimentLabel string         `json:"sentimentLabel" gorm:"not null;default:'NEUTRAL'"`
	SentimentScore int            `json:"sentimentScore" gorm:"not null;default:0"`
	Keywords       datatypes.JSON `json:"keywords"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Attachment is a file uploaded alongside an entry. StoredName is the
// server-assigned filename under the upload directory.
type Attachment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	EntryID    uuid.UUID `json:"entryId" gorm:"type:uuid;not null;index"`
	Filename   string    `json:"filename" gorm:"not null"`
	StoredName string    `json:"-" gorm:"not null"`
	Mime       string    `json:"mime" gorm:"not null"`
	Size       int64     `json:"size" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}
