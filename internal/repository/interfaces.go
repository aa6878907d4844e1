package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// UpdateLockState writes the failed-attempt counter and lock expiry for a
	// single user in one statement.
	UpdateLockState(ctx context.Context, id uuid.UUID, failedAttempts int, lockedUntil time.Time) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes a session row; deleting an absent row is not an error.
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) error
}

type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Entry, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Entry, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Entry, error)
	Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]*domain.Entry, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*domain.Attachment, error)
}

type AISettingsRepository interface {
	Create(ctx context.Context, settings *domain.AISettings) error
	// GetByUser returns gorm.ErrRecordNotFound for users who never saved
	// settings.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.AISettings, error)
	Update(ctx context.Context, settings *domain.AISettings) error
}

type ConversationRepository interface {
	Create(ctx context.Context, message *domain.ConversationMessage) error
	// ListRecent returns up to limit messages for the user (optionally scoped
	// to one entry), oldest first.
	ListRecent(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, limit int) ([]*domain.ConversationMessage, error)
}

// Transactor runs a function with repositories bound to a single store
// transaction, so the writes inside either all commit or all roll back.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Entry        EntryRepository
	Attachment   AttachmentRepository
	Conversation ConversationRepository
	AISettings   AISettingsRepository
	Tx           Transactor
}
