package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
	"gorm.io/gorm"
)

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *conversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, message *domain.ConversationMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *conversationRepository) ListRecent(ctx context.Context, userID uuid.UUID, entryID *uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if entryID != nil {
		q = q.Where("entry_id = ?", *entryID)
	}

	var messages []*domain.ConversationMessage
	err := q.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse so callers get oldest-first context windows.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
