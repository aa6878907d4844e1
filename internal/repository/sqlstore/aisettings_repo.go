package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
	"gorm.io/gorm"
)

type aiSettingsRepository struct {
	db *gorm.DB
}

func NewAISettingsRepository(db *gorm.DB) *aiSettingsRepository {
	return &aiSettingsRepository{db: db}
}

func (r *aiSettingsRepository) Create(ctx context.Context, settings *domain.AISettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *aiSettingsRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.AISettings, error) {
	var settings domain.AISettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *aiSettingsRepository) Update(ctx context.Context, settings *domain.AISettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
