package sqlstore

import (
	"context"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database identified by databaseURL. Postgres DSNs
// are recognized by their scheme; anything else is treated as a SQLite file
// path. TranslateError is enabled so unique-key violations surface as
// gorm.ErrDuplicatedKey on both dialects.
func NewConnection(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Entry{},
		&domain.Attachment{},
		&domain.ConversationMessage{},
		&domain.AISettings{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Entry:        NewEntryRepository(db),
		Attachment:   NewAttachmentRepository(db),
		Conversation: NewConversationRepository(db),
		AISettings:   NewAISettingsRepository(db),
		Tx:           NewTransactor(db),
	}
}

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) repository.Transactor {
	return &transactor{db: db}
}

// InTx rebinds every repository to a single gorm transaction and runs fn.
// Returning an error rolls the whole unit back.
func (t *transactor) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
