package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/service"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username       string
	email          string
	password       string
	googleOnly     bool
	failedAttempts int
	lockedUntil    time.Time
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username:    fmt.Sprintf("testuser_%s", suffix),
		email:       fmt.Sprintf("test_%s@example.com", suffix),
		password:    "testpassword123",
		lockedUntil: time.Unix(0, 0).UTC(),
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithGoogleOnly marks the account as federated; it gets no password hash
func (b *UserBuilder) WithGoogleOnly() *UserBuilder {
	b.googleOnly = true
	return b
}

// WithFailedAttempts seeds the lockout counter
func (b *UserBuilder) WithFailedAttempts(n int) *UserBuilder {
	b.failedAttempts = n
	return b
}

// WithLockedUntil seeds an active or expired lock
func (b *UserBuilder) WithLockedUntil(until time.Time) *UserBuilder {
	b.lockedUntil = until
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	var hash string
	if !b.googleOnly {
		var err error
		hash, err = service.HashPassword(b.password)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
	}

	user := &domain.User{
		ID:             uuid.New(),
		Username:       b.username,
		Email:          b.email,
		PasswordHash:   hash,
		FailedAttempts: b.failedAttempts,
		LockedUntil:    b.lockedUntil,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user, logs in through the API, and returns the
// user with its session cookie
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Cookie) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": password})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned status %d", resp.StatusCode)
	}

	cookie := SessionCookie(resp)
	if cookie == nil {
		t.Fatal("login response set no session cookie")
	}
	return user, cookie
}

// EntryBuilder creates journal entries with a builder pattern
type EntryBuilder struct {
	userID         uuid.UUID
	content        string
	mood           string
	sentimentLabel string
	sentimentScore int
	keywords       []string
	createdAt      time.Time
}

// NewEntryBuilder creates a new EntryBuilder for the given user
func NewEntryBuilder(userID uuid.UUID) *EntryBuilder {
	return &EntryBuilder{
		userID:         userID,
		content:        "Today was an ordinary day with nothing remarkable.",
		mood:           "neutral",
		sentimentLabel: domain.SentimentNeutral,
		createdAt:      time.Now(),
	}
}

// WithContent sets the entry content
func (b *EntryBuilder) WithContent(content string) *EntryBuilder {
	b.content = content
	return b
}

// WithMood sets the mood
func (b *EntryBuilder) WithMood(mood string) *EntryBuilder {
	b.mood = mood
	return b
}

// WithSentiment sets the stored sentiment label and score
func (b *EntryBuilder) WithSentiment(label string, score int) *EntryBuilder {
	b.sentimentLabel = label
	b.sentimentScore = score
	return b
}

// WithKeywords sets the extracted keywords
func (b *EntryBuilder) WithKeywords(words ...string) *EntryBuilder {
	b.keywords = words
	return b
}

// WithCreatedAt backdates the entry
func (b *EntryBuilder) WithCreatedAt(at time.Time) *EntryBuilder {
	b.createdAt = at
	return b
}

// Build creates the entry in the database
func (b *EntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.Entry {
	t.Helper()

	var keywords datatypes.JSON
	if b.keywords != nil {
		raw, err := json.Marshal(b.keywords)
		if err != nil {
			t.Fatalf("failed to marshal keywords: %v", err)
		}
		keywords = datatypes.JSON(raw)
	}

	entry := &domain.Entry{
		ID:             uuid.New(),
		UserID:         b.userID,
		Content:        b.content,
		Mood:           b.mood,
		SentimentLabel: b.sentimentLabel,
		SentimentScore: b.sentimentScore,
		Keywords:       keywords,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	return entry
}
