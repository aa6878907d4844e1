package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/config"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory fakes so these tests can drive the clock and observe the exact
// repository writes without a database.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLockState(_ context.Context, id uuid.UUID, failedAttempts int, lockedUntil time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.FailedAttempts = failedAttempts
	user.LockedUntil = lockedUntil
	return nil
}

type fakeSessionRepo struct {
	sessions  map[string]*domain.Session
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, before time.Time) error {
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.sessions, id)
		}
	}
	return nil
}

type fakeTx struct {
	repos *repository.Repositories
}

func (t *fakeTx) InTx(_ context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(t.repos)
}

type fakeLimiter struct {
	allowed   bool
	err       error
	resetKeys []string
}

func (l *fakeLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return l.allowed, l.err
}

func (l *fakeLimiter) Reset(_ context.Context, key string) error {
	l.resetKeys = append(l.resetKeys, key)
	return nil
}

func newTestAuthService(users *fakeUserRepo, sessions *fakeSessionRepo, limiter *fakeLimiter) *AuthService {
	repos := &repository.Repositories{User: users, Session: sessions}
	repos.Tx = &fakeTx{repos: repos}
	cfg := &config.Config{
		SessionDuration: time.Hour,
		LockThreshold:   5,
		LockDuration:    15 * time.Minute,
		LoginRateLimit:  50,
		LoginRateWindow: time.Minute,
	}
	return NewAuthService(repos, limiter, cfg)
}

func seedUser(email string) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Username:     "casey",
		Email:        email,
		PasswordHash: "$argon2id$unused",
		LockedUntil:  epochZero,
	}
}

func TestLogin_LockExpiresWithClock(t *testing.T) {
	user := seedUser("casey@example.com")
	user.FailedAttempts = 5
	users := newFakeUserRepo(user)
	svc := newTestAuthService(users, newFakeSessionRepo(), &fakeLimiter{allowed: true})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user.LockedUntil = base.Add(15 * time.Minute)

	svc.verifyPassword = func(string, string) (bool, error) { return true, nil }

	// One second before expiry the attempt is rejected without verification.
	svc.now = func() time.Time { return base.Add(15*time.Minute - time.Second) }
	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	// At expiry the same credentials go through and the counters reset.
	svc.now = func() time.Time { return base.Add(15 * time.Minute) }
	result, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	stored := users.users[user.ID]
	assert.Equal(t, 0, stored.FailedAttempts)
	assert.Equal(t, epochZero, stored.LockedUntil)
}

func TestLogin_LockedAccountSkipsVerification(t *testing.T) {
	user := seedUser("casey@example.com")
	users := newFakeUserRepo(user)
	svc := newTestAuthService(users, newFakeSessionRepo(), &fakeLimiter{allowed: true})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user.LockedUntil = now.Add(10 * time.Minute)
	svc.now = func() time.Time { return now }

	verifyCalls := 0
	svc.verifyPassword = func(string, string) (bool, error) {
		verifyCalls++
		return true, nil
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
	assert.Equal(t, 0, verifyCalls, "locked accounts must not cost a password hash")
}

func TestLogin_FailureProgressionLocksAtThreshold(t *testing.T) {
	user := seedUser("casey@example.com")
	users := newFakeUserRepo(user)
	svc := newTestAuthService(users, newFakeSessionRepo(), &fakeLimiter{allowed: true})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.verifyPassword = func(string, string) (bool, error) { return false, nil }

	for i := 1; i <= 4; i++ {
		_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "bad", SourceIP: "1.2.3.4"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		stored := users.users[user.ID]
		assert.Equal(t, i, stored.FailedAttempts)
		assert.Equal(t, epochZero, stored.LockedUntil, "no lock before the threshold")
	}

	// Fifth failure crosses the threshold.
	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "bad", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	stored := users.users[user.ID]
	assert.Equal(t, 5, stored.FailedAttempts)
	assert.Equal(t, now.Add(15*time.Minute), stored.LockedUntil)

	// And the next attempt is refused outright.
	_, err = svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "bad", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestLogin_RateLimited(t *testing.T) {
	user := seedUser("casey@example.com")
	svc := newTestAuthService(newFakeUserRepo(user), newFakeSessionRepo(), &fakeLimiter{allowed: false})

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestLogin_LimiterErrorFailsOpen(t *testing.T) {
	user := seedUser("casey@example.com")
	limiter := &fakeLimiter{allowed: false, err: assert.AnError}
	svc := newTestAuthService(newFakeUserRepo(user), newFakeSessionRepo(), limiter)
	svc.verifyPassword = func(string, string) (bool, error) { return true, nil }

	result, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_SuccessResetsLimiter(t *testing.T) {
	user := seedUser("casey@example.com")
	limiter := &fakeLimiter{allowed: true}
	svc := newTestAuthService(newFakeUserRepo(user), newFakeSessionRepo(), limiter)
	svc.verifyPassword = func(string, string) (bool, error) { return true, nil }

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3.4"}, limiter.resetKeys)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeSessionRepo(), &fakeLimiter{allowed: true})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "pw", SourceIP: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestValidateSession_ExpiryFollowsClock(t *testing.T) {
	user := seedUser("casey@example.com")
	sessions := newFakeSessionRepo()
	svc := newTestAuthService(newFakeUserRepo(user), sessions, &fakeLimiter{allowed: true})
	svc.verifyPassword = func(string, string) (bool, error) { return true, nil }

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	result, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw", SourceIP: "1.2.3.4"})
	require.NoError(t, err)

	// One second before expiry the token still resolves.
	svc.now = func() time.Time { return result.ExpiresAt.Add(-time.Second) }
	validated, err := svc.ValidateSession(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)

	// At expiry the token is rejected and the stale row is cleaned up.
	svc.now = func() time.Time { return result.ExpiresAt }
	_, err = svc.ValidateSession(context.Background(), result.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
	assert.Empty(t, sessions.sessions, "expired session row should be deleted")
}

func TestIssueSession_GivesUpAfterRepeatedCollisions(t *testing.T) {
	user := seedUser("casey@example.com")
	sessions := newFakeSessionRepo()
	sessions.createErr = gorm.ErrDuplicatedKey
	svc := newTestAuthService(newFakeUserRepo(user), sessions, &fakeLimiter{allowed: true})

	_, _, err := svc.issueSession(context.Background(), sessions, user.ID)
	assert.ErrorIs(t, err, domain.ErrSessionCreation)
}
