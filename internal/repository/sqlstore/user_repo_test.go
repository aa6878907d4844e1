package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/repository/sqlstore"
	"github.com/mira/mood-journal-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := sqlstore.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "casey",
		Email:        "casey@example.com",
		PasswordHash: "$argon2id$test",
		LockedUntil:  time.Unix(0, 0).UTC(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "casey", got.Username)
	assert.Equal(t, 0, got.FailedAttempts)

	got, err = repo.GetByEmail(ctx, "casey@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := sqlstore.NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewUserBuilder().WithEmail("dup@example.com").Build(t, testDB.DB)

	err := repo.Create(ctx, &domain.User{
		ID:          uuid.New(),
		Username:    "other",
		Email:       "dup@example.com",
		LockedUntil: time.Unix(0, 0).UTC(),
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_UpdateLockState(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := sqlstore.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("lock@example.com").Build(t, testDB.DB)

	until := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.UpdateLockState(ctx, user.ID, 5, until))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.FailedAttempts)
	assert.WithinDuration(t, until, got.LockedUntil, time.Millisecond)

	// Reset back to the sentinel
	require.NoError(t, repo.UpdateLockState(ctx, user.ID, 0, time.Unix(0, 0).UTC()))

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedAttempts)
	assert.False(t, got.Locked(time.Now()))
}
