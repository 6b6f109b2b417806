package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-planner/internal/domain"
	"todo-planner/internal/repository"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "digest"})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
	assert.Equal(t, "digest", byName.PasswordHash)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "alice")

	_, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	// the failed insert must not have added a row
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'alice'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserRepository_GetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
