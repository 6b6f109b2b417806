package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"todo-planner/internal/domain"
	"todo-planner/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewTodoRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, repo repository.UserRepository, username string) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
	})
	require.NoError(t, err)
	return id
}
