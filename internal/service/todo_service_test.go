package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-planner/internal/service"
)

func registerUser(t *testing.T, users service.UserService, name string) int64 {
	t.Helper()
	user, err := users.Register(context.Background(), name, "password")
	require.NoError(t, err)
	return user.ID
}

func TestTodoService_CreateAndList(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")

	created, err := todos.Create(ctx, owner, "Buy milk", "2024-01-01", "2% milk")
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	list, err := todos.ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Title)
	assert.Equal(t, "2024-01-01", list[0].Deadline)
	assert.Equal(t, "2% milk", list[0].Details)
	assert.Equal(t, owner, list[0].OwnerID)
}

func TestTodoService_ListSortedByDeadlineString(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")

	_, err := todos.Create(ctx, owner, "Second", "2024-02-01", "d")
	require.NoError(t, err)
	_, err = todos.Create(ctx, owner, "First", "2024-01-15", "d")
	require.NoError(t, err)

	list, err := todos.ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-15", list[0].Deadline)
	assert.Equal(t, "2024-02-01", list[1].Deadline)
}

func TestTodoService_DuplicateTitleGlobal(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	alice := registerUser(t, users, "alice")
	bob := registerUser(t, users, "bob")

	_, err := todos.Create(ctx, alice, "Taxes", "2024-04-15", "d")
	require.NoError(t, err)

	// title uniqueness spans users, matching the original schema
	_, err = todos.Create(ctx, bob, "Taxes", "2024-04-15", "d")
	assert.ErrorIs(t, err, service.ErrDuplicateTitle)
}

func TestTodoService_Validation(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")

	_, err := todos.Create(ctx, owner, "", "2024-01-01", "d")
	assert.Error(t, err)

	_, err = todos.Create(ctx, owner, "T", "", "d")
	assert.Error(t, err)

	_, err = todos.Create(ctx, owner, "T", "2024-01-01", "")
	assert.Error(t, err)

	_, err = todos.Create(ctx, owner, "T", "2024-01-01", strings.Repeat("x", 201))
	assert.Error(t, err)
}

func TestTodoService_UpdateMissing(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")

	err := todos.Update(ctx, owner, 999, "T", "2024-01-01", "d")
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	list, err := todos.ListForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list, "failed update must not create anything")
}

func TestTodoService_UpdateReplacesAllFields(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")
	created, err := todos.Create(ctx, owner, "Old", "2024-01-01", "old")
	require.NoError(t, err)

	require.NoError(t, todos.Update(ctx, owner, created.ID, "New", "2024-06-01", "new"))

	got, err := todos.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "2024-06-01", got.Deadline)
	assert.Equal(t, "new", got.Details)
}

func TestTodoService_DeleteTwice(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	owner := registerUser(t, users, "alice")
	created, err := todos.Create(ctx, owner, "Once", "2024-01-01", "d")
	require.NoError(t, err)

	require.NoError(t, todos.Delete(ctx, owner, created.ID))
	assert.ErrorIs(t, todos.Delete(ctx, owner, created.ID), service.ErrTodoNotFound)

	list, err := todos.ListForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTodoService_OwnershipEnforcedByDefault(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, false)
	ctx := context.Background()

	alice := registerUser(t, users, "alice")
	bob := registerUser(t, users, "bob")

	created, err := todos.Create(ctx, alice, "Private", "2024-01-01", "d")
	require.NoError(t, err)

	// bob gets the same answer as for a nonexistent id
	_, err = todos.Get(ctx, bob, created.ID)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)
	assert.ErrorIs(t, todos.Update(ctx, bob, created.ID, "Stolen", "2024-01-01", "d"), service.ErrTodoNotFound)
	assert.ErrorIs(t, todos.Delete(ctx, bob, created.ID), service.ErrTodoNotFound)

	// alice is unaffected
	got, err := todos.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

// Documents the original application's missing ownership check, available
// behind compat.unscopedtodoaccess.
func TestTodoService_UnscopedCompatMode(t *testing.T) {
	userRepo, todoRepo := newRepos(t)
	users := service.NewUserService(userRepo)
	todos := service.NewTodoService(todoRepo, true)
	ctx := context.Background()

	alice := registerUser(t, users, "alice")
	bob := registerUser(t, users, "bob")

	created, err := todos.Create(ctx, alice, "Private", "2024-01-01", "d")
	require.NoError(t, err)

	got, err := todos.Get(ctx, bob, created.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got.OwnerID)

	require.NoError(t, todos.Update(ctx, bob, created.ID, "Stolen", "2024-01-01", "d"))
	require.NoError(t, todos.Delete(ctx, bob, created.ID))

	list, err := todos.ListForOwner(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}
