package repository

import (
	"context"

	"todo-planner/internal/domain"
)

// TodoRepository exposes persistence operations for Todo records.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Todo, error)
	// Update replaces title, deadline and details together; partial
	// updates are not supported.
	Update(ctx context.Context, id int64, title, deadline, details string) error
	Delete(ctx context.Context, id int64) error
	// ListByOwner returns the owner's todos ordered by deadline string,
	// ascending.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
}
