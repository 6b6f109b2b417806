package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-planner/internal/domain"
	"todo-planner/internal/repository"
)

// The UNIQUE constraint on title is global across all users, matching the
// original schema this service replaces.
const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	deadline TEXT NOT NULL,
	details TEXT NOT NULL,
	owner_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id);
`

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO todos (title, deadline, details, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		todo.Title,
		todo.Deadline,
		todo.Details,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert todo %q: %w", todo.Title, repository.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("todo last insert id: %w", err)
	}
	todo.ID = id
	return id, nil
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, deadline, details, owner_id, created_at, updated_at
FROM todos
WHERE id = ?`,
		id,
	)

	var todo domain.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Deadline,
		&todo.Details,
		&todo.OwnerID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int64, title, deadline, details string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE todos
SET title=?, deadline=?, details=?, updated_at=?
WHERE id=?`,
		title,
		deadline,
		details,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update todo %d: %w", id, repository.ErrDuplicateEntry)
		}
		return fmt.Errorf("update todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByOwner orders by the raw deadline text, so "2024-01-15" sorts before
// "2024-02-01" but any non ISO-ish value sorts wherever string comparison
// puts it.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, deadline, details, owner_id, created_at, updated_at
FROM todos
WHERE owner_id = ?
ORDER BY deadline ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Deadline,
			&todo.Details,
			&todo.OwnerID,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}
