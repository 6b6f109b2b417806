package domain

import "time"

// Todo is a single task owned by exactly one user.
//
// Deadline is a string-typed date and is never parsed; ordering over
// deadlines is plain string comparison.
type Todo struct {
	ID        int64
	Title     string
	Deadline  string
	Details   string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
