package domain

import "time"

// User represents a registered account. PasswordHash is a bcrypt digest,
// never the plaintext.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
