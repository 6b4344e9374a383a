package domain

import "time"

// User represents a registered account. PasswordHash holds the bcrypt digest
// of the password; the plaintext is never persisted and the hash never leaves
// the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
