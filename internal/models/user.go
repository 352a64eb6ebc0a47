package models

import "time"

// User is the DB representation of a user row.
type User struct {
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"` // Unique
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
