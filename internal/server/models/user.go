package models

import "time"

// User is an account as stored by the server. PasswordHash is an encoded
// argon2id hash (see cryptox.HashPassword).
type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
