package models

import "time"

// User is an account record. PasswordHash is the argon2id hash of the
// password with Salt; the plaintext password is never stored.
type User struct {
	ID           string
	Username     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
