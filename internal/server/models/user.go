package models

import "time"

// User is a registered author. PasswordHash is populated only when a
// repository is explicitly asked for it and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
