package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`     // Never expose this to the client
	Image        *string   `json:"image"` // Bare filename inside the image store, never a path
	CreatedAt    time.Time `json:"created_at"`
}
