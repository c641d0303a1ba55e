package models

import "time"

// User represents the users table in the database.
type User struct {
	ID        string    `json:"id"` // UUID primary key
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
