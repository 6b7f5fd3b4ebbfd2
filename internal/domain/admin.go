// Package domain holds the entities persisted by the boutique API.
package domain

import "time"

// Admin is the single administrative account. It is created by the seed
// command and never mutated or deleted through the API.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the identity embedded in an issued token.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
