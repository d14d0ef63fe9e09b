// Package models defines server-side data models persisted in the database.
package models

// User is an account. Email is the login identifier and is unique.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
// Password is plain text and gets hashed by the service.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}
