package model

import "time"

// User represents a registered customer account. PasswordHash is never
// serialised into API responses.
type User struct {
	UserID       int64     `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Address      string    `json:"address,omitempty" db:"address"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest represents the request payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// LoginRequest represents the request payload for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
