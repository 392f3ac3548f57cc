package auth

import "time"

// Identity is the signed-in principal delivered to subscribers. A nil
// *Identity in a change notification means nobody is signed in.
type Identity struct {
	UID   string
	Email string
}

// User is the domain representation of an account holder. It mirrors the
// users table and should not include JSON annotations so it can be reused by
// different presentation layers.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest contains account registration data supplied by callers.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest contains sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
