package models

import "time"

// Identity is the minimal view of an authenticated user
type Identity struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
}

// LoginResponse represents the response after successful authentication.
// The session token travels in a cookie, not in the body.
type LoginResponse struct {
	User      Identity  `json:"user"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// SessionResponse describes the current session
type SessionResponse struct {
	User      Identity  `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
