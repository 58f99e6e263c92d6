package models

import "time"

// User represents an authenticated account. The identity layer only needs a
// stable identifier; profile data is incidental.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Username maps a user identifier to its unique, human-chosen handle.
// The record is immutable once created; there is no rename.
type Username struct {
	UserID    int64     `json:"userId"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"createdAt"`
}

// RefreshToken is a persisted opaque refresh token for a user session.
type RefreshToken struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
