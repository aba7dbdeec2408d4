package domain

import "time"

// ResetToken records an outstanding password-reset grant. Only the SHA-256
// fingerprint of the opaque token is stored.
type ResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
