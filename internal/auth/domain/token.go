package domain

import "time"

// TokenType labels the credential scheme a token row belongs to. Only Bearer
// is issued today.
type TokenType string

const TokenTypeBearer TokenType = "Bearer"

// Token is one issued credential row. The signed value never changes after
// creation; only the revoked/expired status flags do. Rows are hard-deleted
// when a fresh pair is issued for the same user.
type Token struct {
	ID        string
	Value     string // signed JWT, exact-match lookup key
	Type      TokenType
	Revoked   bool
	Expired   bool
	UserID    string
	CreatedAt time.Time
}

// Valid reports whether the row is still usable: neither revoked nor expired.
func (t Token) Valid() bool { return !t.Revoked && !t.Expired }

// TokenPair is what the login, registration, and refresh flows hand back to
// the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
