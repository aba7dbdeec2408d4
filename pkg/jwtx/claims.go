package jwtx

import (
	"slices"
	"time"

	"github.com/copperline/precinct-auth/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Access tokens are short-lived; refresh tokens
// stretch further so users aren't constantly re-entering credentials. Both
// can be overridden via configuration.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the bearer-token claims carried by every token this service
// issues. Access and refresh tokens share the same shape; which one a token
// is depends only on the TTL the caller picked.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the principal name used to resolve the user on each request.
	Email string `json:"email,omitempty"`

	// GivenName and Surname mirror the officer record for display purposes.
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`

	// CPF is the national identity document number.
	CPF string `json:"cpf,omitempty"`

	// PhoneNumber of the officer.
	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Role label used by route guards ("ReadOnly", "ReadWrite", "Admin", "User").
	Role string `json:"role,omitempty"`
}

// NewUserClaims builds minimally-correct claims for a user token.
func NewUserClaims(
	subject, email string,
	givenName, surname, cpf, phoneNumber, role string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// A per-token ID keeps two tokens minted for the same user in
			// the same second from colliding byte for byte.
			ID:        idx.New().String(),
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		GivenName:   givenName,
		Surname:     surname,
		CPF:         cpf,
		PhoneNumber: phoneNumber,
		Role:        role,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
