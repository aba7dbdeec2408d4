package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Codec signs and verifies bearer tokens. Callers must treat any non-nil
// verification error the same as an absent token.
type Codec interface {
	Sign(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}

// HS256Codec is a symmetric HMAC-SHA256 codec. It holds no state beyond its
// configuration, so a single instance is safe for concurrent use.
type HS256Codec struct {
	secret   []byte
	issuer   string
	audience []string
}

// NewHS256Codec builds a codec over a shared secret. The issuer and audience
// are stamped into every token and enforced on every verification.
func NewHS256Codec(secret []byte, issuer string, audience []string) (*HS256Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty HS256 secret")
	}
	return &HS256Codec{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Issuer returns the issuer claim stamped into tokens.
func (c *HS256Codec) Issuer() string { return c.issuer }

// Audience returns the audience claims stamped into tokens.
func (c *HS256Codec) Audience() []string { return c.audience }

// Sign takes claims and turns them into a signed JWT string.
func (c *HS256Codec) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses the token, checks the HMAC signature and then enforces
// issuer, audience, and expiry. Callers get the claims back only when every
// check passes.
func (c *HS256Codec) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, ErrAlgMismatch):
			return Claims{}, ErrAlgMismatch
		default:
			return Claims{}, err
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(c.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
