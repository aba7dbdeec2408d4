package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/idx"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// TokenService owns the lifecycle of issued bearer tokens: minting pairs,
// revoking them, and answering revocation/expiry lookups.
type TokenService struct {
	Codec      jwtx.Codec
	Issuer     string
	Audience   []string
	Tokens     store.Tokens
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a fresh access/refresh pair for the officer, replacing any
// rows they already hold. Both tokens are persisted as Bearer rows so they
// can be revoked server-side later.
//
// The delete-then-insert is not transactional with respect to concurrent
// logins by the same user; the later writer wins and earlier tokens fall out
// of the store, which matches the intended single-session behavior.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	accessValue, err := s.sign(u, s.accessTTL(), now)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refreshValue, err := s.sign(u, s.refreshTTL(), now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.clearTokens(ctx, u.ID); err != nil {
		return domain.TokenPair{}, err
	}

	rows := []domain.Token{
		newBearerRow(accessValue, u.ID, now),
		newBearerRow(refreshValue, u.ID, now),
	}
	if err := s.Tokens.SaveAll(ctx, rows); err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("token pair issued", slog.String("user_id", u.ID))

	return domain.TokenPair{AccessToken: accessValue, RefreshToken: refreshValue}, nil
}

// RevokeAll marks every valid token the officer holds as revoked and expired.
// Rows are kept, not deleted, so revocation lookups keep answering true.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	valid, err := s.Tokens.FindValidByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(valid) == 0 {
		return nil
	}

	for i := range valid {
		valid[i].Revoked = true
		valid[i].Expired = true
	}

	if err := s.Tokens.SaveAll(ctx, valid); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("all tokens revoked", slog.String("user_id", userID))
	return nil
}

// IsRevoked reports whether the exact token string was revoked. An unknown
// token reads as not revoked; the signature check elsewhere is what rejects
// forgeries.
func (s *TokenService) IsRevoked(ctx context.Context, value string) (bool, error) {
	t, err := s.Tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return t.Revoked, nil
}

// IsExpired reports whether the exact token string was marked expired. An
// unknown token reads as not expired.
func (s *TokenService) IsExpired(ctx context.Context, value string) (bool, error) {
	t, err := s.Tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return t.Expired, nil
}

func (s *TokenService) clearTokens(ctx context.Context, userID string) error {
	existing, err := s.Tokens.FindAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	if err := s.Tokens.DeleteAll(ctx, existing); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("cleared prior tokens",
		slog.String("user_id", userID), slog.Int("count", len(existing)))
	return nil
}

func (s *TokenService) sign(u domain.User, ttl time.Duration, now time.Time) (string, error) {
	claims := jwtx.NewUserClaims(
		u.ID, u.Email,
		u.Name, u.LastName, u.CPF, u.PhoneNumber, u.Role,
		ttl, s.Issuer, s.Audience, now,
	)
	return s.Codec.Sign(claims)
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func newBearerRow(value, userID string, now time.Time) domain.Token {
	return domain.Token{
		ID:        idx.New().String(),
		Value:     value,
		Type:      domain.TokenTypeBearer,
		Revoked:   false,
		Expired:   false,
		UserID:    userID,
		CreatedAt: now,
	}
}
