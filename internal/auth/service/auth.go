package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/internal/auth/throttle"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// MaxLoginAttempts is the failed-attempt threshold at which an account locks.
// At or past it the password is never even checked.
const MaxLoginAttempts = 3

// User-facing outcome messages. These are part of the API contract and must
// not drift.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgAccountLocked      = "Your account is locked. Please contact support."
	MsgLoginSuccess       = "Login successfully."
	MsgInvalidRefresh     = "Invalid refresh token."
)

// AuthService authenticates officers and hands out token pairs.
type AuthService struct {
	Identity *identity.Manager
	Throttle *throttle.Throttle
	Tokens   *TokenService
}

// Login authenticates by email and password. The failed-attempt counter is
// consulted first: a locked account short-circuits before any credential
// check, so lockout cannot be probed away. Infrastructure faults surface as
// errors; credential problems surface as a failed Result.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, Result, error) {
	l := slogx.FromContext(ctx)
	l.Info("authentication attempt", slog.String("email", email))

	attempts, err := s.Throttle.Count(ctx, email)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	if attempts >= MaxLoginAttempts {
		l.Warn("account locked after repeated failures", slog.String("email", email))
		return domain.TokenPair{}, Result{Success: false, Message: MsgAccountLocked}, nil
	}

	user, err := s.Identity.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			res, ferr := s.failedAttempt(ctx, email)
			return domain.TokenPair{}, res, ferr
		}
		return domain.TokenPair{}, Result{}, err
	}

	if err := s.Identity.CheckPassword(user, password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			res, ferr := s.failedAttempt(ctx, email)
			return domain.TokenPair{}, res, ferr
		}
		return domain.TokenPair{}, Result{}, err
	}

	if err := s.Throttle.Reset(ctx, email); err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	l.Info("user authenticated", slog.String("email", email), slog.String("user_id", user.ID))
	return pair, Result{Success: true, Message: MsgLoginSuccess}, nil
}

// Logout revokes every token the officer holds.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Tokens.RevokeAll(ctx, userID)
}

// Refresh exchanges a live refresh token for a brand-new pair. The presented
// token must carry a valid signature, still exist as a row, and be neither
// revoked nor expired. Issuing the new pair deletes the old rows, so a
// refresh token is effectively single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, Result, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Tokens.Codec.Verify(refreshToken)
	if err != nil {
		l.Warn("refresh rejected: bad token", slog.Any("error", err))
		return domain.TokenPair{}, Result{Success: false, Message: MsgInvalidRefresh}, nil
	}

	row, err := s.Tokens.Tokens.FindByValue(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("refresh rejected: unknown token", slog.String("user_id", claims.Subject))
			return domain.TokenPair{}, Result{Success: false, Message: MsgInvalidRefresh}, nil
		}
		return domain.TokenPair{}, Result{}, err
	}
	if !row.Valid() {
		l.Warn("refresh rejected: revoked or expired", slog.String("user_id", claims.Subject))
		return domain.TokenPair{}, Result{Success: false, Message: MsgInvalidRefresh}, nil
	}

	user, err := s.Identity.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, Result{Success: false, Message: MsgInvalidRefresh}, nil
		}
		return domain.TokenPair{}, Result{}, err
	}

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	return pair, Result{Success: true, Message: MsgLoginSuccess}, nil
}

func (s *AuthService) failedAttempt(ctx context.Context, email string) (Result, error) {
	if _, err := s.Throttle.Increment(ctx, email); err != nil {
		return Result{}, err
	}

	slogx.FromContext(ctx).Warn("authentication failed", slog.String("email", email))
	return Result{Success: false, Message: MsgInvalidCredentials}, nil
}
