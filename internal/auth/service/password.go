package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// PasswordService changes and resets officer passwords.
type PasswordService struct {
	Identity *identity.Manager
	Tokens   *TokenService
}

// ChangePassword verifies the current password and swaps in the new one.
// Returns false when the email is unknown or the current password is wrong;
// the caller cannot tell which, on purpose.
func (s *PasswordService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) (bool, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Identity.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.Identity.ChangePassword(ctx, user, currentPassword, newPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			l.Warn("password change rejected", slog.String("user_id", user.ID))
			return false, nil
		}
		return false, err
	}

	l.Info("password changed", slog.String("user_id", user.ID))
	return true, nil
}

// ForgotPassword resets the password for the given email without the current
// password, then revokes every outstanding token. Returns false when the
// email is unknown.
func (s *PasswordService) ForgotPassword(ctx context.Context, email, newPassword string) (bool, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Identity.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	token, err := s.Identity.GeneratePasswordResetToken(ctx, user)
	if err != nil {
		return false, err
	}
	if err := s.Identity.ResetPassword(ctx, token, newPassword); err != nil {
		if errors.Is(err, identity.ErrResetTokenInvalid) {
			return false, nil
		}
		return false, err
	}

	if err := s.Tokens.RevokeAll(ctx, user.ID); err != nil {
		return false, err
	}

	l.Info("password reset", slog.String("user_id", user.ID))
	return true, nil
}
