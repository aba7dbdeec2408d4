// Package identity manages officer credentials: password verification,
// password changes, and the reset-token flow. It sits between the services
// and the store so password hashing details never leak upward.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/cryptox"
	"github.com/copperline/precinct-auth/pkg/idx"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrResetTokenInvalid  = errors.New("identity: reset token invalid or expired")
)

// DefaultResetTokenTTL is how long a password-reset token stays redeemable.
const DefaultResetTokenTTL = 30 * time.Minute

// Manager owns credential operations for officer accounts.
type Manager struct {
	store    store.Store
	resetTTL time.Duration
}

func NewManager(s store.Store) *Manager {
	return NewManagerWithTTL(s, DefaultResetTokenTTL)
}

// NewManagerWithTTL overrides how long password-reset tokens stay redeemable.
func NewManagerWithTTL(s store.Store, resetTTL time.Duration) *Manager {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTokenTTL
	}
	return &Manager{store: s, resetTTL: resetTTL}
}

// FindByEmail returns the officer with the given email.
func (m *Manager) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.store.Users().GetUserByEmail(ctx, email)
}

// FindByID returns the officer with the given id.
func (m *Manager) FindByID(ctx context.Context, id string) (domain.User, error) {
	return m.store.Users().GetUserByID(ctx, id)
}

// Create hashes the password and persists the officer record.
func (m *Manager) Create(ctx context.Context, u domain.User, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u.PasswordHash = hash
	if err := m.store.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// Returns ErrInvalidCredentials on mismatch.
func (m *Manager) CheckPassword(u domain.User, password string) error {
	if err := cryptox.VerifyPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (m *Manager) ChangePassword(ctx context.Context, u domain.User, current, next string) error {
	if err := m.CheckPassword(u, current); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	return m.store.Users().UpdatePasswordHash(ctx, u.ID, hash)
}

// GeneratePasswordResetToken mints an opaque reset token for the officer and
// stores only its fingerprint. The plaintext token is returned once and never
// persisted.
func (m *Manager) GeneratePasswordResetToken(ctx context.Context, u domain.User) (string, error) {
	token, err := cryptox.GenerateToken(32)
	if err != nil {
		return "", err
	}

	rt := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: time.Now().UTC().Add(m.resetTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.ResetTokens().CreateResetToken(ctx, rt); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword redeems a reset token and stores the new password hash. The
// token is consumed on success so it cannot be replayed.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	rt, err := m.store.ResetTokens().GetActiveResetToken(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return m.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, rt.UserID, hash); err != nil {
			return err
		}
		return tx.ResetTokens().MarkResetTokenUsed(ctx, rt.ID)
	})
}
