package store

import (
	"context"
	"errors"

	"github.com/copperline/precinct-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Tokens() Tokens
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail resolves the principal name carried in token claims.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the mutable profile fields and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2id) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateRole sets the role label and bumps updated_at.
	UpdateRole(ctx context.Context, userID string, role string) error

	// DeleteUser cascades to tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// EmailInUse / PhoneInUse / CPFInUse support registration and profile
	// validation; excludingUserID may be empty.
	EmailInUse(ctx context.Context, email, excludingUserID string) (bool, error)
	PhoneInUse(ctx context.Context, phone, excludingUserID string) (bool, error)
	CPFInUse(ctx context.Context, cpf, excludingUserID string) (bool, error)

	// IdentifierInUse reports whether any user already holds the given
	// identification or badge number.
	IdentifierInUse(ctx context.Context, identifier string) (bool, error)
}

// Tokens is the token store of record. The cached wrapper in
// internal/auth/store/tokencache adds the per-user read-through cache on top
// of any implementation of this interface.
type Tokens interface {
	// FindValidByUser returns the user's rows that are neither revoked nor expired.
	FindValidByUser(ctx context.Context, userID string) ([]domain.Token, error)

	// FindAllByUser returns every row owned by the user.
	FindAllByUser(ctx context.Context, userID string) ([]domain.Token, error)

	// FindByValue performs an exact match on the signed token string.
	FindByValue(ctx context.Context, value string) (domain.Token, error)

	// Save upserts one row by id.
	Save(ctx context.Context, t domain.Token) error

	// SaveAll upserts a batch of rows by id.
	SaveAll(ctx context.Context, ts []domain.Token) error

	// DeleteAll hard-deletes the given rows.
	DeleteAll(ctx context.Context, ts []domain.Token) error

	// DeleteByUser hard-deletes every row owned by the user.
	DeleteByUser(ctx context.Context, userID string) error
}

// ResetTokens stores fingerprints of outstanding password-reset tokens.
type ResetTokens interface {
	// CreateResetToken stores a new reset-token fingerprint.
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetActiveResetToken returns a not-used, not-expired reset token by fingerprint.
	GetActiveResetToken(ctx context.Context, tokenHash string) (domain.ResetToken, error)

	// MarkResetTokenUsed consumes a reset token so it cannot be replayed.
	MarkResetTokenUsed(ctx context.Context, id string) error

	// DeleteExpiredResetTokens is housekeeping.
	DeleteExpiredResetTokens(ctx context.Context) error
}
