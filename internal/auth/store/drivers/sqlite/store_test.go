package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:                   idx.New().String(),
		IdentificationNumber: idx.New().String(),
		BadgeNumber:          idx.New().String()[:10],
		Name:                 "Jordan",
		LastName:             "Reyes",
		Email:                email,
		PhoneNumber:          "+55" + idx.New().String()[:11],
		CPF:                  idx.New().String()[:11],
		PasswordHash:         "argon2id-hash",
		Role:                 domain.RoleUser,
		DateOfBirth:          time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		DateOfJoining:        time.Date(2015, 8, 1, 0, 0, 0, 0, time.UTC),
		Rank:                 domain.RankConstable,
		Department:           domain.DepartmentPatrolDivision,
		Status:               domain.StatusActive,
		AccessLevel:          domain.AccessReadOnly,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepoCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "jordan.reyes@precinct.test")

	t.Run("fetch by id and email", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, domain.RankConstable, got.Rank)

		got, err = s.Users().GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		dup.IdentificationNumber = idx.New().String()
		dup.BadgeNumber = idx.New().String()[:10]
		dup.PhoneNumber = "+5511999990000"
		dup.CPF = "00011122233"
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update profile fields", func(t *testing.T) {
		u.Name = "Casey"
		u.Rank = domain.RankSergeant
		require.NoError(t, s.Users().UpdateUser(ctx, u))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Casey", got.Name)
		require.Equal(t, domain.RankSergeant, got.Rank)
	})

	t.Run("update password hash and role", func(t *testing.T) {
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))
		require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleReadWrite))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.Equal(t, domain.RoleReadWrite, got.Role)
	})

	t.Run("uniqueness probes", func(t *testing.T) {
		inUse, err := s.Users().EmailInUse(ctx, u.Email, "")
		require.NoError(t, err)
		require.True(t, inUse)

		inUse, err = s.Users().EmailInUse(ctx, u.Email, u.ID)
		require.NoError(t, err)
		require.False(t, inUse)

		inUse, err = s.Users().IdentifierInUse(ctx, u.IdentificationNumber)
		require.NoError(t, err)
		require.True(t, inUse)

		inUse, err = s.Users().IdentifierInUse(ctx, "UNSEEN123")
		require.NoError(t, err)
		require.False(t, inUse)
	})

	t.Run("list users", func(t *testing.T) {
		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}

func TestTokensRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "tokens@precinct.test")

	mkToken := func(value string, revoked, expired bool) domain.Token {
		return domain.Token{
			ID:        idx.New().String(),
			Value:     value,
			Type:      domain.TokenTypeBearer,
			Revoked:   revoked,
			Expired:   expired,
			UserID:    u.ID,
			CreatedAt: time.Now().UTC(),
		}
	}

	live := mkToken("live-token", false, false)
	dead := mkToken("dead-token", true, true)
	require.NoError(t, s.Tokens().SaveAll(ctx, []domain.Token{live, dead}))

	t.Run("FindValidByUser filters revoked and expired", func(t *testing.T) {
		valid, err := s.Tokens().FindValidByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, valid, 1)
		require.Equal(t, "live-token", valid[0].Value)
	})

	t.Run("FindAllByUser returns every row", func(t *testing.T) {
		all, err := s.Tokens().FindAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("FindByValue exact match", func(t *testing.T) {
		got, err := s.Tokens().FindByValue(ctx, "dead-token")
		require.NoError(t, err)
		require.True(t, got.Revoked)
		require.True(t, got.Expired)

		_, err = s.Tokens().FindByValue(ctx, "absent")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Save upserts by id", func(t *testing.T) {
		live.Revoked = true
		live.Expired = true
		require.NoError(t, s.Tokens().Save(ctx, live))

		valid, err := s.Tokens().FindValidByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, valid)
	})

	t.Run("DeleteAll removes given rows", func(t *testing.T) {
		require.NoError(t, s.Tokens().DeleteAll(ctx, []domain.Token{dead}))

		all, err := s.Tokens().FindAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("DeleteByUser clears the rest", func(t *testing.T) {
		require.NoError(t, s.Tokens().DeleteByUser(ctx, u.ID))

		all, err := s.Tokens().FindAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("deleting the user cascades to tokens", func(t *testing.T) {
		other := seedUser(t, s, "cascade@precinct.test")
		tok := domain.Token{
			ID: idx.New().String(), Value: "cascade-token", Type: domain.TokenTypeBearer,
			UserID: other.ID, CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, s.Tokens().Save(ctx, tok))
		require.NoError(t, s.Users().DeleteUser(ctx, other.ID))

		_, err := s.Tokens().FindByValue(ctx, "cascade-token")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestResetTokensRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "reset@precinct.test")

	active := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "hash-active",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	stale := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "hash-stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	require.NoError(t, s.ResetTokens().CreateResetToken(ctx, active))
	require.NoError(t, s.ResetTokens().CreateResetToken(ctx, stale))

	t.Run("expired token is not active", func(t *testing.T) {
		_, err := s.ResetTokens().GetActiveResetToken(ctx, "hash-stale")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("active token resolves then gets consumed", func(t *testing.T) {
		got, err := s.ResetTokens().GetActiveResetToken(ctx, "hash-active")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.UserID)

		require.NoError(t, s.ResetTokens().MarkResetTokenUsed(ctx, got.ID))

		_, err = s.ResetTokens().GetActiveResetToken(ctx, "hash-active")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("housekeeping deletes expired and used rows", func(t *testing.T) {
		require.NoError(t, s.ResetTokens().DeleteExpiredResetTokens(ctx))
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "txn@precinct.test")

	boom := func(tx store.Tx) error {
		tok := domain.Token{
			ID: idx.New().String(), Value: "txn-token", Type: domain.TokenTypeBearer,
			UserID: u.ID, CreatedAt: time.Now().UTC(),
		}
		if err := tx.Tokens().Save(ctx, tok); err != nil {
			return err
		}
		return store.ErrAlreadyExists // any error forces rollback
	}
	require.Error(t, s.WithTx(ctx, boom))

	all, err := s.Tokens().FindAllByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, all)

	t.Run("commit persists", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			tok := domain.Token{
				ID: idx.New().String(), Value: "committed-token", Type: domain.TokenTypeBearer,
				UserID: u.ID, CreatedAt: time.Now().UTC(),
			}
			return tx.Tokens().Save(ctx, tok)
		})
		require.NoError(t, err)

		all, err := s.Tokens().FindAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})
}
