package identity

import (
	"context"
	"testing"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/internal/auth/store/drivers/sqlite"
	"github.com/copperline/precinct-auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return NewManager(s), s
}

func testOfficer(email string) domain.User {
	return domain.User{
		ID:                   idx.New().String(),
		IdentificationNumber: idx.New().String(),
		BadgeNumber:          idx.New().String()[:10],
		Name:                 "Alex",
		LastName:             "Moreira",
		Email:                email,
		PhoneNumber:          "+55" + idx.New().String()[:11],
		CPF:                  idx.New().String()[:11],
		Role:                 domain.RoleReadOnly,
		DateOfBirth:          time.Date(1988, 2, 2, 0, 0, 0, 0, time.UTC),
		DateOfJoining:        time.Date(2012, 6, 15, 0, 0, 0, 0, time.UTC),
		Rank:                 domain.RankConstable,
		Department:           domain.DepartmentForensicUnit,
		Status:               domain.StatusActive,
		AccessLevel:          domain.AccessReadOnly,
	}
}

func TestCreateAndCheckPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	created, err := m.Create(ctx, testOfficer("alex@precinct.test"), "S3cure#pass")
	require.NoError(t, err)
	require.NotEmpty(t, created.PasswordHash)
	require.NotContains(t, created.PasswordHash, "S3cure#pass")

	stored, err := m.FindByEmail(ctx, "alex@precinct.test")
	require.NoError(t, err)

	require.NoError(t, m.CheckPassword(stored, "S3cure#pass"))
	require.ErrorIs(t, m.CheckPassword(stored, "wrong"), ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Create(ctx, testOfficer("change@precinct.test"), "old-password1!")
	require.NoError(t, err)

	u, err := m.FindByEmail(ctx, "change@precinct.test")
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := m.ChangePassword(ctx, u, "not-the-password", "new-password1!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rotates the hash on success", func(t *testing.T) {
		require.NoError(t, m.ChangePassword(ctx, u, "old-password1!", "new-password1!"))

		fresh, err := m.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, m.CheckPassword(fresh, "new-password1!"))
		require.ErrorIs(t, m.CheckPassword(fresh, "old-password1!"), ErrInvalidCredentials)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Create(ctx, testOfficer("reset@precinct.test"), "original1!")
	require.NoError(t, err)

	u, err := m.FindByEmail(ctx, "reset@precinct.test")
	require.NoError(t, err)

	token, err := m.GeneratePasswordResetToken(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("bogus token rejected", func(t *testing.T) {
		err := m.ResetPassword(ctx, "not-a-real-token", "whatever1!")
		require.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("valid token resets and is consumed", func(t *testing.T) {
		require.NoError(t, m.ResetPassword(ctx, token, "reset-password1!"))

		fresh, err := m.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, m.CheckPassword(fresh, "reset-password1!"))

		err = m.ResetPassword(ctx, token, "again1!")
		require.ErrorIs(t, err, ErrResetTokenInvalid)
	})
}
