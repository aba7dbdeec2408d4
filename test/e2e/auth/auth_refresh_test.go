package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefreshRotatesThePair(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	session := registerOfficer(t, h, uniqueEmail("refresh"), "Lieutenant")

	oldRefresh := session.RefreshToken()

	require.NoError(t, session.Refresh(context.Background()))
	require.NotEqual(t, oldRefresh, session.RefreshToken())

	// Issuing a new pair wipes the old rows, so the consumed refresh token
	// is dead even though its signature is still good.
	stale := h.Client.NewSessionFromTokens(session.AccessToken(), oldRefresh)
	require.Error(t, stale.Refresh(context.Background()))

	// The live session keeps working.
	require.NoError(t, session.Refresh(context.Background()))
}

func TestLogoutKillsTheSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	session := registerOfficer(t, h, uniqueEmail("logout"), "Captain")

	require.NoError(t, session.Logout(context.Background()))

	// Revoked rows fail the gate, so authenticated calls stop working.
	_, err := session.ListUsers(context.Background())
	require.Error(t, err)
}
