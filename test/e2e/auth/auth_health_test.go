package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	live, err := h.Client.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := h.Client.GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Cache)
}
