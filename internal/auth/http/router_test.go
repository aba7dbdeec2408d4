package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/internal/auth/store/drivers/sqlite"
	"github.com/copperline/precinct-auth/internal/auth/store/tokencache"
	"github.com/copperline/precinct-auth/internal/auth/throttle"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

type redisPinger struct{ rdb redis.UniversalClient }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codec, err := jwtx.NewHS256Codec([]byte("router-test-secret-32-bytes-ok!!"), "precinct-auth", []string{"precinct"})
	require.NoError(t, err)

	idm := identity.NewManager(s)
	tokens := &service.TokenService{
		Codec:    codec,
		Issuer:   "precinct-auth",
		Audience: []string{"precinct"},
		Tokens:   tokencache.New(s.Tokens()),
	}

	// Generous rate limits so tests never trip them.
	r := NewRouter(codec, "test", s, redisPinger{rdb: rdb}, slog.New(slog.DiscardHandler))
	r.Identity = idm
	r.TokenService = tokens
	r.AuthService = &service.AuthService{Identity: idm, Throttle: throttle.New(rdb), Tokens: tokens}
	r.RegisterService = &service.RegisterService{Store: s, Tokens: tokens}
	r.ProfileService = &service.ProfileService{Identity: idm, Store: s, Tokens: tokens}
	r.PasswordService = &service.PasswordService{Identity: idm, Tokens: tokens}
	r.UserService = &service.UserService{Store: s}
	r.ApplyRoutes()

	return r
}

func doJSON(t *testing.T, r *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", len(path)%250+1)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerViaAPI(t *testing.T, r *Router, email string, rank domain.Rank) domain.TokenPair {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "Robin", "lastName": "Silva",
		"email":       email,
		"phoneNumber": "+55" + email,
		"cpf":         email + "-cpf",
		"password":    "Sturdy1!pass",
		"dateOfBirth": time.Date(1992, 5, 5, 0, 0, 0, 0, time.UTC),
		"dateOfJoining": time.Date(2018, 3, 1, 0, 0, 0, 0,
			time.UTC),
		"rank":       rank,
		"department": domain.DepartmentIntelligence,
		"status":     domain.StatusActive,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pair domain.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestGateBlocksWithoutToken(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/auth/users",
		"/api/v1/auth/logout",
		"/api/v1/auth/refresh-token",
		"/api/v1/auth/no-such-route",
	} {
		rec := doJSON(t, r, http.MethodPost, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.JSONEq(t, `{"Message":"User is not authenticated."}`, rec.Body.String(), path)
	}
}

func TestGateAllowlist(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	t.Run("login reachable without a token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "nobody@precinct.test", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t,
			`{"Message":"Invalid email or password. Please try again."}`,
			rec.Body.String())
	})

	t.Run("health probes reachable without a token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, r, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGateRejectsBadTokens(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "gate@precinct.test", domain.RankSergeant)

	t.Run("tampered token", func(t *testing.T) {
		bad := pair.AccessToken + "xx"
		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/users", bad, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"Message":"User is not authenticated."}`, rec.Body.String())
	})

	t.Run("expired but well-formed token", func(t *testing.T) {
		dead, err := r.codec.Sign(jwtx.NewUserClaims(
			"someone", "gate@precinct.test", "G", "H", "", "", domain.RoleAdmin,
			-time.Minute, "precinct-auth", []string{"precinct"}, time.Now()))
		require.NoError(t, err)

		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/users", dead, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"Message":"User is not authenticated."}`, rec.Body.String())
	})

	t.Run("well-signed token without a row", func(t *testing.T) {
		orphan, err := r.codec.Sign(jwtx.NewUserClaims(
			"ghost-id", "gate@precinct.test", "G", "H", "", "", domain.RoleAdmin,
			time.Minute, "precinct-auth", []string{"precinct"}, time.Now()))
		require.NoError(t, err)

		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/users", orphan, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", pair.AccessToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, r, http.MethodGet, "/api/v1/auth/users", pair.AccessToken, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGateFaultIsDeterministic(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "fault@precinct.test", domain.RankSergeant)

	gate := &Gate{
		Codec:    r.codec,
		Tokens:   &service.TokenService{Codec: r.codec, Tokens: failingTokens{}},
		Identity: r.Identity,
	}
	handler := gate.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"Message":"Internal server error."}`, rec.Body.String())
}

// failingTokens simulates a store outage for every lookup.
type failingTokens struct{ store.Tokens }

func (failingTokens) FindByValue(context.Context, string) (domain.Token, error) {
	return domain.Token{}, errors.New("store down")
}

func TestLoginRoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	registerViaAPI(t, r, "round@precinct.test", domain.RankCaptain)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "round@precinct.test", "password": "Sturdy1!pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var pair domain.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestLockedAccountMessage(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	registerViaAPI(t, r, "locked@precinct.test", domain.RankConstable)

	for i := 0; i < service.MaxLoginAttempts; i++ {
		doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "locked@precinct.test", "password": "nope",
		})
	}

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "locked@precinct.test", "password": "Sturdy1!pass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t,
		`{"Message":"Your account is locked. Please contact support."}`,
		rec.Body.String())
}

func TestUsersEndpointRoleGuard(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	readOnly := registerViaAPI(t, r, "readonly@precinct.test", domain.RankConstable)
	admin := registerViaAPI(t, r, "admin@precinct.test", domain.RankChief)

	t.Run("ReadOnly role forbidden", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/users", readOnly.AccessToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t,
			`{"Message":"User doesn't have the required authorization."}`,
			rec.Body.String())
	})

	t.Run("Admin role allowed", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/users", admin.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var users []service.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 2)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "refreshep@precinct.test", domain.RankLieutenant)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh-token", pair.AccessToken,
		map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var fresh domain.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	require.NotEqual(t, pair.AccessToken, fresh.AccessToken)
}

func TestTokenStatusEndpoints(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "status@precinct.test", domain.RankSergeant)

	t.Run("fresh token not revoked", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet,
			"/api/v1/auth/revoked-token?token="+pair.RefreshToken, pair.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "false", string(bytes.TrimSpace(rec.Body.Bytes())))
	})

	t.Run("missing token parameter", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/expired-token", pair.AccessToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "chgpwd@precinct.test", domain.RankSergeant)

	rec := doJSON(t, r, http.MethodPut, "/api/v1/auth/change-password", pair.AccessToken,
		map[string]string{
			"email":           "chgpwd@precinct.test",
			"currentPassword": "Sturdy1!pass",
			"newPassword":     "Changed1!pass",
		})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", string(bytes.TrimSpace(rec.Body.Bytes())))
}

func TestForgotPasswordEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	registerViaAPI(t, r, "forgot@precinct.test", domain.RankSergeant)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/forgot-password", "",
		map[string]string{
			"email":       "forgot@precinct.test",
			"newPassword": "Recovered1!",
		})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", string(bytes.TrimSpace(rec.Body.Bytes())))

	login := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "forgot@precinct.test", "password": "Recovered1!",
	})
	require.Equal(t, http.StatusOK, login.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	pair := registerViaAPI(t, r, "updatable@precinct.test", domain.RankSergeant)

	rec := doJSON(t, r, http.MethodPut, "/api/v1/auth/update-profile", pair.AccessToken,
		map[string]string{"name": "Morgan"})
	require.Equal(t, http.StatusOK, rec.Code)

	var fresh domain.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))

	claims, err := r.codec.Verify(fresh.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "Morgan", claims.GivenName)
}
