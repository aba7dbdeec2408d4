package auth_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	httpapi "github.com/copperline/precinct-auth/internal/auth/http"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/internal/auth/store/drivers/sqlite"
	"github.com/copperline/precinct-auth/internal/auth/store/tokencache"
	"github.com/copperline/precinct-auth/internal/auth/throttle"
	"github.com/copperline/precinct-auth/pkg/authsdk"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests exercising the full HTTP surface through the client SDK.
 * Each harness runs the real router over an in-memory database and an
 * in-process redis, so the whole stack short of the network is genuine.
 */

const (
	testIssuer   = "precinct-auth"
	testPassword = "Sturdy1!pass"
)

var testAudience = []string{"precinct-api"}

type harness struct {
	Client *authsdk.SDKClient
	Redis  *miniredis.Miniredis
}

type redisPinger struct{ rdb redis.UniversalClient }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

// newHarness assembles the service exactly as the application wiring does
// and exposes it through an httptest server.
func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codec, err := jwtx.NewHS256Codec([]byte("e2e-secret-material-32-bytes-ok!"), testIssuer, testAudience)
	require.NoError(t, err)

	idm := identity.NewManager(st)
	tokens := &service.TokenService{
		Codec:    codec,
		Issuer:   testIssuer,
		Audience: testAudience,
		Tokens:   tokencache.New(st.Tokens()),
	}

	router := httpapi.NewRouter(codec, "e2e", st, redisPinger{rdb: rdb}, slog.New(slog.DiscardHandler))
	router.Identity = idm
	router.TokenService = tokens
	router.AuthService = &service.AuthService{Identity: idm, Throttle: throttle.New(rdb), Tokens: tokens}
	router.RegisterService = &service.RegisterService{Store: st, Tokens: tokens}
	router.ProfileService = &service.ProfileService{Identity: idm, Store: st, Tokens: tokens}
	router.PasswordService = &service.PasswordService{Identity: idm, Tokens: tokens}
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &harness{
		Client: authsdk.NewSDKClient(srv.URL),
		Redis:  mr,
	}
}

// registerOfficer enrolls an officer through the public API and returns the
// signed-in session.
func registerOfficer(t *testing.T, h *harness, email, rank string) *authsdk.Session {
	t.Helper()

	session, err := h.Client.Register(context.Background(), authsdk.RegisterRequest{
		Name:          "Alex",
		LastName:      "Rocha",
		Email:         email,
		PhoneNumber:   "+55" + email,
		CPF:           email + "-cpf",
		Password:      testPassword,
		DateOfBirth:   time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		DateOfJoining: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		Rank:          rank,
		Department:    "HomicideDivision",
		Status:        "Active",
	})
	require.NoError(t, err)
	return session
}

// uniqueEmail keeps registrations from colliding across subtests sharing a
// harness.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@precinct.test", prefix, time.Now().UnixNano())
}
