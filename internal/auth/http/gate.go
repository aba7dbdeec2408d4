package http

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// Gate response messages. Part of the API contract.
const (
	MsgNotAuthenticated = "User is not authenticated."
	MsgInternalError    = "Internal server error."
	MsgNotAuthorized    = "User doesn't have the required authorization."
)

// defaultIgnorePaths are reachable without a token.
var defaultIgnorePaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/api/v1/auth/forgot-password",
}

// Gate is the authentication gate applied in front of every protected route.
// A request passes only when it carries a bearer token with a valid
// signature whose row is on file and neither revoked nor expired, and whose
// subject still resolves to an officer. Everything else gets a uniform 401.
type Gate struct {
	Codec       jwtx.Codec
	Tokens      *service.TokenService
	Identity    *identity.Manager
	IgnorePaths []string
}

func (g *Gate) ignored(path string) bool {
	paths := g.IgnorePaths
	if paths == nil {
		paths = defaultIgnorePaths
	}
	return slices.Contains(paths, strings.ToLower(path))
}

// Middleware wires the gate into an httpx middleware chain.
func (g *Gate) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.ignored(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			l := slogx.FromContext(r.Context())

			// An infrastructure fault during the check must not fall
			// through as either a pass or a bare 401.
			defer func() {
				if rec := recover(); rec != nil {
					l.Error("authentication gate panicked", slog.Any("panic", rec))
					httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
				}
			}()

			token := bearerToken(r)
			if token == "" {
				g.reject(w, r, "missing bearer token")
				return
			}

			claims, err := g.Codec.Verify(token)
			if err != nil {
				g.reject(w, r, "token verification failed")
				return
			}

			valid, err := g.tokenOnFile(r, token)
			if err != nil {
				l.Error("authentication gate fault", slog.Any("error", err))
				httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
				return
			}
			if !valid {
				g.reject(w, r, "token revoked, expired, or unknown")
				return
			}

			user, err := g.Identity.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					g.reject(w, r, "token subject no longer exists")
					return
				}
				l.Error("authentication gate fault", slog.Any("error", err))
				httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
				return
			}

			principal := httpx.Principal{
				UserID: user.ID,
				Name:   user.Email,
				Role:   user.Role,
			}
			next.ServeHTTP(w, r.WithContext(httpx.WithPrincipal(r.Context(), principal)))
		})
	}
}

// tokenOnFile reports whether the exact token string exists as a row that is
// neither revoked nor expired.
func (g *Gate) tokenOnFile(r *http.Request, token string) (bool, error) {
	row, err := g.Tokens.Tokens.FindByValue(r.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return row.Valid(), nil
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, reason string) {
	slogx.FromContext(r.Context()).Warn("request rejected by authentication gate",
		slog.String("reason", reason),
		slog.String("path", r.URL.Path),
		slog.String("ip", httpx.ClientIP(r)),
		slog.String("user_agent", r.UserAgent()),
	)
	httpx.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// RequireReadWrite guards routes that need the ReadWrite or Admin role.
func RequireReadWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := httpx.PrincipalFromContext(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}
		if p.Role != domain.RoleReadWrite && p.Role != domain.RoleAdmin {
			httpx.WriteMessage(w, http.StatusForbidden, MsgNotAuthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
