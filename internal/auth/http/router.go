package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	cache CachePinger

	AuthService     *service.AuthService
	TokenService    *service.TokenService
	RegisterService *service.RegisterService
	ProfileService  *service.ProfileService
	PasswordService *service.PasswordService
	UserService     *service.UserService
	Identity        *identity.Manager
}

func NewRouter(
	codec jwtx.Codec,
	buildVersion string,
	st store.Store,
	cache CachePinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cache:        cache,
		logger:       logger,
	}

	return r
}

// ApplyRoutes registers every endpoint and assembles the global middleware
// chain. The authentication gate wraps the whole mux; its allowlist is the
// only way past it without a token, so even unknown paths answer 401.
func (r *Router) ApplyRoutes() {
	gate := &Gate{
		Codec:    r.codec,
		Tokens:   r.TokenService,
		Identity: r.Identity,
		IgnorePaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/forgot-password",
			"/livez",
			"/readyz",
		},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		gate.Middleware(),
	}

	r.registerAuth()
	r.registerAccount()
	r.registerTokenStatus()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Public authentication endpoints carry strict per-IP limits to slow
	// credential stuffing.
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/register",
		httpx.Chain(&RegisterHandler{RegisterService: r.RegisterService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/forgot-password",
		httpx.Chain(&ForgotPasswordHandler{PasswordService: r.PasswordService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/v1/auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/refresh-token",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	r.Mux.Handle("PUT /api/v1/auth/update-profile",
		httpx.Chain(&ProfileHandler{ProfileService: r.ProfileService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /api/v1/auth/change-password",
		httpx.Chain(&ChangePasswordHandler{PasswordService: r.PasswordService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTokenStatus() {
	h := &TokenStatusHandler{TokenService: r.TokenService}

	r.Mux.Handle("GET /api/v1/auth/revoked-token",
		httpx.Chain(http.HandlerFunc(h.HandleRevoked),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/auth/expired-token",
		httpx.Chain(http.HandlerFunc(h.HandleExpired),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /api/v1/auth/users",
		httpx.Chain(&UsersHandler{UserService: r.UserService},
			RequireReadWrite,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
