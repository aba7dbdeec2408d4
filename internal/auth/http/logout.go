package http

import (
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// LogoutHandler serves POST /api/v1/auth/logout. The gate has already
// resolved the principal; logout revokes every token they hold.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}

	if err := h.AuthService.Logout(r.Context(), p.UserID); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
