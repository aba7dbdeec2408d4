package http

import (
	"context"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// TokenStatusHandler serves the token inspection endpoints:
//
//	GET /api/v1/auth/revoked-token?token=...
//	GET /api/v1/auth/expired-token?token=...
//
// Both answer with a bare JSON boolean. Unknown tokens read as false for
// either flag.
type TokenStatusHandler struct {
	TokenService *service.TokenService
}

func (h *TokenStatusHandler) HandleRevoked(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.TokenService.IsRevoked)
}

func (h *TokenStatusHandler) HandleExpired(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.TokenService.IsExpired)
}

func (h *TokenStatusHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	lookup func(ctx context.Context, value string) (bool, error),
) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Token query parameter is required.")
		return
	}

	flagged, err := lookup(r.Context(), token)
	if err != nil {
		slogx.FromContext(r.Context()).Error("token status lookup failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, flagged)
}
