package http

import (
	"encoding/json"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// RefreshHandler serves POST /api/v1/auth/refresh-token.
type RefreshHandler struct {
	AuthService *service.AuthService
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Refresh token is required.")
		return
	}

	pair, res, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		slogx.FromContext(r.Context()).Error("token refresh failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if !res.Success {
		httpx.WriteMessage(w, http.StatusUnauthorized, res.Message)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
