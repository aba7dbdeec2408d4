package http

import (
	"encoding/json"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// ProfileHandler serves PUT /api/v1/auth/update-profile for the
// authenticated officer.
type ProfileHandler struct {
	ProfileService *service.ProfileService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	pair, res, err := h.ProfileService.UpdateProfile(r.Context(), p.UserID, req)
	if err != nil {
		slogx.FromContext(r.Context()).Error("profile update failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if !res.Success {
		httpx.WriteMessage(w, http.StatusBadRequest, res.Message)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
