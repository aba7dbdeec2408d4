package http

import (
	"encoding/json"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// LoginHandler serves POST /api/v1/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	pair, res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slogx.FromContext(r.Context()).Error("login failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if !res.Success {
		httpx.WriteMessage(w, http.StatusUnauthorized, res.Message)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
