package http

import (
	"encoding/json"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// ChangePasswordHandler serves PUT /api/v1/auth/change-password.
type ChangePasswordHandler struct {
	PasswordService *service.PasswordService
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ok, err := h.PasswordService.ChangePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		slogx.FromContext(r.Context()).Error("password change failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ok)
}

// ForgotPasswordHandler serves POST /api/v1/auth/forgot-password. It is on
// the gate's allowlist, so it is reachable without a token.
type ForgotPasswordHandler struct {
	PasswordService *service.PasswordService
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ok, err := h.PasswordService.ForgotPassword(r.Context(), req.Email, req.NewPassword)
	if err != nil {
		slogx.FromContext(r.Context()).Error("password reset failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ok)
}
