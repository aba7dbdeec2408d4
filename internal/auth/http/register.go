package http

import (
	"encoding/json"
	"net/http"

	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/pkg/httpx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// RegisterHandler serves POST /api/v1/auth/register.
type RegisterHandler struct {
	RegisterService *service.RegisterService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	pair, res, err := h.RegisterService.Register(r.Context(), req)
	if err != nil {
		slogx.FromContext(r.Context()).Error("registration failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if !res.Success {
		httpx.WriteMessage(w, http.StatusBadRequest, res.Message)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, pair)
}
