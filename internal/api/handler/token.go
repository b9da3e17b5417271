package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/auth"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenHandler handles the login endpoint.
type TokenHandler struct {
	authService *auth.Service
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(authService *auth.Service) *TokenHandler {
	return &TokenHandler{authService: authService}
}

// Create handles POST /token. On success the token is returned both in the
// body and as the jwt cookie.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req tokenRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Unable to authenticate with provided credentials", requestID)
			return
		}
		slog.Error("failed to log in", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to authenticate", requestID)
		return
	}

	http.SetCookie(w, resp.Cookie)
	response.Raw(w, http.StatusOK, resp.Body())
}
