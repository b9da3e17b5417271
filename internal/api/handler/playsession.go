package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/api/validation"
	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/playsession"
	"github.com/gamevault/gamevault/internal/user"
)

type playSessionRequest struct {
	Game int64 `json:"game"`
}

type playSessionResponse struct {
	ID           int64         `json:"id"`
	User         *userResponse `json:"user"`
	Game         *gameResponse `json:"game"`
	CreationTime string        `json:"creationTime"`
}

func toPlaySessionResponse(ps *playsession.PlaySession) playSessionResponse {
	resp := playSessionResponse{
		ID:           ps.ID,
		CreationTime: response.Timestamp(ps.CreatedAt),
	}
	if ps.User != nil {
		u := toUserResponse(ps.User)
		resp.User = &u
	}
	if ps.Game != nil {
		g := toGameResponse(ps.Game)
		resp.Game = &g
	}
	return resp
}

// PlaySessionHandler handles play session CRUD endpoints. Every route expects
// an authenticated identity.
type PlaySessionHandler struct {
	sessions playsession.Repository
	policy   *auth.AccessPolicy
}

// NewPlaySessionHandler creates a new PlaySessionHandler.
func NewPlaySessionHandler(sessions playsession.Repository, policy *auth.AccessPolicy) *PlaySessionHandler {
	return &PlaySessionHandler{
		sessions: sessions,
		policy:   policy,
	}
}

// Create handles POST /playsessions. The session belongs to the requester.
func (h *PlaySessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.RequireIdentity(w, r)
	if identity == nil {
		return
	}

	req, ok := decodePlaySession(w, r, requestID)
	if !ok {
		return
	}

	ps := &playsession.PlaySession{
		UserID: identity.UserID,
		GameID: req.Game,
	}
	if err := h.sessions.Create(r.Context(), ps); err != nil {
		switch {
		case errors.Is(err, playsession.ErrGameNotFound):
			writeUnknownGame(w, requestID)
			return
		case errors.Is(err, playsession.ErrUserNotFound):
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found", requestID)
			return
		}
		slog.Error("failed to create play session", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create play session", requestID)
		return
	}

	created, err := h.sessions.GetByID(r.Context(), ps.ID)
	if err != nil {
		slog.Error("failed to reload play session", "error", err, "id", ps.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create play session", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPlaySessionResponse(created), requestID)
}

// List handles GET /playsessions with optional user, game, page and limit
// query parameters.
func (h *PlaySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter := playsession.ListFilter{
		Page:  1,
		Limit: 20,
	}

	if v, set, ok := parsePositiveQuery(w, r, "user", requestID); !ok {
		return
	} else if set {
		filter.UserID = &v
	}
	if v, set, ok := parsePositiveQuery(w, r, "game", requestID); !ok {
		return
	} else if set {
		filter.GameID = &v
	}
	if v, set, ok := parsePositiveQuery(w, r, "page", requestID); !ok {
		return
	} else if set {
		filter.Page = int(v)
	}
	if v, set, ok := parsePositiveQuery(w, r, "limit", requestID); !ok {
		return
	} else if set {
		filter.Limit = int(v)
	}

	result, err := h.sessions.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list play sessions", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list play sessions", requestID)
		return
	}

	items := make([]playSessionResponse, 0, len(result.Sessions))
	for i := range result.Sessions {
		items = append(items, toPlaySessionResponse(&result.Sessions[i]))
	}

	response.SuccessList(w, http.StatusOK, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /playsessions/{id}.
func (h *PlaySessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ps, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, toPlaySessionResponse(ps), requestID)
}

// Update handles PATCH /playsessions/{id}. Only the game can change, and only
// callers allowed to act on the session's owner may change it.
func (h *PlaySessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ps, ok := h.load(w, r, requestID)
	if !ok {
		return
	}
	if !middleware.AuthorizeTarget(w, r, h.policy, ownerOf(ps)) {
		return
	}

	req, ok := decodePlaySession(w, r, requestID)
	if !ok {
		return
	}

	updated, err := h.sessions.UpdateGame(r.Context(), ps.ID, req.Game)
	if err != nil {
		switch {
		case errors.Is(err, playsession.ErrGameNotFound):
			writeUnknownGame(w, requestID)
		case errors.Is(err, playsession.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Play session not found", requestID)
		default:
			slog.Error("failed to update play session", "error", err, "id", ps.ID, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update play session", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toPlaySessionResponse(updated), requestID)
}

// Delete handles DELETE /playsessions/{id}.
func (h *PlaySessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ps, ok := h.load(w, r, requestID)
	if !ok {
		return
	}
	if !middleware.AuthorizeTarget(w, r, h.policy, ownerOf(ps)) {
		return
	}

	if err := h.sessions.Delete(r.Context(), ps.ID); err != nil {
		if errors.Is(err, playsession.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Play session not found", requestID)
			return
		}
		slog.Error("failed to delete play session", "error", err, "id", ps.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete play session", requestID)
		return
	}

	response.NoContent(w)
}

func (h *PlaySessionHandler) load(w http.ResponseWriter, r *http.Request, requestID string) (*playsession.PlaySession, bool) {
	id, ok := parseID(w, r, requestID)
	if !ok {
		return nil, false
	}

	ps, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, playsession.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Play session not found", requestID)
			return nil, false
		}
		slog.Error("failed to get play session", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get play session", requestID)
		return nil, false
	}

	return ps, true
}

func decodePlaySession(w http.ResponseWriter, r *http.Request, requestID string) (playSessionRequest, bool) {
	var req playSessionRequest
	if !decodeBody(w, r, &req, requestID) {
		return req, false
	}

	fieldErrors := validation.ValidatePlaySessionRequest(validation.PlaySessionRequest{Game: req.Game})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return req, false
	}

	return req, true
}

func writeUnknownGame(w http.ResponseWriter, requestID string) {
	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
		[]validation.FieldError{{Field: "game", Message: "game does not exist"}}, requestID)
}

// ownerOf returns the identity of the session's owner. Reads join the user
// row, so the flags are known; otherwise only the id is.
func ownerOf(ps *playsession.PlaySession) *auth.Identity {
	if ps.User != nil {
		return auth.IdentityOf(ps.User)
	}
	return auth.IdentityOf(&user.User{ID: ps.UserID})
}
