package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/api/validation"
	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/user"
)

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	Birthdate string `json:"birthdate"`
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Username  *string `json:"username"`
	Birthdate *string `json:"birthdate"`
}

type userResponse struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Birthdate *string `json:"birthdate"`
	Image     *string `json:"image"`
}

type lastPlayedResponse struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	Username          string  `json:"username"`
	Birthdate         *string `json:"birthdate"`
	LastPlayedSession string  `json:"lastPlayedSession"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Birthdate: formatBirthdate(u.Birthdate),
		Image:     u.Image,
	}
}

func toLastPlayedResponse(lp *user.LastPlayed) lastPlayedResponse {
	return lastPlayedResponse{
		ID:                lp.ID,
		Email:             lp.Email,
		Username:          lp.Username,
		Birthdate:         formatBirthdate(lp.Birthdate),
		LastPlayedSession: lp.LastPlayedSession,
	}
}

func formatBirthdate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := validation.FormatDate(*t)
	return &s
}

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	users  user.Repository
	hasher auth.PasswordHasher
	policy *auth.AccessPolicy
	now    func() time.Time
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users user.Repository, hasher auth.PasswordHasher, policy *auth.AccessPolicy) *UserHandler {
	return &UserHandler{
		users:  users,
		hasher: hasher,
		policy: policy,
		now:    time.Now,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createUserRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		Birthdate: req.Birthdate,
	}, h.now())
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	birthdate, _ := validation.ParseDate(req.Birthdate) // already validated

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	u := &user.User{
		Email:        user.NormalizeEmail(req.Email),
		Username:     strings.TrimSpace(req.Username),
		Birthdate:    &birthdate,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", "A user with this email already exists", requestID)
			return
		}
		slog.Error("failed to create user", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toUserResponse(u), requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, len(items), requestID)
}

// GetByID handles GET /users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	target, ok := h.loadTarget(w, r, requestID)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(target), requestID)
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	target, ok := h.loadTarget(w, r, requestID)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateUserRequest(validation.UpdateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		Birthdate: req.Birthdate,
	}, h.now())
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var fields user.UpdateFields
	if req.Email != nil {
		email := user.NormalizeEmail(*req.Email)
		fields.Email = &email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		fields.Username = &username
	}
	if req.Birthdate != nil {
		birthdate, _ := validation.ParseDate(*req.Birthdate) // already validated
		fields.Birthdate = &birthdate
	}
	if req.Password != nil {
		hash, err := h.hasher.Hash(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
			return
		}
		fields.PasswordHash = &hash
	}

	updated, err := h.users.Update(r.Context(), target.ID, fields)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		case errors.Is(err, user.ErrDuplicateEmail):
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", "A user with this email already exists", requestID)
		default:
			slog.Error("failed to update user", "error", err, "id", target.ID, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(updated), requestID)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	target, ok := h.loadTarget(w, r, requestID)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), target.ID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to delete user", "error", err, "id", target.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", requestID)
		return
	}

	response.NoContent(w)
}

// ListLastPlayed handles GET /users/lastplayed.
func (h *UserHandler) ListLastPlayed(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.users.ListLastPlayed(r.Context())
	if err != nil {
		slog.Error("failed to list last played", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]lastPlayedResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toLastPlayedResponse(&rows[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, len(items), requestID)
}

// GetLastPlayed handles GET /users/lastplayed/{id}.
func (h *UserHandler) GetLastPlayed(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	lp, err := h.users.GetLastPlayed(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get last played", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toLastPlayedResponse(lp), requestID)
}

// loadTarget fetches the user named by {id} and checks that the requester may
// act on it. A missing user is reported before the permission check.
func (h *UserHandler) loadTarget(w http.ResponseWriter, r *http.Request, requestID string) (*user.User, bool) {
	id, ok := parseID(w, r, requestID)
	if !ok {
		return nil, false
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return nil, false
		}
		slog.Error("failed to get user", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return nil, false
	}

	if !middleware.AuthorizeTarget(w, r, h.policy, auth.IdentityOf(target)) {
		return nil, false
	}

	return target, true
}
