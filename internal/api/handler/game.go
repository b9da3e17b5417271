package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/game"
)

type gameResponse struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Genres []game.Genre `json:"genre"`
}

func toGameResponse(g *game.Game) gameResponse {
	genres := g.Genres
	if genres == nil {
		genres = []game.Genre{}
	}
	return gameResponse{
		ID:     g.ID,
		Name:   g.Name,
		Genres: genres,
	}
}

// GameHandler serves the read-only game catalogue.
type GameHandler struct {
	games game.Repository
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games game.Repository) *GameHandler {
	return &GameHandler{games: games}
}

// List handles GET /games.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	games, err := h.games.List(r.Context())
	if err != nil {
		slog.Error("failed to list games", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list games", requestID)
		return
	}

	items := make([]gameResponse, 0, len(games))
	for i := range games {
		items = append(items, toGameResponse(&games[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, len(items), requestID)
}

// GetByID handles GET /games/{id}.
func (h *GameHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	g, err := h.games.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Game not found", requestID)
			return
		}
		slog.Error("failed to get game", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get game", requestID)
		return
	}

	response.Success(w, http.StatusOK, toGameResponse(g), requestID)
}
