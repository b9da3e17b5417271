package playsession

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a play session record is not found.
var ErrNotFound = errors.New("play session not found")

// ErrGameNotFound is returned when a session references a game that does not exist.
var ErrGameNotFound = errors.New("game does not exist")

// ErrUserNotFound is returned when a session references a user that no longer exists.
var ErrUserNotFound = errors.New("user does not exist")

// Repository provides CRUD operations on the play_sessions table.
type Repository interface {
	Create(ctx context.Context, ps *PlaySession) error
	GetByID(ctx context.Context, id int64) (*PlaySession, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	UpdateGame(ctx context.Context, id, gameID int64) (*PlaySession, error)
	Delete(ctx context.Context, id int64) error
}
