package game

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a game record is not found.
var ErrNotFound = errors.New("game not found")

// Repository provides read access to games and their genres.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Game, error)
	List(ctx context.Context) ([]Game, error)
}
