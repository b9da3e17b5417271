package playsession

import (
	"time"

	"github.com/gamevault/gamevault/internal/game"
	"github.com/gamevault/gamevault/internal/user"
)

// PlaySession represents a row in the play_sessions table. User and Game are
// populated on reads.
type PlaySession struct {
	ID        int64
	UserID    int64
	GameID    int64
	CreatedAt time.Time
	User      *user.User
	Game      *game.Game
}

// String describes the session as "<game name>(<creation time>)".
func (ps *PlaySession) String() string {
	name := ""
	if ps.Game != nil {
		name = ps.Game.Name
	}
	return name + "(" + ps.CreatedAt.UTC().Format(time.RFC3339) + ")"
}

// ListFilter holds optional filters and pagination for listing sessions.
type ListFilter struct {
	UserID *int64
	GameID *int64
	Page   int // default 1
	Limit  int // default 20
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Sessions []PlaySession
	Total    int
	Page     int
	Limit    int
}
