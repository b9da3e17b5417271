package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gamevault/gamevault/internal/postgres"
)

// GenresExpr aggregates a game's genres as a JSON array ordered by genre ID.
// It expects the games table to be aliased as g.
const GenresExpr = `COALESCE((
			SELECT json_agg(json_build_object('id', ge.id, 'name', ge.name) ORDER BY ge.id)
			FROM game_genres gg
			JOIN genres ge ON ge.id = gg.genre_id
			WHERE gg.game_id = g.id
		), '[]'::json)`

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Repository backed by the given pool.
func NewRepository(db postgres.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// GetByID retrieves a single game with its genres.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Game, error) {
	query := `SELECT g.id, g.name, ` + GenresExpr + ` FROM games g WHERE g.id = $1`

	var g Game
	err := r.db.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Genres)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying game: %w", err)
	}

	return &g, nil
}

// List retrieves all games with their genres, ordered by ID.
func (r *PostgresRepository) List(ctx context.Context) ([]Game, error) {
	query := `SELECT g.id, g.name, ` + GenresExpr + ` FROM games g ORDER BY g.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Genres); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rows: %w", err)
	}

	return games, nil
}
