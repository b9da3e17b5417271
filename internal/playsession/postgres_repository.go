package playsession

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gamevault/gamevault/internal/game"
	"github.com/gamevault/gamevault/internal/postgres"
	"github.com/gamevault/gamevault/internal/user"
)

// Foreign key constraints on play_sessions, as named in the schema.
const (
	userFKey = "play_sessions_user_id_fkey"
	gameFKey = "play_sessions_game_id_fkey"
)

const selectSessions = `
		SELECT ps.id, ps.user_id, ps.game_id, ps.created_at,
		       u.id, u.email, u.username, u.birthdate, u.image, u.is_staff, u.is_superuser,
		       g.id, g.name, ` + game.GenresExpr + `
		FROM play_sessions ps
		JOIN users u ON u.id = ps.user_id
		JOIN games g ON g.id = ps.game_id`

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Repository backed by the given pool.
func NewRepository(db postgres.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// Create inserts a new session and fills in its ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, ps *PlaySession) error {
	query := `
		INSERT INTO play_sessions (user_id, game_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, ps.UserID, ps.GameID).Scan(&ps.ID, &ps.CreatedAt)
	if err != nil {
		if mapped := mapForeignKey(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("inserting play session: %w", err)
	}

	return nil
}

// GetByID retrieves a single session with its user and game.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*PlaySession, error) {
	return r.scanOne(ctx, selectSessions+` WHERE ps.id = $1`, id)
}

// List retrieves a paginated, filtered list of sessions, oldest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	var conditions []string
	var args []any
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("ps.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.GameID != nil {
		conditions = append(conditions, fmt.Sprintf("ps.game_id = $%d", argIdx))
		args = append(args, *filter.GameID)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM play_sessions ps %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting play sessions: %w", err)
	}

	result := &ListResult{
		Sessions: []PlaySession{},
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}

	// Pages past the last one are empty; the offset is only computed for
	// pages that exist.
	lastPage := (total + filter.Limit - 1) / filter.Limit
	if filter.Page > lastPage {
		return result, nil
	}

	offset := (filter.Page - 1) * filter.Limit

	dataQuery := fmt.Sprintf(`%s
		%s
		ORDER BY ps.id ASC
		LIMIT $%d OFFSET $%d`, selectSessions, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing play sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps PlaySession
		if err := scanSession(rows, &ps); err != nil {
			return nil, fmt.Errorf("scanning play session row: %w", err)
		}
		result.Sessions = append(result.Sessions, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating play session rows: %w", err)
	}

	return result, nil
}

// UpdateGame points a session at another game and returns the updated session.
func (r *PostgresRepository) UpdateGame(ctx context.Context, id, gameID int64) (*PlaySession, error) {
	result, err := r.db.Exec(ctx, `UPDATE play_sessions SET game_id = $1 WHERE id = $2`, gameID, id)
	if err != nil {
		if mapped := mapForeignKey(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("updating play session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a session.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM play_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting play session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanOne scans a single session row. Returns ErrNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*PlaySession, error) {
	var ps PlaySession
	if err := scanSession(r.db.QueryRow(ctx, query, args...), &ps); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning play session row: %w", err)
	}
	return &ps, nil
}

// mapForeignKey translates a foreign key violation into the sentinel for the
// missing row. It returns nil for any other error.
func mapForeignKey(err error) error {
	if !postgres.IsForeignKeyViolation(err) {
		return nil
	}
	switch postgres.ConstraintName(err) {
	case gameFKey:
		return ErrGameNotFound
	case userFKey:
		return ErrUserNotFound
	}
	return nil
}

func scanSession(row pgx.Row, ps *PlaySession) error {
	u := &user.User{}
	g := &game.Game{}

	err := row.Scan(
		&ps.ID, &ps.UserID, &ps.GameID, &ps.CreatedAt,
		&u.ID, &u.Email, &u.Username, &u.Birthdate, &u.Image, &u.IsStaff, &u.IsSuperuser,
		&g.ID, &g.Name, &g.Genres,
	)
	if err != nil {
		return err
	}

	ps.User = u
	ps.Game = g
	return nil
}
