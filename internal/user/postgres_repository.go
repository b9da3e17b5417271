package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gamevault/gamevault/internal/postgres"
)

const userColumns = `id, email, username, birthdate, password_hash, image,
		       is_active, is_staff, is_superuser, created_at`

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Repository backed by the given pool.
func NewRepository(db postgres.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user record and fills in its ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, username, birthdate, password_hash, image,
		                   is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		u.Email,
		u.Username,
		u.Birthdate,
		u.PasswordHash,
		u.Image,
		u.IsActive,
		u.IsStaff,
		u.IsSuperuser,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a single user by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByEmail retrieves the user whose email matches, ignoring case.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(ctx, query, email)
}

// FindByIDAndStaff retrieves the user with the given ID only if its staff flag
// equals isStaff.
func (r *PostgresRepository) FindByIDAndStaff(ctx context.Context, id int64, isStaff bool) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_staff = $2`
	return r.scanOne(ctx, query, id, isStaff)
}

// List retrieves all users ordered by ID.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

const lastPlayedQuery = `
		SELECT u.id, u.email, u.username, u.birthdate, u.password_hash, u.image,
		       u.is_active, u.is_staff, u.is_superuser, u.created_at,
		       g.name, ps.created_at
		FROM users u
		LEFT JOIN LATERAL (
			SELECT game_id, created_at
			FROM play_sessions
			WHERE user_id = u.id
			ORDER BY id DESC
			LIMIT 1
		) ps ON TRUE
		LEFT JOIN games g ON g.id = ps.game_id`

// ListLastPlayed retrieves every user with their most recent play session.
func (r *PostgresRepository) ListLastPlayed(ctx context.Context) ([]LastPlayed, error) {
	rows, err := r.db.Query(ctx, lastPlayedQuery+` ORDER BY u.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing last played: %w", err)
	}
	defer rows.Close()

	items := []LastPlayed{}
	for rows.Next() {
		var lp LastPlayed
		if err := scanLastPlayed(rows, &lp); err != nil {
			return nil, fmt.Errorf("scanning last played row: %w", err)
		}
		items = append(items, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating last played rows: %w", err)
	}

	return items, nil
}

// GetLastPlayed retrieves one user with their most recent play session.
func (r *PostgresRepository) GetLastPlayed(ctx context.Context, id int64) (*LastPlayed, error) {
	var lp LastPlayed
	err := scanLastPlayed(r.db.QueryRow(ctx, lastPlayedQuery+` WHERE u.id = $1`, id), &lp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying last played: %w", err)
	}
	return &lp, nil
}

// Update modifies the given fields and returns the updated record.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*User, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *fields.Email)
		argIdx++
	}
	if fields.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *fields.Username)
		argIdx++
	}
	if fields.Birthdate != nil {
		setClauses = append(setClauses, fmt.Sprintf("birthdate = $%d", argIdx))
		args = append(args, *fields.Birthdate)
		argIdx++
	}
	if fields.PasswordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, *fields.PasswordHash)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argIdx)

	u, err := r.scanOne(ctx, query, args...)
	if err != nil && postgres.IsUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}

// Delete removes a user. Their play sessions are removed with them.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountAll returns the total number of users.
func (r *PostgresRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// scanOne scans a single user row. Returns ErrNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	if err := scanUser(r.db.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Username, &u.Birthdate, &u.PasswordHash, &u.Image,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt,
	)
}

func scanLastPlayed(row pgx.Row, lp *LastPlayed) error {
	var gameName *string
	var playedAt *time.Time

	err := row.Scan(
		&lp.ID, &lp.Email, &lp.Username, &lp.Birthdate, &lp.PasswordHash, &lp.Image,
		&lp.IsActive, &lp.IsStaff, &lp.IsSuperuser, &lp.CreatedAt,
		&gameName, &playedAt,
	)
	if err != nil {
		return err
	}

	if gameName != nil && playedAt != nil {
		lp.LastPlayedSession = fmt.Sprintf("%s(%s)", *gameName, playedAt.UTC().Format(time.RFC3339))
	}
	return nil
}
