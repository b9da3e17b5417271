package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user record is not found.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when another user already has the email.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// FindByEmail matches the email case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDAndStaff(ctx context.Context, id int64, isStaff bool) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListLastPlayed(ctx context.Context) ([]LastPlayed, error)
	GetLastPlayed(ctx context.Context, id int64) (*LastPlayed, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*User, error)
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int, error)
}
