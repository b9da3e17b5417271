package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamevault/gamevault/internal/user"
)

// UserStore is the read-only view of the user store that authentication needs.
// Both lookups return user.ErrNotFound when no record matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByIDAndStaff(ctx context.Context, id int64, isStaff bool) (*user.User, error)
}

// dummyPassword is hashed once per validator so that unknown emails still pay
// for a full hash comparison.
const dummyPassword = "gamevault-not-a-real-password"

// CredentialValidator verifies an email/password pair against the user store.
type CredentialValidator struct {
	users     UserStore
	hasher    PasswordHasher
	dummyHash string
}

// NewCredentialValidator creates a CredentialValidator.
func NewCredentialValidator(users UserStore, hasher PasswordHasher) (*CredentialValidator, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	return &CredentialValidator{
		users:     users,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

// Validate returns the identity of the active user owning the credentials.
// Unknown email, wrong password and inactive account all yield
// ErrInvalidCredentials; only store failures produce a different error.
func (v *CredentialValidator) Validate(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			v.hasher.Verify(password, v.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}

	// Always verify before looking at the account state.
	if !v.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	return IdentityOf(u), nil
}
