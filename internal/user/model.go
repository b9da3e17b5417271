package user

import (
	"strings"
	"time"
)

// User represents a row in the users table.
type User struct {
	ID           int64
	Email        string
	Username     string
	Birthdate    *time.Time // nil only for bootstrapped super-users
	PasswordHash string
	Image        *string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

// LastPlayed is a user together with a description of the most recent game
// they played, e.g. "Game1(2021-07-21T16:55:00Z)". Empty when none.
type LastPlayed struct {
	User
	LastPlayedSession string
}

// UpdateFields holds user-updatable fields. Nil fields are not updated.
type UpdateFields struct {
	Email        *string
	Username     *string
	Birthdate    *time.Time
	PasswordHash *string
}

// NormalizeEmail lowercases the domain part of an address and trims spaces.
// The local part is kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
