package auth

import (
	"fmt"

	"github.com/gamevault/gamevault/internal/user"
)

// Tier is a privilege tier, ordered by increasing authority.
type Tier int

const (
	TierUser Tier = iota
	TierStaff
	TierSuperuser
)

var tierStrings = [...]string{
	"user",
	"staff",
	"superuser",
}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(tierStrings) {
		return tierStrings[t]
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Identity is stored in the request context after authentication. It is also
// used to describe the target of an authorization check.
type Identity struct {
	UserID      int64
	Email       string
	IsStaff     bool
	IsSuperuser bool
}

// Tier reports the identity's privilege tier. A super-user outranks staff
// regardless of the staff flag.
func (i *Identity) Tier() Tier {
	switch {
	case i.IsSuperuser:
		return TierSuperuser
	case i.IsStaff:
		return TierStaff
	default:
		return TierUser
	}
}

// IdentityOf builds an Identity from a stored user record.
func IdentityOf(u *user.User) *Identity {
	return &Identity{
		UserID:      u.ID,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
