package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamevault/gamevault/internal/user"
)

const (
	// CookieName is the cookie that carries the token.
	CookieName = "jwt"
	// HeaderName is the request header consulted when the cookie is absent.
	HeaderName = "token"
)

// RequestContext exposes the parts of an incoming request that carry a token.
// The transport layer provides the implementation.
type RequestContext interface {
	Cookie(name string) (string, bool)
	Header(name string) string
}

// ExtractToken returns the token from the jwt cookie, falling back to the
// token header. The second result is false when neither is present.
func ExtractToken(req RequestContext) (string, bool) {
	if v, ok := req.Cookie(CookieName); ok && v != "" {
		return v, true
	}
	if v := req.Header(HeaderName); v != "" {
		return v, true
	}
	return "", false
}

// Authenticator resolves the token on a request to a live user.
type Authenticator struct {
	codec *TokenCodec
	users UserStore
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(codec *TokenCodec, users UserStore) *Authenticator {
	return &Authenticator{codec: codec, users: users}
}

// Authenticate returns (nil, nil) when the request carries no token, so the
// caller may fall through as anonymous. A token that is present but expired,
// invalid, or bound to a user that no longer matches is an error.
func (a *Authenticator) Authenticate(ctx context.Context, req RequestContext) (*Identity, error) {
	raw, ok := ExtractToken(req)
	if !ok {
		return nil, nil
	}

	claims, err := a.codec.Decode(raw)
	if err != nil {
		observeResolution(err)
		return nil, err
	}

	identity, err := a.resolve(ctx, claims)
	observeResolution(err)
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// resolve performs the single store read. The staff flag in the claim must
// still match the record, so a demoted staff member's old token stops working.
func (a *Authenticator) resolve(ctx context.Context, claims *Claims) (*Identity, error) {
	u, err := a.users.FindByIDAndStaff(ctx, claims.UserID, claims.IsStaff)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}

	if !u.IsActive {
		return nil, ErrUserNotFound
	}

	return IdentityOf(u), nil
}
