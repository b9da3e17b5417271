package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/auth"
)

const identityKey contextKey = "identity"

type resolveFunc func() (*auth.Identity, error)

// httpRequest adapts *http.Request to auth.RequestContext.
type httpRequest struct {
	r *http.Request
}

func (h httpRequest) Cookie(name string) (string, bool) {
	c, err := h.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (h httpRequest) Header(name string) string {
	return h.r.Header.Get(name)
}

// NewRequestContext exposes r as an auth.RequestContext.
func NewRequestContext(r *http.Request) auth.RequestContext {
	return httpRequest{r: r}
}

// Authenticate is middleware that attaches a lazy identity resolver to the
// request. The token is decoded and looked up at most once, on the first call
// to Resolve; requests that never ask for an identity never touch the store.
func Authenticate(authenticator *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			resolve := sync.OnceValues(func() (*auth.Identity, error) {
				return authenticator.Authenticate(ctx, NewRequestContext(r))
			})

			ctx = context.WithValue(ctx, identityKey, resolveFunc(resolve))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Resolve returns the identity of the request, resolving it on first use.
// A nil identity with a nil error means the request is anonymous.
func Resolve(ctx context.Context) (*auth.Identity, error) {
	resolve, ok := ctx.Value(identityKey).(resolveFunc)
	if !ok {
		return nil, nil
	}
	return resolve()
}

// WithIdentity returns a context carrying an already resolved identity.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, resolveFunc(func() (*auth.Identity, error) {
		return identity, nil
	}))
}

// RequireIdentity resolves the request's identity and writes a 401 when it is
// missing or its token is rejected. It returns nil after writing a response.
func RequireIdentity(w http.ResponseWriter, r *http.Request) *auth.Identity {
	requestID := GetRequestID(r.Context())

	identity, err := Resolve(r.Context())
	if err != nil {
		writeAuthError(w, err, requestID)
		return nil
	}

	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided", requestID)
		return nil
	}

	return identity
}

func writeAuthError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		slog.Debug("rejected expired token", "requestId", requestID)
		response.Err(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", requestID)
	case errors.Is(err, auth.ErrTokenInvalid):
		slog.Warn("rejected invalid token", "error", err, "requestId", requestID)
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		slog.Debug("token subject not found", "requestId", requestID)
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found", requestID)
	default:
		slog.Error("failed to resolve identity", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
	}
}
