package middleware

import (
	"net/http"

	"github.com/gamevault/gamevault/internal/api/response"
	"github.com/gamevault/gamevault/internal/auth"
)

// RequireAuthenticated returns middleware that rejects anonymous requests and
// requests whose token does not resolve with 401.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RequireIdentity(w, r) == nil {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff returns middleware that only admits staff and super-users.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := RequireIdentity(w, r)
			if identity == nil {
				return
			}

			if identity.Tier() < auth.TierStaff {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Staff access required", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthorizeTarget resolves the requester and checks the access policy against
// target. On denial it writes 401 or 403 and returns false.
func AuthorizeTarget(w http.ResponseWriter, r *http.Request, policy *auth.AccessPolicy, target *auth.Identity) bool {
	requester := RequireIdentity(w, r)
	if requester == nil {
		return false
	}

	if !policy.CanActOn(requester, target) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", GetRequestID(r.Context()))
		return false
	}

	return true
}
