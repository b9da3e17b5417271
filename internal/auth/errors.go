package auth

import "errors"

// ErrTokenExpired is returned when a token's expiry instant has been reached.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid is returned when a token is malformed, signed with another
// key, or signed with an algorithm other than HS256.
var ErrTokenInvalid = errors.New("invalid token")

// ErrUserNotFound is returned when a valid token does not resolve to an active
// user whose staff flag still matches the token.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials is the single login failure. It never says whether the
// email, the password or the account state was the reason.
var ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")

// ErrMissingSecret is returned when a TokenCodec is built without a signing key.
var ErrMissingSecret = errors.New("token signing secret is required")
