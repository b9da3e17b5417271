// Package auth implements token authentication and the object-level access
// policy for user records.
//
// A login runs CredentialValidator and then TokenCodec.Issue; the token travels
// back as the jwt cookie and as a body field. Later requests go through
// Authenticator, which reads the jwt cookie or the token header, decodes the
// token, and resolves it against the user store with one read. AccessPolicy
// then decides whether the resolved identity may act on a target user.
//
// Tokens are stateless HS256 JWTs valid for TokenTTL. There is no revocation
// list; a token stops working when it expires, when the user is deactivated,
// or when the user's staff flag no longer matches the token.
package auth
