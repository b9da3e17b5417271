package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamevault/gamevault/internal/user"
)

// LoginResponse is what a successful login hands back to the transport: the
// token for the response body and the cookie that carries it.
type LoginResponse struct {
	Token  string
	Cookie *http.Cookie
}

// Body is the JSON body of a login response.
func (r *LoginResponse) Body() map[string]string {
	return map[string]string{"token": r.Token}
}

// UserBootstrapper is the part of the user store needed to seed the first
// super-user.
type UserBootstrapper interface {
	CountAll(ctx context.Context) (int, error)
	Create(ctx context.Context, u *user.User) error
}

// Service provides login and token issuance on top of the validator and codec.
type Service struct {
	validator    *CredentialValidator
	codec        *TokenCodec
	hasher       PasswordHasher
	secureCookie bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSecureCookie marks issued cookies as Secure.
func WithSecureCookie(secure bool) ServiceOption {
	return func(s *Service) {
		s.secureCookie = secure
	}
}

// NewService creates a new auth Service.
func NewService(validator *CredentialValidator, codec *TokenCodec, hasher PasswordHasher, opts ...ServiceOption) *Service {
	s := &Service{
		validator: validator,
		codec:     codec,
		hasher:    hasher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login validates the credentials and issues a token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	identity, err := s.validator.Validate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			loginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, err
		}
		loginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	resp, err := s.IssueLoginResponse(identity.UserID, identity.IsStaff)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	loginAttempts.WithLabelValues("success").Inc()
	return resp, nil
}

// IssueLoginResponse signs a token for the user and wraps it in an HTTP-only
// cookie named jwt.
func (s *Service) IssueLoginResponse(userID int64, isStaff bool) (*LoginResponse, error) {
	token, err := s.codec.Issue(userID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		Cookie: &http.Cookie{
			Name:     CookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(TokenTTL / time.Second),
			HttpOnly: true,
			Secure:   s.secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

// BootstrapSuperuser creates the initial super-user if the users table is
// empty. It reports whether a user was created.
func (s *Service) BootstrapSuperuser(ctx context.Context, users UserBootstrapper, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	count, err := users.CountAll(ctx)
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hashing superuser password: %w", err)
	}

	u := &user.User{
		Email:        user.NormalizeEmail(email),
		Username:     "superuser",
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}

	if err := users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("creating superuser: %w", err)
	}

	slog.Info("superuser created", "id", u.ID, "email", u.Email)

	return true, nil
}
