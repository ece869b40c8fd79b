package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-site/internal/baas"
)

// Auth signs admins in and out and resolves sessions to identities.
type Auth struct {
	accounts baas.Accounts
}

func NewAuth(backend baas.Backend) *Auth {
	return &Auth{accounts: backend.Accounts()}
}

// Login exchanges credentials for a backend session.
func (a *Auth) Login(ctx context.Context, email, password string) (baas.Session, error) {
	email = strings.TrimSpace(email)
	v := &ValidationError{}
	if email == "" {
		v.Missing = append(v.Missing, "email")
	}
	if password == "" {
		v.Missing = append(v.Missing, "password")
	}
	if len(v.Missing) > 0 {
		return baas.Session{}, v
	}

	s, err := a.accounts.CreateSession(ctx, email, password)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, baas.ErrInvalidCredentials):
		return baas.Session{}, ErrInvalidCredentials
	case errors.Is(err, baas.ErrUserNotFound):
		return baas.Session{}, ErrUnknownUser
	default:
		return baas.Session{}, fmt.Errorf("login: %w: %w", ErrBackend, err)
	}
}

// Logout ends the session. An already expired session is not an error.
func (a *Auth) Logout(ctx context.Context, s baas.Session) error {
	if s.Anonymous() {
		return nil
	}
	err := a.accounts.DeleteSession(ctx, s)
	if err == nil || errors.Is(err, baas.ErrUnauthorized) {
		return nil
	}
	return classify("logout", err)
}

// Resolve returns the identity behind the session or ErrAuthenticationRequired.
func (a *Auth) Resolve(ctx context.Context, s baas.Session) (baas.Identity, error) {
	if s.Anonymous() {
		return baas.Identity{}, ErrAuthenticationRequired
	}
	id, err := a.accounts.Current(ctx, s)
	if err != nil {
		return baas.Identity{}, classify("resolve session", err)
	}
	return id, nil
}

