package appwrite

import (
	"context"
	"net/http"

	"portfolio-site/internal/baas"
)

type accounts struct {
	c *client
}

type accountResponse struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	ID     string `json:"$id"`
	Secret string `json:"secret"`
}

func (a *accounts) Current(ctx context.Context, s baas.Session) (baas.Identity, error) {
	if s.Anonymous() {
		return baas.Identity{}, baas.ErrUnauthorized
	}
	var acc accountResponse
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: "/account", session: s}, &acc); err != nil {
		return baas.Identity{}, err
	}
	return baas.Identity{ID: acc.ID, Email: acc.Email, Name: acc.Name}, nil
}

// CreateSession signs in with email and password. With an API key Appwrite
// returns the session secret in the body; otherwise it is read from the
// session cookie.
func (a *accounts) CreateSession(ctx context.Context, email, password string) (baas.Session, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return baas.Session{}, err
	}
	var sess sessionResponse
	resp, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/account/sessions/email",
		body:   body,
		useKey: true,
	}, &sess)
	if err != nil {
		return baas.Session{}, err
	}

	secret := sess.Secret
	if secret == "" {
		for _, ck := range resp.Cookies() {
			if ck.Name == "a_session_"+a.c.project {
				secret = ck.Value
			}
		}
	}
	if secret == "" {
		return baas.Session{}, baas.ErrUnavailable
	}
	return baas.Session{Token: secret}, nil
}

func (a *accounts) DeleteSession(ctx context.Context, s baas.Session) error {
	_, err := a.c.do(ctx, request{method: http.MethodDelete, path: "/account/sessions/current", session: s}, nil)
	return err
}
