package middleware

import (
	"context"
	"net/http"
	"time"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/logging"
)

// SessionCookie holds the backend session secret of a signed-in admin.
const SessionCookie = "portfolio_session"

type ctxKey string

const (
	identityKey ctxKey = "identity"
	sessionKey  ctxKey = "session"
)

// Resolver turns a session into the identity it belongs to.
type Resolver interface {
	Resolve(ctx context.Context, s baas.Session) (baas.Identity, error)
}

// SetSessionCookie stores the session in an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, s baas.Session, secure bool, ttl time.Duration) {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest reads the session cookie. A missing cookie yields the
// anonymous session.
func SessionFromRequest(r *http.Request) baas.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return baas.Session{}
	}
	return baas.Session{Token: c.Value}
}

// IdentityFromContext returns the identity resolved by SessionGuard.
func IdentityFromContext(ctx context.Context) (baas.Identity, bool) {
	id, ok := ctx.Value(identityKey).(baas.Identity)
	return id, ok
}

// SessionFromContext returns the session resolved by SessionGuard.
func SessionFromContext(ctx context.Context) baas.Session {
	s, _ := ctx.Value(sessionKey).(baas.Session)
	return s
}

// WithIdentity stores a resolved session and identity on the context.
func WithIdentity(ctx context.Context, s baas.Session, id baas.Identity) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	return context.WithValue(ctx, identityKey, id)
}

// SessionGuard lets a request through only when its session resolves to an
// identity; everyone else is redirected to loginPath.
func SessionGuard(resolver Resolver, loginPath string, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := SessionFromRequest(r)
			if s.Anonymous() {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			id, err := resolver.Resolve(r.Context(), s)
			if err != nil {
				log.Debug(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), s, id)))
		})
	}
}

// RedirectAuthenticated sends visitors that already hold a valid session to
// target. Used on the login page.
func RedirectAuthenticated(resolver Resolver, target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := SessionFromRequest(r)
			if !s.Anonymous() {
				if _, err := resolver.Resolve(r.Context(), s); err == nil {
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
