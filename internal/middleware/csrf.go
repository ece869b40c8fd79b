package middleware

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFField is the hidden form field carrying the token.
const CSRFField = "csrf_token"

// CSRF protects the HTML forms. An empty key gets a random one, which means
// tokens do not survive a restart.
func CSRF(key []byte, secure bool) (func(http.Handler) http.Handler, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(key))
	}
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFField),
		csrf.CookieName("portfolio_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	if secure {
		return protect, nil
	}
	// Over plain HTTP gorilla/csrf would demand an https Referer.
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := "invalid CSRF token"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	http.Error(w, "Forbidden: "+reason, http.StatusForbidden)
}
