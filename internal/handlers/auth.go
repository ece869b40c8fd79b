package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
)

// AuthHandler handles admin sign-in, sign-out and the dashboard.
type AuthHandler struct {
	auth         *content.Auth
	dashboard    *content.Dashboard
	render       *Renderer
	log          logging.Logger
	cookieSecure bool
	sessionTTL   time.Duration
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(services *content.Services, render *Renderer, log logging.Logger, cookieSecure bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:         services.Auth,
		dashboard:    services.Dashboard,
		render:       render,
		log:          log,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

type loginView struct {
	Page  Page
	Email string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login", loginView{Page: newPage(r, "Admin Login", "")})
}

// Login exchanges the posted credentials for a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	s, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		view := loginView{Page: newPage(r, "Admin Login", ""), Email: email}
		status := http.StatusUnauthorized
		var validation *content.ValidationError
		switch {
		case errors.As(err, &validation):
			view.Page.Error = content.UserMessage(err)
			status = http.StatusBadRequest
		case errors.Is(err, content.ErrInvalidCredentials), errors.Is(err, content.ErrUnknownUser):
			view.Page.Error = content.LoginMessage(err)
		default:
			h.log.Error(r.Context(), "login failed", "error", err)
			view.Page.Error = content.LoginMessage(err)
			status = http.StatusBadGateway
		}
		h.render.Render(w, r, status, "login", view)
		return
	}

	middleware.SetSessionCookie(w, s, h.cookieSecure, h.sessionTTL)
	h.log.Info(r.Context(), "admin signed in", "email", email)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout ends the backend session and drops the cookie. The cookie goes even
// when the backend call fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.SessionFromRequest(r)); err != nil {
		h.log.Warn(r.Context(), "logout failed", "error", err)
	}
	middleware.ClearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

type dashboardView struct {
	Page    Page
	Welcome string
	Stats   *content.LoadState[content.Stats]
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFromContext(ctx)
	view := dashboardView{Page: newPage(r, "Dashboard", "dashboard"), Welcome: id.Name}
	if view.Welcome == "" {
		view.Welcome = id.Email
	}

	s := middleware.SessionFromContext(ctx)
	view.Stats = content.Load(ctx, func(ctx context.Context) (content.Stats, error) {
		return h.dashboard.Stats(ctx, s)
	})
	if expired(w, r, view.Stats.Err()) {
		return
	}
	h.render.Render(w, r, loadStatus(view.Stats.Err()), "dashboard", view)
}

// expired redirects to the login page when the backend rejected the session
// mid-request.
func expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, content.ErrAuthenticationRequired) {
		return false
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	return true
}
