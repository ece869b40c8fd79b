package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/baas/memory"
	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
)

var testCols = content.Collections{
	Projects: "projects",
	Profiles: "about",
	Messages: "messages",
	Images:   "project_images",
}

type testEnv struct {
	t        *testing.T
	backend  *memory.Backend
	services *content.Services
	handler  http.Handler

	owner, member   baas.Identity
	ownerS, memberS baas.Session
}

// newTestEnv wires the handlers to a memory backend the same way the router
// does, minus CSRF.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	backend := memory.New(testCols.Permissions(), "http://site.test")

	owner, err := backend.AddUser("owner@example.com", "Olivia Owner", "ownerpw")
	require.NoError(t, err)
	member, err := backend.AddUser("member@example.com", "Max Member", "memberpw")
	require.NoError(t, err)

	log := logging.Discard()
	services := content.NewServices(content.Deps{
		Backend:      backend,
		Collections:  testCols,
		SuperAdminID: owner.ID,
		Logger:       log,
	})
	ownerS, err := services.Auth.Login(ctx, "owner@example.com", "ownerpw")
	require.NoError(t, err)
	memberS, err := services.Auth.Login(ctx, "member@example.com", "memberpw")
	require.NoError(t, err)

	render, err := NewRenderer(log)
	require.NoError(t, err)

	site := NewSiteHandler(services, render, log)
	auth := NewAuthHandler(services, render, log, false, 0)
	projects := NewProjectsHandler(services, render, log)
	profiles := NewProfilesHandler(services, render, log)
	messages := NewMessagesHandler(services, render, log)
	api := NewAPIHandler(services, log)

	guard := middleware.SessionGuard(services.Auth, "/admin/login", log)
	admin := func(h http.HandlerFunc) http.Handler { return guard(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", site.Home)
	mux.HandleFunc("GET /about", site.About)
	mux.HandleFunc("GET /portfolio", site.Portfolio)
	mux.HandleFunc("GET /portfolio/{id}", site.ProjectDetail)
	mux.HandleFunc("GET /contact", site.Contact)
	mux.HandleFunc("POST /contact", site.SubmitContact)
	mux.HandleFunc("/", site.NotFound)
	mux.Handle("GET /admin/login", middleware.RedirectAuthenticated(services.Auth, "/admin/dashboard")(http.HandlerFunc(auth.LoginPage)))
	mux.HandleFunc("POST /admin/login", auth.Login)
	mux.HandleFunc("POST /admin/logout", auth.Logout)
	mux.Handle("GET /admin/dashboard", admin(auth.Dashboard))
	mux.Handle("GET /admin/projects", admin(projects.List))
	mux.Handle("POST /admin/projects", admin(projects.Save))
	mux.Handle("GET /admin/projects/{id}/delete", admin(projects.ConfirmDelete))
	mux.Handle("POST /admin/projects/{id}/delete", admin(projects.Delete))
	mux.Handle("GET /admin/profiles", admin(profiles.List))
	mux.Handle("POST /admin/profiles", admin(profiles.Save))
	mux.Handle("GET /admin/profiles/{id}/delete", admin(profiles.ConfirmDelete))
	mux.Handle("POST /admin/profiles/{id}/delete", admin(profiles.Delete))
	mux.Handle("GET /admin/messages", admin(messages.List))
	mux.Handle("POST /admin/messages/{id}/read", admin(messages.MarkRead))
	mux.Handle("GET /admin/messages/{id}/delete", admin(messages.ConfirmDelete))
	mux.Handle("POST /admin/messages/{id}/delete", admin(messages.Delete))
	mux.HandleFunc("GET /api/projects", api.ListProjects)
	mux.HandleFunc("GET /api/projects/{id}", api.GetProject)
	mux.HandleFunc("GET /api/profiles", api.ListProfiles)
	mux.HandleFunc("POST /api/messages", api.CreateMessage)

	return &testEnv{
		t:        t,
		backend:  backend,
		services: services,
		handler:  mux,
		owner:    owner,
		member:   member,
		ownerS:   ownerS,
		memberS:  memberS,
	}
}

func (e *testEnv) do(req *http.Request, s baas.Session) *httptest.ResponseRecorder {
	if !s.Anonymous() {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: s.Token})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, s baas.Session) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), s)
}

func (e *testEnv) post(path string, form url.Values, s baas.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, s)
}

func (e *testEnv) seedProject(p models.Project) models.Project {
	e.t.Helper()
	doc, err := e.backend.Documents(e.ownerS).Create(context.Background(), testCols.Projects, baas.UniqueID(), p.Fields())
	require.NoError(e.t, err)
	p.ID = doc.ID
	return p
}

func (e *testEnv) seedProfile(p models.Profile) models.Profile {
	e.t.Helper()
	doc, err := e.backend.Documents(e.ownerS).Create(context.Background(), testCols.Profiles, baas.UniqueID(), p.Fields())
	require.NoError(e.t, err)
	p.ID = doc.ID
	return p
}

func (e *testEnv) seedMessage(m models.Message) models.Message {
	e.t.Helper()
	doc, err := e.backend.Documents(baas.Session{}).Create(context.Background(), testCols.Messages, baas.UniqueID(), m.Fields())
	require.NoError(e.t, err)
	m.ID = doc.ID
	return m
}

func (e *testEnv) project(id string) models.Project {
	e.t.Helper()
	p, err := e.services.Writer.Project(context.Background(), e.ownerS, id)
	require.NoError(e.t, err)
	return p
}

func (e *testEnv) profile(id string) models.Profile {
	e.t.Helper()
	p, err := e.services.Writer.Profile(context.Background(), e.ownerS, id)
	require.NoError(e.t, err)
	return p
}

func sampleProject(title, category string) models.Project {
	return models.Project{
		Title:       title,
		Description: "Short " + title,
		Details:     "First paragraph\nSecond paragraph",
		Category:    category,
		Tags:        []string{"python", "gis"},
	}
}
