package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
)

func TestAboutShowsPlaceholderWithoutProfiles(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/about", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your Name")
	assert.Contains(t, body, "Founder")
	assert.Contains(t, body, "your.email@example.com")
}

func TestAboutPutsOwnerFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seedProfile(models.Profile{Name: "Tara Team", Status: "Student", Bio: "b", Role: models.RoleMember, IsActive: true})
	env.seedProfile(models.Profile{Name: "Olivia Owner", Status: "Researcher", Bio: "b", Role: models.RoleOwner, IsActive: true})
	env.seedProfile(models.Profile{Name: "Hidden Person", Status: "Student", Bio: "b", Role: models.RoleMember})

	rec := env.get("/about", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "badge-founder")
	assert.Contains(t, body, "Olivia Owner")
	assert.Contains(t, body, "Tara Team")
	assert.Less(t, strings.Index(body, "Olivia Owner"), strings.Index(body, "Tara Team"))
	assert.NotContains(t, body, "Hidden Person")
	assert.NotContains(t, body, "Your Name")
}

func TestAboutBadgesEveryOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seedProfile(models.Profile{Name: "First Owner", Status: "Researcher", Bio: "b", Role: models.RoleOwner, IsActive: true})
	env.seedProfile(models.Profile{Name: "Second Owner", Status: "Teacher", Bio: "b", Role: models.RoleOwner, IsActive: true})
	env.seedProfile(models.Profile{Name: "Tara Team", Status: "Student", Bio: "b", Role: models.RoleMember, IsActive: true})

	rec := env.get("/about", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "badge-founder"))
	assert.Contains(t, body, "First Owner")
	assert.Contains(t, body, "Second Owner")
	assert.Less(t, strings.Index(body, "Second Owner"), strings.Index(body, "Tara Team"))
}

func TestPortfolioEmptyState(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/portfolio", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No projects yet")
	assert.Contains(t, body, "No projects available yet. Check back soon!")
	assert.Contains(t, body, `href="/portfolio?category=All"`)
}

func TestPortfolioFiltersByCategory(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(sampleProject("Flood Maps", "Environmental"))
	env.seedProject(sampleProject("Churn Model", "Machine Learning"))

	rec := env.get("/portfolio?category=Environmental", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Flood Maps")
	assert.NotContains(t, body, "Churn Model")
	assert.Contains(t, body, "Machine Learning")

	rec = env.get("/portfolio?category=Research", baas.Session{})
	assert.Contains(t, rec.Body.String(), "category yet.")
}

func TestProjectDetail(t *testing.T) {
	env := newTestEnv(t)
	p := sampleProject("Flood Maps", "Environmental")
	p.Details = "Uses **satellite** data\nand rainfall records"
	p = env.seedProject(p)

	rec := env.get("/portfolio/"+p.ID, baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>satellite</strong>")
	assert.Contains(t, body, "<br>")
	assert.Contains(t, body, "Flood Maps | Portfolio")

	rec = env.get("/portfolio/missing", baas.Session{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project Not Found")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/nope", baas.Session{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}

func TestContactSubmission(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/contact", url.Values{
		"name":    {"Alice"},
		"email":   {"alice@example.com"},
		"message": {"Hi"},
	}, baas.Session{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact?sent=1", rec.Header().Get("Location"))

	messages, err := env.services.Inbox.List(context.Background(), env.ownerS)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Alice", messages[0].Name)
	assert.Equal(t, models.StatusUnread, messages[0].Status)

	rec = env.get("/contact?sent=1", baas.Session{})
	assert.Contains(t, rec.Body.String(), "Message sent successfully!")
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
}

func TestContactSubmissionKeepsInputOnError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/contact", url.Values{
		"name":    {"Alice"},
		"subject": {"Collaboration"},
	}, baas.Session{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to send message")
	assert.Contains(t, body, `value="Alice"`)
	assert.Contains(t, body, `value="Collaboration"`)
	assert.NotContains(t, body, "Message sent successfully!")

	messages, err := env.services.Inbox.List(context.Background(), env.ownerS)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestHomeListsProjects(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(sampleProject("Flood Maps", "Environmental"))

	rec := env.get("/", baas.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Flood Maps")
}


func TestBusyPage(t *testing.T) {
	env := newTestEnv(t)
	render, err := NewRenderer(logging.Discard())
	require.NoError(t, err)
	site := NewSiteHandler(env.services, render, logging.Discard())

	rec := httptest.NewRecorder()
	site.Busy(rec, httptest.NewRequest(http.MethodPost, "/admin/projects", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "This form is already being submitted.")
}
