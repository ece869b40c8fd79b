package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
)

func TestAdminPagesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/admin/dashboard", "/admin/projects", "/admin/profiles", "/admin/messages"} {
		rec := env.get(path, baas.Session{})
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), path)
	}

	rec := env.get("/admin/dashboard", baas.Session{Token: "forged"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLoginPageRedirectsSignedInAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/admin/login", env.ownerS)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	rec = env.get("/admin/login", baas.Session{})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantCode int
		wantText string
	}{
		{name: "wrong password", email: "owner@example.com", password: "nope", wantCode: http.StatusUnauthorized, wantText: "Invalid email or password"},
		{name: "unknown account", email: "ghost@example.com", password: "x", wantCode: http.StatusUnauthorized, wantText: "No account found with this email"},
		{name: "missing fields", email: "", password: "", wantCode: http.StatusBadRequest, wantText: "Please fill in all required fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.post("/admin/login", url.Values{"email": {tt.email}, "password": {tt.password}}, baas.Session{})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/admin/login", url.Values{"email": {"owner@example.com"}, "password": {"ownerpw"}}, baas.Session{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			token = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, token)

	rec = env.get("/admin/dashboard", baas.Session{Token: token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/admin/logout", url.Values{}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = env.get("/admin/dashboard", env.ownerS)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(sampleProject("Flood Maps", "Environmental"))
	env.seedProject(sampleProject("Churn Model", "Machine Learning"))
	env.seedMessage(models.Message{Name: "A", Email: "a@example.com", Message: "hi", Status: models.StatusUnread})
	env.seedMessage(models.Message{Name: "B", Email: "b@example.com", Message: "hi", Status: models.StatusRead})

	rec := env.get("/admin/dashboard", env.ownerS)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome back, Olivia Owner!")
	assert.Contains(t, body, `<h2 class="stat-number">2</h2><p>Projects</p>`)
	assert.Contains(t, body, `<h2 class="stat-number">2</h2><p>Messages</p>`)
	assert.Contains(t, body, `<h2 class="stat-number">1</h2><p>Unread</p>`)
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/admin/projects", url.Values{
		"title":       {"Flood Maps"},
		"description": {"Mapping floods"},
		"details":     {"Long text"},
		"category":    {"Environmental"},
		"tags":        {"a, b ,, c"},
	}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects?saved=1", rec.Header().Get("Location"))

	projects, err := env.services.Writer.Projects(context.Background(), env.ownerS)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"a", "b", "c"}, projects[0].Tags)

	rec = env.get("/admin/projects?edit="+projects[0].ID, env.ownerS)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="a, b, c"`)

	rec = env.get("/admin/projects?saved=1", env.ownerS)
	assert.Contains(t, rec.Body.String(), "Project saved successfully!")
}

func TestCreateProjectRequiresFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/admin/projects", url.Values{"title": {"Only a title"}}, env.ownerS)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill in all required fields")
	assert.Contains(t, rec.Body.String(), `value="Only a title"`)

	projects, err := env.services.Writer.Projects(context.Background(), env.ownerS)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestEditProjectKeepsImage(t *testing.T) {
	env := newTestEnv(t)
	p := sampleProject("Flood Maps", "Environmental")
	p.ImageURL = "https://cdn.example/flood.png"
	p = env.seedProject(p)

	rec := env.post("/admin/projects", url.Values{
		"id":          {p.ID},
		"title":       {"Flood Maps v2"},
		"description": {p.Description},
		"details":     {p.Details},
		"category":    {p.Category},
		"tags":        {"python, gis"},
		"imageUrl":    {p.ImageURL},
	}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got := env.project(p.ID)
	assert.Equal(t, "Flood Maps v2", got.Title)
	assert.Equal(t, "https://cdn.example/flood.png", got.ImageURL)
}

func TestProjectImageUpload(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"title":       "Flood Maps",
		"description": "Mapping floods",
		"details":     "Long text",
		"category":    "Environmental",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="flood.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := env.do(req, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	projects, err := env.services.Writer.Projects(context.Background(), env.ownerS)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Contains(t, projects[0].ImageURL, "http://site.test/storage/buckets/project_images/files/")
}

func TestProjectUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Flood Maps"))
	fw, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := env.do(req, env.ownerS)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please choose an image file.")
}

func TestDeleteProjectNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(sampleProject("Flood Maps", "Environmental"))

	rec := env.get("/admin/projects/"+p.ID+"/delete", env.ownerS)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Yes, delete")

	rec = env.post("/admin/projects/"+p.ID+"/delete", url.Values{}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects", rec.Header().Get("Location"))
	env.project(p.ID)

	rec = env.post("/admin/projects/"+p.ID+"/delete", url.Values{"confirm": {"yes"}}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects?deleted=1", rec.Header().Get("Location"))

	_, err := env.services.Writer.Project(context.Background(), env.ownerS, p.ID)
	assert.Error(t, err)
}

func TestMemberCannotEditOthersProfile(t *testing.T) {
	env := newTestEnv(t)
	owned := env.seedProfile(models.Profile{Name: "Olivia Owner", Status: "Researcher", Bio: "owner bio", Role: models.RoleOwner, IsActive: true, UserID: env.owner.ID})

	rec := env.get("/admin/profiles?edit="+owned.ID, env.memberS)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Permission denied")

	rec = env.post("/admin/profiles", url.Values{
		"id":     {owned.ID},
		"name":   {"Hijacked"},
		"status": {"Student"},
		"bio":    {"changed"},
	}, env.memberS)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Permission denied")
	assert.Equal(t, "Olivia Owner", env.profile(owned.ID).Name)

	rec = env.post("/admin/profiles/"+owned.ID+"/delete", url.Values{"confirm": {"yes"}}, env.memberS)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env.profile(owned.ID)
}

func TestMemberProfileIsForcedToMember(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/admin/profiles", url.Values{
		"name":     {"Max Member"},
		"status":   {"Student"},
		"bio":      {"hello"},
		"skills":   {"Go, SQL"},
		"role":     {models.RoleOwner},
		"isActive": {"false"},
	}, env.memberS)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	profiles, err := env.services.Writer.Profiles(context.Background(), env.ownerS)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	got := profiles[0]
	assert.Equal(t, models.RoleMember, got.Role)
	assert.True(t, got.IsActive)
	assert.Equal(t, env.member.ID, got.UserID)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)

	rec = env.get("/admin/profiles?edit="+got.ID, env.memberS)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnerSetsProfileVisibility(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProfile(models.Profile{Name: "Max Member", Status: "Student", Bio: "b", Role: models.RoleMember, IsActive: true, UserID: env.member.ID})

	rec := env.post("/admin/profiles", url.Values{
		"id":       {p.ID},
		"name":     {"Max Member"},
		"status":   {"Student"},
		"bio":      {"b"},
		"role":     {models.RoleMember},
		"isActive": {"false"},
	}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got := env.profile(p.ID)
	assert.False(t, got.IsActive)
	assert.Equal(t, env.member.ID, got.UserID)

	rec = env.get("/about", baas.Session{})
	assert.NotContains(t, rec.Body.String(), "Max Member")
}

func TestMessagesFilterAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	unread := env.seedMessage(models.Message{Name: "Unread Ursula", Email: "u@example.com", Message: "hi", Status: models.StatusUnread})
	env.seedMessage(models.Message{Name: "Read Rita", Email: "r@example.com", Message: "hi", Status: models.StatusRead})

	rec := env.get("/admin/messages?filter=unread", env.ownerS)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Unread Ursula")
	assert.NotContains(t, body, "Read Rita")
	assert.Contains(t, body, "Unread (1)")

	rec = env.post("/admin/messages/"+unread.ID+"/read?filter=unread", url.Values{}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/messages?filter=unread", rec.Header().Get("Location"))

	rec = env.get("/admin/messages?filter=unread", env.ownerS)
	assert.NotContains(t, rec.Body.String(), "Unread Ursula")
	assert.Contains(t, rec.Body.String(), "Unread (0)")

	rec = env.get("/admin/messages?filter=read", env.ownerS)
	assert.Contains(t, rec.Body.String(), "Unread Ursula")
	assert.Contains(t, rec.Body.String(), "Read Rita")
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	m := env.seedMessage(models.Message{Name: "Alice", Email: "a@example.com", Message: "hi", Status: models.StatusUnread})

	rec := env.post("/admin/messages/"+m.ID+"/delete", url.Values{}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	messages, err := env.services.Inbox.List(context.Background(), env.ownerS)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	rec = env.post("/admin/messages/"+m.ID+"/delete", url.Values{"confirm": {"yes"}}, env.ownerS)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/messages?deleted=1", rec.Header().Get("Location"))
	messages, err = env.services.Inbox.List(context.Background(), env.ownerS)
	require.NoError(t, err)
	assert.Empty(t, messages)

	rec = env.get("/admin/messages?deleted=1", env.ownerS)
	assert.Contains(t, rec.Body.String(), "Message deleted successfully!")
}
