package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

func validProjectForm() ProjectForm {
	return ProjectForm{
		Title:       "Solar Forecasting",
		Description: "Predicting output",
		Details:     "Para one\nPara two",
		Category:    "Research",
		Tags:        "a, b, c",
	}
}

func TestSaveProjectValidationSendsNothing(t *testing.T) {
	f := newFixture(t)
	form := validProjectForm()
	form.Details = "  "

	_, err := f.svc.Writer.SaveProject(context.Background(), f.ownerS, CreateMode(), form, &baas.Upload{Body: strings.NewReader("x")})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"details"}, v.Missing)
	assert.Zero(t, f.backend.count("upload"))
	assert.Zero(t, f.backend.count("create"))
}

func TestSaveProjectTagsRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Writer.SaveProject(ctx, f.ownerS, CreateMode(), validProjectForm(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{"a", "b", "c"}, saved.Tags)

	reloaded, err := f.svc.Writer.Project(ctx, f.ownerS, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a, b, c", ProjectFormFrom(reloaded).Tags)
}

func TestEditWithoutUploadKeepsImageURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orig := f.seedProject(t, models.Project{
		Title: "T", Description: "D", Details: "X", Category: "Research",
		ImageURL: "https://cdn.example.com/img.png?project=p&x=1",
	})

	form := ProjectFormFrom(orig)
	form.Description = "Updated"
	saved, err := f.svc.Writer.SaveProject(ctx, f.ownerS, EditMode(orig.ID), form, nil)
	require.NoError(t, err)
	assert.Equal(t, orig.ImageURL, saved.ImageURL)
	assert.Equal(t, "Updated", saved.Description)
	assert.Zero(t, f.backend.count("upload"))
}

func TestSaveProjectUploadsBeforeWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Writer.SaveProject(ctx, f.ownerS, CreateMode(), validProjectForm(), &baas.Upload{
		Name: "cover.png", ContentType: "image/png", Body: strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.ImageURL, "http://files.test/storage/buckets/project_images/files/"))
	assert.Equal(t, []string{"upload", "create"}, f.backend.calls[len(f.backend.calls)-2:])
}

func TestSaveProjectRequiresSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Writer.SaveProject(context.Background(), baas.Session{}, CreateMode(), validProjectForm(), nil)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestDeleteProjectNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProject(t, models.Project{Title: "T", Description: "D", Details: "X", Category: "Research"})

	err := f.svc.Writer.DeleteProject(ctx, f.ownerS, p.ID, false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Zero(t, f.backend.count("delete"))

	projects, err := f.svc.Writer.Projects(ctx, f.ownerS)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	require.NoError(t, f.svc.Writer.DeleteProject(ctx, f.ownerS, p.ID, true))
	projects, err = f.svc.Writer.Projects(ctx, f.ownerS)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestMemberCannotEditSomeoneElsesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	theirs := f.seedProfile(t, models.Profile{
		Name: "Owner", Status: "CEO", Bio: "bio", Role: models.RoleOwner, IsActive: true, UserID: f.owner.ID,
	})

	form := ProfileFormFrom(theirs)
	form.Bio = "hijacked"
	_, err := f.svc.Writer.SaveProfile(ctx, f.memberS, f.member, EditMode(theirs.ID), form, nil)
	require.ErrorIs(t, err, ErrAuthorizationDenied)
	assert.Equal(t, "Permission denied: you do not have permission to modify this profile", UserMessage(err))
	assert.Zero(t, f.backend.count("update"))

	err = f.svc.Writer.DeleteProfile(ctx, f.memberS, f.member, theirs.ID, true)
	require.ErrorIs(t, err, ErrAuthorizationDenied)
	assert.Zero(t, f.backend.count("delete"))
}

func TestPermissionCheckedBeforeValidation(t *testing.T) {
	f := newFixture(t)
	theirs := f.seedProfile(t, models.Profile{
		Name: "Owner", Status: "CEO", Bio: "bio", Role: models.RoleOwner, IsActive: true, UserID: f.owner.ID,
	})

	_, err := f.svc.Writer.SaveProfile(context.Background(), f.memberS, f.member, EditMode(theirs.ID), ProfileForm{ID: theirs.ID}, nil)
	require.ErrorIs(t, err, ErrAuthorizationDenied)
	assert.Contains(t, UserMessage(err), "Permission denied")
	assert.Zero(t, f.backend.count("update"))
}

func TestMemberProfileIsNormalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := ProfileForm{Name: "Mia", Status: "Intern", Bio: "hi", Skills: "go, sql", Role: models.RoleOwner, UserID: f.owner.ID}
	created, err := f.svc.Writer.SaveProfile(ctx, f.memberS, f.member, CreateMode(), form, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, created.Role)
	assert.True(t, created.IsActive)
	assert.Equal(t, f.member.ID, created.UserID)
	assert.Equal(t, []string{"go", "sql"}, created.Skills)

	edit := ProfileFormFrom(created)
	edit.Role = models.RoleOwner
	edit.IsActive = false
	edited, err := f.svc.Writer.SaveProfile(ctx, f.memberS, f.member, EditMode(created.ID), edit, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, edited.Role)
	assert.True(t, edited.IsActive)
	assert.Equal(t, "go, sql", ProfileFormFrom(edited).Skills)
}

func TestOwnerManagesAnyProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.seedProfile(t, models.Profile{Name: "Mia", Status: "Intern", Bio: "hi", Role: models.RoleMember, IsActive: true, UserID: f.member.ID})

	form := ProfileFormFrom(mine)
	form.IsActive = false
	form.Role = models.RoleOwner
	saved, err := f.svc.Writer.SaveProfile(ctx, f.ownerS, f.owner, EditMode(mine.ID), form, nil)
	require.NoError(t, err)
	assert.False(t, saved.IsActive)
	assert.Equal(t, models.RoleOwner, saved.Role)
	assert.Equal(t, f.member.ID, saved.UserID)

	require.NoError(t, f.svc.Writer.DeleteProfile(ctx, f.ownerS, f.owner, mine.ID, true))
	_, err = f.svc.Writer.Profile(ctx, f.ownerS, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormMode(t *testing.T) {
	assert.False(t, CreateMode().IsEdit())
	assert.True(t, EditMode("p1").IsEdit())
	assert.Equal(t, "p1", EditMode("p1").ID())
	assert.False(t, ModeFor("  ").IsEdit())
	assert.True(t, ProjectForm{ID: "x"}.Mode().IsEdit())
}
