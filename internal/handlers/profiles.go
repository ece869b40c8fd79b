package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
	"portfolio-site/internal/policy"
)

// ProfilesHandler manages the About section profiles
type ProfilesHandler struct {
	writer *content.Writer
	policy *policy.Policy
	render *Renderer
	log    logging.Logger
}

func NewProfilesHandler(services *content.Services, render *Renderer, log logging.Logger) *ProfilesHandler {
	return &ProfilesHandler{writer: services.Writer, policy: services.Policy, render: render, log: log}
}

type profilesView struct {
	Page          Page
	Profiles      *content.LoadState[[]models.Profile]
	Form          *content.ProfileForm
	StatusOptions []string
	IsOwner       bool
}

// List handles GET /admin/profiles with the same ?new=1 and ?edit={id}
// switches as the projects page. Editing someone else's profile is refused
// before the form opens.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFromContext(ctx)
	view := h.view(r, nil)
	status := http.StatusOK

	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		p, err := h.writer.Profile(ctx, middleware.SessionFromContext(ctx), q.Get("edit"))
		if err == nil {
			err = h.policy.CanModifyProfile(id, p).Err()
		}
		if expired(w, r, err) {
			return
		}
		if err != nil {
			view.Page.Error = message(err)
			status = statusFor(err)
			break
		}
		form := content.ProfileFormFrom(p)
		view.Form = &form
	case q.Get("new") != "":
		view.Form = &content.ProfileForm{Role: models.RoleMember, IsActive: true}
	}
	if q.Get("saved") != "" {
		view.Page.Notice = "Profile saved successfully!"
	}
	if q.Get("deleted") != "" {
		view.Page.Notice = "Profile deleted successfully!"
	}

	h.load(ctx, &view)
	if expired(w, r, view.Profiles.Err()) {
		return
	}
	if err := view.Profiles.Err(); err != nil {
		status = loadStatus(err)
	}
	h.render.Render(w, r, status, "admin_profiles", view)
}

// Save handles POST /admin/profiles. Role, visibility and owning user are
// only read from the form for the owner; the policy settles them for
// everyone else.
func (h *ProfilesHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFromContext(ctx)
	if err := parseForm(r); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	form := content.ProfileForm{
		ID:             r.PostFormValue("id"),
		Name:           r.PostFormValue("name"),
		Status:         r.PostFormValue("status"),
		Bio:            r.PostFormValue("bio"),
		CurrentProject: r.PostFormValue("currentProject"),
		Email:          r.PostFormValue("email"),
		Phone:          r.PostFormValue("phone"),
		Location:       r.PostFormValue("location"),
		GitHub:         r.PostFormValue("github"),
		LinkedIn:       r.PostFormValue("linkedin"),
		ProfileImage:   r.PostFormValue("profileImage"),
		Skills:         r.PostFormValue("skills"),
		Education:      r.PostFormValue("education"),
		Experience:     r.PostFormValue("experience"),
	}
	if h.policy.IsOwner(id) {
		form.Role = r.PostFormValue("role")
		form.IsActive = r.PostFormValue("isActive") == "true"
		form.UserID = r.PostFormValue("userId")
	}

	upload, closer, err := formUpload(r, "image")
	if err != nil {
		h.fail(w, r, &form, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	p, err := h.writer.SaveProfile(ctx, middleware.SessionFromContext(ctx), id, form.Mode(), form, upload)
	if err != nil {
		h.fail(w, r, &form, err)
		return
	}
	h.log.Info(ctx, "profile saved", "profile_id", p.ID, "user_id", id.ID)
	http.Redirect(w, r, "/admin/profiles?saved=1", http.StatusSeeOther)
}

// ConfirmDelete handles GET /admin/profiles/{id}/delete.
func (h *ProfilesHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFromContext(ctx)
	p, err := h.writer.Profile(ctx, middleware.SessionFromContext(ctx), r.PathValue("id"))
	if err == nil {
		err = h.policy.CanModifyProfile(id, p).Err()
	}
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "confirm_delete", confirmView{
		Page:   newPage(r, "Delete Profile", "profiles"),
		Kind:   "profile",
		Name:   p.Name,
		Action: "/admin/profiles/" + p.ID + "/delete",
		Cancel: "/admin/profiles",
	})
}

// Delete handles POST /admin/profiles/{id}/delete.
func (h *ProfilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFromContext(ctx)
	if err := parseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	profileID := r.PathValue("id")
	err := h.writer.DeleteProfile(ctx, middleware.SessionFromContext(ctx), id, profileID, confirmed(r))
	switch {
	case err == nil:
		h.log.Info(ctx, "profile deleted", "profile_id", profileID, "user_id", id.ID)
		http.Redirect(w, r, "/admin/profiles?deleted=1", http.StatusSeeOther)
	case errors.Is(err, content.ErrNotConfirmed):
		http.Redirect(w, r, "/admin/profiles", http.StatusSeeOther)
	default:
		h.fail(w, r, nil, err)
	}
}

func (h *ProfilesHandler) view(r *http.Request, form *content.ProfileForm) profilesView {
	id, _ := middleware.IdentityFromContext(r.Context())
	return profilesView{
		Page:          newPage(r, "Manage About", "profiles"),
		Form:          form,
		StatusOptions: models.ProfileStatuses,
		IsOwner:       h.policy.IsOwner(id),
	}
}

func (h *ProfilesHandler) load(ctx context.Context, view *profilesView) {
	s := middleware.SessionFromContext(ctx)
	view.Profiles = content.Load(ctx, func(ctx context.Context) ([]models.Profile, error) {
		return h.writer.Profiles(ctx, s)
	})
}

func (h *ProfilesHandler) fail(w http.ResponseWriter, r *http.Request, form *content.ProfileForm, err error) {
	if expired(w, r, err) {
		return
	}
	h.log.Warn(r.Context(), "profile action failed", "error", err)
	view := h.view(r, form)
	view.Page.Error = message(err)
	h.load(r.Context(), &view)
	h.render.Render(w, r, statusFor(err), "admin_profiles", view)
}
