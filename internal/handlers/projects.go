package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
)

// ProjectsHandler manages projects from the admin panel
type ProjectsHandler struct {
	writer *content.Writer
	render *Renderer
	log    logging.Logger
}

// NewProjectsHandler creates a new ProjectsHandler
func NewProjectsHandler(services *content.Services, render *Renderer, log logging.Logger) *ProjectsHandler {
	return &ProjectsHandler{writer: services.Writer, render: render, log: log}
}

type projectsView struct {
	Page            Page
	Projects        *content.LoadState[[]models.Project]
	Form            *content.ProjectForm
	CategoryOptions []string
}

// List handles GET /admin/projects. ?new=1 opens an empty form, ?edit={id}
// opens the form on an existing project.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := middleware.SessionFromContext(ctx)
	view := h.view(r, nil)

	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		p, err := h.writer.Project(ctx, s, q.Get("edit"))
		if expired(w, r, err) {
			return
		}
		if err != nil {
			view.Page.Error = message(err)
			break
		}
		form := content.ProjectFormFrom(p)
		view.Form = &form
	case q.Get("new") != "":
		view.Form = &content.ProjectForm{}
	}
	if q.Get("saved") != "" {
		view.Page.Notice = "Project saved successfully!"
	}
	if q.Get("deleted") != "" {
		view.Page.Notice = "Project deleted successfully!"
	}

	h.load(ctx, &view)
	if expired(w, r, view.Projects.Err()) {
		return
	}
	h.render.Render(w, r, loadStatus(view.Projects.Err()), "admin_projects", view)
}

// Save handles POST /admin/projects: create when the id field is empty,
// update otherwise. Failures re-render the form with the entered values.
func (h *ProjectsHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	form := content.ProjectForm{
		ID:          r.PostFormValue("id"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Details:     r.PostFormValue("details"),
		Category:    r.PostFormValue("category"),
		Tags:        r.PostFormValue("tags"),
		ImageURL:    r.PostFormValue("imageUrl"),
	}

	upload, closer, err := formUpload(r, "image")
	if err != nil {
		h.fail(w, r, &form, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	p, err := h.writer.SaveProject(ctx, middleware.SessionFromContext(ctx), form.Mode(), form, upload)
	if err != nil {
		h.fail(w, r, &form, err)
		return
	}
	h.log.Info(ctx, "project saved", "project_id", p.ID, "edit", form.Mode().IsEdit())
	http.Redirect(w, r, "/admin/projects?saved=1", http.StatusSeeOther)
}

// ConfirmDelete handles GET /admin/projects/{id}/delete.
func (h *ProjectsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	p, err := h.writer.Project(ctx, middleware.SessionFromContext(ctx), id)
	if expired(w, r, err) {
		return
	}
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "confirm_delete", confirmView{
		Page:   newPage(r, "Delete Project", "projects"),
		Kind:   "project",
		Name:   p.Title,
		Action: "/admin/projects/" + p.ID + "/delete",
		Cancel: "/admin/projects",
	})
}

// Delete handles POST /admin/projects/{id}/delete. Without confirm=yes
// nothing is deleted.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	err := h.writer.DeleteProject(ctx, middleware.SessionFromContext(ctx), id, confirmed(r))
	switch {
	case err == nil:
		h.log.Info(ctx, "project deleted", "project_id", id)
		http.Redirect(w, r, "/admin/projects?deleted=1", http.StatusSeeOther)
	case errors.Is(err, content.ErrNotConfirmed):
		http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
	default:
		h.fail(w, r, nil, err)
	}
}

func (h *ProjectsHandler) view(r *http.Request, form *content.ProjectForm) projectsView {
	return projectsView{
		Page:            newPage(r, "Manage Projects", "projects"),
		Form:            form,
		CategoryOptions: models.ProjectCategories,
	}
}

func (h *ProjectsHandler) load(ctx context.Context, view *projectsView) {
	s := middleware.SessionFromContext(ctx)
	view.Projects = content.Load(ctx, func(ctx context.Context) ([]models.Project, error) {
		return h.writer.Projects(ctx, s)
	})
}

// fail shows the management page with err and, if given, the submitted form.
func (h *ProjectsHandler) fail(w http.ResponseWriter, r *http.Request, form *content.ProjectForm, err error) {
	if expired(w, r, err) {
		return
	}
	h.log.Warn(r.Context(), "project action failed", "error", err)
	view := h.view(r, form)
	view.Page.Error = message(err)
	h.load(r.Context(), &view)
	h.render.Render(w, r, statusFor(err), "admin_projects", view)
}

type confirmView struct {
	Page   Page
	Kind   string
	Name   string
	Action string
	Cancel string
}
