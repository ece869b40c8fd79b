package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
)

// SiteHandler serves the public pages.
type SiteHandler struct {
	reader *content.Reader
	inbox  *content.Inbox
	render *Renderer
	log    logging.Logger
}

func NewSiteHandler(services *content.Services, render *Renderer, log logging.Logger) *SiteHandler {
	return &SiteHandler{reader: services.Reader, inbox: services.Inbox, render: render, log: log}
}

type homeView struct {
	Page     Page
	Projects *content.LoadState[[]models.Project]
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	state := content.Load(r.Context(), h.reader.Projects)
	h.render.Render(w, r, loadStatus(state.Err()), "home", homeView{
		Page:     newPage(r, "Home", "home"),
		Projects: state,
	})
}

type aboutView struct {
	Page     Page
	Profiles *content.LoadState[[]models.Profile]
	Founder  *models.Profile
	Team     []models.Profile
}

// About shows the owner first with a Founder badge, then the rest of the team.
// With no profiles at all it shows placeholder data.
func (h *SiteHandler) About(w http.ResponseWriter, r *http.Request) {
	view := aboutView{Page: newPage(r, "About", "about")}
	view.Profiles = content.Load(r.Context(), h.reader.ActiveProfiles)
	if view.Profiles.Loaded() {
		profiles := view.Profiles.Data()
		if len(profiles) == 0 {
			placeholder := models.PlaceholderProfile()
			view.Founder = &placeholder
		} else {
			view.Founder, view.Team = content.SplitFounder(profiles)
		}
	}
	h.render.Render(w, r, loadStatus(view.Profiles.Err()), "about", view)
}

type portfolioView struct {
	Page       Page
	Projects   *content.LoadState[[]models.Project]
	Categories []string
	Category   string
	Visible    []models.Project
}

func (h *SiteHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	view := portfolioView{
		Page:     newPage(r, "Portfolio", "portfolio"),
		Category: r.URL.Query().Get("category"),
	}
	if view.Category == "" {
		view.Category = content.CategoryAll
	}
	view.Projects = content.Load(r.Context(), h.reader.Projects)
	if view.Projects.Loaded() {
		projects := view.Projects.Data()
		view.Categories = content.Categories(projects)
		view.Visible = content.FilterByCategory(projects, view.Category)
	}
	h.render.Render(w, r, loadStatus(view.Projects.Err()), "portfolio", view)
}

type projectView struct {
	Page    Page
	Project *content.LoadState[models.Project]
}

func (h *SiteHandler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := content.Load(r.Context(), func(ctx context.Context) (models.Project, error) {
		return h.reader.Project(ctx, id)
	})
	if errors.Is(state.Err(), content.ErrNotFound) {
		h.notFound(w, r, "Project Not Found", "This project does not exist or was removed.", "/portfolio", "Back to Portfolio")
		return
	}
	title := "Project"
	if state.Loaded() {
		title = state.Data().Title
	}
	h.render.Render(w, r, loadStatus(state.Err()), "project", projectView{
		Page:    newPage(r, title, "portfolio"),
		Project: state,
	})
}

type contactView struct {
	Page Page
	Form content.ContactForm
	Sent bool
}

// sentRefresh hides the success banner after five seconds.
const sentRefresh = "5;url=/contact"

func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	view := contactView{Page: newPage(r, "Contact", "contact")}
	if r.URL.Query().Get("sent") == "1" {
		view.Sent = true
		view.Page.Refresh = sentRefresh
	}
	h.render.Render(w, r, http.StatusOK, "contact", view)
}

// SubmitContact stores the message and redirects to a cleared form. On
// failure the form is shown again with what the visitor typed.
func (h *SiteHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := content.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	if _, err := h.inbox.Submit(r.Context(), form); err != nil {
		h.log.Warn(r.Context(), "contact submission failed", "error", err)
		view := contactView{Page: newPage(r, "Contact", "contact"), Form: form}
		view.Page.Error = "Failed to send message: " + message(err)
		h.render.Render(w, r, statusFor(err), "contact", view)
		return
	}
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

// NotFound is the fallback for unknown paths.
func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "Page Not Found", "The page you are looking for does not exist.", "/", "Back to Home")
}

// Busy answers a form that is submitted again while the first submission is
// still being processed.
func (h *SiteHandler) Busy(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusConflict, "not_found", notFoundView{
		Page:      newPage(r, "Request in Progress", ""),
		Heading:   "Request in progress",
		Message:   "This form is already being submitted. Please wait a moment and try again.",
		Back:      "/admin/dashboard",
		BackLabel: "Back to Dashboard",
	})
}

type notFoundView struct {
	Page      Page
	Heading   string
	Message   string
	Back      string
	BackLabel string
}

func (h *SiteHandler) notFound(w http.ResponseWriter, r *http.Request, heading, msg, back, backLabel string) {
	h.render.Render(w, r, http.StatusNotFound, "not_found", notFoundView{
		Page:      newPage(r, heading, ""),
		Heading:   heading,
		Message:   msg,
		Back:      back,
		BackLabel: backLabel,
	})
}

// loadStatus is the status of a page whose fetch ended with err. Failed reads
// still render the page with a retry link.
func loadStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return statusFor(err)
}
