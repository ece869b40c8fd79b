package handlers

import (
	"errors"
	"net/http"

	"portfolio-site/internal/content"
	"portfolio-site/internal/dto"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/utils"
)

// APIHandler exposes the public content as JSON
type APIHandler struct {
	reader *content.Reader
	inbox  *content.Inbox
	log    logging.Logger
}

// NewAPIHandler creates a new APIHandler instance
func NewAPIHandler(services *content.Services, log logging.Logger) *APIHandler {
	return &APIHandler{reader: services.Reader, inbox: services.Inbox, log: log}
}

// ListProjects handles GET /api/projects
// @Summary List projects
// @Description Newest first, optionally narrowed to one category
// @Tags projects
// @Produce json
// @Param category query string false "Category filter; All or empty returns everything"
// @Success 200 {object} dto.ProjectListResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/projects [get]
func (h *APIHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.reader.Projects(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	visible := content.FilterByCategory(projects, r.URL.Query().Get("category"))
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProjectListResponse(visible, content.Categories(projects)))
}

// GetProject handles GET /api/projects/{id}
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *APIHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.reader.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProjectResponse(p))
}

// ListProfiles handles GET /api/profiles
// @Summary List active team profiles
// @Description The owner comes first and is flagged as founder
// @Tags profiles
// @Produce json
// @Success 200 {object} dto.ProfileListResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/profiles [get]
func (h *APIHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.reader.ActiveProfiles(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileListResponse(profiles))
}

// CreateMessage handles POST /api/messages
// @Summary Send a contact message
// @Tags messages
// @Accept json
// @Produce json
// @Param payload body dto.CreateMessageRequest true "Message"
// @Success 201 {object} dto.CreateMessageResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/messages [post]
func (h *APIHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMessageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}
	m, err := h.inbox.Submit(r.Context(), content.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateMessageResponse{ID: m.ID, Status: m.Status})
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *content.ValidationError
	if errors.As(err, &validation) {
		utils.WriteJSONResponse(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Error:   "Validation error",
			Message: err.Error(),
			Missing: validation.Missing,
		})
		return
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "api request failed", "path", r.URL.Path, "error", err)
	}
	utils.WriteErrorResponse(w, status, http.StatusText(status), content.UserMessage(err))
}
