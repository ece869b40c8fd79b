package dto

import (
	"time"

	"portfolio-site/internal/models"
)

// ProjectResponse represents a project in responses
type ProjectResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Details     string   `json:"details"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// ProjectListResponse envelope
type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Categories []string          `json:"categories"`
	Total      int               `json:"total"`
}

func NewProjectResponse(p models.Project) ProjectResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Details:     p.Details,
		Category:    p.Category,
		Tags:        tags,
		ImageURL:    p.ImageURL,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

// NewProjectListResponse converts projects; categories lists the filter choices.
func NewProjectListResponse(projects []models.Project, categories []string) ProjectListResponse {
	items := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, NewProjectResponse(p))
	}
	return ProjectListResponse{Projects: items, Categories: categories, Total: len(items)}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
