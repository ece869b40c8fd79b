package models

import (
	"strings"
	"time"
)

// Categories offered by the admin project form. Stored categories are free
// strings; this list only seeds the select box.
var ProjectCategories = []string{
	"Machine Learning",
	"Data Science",
	"Environmental",
	"Web Development",
	"Research",
	"Other",
}

// Project is a portfolio entry.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Paragraphs splits Details on newlines, dropping blank lines.
func (p Project) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(p.Details, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (p Project) Validate() error {
	var v ValidationError
	v.require("title", p.Title)
	v.require("description", p.Description)
	v.require("details", p.Details)
	v.require("category", p.Category)
	return v.orNil()
}

// Fields returns the stored attributes of the project.
func (p Project) Fields() map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"details":     p.Details,
		"category":    p.Category,
		"tags":        tags,
		"imageUrl":    p.ImageURL,
	}
}
