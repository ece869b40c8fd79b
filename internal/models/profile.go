package models

import "time"

// Role values for Profile.Role.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// ProfileStatuses are the choices offered for Profile.Status.
var ProfileStatuses = []string{"Student", "Teacher", "Researcher", "Developer", "Data Scientist", "Other"}

// Profile is a team member shown on the About page.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Bio            string    `json:"bio"`
	CurrentProject string    `json:"currentProject"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Location       string    `json:"location"`
	GitHub         string    `json:"github"`
	LinkedIn       string    `json:"linkedin"`
	ProfileImage   string    `json:"profileImage"`
	Skills         []string  `json:"skills"`
	Education      string    `json:"education"`
	Experience     string    `json:"experience"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	UserID         string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsOwnerRecord reports whether the profile is marked as the site owner.
func (p Profile) IsOwnerRecord() bool {
	return p.Role == RoleOwner
}

// Validate checks the fields required for a write.
func (p Profile) Validate() error {
	var v ValidationError
	v.require("name", p.Name)
	v.require("status", p.Status)
	v.require("bio", p.Bio)
	return v.orNil()
}

// Fields returns the stored attributes of the profile.
func (p Profile) Fields() map[string]any {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return map[string]any{
		"name":           p.Name,
		"status":         p.Status,
		"bio":            p.Bio,
		"currentProject": p.CurrentProject,
		"email":          p.Email,
		"phone":          p.Phone,
		"location":       p.Location,
		"github":         p.GitHub,
		"linkedin":       p.LinkedIn,
		"profileImage":   p.ProfileImage,
		"skills":         skills,
		"education":      p.Education,
		"experience":     p.Experience,
		"role":           p.Role,
		"isActive":       p.IsActive,
		"userId":         p.UserID,
	}
}

// PlaceholderProfile is rendered on the About page when no profile exists yet.
func PlaceholderProfile() Profile {
	return Profile{
		Name:           "Your Name",
		Status:         "Student",
		Bio:            "Add your bio in the admin panel.",
		CurrentProject: "Your current project",
		Email:          "your.email@example.com",
		Location:       "Your location",
		Skills:         []string{"Python", "React", "Machine Learning"},
		Education:      "Your education details",
		Experience:     "Your experience details",
		Role:           RoleOwner,
		IsActive:       true,
	}
}
