package dto

import "portfolio-site/internal/models"

// ProfileResponse is the public view of a team member. Contact details the
// member entered are included; the owning user id is not.
type ProfileResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Bio            string   `json:"bio"`
	CurrentProject string   `json:"current_project,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Location       string   `json:"location,omitempty"`
	GitHub         string   `json:"github,omitempty"`
	LinkedIn       string   `json:"linkedin,omitempty"`
	ProfileImage   string   `json:"profile_image,omitempty"`
	Skills         []string `json:"skills"`
	Education      string   `json:"education,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Founder        bool     `json:"founder"`
}

// ProfileListResponse envelope
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

func NewProfileResponse(p models.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Status:         p.Status,
		Bio:            p.Bio,
		CurrentProject: p.CurrentProject,
		Email:          p.Email,
		Phone:          p.Phone,
		Location:       p.Location,
		GitHub:         p.GitHub,
		LinkedIn:       p.LinkedIn,
		ProfileImage:   p.ProfileImage,
		Skills:         skills,
		Education:      p.Education,
		Experience:     p.Experience,
		Founder:        p.IsOwnerRecord(),
	}
}

func NewProfileListResponse(profiles []models.Profile) ProfileListResponse {
	items := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, NewProfileResponse(p))
	}
	return ProfileListResponse{Profiles: items}
}
