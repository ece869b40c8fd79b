package content

import (
	"strings"

	"portfolio-site/internal/models"
)

// FormMode says whether a submitted form creates a record or edits one.
type FormMode struct {
	id string
}

func CreateMode() FormMode { return FormMode{} }

func EditMode(id string) FormMode { return FormMode{id: id} }

// ModeFor picks the mode from a form's hidden id field.
func ModeFor(id string) FormMode {
	return FormMode{id: strings.TrimSpace(id)}
}

func (m FormMode) IsEdit() bool { return m.id != "" }

// ID is the record being edited, empty in create mode.
func (m FormMode) ID() string { return m.id }

// ProjectForm is the admin project editor. Tags are comma separated.
type ProjectForm struct {
	ID          string
	Title       string
	Description string
	Details     string
	Category    string
	Tags        string
	ImageURL    string
}

func ProjectFormFrom(p models.Project) ProjectForm {
	return ProjectForm{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Details:     p.Details,
		Category:    p.Category,
		Tags:        models.JoinList(p.Tags),
		ImageURL:    p.ImageURL,
	}
}

func (f ProjectForm) Mode() FormMode { return ModeFor(f.ID) }

func (f ProjectForm) Project() models.Project {
	return models.Project{
		ID:          f.ID,
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Details:     f.Details,
		Category:    strings.TrimSpace(f.Category),
		Tags:        models.SplitList(f.Tags),
		ImageURL:    f.ImageURL,
	}
}

// ProfileForm is the admin profile editor. Skills are comma separated.
type ProfileForm struct {
	ID             string
	Name           string
	Status         string
	Bio            string
	CurrentProject string
	Email          string
	Phone          string
	Location       string
	GitHub         string
	LinkedIn       string
	ProfileImage   string
	Skills         string
	Education      string
	Experience     string
	Role           string
	IsActive       bool
	UserID         string
}

func ProfileFormFrom(p models.Profile) ProfileForm {
	return ProfileForm{
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
		Skills:         models.JoinList(p.Skills),
		Education:      p.Education,
		Experience:     p.Experience,
		Role:           p.Role,
		IsActive:       p.IsActive,
		UserID:         p.UserID,
	}
}

func (f ProfileForm) Mode() FormMode { return ModeFor(f.ID) }

func (f ProfileForm) Profile() models.Profile {
	return models.Profile{
		ID:             f.ID,
		Name:           strings.TrimSpace(f.Name),
		Status:         strings.TrimSpace(f.Status),
		Bio:            f.Bio,
		CurrentProject: f.CurrentProject,
		Email:          strings.TrimSpace(f.Email),
		Phone:          f.Phone,
		Location:       f.Location,
		GitHub:         strings.TrimSpace(f.GitHub),
		LinkedIn:       strings.TrimSpace(f.LinkedIn),
		ProfileImage:   f.ProfileImage,
		Skills:         models.SplitList(f.Skills),
		Education:      f.Education,
		Experience:     f.Experience,
		Role:           f.Role,
		IsActive:       f.IsActive,
		UserID:         strings.TrimSpace(f.UserID),
	}
}

// ContactForm is the public contact form.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f ContactForm) ToMessage() models.Message {
	return models.Message{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
		Status:  models.StatusUnread,
	}
}
