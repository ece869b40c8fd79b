package content

import (
	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

// Collections names the backend collections and bucket the site uses.
type Collections struct {
	Projects string
	Profiles string
	Messages string
	Images   string
}

// Permissions returns the access rules of the site collections.
func (c Collections) Permissions() baas.Permissions {
	return baas.SitePermissions(c.Projects, c.Profiles, c.Messages)
}

const (
	attrIsActive = "isActive"
	attrStatus   = "status"

	listLimit = 100
)

func recent() baas.Query {
	return baas.Query{NewestFirst: true, Limit: listLimit}
}

func decodeProject(doc baas.Document) (models.Project, error) {
	var p models.Project
	if err := doc.Decode(&p); err != nil {
		return p, err
	}
	p.ID, p.CreatedAt = doc.ID, doc.CreatedAt
	return p, nil
}

func decodeProfile(doc baas.Document) (models.Profile, error) {
	var p models.Profile
	if err := doc.Decode(&p); err != nil {
		return p, err
	}
	p.ID, p.CreatedAt = doc.ID, doc.CreatedAt
	return p, nil
}

func decodeMessage(doc baas.Document) (models.Message, error) {
	var m models.Message
	if err := doc.Decode(&m); err != nil {
		return m, err
	}
	m.ID, m.CreatedAt = doc.ID, doc.CreatedAt
	if m.Status == "" {
		m.Status = models.StatusUnread
	}
	return m, nil
}

func decodeAll[T any](list baas.DocumentList, decode func(baas.Document) (T, error)) ([]T, error) {
	out := make([]T, 0, len(list.Documents))
	for _, doc := range list.Documents {
		v, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
