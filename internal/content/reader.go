package content

import (
	"context"
	"sort"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/cache"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
)

// CategoryAll selects every project.
const CategoryAll = "All"

const (
	keyProfiles = "profiles:"
	keyProjects = "projects:"
)

// Reader serves the public pages. It reads as a guest through the cache.
type Reader struct {
	docs  baas.DocumentStore
	cols  Collections
	cache cache.Cache
	log   logging.Logger
}

func NewReader(backend baas.Backend, cols Collections, c cache.Cache, log logging.Logger) *Reader {
	return &Reader{
		docs:  backend.Documents(baas.Session{}),
		cols:  cols,
		cache: c,
		log:   log,
	}
}

// ActiveProfiles lists active profiles, newest first with owner records moved
// to the front.
func (r *Reader) ActiveProfiles(ctx context.Context) ([]models.Profile, error) {
	return cache.Remember(ctx, r.cache, r.log, keyProfiles+"active", func(ctx context.Context) ([]models.Profile, error) {
		q := recent()
		q.Filters = []baas.Filter{baas.Equal(attrIsActive, true)}
		list, err := r.docs.List(ctx, r.cols.Profiles, q)
		if err != nil {
			return nil, classify("list profiles", err)
		}
		profiles, err := decodeAll(list, decodeProfile)
		if err != nil {
			return nil, classify("list profiles", err)
		}
		sort.SliceStable(profiles, func(i, j int) bool {
			return profiles[i].IsOwnerRecord() && !profiles[j].IsOwnerRecord()
		})
		return profiles, nil
	})
}

// SplitFounder separates the first owner record from the rest of the team.
func SplitFounder(profiles []models.Profile) (founder *models.Profile, team []models.Profile) {
	team = make([]models.Profile, 0, len(profiles))
	for i := range profiles {
		if founder == nil && profiles[i].IsOwnerRecord() {
			founder = &profiles[i]
			continue
		}
		team = append(team, profiles[i])
	}
	return founder, team
}

// Projects lists the newest projects.
func (r *Reader) Projects(ctx context.Context) ([]models.Project, error) {
	return cache.Remember(ctx, r.cache, r.log, keyProjects+"list", func(ctx context.Context) ([]models.Project, error) {
		list, err := r.docs.List(ctx, r.cols.Projects, recent())
		if err != nil {
			return nil, classify("list projects", err)
		}
		projects, err := decodeAll(list, decodeProject)
		if err != nil {
			return nil, classify("list projects", err)
		}
		return projects, nil
	})
}

// Project returns one project or ErrNotFound.
func (r *Reader) Project(ctx context.Context, id string) (models.Project, error) {
	return cache.Remember(ctx, r.cache, r.log, keyProjects+"id:"+id, func(ctx context.Context) (models.Project, error) {
		doc, err := r.docs.Get(ctx, r.cols.Projects, id)
		if err != nil {
			return models.Project{}, classify("get project", err)
		}
		p, err := decodeProject(doc)
		if err != nil {
			return models.Project{}, classify("get project", err)
		}
		return p, nil
	})
}

// Categories returns "All" followed by the distinct categories in first-seen order.
func Categories(projects []models.Project) []string {
	out := []string{CategoryAll}
	seen := map[string]bool{CategoryAll: true}
	for _, p := range projects {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// FilterByCategory keeps projects of one category. "" and "All" keep everything.
func FilterByCategory(projects []models.Project, category string) []models.Project {
	if category == "" || category == CategoryAll {
		return projects
	}
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
