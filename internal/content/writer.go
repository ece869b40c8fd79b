package content

import (
	"context"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/cache"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
	"portfolio-site/internal/policy"
)

// Writer runs the admin CRUD flows. Every call takes the caller's session, and
// profile flows take the resolved identity as well.
type Writer struct {
	backend baas.Backend
	cols    Collections
	policy  *policy.Policy
	cache   cache.Cache
	log     logging.Logger
}

func NewWriter(backend baas.Backend, cols Collections, p *policy.Policy, c cache.Cache, log logging.Logger) *Writer {
	return &Writer{backend: backend, cols: cols, policy: p, cache: c, log: log}
}

// Projects lists projects for the management page, bypassing the cache.
func (w *Writer) Projects(ctx context.Context, s baas.Session) ([]models.Project, error) {
	list, err := w.backend.Documents(s).List(ctx, w.cols.Projects, recent())
	if err != nil {
		return nil, classify("list projects", err)
	}
	return decodeAll(list, decodeProject)
}

func (w *Writer) Project(ctx context.Context, s baas.Session, id string) (models.Project, error) {
	doc, err := w.backend.Documents(s).Get(ctx, w.cols.Projects, id)
	if err != nil {
		return models.Project{}, classify("get project", err)
	}
	return decodeProject(doc)
}

// SaveProject validates the form, uploads a new image if one was chosen, then
// creates or updates the record. Without an upload the form's image URL is kept.
func (w *Writer) SaveProject(ctx context.Context, s baas.Session, mode FormMode, form ProjectForm, upload *baas.Upload) (models.Project, error) {
	p := form.Project()
	if err := p.Validate(); err != nil {
		return models.Project{}, err
	}

	if upload != nil {
		url, err := w.upload(ctx, s, *upload)
		if err != nil {
			return models.Project{}, err
		}
		p.ImageURL = url
	}

	doc, err := w.write(ctx, s, w.cols.Projects, mode, p.Fields())
	if err != nil {
		return models.Project{}, classify("save project", err)
	}
	w.invalidate(ctx, keyProjects)
	return decodeProject(doc)
}

// DeleteProject removes a project once the user has confirmed.
func (w *Writer) DeleteProject(ctx context.Context, s baas.Session, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := w.backend.Documents(s).Delete(ctx, w.cols.Projects, id); err != nil {
		return classify("delete project", err)
	}
	w.invalidate(ctx, keyProjects)
	return nil
}

// Profiles lists every profile, active or not, for the management page.
func (w *Writer) Profiles(ctx context.Context, s baas.Session) ([]models.Profile, error) {
	list, err := w.backend.Documents(s).List(ctx, w.cols.Profiles, recent())
	if err != nil {
		return nil, classify("list profiles", err)
	}
	return decodeAll(list, decodeProfile)
}

func (w *Writer) Profile(ctx context.Context, s baas.Session, id string) (models.Profile, error) {
	doc, err := w.backend.Documents(s).Get(ctx, w.cols.Profiles, id)
	if err != nil {
		return models.Profile{}, classify("get profile", err)
	}
	return decodeProfile(doc)
}

// SaveProfile is SaveProject plus the authorization policy: edits of someone
// else's profile are refused before anything is sent, and role, visibility and
// ownership are normalized for non-owners.
func (w *Writer) SaveProfile(ctx context.Context, s baas.Session, id baas.Identity, mode FormMode, form ProfileForm, upload *baas.Upload) (models.Profile, error) {
	var existing *models.Profile
	if mode.IsEdit() {
		current, err := w.Profile(ctx, s, mode.ID())
		if err != nil {
			return models.Profile{}, err
		}
		if err := w.policy.CanModifyProfile(id, current).Err(); err != nil {
			w.log.Warn(ctx, "profile edit refused", "profile_id", current.ID, "user_id", id.ID)
			return models.Profile{}, err
		}
		existing = &current
	}

	submitted := form.Profile()
	if err := submitted.Validate(); err != nil {
		return models.Profile{}, err
	}
	p := w.policy.NormalizeProfile(id, submitted, existing)

	if upload != nil {
		url, err := w.upload(ctx, s, *upload)
		if err != nil {
			return models.Profile{}, err
		}
		p.ProfileImage = url
	}

	doc, err := w.write(ctx, s, w.cols.Profiles, mode, p.Fields())
	if err != nil {
		return models.Profile{}, classify("save profile", err)
	}
	w.invalidate(ctx, keyProfiles)
	return decodeProfile(doc)
}

// DeleteProfile removes a profile once confirmed, if the policy allows it.
func (w *Writer) DeleteProfile(ctx context.Context, s baas.Session, id baas.Identity, profileID string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	current, err := w.Profile(ctx, s, profileID)
	if err != nil {
		return err
	}
	if err := w.policy.CanModifyProfile(id, current).Err(); err != nil {
		w.log.Warn(ctx, "profile delete refused", "profile_id", current.ID, "user_id", id.ID)
		return err
	}
	if err := w.backend.Documents(s).Delete(ctx, w.cols.Profiles, profileID); err != nil {
		return classify("delete profile", err)
	}
	w.invalidate(ctx, keyProfiles)
	return nil
}

func (w *Writer) write(ctx context.Context, s baas.Session, collection string, mode FormMode, fields map[string]any) (baas.Document, error) {
	docs := w.backend.Documents(s)
	if mode.IsEdit() {
		return docs.Update(ctx, collection, mode.ID(), fields)
	}
	return docs.Create(ctx, collection, baas.UniqueID(), fields)
}

// upload stores the image and returns its public view URL.
func (w *Writer) upload(ctx context.Context, s baas.Session, u baas.Upload) (string, error) {
	files := w.backend.Files(s)
	info, err := files.Create(ctx, w.cols.Images, baas.UniqueID(), u)
	if err != nil {
		return "", classify("upload image", err)
	}
	return files.ViewURL(w.cols.Images, info.ID), nil
}

func (w *Writer) invalidate(ctx context.Context, prefix string) {
	if err := w.cache.DeletePrefix(ctx, prefix); err != nil {
		w.log.Warn(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
	}
}
