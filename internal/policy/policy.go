// Package policy decides which admin identities may change which profiles.
package policy

import (
	"errors"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

// ErrDenied is wrapped by every refused Decision.
var ErrDenied = errors.New("authorization denied")

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Denied(reason string) Decision { return Decision{Reason: reason} }

// Err returns nil for an allowed decision.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

// DeniedError carries the reason shown to the user.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func (e *DeniedError) Unwrap() error { return ErrDenied }

const reasonProfile = "you do not have permission to modify this profile"

// Policy holds the configured super-admin identity.
type Policy struct {
	superAdminID string
}

func New(superAdminID string) *Policy {
	return &Policy{superAdminID: superAdminID}
}

// IsOwner reports whether the identity is the super-admin.
func (p *Policy) IsOwner(id baas.Identity) bool {
	return p.superAdminID != "" && id.ID == p.superAdminID
}

// CanModifyProfile checks edit and delete rights on an existing profile.
func (p *Policy) CanModifyProfile(id baas.Identity, profile models.Profile) Decision {
	if p.IsOwner(id) || (id.ID != "" && id.ID == profile.UserID) {
		return Allow()
	}
	return Denied(reasonProfile)
}

// NormalizeProfile applies the fields only the super-admin may choose. existing
// is nil on create.
func (p *Policy) NormalizeProfile(id baas.Identity, submitted models.Profile, existing *models.Profile) models.Profile {
	out := submitted
	if p.IsOwner(id) {
		if out.Role != models.RoleOwner {
			out.Role = models.RoleMember
		}
		if out.UserID == "" {
			if existing != nil {
				out.UserID = existing.UserID
			} else {
				out.UserID = id.ID
			}
		}
		return out
	}

	out.Role = models.RoleMember
	if existing != nil {
		out.IsActive = existing.IsActive
		out.UserID = existing.UserID
	} else {
		out.IsActive = true
		out.UserID = id.ID
	}
	return out
}
