// Package content implements the portfolio's read and write flows on top of
// the backend contract: public reads, admin CRUD, the contact inbox, and admin
// sign-in.
package content

import (
	"portfolio-site/internal/baas"
	"portfolio-site/internal/cache"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/policy"
)

// Services bundles the flows used by the HTTP handlers.
type Services struct {
	Reader    *Reader
	Writer    *Writer
	Inbox     *Inbox
	Auth      *Auth
	Dashboard *Dashboard
	Policy    *policy.Policy
}

type Deps struct {
	Backend      baas.Backend
	Collections  Collections
	Cache        cache.Cache
	Notifier     Notifier
	SuperAdminID string
	Logger       logging.Logger
}

func NewServices(d Deps) *Services {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	p := policy.New(d.SuperAdminID)
	return &Services{
		Reader:    NewReader(d.Backend, d.Collections, d.Cache, d.Logger),
		Writer:    NewWriter(d.Backend, d.Collections, p, d.Cache, d.Logger),
		Inbox:     NewInbox(d.Backend, d.Collections, d.Notifier, d.Logger),
		Auth:      NewAuth(d.Backend),
		Dashboard: NewDashboard(d.Backend, d.Collections),
		Policy:    p,
	}
}
