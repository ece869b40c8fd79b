package content

import (
	"context"

	"golang.org/x/sync/errgroup"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

// Stats are the counters on the admin dashboard.
type Stats struct {
	Projects int
	Messages int
	Unread   int
}

// Dashboard computes Stats with one count query per counter, run concurrently.
type Dashboard struct {
	backend baas.Backend
	cols    Collections
}

func NewDashboard(backend baas.Backend, cols Collections) *Dashboard {
	return &Dashboard{backend: backend, cols: cols}
}

func (d *Dashboard) Stats(ctx context.Context, s baas.Session) (Stats, error) {
	docs := d.backend.Documents(s)
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, collection string, filters ...baas.Filter) {
		g.Go(func() error {
			list, err := docs.List(gctx, collection, baas.Query{Filters: filters, Limit: 1})
			if err != nil {
				return classify("count "+collection, err)
			}
			*dst = list.Total
			return nil
		})
	}
	count(&stats.Projects, d.cols.Projects)
	count(&stats.Messages, d.cols.Messages)
	count(&stats.Unread, d.cols.Messages, baas.Equal(attrStatus, models.StatusUnread))

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
