package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProject(t, models.Project{Title: "a", Description: "d", Details: "x", Category: "Research"})
	f.seedProject(t, models.Project{Title: "b", Description: "d", Details: "x", Category: "Other"})

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		m, err := f.svc.Inbox.Submit(ctx, ContactForm{Name: name, Email: "x@y.z", Message: "m"})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	_, err := f.svc.Inbox.MarkRead(ctx, f.ownerS, ids[0])
	require.NoError(t, err)

	stats, err := f.svc.Dashboard.Stats(ctx, f.ownerS)
	require.NoError(t, err)
	assert.Equal(t, Stats{Projects: 2, Messages: 3, Unread: 2}, stats)
}

func TestDashboardStatsRequireSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Dashboard.Stats(context.Background(), baas.Session{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}
