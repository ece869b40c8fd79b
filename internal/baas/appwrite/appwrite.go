package appwrite

import (
	"context"
	"net/http"
	"strings"
	"time"

	"portfolio-site/internal/baas"
)

var (
	_ baas.Backend       = (*Backend)(nil)
	_ baas.Accounts      = (*accounts)(nil)
	_ baas.DocumentStore = (*documentStore)(nil)
	_ baas.FileStore     = (*fileStore)(nil)
)

// Backend talks to one Appwrite project. Permissions are enforced by Appwrite.
type Backend struct {
	c        *client
	database string
}

func New(cfg Config) *Backend {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeoutOr(cfg.Timeout)})
}

// NewWithHTTPClient uses hc for every request.
func NewWithHTTPClient(cfg Config, hc *http.Client) *Backend {
	return &Backend{
		c: &client{
			endpoint: strings.TrimRight(cfg.Endpoint, "/"),
			project:  cfg.ProjectID,
			apiKey:   cfg.APIKey,
			http:     hc,
		},
		database: cfg.DatabaseID,
	}
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (b *Backend) Accounts() baas.Accounts { return &accounts{c: b.c} }

func (b *Backend) Documents(s baas.Session) baas.DocumentStore {
	return &documentStore{c: b.c, database: b.database, session: s}
}

func (b *Backend) Files(s baas.Session) baas.FileStore {
	return &fileStore{c: b.c, session: s}
}

// Ping checks that the Appwrite endpoint answers.
func (b *Backend) Ping(ctx context.Context) error {
	_, err := b.c.do(ctx, request{method: http.MethodGet, path: "/health/version"}, nil)
	return err
}

func (b *Backend) Close() error {
	b.c.http.CloseIdleConnections()
	return nil
}
