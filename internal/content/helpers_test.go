package content

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/baas/memory"
	"portfolio-site/internal/cache"
	"portfolio-site/internal/models"
)

var testCols = Collections{
	Projects: "projects",
	Profiles: "about",
	Messages: "messages",
	Images:   "project_images",
}

// spyBackend wraps the memory backend and records write calls.
type spyBackend struct {
	*memory.Backend

	mu      sync.Mutex
	calls   []string
	failAll error
}

func (s *spyBackend) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *spyBackend) count(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *spyBackend) Documents(sess baas.Session) baas.DocumentStore {
	return &spyDocs{DocumentStore: s.Backend.Documents(sess), spy: s}
}

func (s *spyBackend) Files(sess baas.Session) baas.FileStore {
	return &spyFiles{FileStore: s.Backend.Files(sess), spy: s}
}

type spyDocs struct {
	baas.DocumentStore
	spy *spyBackend
}

func (d *spyDocs) List(ctx context.Context, col string, q baas.Query) (baas.DocumentList, error) {
	d.spy.record("list")
	if d.spy.failAll != nil {
		return baas.DocumentList{}, d.spy.failAll
	}
	return d.DocumentStore.List(ctx, col, q)
}

func (d *spyDocs) Create(ctx context.Context, col, id string, data map[string]any) (baas.Document, error) {
	d.spy.record("create")
	return d.DocumentStore.Create(ctx, col, id, data)
}

func (d *spyDocs) Update(ctx context.Context, col, id string, data map[string]any) (baas.Document, error) {
	d.spy.record("update")
	return d.DocumentStore.Update(ctx, col, id, data)
}

func (d *spyDocs) Delete(ctx context.Context, col, id string) error {
	d.spy.record("delete")
	return d.DocumentStore.Delete(ctx, col, id)
}

type spyFiles struct {
	baas.FileStore
	spy *spyBackend
}

func (f *spyFiles) Create(ctx context.Context, bucket, id string, u baas.Upload) (baas.FileInfo, error) {
	f.spy.record("upload")
	return f.FileStore.Create(ctx, bucket, id, u)
}

type fixture struct {
	backend *spyBackend
	svc     *Services
	owner   baas.Identity
	ownerS  baas.Session
	member  baas.Identity
	memberS baas.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := memory.New(testCols.Permissions(), "http://files.test")
	backend := &spyBackend{Backend: mem}

	owner, err := mem.AddUser("owner@example.com", "Owner", "owner-pass")
	require.NoError(t, err)
	member, err := mem.AddUser("member@example.com", "Member", "member-pass")
	require.NoError(t, err)

	ownerS, err := mem.Accounts().CreateSession(ctx, "owner@example.com", "owner-pass")
	require.NoError(t, err)
	memberS, err := mem.Accounts().CreateSession(ctx, "member@example.com", "member-pass")
	require.NoError(t, err)

	svc := NewServices(Deps{
		Backend:      backend,
		Collections:  testCols,
		Cache:        cache.NewMemory(0),
		SuperAdminID: owner.ID,
	})
	return &fixture{backend: backend, svc: svc, owner: owner, ownerS: ownerS, member: member, memberS: memberS}
}

func (f *fixture) seedProject(t *testing.T, p models.Project) models.Project {
	t.Helper()
	saved, err := f.svc.Writer.SaveProject(context.Background(), f.ownerS, CreateMode(), ProjectFormFrom(p), nil)
	require.NoError(t, err)
	return saved
}

func (f *fixture) seedProfile(t *testing.T, p models.Profile) models.Profile {
	t.Helper()
	doc, err := f.backend.Backend.Documents(f.ownerS).Create(context.Background(), testCols.Profiles, baas.UniqueID(), p.Fields())
	require.NoError(t, err)
	saved, err := decodeProfile(doc)
	require.NoError(t, err)
	return saved
}
