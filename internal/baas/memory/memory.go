// Package memory is an in-process backend used for local development and tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

var (
	_ baas.Backend       = (*Backend)(nil)
	_ baas.Accounts      = (*accounts)(nil)
	_ baas.DocumentStore = (*documentStore)(nil)
	_ baas.FileStore     = (*fileStore)(nil)
)

// FilePathPrefix is where FileHandler expects to be mounted.
const FilePathPrefix = "/storage/buckets/"

type storedFile struct {
	name        string
	contentType string
	data        []byte
}

// Backend keeps users, sessions, documents, and files in maps.
type Backend struct {
	mu          sync.RWMutex
	permissions baas.Permissions
	baseURL     string
	now         func() time.Time

	users    map[string]models.User // by email
	sessions map[string]string      // token -> user id
	docs     map[string][]baas.Document
	files    map[string]storedFile // bucket/id
}

// New creates an empty backend. baseURL prefixes file view URLs.
func New(permissions baas.Permissions, baseURL string) *Backend {
	return &Backend{
		permissions: permissions,
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         time.Now,
		users:       make(map[string]models.User),
		sessions:    make(map[string]string),
		docs:        make(map[string][]baas.Document),
		files:       make(map[string]storedFile),
	}
}

// AddUser registers an admin account and returns its identity.
func (b *Backend) AddUser(email, name, password string) (baas.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return baas.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := b.users[email]; ok {
		return baas.Identity{}, baas.ErrConflict
	}
	now := b.now()
	u := models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.users[email] = u
	return identityOf(u), nil
}

func (b *Backend) Accounts() baas.Accounts { return &accounts{b: b} }

func (b *Backend) Documents(s baas.Session) baas.DocumentStore {
	return &documentStore{b: b, session: s}
}

func (b *Backend) Files(s baas.Session) baas.FileStore {
	return &fileStore{b: b, session: s}
}

func (b *Backend) Ping(ctx context.Context) error { return ctx.Err() }

func (b *Backend) Close() error { return nil }

// authenticated reports whether the session token is live. Callers hold b.mu.
func (b *Backend) authenticated(s baas.Session) bool {
	if s.Anonymous() {
		return false
	}
	_, ok := b.sessions[s.Token]
	return ok
}

func (b *Backend) allow(s baas.Session, collection string, op baas.Operation) error {
	if b.permissions.Allow(collection, op, b.authenticated(s)) {
		return nil
	}
	return baas.ErrUnauthorized
}

func identityOf(u models.User) baas.Identity {
	return baas.Identity{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

type accounts struct{ b *Backend }

func (a *accounts) Current(ctx context.Context, s baas.Session) (baas.Identity, error) {
	if err := ctx.Err(); err != nil {
		return baas.Identity{}, err
	}
	a.b.mu.RLock()
	defer a.b.mu.RUnlock()

	userID, ok := a.b.sessions[s.Token]
	if s.Anonymous() || !ok {
		return baas.Identity{}, baas.ErrUnauthorized
	}
	for _, u := range a.b.users {
		if u.ID.String() == userID {
			return identityOf(u), nil
		}
	}
	return baas.Identity{}, baas.ErrUnauthorized
}

func (a *accounts) CreateSession(ctx context.Context, email, password string) (baas.Session, error) {
	if err := ctx.Err(); err != nil {
		return baas.Session{}, err
	}
	a.b.mu.RLock()
	u, ok := a.b.users[strings.ToLower(strings.TrimSpace(email))]
	a.b.mu.RUnlock()
	if !ok {
		return baas.Session{}, baas.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return baas.Session{}, baas.ErrInvalidCredentials
	}

	token := baas.UniqueID()
	a.b.mu.Lock()
	a.b.sessions[token] = u.ID.String()
	a.b.mu.Unlock()
	return baas.Session{Token: token}, nil
}

func (a *accounts) DeleteSession(ctx context.Context, s baas.Session) error {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	if _, ok := a.b.sessions[s.Token]; !ok {
		return baas.ErrUnauthorized
	}
	delete(a.b.sessions, s.Token)
	return nil
}

type documentStore struct {
	b       *Backend
	session baas.Session
}

func (d *documentStore) List(ctx context.Context, collection string, q baas.Query) (baas.DocumentList, error) {
	if err := ctx.Err(); err != nil {
		return baas.DocumentList{}, err
	}
	d.b.mu.RLock()
	defer d.b.mu.RUnlock()
	if err := d.b.allow(d.session, collection, baas.OpRead); err != nil {
		return baas.DocumentList{}, err
	}

	docs := make([]baas.Document, len(d.b.docs[collection]))
	for i, doc := range d.b.docs[collection] {
		docs[i] = clone(doc)
	}
	return q.Apply(docs), nil
}

func (d *documentStore) Get(ctx context.Context, collection, id string) (baas.Document, error) {
	if err := ctx.Err(); err != nil {
		return baas.Document{}, err
	}
	d.b.mu.RLock()
	defer d.b.mu.RUnlock()
	if err := d.b.allow(d.session, collection, baas.OpRead); err != nil {
		return baas.Document{}, err
	}
	i := d.b.indexOf(collection, id)
	if i < 0 {
		return baas.Document{}, baas.ErrNotFound
	}
	return clone(d.b.docs[collection][i]), nil
}

func (d *documentStore) Create(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	if err := ctx.Err(); err != nil {
		return baas.Document{}, err
	}
	normalized, err := normalize(data)
	if err != nil {
		return baas.Document{}, err
	}
	if id == "" {
		id = baas.UniqueID()
	}

	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.allow(d.session, collection, baas.OpCreate); err != nil {
		return baas.Document{}, err
	}
	if d.b.indexOf(collection, id) >= 0 {
		return baas.Document{}, baas.ErrConflict
	}
	now := d.b.now()
	doc := baas.Document{ID: id, Collection: collection, CreatedAt: now, UpdatedAt: now, Data: normalized}
	d.b.docs[collection] = append(d.b.docs[collection], doc)
	return clone(doc), nil
}

func (d *documentStore) Update(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	if err := ctx.Err(); err != nil {
		return baas.Document{}, err
	}
	patch, err := normalize(data)
	if err != nil {
		return baas.Document{}, err
	}

	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.allow(d.session, collection, baas.OpUpdate); err != nil {
		return baas.Document{}, err
	}
	i := d.b.indexOf(collection, id)
	if i < 0 {
		return baas.Document{}, baas.ErrNotFound
	}
	doc := d.b.docs[collection][i]
	merged := make(map[string]any, len(doc.Data)+len(patch))
	for k, v := range doc.Data {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	doc.Data = merged
	doc.UpdatedAt = d.b.now()
	d.b.docs[collection][i] = doc
	return clone(doc), nil
}

func (d *documentStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.allow(d.session, collection, baas.OpDelete); err != nil {
		return err
	}
	i := d.b.indexOf(collection, id)
	if i < 0 {
		return baas.ErrNotFound
	}
	docs := d.b.docs[collection]
	d.b.docs[collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (b *Backend) indexOf(collection, id string) int {
	for i, doc := range b.docs[collection] {
		if doc.ID == id {
			return i
		}
	}
	return -1
}

type fileStore struct {
	b       *Backend
	session baas.Session
}

func (f *fileStore) Create(ctx context.Context, bucket, id string, u baas.Upload) (baas.FileInfo, error) {
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return baas.FileInfo{}, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return baas.FileInfo{}, err
	}
	if id == "" {
		id = baas.UniqueID()
	}

	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	if !f.b.authenticated(f.session) {
		return baas.FileInfo{}, baas.ErrUnauthorized
	}
	key := bucket + "/" + id
	if _, ok := f.b.files[key]; ok {
		return baas.FileInfo{}, baas.ErrConflict
	}
	f.b.files[key] = storedFile{name: u.Name, contentType: u.ContentType, data: data}
	return baas.FileInfo{ID: id, Bucket: bucket, Name: u.Name, Size: int64(len(data))}, nil
}

func (f *fileStore) ViewURL(bucket, fileID string) string {
	return fmt.Sprintf("%s%s%s/files/%s/view", f.b.baseURL, FilePathPrefix, bucket, fileID)
}

// FileHandler serves stored files at FilePathPrefix{bucket}/files/{id}/view.
func (b *Backend) FileHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, FilePathPrefix)
		parts := strings.Split(rest, "/")
		if len(parts) != 4 || parts[1] != "files" || parts[3] != "view" {
			http.NotFound(w, r)
			return
		}

		b.mu.RLock()
		file, ok := b.files[parts[0]+"/"+parts[2]]
		b.mu.RUnlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		if file.contentType != "" {
			w.Header().Set("Content-Type", file.contentType)
		}
		http.ServeContent(w, r, file.name, time.Time{}, bytes.NewReader(file.data))
	})
}

// normalize stores data the way a remote store would return it.
func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func clone(doc baas.Document) baas.Document {
	data := make(map[string]any, len(doc.Data))
	for k, v := range doc.Data {
		if list, ok := v.([]any); ok {
			v = append([]any(nil), list...)
		}
		data[k] = v
	}
	doc.Data = data
	return doc
}
