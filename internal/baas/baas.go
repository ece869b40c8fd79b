// Package baas defines the contract between the site and the backend-as-a-service
// that owns identity, document storage, and file storage.
//
// Drivers live in subpackages (appwrite, postgres, memory). Stores are vended per
// session so that every call carries the caller's credentials explicitly.
package baas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Session is the backend-issued proof of authentication. The zero value is an
// anonymous (guest) session.
type Session struct {
	Token string
}

// Anonymous reports whether the session carries no credentials.
func (s Session) Anonymous() bool {
	return s.Token == ""
}

// Identity is the authenticated user behind a session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Document is one record of a collection. Data holds the user attributes only;
// system attributes are lifted into the struct fields.
type Document struct {
	ID         string
	Collection string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Data       map[string]any
}

// Decode unmarshals the document attributes into v.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// DocumentList is a page of documents plus the total number of matches.
type DocumentList struct {
	Total     int
	Documents []Document
}

// Upload is a file to be stored.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileInfo describes a stored file.
type FileInfo struct {
	ID     string
	Bucket string
	Name   string
	Size   int64
}

// Accounts manages identities and sessions.
type Accounts interface {
	// Current returns the identity behind the session or ErrUnauthorized.
	Current(ctx context.Context, s Session) (Identity, error)
	// CreateSession exchanges credentials for a new session.
	CreateSession(ctx context.Context, email, password string) (Session, error)
	// DeleteSession invalidates the session.
	DeleteSession(ctx context.Context, s Session) error
}

// DocumentStore runs document operations with the credentials of one session.
type DocumentStore interface {
	List(ctx context.Context, collection string, q Query) (DocumentList, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	Update(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// FileStore runs file operations with the credentials of one session.
type FileStore interface {
	Create(ctx context.Context, bucket, id string, u Upload) (FileInfo, error)
	// ViewURL returns a durable public URL for the file.
	ViewURL(bucket, fileID string) string
}

// Backend is the whole backend-as-a-service.
type Backend interface {
	Accounts() Accounts
	Documents(s Session) DocumentStore
	Files(s Session) FileStore
	Ping(ctx context.Context) error
	Close() error
}

// UniqueID generates a fresh document or file identifier.
func UniqueID() string {
	return uuid.New().String()
}
