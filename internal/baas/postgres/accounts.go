package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/models"
)

type accounts struct {
	b *Backend
}

func (a *accounts) Current(ctx context.Context, s baas.Session) (baas.Identity, error) {
	if s.Anonymous() {
		return baas.Identity{}, baas.ErrUnauthorized
	}
	claims, err := a.b.tokens.parse(s.Token)
	if err != nil {
		return baas.Identity{}, baas.ErrUnauthorized
	}

	var u models.User
	err = a.b.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.name
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > now()`,
		claims.ID,
	).Scan(&u.ID, &u.Email, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return baas.Identity{}, baas.ErrUnauthorized
	}
	if err != nil {
		return baas.Identity{}, dbError(err)
	}
	return baas.Identity{ID: u.ID.String(), Email: u.Email, Name: u.Name}, nil
}

func (a *accounts) CreateSession(ctx context.Context, email, password string) (baas.Session, error) {
	var u models.User
	err := a.b.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return baas.Session{}, baas.ErrUserNotFound
	}
	if err != nil {
		return baas.Session{}, dbError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return baas.Session{}, baas.ErrInvalidCredentials
	}

	sessionID := uuid.New()
	token, expires, err := a.b.tokens.issue(sessionID, u.ID, u.Email)
	if err != nil {
		return baas.Session{}, err
	}
	if _, err := a.b.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		sessionID, u.ID, expires,
	); err != nil {
		return baas.Session{}, dbError(err)
	}
	return baas.Session{Token: token}, nil
}

func (a *accounts) DeleteSession(ctx context.Context, s baas.Session) error {
	claims, err := a.b.tokens.parse(s.Token)
	if err != nil {
		return baas.ErrUnauthorized
	}
	tag, err := a.b.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, claims.ID)
	if err != nil {
		return dbError(err)
	}
	if tag.RowsAffected() == 0 {
		return baas.ErrUnauthorized
	}
	return nil
}

// CreateUser registers an admin account.
func CreateUser(ctx context.Context, db DBTX, email, name, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, errors.New("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	); err != nil {
		return models.User{}, dbError(err)
	}
	return u, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func PurgeExpiredSessions(ctx context.Context, db DBTX) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, dbError(err)
	}
	return tag.RowsAffected(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
