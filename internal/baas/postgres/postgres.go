// Package postgres is a self-hosted backend: admin accounts, sessions and
// documents live in PostgreSQL, uploaded files in an S3 bucket.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/baas/postgres/migrations"
)

var (
	_ baas.Backend       = (*Backend)(nil)
	_ baas.Accounts      = (*accounts)(nil)
	_ baas.DocumentStore = (*documentStore)(nil)
	_ baas.FileStore     = (*fileStore)(nil)
)

// DBTX is the subset of pgxpool.Pool the backend uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	QueryTimeout    time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	S3          S3Config
	Permissions baas.Permissions
}

// Backend implements baas.Backend on PostgreSQL and S3.
type Backend struct {
	pool        *pgxpool.Pool
	db          DBTX
	tokens      *tokenIssuer
	permissions baas.Permissions
	objects     objectPutter
	s3          S3Config
}

// Open connects to the database and the object store.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	objects, err := newS3Client(ctx, cfg.S3)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Backend{
		pool:        pool,
		db:          pool,
		tokens:      newTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		permissions: cfg.Permissions,
		objects:     objects,
		s3:          cfg.S3,
	}, nil
}

// NewPool opens and pings a connection pool.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol keeps the pool usable behind PgBouncer
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = "portfolio-site"
	if cfg.QueryTimeout > 0 {
		pcfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.QueryTimeout.Milliseconds())
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Pool exposes the connection pool for migrations and admin tooling.
func (b *Backend) Pool() *pgxpool.Pool { return b.pool }

func (b *Backend) Accounts() baas.Accounts { return &accounts{b: b} }

func (b *Backend) Documents(s baas.Session) baas.DocumentStore {
	return &documentStore{b: b, session: s}
}

func (b *Backend) Files(s baas.Session) baas.FileStore {
	return &fileStore{b: b, session: s}
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.pool == nil {
		return nil
	}
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", baas.ErrUnavailable, err)
	}
	return nil
}

func (b *Backend) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}

// allow checks collection permissions, resolving the session only when a
// guest would be refused.
func (b *Backend) allow(ctx context.Context, s baas.Session, collection string, op baas.Operation) error {
	if b.permissions.Allow(collection, op, false) {
		return nil
	}
	if s.Anonymous() {
		return baas.ErrUnauthorized
	}
	if _, err := b.Accounts().Current(ctx, s); err != nil {
		return err
	}
	return nil
}

// dbError maps driver failures onto the backend sentinels.
func dbError(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return baas.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		return fmt.Errorf("%w: %w", baas.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", baas.ErrUnavailable, err)
	}
}
