// Package app assembles the backend, cache, and content services from config.
package app

import (
	"context"
	"fmt"
	"net/http"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/baas/appwrite"
	"portfolio-site/internal/baas/memory"
	"portfolio-site/internal/baas/postgres"
	"portfolio-site/internal/cache"
	"portfolio-site/internal/config"
	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/notify"
)

// App is everything the HTTP layer needs.
type App struct {
	Backend  baas.Backend
	Cache    cache.Cache
	Services *content.Services
	// Files serves uploads stored by the memory backend; nil otherwise.
	Files http.Handler
}

// Collections maps configured ids onto the content collections.
func Collections(cfg *config.Config) content.Collections {
	return content.Collections{
		Projects: cfg.Content.ProjectsCollectionID,
		Profiles: cfg.Content.AboutCollectionID,
		Messages: cfg.Content.MessagesCollectionID,
		Images:   cfg.Content.StorageBucketID,
	}
}

// New builds the App for the configured drivers.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	cols := Collections(cfg)
	superAdminID := cfg.Content.SuperAdminID

	a := &App{}
	switch cfg.Backend.Driver {
	case config.DriverAppwrite:
		a.Backend = appwrite.New(appwrite.Config{
			Endpoint:   cfg.Appwrite.Endpoint,
			ProjectID:  cfg.Appwrite.ProjectID,
			APIKey:     cfg.Appwrite.APIKey,
			DatabaseID: cfg.Content.DatabaseID,
			Timeout:    cfg.Appwrite.Timeout,
		})
	case config.DriverPostgres:
		backend, err := postgres.Open(ctx, PostgresConfig(cfg, cols))
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, backend.Pool()); err != nil {
				backend.Close()
				return nil, err
			}
			log.Info(ctx, "database migrations applied")
		}
		a.Backend = backend
	case config.DriverMemory:
		backend := memory.New(cols.Permissions(), cfg.Server.PublicURL)
		if cfg.Backend.MemoryAdminPassword != "" {
			admin, err := backend.AddUser(cfg.Backend.MemoryAdminEmail, "Admin", cfg.Backend.MemoryAdminPassword)
			if err != nil {
				return nil, fmt.Errorf("seed memory admin: %w", err)
			}
			if superAdminID == "" {
				superAdminID = admin.ID
			}
			log.Info(ctx, "memory backend admin created", "email", admin.Email, "id", admin.ID)
		}
		a.Backend = backend
		a.Files = backend.FileHandler()
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}

	c, err := cache.New(cache.Config{
		Driver: cfg.Cache.Driver,
		TTL:    cfg.Cache.TTL,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			UseTLS:   cfg.Cache.RedisUseTLS,
		},
	})
	if err != nil {
		_ = a.Backend.Close()
		return nil, err
	}
	a.Cache = c

	var notifier content.Notifier
	if cfg.IsEmailConfigured() {
		notifier = notify.NewEmailNotifier(&cfg.Email)
	}

	a.Services = content.NewServices(content.Deps{
		Backend:      a.Backend,
		Collections:  cols,
		Cache:        c,
		Notifier:     notifier,
		SuperAdminID: superAdminID,
		Logger:       log,
	})
	return a, nil
}

// PostgresConfig derives the postgres backend settings.
func PostgresConfig(cfg *config.Config, cols content.Collections) postgres.Config {
	return postgres.Config{
		DSN:             cfg.GetDSN(),
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxLifetime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		JWTSecret:       cfg.JWT.Secret,
		SessionTTL:      cfg.JWT.SessionTTL,
		S3: postgres.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		},
		Permissions: cols.Permissions(),
	}
}

// Close waits for pending notifications and releases the backend and cache.
func (a *App) Close() error {
	a.Services.Inbox.Wait()
	if closer, ok := a.Cache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	return a.Backend.Close()
}

// Ping checks the backend and, when it supports it, the cache.
func (a *App) Ping(ctx context.Context) error {
	if err := a.Backend.Ping(ctx); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if pinger, ok := a.Cache.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}
