package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend drivers.
const (
	DriverAppwrite = "appwrite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Backend  BackendConfig
	Appwrite AppwriteConfig
	Content  ContentConfig
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Cache    CacheConfig
	Email    EmailConfig
	CORS     CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string
	PublicURL         string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxUploadMB       int64
	CookieSecure      bool
	CSRFKey           string
}

type LogConfig struct {
	Level  string
	Format string
}

// BackendConfig selects the backend-as-a-service driver. The memory driver
// starts with one admin account built from the MemoryAdmin fields.
type BackendConfig struct {
	Driver              string
	MemoryAdminEmail    string
	MemoryAdminPassword string
}

// AppwriteConfig points at a hosted or self-hosted Appwrite project.
type AppwriteConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

// ContentConfig names the collections and bucket of the site.
type ContentConfig struct {
	DatabaseID           string
	ProjectsCollectionID string
	AboutCollectionID    string
	MessagesCollectionID string
	StorageBucketID      string
	SuperAdminID         string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// StorageConfig is the S3 bucket used by the postgres driver for images.
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
	UsePathStyle    bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
}

type CacheConfig struct {
	Driver        string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisUseTLS   bool
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	NotifyEmail  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional; the parent directory is tried first for `go run ./cmd`
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}

	config := FromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FromEnv reads the environment without loading .env files or validating.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", "8080"),
			PublicURL:         strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			ReadHeaderTimeout: getDurationEnv("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadMB:       getInt64Env("MAX_UPLOAD_MB", 5),
			CookieSecure:      getBoolEnv("COOKIE_SECURE", false),
			CSRFKey:           getEnv("CSRF_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Backend: BackendConfig{
			Driver:              strings.ToLower(getEnv("BACKEND_DRIVER", DriverAppwrite)),
			MemoryAdminEmail:    getEnv("MEMORY_ADMIN_EMAIL", "admin@example.com"),
			MemoryAdminPassword: getEnv("MEMORY_ADMIN_PASSWORD", ""),
		},
		Appwrite: AppwriteConfig{
			Endpoint:  strings.TrimRight(getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"), "/"),
			ProjectID: getEnv("APPWRITE_PROJECT_ID", ""),
			APIKey:    getEnv("APPWRITE_API_KEY", ""),
			Timeout:   getDurationEnv("APPWRITE_TIMEOUT", 15*time.Second),
		},
		Content: ContentConfig{
			DatabaseID:           getEnv("DATABASE_ID", "portfolio_db"),
			ProjectsCollectionID: getEnv("PROJECTS_COLLECTION_ID", "projects"),
			AboutCollectionID:    getEnv("ABOUT_COLLECTION_ID", "about"),
			MessagesCollectionID: getEnv("MESSAGES_COLLECTION_ID", "messages"),
			StorageBucketID:      getEnv("STORAGE_BUCKET_ID", "project_images"),
			SuperAdminID:         getEnv("SUPER_ADMIN_ID", ""),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "portfolio"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "portfolio"),
			PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			UsePathStyle:    getBoolEnv("S3_USE_PATH_STYLE", true),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			SessionTTL: getDurationEnv("JWT_SESSION_TTL", 24*time.Hour),
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			TTL:           getDurationEnv("CACHE_TTL", 5*time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       int(getInt32Env("REDIS_DB", 0)),
			RedisUseTLS:   getBoolEnv("REDIS_USE_TLS", false),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
			FromName:     getEnv("EMAIL_FROM_NAME", "Portfolio"),
			NotifyEmail:  getEnv("NOTIFY_EMAIL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		},
	}
}

// Validate checks the settings the selected backend driver depends on.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend.Driver {
	case DriverAppwrite:
		if c.Appwrite.Endpoint == "" {
			errs = append(errs, errors.New("APPWRITE_ENDPOINT is required"))
		}
		if c.Appwrite.ProjectID == "" {
			errs = append(errs, errors.New("APPWRITE_PROJECT_ID is required"))
		}
	case DriverPostgres:
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required"))
		}
		if c.JWT.Secret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
		if c.Storage.PublicBaseURL == "" && c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("S3_PUBLIC_BASE_URL or S3_ENDPOINT is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("BACKEND_DRIVER %q is not one of appwrite, postgres, memory", c.Backend.Driver))
	}

	switch c.Cache.Driver {
	case "memory", "redis", "none", "":
	default:
		errs = append(errs, fmt.Errorf("CACHE_DRIVER %q is not one of memory, redis, none", c.Cache.Driver))
	}

	if c.Server.CSRFKey != "" && len(c.Server.CSRFKey) != 32 {
		errs = append(errs, errors.New("CSRF_KEY must be exactly 32 bytes"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}

	return errors.Join(errs...)
}

// Warnings lists settings that are valid but probably unintended.
func (c *Config) Warnings() []string {
	var out []string
	if c.Content.SuperAdminID == "" {
		out = append(out, "SUPER_ADMIN_ID is not set; no identity can manage other admins' profiles")
	}
	if c.Server.CSRFKey == "" {
		out = append(out, "CSRF_KEY is not set; a random key is used and forms break across restarts")
	}
	if !c.IsEmailConfigured() {
		out = append(out, "SMTP credentials or NOTIFY_EMAIL not configured; new messages will not be emailed")
	}
	if c.Backend.Driver == DriverMemory {
		out = append(out, "memory backend selected; content is lost on restart")
	}
	return out
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsEmailConfigured checks if message notifications can be sent
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "" && c.Email.NotifyEmail != ""
}

// MaxUploadBytes is the request body limit for forms with an image.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
