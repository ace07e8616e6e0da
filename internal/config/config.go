package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backend names accepted by STORE_BACKEND.
const (
	StoreBackendFile    = "file"
	StoreBackendSurreal = "surreal"
)

// Evidence backend names accepted by EVIDENCE_BACKEND.
const (
	EvidenceBackendDisk = "disk"
	EvidenceBackendS3   = "s3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Evidence EvidenceConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// StoreConfig selects and configures the snapshot backend
type StoreConfig struct {
	Backend string
	// FilePath is the snapshot location for the file backend
	FilePath string
}

// DatabaseConfig holds SurrealDB connection settings, used when the
// snapshot backend is "surreal"
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// EvidenceConfig selects and configures the evidence file backend
type EvidenceConfig struct {
	Backend string
	// UploadDir is the local directory for the disk backend
	UploadDir string
	// S3 settings, used when the backend is "s3"
	S3Bucket          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", StoreBackendFile),
			FilePath: getEnv("STORE_FILE_PATH", "./data/snapshot.json"),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "imperium"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Evidence: EvidenceConfig{
			Backend:           getEnv("EVIDENCE_BACKEND", EvidenceBackendDisk),
			UploadDir:         getEnv("EVIDENCE_UPLOAD_DIR", "./uploads"),
			S3Bucket:          getEnv("EVIDENCE_S3_BUCKET", ""),
			S3Endpoint:        getEnv("EVIDENCE_S3_ENDPOINT", ""),
			S3AccessKeyID:     getEnv("EVIDENCE_S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("EVIDENCE_S3_SECRET_ACCESS_KEY", ""),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Store validation
	switch c.Store.Backend {
	case StoreBackendFile:
		if c.Store.FilePath == "" {
			errs = append(errs, errors.New("STORE_FILE_PATH is required for the file backend"))
		}
	case StoreBackendSurreal:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the surreal backend"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required for the surreal backend"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required for the surreal backend"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required for the surreal backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be '%s' or '%s', got '%s'", StoreBackendFile, StoreBackendSurreal, c.Store.Backend))
	}

	// Evidence validation
	switch c.Evidence.Backend {
	case EvidenceBackendDisk:
		if c.Evidence.UploadDir == "" {
			errs = append(errs, errors.New("EVIDENCE_UPLOAD_DIR is required for the disk backend"))
		}
	case EvidenceBackendS3:
		var missing []string
		if c.Evidence.S3Bucket == "" {
			missing = append(missing, "EVIDENCE_S3_BUCKET")
		}
		if c.Evidence.S3Endpoint == "" {
			missing = append(missing, "EVIDENCE_S3_ENDPOINT")
		}
		if c.Evidence.S3AccessKeyID == "" {
			missing = append(missing, "EVIDENCE_S3_ACCESS_KEY_ID")
		}
		if c.Evidence.S3SecretAccessKey == "" {
			missing = append(missing, "EVIDENCE_S3_SECRET_ACCESS_KEY")
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("s3 evidence backend: missing required fields: %s", strings.Join(missing, ", ")))
		}
	default:
		errs = append(errs, fmt.Errorf("EVIDENCE_BACKEND must be '%s' or '%s', got '%s'", EvidenceBackendDisk, EvidenceBackendS3, c.Evidence.Backend))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
