package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/welldanyogia/webrana-attachments/internal/storage"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	APIPort int

	// Storage
	WebRoot         string
	UploadTempDir   string
	CollisionPolicy storage.CollisionPolicy
	MaxUploadSize   int64

	// Optional YAML file overriding compiled-in attachment fields
	AttachmentSchemaFile string

	// Logging
	LogLevel string

	// Security
	AllowedOrigins string
	AppEnv         string

	// Rate Limiting
	RateLimitRequests float64
	RateLimitBurst    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// API_PORT (default: 8080)
	apiPort := os.Getenv("API_PORT")
	if apiPort == "" {
		cfg.APIPort = 8080
	} else {
		port, err := strconv.Atoi(apiPort)
		if err != nil {
			return nil, fmt.Errorf("API_PORT must be a valid integer: %w", err)
		}
		cfg.APIPort = port
	}

	// WEB_ROOT (default: ./webroot)
	cfg.WebRoot = os.Getenv("WEB_ROOT")
	if cfg.WebRoot == "" {
		cfg.WebRoot = "./webroot"
	}

	// UPLOAD_TEMP_DIR (default: OS temp dir)
	cfg.UploadTempDir = os.Getenv("UPLOAD_TEMP_DIR")
	if cfg.UploadTempDir == "" {
		cfg.UploadTempDir = os.TempDir()
	}

	// ATTACHMENT_COLLISION_POLICY (default: overwrite)
	policy, err := storage.ParseCollisionPolicy(os.Getenv("ATTACHMENT_COLLISION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("ATTACHMENT_COLLISION_POLICY must be overwrite or fail: %w", err)
	}
	cfg.CollisionPolicy = policy

	// MAX_UPLOAD_SIZE in bytes (default: 25 MB)
	if size := os.Getenv("MAX_UPLOAD_SIZE"); size != "" {
		v, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be a valid integer: %w", err)
		}
		cfg.MaxUploadSize = v
	} else {
		cfg.MaxUploadSize = storage.MaxFileSize
	}

	cfg.AttachmentSchemaFile = os.Getenv("ATTACHMENT_SCHEMA_FILE")

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Security configuration
	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	// Rate limiting configuration
	if rps := os.Getenv("RATE_LIMIT_REQUESTS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.RateLimitRequests = v
		}
	} else {
		cfg.RateLimitRequests = 10.0
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if v, err := strconv.Atoi(burst); err == nil {
			cfg.RateLimitBurst = v
		}
	} else {
		cfg.RateLimitBurst = 20
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.WebRoot == "" {
		return fmt.Errorf("WebRoot cannot be empty")
	}
	if c.UploadTempDir == "" {
		return fmt.Errorf("UploadTempDir cannot be empty")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MaxUploadSize must be positive")
	}
	if c.CollisionPolicy != storage.CollisionOverwrite && c.CollisionPolicy != storage.CollisionFail {
		return fmt.Errorf("CollisionPolicy must be overwrite or fail")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	return nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("web_root", c.WebRoot),
		slog.String("upload_temp_dir", c.UploadTempDir),
		slog.String("collision_policy", string(c.CollisionPolicy)),
		slog.Int64("max_upload_size", c.MaxUploadSize),
		slog.String("attachment_schema_file", c.AttachmentSchemaFile),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("allowed_origins_set", c.AllowedOrigins != ""),
		slog.Float64("rate_limit_rps", c.RateLimitRequests),
		slog.Int("rate_limit_burst", c.RateLimitBurst),
	)
}
