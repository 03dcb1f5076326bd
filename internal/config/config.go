// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the report service.
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required"`

	TemplatesDir string `validate:"required"`
	DataDir      string `validate:"required"`

	ChromePath    string
	RenderTimeout time.Duration `validate:"gt=0"`

	// StorageBackend selects where reports go: drive, or local for development.
	StorageBackend string `validate:"oneof=drive local"`
	OutputDir      string `validate:"required_if=StorageBackend local"`

	DriveCredentialsPath string `validate:"required"`
	DriveTokenPath       string `validate:"required"`
	DriveRootFolder      string `validate:"required"`

	BackendURL       string        `validate:"required,url"`
	RegistrarTimeout time.Duration `validate:"gt=0"`

	// DatabaseURL enables the report ledger when set.
	DatabaseURL string

	BodyLimitMB int `validate:"min=1"`
}

// Production reports whether hardened runtime settings should be used.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment:          get("APP_ENV", get("NODE_ENV", "development")),
		TemplatesDir:         get("TEMPLATES_DIR", "templates"),
		DataDir:              get("DATA_DIR", "data"),
		ChromePath:           get("CHROME_PATH", ""),
		StorageBackend:       strings.ToLower(get("STORAGE_BACKEND", "drive")),
		OutputDir:            get("OUTPUT_DIR", "resume-data/reports"),
		DriveCredentialsPath: get("DRIVE_CREDENTIALS_PATH", "client_secret.json"),
		DriveTokenPath:       get("DRIVE_TOKEN_PATH", "token.json"),
		DriveRootFolder:      get("DRIVE_ROOT_FOLDER", "careerReports"),
		BackendURL:           strings.TrimRight(get("BACKEND_URL", get("VITE_BACKEND_URL", "http://localhost:4000")), "/"),
		DatabaseURL:          get("DATABASE_URL", ""),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(get("PORT", "5200")); err != nil {
		return nil, fmt.Errorf("config error: PORT: %w", err)
	}
	if cfg.BodyLimitMB, err = strconv.Atoi(get("BODY_LIMIT_MB", "20")); err != nil {
		return nil, fmt.Errorf("config error: BODY_LIMIT_MB: %w", err)
	}
	if cfg.RenderTimeout, err = time.ParseDuration(get("RENDER_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("config error: RENDER_TIMEOUT: %w", err)
	}
	if cfg.RegistrarTimeout, err = time.ParseDuration(get("REGISTRAR_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("config error: REGISTRAR_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
