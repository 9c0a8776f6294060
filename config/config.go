// Package config loads service configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxFileSize is the free-tier upload limit (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultProMaxFileSize is the Pro upload limit (100MB)
	DefaultProMaxFileSize = 100 * 1024 * 1024

	DefaultPort    = "8080"
	DefaultTempDir = "./temp"
)

// Config holds application configuration
type Config struct {
	Port    string `yaml:"port" validate:"required,numeric"`
	GinMode string `yaml:"gin_mode" validate:"oneof=debug release test"`

	MaxFileSize      int64  `yaml:"max_file_size" validate:"min=1"`
	ProMaxFileSize   int64  `yaml:"pro_max_file_size" validate:"gtefield=MaxFileSize"`
	MaxMergeFiles    int    `yaml:"max_merge_files" validate:"min=2"`
	ProMaxMergeFiles int    `yaml:"pro_max_merge_files" validate:"gtefield=MaxMergeFiles"`
	TempDir          string `yaml:"temp_dir" validate:"required"`
	PreviewChars     int    `yaml:"preview_chars" validate:"min=1"`

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=json console"`

	// Engine is one of auto, library, cli
	Engine     string        `yaml:"engine" validate:"oneof=auto library cli"`
	PdfcpuPath string        `yaml:"pdfcpu_path"`
	CLITimeout time.Duration `yaml:"cli_timeout" validate:"min=1s"`

	JWTSecret         string   `yaml:"jwt_secret"`
	PayFastPassphrase string   `yaml:"payfast_passphrase"`
	CORSOrigins       []string `yaml:"cors_origins" validate:"min=1,dive,eq=*|http_url"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int     `yaml:"rate_limit_burst" validate:"min=1"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:             DefaultPort,
		GinMode:          "debug",
		MaxFileSize:      DefaultMaxFileSize,
		ProMaxFileSize:   DefaultProMaxFileSize,
		MaxMergeFiles:    5,
		ProMaxMergeFiles: 50,
		TempDir:          DefaultTempDir,
		PreviewChars:     280,
		LogLevel:         "info",
		LogFormat:        "json",
		Engine:           "auto",
		PdfcpuPath:       "pdfcpu",
		CLITimeout:       30 * time.Second,
		CORSOrigins:      []string{"http://localhost:3000"},
		RateLimitRPS:     2,
		RateLimitBurst:   10,
		ReadTimeout:      15 * time.Second,
		WriteTimeout:     60 * time.Second,
		IdleTimeout:      60 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Load builds the configuration. path may be empty; when set it must name a
// YAML file. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and release-mode requirements
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	// Pro entitlements cannot be verified without a secret
	if c.GinMode == "release" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) {
	setString(lookup, "PORT", &cfg.Port)
	setString(lookup, "GIN_MODE", &cfg.GinMode)
	setInt64(lookup, "MAX_FILE_SIZE", &cfg.MaxFileSize)
	setInt64(lookup, "PRO_MAX_FILE_SIZE", &cfg.ProMaxFileSize)
	setInt(lookup, "MAX_MERGE_FILES", &cfg.MaxMergeFiles)
	setInt(lookup, "PRO_MAX_MERGE_FILES", &cfg.ProMaxMergeFiles)
	setString(lookup, "TEMP_DIR", &cfg.TempDir)
	setInt(lookup, "PREVIEW_CHARS", &cfg.PreviewChars)
	setString(lookup, "LOG_LEVEL", &cfg.LogLevel)
	setString(lookup, "LOG_FORMAT", &cfg.LogFormat)
	setString(lookup, "PDF_ENGINE", &cfg.Engine)
	setString(lookup, "PDFCPU_PATH", &cfg.PdfcpuPath)
	setDuration(lookup, "CLI_TIMEOUT", &cfg.CLITimeout)
	setString(lookup, "JWT_SECRET", &cfg.JWTSecret)
	setString(lookup, "PAYFAST_PASSPHRASE", &cfg.PayFastPassphrase)
	setFloat(lookup, "RATE_LIMIT_RPS", &cfg.RateLimitRPS)
	setInt(lookup, "RATE_LIMIT_BURST", &cfg.RateLimitBurst)

	if value, ok := lookup("CORS_ORIGINS"); ok && value != "" {
		var origins []string
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.CORSOrigins = origins
	}
}

func setString(lookup lookupFunc, key string, dst *string) {
	if value, ok := lookup(key); ok && value != "" {
		*dst = value
	}
}

// Unparseable numbers keep the previous value
func setInt64(lookup lookupFunc, key string, dst *int64) {
	if value, ok := lookup(key); ok && value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			*dst = intValue
		}
	}
}

func setInt(lookup lookupFunc, key string, dst *int) {
	if value, ok := lookup(key); ok && value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			*dst = intValue
		}
	}
}

func setFloat(lookup lookupFunc, key string, dst *float64) {
	if value, ok := lookup(key); ok && value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			*dst = floatValue
		}
	}
}

func setDuration(lookup lookupFunc, key string, dst *time.Duration) {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			*dst = d
		}
	}
}
