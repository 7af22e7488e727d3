// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package config handles client-wide settings and environment parsing.

It layers two sources: a YAML file under the user's configuration directory
and OS environment variables mapped by 'caarlos0/env'. Environment always
wins, so a shell export can override a persisted setting for one run.

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components via constructors.
  - Zero Hidden State: No global variables store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"parsight/internal/platform/apperr"
	"parsight/pkg/pagination"
)

// configFileName is the fixed name of the YAML settings file.
const configFileName = "config.yaml"

// # Configuration Schema

// Config holds all runtime configuration for the Parsight client.
type Config struct {

	// APIBaseURL is the base URL of the PARS backend. Fixed at process
	// configuration; every outbound request resolves against it.
	APIBaseURL string `env:"PARSIGHT_API_URL" yaml:"api_url"`

	// PageSize is the default listing page size. Must be one of
	// pagination.PageSizes.
	PageSize int `env:"PARSIGHT_PAGE_SIZE" yaml:"page_size"`

	// CredentialFile overrides the default bearer-token location.
	CredentialFile string `env:"PARSIGHT_CREDENTIAL_FILE" yaml:"credential_file"`

	// TimeoutSeconds bounds each outbound request.
	TimeoutSeconds int `env:"PARSIGHT_TIMEOUT_SECONDS" yaml:"timeout_seconds"`

	// Debug enables debug-level logging.
	Debug bool `env:"PARSIGHT_DEBUG" yaml:"debug"`
}

// Default returns the built-in configuration baseline.
func Default() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8000",
		PageSize:       pagination.DefaultPageSize,
		TimeoutSeconds: 15,
	}
}

// DefaultPath returns the conventional config-file location under the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "parsight", configFileName), nil
}

// # Configuration Loading

/*
Load builds the effective configuration.

Description: Starts from [Default], overlays the YAML file at path when it
exists, then overlays environment variables. An empty path falls back to
[DefaultPath]; a missing file is not an error, a malformed one is.

Parameters:
  - path: string (YAML file location, may be empty)

Returns:
  - *Config: Validated configuration
  - error: Parse or validation failures
*/
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file; defaults plus environment apply.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Environment overrides whatever the file set.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c *Config) Validate() error {
	var details []apperr.FieldError

	parsed, err := url.Parse(c.APIBaseURL)
	if c.APIBaseURL == "" || err != nil || parsed.Scheme == "" || parsed.Host == "" {
		details = append(details, apperr.FieldError{
			Field:   "api_url",
			Message: "must be an absolute http(s) URL",
		})
	}

	if !pagination.ValidSize(c.PageSize) {
		details = append(details, apperr.FieldError{
			Field:   "page_size",
			Message: fmt.Sprintf("must be one of %v", pagination.PageSizes),
		})
	}

	if c.TimeoutSeconds <= 0 {
		details = append(details, apperr.FieldError{
			Field:   "timeout_seconds",
			Message: "must be positive",
		})
	}

	if len(details) > 0 {
		return apperr.ValidationError("Invalid configuration", details...)
	}
	return nil
}
