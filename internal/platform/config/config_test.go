// Copyright (c) 2026 Parsight. All rights reserved.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/platform/apperr"
	"parsight/internal/platform/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

/*
TestLoad_FileThenEnvPrecedence verifies that environment variables override
file values, which override defaults.
*/
func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := writeConfig(t, "api_url: http://file.example.com\npage_size: 20\n")

	// 1. File values apply over defaults
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example.com", cfg.APIBaseURL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 15, cfg.TimeoutSeconds) // default untouched

	// 2. Environment wins over the file
	t.Setenv("PARSIGHT_API_URL", "http://env.example.com")
	t.Setenv("PARSIGHT_PAGE_SIZE", "50")

	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.APIBaseURL)
	assert.Equal(t, 50, cfg.PageSize)
}

/*
TestLoad_MissingFileUsesEnv treats an absent config file as empty.
*/
func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("PARSIGHT_API_URL", "https://pars.example.com")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://pars.example.com", cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.PageSize)
}

/*
TestLoad_Validation rejects unusable values with field-level detail.
*/
func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"blank_api_url", "api_url: \"\"\n", "api_url"},
		{"relative_api_url", "api_url: pars.example.com\n", "api_url"},
		{"bad_page_size", "api_url: http://x.example.com\npage_size: 13\n", "page_size"},
		{"bad_timeout", "api_url: http://x.example.com\ntimeout_seconds: 0\n", "timeout_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)

			found := false
			for _, d := range ae.Details {
				if d.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected a detail for field %q", tt.field)
		})
	}
}

/*
TestLoad_MalformedYAML surfaces parse failures instead of silently ignoring
the file.
*/
func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "api_url: [unclosed\n"))
	assert.Error(t, err)
}
