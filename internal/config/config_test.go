package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// Test: Default fills every field
	got := Default()

	assert.Equal(t, ":8080", got.Addr)
	assert.Equal(t, "uploads", got.UploadDir)
	assert.Equal(t, ".csv", got.Extension)
	assert.Equal(t, int64(32), got.MaxUploadMB)
	assert.Equal(t, int64(32<<20), got.MaxUploadBytes())
	assert.Equal(t, 86400, got.Cookie.MaxAge)
	assert.False(t, got.Cookie.Secure)
	assert.Empty(t, got.TemplatesDir)
	assert.NoError(t, got.Validate())
}

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, dir string, got *Config)
	}{
		{
			name: "valid config with all fields",
			config: Config{
				Addr:         "127.0.0.1:9000",
				UploadDir:    "/var/lib/rowview",
				Extension:    ".tsv",
				MaxUploadMB:  4,
				TemplatesDir: "tmpl",
				Cookie: CookieConfig{
					Secure: true,
					MaxAge: 600,
				},
			},
			check: func(t *testing.T, dir string, got *Config) {
				assert.Equal(t, "127.0.0.1:9000", got.Addr)
				assert.Equal(t, "/var/lib/rowview", got.UploadDir)
				assert.Equal(t, ".tsv", got.Extension)
				assert.Equal(t, int64(4<<20), got.MaxUploadBytes())
				assert.Equal(t, filepath.Join(dir, "tmpl"), got.TemplatesDir)
				assert.True(t, got.Cookie.Secure)
				assert.Equal(t, 600, got.Cookie.MaxAge)
			},
		},
		{
			name:   "config with defaults",
			config: Config{Addr: ":9999"},
			check: func(t *testing.T, dir string, got *Config) {
				assert.Equal(t, ":9999", got.Addr)
				assert.Equal(t, filepath.Join(dir, "uploads"), got.UploadDir)
				assert.Equal(t, ".csv", got.Extension)
				assert.Equal(t, int64(32), got.MaxUploadMB)
				assert.Equal(t, 86400, got.Cookie.MaxAge)
				assert.Empty(t, got.TemplatesDir)
			},
		},
		{
			name:   "empty config file",
			config: Config{},
			check: func(t *testing.T, dir string, got *Config) {
				assert.Equal(t, ":8080", got.Addr)
				assert.Equal(t, filepath.Join(dir, "uploads"), got.UploadDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, FileName)

			data, err := json.MarshalIndent(tt.config, "", "  ")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(configPath, data, 0644))

			got, err := LoadConfigFromPath(configPath)
			require.NoError(t, err)
			require.NotNil(t, got)

			tt.check(t, tmpDir, got)
		})
	}
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func(string) string
		errContains string
	}{
		{
			name: "file not found",
			setupFunc: func(tmpDir string) string {
				return filepath.Join(tmpDir, "nonexistent.json")
			},
			errContains: "failed to read config file",
		},
		{
			name: "invalid json",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, FileName)
				os.WriteFile(path, []byte("invalid json"), 0644)
				return path
			},
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := tt.setupFunc(tmpDir)

			_, err := LoadConfigFromPath(configPath)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "negative upload size", mutate: func(c *Config) { c.MaxUploadMB = -1 }, errContains: "max_upload_mb"},
		{name: "negative cookie age", mutate: func(c *Config) { c.Cookie.MaxAge = -5 }, errContains: "cookie.max_age"},
		{name: "extension without dot", mutate: func(c *Config) { c.Extension = "csv" }, errContains: "extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Test finding rowview.json in parent directory
	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "subdir")
		require.NoError(t, os.MkdirAll(subDir, 0755))

		data, _ := json.MarshalIndent(Config{Addr: ":7000"}, "", "  ")
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), data, 0644))

		t.Chdir(subDir)

		got, root, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ":7000", got.Addr)
		// Use filepath.EvalSymlinks to resolve any symlinks for comparison
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(root)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	// Test no rowview.json found falls back to defaults
	t.Run("no config found", func(t *testing.T) {
		t.Chdir(t.TempDir())

		got, root, err := LoadConfig()
		require.NoError(t, err)
		assert.Empty(t, root)
		assert.Equal(t, Default(), got)
	})
}
