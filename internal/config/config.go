package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the configuration file searched for by LoadConfig
const FileName = "rowview.json"

// Config represents the rowview.json configuration file
type Config struct {
	Addr         string       `json:"addr"`
	UploadDir    string       `json:"upload_dir"`
	Extension    string       `json:"extension"`
	MaxUploadMB  int64        `json:"max_upload_mb"`
	TemplatesDir string       `json:"templates_dir,omitempty"`
	Cookie       CookieConfig `json:"cookie"`
}

// CookieConfig contains session cookie settings
type CookieConfig struct {
	Secure bool `json:"secure"`
	MaxAge int  `json:"max_age"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LoadConfig loads rowview.json from the current directory or a parent directory.
// When no file exists the defaults are returned with an empty directory.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	config, root, err := loadConfigFromDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	return config, root, err
}

// LoadConfigFromPath loads the rowview.json configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	// Relative upload and template paths are resolved against the config file
	base := filepath.Dir(path)
	if !filepath.IsAbs(config.UploadDir) {
		config.UploadDir = filepath.Join(base, config.UploadDir)
	}
	if config.TemplatesDir != "" && !filepath.IsAbs(config.TemplatesDir) {
		config.TemplatesDir = filepath.Join(base, config.TemplatesDir)
	}

	return &config, nil
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative, got %d", c.MaxUploadMB)
	}
	if c.Cookie.MaxAge < 0 {
		return fmt.Errorf("cookie.max_age must not be negative, got %d", c.Cookie.MaxAge)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", c.Extension)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.Extension == "" {
		c.Extension = ".csv"
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 32
	}
	if c.Cookie.MaxAge == 0 {
		c.Cookie.MaxAge = 86400
	}
}

// loadConfigFromDir searches for rowview.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory: %w", FileName, startDir, os.ErrNotExist)
}
