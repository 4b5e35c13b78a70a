// Package config handles the ~/.sema directory: the yaml settings file,
// the persisted bearer token, and the log location.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// SemaDir is the directory created under the user's home.
	SemaDir = ".sema"

	defaultTopN = 3
	minTopN     = 1
	maxTopN     = 20
)

const defaultSettingsYAML = `# sema client configuration
version: 1

# Base URL of the staffing backend, e.g. https://sema.example.com/api
api_url: ""

# How many candidates the matching service should rank per role (1-20).
top_n: 3
`

// Settings models ~/.sema/config.yaml.
type Settings struct {
	Version int    `yaml:"version"`
	APIURL  string `yaml:"api_url"`
	TopN    int    `yaml:"top_n"`
}

// Config holds the runtime configuration for the client.
type Config struct {
	// Dir is the ~/.sema directory.
	Dir string

	Settings Settings
}

// Init creates the ~/.sema structure and seeds a default settings file on
// first launch.
func Init(homeDir string) error {
	dir := filepath.Join(homeDir, SemaDir)
	for _, sub := range []string{dir, filepath.Join(dir, "logs")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return err
		}
	}
	return ensureSettingsFile(filepath.Join(dir, "config.yaml"))
}

// New loads the configuration for the given home directory. Environment
// variables SEMA_API_URL and SEMA_TOKEN override the file contents; the
// token override is read by Token, not here.
func New(homeDir string) (*Config, error) {
	cfg := &Config{
		Dir:      filepath.Join(homeDir, SemaDir),
		Settings: defaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv("SEMA_API_URL")); env != "" {
		cfg.Settings.APIURL = env
	}
	return cfg, nil
}

// SettingsPath returns the on-disk location of the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// TokenPath returns where the bearer token is persisted.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, "token")
}

// LogPath returns the session log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "logs", "sema.log")
}

// APIURL returns the configured backend base URL.
func (c *Config) APIURL() string {
	return c.Settings.APIURL
}

// TopN returns the per-role candidate count for match runs.
func (c *Config) TopN() int {
	return c.Settings.TopN
}

// Token resolves the bearer token: the SEMA_TOKEN environment variable
// wins, otherwise the persisted file is read. An empty result means the
// user has to authenticate out of band.
func (c *Config) Token() string {
	if env := strings.TrimSpace(os.Getenv("SEMA_TOKEN")); env != "" {
		return env
	}
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken persists the token with owner-only permissions.
func (c *Config) SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("config: token is required")
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("config: ensure sema dir: %w", err)
	}
	if err := os.WriteFile(c.TokenPath(), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("config: write token: %w", err)
	}
	return nil
}

// ClearToken removes the persisted token. Called when the backend answers
// 401; the next launch starts unauthenticated.
func (c *Config) ClearToken() {
	_ = os.Remove(c.TokenPath())
}

func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

// Save writes the current settings back to disk.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Settings.applyDefaults()
	c.Settings.normalize()
	if err := c.Settings.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("config: ensure sema dir: %w", err)
	}
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.WriteFile(c.SettingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}

func defaultSettings() Settings {
	return Settings{Version: 1, TopN: defaultTopN}
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.TopN == 0 {
		s.TopN = defaultTopN
	}
}

func (s *Settings) normalize() {
	s.APIURL = strings.TrimRight(strings.TrimSpace(s.APIURL), "/")
	if s.TopN < minTopN {
		s.TopN = minTopN
	}
	if s.TopN > maxTopN {
		s.TopN = maxTopN
	}
}

func (s Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("settings version must be >= 1")
	}
	return nil
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}
