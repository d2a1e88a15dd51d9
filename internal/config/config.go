package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultBaseURL is the public Clockify REST endpoint.
	DefaultBaseURL = "https://api.clockify.me/api/v1"
	// DefaultFileName is the name of the config file in the user's home directory.
	DefaultFileName = ".clockify.cfg"
)

// Config is the record of local defaults. The JSON field names are the ones
// the file has always used, so existing files keep loading.
type Config struct {
	APIKey      string `json:"api"`
	UserID      string `json:"uid"`
	UserName    string `json:"username"`
	WorkspaceID string `json:"wid"`
	Workspace   string `json:"workspace"`
	ProjectID   string `json:"pid"`
	Project     string `json:"project"`
	Timezone    string `json:"timezone"`

	// Runtime-only settings, never written to disk.
	BaseURL string `json:"-"`
	Debug   bool   `json:"-"`

	apiKeyOverride string
	fs             afero.Fs
	path           string
	exists         bool
}

// Path returns the config file location, honouring CLOCKIFY_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("CLOCKIFY_CONFIG"); p != "" {
		return expandHome(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, p[2:]), nil
}

// Load reads the config from the OS filesystem at Path().
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(afero.NewOsFs(), path)
}

// LoadFrom reads the config at path on fs. A missing file is not an error:
// the returned Config reports Exists() == false so the caller can run first-time
// setup.
func LoadFrom(fs afero.Fs, path string) (*Config, error) {
	cfg := &Config{fs: fs, path: path}

	data, err := afero.ReadFile(fs, path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.exists = true
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = os.Getenv("CLOCKIFY_BASE_URL")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.Debug = os.Getenv("CLOCKIFY_DEBUG") == "true"
	c.apiKeyOverride = os.Getenv("CLOCKIFY_API_KEY")
}

// Save writes the whole record back to disk. The file is replaced through a
// temp file and rename.
func (c *Config) Save() error {
	if c.fs == nil {
		return fmt.Errorf("config has no backing filesystem")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := c.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
		}
	}

	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		_ = c.fs.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	c.exists = true
	return nil
}

// Exists reports whether the record was read from, or has been written to, disk.
func (c *Config) Exists() bool { return c.exists }

// File returns the path the config is stored at.
func (c *Config) File() string { return c.path }

// Key returns the API key in effect: CLOCKIFY_API_KEY wins over the stored key.
func (c *Config) Key() string {
	if c.apiKeyOverride != "" {
		return c.apiKeyOverride
	}
	return c.APIKey
}

// HasKeyOverride reports whether the API key comes from the environment.
func (c *Config) HasKeyOverride() bool { return c.apiKeyOverride != "" }

// SetUser records the profile fetched during first-time setup.
func (c *Config) SetUser(id, name, timezone string) {
	c.UserID = id
	c.UserName = name
	c.Timezone = timezone
}

// SetWorkspace records a new default workspace. The project default belongs
// to the previous workspace and is cleared when the workspace changes.
func (c *Config) SetWorkspace(name, id string) {
	if id != c.WorkspaceID {
		c.ProjectID = ""
		c.Project = ""
	}
	c.WorkspaceID = id
	c.Workspace = name
}

// SetProject records a new default project.
func (c *Config) SetProject(name, id string) {
	c.ProjectID = id
	c.Project = name
}

// Masked returns a copy safe for printing.
func (c *Config) Masked() Config {
	out := Config{
		APIKey:      MaskKey(c.Key()),
		UserID:      c.UserID,
		UserName:    c.UserName,
		WorkspaceID: c.WorkspaceID,
		Workspace:   c.Workspace,
		ProjectID:   c.ProjectID,
		Project:     c.Project,
		Timezone:    c.Timezone,
	}
	return out
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
