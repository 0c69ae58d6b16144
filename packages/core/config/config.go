package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config represents the httpie configuration
type Config struct {
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Style           string            `json:"style,omitempty" yaml:"style,omitempty"`   // chroma style for JSON bodies
	Output          string            `json:"output,omitempty" yaml:"output,omitempty"` // console or json

	// Path is the file the config was read from, empty for defaults.
	Path string `json:"-" yaml:"-"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".httpie.json",
	".httpie.jsonc",
	".httpie.yaml",
	".httpie.yml",
}

// LoadConfig loads configuration from path, or searches the working
// directory and then the user config directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	dirs := []string{"."}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "httpie"))
	}
	return FindAndLoadConfig(dirs...)
}

// FindAndLoadConfig loads the first config file found in dirs. Defaults are
// returned when none exists.
func FindAndLoadConfig(dirs ...string) (*Config, error) {
	for _, dir := range dirs {
		for _, filename := range ConfigFilenames {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return loadConfigFromFile(configPath)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("checking %s: %w", configPath, err)
			}
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that cannot configure a client.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("maxRedirects must not be negative, got %d", c.MaxRedirects)
	}
	switch c.Output {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown output %q (want console or json)", c.Output)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Style != "" {
		result.Style = other.Style
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(c.Headers) > 0 || len(other.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = v
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}

	return &result
}
