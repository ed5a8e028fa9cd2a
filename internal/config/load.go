package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects settings the renderer cannot work with.
func (c *Config) validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	v := &c.Viewer
	if v.ScaleMin <= 0 || v.ScaleMax < v.ScaleMin {
		return fmt.Errorf("invalid projection scale range [%v, %v]", v.ScaleMin, v.ScaleMax)
	}
	if v.ProjectionScale < v.ScaleMin || v.ProjectionScale > v.ScaleMax {
		return fmt.Errorf("projection scale %v outside [%v, %v]", v.ProjectionScale, v.ScaleMin, v.ScaleMax)
	}
	if v.BlendSpeed <= 0 {
		return fmt.Errorf("blend speed must be positive, got %v", v.BlendSpeed)
	}
	if v.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", v.Workers)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "scopview")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "scopview")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "scopview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "scopview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
