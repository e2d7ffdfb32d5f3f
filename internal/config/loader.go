package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project-local config file looked up by LoadDefault.
const FileName = "trivia-build.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogFile: "trivia-build.log",
		Build: Build{
			MinJavaVersion: 17,
			CacheDir:       ".gradle-user-home",
			ArtifactDir:    "build/libs",
			ProbeTimeout:   "5s",
			CleanTimeout:   "5m",
			BuildTimeout:   "10m",
		},
		Deploy: Deploy{
			Remote:  "origin",
			Branch:  "main",
			Timeout: "2m",
		},
		Launch: Launch{
			Username: "TriviaTester",
		},
	}
}

// Load reads a YAML file and overlays it onto the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the first
// one found. Search order: <root>/trivia-build.yaml, ~/.trivia-build/config.yaml.
// With no file present the built-in defaults are returned.
func LoadDefault(root string) (*Config, error) {
	candidates := []string{filepath.Join(root, FileName)}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".trivia-build", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// applyDefaults restores defaults for fields a file explicitly blanked out.
func applyDefaults(cfg *Config) {
	d := Default()

	if cfg.LogFile == "" {
		cfg.LogFile = d.LogFile
	}
	if cfg.Build.MinJavaVersion == 0 {
		cfg.Build.MinJavaVersion = d.Build.MinJavaVersion
	}
	if cfg.Build.CacheDir == "" {
		cfg.Build.CacheDir = d.Build.CacheDir
	}
	if cfg.Build.ArtifactDir == "" {
		cfg.Build.ArtifactDir = d.Build.ArtifactDir
	}
	if cfg.Deploy.Remote == "" {
		cfg.Deploy.Remote = d.Deploy.Remote
	}
	if cfg.Deploy.Branch == "" {
		cfg.Deploy.Branch = d.Deploy.Branch
	}
	if cfg.Launch.Username == "" {
		cfg.Launch.Username = d.Launch.Username
	}
}

// ParseDuration parses a duration string, falling back to a default.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// ResolveInstanceDir returns the absolute test-instance directory.
func (c *Config) ResolveInstanceDir() (string, error) {
	dir := c.Launch.InstanceDir
	if dir != "" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	if dir == "" {
		return filepath.Join(home, ".trivia-test-instance"), nil
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~/")), nil
}
