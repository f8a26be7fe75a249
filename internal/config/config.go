package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Backend selects which renderer an analysis run feeds its assembled
// document to.
type Backend string

const (
	BackendSwagger   Backend = "SWAGGER"
	BackendPlaintext Backend = "PLAINTEXT"
)

// Config represents the apisurface configuration (spec.md §6).
type Config struct {
	ProjectName    string  `json:"projectName,omitempty" yaml:"projectName,omitempty" toml:"projectName,omitempty"`
	ProjectVersion string  `json:"projectVersion,omitempty" yaml:"projectVersion,omitempty" toml:"projectVersion,omitempty"`
	Domain         string  `json:"domain,omitempty" yaml:"domain,omitempty" toml:"domain,omitempty"`
	Backend        Backend `json:"backend,omitempty" yaml:"backend,omitempty" toml:"backend,omitempty"`
	OutputLocation string  `json:"outputLocation,omitempty" yaml:"outputLocation,omitempty" toml:"outputLocation,omitempty"`
}

// DefaultConfig returns a config with spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{
		ProjectName:    "project",
		ProjectVersion: "0.1-SNAPSHOT",
		Domain:         "example.com",
		Backend:        BackendSwagger,
	}
}

// Discover searches for an apisurface config file in the given directory.
// Checks in priority order: .json > .yaml/.yml > .toml.
// Returns the full path to the config file, or empty string if none found.
func Discover(dir string) string {
	candidates := []string{
		filepath.Join(dir, "apisurface.config.json"),
		filepath.Join(dir, "apisurface.config.yaml"),
		filepath.Join(dir, "apisurface.config.yml"),
		filepath.Join(dir, "apisurface.config.toml"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and parses an apisurface config file, dispatching on its
// extension. Supports JSON, YAML, and TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (expected .json, .yaml, .yml, or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendSwagger, BackendPlaintext:
		// valid — empty defaults to SWAGGER
	default:
		return fmt.Errorf("backend must be one of \"SWAGGER\", \"PLAINTEXT\", got %q", c.Backend)
	}

	if c.OutputLocation != "" {
		ext := filepath.Ext(c.OutputLocation)
		if ext == "" {
			return fmt.Errorf("outputLocation %q must have a file extension", c.OutputLocation)
		}
	}

	return nil
}
