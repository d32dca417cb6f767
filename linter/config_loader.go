package linter

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/system"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the location of the user level configuration file, ~/.openapi/schema-lint.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".openapi", "schema-lint.yaml"), nil
}

// LoadConfig loads lint configuration from a YAML reader.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Extends) == 0 {
		cfg.Extends = []string{"all"}
	}
	if cfg.Categories == nil {
		cfg.Categories = make(map[string]CategoryConfig)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputFormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFromFile loads lint configuration from a YAML file.
func LoadConfigFromFile(path string) (*Config, error) {
	return LoadConfigFromFS(&system.FileSystem{}, path)
}

// LoadConfigFromFS loads lint configuration from a file of the given filesystem.
func LoadConfigFromFS(fsys system.VirtualFS, path string) (*Config, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// IsConfigNotFound reports whether err was caused by a missing configuration file.
func IsConfigNotFound(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
