// Package config holds the toolchain's file conventions and the project
// configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level stackvm.yaml configuration.
type Config struct {
	// Registry is the path of the program registry database.
	// Defaults to DefaultRegistryPath.
	Registry string `yaml:"registry,omitempty"`

	// Trace enables instruction tracing for run/exec/launch.
	Trace bool `yaml:"trace,omitempty"`

	// Output is the default bytecode output path for build when -o is not
	// given. Empty means derive it from the source file name.
	Output string `yaml:"output,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Registry: DefaultRegistryPath}
}

// Load reads a stackvm.yaml. A missing file is not an error: defaults are
// returned so the toolchain works without any project setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Registry == "" {
		cfg.Registry = DefaultRegistryPath
	}
	return cfg, nil
}

// IsSourceFile checks if a path has a recognized source extension.
func IsSourceFile(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension for display or for
// deriving output names.
func TrimSourceExt(path string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}
