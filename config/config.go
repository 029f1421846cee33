// Package config provides configuration loading for layerlint.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/layerlint/rules"
)

// Config represents the complete layerlint configuration, usually loaded
// from a layerlint.yaml at the project root.
type Config struct {
	Scan  ScanConfig  `yaml:"scan"`
	Watch WatchConfig `yaml:"watch"`
}

// ScanConfig controls tree traversal and classification.
type ScanConfig struct {
	// Ignore holds doublestar globs matched against root-relative paths.
	Ignore []string `yaml:"ignore"`

	// Languages restricts which registered parsers run (by name, e.g.
	// "python", "typescript"). Empty means all registered languages.
	Languages []string `yaml:"languages"`

	// LayerAliases adds project-specific directory names to the layer
	// table (e.g. handlers: controller).
	LayerAliases map[string]string `yaml:"layer_aliases"`

	// ReservedModules adds top-level directory names to skip beyond the
	// built-in reserved set.
	ReservedModules []string `yaml:"reserved_modules"`

	// Parallelism bounds concurrent module traversal. Zero means one
	// worker per CPU.
	Parallelism int `yaml:"parallelism"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-running.
	Debounce time.Duration `yaml:"debounce"`

	// MetricsListen is the address for the Prometheus /metrics endpoint
	// (empty disables it).
	MetricsListen string `yaml:"metrics_listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Ignore:      nil,
			Languages:   nil, // all registered
			Parallelism: 0,   // one worker per CPU
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	known := make(map[string]bool)
	for _, l := range rules.Layers() {
		known[string(l)] = true
	}
	for dir, layer := range c.Scan.LayerAliases {
		if !known[layer] {
			return fmt.Errorf("scan.layer_aliases.%s: unknown layer %q", dir, layer)
		}
	}

	if c.Scan.Parallelism < 0 {
		return fmt.Errorf("scan.parallelism must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LayerAliases returns the configured aliases as typed layers. Keys are
// lowercased to match the scanner's case-insensitive directory lookup.
// Validate must have passed.
func (c *Config) LayerAliases() map[string]rules.Layer {
	if len(c.Scan.LayerAliases) == 0 {
		return nil
	}
	aliases := make(map[string]rules.Layer, len(c.Scan.LayerAliases))
	for dir, layer := range c.Scan.LayerAliases {
		aliases[strings.ToLower(dir)] = rules.Layer(layer)
	}
	return aliases
}

// LoadFromFile loads configuration from a YAML file, applying defaults for
// anything the file does not set.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Scan.Ignore) > 0 {
		c.Scan.Ignore = other.Scan.Ignore
	}
	if len(other.Scan.Languages) > 0 {
		c.Scan.Languages = other.Scan.Languages
	}
	if len(other.Scan.LayerAliases) > 0 {
		c.Scan.LayerAliases = other.Scan.LayerAliases
	}
	if len(other.Scan.ReservedModules) > 0 {
		c.Scan.ReservedModules = other.Scan.ReservedModules
	}
	if other.Scan.Parallelism != 0 {
		c.Scan.Parallelism = other.Scan.Parallelism
	}

	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.MetricsListen != "" {
		c.Watch.MetricsListen = other.Watch.MetricsListen
	}
}
