package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jdgilhuly/aipair/pkg/registry"
)

// Duration wraps time.Duration so YAML values like "120s" decode.
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "30s" or "2m".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", node.Value, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds the optional aipair.yaml settings. Everything has a
// working default; the file only exists to override.
type Config struct {
	Providers   map[string]ProviderConfig `yaml:"providers"`
	Concurrency int                       `yaml:"concurrency"`
	Timeout     Duration                  `yaml:"timeout"`
}

// ProviderConfig overrides registry defaults for a single provider.
type ProviderConfig struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	ModelEnv  string `yaml:"model_env"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Providers:   make(map[string]ProviderConfig),
		Concurrency: 0, // one worker per requested query
		Timeout:     Duration(120 * time.Second),
	}
}

// Load reads and parses a YAML config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from the given path. If the file does not exist,
// it returns the default configuration. Other errors (e.g. parse failures)
// are still returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Overrides projects the provider sections into registry overrides.
func (c *Config) Overrides() map[string]registry.Override {
	overrides := make(map[string]registry.Override, len(c.Providers))
	for id, p := range c.Providers {
		overrides[id] = registry.Override{
			Model:     p.Model,
			BaseURL:   p.BaseURL,
			APIKeyEnv: p.APIKeyEnv,
			ModelEnv:  p.ModelEnv,
		}
	}
	return overrides
}

// Validate checks the config for invalid values and returns a descriptive
// error listing every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be > 0, got %s", time.Duration(c.Timeout)))
	}

	return errors.Join(errs...)
}
