package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the resolver CLI.
type Config struct {
	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat is "text" or "json". Defaults to text.
	LogFormat string `yaml:"log_format,omitempty"`

	// Color is auto, always or never. Auto colours only when stdout is a terminal.
	Color string `yaml:"color,omitempty"`

	// Parallel enables concurrent search of import branches.
	Parallel bool `yaml:"parallel,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{LogLevel: "warn", LogFormat: "text", Color: "auto", Parallel: true}
}

// LoadConfig reads a YAML config file. A missing file is not an error
// when optional is set; defaults are returned instead.
func LoadConfig(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses YAML data on top of the defaults.
func ParseConfig(data []byte, path string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment overrides. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	// https://no-color.org: any value disables colour
	if _, ok := lookup(EnvNoColor); ok {
		c.Color = "never"
	}
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q", c.Color)
	}
	return nil
}
