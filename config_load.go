package agentry

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a config file from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml), TOML (.toml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, .yml, or .toml", ext)
	}

	return &cfg, nil
}

// ResolveConfig builds the effective config: the optional file named by
// AGENTRY_CONFIG, overlaid with environment variables, then defaults.
func ResolveConfig() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("AGENTRY_CONFIG"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	cfg.FillDefaults()
	if err := ValidateConfig(*cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig validates a Config for correctness.
func ValidateConfig(cfg Config) error {
	if cfg.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", cfg.Addr, err)
		}
	}

	switch cfg.RequestLog.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown request log driver: %q", cfg.RequestLog.Driver)
	}
	if cfg.RequestLog.Driver != "" && cfg.RequestLog.DSN == "" {
		return fmt.Errorf("request log driver %q requires a dsn", cfg.RequestLog.Driver)
	}

	if !cfg.Cache.Disabled && cfg.Cache.Dir == "" {
		return fmt.Errorf("cache dir is required unless the cache is disabled")
	}

	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.Contains(origin, "://") {
			return fmt.Errorf("cors origin %q must include a scheme", origin)
		}
	}

	return nil
}
