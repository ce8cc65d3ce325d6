package agentry

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the host configuration shared by the server and the CLI.
type Config struct {
	// Addr is the listen address, host optional (":8000").
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr,omitempty"`
	// DefaultAgent answers requests that do not name an agent.
	DefaultAgent string `json:"default_agent,omitempty" yaml:"default_agent,omitempty" toml:"default_agent,omitempty"`
	// CORSOrigins lists allowed origins; empty allows any origin.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty" toml:"cors_origins,omitempty"`
	// Cache configures the shared on-disk response cache.
	Cache CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty" toml:"cache,omitempty"`
	// RequestLog configures the optional assist audit log.
	RequestLog RequestLogConfig `json:"request_log,omitempty" yaml:"request_log,omitempty" toml:"request_log,omitempty"`
}

// CacheConfig configures the disk cache directory shared by the agents.
type CacheConfig struct {
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

// RequestLogConfig configures the assist audit log store. An empty DSN
// disables logging. Driver may be left empty to infer it from the DSN.
type RequestLogConfig struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" toml:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn,omitempty"`
}

// Defaults applied by FillDefaults.
const (
	DefaultAddr     = ":8000"
	DefaultAgent    = "rugpull"
	DefaultCacheDir = ".cache"
)

// FillDefaults sets the documented defaults on unset fields.
func (c *Config) FillDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DefaultAgent == "" {
		c.DefaultAgent = DefaultAgent
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir
	}
}

// ApplyEnv overlays environment variables onto the config. Set variables
// win over file values.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if agent := os.Getenv("AGENT"); agent != "" {
		c.DefaultAgent = agent
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitAndTrim(origins)
	}
	if dir := os.Getenv("CACHE_DIR"); dir != "" {
		c.Cache.Dir = dir
	}
	if v := os.Getenv("CACHE_DISABLED"); v != "" {
		if disabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Disabled = disabled
		}
	}
	if dsn := os.Getenv("REQUEST_LOG_DSN"); dsn != "" {
		c.RequestLog.DSN = dsn
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
