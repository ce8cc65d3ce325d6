package rugpull

import (
	"os"
	"strconv"
	"time"

	"github.com/halcyon-labs/agentry/internal/solsniffer"
)

// DefaultCacheTTL is how long analyses stay valid. Token audit flags can
// flip (authorities renounced, LP burned), so the window is short.
const DefaultCacheTTL = 24 * time.Hour

// Config holds the agent's environment-driven settings.
type Config struct {
	SnifferAPIKey  string
	SnifferBaseURL string
	SnifferTimeout time.Duration
	EnableCache    bool
	CacheTTL       time.Duration
}

// ConfigFromEnv reads the SOLSNIFFER_* variables, falling back to the
// documented defaults.
func ConfigFromEnv() Config {
	cfg := Config{
		SnifferAPIKey:  os.Getenv("SOLSNIFFER_API_KEY"),
		SnifferBaseURL: os.Getenv("SOLSNIFFER_BASE_URL"),
		SnifferTimeout: solsniffer.DefaultTimeout,
		EnableCache:    true,
		CacheTTL:       DefaultCacheTTL,
	}
	if v := os.Getenv("SOLSNIFFER_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.SnifferTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("SOLSNIFFER_ENABLE_CACHE"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.EnableCache = enabled
		}
	}
	if v := os.Getenv("SOLSNIFFER_CACHE_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.CacheTTL = time.Duration(hours) * time.Hour
		}
	}
	return cfg
}

// NewClient builds the SolSniffer client for this config.
func (c Config) NewClient() *solsniffer.Client {
	return solsniffer.New(c.SnifferAPIKey, c.SnifferBaseURL, c.SnifferTimeout)
}
