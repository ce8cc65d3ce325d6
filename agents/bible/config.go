package bible

import (
	"os"
	"strconv"
	"time"

	"github.com/halcyon-labs/agentry/internal/bibleapi"
)

const (
	// DefaultTranslation is the translation used when none is
	// configured. bible-api.com serves public-domain texts, with the
	// King James Version as the safest default.
	DefaultTranslation = "KJV"

	// DefaultCacheTTL keeps verses for a week. The underlying texts
	// never change, so the TTL only bounds disk usage.
	DefaultCacheTTL = 168 * time.Hour

	// DefaultAPITimeout bounds a single bible-api.com request.
	DefaultAPITimeout = 10 * time.Second
)

// Config holds the verse explainer settings.
type Config struct {
	Translation string
	APIBaseURL  string
	APITimeout  time.Duration
	EnableCache bool
	CacheTTL    time.Duration
}

// ConfigFromEnv builds a Config from BIBLE_* environment variables,
// falling back to the defaults above.
func ConfigFromEnv() Config {
	cfg := Config{
		Translation: DefaultTranslation,
		APITimeout:  DefaultAPITimeout,
		EnableCache: true,
		CacheTTL:    DefaultCacheTTL,
	}
	if v := os.Getenv("BIBLE_TRANSLATION"); v != "" {
		cfg.Translation = v
	}
	if v := os.Getenv("BIBLE_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("BIBLE_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.APITimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("BIBLE_ENABLE_CACHE"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.EnableCache = enabled
		}
	}
	if v := os.Getenv("BIBLE_CACHE_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.CacheTTL = time.Duration(hours) * time.Hour
		}
	}
	return cfg
}

// NewClient builds the bible-api.com client for this configuration.
func (c Config) NewClient() *bibleapi.Client {
	return bibleapi.New(c.APIBaseURL, c.APITimeout)
}
