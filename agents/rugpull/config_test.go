package rugpull

import (
	"testing"
	"time"

	"github.com/halcyon-labs/agentry/internal/solsniffer"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()

	if cfg.SnifferTimeout != solsniffer.DefaultTimeout {
		t.Errorf("SnifferTimeout = %v, want %v", cfg.SnifferTimeout, solsniffer.DefaultTimeout)
	}
	if !cfg.EnableCache {
		t.Error("EnableCache = false, want true by default")
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOLSNIFFER_API_KEY", "key-123")
	t.Setenv("SOLSNIFFER_BASE_URL", "http://localhost:9999")
	t.Setenv("SOLSNIFFER_TIMEOUT", "5")
	t.Setenv("SOLSNIFFER_ENABLE_CACHE", "false")
	t.Setenv("SOLSNIFFER_CACHE_TTL_HOURS", "48")

	cfg := ConfigFromEnv()

	if cfg.SnifferAPIKey != "key-123" {
		t.Errorf("SnifferAPIKey = %q", cfg.SnifferAPIKey)
	}
	if cfg.SnifferBaseURL != "http://localhost:9999" {
		t.Errorf("SnifferBaseURL = %q", cfg.SnifferBaseURL)
	}
	if cfg.SnifferTimeout != 5*time.Second {
		t.Errorf("SnifferTimeout = %v, want 5s", cfg.SnifferTimeout)
	}
	if cfg.EnableCache {
		t.Error("EnableCache = true, want false")
	}
	if cfg.CacheTTL != 48*time.Hour {
		t.Errorf("CacheTTL = %v, want 48h", cfg.CacheTTL)
	}
}
