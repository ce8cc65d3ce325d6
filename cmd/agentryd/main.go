// Command agentryd serves the assist agents over HTTP/SSE.
//
// Providers register from environment variables (FIREWORKS_API_KEY,
// OPENAI_API_KEY, BEDROCK_REGION); at least one is required. The agents
// share one disk cache and one chat binding. See the repository README
// for the full environment surface.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halcyon-labs/agentry"
	"github.com/halcyon-labs/agentry/agents/bible"
	"github.com/halcyon-labs/agentry/agents/rugpull"
	"github.com/halcyon-labs/agentry/internal/diskcache"
	"github.com/halcyon-labs/agentry/internal/logging"
	"github.com/halcyon-labs/agentry/internal/requestlog"
	"github.com/halcyon-labs/agentry/internal/version"
	"github.com/halcyon-labs/agentry/providers"
)

// Default models per provider, overridable via FIREWORKS_MODEL,
// BEDROCK_MODEL, or LLM_MODEL.
const (
	defaultFireworksModel = "accounts/fireworks/models/llama-v3p1-8b-instruct"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultBedrockModel   = "anthropic.claude-3-5-haiku-20241022-v1:0"
)

func main() {
	cfg, err := agentry.ResolveConfig()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	registry, err := buildRegistry()
	if err != nil {
		log.Fatalf("Provider: %v", err)
	}
	if registry.Len() == 0 {
		log.Fatal("No LLM provider configured. Set FIREWORKS_API_KEY, OPENAI_API_KEY, or BEDROCK_REGION.")
	}
	chat, err := chatFromEnv(registry)
	if err != nil {
		log.Fatalf("LLM: %v", err)
	}

	var store diskcache.Cache = diskcache.Nop{}
	if !cfg.Cache.Disabled {
		s, err := diskcache.New(cfg.Cache.Dir)
		if err != nil {
			log.Fatalf("Cache: %v", err)
		}
		store = s
	}

	host := agentry.NewHost()

	rugCfg := rugpull.ConfigFromEnv()
	host.Register(rugpull.New(chat, rugCfg.NewClient(), agentCache(store, rugCfg.EnableCache), rugCfg.CacheTTL))

	bibCfg := bible.ConfigFromEnv()
	host.Register(bible.New(chat, bibCfg.NewClient(), agentCache(store, bibCfg.EnableCache), bibCfg.Translation, bibCfg.CacheTTL))

	if err := host.SetDefault(cfg.DefaultAgent); err != nil {
		log.Fatalf("Default agent: %v", err)
	}

	var audit requestlog.Writer = requestlog.NoopWriter{}
	if cfg.RequestLog.DSN != "" {
		sqlStore, err := openRequestLog(cfg.RequestLog)
		if err != nil {
			log.Fatalf("Request log: %v", err)
		}
		defer func() { _ = sqlStore.Close() }()
		audit = sqlStore
		logging.Logger.Info("request log enabled", "driver", cfg.RequestLog.Driver)
	}

	r := newRouter(host, audit, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logging.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Error("shutdown error", "error", err)
		}
	}()

	logging.Logger.Info("agentryd listening",
		"version", version.Short(),
		"addr", cfg.Addr,
		"agents", strings.Join(host.List(), ","),
		"default_agent", cfg.DefaultAgent,
		"provider", chat.Provider().Name(),
		"model", chat.Model(),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		log.Fatalf("Server error: %v", err) //nolint:gocritic
	}
	logging.Logger.Info("server stopped")
}

// newRouter builds the HTTP router.
func newRouter(host *agentry.Host, audit requestlog.Writer, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(corsOrigins...))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "healthy",
			"service": "agentry",
			"agents":  host.List(),
		})
	})

	r.Get("/agents", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{"agents": host.List()}
		if def, ok := host.Default(); ok {
			resp["default"] = def.Name()
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/assist", assistHandler(host, audit))
	r.Post("/agents/{agent}/assist", assistHandler(host, audit))

	return r
}

// buildRegistry registers providers based on environment variables.
func buildRegistry() (*providers.Registry, error) {
	registry := providers.NewRegistry()

	if key := os.Getenv("FIREWORKS_API_KEY"); key != "" {
		p, err := providers.NewFireworks(key, "")
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		logging.Logger.Info("provider registered", "provider", "fireworks")
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		p, err := providers.NewOpenAI(key, "")
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		logging.Logger.Info("provider registered", "provider", "openai")
	}
	if region := os.Getenv("BEDROCK_REGION"); region != "" {
		p, err := providers.NewBedrock(region)
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		logging.Logger.Info("provider registered", "provider", "bedrock", "region", region)
	}

	return registry, nil
}

// chatFromEnv binds the selected provider to its model and sampling
// parameters. LLM_PROVIDER picks among the registered providers; when
// unset the first of fireworks/openai/bedrock wins.
func chatFromEnv(registry *providers.Registry) (*providers.Chat, error) {
	name := os.Getenv("LLM_PROVIDER")
	if name == "" {
		for _, candidate := range []string{"fireworks", "openai", "bedrock"} {
			if _, ok := registry.Get(candidate); ok {
				name = candidate
				break
			}
		}
	}
	p, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("LLM provider %q is not registered (registered: %s)", name, strings.Join(registry.List(), ", "))
	}

	cfg := providers.ChatConfig{
		Model:       envString("LLM_MODEL", defaultModel(name)),
		MaxTokens:   envInt("LLM_MAX_TOKENS", 1024),
		Temperature: envFloat("LLM_TEMPERATURE", 0.7),
		TopP:        envFloat("LLM_TOP_P", 0.9),
		Timeout:     time.Duration(envInt("LLM_TIMEOUT", 30)) * time.Second,
	}
	return providers.NewChat(p, cfg), nil
}

func defaultModel(provider string) string {
	switch provider {
	case "fireworks":
		return envString("FIREWORKS_MODEL", defaultFireworksModel)
	case "bedrock":
		return envString("BEDROCK_MODEL", defaultBedrockModel)
	default:
		return defaultOpenAIModel
	}
}

// agentCache returns the shared store, or a no-op cache when the agent
// has caching disabled.
func agentCache(store diskcache.Cache, enabled bool) diskcache.Cache {
	if !enabled {
		return diskcache.Nop{}
	}
	return store
}

// openRequestLog opens the audit store for the configured driver. An
// empty driver infers it from the DSN.
func openRequestLog(cfg agentry.RequestLogConfig) (*requestlog.SQLWriter, error) {
	switch cfg.Driver {
	case "postgres":
		return requestlog.NewPostgresWriter(cfg.DSN)
	case "sqlite":
		return requestlog.NewSQLiteWriter(cfg.DSN)
	default:
		return requestlog.Open(cfg.DSN)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
