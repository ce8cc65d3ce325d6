// Package rugpull implements the Solana token checker agent. It pulls a
// contract address out of the prompt, fetches the SolSniffer security
// report, scores it, and asks the LLM for a verdict. Completed analyses
// are cached on disk so repeat lookups skip both paid upstreams.
package rugpull

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/halcyon-labs/agentry"
	"github.com/halcyon-labs/agentry/internal/diskcache"
	"github.com/halcyon-labs/agentry/internal/logging"
	"github.com/halcyon-labs/agentry/internal/metrics"
	"github.com/halcyon-labs/agentry/internal/solana"
	"github.com/halcyon-labs/agentry/internal/solsniffer"
	"github.com/halcyon-labs/agentry/providers"
)

// DisplayName is the user-facing agent name used in greetings.
const DisplayName = "Rug Pull Checker"

// Event names emitted by this agent beyond the shared STATUS/ERROR.
const (
	eventTokenData = "TOKEN_DATA"
	eventAnalysis  = "ANALYSIS"
	eventVerdict   = "AI_VERDICT"
	eventGreeting  = "GREETING"
	eventChat      = "CHAT_RESPONSE"
)

const verdictHeader = "\n## 🤖 AI Analysis\n\n"

// greetingPatterns flag small talk when no contract address is present.
var greetingPatterns = []string{
	"who are you",
	"what can you do",
	"what are you",
	"hello",
	"hi there",
	"hey there",
	"help me",
	"about you",
}

// Agent checks Solana tokens for rug pull risk.
type Agent struct {
	chat     *providers.Chat
	sniffer  *solsniffer.Client
	cache    diskcache.Cache
	cacheTTL time.Duration
}

// New creates the agent. A nil cache disables caching; a non-positive
// ttl selects DefaultCacheTTL.
func New(chat *providers.Chat, sniffer *solsniffer.Client, cache diskcache.Cache, cacheTTL time.Duration) *Agent {
	if cache == nil {
		cache = diskcache.Nop{}
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Agent{chat: chat, sniffer: sniffer, cache: cache, cacheTTL: cacheTTL}
}

// Name implements agentry.Agent.
func (a *Agent) Name() string { return "rugpull" }

// Assist implements agentry.Agent.
func (a *Agent) Assist(ctx context.Context, session agentry.Session, query agentry.Query, rh agentry.ResponseHandler) error {
	prompt := strings.TrimSpace(query.Prompt)

	// The address check runs before the greeting check: "hello, is
	// <CA> safe?" is an analysis request, not small talk.
	if address, ok := solana.ExtractAddress(prompt); ok {
		logging.FromContext(ctx).Info("analyzing token", "agent", a.Name(), "address", address)
		return a.assistToken(ctx, address, prompt, rh)
	}

	if isGreeting(prompt) {
		if err := rh.EmitTextBlock(eventGreeting, greetingText); err != nil {
			return err
		}
		return rh.Complete()
	}

	return a.assistChat(ctx, prompt, rh)
}

func (a *Agent) assistToken(ctx context.Context, address, prompt string, rh agentry.ResponseHandler) error {
	log := logging.FromContext(ctx)

	var rec record
	if diskcache.GetJSON(a.cache, address, &rec) {
		log.Info("serving cached analysis", "agent", a.Name(), "address", address)
		metrics.CacheOps.WithLabelValues(a.Name(), "hit").Inc()
		if err := rh.EmitTextBlock(eventAnalysis, "✨ **Found cached analysis**\n\n"+rec.Analysis); err != nil {
			return err
		}
		if err := rh.EmitTextBlock(eventVerdict, verdictHeader+rec.Verdict); err != nil {
			return err
		}
		return rh.Complete()
	}
	metrics.CacheOps.WithLabelValues(a.Name(), "miss").Inc()

	if err := rh.EmitTextBlock(agentry.EventStatus, "🔍 Analyzing token: "+shortAddress(address)); err != nil {
		return err
	}

	start := time.Now()
	report, err := a.sniffer.TokenReport(ctx, address)
	metrics.UpstreamDuration.WithLabelValues("solsniffer").Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warn("token lookup failed", "agent", a.Name(), "address", address, "error", err)
		msg := "❌ **Error**\n\n" + lookupErrorMessage(err) + "\n\nPlease check the contract address and try again."
		if emitErr := rh.EmitTextBlock(agentry.EventError, msg); emitErr != nil {
			return emitErr
		}
		return rh.Complete()
	}

	score, factors := report.RiskScore()
	if err := rh.EmitJSON(eventTokenData, tokenData{
		Address:   report.Address,
		Name:      report.Name,
		Symbol:    report.Symbol,
		RiskScore: score,
		RiskLevel: solsniffer.RiskLevelFor(score),
	}); err != nil {
		return err
	}

	analysis := formatReport(report)
	if err := rh.EmitTextBlock(eventAnalysis, analysis); err != nil {
		return err
	}

	if err := rh.EmitTextBlock(agentry.EventStatus, "🤖 Generating AI analysis..."); err != nil {
		return err
	}

	verdict, verdictErr := a.verdict(ctx, address, prompt, report)
	if verdictErr != nil {
		log.Warn("verdict generation failed", "agent", a.Name(), "error", verdictErr)
		verdict = fallbackVerdict(score, factors)
	}
	if err := rh.EmitTextBlock(eventVerdict, verdictHeader+verdict); err != nil {
		return err
	}

	// Degraded verdicts are not cached so the next lookup retries the LLM.
	if verdictErr == nil {
		rec = record{Report: report.Raw, Analysis: analysis, Verdict: verdict}
		if err := diskcache.SetJSON(a.cache, address, rec, a.cacheTTL); err != nil {
			log.Warn("cache write failed", "agent", a.Name(), "address", address, "error", err)
		} else {
			metrics.CacheOps.WithLabelValues(a.Name(), "write").Inc()
		}
	}

	return rh.Complete()
}

func (a *Agent) verdict(ctx context.Context, address, prompt string, report *solsniffer.Report) (string, error) {
	start := time.Now()
	text, usage, err := a.chat.Complete(ctx, systemPrompt, analysisPrompt(address, prompt, report))
	metrics.UpstreamDuration.WithLabelValues(a.chat.Provider().Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	a.countTokens(usage)
	return text, nil
}

func (a *Agent) assistChat(ctx context.Context, prompt string, rh agentry.ResponseHandler) error {
	text, usage, err := a.chat.Complete(ctx, chatSystemPrompt, chatPrompt(prompt))
	if err != nil {
		logging.FromContext(ctx).Warn("chat completion failed", "agent", a.Name(), "error", err)
		text = chatFallback
	} else {
		a.countTokens(usage)
	}

	if err := rh.EmitTextBlock(eventChat, text); err != nil {
		return err
	}
	return rh.Complete()
}

func (a *Agent) countTokens(usage providers.Usage) {
	provider := a.chat.Provider().Name()
	model := a.chat.Model()
	metrics.TokensInput.WithLabelValues(provider, model).Add(float64(usage.PromptTokens))
	metrics.TokensOutput.WithLabelValues(provider, model).Add(float64(usage.CompletionTokens))
}

func isGreeting(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, pattern := range greetingPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func lookupErrorMessage(err error) string {
	switch {
	case errors.Is(err, solsniffer.ErrTokenNotFound):
		return "This contract address was not found. Please verify the address is correct."
	case errors.Is(err, solsniffer.ErrRateLimited):
		return "API rate limit exceeded. Please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The API request timed out. Please try again."
	default:
		return "Could not connect to the token analysis service. Please try again later."
	}
}

func shortAddress(address string) string {
	if len(address) <= 16 {
		return address
	}
	return address[:8] + "..." + address[len(address)-8:]
}

// tokenData is the TOKEN_DATA event payload.
type tokenData struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	RiskScore int    `json:"risk_score"`
	RiskLevel string `json:"risk_level"`
}

// record is the cached result of one full analysis run.
type record struct {
	Report   json.RawMessage `json:"report"`
	Analysis string          `json:"analysis"`
	Verdict  string          `json:"verdict"`
}
