// Package bible implements the verse explainer agent. It parses a verse
// reference out of the prompt, fetches the text from bible-api.com, and
// asks the LLM for an explanation, streaming it when the provider
// supports that. Verse text and explanations are cached on disk.
package bible

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/halcyon-labs/agentry"
	"github.com/halcyon-labs/agentry/internal/bibleapi"
	"github.com/halcyon-labs/agentry/internal/diskcache"
	"github.com/halcyon-labs/agentry/internal/logging"
	"github.com/halcyon-labs/agentry/internal/metrics"
	"github.com/halcyon-labs/agentry/internal/verseref"
	"github.com/halcyon-labs/agentry/providers"
)

// DisplayName is the user-facing agent name used in greetings.
const DisplayName = "Bible Verse Explainer"

// Event names emitted by this agent beyond the shared STATUS/ERROR.
const (
	eventVerseData   = "VERSE_DATA"
	eventVerseText   = "VERSE_TEXT"
	eventExplanation = "EXPLANATION"
	eventGreeting    = "GREETING"
	eventChat        = "CHAT_RESPONSE"
)

// greetingPatterns flag small talk when no verse reference is present.
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

// Agent looks up and explains Bible verses.
type Agent struct {
	chat        *providers.Chat
	bible       *bibleapi.Client
	cache       diskcache.Cache
	cacheTTL    time.Duration
	translation string
}

// New creates the agent. A nil cache disables caching; an empty
// translation selects DefaultTranslation; a non-positive ttl selects
// DefaultCacheTTL.
func New(chat *providers.Chat, client *bibleapi.Client, cache diskcache.Cache, translation string, cacheTTL time.Duration) *Agent {
	if cache == nil {
		cache = diskcache.Nop{}
	}
	if translation == "" {
		translation = DefaultTranslation
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Agent{chat: chat, bible: client, cache: cache, cacheTTL: cacheTTL, translation: translation}
}

// Name implements agentry.Agent.
func (a *Agent) Name() string { return "bible" }

// Assist implements agentry.Agent.
func (a *Agent) Assist(ctx context.Context, session agentry.Session, query agentry.Query, rh agentry.ResponseHandler) error {
	prompt := strings.TrimSpace(query.Prompt)

	// A prompt like "hello, what does John 3:16 mean?" is a verse
	// request, so the reference check runs before the greeting check.
	if ref, ok := verseref.Extract(prompt); ok {
		logging.FromContext(ctx).Info("explaining verse", "agent", a.Name(), "reference", ref.String())
		return a.assistVerse(ctx, ref, rh)
	}

	if isGreeting(prompt) {
		if err := rh.EmitTextBlock(eventGreeting, greetingText); err != nil {
			return err
		}
		return rh.Complete()
	}

	return a.assistChat(ctx, prompt, rh)
}

func (a *Agent) assistVerse(ctx context.Context, ref verseref.Reference, rh agentry.ResponseHandler) error {
	log := logging.FromContext(ctx)
	key := cacheKey(ref, a.translation)

	var rec record
	if diskcache.GetJSON(a.cache, key, &rec) {
		log.Info("serving cached verse", "agent", a.Name(), "reference", ref.String())
		metrics.CacheOps.WithLabelValues(a.Name(), "hit").Inc()
		if err := a.emitVerse(rh, &rec.Verse); err != nil {
			return err
		}
		if err := rh.EmitTextBlock(eventExplanation, rec.Explanation); err != nil {
			return err
		}
		return rh.Complete()
	}
	metrics.CacheOps.WithLabelValues(a.Name(), "miss").Inc()

	status := fmt.Sprintf("📖 Looking up %s (%s)...", ref.String(), strings.ToUpper(a.translation))
	if err := rh.EmitTextBlock(agentry.EventStatus, status); err != nil {
		return err
	}

	start := time.Now()
	resp, err := a.bible.Lookup(ctx, ref.String(), a.translation)
	metrics.UpstreamDuration.WithLabelValues("bible_api").Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warn("verse lookup failed", "agent", a.Name(), "reference", ref.String(), "error", err)
		msg := "❌ **Error**\n\n" + lookupErrorMessage(ref, err)
		if emitErr := rh.EmitTextBlock(agentry.EventError, msg); emitErr != nil {
			return emitErr
		}
		return rh.Complete()
	}

	if err := a.emitVerse(rh, resp); err != nil {
		return err
	}

	if err := rh.EmitTextBlock(agentry.EventStatus, "🤖 Generating explanation..."); err != nil {
		return err
	}

	explanation, emitted, llmErr := a.explain(ctx, resp, rh)
	if llmErr != nil {
		log.Warn("explanation generation failed", "agent", a.Name(), "error", llmErr)
		if !emitted {
			if err := rh.EmitTextBlock(eventExplanation, explanationFallback); err != nil {
				return err
			}
		}
		return rh.Complete()
	}
	if !emitted {
		if err := rh.EmitTextBlock(eventExplanation, explanation); err != nil {
			return err
		}
	}

	rec = record{Verse: *resp, Explanation: explanation}
	if err := diskcache.SetJSON(a.cache, key, rec, a.cacheTTL); err != nil {
		log.Warn("cache write failed", "agent", a.Name(), "reference", ref.String(), "error", err)
	} else {
		metrics.CacheOps.WithLabelValues(a.Name(), "write").Inc()
	}

	return rh.Complete()
}

// emitVerse sends the VERSE_DATA document followed by the VERSE_TEXT
// block.
func (a *Agent) emitVerse(rh agentry.ResponseHandler, resp *bibleapi.Response) error {
	if err := rh.EmitJSON(eventVerseData, verseData{
		Reference:   resp.Reference,
		Translation: translationLabel(resp),
		Verses:      resp.Verses,
	}); err != nil {
		return err
	}
	return rh.EmitTextBlock(eventVerseText, formatVerse(resp))
}

// explain asks the LLM for the explanation. When the provider streams,
// chunks are forwarded as an EXPLANATION text stream and emitted reports
// true; otherwise the caller emits the returned text as a single block.
func (a *Agent) explain(ctx context.Context, resp *bibleapi.Response, rh agentry.ResponseHandler) (explanation string, emitted bool, err error) {
	user := explainPrompt(resp)

	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(a.chat.Provider().Name()).Observe(time.Since(start).Seconds())
	}()

	chunks, ok, err := a.chat.Stream(ctx, systemPrompt, user)
	if err != nil {
		return "", false, err
	}
	if !ok {
		text, usage, err := a.chat.Complete(ctx, systemPrompt, user)
		if err != nil {
			return "", false, err
		}
		a.countTokens(usage)
		return text, false, nil
	}

	stream := rh.CreateTextStream(eventExplanation)
	var b strings.Builder
	for chunk := range chunks {
		if chunk.Error != nil {
			_ = stream.Complete()
			return b.String(), true, chunk.Error
		}
		text := chunk.Text()
		if text == "" {
			continue
		}
		b.WriteString(text)
		if emitErr := stream.EmitChunk(text); emitErr != nil {
			return b.String(), true, emitErr
		}
	}
	if err := stream.Complete(); err != nil {
		return b.String(), true, err
	}
	return b.String(), true, nil
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

func lookupErrorMessage(ref verseref.Reference, err error) string {
	switch {
	case errors.Is(err, bibleapi.ErrNotFound):
		return fmt.Sprintf("Verse not found: %s. Please check the book name, chapter, and verse.", ref.String())
	case errors.Is(err, context.DeadlineExceeded):
		return "The verse lookup timed out. Please try again."
	default:
		return "Could not reach the Bible API. Please try again later."
	}
}

func cacheKey(ref verseref.Reference, translation string) string {
	return ref.String() + "|" + strings.ToUpper(translation)
}

// formatVerse renders the VERSE_TEXT block.
func formatVerse(resp *bibleapi.Response) string {
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		var parts []string
		for _, v := range resp.Verses {
			parts = append(parts, strings.TrimSpace(v.Text))
		}
		text = strings.Join(parts, " ")
	}
	return fmt.Sprintf("📖 **%s (%s)**\n\n%s", resp.Reference, translationLabel(resp), text)
}

func translationLabel(resp *bibleapi.Response) string {
	if resp.TranslationID != "" {
		return strings.ToUpper(resp.TranslationID)
	}
	return resp.TranslationName
}

// verseData is the VERSE_DATA event payload.
type verseData struct {
	Reference   string           `json:"reference"`
	Translation string           `json:"translation"`
	Verses      []bibleapi.Verse `json:"verses"`
}

// record is the cached verse plus its explanation.
type record struct {
	Verse       bibleapi.Response `json:"verse"`
	Explanation string            `json:"explanation"`
}
