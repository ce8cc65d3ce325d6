package providers

import (
	"context"
	"errors"
	"time"
)

// DefaultChatTimeout bounds a single completion round-trip when the
// ChatConfig does not set one.
const DefaultChatTimeout = 30 * time.Second

// ChatConfig carries the model and sampling parameters a Chat applies to
// every exchange.
type ChatConfig struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// Chat binds a Provider to a model and sampling parameters so callers
// can issue one-shot system+user exchanges without assembling requests.
type Chat struct {
	provider Provider
	cfg      ChatConfig
}

// NewChat creates a Chat over p. cfg.Model is required by the underlying
// providers; zero sampling values are omitted from requests so provider
// defaults apply.
func NewChat(p Provider, cfg ChatConfig) *Chat {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultChatTimeout
	}
	return &Chat{provider: p, cfg: cfg}
}

// Provider returns the underlying provider.
func (c *Chat) Provider() Provider { return c.provider }

// Model returns the model every exchange runs against.
func (c *Chat) Model() string { return c.cfg.Model }

// CanStream reports whether the underlying provider supports streaming.
func (c *Chat) CanStream() bool {
	_, ok := c.provider.(StreamProvider)
	return ok
}

// Complete sends one system+user exchange and returns the first choice's
// content.
func (c *Chat) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.provider.Complete(ctx, c.request(system, user, false))
	if err != nil {
		return "", Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", resp.Usage, errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, resp.Usage, nil
}

// Stream sends one system+user exchange as a streaming request. ok is
// false when the provider cannot stream; the caller falls back to
// Complete. The returned channel closes when the stream ends or the
// timeout elapses.
func (c *Chat) Stream(ctx context.Context, system, user string) (chunks <-chan StreamChunk, ok bool, err error) {
	sp, isStream := c.provider.(StreamProvider)
	if !isStream {
		return nil, false, nil
	}

	sctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	upstream, err := sp.CompleteStream(sctx, c.request(system, user, true))
	if err != nil {
		cancel()
		return nil, true, err
	}

	out := make(chan StreamChunk)
	go func() {
		defer cancel()
		defer close(out)
		for chunk := range upstream {
			select {
			case out <- chunk:
			case <-sctx.Done():
				// Drain so the provider goroutine can finish; the
				// cancelled context ends its upstream read promptly.
				for range upstream { //nolint:revive
				}
				return
			}
		}
	}()
	return out, true, nil
}

func (c *Chat) request(system, user string, stream bool) Request {
	req := Request{
		Model:  c.cfg.Model,
		Stream: stream,
	}
	if system != "" {
		req.Messages = append(req.Messages, Message{Role: RoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, Message{Role: RoleUser, Content: user})

	if c.cfg.MaxTokens > 0 {
		mt := c.cfg.MaxTokens
		req.MaxTokens = &mt
	}
	if c.cfg.Temperature > 0 {
		t := c.cfg.Temperature
		req.Temperature = &t
	}
	if c.cfg.TopP > 0 {
		tp := c.cfg.TopP
		req.TopP = &tp
	}
	return req
}
