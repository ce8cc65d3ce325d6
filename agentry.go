// Package agentry hosts conversational agents behind a streaming assist
// API. An Agent receives a session and a query, does its work against
// whatever upstreams it needs, and emits named events through a
// ResponseHandler; the caller drains those events and forwards them to
// the client, typically as Server-Sent Events.
package agentry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Agent is the unit of work hosted by a Host. Assist processes one query
// and emits its results through rh. Implementations must call rh.Complete
// (or return an error and let the host complete the stream) before
// returning, and must not retain rh afterwards.
//
// Assist is called once per request; the host never runs two Assist calls
// concurrently on the same ResponseHandler. Agents should honor ctx
// cancellation on every blocking step.
type Agent interface {
	// Name returns the stable identifier the agent is registered under,
	// e.g. "bible" or "rugpull".
	Name() string

	// Assist handles a single query.
	Assist(ctx context.Context, session Session, query Query, rh ResponseHandler) error
}

// Host is a registry of named agents. A zero Host is not usable; create
// one with NewHost.
type Host struct {
	mu          sync.RWMutex
	agents      map[string]Agent
	defaultName string
}

// NewHost creates an empty agent registry.
func NewHost() *Host {
	return &Host{agents: make(map[string]Agent)}
}

// Register adds an agent under its Name. Registering the same name twice
// replaces the earlier agent.
func (h *Host) Register(agent Agent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.agents[agent.Name()] = agent
	if h.defaultName == "" {
		h.defaultName = agent.Name()
	}
	slog.Debug("agent registered", "agent", agent.Name())
}

// Get returns the agent registered under name.
func (h *Host) Get(name string) (Agent, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	agent, ok := h.agents[name]
	return agent, ok
}

// SetDefault marks the agent that handles requests which do not name one.
// The agent must already be registered.
func (h *Host) SetDefault(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.agents[name]; !ok {
		return fmt.Errorf("agentry: default agent %q not registered", name)
	}
	h.defaultName = name
	return nil
}

// Default returns the default agent. If none was set explicitly, the
// first registered agent is the default.
func (h *Host) Default() (Agent, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	agent, ok := h.agents[h.defaultName]
	return agent, ok
}

// List returns the registered agent names in sorted order.
func (h *Host) List() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.agents))
	for name := range h.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
