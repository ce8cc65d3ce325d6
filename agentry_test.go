package agentry

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubAgent is a minimal Agent for registry tests.
type stubAgent struct {
	name string
}

func (a *stubAgent) Name() string { return a.name }

func (a *stubAgent) Assist(ctx context.Context, session Session, query Query, rh ResponseHandler) error {
	if err := rh.EmitTextBlock("GREETING", "hello from "+a.name); err != nil {
		return err
	}
	return rh.Complete()
}

func TestHost_RegisterAndGet(t *testing.T) {
	h := NewHost()
	h.Register(&stubAgent{name: "bible"})

	agent, ok := h.Get("bible")
	if !ok {
		t.Fatal("expected agent to be registered")
	}
	if agent.Name() != "bible" {
		t.Errorf("Name() = %q, want %q", agent.Name(), "bible")
	}

	if _, ok := h.Get("missing"); ok {
		t.Error("expected Get to miss for unregistered name")
	}
}

func TestHost_FirstRegisteredIsDefault(t *testing.T) {
	h := NewHost()
	h.Register(&stubAgent{name: "rugpull"})
	h.Register(&stubAgent{name: "bible"})

	agent, ok := h.Default()
	if !ok {
		t.Fatal("expected a default agent")
	}
	if agent.Name() != "rugpull" {
		t.Errorf("default = %q, want %q", agent.Name(), "rugpull")
	}
}

func TestHost_SetDefault(t *testing.T) {
	h := NewHost()
	h.Register(&stubAgent{name: "rugpull"})
	h.Register(&stubAgent{name: "bible"})

	if err := h.SetDefault("bible"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	agent, _ := h.Default()
	if agent.Name() != "bible" {
		t.Errorf("default = %q, want %q", agent.Name(), "bible")
	}
}

func TestHost_SetDefaultUnregistered(t *testing.T) {
	h := NewHost()
	h.Register(&stubAgent{name: "rugpull"})

	if err := h.SetDefault("bible"); err == nil {
		t.Fatal("expected error for unregistered default")
	}
}

func TestHost_DefaultEmpty(t *testing.T) {
	h := NewHost()
	if _, ok := h.Default(); ok {
		t.Error("empty host should have no default")
	}
}

func TestHost_ListSorted(t *testing.T) {
	h := NewHost()
	h.Register(&stubAgent{name: "rugpull"})
	h.Register(&stubAgent{name: "bible"})
	h.Register(&stubAgent{name: "custom"})

	want := []string{"bible", "custom", "rugpull"}
	if diff := cmp.Diff(want, h.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestHost_RegisterReplaces(t *testing.T) {
	h := NewHost()
	first := &stubAgent{name: "bible"}
	second := &stubAgent{name: "bible"}
	h.Register(first)
	h.Register(second)

	agent, _ := h.Get("bible")
	if agent != Agent(second) {
		t.Error("expected second registration to replace the first")
	}
	if got := len(h.List()); got != 1 {
		t.Errorf("List() has %d names, want 1", got)
	}
}
