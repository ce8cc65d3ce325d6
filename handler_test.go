package agentry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// drain completes the handler and collects every event it produced.
func drain(t *testing.T, h *ChannelHandler) []Event {
	t.Helper()
	if err := h.Complete(); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	var events []Event
	for ev := range h.Events() {
		events = append(events, ev)
	}
	return events
}

func TestChannelHandler_EmitTextBlock(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	if err := h.EmitTextBlock("VERSE_TEXT", "For God so loved the world"); err != nil {
		t.Fatalf("EmitTextBlock() error = %v", err)
	}

	events := drain(t, h)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	ev := events[0]
	if ev.Name != "VERSE_TEXT" {
		t.Errorf("Name = %q, want %q", ev.Name, "VERSE_TEXT")
	}
	if ev.ContentType != ContentTextBlock {
		t.Errorf("ContentType = %q, want %q", ev.ContentType, ContentTextBlock)
	}
	if ev.Content != "For God so loved the world" {
		t.Errorf("Content = %q", ev.Content)
	}
	if ev.Source != "bible" {
		t.Errorf("Source = %q, want %q", ev.Source, "bible")
	}
	if ev.ID == "" {
		t.Error("ID is empty")
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestChannelHandler_EmitJSON(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	payload := map[string]any{"book": "John", "chapter": 3}
	if err := h.EmitJSON("VERSE_DATA", payload); err != nil {
		t.Fatalf("EmitJSON() error = %v", err)
	}

	events := drain(t, h)
	ev := events[0]
	if ev.ContentType != ContentJSON {
		t.Errorf("ContentType = %q, want %q", ev.ContentType, ContentJSON)
	}

	var got map[string]any
	if err := json.Unmarshal(ev.Data, &got); err != nil {
		t.Fatalf("unmarshal event data: %v", err)
	}
	if got["book"] != "John" {
		t.Errorf("data book = %v, want John", got["book"])
	}
	if got["chapter"] != float64(3) {
		t.Errorf("data chapter = %v, want 3", got["chapter"])
	}
}

func TestChannelHandler_EmitJSON_Unmarshalable(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	if err := h.EmitJSON("VERSE_DATA", func() {}); err == nil {
		t.Fatal("expected error for unmarshalable payload, got nil")
	}
}

func TestChannelHandler_EmitError(t *testing.T) {
	h := NewChannelHandler(context.Background(), "rugpull")

	if err := h.EmitError(502, "token lookup failed"); err != nil {
		t.Fatalf("EmitError() error = %v", err)
	}

	events := drain(t, h)
	ev := events[0]
	if ev.Name != EventError {
		t.Errorf("Name = %q, want %q", ev.Name, EventError)
	}
	if ev.ContentType != ContentError {
		t.Errorf("ContentType = %q, want %q", ev.ContentType, ContentError)
	}
	if ev.Error == nil {
		t.Fatal("Error detail is nil")
	}
	if ev.Error.Code != 502 {
		t.Errorf("Error.Code = %d, want 502", ev.Error.Code)
	}
	if ev.Error.Message != "token lookup failed" {
		t.Errorf("Error.Message = %q", ev.Error.Message)
	}
}

func TestChannelHandler_Complete(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	events := drain(t, h)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	done := events[0]
	if done.Name != EventDone {
		t.Errorf("Name = %q, want %q", done.Name, EventDone)
	}
	if done.ContentType != ContentDone {
		t.Errorf("ContentType = %q, want %q", done.ContentType, ContentDone)
	}
	if !done.IsComplete {
		t.Error("IsComplete = false, want true")
	}

	// Channel must be closed after the done event.
	if _, ok := <-h.Events(); ok {
		t.Error("events channel still open after Complete")
	}
}

func TestChannelHandler_EmitAfterComplete(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")
	drain(t, h)

	if err := h.EmitTextBlock("VERSE_TEXT", "late"); !errors.Is(err, ErrCompleted) {
		t.Errorf("EmitTextBlock() error = %v, want ErrCompleted", err)
	}
	if err := h.EmitError(500, "late"); !errors.Is(err, ErrCompleted) {
		t.Errorf("EmitError() error = %v, want ErrCompleted", err)
	}
	if err := h.Complete(); !errors.Is(err, ErrCompleted) {
		t.Errorf("second Complete() error = %v, want ErrCompleted", err)
	}
}

func TestChannelHandler_EventOrder(t *testing.T) {
	h := NewChannelHandler(context.Background(), "rugpull")

	if err := h.EmitTextBlock("STATUS", "analyzing"); err != nil {
		t.Fatal(err)
	}
	if err := h.EmitTextBlock("ANALYSIS", "report"); err != nil {
		t.Fatal(err)
	}
	if err := h.EmitTextBlock("AI_VERDICT", "verdict"); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, ev := range drain(t, h) {
		names = append(names, ev.Name)
	}
	want := []string{"STATUS", "ANALYSIS", "AI_VERDICT", EventDone}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelHandler_TextStream(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	stream := h.CreateTextStream("EXPLANATION")
	if stream.ID() == "" {
		t.Fatal("stream ID is empty")
	}
	for _, chunk := range []string{"In ", "the ", "beginning"} {
		if err := stream.EmitChunk(chunk); err != nil {
			t.Fatalf("EmitChunk(%q) error = %v", chunk, err)
		}
	}
	if err := stream.Complete(); err != nil {
		t.Fatalf("stream Complete() error = %v", err)
	}

	events := drain(t, h)
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}

	var text string
	for _, ev := range events[:4] {
		if ev.ContentType != ContentTextChunk {
			t.Errorf("ContentType = %q, want %q", ev.ContentType, ContentTextChunk)
		}
		if ev.StreamID != stream.ID() {
			t.Errorf("StreamID = %q, want %q", ev.StreamID, stream.ID())
		}
		text += ev.Content
	}
	if text != "In the beginning" {
		t.Errorf("assembled text = %q, want %q", text, "In the beginning")
	}

	final := events[3]
	if !final.IsComplete {
		t.Error("final chunk IsComplete = false, want true")
	}
	if final.Content != "" {
		t.Errorf("final chunk Content = %q, want empty", final.Content)
	}
}

func TestChannelHandler_TextStreamCompleteTwice(t *testing.T) {
	h := NewChannelHandler(context.Background(), "bible")

	stream := h.CreateTextStream("EXPLANATION")
	if err := stream.Complete(); err != nil {
		t.Fatalf("stream Complete() error = %v", err)
	}
	if err := stream.Complete(); !errors.Is(err, ErrCompleted) {
		t.Errorf("second stream Complete() error = %v, want ErrCompleted", err)
	}
	if err := stream.EmitChunk("late"); !errors.Is(err, ErrCompleted) {
		t.Errorf("EmitChunk() after Complete error = %v, want ErrCompleted", err)
	}
}

func TestChannelHandler_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewChannelHandler(ctx, "bible")

	// Fill the buffer so the next emit must block, then cancel the
	// context so it fails instead of blocking forever.
	for i := 0; i < eventBuffer; i++ {
		if err := h.EmitTextBlock("STATUS", "fill"); err != nil {
			t.Fatalf("EmitTextBlock(%d) error = %v", i, err)
		}
	}
	cancel()

	if err := h.EmitTextBlock("STATUS", "overflow"); !errors.Is(err, context.Canceled) {
		t.Errorf("EmitTextBlock() error = %v, want context.Canceled", err)
	}
	if err := h.Complete(); !errors.Is(err, context.Canceled) {
		t.Errorf("Complete() error = %v, want context.Canceled", err)
	}

	// The channel is still closed so a draining consumer terminates.
	n := 0
	for range h.Events() {
		n++
	}
	if n != eventBuffer {
		t.Errorf("drained %d buffered events, want %d", n, eventBuffer)
	}
}
