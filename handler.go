package agentry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCompleted is returned by emit calls made after the response stream
// was completed.
var ErrCompleted = errors.New("agentry: response stream already completed")

// ResponseHandler is the emission surface an Agent writes its response
// through. Emits become Events in the order they are made; Complete ends
// the stream with a final done event. After Complete every emit fails
// with ErrCompleted.
type ResponseHandler interface {
	// EmitTextBlock emits a complete piece of text under the given event
	// name.
	EmitTextBlock(name, content string) error

	// EmitJSON marshals v and emits it as a JSON document event.
	EmitJSON(name string, v any) error

	// EmitError reports a user-facing failure. The stream stays open;
	// the agent decides whether to continue or Complete.
	EmitError(code int, message string) error

	// CreateTextStream opens a chunked text response under the given
	// event name. Chunks share a stream ID; the stream's Complete emits
	// a final marker chunk.
	CreateTextStream(name string) TextStream

	// Complete ends the response with a done event.
	Complete() error
}

// TextStream emits one streamed text response chunk by chunk.
type TextStream interface {
	// ID returns the stream identifier shared by all chunks.
	ID() string

	// EmitChunk emits the next text fragment.
	EmitChunk(content string) error

	// Complete emits the final marker chunk. The parent response stays
	// open.
	Complete() error
}

// eventBuffer is the channel capacity of a ChannelHandler. The HTTP
// layer drains continuously, so the buffer only absorbs short bursts.
const eventBuffer = 32

// ChannelHandler is a ResponseHandler backed by a buffered channel. The
// producing agent emits on one side; the transport drains Events() on
// the other until it is closed by Complete.
//
// Emits block when the buffer is full and fail once ctx is done, so a
// disconnected client cannot leak the producing goroutine.
type ChannelHandler struct {
	ctx    context.Context
	source string

	mu     sync.Mutex
	done   bool
	events chan Event
}

// NewChannelHandler creates a handler whose events carry source as their
// origin. ctx is typically the inbound request context.
func NewChannelHandler(ctx context.Context, source string) *ChannelHandler {
	return &ChannelHandler{
		ctx:    ctx,
		source: source,
		events: make(chan Event, eventBuffer),
	}
}

// Events returns the stream side of the handler. It is closed by
// Complete.
func (h *ChannelHandler) Events() <-chan Event {
	return h.events
}

// EmitTextBlock implements ResponseHandler.
func (h *ChannelHandler) EmitTextBlock(name, content string) error {
	ev := h.newEvent(name, ContentTextBlock)
	ev.Content = content
	return h.send(ev)
}

// EmitJSON implements ResponseHandler.
func (h *ChannelHandler) EmitJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("agentry: marshal %s payload: %w", name, err)
	}
	ev := h.newEvent(name, ContentJSON)
	ev.Data = data
	return h.send(ev)
}

// EmitError implements ResponseHandler.
func (h *ChannelHandler) EmitError(code int, message string) error {
	ev := h.newEvent(EventError, ContentError)
	ev.Error = &ErrorDetail{Code: code, Message: message}
	return h.send(ev)
}

// CreateTextStream implements ResponseHandler.
func (h *ChannelHandler) CreateTextStream(name string) TextStream {
	return &textStream{h: h, name: name, streamID: uuid.NewString()}
}

// Complete implements ResponseHandler. It emits the done event and
// closes the event channel.
func (h *ChannelHandler) Complete() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return ErrCompleted
	}
	h.done = true

	ev := h.newEvent(EventDone, ContentDone)
	ev.IsComplete = true
	select {
	case h.events <- ev:
		close(h.events)
		return nil
	case <-h.ctx.Done():
		close(h.events)
		return h.ctx.Err()
	}
}

func (h *ChannelHandler) newEvent(name string, ct ContentType) Event {
	return Event{
		ID:          uuid.NewString(),
		Source:      h.source,
		Name:        name,
		ContentType: ct,
		Timestamp:   time.Now().UTC(),
	}
}

func (h *ChannelHandler) send(ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return ErrCompleted
	}
	select {
	case h.events <- ev:
		return nil
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}

type textStream struct {
	h        *ChannelHandler
	name     string
	streamID string

	mu       sync.Mutex
	complete bool
}

func (s *textStream) ID() string { return s.streamID }

func (s *textStream) EmitChunk(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return ErrCompleted
	}
	ev := s.h.newEvent(s.name, ContentTextChunk)
	ev.Content = content
	ev.StreamID = s.streamID
	return s.h.send(ev)
}

func (s *textStream) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return ErrCompleted
	}
	s.complete = true
	ev := s.h.newEvent(s.name, ContentTextChunk)
	ev.StreamID = s.streamID
	ev.IsComplete = true
	return s.h.send(ev)
}
