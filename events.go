package agentry

import (
	"encoding/json"
	"time"
)

// ContentType describes the payload shape of an Event on the wire.
type ContentType string

const (
	// ContentTextBlock is a complete piece of text delivered in one event.
	ContentTextBlock ContentType = "atomic.textblock"
	// ContentJSON is a structured document delivered in one event.
	ContentJSON ContentType = "atomic.json"
	// ContentTextChunk is one fragment of a streamed text response.
	ContentTextChunk ContentType = "chunked.text"
	// ContentError reports a failure to the client.
	ContentError ContentType = "atomic.error"
	// ContentDone marks the end of the response stream.
	ContentDone ContentType = "atomic.done"
)

// Event names shared by all agents. Agents define further names for
// their own payloads (VERSE_TEXT, ANALYSIS, ...) next to the code that
// emits them.
const (
	// EventStatus carries progress updates while the agent works.
	EventStatus = "STATUS"
	// EventError carries a user-facing failure report.
	EventError = "ERROR"
	// EventDone terminates the stream. Emitted exactly once, last.
	EventDone = "done"
)

// Event is one frame of an agent's response stream. Content carries text
// payloads, Data carries JSON documents, and Error is set only on
// ContentError events. StreamID groups the chunks of one streamed text,
// with IsComplete set on the final chunk.
type Event struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Name        string          `json:"event_name"`
	ContentType ContentType     `json:"content_type"`
	Content     string          `json:"content,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	StreamID    string          `json:"stream_id,omitempty"`
	IsComplete  bool            `json:"is_complete,omitempty"`
	Error       *ErrorDetail    `json:"error,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ErrorDetail is the payload of a ContentError event.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
