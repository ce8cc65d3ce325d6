package agentry

import (
	"fmt"

	"github.com/google/uuid"
)

// Session identifies the conversation an assist request belongs to and
// carries any prior turns the client chose to send along. All fields are
// optional; missing identifiers are filled in by FillDefaults.
type Session struct {
	ProcessorID  string        `json:"processor_id,omitempty"`
	ActivityID   string        `json:"activity_id,omitempty"`
	RequestID    string        `json:"request_id,omitempty"`
	Interactions []Interaction `json:"interactions,omitempty"`
}

// Interaction is one earlier query/response pair in the session.
type Interaction struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Query carries the user's prompt for a single assist turn.
type Query struct {
	ID     string `json:"id,omitempty"`
	Prompt string `json:"prompt"`
}

// Request is the envelope accepted by the assist endpoint.
type Request struct {
	Query   Query   `json:"query"`
	Session Session `json:"session"`
}

// Validate reports whether the request can be dispatched to an agent.
func (r *Request) Validate() error {
	if r.Query.Prompt == "" {
		return fmt.Errorf("agentry: query.prompt is required")
	}
	return nil
}

// FillDefaults generates identifiers for any the client left blank so
// that downstream logging and event attribution always have stable IDs.
func (r *Request) FillDefaults() {
	if r.Query.ID == "" {
		r.Query.ID = uuid.NewString()
	}
	if r.Session.ProcessorID == "" {
		r.Session.ProcessorID = uuid.NewString()
	}
	if r.Session.ActivityID == "" {
		r.Session.ActivityID = uuid.NewString()
	}
	if r.Session.RequestID == "" {
		r.Session.RequestID = uuid.NewString()
	}
}
