package diskcache

import (
	"encoding/json"
	"time"
)

// Nop is a Cache that stores nothing. It stands in for the disk store
// when caching is disabled so callers need no enabled/disabled branches.
type Nop struct{}

// Get always reports absent.
func (Nop) Get(string) (json.RawMessage, bool) { return nil, false }

// Set discards the value.
func (Nop) Set(string, json.RawMessage, time.Duration) error { return nil }

// Delete reports that nothing was removed.
func (Nop) Delete(string) bool { return false }

// Clear reports that nothing was removed.
func (Nop) Clear() (int, error) { return 0, nil }
