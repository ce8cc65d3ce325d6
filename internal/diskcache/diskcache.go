// Package diskcache provides a file-backed response cache with per-entry
// TTL expiry. Each entry is stored as one JSON file under the cache
// directory, named by the hex SHA-256 of its key, so arbitrary keys
// (verse references, contract addresses) are safe as filenames.
//
// The cache is best-effort by design: there is no locking beyond what the
// filesystem provides, concurrent writers to the same key race with
// last-write-wins semantics, and a corrupt or unreadable entry is simply
// treated as absent.
package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache is the read/write contract shared by the disk store and the Nop
// stand-in used when caching is disabled.
type Cache interface {
	// Get returns the value stored under key, or false if the key is
	// absent, unreadable, or expired. Expired entries are never returned.
	Get(key string) (json.RawMessage, bool)
	// Set stores value under key with the given TTL, overwriting any
	// prior entry for the same key.
	Set(key string, value json.RawMessage, ttl time.Duration) error
	// Delete removes the entry for key and reports whether one existed.
	Delete(key string) bool
	// Clear removes all entries and returns how many were removed.
	Clear() (int, error)
}

// entry is the on-disk envelope written for every cached value. An entry
// is valid while now < CreatedAt + TTL; afterwards it is logically absent
// and removed the next time it is read or swept.
type entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	TTL       time.Duration   `json:"ttl"`
}

func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.CreatedAt.Add(e.TTL))
}

// Store is a disk-backed Cache rooted at a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// New creates the cache directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = ".cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("diskcache: create cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the directory the store writes under.
func (s *Store) Dir() string { return s.dir }

// path maps a key to its entry file. Keys are hashed so that references
// like "1 Corinthians 13:4" or raw base58 addresses need no escaping.
func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the value stored under key. Expired entries are unlinked on
// read and reported as absent; stale data is never returned.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.expired(s.now()) {
		_ = os.Remove(s.path(key))
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key with the given TTL, overwriting any prior
// entry. A non-positive TTL stores an entry that is already expired.
func (s *Store) Set(key string, value json.RawMessage, ttl time.Duration) error {
	e := entry{
		Key:       key,
		Value:     value,
		CreatedAt: s.now().UTC(),
		TTL:       ttl,
	}
	data, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("diskcache: encode entry for %q: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("diskcache: write entry for %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key and reports whether one existed.
func (s *Store) Delete(key string) bool {
	err := os.Remove(s.path(key))
	return err == nil
}

// Clear removes every entry file and returns how many were removed.
func (s *Store) Clear() (int, error) {
	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range files {
		if err := os.Remove(f); err == nil {
			count++
		}
	}
	return count, nil
}

// Purge sweeps the directory removing expired entries. Entries that can
// no longer be decoded are removed as well, since they can never be
// served. Returns the number of files removed.
func (s *Store) Purge() (int, error) {
	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	now := s.now()
	count := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.expired(now) {
			if os.Remove(f) == nil {
				count++
			}
		}
	}
	return count, nil
}

// Len returns the number of entry files currently on disk, including any
// that have expired but not yet been swept.
func (s *Store) Len() int {
	files, err := s.entryFiles()
	if err != nil {
		return 0
	}
	return len(files)
}

// Stats summarises the on-disk state for operator tooling.
type Stats struct {
	// Entries is the number of entry files present.
	Entries int
	// Expired is how many of those entries have outlived their TTL.
	Expired int
	// Bytes is the total size of all entry files.
	Bytes int64
	// Oldest is the CreatedAt of the oldest entry, zero when empty.
	Oldest time.Time
}

// Stats walks the cache directory and reports entry counts, total size,
// and the age of the oldest entry.
func (s *Store) Stats() (Stats, error) {
	files, err := s.entryFiles()
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	now := s.now()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()

		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			st.Expired++
			continue
		}
		if e.expired(now) {
			st.Expired++
		}
		if st.Oldest.IsZero() || e.CreatedAt.Before(st.Oldest) {
			st.Oldest = e.CreatedAt
		}
	}
	return st, nil
}

// entryFiles lists the .json entry files directly under the cache dir.
func (s *Store) entryFiles() ([]string, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("diskcache: read cache dir %s: %w", s.dir, err)
	}
	var files []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(s.dir, d.Name()))
	}
	return files, nil
}

// GetJSON reads the entry for key and unmarshals it into v. It returns
// false when the entry is absent, expired, or cannot be decoded into v.
func GetJSON(c Cache, key string, v any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// SetJSON marshals v and stores it under key with the given TTL.
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("diskcache: encode value for %q: %w", key, err)
	}
	return c.Set(key, raw, ttl)
}
