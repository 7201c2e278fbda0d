// Package state is the session's opaque key/value store, held as a single
// JSON document. Keys are gjson paths: "selection.ids" nests "ids" under
// "selection".
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a document is not a JSON object.
var ErrInvalidJSON = errors.New("state is not a valid JSON object")

// Store is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	doc string
}

// New returns an empty store.
func New() *Store {
	return &Store{doc: "{}"}
}

func (s *Store) get(key string) gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, key)
}

// Get returns the value under key decoded into Go values (numbers become
// float64, objects map[string]any), or def when absent.
func (s *Store) Get(key string, def any) any {
	r := s.get(key)
	if !r.Exists() {
		return def
	}
	return r.Value()
}

// Has reports whether key is set.
func (s *Store) Has(key string) bool {
	return s.get(key).Exists()
}

// String returns the value under key as a string, or def when absent.
func (s *Store) String(key, def string) string {
	r := s.get(key)
	if !r.Exists() {
		return def
	}
	return r.String()
}

// Int returns the value under key as an int, or def when absent.
func (s *Store) Int(key string, def int) int {
	r := s.get(key)
	if !r.Exists() {
		return def
	}
	return int(r.Int())
}

// Bool returns the value under key as a bool, or def when absent.
func (s *Store) Bool(key string, def bool) bool {
	r := s.get(key)
	if !r.Exists() {
		return def
	}
	return r.Bool()
}

// Ints returns the array under key as ints. Absent keys yield nil.
func (s *Store) Ints(key string) []int {
	r := s.get(key)
	if !r.IsArray() {
		return nil
	}
	var out []int
	for _, v := range r.Array() {
		out = append(out, int(v.Int()))
	}
	return out
}

// Raw returns the raw JSON under key.
func (s *Store) Raw(key string) (string, bool) {
	r := s.get(key)
	return r.Raw, r.Exists()
}

// Set stores value under key, creating intermediate objects.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.Set(s.doc, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	s.doc = doc
	return nil
}

// SetRaw stores already encoded JSON under key.
func (s *Store) SetRaw(key, raw string) error {
	if !gjson.Valid(raw) {
		return fmt.Errorf("failed to set %q: %w", key, ErrInvalidJSON)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.SetRaw(s.doc, key, raw)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	s.doc = doc
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.Delete(s.doc, key)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	s.doc = doc
	return nil
}

// ToJSON returns the whole document.
func (s *Store) ToJSON() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// FromJSON replaces the whole document. data must be a JSON object.
func (s *Store) FromJSON(data string) error {
	if !gjson.Valid(data) || !gjson.Parse(data).IsObject() {
		return ErrInvalidJSON
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = string(pretty.Ugly([]byte(data)))
	return nil
}

// Load reads a store from path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := New()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if err := s.FromJSON(string(data)); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	return s, nil
}

// Save writes the store to path, indented, replacing the file atomically.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data := pretty.Pretty([]byte(s.ToJSON()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
