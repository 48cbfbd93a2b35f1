// Package memory provides an in-memory Store for tests and dev runs.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/warp/quota-engine/exercise"
)

// Store keeps the collection blob in memory. It round-trips through
// JSON on every call so tests exercise the same serialization path as
// the sqlite store and callers can't share mutable state with it.
type Store struct {
	mu   sync.Mutex
	blob []byte

	// SaveErr, when set, is returned by every Save. Tests use it to
	// drive the save-failure path (storage disabled / quota exceeded).
	SaveErr error

	// Saves counts successful Save calls.
	Saves int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) ([]*exercise.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.blob) == 0 {
		return []*exercise.Exercise{}, nil
	}
	var list []*exercise.Exercise
	if err := json.Unmarshal(s.blob, &list); err != nil {
		return []*exercise.Exercise{}, nil
	}
	if list == nil {
		list = []*exercise.Exercise{}
	}
	return list, nil
}

func (s *Store) Save(_ context.Context, list []*exercise.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	blob, err := json.Marshal(list)
	if err != nil {
		return err
	}
	s.blob = blob
	s.Saves++
	return nil
}

func (s *Store) Close() error { return nil }

// Corrupt replaces the stored blob with junk, for load-recovery tests.
func (s *Store) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = []byte("{not json")
}
