/*
importexport.go - The JSON array boundary

Export is the backup format: a pretty-printed JSON array of exercise
records, byte-compatible with the original client's export file.

Import is all-or-nothing at the payload level and forgiving at the
record level: a payload that isn't a JSON array is a fatal import
error and existing state is untouched; individual records with
missing or invalid fields are repaired with safe defaults
(dailyTarget >= 1, remaining >= 0, history defaulting to {}). Only
after the whole batch normalizes does it replace the collection.
*/
package tracker

import (
	"context"
	"encoding/json"

	"github.com/warp/quota-engine/exercise"
)

// Export serializes the current collection.
func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return json.MarshalIndent(t.list, "", "  ")
}

// Import replaces the collection with the normalized payload.
// Returns an error wrapping exercise.ErrInvalidImport (with a
// human-readable cause) for non-array payloads; in that case nothing
// is mutated.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &exercise.ImportError{Reason: "expected a JSON array of exercises"}
	}
	// JSON null unmarshals into a nil slice without error; it is not an
	// array and must not wipe the collection.
	if raw == nil {
		return &exercise.ImportError{Reason: "expected a JSON array of exercises, got null"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now()
	list := make([]*exercise.Exercise, 0, len(raw))
	for _, entry := range raw {
		e := &exercise.Exercise{}
		// Non-object entries decode to nothing and fall through to
		// Normalize, which rebuilds them as safe defaults - per-record
		// damage is never fatal to the batch.
		_ = json.Unmarshal(entry, e)
		e.Normalize(today)
		list = append(list, e)
	}

	t.list = list
	t.persist(ctx)
	return nil
}
