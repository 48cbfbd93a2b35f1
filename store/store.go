/*
Package store defines the persistence adapter boundary.

PURPOSE:
  The engine persists the whole exercise collection as one serialized
  blob, the way the original client kept it under a single localStorage
  key. The Store interface is deliberately tiny: load everything, save
  everything. There is no per-record CRUD and no merge protocol; across
  concurrent instances, last write wins.

FAILURE CONTRACT:
  Load is fallible-but-silent: implementations return an empty
  collection (never an error) for missing or corrupt data, logging the
  recovery. Save failures ARE returned; the tracker logs them and keeps
  in-memory state authoritative for the session.

IMPLEMENTATIONS:
  - store/memory: single-slot in-memory blob for tests and dev
  - store/sqlite: kv-table blob under the legacy "exerciseList" key
*/
package store

import (
	"context"

	"github.com/warp/quota-engine/exercise"
)

// CollectionKey is the blob key for the exercise collection, kept
// identical to the original client's localStorage key so a copied
// export lands in the same place.
const CollectionKey = "exerciseList"

// Store loads and saves the exercise collection as a unit.
type Store interface {
	// Load returns the persisted collection. Missing or corrupt data
	// yields an empty slice, never an error.
	Load(ctx context.Context) ([]*exercise.Exercise, error)

	// Save persists the full collection, replacing what was there.
	Save(ctx context.Context, list []*exercise.Exercise) error

	// Close releases underlying resources.
	Close() error
}
