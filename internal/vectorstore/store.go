package vectorstore

import (
	"context"
	"errors"
)

// ErrDuplicateID is returned by Add when a record with the same ID already exists.
var ErrDuplicateID = errors.New("vectorstore: duplicate record id")

// Record is one stored entry: the rendered document text, its flat metadata
// projection, and the embedding vector of the document.
type Record struct {
	ID       string
	Document string
	Metadata map[string]any
	Vector   []float64
}

// Scored is a search hit. Distance grows with semantic dissimilarity;
// results are ordered by increasing distance.
type Scored struct {
	Record
	Distance float64
}

// Store persists records and supports exact-match metadata filtering and
// nearest-neighbor search. Implementations must reject duplicate ids on Add.
type Store interface {
	// Init prepares the backing collection for vectors of the given dimension.
	Init(ctx context.Context, dimension int) error

	// Add inserts records. Fails with ErrDuplicateID if any id already exists.
	Add(ctx context.Context, records []Record) error

	// Get returns records whose metadata matches every key in filter exactly.
	// A nil or empty filter returns all records. Order is not guaranteed.
	Get(ctx context.Context, filter map[string]string) ([]Record, error)

	// Search returns up to topK records ordered by increasing distance.
	Search(ctx context.Context, vector []float64, topK int) ([]Scored, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Reset drops all records, keeping the collection usable.
	Reset(ctx context.Context) error
}
