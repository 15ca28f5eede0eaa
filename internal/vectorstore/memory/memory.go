package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"textile-assistant/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force cosine distance.
// It is the default backend for tests and offline runs.
type Store struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]vectorstore.Record
}

func New() *Store {
	return &Store{records: make(map[string]vectorstore.Record)}
}

func (s *Store) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	return nil
}

func (s *Store) Add(_ context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if _, exists := s.records[r.ID]; exists {
			return fmt.Errorf("%w: %s", vectorstore.ErrDuplicateID, r.ID)
		}
		if s.dimension > 0 && len(r.Vector) != s.dimension {
			return fmt.Errorf("vector dimension %d, want %d", len(r.Vector), s.dimension)
		}
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *Store) Get(_ context.Context, filter map[string]string) ([]vectorstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []vectorstore.Record
	for _, r := range s.records {
		if matches(r.Metadata, filter) {
			out = append(out, r)
		}
	}
	// Map iteration order is random; stable id order keeps output reproducible.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Search(_ context.Context, vector []float64, topK int) ([]vectorstore.Scored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	scored := make([]vectorstore.Scored, 0, len(s.records))
	for _, r := range s.records {
		scored = append(scored, vectorstore.Scored{Record: r, Distance: 1 - cosine(r.Vector, vector)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Distance != scored[j].Distance {
			return scored[i].Distance < scored[j].Distance
		}
		return scored[i].ID < scored[j].ID
	})
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]vectorstore.Record)
	return nil
}

func matches(metadata map[string]any, filter map[string]string) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

// cosine returns the cosine similarity of a and b (1 for identical direction).
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
