package qdrant_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"textile-assistant/internal/vectorstore"
	"textile-assistant/internal/vectorstore/qdrant"
)

// fakeQdrant serves just enough of the REST surface for Add: point retrieve
// (POST points) and upsert (PUT points). It counts round-trips per endpoint.
type fakeQdrant struct {
	retrieves     int
	upserts       int
	allIDsPresent bool // retrieve echoes every requested id back as existing
}

func (f *fakeQdrant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/points"):
		f.retrieves++
		var req struct {
			IDs []json.Number `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type point struct {
			ID json.Number `json:"id"`
		}
		var result []point
		if f.allIDsPresent {
			for _, id := range req.IDs {
				result = append(result, point{ID: id})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": result})

	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/points"):
		f.upserts++
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{}})

	default:
		http.Error(w, "unexpected call: "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	}
}

func testRecords(n int) []vectorstore.Record {
	records := make([]vectorstore.Record, n)
	for i := range records {
		records[i] = vectorstore.Record{
			ID:       fmt.Sprintf("order_%d", i+1),
			Document: fmt.Sprintf("order %d", i+1),
			Metadata: map[string]any{"vendor_name": "Sakthi Traders"},
			Vector:   []float64{1, 0, 0},
		}
	}
	return records
}

func TestStore_Add_SingleRetrievePerBatch(t *testing.T) {
	fake := &fakeQdrant{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s := qdrant.New(qdrant.Config{URL: srv.URL, Collection: "textile_orders"})
	if err := s.Add(context.Background(), testRecords(50)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if fake.retrieves != 1 {
		t.Errorf("duplicate check made %d retrieve calls for one batch, want 1", fake.retrieves)
	}
	if fake.upserts != 1 {
		t.Errorf("upserts = %d, want 1", fake.upserts)
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	fake := &fakeQdrant{allIDsPresent: true}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s := qdrant.New(qdrant.Config{URL: srv.URL, Collection: "textile_orders"})
	err := s.Add(context.Background(), testRecords(3))
	if !errors.Is(err, vectorstore.ErrDuplicateID) {
		t.Fatalf("Add = %v, want ErrDuplicateID", err)
	}
	if !strings.Contains(err.Error(), "order_") {
		t.Errorf("error does not name the duplicate record: %v", err)
	}
	if fake.upserts != 0 {
		t.Errorf("upsert ran despite duplicate: %d", fake.upserts)
	}
}

func TestStore_Add_Empty(t *testing.T) {
	fake := &fakeQdrant{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s := qdrant.New(qdrant.Config{URL: srv.URL, Collection: "textile_orders"})
	if err := s.Add(context.Background(), nil); err != nil {
		t.Fatalf("Add(nil): %v", err)
	}
	if fake.retrieves != 0 || fake.upserts != 0 {
		t.Errorf("empty add hit the server: %d retrieves, %d upserts", fake.retrieves, fake.upserts)
	}
}
