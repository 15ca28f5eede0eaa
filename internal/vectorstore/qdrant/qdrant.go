package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"textile-assistant/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant. It assumes cosine distance and
// creates the collection on Init if missing. Record ids map to point ids;
// the document text travels in the payload next to the metadata fields.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 if the collection already exists with the same schema.
	return s.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

func (s *Store) Add(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	// Qdrant upsert silently overwrites, so existing ids are checked first,
	// with a single batched retrieve per call.
	dup, err := s.firstExisting(ctx, records)
	if err != nil {
		return err
	}
	if dup != "" {
		return fmt.Errorf("%w: %s", vectorstore.ErrDuplicateID, dup)
	}
	points := make([]map[string]any, len(records))
	for i, r := range records {
		payload := map[string]any{"_id": r.ID, "_document": r.Document}
		for k, v := range r.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id":      pointID(r.ID),
			"vector":  r.Vector,
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	return s.do(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) Get(ctx context.Context, filter map[string]string) ([]vectorstore.Record, error) {
	var must []map[string]any
	for k, v := range filter {
		must = append(must, map[string]any{
			"key":   k,
			"match": map[string]any{"value": v},
		})
	}

	var out []vectorstore.Record
	var offset any
	for {
		req := map[string]any{
			"limit":        256,
			"with_payload": true,
		}
		if len(must) > 0 {
			req["filter"] = map[string]any{"must": must}
		}
		if offset != nil {
			req["offset"] = offset
		}
		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		url := fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection)
		if err := s.do(ctx, http.MethodPost, url, req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Result.Points {
			out = append(out, recordFromPayload(p.Payload))
		}
		if resp.Result.NextPageOffset == nil {
			return out, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

func (s *Store) Search(ctx context.Context, vector []float64, topK int) ([]vectorstore.Scored, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}
	out := make([]vectorstore.Scored, 0, len(resp.Result))
	for _, r := range resp.Result {
		out = append(out, vectorstore.Scored{
			Record: recordFromPayload(r.Payload),
			// Cosine score is a similarity; callers expect a distance.
			Distance: 1 - r.Score,
		})
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection)
	if err := s.do(ctx, http.MethodPost, url, map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Store) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	if err := s.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return err
	}
	return s.Init(ctx, s.dimension)
}

// firstExisting retrieves all point ids for records in one request and
// returns the first record id already present, or "".
func (s *Store) firstExisting(ctx context.Context, records []vectorstore.Record) (string, error) {
	ids := make([]any, len(records))
	byPoint := make(map[string]string, len(records))
	for i, r := range records {
		pid := pointID(r.ID)
		ids[i] = pid
		byPoint[strconv.FormatUint(pid, 10)] = r.ID
	}
	var resp struct {
		Result []struct {
			// Point ids exceed float64's integer range, so decode as Number.
			ID json.Number `json:"id"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points", s.url, s.collection)
	if err := s.do(ctx, http.MethodPost, url, map[string]any{"ids": ids}, &resp); err != nil {
		return "", err
	}
	for _, p := range resp.Result {
		if id, ok := byPoint[p.ID.String()]; ok {
			return id, nil
		}
	}
	return "", nil
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func recordFromPayload(payload map[string]any) vectorstore.Record {
	r := vectorstore.Record{Metadata: make(map[string]any)}
	for k, v := range payload {
		switch k {
		case "_id":
			if s, ok := v.(string); ok {
				r.ID = s
			}
		case "_document":
			if s, ok := v.(string); ok {
				r.Document = s
			}
		default:
			r.Metadata[k] = v
		}
	}
	return r
}

// pointID derives a Qdrant-acceptable point id from a record id.
// Qdrant requires uint or UUID ids, so the string id is hashed (FNV-1a 64).
func pointID(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}
