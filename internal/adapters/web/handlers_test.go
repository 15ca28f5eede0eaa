package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"textile-assistant/internal/adapters/web"
	"textile-assistant/internal/app"
)

// stubService returns canned answers without touching a real store.
type stubService struct {
	count     int
	answerErr error
	addErr    error
}

func (s *stubService) Answer(ctx context.Context, query string) (string, error) {
	if s.answerErr != nil {
		return "", s.answerErr
	}
	return "answer to: " + query, nil
}

func (s *stubService) AddOrder(ctx context.Context, req app.AddOrderRequest) (*app.AddOrderResult, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	if req.VendorName == "" {
		return nil, fmt.Errorf("%w: vendor_name", app.ErrMissingField)
	}
	return &app.AddOrderResult{OrderID: 7}, nil
}

func (s *stubService) Count(ctx context.Context) (int, error) { return s.count, nil }

func (s *stubService) EnsureLoaded(ctx context.Context) (int, error) { return s.count, nil }

func (s *stubService) Reload(ctx context.Context) (int, error) { return s.count, nil }

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	handler := web.NewHandler(&stubService{count: 12}, "")

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Orders int    `json:"orders"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Orders != 12 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandler_Query(t *testing.T) {
	handler := web.NewHandler(&stubService{}, "")

	t.Run("ok", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/query", map[string]string{"query": "orders for sakthi"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Answer != "answer to: orders for sakthi" {
			t.Errorf("answer = %q", resp.Answer)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/query", map[string]string{"query": ""})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "No query provided") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		failing := web.NewHandler(&stubService{answerErr: fmt.Errorf("store down")}, "")
		rec := doJSON(t, failing, http.MethodPost, "/api/query", map[string]string{"query": "anything"})
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "store down") {
			t.Errorf("internal error leaked to client: %s", rec.Body.String())
		}
	})
}

func TestHandler_AddOrder(t *testing.T) {
	handler := web.NewHandler(&stubService{}, "")

	t.Run("ok", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/add", map[string]any{
			"vendor_name": "Sakthi Traders",
			"item_name":   "Cotton Yarn",
			"quantity":    2,
			"unit_price":  100,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Success bool `json:"success"`
			OrderID int  `json:"order_id"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success || resp.OrderID != 7 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/add", map[string]any{"item_name": "Cotton Yarn"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Success || !strings.Contains(resp.Error, "vendor_name") {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		failing := web.NewHandler(&stubService{addErr: fmt.Errorf("store down")}, "")
		rec := doJSON(t, failing, http.MethodPost, "/api/add", map[string]any{
			"vendor_name": "Sakthi Traders",
			"item_name":   "Cotton Yarn",
		})
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestHandler_RequestID(t *testing.T) {
	handler := web.NewHandler(&stubService{}, "")

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Errorf("X-Request-ID header not set")
	}
}

func TestHandler_CORS(t *testing.T) {
	handler := web.NewHandler(&stubService{}, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
