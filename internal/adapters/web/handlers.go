package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"textile-assistant/internal/app"
	webui "textile-assistant/web"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc        app.ApplicationService
	fileServer http.Handler
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		panic("web/static embed sub-FS failed: " + err.Error())
	}

	h := &Handler{
		svc:        svc,
		fileServer: http.FileServer(http.FS(staticFS)),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/", h.home)
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	r.Get("/api/health", h.health)
	r.Post("/api/query", h.query)
	r.Post("/api/add", h.addOrder)

	return r
}

// home serves the chat UI page.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	r.URL.Path = "/index.html"
	h.fileServer.ServeHTTP(w, r)
}

// health returns service status and the current order count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		writeError(w, r, "store unavailable", http.StatusInternalServerError)
		return
	}
	type response struct {
		Status string `json:"status"`
		Orders int    `json:"orders"`
	}
	writeJSON(w, response{Status: "ok", Orders: count})
}

// query handles POST /api/query: {query} → {answer}.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, r, "No query provided", http.StatusBadRequest)
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Query)
	if err != nil {
		log.Printf("query failed: %v", err)
		writeError(w, r, "failed to process query", http.StatusInternalServerError)
		return
	}

	type response struct {
		Answer string `json:"answer"`
	}
	writeJSON(w, response{Answer: answer})
}

// addOrderResponse is the wire shape for POST /api/add.
type addOrderResponse struct {
	Success bool   `json:"success"`
	OrderID int    `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// addOrder handles POST /api/add: order fields with server-side defaults.
func (h *Handler) addOrder(w http.ResponseWriter, r *http.Request) {
	var req app.AddOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.AddOrder(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrMissingField) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(addOrderResponse{Success: false, Error: err.Error()})
			return
		}
		log.Printf("add order failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(addOrderResponse{Success: false, Error: "failed to add order"})
		return
	}

	writeJSON(w, addOrderResponse{Success: true, OrderID: result.OrderID})
}

// decodeJSON decodes the request body into v; on failure it writes 413 for
// oversized bodies and 400 for anything else, and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
