package core

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"textile-assistant/internal/embedding"
	"textile-assistant/internal/vectorstore"
)

// VendorOrder pairs a stored metadata record with its rendered document.
type VendorOrder struct {
	Meta     OrderMeta
	Document string
}

// SimilarOrder is one similarity-search hit, ordered by increasing distance.
type SimilarOrder struct {
	Meta     OrderMeta
	Document string
	Distance float64
}

// OrderStore wraps the vector store and the embedder with order semantics:
// it owns the mapping from order id to (document, metadata) and hands out
// order ids from an atomically reserved sequence.
type OrderStore struct {
	store     vectorstore.Store
	embedder  embedding.Embedder
	opTimeout time.Duration
	nextID    atomic.Int64
}

// NewOrderStore initializes the backing collection for the embedder's
// dimension and seeds the id sequence from the current record count.
func NewOrderStore(ctx context.Context, store vectorstore.Store, embedder embedding.Embedder, opTimeout time.Duration) (*OrderStore, error) {
	if opTimeout <= 0 {
		opTimeout = 15 * time.Second
	}
	s := &OrderStore{store: store, embedder: embedder, opTimeout: opTimeout}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := store.Init(octx, embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	n, err := store.Count(octx)
	if err != nil {
		return nil, fmt.Errorf("seed order id sequence: %w", err)
	}
	s.nextID.Store(int64(n))
	return s, nil
}

// NextOrderID reserves and returns the next order id. Reservation is atomic,
// so concurrent writers cannot be handed the same id.
func (s *OrderStore) NextOrderID() int {
	return int(s.nextID.Add(1))
}

// AddOrder embeds the order's document and inserts it under order_{id}.
// The backing store rejects duplicate ids.
func (s *OrderStore) AddOrder(ctx context.Context, o *Order) error {
	octx, cancel := s.opCtx(ctx)
	defer cancel()

	doc := o.Document()
	vectors, err := s.embedder.Embed(octx, []string{doc})
	if err != nil {
		return fmt.Errorf("embed order %d: %w", o.OrderID, err)
	}
	rec := vectorstore.Record{
		ID:       fmt.Sprintf("order_%d", o.OrderID),
		Document: doc,
		Metadata: o.Metadata(),
		Vector:   vectors[0],
	}
	if err := s.store.Add(octx, []vectorstore.Record{rec}); err != nil {
		return fmt.Errorf("store order %d: %w", o.OrderID, err)
	}
	s.bumpSequence(o.OrderID)
	return nil
}

// BulkLoad inserts orders in batches. There is no atomicity across batches:
// a mid-load failure leaves the earlier batches in the store.
func (s *OrderStore) BulkLoad(ctx context.Context, orders []Order, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(orders); start += batchSize {
		end := start + batchSize
		if end > len(orders) {
			end = len(orders)
		}
		batch := orders[start:end]

		docs := make([]string, len(batch))
		for i := range batch {
			docs[i] = batch[i].Document()
		}
		octx, cancel := s.opCtx(ctx)
		vectors, err := s.embedder.Embed(octx, docs)
		if err != nil {
			cancel()
			return fmt.Errorf("embed batch at %d: %w", start, err)
		}
		records := make([]vectorstore.Record, len(batch))
		for i := range batch {
			records[i] = vectorstore.Record{
				ID:       fmt.Sprintf("order_%d", batch[i].OrderID),
				Document: docs[i],
				Metadata: batch[i].Metadata(),
				Vector:   vectors[i],
			}
		}
		err = s.store.Add(octx, records)
		cancel()
		if err != nil {
			return fmt.Errorf("store batch at %d: %w", start, err)
		}
		for i := range batch {
			s.bumpSequence(batch[i].OrderID)
		}
	}
	return nil
}

// OrdersByVendor returns the stored records whose vendor_name matches exactly.
func (s *OrderStore) OrdersByVendor(ctx context.Context, vendorName string) ([]VendorOrder, error) {
	return s.filteredGet(ctx, map[string]string{"vendor_name": vendorName})
}

// OrdersByDate returns the stored records whose order_date matches exactly.
func (s *OrderStore) OrdersByDate(ctx context.Context, date string) ([]VendorOrder, error) {
	return s.filteredGet(ctx, map[string]string{"order_date": date})
}

func (s *OrderStore) filteredGet(ctx context.Context, filter map[string]string) ([]VendorOrder, error) {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	records, err := s.store.Get(octx, filter)
	if err != nil {
		return nil, fmt.Errorf("filtered get: %w", err)
	}
	out := make([]VendorOrder, 0, len(records))
	for _, r := range records {
		out = append(out, VendorOrder{Meta: metaFromMap(r.Metadata), Document: r.Document})
	}
	return out, nil
}

// AllVendorNames scans the whole store and returns the distinct vendor
// names sorted ascending. O(total orders) per call; fine at thousands of
// orders, which is the intended scale.
func (s *OrderStore) AllVendorNames(ctx context.Context) ([]string, error) {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	records, err := s.store.Get(octx, nil)
	if err != nil {
		return nil, fmt.Errorf("scan vendor names: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		name := asString(r.Metadata["vendor_name"])
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// VendorItems returns the distinct item names ordered from a vendor, sorted.
func (s *OrderStore) VendorItems(ctx context.Context, vendorName string) ([]string, error) {
	orders, err := s.OrdersByVendor(ctx, vendorName)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var items []string
	for _, o := range orders {
		if o.Meta.ItemName != "" && !seen[o.Meta.ItemName] {
			seen[o.Meta.ItemName] = true
			items = append(items, o.Meta.ItemName)
		}
	}
	sort.Strings(items)
	return items, nil
}

// VendorTotal sums total_invoice_amount over the vendor's orders.
// Unknown or orderless vendors total zero.
func (s *OrderStore) VendorTotal(ctx context.Context, vendorName string) (float64, error) {
	orders, err := s.OrdersByVendor(ctx, vendorName)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		total += o.Meta.TotalInvoiceAmount
	}
	return total, nil
}

// VendorGST returns the vendor's GST number from its first stored record,
// or "" when the vendor has no orders.
func (s *OrderStore) VendorGST(ctx context.Context, vendorName string) (string, error) {
	orders, err := s.OrdersByVendor(ctx, vendorName)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return "", nil
	}
	return orders[0].Meta.GSTNumber, nil
}

// Similar embeds the query text and returns the nearest stored orders,
// ordered by increasing distance. No exactness guarantee.
func (s *OrderStore) Similar(ctx context.Context, text string, topK int) ([]SimilarOrder, error) {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	vectors, err := s.embedder.Embed(octx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.store.Search(octx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	out := make([]SimilarOrder, 0, len(hits))
	for _, h := range hits {
		out = append(out, SimilarOrder{
			Meta:     metaFromMap(h.Metadata),
			Document: h.Document,
			Distance: h.Distance,
		})
	}
	return out, nil
}

// Count returns the number of stored orders.
func (s *OrderStore) Count(ctx context.Context) (int, error) {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.store.Count(octx)
}

// Reset drops all orders and rewinds the id sequence.
func (s *OrderStore) Reset(ctx context.Context) error {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.store.Reset(octx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.nextID.Store(0)
	return nil
}

// bumpSequence raises the sequence to at least id, so ids loaded from CSV
// (which carry their own numbering) never collide with reserved ones.
func (s *OrderStore) bumpSequence(id int) {
	for {
		cur := s.nextID.Load()
		if int64(id) <= cur || s.nextID.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

func (s *OrderStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}
