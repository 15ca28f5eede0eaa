package core_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"textile-assistant/internal/core"
)

// readerSpy serves canned vendor data and records which methods were called.
type readerSpy struct {
	vendors []string
	orders  map[string][]core.VendorOrder
	similar []core.SimilarOrder
	calls   []string
}

func (s *readerSpy) AllVendorNames(ctx context.Context) ([]string, error) {
	s.calls = append(s.calls, "AllVendorNames")
	return s.vendors, nil
}

func (s *readerSpy) OrdersByVendor(ctx context.Context, vendorName string) ([]core.VendorOrder, error) {
	s.calls = append(s.calls, "OrdersByVendor")
	return s.orders[vendorName], nil
}

func (s *readerSpy) VendorItems(ctx context.Context, vendorName string) ([]string, error) {
	s.calls = append(s.calls, "VendorItems")
	seen := make(map[string]bool)
	var items []string
	for _, o := range s.orders[vendorName] {
		if !seen[o.Meta.ItemName] {
			seen[o.Meta.ItemName] = true
			items = append(items, o.Meta.ItemName)
		}
	}
	sort.Strings(items)
	return items, nil
}

func (s *readerSpy) VendorTotal(ctx context.Context, vendorName string) (float64, error) {
	s.calls = append(s.calls, "VendorTotal")
	var total float64
	for _, o := range s.orders[vendorName] {
		total += o.Meta.TotalInvoiceAmount
	}
	return total, nil
}

func (s *readerSpy) VendorGST(ctx context.Context, vendorName string) (string, error) {
	s.calls = append(s.calls, "VendorGST")
	orders := s.orders[vendorName]
	if len(orders) == 0 {
		return "", nil
	}
	return orders[0].Meta.GSTNumber, nil
}

func (s *readerSpy) Similar(ctx context.Context, text string, topK int) ([]core.SimilarOrder, error) {
	s.calls = append(s.calls, "Similar")
	if len(s.similar) > topK {
		return s.similar[:topK], nil
	}
	return s.similar, nil
}

func vendorOrder(orderID, vendor, item, date, status, gst string, total float64) core.VendorOrder {
	return core.VendorOrder{
		Meta: core.OrderMeta{
			OrderID:            orderID,
			InvoiceNo:          "INV-1000" + orderID,
			VendorName:         vendor,
			GSTNumber:          gst,
			ItemName:           item,
			ItemCategory:       "General",
			OrderDate:          date,
			PaymentStatus:      status,
			TotalInvoiceAmount: total,
		},
		Document: "Order ID: " + orderID + "\nVendor: " + vendor + "\nItem: " + item,
	}
}

func newSpy() *readerSpy {
	return &readerSpy{
		vendors: []string{"Lakshmi Fabrics", "Murugan Spinning Mills", "Sakthi Traders"},
		orders: map[string][]core.VendorOrder{
			"Sakthi Traders": {
				vendorOrder("1", "Sakthi Traders", "Cotton Yarn", "2024-01-05", "Paid", "33AAAAA0000A1Z5", 118),
				vendorOrder("2", "Sakthi Traders", "Dyed Fabric", "2024-02-10", "Pending", "33AAAAA0000A1Z5", 118),
			},
			"Murugan Spinning Mills": {
				vendorOrder("3", "Murugan Spinning Mills", "Silk Thread", "2024-03-01", "Paid", "33BBBBB0000B1Z5", 590),
			},
		},
	}
}

func TestResolver_GreetingShortCircuit(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "exact phrase", query: "thank you"},
		{name: "phrase with capitals", query: "  Thanks "},
		{name: "bare hello", query: "hello"},
		{name: "under three chars", query: "yo"},
		{name: "short non-ascii", query: "嗨"},
		{name: "short hey variant", query: "hey!"},
		{name: "empty", query: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := newSpy()
			r := core.NewResolver(spy)

			answer, err := r.Answer(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Answer: %v", err)
			}
			if !strings.Contains(answer, "textile order assistant") {
				t.Errorf("expected greeting, got %q", answer)
			}
			if len(spy.calls) != 0 {
				t.Errorf("greeting touched the store: %v", spy.calls)
			}
		})
	}
}

func TestResolver_FindVendor(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "full name", query: "show orders for sakthi traders", want: "Sakthi Traders"},
		{name: "full name mixed case", query: "Orders from SAKTHI TRADERS please", want: "Sakthi Traders"},
		{name: "two consecutive words", query: "anything from murugan spinning?", want: "Murugan Spinning Mills"},
		{name: "single distinctive word", query: "what did sakthi buy", want: "Sakthi Traders"},
		{name: "stoplist word alone", query: "show me the mills orders", want: ""},
		{name: "generic traders alone", query: "which traders do we use", want: ""},
		{name: "short word ignored", query: "yarn prices", want: ""},
		{name: "no vendor at all", query: "pending payments this month", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := core.NewResolver(newSpy())
			got, err := r.FindVendor(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("FindVendor: %v", err)
			}
			if got != tt.want {
				t.Errorf("FindVendor(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestResolver_FindVendor_Deterministic(t *testing.T) {
	// Two vendors share the word "anand"; the list is sorted, so the first
	// alphabetically must win every time.
	spy := &readerSpy{vendors: []string{"Anand Textiles", "Anand Traders"}}
	r := core.NewResolver(spy)

	for i := 0; i < 10; i++ {
		got, err := r.FindVendor(context.Background(), "orders from anand")
		if err != nil {
			t.Fatalf("FindVendor: %v", err)
		}
		if got != "Anand Textiles" {
			t.Fatalf("run %d: FindVendor = %q, want %q", i, got, "Anand Textiles")
		}
	}
}

func TestResolver_Answer_Intents(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains []string
	}{
		{
			name:     "items",
			query:    "what items did sakthi supply",
			contains: []string{"Items ordered by Sakthi Traders:", "• Cotton Yarn", "• Dyed Fabric"},
		},
		{
			name:     "total",
			query:    "total amount spent on sakthi traders",
			contains: []string{"Total amount spent by Sakthi Traders: ₹236.00"},
		},
		{
			name:     "gst",
			query:    "gst number of sakthi traders",
			contains: []string{"GST Number of Sakthi Traders: 33AAAAA0000A1Z5"},
		},
		{
			name:     "payment status",
			query:    "payment status of sakthi orders",
			contains: []string{"Payment Status for Sakthi Traders:", "1. Order 1 - Payment: Paid", "2. Order 2 - Payment: Pending"},
		},
		{
			name:     "payment status typo",
			query:    "payemnt staus for sakthi orders",
			contains: []string{"Payment Status for Sakthi Traders:"},
		},
		{
			name:     "order dates",
			query:    "order dates for sakthi",
			contains: []string{"Order Dates for Sakthi Traders:", "1. Order 1 - Date: 2024-01-05"},
		},
		{
			name:     "full details",
			query:    "show full details for sakthi orders",
			contains: []string{"COMPLETE Details for Sakthi Traders (2 total orders):", "ORDER #1"},
		},
		{
			name:     "detailed view",
			query:    "show orders for sakthi",
			contains: []string{"Detailed Orders for Sakthi Traders (2 total):", "Tip: Use 'full details'"},
		},
		{
			name:     "summary view",
			query:    "list orders of sakthi",
			contains: []string{"Found 2 orders for Sakthi Traders:", "1. Order 1 - Cotton Yarn - ₹118.00"},
		},
		{
			name:     "vendor only",
			query:    "sakthi traders",
			contains: []string{"Orders for Sakthi Traders (2 total):"},
		},
		{
			name:     "vendor with no orders",
			query:    "show orders for lakshmi fabrics",
			contains: []string{"No records found for Lakshmi Fabrics."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := core.NewResolver(newSpy())
			answer, err := r.Answer(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Answer: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(answer, want) {
					t.Errorf("answer missing %q:\n%s", want, answer)
				}
			}
		})
	}
}

func TestResolver_Answer_SimilarityFallback(t *testing.T) {
	spy := newSpy()
	spy.similar = []core.SimilarOrder{
		{Meta: core.OrderMeta{VendorName: "Sakthi Traders", ItemName: "Cotton Yarn", TotalInvoiceAmount: 118}, Distance: 0.1},
		{Meta: core.OrderMeta{VendorName: "Murugan Spinning Mills", ItemName: "Silk Thread", TotalInvoiceAmount: 590}, Distance: 0.4},
	}
	r := core.NewResolver(spy)

	answer, err := r.Answer(context.Background(), "which purchases involved dyed material")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(answer, "Here are the relevant orders:") {
		t.Errorf("expected similarity answer, got %q", answer)
	}
	if !strings.Contains(answer, "1. Sakthi Traders - Cotton Yarn - ₹118.00") {
		t.Errorf("nearest hit not listed first:\n%s", answer)
	}

	found := false
	for _, call := range spy.calls {
		if call == "Similar" {
			found = true
		}
	}
	if !found {
		t.Errorf("similarity search never invoked: %v", spy.calls)
	}
}

func TestResolver_Answer_TotalWithoutVendorFallsBack(t *testing.T) {
	spy := newSpy()
	r := core.NewResolver(spy)

	answer, err := r.Answer(context.Background(), "total spent last month")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "No records found for the requested information." {
		t.Errorf("unexpected answer: %q", answer)
	}
	for _, call := range spy.calls {
		if call == "VendorTotal" {
			t.Errorf("VendorTotal called without a vendor")
		}
	}
}

func TestResolver_Answer_EmptySimilarity(t *testing.T) {
	spy := newSpy()
	r := core.NewResolver(spy)

	answer, err := r.Answer(context.Background(), "completely unrelated question")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "No records found for the requested information." {
		t.Errorf("unexpected answer: %q", answer)
	}
}
