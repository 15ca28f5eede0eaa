package core

import (
	"context"
	"strings"
	"unicode/utf8"
)

// OrderReader is the read surface the resolver needs from the order store.
// Split out so tests can wrap it with a spy.
type OrderReader interface {
	AllVendorNames(ctx context.Context) ([]string, error)
	OrdersByVendor(ctx context.Context, vendorName string) ([]VendorOrder, error)
	VendorItems(ctx context.Context, vendorName string) ([]string, error)
	VendorTotal(ctx context.Context, vendorName string) (float64, error)
	VendorGST(ctx context.Context, vendorName string) (string, error)
	Similar(ctx context.Context, text string, topK int) ([]SimilarOrder, error)
}

// Resolver answers a free-text query in a single pass: greeting
// short-circuit, vendor detection, then an ordered intent cascade over the
// vendor's stored metadata, falling back to similarity search when no
// vendor is recognized. It holds no state between requests.
type Resolver struct {
	reader OrderReader
}

func NewResolver(reader OrderReader) *Resolver {
	return &Resolver{reader: reader}
}

// Display caps per view.
const (
	maxFullOrders     = 3
	maxDetailedOrders = 5
	maxSummaryOrders  = 10
	maxDefaultOrders  = 3
	fallbackTopK      = 5
)

// conversationalPhrases get a canned reply without any store access.
var conversationalPhrases = map[string]bool{
	"thank you": true, "thanks": true, "thank u": true, "thankyou": true,
	"ok": true, "okay": true, "got it": true, "understood": true,
	"bye": true, "goodbye": true, "see you": true,
	"hi": true, "hello": true, "hey": true, "hii": true, "heyy": true,
	"hlo": true, "hola": true,
	"yes": true, "no": true, "maybe": true,
	"cool": true, "nice": true, "great": true, "awesome": true, "perfect": true,
}

const greetingResponse = `Hello! I'm your textile order assistant.

I can help you with:
• Order details
• Payment status
• Vendor information

What would you like to know?`

// vendorStoplist holds generic industry terms that alone never identify a
// vendor ("Sri Yarn Mills" must not be matched by the bare word "yarn").
var vendorStoplist = map[string]bool{
	"textiles": true, "traders": true, "mills": true, "fabrics": true,
	"spinning": true, "yarn": true, "tech": true,
}

// queryContext carries one request through the intent cascade.
type queryContext struct {
	raw    string
	lower  string
	vendor string // "" when no vendor was recognized
}

func (q *queryContext) has(substr string) bool {
	return strings.Contains(q.lower, substr)
}

func (q *queryContext) hasAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(q.lower, s) {
			return true
		}
	}
	return false
}

// intentRule is one row of the classification decision table. Rules are
// evaluated strictly in order; the first match wins. Keeping the cascade as
// an explicit list makes branch precedence auditable, which matters because
// several keyword sets overlap ("show" appears in more than one).
type intentRule struct {
	name    string
	matches func(q *queryContext) bool
	answer  func(r *Resolver, ctx context.Context, q *queryContext) (string, error)
}

var intentRules = []intentRule{
	{
		name:    "items",
		matches: func(q *queryContext) bool { return q.vendor != "" && q.has("item") },
		answer:  (*Resolver).answerItems,
	},
	{
		// Matches with or without a vendor; without one the handler falls
		// through to similarity search, matching the original precedence.
		name:    "total",
		matches: func(q *queryContext) bool { return q.hasAny("total", "amount", "spent") },
		answer:  (*Resolver).answerTotal,
	},
	{
		name:    "gst",
		matches: func(q *queryContext) bool { return q.vendor != "" && q.has("gst") },
		answer:  (*Resolver).answerGST,
	},
	{
		name: "details",
		matches: func(q *queryContext) bool {
			if q.vendor == "" {
				return false
			}
			return q.has("order") || q.has("detail") || q.has("payment") ||
				q.hasAny("show", "details", "get", "find", "list")
		},
		answer: (*Resolver).answerDetails,
	},
	{
		name:    "vendor-default",
		matches: func(q *queryContext) bool { return q.vendor != "" },
		answer:  (*Resolver).answerVendorDefault,
	},
	{
		name:    "similarity-fallback",
		matches: func(q *queryContext) bool { return true },
		answer:  (*Resolver).answerSimilar,
	},
}

// Answer processes one query to completion. Store failures propagate to the
// caller as errors; the request boundary converts them to a generic message.
func (r *Resolver) Answer(ctx context.Context, query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	lower := strings.ToLower(trimmed)

	if isGreeting(lower) {
		return greetingResponse, nil
	}

	vendor, err := r.FindVendor(ctx, query)
	if err != nil {
		return "", err
	}

	q := &queryContext{raw: trimmed, lower: lower, vendor: vendor}
	for _, rule := range intentRules {
		if rule.matches(q) {
			return rule.answer(r, ctx, q)
		}
	}
	return r.answerSimilar(ctx, q) // unreachable; the last rule always matches
}

// isGreeting reports whether the normalized input should short-circuit to
// the canned greeting: an exact conversational phrase, anything under 3
// characters, or a trivial hi/hey under 5 characters.
func isGreeting(lower string) bool {
	// Character counts, not byte lengths, so short non-ASCII inputs qualify.
	runes := utf8.RuneCountInString(lower)
	if conversationalPhrases[lower] || runes < 3 {
		return true
	}
	return runes < 5 && (strings.Contains(lower, "hi") || strings.Contains(lower, "hey"))
}

// FindVendor matches the query against the current vendor list, in
// ascending name order so ties resolve deterministically. Per vendor it
// tries three increasingly permissive rules: full-name substring, any two
// consecutive name words (joined fragment longer than 5 chars), then any
// single name word longer than 4 chars that is not a stoplisted generic
// term. Greedy first match; no scoring.
func (r *Resolver) FindVendor(ctx context.Context, query string) (string, error) {
	vendors, err := r.reader.AllVendorNames(ctx)
	if err != nil {
		return "", err
	}
	queryLower := strings.ToLower(query)
	for _, vendor := range vendors {
		if vendorMatches(strings.ToLower(vendor), queryLower) {
			return vendor, nil
		}
	}
	return "", nil
}

func vendorMatches(vendorLower, queryLower string) bool {
	if strings.Contains(queryLower, vendorLower) {
		return true
	}
	words := strings.Fields(vendorLower)
	if len(words) >= 2 {
		for i := 0; i+1 < len(words); i++ {
			partial := words[i] + " " + words[i+1]
			if len(partial) > 5 && strings.Contains(queryLower, partial) {
				return true
			}
		}
	}
	for _, word := range words {
		if len(word) > 4 && strings.Contains(queryLower, word) && !vendorStoplist[word] {
			return true
		}
	}
	return false
}

// Intent handlers.

func (r *Resolver) answerItems(ctx context.Context, q *queryContext) (string, error) {
	items, err := r.reader.VendorItems(ctx, q.vendor)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return renderNoRecords(q.vendor), nil
	}
	return renderItems(q.vendor, items), nil
}

func (r *Resolver) answerTotal(ctx context.Context, q *queryContext) (string, error) {
	if q.vendor == "" {
		return r.answerSimilar(ctx, q)
	}
	total, err := r.reader.VendorTotal(ctx, q.vendor)
	if err != nil {
		return "", err
	}
	if total == 0 {
		return renderNoRecords(q.vendor), nil
	}
	return renderTotal(q.vendor, total), nil
}

func (r *Resolver) answerGST(ctx context.Context, q *queryContext) (string, error) {
	gst, err := r.reader.VendorGST(ctx, q.vendor)
	if err != nil {
		return "", err
	}
	if gst == "" {
		return renderNoRecords(q.vendor), nil
	}
	return renderGST(q.vendor, gst), nil
}

// answerDetails handles the order-detail intent, itself an ordered
// sub-cascade over more specific views.
func (r *Resolver) answerDetails(ctx context.Context, q *queryContext) (string, error) {
	orders, err := r.reader.OrdersByVendor(ctx, q.vendor)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return renderNoRecords(q.vendor), nil
	}

	// Literal typo variants are part of the contract: users mistype these.
	hasPayment := q.hasAny("payment", "payemnt", "paymnt", "pymnt")
	hasStatus := q.hasAny("status", "sttaus", "staus", "stat")

	switch {
	case hasPayment && hasStatus:
		return renderPaymentStatus(q.vendor, orders), nil
	case q.has("gst") && q.has("number"):
		return renderGST(q.vendor, orders[0].Meta.GSTNumber), nil
	case q.has("date"):
		return renderDates(q.vendor, orders), nil
	case q.hasAny("full", "all", "complete", "everything", "comprehensive"):
		return renderFullDetails(q.vendor, orders), nil
	case q.hasAny("detail", "payment", "status", "show"):
		return renderDetailed(q.vendor, orders), nil
	default:
		return renderSummary(q.vendor, orders), nil
	}
}

func (r *Resolver) answerVendorDefault(ctx context.Context, q *queryContext) (string, error) {
	orders, err := r.reader.OrdersByVendor(ctx, q.vendor)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return renderNoRecords(q.vendor), nil
	}
	return renderVendorDefault(q.vendor, orders), nil
}

func (r *Resolver) answerSimilar(ctx context.Context, q *queryContext) (string, error) {
	hits, err := r.reader.Similar(ctx, q.raw, fallbackTopK)
	if err != nil {
		return "", err
	}
	return renderSimilar(hits), nil
}
