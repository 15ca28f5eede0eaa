package app

import "context"

// ApplicationService is the single interface all UI adapters (REPL, Web)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// Answer runs one free-text query through the resolver pipeline.
	Answer(ctx context.Context, query string) (string, error)

	// AddOrder reserves an order id, fills defaults, computes totals and
	// persists the order.
	AddOrder(ctx context.Context, req AddOrderRequest) (*AddOrderResult, error)

	// Count returns the number of orders currently stored.
	Count(ctx context.Context) (int, error)

	// EnsureLoaded bulk-loads the CSV dataset if the store is empty.
	// Returns the resulting order count.
	EnsureLoaded(ctx context.Context) (int, error)

	// Reload clears the store and bulk-loads the CSV dataset from scratch.
	Reload(ctx context.Context) (int, error)
}
