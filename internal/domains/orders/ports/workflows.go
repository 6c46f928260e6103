package ports

import "context"

// PlacementOrchestrator abstracts how order placement runs: inline against
// the service, or as a durable workflow on a Temporal cluster.
type PlacementOrchestrator interface {
	PlaceOrder(ctx context.Context, input CreateOrderInput) (*OrderWithItems, error)
}
