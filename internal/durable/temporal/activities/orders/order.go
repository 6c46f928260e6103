package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	ordersapp "github.com/shopsphere/commerce-api/internal/domains/orders/application"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName persists an order through the workflow engine.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the order workflow engine into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the full order-creation sequence. Business rejections are
// marked non-retryable: retrying a failed stock reservation would deduct
// stock again for lines that already succeeded.
func (a *Activities) PlaceOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderWithItems, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", input.CustomerID, "lines", len(input.Lines))
	result, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "customerId", input.CustomerID, "error", err)
		if isBusinessRejection(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "OrderRejected", err)
		}
		return nil, err
	}
	if result != nil && result.Order != nil {
		logger.Info("PlaceOrder activity completed", "order", result.Order.Code)
	}
	return result, nil
}

func isBusinessRejection(err error) bool {
	var stockErr *catalogports.InsufficientStockError
	return errors.As(err, &stockErr) ||
		errors.Is(err, ordersapp.ErrInvalidInput) ||
		errors.Is(err, ordersapp.ErrInvalidState) ||
		errors.Is(err, catalogports.ErrNotFound) ||
		errors.Is(err, ports.ErrOrderNotFound) ||
		errors.Is(err, ports.ErrIdempotencyConflict)
}
