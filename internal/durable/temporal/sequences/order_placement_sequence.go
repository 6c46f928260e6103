package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	orderactivities "github.com/shopsphere/commerce-api/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// convert a cart into a persisted order.
func RunOrderPlacementSequence(ctx workflow.Context, input ports.CreateOrderInput) (*ports.OrderWithItems, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "customerId", input.CustomerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result ports.OrderWithItems
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("order placement sequence failed", "customerId", input.CustomerID, "error", err)
		return nil, err
	}
	if result.Order != nil {
		logger.Info("order placement sequence completed", "order", result.Order.Code)
	} else {
		logger.Info("order placement sequence completed")
	}
	return &result, nil
}
