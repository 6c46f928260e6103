package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	"github.com/shopsphere/commerce-api/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command ports.CreateOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to persist an order.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ports.OrderWithItems, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "customerId", input.Command.CustomerID)...)
	result, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "customerId", input.Command.CustomerID, "error", err)...)
		return nil, err
	}
	if result != nil && result.Order != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "order", result.Order.Code)...)
	} else {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID)...)
	}
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
