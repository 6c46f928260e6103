package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	"github.com/shopsphere/commerce-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/shopsphere/commerce-api/internal/domains/orders/application"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	apierrors "github.com/shopsphere/commerce-api/internal/shared/errors"
	"github.com/shopsphere/commerce-api/internal/shared/httpauth"
)

// IdempotencyKeyHeader carries the client-chosen replay key for order creation.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the order workflow engine.
type OrderAPI struct {
	service   ports.Service
	workflows ports.PlacementOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service. The
// orchestrator is optional; when nil, order placement runs inline.
func NewOrderAPI(service ports.Service, workflows ports.PlacementOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /order
// Convert a cart into a persisted order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := ports.CreateOrderInput{
		CustomerID:     payload.CustomerID,
		Lines:          mapper.ToOrderLines(payload.ProductList),
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	result, err := api.placeOrder(c, input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromOrderWithItems(result))
}

func (api *OrderAPI) placeOrder(c *gin.Context, input ports.CreateOrderInput) (*ports.OrderWithItems, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(c.Request.Context(), input)
	}
	return api.service.CreateOrder(c.Request.Context(), input)
}

// Get /order
// List every order with items
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	result, err := api.service.GetAllOrders(c.Request.Context())
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromOrderWithItemsList(result))
}

// Get /order/:orderId
// Find one order by its code
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	result, err := api.service.GetOrderByCode(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromOrderWithItems(result))
}

// Get /order/getByCustomerId/:customerId
// List a customer's orders
func (api *OrderAPI) GetOrdersByCustomerID(c *gin.Context) {
	result, err := api.service.GetOrdersByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromOrderWithItemsList(result))
}

// Get /order/getByRole/:userId
// Role-scoped order view: admins see everything, vendors only their items
func (api *OrderAPI) GetOrdersByRole(c *gin.Context) {
	actor := ports.Actor{UserID: c.Param("userId"), Role: ports.Role(httpauth.RoleFromContext(c))}
	result, err := api.service.GetOrdersByRole(c.Request.Context(), actor)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromOrderWithItemsList(result))
}

// Put /order/:orderId
// Reconcile item quantities against current stock
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	var payload mapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := ports.UpdateOrderInput{
		OrderCode: c.Param("orderId"),
		Lines:     mapper.ToOrderLines(payload.ProductList),
	}
	updated, err := api.service.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(updated))
}

// Patch /order/updateStatus/:orderId
// Update status and/or note on a non-terminal order
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload mapper.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := ports.UpdateOrderStatusInput{
		OrderCode: c.Param("orderId"),
		NewStatus: payload.NewStatus,
		Note:      payload.Note,
	}
	updated, err := api.service.UpdateOrderStatus(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(updated))
}

// OrderItemAPI wires the order-item routes.
type OrderItemAPI struct {
	service ports.Service
}

func NewOrderItemAPI(service ports.Service) OrderItemAPI {
	return OrderItemAPI{service: service}
}

// Patch /orderItem/updateStatus/:id
// Move one item through its lifecycle; may cascade order delivery
func (api *OrderItemAPI) UpdateOrderItemStatus(c *gin.Context) {
	var payload mapper.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := api.service.UpdateOrderItemStatus(c.Request.Context(), c.Param("id"), payload.NewStatus)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainItem(updated))
}

// Get /orderItem
// List every order item
func (api *OrderItemAPI) GetAllOrderItems(c *gin.Context) {
	items, err := api.service.ListOrderItems(c.Request.Context())
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainItems(items))
}

// Get /orderItem/:id
// Find one order item
func (api *OrderItemAPI) GetOrderItemByID(c *gin.Context) {
	item, err := api.service.GetOrderItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainItem(item))
}

// Get /orderItem/getItemByOrderProductIds/:orderId/:productId
// Resolve the item for an (order, product) pair
func (api *OrderItemAPI) GetOrderItemByOrderAndProduct(c *gin.Context) {
	item, err := api.service.GetOrderItemByOrderAndProduct(c.Request.Context(), c.Param("orderId"), c.Param("productId"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainItem(item))
}

// Delete /orderItem/:id
// Remove one order item
func (api *OrderItemAPI) DeleteOrderItem(c *gin.Context) {
	if err := api.service.DeleteOrderItem(c.Request.Context(), c.Param("id")); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Status(nethttp.StatusOK)
}

// orderResponder renders order workflow errors as RFC 7807 problems. Errors
// no mapper claims fall through to the responder's internal-error default.
var orderResponder = apierrors.NewChainedResponder("", orderErrorMapper)

func orderErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	var stockErr *catalogports.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return apierrors.NewInsufficientStockProblem(
			stockErr.ProductCode, stockErr.Available, stockErr.Requested), true
	case errors.Is(err, ports.ErrOrderNotFound),
		errors.Is(err, ports.ErrItemNotFound),
		errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidState):
		return apierrors.ErrInvalidState.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput), errors.Is(err, ordersapp.ErrInvalidRole):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	orderResponder.RespondError(c, err)
}
