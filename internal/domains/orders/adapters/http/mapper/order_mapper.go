package mapper

import (
	"time"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

// ProductLine is the transport shape of one requested product/quantity pair.
type ProductLine struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest is the POST /order payload.
type CreateOrderRequest struct {
	CustomerID  string        `json:"customerId" binding:"required"`
	ProductList []ProductLine `json:"productList" binding:"required"`
}

// UpdateOrderRequest is the PUT /order/:orderId payload.
type UpdateOrderRequest struct {
	ProductList []ProductLine `json:"productList" binding:"required"`
}

// UpdateOrderStatusRequest is the PATCH /order/updateStatus/:orderId payload.
// Both fields are optional; empty fields leave the stored value unchanged.
type UpdateOrderStatusRequest struct {
	NewStatus string `json:"newStatus"`
	Note      string `json:"note"`
}

// UpdateItemStatusRequest is the PATCH /orderItem/updateStatus/:id payload.
type UpdateItemStatusRequest struct {
	NewStatus string `json:"newStatus" binding:"required"`
}

// Order is the transport representation of an order.
type Order struct {
	ID         int64     `json:"id"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OrderItem is the transport representation of one order line.
type OrderItem struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	VendorID    string    `json:"vendorId"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderWithItems is an order plus its (possibly role-filtered) item list.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// ToOrderLines converts transport lines into workflow input.
func ToOrderLines(lines []ProductLine) []ports.OrderLine {
	out := make([]ports.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ports.OrderLine{ProductCode: line.ProductID, Quantity: line.Quantity})
	}
	return out
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:         order.ID,
		OrderID:    order.Code,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		Note:       order.Note,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

// FromDomainItem converts a domain order item to the transport representation.
func FromDomainItem(item *domain.OrderItem) OrderItem {
	if item == nil {
		return OrderItem{}
	}
	return OrderItem{
		ID:          item.ID,
		OrderID:     item.OrderCode,
		ProductID:   item.ProductCode,
		ProductName: item.ProductName,
		VendorID:    item.VendorID,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// FromDomainItems converts a slice of order items.
func FromDomainItems(items []*domain.OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

// FromOrderWithItems converts the joined projection.
func FromOrderWithItems(entry *ports.OrderWithItems) OrderWithItems {
	if entry == nil {
		return OrderWithItems{}
	}
	return OrderWithItems{
		Order: FromDomainOrder(entry.Order),
		Items: FromDomainItems(entry.Items),
	}
}

// FromOrderWithItemsList converts a list of joined projections.
func FromOrderWithItemsList(entries []*ports.OrderWithItems) []OrderWithItems {
	out := make([]OrderWithItems, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromOrderWithItems(entry))
	}
	return out
}
