package domain

import (
	"errors"
	"time"
)

// Status enumerates order progression. The original flow accepted arbitrary
// strings; here unknown values are rejected at the boundary.
type Status string

const (
	StatusPurchased  Status = "Purchased"
	StatusCancelled  Status = "Cancelled"
	StatusDispatched Status = "Dispatched"
	StatusDelivered  Status = "Delivered"
)

// ItemStatus tracks an order item independently of its parent order.
type ItemStatus string

const (
	ItemStatusPurchased ItemStatus = "Purchased"
	ItemStatusShipped   ItemStatus = "Shipped"
	ItemStatusDelivered ItemStatus = "Delivered"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidItemStatus = errors.New("order item status is invalid")
	ErrTerminalStatus    = errors.New("order has already been dispatched or delivered")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativePrice     = errors.New("unit price must not be negative")
	ErrEmptyCustomer     = errors.New("customer id must not be empty")
)

// Order is the purchase aggregate. Code is the short customer-facing
// identifier ("O00423"); TotalPrice is always derived from the items.
type Order struct {
	ID         int64
	Code       string
	CustomerID string
	TotalPrice float64
	Status     Status
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem is one product line of an order. ProductName, VendorID and Price
// are snapshots taken at order time; they are never re-joined against the
// live product.
type OrderItem struct {
	ID          string
	OrderCode   string
	ProductCode string
	ProductName string
	VendorID    string
	Quantity    int
	Price       float64
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder validates and constructs an order in its initial state.
func NewOrder(code, customerID string) (*Order, error) {
	if customerID == "" {
		return nil, ErrEmptyCustomer
	}
	return &Order{
		Code:       code,
		CustomerID: customerID,
		Status:     StatusPurchased,
	}, nil
}

// NewOrderItem validates and constructs an order line from product snapshots.
func NewOrderItem(orderCode, productCode, productName, vendorID string, quantity int, price float64) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}
	return &OrderItem{
		OrderCode:   orderCode,
		ProductCode: productCode,
		ProductName: productName,
		VendorID:    vendorID,
		Quantity:    quantity,
		Price:       price,
		Status:      ItemStatusPurchased,
	}, nil
}

// Terminal reports whether the order refuses further item/price/status edits.
func (o *Order) Terminal() bool {
	return o.Status == StatusDispatched || o.Status == StatusDelivered
}

// Transition moves the order to a new status. Empty defaults to the current
// status; transitions out of a terminal status are refused.
func (o *Order) Transition(status Status) error {
	if status == "" {
		return nil
	}
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	if o.Terminal() {
		return ErrTerminalStatus
	}
	o.Status = status
	return nil
}

// MarkDelivered applies the derived all-items-delivered transition. It is the
// one path allowed to enter Delivered without the usual guard, because the
// caller has already established the order was mutable when the last item
// status changed.
func (o *Order) MarkDelivered() {
	o.Status = StatusDelivered
}

// TransitionItem moves the item to a new status.
func (i *OrderItem) TransitionItem(status ItemStatus) error {
	if !ValidItemStatus(status) {
		return ErrInvalidItemStatus
	}
	i.Status = status
	return nil
}

// ValidStatus reports whether the value is a member of the order status enum.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPurchased, StatusCancelled, StatusDispatched, StatusDelivered:
		return true
	default:
		return false
	}
}

// ValidItemStatus reports whether the value is a member of the item status enum.
func ValidItemStatus(status ItemStatus) bool {
	switch status {
	case ItemStatusPurchased, ItemStatusShipped, ItemStatusDelivered:
		return true
	default:
		return false
	}
}

// Subtotal is the line contribution to the order total.
func (i *OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// AllDelivered reports whether every item of an order has been delivered.
func AllDelivered(items []*OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Status != ItemStatusDelivered {
			return false
		}
	}
	return true
}
