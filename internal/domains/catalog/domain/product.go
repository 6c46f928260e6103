package domain

import (
	"errors"
	"strings"
	"time"
)

const MaxImages = 5

var (
	ErrEmptyName        = errors.New("product name must not be empty")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeQuantity = errors.New("product quantity must not be negative")
	ErrTooManyImages    = errors.New("product cannot carry more than 5 images")
)

// Product is the catalog aggregate. Code is the short human-facing identifier
// (e.g. "P00917") used in all order-facing references; ID is the storage key.
type Product struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Price       float64
	Quantity    int
	CategoryID  string
	VendorID    string
	ImageURLs   []string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and constructs a catalog product.
func NewProduct(code, name string, price float64, quantity int, categoryID, vendorID string) (*Product, error) {
	p := &Product{
		Code:       strings.TrimSpace(code),
		Name:       strings.TrimSpace(name),
		Price:      price,
		Quantity:   quantity,
		CategoryID: categoryID,
		VendorID:   vendorID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if len(p.ImageURLs) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}

// AddImages appends image URLs while honoring the image cap.
func (p *Product) AddImages(urls ...string) error {
	if len(p.ImageURLs)+len(urls) > MaxImages {
		return ErrTooManyImages
	}
	p.ImageURLs = append(p.ImageURLs, urls...)
	return nil
}

// Deactivate marks the product soft-deleted. Referential checks against order
// items are the caller's responsibility.
func (p *Product) Deactivate() {
	p.Deleted = true
}
