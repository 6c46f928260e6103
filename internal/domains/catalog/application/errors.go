package application

import (
	"errors"
	"fmt"

	"github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrProductInUse blocks soft-deleting a product still referenced by order items.
	ErrProductInUse = errors.New("product is referenced by existing order items")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrTooManyImages) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
