package application

import (
	"errors"
	"fmt"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a workflow invariant
	// (empty product list, zero quantity, unknown status value).
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidState blocks mutations of orders in a terminal status.
	ErrInvalidState = errors.New("order is in a terminal state")
	// ErrInvalidRole rejects role-scoped queries for unrecognized callers.
	ErrInvalidRole = errors.New("invalid user role, only admin or vendor callers are allowed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrTerminalStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidItemStatus) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrEmptyCustomer) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
