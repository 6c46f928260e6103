package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

type normalizedCreateOrder struct {
	CustomerID string           `json:"customerId"`
	Lines      []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// FingerprintCreateOrder builds a deterministic hash of the create-order
// payload, excluding the idempotency key itself. Line order is significant:
// the workflow processes lines in request order.
func FingerprintCreateOrder(input ports.CreateOrderInput) (string, error) {
	normalized := normalizedCreateOrder{
		CustomerID: input.CustomerID,
		Lines:      make([]normalizedLine, 0, len(input.Lines)),
	}
	for _, line := range input.Lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
