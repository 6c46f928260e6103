//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "commerce-api"
	ConsumerName = "storefront-portal"

	StateCatalogStocked = "catalog stocked for ordering"
	StateOrderExists    = "order O00301 exists"
	StateOrderMissing   = "no order with code O00999"
	StateStockScarce    = "product P-PACT-1 nearly out of stock"
)

const (
	ExistingOrderCode = "O00301"
	MissingOrderCode  = "O00999"
	// OrderSeedNumber makes the deterministic code generator emit
	// ExistingOrderCode for the first order of each provider state.
	OrderSeedNumber = 301

	ProductCode = "P-PACT-1"
	ProductName = "Pact Test Widget"
	VendorID    = "VEN-PACT-1"
	CustomerID  = "CUS-PACT-1"

	UnitPrice        = 24.5
	StockedQuantity  = 20
	ScarceQuantity   = 1
	OrderQuantity    = 2
	OversizeQuantity = 3
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderRequest provides the stable create-order payload used by the
// contract interactions.
func ExampleOrderRequest() map[string]any {
	return map[string]any{
		"customerId": CustomerID,
		"productList": []map[string]any{
			{"productId": ProductCode, "quantity": OrderQuantity},
		},
	}
}

// ExampleOversizeOrderRequest asks for more units than the scarce state holds.
func ExampleOversizeOrderRequest() map[string]any {
	return map[string]any{
		"customerId": CustomerID,
		"productList": []map[string]any{
			{"productId": ProductCode, "quantity": OversizeQuantity},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
